package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/sstimap/sstimap/pkg/utils"
)

// Config is a sstimap-config.yaml catalog helper implementation
type Config struct {
	HTTP ConfigHttp `yaml:"http"`
	Scan ConfigScan `yaml:"scan"`
}

type ConfigHttp struct {
	UserAgent           string `yaml:"user_agent"`
	MaxResponseBodySize int    `yaml:"max_responsebody_size"`
	FollowRedirects     bool   `yaml:"follow_redirects"`
}

type ConfigScan struct {
	// Marker replaces the `*` injection point in user supplied data.
	Marker string `yaml:"marker"`
	// RepeatProbes resends every probe this many times before giving up.
	RepeatProbes int `yaml:"repeat_probes"`
}

const sstimapConfigFilename = "sstimap-config.yaml"

// New creates and initializes the sstimap-config.yaml configuration info,
// writing a default file on first run.
func New() (*Config, error) {
	if isExistConfigFile() != nil {
		c := Config{}
		c.HTTP.UserAgent = ""
		c.HTTP.MaxResponseBodySize = 2
		c.HTTP.FollowRedirects = true
		c.Scan.Marker = "*"
		c.Scan.RepeatProbes = 1

		if err := WriteConfiguration(&c); err != nil {
			return nil, err
		}
	}
	return ReadConfiguration()
}

func isExistConfigFile() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "could not get home directory")
	}

	configFile := filepath.Join(homeDir, ".config", "sstimap", sstimapConfigFilename)
	if utils.Exists(configFile) {
		return nil
	}

	return errors.New("could not get config file")
}

func getConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not get home directory")
	}

	configDir := filepath.Join(homeDir, ".config", "sstimap")
	_ = os.MkdirAll(configDir, 0755)

	return filepath.Join(configDir, sstimapConfigFilename), nil
}

// ReadConfiguration reads the sstimap configuration file from disk.
func ReadConfiguration() (*Config, error) {
	configFile, err := getConfigFile()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := &Config{}
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}

// WriteConfiguration writes the updated sstimap configuration to disk
func WriteConfiguration(config *Config) error {
	configYAML, err := yaml.Marshal(&config)
	if err != nil {
		return err
	}

	configFile, err := getConfigFile()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(configFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(configYAML); err != nil {
		return err
	}
	return nil
}
