// Package sstimap exposes the scan engine as a library. The command line
// frontend lives under cmd/sstimap.
package sstimap

import (
	"fmt"

	"github.com/sstimap/sstimap/pkg/config"
	"github.com/sstimap/sstimap/pkg/extension"
	"github.com/sstimap/sstimap/pkg/result"
	"github.com/sstimap/sstimap/pkg/scan"
)

// Scanner is the embedding surface. Zero values fall back to the same
// defaults the command line uses.
type Scanner struct {
	Target       string
	UrlsFile     string
	FormsFile    string
	Method       string
	BodyType     string
	Cookie       string
	Proxy        string
	PluginsDir   string
	DataTypesDir string
	RateLimit    int
	Concurrency  int
	Retries      int
	Timeout      int
	Silent       bool

	// OnResult overrides the default console printer.
	OnResult scan.OnResult
}

// NewScanner runs one scan with the given options and returns the confirmed
// findings.
func NewScanner(opt Scanner) ([]*result.Result, error) {
	options := &config.Options{
		Target:       opt.Target,
		LoadUrls:     opt.UrlsFile,
		LoadForms:    opt.FormsFile,
		Method:       opt.withMethod(),
		BodyType:     opt.withBodyType(),
		Cookie:       opt.Cookie,
		Proxy:        opt.Proxy,
		PluginsDir:   opt.PluginsDir,
		DataTypesDir: opt.DataTypesDir,
		RateLimit:    opt.withRateLimit(),
		Concurrency:  opt.withConcurrency(),
		Retries:      opt.withRetries(),
		Timeout:      opt.withTimeout(),
		Silent:       opt.Silent,
	}

	if !options.HasTargetInput() {
		return nil, fmt.Errorf("either `Target`, `UrlsFile` or `FormsFile` must be set")
	}

	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	options.Config = cfg

	registry, err := extension.NewLoader(options.PluginsDir, options.DataTypesDir).Populate()
	if err != nil {
		return nil, err
	}

	engine, err := scan.NewEngine(options, registry)
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	if opt.OnResult != nil {
		engine.OnResult = opt.OnResult
	}

	return engine.Execute()
}

func (s *Scanner) withMethod() string {
	if len(s.Method) > 0 {
		return s.Method
	}
	return "GET"
}

func (s *Scanner) withBodyType() string {
	if len(s.BodyType) > 0 {
		return s.BodyType
	}
	return "form"
}

func (s *Scanner) withRateLimit() int {
	if s.RateLimit > 0 {
		return s.RateLimit
	}
	return config.DefaultRateLimit
}

func (s *Scanner) withConcurrency() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return config.DefaultConcurrency
}

func (s *Scanner) withRetries() int {
	if s.Retries > 0 {
		return s.Retries
	}
	return config.DefaultRetries
}

func (s *Scanner) withTimeout() int {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return config.DefaultTimeout
}
