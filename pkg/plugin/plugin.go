// Package plugin defines the YAML descriptor for one detection plugin: a
// template-engine or language probe set grouped under a category.
package plugin

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Plugin identifies one unit of detection capability. Category is assigned by
// the loader from the directory (or manifest entry) the unit was discovered
// under, never from the file content.
type Plugin struct {
	Id        string    `yaml:"id"`
	Category  string    `yaml:"-"`
	Probes    []Probe   `yaml:"probes"`
	Detection Detection `yaml:"detection"`
	Info      Info      `yaml:"info"`
}

// Probe is one inject/render pair. Inject and Render may carry the tokens
// {r1}, {r2} and {r1*r2}; the engine substitutes fresh random integers per
// probe so a match can never collide with static page content.
type Probe struct {
	Inject string `yaml:"inject"`
	Render string `yaml:"render"`
}

// Detection tunes how a probe response is judged. With neither field set the
// response body must contain the expanded render value.
type Detection struct {
	// Expression is a CEL program over `status` (int), `body` (string) and
	// `render` (string).
	Expression string `yaml:"expression"`
	// Pattern is a regexp2 pattern; the literal `{{render}}` is replaced with
	// the quoted expanded render value before compilation.
	Pattern string `yaml:"pattern"`
}

type Info struct {
	Name        string   `yaml:"name"`
	Author      string   `yaml:"author"`
	Severity    string   `yaml:"severity"`
	Description string   `yaml:"description"`
	Reference   []string `yaml:"reference"`
}

// Key returns the registry addressing form <category>/<id>.
func (p *Plugin) Key() string {
	return p.Category + "/" + p.Id
}

// Expand substitutes the random tokens of a probe.
func (pr Probe) Expand(r1, r2 int64) (payload string, expected string) {
	return expandTokens(pr.Inject, r1, r2), expandTokens(pr.Render, r1, r2)
}

func expandTokens(s string, r1, r2 int64) string {
	s = strings.ReplaceAll(s, "{r1*r2}", strconv.FormatInt(r1*r2, 10))
	s = strings.ReplaceAll(s, "{r1}", strconv.FormatInt(r1, 10))
	s = strings.ReplaceAll(s, "{r2}", strconv.FormatInt(r2, 10))
	return s
}

// Read parses a plugin descriptor from raw YAML.
func Read(data []byte) (*Plugin, error) {
	p := &Plugin{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrap(err, "invalid plugin yaml")
	}
	if len(p.Id) == 0 {
		return nil, errors.New("plugin descriptor missing id")
	}
	if len(p.Probes) == 0 {
		return nil, errors.Errorf("plugin %s has no probes", p.Id)
	}
	return p, nil
}

// ReadFile parses a plugin descriptor from disk.
func ReadFile(path string) (*Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Read(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return p, nil
}
