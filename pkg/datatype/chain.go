package datatype

import (
	"encoding/base64"
	"net/url"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// chainDescriptor is the on-disk YAML form of a derived encoder: a base
// encoder plus ordered wrap steps applied to its output.
type chainDescriptor struct {
	Name        string   `yaml:"name"`
	Base        string   `yaml:"base"`
	ContentType string   `yaml:"content_type"`
	Steps       []string `yaml:"steps"`
}

// Chain is a DataType assembled from a chainDescriptor.
type Chain struct {
	name        string
	contentType string
	base        DataType
	steps       []func([]byte) []byte
}

func (c *Chain) Name() string { return c.name }

func (c *Chain) ContentType() string {
	if len(c.contentType) > 0 {
		return c.contentType
	}
	return c.base.ContentType()
}

func (c *Chain) Encode(params map[string]string) ([]byte, error) {
	body, err := c.base.Encode(params)
	if err != nil {
		return nil, err
	}
	for _, step := range c.steps {
		body = step(body)
	}
	return body, nil
}

// Lookup resolves an encoder name to an already registered DataType.
type Lookup func(name string) (DataType, bool)

// ReadChain parses a derived encoder from raw YAML, resolving its base
// through lookup.
func ReadChain(data []byte, lookup Lookup) (*Chain, error) {
	d := chainDescriptor{}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "invalid data-type yaml")
	}
	if len(d.Name) == 0 {
		return nil, errors.New("data-type descriptor missing name")
	}

	base, ok := lookup(d.Base)
	if !ok {
		return nil, errors.Errorf("data-type %s references unknown base %q", d.Name, d.Base)
	}

	chain := &Chain{name: d.Name, contentType: d.ContentType, base: base}
	for _, step := range d.Steps {
		fn, ok := wrapSteps[step]
		if !ok {
			return nil, errors.Errorf("data-type %s references unknown step %q", d.Name, step)
		}
		chain.steps = append(chain.steps, fn)
	}
	return chain, nil
}

// ReadChainFile parses a derived encoder from disk.
func ReadChainFile(path string, lookup Lookup) (*Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	chain, err := ReadChain(data, lookup)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return chain, nil
}

var wrapSteps = map[string]func([]byte) []byte{
	"base64": func(b []byte) []byte {
		out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
		base64.StdEncoding.Encode(out, b)
		return out
	},
	"url": func(b []byte) []byte {
		return []byte(url.QueryEscape(string(b)))
	},
}
