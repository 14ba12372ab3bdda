// Package extension discovers and registers the pluggable units of the
// scanner: detection plugins (grouped by category) and request-body data
// types. Registries are populated once at startup and sealed; every consumer
// receives the registry value explicitly.
package extension

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/sstimap/sstimap/pkg/datatype"
	"github.com/sstimap/sstimap/pkg/plugin"
)

// Registry holds the discovered plugins keyed by category and the discovered
// data-type encoders keyed by name. Writes are only legal between NewRegistry
// and Seal; afterwards the value is read-only for the process lifetime.
type Registry struct {
	mu     sync.RWMutex
	sealed bool

	plugins   map[string][]*plugin.Plugin
	dataTypes map[string]datatype.DataType
}

func NewRegistry() *Registry {
	return &Registry{
		plugins:   make(map[string][]*plugin.Plugin),
		dataTypes: make(map[string]datatype.DataType),
	}
}

var errSealed = errors.New("registry is sealed")

// RegisterPlugin adds a plugin under its category. The category key is
// created on first registration, so a category exists iff at least one unit
// under it loaded.
func (r *Registry) RegisterPlugin(p *plugin.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return errSealed
	}
	if len(p.Category) == 0 {
		return errors.Errorf("plugin %s has no category", p.Id)
	}
	for _, existing := range r.plugins[p.Category] {
		if existing.Id == p.Id {
			return errors.Errorf("duplicate plugin %s", p.Key())
		}
	}
	r.plugins[p.Category] = append(r.plugins[p.Category], p)
	return nil
}

// RegisterDataType adds an encoder under its name.
func (r *Registry) RegisterDataType(d datatype.DataType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return errSealed
	}
	if _, ok := r.dataTypes[d.Name()]; ok {
		return errors.Errorf("duplicate data type %s", d.Name())
	}
	r.dataTypes[d.Name()] = d
	return nil
}

// Seal marks discovery complete. Registration attempts after Seal fail.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Categories returns the sorted category keys.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	categories := make([]string, 0, len(r.plugins))
	for c := range r.plugins {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Plugins returns the plugins of one category.
func (r *Registry) Plugins(category string) []*plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plugins[category]
}

// AllPlugins returns every plugin, ordered by category then id.
func (r *Registry) AllPlugins() []*plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := []*plugin.Plugin{}
	categories := make([]string, 0, len(r.plugins))
	for c := range r.plugins {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		list := append([]*plugin.Plugin{}, r.plugins[c]...)
		sort.Slice(list, func(i, j int) bool { return list[i].Id < list[j].Id })
		all = append(all, list...)
	}
	return all
}

// PluginCount returns the number of plugins under one category.
func (r *Registry) PluginCount(category string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins[category])
}

// DataType resolves an encoder by name.
func (r *Registry) DataType(name string) (datatype.DataType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dataTypes[name]
	return d, ok
}

// DataTypeNames returns the sorted encoder names.
func (r *Registry) DataTypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.dataTypes))
	for n := range r.dataTypes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DataTypeCount returns the total number of registered encoders.
func (r *Registry) DataTypeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dataTypes)
}
