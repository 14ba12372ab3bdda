package extension

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"github.com/zan8in/gologger"

	"github.com/sstimap/sstimap/pkg/datatype"
	"github.com/sstimap/sstimap/pkg/plugin"
	"github.com/sstimap/sstimap/pkg/plugin/templates"
)

// Unit is one discoverable extension: a plugin or a data-type encoder.
// Register performs the unit's self-registration into the registry.
type Unit struct {
	Category string
	Name     string
	Path     string
	Register func(*Registry) error
}

// Source yields discoverable units. The loader runs every source in order
// and applies the underscore filter to the yielded names.
type Source interface {
	// Kind names the source for warnings and debug output.
	Kind() string
	// List enumerates the currently present units. A missing backing
	// directory is not an error: the source warns and yields nothing.
	List() ([]Unit, error)
}

const (
	DefaultPluginsDirName   = "plugins"
	DefaultDataTypesDirName = "data_types"
)

// DefaultRoot resolves a discovery root relative to the running executable's
// directory, not the caller's working directory.
func DefaultRoot(name string) string {
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exe), name)
}

func isDescriptorFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func unitName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// PluginDirSource discovers plugin descriptors from a two-level directory
// hierarchy <root>/<category>/<unit>.yaml. Each first-level directory becomes
// one category.
type PluginDirSource struct {
	Root string
}

func (s PluginDirSource) Kind() string { return "plugin directory" }

func (s PluginDirSource) List() ([]Unit, error) {
	if _, err := os.Stat(s.Root); err != nil {
		gologger.Warning().Msgf("Plugin directory not found: %s", s.Root)
		return nil, nil
	}

	entries, err := godirwalk.ReadDirents(s.Root, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not enumerate plugin root %s", s.Root)
	}

	units := []Unit{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		category := entry.Name()
		categoryDir := filepath.Join(s.Root, category)

		files, err := godirwalk.ReadDirents(categoryDir, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "could not enumerate plugin category %s", category)
		}
		for _, file := range files {
			if !file.IsRegular() || !isDescriptorFile(file.Name()) {
				continue
			}
			path := filepath.Join(categoryDir, file.Name())
			units = append(units, Unit{
				Category: category,
				Name:     unitName(file.Name()),
				Path:     path,
				Register: func(r *Registry) error {
					p, err := plugin.ReadFile(path)
					if err != nil {
						return err
					}
					p.Category = category
					return r.RegisterPlugin(p)
				},
			})
		}
	}
	return units, nil
}

// DataTypeDirSource discovers derived encoders from a flat directory
// <root>/<unit>.yaml.
type DataTypeDirSource struct {
	Root string
}

func (s DataTypeDirSource) Kind() string { return "data-type directory" }

func (s DataTypeDirSource) List() ([]Unit, error) {
	if _, err := os.Stat(s.Root); err != nil {
		gologger.Warning().Msgf("Data-type directory not found: %s", s.Root)
		return nil, nil
	}

	files, err := godirwalk.ReadDirents(s.Root, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not enumerate data-type root %s", s.Root)
	}

	units := []Unit{}
	for _, file := range files {
		if !file.IsRegular() || !isDescriptorFile(file.Name()) {
			continue
		}
		path := filepath.Join(s.Root, file.Name())
		units = append(units, Unit{
			Name: unitName(file.Name()),
			Path: path,
			Register: func(r *Registry) error {
				chain, err := datatype.ReadChainFile(path, r.DataType)
				if err != nil {
					return err
				}
				return r.RegisterDataType(chain)
			},
		})
	}
	return units, nil
}

// ManifestSource yields a static compiled-in unit list.
type ManifestSource struct {
	Name  string
	Units []Unit
}

func (s ManifestSource) Kind() string { return s.Name }

func (s ManifestSource) List() ([]Unit, error) {
	return s.Units, nil
}

// BuiltinPluginSource enumerates the embedded plugin descriptor set.
func BuiltinPluginSource() Source {
	units := []Unit{}
	for _, file := range templates.EmbedFileList {
		file := file
		category, name := templates.CategoryAndName(file)
		units = append(units, Unit{
			Category: category,
			Name:     name,
			Path:     file,
			Register: func(r *Registry) error {
				data, err := templates.ReadContent(file)
				if err != nil {
					return err
				}
				p, err := plugin.Read(data)
				if err != nil {
					return errors.Wrap(err, file)
				}
				p.Category = category
				return r.RegisterPlugin(p)
			},
		})
	}
	return ManifestSource{Name: "builtin plugins", Units: units}
}

// BuiltinDataTypeSource enumerates the compiled-in encoder set.
func BuiltinDataTypeSource() Source {
	units := []Unit{}
	for _, d := range datatype.Builtins() {
		d := d
		units = append(units, Unit{
			Name: d.Name(),
			Register: func(r *Registry) error {
				return r.RegisterDataType(d)
			},
		})
	}
	return ManifestSource{Name: "builtin data types", Units: units}
}
