package extension

import (
	"strings"

	"github.com/pkg/errors"
)

// Loader runs discovery: every plugin source, then every data-type source,
// against a fresh registry which is sealed before it is handed out. Unit
// names beginning with an underscore mark private units and are never
// registered, whatever source they came from.
type Loader struct {
	PluginSources   []Source
	DataTypeSources []Source
}

// NewLoader builds the default source stack: compiled-in manifests first,
// then the on-disk roots next to the executable (or the overrides, when set).
func NewLoader(pluginsDir, dataTypesDir string) *Loader {
	if len(pluginsDir) == 0 {
		pluginsDir = DefaultRoot(DefaultPluginsDirName)
	}
	if len(dataTypesDir) == 0 {
		dataTypesDir = DefaultRoot(DefaultDataTypesDirName)
	}
	return &Loader{
		PluginSources: []Source{
			BuiltinPluginSource(),
			PluginDirSource{Root: pluginsDir},
		},
		DataTypeSources: []Source{
			BuiltinDataTypeSource(),
			DataTypeDirSource{Root: dataTypesDir},
		},
	}
}

// Populate runs a full discovery pass and returns the sealed registry.
// A repeated call re-enumerates every source, so the result reflects exactly
// the file set present at call time. An individual unit failing to load is
// not masked here: the error propagates to the caller.
func (l *Loader) Populate() (*Registry, error) {
	registry := NewRegistry()

	for _, source := range l.PluginSources {
		if err := runSource(source, registry); err != nil {
			return nil, err
		}
	}
	for _, source := range l.DataTypeSources {
		if err := runSource(source, registry); err != nil {
			return nil, err
		}
	}

	registry.Seal()
	return registry, nil
}

func runSource(source Source, registry *Registry) error {
	units, err := source.List()
	if err != nil {
		return errors.Wrapf(err, "discovery failed for %s", source.Kind())
	}
	for _, unit := range units {
		if strings.HasPrefix(unit.Name, "_") {
			continue
		}
		if err := unit.Register(registry); err != nil {
			return errors.Wrapf(err, "could not load %s unit %s", source.Kind(), unit.Name)
		}
	}
	return nil
}
