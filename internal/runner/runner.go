package runner

import (
	"fmt"
	"strings"

	"github.com/zan8in/gologger"

	"github.com/sstimap/sstimap/pkg/config"
	"github.com/sstimap/sstimap/pkg/extension"
	"github.com/sstimap/sstimap/pkg/scan"
)

type Runner struct {
	options  *config.Options
	registry *extension.Registry
}

// New assembles one invocation: banner, configuration file, extension
// discovery, then the mode resolved from the options.
func New(options *config.Options) error {
	runner := &Runner{options: options}

	// show banner
	ShowBanner2(options)

	// init config file
	cfg, err := config.New()
	if err != nil {
		return err
	}
	options.Config = cfg

	// discover plugins and data types
	loader := extension.NewLoader(options.PluginsDir, options.DataTypesDir)
	registry, err := loader.Populate()
	if err != nil {
		return err
	}
	runner.registry = registry

	runner.printDiscoverySummary()

	switch ChooseMode(options) {
	case ModeModuleInfo:
		return runner.showModuleInfo()
	case ModeInteractive:
		return runner.runInteractive()
	case ModeScan:
		return runner.runScan()
	default:
		ShowUsageHint()
		return nil
	}
}

// printDiscoverySummary reports what discovery found, one line for plugins
// grouped by category and one for data types.
func (r *Runner) printDiscoverySummary() {
	if r.options.Silent {
		return
	}

	parts := []string{}
	for _, category := range r.registry.Categories() {
		parts = append(parts, fmt.Sprintf("%s: %d", category, r.registry.PluginCount(category)))
	}
	if len(parts) == 0 {
		parts = append(parts, "none")
	}
	gologger.Info().Msgf("Loaded plugins by categories: %s", strings.Join(parts, "; "))
	gologger.Info().Msgf("Loaded request body types: %d", r.registry.DataTypeCount())
}

func (r *Runner) runScan() error {
	engine, err := scan.NewEngine(r.options, r.registry)
	if err != nil {
		return err
	}
	defer engine.Close()

	findings, err := engine.Execute()
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		gologger.Info().Msgf("Scan finished, no injection found")
		return nil
	}
	gologger.Info().Msgf("Scan finished, %d injection(s) found", len(findings))
	return nil
}
