package runner

import (
	"fmt"
	"strings"

	"github.com/zan8in/gologger"

	"github.com/sstimap/sstimap/pkg/log"
	"github.com/sstimap/sstimap/pkg/plugin"
)

// showModuleInfo prints the discovered plugins matching the -m selector. The
// selector `list` describes everything, anything else is a case insensitive
// substring filter over category, id and display name.
func (r *Runner) showModuleInfo() error {
	selector := strings.ToLower(strings.TrimSpace(r.options.Module))

	matched := 0
	for _, category := range r.registry.Categories() {
		plugins := []*plugin.Plugin{}
		for _, p := range r.registry.Plugins(category) {
			if selector != "list" && !pluginMatches(p, selector) {
				continue
			}
			plugins = append(plugins, p)
		}
		if len(plugins) == 0 {
			continue
		}
		matched += len(plugins)

		fmt.Println(log.LogColor.Title(category + ":"))
		for _, p := range plugins {
			line := "   " + log.LogColor.Bold(p.Id)
			if len(p.Info.Severity) > 0 {
				line += " " + log.LogColor.GetColor(p.Info.Severity, p.Info.Severity)
			}
			if len(p.Info.Description) > 0 {
				line += "  " + p.Info.Description
			}
			fmt.Println(line)
			for _, ref := range p.Info.Reference {
				fmt.Println("      " + log.LogColor.Time(ref))
			}
		}
	}

	if matched == 0 {
		gologger.Warning().Msgf("No module matches %q, try `-m list`", r.options.Module)
	}
	return nil
}

func pluginMatches(p *plugin.Plugin, selector string) bool {
	return strings.Contains(strings.ToLower(p.Category), selector) ||
		strings.Contains(strings.ToLower(p.Id), selector) ||
		strings.Contains(strings.ToLower(p.Info.Name), selector)
}
