package runner

import (
	"fmt"

	"github.com/sstimap/sstimap/pkg/config"
	"github.com/sstimap/sstimap/pkg/log"
)

// Farewell is printed on interrupt, EOF and interactive exit.
const Farewell = "Goodbye!"

func ShowBanner() string {
	return config.ProjectName
}

func ShowUsage() string {
	return "\nUSAGE:\n   sstimap -u http://example.com/?name=test\n   sstimap --load-urls urls.txt\n   sstimap -i\n   sstimap -m list\n"
}

// ShowBanner2 prints the name/version title line.
func ShowBanner2(options *config.Options) {
	if options.Silent {
		return
	}
	title := "NAME:\n   " + log.LogColor.Banner(ShowBanner()) + " - v" + config.Version
	fmt.Println(title + "\n")
}

// ShowUsageHint is the no-mode fallback: nothing actionable was requested, so
// point at the flags that select one.
func ShowUsageHint() {
	fmt.Println(ShowUsage())
	fmt.Println("No action requested. Provide a target (-u/--load-urls/--load-forms), " +
		"enter interactive mode (-i) or ask for module information (-m).")
}
