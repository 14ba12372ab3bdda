package runner

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zan8in/gologger"

	"github.com/sstimap/sstimap/pkg/extension"
	"github.com/sstimap/sstimap/pkg/log"
)

const prompt = "sstimap> "

const interactiveHelp = `Commands:
   url <target>        set the target URL
   body <type>         set the request body encoder for POST probes
   method <verb>       set the HTTP method
   cookie <header>     set the Cookie header
   set <option> <val>  set concurrency, rate-limit, retries or timeout
   options             show the current session options
   modules [filter]    list discovered plugins, optionally filtered
   run                 scan the current target
   reload              rescan the plugin and data-type directories
   help                show this help
   exit                leave the session`

// runInteractive drives the line based session. EOF on stdin ends the session
// the same way `exit` does.
func (r *Runner) runInteractive() error {
	gologger.Print().Msgf("Entering interactive mode, type `help` for commands")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(log.LogColor.Bold(prompt))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		fields := strings.Fields(line)
		command, args := fields[0], fields[1:]

		switch command {
		case "exit", "quit":
			gologger.Print().Msgf(Farewell)
			return nil
		case "help":
			fmt.Println(interactiveHelp)
		case "url":
			if len(args) == 0 {
				gologger.Warning().Msgf("usage: url <target>")
				continue
			}
			r.options.Target = args[0]
			gologger.Info().Msgf("Target set to %s", r.options.Target)
		case "body":
			if len(args) == 0 {
				gologger.Warning().Msgf("usage: body <%s>", strings.Join(r.registry.DataTypeNames(), "|"))
				continue
			}
			if _, ok := r.registry.DataType(args[0]); !ok {
				gologger.Warning().Msgf("unknown body type %q, known: %s", args[0],
					strings.Join(r.registry.DataTypeNames(), ", "))
				continue
			}
			r.options.BodyType = args[0]
			gologger.Info().Msgf("Body type set to %s", r.options.BodyType)
		case "method":
			if len(args) == 0 {
				gologger.Warning().Msgf("usage: method <verb>")
				continue
			}
			r.options.Method = strings.ToUpper(args[0])
			gologger.Info().Msgf("Method set to %s", r.options.Method)
		case "cookie":
			r.options.Cookie = strings.Join(args, " ")
			gologger.Info().Msgf("Cookie header updated")
		case "set":
			r.setOption(args)
		case "options":
			r.printSessionOptions()
		case "modules":
			selector := "list"
			if len(args) > 0 {
				selector = args[0]
			}
			saved := r.options.Module
			r.options.Module = selector
			_ = r.showModuleInfo()
			r.options.Module = saved
		case "run":
			if !r.options.HasTargetInput() {
				gologger.Warning().Msgf("no target set, use `url <target>` first")
				continue
			}
			if err := r.runScan(); err != nil {
				gologger.Error().Msgf("Scan failed: %s", err)
			}
		case "reload":
			r.reloadExtensions()
		default:
			gologger.Warning().Msgf("unknown command %q, type `help`", command)
		}
	}

	gologger.Print().Msgf(Farewell)
	return nil
}

func (r *Runner) setOption(args []string) {
	if len(args) != 2 {
		gologger.Warning().Msgf("usage: set <concurrency|rate-limit|retries|timeout> <value>")
		return
	}
	value, err := strconv.Atoi(args[1])
	if err != nil || value <= 0 {
		gologger.Warning().Msgf("value must be a positive integer")
		return
	}
	switch args[0] {
	case "concurrency":
		r.options.Concurrency = value
	case "rate-limit":
		r.options.RateLimit = value
	case "retries":
		r.options.Retries = value
	case "timeout":
		r.options.Timeout = value
	default:
		gologger.Warning().Msgf("unknown option %q", args[0])
		return
	}
	gologger.Info().Msgf("%s set to %d", args[0], value)
}

func (r *Runner) printSessionOptions() {
	fmt.Println(log.LogColor.Title("Session options:"))
	fmt.Printf("   target       %s\n", orUnset(r.options.Target))
	fmt.Printf("   method       %s\n", r.options.Method)
	fmt.Printf("   body type    %s\n", r.options.BodyType)
	fmt.Printf("   cookie       %s\n", orUnset(r.options.Cookie))
	fmt.Printf("   proxy        %s\n", orUnset(r.options.Proxy))
	fmt.Printf("   concurrency  %d\n", r.options.Concurrency)
	fmt.Printf("   rate limit   %d\n", r.options.RateLimit)
	fmt.Printf("   retries      %d\n", r.options.Retries)
	fmt.Printf("   timeout      %d\n", r.options.Timeout)
}

// reloadExtensions swaps in a freshly populated registry. The old registry
// stays valid for anything still holding it.
func (r *Runner) reloadExtensions() {
	loader := extension.NewLoader(r.options.PluginsDir, r.options.DataTypesDir)
	registry, err := loader.Populate()
	if err != nil {
		gologger.Error().Msgf("Reload failed, keeping previous extensions: %s", err)
		return
	}
	r.registry = registry
	r.printDiscoverySummary()
}

func orUnset(s string) string {
	if len(s) == 0 {
		return "(unset)"
	}
	return s
}
