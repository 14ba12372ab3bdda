package config

import (
	"github.com/zan8in/goflags"
	"github.com/zan8in/gologger"
	"github.com/zan8in/gologger/levels"

	"github.com/sstimap/sstimap/pkg/log"
)

// Options is the assembled configuration bundle. Every field the mode
// dispatcher reads is present here with a falsy zero value, so dispatch can
// never fail on a missing key.
type Options struct {
	// sstimap-config.yaml configuration file
	Config *Config

	// Version is injected by ParseOptions for banner/display use.
	Version string

	// Target URL to scan
	Target string

	// LoadUrls is a path to a file with one target URL per line.
	LoadUrls string

	// LoadForms is a path to a file with one "url method params" form per line.
	LoadForms string

	// Interactive enters the interactive session instead of a batch scan.
	Interactive bool

	// Module is a module-info selector; "list" describes all modules.
	Module string

	// NoColour disables colored banner and result output.
	NoColour bool

	// Extra plugin directory, resolved relative to the executable when empty.
	PluginsDir string

	// Extra data-type directory, resolved relative to the executable when empty.
	DataTypesDir string

	// BodyType selects the request body encoder for POST probes.
	BodyType string

	Method string
	Data   string
	Cookie string
	Proxy  string

	RateLimit   int
	Concurrency int
	Retries     int
	Timeout     int

	Silent bool
	Debug  bool
}

// ParseOptions parses the command line into a fully assembled Options bundle.
func ParseOptions() *Options {
	options := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`sstimap - automatic SSTI detection tool with interactive interface`)

	flagSet.CreateGroup("input", "Target",
		flagSet.StringVarP(&options.Target, "url", "u", "", "target URL to test for SSTI"),
		flagSet.StringVar(&options.LoadUrls, "load-urls", "", "file with URLs to test, one per line"),
		flagSet.StringVar(&options.LoadForms, "load-forms", "", "file with forms to test (url method params, one per line)"),
	)

	flagSet.CreateGroup("mode", "Mode",
		flagSet.BoolVarP(&options.Interactive, "interactive", "i", false, "enter interactive mode"),
		flagSet.StringVarP(&options.Module, "module", "m", "", "print module information; `list` describes all modules"),
	)

	flagSet.CreateGroup("request", "Request",
		flagSet.StringVarP(&options.Method, "method", "X", "GET", "HTTP method to use"),
		flagSet.StringVarP(&options.Data, "data", "d", "", "request body data, injection marker `*` allowed"),
		flagSet.StringVarP(&options.Cookie, "cookie", "c", "", "cookie header to send with every request"),
		flagSet.StringVar(&options.BodyType, "body-type", "form", "request body encoder for POST probes"),
		flagSet.StringVar(&options.Proxy, "proxy", "", "http/socks5 proxy to use"),
	)

	flagSet.CreateGroup("extensions", "Extensions",
		flagSet.StringVar(&options.PluginsDir, "plugins-dir", "", "extra plugin directory (default: `plugins` next to the executable)"),
		flagSet.StringVar(&options.DataTypesDir, "data-types-dir", "", "extra data-type directory (default: `data_types` next to the executable)"),
	)

	flagSet.CreateGroup("optimization", "Optimizations",
		flagSet.IntVar(&options.RateLimit, "rate-limit", DefaultRateLimit, "maximum requests per second"),
		flagSet.IntVarP(&options.Concurrency, "concurrency", "C", DefaultConcurrency, "maximum concurrent probes"),
		flagSet.IntVar(&options.Retries, "retries", DefaultRetries, "retries per failed request"),
		flagSet.IntVar(&options.Timeout, "timeout", DefaultTimeout, "request timeout in seconds"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVar(&options.Silent, "silent", false, "no progress, only results"),
		flagSet.BoolVar(&options.NoColour, "no-colour", false, "disable colored output"),
		flagSet.BoolVar(&options.Debug, "debug", false, "show debug output"),
	)

	_ = flagSet.Parse()

	options.Version = Version

	if options.NoColour {
		log.DisableColor()
	}
	if options.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}

	return options
}

// HasTargetInput reports whether any scan input was provided.
func (o *Options) HasTargetInput() bool {
	return len(o.Target) > 0 || len(o.LoadUrls) > 0 || len(o.LoadForms) > 0
}
