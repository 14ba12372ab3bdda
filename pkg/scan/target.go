package scan

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/zan8in/fileutil"
	"github.com/zan8in/gologger"

	"github.com/sstimap/sstimap/pkg/config"
)

// Target is one injectable endpoint: a URL plus the parameter set probes are
// injected into.
type Target struct {
	URL    string
	Method string
	Params url.Values
}

// LoadTargets normalizes the configured inputs (-u, --load-urls, --load-forms)
// into the target list. Entries that cannot be parsed are skipped with a
// warning; an input file that cannot be read is an error.
func LoadTargets(options *config.Options) ([]Target, error) {
	targets := []Target{}
	seen := map[string]struct{}{}

	appendURL := func(raw, method string) {
		raw = strings.TrimSpace(raw)
		if len(raw) == 0 {
			return
		}
		if _, ok := seen[method+" "+raw]; ok {
			return
		}
		t, err := parseTarget(raw, method)
		if err != nil {
			gologger.Warning().Msgf("Skipping unparseable target %s: %s", raw, err)
			return
		}
		seen[method+" "+raw] = struct{}{}
		targets = append(targets, t)
	}

	if len(options.Target) > 0 {
		appendURL(options.Target, options.Method)
	}

	if len(options.LoadUrls) > 0 {
		lines, err := fileutil.ReadFile(options.LoadUrls)
		if err != nil {
			return nil, errors.Wrap(err, "could not read url list")
		}
		for line := range lines {
			appendURL(line, options.Method)
		}
	}

	if len(options.LoadForms) > 0 {
		lines, err := fileutil.ReadFile(options.LoadForms)
		if err != nil {
			return nil, errors.Wrap(err, "could not read form list")
		}
		for line := range lines {
			form := strings.Fields(strings.TrimSpace(line))
			if len(form) == 0 {
				continue
			}
			method := options.Method
			if len(form) > 1 {
				method = strings.ToUpper(form[1])
			}
			raw := form[0]
			if len(form) > 2 {
				t, err := parseTarget(raw, method)
				if err != nil {
					gologger.Warning().Msgf("Skipping unparseable form %s: %s", raw, err)
					continue
				}
				params, err := url.ParseQuery(form[2])
				if err != nil {
					gologger.Warning().Msgf("Skipping form with bad params %s: %s", raw, err)
					continue
				}
				for k, vs := range params {
					for _, v := range vs {
						t.Params.Add(k, v)
					}
				}
				targets = append(targets, t)
				continue
			}
			appendURL(raw, method)
		}
	}

	if len(targets) == 0 {
		return nil, errors.New("no scannable targets found")
	}
	return targets, nil
}

func parseTarget(raw, method string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, err
	}
	if len(u.Scheme) == 0 || len(u.Host) == 0 {
		return Target{}, errors.Errorf("target %s is not an absolute url", raw)
	}
	if len(method) == 0 {
		method = "GET"
	}

	params := u.Query()
	u.RawQuery = ""

	return Target{
		URL:    u.String(),
		Method: strings.ToUpper(method),
		Params: params,
	}, nil
}
