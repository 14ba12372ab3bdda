package scan

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"

	"github.com/sstimap/sstimap/pkg/plugin"
	"github.com/sstimap/sstimap/pkg/protocols/http/retryhttpclient"
)

// matched judges one probe exchange. Expression wins over Pattern; with
// neither set the body must contain the expanded render value.
func (e *Engine) matched(resp *retryhttpclient.Response, expected string, det plugin.Detection) (bool, error) {
	if len(det.Expression) > 0 {
		return e.cel.Eval(det.Expression, resp.StatusCode, resp.Body, expected)
	}

	if len(det.Pattern) > 0 {
		pattern := strings.ReplaceAll(det.Pattern, "{{render}}", regexp.QuoteMeta(expected))
		re, err := regexp2.Compile(pattern, regexp2.None)
		if err != nil {
			return false, errors.Wrapf(err, "invalid detection pattern %q", det.Pattern)
		}
		ok, err := re.MatchString(resp.Body)
		if err != nil {
			return false, errors.Wrapf(err, "detection pattern %q failed", det.Pattern)
		}
		return ok, nil
	}

	return strings.Contains(resp.Body, expected), nil
}
