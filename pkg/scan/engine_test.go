package scan

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"testing"

	"github.com/sstimap/sstimap/pkg/config"
	"github.com/sstimap/sstimap/pkg/datatype"
	"github.com/sstimap/sstimap/pkg/extension"
	"github.com/sstimap/sstimap/pkg/plugin"
	"github.com/sstimap/sstimap/pkg/protocols/http/retryhttpclient"
	"github.com/sstimap/sstimap/pkg/result"
)

var mustacheExpr = regexp.MustCompile(`\{\{\s*(\d+)\s*\*\s*(\d+)\s*\}\}`)

// newVulnServer simulates a template engine that evaluates {{ a*b }} found in
// the `name` parameter and reflects everything else verbatim.
func newVulnServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		value := r.Form.Get("name")
		if m := mustacheExpr.FindStringSubmatch(value); m != nil {
			a, _ := strconv.Atoi(m[1])
			b, _ := strconv.Atoi(m[2])
			value = mustacheExpr.ReplaceAllString(value, strconv.Itoa(a*b))
		}
		fmt.Fprintf(w, "<html><body>Hello %s</body></html>", value)
	}))
}

func testRegistry(t *testing.T, plugins ...*plugin.Plugin) *extension.Registry {
	t.Helper()
	registry := extension.NewRegistry()
	for _, d := range datatype.Builtins() {
		if err := registry.RegisterDataType(d); err != nil {
			t.Fatalf("register data type: %v", err)
		}
	}
	for _, p := range plugins {
		if err := registry.RegisterPlugin(p); err != nil {
			t.Fatalf("register plugin: %v", err)
		}
	}
	registry.Seal()
	return registry
}

func mustachePlugin() *plugin.Plugin {
	return &plugin.Plugin{
		Id:       "jinja2",
		Category: "engines",
		Probes: []plugin.Probe{
			{Inject: "{{ {r1}*{r2} }}", Render: "{r1*r2}"},
		},
		Info: plugin.Info{Name: "Jinja2", Severity: "high"},
	}
}

func erbPlugin() *plugin.Plugin {
	return &plugin.Plugin{
		Id:       "erb",
		Category: "engines",
		Probes: []plugin.Probe{
			{Inject: "<%= {r1}*{r2} %>", Render: "{r1*r2}"},
		},
		Info: plugin.Info{Name: "ERB", Severity: "high"},
	}
}

func testOptions(target string) *config.Options {
	return &config.Options{
		Target:      target,
		Method:      "GET",
		BodyType:    "form",
		RateLimit:   500,
		Concurrency: 5,
		Retries:     1,
		Timeout:     5,
	}
}

func TestEngineFindsInjection(t *testing.T) {
	server := newVulnServer()
	defer server.Close()

	registry := testRegistry(t, mustachePlugin(), erbPlugin())

	options := testOptions(server.URL + "/page?name=test&other=1")
	engine, err := NewEngine(options, registry)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer engine.Close()
	engine.OnResult = func(*result.Result) {}

	findings, err := engine.Execute()
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("findings mismatch: got=%d want=1", len(findings))
	}
	f := findings[0]
	if f.Plugin != "jinja2" || f.Param != "name" {
		t.Fatalf("unexpected finding: plugin=%s param=%s", f.Plugin, f.Param)
	}
	if !f.IsVul {
		t.Fatalf("finding not flagged vulnerable")
	}
}

func TestEnginePostBodyEncoding(t *testing.T) {
	server := newVulnServer()
	defer server.Close()

	registry := testRegistry(t, mustachePlugin())

	options := testOptions(server.URL + "/page?name=test")
	options.Method = "POST"
	engine, err := NewEngine(options, registry)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer engine.Close()

	findings, err := engine.Execute()
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("findings mismatch: got=%d want=1", len(findings))
	}
}

func TestEngineUnknownBodyType(t *testing.T) {
	registry := testRegistry(t, mustachePlugin())
	options := testOptions("http://127.0.0.1/page?name=test")
	options.BodyType = "msgpack"

	if _, err := NewEngine(options, registry); err == nil {
		t.Fatalf("expected unknown body type to fail")
	}
}

func TestMatchedDetectionModes(t *testing.T) {
	registry := testRegistry(t, mustachePlugin())
	options := testOptions("http://127.0.0.1/page?name=test")
	engine, err := NewEngine(options, registry)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer engine.Close()

	resp := &retryhttpclient.Response{StatusCode: 200, Body: "prefix 391378 suffix"}

	t.Run("default-contains", func(t *testing.T) {
		ok, err := engine.matched(resp, "391378", plugin.Detection{})
		if err != nil || !ok {
			t.Fatalf("contains match failed: ok=%v err=%v", ok, err)
		}
		ok, err = engine.matched(resp, "999999", plugin.Detection{})
		if err != nil || ok {
			t.Fatalf("contains must not match: ok=%v err=%v", ok, err)
		}
	})

	t.Run("cel-expression", func(t *testing.T) {
		det := plugin.Detection{Expression: "status < 500 && body.contains(render)"}
		ok, err := engine.matched(resp, "391378", det)
		if err != nil || !ok {
			t.Fatalf("expression match failed: ok=%v err=%v", ok, err)
		}
		bad := &retryhttpclient.Response{StatusCode: 500, Body: resp.Body}
		ok, err = engine.matched(bad, "391378", det)
		if err != nil || ok {
			t.Fatalf("expression must reject status 500: ok=%v err=%v", ok, err)
		}
	})

	t.Run("regexp2-pattern", func(t *testing.T) {
		det := plugin.Detection{Pattern: `(?<!\$)prefix {{render}}`}
		ok, err := engine.matched(resp, "391378", det)
		if err != nil || !ok {
			t.Fatalf("pattern match failed: ok=%v err=%v", ok, err)
		}
	})

	t.Run("invalid-expression", func(t *testing.T) {
		if _, err := engine.matched(resp, "x", plugin.Detection{Expression: "body +"}); err == nil {
			t.Fatalf("expected compile error")
		}
	})
}

func TestInjectableParamsMarker(t *testing.T) {
	params := url.Values{}
	params.Set("name", "test")
	params.Set("id", "5*")
	if got := injectableParams(params, "*"); len(got) != 1 || got[0] != "id" {
		t.Fatalf("marker filter mismatch: %v", got)
	}

	params.Set("id", "5")
	if got := injectableParams(params, "*"); len(got) != 2 {
		t.Fatalf("unmarked set mismatch: %v", got)
	}
}
