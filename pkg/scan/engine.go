package scan

import (
	"fmt"
	"math/rand"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
	"github.com/zan8in/gologger"
	"github.com/zan8in/retryablehttp"

	"github.com/sstimap/sstimap/pkg/config"
	"github.com/sstimap/sstimap/pkg/datatype"
	"github.com/sstimap/sstimap/pkg/extension"
	"github.com/sstimap/sstimap/pkg/plugin"
	"github.com/sstimap/sstimap/pkg/protocols/http/retryhttpclient"
	"github.com/sstimap/sstimap/pkg/result"
	"github.com/sstimap/sstimap/pkg/utils"
)

// OnResult receives every confirmed finding.
type OnResult func(*result.Result)

// Engine drives the probe loop: every discovered plugin against every
// injectable parameter of every live target.
type Engine struct {
	options  *config.Options
	registry *extension.Registry
	cel      *celEvaluator
	encoder  datatype.DataType
	ticker   *time.Ticker

	OnResult OnResult

	number uint32
}

type task struct {
	target Target
	plugin *plugin.Plugin
}

// NewEngine prepares the shared http clients and the detection evaluator.
func NewEngine(options *config.Options, registry *extension.Registry) (*Engine, error) {
	maxRespBodySize := 0
	if options.Config != nil {
		maxRespBodySize = options.Config.HTTP.MaxResponseBodySize
	}
	if err := retryhttpclient.Init(&retryhttpclient.Options{
		Proxy:           options.Proxy,
		Timeout:         options.Timeout,
		Retries:         options.Retries,
		MaxRespBodySize: maxRespBodySize,
	}); err != nil {
		return nil, err
	}

	cel, err := newCelEvaluator()
	if err != nil {
		return nil, err
	}

	encoder, ok := registry.DataType(options.BodyType)
	if !ok {
		return nil, errors.Errorf("unknown request body type %q (known: %s)",
			options.BodyType, strings.Join(registry.DataTypeNames(), ", "))
	}

	rate := options.RateLimit
	if rate <= 0 {
		rate = config.DefaultRateLimit
	}

	engine := &Engine{
		options:  options,
		registry: registry,
		cel:      cel,
		encoder:  encoder,
		ticker:   time.NewTicker(time.Second / time.Duration(rate)),
	}
	engine.OnResult = func(r *result.Result) {
		if r.IsVul {
			n := atomic.AddUint32(&engine.number, 1)
			r.PrintColorResultInfoConsole(fmt.Sprintf("%02d", n))
		}
	}
	return engine, nil
}

// Close releases the rate limit ticker.
func (e *Engine) Close() {
	e.ticker.Stop()
}

// Execute runs the batch scan and returns the confirmed findings.
func (e *Engine) Execute() ([]*result.Result, error) {
	targets, err := LoadTargets(e.options)
	if err != nil {
		return nil, err
	}
	targets = e.preflight(targets)
	if len(targets) == 0 {
		return nil, errors.New("no live targets to scan")
	}

	plugins := e.registry.AllPlugins()
	if len(plugins) == 0 {
		return nil, errors.New("no plugins discovered, nothing to probe")
	}

	if !e.options.Silent {
		gologger.Info().Msgf("Probing %d target(s) with %d plugin(s)", len(targets), len(plugins))
	}

	var (
		mu       sync.Mutex
		findings []*result.Result
		wg       sync.WaitGroup
	)

	pool, err := ants.NewPoolWithFunc(e.options.Concurrency, func(i interface{}) {
		defer wg.Done()
		t := i.(task)
		for _, r := range e.checkTarget(t.target, t.plugin) {
			e.OnResult(r)
			if r.IsVul {
				mu.Lock()
				findings = append(findings, r)
				mu.Unlock()
			}
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create scan pool")
	}
	defer pool.Release()

	for _, t := range targets {
		for _, p := range plugins {
			wg.Add(1)
			if err := pool.Invoke(task{target: t, plugin: p}); err != nil {
				wg.Done()
				gologger.Debug().Msgf("pool invoke failed: %s", err)
			}
		}
	}
	wg.Wait()

	return findings, nil
}

// preflight drops targets whose host does not answer on https or http.
func (e *Engine) preflight(targets []Target) []Target {
	var (
		mu   sync.Mutex
		live []Target
	)
	swg := sizedwaitgroup.New(e.options.Concurrency)
	for _, t := range targets {
		swg.Add()
		go func(t Target) {
			defer swg.Done()
			normalized, status := retryhttpclient.CheckHttpsAndLives(t.URL)
			if status == -1 {
				gologger.Warning().Msgf("Target %s is not reachable, skipping", t.URL)
				return
			}
			t.URL = normalized
			mu.Lock()
			live = append(live, t)
			mu.Unlock()
		}(t)
	}
	swg.Wait()
	return live
}

// checkTarget probes every injectable parameter of one target with one
// plugin. A parameter is confirmed on its first matching probe.
func (e *Engine) checkTarget(t Target, p *plugin.Plugin) []*result.Result {
	results := []*result.Result{}

	repeat := 1
	marker := "*"
	if e.options.Config != nil {
		if e.options.Config.Scan.RepeatProbes > repeat {
			repeat = e.options.Config.Scan.RepeatProbes
		}
		if len(e.options.Config.Scan.Marker) > 0 {
			marker = e.options.Config.Scan.Marker
		}
	}

	for _, param := range injectableParams(t.Params, marker) {
	probes:
		for _, probe := range p.Probes {
			for i := 0; i < repeat; i++ {
				r1 := 1000 + rand.Int63n(9000)
				r2 := 1000 + rand.Int63n(9000)
				payload, expected := probe.Expand(r1, r2)

				resp, err := e.sendProbe(t, param, payload)
				if err != nil {
					gologger.Debug().Msgf("probe %s param=%s failed: %s", p.Key(), param, err)
					continue
				}

				matched, err := e.matched(resp, expected, p.Detection)
				if err != nil {
					gologger.Warning().Msgf("detection for %s failed: %s", p.Key(), err)
					break probes
				}
				if matched {
					r := result.New(t.URL, param)
					r.Category = p.Category
					r.Plugin = p.Id
					r.Severity = p.Info.Severity
					r.Payload = payload
					r.Rendered = expected
					r.IsVul = true
					results = append(results, r)
					break probes
				}
			}
		}
	}
	return results
}

func (e *Engine) sendProbe(t Target, param, payload string) (*retryhttpclient.Response, error) {
	<-e.ticker.C

	params := url.Values{}
	for k, vs := range t.Params {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	params.Set(param, payload)

	var req *retryablehttp.Request
	var err error

	if t.Method == "GET" {
		req, err = retryablehttp.NewRequest(t.Method, t.URL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
	} else {
		flat := map[string]string{}
		for k := range params {
			flat[k] = params.Get(k)
		}
		body, err := e.encoder.Encode(flat)
		if err != nil {
			return nil, err
		}
		req, err = retryablehttp.NewRequest(t.Method, t.URL, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", e.encoder.ContentType())
	}

	ua := utils.RandomUA()
	followRedirects := true
	if e.options.Config != nil {
		if len(e.options.Config.HTTP.UserAgent) > 0 {
			ua = e.options.Config.HTTP.UserAgent
		}
		followRedirects = e.options.Config.HTTP.FollowRedirects
	}
	req.Header.Set("User-Agent", ua)
	if len(e.options.Cookie) > 0 {
		req.Header.Set("Cookie", e.options.Cookie)
	}

	return retryhttpclient.Do(req, followRedirects)
}

// injectableParams returns the parameter names probes are injected into. When
// any value carries the injection marker only the marked parameters are
// probed, otherwise every parameter is.
func injectableParams(params url.Values, marker string) []string {
	marked := []string{}
	all := []string{}
	for k, vs := range params {
		all = append(all, k)
		for _, v := range vs {
			if strings.Contains(v, marker) {
				marked = append(marked, k)
				break
			}
		}
	}
	if len(marked) > 0 {
		sort.Strings(marked)
		return marked
	}
	sort.Strings(all)
	return all
}
