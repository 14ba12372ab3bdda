package retryhttpclient

import (
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/zan8in/retryablehttp"
)

var (
	RtryRedirect   *retryablehttp.Client
	RtryNoRedirect *retryablehttp.Client

	defaultMaxRedirects = 10

	maxBodySize int64 = maxDefaultBody
)

const maxDefaultBody = 2 * 1024 * 1024

type Options struct {
	Proxy           string
	Timeout         int
	Retries         int
	MaxRespBodySize int
}

func Init(options *Options) (err error) {
	// MaxRespBodySize is in megabytes, matching the config file unit
	if options.MaxRespBodySize > 0 {
		maxBodySize = int64(options.MaxRespBodySize) * 1024 * 1024
	} else {
		maxBodySize = maxDefaultBody
	}

	retryableHttpOptions := retryablehttp.DefaultOptionsSpraying
	maxIdleConns := 1000
	maxConnsPerHost := 0
	maxIdleConnsPerHost := runtime.NumCPU() * 2
	idleConnTimeout := 15 * time.Second
	tLSHandshakeTimeout := 5 * time.Second
	disableKeepAlives := true

	dialer := &net.Dialer{
		Timeout:   time.Duration(options.Timeout) * time.Second,
		KeepAlive: 15 * time.Second,
	}

	retryableHttpOptions.RetryWaitMax = 10 * time.Second
	retryableHttpOptions.RetryMax = options.Retries

	tlsConfig := &tls.Config{
		Renegotiation:      tls.RenegotiateOnceAsClient,
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS10,
	}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		MaxConnsPerHost:     maxConnsPerHost,
		TLSClientConfig:     tlsConfig,
		DisableKeepAlives:   disableKeepAlives,
		TLSHandshakeTimeout: tLSHandshakeTimeout,
		IdleConnTimeout:     idleConnTimeout,
	}

	if len(options.Proxy) > 0 {
		proxyURL, err := url.Parse(options.Proxy)
		if err != nil {
			return errors.Wrap(err, "invalid proxy url")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	// follow redirects client
	httpRedirectClient := http.Client{
		Transport: transport,
		Timeout:   time.Duration(options.Timeout) * time.Second,
	}

	RtryRedirect = retryablehttp.NewWithHTTPClient(&httpRedirectClient, retryableHttpOptions)
	RtryRedirect.CheckRetry = retryablehttp.HostSprayRetryPolicy()

	// disabled follow redirects client
	httpNoRedirectClient := http.Client{
		Transport:     transport,
		Timeout:       time.Duration(options.Timeout) * time.Second,
		CheckRedirect: makeCheckRedirectFunc(false, defaultMaxRedirects),
	}

	RtryNoRedirect = retryablehttp.NewWithHTTPClient(&httpNoRedirectClient, retryableHttpOptions)
	RtryNoRedirect.CheckRetry = retryablehttp.HostSprayRetryPolicy()

	return err
}

// Response is the trimmed view of one probe exchange the detection layer
// consumes.
type Response struct {
	StatusCode int
	Body       string
	Latency    time.Duration
}

// Do sends one request and drains at most maxBodySize of the response.
func Do(req *retryablehttp.Request, followRedirects bool) (*Response, error) {
	start := time.Now()

	var resp *http.Response
	var err error
	if followRedirects {
		resp, err = RtryRedirect.Do(req)
	} else {
		resp, err = RtryNoRedirect.Do(req)
	}
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, err
	}

	reader := io.LimitReader(resp.Body, maxBodySize)
	respBody, err := io.ReadAll(reader)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
		Latency:    time.Since(start),
	}, nil
}

// CheckHttpsAndLives probes a bare host for a living http(s) endpoint and
// returns the normalized url plus the observed status code (-1 when dead).
func CheckHttpsAndLives(target string) (string, int) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		if status, ok := simpleGet(target); ok {
			return target, status
		}
		return target, -1
	}

	for _, scheme := range []string{"https://", "http://"} {
		candidate := scheme + target
		if status, ok := simpleGet(candidate); ok {
			return candidate, status
		}
	}
	return target, -1
}

func simpleGet(target string) (int, bool) {
	req, err := retryablehttp.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return 0, false
	}
	resp, err := Do(req, true)
	if err != nil {
		return 0, false
	}
	return resp.StatusCode, true
}

func makeCheckRedirectFunc(followRedirects bool, maxRedirects int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if !followRedirects {
			return http.ErrUseLastResponse
		}
		if maxRedirects == 0 {
			return nil
		}
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}
}
