// Package httpx builds the HTTP clients used to talk to the publishing
// platform, including proxy negotiation for restricted networks.
package httpx

import (
	"crypto/tls"
	"fmt"
	"net"
	nethttp "net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ntlmssp "github.com/Azure/go-ntlmssp"
	"golang.org/x/net/http/httpproxy"
	"golang.org/x/net/http2"

	"github.com/shelfware/shelf-admin/internal/config"
)

// Transport tuning. The JSON endpoints are chatty but small; the object
// endpoint streams media, so connections are kept warm and compression off.
const (
	dialTimeout           = 30 * time.Second
	dialKeepAlive         = 30 * time.Second
	idleConnTimeout       = 90 * time.Second
	tlsHandshakeTimeout   = 60 * time.Second
	expectContinueTimeout = 1 * time.Second
)

// NewClient configures an HTTP client with proxy settings from the config.
//
// The returned client has no overall timeout: per-operation deadlines and
// cancellation come from the request context, which is what lets a superseded
// preview fetch abort its transfer mid-stream.
func NewClient(cfg *config.Config) (*nethttp.Client, error) {
	transport := &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: dialKeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		MaxConnsPerHost:       16,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: expectContinueTimeout,
		DisableCompression:    true,
		ForceAttemptHTTP2:     true,
	}

	_ = http2.ConfigureTransport(transport)

	// Runtime toggle for HTTP/2, useful when a middlebox breaks multiplexing.
	if os.Getenv("SHELF_DISABLE_HTTP2") == "true" {
		transport.ForceAttemptHTTP2 = false
		transport.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	}

	mode := strings.ToLower(cfg.Proxy.Mode)
	switch mode {
	case "no-proxy", "":
		transport.Proxy = nil

	case "system":
		transport.Proxy = nethttp.ProxyFromEnvironment
		disableHTTP2ForProxy(transport)

	case "basic":
		if cfg.Proxy.Host == "" {
			return nil, fmt.Errorf("proxy mode %q requires a host", mode)
		}
		proxyURL := buildProxyURL(&cfg.Proxy)
		transport.Proxy = proxyFuncWithBypass(proxyURL, cfg.Proxy.NoProxy)
		disableHTTP2ForProxy(transport)

	case "ntlm":
		if cfg.Proxy.Host == "" {
			return nil, fmt.Errorf("proxy mode %q requires a host", mode)
		}
		proxyURL := buildProxyURL(&cfg.Proxy)
		transport.Proxy = proxyFuncWithBypass(proxyURL, cfg.Proxy.NoProxy)
		disableHTTP2ForProxy(transport)

		// NTLM negotiation wraps the whole transport.
		return &nethttp.Client{
			Transport: ntlmssp.Negotiator{RoundTripper: transport},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported proxy mode: %s", cfg.Proxy.Mode)
	}

	return &nethttp.Client{Transport: transport}, nil
}

// disableHTTP2ForProxy forces HTTP/1.1 when a proxy is in play. Proxies often
// mishandle HTTP/2 multiplexing, which surfaces as mid-transfer stream errors.
// SHELF_FORCE_HTTP2=true overrides for proxies known to behave.
func disableHTTP2ForProxy(transport *nethttp.Transport) {
	if os.Getenv("SHELF_FORCE_HTTP2") == "true" {
		return
	}
	transport.ForceAttemptHTTP2 = false
	transport.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
}

// buildProxyURL constructs a proxy URL from config.
func buildProxyURL(p *config.ProxyConfig) *url.URL {
	port := p.Port
	if port == 0 {
		port = 8080
	}

	proxyURL := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", p.Host, port),
	}

	// Only embed credentials when both parts are present; an empty password
	// in the URL trips up some proxies.
	if p.User != "" && p.Password != "" {
		proxyURL.User = url.UserPassword(p.User, p.Password)
	}

	return proxyURL
}

// proxyFuncWithBypass returns a proxy function that respects the NoProxy
// bypass list. With an empty list it behaves identically to http.ProxyURL.
func proxyFuncWithBypass(proxyURL *url.URL, noProxy string) func(*nethttp.Request) (*url.URL, error) {
	if noProxy == "" {
		return nethttp.ProxyURL(proxyURL)
	}
	cfg := httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
		NoProxy:    noProxy,
	}
	proxyFunc := cfg.ProxyFunc()
	return func(req *nethttp.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}
}
