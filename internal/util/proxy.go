// Package util holds HTTP plumbing shared by the market and LLM clients.
package util

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// NewProxyFunc returns a transport proxy func. An explicit proxy URL applies
// to both schemes and honours noProxy; otherwise the environment decides.
func NewProxyFunc(proxyURL, noProxy string) func(*http.Request) (*url.URL, error) {
	cfg := httpproxy.FromEnvironment()
	if proxyURL != "" {
		cfg = &httpproxy.Config{
			HTTPProxy:  proxyURL,
			HTTPSProxy: proxyURL,
			NoProxy:    noProxy,
		}
	}

	resolve := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return resolve(req.URL)
	}
}

// NewHTTPClient builds a client with the proxy settings applied. Redirect
// chains longer than 3 hops are refused.
func NewHTTPClient(timeout time.Duration, proxyURL, noProxy string) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(proxyURL, noProxy)

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}
}
