package httpc

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

type ProxyFunc = func(*http.Request) (*url.URL, error)

type Options struct {
	// Timeout bounds a whole exchange, so exports of large workbooks need a
	// generous value.
	Timeout time.Duration
	Proxy   ProxyFunc
	// MaxConnsPerHost matches the transport concurrency cap; 0 = unlimited.
	MaxConnsPerHost int
}

// New builds the backend client. Every request goes to one host, so idle
// connections are kept per host rather than globally.
func New(opts Options) *http.Client {
	idle := opts.MaxConnsPerHost
	if idle <= 0 {
		idle = 10
	}

	tr := &http.Transport{
		Proxy: opts.Proxy,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: opts.Timeout,
		ExpectContinueTimeout: 1 * time.Second,

		MaxConnsPerHost:     opts.MaxConnsPerHost,
		MaxIdleConnsPerHost: idle,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   opts.Timeout,
	}
}
