package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	HTTPClient  *http.Client
	Concurrency int     // max in-flight requests, 0 = unlimited
	RatePerSec  float64 // request pacing, 0 = off
	Burst       int
	Logger      *slog.Logger
}

func (o Options) validate() error {
	if o.HTTPClient == nil {
		return fmt.Errorf("HTTPClient is nil")
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("Concurrency must be >= 0")
	}
	if o.RatePerSec < 0 {
		return fmt.Errorf("RatePerSec must be >= 0")
	}
	return nil
}

// Build stacks the layers: HTTP, then pacing, then the concurrency cap.
// Requests are never retried.
func Build(opts Options) (Transport, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var t Transport = &HTTPTransport{Client: opts.HTTPClient}

	if opts.RatePerSec > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		t = &RateTransport{
			Base:    t,
			limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), burst),
		}
	}

	if opts.Concurrency > 0 {
		t = &ConcurrencyTransport{
			Base: t,
			sem:  newSemaphore(opts.Concurrency),
		}
	}

	opts.Logger.Debug("transport built",
		"rate_per_sec", opts.RatePerSec,
		"concurrency", opts.Concurrency,
		"timeout", opts.HTTPClient.Timeout.String(),
	)
	return t, nil
}

// HTTP transport

type HTTPTransport struct {
	Client *http.Client
}

func (h *HTTPTransport) Do(req *http.Request) (*http.Response, error) {
	return h.Client.Do(req)
}

// rate transport

type RateTransport struct {
	Base    Transport
	limiter *rate.Limiter
}

func (t *RateTransport) Do(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.Base.Do(req)
}

// semaphore transport

type semaphore struct {
	ch chan struct{}
}

func newSemaphore(n int) *semaphore {
	if n <= 0 {
		n = 1
	}
	return &semaphore{ch: make(chan struct{}, n)}
}

func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.ch
}

type ConcurrencyTransport struct {
	Base Transport
	sem  *semaphore
}

func (t *ConcurrencyTransport) Do(req *http.Request) (*http.Response, error) {
	if err := t.sem.acquire(req.Context()); err != nil {
		return nil, err
	}
	defer t.sem.release()

	return t.Base.Do(req)
}
