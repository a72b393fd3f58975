package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

type Provider interface {
	Next(ctx context.Context) (string, error)
}

type Mode string

const (
	ModeDisabled Mode = "disabled"
	ModeEnv      Mode = "env"
	ModeList     Mode = "list"
)

type Config struct {
	Mode string
	List []string
}

// FuncFromConfig returns the proxy func for http.Transport, nil when
// proxying is disabled.
func FuncFromConfig(cfg Config, log *slog.Logger) (func(*http.Request) (*url.URL, error), error) {
	if log == nil {
		log = slog.Default()
	}
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = string(ModeDisabled)
	}

	switch Mode(mode) {
	case ModeDisabled:
		return nil, nil

	case ModeEnv:
		log.Info("proxy enabled", "mode", "env")
		return http.ProxyFromEnvironment, nil

	case ModeList:
		p, err := NewListProvider(cfg.List)
		if err != nil {
			return nil, err
		}
		log.Info("proxy enabled", "mode", "list", "count", len(cfg.List))
		return FromProvider(p, log), nil

	default:
		return nil, fmt.Errorf("unknown proxy.mode=%q (expected disabled|env|list)", cfg.Mode)
	}
}

// FromProvider adapts p to a proxy func for net/http.Transport.
func FromProvider(p Provider, log *slog.Logger) func(*http.Request) (*url.URL, error) {
	if p == nil {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}

	return func(req *http.Request) (*url.URL, error) {
		raw, err := p.Next(req.Context())
		if err != nil {
			return nil, err
		}
		return parse(raw, log)
	}
}

func parse(raw string, log *slog.Logger) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty proxy string")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		log.Warn("proxy parse failed", "proxy", raw, "err", err)
		return nil, err
	}
	log.Debug("proxy selected", "host", u.Host)
	return u, nil
}

type listProvider struct {
	items []string
	idx   uint64
}

// NewListProvider rotates through list round-robin.
func NewListProvider(list []string) (Provider, error) {
	clean := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		clean = append(clean, s)
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("proxy list is empty")
	}
	return &listProvider{items: clean}, nil
}

func (p *listProvider) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	i := atomic.AddUint64(&p.idx, 1) - 1
	return p.items[int(i%uint64(len(p.items)))], nil
}
