package bootstrap

import (
	"log/slog"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/client/httpc"
	"shopsearch/internal/client/proxy"
	"shopsearch/internal/client/transport"
	"shopsearch/internal/config"
)

func BuildTransport(profile *config.Config, log *slog.Logger) (transport.Transport, error) {
	log.Info("profile",
		"env", profile.Env,
		"backend", profile.Backend.BaseURL,
		"proxy_mode", profile.Proxy.Mode,
		"proxy_list_len", len(profile.Proxy.List),
	)

	proxyFunc, err := proxy.FuncFromConfig(proxy.Config{
		Mode: profile.Proxy.Mode,
		List: profile.Proxy.List,
	}, log)
	if err != nil {
		return nil, err
	}

	if proxyFunc == nil {
		log.Debug("proxy OFF", "mode", profile.Proxy.Mode)
	} else {
		log.Info("proxy ON", "mode", profile.Proxy.Mode)
	}

	return transport.Build(transport.Options{
		HTTPClient: httpc.New(httpc.Options{
			Timeout:         profile.Timeout(),
			Proxy:           proxyFunc,
			MaxConnsPerHost: profile.HTTP.Concurrency,
		}),
		Concurrency: profile.HTTP.Concurrency,
		RatePerSec:  profile.HTTP.RatePerSecond,
		Logger:      log,
	})
}

// BuildService wires the backend client on top of BuildTransport.
func BuildService(profile *config.Config, log *slog.Logger) (shopping.Service, error) {
	tr, err := BuildTransport(profile, log)
	if err != nil {
		return nil, err
	}
	return shopping.New(tr, profile.Backend.BaseURL, log), nil
}
