package common

import (
	"github.com/futig/docsearch-backend/internal/config"
	pkgHTTP "github.com/futig/docsearch-backend/pkg/http"
	openai "github.com/sashabaranov/go-openai"
)

// NewOpenAIClient builds a client for any OpenAI-compatible endpoint on top
// of the tuned HTTP transport. service labels outbound call logs and metrics;
// fanOut sizes the keep-alive pool.
func NewOpenAIClient(cfg config.HTTPClientConfig, service string, fanOut int, observe pkgHTTP.ObserveFunc) *openai.Client {
	httpClient := pkgHTTP.NewClient(
		pkgHTTP.WithTimeouts(pkgHTTP.Timeouts{
			Connect:        cfg.ConnTimeout,
			Request:        cfg.RequestTimeout,
			KeepAlive:      cfg.KeepAlive,
			ResponseHeader: cfg.ResponseHeaderTimeout,
			IdleConn:       cfg.IdleConnTimeout,
		}),
		pkgHTTP.WithMaxIdleConnsPerHost(fanOut),
		pkgHTTP.WithRequestLogging(service, observe),
	)

	clientCfg := openai.DefaultConfig(cfg.Token)
	if cfg.Url != "" {
		clientCfg.BaseURL = cfg.Url
	}
	clientCfg.HTTPClient = httpClient

	return openai.NewClientWithConfig(clientCfg)
}
