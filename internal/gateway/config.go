package gateway

import (
	"log/slog"

	"quarry/internal/config"
	"quarry/internal/mockdata"
	"quarry/internal/remote"
	"quarry/internal/resilience"
)

// FromConfig wires a live client, a fresh mock provider and a session from
// cfg. Extra options are applied after the configured ones.
func FromConfig(cfg *config.Config, logger *slog.Logger, opts ...resilience.Option) *Gateway {
	client := remote.New(remote.Config{
		BaseURL:   cfg.BaseAddress(),
		Token:     cfg.API.Token,
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.RequestTimeout(),
		Logger:    logger,
	})
	sessionOpts := []resilience.Option{
		resilience.WithLogger(logger),
		resilience.WithMockMode(cfg.Session.StartInMockMode),
	}
	sessionOpts = append(sessionOpts, opts...)
	return New(client, mockdata.NewProvider(), resilience.NewSession(sessionOpts...))
}
