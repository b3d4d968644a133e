package preflight

import (
	"context"

	"quarry/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Download directory", cfg.Paths.DownloadDir),
	}

	base := cfg.BaseAddress()
	if cfg.Session.StartInMockMode {
		results = append(results, Result{Name: "Service", Passed: true, Detail: "skipped (mock mode)"})
		return results
	}
	service := CheckService(ctx, base, cfg.API.Token)
	results = append(results, service)

	// Auth only means something once the service answers.
	if service.Passed && cfg.API.Token != "" {
		results = append(results, CheckAuth(ctx, base, cfg.API.Token))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
