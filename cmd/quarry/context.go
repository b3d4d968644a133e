package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"quarry/internal/config"
	"quarry/internal/gateway"
	"quarry/internal/logging"
	"quarry/internal/resilience"
	"quarry/internal/workspace"
)

type commandContext struct {
	configFlag   *string
	mockFlag     *bool
	logLevelFlag *string

	stderr io.Writer

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	storeOnce sync.Once
	store     *workspace.Store
	storeErr  error

	gatewayOnce sync.Once
	gateway     *gateway.Gateway
	gatewayErr  error
}

func newCommandContext(configFlag *string, mockFlag *bool, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		mockFlag:     mockFlag,
		logLevelFlag: logLevelFlag,
		stderr:       os.Stderr,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.mockFlag != nil && *c.mockFlag {
			cfg.Session.StartInMockMode = true
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			fmt.Fprintf(c.stderr, "logging disabled: %v\n", err)
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) ensureStore(ctx context.Context) (*workspace.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		c.store, c.storeErr = workspace.Open(ctx, cfg)
	})
	return c.store, c.storeErr
}

// ensureGateway builds the session gateway. The configured token wins over
// the one saved by login.
func (c *commandContext) ensureGateway(ctx context.Context) (*gateway.Gateway, error) {
	c.gatewayOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.gatewayErr = err
			return
		}
		sessionCfg := *cfg
		if sessionCfg.API.Token == "" {
			store, err := c.ensureStore(ctx)
			if err != nil {
				c.gatewayErr = err
				return
			}
			if sessionCfg.API.Token, err = store.Token(ctx); err != nil {
				c.gatewayErr = err
				return
			}
		}
		c.gateway = gateway.FromConfig(&sessionCfg, c.ensureLogger(),
			resilience.WithOnFallback(func(op string, err error) {
				fmt.Fprintln(c.stderr, mockBanner(c.stderr, err))
			}),
		)
		if sessionCfg.Session.StartInMockMode {
			fmt.Fprintln(c.stderr, mockBanner(c.stderr, nil))
		}
	})
	return c.gateway, c.gatewayErr
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func requireArg(args []string, name string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New(name + " is required")
	}
	return strings.TrimSpace(args[0]), nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
