package main

import (
	"log/slog"
	"strings"
	"sync"

	"lingosub/internal/ai"
	"lingosub/internal/config"
	"lingosub/internal/knowledge"
	"lingosub/internal/lexfilter"
	"lingosub/internal/logging"
	"lingosub/internal/pipeline"
	"lingosub/internal/store"
)

// commandContext lazily resolves configuration and shared services so each
// subcommand only pays for what it touches.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// withStore opens the store, runs fn, and closes the store afterwards.
func (c *commandContext) withStore(fn func(cfg *config.Config, st *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

// buildOrchestrator wires the full processing pipeline against a live store.
func (c *commandContext) buildOrchestrator(cfg *config.Config, st *store.Store, logger *slog.Logger) (*pipeline.Orchestrator, error) {
	gateway, err := ai.NewClientFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	svc := knowledge.NewService(st)
	filter := lexfilter.New(svc, lexfilter.ThresholdsFromConfig(cfg))
	return pipeline.NewOrchestrator(cfg, st, gateway, filter, logger), nil
}
