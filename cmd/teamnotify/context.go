package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"teamnotify/internal/config"
	"teamnotify/internal/logging"
	"teamnotify/internal/services"
)

const defaultEnvFile = ".env"

type commandContext struct {
	configFlag  *string
	envFileFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, envFileFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		envFileFlag: envFileFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := c.loadEnvFile(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load env file", "", err)
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// loadEnvFile applies a dotenv file without overriding variables already set
// by the environment. The default file is optional; an explicit one is not.
func (c *commandContext) loadEnvFile() error {
	path := ""
	if c.envFileFlag != nil {
		path = strings.TrimSpace(*c.envFileFlag)
	}
	if path == "" {
		if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", defaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// newLogger builds the run logger writing to the command's stdout, which is
// where the GitHub runner reads workflow commands from.
func (c *commandContext) newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.OutOrStdout(),
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
