// Package config defines the robotbuilder configuration file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/robotbuilder/logging"
	"go.viam.com/robotbuilder/modelpath"
	"go.viam.com/robotbuilder/virtualbase"
)

// Config describes where robot descriptions live and how they are loaded.
type Config struct {
	// ModelPaths are searched in order for description identifiers. Empty means use
	// modelpath.EnvModelPath or the working directory.
	ModelPaths []string `json:"model_paths,omitempty"`
	// TransientPrefix starts the name of patched description files.
	TransientPrefix string `json:"transient_prefix,omitempty"`
	Debug           bool   `json:"debug,omitempty"`
	LogLevel        string `json:"log_level,omitempty"`
	// LogFile, when set, receives a copy of every log line. It is rotated by size.
	LogFile string `json:"log_file,omitempty"`

	ConfigFilePath string `json:"-"`
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate(path string) error {
	for idx, p := range c.ModelPaths {
		if strings.TrimSpace(p) == "" {
			return utils.NewConfigValidationFieldRequiredError(path, fmt.Sprintf("model_paths[%d]", idx))
		}
	}
	if strings.ContainsAny(c.TransientPrefix, `/\`) || c.TransientPrefix == "." || c.TransientPrefix == ".." {
		return utils.NewConfigValidationError(path,
			errors.Errorf("transient_prefix %q must be a plain file name prefix", c.TransientPrefix))
	}
	if c.LogLevel != "" {
		if _, err := logging.LevelFromString(c.LogLevel); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	return nil
}

// Level returns the configured log level, with Debug taking precedence.
func (c *Config) Level() logging.Level {
	if c.Debug {
		return logging.DEBUG
	}
	if level, err := logging.LevelFromString(c.LogLevel); err == nil {
		return level
	}
	return logging.INFO
}

// Resolver returns a model path resolver over ModelPaths. Relative model paths are taken relative
// to the directory of the config file, when there is one.
func (c *Config) Resolver() *modelpath.Resolver {
	if len(c.ModelPaths) == 0 {
		return modelpath.FromEnv()
	}
	roots := make([]string, 0, len(c.ModelPaths))
	for _, p := range c.ModelPaths {
		if !filepath.IsAbs(p) && c.ConfigFilePath != "" {
			p = filepath.Join(filepath.Dir(c.ConfigFilePath), p)
		}
		roots = append(roots, p)
	}
	return modelpath.NewResolver(roots...)
}

// LogFilePath returns LogFile, taken relative to the directory of the config file when it is
// not absolute. It is empty when no log file is configured.
func (c *Config) LogFilePath() string {
	if c.LogFile == "" || filepath.IsAbs(c.LogFile) || c.ConfigFilePath == "" {
		return c.LogFile
	}
	return filepath.Join(filepath.Dir(c.ConfigFilePath), c.LogFile)
}

// InjectorOptions returns the virtualbase options implied by the config.
func (c *Config) InjectorOptions() []virtualbase.Option {
	if c.TransientPrefix == "" {
		return nil
	}
	return []virtualbase.Option{virtualbase.WithTransientPrefix(c.TransientPrefix)}
}
