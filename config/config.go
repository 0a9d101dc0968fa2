// Package config loads user settings from ~/.zendrawrc.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"
	"gopkg.in/yaml.v3"

	"github.com/KennethOlivas/zen-draw-sub000/autosave"
	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/editor"
	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/history"
)

var log = logger.GetLogger("config")

const FileName = ".zendrawrc"

type Config struct {
	SaveDirectory string            `yaml:"saveDirectory"`
	Confirmations bool              `yaml:"confirmations"`
	Grid          editor.GridConfig `yaml:"grid"`
	HistoryDepth  int               `yaml:"historyDepth"`
	Background    string            `yaml:"background"`
	Style         element.Style     `yaml:"style"`
	Autosave      Autosave          `yaml:"autosave"`
	Store         Store             `yaml:"store"`
}

type Autosave struct {
	Enabled bool          `yaml:"enabled"`
	Path    string        `yaml:"path"`
	Delay   time.Duration `yaml:"delay"`
}

type Store struct {
	Path string `yaml:"path"`
	User string `yaml:"user"`
}

func Default() *Config {
	return &Config{
		Confirmations: true,
		Grid:          editor.DefaultGrid(),
		HistoryDepth:  history.DefaultDepth,
		Background:    document.DefaultBackground,
		Style:         element.DefaultStyle(),
		Autosave: Autosave{
			Enabled: true,
			Path:    "~/.cache/zendraw/autosave.json",
			Delay:   autosave.DefaultDelay,
		},
		Store: Store{
			Path: "~/.local/share/zendraw/projects.db",
			User: os.Getenv("USER"),
		},
	}
}

// Load reads ~/.zendrawrc. A missing file gives the defaults; a file that
// fails to parse gives the defaults and the error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		c := Default()
		c.normalize("")
		return c, nil
	}
	return LoadFile(filepath.Join(home, FileName))
}

func LoadFile(path string) (*Config, error) {
	home, _ := os.UserHomeDir()
	c := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.normalize(home)
		return c, nil
	case err != nil:
		c.normalize(home)
		return c, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		c = Default()
		c.normalize(home)
		return c, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		c = Default()
		c.normalize(home)
		return c, fmt.Errorf("%s: %w", path, err)
	}
	c.normalize(home)
	log.Debugf("loaded config from %s", path)
	return c, nil
}

func (c *Config) validate() error {
	if err := c.Style.Validate(); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	switch c.Grid.Mode {
	case editor.GridLines, editor.GridMesh:
	default:
		return fmt.Errorf("grid.mode: unknown mode %q", c.Grid.Mode)
	}
	if c.Grid.Size <= 0 {
		return fmt.Errorf("grid.size must be positive, got %v", c.Grid.Size)
	}
	if c.HistoryDepth < 1 {
		return fmt.Errorf("historyDepth must be at least 1, got %d", c.HistoryDepth)
	}
	return nil
}

func (c *Config) normalize(home string) {
	c.SaveDirectory = expandPath(c.SaveDirectory, home)
	c.Autosave.Path = expandPath(c.Autosave.Path, home)
	c.Store.Path = expandPath(c.Store.Path, home)
	if c.Autosave.Delay <= 0 {
		c.Autosave.Delay = autosave.DefaultDelay
	}
}

func expandPath(value, home string) string {
	if value == "" {
		return ""
	}
	if home != "" && (value == "~" || strings.HasPrefix(value, "~/")) {
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if abs, err := filepath.Abs(value); err == nil {
			value = abs
		}
	}
	return value
}

// GetSavePath places filename in the save directory when one is configured.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	if err := os.MkdirAll(c.SaveDirectory, 0o755); err != nil {
		log.Warnf("save directory %s: %v", c.SaveDirectory, err)
		return filename
	}
	return filepath.Join(c.SaveDirectory, filename)
}

// EditorOptions maps the settings onto a new editing session.
func (c *Config) EditorOptions() editor.Options {
	opts := editor.DefaultOptions()
	opts.Grid = c.Grid
	opts.Style = c.Style
	opts.HistoryDepth = c.HistoryDepth
	if c.Background != "" {
		opts.Background = c.Background
	}
	return opts
}
