// Package config loads the tool configuration from YAML and keeps the
// process-wide current configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sheetanim/sheetanim/frameanalysis"
	"github.com/sheetanim/sheetanim/spritegrid"
)

// 配置文件名与环境变量
const (
	FileName = "sheetanim.yaml"
	EnvPath  = "SHEETANIM_CONFIG"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the tool configuration. Keys absent from the file keep their
// defaults.
type Config struct {
	AlphaThreshold  int             `yaml:"alpha_threshold"`
	DefaultTile     spritegrid.Size `yaml:"default_tile"`
	Margin          int             `yaml:"margin"`
	Spacing         int             `yaml:"spacing"`
	FrameDurationMS int             `yaml:"frame_duration_ms"`

	// AnimationDirs are the catalog folders tracked at startup.
	AnimationDirs []string `yaml:"animation_dirs"`
	ExportDir     string   `yaml:"export_dir"`
	ExportScript  bool     `yaml:"export_script"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Workers bounds how many sheets are analyzed at once.
	Workers int `yaml:"workers"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AlphaThreshold:  frameanalysis.DefaultAlphaThreshold,
		DefaultTile:     spritegrid.Size{W: 32, H: 32},
		FrameDurationMS: 100,
		ExportDir:       ".",
		ExportScript:    true,
		LogLevel:        "info",
		Workers:         runtime.NumCPU(),
	}
}

// Parse decodes YAML over the defaults. Relative directories are resolved
// against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.normalize(baseDir)
	return cfg, nil
}

// LoadFile reads and parses the YAML file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func (c *Config) normalize(baseDir string) {
	c.AlphaThreshold = min(max(c.AlphaThreshold, 0), 255)
	def := Default()
	if c.DefaultTile.W <= 0 || c.DefaultTile.H <= 0 {
		c.DefaultTile = def.DefaultTile
	}
	c.Margin = max(c.Margin, 0)
	c.Spacing = max(c.Spacing, 0)
	if c.FrameDurationMS <= 0 {
		c.FrameDurationMS = def.FrameDurationMS
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	for i, d := range c.AnimationDirs {
		c.AnimationDirs[i] = resolveDir(baseDir, d)
	}
	if c.ExportDir == "" {
		c.ExportDir = def.ExportDir
	}
	c.ExportDir = resolveDir(baseDir, c.ExportDir)
	if c.LogFile != "" {
		c.LogFile = resolveDir(baseDir, c.LogFile)
	}
}

func resolveDir(baseDir, p string) string {
	if baseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// Level returns the zerolog level named by LogLevel, info when unknown.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// ---------- 路径解析 / Path resolution ----------

// ResolvePath finds the config file: explicit wins, then $SHEETANIM_CONFIG,
// then sheetanim.yaml next to the executable or up to three directories
// above it, then the working directory. ok is false when no file exists.
func ResolvePath(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if p := os.Getenv(EnvPath); p != "" && fileExists(p) {
		return p, true
	}
	if exe, err := os.Executable(); err == nil && exe != "" {
		dir := filepath.Dir(exe)
		for range 4 {
			if p := filepath.Join(dir, FileName); fileExists(p) {
				return p, true
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		if p := filepath.Join(cwd, FileName); fileExists(p) {
			return p, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ---------- 当前配置 / Current configuration ----------

var (
	current   *Config
	currentMu sync.RWMutex
)

// Load resolves, reads and installs the current configuration. With no
// config file to be found the defaults are installed. An explicit path that
// cannot be read is an error.
func Load(explicit string) (*Config, error) {
	cfg := Default()
	if path, ok := ResolvePath(explicit); ok {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	Set(cfg)
	return cfg, nil
}

// Set installs cfg as the current configuration.
func Set(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}

// Get returns the current configuration, or the defaults when none is
// installed.
func Get() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	if current == nil {
		return Default()
	}
	return current
}

// Has reports whether a configuration has been installed.
func Has() bool {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current != nil
}

// Clear removes the current configuration.
func Clear() {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = nil
}
