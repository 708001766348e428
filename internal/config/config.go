package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"repofind/internal/ui/input"
)

// CurrentVersion is written to new config files
const CurrentVersion = 1

// Config represents the application configuration
type Config struct {
	Version  int                 `toml:"version"`
	Roots    []string            `toml:"roots"`     // directories scanned for repositories
	Manifest string              `toml:"manifest"`  // repository manifest used instead of scanning
	MaxDepth int                 `toml:"max_depth"` // directory levels below a root
	SkipDirs []string            `toml:"skip_dirs"`
	Watch    bool                `toml:"watch"`
	Ranked   bool                `toml:"ranked"` // keep fuzzy score order instead of input order
	UI       UISettings          `toml:"ui"`
	Keys     map[string][]string `toml:"keys"` // action name -> keys
	LogLevel string              `toml:"log_level"`
	LogFile  string              `toml:"log_file"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	RefreshInterval Duration `toml:"refresh_interval"`
	PollInterval    Duration `toml:"poll_interval"`
	ShowHelp        bool     `toml:"show_help"`
	Colors          Colors   `toml:"colors"`
}

// Colors are ANSI 256 color codes or hex colors
type Colors struct {
	Selected string `toml:"selected"`
	Count    string `toml:"count"`
	Fill     string `toml:"fill"`
	Prompt   string `toml:"prompt"`
	Status   string `toml:"status"`
	Error    string `toml:"error"`
	Help     string `toml:"help"`
}

// Duration is a time.Duration written as a string such as "100ms"
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	// Path is the file Load and Save use
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// DefaultPath returns the location of the user's config file
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "repofind", "config.toml")
}

// NewConfigService creates a config service for path. An empty path
// means DefaultPath.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration file, or the defaults if it does not exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Settings missing
// from the file keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Version:  CurrentVersion,
		Roots:    []string{homeDir},
		MaxDepth: 5,
		SkipDirs: []string{
			"node_modules", ".npm", "vendor", ".cache", "dist", "build", "target",
			".gradle", "__pycache__", ".pytest_cache", ".tox", "venv", ".venv", "env",
		},
		UI: UISettings{
			RefreshInterval: Duration(100 * time.Millisecond),
			PollInterval:    Duration(10 * time.Millisecond),
			ShowHelp:        true,
			Colors: Colors{
				Selected: "2",
				Count:    "3",
				Fill:     "4",
				Prompt:   "4",
				Status:   "2",
				Error:    "1",
				Help:     "241",
			},
		},
	}
}

// fillDefaults restores defaults for settings the file set to zero values
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if len(c.Roots) == 0 {
		c.Roots = def.Roots
	}
	if c.UI.RefreshInterval == 0 {
		c.UI.RefreshInterval = def.UI.RefreshInterval
	}
	if c.UI.PollInterval == 0 {
		c.UI.PollInterval = def.UI.PollInterval
	}
}

// Validate reports settings that cannot work
func (c *Config) Validate() error {
	var errs []error
	if c.Version > CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported config version %d", c.Version))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth))
	}
	if c.UI.PollInterval < 0 || c.UI.RefreshInterval < 0 {
		errs = append(errs, errors.New("ui intervals must not be negative"))
	}
	if c.UI.PollInterval > c.UI.RefreshInterval {
		errs = append(errs, fmt.Errorf("ui.poll_interval (%s) must not exceed ui.refresh_interval (%s)",
			time.Duration(c.UI.PollInterval), time.Duration(c.UI.RefreshInterval)))
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("log_level: %w", err))
		}
	}
	km := input.DefaultKeyMap()
	if err := km.Override(c.Keys); err != nil {
		errs = append(errs, fmt.Errorf("keys: %w", err))
	}
	return errors.Join(errs...)
}

// KeyMap returns the default key bindings with the configured overrides
func (c *Config) KeyMap() (input.KeyMap, error) {
	km := input.DefaultKeyMap()
	if err := km.Override(c.Keys); err != nil {
		return km, fmt.Errorf("keys: %w", err)
	}
	return km, nil
}
