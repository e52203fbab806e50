// Package config provides configuration management for the Framewright editor agent.
// Configuration is loaded from environment variables with sensible defaults,
// plus an optional YAML file for composition defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// Default values
	DefaultPort     = 8590
	DefaultLogLevel = "info"
	DefaultDataDir  = ".framewright"

	// Environment variable names
	EnvPort     = "FRAMEWRIGHT_PORT"
	EnvLogLevel = "FRAMEWRIGHT_LOG_LEVEL"
	EnvDataDir  = "FRAMEWRIGHT_DATA_DIR"
	EnvHeadless = "FRAMEWRIGHT_HEADLESS"

	// Render backend environment variable names
	EnvRenderBaseURL = "FRAMEWRIGHT_RENDER_BASE_URL"
	EnvRenderToken   = "FRAMEWRIGHT_RENDER_TOKEN"

	// Content API environment variable names
	EnvContentBaseURL = "FRAMEWRIGHT_CONTENT_BASE_URL"
	EnvContentToken   = "FRAMEWRIGHT_CONTENT_TOKEN"

	// Event broker environment variable names
	EnvBrokerURL   = "FRAMEWRIGHT_BROKER_URL"
	EnvBrokerQueue = "FRAMEWRIGHT_BROKER_QUEUE"

	// Composition defaults file environment variable name
	EnvCompositionFile = "FRAMEWRIGHT_COMPOSITION_FILE"

	// Database filename
	DBFilename = "framewright.db"

	// Render poll defaults
	DefaultRenderPollInterval = 1 * time.Second
	DefaultRenderTimeout      = 60 // seconds, per HTTP round trip

	// Event broker defaults
	DefaultBrokerQueue = "framewright.render.events"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	MediaDir() string
	Headless() bool
	RenderBaseURL() string
	RenderToken() string
	RenderPollInterval() time.Duration
	RenderTimeout() time.Duration
	ContentBaseURL() string
	ContentToken() string
	BrokerURL() string
	BrokerQueue() string
	Composition() Composition
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port     int
	logLevel string
	dataDir  string
	headless bool

	renderBaseURL string
	renderToken   string

	contentBaseURL string
	contentToken   string

	brokerURL   string
	brokerQueue string

	composition Composition
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:        DefaultPort,
		logLevel:    DefaultLogLevel,
		dataDir:     defaultDataDir(),
		brokerQueue: DefaultBrokerQueue,
		composition: DefaultComposition(),
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if h := os.Getenv(EnvHeadless); h == "1" || h == "true" {
		cfg.headless = true
	}

	cfg.renderBaseURL = os.Getenv(EnvRenderBaseURL)
	cfg.renderToken = os.Getenv(EnvRenderToken)
	cfg.contentBaseURL = os.Getenv(EnvContentBaseURL)
	cfg.contentToken = os.Getenv(EnvContentToken)
	cfg.brokerURL = os.Getenv(EnvBrokerURL)

	if q := os.Getenv(EnvBrokerQueue); q != "" {
		cfg.brokerQueue = q
	}

	compositionFile := os.Getenv(EnvCompositionFile)
	if compositionFile == "" {
		compositionFile = filepath.Join(cfg.dataDir, "composition.yaml")
	}
	comp, err := LoadComposition(compositionFile)
	if err != nil {
		return nil, fmt.Errorf("invalid composition file %s: %w", compositionFile, err)
	}
	cfg.composition = comp

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// MediaDir returns the directory where uploaded media files are stored
func (c *EnvConfig) MediaDir() string {
	return filepath.Join(c.dataDir, "media")
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) RenderBaseURL() string {
	return c.renderBaseURL
}

func (c *EnvConfig) RenderToken() string {
	return c.renderToken
}

func (c *EnvConfig) RenderPollInterval() time.Duration {
	return DefaultRenderPollInterval
}

func (c *EnvConfig) RenderTimeout() time.Duration {
	return time.Duration(DefaultRenderTimeout) * time.Second
}

func (c *EnvConfig) ContentBaseURL() string {
	return c.contentBaseURL
}

func (c *EnvConfig) ContentToken() string {
	return c.contentToken
}

func (c *EnvConfig) BrokerURL() string {
	return c.brokerURL
}

func (c *EnvConfig) BrokerQueue() string {
	return c.brokerQueue
}

// Composition returns the composition defaults
func (c *EnvConfig) Composition() Composition {
	return c.composition
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
