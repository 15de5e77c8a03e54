package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/layout"
	"github.com/matzehuels/ontoviz/pkg/pipeline"
)

// =============================================================================
// Config File
// =============================================================================

// Config is the optional TOML configuration file. Command-line flags
// override the values it sets.
//
//	[layout]
//	algorithm = "force"
//	node_radius = 24.0
//
//	[hull]
//	padding = 20.0
//
//	[render]
//	formats = ["svg", "png"]
//	engine = "graphviz"
//
//	[source]
//	mongo_uri = "mongodb://localhost:27017"
//	database = "ontology"
//
//	[server]
//	addr = ":8080"
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	Layout layout.Options `toml:"layout"`
	Hull   HullConfig     `toml:"hull"`
	Render RenderConfig   `toml:"render"`
	Source SourceConfig   `toml:"source"`
	Server ServerConfig   `toml:"server"`
}

// HullConfig configures group hulls.
type HullConfig struct {
	Padding float64 `toml:"padding"`
}

// RenderConfig configures artifact rendering.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Engine   string   `toml:"engine"`
	Detailed bool     `toml:"detailed"`
	PNGScale float64  `toml:"png_scale"`
}

// SourceConfig configures where snapshots come from when the input is a
// MongoDB URI.
type SourceConfig struct {
	MongoURI        string `toml:"mongo_uri"`
	Database        string `toml:"database"`
	NodesCollection string `toml:"nodes_collection"`
	EdgesCollection string `toml:"edges_collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	RedisURL        string        `toml:"redis_url"`
	FrameEvery      int           `toml:"frame_every"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

const (
	defaultAddr            = ":8080"
	defaultDatabase        = "ontology"
	defaultShutdownTimeout = 10 * time.Second
)

// loadConfig reads path. An empty path loads the default config file when
// it exists and returns an empty config otherwise. Unknown keys are logged.
func loadConfig(path string, logger *log.Logger) (*Config, error) {
	cfg := &Config{}
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	for _, key := range md.Undecoded() {
		logger.Warn("unknown config key", "key", key.String(), "file", path)
	}
	logger.Debug("loaded config", "file", path)
	return cfg, nil
}

// defaultConfigPath returns ~/.config/ontoviz/config.toml, honoring
// XDG_CONFIG_HOME.
func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// pipelineOptions converts the config into pipeline options. Flags applied
// afterwards override these values.
func (c *Config) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Layout:   c.Layout,
		Padding:  c.Hull.Padding,
		Formats:  append([]string(nil), c.Render.Formats...),
		Engine:   c.Render.Engine,
		Detailed: c.Render.Detailed,
		PNGScale: c.Render.PNGScale,
	}
	return opts
}

func (s ServerConfig) addr() string {
	if s.Addr == "" {
		return defaultAddr
	}
	return s.Addr
}

func (s ServerConfig) shutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return defaultShutdownTimeout
	}
	return s.ShutdownTimeout
}

func (s SourceConfig) database() string {
	if s.Database == "" {
		return defaultDatabase
	}
	return s.Database
}
