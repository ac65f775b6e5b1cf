package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "BUCKETCTL"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for bucketctl.
type Config struct {
	// Profile names the entry of the profiles file to apply; empty selects
	// the default profile if the file exists.
	Profile      string           `mapstructure:"profile"`
	ProfilesFile string           `mapstructure:"profiles_file"`
	Backend      BackendConfig    `mapstructure:"backend"`
	S3           S3Config         `mapstructure:"s3"`
	Filesystem   FilesystemConfig `mapstructure:"filesystem"`
	Service      ServiceConfig    `mapstructure:"service"`
	Output       OutputConfig     `mapstructure:"output"`
	Log          LogConfig        `mapstructure:"log"`
}

// BackendConfig selects the object store.
type BackendConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=s3 filesystem"`
}

// Backend types.
const (
	BackendS3         = "s3"
	BackendFilesystem = "filesystem"
)

// S3Config holds the S3 client settings. Empty values are left to the AWS
// SDK's own resolution (AWS_* variables, shared config files).
type S3Config struct {
	Endpoint     string `mapstructure:"endpoint" validate:"omitempty,url"`
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	SessionToken string `mapstructure:"session_token"`
	AWSProfile   string `mapstructure:"aws_profile"`
	PathStyle    bool   `mapstructure:"path_style"`
}

// FilesystemConfig holds the local directory backend settings.
type FilesystemConfig struct {
	Root string `mapstructure:"root"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	PageSize int32 `mapstructure:"page_size" validate:"min=1,max=1000"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	JSON  bool `mapstructure:"json"`
	Quiet bool `mapstructure:"quiet"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"backend":       "backend.type",
	"endpoint":      "s3.endpoint",
	"region":        "s3.region",
	"path-style":    "s3.path_style",
	"aws-profile":   "s3.aws_profile",
	"root":          "filesystem.root",
	"page-size":     "service.page_size",
	"json":          "output.json",
	"quiet":         "output.quiet",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"profiles-file": "profiles_file",
	"profile":       "profile",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
// Every key gets a default so AutomaticEnv can resolve it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("profile", "")
	v.SetDefault("profiles_file", DefaultConfigPath())

	v.SetDefault("backend.type", BackendS3)

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.session_token", "")
	v.SetDefault("s3.aws_profile", "")
	v.SetDefault("s3.path_style", false)

	v.SetDefault("filesystem.root", "./data")

	v.SetDefault("service.page_size", 1000)

	v.SetDefault("output.json", false)
	v.SetDefault("output.quiet", false)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFiles[0], err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merge config file %s: %w", cf, err)
			}
		}
	} else if path := DefaultConfigPath(); path != "" {
		// The profiles file doubles as the default settings file.
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("error reading config file", "file", path, "err", err)
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags and the rules that span sections.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if c.Backend.Type == BackendFilesystem && c.Filesystem.Root == "" {
		return fmt.Errorf("validate config: %w", ErrRootRequired)
	}

	return nil
}
