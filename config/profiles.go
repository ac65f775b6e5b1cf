package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile holds connection settings for one named S3 endpoint.
type Profile struct {
	Name      string `yaml:"name"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
	Default   bool   `yaml:"default,omitempty"`
}

// ConfigFile holds the profiles file. Keys other than "profiles" are kept
// as read so that saving does not drop settings the file shares with Load.
type ConfigFile struct {
	Profiles []Profile      `yaml:"profiles"`
	Rest     map[string]any `yaml:",inline"`
}

// GetProfile returns the profile by name.
// If name is empty, returns the default profile.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	if name == "" {
		return c.GetDefaultProfile()
	}

	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// GetDefaultProfile returns the profile marked as default, or the first
// profile when none is.
func (c *ConfigFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	for i := range c.Profiles {
		if c.Profiles[i].Default {
			return &c.Profiles[i], nil
		}
	}

	return &c.Profiles[0], nil
}

// AddProfile adds a new profile. Returns ErrProfileExists if a profile
// with the same name already exists. Use UpdateProfile to modify an existing profile.
func (c *ConfigFile) AddProfile(p Profile) error {
	if p.Name == "" {
		return ErrProfileName
	}
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
		}
	}
	c.Profiles = append(c.Profiles, p)
	if p.Default {
		return c.SetDefault(p.Name)
	}
	return nil
}

// UpdateProfile replaces an existing profile. Returns ErrProfileNotFound
// if the profile doesn't exist.
func (c *ConfigFile) UpdateProfile(p Profile) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			c.Profiles[i] = p
			if p.Default {
				return c.SetDefault(p.Name)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, p.Name)
}

// RemoveProfile removes a profile by name.
func (c *ConfigFile) RemoveProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// SetDefault marks the named profile as default and clears the flag on
// every other profile.
func (c *ConfigFile) SetDefault(name string) error {
	found := false
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles[i].Default = true
			found = true
		} else {
			c.Profiles[i].Default = false
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return nil
}

// ProfileNames returns a list of all profile names.
func (c *ConfigFile) ProfileNames() []string {
	names := make([]string, len(c.Profiles))
	for i := range c.Profiles {
		names[i] = c.Profiles[i].Name
	}
	return names
}

// Save writes the config to the specified path with owner-only permissions.
// Creates the parent directory if it doesn't exist.
func (c *ConfigFile) Save(path string) error {
	cleanPath := filepath.Clean(path)

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// LoadConfigFile loads the profiles file from the specified path.
func LoadConfigFile(path string) (*ConfigFile, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadOrEmpty is LoadConfigFile that returns an empty ConfigFile when the
// file does not exist yet.
func LoadOrEmpty(path string) (*ConfigFile, error) {
	cfg, err := LoadConfigFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ConfigFile{}, nil
	}
	return cfg, err
}

// DefaultConfigPath returns the default profiles file path (~/.bucketctl/config.yaml).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bucketctl", "config.yaml")
}

// ApplyProfile fills the S3 settings left empty by files, environment and
// flags from the selected profile.
//
// With no profile name, the default profile is used if the profiles file
// exists; a missing file is not an error. A profile requested by name must
// exist.
func (c *Config) ApplyProfile() error {
	if c.ProfilesFile == "" {
		if c.Profile != "" {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, c.Profile)
		}
		return nil
	}

	file, err := LoadConfigFile(c.ProfilesFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && c.Profile == "" {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("apply profile: %w: %s", ErrProfileNotFound, c.Profile)
		}
		return fmt.Errorf("apply profile: %w", err)
	}

	if c.Profile == "" && len(file.Profiles) == 0 {
		return nil
	}

	p, err := file.GetProfile(c.Profile)
	if err != nil {
		return fmt.Errorf("apply profile: %w", err)
	}

	fill(&c.S3.Endpoint, p.Endpoint)
	fill(&c.S3.Region, p.Region)
	fill(&c.S3.AccessKey, p.AccessKey)
	fill(&c.S3.SecretKey, p.SecretKey)
	if p.PathStyle {
		c.S3.PathStyle = true
	}
	c.Profile = p.Name

	return nil
}

func fill(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
