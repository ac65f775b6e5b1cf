package config

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileName     = errors.New("profile name is required")
)

// Errors for configuration validation.
var (
	ErrRootRequired = errors.New("filesystem root is required for the filesystem backend")
)
