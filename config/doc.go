// Package config provides configuration loading and validation for bucketctl.
//
// The package handles YAML configuration files, .env files, environment
// variables and CLI flags with automatic merging and validation using
// go-playground/validator. It also owns the profiles file managed by
// "bucketctl configure".
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (BUCKETCTL_ prefix), including those loaded
//     from .env files by LoadDotEnv
//  4. CLI flags
//  5. The selected profile, for S3 settings still empty after 1-4
//
// # Usage
//
//	if err := config.LoadDotEnv(".env", false); err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg, err := config.Load([]string{"bucketctl.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := cfg.ApplyProfile(); err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with BUCKETCTL_ prefix:
//   - backend.type → BUCKETCTL_BACKEND_TYPE
//   - s3.endpoint → BUCKETCTL_S3_ENDPOINT
//   - log.level → BUCKETCTL_LOG_LEVEL
//
// Standard AWS_* variables are read by the AWS SDK itself.
//
// # Profiles
//
// The profiles file (~/.bucketctl/config.yaml by default) holds named
// endpoints with credentials:
//
//	profiles:
//	  - name: minio
//	    endpoint: http://localhost:9000
//	    region: us-east-1
//	    access_key: minioadmin
//	    secret_key: minioadmin
//	    path_style: true
//	    default: true
package config
