// Package constants defines shared constants used across the checkpoint codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const (
	// EnvConfigDir overrides the config directory location.
	EnvConfigDir = "CHECKPOINT_CONFIG"

	// EnvSpike skips every quality gate check for exploratory work.
	EnvSpike = "CHECKPOINT_SPIKE"
	// EnvSafe restricts the gate to the cheap non-mutating checks.
	EnvSafe = "CHECKPOINT_SAFE"
	// EnvStrict blocks commands the classifier could not fully classify.
	EnvStrict = "CHECKPOINT_STRICT"
	// EnvParanoid widens destructive-path checks to the working directory.
	EnvParanoid = "CHECKPOINT_PARANOID"
)

// Application paths
const (
	AppName          = "checkpoint"
	ConfigFileName   = "config.toml"
	OverridesFile    = ".checkpoint.yaml"
	AuditLogFileName = "audit.log"
)
