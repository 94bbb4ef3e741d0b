package config

import (
	"github.com/spf13/viper"
)

// Namespace returns the notes namespace holding the provenance ledger
func Namespace() string {
	return viper.GetString("notes.namespace")
}

// MaxRetries returns the bound for optimistic write retries
func MaxRetries() int {
	return viper.GetInt("notes.max_retries")
}

// RequirementsPath returns the path to the requirements collaborator's
// YAML export, relative to the repository root.
func RequirementsPath() string {
	return viper.GetString("requirements.path")
}

// StampPosition returns where new inline tags are inserted
func StampPosition() string {
	return viper.GetString("stamp.position")
}

// DefaultRemote returns the remote used by publish when none is given
func DefaultRemote() string {
	return viper.GetString("publish.remote")
}
