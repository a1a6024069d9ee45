// Package config resolves CLI settings from flags, environment variables,
// and the config file via Viper.
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/Physolia/sunpy/pkg/vso"
)

// Viper keys understood by the CLI.
const (
	KeyMirrorURL  = "mirror.url"
	KeyMirrorPort = "mirror.port"
	KeyTimeout    = "timeout"
	KeyFetchPath  = "fetch.path"
)

// GetString reads a string setting, checking the OS environment when Viper
// has no value for the key.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// Mirrors returns the configured mirror as a single-candidate list, or the
// default mirror list when none is configured. A URL without a port name is
// ignored; the client requires both.
func Mirrors() []vso.Mirror {
	url := GetString(KeyMirrorURL)
	port := GetString(KeyMirrorPort)
	if url != "" && port != "" {
		return []vso.Mirror{{URL: url, Port: port}}
	}
	return vso.DefaultMirrors
}

// Timeout returns the configured probe timeout, zero when unset.
func Timeout() time.Duration {
	return viper.GetDuration(KeyTimeout)
}

// FetchPath returns the configured download destination pattern.
func FetchPath() string {
	return GetString(KeyFetchPath)
}
