// Package config provides environment helpers and the presets file for
// chasecam commands.
package config

import (
	"os"
	"strconv"
)

// Defaults used when the environment is silent.
const (
	DefaultPort     = 7460
	DefaultLogLevel = "info"
	DefaultHostURL  = "ws://127.0.0.1:7460/ws/host"
)

// Port returns the listen port from CHASECAM_PORT, or def when unset or
// not a valid port number.
func Port(def int) int {
	if s := os.Getenv("CHASECAM_PORT"); s != "" {
		if p, err := strconv.Atoi(s); err == nil && p > 0 && p < 65536 {
			return p
		}
	}
	return def
}

// PresetsPath returns the presets file from CHASECAM_CONFIG, or "" for
// built-in defaults only.
func PresetsPath() string {
	return os.Getenv("CHASECAM_CONFIG")
}

// LogLevel returns LOG_LEVEL or DefaultLogLevel.
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}

// HostURL returns the server websocket URL a host connects to, from
// CHASECAM_URL.
func HostURL() string {
	if u := os.Getenv("CHASECAM_URL"); u != "" {
		return u
	}
	return DefaultHostURL
}

// APIURL returns the control API base URL from CHASECAM_API, or the local
// server on Port.
func APIURL() string {
	if u := os.Getenv("CHASECAM_API"); u != "" {
		return u
	}
	return "http://127.0.0.1:" + strconv.Itoa(Port(DefaultPort))
}
