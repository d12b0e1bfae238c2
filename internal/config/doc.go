// Package config defines the format-agnostic model of a burstcut
// configuration file and the Loader interface that concrete formats
// implement.
//
// Every setting is optional. A nil field means "not set in the file", so the
// CLI can layer file values between built-in defaults and explicit flags.
package config
