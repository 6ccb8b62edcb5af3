package config

import (
	"io"
	"time"
)

// Config defines the read-only view of runtime configuration.
//
// Keys are dotted paths such as "modules.otp.ttl_minutes". Missing keys yield
// the zero value of the requested type.
type Config interface {
	io.Closer

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value associated with key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the value associated with key as an int64.
	GetInt64(key string) int64

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetSecond interprets the value associated with key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute interprets the value associated with key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetArray retrieves the value associated with key as a slice of strings.
	// Scalar values are split on commas; blank elements are dropped.
	GetArray(key string) []string
}
