// Package envconfig reads process-level overrides from PADCOLLATE_* environment variables.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LogLevel returns the log level set by PADCOLLATE_DEBUG.
// Values: 0/false = INFO (default), 1/true = DEBUG, larger integers log below DEBUG.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("PADCOLLATE_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

var (
	// Debug adds source locations to log records. Set via PADCOLLATE_DEBUG.
	Debug = Bool("PADCOLLATE_DEBUG")
	// Workers is the default number of collation workers. Zero means the loader default.
	Workers = Uint("PADCOLLATE_WORKERS", 0)
	// Prefetch is the default number of batches buffered per worker. Zero means the loader default.
	Prefetch = Uint("PADCOLLATE_PREFETCH", 0)
)

// BoolWithDefault returns a getter for a boolean variable. Unparsable values count as true.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a getter for a boolean variable that defaults to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// Uint returns a getter for an unsigned integer variable.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// EnvVar describes one supported variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every supported variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"PADCOLLATE_DEBUG":    {"PADCOLLATE_DEBUG", LogLevel(), "Show additional debug information (e.g. PADCOLLATE_DEBUG=1)"},
		"PADCOLLATE_WORKERS":  {"PADCOLLATE_WORKERS", Workers(), "Number of collation workers (default: number of CPUs)"},
		"PADCOLLATE_PREFETCH": {"PADCOLLATE_PREFETCH", Prefetch(), "Batches buffered per worker (default: 2)"},
	}
}

// Values returns every supported variable formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Var returns an environment variable stripped of surrounding spaces and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
