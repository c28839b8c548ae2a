// Package envutil reads settings from the environment. Unset and empty
// variables both fall back to the given default.
package envutil

import (
	"os"
	"strconv"

	"github.com/youralert/youralert/golib/errors"
)

// String returns the value of name, or def
func String(name, def string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return def
}

// Int returns the value of name parsed as an integer, or def
func Int(name string, def int) (int, error) {
	val := os.Getenv(name)
	if val == "" {
		return def, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def, errors.Errorf("environment variable %s should be an integer, got %q", name, val)
	}
	return i, nil
}
