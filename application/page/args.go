package page

import (
	"fmt"
	"strconv"
)

// Args are the named parameters of an action or query invocation
type Args map[string]string

// String returns the value for key, or def when unset
func (a Args) String(key, def string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

// Require returns the value for key or an error when it is missing
func (a Args) Require(key string) (string, error) {
	v, ok := a[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	return v, nil
}

// Int parses the value for key, returning def when unset
func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("argument %q: %w", key, err)
	}
	return n, nil
}

// Bool parses the value for key, returning def when unset
func (a Args) Bool(key string, def bool) (bool, error) {
	v, ok := a[key]
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("argument %q: %w", key, err)
	}
	return b, nil
}

// Index is Int(key, 0) for the common "which row" argument
func (a Args) Index(key string) (int, error) {
	return a.Int(key, 0)
}
