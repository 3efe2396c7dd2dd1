package executor

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Config is a read-only typed view over a task's declarative configuration
// tree, as handed over by the surrounding workflow engine.
type Config struct {
	values map[string]interface{}
}

// NewConfig wraps an already-parsed configuration tree.
func NewConfig(values map[string]interface{}) Config {
	return Config{values: values}
}

// ParseConfig parses a JSON object into a Config.
func ParseConfig(payload []byte) (Config, error) {
	var values map[string]interface{}
	if err := json.Unmarshal(payload, &values); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	return Config{values: values}, nil
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Nested returns the object under key, or an empty Config when the key is
// absent or holds a non-object value.
func (c Config) Nested(key string) Config {
	if nested, ok := c.values[key].(map[string]interface{}); ok {
		return Config{values: nested}
	}
	return Config{}
}

// GetString returns the string under key, failing when the key is missing or
// holds a non-string.
func (c Config) GetString(key string) (string, error) {
	value, ok := c.values[key]
	if !ok {
		return "", errors.Errorf("missing required key %q", key)
	}
	s, ok := value.(string)
	if !ok {
		return "", errors.Errorf("key %q is not a string", key)
	}
	return s, nil
}

// GetStringOr returns the string under key, or def when the key is absent.
func (c Config) GetStringOr(key, def string) string {
	if s, ok := c.values[key].(string); ok {
		return s
	}
	return def
}

// GetBool returns the boolean under key, or def when the key is absent or
// holds a non-boolean.
func (c Config) GetBool(key string, def bool) bool {
	if b, ok := c.values[key].(bool); ok {
		return b
	}
	return def
}

// GetStringList returns the list of strings under key. An absent key yields
// a nil list; a present non-list or non-string element is an error.
func (c Config) GetStringList(key string) ([]string, error) {
	value, ok := c.values[key]
	if !ok {
		return nil, nil
	}

	items, ok := value.([]interface{})
	if !ok {
		return nil, errors.Errorf("key %q is not a list", key)
	}

	list := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, errors.Errorf("key %q has a non-string element at index %d", key, i)
		}
		list[i] = s
	}
	return list, nil
}
