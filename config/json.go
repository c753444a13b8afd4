package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrMalformed reports input that could not be decoded.
	ErrMalformed = errors.New("malformed config")
	// ErrMissingField reports a required coefficient absent from the input.
	ErrMissingField = errors.New("missing config field")
)

// simFields lists every JSON name of Sim. requiredSimFields is the subset
// every set_config payload must carry; fields tagged omitempty are optional
// and keep their default when absent.
var simFields, requiredSimFields = func() (all, required []string) {
	t := reflect.TypeOf(Sim{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		all = append(all, name)
		if !strings.Contains(opts, "omitempty") {
			required = append(required, name)
		}
	}
	return all, required
}()

// checkKeyCase rejects a key that names a field in different letter case.
// encoding/json would otherwise apply it to that field. Unknown keys are
// ignored.
func checkKeyCase(key string) error {
	for _, name := range simFields {
		if key == name {
			return nil
		}
		if strings.EqualFold(key, name) {
			return fmt.Errorf("%w: key %q does not match field %q", ErrMalformed, key, name)
		}
	}
	return nil
}

// ParseSimJSON decodes a full coefficient set from camelCase JSON.
// Keys are matched case-sensitively. The input is rejected as a whole if it
// is not an object, if a key differs from a field name only in case, if any
// value has the wrong type, or if any required field is missing.
func ParseSimJSON(data []byte) (Sim, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Sim{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if fields == nil {
		return Sim{}, fmt.Errorf("%w: expected an object", ErrMalformed)
	}
	for key := range fields {
		if err := checkKeyCase(key); err != nil {
			return Sim{}, err
		}
	}
	for _, name := range requiredSimFields {
		raw, ok := fields[name]
		if !ok {
			return Sim{}, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		if string(raw) == "null" {
			return Sim{}, fmt.Errorf("%w: %s is null", ErrMalformed, name)
		}
	}

	sim := DefaultSim()
	if err := json.Unmarshal(data, &sim); err != nil {
		return Sim{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return sim, nil
}

// ParseHashList decodes a JSON array of brain hash strings.
func ParseHashList(data []byte) ([]string, error) {
	var hashes []string
	if err := json.Unmarshal(data, &hashes); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if hashes == nil {
		return nil, fmt.Errorf("%w: expected an array", ErrMalformed)
	}
	return hashes, nil
}
