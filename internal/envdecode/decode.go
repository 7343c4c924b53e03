// Package envdecode turns parsed JSON secret payloads into environment
// entries. It is the decoding collaborator shared by all vault backends.
package envdecode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/systmms/secretenv/pkg/vault"
)

// DecodeError reports a payload that is not valid JSON or does not match the
// decoding contract. Vault backends propagate it unchanged.
type DecodeError struct {
	Secret string
	Key    string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cannot decode secret %q: key %q: %s", e.Secret, e.Key, e.Reason)
	}
	return fmt.Sprintf("cannot decode secret %q: %s", e.Secret, e.Reason)
}

// Parse interprets raw payload bytes as a JSON value. Numbers are kept as
// json.Number so they round-trip through DecodeEnvFromJSON without losing
// their textual form.
func Parse(secretName string, data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, &DecodeError{
			Secret: secretName,
			Reason: "payload is not valid JSON: " + err.Error(),
		}
	}
	return value, nil
}

// DecodeEnvFromJSON decodes a parsed JSON value into environment entries.
//
// The value must be a JSON object. String members pass through verbatim;
// numbers and booleans render to their JSON text. Null, arrays, and nested
// objects have no environment representation and fail the decode. Entries are
// ordered by key so injection is deterministic.
func DecodeEnvFromJSON(secretName string, value any) ([]vault.Pair, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &DecodeError{
			Secret: secretName,
			Reason: fmt.Sprintf("top-level JSON value must be an object, got %s", jsonTypeName(value)),
		}
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]vault.Pair, 0, len(obj))
	for _, key := range keys {
		rendered, err := renderValue(secretName, key, obj[key])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, vault.Pair{Key: key, Value: rendered})
	}
	return pairs, nil
}

func renderValue(secretName, key string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		// Reached when the caller parsed without UseNumber.
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", &DecodeError{
			Secret: secretName,
			Key:    key,
			Reason: fmt.Sprintf("%s values have no environment representation", jsonTypeName(value)),
		}
	}
}

func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}
