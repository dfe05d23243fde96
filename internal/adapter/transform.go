package adapter

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/halverin/relgen/internal/field"
)

// transformOpts configures the type-driven value transform fallbacks that
// apply when a field has no custom transform functions.
type transformOpts struct {
	// NativeBooleans is true where the driver speaks real booleans
	// (PostgreSQL); false stores 0/1 integers (SQLite, MySQL).
	NativeBooleans bool
}

// toDatabase converts an application-level value to its storage-level
// representation. A custom transform.Input wins outright; otherwise the
// conversion is driven by the field's semantic type and the same rules apply
// to every dialect except boolean encoding.
func toDatabase(v any, f *field.Resolved, opts transformOpts) any {
	if f.Transform != nil && f.Transform.Input != nil {
		return f.Transform.Input(v)
	}
	if v == nil {
		return nil
	}

	switch f.Type {
	case field.TypeBoolean:
		return boolToDatabase(v, opts)
	case field.TypeDate:
		return timeToDatabase(v, f.EffectiveFormat())
	case field.TypeUUID:
		return uuidToDatabase(v)
	default:
		if f.Type.IsJSONLike() {
			return jsonToDatabase(v)
		}
		return v
	}
}

// fromDatabase converts a storage-level value back to the application-level
// representation. It never fails: values that cannot be decoded are returned
// unchanged.
func fromDatabase(v any, f *field.Resolved, opts transformOpts) any {
	if f.Transform != nil && f.Transform.Output != nil {
		return f.Transform.Output(v)
	}
	if v == nil {
		return nil
	}

	switch f.Type {
	case field.TypeBoolean:
		return boolFromDatabase(v)
	case field.TypeDate:
		return timeFromDatabase(v, f.EffectiveFormat())
	default:
		if f.Type.IsJSONLike() {
			return jsonFromDatabase(v)
		}
		return v
	}
}

// -----------------------------------------------------------------------------
// Booleans
// -----------------------------------------------------------------------------

func boolToDatabase(v any, opts transformOpts) any {
	b, ok := v.(bool)
	if !ok {
		return v
	}
	if opts.NativeBooleans {
		return b
	}
	if b {
		return int64(1)
	}
	return int64(0)
}

func boolFromDatabase(v any) any {
	switch val := v.(type) {
	case bool:
		return val
	case int64:
		return val != 0
	case int:
		return val != 0
	case float64:
		return val != 0
	case []byte:
		return len(val) > 0 && val[0] == '1'
	case string:
		return val == "1" || val == "true" || val == "TRUE"
	default:
		return v
	}
}

// -----------------------------------------------------------------------------
// Dates
// -----------------------------------------------------------------------------

// timeToDatabase encodes a time value per the field's declared format. The
// encoding is independent of the adapter: iso stores RFC 3339 text, unix
// stores seconds, unix_ms stores milliseconds.
func timeToDatabase(v any, format string) any {
	t, ok := v.(time.Time)
	if !ok {
		return v
	}
	switch format {
	case field.FormatUnix:
		return t.Unix()
	case field.FormatUnixMillis:
		return t.UnixMilli()
	default:
		return t.UTC().Format(time.RFC3339Nano)
	}
}

func timeFromDatabase(v any, format string) any {
	switch format {
	case field.FormatUnix:
		if secs, ok := toInt64(v); ok {
			return time.Unix(secs, 0).UTC()
		}
	case field.FormatUnixMillis:
		if ms, ok := toInt64(v); ok {
			return time.UnixMilli(ms).UTC()
		}
	default:
		if s, ok := stringValue(v); ok {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return t.UTC()
			}
			// Drivers without timezone info store "2006-01-02 15:04:05".
			if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
				return t.UTC()
			}
		}
		if t, ok := v.(time.Time); ok {
			return t.UTC()
		}
	}
	return v
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}

func stringValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	default:
		return "", false
	}
}

// -----------------------------------------------------------------------------
// UUIDs
// -----------------------------------------------------------------------------

func uuidToDatabase(v any) any {
	if id, ok := v.(uuid.UUID); ok {
		return id.String()
	}
	return v
}

// -----------------------------------------------------------------------------
// JSON
// -----------------------------------------------------------------------------

// jsonToDatabase encodes JSON-like values to a single text column.
func jsonToDatabase(v any) any {
	if s, ok := v.(string); ok {
		// Pre-encoded object/array text passes through. Scalar strings
		// ("true", "123") are always re-encoded so they come back as
		// strings, not booleans or numbers.
		if isEncodedJSONContainer(s) {
			return s
		}
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return v
	}
	return string(encoded)
}

// isEncodedJSONContainer reports whether s is valid JSON object or array text.
func isEncodedJSONContainer(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	return json.Valid([]byte(trimmed))
}

// jsonFromDatabase decodes stored JSON text. Malformed JSON is returned as the
// raw stored value (lossy-but-safe degradation), never an error.
func jsonFromDatabase(v any) any {
	s, ok := stringValue(v)
	if !ok {
		return v
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return v
	}
	return decoded
}
