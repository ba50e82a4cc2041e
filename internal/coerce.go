package internal

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Null-safe coercion helpers for raw row values. A nil result means
// "unknown": the source was null, absent, or unparseable. A literal zero in
// the source stays zero.

func asFloat64(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	case float32:
		return asFloat64(float64(v))
	case int:
		f := float64(v)
		return &f
	case int16:
		f := float64(v)
		return &f
	case int32:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	case []byte:
		return asFloat64(string(v))
	default:
		return nil
	}
}

func asInt64(value any) *int64 {
	switch v := value.(type) {
	case nil:
		return nil
	case int64:
		return &v
	case int:
		i := int64(v)
		return &i
	case int16:
		i := int64(v)
		return &i
	case int32:
		i := int64(v)
		return &i
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		i := int64(v)
		return &i
	case float32:
		return asInt64(float64(v))
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return &i
		}
		// Some backends serialize integers as "12.0".
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			i := int64(f)
			return &i
		}
		return nil
	case []byte:
		return asInt64(string(v))
	default:
		return nil
	}
}

// asString passes null through as nil; it never coerces null to "".
func asString(value any) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return &v
	case *string:
		return v
	case []byte:
		s := string(v)
		return &s
	default:
		return nil
	}
}

func asBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case *bool:
		return v != nil && *v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

func asTime(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return &v
	case *time.Time:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return &t
			}
		}
		return nil
	default:
		return nil
	}
}

func asUUID(value any) (uuid.UUID, bool) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, true
	case *uuid.UUID:
		if v == nil {
			return uuid.Nil, false
		}
		return *v, true
	case string:
		parsed, err := uuid.Parse(v)
		return parsed, err == nil
	case [16]byte:
		return uuid.UUID(v), true
	case []byte:
		if len(v) == 16 {
			parsed, err := uuid.FromBytes(v)
			return parsed, err == nil
		}
		parsed, err := uuid.Parse(string(v))
		return parsed, err == nil
	default:
		return uuid.Nil, false
	}
}

// ownerKey extracts a routing identifier. Record ids are positive bigserials,
// so 0 marks a missing or unparseable key; the merger skips those rows.
func ownerKey(value any) int64 {
	i := asInt64(value)
	if i == nil || *i <= 0 {
		return 0
	}
	return *i
}

// visitKey extracts the optional visit foreign key. nil means the row is
// record-scoped.
func visitKey(value any) *int64 {
	i := asInt64(value)
	if i == nil || *i <= 0 {
		return nil
	}
	return i
}

func millis(value any) int64 {
	if t := asTime(value); t != nil {
		return t.UnixMilli()
	}
	if i := asInt64(value); i != nil {
		return *i
	}
	return 0
}
