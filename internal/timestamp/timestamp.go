// Package timestamp normalizes the date representations found in
// document-store exports. The originating store serializes timestamps
// as {seconds,nanoseconds} objects while the serverless-call transport
// uses {_seconds,_nanoseconds}; both shapes, plus native times and
// ISO-8601 strings, must decode to the same time.Time.
package timestamp

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Kind tags the serialized shape a value was recognized as.
type Kind int

const (
	KindUnknown Kind = iota
	KindNative
	KindConvertible
	KindSeconds
	KindUnderscoreSeconds
	KindString
	KindEpochMillis
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindConvertible:
		return "convertible"
	case KindSeconds:
		return "seconds"
	case KindUnderscoreSeconds:
		return "_seconds"
	case KindString:
		return "string"
	case KindEpochMillis:
		return "epoch_millis"
	default:
		return "unknown"
	}
}

// TimeConvertible is implemented by values that carry their own
// conversion to time.Time (e.g. protobuf timestamps).
type TimeConvertible interface {
	AsTime() time.Time
}

// stringLayouts are tried in order when parsing string timestamps.
var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Convert resolves an arbitrary value into a time and the shape it was
// recognized as. The probe order is fixed: conversion method, then
// {seconds}, then {_seconds}, then string, then numeric epoch millis.
// Unrecognized values return KindUnknown and the zero time.
func Convert(v interface{}) (time.Time, Kind) {
	switch tv := v.(type) {
	case nil:
		return time.Time{}, KindUnknown
	case time.Time:
		return tv, KindNative
	case *time.Time:
		if tv == nil {
			return time.Time{}, KindUnknown
		}
		return *tv, KindNative
	case Timestamp:
		if !tv.Valid() {
			return time.Time{}, KindUnknown
		}
		return tv.Time(), tv.Kind()
	}

	if c, ok := v.(TimeConvertible); ok {
		return c.AsTime(), KindConvertible
	}

	if m, ok := v.(map[string]interface{}); ok {
		if t, ok := secondsPair(m, "seconds", "nanoseconds"); ok {
			return t, KindSeconds
		}
		if t, ok := secondsPair(m, "_seconds", "_nanoseconds"); ok {
			return t, KindUnderscoreSeconds
		}
		return time.Time{}, KindUnknown
	}

	if s, ok := v.(string); ok {
		for _, layout := range stringLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, KindString
			}
		}
		return time.Time{}, KindUnknown
	}

	if ms, ok := numeric(v); ok {
		return time.UnixMilli(ms), KindEpochMillis
	}

	return time.Time{}, KindUnknown
}

// secondsPair extracts an epoch-seconds/nanoseconds pair from a decoded
// JSON object under the given key names.
func secondsPair(m map[string]interface{}, secKey, nsecKey string) (time.Time, bool) {
	sec, ok := numeric(m[secKey])
	if !ok {
		return time.Time{}, false
	}
	nsec, _ := numeric(m[nsecKey])
	return time.Unix(sec, nsec), true
}

// numeric coerces the number representations produced by JSON decoding.
func numeric(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return i, true
	default:
		return 0, false
	}
}

// Normalizer converts loose timestamp values with a best-effort
// fallback policy: unparsable input yields "now" (or 0 millis) and a
// logged warning, never an error. Malformed upstream data must not
// fail the aggregation.
type Normalizer struct {
	log *zap.Logger

	// now is overridable in tests.
	now func() time.Time
}

// NewNormalizer creates a Normalizer. A nil logger disables warnings.
func NewNormalizer(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{log: log, now: time.Now}
}

// ToTime converts v to a time, falling back to the current time when
// the value is missing or unrecognizable.
func (n *Normalizer) ToTime(v interface{}) time.Time {
	t, kind := Convert(v)
	if kind == KindUnknown {
		n.log.Warn("unparsable timestamp, falling back to now",
			zap.String("value", fmt.Sprintf("%v", v)))
		return n.now()
	}
	return t
}

// EpochMillis converts v to epoch milliseconds, falling back to 0 when
// the value is missing or unrecognizable.
func (n *Normalizer) EpochMillis(v interface{}) int64 {
	t, kind := Convert(v)
	if kind == KindUnknown {
		n.log.Warn("unparsable timestamp, falling back to 0 millis",
			zap.String("value", fmt.Sprintf("%v", v)))
		return 0
	}
	return t.UnixMilli()
}

// Timestamp is a wire-format field that accepts every timestamp shape
// the upstream systems emit. Unknown shapes decode without error into
// an invalid (observable) state rather than aborting the record.
type Timestamp struct {
	t    time.Time
	kind Kind
}

// Valid reports whether the value decoded into a usable time.
func (ts Timestamp) Valid() bool { return ts.kind != KindUnknown }

// Kind returns the recognized serialized shape.
func (ts Timestamp) Kind() Kind { return ts.kind }

// Time returns the decoded time; zero when invalid.
func (ts Timestamp) Time() time.Time { return ts.t }

// TimePtr returns the decoded time, or nil when invalid. Convenient
// for model fields that distinguish absent dates.
func (ts Timestamp) TimePtr() *time.Time {
	if !ts.Valid() {
		return nil
	}
	t := ts.t
	return &t
}

// FromTime wraps a native time in a valid Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp{t: t, kind: KindNative}
}

// UnmarshalJSON decodes any of the supported wire shapes. It never
// returns an error for shape mismatches; only malformed JSON fails.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	ts.t, ts.kind = Convert(raw)
	return nil
}

// MarshalJSON encodes valid timestamps as RFC 3339 strings and invalid
// ones as null.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.t.Format(time.RFC3339Nano))
}
