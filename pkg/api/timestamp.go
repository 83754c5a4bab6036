package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// timestampLayouts are the wire formats observed from the backend, tried in
// order. The first layout is also the only one the article endpoint has ever
// produced.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
}

// ParseTimestamp resolves a wire timestamp string. Hypotheses in order:
// integer Unix seconds, the fixed layout list, RFC3339 with and without
// fractional seconds, real-number Unix milliseconds, and finally a lenient
// parse. Returns false when nothing matches.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}

	if millis, err := strconv.ParseFloat(s, 64); err == nil {
		return time.UnixMilli(int64(millis)).UTC(), true
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// timestampFromValue resolves a raw JSON tree value: native numbers are Unix
// epoch seconds, strings go through ParseTimestamp, and nested objects are
// probed for a date or value field.
func timestampFromValue(v any) (time.Time, bool) {
	switch raw := v.(type) {
	case float64:
		secs := int64(raw)
		nanos := int64((raw - float64(secs)) * float64(time.Second))
		return time.Unix(secs, nanos).UTC(), true
	case string:
		return ParseTimestamp(raw)
	case map[string]any:
		if s, ok := pickString(raw, "date", "value"); ok {
			return ParseTimestamp(s)
		}
	}
	return time.Time{}, false
}

// timestampFromKeys probes the candidate keys in order and returns the first
// value that parses.
func timestampFromKeys(obj map[string]any, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if t, ok := timestampFromValue(raw); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
