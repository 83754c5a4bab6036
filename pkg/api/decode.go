package api

import (
	"encoding/json"

	"github.com/harmony-haven/haven-client/internal/domain"
	"github.com/harmony-haven/haven-client/internal/logger"
)

// The backend's response envelope is not contractually stable: the same
// endpoint has been observed returning a bare array, an object with the list
// under one of several keys, and an object with the list nested one level
// deeper. DecodeFeed probes those shapes in a fixed priority order and stops
// at the first hypothesis that yields records.

// envelopeKeys builds the ordered candidate key list for a feed, with the
// feed's own record key probed first.
func envelopeKeys(primary string) []string {
	return []string{primary, "data", "items", "content", "results"}
}

// DecodeFeed extracts typed records and pagination metadata from response
// bytes of uncertain shape. It never fails a feed batch: a structurally
// unrecognizable payload yields an empty record list, and in the lenient
// fallback individual bad records are skipped, not fatal.
func DecodeFeed[T any](data []byte, keys []string, log logger.Logger) ([]T, domain.PaginationInfo) {
	log = logger.Ensure(log)

	root := rootObject(data)
	pagination := ExtractPagination(root)

	// Hypothesis 1: the entire body is an array of records.
	var direct []T
	if err := json.Unmarshal(data, &direct); err == nil {
		return direct, pagination
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err == nil {
		// Hypothesis 2: the list lives under one of the candidate keys.
		for _, key := range keys {
			raw, ok := envelope[key]
			if !ok {
				continue
			}
			var records []T
			if err := json.Unmarshal(raw, &records); err == nil {
				log.DebugObj("feed decoded from envelope key", "envelope_key", key)
				return records, pagination
			}
		}

		// Hypothesis 3: nested one level deeper under a data sub-key.
		for _, key := range keys {
			raw, ok := envelope[key]
			if !ok {
				continue
			}
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(raw, &nested); err != nil {
				continue
			}
			inner, ok := nested["data"]
			if !ok {
				continue
			}
			var records []T
			if err := json.Unmarshal(inner, &records); err == nil {
				log.DebugObj("feed decoded from nested data key", "envelope_key", key)
				return records, pagination
			}
		}
	}

	// Hypothesis 4: manual traversal of the parsed tree, skipping records
	// that fail to decode instead of aborting the batch.
	records := lenientRecords[T](data, keys, log)
	if len(records) == 0 {
		log.WarnObj("feed decoded empty under all hypotheses", "body_len", len(data))
	}
	return records, pagination
}

// lenientRecords repeats the key search over a generically parsed tree and
// decodes records one by one, tolerating per-record failures.
func lenientRecords[T any](data []byte, keys []string, log logger.Logger) []T {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		log.ErrorObj("response is not valid JSON", "error", err.Error())
		return nil
	}

	var list []any
	switch v := tree.(type) {
	case []any:
		list = v
	case map[string]any:
		for _, key := range keys {
			if arr, ok := v[key].([]any); ok {
				list = arr
				break
			}
			if obj, ok := asObject(v[key]); ok {
				if arr, ok := obj["data"].([]any); ok {
					list = arr
					break
				}
			}
		}
	}

	out := make([]T, 0, len(list))
	for i, item := range list {
		buf, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var record T
		if err := json.Unmarshal(buf, &record); err != nil {
			log.WarnObj("skipping undecodable record", "record_error", map[string]any{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		out = append(out, record)
	}
	return out
}
