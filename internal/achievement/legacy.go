package achievement

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const legacyEmoji = "🏅"

// storedBadge tolerates counts written as floats
type storedBadge struct {
	Badge
	Count float64 `json:"count"`
}

// NormalizeLegacy decodes stored achievements, accepting older shapes in
// which a badge was a bare string or a category was a single object.
// The result always holds structured badges.
func NormalizeLegacy(raw []byte) (Result, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Result{}, nil
	}

	var categories map[string]json.RawMessage
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode achievements: %w", err)
	}

	res := make(Result, len(categories))
	for key, body := range categories {
		badges, err := decodeCategory(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode achievement category %s: %w", key, err)
		}
		res[key] = badges
	}
	return res, nil
}

func decodeCategory(body json.RawMessage) ([]Badge, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []Badge{}, nil
	}
	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		badges := make([]Badge, 0, len(items))
		for _, item := range items {
			b, ok, err := decodeBadge(item)
			if err != nil {
				return nil, err
			}
			if ok {
				badges = append(badges, b)
			}
		}
		return badges, nil
	case '{', '"':
		b, ok, err := decodeBadge(body)
		if err != nil || !ok {
			return []Badge{}, err
		}
		return []Badge{b}, nil
	default:
		return []Badge{}, nil
	}
}

// decodeBadge reads one badge; values that are neither a string nor an
// object are dropped
func decodeBadge(item json.RawMessage) (Badge, bool, error) {
	item = bytes.TrimSpace(item)
	if len(item) == 0 {
		return Badge{}, false, nil
	}
	switch item[0] {
	case '"':
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			return Badge{}, false, err
		}
		return Badge{Name: name, Emoji: legacyEmoji, Description: name, Count: 1}, true, nil
	case '{':
		var lb storedBadge
		if err := json.Unmarshal(item, &lb); err != nil {
			return Badge{}, false, err
		}
		b := lb.Badge
		b.Count = floorCount(lb.Count)
		return b, true, nil
	default:
		return Badge{}, false, nil
	}
}
