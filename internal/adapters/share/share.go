// Package share encodes a trip collection into the compact string form used
// for share links and backups, and decodes it back.
//
// The wire form is a JSON array of {"s": "YYYY-MM-DD", "e": "YYYY-MM-DD"}.
// Decode also accepts the long {"start", "end"} keys of a downloaded file.
package share

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/okian/presence/internal/domain/model"
)

// QueryKey is the query parameter carrying the encoded collection.
const QueryKey = "data"

type record struct {
	S     string `json:"s,omitempty"`
	E     string `json:"e,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Encode writes intervals in compact form. An empty collection encodes to "".
func Encode(intervals []model.Interval) (string, error) {
	if len(intervals) == 0 {
		return "", nil
	}
	recs := make([]record, len(intervals))
	for i, iv := range intervals {
		recs[i] = record{S: iv.Start.String(), E: iv.End.String()}
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return string(b), nil
}

// Decode parses a compact or long-form collection. Every entry goes through
// model.ParseInterval, so a bad date or start > end fails the whole decode.
func Decode(s string) ([]model.Interval, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []model.Interval{}, nil
	}
	var recs []record
	if err := json.Unmarshal([]byte(s), &recs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	out := make([]model.Interval, 0, len(recs))
	for i, r := range recs {
		start, end := r.S, r.E
		if start == "" {
			start = r.Start
		}
		if end == "" {
			end = r.End
		}
		iv, err := model.ParseInterval(start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrDecode, i, err)
		}
		out = append(out, iv)
	}
	return out, nil
}

// EncodeQuery returns "data=<escaped>" or "" for an empty collection.
func EncodeQuery(intervals []model.Interval) (string, error) {
	s, err := Encode(intervals)
	if err != nil || s == "" {
		return "", err
	}
	v := url.Values{}
	v.Set(QueryKey, s)
	return v.Encode(), nil
}

// DecodeQuery reads the collection from a raw query string. A missing
// parameter yields an empty collection.
func DecodeQuery(rawQuery string) ([]model.Interval, error) {
	v, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return Decode(v.Get(QueryKey))
}
