package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UserIDFromToken reads the userId claim from the payload segment of a
// dot-separated credential without verifying its signature. It reports false
// for anything it cannot turn into an integral identity.
func UserIDFromToken(token string) (int64, bool) {
	segments := strings.Split(strings.TrimSpace(token), ".")
	if len(segments) < 2 || segments[1] == "" {
		return 0, false
	}

	payload, ok := decodeSegment(segments[1])
	if !ok {
		return 0, false
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var claims map[string]any
	if err := dec.Decode(&claims); err != nil {
		return 0, false
	}
	return numericClaim(claims[UserIDClaim])
}

// decodeSegment accepts url-safe or standard base64 with or without padding.
func decodeSegment(segment string) ([]byte, bool) {
	normalized := strings.NewReplacer("-", "+", "_", "/").Replace(segment)
	if rem := len(normalized) % 4; rem != 0 {
		normalized += strings.Repeat("=", 4-rem)
	}
	decoded, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

func numericClaim(value any) (int64, bool) {
	var raw string
	switch v := value.(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	default:
		return 0, false
	}
	if raw == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
