package token

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// segmentParser decodes base64url segments, tolerating both raw and padded input.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeExpiry returns the exp claim (seconds since epoch) of a bearer token
// without verifying its signature. Any malformed input reports false.
func DecodeExpiry(raw string) (int64, bool) {
	claims, ok := decodeClaims(raw)
	if !ok {
		return 0, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	return exp.Unix(), true
}

// ExpiryTime is DecodeExpiry as a time.Time.
func ExpiryTime(raw string) (time.Time, bool) {
	exp, ok := DecodeExpiry(raw)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(exp, 0), true
}

// Subject returns the sub claim of an unverified token, if any.
func Subject(raw string) (string, bool) {
	claims, ok := decodeClaims(raw)
	if !ok {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

func decodeClaims(raw string) (jwt.MapClaims, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 || parts[1] == "" {
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, false
	}
	return claims, true
}
