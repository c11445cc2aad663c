package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedCredential = errors.New("malformed credential")
	ErrExpiredCredential   = errors.New("credential expired")
)

// segmentParser only decodes segments; it never sees a key.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Claims represents the identity and authorization payload of a session token.
type Claims struct {
	Email       string      `json:"email,omitempty"`
	Name        string      `json:"name,omitempty"`
	Role        string      `json:"role,omitempty"`
	Permissions Permissions `json:"permissions"`
	jwt.RegisteredClaims
}

// Permissions is the ordered permission list carried by a token.
// A nil value means the token had no usable permissions field.
type Permissions []string

// UnmarshalJSON keeps the string entries of a JSON list and maps anything
// that is not a list to nil instead of failing the whole payload.
func (p *Permissions) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*p = nil
		return nil
	}
	perms := make(Permissions, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			perms = append(perms, s)
		}
	}
	*p = perms
	return nil
}

// Decode extracts the claims from a three-segment token without checking its
// signature. Use JWTManager.Validate when the token must be trusted.
func Decode(credential string) (*Claims, error) {
	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedCredential, len(parts))
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload encoding: %v", ErrMalformedCredential, err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(payload), []byte("{")) {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedCredential)
	}

	normalized, err := normalizeClaims(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload json: %v", ErrMalformedCredential, err)
	}

	claims := &Claims{}
	if err := json.Unmarshal(normalized, claims); err != nil {
		return nil, fmt.Errorf("%w: payload json: %v", ErrMalformedCredential, err)
	}
	return claims, nil
}

// normalizeClaims rewrites a payload object so that only its JSON syntax can
// fail decoding. Scalar identity claims become text, a non-numeric exp, nbf
// or iat is dropped, and aud keeps only its string entries.
func normalizeClaims(payload []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after payload object")
	}

	for key, v := range fields {
		switch key {
		case "sub", "jti", "iss", "email", "name", "role":
			if s, ok := claimText(v); ok {
				fields[key] = s
			} else {
				delete(fields, key)
			}
		case "exp", "nbf", "iat":
			if _, ok := v.(json.Number); !ok {
				delete(fields, key)
			}
		case "aud":
			switch aud := v.(type) {
			case string:
			case []any:
				kept := make([]string, 0, len(aud))
				for _, a := range aud {
					if s, ok := a.(string); ok {
						kept = append(kept, s)
					}
				}
				fields[key] = kept
			default:
				delete(fields, key)
			}
		}
	}
	return json.Marshal(fields)
}

func claimText(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	}
	return "", false
}

// HasPermission reports whether the claims grant p.
func (c *Claims) HasPermission(p string) bool {
	if c == nil || c.Permissions == nil {
		return false
	}
	return slices.Contains(c.Permissions, p)
}

// HasAll reports whether every permission in ps is granted.
// An empty ps is satisfied by any claims that carry a permission list.
func (c *Claims) HasAll(ps ...string) bool {
	if c == nil || c.Permissions == nil {
		return false
	}
	for _, p := range ps {
		if !slices.Contains(c.Permissions, p) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one permission in ps is granted.
func (c *Claims) HasAny(ps ...string) bool {
	if c == nil || c.Permissions == nil {
		return false
	}
	return slices.ContainsFunc(ps, func(p string) bool {
		return slices.Contains(c.Permissions, p)
	})
}

// Expired reports whether the token carries an expiry at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// Session is the outcome of resolving a credential. A session without claims
// is unauthenticated; Err says why.
type Session struct {
	Credential string
	Claims     *Claims
	Err        error
}

// ResolveSession decodes credential and folds every failure into an
// unauthenticated Session.
func ResolveSession(credential string, now time.Time) Session {
	s := Session{Credential: credential}
	if credential == "" {
		s.Err = ErrMissingToken
		return s
	}
	claims, err := Decode(credential)
	if err != nil {
		s.Err = err
		return s
	}
	if claims.Expired(now) {
		s.Err = ErrExpiredCredential
		return s
	}
	s.Claims = claims
	return s
}

// Authenticated reports whether the session carries claims.
func (s Session) Authenticated() bool {
	return s.Claims != nil
}

// Can reports whether the session grants every permission in ps.
func (s Session) Can(ps ...string) bool {
	return s.Claims.HasAll(ps...)
}
