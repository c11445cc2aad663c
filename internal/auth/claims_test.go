package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeToken builds an unsigned three-segment token around payload.
func fakeToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".c2ln"
}

func TestDecode(t *testing.T) {
	t.Run("round trip keeps permission order", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"sub":"u1","permissions":["A","B"]}`))
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
		assert.Equal(t, Permissions{"A", "B"}, claims.Permissions)
	})

	t.Run("all identity fields", func(t *testing.T) {
		payload := `{
			"sub":"42","email":"ana@example.com","name":"Ana","role":"admin",
			"jti":"tok-1","permissions":["transactions:read"],
			"exp":1718000000,"iss":"auth.example.com","aud":["dashboard","mobile"]
		}`
		claims, err := Decode(fakeToken(payload))
		require.NoError(t, err)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, "ana@example.com", claims.Email)
		assert.Equal(t, "Ana", claims.Name)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "tok-1", claims.ID)
		assert.Equal(t, "auth.example.com", claims.Issuer)
		assert.Equal(t, []string{"dashboard", "mobile"}, []string(claims.Audience))
		require.NotNil(t, claims.ExpiresAt)
		assert.Equal(t, int64(1718000000), claims.ExpiresAt.Unix())
	})

	t.Run("single audience string", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"sub":"u1","aud":"dashboard"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"dashboard"}, []string(claims.Audience))
	})

	t.Run("padded payload segment", func(t *testing.T) {
		body := base64.URLEncoding.EncodeToString([]byte(`{"sub":"u1"}`))
		claims, err := Decode("e30." + body + ".sig")
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
	})

	t.Run("header and signature are not inspected", func(t *testing.T) {
		body := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u1"}`))
		claims, err := Decode("not-base64!." + body + ".")
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
	})

	t.Run("missing permissions field", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"sub":"u1"}`))
		require.NoError(t, err)
		assert.Nil(t, claims.Permissions)
	})

	t.Run("permissions that are not a list", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"sub":"u1","permissions":"A"}`))
		require.NoError(t, err)
		assert.Nil(t, claims.Permissions)
	})

	t.Run("non-string permission entries are skipped", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"permissions":["A",7,null,"B"]}`))
		require.NoError(t, err)
		assert.Equal(t, Permissions{"A", "B"}, claims.Permissions)
	})

	t.Run("null permission entry grants nothing", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"permissions":[null]}`))
		require.NoError(t, err)
		assert.Empty(t, claims.Permissions)
		assert.False(t, claims.HasPermission(""))
	})

	t.Run("empty permission list stays empty", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"permissions":[]}`))
		require.NoError(t, err)
		assert.NotNil(t, claims.Permissions)
		assert.Empty(t, claims.Permissions)
	})
}

func TestDecodeMistypedClaims(t *testing.T) {
	t.Run("numeric subject and token id become text", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"sub":42,"jti":7.5,"iss":1,"permissions":["A","B"]}`))
		require.NoError(t, err)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, "7.5", claims.ID)
		assert.Equal(t, "1", claims.Issuer)
		assert.Equal(t, Permissions{"A", "B"}, claims.Permissions)
	})

	t.Run("non-numeric expiry reads as absent", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"sub":"u1","exp":"2030-01-01","iat":true,"nbf":null}`))
		require.NoError(t, err)
		assert.Nil(t, claims.ExpiresAt)
		assert.Nil(t, claims.IssuedAt)
		assert.Nil(t, claims.NotBefore)
		assert.False(t, claims.Expired(time.Now()))
	})

	t.Run("non-string audience reads as absent", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"sub":"u1","aud":7}`))
		require.NoError(t, err)
		assert.Nil(t, claims.Audience)
	})

	t.Run("audience list keeps string entries", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"aud":["dashboard",3,null,"mobile"]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"dashboard", "mobile"}, []string(claims.Audience))
	})

	t.Run("object-valued identity fields are dropped", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"sub":{"id":1},"email":["a@b"],"name":false,"role":"admin"}`))
		require.NoError(t, err)
		assert.Empty(t, claims.Subject)
		assert.Empty(t, claims.Email)
		assert.Empty(t, claims.Name)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("fractional expiry is kept", func(t *testing.T) {
		claims, err := Decode(fakeToken(`{"exp":1718000000.5}`))
		require.NoError(t, err)
		require.NotNil(t, claims.ExpiresAt)
		assert.Equal(t, int64(1718000000), claims.ExpiresAt.Unix())
	})
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name       string
		credential string
	}{
		{name: "empty", credential: ""},
		{name: "one segment", credential: "abc"},
		{name: "two segments", credential: "abc.def"},
		{name: "four segments", credential: fakeToken(`{}`) + ".extra"},
		{name: "invalid base64", credential: "e30.***.sig"},
		{name: "empty payload", credential: "e30..sig"},
		{name: "invalid json", credential: fakeToken(`{"sub":`)},
		{name: "json array", credential: fakeToken(`["sub"]`)},
		{name: "json null", credential: fakeToken(`null`)},
		{name: "json string", credential: fakeToken(`"u1"`)},
		{name: "trailing data", credential: fakeToken(`{"sub":"u1"} {}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.credential)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrMalformedCredential)
		})
	}
}

func TestPermissionPredicates(t *testing.T) {
	granted := &Claims{Permissions: Permissions{"A", "B"}}
	empty := &Claims{Permissions: Permissions{}}
	missing := &Claims{}
	var none *Claims

	assert.True(t, granted.HasPermission("A"))
	assert.False(t, granted.HasPermission("C"))
	assert.False(t, missing.HasPermission("X"))
	assert.False(t, none.HasPermission("X"))

	assert.True(t, granted.HasAll("A", "B"))
	assert.False(t, granted.HasAll("A", "C"))
	assert.True(t, granted.HasAll())
	assert.True(t, empty.HasAll())
	assert.False(t, missing.HasAll())
	assert.False(t, none.HasAll("A"))

	assert.True(t, granted.HasAny("C", "B"))
	assert.False(t, granted.HasAny("C", "D"))
	assert.False(t, granted.HasAny())
	assert.False(t, missing.HasAny("A"))
	assert.False(t, none.HasAny("A"))
}

func TestResolveSession(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		s := ResolveSession(fakeToken(`{"sub":"u1","permissions":["A"],"exp":1893456000}`), now)
		require.True(t, s.Authenticated())
		assert.NoError(t, s.Err)
		assert.True(t, s.Can("A"))
		assert.False(t, s.Can("B"))
	})

	t.Run("missing credential", func(t *testing.T) {
		s := ResolveSession("", now)
		assert.False(t, s.Authenticated())
		assert.ErrorIs(t, s.Err, ErrMissingToken)
		assert.False(t, s.Can())
	})

	t.Run("malformed credential", func(t *testing.T) {
		s := ResolveSession("garbage", now)
		assert.False(t, s.Authenticated())
		assert.ErrorIs(t, s.Err, ErrMalformedCredential)
	})

	t.Run("expired credential", func(t *testing.T) {
		s := ResolveSession(fakeToken(`{"sub":"u1","exp":1700000000}`), now)
		assert.False(t, s.Authenticated())
		assert.ErrorIs(t, s.Err, ErrExpiredCredential)
	})

	t.Run("no expiry never expires", func(t *testing.T) {
		s := ResolveSession(fakeToken(`{"sub":"u1"}`), now)
		assert.True(t, s.Authenticated())
	})
}
