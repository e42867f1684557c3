package jwtx_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/stepglobe/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://steps.example"
	testAudience = "stepglobe"
)

func newKeyManager(t *testing.T, n int) *jwtx.KeyManager {
	t.Helper()
	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Issuer:   testIssuer,
		Audience: []string{testAudience},
		NumKeys:  n,
	})
	require.NoError(t, err)
	return km
}

func signFor(t *testing.T, km *jwtx.KeyManager, ttl time.Duration, now time.Time) string {
	t.Helper()
	claims := jwtx.NewAccessClaims("01JACCOUNT", "01JSESSION", "user", "Ada", ttl, testIssuer, []string{testAudience}, now)
	tok, err := km.GetSigner().Sign(claims)
	require.NoError(t, err)
	return tok
}

func TestKeyManager_RoundTrip(t *testing.T) {
	km := newKeyManager(t, 3)
	require.Equal(t, 3, km.NumSigners())
	require.True(t, km.IsReady())

	for i := 0; i < 10; i++ {
		tok := signFor(t, km, time.Minute, time.Now())

		claims, err := km.Verifier.Verify(tok)
		require.NoError(t, err)
		require.Equal(t, "01JACCOUNT", claims.Subject)
		require.Equal(t, "01JSESSION", claims.SID)
		require.Equal(t, "user", claims.Role)
		require.Equal(t, "Ada", claims.Nickname)
		require.NotEmpty(t, claims.ID)
	}
}

func TestKeyManager_NumKeysBounds(t *testing.T) {
	require.Equal(t, 1, newKeyManager(t, 0).NumSigners())
	require.Equal(t, 10, newKeyManager(t, 50).NumSigners())
}

func TestKeyManager_RequiresIssuer(t *testing.T) {
	_, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{})
	require.Error(t, err)
}

func TestKeyManager_StableKeysKeepTheirKID(t *testing.T) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	opts := jwtx.KeyManagerOptions{Issuer: testIssuer, Keys: []ed25519.PrivateKey{key}}
	a, err := jwtx.NewKeyManager(opts)
	require.NoError(t, err)
	b, err := jwtx.NewKeyManager(opts)
	require.NoError(t, err)

	require.Equal(t, a.GetSigner().KID(), b.GetSigner().KID())
	require.True(t, strings.HasPrefix(a.GetSigner().KID(), jwtx.KeyIDPrefix))

	// a token from before the restart still verifies
	tok := signFor(t, a, time.Minute, time.Now())
	_, err = b.Verifier.Verify(tok)
	require.NoError(t, err)
}

func TestVerifier_Rejects(t *testing.T) {
	km := newKeyManager(t, 1)
	now := time.Now()

	t.Run("expired", func(t *testing.T) {
		tok := signFor(t, km, time.Minute, now.Add(-time.Hour))
		_, err := km.Verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("within leeway", func(t *testing.T) {
		tok := signFor(t, km, time.Minute, now.Add(-time.Minute-2*time.Second))
		_, err := km.Verifier.Verify(tok)
		require.NoError(t, err)
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := newKeyManager(t, 1)
		_, err := km.Verifier.Verify(signFor(t, other, time.Minute, now))
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := km.Verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("a", "s", "user", "", time.Minute, testIssuer, []string{"other"}, now)
		tok, err := km.GetSigner().Sign(claims)
		require.NoError(t, err)
		_, err = km.Verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("a", "s", "user", "", time.Minute, "https://evil.example", []string{testAudience}, now)
		tok, err := km.GetSigner().Sign(claims)
		require.NoError(t, err)
		_, err = km.Verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}

func TestValidateAudience(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Audience: []string{"globe", "admin"}}}

	require.NoError(t, c.ValidateAudience([]string{"globe"}))
	require.NoError(t, c.ValidateAudience([]string{"foo", "admin"}))
	require.NoError(t, c.ValidateAudience(nil))
	require.ErrorIs(t, c.ValidateAudience([]string{"chat"}), jwtx.ErrAudience)
}

func TestValidateExpiryWithLeeway(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		claims  jwt.RegisteredClaims
		wantErr error
	}{
		{"valid", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}, nil},
		{"expired within leeway", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second))}, nil},
		{"expired beyond leeway", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-2 * time.Minute))}, jwtx.ErrExpired},
		{"not yet valid", jwt.RegisteredClaims{NotBefore: jwt.NewNumericDate(now.Add(time.Minute))}, jwtx.ErrNotYetValid},
		{"no exp or nbf", jwt.RegisteredClaims{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &jwtx.Claims{RegisteredClaims: tt.claims}
			err := c.ValidateExpiryWithLeeway(now, 30*time.Second)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestKeySet_ResetFromJWKS(t *testing.T) {
	km := newKeyManager(t, 2)
	jwks := km.KeySet.PublicJWKS()
	require.Len(t, jwks.Keys, 2)
	for _, k := range jwks.Keys {
		require.Equal(t, "OKP", k.Kty)
		require.Equal(t, "Ed25519", k.Crv)
		require.Equal(t, jwtx.AlgorithmEdDSA, k.Alg)
	}

	mirror := jwtx.NewKeySet()
	require.False(t, mirror.IsReady())
	require.NoError(t, mirror.ResetFromJWKS(jwks))
	require.True(t, mirror.IsReady())

	v := jwtx.NewVerifier(mirror, testIssuer, []string{testAudience})
	_, err := v.Verify(signFor(t, km, time.Minute, time.Now()))
	require.NoError(t, err)

	bad := jwtx.JWKS{Keys: []jwtx.JWK{{Kty: "RSA", Kid: "x"}}}
	require.Error(t, mirror.ResetFromJWKS(bad))
	require.True(t, mirror.IsReady(), "failed reset must keep previous keys")
}
