package cryptox_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/stepglobe/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// cheap params keep the suite fast; the format is identical.
var testParams = cryptox.Params{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16}

func TestHasher_HashAndVerify(t *testing.T) {
	h := cryptox.NewHasher([]byte("pepper"), testParams)

	tests := []struct {
		name   string
		secret string
	}{
		{"hex credential", strings.Repeat("ab", 32)},
		{"empty", ""},
		{"unicode", "шаги🚶"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := h.Hash(tt.secret)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))
			require.Len(t, strings.Split(encoded, "$"), 6)

			require.NoError(t, h.Verify(tt.secret, encoded))
			require.ErrorIs(t, h.Verify(tt.secret+"x", encoded), cryptox.ErrMismatch)
		})
	}
}

func TestHasher_UniqueSalts(t *testing.T) {
	h := cryptox.NewHasher(nil, testParams)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, h.Verify("same", a))
	require.NoError(t, h.Verify("same", b))
}

func TestHasher_PepperMatters(t *testing.T) {
	a := cryptox.NewHasher([]byte("pepper-a"), testParams)
	b := cryptox.NewHasher([]byte("pepper-b"), testParams)

	encoded, err := a.Hash("credential")
	require.NoError(t, err)
	require.ErrorIs(t, b.Verify("credential", encoded), cryptox.ErrMismatch)
}

func TestHasher_DefaultParams(t *testing.T) {
	h := cryptox.NewHasher(nil, cryptox.Params{})
	encoded, err := h.Hash("x")
	require.NoError(t, err)
	require.Contains(t, encoded, "m=19456,t=2,p=1")
}

func TestHasher_InvalidHash(t *testing.T) {
	h := cryptox.NewHasher(nil, testParams)

	for name, encoded := range map[string]string{
		"empty":           "",
		"wrong algorithm": "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"missing parts":   "$argon2id$v=19$m=19456",
		"bad params":      "$argon2id$v=19$invalid$c2FsdA$aGFzaA",
		"bad salt":        "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"bad hash":        "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!",
		"wrong version":   "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"version missing": "$argon2id$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	} {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, h.Verify("x", encoded), cryptox.ErrInvalidHash)
		})
	}
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets", "pepper")

	first, err := cryptox.LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := cryptox.LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, again)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrCreatePepper_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := cryptox.LoadOrCreatePepper(path)
	require.Error(t, err)
}
