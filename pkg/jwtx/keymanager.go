package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	mrand "math/rand/v2"
	"sync"

	"github.com/aussiebroadwan/stepglobe/pkg/cryptox"
)

// KeyIDPrefix prefixes every kid this service issues.
const KeyIDPrefix = "stepglobe-"

// KeyManagerOptions configures a KeyManager.
type KeyManagerOptions struct {
	Issuer   string
	Audience []string

	// Keys are long-lived signing keys, usually loaded from disk. Their kid
	// is derived from the public key so it stays stable across restarts.
	Keys []ed25519.PrivateKey

	// NumKeys ephemeral keys are generated when Keys is empty. Defaults to 1,
	// capped at 10.
	NumKeys int
}

// KeyManager owns the signing keys, the KeySet published as JWKS and a
// verifier over that set.
type KeyManager struct {
	Verifier *EdDSAVerifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []*Signer
}

// NewKeyManager wires signers, KeySet and verifier together.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	km := &KeyManager{KeySet: NewKeySet()}

	if len(opts.Keys) > 0 {
		for i, key := range opts.Keys {
			if len(key) != ed25519.PrivateKeySize {
				return nil, fmt.Errorf("jwtx: key %d is not an Ed25519 private key", i+1)
			}
			if err := km.AddSigner(StableKeyID(key.Public().(ed25519.PublicKey)), key); err != nil {
				return nil, err
			}
		}
	} else {
		n := min(max(opts.NumKeys, 1), 10)
		for i := 0; i < n; i++ {
			_, key, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				return nil, fmt.Errorf("jwtx: generate key %d: %w", i+1, err)
			}
			kid, err := randomKeyID()
			if err != nil {
				return nil, err
			}
			if err := km.AddSigner(kid, key); err != nil {
				return nil, err
			}
		}
	}

	km.Verifier = NewVerifier(km.KeySet, opts.Issuer, opts.Audience)
	return km, nil
}

// AddSigner starts signing with key and publishes its public half.
func (km *KeyManager) AddSigner(kid string, key ed25519.PrivateKey) error {
	s, err := NewSigner(kid, key)
	if err != nil {
		return err
	}

	km.mu.Lock()
	defer km.mu.Unlock()
	if err := km.KeySet.AddJWK(s.PublicJWK()); err != nil {
		return fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, s)
	return nil
}

// GetSigner picks one of the active signers at random.
func (km *KeyManager) GetSigner() *Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	}
	return km.signers[mrand.IntN(len(km.signers))]
}

func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }

// StableKeyID derives a kid from the public key.
func StableKeyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return KeyIDPrefix + base64.RawURLEncoding.EncodeToString(sum[:12])
}

func randomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("jwtx: generate key id: %w", err)
	}
	return KeyIDPrefix + token, nil
}
