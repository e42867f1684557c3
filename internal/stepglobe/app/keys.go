package app

import (
	"crypto/ed25519"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/stepglobe/pkg/cryptox"
	"github.com/aussiebroadwan/stepglobe/pkg/jwtx"
)

// InitSessionKeys creates the KeyManager that signs access tokens.
//
// With a SigningKeyFile the key is loaded (or created) on disk and keeps its
// kid across restarts, so sessions survive a redeploy. Without one, NumKeys
// ephemeral keys are generated and every outstanding access token becomes
// invalid on restart; refresh tokens still work.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		NumKeys:  cfg.NumKeys,
	}

	if cfg.SigningKeyFile != "" {
		key, err := cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load signing key: %w", err)
		}
		opts.Keys = []ed25519.PrivateKey{key}
	}

	km, err := jwtx.NewKeyManager(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	if cfg.SigningKeyFile != "" {
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile, "kid", km.GetSigner().KID())
	} else {
		logger.Info("generated ephemeral signing keys", "num_keys", km.NumSigners())
		logger.Warn("access tokens issued before this start are now invalid")
	}
	return km, nil
}
