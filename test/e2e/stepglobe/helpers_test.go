package stepglobe_test

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/app"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
	"github.com/aussiebroadwan/stepglobe/pkg/tgauth"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests run the fully wired application in-process and drive it
 * through the client SDK, the same way the front-end and globewatch do.
 */

const (
	botToken        = "424242:e2e-bot-token"
	adminTelegramID = int64(1000)
)

// setupService starts the application behind an httptest server.
func setupService(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var cfg app.Config
	cfg.Env = "test"
	cfg.Issuer = "stepglobe-e2e"
	cfg.Audience = []string{"stepglobe"}
	cfg.AccessTTL = 15 * time.Minute
	cfg.RefreshTTL = 24 * time.Hour
	cfg.ShutdownGracePeriod = time.Second
	cfg.DatabaseFile = filepath.Join(dir, "stepglobe.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.SigningKeyFile = filepath.Join(dir, "signing.pem")
	cfg.BlobDir = filepath.Join(dir, "screenshots")
	cfg.Telegram.BotToken = botToken
	cfg.Telegram.KeyDerivation = "sha256"
	cfg.Telegram.ClaimMaxAge = 24 * time.Hour
	cfg.Telegram.AdminIDs = []int64{adminTelegramID}
	require.NoError(t, cfg.Validate())

	application, err := app.NewWithLogger(cfg, slogx.Discard())
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = application.Close()
	})
	return srv.URL
}

// widgetPayload builds what the Telegram login widget would hand the browser.
func widgetPayload(t *testing.T, tgID int64, firstName string, authDate time.Time) []byte {
	t.Helper()
	v, err := tgauth.NewVerifier(botToken, tgauth.KeySHA256)
	require.NoError(t, err)

	fields := map[string]string{
		"id":         strconv.FormatInt(tgID, 10),
		"first_name": firstName,
		"photo_url":  "https://t.me/i/userpic/320/" + firstName + ".jpg",
		"auth_date":  strconv.FormatInt(authDate.Unix(), 10),
	}
	raw, err := json.Marshal(map[string]any{
		"id":         json.Number(fields["id"]),
		"first_name": fields["first_name"],
		"photo_url":  fields["photo_url"],
		"auth_date":  json.Number(fields["auth_date"]),
		"hash":       v.Sign(fields),
	})
	require.NoError(t, err)
	return raw
}

// signIn signs tgID in through the widget path.
func signIn(t *testing.T, client *stepsdk.Client, tgID int64, name string) (*stepsdk.Session, *stepsdk.SignInResponse) {
	t.Helper()
	sess, res, err := client.SignInWithTelegram(t.Context(), widgetPayload(t, tgID, name, time.Now().Add(-time.Minute)))
	require.NoError(t, err, "sign in should succeed")
	require.NotNil(t, sess)
	return sess, res
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *stepsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
