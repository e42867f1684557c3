package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/pkg/cryptox"
	"github.com/aussiebroadwan/stepglobe/pkg/tgauth"
	"github.com/stretchr/testify/require"
)

func TestIdentity_SameClaimTwiceResolvesSameAccount(t *testing.T) {
	e := newTestEnv(t)
	payload := e.widgetPayload(t, 987654321, e.now.Add(-time.Minute))

	first, err := e.identity.SignInWithWidget(context.Background(), payload)
	require.NoError(t, err)
	second, err := e.identity.SignInWithWidget(context.Background(), payload)
	require.NoError(t, err)

	require.Equal(t, first.Account.ID, second.Account.ID)
	require.True(t, first.IsNew)
	require.False(t, second.IsNew)
	require.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	n, err := e.store.Accounts().CountAccounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestIdentity_NewAccountDefaults(t *testing.T) {
	e := newTestEnv(t)
	res := e.signIn(t, 42)

	a := res.Account
	require.Equal(t, domain.TelegramEmail(42), a.Email)
	require.Equal(t, "Ada Walker", a.Nickname)
	require.Equal(t, domain.DefaultAvatar, a.AvatarURL)
	require.Equal(t, domain.RoleUser, a.Role)
	require.False(t, a.IsApproved)
	require.NotNil(t, a.TelegramID)
	require.Equal(t, int64(42), *a.TelegramID)
	require.Equal(t, "https://t.me/i/userpic/320/ada.jpg", res.PhotoURL)

	require.Equal(t, "Bearer", res.Tokens.TokenType)
	claims, err := e.keys.Verifier.Verify(res.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, a.ID, claims.Subject)
	require.Equal(t, "user", claims.Role)

	require.Equal(t, []string{a.ID}, e.notifier.pending)
	require.Positive(t, e.roster.invalidated)
}

func TestIdentity_TamperedClaimRejected(t *testing.T) {
	e := newTestEnv(t)
	payload := e.widgetPayload(t, 42, e.now.Add(-time.Minute))
	tampered := bytes.Replace(payload, []byte(`"Ada"`), []byte(`"Eve"`), 1)
	require.NotEqual(t, payload, tampered)

	_, err := e.identity.SignInWithWidget(context.Background(), tampered)
	require.ErrorIs(t, err, ErrIdentityRejected)

	n, err := e.store.Accounts().CountAccounts(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestIdentity_StaleClaimExpired(t *testing.T) {
	e := newTestEnv(t)
	payload := e.widgetPayload(t, 42, e.now.Add(-90000*time.Second))

	_, err := e.identity.SignInWithWidget(context.Background(), payload)
	require.ErrorIs(t, err, ErrIdentityExpired)
}

func TestIdentity_MalformedPayloadRejected(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.identity.SignInWithWidget(context.Background(), []byte(`{"id":`))
	require.ErrorIs(t, err, ErrIdentityRejected)

	_, err = e.identity.SignInWithInitData(context.Background(), "")
	require.ErrorIs(t, err, ErrIdentityRejected)
}

func TestIdentity_CredentialDriftIsReset(t *testing.T) {
	e := newTestEnv(t)
	first := e.signIn(t, 7)

	// a new pepper makes every stored hash stale
	e.identity.Hasher = cryptox.NewHasher([]byte("pepper-two"), testHashParams)
	second := e.signIn(t, 7)
	require.Equal(t, first.Account.ID, second.Account.ID)
	require.False(t, second.IsNew)

	stored, err := e.store.Accounts().GetAccountByID(context.Background(), first.Account.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.Account.CredentialHash, stored.CredentialHash)
	require.NoError(t, e.identity.Hasher.Verify(e.verifier.DeriveCredential(7), stored.CredentialHash))
}

func TestIdentity_BootstrapAdmin(t *testing.T) {
	e := newTestEnv(t)
	e.identity.AdminTelegramIDs = []int64{1001}

	res := e.signIn(t, 1001)
	require.True(t, res.Account.IsAdmin())
	require.True(t, res.Account.IsApproved)
	require.Empty(t, e.notifier.pending)

	// an existing account is promoted on its next login
	other := e.signIn(t, 1002)
	require.False(t, other.Account.IsAdmin())
	e.identity.AdminTelegramIDs = append(e.identity.AdminTelegramIDs, 1002)
	again := e.signIn(t, 1002)
	require.True(t, again.Account.IsAdmin())
	require.True(t, again.Account.IsApproved)

	claims, err := e.keys.Verifier.Verify(again.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
}

func TestClaimNickname(t *testing.T) {
	long := tgauth.ClaimFromFields(map[string]string{"id": "5", "first_name": strings.Repeat("я", 80)})
	require.Len(t, []rune(claimNickname(long)), domain.NicknameMaxLen)

	handle := tgauth.ClaimFromFields(map[string]string{"id": "6", "username": "walker"})
	require.Equal(t, "walker", claimNickname(handle))

	full := tgauth.ClaimFromFields(map[string]string{"id": "7", "first_name": " Ada ", "last_name": ""})
	require.Equal(t, "Ada", claimNickname(full))
}
