package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/service"
	"github.com/aussiebroadwan/stepglobe/pkg/httpx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

// AuthHandler serves the identity bridge and session endpoints.
type AuthHandler struct {
	IdentityService *service.IdentityService
	TokenService    *service.TokenService
	AccountService  *service.AccountService
}

// HandleTelegram godoc
//
//	@Summary		Sign in with Telegram
//	@Description	Verifies a Telegram login-widget payload, creates the account on first sign-in and issues a session.
//	@Description	New accounts start unapproved; is_new tells the client to open the profile dialog.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stepsdk.TelegramSignInRequest	true	"provider and widget payload"
//	@Success		200		{object}	stepsdk.SignInResponse
//	@Failure		400		{object}	stepsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	stepsdk.ErrorResponse	"identity_rejected, identity_expired"
//	@Failure		503		{object}	stepsdk.ErrorResponse	"backend_unavailable"
//	@Router			/v1/auth/telegram [post].
func (h *AuthHandler) HandleTelegram(w http.ResponseWriter, r *http.Request) {
	var req stepsdk.TelegramSignInRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Provider != "telegram" {
		stepsdk.ErrInvalidRequest.WithDescription("unsupported provider").WriteError(w)
		return
	}
	if len(req.Data) == 0 {
		stepsdk.ErrInvalidRequest.WithDescription("data is required").WriteError(w)
		return
	}

	res, err := h.IdentityService.SignInWithWidget(r.Context(), req.Data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSignIn(w, r, res)
}

// HandleWebApp godoc
//
//	@Summary		Sign in from a Telegram Mini App
//	@Description	Verifies Telegram.WebApp.initData and issues a session, exactly like the login widget path.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stepsdk.WebAppSignInRequest	true	"init data"
//	@Success		200		{object}	stepsdk.SignInResponse
//	@Failure		400		{object}	stepsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	stepsdk.ErrorResponse	"identity_rejected, identity_expired"
//	@Failure		503		{object}	stepsdk.ErrorResponse	"backend_unavailable"
//	@Router			/v1/auth/telegram/webapp [post].
func (h *AuthHandler) HandleWebApp(w http.ResponseWriter, r *http.Request) {
	var req stepsdk.WebAppSignInRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.InitData == "" {
		stepsdk.ErrInvalidRequest.WithDescription("init_data is required").WriteError(w)
		return
	}

	res, err := h.IdentityService.SignInWithInitData(r.Context(), req.InitData)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSignIn(w, r, res)
}

func (h *AuthHandler) writeSignIn(w http.ResponseWriter, r *http.Request, res service.SignInResult) {
	slogx.FromContext(r.Context()).Info("signed in",
		"account_id", res.Account.ID,
		"is_new", res.IsNew,
	)
	httpx.WriteJSON(w, http.StatusOK, stepsdk.SignInResponse{
		TokenResponse: toTokens(res.Tokens),
		Account:       toAccount(res.Account),
		IsNew:         res.IsNew,
		PhotoURL:      res.PhotoURL,
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh a session
//	@Description	Exchanges a refresh token for a new access and refresh token. The old refresh token stops working.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		stepsdk.RefreshRequest	true	"refresh token"
//	@Success		200		{object}	stepsdk.SignInResponse
//	@Failure		400		{object}	stepsdk.ErrorResponse	"invalid_request, validation_error"
//	@Failure		401		{object}	stepsdk.ErrorResponse	"session_invalid"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req stepsdk.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tokens, account, err := h.TokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stepsdk.SignInResponse{
		TokenResponse: toTokens(tokens),
		Account:       toAccount(account),
	})
}

// HandleSignOut godoc
//
//	@Summary		Sign out
//	@Description	Revokes a refresh token. Unknown tokens are accepted so the call is idempotent.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	stepsdk.SignOutRequest	true	"refresh token"
//	@Success		204
//	@Failure		400	{object}	stepsdk.ErrorResponse	"invalid_request, validation_error"
//	@Router			/v1/auth/signout [post].
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	var req stepsdk.SignOutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.TokenService.SignOut(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession godoc
//
//	@Summary		Current session
//	@Description	Returns the session id and expiry from the access token together with the current account.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	stepsdk.SessionResponse
//	@Failure		401	{object}	stepsdk.ErrorResponse	"session_invalid"
//	@Router			/v1/auth/session [get].
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromCtx(r.Context())
	if !ok {
		stepsdk.ErrSessionInvalid.WriteError(w)
		return
	}

	account, err := h.AccountService.Me(r.Context(), claims.Subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	httpx.WriteJSON(w, http.StatusOK, stepsdk.SessionResponse{
		SessionID: claims.SID,
		ExpiresAt: expiresAt,
		Account:   toAccount(account),
	})
}
