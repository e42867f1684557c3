package http

import (
	"net/http"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/service"
	"github.com/aussiebroadwan/stepglobe/pkg/httpx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

// AccountsHandler serves the roster and the signed-in account's profile
// and step endpoints.
type AccountsHandler struct {
	AccountService *service.AccountService
}

// HandleRoster godoc
//
//	@Summary		List participants
//	@Description	Returns every account's public profile. Served from the roster cache when it is warm.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	stepsdk.RosterResponse
//	@Failure		503	{object}	stepsdk.ErrorResponse	"backend_unavailable"
//	@Router			/v1/accounts [get].
func (h *AccountsHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.AccountService.Roster(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stepsdk.RosterResponse{Accounts: toProfiles(profiles)})
}

// HandleMe godoc
//
//	@Summary		Get own account
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	stepsdk.Account
//	@Failure		401	{object}	stepsdk.ErrorResponse	"session_invalid"
//	@Router			/v1/accounts/me [get].
func (h *AccountsHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	a, err := h.AccountService.Me(r.Context(), httpx.AccountIDFromCtx(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(a))
}

// HandleSave godoc
//
//	@Summary		Save own profile
//	@Description	Upserts nickname, avatar and step total. Omitted fields keep their value.
//	@Description	Changing the step total needs an approved account.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		stepsdk.SaveProfileRequest	true	"profile fields"
//	@Success		200		{object}	stepsdk.Account
//	@Failure		400		{object}	stepsdk.ErrorResponse	"validation_error"
//	@Failure		401		{object}	stepsdk.ErrorResponse	"session_invalid"
//	@Failure		403		{object}	stepsdk.ErrorResponse	"account_pending"
//	@Router			/v1/accounts/me [put].
func (h *AccountsHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req stepsdk.SaveProfileRequest
	if !decodeBody(w, r, &req) || !validate(w, req.Validate()) {
		return
	}

	a, err := h.AccountService.SaveProfile(r.Context(), httpx.AccountIDFromCtx(r.Context()), service.ProfileInput{
		Nickname:   req.Nickname,
		AvatarURL:  req.AvatarURL,
		TotalSteps: req.TotalSteps,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(a))
}

// HandleUpdateProfile godoc
//
//	@Summary		Update nickname and avatar
//	@Description	Allowed while the account is waiting for approval.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		stepsdk.UpdateProfileRequest	true	"nickname and avatar"
//	@Success		200		{object}	stepsdk.Account
//	@Failure		400		{object}	stepsdk.ErrorResponse	"validation_error"
//	@Failure		401		{object}	stepsdk.ErrorResponse	"session_invalid"
//	@Router			/v1/accounts/me/profile [patch].
func (h *AccountsHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req stepsdk.UpdateProfileRequest
	if !decodeBody(w, r, &req) || !validate(w, req.Validate()) {
		return
	}

	a, err := h.AccountService.UpdateProfile(r.Context(), httpx.AccountIDFromCtx(r.Context()), req.Nickname, req.AvatarURL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(a))
}

// HandleSetSteps godoc
//
//	@Summary		Set step total
//	@Tags			Steps
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		stepsdk.SetStepsRequest	true	"new total, greater than zero"
//	@Success		200		{object}	stepsdk.StepsResponse
//	@Failure		400		{object}	stepsdk.ErrorResponse	"validation_error"
//	@Failure		403		{object}	stepsdk.ErrorResponse	"account_pending"
//	@Router			/v1/accounts/me/steps [put].
func (h *AccountsHandler) HandleSetSteps(w http.ResponseWriter, r *http.Request) {
	var req stepsdk.SetStepsRequest
	if !decodeBody(w, r, &req) || !validate(w, req.Validate()) {
		return
	}

	a, err := h.AccountService.SetTotalSteps(r.Context(), httpx.AccountIDFromCtx(r.Context()), req.TotalSteps)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stepsdk.StepsResponse{TotalSteps: a.TotalSteps})
}

// HandleIncrement godoc
//
//	@Summary		Add steps
//	@Description	Atomically adds delta to the step total.
//	@Tags			Steps
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		stepsdk.IncrementStepsRequest	true	"steps to add, greater than zero"
//	@Success		200		{object}	stepsdk.StepsResponse
//	@Failure		400		{object}	stepsdk.ErrorResponse	"validation_error"
//	@Failure		403		{object}	stepsdk.ErrorResponse	"account_pending"
//	@Router			/v1/accounts/me/steps/increment [post].
func (h *AccountsHandler) HandleIncrement(w http.ResponseWriter, r *http.Request) {
	var req stepsdk.IncrementStepsRequest
	if !decodeBody(w, r, &req) || !validate(w, req.Validate()) {
		return
	}

	total, err := h.AccountService.IncrementSteps(r.Context(), httpx.AccountIDFromCtx(r.Context()), req.Delta)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stepsdk.StepsResponse{TotalSteps: total})
}

// HandleAvatars godoc
//
//	@Summary		Avatar catalog
//	@Description	Built-in avatar groups, plus the account's own photo when it uses one.
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	stepsdk.AvatarCatalogResponse
//	@Failure		401	{object}	stepsdk.ErrorResponse	"session_invalid"
//	@Router			/v1/avatars [get].
func (h *AccountsHandler) HandleAvatars(w http.ResponseWriter, r *http.Request) {
	groups, photo, err := h.AccountService.AvatarCatalog(r.Context(), httpx.AccountIDFromCtx(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stepsdk.AvatarCatalogResponse{
		Groups:   toAvatarGroups(groups),
		PhotoURL: photo,
	})
}
