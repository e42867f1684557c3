package http

import (
	"net/http"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/service"
	"github.com/aussiebroadwan/stepglobe/pkg/httpx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

// AdminHandler serves POST /v1/admin/actions.
type AdminHandler struct {
	AdminService *service.AdminService
}

// ServeHTTP godoc
//
//	@Summary		Run an admin action
//	@Description	approve, block, delete, promote or demote another account.
//	@Description	The caller's role is checked against the store, not only the token.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		stepsdk.AdminActionRequest	true	"action and target"
//	@Success		200		{object}	stepsdk.AdminActionResponse
//	@Failure		400		{object}	stepsdk.ErrorResponse	"validation_error"
//	@Failure		403		{object}	stepsdk.ErrorResponse	"access_denied"
//	@Failure		404		{object}	stepsdk.ErrorResponse	"not_found"
//	@Router			/v1/admin/actions [post].
func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req stepsdk.AdminActionRequest
	if !decodeBody(w, r, &req) || !validate(w, req.Validate()) {
		return
	}

	actorID := httpx.AccountIDFromCtx(ctx)
	if err := h.AdminService.Do(ctx, actorID, service.AdminAction(req.Action), req.TargetID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("admin action",
		"actor_id", actorID,
		"action", req.Action,
		"target_id", req.TargetID,
	)
	httpx.WriteJSON(w, http.StatusOK, stepsdk.AdminActionResponse{Success: true})
}
