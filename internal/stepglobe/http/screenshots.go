package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/service"
	"github.com/aussiebroadwan/stepglobe/pkg/httpx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

// ScreenshotHandler serves POST /v1/accounts/me/screenshots.
type ScreenshotHandler struct {
	IntakeService *service.IntakeService
}

// ServeHTTP godoc
//
//	@Summary		Submit a step-counter screenshot
//	@Description	Stores the image, reads the step count off it and adds that count to the total.
//	@Description	Returns 0 when no number was found; nothing is added in that case.
//	@Tags			Steps
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"PNG, JPEG, WebP or HEIC image, at most 10 MiB"
//	@Success		200		{object}	stepsdk.ScreenshotResponse
//	@Failure		400		{object}	stepsdk.ErrorResponse	"invalid_request, validation_error"
//	@Failure		403		{object}	stepsdk.ErrorResponse	"account_pending"
//	@Failure		503		{object}	stepsdk.ErrorResponse	"backend_unavailable"
//	@Router			/v1/accounts/me/screenshots [post].
func (h *ScreenshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// room for the multipart envelope around the image
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxScreenshotBytes+64<<10)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			stepsdk.ErrValidation.WithDetails(map[string]string{"file": "image is too large"}).WriteError(w)
			return
		}
		stepsdk.ErrInvalidRequest.WithDescription("multipart field \"file\" is required").WriteError(w)
		return
	}
	defer func() { _ = file.Close() }()

	image, err := io.ReadAll(io.LimitReader(file, service.MaxScreenshotBytes+1))
	if err != nil {
		stepsdk.ErrInvalidRequest.WithDescription("could not read upload").WriteError(w)
		return
	}

	steps, err := h.IntakeService.SubmitScreenshot(ctx, httpx.AccountIDFromCtx(ctx), image)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("screenshot processed", "steps", steps)
	httpx.WriteJSON(w, http.StatusOK, stepsdk.ScreenshotResponse{Steps: steps})
}
