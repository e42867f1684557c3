package stepsdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Me returns the signed-in account.
func (s *Session) Me(ctx context.Context) (*Account, error) {
	var out Account
	if err := s.doAuthJSON(ctx, http.MethodGet, "/v1/accounts/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Info describes the current session as the server sees it.
func (s *Session) Info(ctx context.Context) (*SessionResponse, error) {
	var out SessionResponse
	if err := s.doAuthJSON(ctx, http.MethodGet, "/v1/auth/session", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveProfile saves the profile dialog. Changing the step total needs an
// approved account.
func (s *Session) SaveProfile(ctx context.Context, req SaveProfileRequest) (*Account, error) {
	if details := req.Validate(); details != nil {
		return nil, ErrValidation.WithDetails(details)
	}
	var out Account
	if err := s.doAuthJSON(ctx, http.MethodPut, "/v1/accounts/me", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes nickname and avatar.
func (s *Session) UpdateProfile(ctx context.Context, nickname, avatarURL string) (*Account, error) {
	req := UpdateProfileRequest{Nickname: nickname, AvatarURL: avatarURL}
	if details := req.Validate(); details != nil {
		return nil, ErrValidation.WithDetails(details)
	}
	var out Account
	if err := s.doAuthJSON(ctx, http.MethodPatch, "/v1/accounts/me/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetSteps overwrites the step total.
func (s *Session) SetSteps(ctx context.Context, total int64) (int64, error) {
	req := SetStepsRequest{TotalSteps: total}
	if details := req.Validate(); details != nil {
		return 0, ErrValidation.WithDetails(details)
	}
	var out StepsResponse
	if err := s.doAuthJSON(ctx, http.MethodPut, "/v1/accounts/me/steps", req, &out); err != nil {
		return 0, err
	}
	return out.TotalSteps, nil
}

// IncrementSteps adds delta to the step total and returns the new total.
func (s *Session) IncrementSteps(ctx context.Context, delta int64) (int64, error) {
	req := IncrementStepsRequest{Delta: delta}
	if details := req.Validate(); details != nil {
		return 0, ErrValidation.WithDetails(details)
	}
	var out StepsResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/v1/accounts/me/steps/increment", req, &out); err != nil {
		return 0, err
	}
	return out.TotalSteps, nil
}

// UploadScreenshot sends a step-counter screenshot and returns the steps
// that were read off it and added. Zero means nothing was found.
func (s *Session) UploadScreenshot(ctx context.Context, filename string, image io.Reader) (int64, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return 0, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return 0, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("failed to finish form: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/accounts/me/screenshots", &buf,
		map[string]string{"Content-Type": mw.FormDataContentType()})
	if err != nil {
		return 0, err
	}
	var out ScreenshotResponse
	if err := s.checkInvalid(decodeResponse(resp, &out)); err != nil {
		return 0, err
	}
	return out.Steps, nil
}

// Avatars returns the avatar catalog.
func (s *Session) Avatars(ctx context.Context) (*AvatarCatalogResponse, error) {
	var out AvatarCatalogResponse
	if err := s.doAuthJSON(ctx, http.MethodGet, "/v1/avatars", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminAction runs an admin action on another account. Admins only.
func (s *Session) AdminAction(ctx context.Context, action, targetID string) error {
	req := AdminActionRequest{Action: action, TargetID: targetID}
	if details := req.Validate(); details != nil {
		return ErrValidation.WithDetails(details)
	}
	return s.doAuthJSON(ctx, http.MethodPost, "/v1/admin/actions", req, nil)
}
