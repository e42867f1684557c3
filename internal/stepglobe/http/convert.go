package http

import (
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

func toAccount(a domain.Account) stepsdk.Account {
	return stepsdk.Account{
		ID:         a.ID,
		Email:      a.Email,
		Nickname:   a.Nickname,
		AvatarURL:  a.AvatarURL,
		TotalSteps: a.TotalSteps,
		IsApproved: a.IsApproved,
		Role:       string(a.Role),
		TelegramID: a.TelegramID,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func toProfiles(ps []domain.Profile) []stepsdk.Profile {
	out := make([]stepsdk.Profile, 0, len(ps))
	for _, p := range ps {
		out = append(out, stepsdk.Profile{
			ID:         p.ID,
			Nickname:   p.Nickname,
			AvatarURL:  p.AvatarURL,
			TotalSteps: p.TotalSteps,
			IsApproved: p.IsApproved,
			UpdatedAt:  p.UpdatedAt,
		})
	}
	return out
}

func toTokens(t domain.TokenPair) stepsdk.TokenResponse {
	return stepsdk.TokenResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

func toAvatarGroups(gs []domain.AvatarGroup) []stepsdk.AvatarGroup {
	out := make([]stepsdk.AvatarGroup, 0, len(gs))
	for _, g := range gs {
		out = append(out, stepsdk.AvatarGroup{Name: g.Name, Icons: append([]string(nil), g.Icons...)})
	}
	return out
}
