package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store/drivers/sqlite/gen"
)

type accountsRepo struct {
	q   *gen.Queries
	now func() time.Time
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row, err := r.q.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row, err := r.q.GetAccountByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAccount(row))
	}
	return out, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := ts(r.now())
	if a.Role == "" {
		a.Role = domain.RoleUser
	}
	err := r.q.CreateAccount(ctx, gen.CreateAccountParams{
		ID:             a.ID,
		Email:          a.Email,
		Nickname:       a.Nickname,
		AvatarUrl:      a.AvatarURL,
		TotalSteps:     a.TotalSteps,
		IsApproved:     a.IsApproved,
		Role:           string(a.Role),
		CredentialHash: a.CredentialHash,
		TelegramID:     mapOptionalInt64(a.TelegramID),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	return mapConstraint(err)
}

func (r *accountsRepo) SaveProfile(ctx context.Context, a domain.Account) error {
	n, err := r.q.SaveAccountProfile(ctx, gen.SaveAccountProfileParams{
		Nickname:   a.Nickname,
		AvatarUrl:  a.AvatarURL,
		TotalSteps: a.TotalSteps,
		UpdatedAt:  ts(r.now()),
		ID:         a.ID,
	})
	return expectRows(n, mapConstraint(err))
}

func (r *accountsRepo) UpdateProfile(ctx context.Context, id, nickname, avatarURL string) error {
	return expectRows(r.q.UpdateAccountProfile(ctx, gen.UpdateAccountProfileParams{
		Nickname:  nickname,
		AvatarUrl: avatarURL,
		UpdatedAt: ts(r.now()),
		ID:        id,
	}))
}

func (r *accountsRepo) SetTotalSteps(ctx context.Context, id string, total int64) error {
	n, err := r.q.SetAccountTotalSteps(ctx, gen.SetAccountTotalStepsParams{
		TotalSteps: total,
		UpdatedAt:  ts(r.now()),
		ID:         id,
	})
	return expectRows(n, mapConstraint(err))
}

func (r *accountsRepo) IncrementSteps(ctx context.Context, id string, delta int64) (int64, error) {
	total, err := r.q.IncrementAccountSteps(ctx, gen.IncrementAccountStepsParams{
		Delta:     delta,
		UpdatedAt: ts(r.now()),
		ID:        id,
	})
	if err != nil {
		return 0, mapConstraint(mapNotFound(err))
	}
	return total, nil
}

func (r *accountsRepo) SetApproved(ctx context.Context, id string, approved bool) error {
	return expectRows(r.q.SetAccountApproved(ctx, gen.SetAccountApprovedParams{
		IsApproved: approved,
		UpdatedAt:  ts(r.now()),
		ID:         id,
	}))
}

func (r *accountsRepo) SetRole(ctx context.Context, id string, role domain.Role) error {
	n, err := r.q.SetAccountRole(ctx, gen.SetAccountRoleParams{
		Role:      string(role),
		UpdatedAt: ts(r.now()),
		ID:        id,
	})
	return expectRows(n, mapConstraint(err))
}

func (r *accountsRepo) UpdateCredentialHash(ctx context.Context, id, hash string) error {
	return expectRows(r.q.UpdateAccountCredentialHash(ctx, gen.UpdateAccountCredentialHashParams{
		CredentialHash: hash,
		UpdatedAt:      ts(r.now()),
		ID:             id,
	}))
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	return expectRows(r.q.DeleteAccount(ctx, id))
}

func (r *accountsRepo) CountAccounts(ctx context.Context) (int64, error) {
	return r.q.CountAccounts(ctx)
}
