package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
)

type AdminAction string

const (
	ActionApprove AdminAction = "approve"
	ActionBlock   AdminAction = "block"
	ActionDelete  AdminAction = "delete"
	ActionPromote AdminAction = "promote"
	ActionDemote  AdminAction = "demote"
)

func (a AdminAction) Valid() bool {
	switch a {
	case ActionApprove, ActionBlock, ActionDelete, ActionPromote, ActionDemote:
		return true
	}
	return false
}

// AdminService runs the admin panel's named actions.
type AdminService struct {
	Store    store.Store
	Accounts *AccountService
	Blobs    BlobStore
	Notifier Notifier
}

// Do runs action on target. The actor's role is read from the store, not
// from the token, so a demoted admin loses access immediately.
func (s *AdminService) Do(ctx context.Context, actorID string, action AdminAction, targetID string) error {
	targetID = strings.TrimSpace(targetID)
	details := map[string]string{}
	if !action.Valid() {
		details["action"] = "must be one of approve, block, delete, promote, demote"
	}
	if targetID == "" {
		details["target_id"] = "required"
	}
	if len(details) > 0 {
		return &ValidationError{Details: details}
	}

	actor, err := s.Store.Accounts().GetAccountByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionInvalid
		}
		return unavailable("load actor", err)
	}
	if !actor.IsAdmin() {
		return ErrAccessDenied
	}
	if targetID == actor.ID && action != ActionApprove && action != ActionPromote {
		return invalid("target_id", "admins cannot "+string(action)+" themselves")
	}

	target, err := s.Store.Accounts().GetAccountByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return unavailable("load target", err)
	}

	l := slogx.FromContext(ctx).With(
		slog.String("action", string(action)),
		slog.String("target_id", target.ID),
	)

	switch action {
	case ActionApprove:
		err = s.Store.Accounts().SetApproved(ctx, target.ID, true)
	case ActionBlock:
		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Accounts().SetApproved(ctx, target.ID, false); err != nil {
				return err
			}
			return tx.Sessions().RevokeAccountSessions(ctx, target.ID)
		})
	case ActionPromote:
		err = s.Store.Accounts().SetRole(ctx, target.ID, domain.RoleAdmin)
	case ActionDemote:
		err = s.Store.Accounts().SetRole(ctx, target.ID, domain.RoleUser)
	case ActionDelete:
		err = s.delete(ctx, target.ID)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return unavailable(string(action)+" account", err)
	}

	l.Info("admin action applied")
	s.accounts().invalidate(ctx)

	if action == ActionApprove && !target.IsApproved && s.Notifier != nil {
		if err := s.Notifier.AccountApproved(ctx, target); err != nil {
			l.Warn("approval notification failed", "err", err)
		}
	}
	return nil
}

// delete removes stored screenshots first; the rows go with the account.
func (s *AdminService) delete(ctx context.Context, id string) error {
	if s.Blobs != nil {
		shots, err := s.Store.Screenshots().ListAccountScreenshots(ctx, id)
		if err != nil {
			return err
		}
		for _, shot := range shots {
			if err := s.Blobs.Delete(ctx, shot.ObjectKey); err != nil {
				slogx.FromContext(ctx).Warn("screenshot blob delete failed",
					slog.String("object_key", shot.ObjectKey), "err", err)
			}
		}
	}
	return s.Store.Accounts().DeleteAccount(ctx, id)
}

func (s *AdminService) accounts() *AccountService {
	if s.Accounts == nil {
		return &AccountService{Store: s.Store}
	}
	return s.Accounts
}
