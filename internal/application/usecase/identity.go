package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/platform/logger"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// IdentityEvent is a user lifecycle event pushed by the identity provider.
type IdentityEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type identityUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PublicMetadata struct {
		Role string `json:"role"`
	} `json:"public_metadata"`
}

func (u identityUser) email() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

func (u identityUser) name() string {
	return strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName}, " "))
}

func (u identityUser) role() domain.Role {
	if domain.Role(u.PublicMetadata.Role) == domain.RoleAdmin {
		return domain.RoleAdmin
	}
	return domain.RoleStudent
}

type IdentityUseCase struct {
	users  *repository.UserRepository
	replay ReplayGuard
	log    *logger.Logger
}

func NewIdentityUseCase(ur *repository.UserRepository, rg ReplayGuard, log *logger.Logger) *IdentityUseCase {
	return &IdentityUseCase{users: ur, replay: rg, log: log}
}

// HandleEvent applies a verified identity event. A delivery id that was
// already processed is acknowledged without applying it again.
func (uc *IdentityUseCase) HandleEvent(ctx context.Context, deliveryID string, evt IdentityEvent) error {
	claimed := false
	if uc.replay != nil && deliveryID != "" {
		first, err := uc.replay.FirstSeen(ctx, deliveryID)
		switch {
		case err != nil:
			uc.log.Warn("replay guard unavailable", "delivery_id", deliveryID, "error", err)
		case !first:
			uc.log.Info("duplicate identity event ignored", "delivery_id", deliveryID, "type", evt.Type)
			return nil
		default:
			claimed = true
		}
	}

	err := uc.apply(ctx, evt)
	if err != nil && claimed {
		if ferr := uc.replay.Forget(ctx, deliveryID); ferr != nil {
			uc.log.Warn("replay guard release failed", "delivery_id", deliveryID, "error", ferr)
		}
	}
	return err
}

func (uc *IdentityUseCase) apply(ctx context.Context, evt IdentityEvent) error {
	var data identityUser
	if err := json.Unmarshal(evt.Data, &data); err != nil {
		return domain.WrapError("identity.Handle", domain.ErrValidation, "malformed event data", err)
	}
	if data.ID == "" {
		return domain.Validation("identity.Handle", "event has no user id")
	}

	switch evt.Type {
	case EventUserCreated, EventUserUpdated:
		return uc.upsert(ctx, data)
	case EventUserDeleted:
		if err := uc.users.DeleteByExternalID(ctx, data.ID); err != nil {
			return err
		}
		uc.log.Info("user deleted", "external_id", data.ID)
		return nil
	default:
		uc.log.Debug("identity event ignored", "type", evt.Type)
		return nil
	}
}

func (uc *IdentityUseCase) upsert(ctx context.Context, data identityUser) error {
	existing, err := uc.users.GetByExternalID(ctx, data.ID)
	switch {
	case err == nil:
		if err := uc.users.UpdateProfile(ctx, existing.ID, data.email(), data.name(), data.role()); err != nil {
			return err
		}
		uc.log.Info("user updated", "user_id", existing.ID, "external_id", data.ID)
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	user := &domain.User{
		ExternalID: data.ID,
		Email:      data.email(),
		Name:       data.name(),
		Role:       data.role(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent delivery for the same user.
		if errors.Is(err, domain.ErrConflict) {
			return nil
		}
		return err
	}
	uc.log.Info("user created", "user_id", user.ID, "external_id", data.ID, "role", user.Role)
	return nil
}
