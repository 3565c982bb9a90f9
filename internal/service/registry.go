package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/internal/repository"
	"crypto-analyst-bot/lib/errs"

	"gorm.io/gorm"
)

// Registry authorizes privileged operations and manages the admin roster.
type Registry interface {
	IsAuthorized(ctx context.Context, identity string) (bool, error)
	Bootstrap(ctx context.Context, identities []string) error
	ChangeRole(ctx context.Context, identity string, role models.AdminRole, changedBy string) (*models.Admin, error)
	SetActive(ctx context.Context, identity string, active bool, changedBy string) (*models.Admin, error)
}

type registry struct {
	adminsRepo repository.AdminsRepository
	usersRepo  repository.UsersRepository
	db         *gorm.DB
	log        *slog.Logger
}

func NewRegistry(adminsRepo repository.AdminsRepository, usersRepo repository.UsersRepository, db *gorm.DB, log *slog.Logger) Registry {
	return &registry{
		adminsRepo: adminsRepo,
		usersRepo:  usersRepo,
		db:         db,
		log:        log,
	}
}

func (s *registry) IsAuthorized(ctx context.Context, identity string) (bool, error) {
	admin, err := s.adminsRepo.GetAdminByUserID(identity)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return admin.IsActive, nil
}

// Bootstrap seeds MASTER admins from configuration. Identities that already
// have an admin row are skipped, so repeated invocations are no-ops.
func (s *registry) Bootstrap(ctx context.Context, identities []string) error {
	for _, identity := range identities {
		_, err := s.adminsRepo.GetAdminByUserID(identity)
		if err == nil {
			continue
		}
		if !errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("failed to look up admin %q: %w", identity, err)
		}

		if _, err := s.usersRepo.GetUserByTelegramID(identity); err != nil {
			if !errors.Is(err, errs.ErrNotFound) {
				return fmt.Errorf("failed to look up user %q: %w", identity, err)
			}
			createErr := s.usersRepo.CreateUser(&models.User{TelegramID: identity, Username: identity})
			if createErr != nil && !errors.Is(createErr, errs.ErrAlreadyExists) {
				return fmt.Errorf("failed to create user %q: %w", identity, createErr)
			}
		}

		err = s.adminsRepo.CreateAdmin(&models.Admin{
			UserID:    identity,
			Role:      models.AdminRoleMaster,
			CreatedBy: models.BootstrapCreator,
			IsActive:  true,
		})
		if err != nil && !errors.Is(err, errs.ErrAlreadyExists) {
			return fmt.Errorf("failed to create admin %q: %w", identity, err)
		}

		s.log.Info("bootstrapped admin", "identity", identity)
	}

	return nil
}

// ChangeRole updates an admin's role. Only an active MASTER admin may change
// roles; everything is written in one transaction together with the audit row.
func (s *registry) ChangeRole(ctx context.Context, identity string, role models.AdminRole, changedBy string) (*models.Admin, error) {
	actor, err := s.requireMaster(changedBy)
	if err != nil {
		return nil, err
	}

	var updated *models.Admin

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txAdmins := repository.NewAdminsRepository(tx)
		txActivity := repository.NewActivityRepository(tx)

		before, err := txAdmins.GetAdminByUserID(identity)
		if err != nil {
			return err
		}

		updated, err = txAdmins.UpdateAdminRole(identity, role)
		if err != nil {
			return err
		}

		return txActivity.AppendAdminActivity(&models.AdminActivity{
			AdminID:      actor.ID,
			ActivityType: "role_change",
			TargetUserID: &identity,
			Details:      fmt.Sprintf(`{"from":%q,"to":%q}`, before.Role, role),
		})
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SetActive toggles the authorization gate for an admin, with the same
// MASTER-only policy and audit trail as ChangeRole.
func (s *registry) SetActive(ctx context.Context, identity string, active bool, changedBy string) (*models.Admin, error) {
	actor, err := s.requireMaster(changedBy)
	if err != nil {
		return nil, err
	}

	var updated *models.Admin

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txAdmins := repository.NewAdminsRepository(tx)
		txActivity := repository.NewActivityRepository(tx)

		before, err := txAdmins.GetAdminByUserID(identity)
		if err != nil {
			return err
		}

		updated, err = txAdmins.SetAdminActive(identity, active)
		if err != nil {
			return err
		}

		return txActivity.AppendAdminActivity(&models.AdminActivity{
			AdminID:      actor.ID,
			ActivityType: "activation_toggle",
			TargetUserID: &identity,
			Details:      fmt.Sprintf(`{"from":%t,"to":%t}`, before.IsActive, active),
		})
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *registry) requireMaster(identity string) (*models.Admin, error) {
	actor, err := s.adminsRepo.GetAdminByUserID(identity)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrPermissionDenied
		}
		return nil, err
	}

	if !actor.IsActive || actor.Role != models.AdminRoleMaster {
		return nil, errs.ErrPermissionDenied
	}

	return actor, nil
}
