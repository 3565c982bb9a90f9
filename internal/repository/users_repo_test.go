package repository_test

import (
	"errors"
	"testing"
	"time"

	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/internal/repository"
	"crypto-analyst-bot/lib/errs"
)

func TestCreateUser(t *testing.T) {
	testDB := setupTestDB(t)
	usersRepo := repository.NewUsersRepository(testDB)

	t.Run("success_create_user_with_defaults", func(t *testing.T) {
		user := &models.User{
			TelegramID: "alice",
			Username:   "alice",
		}

		if err := usersRepo.CreateUser(user); err != nil {
			t.Errorf("CreateUser failed: unexpected error: %v", err)
		}

		foundUser, err := usersRepo.GetUserByTelegramID("alice")
		if err != nil {
			t.Fatalf("GetUserByTelegramID failed after create: %v", err)
		}

		if foundUser.UserType != models.UserTypeGuest {
			t.Errorf("Expected user type %s, got %s", models.UserTypeGuest, foundUser.UserType)
		}
		if foundUser.Language != "en" {
			t.Errorf("Expected language en, got %s", foundUser.Language)
		}
		if foundUser.PreferredTimeframe != 30 {
			t.Errorf("Expected preferred timeframe 30, got %d", foundUser.PreferredTimeframe)
		}
	})

	t.Run("duplicate_user_creation", func(t *testing.T) {
		user := &models.User{
			TelegramID: "duplicate_user",
		}

		_ = usersRepo.CreateUser(user)

		err := usersRepo.CreateUser(&models.User{TelegramID: "duplicate_user"})

		if err == nil {
			t.Fatalf("Expected an error for duplicated user creation, but got nil")
		}

		if !errors.Is(err, errs.ErrAlreadyExists) {
			t.Errorf("Expected ErrAlreadyExists, but got %v", err)
		}
	})

	t.Run("missing_user_lookup", func(t *testing.T) {
		_, err := usersRepo.GetUserByTelegramID("nobody")
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, but got %v", err)
		}
	})
}

func TestTouchLastActive(t *testing.T) {
	testDB := setupTestDB(t)
	usersRepo := repository.NewUsersRepository(testDB)

	if err := usersRepo.CreateUser(&models.User{TelegramID: "bob"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	if err := usersRepo.TouchLastActive("bob", at); err != nil {
		t.Fatalf("TouchLastActive failed: %v", err)
	}

	user, err := usersRepo.GetUserByTelegramID("bob")
	if err != nil {
		t.Fatalf("GetUserByTelegramID failed: %v", err)
	}
	if !user.LastActive.UTC().Truncate(time.Second).Equal(at) {
		t.Errorf("Expected last_active %v, got %v", at, user.LastActive)
	}

	if err := usersRepo.TouchLastActive("nobody", at); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}
