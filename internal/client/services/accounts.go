// Package services contains thin application services between the CLI and
// the gateway: input validation and error shaping, no transport details.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ventascli/internal/client/api"
	"ventascli/internal/client/models"
	"ventascli/internal/logging"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrUnknownRole   = errors.New("role must be admin or seller")
)

// AccountService registers and lists backend accounts.
type AccountService struct {
	gw  api.Gateway
	log logging.Logger
}

func NewAccountService(gw api.Gateway, log logging.Logger) *AccountService {
	if log == nil {
		log = logging.Nop()
	}
	return &AccountService{gw: gw, log: log}
}

// Register creates a backend account. Validation failures are reported
// before any network call; a server-side rejection surfaces the server's
// own message.
func (s *AccountService) Register(ctx context.Context, name, email, role string, password []byte) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	role = strings.ToLower(strings.TrimSpace(role))

	if name == "" {
		return ErrEmptyName
	}
	if email == "" {
		return ErrEmptyEmail
	}
	if len(password) == 0 {
		return ErrEmptyPassword
	}
	if role != "admin" && role != "seller" {
		return ErrUnknownRole
	}

	err := s.gw.CreateAccount(ctx, api.AccountRequest{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: string(password),
	})
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) && se.Message != "" {
			return fmt.Errorf("register account: %s", se.Message)
		}
		return fmt.Errorf("register account: %w", err)
	}

	s.log.Info(ctx, "account registered", "email", email, "role", role)
	return nil
}

// List returns all backend accounts.
func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.gw.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}
