package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ventascli/internal/client/api"
	"ventascli/internal/common"
)

// getSimpleText, getPassword and getConfirm are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getConfirm = GetConfirm

// Login prompts the user for an email and password and authenticates against
// the backend. On success the token and profile are persisted in the local
// cache, so the session survives a restart. The password byte slice is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.gateway.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			printlnFn("Server unavailable, try again later.")
			return nil
		}
		var se *api.StatusError
		if errors.As(err, &se) && se.Message != "" {
			printlnFn("Login failed:", se.Message)
			return nil
		}
		return err
	}

	if err := a.session.SignIn(ctx, res.Token, res.Account); err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", res.Account.Name))
	return nil
}

// Logout clears the persisted session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	printlnFn("Signed out.")
	return nil
}
