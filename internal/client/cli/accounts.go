package cli

import (
	"context"
	"fmt"
	"os"

	"ventascli/internal/common"
)

// Accounts lists the backend user accounts.
func (a *App) Accounts(ctx context.Context) error {
	accounts, err := a.accounts.List(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		printlnFn("No accounts.")
		return nil
	}
	for _, acc := range accounts {
		printlnFn(fmt.Sprintf("%-20s %-28s %s", acc.Name, acc.Email, acc.Role))
	}
	return nil
}

// AddUser prompts for the new account's fields and registers it. The
// password byte slice is wiped before returning.
func (a *App) AddUser(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Enter role (admin/seller)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.accounts.Register(ctx, name, email, role, password); err != nil {
		return err
	}

	printlnFn("Account created.")
	return nil
}
