package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Sales(ctx context.Context) error
	MoreSales(ctx context.Context) error
	FilterSales(ctx context.Context) error
	EditSale(ctx context.Context, arg string) error
	CancelSale(ctx context.Context, arg string) error
	Products(ctx context.Context) error
	Accounts(ctx context.Context) error
	AddUser(ctx context.Context) error
}

// runREPL is the command loop of the client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Signed out, only login is available. Signed in:
//
//	sales            — list the sales history (newest first)
//	more             — load the next history page
//	refresh          — reload the history under the current filter
//	filter           — set date range / product filters
//	edit <n>         — edit sale number n from the last listing
//	cancel <n>       — cancel sale number n (asks for confirmation)
//	products         — list the product catalog
//	accounts         — list backend accounts
//	adduser          — register a backend account
//	logout           — sign out
//	exit | quit      — leave the program
//
// Errors returned by command handlers are printed here and the loop goes on;
// a failed command never terminates the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ventas (%s) > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: sales, more, refresh, filter, edit <n>, cancel <n>, products, accounts, adduser, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "s", "sales":
			err = a.Sales(ctx)

		case "more":
			err = a.MoreSales(ctx)

		case "refresh":
			err = a.Sales(ctx)

		case "filter":
			err = a.FilterSales(ctx)

		case "edit":
			err = a.EditSale(ctx, arg)

		case "cancel":
			err = a.CancelSale(ctx, arg)

		case "products":
			err = a.Products(ctx)

		case "accounts":
			err = a.Accounts(ctx)

		case "adduser":
			err = a.AddUser(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
