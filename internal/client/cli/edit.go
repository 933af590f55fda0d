package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ventascli/internal/client/controllers"
	"ventascli/internal/client/editwindow"
	"ventascli/internal/client/models"
)

// EditSale opens the edit screen for sale number arg from the last listing.
//
// The screen is its own small loop: the countdown runs in the background and
// prints a banner when the window closes; every mutation goes through the
// controller, which ignores it once the record is locked.
func (a *App) EditSale(ctx context.Context, arg string) error {
	sale, err := a.saleByNumber(arg)
	if err != nil {
		return err
	}

	ctrl := controllers.NewSaleEditController(a.gateway, a.log, editwindow.SystemClock(), a.config.EditWindow)
	defer ctrl.Close()
	ctrl.SetNotify(func(msg string) {
		printlnFn("\n*** " + msg + " ***")
	})

	if err := ctrl.Load(ctx, sale.ID); err != nil {
		return err
	}

	printlnFn("Editing sale", sale.ID, "(product <n>, qty <n>, +, -, method <id>, save, back)")
	for {
		a.printEditState(ctrl)

		line, err := getSimpleText(a.reader, "", os.Stdout)
		if err != nil {
			return err
		}
		cmd, cmdArg := splitCommand(line)

		switch cmd {
		case "":
			continue

		case "product":
			if id, ok := a.resolveProduct(ctrl, cmdArg); ok {
				ctrl.SelectProduct(id)
			}

		case "qty":
			ctrl.SetQuantity(cmdArg)

		case "+":
			ctrl.IncrementQty()

		case "-":
			ctrl.DecrementQty()

		case "method":
			ctrl.SelectMethod(cmdArg)

		case "save":
			if done := a.saveSale(ctx, ctrl); done {
				return nil
			}

		case "back":
			return nil

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// saveSale submits the edit and reports the outcome. It returns true when
// the screen should close (the save succeeded).
func (a *App) saveSale(ctx context.Context, ctrl *controllers.SaleEditController) bool {
	err := ctrl.Save(ctx)
	if err == nil {
		printlnFn("Saved.")
		return true
	}

	var wc *controllers.WindowClosedError
	switch {
	case errors.As(err, &wc):
		printlnFn(wc.Message)
	case errors.Is(err, controllers.ErrMissingProduct):
		printlnFn("Select a product first.")
	case errors.Is(err, controllers.ErrMissingPaymentMethod):
		printlnFn("Select a payment method first.")
	default:
		printlnFn("Save failed:", err.Error())
	}
	return false
}

// resolveProduct accepts either a 1-based number into the catalog listing or
// a raw product id.
func (a *App) resolveProduct(ctrl *controllers.SaleEditController, arg string) (string, bool) {
	if arg == "" {
		printlnFn("Usage: product <n>")
		return "", false
	}
	snap := ctrl.Snapshot()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(snap.Products) {
			printlnFn(fmt.Sprintf("No product number %d (1..%d)", n, len(snap.Products)))
			return "", false
		}
		return snap.Products[n-1].ID, true
	}
	return arg, true
}

func (a *App) printEditState(ctrl *controllers.SaleEditController) {
	snap := ctrl.Snapshot()

	for i, p := range snap.Products {
		marker := " "
		if snap.Product != nil && snap.Product.ID == p.ID {
			marker = "*"
		}
		printlnFn(fmt.Sprintf(" %s %2d. %-24s $%.2f", marker, i+1, p.Name, p.UnitPrice()))
	}

	method := "-"
	if snap.Method != nil {
		method = fmt.Sprintf("%s (%s)", snap.Method.Label, snap.Method.ID)
	}
	options := ""
	for _, m := range models.PaymentMethods() {
		options += " " + m.ID
	}
	printlnFn(fmt.Sprintf("Qty: %d   Method: %s   (options:%s)", snap.Qty, method, options))
	printlnFn(fmt.Sprintf("Subtotal $%.2f  IVA $%.2f  Total $%.2f", snap.Totals.Subtotal, snap.Totals.Tax, snap.Totals.Total))

	if snap.Locked {
		printlnFn("LOCKED:", snap.Notice)
	} else {
		printlnFn(fmt.Sprintf("Time left: %02d:%02d", snap.Remaining/60, snap.Remaining%60))
	}
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
