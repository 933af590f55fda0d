package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"ventascli/internal/client/controllers"
	"ventascli/internal/client/models"
)

// Sales reloads the history under the current filter and prints it.
func (a *App) Sales(ctx context.Context) error {
	if err := a.history.Refresh(ctx); err != nil {
		return err
	}
	a.printSales()
	return nil
}

// MoreSales loads the next history page and prints the full list.
func (a *App) MoreSales(ctx context.Context) error {
	if !a.history.HasMore() {
		printlnFn("No more pages.")
		return nil
	}
	if err := a.history.LoadMore(ctx); err != nil {
		return err
	}
	a.printSales()
	return nil
}

// FilterSales prompts for the filter fields and refetches from page 1.
// Empty answers leave a dimension unbounded.
func (a *App) FilterSales(ctx context.Context) error {
	from, err := getSimpleText(a.reader, "From date (YYYY-MM-DD, empty for any)", os.Stdout)
	if err != nil {
		return err
	}
	to, err := getSimpleText(a.reader, "To date (YYYY-MM-DD, empty for any)", os.Stdout)
	if err != nil {
		return err
	}
	productID, err := getSimpleText(a.reader, "Product id (empty for any)", os.Stdout)
	if err != nil {
		return err
	}

	f := controllers.HistoryFilter{DateFrom: from, DateTo: to, ProductID: productID}
	if err := a.history.SetFilter(ctx, f); err != nil {
		return err
	}
	a.printSales()
	return nil
}

// CancelSale cancels sale number arg from the last listing, after asking
// for confirmation. Cancellation is not gated by the edit window.
func (a *App) CancelSale(ctx context.Context, arg string) error {
	sale, err := a.saleByNumber(arg)
	if err != nil {
		return err
	}
	if sale.Status == models.SaleStatusCancelled {
		printlnFn("Sale is already cancelled.")
		return nil
	}

	ok, err := getConfirm(a.reader, fmt.Sprintf("Cancel sale %s?", sale.ID), os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Not cancelled.")
		return nil
	}

	if err := a.history.Cancel(ctx, sale.ID); err != nil {
		return err
	}
	printlnFn("Sale cancelled.")
	a.printSales()
	return nil
}

// Products prints the catalog with unit prices.
func (a *App) Products(ctx context.Context) error {
	products, err := a.gateway.ListProductNames(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		printlnFn("No products.")
		return nil
	}
	for _, p := range products {
		printlnFn(fmt.Sprintf("%-24s  $%.2f  (id %s)", p.Name, p.UnitPrice(), p.ID))
	}
	return nil
}

// saleByNumber resolves a 1-based listing number against the loaded history.
func (a *App) saleByNumber(arg string) (*models.SaleRecord, error) {
	if arg == "" {
		return nil, fmt.Errorf("usage: <command> <n>, run 'sales' first")
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", arg)
	}
	items := a.history.Items()
	if n < 1 || n > len(items) {
		return nil, fmt.Errorf("no sale number %d in the current listing (1..%d)", n, len(items))
	}
	s := items[n-1]
	return &s, nil
}

func (a *App) printSales() {
	items := a.history.Items()
	if len(items) == 0 {
		printlnFn("No sales found.")
		return
	}
	for i, s := range items {
		date := "-"
		if s.Date != nil {
			date = s.Date.Format("2006-01-02 15:04")
		} else if s.CreatedAt != nil {
			date = s.CreatedAt.Format("2006-01-02 15:04")
		}
		status := ""
		if s.Status == models.SaleStatusCancelled {
			status = "  [cancelled]"
		}
		method := s.PaymentMethod
		if m, ok := models.PaymentMethodByID(s.PaymentMethod); ok {
			method = m.Label
		}
		printlnFn(fmt.Sprintf("%3d. %s  $%8.2f  %-13s qty %d%s", i+1, date, s.Total, method, s.TotalQuantity(), status))
	}
	if a.history.HasMore() {
		printlnFn("(type 'more' for the next page)")
	}
}
