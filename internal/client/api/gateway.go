// Package api is the boundary to the remote Ventas POS backend. It owns the
// HTTP transport, the polymorphic wire-shape normalization, and the mapping
// from HTTP failures to the client's error taxonomy.
package api

import (
	"context"

	"ventascli/internal/client/models"
)

// SalesQuery is the server-side filter for GET /sales.
type SalesQuery struct {
	Page      int
	PerPage   int
	DateFrom  string // YYYY-MM-DD, empty means unbounded
	DateTo    string
	ProductID string
}

// SalesPage is one page of the sales list, already normalized.
type SalesPage struct {
	Items       []models.SaleRecord
	CurrentPage int
	LastPage    int
}

// LoginResult carries the bearer token and the signed-in account.
//
// The canonical token field is "token"; the backend contract was pinned to
// that, the historical access_token fallback is not honored.
type LoginResult struct {
	Token   string
	Account models.Account
}

// AccountRequest is the payload for POST /accounts.
type AccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Gateway is the remote sales gateway consumed by controllers and services.
// All methods honor context cancellation.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	CreateAccount(ctx context.Context, req AccountRequest) error
	ListAccounts(ctx context.Context) ([]models.Account, error)

	ListProductNames(ctx context.Context) ([]models.Product, error)

	ListSales(ctx context.Context, q SalesQuery) (*SalesPage, error)
	GetSale(ctx context.Context, id string) (*models.SaleRecord, error)
	UpdateSale(ctx context.Context, id string, paymentMethod string, details []models.SaleLine) error
	CancelSale(ctx context.Context, id string) error

	Close() error
}
