package controllers

import (
	"context"
	"sync"
	"time"

	"ventascli/internal/client/api"
	"ventascli/internal/client/models"
)

// fakeGateway is an in-memory api.Gateway that records calls and returns
// canned responses.
type fakeGateway struct {
	mu sync.Mutex

	products    []models.Product
	productsErr error
	sale        *models.SaleRecord
	saleErr     error
	pages       map[int]*api.SalesPage
	listErr     error
	updateErr   error
	cancelErr   error

	updateCalls []updateCall
	cancelIDs   []string
	listQueries []api.SalesQuery
	productHits int
}

type updateCall struct {
	id      string
	method  string
	details []models.SaleLine
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	return nil, nil
}

func (f *fakeGateway) CreateAccount(ctx context.Context, req api.AccountRequest) error { return nil }

func (f *fakeGateway) ListAccounts(ctx context.Context) ([]models.Account, error) { return nil, nil }

func (f *fakeGateway) ListProductNames(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productHits++
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}

func (f *fakeGateway) ListSales(ctx context.Context, q api.SalesQuery) (*api.SalesPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listQueries = append(f.listQueries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if page, ok := f.pages[q.Page]; ok {
		return page, nil
	}
	return &api.SalesPage{CurrentPage: q.Page, LastPage: q.Page}, nil
}

func (f *fakeGateway) GetSale(ctx context.Context, id string) (*models.SaleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saleErr != nil {
		return nil, f.saleErr
	}
	return f.sale, nil
}

func (f *fakeGateway) UpdateSale(ctx context.Context, id string, paymentMethod string, details []models.SaleLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, updateCall{id: id, method: paymentMethod, details: details})
	return f.updateErr
}

func (f *fakeGateway) CancelSale(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelIDs = append(f.cancelIDs, id)
	return f.cancelErr
}

func (f *fakeGateway) Close() error { return nil }

func (f *fakeGateway) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updateCalls)
}

// fixedClock always reports the same instant.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func tp(t time.Time) *time.Time { return &t }
