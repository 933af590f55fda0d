package cli

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventascli/internal/client/api"
	"ventascli/internal/client/config"
	"ventascli/internal/client/controllers"
	"ventascli/internal/client/models"
	"ventascli/internal/client/services"
	"ventascli/internal/client/session"
)

type fakeGateway struct {
	loginResult *api.LoginResult
	loginErr    error
	loginEmail  string
	loginPass   string

	sales     []models.SaleRecord
	cancelIDs []string
	products  []models.Product
	accounts  []models.Account
	created   []api.AccountRequest
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	f.loginEmail, f.loginPass = email, password
	return f.loginResult, f.loginErr
}

func (f *fakeGateway) CreateAccount(ctx context.Context, req api.AccountRequest) error {
	f.created = append(f.created, req)
	return nil
}

func (f *fakeGateway) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return f.accounts, nil
}

func (f *fakeGateway) ListProductNames(ctx context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeGateway) ListSales(ctx context.Context, q api.SalesQuery) (*api.SalesPage, error) {
	return &api.SalesPage{Items: f.sales, CurrentPage: 1, LastPage: 1}, nil
}

func (f *fakeGateway) GetSale(ctx context.Context, id string) (*models.SaleRecord, error) {
	for i := range f.sales {
		if f.sales[i].ID == id {
			return &f.sales[i], nil
		}
	}
	return nil, &api.StatusError{Method: "GET", Path: "/sales/" + id, Code: 404}
}

func (f *fakeGateway) UpdateSale(ctx context.Context, id string, paymentMethod string, details []models.SaleLine) error {
	return nil
}

func (f *fakeGateway) CancelSale(ctx context.Context, id string) error {
	f.cancelIDs = append(f.cancelIDs, id)
	return nil
}

func (f *fakeGateway) Close() error { return nil }

func newTestApp(t *testing.T, gw *fakeGateway) *App {
	t.Helper()
	ctx := context.Background()

	db, err := session.InitCacheDB(ctx, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sess, err := session.Load(ctx, db)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	return &App{
		config:   cfg,
		db:       db,
		session:  sess,
		gateway:  gw,
		accounts: services.NewAccountService(gw, nil),
		history:  controllers.NewHistoryController(gw, nil, cfg.PageSize),
		reader:   bufio.NewReader(strings.NewReader("")),
	}
}

func stubInputs(t *testing.T, answers []string, password string) {
	t.Helper()
	origText, origPass := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPass })

	i := 0
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		a := answers[i]
		i++
		return a, nil
	}
	getPassword = func(io.Writer) ([]byte, error) {
		return []byte(password), nil
	}
}

func TestLogin_PersistsSession(t *testing.T) {
	muteOutput(t)
	gw := &fakeGateway{loginResult: &api.LoginResult{
		Token:   "tok-123",
		Account: models.Account{ID: "1", Name: "Ana", Email: "ana@tienda.mx", Role: "admin"},
	}}
	app := newTestApp(t, gw)
	stubInputs(t, []string{"ana@tienda.mx"}, "secret")

	require.NoError(t, app.Login(context.Background()))

	assert.Equal(t, "ana@tienda.mx", gw.loginEmail)
	assert.Equal(t, "secret", gw.loginPass)
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "tok-123", app.session.Token())
	assert.Equal(t, "ana@tienda.mx", app.getStatus())
}

func TestLogin_BadCredentialsDoesNotSignIn(t *testing.T) {
	muteOutput(t)
	gw := &fakeGateway{loginErr: &api.StatusError{
		Method: "POST", Path: "/login", Code: 401, Message: "Invalid credentials",
	}}
	app := newTestApp(t, gw)
	stubInputs(t, []string{"ana@tienda.mx"}, "wrong")

	require.NoError(t, app.Login(context.Background()), "a rejected login is reported, not fatal")
	assert.False(t, app.isLoggedIn())
}

func TestLogout_ClearsSession(t *testing.T) {
	muteOutput(t)
	gw := &fakeGateway{loginResult: &api.LoginResult{
		Token: "tok", Account: models.Account{Name: "Ana", Email: "a@b.c"},
	}}
	app := newTestApp(t, gw)
	stubInputs(t, []string{"a@b.c"}, "x")
	require.NoError(t, app.Login(context.Background()))

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "signed out", app.getStatus())
}

func TestCancelSale_ConfirmedByNumber(t *testing.T) {
	muteOutput(t)
	now := time.Now()
	gw := &fakeGateway{sales: []models.SaleRecord{
		{ID: "s1", Date: &now, Status: models.SaleStatusActive},
	}}
	app := newTestApp(t, gw)
	require.NoError(t, app.Sales(context.Background()))

	origConfirm := getConfirm
	t.Cleanup(func() { getConfirm = origConfirm })
	getConfirm = func(*bufio.Reader, string, io.Writer) (bool, error) { return true, nil }

	require.NoError(t, app.CancelSale(context.Background(), "1"))
	assert.Equal(t, []string{"s1"}, gw.cancelIDs)
}

func TestCancelSale_Declined(t *testing.T) {
	muteOutput(t)
	now := time.Now()
	gw := &fakeGateway{sales: []models.SaleRecord{
		{ID: "s1", Date: &now, Status: models.SaleStatusActive},
	}}
	app := newTestApp(t, gw)
	require.NoError(t, app.Sales(context.Background()))

	origConfirm := getConfirm
	t.Cleanup(func() { getConfirm = origConfirm })
	getConfirm = func(*bufio.Reader, string, io.Writer) (bool, error) { return false, nil }

	require.NoError(t, app.CancelSale(context.Background(), "1"))
	assert.Empty(t, gw.cancelIDs)
}

func TestCancelSale_BadNumber(t *testing.T) {
	muteOutput(t)
	app := newTestApp(t, &fakeGateway{})
	require.NoError(t, app.Sales(context.Background()))

	assert.Error(t, app.CancelSale(context.Background(), ""))
	assert.Error(t, app.CancelSale(context.Background(), "x"))
	assert.Error(t, app.CancelSale(context.Background(), "7"))
}

func TestAddUser_RegistersAccount(t *testing.T) {
	muteOutput(t)
	gw := &fakeGateway{}
	app := newTestApp(t, gw)
	stubInputs(t, []string{"Ana", "ana@tienda.mx", "seller"}, "secret")

	require.NoError(t, app.AddUser(context.Background()))

	require.Len(t, gw.created, 1)
	assert.Equal(t, "seller", gw.created[0].Role)
}
