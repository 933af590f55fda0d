package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventascli/internal/client/models"
	"ventascli/internal/logging"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc, token string) *RestGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw := NewRestGateway(srv.URL, 5*time.Second, func() string { return token }, logging.Nop())
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}

func TestRestGateway_GetSale_WrappedAndBearer(t *testing.T) {
	var gotAuth, gotRequestID string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		assert.Equal(t, "/sales/s1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"_id":{"$oid":"s1"},"created_at":"2025-03-14T12:00:00Z","payment_method":"card","details":"[{\"product_id\":\"p1\",\"quantity\":2}]","status":"active","total":23.2}}`))
	}, "tok-123")

	sale, err := gw.GetSale(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "s1", sale.ID)
	assert.Equal(t, "card", sale.PaymentMethod)
	require.NotNil(t, sale.CreatedAt)
	require.Len(t, sale.Details, 1)
	assert.Equal(t, "p1", sale.Details[0].ProductID)
}

func TestRestGateway_ListSales_BareArray(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Empty(t, r.URL.Query().Get("date_from"), "empty filters must not be sent")
		_, _ = w.Write([]byte(`[{"_id":"a"},{"_id":"b"}]`))
	}, "")

	page, err := gw.ListSales(context.Background(), SalesQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.LastPage)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].ID)
}

func TestRestGateway_ListSales_WrappedWithFilters(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("date_from"))
		assert.Equal(t, "p9", r.URL.Query().Get("product_id"))
		_, _ = w.Write([]byte(`{"data":[{"_id":"a"}],"current_page":3,"last_page":9}`))
	}, "")

	page, err := gw.ListSales(context.Background(), SalesQuery{Page: 3, DateFrom: "2025-01-01", ProductID: "p9"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 9, page.LastPage)
}

func TestRestGateway_UpdateSale_Payload(t *testing.T) {
	var got updateSalePayload
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}, "")

	err := gw.UpdateSale(context.Background(), "s1", "transfer", []models.SaleLine{{ProductID: "p1", Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, "transfer", got.PaymentMethod)
	require.Len(t, got.Details, 1)
	assert.Equal(t, 3, got.Details[0].Quantity)
}

func TestRestGateway_UpdateSale_WindowClosed(t *testing.T) {
	for _, code := range []int{http.StatusForbidden, http.StatusUnprocessableEntity} {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"message":"editing time has passed"}`))
		}, "")

		err := gw.UpdateSale(context.Background(), "s1", "cash", nil)
		var wc *WindowClosedError
		require.ErrorAs(t, err, &wc, "code %d", code)
		assert.Equal(t, code, wc.Code)
		assert.Equal(t, "editing time has passed", wc.Message)
		assert.True(t, wc.MentionsTiming())
	}
}

func TestRestGateway_Unauthorized(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "expired")

	_, err := gw.GetSale(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRestGateway_StatusErrorCarriesServerMessage(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"db down"}`))
	}, "")

	_, err := gw.GetSale(context.Background(), "s1")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "db down", se.Message)
}

func TestRestGateway_TransportErrorIsUnavailable(t *testing.T) {
	gw := NewRestGateway("http://127.0.0.1:1", 200*time.Millisecond, nil, logging.Nop())
	defer func() { _ = gw.Close() }()

	_, err := gw.GetSale(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRestGateway_Login(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ana@example.org", creds["email"])
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":"u1","name":"Ana","email":"ana@example.org","role":"admin"}}`))
	}, "")

	res, err := gw.Login(context.Background(), "ana@example.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "Ana", res.Account.Name)
	assert.Equal(t, "admin", res.Account.Role)
}

func TestRestGateway_Login_NoTokenField(t *testing.T) {
	// access_token is deliberately not honored; the contract is "token".
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok-1"}`))
	}, "")

	_, err := gw.Login(context.Background(), "a@b.c", "pw")
	var se *StatusError
	require.True(t, errors.As(err, &se))
}

func TestRestGateway_CancelSale(t *testing.T) {
	var got map[string]string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}, "")

	require.NoError(t, gw.CancelSale(context.Background(), "s1"))
	assert.Equal(t, "cancelled", got["status"])
}

func TestRestGateway_ListProductNames(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/names", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"p1","name":"Cafe","price":10,"sale_price":8.5},{"id":"p2","price":4}]`))
	}, "")

	products, err := gw.ListProductNames(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 8.5, products[0].UnitPrice())
	assert.Equal(t, "Unnamed", products[1].Name)
}

func TestRestGateway_CreateAccount_FieldError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"email":["The email has already been taken."]}}`))
	}, "")

	err := gw.CreateAccount(context.Background(), AccountRequest{Email: "dup@example.org"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "The email has already been taken.", se.Message)
}
