package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"resty.dev/v3"

	"ventascli/internal/client/models"
	"ventascli/internal/logging"
)

// TokenProvider returns the current bearer token, or "" when signed out.
// The session owns the token; the gateway reads it per request.
type TokenProvider func() string

// RestGateway is the HTTP/JSON implementation of Gateway.
type RestGateway struct {
	rc    *resty.Client
	token TokenProvider
	log   logging.Logger
}

func NewRestGateway(baseURL string, timeout time.Duration, token TokenProvider, log logging.Logger) *RestGateway {
	if log == nil {
		log = logging.Nop()
	}
	if token == nil {
		token = func() string { return "" }
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &RestGateway{rc: rc, token: token, log: log}
}

func (g *RestGateway) Close() error {
	g.rc.Close()
	return nil
}

// do executes one request and applies the default error mapping:
// transport failure -> ErrUnavailable, 401 -> ErrUnauthorized, any other
// non-2xx -> StatusError. Endpoints with special semantics (UpdateSale)
// intercept the status code before this mapping via doRaw.
func (g *RestGateway) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	raw, code, err := g.doRaw(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	if code >= 200 && code < 300 {
		return raw, nil
	}
	return nil, g.mapStatus(method, path, code, raw)
}

func (g *RestGateway) doRaw(ctx context.Context, method, path string, query map[string]string, body any) ([]byte, int, error) {
	req := g.rc.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if t := g.token(); t != "" {
		req.SetAuthToken(t)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	for k, v := range query {
		if v != "" {
			req.SetQueryParam(k, v)
		}
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		g.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err.Error())
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp.Bytes(), resp.StatusCode(), nil
}

func (g *RestGateway) mapStatus(method, path string, code int, body []byte) error {
	if code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return &StatusError{Method: method, Path: path, Code: code, Message: serverMessage(body)}
}

func (g *RestGateway) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := g.do(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Token   string          `json:"token"`
		User    json.RawMessage `json:"user"`
		Account json.RawMessage `json:"account"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if payload.Token == "" {
		return nil, &StatusError{Method: http.MethodPost, Path: "/login", Code: http.StatusOK, Message: "login response carried no token"}
	}

	res := &LoginResult{Token: payload.Token}
	raw := payload.User
	if len(raw) == 0 {
		raw = payload.Account
	}
	if len(raw) > 0 {
		var doc accountDoc
		if err := json.Unmarshal(raw, &doc); err == nil {
			res.Account = doc.toAccount()
		}
	}
	return res, nil
}

func (g *RestGateway) CreateAccount(ctx context.Context, req AccountRequest) error {
	_, err := g.do(ctx, http.MethodPost, "/accounts", req)
	return err
}

func (g *RestGateway) ListAccounts(ctx context.Context) ([]models.Account, error) {
	body, err := g.do(ctx, http.MethodGet, "/accounts", nil)
	if err != nil {
		return nil, err
	}
	items, _, _ := decodeList(body)
	accounts := make([]models.Account, 0, len(items))
	for _, raw := range items {
		var doc accountDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		accounts = append(accounts, doc.toAccount())
	}
	return accounts, nil
}

func (g *RestGateway) ListProductNames(ctx context.Context) ([]models.Product, error) {
	body, err := g.do(ctx, http.MethodGet, "/products/names", nil)
	if err != nil {
		return nil, err
	}
	items, _, _ := decodeList(body)
	products := make([]models.Product, 0, len(items))
	for _, raw := range items {
		var doc productDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		products = append(products, doc.toProduct())
	}
	return products, nil
}

func (g *RestGateway) ListSales(ctx context.Context, q SalesQuery) (*SalesPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = 10
	}
	query := map[string]string{
		"per_page":   strconv.Itoa(q.PerPage),
		"page":       strconv.Itoa(q.Page),
		"date_from":  q.DateFrom,
		"date_to":    q.DateTo,
		"product_id": q.ProductID,
	}
	raw, code, err := g.doRaw(ctx, http.MethodGet, "/sales", query, nil)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, g.mapStatus(http.MethodGet, "/sales", code, raw)
	}

	items, current, last := decodeList(raw)
	page := &SalesPage{CurrentPage: current, LastPage: last, Items: make([]models.SaleRecord, 0, len(items))}
	for _, item := range items {
		var doc saleDoc
		if err := json.Unmarshal(item, &doc); err != nil {
			continue
		}
		page.Items = append(page.Items, doc.toRecord())
	}
	return page, nil
}

func (g *RestGateway) GetSale(ctx context.Context, id string) (*models.SaleRecord, error) {
	body, err := g.do(ctx, http.MethodGet, "/sales/"+id, nil)
	if err != nil {
		return nil, err
	}
	var doc saleDoc
	if err := json.Unmarshal(unwrapDoc(body), &doc); err != nil {
		return nil, fmt.Errorf("decode sale %s: %w", id, err)
	}
	record := doc.toRecord()
	if record.ID == "" {
		record.ID = id
	}
	return &record, nil
}

type updateSalePayload struct {
	PaymentMethod string             `json:"payment_method"`
	Details       []updateSaleDetail `json:"details"`
}

type updateSaleDetail struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateSale submits the edited payment method and detail lines. A 403 or
// 422 response means the server refused the edit, which it uses to enforce
// the edit window, and is surfaced as *WindowClosedError so the controller
// can reconcile its lock state.
func (g *RestGateway) UpdateSale(ctx context.Context, id string, paymentMethod string, details []models.SaleLine) error {
	payload := updateSalePayload{PaymentMethod: paymentMethod}
	for _, d := range details {
		payload.Details = append(payload.Details, updateSaleDetail{ProductID: d.ProductID, Quantity: d.Quantity})
	}

	path := "/sales/" + id
	raw, code, err := g.doRaw(ctx, http.MethodPut, path, nil, payload)
	if err != nil {
		return err
	}
	if code >= 200 && code < 300 {
		return nil
	}
	if code == http.StatusForbidden || code == http.StatusUnprocessableEntity {
		return &WindowClosedError{Code: code, Message: serverMessage(raw)}
	}
	return g.mapStatus(http.MethodPut, path, code, raw)
}

// CancelSale flips the sale's status to cancelled. Cancellation has its own
// authorization rule on the server and deliberately does not go through the
// edit-window mapping.
func (g *RestGateway) CancelSale(ctx context.Context, id string) error {
	_, err := g.do(ctx, http.MethodPut, "/sales/"+id, map[string]string{
		"status": string(models.SaleStatusCancelled),
	})
	return err
}

var _ Gateway = (*RestGateway)(nil)
