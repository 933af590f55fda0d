package api

import (
	"encoding/json"
	"strings"
	"time"

	"ventascli/internal/client/models"
)

// The backend is not consistent about shapes: ids arrive as plain strings or
// as Mongo-ish {"$oid": ...} objects, lists arrive bare or wrapped in
// {data, current_page, last_page}, sale details arrive as an array or as a
// JSON-encoded string, and timestamps show up under several keys and
// formats. Everything is normalized here so the rest of the client only
// sees canonical types.

func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Oid    string `json:"$oid"`
		AltOid string `json:"oid"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Oid != "" {
			return obj.Oid
		}
		if obj.AltOid != "" {
			return obj.AltOid
		}
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimeString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}

// decodeTime tries each candidate raw value in order and returns the first
// parseable instant. Values may be plain strings or objects with a
// date/$date/iso field. Unparseable input yields nil, which downstream
// policy treats as expired.
func decodeTime(candidates ...json.RawMessage) *time.Time {
	for _, raw := range candidates {
		if len(raw) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if ts := parseTimeString(s); ts != nil {
				return ts
			}
			continue
		}
		var obj struct {
			Date  string `json:"date"`
			MDate string `json:"$date"`
			ISO   string `json:"iso"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			for _, v := range []string{obj.Date, obj.MDate, obj.ISO} {
				if ts := parseTimeString(v); ts != nil {
					return ts
				}
			}
		}
	}
	return nil
}

type detailDoc struct {
	ProductID json.RawMessage `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
}

// decodeDetails accepts either an array of detail rows or a string holding
// the JSON-encoded array. Anything else decodes to an empty slice.
func decodeDetails(raw json.RawMessage) []models.SaleLine {
	if len(raw) == 0 {
		return nil
	}
	var docs []detailDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(s), &docs); err != nil {
			return nil
		}
	}
	lines := make([]models.SaleLine, 0, len(docs))
	for _, d := range docs {
		lines = append(lines, models.SaleLine{
			ProductID: decodeID(d.ProductID),
			Quantity:  d.Quantity,
			Name:      d.Name,
		})
	}
	return lines
}

type saleDoc struct {
	ID            json.RawMessage `json:"_id"`
	AltID         json.RawMessage `json:"id"`
	CreatedAt     json.RawMessage `json:"created_at"`
	CreatedAtCC   json.RawMessage `json:"createdAt"`
	CreatedAtISO  json.RawMessage `json:"created_at_iso"`
	CreatedAtISO2 json.RawMessage `json:"createdAtIso"`
	PaymentMethod string          `json:"payment_method"`
	Details       json.RawMessage `json:"details"`
	Status        string          `json:"status"`
	Total         float64         `json:"total"`
	Date          json.RawMessage `json:"date"`
}

func (d saleDoc) toRecord() models.SaleRecord {
	id := decodeID(d.ID)
	if id == "" {
		id = decodeID(d.AltID)
	}
	return models.SaleRecord{
		ID:            id,
		CreatedAt:     decodeTime(d.CreatedAt, d.CreatedAtCC, d.CreatedAtISO, d.CreatedAtISO2),
		PaymentMethod: d.PaymentMethod,
		Details:       decodeDetails(d.Details),
		Status:        models.SaleStatus(d.Status),
		Total:         d.Total,
		Date:          decodeTime(d.Date),
	}
}

type productDoc struct {
	ID        json.RawMessage `json:"id"`
	AltID     json.RawMessage `json:"_id"`
	Name      string          `json:"name"`
	Price     float64         `json:"price"`
	SalePrice float64         `json:"sale_price"`
}

func (d productDoc) toProduct() models.Product {
	id := decodeID(d.ID)
	if id == "" {
		id = decodeID(d.AltID)
	}
	name := d.Name
	if name == "" {
		name = "Unnamed"
	}
	return models.Product{ID: id, Name: name, Price: d.Price, SalePrice: d.SalePrice}
}

type accountDoc struct {
	ID    json.RawMessage `json:"id"`
	AltID json.RawMessage `json:"_id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  string          `json:"role"`
}

func (d accountDoc) toAccount() models.Account {
	id := decodeID(d.ID)
	if id == "" {
		id = decodeID(d.AltID)
	}
	return models.Account{ID: id, Name: d.Name, Email: d.Email, Role: d.Role}
}

// decodeList splits a response body into its item list and pagination. A
// bare JSON array counts as a single page.
func decodeList(body []byte) (items []json.RawMessage, currentPage, lastPage int) {
	currentPage, lastPage = 1, 1
	if len(body) == 0 {
		return nil, currentPage, lastPage
	}
	if err := json.Unmarshal(body, &items); err == nil {
		return items, currentPage, lastPage
	}
	var wrapped struct {
		Data        []json.RawMessage `json:"data"`
		CurrentPage int               `json:"current_page"`
		LastPage    int               `json:"last_page"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, currentPage, lastPage
	}
	if wrapped.CurrentPage > 0 {
		currentPage = wrapped.CurrentPage
	}
	if wrapped.LastPage > 0 {
		lastPage = wrapped.LastPage
	}
	return wrapped.Data, currentPage, lastPage
}

// unwrapDoc strips a single-document {data: {...}} envelope when present.
func unwrapDoc(body []byte) []byte {
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Data) > 0 {
		trimmed := strings.TrimSpace(string(wrapped.Data))
		if strings.HasPrefix(trimmed, "{") {
			return wrapped.Data
		}
	}
	return body
}

// serverMessage pulls a human-readable message out of an error body:
// {message}, {error}, or the first entry of a Laravel-style {errors} map.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string              `json:"message"`
		Err     string              `json:"error"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if payload.Err != "" {
		return payload.Err
	}
	for _, msgs := range payload.Errors {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}
