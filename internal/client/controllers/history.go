package controllers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ventascli/internal/client/api"
	"ventascli/internal/client/models"
	"ventascli/internal/logging"
)

// HistoryFilter narrows the sales list. Filtering is server-side: changing
// the filter resets pagination and refetches from page 1.
type HistoryFilter struct {
	DateFrom  string // YYYY-MM-DD, empty means unbounded
	DateTo    string
	ProductID string
}

// HistoryController drives the paginated sales list. Refresh replaces the
// loaded items, LoadMore appends the next page, and both re-sort the full
// accumulated list by date descending.
type HistoryController struct {
	gw       api.Gateway
	log      logging.Logger
	pageSize int

	mu       sync.Mutex
	filter   HistoryFilter
	items    []models.SaleRecord
	page     int
	lastPage int
	loading  bool
}

func NewHistoryController(gw api.Gateway, log logging.Logger, pageSize int) *HistoryController {
	if log == nil {
		log = logging.Nop()
	}
	return &HistoryController{gw: gw, log: log, pageSize: pageSize, lastPage: 1}
}

// SetFilter replaces the current filter and refetches from the first page.
func (c *HistoryController) SetFilter(ctx context.Context, f HistoryFilter) error {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Filter returns the current filter.
func (c *HistoryController) Filter() HistoryFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Refresh reloads page 1 under the current filter, replacing the items.
func (c *HistoryController) Refresh(ctx context.Context) error {
	return c.fetch(ctx, 1, true)
}

// LoadMore appends the next page. No-op on the last page.
func (c *HistoryController) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	next := c.page + 1
	last := c.lastPage
	c.mu.Unlock()
	if next > last {
		return nil
	}
	return c.fetch(ctx, next, false)
}

// HasMore reports whether pages remain beyond the loaded ones.
func (c *HistoryController) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page < c.lastPage
}

func (c *HistoryController) fetch(ctx context.Context, page int, replace bool) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	q := api.SalesQuery{
		Page:      page,
		PerPage:   c.pageSize,
		DateFrom:  c.filter.DateFrom,
		DateTo:    c.filter.DateTo,
		ProductID: c.filter.ProductID,
	}
	c.mu.Unlock()

	res, err := c.gw.ListSales(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return fmt.Errorf("list sales: %w", err)
	}

	if replace {
		c.items = res.Items
	} else {
		c.items = append(c.items, res.Items...)
	}
	sortByDateDesc(c.items)
	c.page = res.CurrentPage
	if c.page == 0 {
		c.page = page
	}
	c.lastPage = res.LastPage
	if c.lastPage < c.page {
		c.lastPage = c.page
	}
	c.log.Info(ctx, "sales page loaded", "page", c.page, "last_page", c.lastPage, "count", len(res.Items))
	return nil
}

// Items returns a copy of the accumulated list, newest first.
func (c *HistoryController) Items() []models.SaleRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.SaleRecord(nil), c.items...)
}

// Cancel marks the sale cancelled on the server and refreshes the list. The
// edit window does not apply here; the server owns the cancellation rule.
func (c *HistoryController) Cancel(ctx context.Context, saleID string) error {
	if err := c.gw.CancelSale(ctx, saleID); err != nil {
		return fmt.Errorf("cancel sale: %w", err)
	}
	c.log.Info(ctx, "sale cancelled", "sale_id", saleID)
	return c.Refresh(ctx)
}

// sortByDateDesc is a defensive re-sort on top of the server's ordering.
// The stable sort keeps the server's relative order for equal dates; records
// without a date sink to the end.
func sortByDateDesc(items []models.SaleRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		return saleDate(&items[i]).After(saleDate(&items[j]))
	})
}

func saleDate(s *models.SaleRecord) time.Time {
	if s.Date != nil {
		return *s.Date
	}
	if s.CreatedAt != nil {
		return *s.CreatedAt
	}
	return time.Time{}
}
