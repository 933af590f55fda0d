// Package controllers holds the screen controllers of the client: explicit
// state machines that the CLI renders as a read-only projection. All business
// decisions (gating, validation, reconciliation) live here, not in the view.
package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"ventascli/internal/client/api"
	"ventascli/internal/client/editwindow"
	"ventascli/internal/client/models"
	"ventascli/internal/logging"
)

// Phase is the coarse lifecycle of the edit screen.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseSaving
	PhaseSaved
)

// TaxRate is the fixed IVA applied on top of the subtotal.
const TaxRate = 0.16

const (
	minQuantity = 1
	maxQuantity = 9999
)

// Totals are the reactive money figures for the current selection. Each
// figure is rounded to 2 decimals exactly once; they are never accumulated
// from already-rounded intermediate steps.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Phase     Phase
	SaleID    string
	Remaining int64
	Locked    bool
	Notice    string

	Product *models.Product
	Qty     int
	Method  *models.PaymentMethod
	Totals  Totals

	Products []models.Product
}

// SaleEditController drives the edit-sale workflow: load record and catalog,
// run the countdown, gate every mutation on the lock state, and reconcile
// the server's authoritative rejection.
//
// The lock is monotonic for a loaded record: once set, neither ticks nor
// user actions clear it; only loading a fresh record resets it.
type SaleEditController struct {
	gw     api.Gateway
	log    logging.Logger
	clock  editwindow.Clock
	window time.Duration
	timer  *editwindow.Countdown

	// notify, when set, receives user-facing messages for asynchronous
	// transitions (the countdown reaching zero).
	notify func(string)

	mu        sync.Mutex
	phase     Phase
	sale      *models.SaleRecord
	products  []models.Product
	product   *models.Product
	qty       int
	method    *models.PaymentMethod
	remaining int64
	locked    bool
	notice    string
}

func NewSaleEditController(gw api.Gateway, log logging.Logger, clock editwindow.Clock, window time.Duration) *SaleEditController {
	if log == nil {
		log = logging.Nop()
	}
	return &SaleEditController{
		gw:     gw,
		log:    log,
		clock:  clock,
		window: window,
		timer:  editwindow.NewCountdown(clock, time.Second),
		qty:    minQuantity,
	}
}

// SetNotify registers a sink for asynchronous user-facing messages. Must be
// called before Load.
func (c *SaleEditController) SetNotify(fn func(string)) {
	c.notify = fn
}

// Load fetches the product catalog and the sale concurrently, joins both,
// then resolves the selected product by the sale's first detail line. The
// countdown starts unless the record is already locked on load.
//
// Load supersedes any previous record: the old countdown is stopped before
// the new one starts, so exactly one is ever active.
func (c *SaleEditController) Load(ctx context.Context, saleID string) error {
	c.timer.Stop()

	c.mu.Lock()
	c.phase = PhaseLoading
	c.sale = nil
	c.product = nil
	c.method = nil
	c.qty = minQuantity
	c.locked = false
	c.remaining = 0
	c.notice = ""
	c.mu.Unlock()

	var (
		wg       sync.WaitGroup
		products []models.Product
		sale     *models.SaleRecord
		perr     error
		serr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		products, perr = c.gw.ListProductNames(ctx)
	}()
	go func() {
		defer wg.Done()
		sale, serr = c.gw.GetSale(ctx, saleID)
	}()
	wg.Wait()

	if serr != nil {
		c.setPhase(PhaseIdle)
		return fmt.Errorf("load sale: %w", serr)
	}
	if perr != nil {
		c.setPhase(PhaseIdle)
		return fmt.Errorf("load products: %w", perr)
	}

	st := editwindow.Compute(sale.CreatedAt, c.window, c.clock.Now())

	c.mu.Lock()
	c.sale = sale
	c.products = products
	c.remaining = st.Remaining
	c.locked = st.Locked
	if st.Locked {
		c.notice = c.windowClosedMessage()
	}

	detail := sale.FirstDetail()
	c.qty = clampQty(detail.Quantity)
	if m, ok := models.PaymentMethodByID(sale.PaymentMethod); ok {
		c.method = &m
	}
	c.matchProductLocked(detail.ProductID)
	c.phase = PhaseReady
	c.mu.Unlock()

	c.log.Info(ctx, "sale loaded", "sale_id", sale.ID, "remaining", st.Remaining, "locked", st.Locked)

	if !st.Locked {
		c.timer.Start(sale.CreatedAt, c.window, c.handleTick)
	}
	return nil
}

// Close stops the countdown. It must be called when the owning screen goes
// away; a forgotten Close leaks the ticker goroutine.
func (c *SaleEditController) Close() {
	c.timer.Stop()
}

// RefreshProducts re-fetches the catalog and re-attempts the product match.
// This is the reconciliation pass for a catalog that resolves, or changes,
// after the sale record: if the sale's product id now matches an entry and
// nothing is selected yet, the selection updates without user interaction.
func (c *SaleEditController) RefreshProducts(ctx context.Context) error {
	products, err := c.gw.ListProductNames(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	if c.sale != nil && c.product == nil {
		c.matchProductLocked(c.sale.FirstDetail().ProductID)
	}
	return nil
}

// matchProductLocked resolves the selection by product id against the
// current catalog. Caller holds c.mu.
func (c *SaleEditController) matchProductLocked(productID string) {
	if productID == "" {
		return
	}
	for i := range c.products {
		if c.products[i].ID == productID {
			p := c.products[i]
			c.product = &p
			return
		}
	}
}

func (c *SaleEditController) handleTick(st editwindow.State) {
	var fireNotify bool
	var msg string

	c.mu.Lock()
	if c.locked {
		// monotonic: a forced lock from a rejected save wins over ticks
		c.mu.Unlock()
		return
	}
	c.remaining = st.Remaining
	if st.Locked {
		c.locked = true
		msg = c.windowClosedMessage()
		c.notice = msg
		fireNotify = c.notify != nil
	}
	c.mu.Unlock()

	if fireNotify {
		c.notify(msg)
	}
}

// SelectProduct picks a catalog entry by id. No-op while locked: the view
// disables the control, and the handler checks again anyway.
func (c *SaleEditController) SelectProduct(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked || c.phase != PhaseReady {
		return
	}
	c.matchProductLocked(id)
}

// SelectMethod picks a payment method by id. No-op while locked or for
// unknown ids.
func (c *SaleEditController) SelectMethod(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked || c.phase != PhaseReady {
		return
	}
	if m, ok := models.PaymentMethodByID(id); ok {
		c.method = &m
	}
}

// SetQuantity parses free-form input: digits are kept, anything non-numeric
// or non-positive normalizes to 1, and the result clamps to [1, 9999].
// No-op while locked.
func (c *SaleEditController) SetQuantity(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked || c.phase != PhaseReady {
		return
	}
	c.qty = normalizeQty(raw)
}

// IncrementQty raises the quantity by one up to the upper clamp.
func (c *SaleEditController) IncrementQty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked || c.phase != PhaseReady {
		return
	}
	c.qty = clampQty(c.qty + 1)
}

// DecrementQty lowers the quantity by one down to the lower clamp.
func (c *SaleEditController) DecrementQty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked || c.phase != PhaseReady {
		return
	}
	c.qty = clampQty(c.qty - 1)
}

// Save validates locally, submits the edit, and reconciles the result.
//
// A locked record returns *WindowClosedError without touching the network.
// Missing product or method return the matching validation error, also
// without a network call. A server rejection with 403/422 forces the lock
// (the server is authoritative; the local clock may have skewed) and keeps
// the server's message when it already explains the time limit. Any other
// failure leaves the state editable so the user may retry.
func (c *SaleEditController) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseReady || c.sale == nil {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.locked {
		msg := c.windowClosedMessage()
		c.mu.Unlock()
		return &WindowClosedError{Message: msg}
	}
	if c.product == nil {
		c.mu.Unlock()
		return ErrMissingProduct
	}
	if c.method == nil {
		c.mu.Unlock()
		return ErrMissingPaymentMethod
	}

	saleID := c.sale.ID
	details := []models.SaleLine{{ProductID: c.product.ID, Quantity: c.qty}}
	methodID := c.method.ID
	c.phase = PhaseSaving
	c.mu.Unlock()

	err := c.gw.UpdateSale(ctx, saleID, methodID, details)

	if err == nil {
		c.mu.Lock()
		c.phase = PhaseSaved
		c.mu.Unlock()
		c.timer.Stop()
		c.log.Info(ctx, "sale updated", "sale_id", saleID)
		return nil
	}

	var wc *api.WindowClosedError
	if errors.As(err, &wc) {
		msg := c.windowClosedMessage()
		if wc.Message != "" && wc.MentionsTiming() {
			msg = wc.Message
		}
		c.mu.Lock()
		c.phase = PhaseReady
		c.locked = true
		c.remaining = 0
		c.notice = msg
		c.mu.Unlock()
		c.timer.Stop()
		c.log.Warn(ctx, "edit rejected by server, locking", "sale_id", saleID, "status", wc.Code)
		return &WindowClosedError{Message: msg}
	}

	c.mu.Lock()
	c.phase = PhaseReady
	c.mu.Unlock()
	c.log.Error(ctx, "save failed", "sale_id", saleID, "error", err.Error())
	return err
}

// Totals recomputes the money figures for the current selection.
func (c *SaleEditController) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalsLocked()
}

func (c *SaleEditController) totalsLocked() Totals {
	if c.product == nil {
		return Totals{}
	}
	subtotal := round2(c.product.UnitPrice() * float64(c.qty))
	tax := round2(subtotal * TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    round2(subtotal + tax),
	}
}

// Snapshot returns a consistent copy of the state for rendering.
func (c *SaleEditController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Phase:     c.phase,
		Remaining: c.remaining,
		Locked:    c.locked,
		Notice:    c.notice,
		Qty:       c.qty,
		Totals:    c.totalsLocked(),
		Products:  append([]models.Product(nil), c.products...),
	}
	if c.sale != nil {
		snap.SaleID = c.sale.ID
	}
	if c.product != nil {
		p := *c.product
		snap.Product = &p
	}
	if c.method != nil {
		m := *c.method
		snap.Method = &m
	}
	return snap
}

func (c *SaleEditController) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

func (c *SaleEditController) windowClosedMessage() string {
	return fmt.Sprintf("Editing is limited to %d minutes after the sale was created.", int(c.window.Minutes()))
}

func clampQty(n int) int {
	if n < minQuantity {
		return minQuantity
	}
	if n > maxQuantity {
		return maxQuantity
	}
	return n
}

// normalizeQty keeps the digits of raw and clamps the result; anything that
// does not yield a positive number becomes 1.
func normalizeQty(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return minQuantity
	}
	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
		if n > maxQuantity {
			return maxQuantity
		}
	}
	return clampQty(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
