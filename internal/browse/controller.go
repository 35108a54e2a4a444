// Package browse implements the transaction list controller: the filter
// state and page cache for the paginated view, and the reconciliation of
// list-local edits, deletes, and out-of-band creates against it.
//
// The controller is deliberately split into request/perform/apply halves.
// Perform methods are the only ones that touch the network and never touch
// controller state; every state change happens in a synchronous apply on
// the caller's event loop. That keeps the cache single-threaded while
// responses arrive asynchronously and out of order.
package browse

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tally-fin/tally/internal/bus"
	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// PageRequest identifies one issued list fetch. Seq is the monotonic
// request sequence; only the response carrying the latest issued Seq may
// be applied to the cache.
type PageRequest struct {
	Filter model.Filter
	Seq    uint64
	Page   int
}

// PageResult is the outcome of a fetch, stale or not. Errors ride along
// instead of propagating so the fetch path can never throw past the
// controller boundary.
type PageResult struct {
	Err     error
	Page    service.Page
	Seq     uint64
	ReqPage int
}

// Controller owns the Filter State and Page Cache for one mounted list
// view. Nothing else mutates them.
type Controller struct {
	svc      service.TransactionService
	bus      *bus.Bus
	lastErr  error
	edit     *EditSession
	subToken string
	filter   model.Filter
	items    []model.Transaction
	total    int
	page     int
	seq      uint64
	loading  bool
}

// NewController creates a controller with the default filter. No fetch is
// issued yet; callers start with Refetch or SetFilter.
func NewController(svc service.TransactionService, b *bus.Bus) *Controller {
	return &Controller{
		svc:    svc,
		bus:    b,
		filter: model.NewFilter(),
		page:   1,
	}
}

// Mount subscribes to transaction-created broadcasts. The sink runs on the
// publisher's goroutine; the event-loop owner decides how to marshal the
// transaction into HandleCreated. Mounting twice is a no-op so each
// controller holds at most one subscription.
func (c *Controller) Mount(sink func(model.Transaction)) {
	if c.bus == nil || c.subToken != "" {
		return
	}
	c.subToken = c.bus.Subscribe(bus.TransactionCreated, func(e bus.Event) {
		sink(e.Transaction)
	})
}

// Unmount releases the subscription taken by Mount.
func (c *Controller) Unmount() {
	if c.bus == nil || c.subToken == "" {
		return
	}
	c.bus.Unsubscribe(c.subToken)
	c.subToken = ""
}

// nextRequest bumps the sequence and marks the view loading. Every issued
// request goes through here so stale-response detection stays coherent.
func (c *Controller) nextRequest(page int) PageRequest {
	c.seq++
	c.loading = true
	return PageRequest{Seq: c.seq, Page: page, Filter: c.filter}
}

// SetFilter replaces the filter state, resets the view to page 1, and
// issues a fresh request. Safe to call repeatedly in quick succession;
// sequence numbering guarantees only the newest request lands.
func (c *Controller) SetFilter(f model.Filter) PageRequest {
	f.PageSize = f.EffectivePageSize()
	c.filter = f
	c.page = 1
	return c.nextRequest(1)
}

// GoToPage requests page n under the current filter. Out-of-range pages
// are rejected locally: no request is issued and no state changes.
func (c *Controller) GoToPage(n int) (PageRequest, bool) {
	if n < 1 || n > c.TotalPages() {
		return PageRequest{}, false
	}
	return c.nextRequest(n), true
}

// Refetch re-issues the currently viewed page and filter. Used after
// mutations whose local patch could desync from server truth.
func (c *Controller) Refetch() PageRequest {
	return c.nextRequest(c.page)
}

// Fetch performs the network call for one request. It does not touch the
// cache; feed the result to Apply on the event loop.
func (c *Controller) Fetch(ctx context.Context, req PageRequest) PageResult {
	page, err := c.svc.ListTransactions(ctx, service.ListParams{
		Page:     req.Page,
		PageSize: req.Filter.EffectivePageSize(),
		Type:     req.Filter.Type,
		Start:    req.Filter.Start,
		End:      req.Filter.End,
	})
	return PageResult{Seq: req.Seq, ReqPage: req.Page, Page: page, Err: err}
}

// Apply reconciles a fetch result into the cache. Responses for anything
// but the latest issued request are discarded outright; a newer request is
// either in flight or already landed, and its state must win. The loading
// flag clears whenever the latest request resolves, success or not.
// Returns true when the cache was replaced.
func (c *Controller) Apply(res PageResult) bool {
	if res.Seq != c.seq {
		slog.Debug("Discarding stale list response",
			"response_seq", res.Seq,
			"latest_seq", c.seq)
		return false
	}

	c.loading = false
	if res.Err != nil {
		// Last-known-good stays on screen; the error is surfaced, not fatal.
		c.lastErr = res.Err
		slog.Warn("List fetch failed", "page", res.ReqPage, "error", res.Err)
		return false
	}

	c.lastErr = nil
	c.items = res.Page.Items
	c.total = res.Page.Total
	c.page = res.Page.Page
	return true
}

// Load is the synchronous composition of Fetch and Apply for callers
// without an event loop.
func (c *Controller) Load(ctx context.Context, req PageRequest) bool {
	return c.Apply(c.Fetch(ctx, req))
}

// HandleCreated reconciles a broadcast transaction-created event. A
// non-matching transaction never changes the view. A matching one is
// spliced into page 1 locally (deduplicated by identifier, total bumped,
// cache trimmed to the page size); from any other page the returned
// request re-fetches page 1 so the record surfaces on its natural page.
func (c *Controller) HandleCreated(tx model.Transaction) (PageRequest, bool) {
	if !c.filter.Matches(tx) {
		return PageRequest{}, false
	}

	if c.page != 1 {
		return c.nextRequest(1), true
	}

	for _, it := range c.items {
		if it.ID == tx.ID {
			return PageRequest{}, false
		}
	}

	c.items = append([]model.Transaction{tx}, c.items...)
	if size := c.filter.EffectivePageSize(); len(c.items) > size {
		c.items = c.items[:size]
	}
	c.total++
	return PageRequest{}, false
}

// DeleteResult is the outcome of one delete call.
type DeleteResult struct {
	Err error
	ID  string
}

// PerformDelete issues the destructive call. Confirmation is the caller's
// responsibility and must happen before this runs.
func (c *Controller) PerformDelete(ctx context.Context, id string) DeleteResult {
	return DeleteResult{ID: id, Err: c.svc.DeleteTransaction(ctx, id)}
}

// ApplyDelete patches the cache after a delete. Success removes exactly
// the matching item and decrements the total, clamped at zero. Failure
// leaves the cache untouched; a vanished record additionally requests a
// refetch since the cache is known stale.
func (c *Controller) ApplyDelete(res DeleteResult) (PageRequest, bool) {
	if res.Err != nil {
		c.lastErr = res.Err
		if errors.Is(res.Err, common.ErrNotFound) {
			return c.Refetch(), true
		}
		return PageRequest{}, false
	}

	for i, it := range c.items {
		if it.ID == res.ID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	if c.total > 0 {
		c.total--
	}
	c.lastErr = nil
	return PageRequest{}, false
}

// Delete composes PerformDelete, ApplyDelete, and any follow-up refetch
// for synchronous callers.
func (c *Controller) Delete(ctx context.Context, id string) error {
	res := c.PerformDelete(ctx, id)
	if follow, ok := c.ApplyDelete(res); ok {
		c.Load(ctx, follow)
	}
	return res.Err
}

// Items returns the current page cache contents.
func (c *Controller) Items() []model.Transaction { return c.items }

// Total returns the server-authoritative count matching the filter.
func (c *Controller) Total() int { return c.total }

// Page returns the currently viewed 1-based page number.
func (c *Controller) Page() int { return c.page }

// Filter returns the active filter state.
func (c *Controller) Filter() model.Filter { return c.filter }

// Loading reports whether the latest issued request is still unresolved.
func (c *Controller) Loading() bool { return c.loading }

// Err returns the most recent surfaced failure, or nil after a success.
func (c *Controller) Err() error { return c.lastErr }

// TotalPages derives the page count from the authoritative total.
func (c *Controller) TotalPages() int {
	size := c.filter.EffectivePageSize()
	return (c.total + size - 1) / size
}
