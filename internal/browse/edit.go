package browse

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/model"
)

// Draft holds the editable fields of a row as raw user input. Amount stays
// a string until save time so partial typing never corrupts the record.
type Draft struct {
	Amount   string
	Category string
	Date     string
	Note     string
	Type     model.TxType
}

// EditSession is the transient state for the single row under inline edit.
// At most one exists per controller. seeded keeps the values the draft
// started from, so a field emptied by the user is distinguishable from one
// that was empty all along.
type EditSession struct {
	ID     string
	Draft  Draft
	seeded Draft
}

// StartEdit opens an edit session for a row, seeding the draft from the
// displayed values. The date field is truncated to calendar-day precision.
// Any prior unsaved session is discarded; that replacement is the
// documented behavior, not data loss, since nothing persisted changes.
func (c *Controller) StartEdit(tx model.Transaction) {
	draft := Draft{
		Amount:   strconv.FormatFloat(tx.Amount, 'f', -1, 64),
		Category: tx.Category,
		Note:     tx.Note,
		Type:     tx.Type,
	}
	if !tx.Date.IsZero() {
		draft.Date = tx.Date.Format("2006-01-02")
	}
	c.edit = &EditSession{ID: tx.ID, Draft: draft, seeded: draft}
}

// Editing returns the active session, or nil when no row is under edit.
func (c *Controller) Editing() *EditSession { return c.edit }

// SetDraft replaces the working copy of the active session. No-op when
// nothing is being edited.
func (c *Controller) SetDraft(d Draft) {
	if c.edit != nil {
		c.edit.Draft = d
	}
}

// CancelEdit discards the session and draft unconditionally. No network
// call is made.
func (c *Controller) CancelEdit() { c.edit = nil }

// UpdateRequest is a validated, ready-to-send partial update.
type UpdateRequest struct {
	Patch model.Patch
	ID    string
}

// UpdateResult carries the service echo and the submitted patch so the
// apply step can merge even when the service echoes nothing.
type UpdateResult struct {
	Err     error
	Updated model.Transaction
	Patch   model.Patch
	ID      string
}

// BeginSaveEdit validates the draft and builds the update request. An
// empty or non-positive amount fails here, synchronously, with no network
// call; the session stays in its editing state.
func (c *Controller) BeginSaveEdit() (UpdateRequest, error) {
	if c.edit == nil {
		return UpdateRequest{}, common.NewValidationError("edit", "no row is being edited")
	}

	d := c.edit.Draft
	amount, err := model.ParseAmount(d.Amount)
	if err != nil {
		return UpdateRequest{}, common.NewValidationError("amount", err.Error())
	}

	// An empty field goes into the patch only when the user emptied it;
	// a field that was empty from the start stays omitted.
	patch := model.Patch{Amount: &amount}
	if d.Category != "" || d.Category != c.edit.seeded.Category {
		patch.Category = &d.Category
	}
	if d.Note != "" || d.Note != c.edit.seeded.Note {
		patch.Note = &d.Note
	}
	if d.Type.Valid() {
		patch.Type = &d.Type
	}
	if d.Date != "" {
		if day, perr := time.Parse("2006-01-02", d.Date); perr == nil {
			patch.Date = &day
		} else {
			return UpdateRequest{}, common.NewValidationError("date", "expected YYYY-MM-DD")
		}
	}

	return UpdateRequest{ID: c.edit.ID, Patch: patch}, nil
}

// PerformUpdate issues the update call. Controller state is untouched.
func (c *Controller) PerformUpdate(ctx context.Context, req UpdateRequest) UpdateResult {
	updated, err := c.svc.UpdateTransaction(ctx, req.ID, req.Patch)
	return UpdateResult{ID: req.ID, Updated: updated, Patch: req.Patch, Err: err}
}

// ApplyUpdate reconciles an update result. Success merges into the cached
// item, fields the service omitted staying as they were, and closes the
// session. Failure keeps the session and draft so the user can retry; a
// vanished record additionally requests a full refetch.
func (c *Controller) ApplyUpdate(res UpdateResult) (PageRequest, bool) {
	if res.Err != nil {
		c.lastErr = res.Err
		if errors.Is(res.Err, common.ErrNotFound) {
			return c.Refetch(), true
		}
		return PageRequest{}, false
	}

	for i := range c.items {
		if c.items[i].ID == res.ID {
			c.items[i] = mergeUpdate(c.items[i], res.Updated, res.Patch)
			break
		}
	}
	c.edit = nil
	c.lastErr = nil
	return PageRequest{}, false
}

// SaveEdit composes validation, the network call, the apply, and any
// follow-up refetch for synchronous callers.
func (c *Controller) SaveEdit(ctx context.Context) error {
	req, err := c.BeginSaveEdit()
	if err != nil {
		return err
	}
	res := c.PerformUpdate(ctx, req)
	if follow, ok := c.ApplyUpdate(res); ok {
		c.Load(ctx, follow)
	}
	return res.Err
}

// mergeUpdate layers the submitted patch, then the service echo, over the
// cached record. The echo wins where present; omitted fields fall back to
// the patch, then to the cached values.
func mergeUpdate(cur, echo model.Transaction, patch model.Patch) model.Transaction {
	out := cur
	if patch.Amount != nil {
		out.Amount = *patch.Amount
	}
	if patch.Category != nil {
		out.Category = *patch.Category
	}
	if patch.Note != nil {
		out.Note = *patch.Note
	}
	if patch.Type != nil {
		out.Type = *patch.Type
	}
	if patch.Date != nil {
		out.Date = *patch.Date
	}

	if echo.Amount > 0 {
		out.Amount = echo.Amount
	}
	if echo.Category != "" {
		out.Category = echo.Category
	}
	if echo.Note != "" {
		out.Note = echo.Note
	}
	if echo.Type.Valid() {
		out.Type = echo.Type
	}
	if !echo.Date.IsZero() {
		out.Date = echo.Date
	}
	return out
}
