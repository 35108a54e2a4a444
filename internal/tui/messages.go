package tui

import (
	"github.com/tally-fin/tally/internal/aggregate"
	"github.com/tally-fin/tally/internal/browse"
	"github.com/tally-fin/tally/internal/model"
)

// Async operation results. Every network round trip resolves into one of
// these on the program's event loop; nothing mutates controller state from
// a command goroutine.
type pageResultMsg struct {
	result browse.PageResult
}

type deleteResultMsg struct {
	result browse.DeleteResult
}

type updateResultMsg struct {
	result browse.UpdateResult
}

type createResultMsg struct {
	err         error
	transaction model.Transaction
}

type snapshotMsg struct {
	snapshot aggregate.Snapshot
}

type categoriesLoadedMsg struct {
	err        error
	categories []model.Category
}

// createdBroadcastMsg carries a transaction-created broadcast from the
// mutation bus onto the event loop.
type createdBroadcastMsg struct {
	transaction model.Transaction
}
