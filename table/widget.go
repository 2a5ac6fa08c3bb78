// Package table binds an ordered model collection to a list-rendering widget.
//
// Every relevant change (the collection replaced, members added, removed or
// reordered, or a displayed item property changed) triggers a full
// reconciliation: capture the selected items, commit any pending edit, drop
// all rows, render one row per item, restore the selection by item identity
// (falling back to the first row) and re-apply sorting.
package table

import "github.com/delaneyj/bindparty/observe"

// Row is an opaque widget row handle.
type Row = any

// Widget is what a list or table control must offer to be bound.
type Widget interface {
	Selection() []Row
	SetSelection(rows []Row)
	Rows() []Row
	RemoveAll()
	CreateRow() Row
	SetText(row Row, column int, text string)
	SetData(row Row, data any)
	Data(row Row) any
	FinishEdit() error
	Sort()
	SetColumnProperties(columns []string)
	OnDisposed(fn func())
}

// ModelBinding supplies the collection. *binding.PropertyBinding satisfies it.
type ModelBinding interface {
	EvaluateProperty() (any, error)
	Subject() observe.Subject
	Path() string
}
