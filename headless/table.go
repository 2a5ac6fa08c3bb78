// Package headless implements in-memory widgets for tests, benchmarks and
// terminal demos. Nothing here talks to a real toolkit.
package headless

import (
	"errors"
	"slices"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/delaneyj/bindparty/table"
)

var _ table.Widget = (*Table)(nil)

// TableRow is the row handle a Table hands out.
type TableRow struct {
	id    int
	texts []string
	data  any
}

func (r *TableRow) Texts() []string {
	return slices.Clone(r.texts)
}

func (r *TableRow) Data() any {
	return r.data
}

// Table is a list widget with selection, an optional pending inline edit
// and a single-column sort.
type Table struct {
	title     string
	columns   []string
	rows      []*TableRow
	selection []*TableRow
	nextID    int

	pendingEdit func() error
	sortColumn  int
	sortDesc    bool

	disposeHooks []func()
	disposed     bool

	// counters
	FinishEdits int
	Sorts       int
	Rebuilds    int
}

// NewTable returns an empty, unsorted table.
func NewTable(title string) *Table {
	return &Table{title: title, sortColumn: -1}
}

func (t *Table) SetColumnProperties(columns []string) {
	t.columns = slices.Clone(columns)
}

func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

func (t *Table) Selection() []table.Row {
	out := make([]table.Row, len(t.selection))
	for i, r := range t.selection {
		out[i] = r
	}
	return out
}

func (t *Table) SetSelection(rows []table.Row) {
	t.selection = t.selection[:0]
	for _, r := range rows {
		if tr, ok := r.(*TableRow); ok && slices.Contains(t.rows, tr) {
			t.selection = append(t.selection, tr)
		}
	}
}

func (t *Table) Rows() []table.Row {
	out := make([]table.Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = r
	}
	return out
}

func (t *Table) RemoveAll() {
	t.rows = nil
	t.selection = nil
	t.Rebuilds++
}

func (t *Table) CreateRow() table.Row {
	t.nextID++
	r := &TableRow{id: t.nextID, texts: make([]string, len(t.columns))}
	t.rows = append(t.rows, r)
	return r
}

func (t *Table) SetText(row table.Row, column int, text string) {
	r, ok := row.(*TableRow)
	if !ok {
		return
	}
	if column >= len(r.texts) {
		r.texts = append(r.texts, make([]string, column+1-len(r.texts))...)
	}
	r.texts[column] = text
}

func (t *Table) SetData(row table.Row, data any) {
	if r, ok := row.(*TableRow); ok {
		r.data = data
	}
}

func (t *Table) Data(row table.Row) any {
	if r, ok := row.(*TableRow); ok {
		return r.data
	}
	return nil
}

// Edit starts an inline edit; commit runs when the edit is finished.
func (t *Table) Edit(commit func() error) {
	t.pendingEdit = commit
}

// Editing reports whether an inline edit is pending.
func (t *Table) Editing() bool {
	return t.pendingEdit != nil
}

func (t *Table) FinishEdit() error {
	t.FinishEdits++
	commit := t.pendingEdit
	t.pendingEdit = nil
	if commit == nil {
		return nil
	}
	return commit()
}

// SortBy sets the active sort criterion and applies it.
func (t *Table) SortBy(column int, descending bool) {
	t.sortColumn, t.sortDesc = column, descending
	t.Sort()
}

func (t *Table) Sort() {
	t.Sorts++
	if t.sortColumn < 0 {
		return
	}
	col := t.sortColumn
	slices.SortStableFunc(t.rows, func(a, b *TableRow) int {
		c := strings.Compare(cell(a, col), cell(b, col))
		if t.sortDesc {
			return -c
		}
		return c
	})
}

func cell(r *TableRow, col int) string {
	if col < len(r.texts) {
		return r.texts[col]
	}
	return ""
}

// Select selects rows by display index, as a user click would.
func (t *Table) Select(indexes ...int) error {
	t.selection = t.selection[:0]
	for _, i := range indexes {
		if i < 0 || i >= len(t.rows) {
			return errors.New("headless: row index out of range")
		}
		t.selection = append(t.selection, t.rows[i])
	}
	return nil
}

// Texts returns the displayed cells row by row.
func (t *Table) Texts() [][]string {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Texts()
	}
	return out
}

// SelectedTexts returns the cells of the selected rows.
func (t *Table) SelectedTexts() [][]string {
	out := make([][]string, len(t.selection))
	for i, r := range t.selection {
		out[i] = r.Texts()
	}
	return out
}

// Items returns the payloads in display order.
func (t *Table) Items() []any {
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.data
	}
	return out
}

func (t *Table) OnDisposed(fn func()) {
	if t.disposed {
		fn()
		return
	}
	t.disposeHooks = append(t.disposeHooks, fn)
}

// Dispose runs the disposal hooks once.
func (t *Table) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	hooks := t.disposeHooks
	t.disposeHooks = nil
	for _, fn := range hooks {
		fn()
	}
}

func (t *Table) Disposed() bool {
	return t.disposed
}

// Render draws the table as text. Selected rows are marked with '*'.
func (t *Table) Render() string {
	tw := prettytable.NewWriter()
	if t.title != "" {
		tw.SetTitle(t.title)
	}
	tw.SetStyle(prettytable.StyleLight)

	header := prettytable.Row{""}
	for _, c := range t.columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)

	for _, r := range t.rows {
		mark := ""
		if slices.Contains(t.selection, r) {
			mark = "*"
		}
		row := prettytable.Row{mark}
		for _, text := range r.texts {
			row = append(row, text)
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}
