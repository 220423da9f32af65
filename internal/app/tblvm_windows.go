//go:build windows

package app

import "github.com/lxn/walk"

var _ walk.TableModel = new(rowsTblVm)

type rowsTblVm struct {
	walk.TableModelBase
	view View
	xs   [][]string
}

func (x *rowsTblVm) SetRows(v View, xs [][]string) {
	x.view = v
	x.xs = xs
	x.PublishRowsReset()
}

func (x *rowsTblVm) RowCount() int {
	return len(x.xs)
}

func (x *rowsTblVm) Value(row, col int) interface{} {
	if col < 0 || col >= len(x.xs[row]) {
		return ""
	}
	return x.xs[row][col]
}

// StyleCell marks orders that are still pending.
func (x *rowsTblVm) StyleCell(s *walk.CellStyle) {
	if s.Row() < 0 || s.Row() >= len(x.xs) {
		return
	}
	if x.view.Name == OrdersView.Name && s.Col() == 3 && x.xs[s.Row()][3] == "Pending" {
		s.TextColor = walk.RGB(0, 0, 160)
	}
}

func setTableColumns(tv *walk.TableView, v View) {
	cols := tv.Columns()
	panicIf(cols.Clear())
	for _, c := range v.Columns {
		col := walk.NewTableViewColumn()
		panicIf(col.SetTitle(c.Title))
		panicIf(col.SetWidth(c.Width))
		panicIf(cols.Add(col))
	}
}
