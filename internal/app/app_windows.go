//go:build windows

package app

import (
	"fmt"
	"time"

	"github.com/fpawel/foodhub/internal/config"
	"github.com/lxn/walk"
	. "github.com/lxn/walk/declarative"
	"github.com/lxn/win"
)

var mainWnd *walk.MainWindow

// Main runs the viewer window until it is closed.
func Main(cfg config.Config) error {
	viewer := Viewer{Config: cfg}
	log.Debug("viewer", "path", cfg.Database.Path)

	var (
		tblView   *walk.TableView
		lblStatus *walk.LineEdit
		tblVm     = new(rowsTblVm)
		current   = setsLastView()
	)

	setStatus := func(s string, c walk.Color) {
		lblStatus.SetTextColor(c)
		panicIf(lblStatus.SetText(fmt.Sprintf("%s: %s", time.Now().Format("15:04:05"), s)))
	}
	setStatusError := func(err error) {
		log.PrintErr(err)
		setStatus(ErrorStatus(err), walk.RGB(255, 0, 0))
		walk.MsgBox(mainWnd, "Error", err.Error(), walk.MsgBoxIconError|walk.MsgBoxOK)
	}
	setStatusOk := func(s string) {
		setStatus(s, walk.RGB(0, 0, 0))
	}

	show := func(v View) {
		current = v
		setsPutLastView(v)
		tblVm.SetRows(v, nil)
		setTableColumns(tblView, v)
		rows, err := viewer.Load(v)
		if err != nil {
			setStatusError(err)
			return
		}
		tblVm.SetRows(v, rows)
		setStatusOk(LoadedStatus(v, len(rows)))
	}

	var buttons []Widget
	for _, v := range Views {
		v := v
		buttons = append(buttons, PushButton{
			Text: v.Title,
			OnClicked: func() {
				show(v)
			},
		})
	}
	buttons = append(buttons,
		PushButton{
			Text: "Export Orders (CSV)",
			OnClicked: func() {
				filename, err := viewer.Export(time.Now())
				if err != nil {
					setStatusError(err)
					return
				}
				setStatusOk(ExportedStatus(filename))
				walk.MsgBox(mainWnd, "Success", "Orders exported to "+filename,
					walk.MsgBoxIconInformation|walk.MsgBoxOK)
			},
		},
		HSpacer{},
	)

	var cols []TableViewColumn
	for _, c := range current.Columns {
		cols = append(cols, TableViewColumn{Title: c.Title, Width: c.Width})
	}

	runWindowMaximized(MainWindow{
		Title:    "Food Delivery Database Viewer",
		Font:     Font{Family: "Arial", PointSize: 9},
		AssignTo: &mainWnd,
		Layout:   VBox{},
		MinSize:  Size{900, 600},
		Children: []Widget{
			Label{
				Text: "Food Delivery Database Viewer",
				Font: Font{Family: "Arial", PointSize: 14, Bold: true},
			},
			Composite{
				Layout:   HBox{MarginsZero: true},
				Children: buttons,
			},
			TableView{
				AssignTo: &tblView,
				Model:    tblVm,
				Columns:  cols,
			},
			LineEdit{Text: "Ready", AssignTo: &lblStatus, ReadOnly: true},
		},
	}, func() {
		show(current)
	})
	return nil
}

func runWindowMaximized(aw MainWindow, onCreated func()) {
	if aw.AssignTo == nil {
		var x *walk.MainWindow
		aw.AssignTo = &x
	}
	panicIf(aw.Create())
	w := *aw.AssignTo
	if !win.ShowWindow(w.Handle(), win.SW_SHOWMAXIMIZED) {
		panic("can`t show window")
	}
	onCreated()
	w.Run()
}
