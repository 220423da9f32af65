//go:build windows

package app

import "github.com/lxn/walk"

const setsKeyView = "view"

var sets = func() *walk.IniFileSettings {
	app := walk.App()
	app.SetOrganizationName("foodhub")
	app.SetProductName("foodhub-gui")
	sets := walk.NewIniFileSettings("settings.ini")
	panicIf(sets.Load())
	app.SetSettings(sets)
	return sets
}()

func setsGet(key string) string {
	s, _ := sets.Get(key)
	return s
}

// setsLastView returns the view shown when the window was closed last time.
func setsLastView() View {
	if v, ok := ViewByName(setsGet(setsKeyView)); ok {
		return v
	}
	return OrdersView
}

func setsPutLastView(v View) {
	if err := sets.Put(setsKeyView, v.Name); err != nil {
		log.PrintErr(err)
		return
	}
	log.ErrIfFail(sets.Save)
}
