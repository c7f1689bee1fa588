package gui

import "fyne.io/fyne/v2"

// windowClipboard copies through the window's clipboard. Copy runs on the
// UI thread because the session calls it from a button handler. The Fyne
// clipboard reports no errors, so a failed copy cannot be observed here.
type windowClipboard struct {
	window fyne.Window
}

func (c windowClipboard) Copy(text string) error {
	c.window.Clipboard().SetContent(text)
	return nil
}
