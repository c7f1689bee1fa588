package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// InputEntry extends the multi-line widget.Entry with Escape and Ctrl+Enter
// handling
type InputEntry struct {
	widget.Entry
	onEscape func()
	onSubmit func()
}

// NewInputEntry creates a new input entry
func NewInputEntry() *InputEntry {
	entry := &InputEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *InputEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// TypedShortcut handles Ctrl+Enter, everything else goes to the entry
func (e *InputEntry) TypedShortcut(shortcut fyne.Shortcut) {
	if isSubmitShortcut(shortcut) && e.onSubmit != nil {
		e.onSubmit()
		return
	}
	e.Entry.TypedShortcut(shortcut)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *InputEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

// SetOnSubmit sets the callback for Ctrl+Enter
func (e *InputEntry) SetOnSubmit(f func()) {
	e.onSubmit = f
}

func isSubmitShortcut(shortcut fyne.Shortcut) bool {
	cs, ok := shortcut.(*desktop.CustomShortcut)
	if !ok {
		return false
	}
	if cs.KeyName != fyne.KeyReturn && cs.KeyName != fyne.KeyEnter {
		return false
	}
	return cs.Modifier == fyne.KeyModifierControl || cs.Modifier == fyne.KeyModifierSuper
}
