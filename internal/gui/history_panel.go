package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/odialipi/internal"
	"codeberg.org/snonux/odialipi/internal/history"
)

const historyPreviewLength = 40

// HistoryPanel lists recent conversions. It hides itself while empty.
type HistoryPanel struct {
	container *fyne.Container
	list      *widget.List
	clearBtn  *ttwidget.Button

	items    []history.Item
	onSelect func(id string)
}

// NewHistoryPanel creates the panel. onSelect receives the entry ID of a
// clicked row, onClear is bound to the Clear History button.
func NewHistoryPanel(onSelect func(id string), onClear func()) *HistoryPanel {
	p := &HistoryPanel{onSelect: onSelect}

	p.list = widget.NewList(
		func() int { return len(p.items) },
		func() fyne.CanvasObject {
			original := widget.NewLabel("")
			original.TextStyle = fyne.TextStyle{Bold: true}
			return container.NewVBox(original, widget.NewLabel(""))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(p.items) {
				return
			}
			item := p.items[id]
			rows := obj.(*fyne.Container).Objects
			rows[0].(*widget.Label).SetText(internal.Abbreviate(item.Original, historyPreviewLength))
			rows[1].(*widget.Label).SetText(internal.Abbreviate(item.Transliterated, historyPreviewLength))
		},
	)
	p.list.OnSelected = func(id widget.ListItemID) {
		if id >= 0 && id < len(p.items) && p.onSelect != nil {
			p.onSelect(p.items[id].ID)
		}
		p.list.UnselectAll()
	}

	p.clearBtn = ttwidget.NewButtonWithIcon("Clear History", theme.DeleteIcon(), onClear)
	p.clearBtn.Importance = widget.LowImportance

	header := container.NewHBox(widget.NewLabel("History"), layout.NewSpacer(), p.clearBtn)
	p.container = container.NewBorder(header, nil, nil, nil, p.list)
	p.container.Hide()

	return p
}

// SetItems replaces the listed entries
func (p *HistoryPanel) SetItems(items []history.Item) {
	p.items = items
	p.list.Refresh()

	if len(items) == 0 {
		p.container.Hide()
	} else {
		p.container.Show()
	}
}

// Len returns the number of listed entries
func (p *HistoryPanel) Len() int {
	return len(p.items)
}

// Visible reports whether the panel is shown
func (p *HistoryPanel) Visible() bool {
	return p.container.Visible()
}
