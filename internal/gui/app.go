package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"github.com/rs/zerolog"

	"codeberg.org/snonux/odialipi/internal"
	"codeberg.org/snonux/odialipi/internal/logging"
	"codeberg.org/snonux/odialipi/internal/session"
)

// SessionFactory builds the session the window is bound to. The window
// supplies its clipboard and a logger that also feeds the log viewer.
type SessionFactory func(clip session.Clipboard, logger zerolog.Logger) *session.Session

// Config holds GUI application configuration
type Config struct {
	Provider string
	Model    string
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	configBanner     *widget.Label
	inputEntry       *InputEntry
	outputEntry      *widget.Entry
	autoCheck        *widget.Check
	transliterateBtn *ttwidget.Button
	clearBtn         *ttwidget.Button
	copyBtn          *ttwidget.Button
	progress         *widget.ProgressBarInfinite
	statusLabel      *widget.Label
	errorLabel       *widget.Label
	historyPanel     *HistoryPanel
	logViewer        *LogViewer

	session *session.Session
	config  *Config
	logger  zerolog.Logger

	// rendering is set while widgets are updated from session state, so
	// their change callbacks do not feed the session again
	rendering bool
}

// New creates a new GUI application
func New(newSession SessionFactory, config *Config, logger zerolog.Logger) *Application {
	return newApplication(app.NewWithID("org.codeberg.snonux.odialipi"), newSession, config, logger)
}

func newApplication(fyneApp fyne.App, newSession SessionFactory, config *Config, logger zerolog.Logger) *Application {
	if config == nil {
		config = &Config{}
	}

	a := &Application{
		app:    fyneApp,
		config: config,
		logger: logging.Component(logger, "gui"),
	}

	a.window = a.app.NewWindow(fmt.Sprintf("Odialipi v%s - Phonetic English to Odia", internal.Version))
	a.window.Resize(fyne.NewSize(900, 600))

	a.logViewer = NewLogViewer(zerolog.InfoLevel)
	a.session = newSession(windowClipboard{window: a.window}, logger.Hook(a.logViewer))

	a.setupUI()

	a.session.OnChange(func(session.State) {
		fyne.Do(a.refresh)
	})
	a.refresh()

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.configBanner = widget.NewLabel("")
	a.configBanner.Importance = widget.DangerImportance
	a.configBanner.Wrapping = fyne.TextWrapWord
	a.configBanner.Hide()

	a.inputEntry = NewInputEntry()
	a.inputEntry.SetPlaceHolder("Type phonetic English, e.g. namaskar... (Ctrl+Enter to transliterate, Esc to clear)")
	a.inputEntry.OnChanged = func(text string) {
		if a.rendering {
			return
		}
		a.session.SetInput(text)
	}
	a.inputEntry.SetOnEscape(a.session.Clear)
	a.inputEntry.SetOnSubmit(a.session.Transliterate)

	a.outputEntry = widget.NewMultiLineEntry()
	a.outputEntry.SetPlaceHolder("Odia script appears here")
	a.outputEntry.Wrapping = fyne.TextWrapWord
	a.outputEntry.Disable() // Make it read-only

	a.autoCheck = widget.NewCheck("Transliterate while typing", func(on bool) {
		if a.rendering {
			return
		}
		a.session.SetAutoMode(on)
	})

	// Tooltips are set after the tooltip layer is created
	a.transliterateBtn = ttwidget.NewButtonWithIcon("Transliterate", theme.ConfirmIcon(), a.session.Transliterate)
	a.transliterateBtn.Importance = widget.HighImportance
	a.clearBtn = ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), a.session.Clear)
	a.copyBtn = ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		a.session.CopyOutput()
	})

	toolbar := container.NewHBox(
		a.autoCheck,
		layout.NewSpacer(),
		a.transliterateBtn,
		a.clearBtn,
		a.copyBtn,
	)

	a.errorLabel = widget.NewLabel("")
	a.errorLabel.Importance = widget.DangerImportance
	a.errorLabel.Wrapping = fyne.TextWrapWord
	a.errorLabel.Hide()

	outputSection := container.NewBorder(
		widget.NewLabel("Odia:"),
		a.errorLabel,
		nil, nil,
		a.outputEntry,
	)
	inputSection := container.NewBorder(
		widget.NewLabel("Phonetic English:"),
		nil, nil, nil,
		a.inputEntry,
	)
	editors := container.NewVSplit(inputSection, outputSection)
	editors.SetOffset(0.5)

	a.historyPanel = NewHistoryPanel(a.onSelectHistory, a.session.ClearHistory)

	a.progress = widget.NewProgressBarInfinite()
	a.progress.Hide()
	a.statusLabel = widget.NewLabel("Ready")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	statusSection := container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, a.statusLabel, nil, a.progress),
		a.logViewer,
	)

	content := container.NewBorder(
		container.NewVBox(a.configBanner, toolbar, widget.NewSeparator()),
		statusSection,
		nil,
		a.historyPanel.container,
		editors,
	)

	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyReturn,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) {
		a.session.Transliterate()
	})

	a.window.SetOnClosed(a.session.Close)
}

func (a *Application) setupTooltips() {
	a.transliterateBtn.SetToolTip("Transliterate now (Ctrl+Enter)")
	a.clearBtn.SetToolTip("Clear input and output (Esc)")
	a.copyBtn.SetToolTip("Copy Odia text")
	a.historyPanel.clearBtn.SetToolTip("Forget all recent conversions")
}

// Run starts the GUI application
func (a *Application) Run() {
	a.logger.Info().
		Str("provider", a.config.Provider).
		Str("model", a.config.Model).
		Msg("Starting GUI")
	a.window.Canvas().Focus(a.inputEntry)
	a.window.ShowAndRun()
}

func (a *Application) onSelectHistory(id string) {
	if !a.session.SelectHistory(id) {
		a.logger.Debug().Str("id", id).Msg("History entry no longer exists")
	}
}

// refresh renders the latest session state. Notifications may arrive out
// of order, so the state is read here rather than taken from the callback.
func (a *Application) refresh() {
	a.render(a.session.State())
}

// render updates all widgets from st. It must run on the UI thread.
func (a *Application) render(st session.State) {
	a.rendering = true
	defer func() { a.rendering = false }()

	if st.ConfigErr != "" {
		a.configBanner.SetText(st.ConfigErr)
		a.configBanner.Show()
	} else {
		a.configBanner.Hide()
	}

	if a.inputEntry.Text != st.Input {
		a.inputEntry.SetText(st.Input)
	}
	if a.outputEntry.Text != st.Output {
		a.outputEntry.SetText(st.Output)
	}

	a.autoCheck.SetChecked(st.AutoMode)
	if st.AutoMode {
		a.transliterateBtn.Hide()
	} else {
		a.transliterateBtn.Show()
	}
	if st.Loading {
		a.transliterateBtn.Disable()
	} else {
		a.transliterateBtn.Enable()
	}

	if st.Copied {
		a.copyBtn.SetIcon(theme.ConfirmIcon())
		a.copyBtn.SetText("Copied")
	} else {
		a.copyBtn.SetIcon(theme.ContentCopyIcon())
		a.copyBtn.SetText("")
	}
	if st.Output == "" {
		a.copyBtn.Disable()
	} else {
		a.copyBtn.Enable()
	}

	if st.Err != "" {
		a.errorLabel.SetText(st.Err)
		a.errorLabel.Show()
	} else {
		a.errorLabel.Hide()
	}

	if st.Loading {
		a.progress.Show()
	} else {
		a.progress.Hide()
	}
	a.statusLabel.SetText(statusText(st))

	a.historyPanel.SetItems(st.History)
}

func statusText(st session.State) string {
	switch st.Phase {
	case session.PhaseLoading:
		return "Transliterating..."
	case session.PhaseSucceeded:
		return "Done"
	case session.PhaseFailed:
		return "Failed"
	default:
		if !st.AutoMode {
			return "Ready (press Transliterate)"
		}
		return "Ready"
	}
}
