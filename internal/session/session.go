package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/odialipi/internal"
	"codeberg.org/snonux/odialipi/internal/debounce"
	"codeberg.org/snonux/odialipi/internal/history"
	"codeberg.org/snonux/odialipi/internal/transliteration"
)

const genericErrorMessage = "Something went wrong. Please try again."

// Transliterator converts text; satisfied by *transliteration.Client
type Transliterator interface {
	Transliterate(ctx context.Context, text string) (string, error)
	CheckConfig() error
}

// Clipboard receives copied output
type Clipboard interface {
	Copy(text string) error
}

// Config holds session behaviour settings
type Config struct {
	Debounce         time.Duration // Quiescence window for automatic mode
	AutoMode         bool          // Start in automatic mode
	HistoryCapacity  int           // Entries kept in history
	MinHistoryLength int           // Inputs need more characters than this to enter history
	CopiedFor        time.Duration // How long the copy acknowledgement stays set
	RequestTimeout   time.Duration // 0 leaves timeouts to the transport
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debounce:         debounce.DefaultDelay,
		AutoMode:         true,
		HistoryCapacity:  history.DefaultCapacity,
		MinHistoryLength: 2,
		CopiedFor:        2 * time.Second,
	}
}

// Session is the request orchestrator for one input/output pair
type Session struct {
	client    Transliterator
	clipboard Clipboard
	history   *history.Cache
	debouncer *debounce.Debouncer[string]
	config    Config
	logger    zerolog.Logger

	mu             sync.Mutex
	state          State
	settled        string // last value delivered by the debouncer
	lastDispatched string // input of the latest dispatched request
	seq            uint64 // latest dispatched request; older responses are dropped
	copyGen        uint64
	copyTimer      *time.Timer
	listeners      []func(State)
	closed         bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a session. clipboard may be nil, which disables CopyOutput.
func New(client Transliterator, clipboard Clipboard, config *Config, logger zerolog.Logger) *Session {
	if config == nil {
		config = DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		client:    client,
		clipboard: clipboard,
		history:   history.NewCache(config.HistoryCapacity),
		config:    *config,
		logger:    logger.With().Str("component", "session").Logger(),
		ctx:       ctx,
		cancel:    cancel,
	}
	if s.config.CopiedFor <= 0 {
		s.config.CopiedFor = DefaultConfig().CopiedFor
	}

	s.debouncer = debounce.New(config.Debounce, s.onSettled)
	s.state.AutoMode = config.AutoMode

	if err := client.CheckConfig(); err != nil {
		s.state.ConfigErr = err.Error()
		s.logger.Warn().Err(err).Msg("Transliteration is not configured")
	}

	s.logger.Debug().
		Dur("debounce", s.debouncer.Delay()).
		Int("history_capacity", s.history.Capacity()).
		Bool("auto", s.state.AutoMode).
		Msg("Session started")

	return s
}

// OnChange registers fn to receive a snapshot after every state change.
// fn may be called from any goroutine.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns the current snapshot
func (s *Session) State() State {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()

	st.History = s.history.Items()
	return st
}

// SetInput records new input text and restarts the debounce window
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state.Input = text
	s.mu.Unlock()

	s.debouncer.Push(text)
	s.notify()
}

// Transliterate requests a transliteration of the current input right away
func (s *Session) Transliterate() {
	s.debouncer.Cancel()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.settled = s.state.Input
	s.dispatchLocked(s.state.Input)
	s.mu.Unlock()

	s.notify()
}

// SetAutoMode switches between automatic and manual triggering. Turning
// automatic mode on requests the settled input if it has not been
// requested yet.
func (s *Session) SetAutoMode(on bool) {
	s.mu.Lock()
	if s.closed || s.state.AutoMode == on {
		s.mu.Unlock()
		return
	}
	s.state.AutoMode = on

	if on && !s.debouncer.Pending() &&
		strings.TrimSpace(s.settled) != "" && s.settled != s.lastDispatched {
		s.dispatchLocked(s.settled)
	}
	s.mu.Unlock()

	s.notify()
}

// Clear resets input, output and error. A response still in flight is ignored.
func (s *Session) Clear() {
	s.debouncer.Cancel()

	s.mu.Lock()
	s.seq++
	s.state.Input = ""
	s.state.Output = ""
	s.state.Err = ""
	s.state.Loading = false
	s.state.Phase = PhaseIdle
	s.settled = ""
	s.lastDispatched = ""
	s.mu.Unlock()

	s.notify()
}

// SelectHistory shows a history entry as the current input and output
// without contacting the service. It reports whether id was found.
func (s *Session) SelectHistory(id string) bool {
	item, ok := s.history.Get(id)
	if !ok {
		return false
	}

	s.debouncer.Cancel()

	s.mu.Lock()
	s.seq++
	s.state.Input = item.Original
	s.state.Output = item.Transliterated
	s.state.Err = ""
	s.state.Loading = false
	s.state.Phase = PhaseSucceeded
	s.settled = item.Original
	s.lastDispatched = item.Original
	s.mu.Unlock()

	s.notify()
	return true
}

// ClearHistory removes all history entries
func (s *Session) ClearHistory() {
	s.history.Clear()
	s.notify()
}

// CopyOutput copies the current output to the clipboard and sets Copied
// for a short while. Clipboard failures are only logged.
func (s *Session) CopyOutput() bool {
	s.mu.Lock()
	output := s.state.Output
	s.mu.Unlock()

	if output == "" || s.clipboard == nil {
		return false
	}

	if err := s.clipboard.Copy(output); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to copy output to clipboard")
		return false
	}

	s.mu.Lock()
	s.copyGen++
	gen := s.copyGen
	s.state.Copied = true
	if s.copyTimer != nil {
		s.copyTimer.Stop()
	}
	s.copyTimer = time.AfterFunc(s.config.CopiedFor, func() {
		s.mu.Lock()
		if gen != s.copyGen {
			s.mu.Unlock()
			return
		}
		s.state.Copied = false
		s.mu.Unlock()
		s.notify()
	})
	s.mu.Unlock()

	s.notify()
	return true
}

// Wait blocks until all dispatched requests have returned
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close stops timers, cancels requests in flight and waits for them
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.seq++
	if s.copyTimer != nil {
		s.copyTimer.Stop()
	}
	s.mu.Unlock()

	s.debouncer.Stop()
	s.cancel()
	s.wg.Wait()
}

// onSettled receives input once typing has paused
func (s *Session) onSettled(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	// Clear or a history pick replaced the input after the timer fired
	if text != s.state.Input {
		s.mu.Unlock()
		s.logger.Debug().
			Str("input", internal.Abbreviate(text, 40)).
			Msg("Dropping settled input that was replaced")
		return
	}
	s.settled = text
	if !s.state.AutoMode {
		s.mu.Unlock()
		return
	}
	s.dispatchLocked(text)
	s.mu.Unlock()

	s.notify()
}

// dispatchLocked starts a request for text. Empty text clears the output
// instead. Callers hold mu.
func (s *Session) dispatchLocked(text string) {
	s.seq++
	seq := s.seq

	if strings.TrimSpace(text) == "" {
		s.state.Output = ""
		s.state.Err = ""
		s.state.Loading = false
		s.state.Phase = PhaseIdle
		s.lastDispatched = ""
		return
	}

	s.state.Err = ""
	s.state.Loading = true
	s.state.Phase = PhaseLoading
	s.lastDispatched = text

	s.logger.Debug().
		Uint64("seq", seq).
		Str("input", internal.Abbreviate(text, 40)).
		Msg("Dispatching transliteration")

	s.wg.Add(1)
	go s.run(seq, text)
}

func (s *Session) run(seq uint64, text string) {
	defer s.wg.Done()

	ctx := s.ctx
	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	output, err := s.client.Transliterate(ctx, text)
	s.complete(seq, text, output, err)
}

// complete applies a response if it belongs to the latest request
func (s *Session) complete(seq uint64, text, output string, err error) {
	s.mu.Lock()
	if seq != s.seq {
		latest := s.seq
		s.mu.Unlock()
		s.logger.Debug().
			Uint64("seq", seq).
			Uint64("latest", latest).
			Msg("Discarding stale transliteration response")
		return
	}

	s.state.Loading = false

	if err != nil {
		s.state.Phase = PhaseFailed
		if errors.Is(err, transliteration.ErrConfiguration) {
			s.state.ConfigErr = err.Error()
			s.state.Err = ""
		} else {
			s.state.Err = errorMessage(err)
		}
		s.mu.Unlock()
		s.notify()
		return
	}

	s.state.Output = output
	s.state.Phase = PhaseSucceeded
	if utf8.RuneCountInString(text) > s.config.MinHistoryLength && output != "" {
		s.history.Upsert(history.NewItem(text, output))
	}
	s.mu.Unlock()

	s.notify()
}

func (s *Session) notify() {
	st := s.State()

	s.mu.Lock()
	listeners := make([]func(State), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return genericErrorMessage
}
