package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/odialipi/internal/testutil"
	"codeberg.org/snonux/odialipi/internal/transliteration"
)

const waitFor = 2 * time.Second

func newTestSession(t *testing.T, gen *testutil.MockGenerator, configure func(*Config)) *Session {
	t.Helper()

	cfg := DefaultConfig()
	cfg.AutoMode = false
	cfg.Debounce = 20 * time.Millisecond
	if configure != nil {
		configure(cfg)
	}

	client := transliteration.NewClient(gen, transliteration.DefaultConfig(), zerolog.Nop())
	s := New(client, &testutil.MockClipboard{}, cfg, zerolog.Nop())
	t.Cleanup(s.Close)
	return s
}

func submit(s *Session, text string) {
	s.SetInput(text)
	s.Transliterate()
}

func TestNew_InitialState(t *testing.T) {
	s := newTestSession(t, testutil.NewMockGenerator(), nil)

	st := s.State()
	if st.Phase != PhaseIdle || st.Loading || st.Err != "" || st.Output != "" {
		t.Errorf("Unexpected initial state: %+v", st)
	}
	if st.ConfigErr != "" {
		t.Errorf("Expected no config error, got %q", st.ConfigErr)
	}
	if len(st.History) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(st.History))
	}
}

func TestTransliterate_Namaskar(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	s := newTestSession(t, gen, nil)

	submit(s, "namaskar")
	s.Wait()

	calls := gen.Calls()
	if len(calls) != 1 {
		t.Fatalf("Expected one call, got %d", len(calls))
	}
	if !strings.Contains(calls[0].Prompt, "namaskar") {
		t.Errorf("Prompt does not contain input:\n%s", calls[0].Prompt)
	}

	st := s.State()
	if st.Output != "ନମସ୍କାର" {
		t.Errorf("Expected output 'ନମସ୍କାର', got %q", st.Output)
	}
	if st.Phase != PhaseSucceeded || st.Loading {
		t.Errorf("Expected settled success, got phase=%v loading=%v", st.Phase, st.Loading)
	}
	if len(st.History) != 1 {
		t.Fatalf("Expected one history entry, got %d", len(st.History))
	}
	if st.History[0].Original != "namaskar" || st.History[0].Transliterated != "ନମସ୍କାର" {
		t.Errorf("Unexpected history entry: %+v", st.History[0])
	}
}

func TestTransliterate_EmptyInput(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	s := newTestSession(t, gen, nil)

	submit(s, "namaskar")
	s.Wait()

	submit(s, "")
	s.Wait()

	st := s.State()
	if gen.CallCount() != 1 {
		t.Errorf("Expected no call for empty input, got %d calls total", gen.CallCount())
	}
	if st.Output != "" {
		t.Errorf("Expected output cleared, got %q", st.Output)
	}
	if st.Loading {
		t.Error("Expected loading to stay false")
	}
	if st.Phase != PhaseIdle {
		t.Errorf("Expected Idle, got %v", st.Phase)
	}
}

func TestTransliterate_LoadingWhileInFlight(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["odia"] = "ଓଡ଼ିଆ"
	release := gen.Hold("odia")
	s := newTestSession(t, gen, nil)

	submit(s, "odia")

	st := s.State()
	if !st.Loading || st.Phase != PhaseLoading {
		t.Errorf("Expected loading state, got %+v", st)
	}

	release()
	s.Wait()

	if st := s.State(); st.Loading || st.Output != "ଓଡ଼ିଆ" {
		t.Errorf("Expected settled output, got %+v", st)
	}
}

func TestTransliterate_OutOfOrderResponses(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["first request"] = "A"
	gen.Responses["second request"] = "B"
	releaseA := gen.Hold("first request")
	releaseB := gen.Hold("second request")
	s := newTestSession(t, gen, nil)

	submit(s, "first request")
	submit(s, "second request")

	// B settles first
	releaseB()
	testutil.Eventually(t, waitFor, func() bool {
		return s.State().Output == "B"
	}, "second response applied")

	if s.State().Loading {
		t.Error("Expected loading to end once the latest request settled")
	}

	// A arrives late and must not overwrite B
	releaseA()
	s.Wait()

	st := s.State()
	if st.Output != "B" {
		t.Errorf("Stale response overwrote output: got %q, want 'B'", st.Output)
	}
	if st.Phase != PhaseSucceeded || st.Loading {
		t.Errorf("Unexpected final state: %+v", st)
	}
	for _, item := range st.History {
		if item.Transliterated == "A" {
			t.Error("Stale response was recorded in history")
		}
	}
}

func TestTransliterate_StaleFirstStaysLoading(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["first request"] = "A"
	gen.Responses["second request"] = "B"
	releaseA := gen.Hold("first request")
	releaseB := gen.Hold("second request")
	s := newTestSession(t, gen, nil)

	submit(s, "first request")
	submit(s, "second request")

	releaseA()
	time.Sleep(30 * time.Millisecond)

	st := s.State()
	if !st.Loading || st.Output != "" {
		t.Errorf("Stale response should be ignored while the latest is in flight, got %+v", st)
	}

	releaseB()
	s.Wait()
	if st := s.State(); st.Output != "B" || st.Loading {
		t.Errorf("Expected output 'B', got %+v", st)
	}
}

func TestTransliterate_Failure(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	gen.Errors["bad input"] = errors.New("network down")
	s := newTestSession(t, gen, nil)

	submit(s, "namaskar")
	s.Wait()

	submit(s, "bad input")
	s.Wait()

	st := s.State()
	if st.Phase != PhaseFailed {
		t.Errorf("Expected Failed, got %v", st.Phase)
	}
	if st.Err != transliteration.ErrTransliteration.Error() {
		t.Errorf("Expected generic error message, got %q", st.Err)
	}
	if st.Output != "ନମସ୍କାର" {
		t.Errorf("Expected output unchanged on failure, got %q", st.Output)
	}
	if st.Loading {
		t.Error("Expected loading false after failure")
	}

	// The next attempt clears the error before dispatch
	release := gen.Hold("namaskar")
	submit(s, "namaskar")
	if st := s.State(); st.Err != "" || !st.Loading {
		t.Errorf("Expected error cleared while loading, got %+v", st)
	}
	release()
	s.Wait()

	if st := s.State(); st.Phase != PhaseSucceeded || st.Err != "" {
		t.Errorf("Expected recovery, got %+v", st)
	}
}

func TestTransliterate_NotConfigured(t *testing.T) {
	client := transliteration.NewClient(nil, transliteration.DefaultConfig(), zerolog.Nop())
	s := New(client, nil, &Config{AutoMode: false, Debounce: 20 * time.Millisecond}, zerolog.Nop())
	t.Cleanup(s.Close)

	if s.State().ConfigErr == "" {
		t.Fatal("Expected configuration notice at startup")
	}

	submit(s, "namaskar")
	s.Wait()

	st := s.State()
	if st.ConfigErr != transliteration.ErrConfiguration.Error() {
		t.Errorf("Expected config notice, got %q", st.ConfigErr)
	}
	if st.Err != "" {
		t.Errorf("Config problems should not show as request errors, got %q", st.Err)
	}
	if st.Loading {
		t.Error("Expected loading false")
	}
}

func TestHistory_OnlyNonTrivial(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["ok"] = "ଓକେ"
	gen.Responses["silence"] = "   "
	gen.Responses["puri"] = "ପୁରୀ"
	s := newTestSession(t, gen, nil)

	for _, text := range []string{"ok", "silence", "puri"} {
		submit(s, text)
		s.Wait()
	}

	hist := s.State().History
	if len(hist) != 1 || hist[0].Original != "puri" {
		t.Errorf("Expected only 'puri' in history, got %+v", hist)
	}
}

func TestHistory_Deduplicates(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Default = "ନମସ୍କାର"
	s := newTestSession(t, gen, nil)

	for _, text := range []string{"namaskar", "odisha", "NAMASKAR"} {
		submit(s, text)
		s.Wait()
	}

	hist := s.State().History
	if len(hist) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(hist))
	}
	if hist[0].Original != "NAMASKAR" {
		t.Errorf("Expected re-submitted entry first, got %s", hist[0].Original)
	}
}

func TestSelectHistory(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	gen.Responses["odisha"] = "ଓଡ଼ିଶା"
	s := newTestSession(t, gen, nil)

	submit(s, "namaskar")
	s.Wait()
	submit(s, "odisha")
	s.Wait()

	var id string
	for _, item := range s.State().History {
		if item.Original == "namaskar" {
			id = item.ID
		}
	}
	if id == "" {
		t.Fatal("History entry for 'namaskar' not found")
	}

	if !s.SelectHistory(id) {
		t.Fatal("SelectHistory returned false for a known entry")
	}
	s.Wait()

	st := s.State()
	if st.Input != "namaskar" || st.Output != "ନମସ୍କାର" {
		t.Errorf("Expected selected pair, got input=%q output=%q", st.Input, st.Output)
	}
	if gen.CallCount() != 2 {
		t.Errorf("Selecting history must not call the service, got %d calls", gen.CallCount())
	}

	if s.SelectHistory("missing") {
		t.Error("Expected false for unknown ID")
	}
}

func TestSelectHistory_DiscardsInFlight(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	gen.Responses["slow"] = "late"
	s := newTestSession(t, gen, nil)

	submit(s, "namaskar")
	s.Wait()
	id := s.State().History[0].ID

	release := gen.Hold("slow")
	submit(s, "slow")
	s.SelectHistory(id)
	release()
	s.Wait()

	if st := s.State(); st.Output != "ନମସ୍କାର" || st.Loading {
		t.Errorf("Expected selected entry to stay, got %+v", st)
	}
}

func TestClearHistory(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Default = "x"
	s := newTestSession(t, gen, nil)

	submit(s, "namaskar")
	s.Wait()
	submit(s, "odisha")
	s.Wait()

	if len(s.State().History) != 2 {
		t.Fatalf("Expected 2 entries before clearing")
	}

	s.ClearHistory()

	if hist := s.State().History; len(hist) != 0 {
		t.Errorf("Expected empty history, got %+v", hist)
	}
}

func TestClear(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Errors["bad input"] = errors.New("boom")
	s := newTestSession(t, gen, nil)

	submit(s, "bad input")
	s.Wait()

	s.Clear()

	st := s.State()
	if st.Input != "" || st.Output != "" || st.Err != "" || st.Loading || st.Phase != PhaseIdle {
		t.Errorf("Expected reset state, got %+v", st)
	}
}

func TestClear_DiscardsInFlight(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	release := gen.Hold("namaskar")
	s := newTestSession(t, gen, nil)

	submit(s, "namaskar")
	s.Clear()

	release()
	s.Wait()

	st := s.State()
	if st.Output != "" || st.Loading || st.Phase != PhaseIdle {
		t.Errorf("Late response applied after Clear: %+v", st)
	}
	if len(st.History) != 0 {
		t.Errorf("Late response recorded in history: %+v", st.History)
	}
}

func TestClear_DropsSettledInput(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	s := newTestSession(t, gen, func(c *Config) {
		c.AutoMode = true
		c.Debounce = time.Hour
	})

	s.SetInput("namaskar")
	s.Clear()
	// The timer already fired and is delivering the old value
	s.onSettled("namaskar")
	s.Wait()

	st := s.State()
	if st.Input != "" || st.Output != "" || st.Loading || st.Phase != PhaseIdle {
		t.Errorf("Settled input applied after Clear: %+v", st)
	}
	if gen.CallCount() != 0 {
		t.Errorf("Expected no call after Clear, got %d", gen.CallCount())
	}
	if len(st.History) != 0 {
		t.Errorf("Cleared input recorded in history: %+v", st.History)
	}
}

func TestSelectHistory_DropsSettledInput(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	s := newTestSession(t, gen, func(c *Config) {
		c.Debounce = time.Hour
	})

	submit(s, "namaskar")
	s.Wait()
	id := s.State().History[0].ID

	s.SetAutoMode(true)
	s.SetInput("dhanyabad")
	if !s.SelectHistory(id) {
		t.Fatal("Expected history entry to be found")
	}
	s.onSettled("dhanyabad")
	s.Wait()

	st := s.State()
	if st.Input != "namaskar" || st.Output != "ନମସ୍କାର" || st.Phase != PhaseSucceeded {
		t.Errorf("Settled input replaced the selected entry: %+v", st)
	}
	if gen.CallCount() != 1 {
		t.Errorf("Expected only the first call, got %d", gen.CallCount())
	}
}

func TestNew_LogsSettings(t *testing.T) {
	logger, buf := testutil.NewTestLogger()
	client := transliteration.NewClient(testutil.NewMockGenerator(), transliteration.DefaultConfig(), zerolog.Nop())

	s := New(client, nil, &Config{Debounce: 300 * time.Millisecond, HistoryCapacity: 4}, logger)
	defer s.Close()

	out := buf.String()
	for _, want := range []string{`"debounce":300`, `"history_capacity":4`, "Session started"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in log output:\n%s", want, out)
		}
	}
}

func TestAutoMode_DebouncesTyping(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["odia"] = "ଓଡ଼ିଆ"
	s := newTestSession(t, gen, func(c *Config) {
		c.AutoMode = true
		c.Debounce = 40 * time.Millisecond
	})

	for _, text := range []string{"o", "od", "odi", "odia"} {
		s.SetInput(text)
		time.Sleep(5 * time.Millisecond)
	}

	testutil.Eventually(t, waitFor, func() bool {
		return s.State().Phase == PhaseSucceeded
	}, "debounced request completed")
	time.Sleep(80 * time.Millisecond)
	s.Wait()

	calls := gen.Calls()
	if len(calls) != 1 {
		t.Fatalf("Expected one debounced call, got %d", len(calls))
	}
	if !strings.HasSuffix(calls[0].Prompt, "\nodia") {
		t.Errorf("Expected the last value to be requested, prompt:\n%s", calls[0].Prompt)
	}
	if s.State().Output != "ଓଡ଼ିଆ" {
		t.Errorf("Expected output 'ଓଡ଼ିଆ', got %q", s.State().Output)
	}
}

func TestAutoMode_EmptySettledClearsOutput(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["odia"] = "ଓଡ଼ିଆ"
	s := newTestSession(t, gen, func(c *Config) {
		c.AutoMode = true
	})

	s.SetInput("odia")
	testutil.Eventually(t, waitFor, func() bool {
		return s.State().Output == "ଓଡ଼ିଆ"
	}, "output set")

	s.SetInput("   ")
	testutil.Eventually(t, waitFor, func() bool {
		return s.State().Output == ""
	}, "output cleared")

	if gen.CallCount() != 1 {
		t.Errorf("Expected no call for blank input, got %d calls", gen.CallCount())
	}
}

func TestManualMode_IgnoresSettledInput(t *testing.T) {
	gen := testutil.NewMockGenerator()
	s := newTestSession(t, gen, nil)

	s.SetInput("namaskar")
	time.Sleep(80 * time.Millisecond)
	s.Wait()

	if gen.CallCount() != 0 {
		t.Errorf("Manual mode must not request on settle, got %d calls", gen.CallCount())
	}
}

func TestSetAutoMode_RequestsUnsentInput(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["puri"] = "ପୁରୀ"
	s := newTestSession(t, gen, nil)

	s.SetInput("puri")
	testutil.Eventually(t, waitFor, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.settled == "puri"
	}, "input settled")

	s.SetAutoMode(true)
	s.Wait()

	if gen.CallCount() != 1 {
		t.Fatalf("Expected one call after enabling auto mode, got %d", gen.CallCount())
	}
	if s.State().Output != "ପୁରୀ" {
		t.Errorf("Expected output 'ପୁରୀ', got %q", s.State().Output)
	}

	// Toggling without editing does not request again
	s.SetAutoMode(false)
	s.SetAutoMode(true)
	s.Wait()

	if gen.CallCount() != 1 {
		t.Errorf("Expected no new call after re-toggle, got %d", gen.CallCount())
	}
	if !s.State().AutoMode {
		t.Error("Expected auto mode on")
	}
}

func TestCopyOutput(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	clip := &testutil.MockClipboard{}

	client := transliteration.NewClient(gen, nil, zerolog.Nop())
	s := New(client, clip, &Config{CopiedFor: 40 * time.Millisecond}, zerolog.Nop())
	t.Cleanup(s.Close)

	if s.CopyOutput() {
		t.Error("Expected nothing to copy without output")
	}

	submit(s, "namaskar")
	s.Wait()

	if !s.CopyOutput() {
		t.Fatal("CopyOutput returned false")
	}
	if got := clip.Copied(); len(got) != 1 || got[0] != "ନମସ୍କାର" {
		t.Errorf("Expected output on clipboard, got %v", got)
	}
	if !s.State().Copied {
		t.Error("Expected copy acknowledgement")
	}

	testutil.Eventually(t, waitFor, func() bool {
		return !s.State().Copied
	}, "copy acknowledgement expired")
}

func TestCopyOutput_FailureOnlyLogged(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	clip := &testutil.MockClipboard{Err: errors.New("no display")}
	logger, logs := testutil.NewTestLogger()

	client := transliteration.NewClient(gen, nil, zerolog.Nop())
	s := New(client, clip, &Config{}, logger)
	t.Cleanup(s.Close)

	submit(s, "namaskar")
	s.Wait()

	if s.CopyOutput() {
		t.Error("Expected CopyOutput to report failure")
	}

	st := s.State()
	if st.Copied || st.Err != "" {
		t.Errorf("Clipboard failure must not surface, got %+v", st)
	}
	if !strings.Contains(logs.String(), "no display") {
		t.Errorf("Expected clipboard failure in log, got: %s", logs.String())
	}
}

func TestOnChange(t *testing.T) {
	gen := testutil.NewMockGenerator()
	gen.Responses["namaskar"] = "ନମସ୍କାର"
	s := newTestSession(t, gen, nil)

	var mu sync.Mutex
	var phases []Phase
	s.OnChange(func(st State) {
		mu.Lock()
		phases = append(phases, st.Phase)
		mu.Unlock()
	})

	submit(s, "namaskar")
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(phases) == 0 || phases[len(phases)-1] != PhaseSucceeded {
		t.Errorf("Expected last notification to be Succeeded, got %v", phases)
	}

	sawLoading := false
	for _, p := range phases {
		if p == PhaseLoading {
			sawLoading = true
		}
	}
	if !sawLoading {
		t.Errorf("Expected a Loading notification, got %v", phases)
	}
}

func TestClose_IgnoresLaterCalls(t *testing.T) {
	gen := testutil.NewMockGenerator()
	s := newTestSession(t, gen, nil)

	s.Close()
	submit(s, "namaskar")
	s.Wait()

	if gen.CallCount() != 0 {
		t.Errorf("Expected no calls after Close, got %d", gen.CallCount())
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseIdle:      "Idle",
		PhaseLoading:   "Loading",
		PhaseSucceeded: "Succeeded",
		PhaseFailed:    "Failed",
		Phase(42):      "Unknown",
	}
	for phase, want := range tests {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %s, want %s", int(phase), got, want)
		}
	}
}
