package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	BatchFile  string
	OutputFile string
	Copy       bool
	ListModels bool
	LogLevel   string

	// Provider flags
	Provider       string
	Model          string
	RequestTimeout time.Duration

	// GUI session flags
	Manual   bool
	Debounce time.Duration
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel: "info",
		Provider: "gemini",
		Debounce: 800 * time.Millisecond,
	}
}
