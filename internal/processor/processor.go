package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/odialipi/internal/batch"
	"codeberg.org/snonux/odialipi/internal/cli"
	"codeberg.org/snonux/odialipi/internal/clipboard"
	"codeberg.org/snonux/odialipi/internal/gui"
	"codeberg.org/snonux/odialipi/internal/history"
	"codeberg.org/snonux/odialipi/internal/session"
	"codeberg.org/snonux/odialipi/internal/transliteration"
)

// Processor handles the main command-line logic
type Processor struct {
	flags     *cli.Flags
	config    *transliteration.Config
	client    *transliteration.Client
	clipboard session.Clipboard
	logger    zerolog.Logger

	in     io.Reader
	out    io.Writer
	status io.Writer
}

// NewProcessor creates a processor from flags. A missing API key is not an
// error here; it is reported when a conversion is attempted.
func NewProcessor(ctx context.Context, flags *cli.Flags, logger zerolog.Logger) (*Processor, error) {
	config := transliteration.DefaultConfig()
	config.Provider = flags.Provider
	config.Model = flags.Model
	config.APIKey = cli.GetAPIKey(flags.Provider)

	generator, err := transliteration.NewGenerator(ctx, config)
	if err != nil && !errors.Is(err, transliteration.ErrConfiguration) {
		return nil, err
	}

	return newProcessor(flags, config, generator, logger), nil
}

func newProcessor(flags *cli.Flags, config *transliteration.Config, generator transliteration.Generator, logger zerolog.Logger) *Processor {
	return &Processor{
		flags:     flags,
		config:    config,
		client:    transliteration.NewClient(generator, config, logger),
		clipboard: clipboard.System{},
		logger:    logger,
		in:        os.Stdin,
		out:       os.Stdout,
		status:    os.Stderr,
	}
}

// APIKey returns the credential in use, empty if none was found
func (p *Processor) APIKey() string {
	return p.config.APIKey
}

// ProcessText transliterates a single text. "-" reads the text from stdin.
func (p *Processor) ProcessText(ctx context.Context, text string) error {
	if text == "-" {
		data, err := io.ReadAll(p.in)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}

	result, err := p.transliterate(ctx, text)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, result)

	if p.flags.Copy && result != "" {
		if err := p.clipboard.Copy(result); err != nil {
			p.logger.Warn().Err(err).Msg("Failed to copy result to clipboard")
		} else {
			fmt.Fprintln(p.status, "Copied to clipboard")
		}
	}

	return nil
}

// ProcessBatch transliterates every entry of the batch file. Entries that
// repeat earlier ones (ignoring case) reuse the earlier result.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	if err := p.client.CheckConfig(); err != nil {
		return err
	}

	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	out := p.out
	if p.flags.OutputFile != "" {
		f, err := os.Create(p.flags.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	// Sized to the batch so nothing is evicted while processing
	seen := history.NewCache(len(entries))

	// Track statistics
	processedCount := 0
	reusedCount := 0
	errorCount := 0

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if item, ok := seen.Lookup(entry.Text); ok {
			fmt.Fprint(out, batch.FormatResult(entry.Text, item.Transliterated))
			reusedCount++
			continue
		}

		fmt.Fprintf(p.status, "Processing %d/%d: %s\n", i+1, len(entries), entry.Text)

		result, err := p.transliterate(ctx, entry.Text)
		if err != nil {
			fmt.Fprintf(p.status, "Error on line %d '%s': %v\n", entry.Line, entry.Text, err)
			errorCount++
			// Continue with next entry
			continue
		}

		seen.Upsert(history.NewItem(entry.Text, result))
		fmt.Fprint(out, batch.FormatResult(entry.Text, result))
		processedCount++
	}

	// Print summary
	fmt.Fprintf(p.status, "\n=== Batch Summary ===\n")
	fmt.Fprintf(p.status, "Total entries: %d\n", len(entries))
	fmt.Fprintf(p.status, "Transliterated: %d\n", processedCount)
	fmt.Fprintf(p.status, "Reused (duplicates): %d\n", reusedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.status, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.status, "=====================\n")

	if errorCount > 0 && processedCount == 0 && reusedCount == 0 {
		return fmt.Errorf("all %d entries failed", errorCount)
	}
	return nil
}

// transliterate applies the configured request timeout to one call
func (p *Processor) transliterate(ctx context.Context, text string) (string, error) {
	if p.flags.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.flags.RequestTimeout)
		defer cancel()
	}
	return p.client.Transliterate(ctx, text)
}

// NewSession creates a live session configured from flags. logger may carry
// extra hooks of the front end.
func (p *Processor) NewSession(clip session.Clipboard, logger zerolog.Logger) *session.Session {
	config := session.DefaultConfig()
	config.AutoMode = !p.flags.Manual
	if p.flags.Debounce > 0 {
		config.Debounce = p.flags.Debounce
	}
	config.RequestTimeout = p.flags.RequestTimeout

	return session.New(p.client, clip, config, logger)
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode() error {
	app := gui.New(p.NewSession, &gui.Config{
		Provider: p.config.Provider,
		Model:    p.client.Model(),
	}, p.logger)
	app.Run()
	return nil
}
