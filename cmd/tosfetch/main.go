package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// Per-URL failures were already reported verbatim.
		var failed *FailedError
		if !errors.As(err, &failed) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tosfetch"),
		kong.Description("Fetch the plain text of Terms & Conditions pages, escalating from plain HTTP to a headless browser"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URLs provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if cli.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if cli.MinLength < 1 {
		return fmt.Errorf("min-length must be at least 1")
	}

	logger := newLogger(stderr, cli.Verbose)

	retriever, closeFn := cli.newRetriever(logger)
	defer closeFn()

	cmd := &FetchCmd{
		URLs:        cli.URLs,
		Concurrency: cli.Concurrency,
		Deadline:    cli.Deadline,
		JSON:        cli.JSON,
	}
	return cmd.Run(&Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Retriever: retriever,
	})
}
