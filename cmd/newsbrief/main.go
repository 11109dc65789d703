package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/digest"
	"github.com/fwojciec/newsbrief/fs"
	"github.com/fwojciec/newsbrief/goquery"
	"github.com/fwojciec/newsbrief/htmltomarkdown"
	nbhttp "github.com/fwojciec/newsbrief/http"
	"github.com/fwojciec/newsbrief/readability"
	"github.com/fwojciec/newsbrief/rod"
	nbslog "github.com/fwojciec/newsbrief/slog"
	"github.com/fwojciec/newsbrief/sqlite"
	"github.com/fwojciec/newsbrief/trafilatura"
	"github.com/fwojciec/newsbrief/yaml"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db is not given. Set before calling Run().
	DBPath string

	// Configuration files consulted for flag defaults, lowest priority last.
	ConfigPaths []string

	// SQLite database used by the history service.
	DB *sqlite.DB

	// Fetcher, if set, replaces the HTTP and browser fetchers.
	Fetcher newsbrief.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		ConfigPaths: []string{yaml.DefaultPath()},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("newsbrief"),
		kong.Description("Summarize news articles with a remote summarization service"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Configuration(yaml.Loader, m.ConfigPaths...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsbrief --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	switch command := kongCtx.Command(); {
	case strings.HasPrefix(command, "digest"):
		closeFn, err := m.wireReceiver(deps, &cli.Digest.ReceiverFlags)
		if err != nil {
			return err
		}
		defer closeFn()

		client := nbhttp.NewClient(
			nbhttp.WithBaseURL(cli.Digest.Endpoint),
			nbhttp.WithOrigin(cli.Digest.Origin),
			nbhttp.WithServiceTimeout(cli.Digest.ServiceTimeout),
		)
		deps.Summarizer = nbslog.NewLoggingSummarizer(client, deps.Logger)
		deps.Related = nbslog.NewLoggingRelatedNewsFinder(client, deps.Logger)
		deps.Limiter = digest.NewDomainLimiter(cli.Digest.RateLimit)

		if cli.Digest.Save != "" {
			deps.Writer = fs.NewWriter(cli.Digest.Save, htmltomarkdown.NewConverter())
		}
		if cli.Digest.History {
			if err := m.openHistory(deps, cli.DB, stderr); err != nil {
				return err
			}
			defer m.Close()
		}

	case strings.HasPrefix(command, "extract"):
		closeFn, err := m.wireReceiver(deps, &cli.Extract.ReceiverFlags)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Converter = htmltomarkdown.NewConverter()

	case command == "agent":
		closeFn, err := m.wireLocalReceiver(deps, &cli.Agent.PageFlags)
		if err != nil {
			return err
		}
		defer closeFn()

	case command == "history":
		if err := m.openHistory(deps, cli.DB, stderr); err != nil {
			return err
		}
		defer m.Close()
	}

	return kongCtx.Run(deps)
}

// wireReceiver sets deps.Messenger to a remote agent client or to an
// in-process receiver.
func (m *Main) wireReceiver(deps *Dependencies, flags *ReceiverFlags) (func(), error) {
	if flags.Agent != "" {
		client := nbhttp.NewAgentClient(flags.Agent, flags.Timeout)
		deps.Messenger = nbslog.NewLoggingMessenger(client, deps.Logger)
		return func() {}, nil
	}
	return m.wireLocalReceiver(deps, &flags.PageFlags)
}

func (m *Main) wireLocalReceiver(deps *Dependencies, flags *PageFlags) (func(), error) {
	fetcher, err := m.newFetcher(flags, deps.Stderr)
	if err != nil {
		return nil, err
	}

	messenger := digest.NewLocalMessenger(
		nbslog.NewLoggingFetcher(fetcher, deps.Logger),
		nbslog.NewLoggingExtractor(newExtractor(flags.Extractor), deps.Logger),
	)
	deps.Messenger = nbslog.NewLoggingMessenger(messenger, deps.Logger)
	return func() { _ = fetcher.Close() }, nil
}

func (m *Main) newFetcher(flags *PageFlags, stderr io.Writer) (newsbrief.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}
	if flags.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(flags.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return f, nil
	}
	return nbhttp.NewFetcher(nbhttp.WithTimeout(flags.Timeout)), nil
}

func newExtractor(name string) newsbrief.Extractor {
	switch name {
	case "readability":
		return readability.NewExtractor()
	case "trafilatura":
		return trafilatura.NewExtractor()
	default:
		return goquery.NewExtractor()
	}
}

func (m *Main) openHistory(deps *Dependencies, path string, stderr io.Writer) error {
	if path == "" {
		path = m.DBPath
	}
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		fmt.Fprintf(stderr, "Hint: Set NEWSBRIEF_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	deps.History = sqlite.NewDigestService(m.DB)
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsbrief.db"
	}
	return filepath.Join(home, ".newsbrief", "history.db")
}
