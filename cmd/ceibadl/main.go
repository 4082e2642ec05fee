package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ceibadl"
	"github.com/fwojciec/ceibadl/crawl"
	"github.com/fwojciec/ceibadl/fs"
	"github.com/fwojciec/ceibadl/goquery"
	"github.com/fwojciec/ceibadl/htmltomarkdown"
	ceibahttp "github.com/fwojciec/ceibadl/http"
	ceibaslog "github.com/fwojciec/ceibadl/slog"
	"github.com/fwojciec/ceibadl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, ceibadl.ErrorMessage(err))
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Config file paths tried in order. Missing files are ignored.
	ConfigPaths []string

	// SQLite database used by the history service.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		ConfigPaths: defaultConfigPaths(),
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
		kong.Name("ceibadl"),
		kong.Description("Mirror NTU CEIBA course pages for offline reading."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"base_url": ceibadl.DefaultBaseURL},
		kong.Configuration(kong.JSON, m.ConfigPaths...),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ceibadl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := kongCtx.Selected().Name

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.Credentials = ceibadl.Credentials{Username: cli.Username, Password: cli.Password}

	if command == "history" || (command == "download" && !cli.Download.NoHistory) {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set CEIBADL_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	if command == "courses" || command == "download" {
		wirePortal(deps, &cli.Globals, cli.Download.Markdown && command == "download")
	}

	return kongCtx.Run(deps)
}

// wirePortal builds the logged-in portal services.
func wirePortal(deps *Dependencies, g *Globals, markdown bool) {
	logger := deps.Logger
	endpoints := ceibadl.NewEndpoints(g.BaseURL)
	if g.LoginURL != "" {
		endpoints.Login = g.LoginURL
	}

	session := ceibahttp.NewSession(
		ceibahttp.WithTimeout(g.Timeout),
		ceibahttp.WithRetries(g.Retries),
		ceibahttp.WithRateLimit(g.Rate),
		ceibahttp.WithLogger(logger),
	)
	fetcher := ceibaslog.NewLoggingFetcher(session, logger)
	store := fs.NewStore()

	auth := ceibahttp.NewAuthenticator(session, goquery.NewFormParser(), endpoints.Login)
	deps.Auth = ceibaslog.NewLoggingAuthenticator(auth, logger)

	downloader := &crawl.Downloader{
		Fetcher:   fetcher,
		Crawler:   &crawl.Crawler{Fetcher: fetcher, Store: store, Logger: logger},
		Store:     store,
		Rewriter:  ceibaslog.NewLoggingRewriter(goquery.NewRewriter(), logger),
		Endpoints: endpoints,
		Logger:    logger,
	}
	if markdown {
		downloader.Converter = htmltomarkdown.NewConverter()
	}

	catalog := &crawl.Catalog{
		Fetcher:    fetcher,
		Parser:     goquery.NewCourseListParser(),
		Endpoints:  endpoints,
		Downloader: downloader,
		Runs:       deps.Runs,
		Logger:     logger,
	}
	deps.Catalog = catalog
	deps.Courses = ceibaslog.NewLoggingCourseService(catalog, logger)
}

func defaultDBPath() string {
	if path := os.Getenv("CEIBADL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "ceibadl.db"
	}
	dir := filepath.Join(home, ".ceibadl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "history.db")
}

func defaultConfigPaths() []string {
	if path := os.Getenv("CEIBADL_CONFIG"); path != "" {
		return []string{path}
	}
	paths := []string{"config.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".ceibadl", "config.json"))
	}
	return paths
}
