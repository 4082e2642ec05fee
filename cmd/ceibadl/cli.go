package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ceibadl"
	"github.com/fwojciec/ceibadl/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Credentials ceibadl.Credentials
	Auth        ceibadl.Authenticator
	Courses     ceibadl.CourseService
	Catalog     *crawl.Catalog
	Runs        ceibadl.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Courses  CoursesCmd  `cmd:"" help:"List enrolled courses"`
	Download DownloadCmd `cmd:"" help:"Mirror courses to a local directory"`
	History  HistoryCmd  `cmd:"" help:"Show past download runs"`
}

// Globals are flags shared by every command. Each can also be set in the
// JSON config file under the flag's name.
type Globals struct {
	Config   kong.ConfigFlag `help:"Load flags from a JSON config file"`
	Username string          `short:"u" env:"CEIBA_USERNAME" help:"Portal login name"`
	Password string          `env:"CEIBA_PASSWORD" help:"Portal password"`
	BaseURL  string          `name:"base-url" env:"CEIBA_BASE_URL" default:"${base_url}" help:"Portal root URL"`
	LoginURL string          `name:"login-url" env:"CEIBA_LOGIN_URL" help:"Login page URL (defaults to the portal's)"`
	Timeout  time.Duration   `default:"30s" help:"Per-request timeout"`
	Retries  int             `default:"2" help:"Retries for transient HTTP failures"`
	Rate     float64         `default:"5" help:"Requests per second (0 disables limiting)"`
	Verbose  bool            `short:"v" help:"Enable debug logging"`
}

// CoursesCmd is the "courses" subcommand.
type CoursesCmd struct{}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	Dest      string   `short:"d" default:"." type:"path" help:"Directory the course folders are created in"`
	Course    []string `short:"c" help:"Course name to download, Chinese or English (repeatable)"`
	Module    []string `short:"m" help:"Module key to download, e.g. bulletin, hw (repeatable)"`
	Markdown  bool     `help:"Also write each module page as Markdown"`
	NoHistory bool     `name:"no-history" help:"Do not record this run in the history database"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	RunID string `arg:"" optional:"" name:"run" help:"Run ID to show module outcomes for"`
	Limit int    `short:"n" default:"10" help:"Number of runs to list"`
}
