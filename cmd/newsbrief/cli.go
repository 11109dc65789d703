package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsbrief"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Messenger  newsbrief.PageMessenger
	Summarizer newsbrief.Summarizer
	Related    newsbrief.RelatedNewsFinder
	History    newsbrief.DigestService
	Writer     newsbrief.DigestWriter
	Converter  newsbrief.Converter
	Limiter    newsbrief.DomainLimiter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"YAML configuration file" placeholder:"PATH"`
	DB      string          `help:"History database path" env:"NEWSBRIEF_DB" placeholder:"PATH"`
	Verbose bool            `short:"v" help:"Log every operation to stderr" env:"NEWSBRIEF_VERBOSE"`

	Digest  DigestCmd  `cmd:"" help:"Summarize articles and find related news"`
	Extract ExtractCmd `cmd:"" help:"Extract the article from a page"`
	Agent   AgentCmd   `cmd:"" help:"Serve the page receiver over HTTP"`
	History HistoryCmd `cmd:"" help:"List recorded digests"`
}

// PageFlags configures how pages are loaded and read.
type PageFlags struct {
	Timeout   time.Duration `short:"t" default:"10s" help:"Page load timeout" env:"NEWSBRIEF_TIMEOUT"`
	Browser   bool          `short:"b" help:"Render pages in headless Chrome" env:"NEWSBRIEF_BROWSER"`
	Extractor string        `short:"x" default:"cascade" enum:"cascade,readability,trafilatura" help:"Article extractor (${enum})" env:"NEWSBRIEF_EXTRACTOR"`
}

// ReceiverFlags selects the page receiver.
type ReceiverFlags struct {
	PageFlags `embed:""`

	Agent string `help:"Send page messages to a remote agent at this URL" env:"NEWSBRIEF_AGENT" placeholder:"URL"`
}

// DigestCmd is the "digest" subcommand.
type DigestCmd struct {
	URLs []string `arg:"" name:"url" help:"Article URLs"`

	ReceiverFlags `embed:""`

	Endpoint       string        `default:"http://localhost:5005" help:"Summarization service base URL" env:"NEWSBRIEF_ENDPOINT"`
	Origin         string        `default:"newsbrief://cli" help:"Origin header sent with summarize requests" env:"NEWSBRIEF_ORIGIN"`
	ServiceTimeout time.Duration `default:"60s" help:"Summarization service timeout" env:"NEWSBRIEF_SERVICE_TIMEOUT"`
	RateLimit      float64       `default:"1" help:"Page loads per second per host, 0 for no limit"`
	JSON           bool          `name:"json" help:"Write one JSON object per digest"`
	Save           string        `help:"Export digests as markdown under this directory" placeholder:"DIR"`
	History        bool          `help:"Record successful summaries in the history database"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"Article URL"`

	ReceiverFlags `embed:""`

	Markdown bool `short:"m" help:"Convert the article container to markdown"`
	JSON     bool `name:"json" help:"Write the page receiver response as JSON"`
}

// AgentCmd is the "agent" subcommand.
type AgentCmd struct {
	PageFlags `embed:""`

	Addr string `default:":8080" help:"Listen address" env:"NEWSBRIEF_AGENT_ADDR"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit  int    `short:"n" default:"20" help:"Maximum number of digests to list"`
	URL    string `help:"Only list digests of this URL"`
	Delete string `help:"Delete the digest with this ID" placeholder:"ID"`
}
