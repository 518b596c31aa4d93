// Package main provides the highlight-resolver CLI, a thin host around the
// resolution engine: it reads a document and a batch of highlight requests,
// resolves them to exact character spans, reconciles overlaps, and prints
// the result as JSON.
//
// Usage:
//
//	highlight-resolver -doc document.txt -requests requests.json [flags]
//	highlight-resolver -doc document.txt -render -base 1
//
// The requests file holds a JSON array of request objects, each with either
// a "lineSnippet" or a "freeText" member. Individual location failures are
// reported in the JSON output, not as process errors: an unreliable producer
// is the expected case, so the exit code stays 0. Exit 2 means a usage,
// configuration, or I/O problem.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"highlight-resolver/internal/config"
	"highlight-resolver/internal/engine"
	"highlight-resolver/internal/highlight"
	"highlight-resolver/internal/overlap"
	"highlight-resolver/internal/textutil"
)

type cliConfig struct {
	docPath      string
	requestsPath string
	configPath   string
	base         int
	baseSet      bool
	fuzzy        bool
	fuzzySet     bool
	expand       string
	expandSet    bool
	producer     string
	priority     int
	render       bool
	verbose      bool
}

func parseFlags(args []string) (cliConfig, error) {
	fs := flag.NewFlagSet("highlight-resolver", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  resolve : %s -doc doc.txt -requests reqs.json [flags]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  render  : %s -doc doc.txt -render [-base 0|1]\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	var c cliConfig
	fs.StringVar(&c.docPath, "doc", "", "path to the document text (required)")
	fs.StringVar(&c.requestsPath, "requests", "", "path to a JSON array of highlight requests")
	fs.StringVar(&c.configPath, "config", "", "path to a YAML engine config (defaults + HLRES_* env otherwise)")
	fs.IntVar(&c.base, "base", 0, "line numbering base: 0 or 1 (overrides config)")
	fs.BoolVar(&c.fuzzy, "fuzzy", false, "enable the fuzzy matching strategy (overrides config)")
	fs.StringVar(&c.expand, "expand", "", `grow matches to "sentence" or "paragraph" boundaries (overrides config)`)
	fs.StringVar(&c.producer, "producer", "cli", "producer name stamped on resolved highlights")
	fs.IntVar(&c.priority, "priority", 0, "producer priority used at overlap resolution")
	fs.BoolVar(&c.render, "render", false, "print the numbered-line view of the document and exit")
	fs.BoolVar(&c.verbose, "v", false, "debug logging to stderr")
	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base":
			c.baseSet = true
		case "fuzzy":
			c.fuzzySet = true
		case "expand":
			c.expandSet = true
		}
	})

	if c.docPath == "" {
		return cliConfig{}, fmt.Errorf("-doc is required")
	}
	if !c.render && c.requestsPath == "" {
		return cliConfig{}, fmt.Errorf("-requests is required unless -render is given")
	}
	if c.baseSet && c.base != 0 && c.base != 1 {
		return cliConfig{}, fmt.Errorf("-base must be 0 or 1, got %d", c.base)
	}
	return c, nil
}

// output is the CLI's JSON answer: the reconciled highlights plus every
// rejected request with its reason, in request order.
type output struct {
	Document   string                `json:"document"`
	Highlights []highlight.Highlight `json:"highlights"`
	Rejected   []rejected            `json:"rejected,omitempty"`
}

type rejected struct {
	Index  int    `json:"index"`
	Shape  string `json:"shape"`
	Reason string `json:"reason"`
}

func parseRequests(b []byte) ([]highlight.Request, error) {
	var reqs []highlight.Request
	if err := json.Unmarshal(b, &reqs); err != nil {
		return nil, fmt.Errorf("parse requests: %w", err)
	}
	for i, r := range reqs {
		populated := 0
		if r.LineSnippet != nil {
			populated++
		}
		if r.FreeText != nil {
			populated++
		}
		if populated != 1 {
			return nil, fmt.Errorf("request %d: exactly one of lineSnippet or freeText must be set", i)
		}
	}
	return reqs, nil
}

func run(c cliConfig) error {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Read without validating: the -base flag may still supply the required
	// line base before Validate runs.
	cfg, err := config.Read(c.configPath)
	if err != nil {
		return err
	}
	if c.baseSet {
		cfg.LineBase = &c.base
	}
	if c.fuzzySet {
		cfg.EnableFuzzy = c.fuzzy
	}
	if c.expandSet {
		cfg.Expand = c.expand
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	raw, err := os.ReadFile(c.docPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	doc := engine.Document{
		Version: filepath.Base(c.docPath),
		Text:    string(textutil.NormalizeUTF8LF(raw)),
	}

	eng := engine.New(cfg, nil)
	if c.render {
		fmt.Println(eng.Render(doc))
		return nil
	}

	reqBytes, err := os.ReadFile(c.requestsPath)
	if err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	reqs, err := parseRequests(reqBytes)
	if err != nil {
		return err
	}

	// Resolve request by request so every rejection keeps its reason; the
	// engine's batch entry point drops rejects silently, which suits
	// services but not a diagnostic CLI.
	out := output{Document: doc.Version}
	var proposed []highlight.Highlight
	for i, req := range reqs {
		span := eng.Resolve(doc, req)
		if !span.Valid {
			out.Rejected = append(out.Rejected, rejected{Index: i, Shape: req.Shape(), Reason: span.Reason})
			continue
		}
		proposed = append(proposed, highlight.Highlight{
			ID:       uuid.NewString(),
			Span:     span,
			Producer: c.producer,
			Priority: c.priority,
		})
	}
	out.Highlights = overlap.Reconcile(proposed)
	if out.Highlights == nil {
		out.Highlights = []highlight.Highlight{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func main() {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	if err := run(c); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}
