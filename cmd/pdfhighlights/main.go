// Command pdfhighlights extracts highlighted text from PDF files.
//
// Usage:
//
//	pdfhighlights <pdf_path> [output_path] [--debug] [flags]
//
// The matches are printed to the terminal and, when output_path is given,
// saved as a report whose format follows the file extension (.txt, .docx,
// .pdf, .html, .md) unless --format says otherwise. pdf_path may be a glob
// such as "papers/**/*.pdf"; output_path is then a directory.
//
// Examples:
//
//	pdfhighlights document.pdf
//	pdfhighlights document.pdf output.txt
//	pdfhighlights document.pdf output.docx --debug
//	pdfhighlights 'papers/**/*.pdf' reports/ --format html --lang ar
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"golang.org/x/text/language"

	pdfhighlights "github.com/pyhub-apps/pdfhighlights-golang"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/highlight"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/inspect"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/report"
)

type cli struct {
	Input  string `arg:"" name:"pdf_path" help:"PDF file or glob pattern."`
	Output string `arg:"" optional:"" name:"output_path" help:"Report file, or a directory when several PDFs match."`

	Debug         bool   `help:"Print the structure of the first pages before extracting."`
	Format        string `short:"f" enum:"auto,txt,docx,pdf,html,md" default:"auto" help:"Report format (${enum})."`
	Config        string `short:"c" type:"existingfile" help:"YAML configuration file."`
	Comprehensive bool   `help:"Also report lines matching keywords and typographic patterns."`
	Lang          string `default:"en" help:"Report language (en, ar)."`
	Password      string `help:"Password of encrypted documents."`
	MaxPages      int    `help:"Scan at most this many pages of each document (0 for all)."`
	TextFallback  bool   `default:"true" negatable:"" help:"Read text with alternative readers when fonts cannot be decoded."`
	LogLevel      string `enum:"debug,info,warn,error" default:"warn" help:"Log level (${enum})."`
	Quiet         bool   `short:"q" help:"Only print errors."`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("pdfhighlights"),
		kong.Description("Extract highlighted text from PDF files."),
		kong.UsageOnError(),
	)
	os.Exit(run(args, os.Stdout, os.Stderr))
}

// run executes the command and returns the exit status
func run(args cli, stdout, stderr io.Writer) int {
	logger := newLogger(args, stderr)

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	inputs, err := expandInput(args.Input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	out := stdout
	if args.Quiet {
		out = io.Discard
	}
	lang := report.ParseLang(args.Lang)

	opts := []highlight.Option{highlight.WithLogger(logger)}
	if !args.Quiet {
		opts = append(opts, highlight.WithMatchHook(report.NewConsole(out, lang).Match))
	}
	extractor, err := pdfhighlights.NewExtractor(cfg, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	openOpts := []pdf.OpenOption{pdf.WithTextFallback(args.TextFallback)}
	if args.Password != "" {
		openOpts = append(openOpts, pdf.WithPassword(args.Password))
	}

	status := 0
	for _, path := range inputs {
		j := job{
			args:      args,
			path:      path,
			batch:     len(inputs) > 1,
			extractor: extractor,
			openOpts:  openOpts,
			lang:      lang,
			out:       out,
			logger:    logger,
		}
		if err := j.run(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = 1
		}
	}
	return status
}

func newLogger(args cli, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(args.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	if args.Debug {
		level = slog.LevelDebug
	}
	if args.Quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig(args cli) (highlight.Config, error) {
	cfg := highlight.DefaultConfig()
	if args.Config != "" {
		loaded, err := highlight.LoadConfig(args.Config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if args.Comprehensive {
		cfg.Methods.Comprehensive = true
	}
	if args.MaxPages > 0 {
		cfg.MaxPages = args.MaxPages
	}
	return cfg, cfg.Validate()
}

// expandInput resolves a glob pattern; plain paths are returned as given
func expandInput(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("no files match %q", pattern)
	}
	return matches, nil
}

// job extracts one document and saves its report
type job struct {
	args      cli
	path      string
	batch     bool
	extractor *highlight.Extractor
	openOpts  []pdf.OpenOption
	lang      language.Tag
	out       io.Writer
	logger    *slog.Logger
}

func (j job) run() error {
	fmt.Fprintf(j.out, "Processing: %s\n", j.path)

	if j.args.Debug {
		if err := j.inspect(); err != nil {
			return err
		}
		fmt.Fprintf(j.out, "\n%s\n\n", strings.Repeat("=", 60))
	}

	result, err := j.extractor.ExtractFile(j.path, j.openOpts...)
	if err != nil {
		return err
	}

	console := report.NewConsole(j.out, j.lang)
	console.Results(result.Records)
	if j.args.Debug {
		console.Stats(result.Stats)
	}
	for _, d := range result.Diagnostics {
		j.logger.Debug("diagnostic", "page", d.Page, "source", d.Source, "err", d.Err)
	}

	if len(result.Records) == 0 {
		fmt.Fprintln(j.out, "Try the --debug option to see how the document is built.")
		return nil
	}
	if j.args.Output == "" {
		return nil
	}
	return j.save(result)
}

func (j job) inspect() error {
	doc, err := pdfhighlights.Open(j.path, j.openOpts...)
	if err != nil {
		return &highlight.InputError{Path: j.path, Err: err}
	}
	defer doc.Close()

	opts := inspect.DefaultOptions()
	opts.StyleFlags, _ = pdf.ParseFontFlags(j.extractor.Config().StyleFlags)
	inspect.Document(j.out, doc, opts)
	return nil
}

// target returns the report path and format for the job
func (j job) target() (string, report.Format, error) {
	format := report.FormatFromPath(j.args.Output)
	if j.args.Format != "auto" {
		f, err := report.ParseFormat(j.args.Format)
		if err != nil {
			return "", "", err
		}
		format = f
	}

	if !j.batch {
		return j.args.Output, format, nil
	}

	if j.args.Format == "auto" {
		format = report.FormatText
	}
	if err := os.MkdirAll(j.args.Output, 0o755); err != nil {
		return "", "", errors.Wrap(err, "failed to create output directory")
	}
	base := strings.TrimSuffix(filepath.Base(j.path), filepath.Ext(j.path))
	return filepath.Join(j.args.Output, base+"_highlights"+format.Extension()), format, nil
}

func (j job) save(result *highlight.Result) (err error) {
	path, format, err := j.target()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create report")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "failed to close report")
		}
	}()

	r := report.Report{
		Source:    result.Source,
		Generated: time.Now(),
		Records:   result.Records,
		Lang:      j.lang,
	}
	if err := report.Write(f, format, r); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}

	fmt.Fprintf(j.out, "\nResults saved to: %s\n", path)
	return nil
}
