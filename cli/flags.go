package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiiranathan/pdfcount/logger"
	"github.com/abiiranathan/pdfcount/pdf"
	"github.com/abiiranathan/pdfcount/search"
	"github.com/abiiranathan/pdfcount/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const usageExample = `  pdfcount python,rust papers/*.pdf
  pdfcount "black hole,quasar" reports/ --year --dsep "{'_': {'project': 0}}" --sort year
  pdfcount covid --pages 1-3 --workers 4 --outfile counts.tsv`

// DefineFlags registers every option on flags, with DefaultConfig as defaults.
func DefineFlags(flags *pflag.FlagSet) {
	d := DefaultConfig.Options

	// Extraction
	flags.Bool("case", d.CaseSensitive, "Count case-sensitively")
	flags.String("pages", d.Pages, "Pages to read, e.g. 1,3-5 (default all)")
	flags.String("extractor", d.Extractor, "PDF text backend: "+strings.Join(pdf.Backends, ", "))
	flags.Bool("miner", false, "Use the layout backend (same as --extractor layout)")
	flags.Int("pprint", d.PageProgress, "Log progress every N pages (0 disables)")
	flags.Bool("unicode", d.Unicode, "Apply Unicode normalization")
	flags.String("form", d.Form, "Unicode normalization form: NFC, NFD, NFKC or NFKD")
	flags.Bool("tokens", d.Tokens, "Match whole tokens instead of substrings")
	flags.String("cache", d.CachePath, "Cache extracted page texts in this file")

	// Output
	flags.StringP("outfile", "o", d.Outfile, "Save the table (.csv, .tsv, .txt; .json with --backend frame)")
	flags.Bool("show", d.Show, "Print the table to stdout")
	flags.String("sort", "", "Comma-separated columns to sort by")
	flags.Bool("desc", d.Descending, "Sort in descending order")
	flags.String("backend", d.Backend, "Table backend: "+strings.Join(table.Backends, ", "))
	flags.Int("top", d.Top, "Also report the N most frequent terms")

	// Filename metadata
	flags.String("dsep", d.Separators, "Split file names into columns, e.g. {'_': {'project': 0}}")
	flags.Bool("year", d.Year, "Add a year column found in the file name")
	flags.Bool("ext", d.KeepExtension, "Keep the extension in the file column")
	flags.Bool("nfile", d.OmitFile, "Omit the file column")
	flags.Bool("npages", d.OmitPages, "Omit the pages column")

	// Runtime
	flags.IntP("workers", "w", d.Workers, "Number of files processed at once")
	flags.Int("ppdf", d.FileProgress, "Log progress every M files (0 disables)")
	flags.String("log-level", DefaultConfig.LogLevel, "DEBUG, INFO, WARNING, ERROR or CRITICAL")
	flags.Bool("log-json", DefaultConfig.LogJSON, "Write logs as JSON")
	flags.String("config", "", "YAML config file (default ./"+defaultConfigFile+" when present)")
}

// NewCommand returns the root command. The table goes to stdout, logs to stderr.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdfcount <words> [pdfs...]",
		Short: "Count word occurrences in PDF files",
		Long: "Count how often each of a comma-separated list of words occurs in a set of PDF files\n" +
			"and report one row per file. PDF arguments may be files, directories or globs.",
		Example:       usageExample,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	DefineFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, args []string, stdout, stderr io.Writer) error {
	v, err := newViper(cmd.Flags())
	if err != nil {
		return err
	}

	cfg, err := Load(v, args)
	if err != nil {
		return err
	}

	log, err := logger.New(stderr, cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return &search.ConfigError{Option: "log-level", Value: cfg.LogLevel, Err: err}
	}

	opts := cfg.Options
	opts.Logger = log
	opts.Stdout = stdout

	if _, err := search.SearchPDFs(cmd.Context(), cfg.PDFs, cfg.Words, opts); err != nil {
		logger.Critical(cmd.Context(), log, "pdfcount failed", "err", err.Error())
		return loggedError{err}
	}
	return nil
}

// loggedError marks a failure the run logger already reported.
type loggedError struct {
	error
}

func (e loggedError) Unwrap() error {
	return e.error
}

// Execute runs the command line and returns the process exit status. Files
// that fail to extract do not change the status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}

	cmd := NewCommand(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.As(err, new(loggedError)) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}
