package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/cicompat/cicompat/compat"
	"github.com/cicompat/cicompat/config"
	"github.com/cicompat/cicompat/gitlab"
	"github.com/cicompat/cicompat/internal/cliutil"
	"github.com/cicompat/cicompat/logging"
	"github.com/cicompat/cicompat/report"
)

// ReportFlags contains flags for the report command
type ReportFlags struct {
	ConfigPath  string
	EnvFile     string
	OutputDir   string
	Format      string
	Concurrency int
	NoFiles     bool
	Verbose     bool
}

// SetupReportFlags creates and configures a FlagSet for the report command.
// Returns the FlagSet and a ReportFlags struct with bound flag variables.
func SetupReportFlags() (*flag.FlagSet, *ReportFlags) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	flags := &ReportFlags{}

	fs.StringVar(&flags.ConfigPath, "config", "", "configuration file (default $CONFIG_FILE_PATH or config.yml)")
	fs.StringVar(&flags.EnvFile, "env-file", ".env", "dotenv file to load before reading the environment")
	fs.StringVar(&flags.OutputDir, "output-dir", "", "directory for <subject>_output.md files (overrides output_dir)")
	fs.StringVar(&flags.Format, "format", FormatMarkdown, "stdout format: markdown, json or yaml")
	fs.IntVar(&flags.Concurrency, "concurrency", report.DefaultConcurrency, "number of services processed in parallel")
	fs.BoolVar(&flags.NoFiles, "no-files", false, "print tables without writing output files")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose: log GitLab requests and skipped matrix items")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose: log GitLab requests and skipped matrix items")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: cicompat report [flags]\n\n")
		Writef(output, "Build one compatibility table per subject from the services in the configuration.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nEnvironment:\n")
		Writef(output, "  GITLAB_TOKEN       access token (required)\n")
		Writef(output, "  CONFIG_FILE_PATH   configuration file when --config is not given\n")
		Writef(output, "\nExamples:\n")
		Writef(output, "  cicompat report\n")
		Writef(output, "  cicompat report --config services.yml --output-dir reports\n")
		Writef(output, "  cicompat report --no-files --format json | jq '.tables[0]'\n")
	}

	return fs, flags
}

// newSource builds the GitLab source for a report. Tests replace it.
var newSource = func(host, token string, logger logging.Logger) (report.Source, error) {
	return gitlab.New(host, token, gitlab.WithLogger(logger))
}

// reportOutput is the structured form of a report run.
type reportOutput struct {
	Rows   []compat.Row   `json:"rows" yaml:"rows"`
	Tables []compat.Table `json:"tables" yaml:"tables"`
	Files  []string       `json:"files,omitempty" yaml:"files,omitempty"`
}

// HandleReport executes the report command
func HandleReport(args []string) error {
	fs, flags := SetupReportFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("report command takes no arguments")
	}
	if err := ValidateOutputFormat(flags.Format, FormatMarkdown, FormatJSON, FormatYAML); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runReport(ctx, flags)
}

func runReport(ctx context.Context, flags *ReportFlags) error {
	logger := NewLogger(stderr, flags.Verbose)

	env := config.LoadEnv(flags.EnvFile)
	path := flags.ConfigPath
	if path == "" {
		path = env.ConfigFilePath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if flags.OutputDir != "" {
		cfg.OutputDir = flags.OutputDir
	}
	token, err := env.RequireToken()
	if err != nil {
		return err
	}

	src, err := newSource(cfg.GitLabHost, token, logger)
	if err != nil {
		return err
	}
	rows, err := report.NewBuilder(cfg, src,
		report.WithLogger(logger),
		report.WithConcurrency(flags.Concurrency),
	).Rows(ctx)
	if err != nil {
		return err
	}
	tables := report.Tables(cfg.Subjects(), rows)

	var files []string
	if !flags.NoFiles {
		files, err = report.WriteOutputs(cfg.OutputDir, tables)
		if err != nil {
			return err
		}
		for _, f := range files {
			cliutil.Successf(stderr, "wrote %s", f)
		}
	}

	if flags.Format != FormatMarkdown {
		return OutputStructured(stdout, reportOutput{Rows: rows, Tables: tables, Files: files}, flags.Format)
	}
	for _, t := range tables {
		Writef(stdout, "%s\n", compat.MarkdownDocument(t))
	}
	return nil
}
