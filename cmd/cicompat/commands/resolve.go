package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.yaml.in/yaml/v4"

	"github.com/cicompat/cicompat/config"
	"github.com/cicompat/cicompat/document"
	"github.com/cicompat/cicompat/gitlab"
	"github.com/cicompat/cicompat/pipeline"
)

// ResolveFlags contains flags for the resolve command
type ResolveFlags struct {
	Include    int
	GitLabHost string
	Raw        bool
	Format     string
	Verbose    bool
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
// Returns the FlagSet and a ResolveFlags struct with bound flag variables.
func SetupResolveFlags() (*flag.FlagSet, *ResolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &ResolveFlags{}

	fs.IntVar(&flags.Include, "include", -1, "follow this include entry before resolving the path")
	fs.StringVar(&flags.GitLabHost, "gitlab-host", "", "GitLab base URL used with --include")
	fs.BoolVar(&flags.Raw, "raw", false, "print the resolved node instead of a version list")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json or yaml")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log GitLab requests")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: cicompat resolve [flags] <file|-> <path>\n\n")
		Writef(output, "Resolve a path expression in a GitLab CI file and print the versions found there.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  cicompat resolve .gitlab-ci.yml test.parallel.matrix[0].MONGO_VERSION\n")
		Writef(output, "  cicompat resolve --raw .gitlab-ci.yml include[0]\n")
		Writef(output, "  cicompat resolve --include 0 --gitlab-host https://gitlab.example.com .gitlab-ci.yml redis.parallel.matrix[0].REDIS_VERSION\n")
		Writef(output, "  cat .gitlab-ci.yml | cicompat resolve --format json - test.parallel.matrix[0].MONGO_VERSION\n")
	}

	return fs, flags
}

// newFetcher builds the fetcher used for --include. Tests replace it.
var newFetcher = func(host, token string, verbose bool) (pipeline.Fetcher, error) {
	return gitlab.New(host, token, gitlab.WithLogger(NewLogger(stderr, verbose)))
}

// HandleResolve executes the resolve command
func HandleResolve(args []string) error {
	fs, flags := SetupResolveFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("resolve command requires a file path (or '-' for stdin) and a path expression")
	}
	if err := ValidateOutputFormat(flags.Format, FormatText, FormatJSON, FormatYAML); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runResolve(ctx, flags, fs.Arg(0), fs.Arg(1))
}

func runResolve(ctx context.Context, flags *ResolveFlags, input, path string) error {
	data, err := ReadInput(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", FormatInputPath(input), err)
	}
	root, err := document.ParseNamed(FormatInputPath(input), data)
	if err != nil {
		return err
	}

	item := pipeline.MatrixItem{Path: path}
	var f pipeline.Fetcher
	if flags.Include >= 0 {
		include := flags.Include
		item.Include = &include
		if flags.GitLabHost == "" {
			return fmt.Errorf("--include requires --gitlab-host")
		}
		token := config.LoadEnv().GitLabToken
		if f, err = newFetcher(flags.GitLabHost, token, flags.Verbose); err != nil {
			return err
		}
	}

	node, err := item.Locate(ctx, root, f)
	if err != nil {
		return err
	}

	if flags.Raw {
		if flags.Format == FormatText {
			out, err := yaml.Marshal(node.Interface())
			if err != nil {
				return fmt.Errorf("marshaling node: %w", err)
			}
			Writef(stdout, "%s", out)
			return nil
		}
		return OutputStructured(stdout, node.Interface(), flags.Format)
	}

	versions, err := pipeline.ExtractVersions(node)
	if err != nil {
		return err
	}
	if flags.Format != FormatText {
		return OutputStructured(stdout, versions, flags.Format)
	}
	for _, v := range versions {
		Writef(stdout, "%s\n", v)
	}
	return nil
}
