package commands

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/cicompat/cicompat/versions"
)

// MajorsFlags contains flags for the majors command
type MajorsFlags struct {
	Count    int
	Format   string
	Rejected bool
}

// SetupMajorsFlags creates and configures a FlagSet for the majors command.
// Returns the FlagSet and a MajorsFlags struct with bound flag variables.
func SetupMajorsFlags() (*flag.FlagSet, *MajorsFlags) {
	fs := flag.NewFlagSet("majors", flag.ContinueOnError)
	flags := &MajorsFlags{}

	fs.IntVar(&flags.Count, "n", 0, "require exactly this many of the latest major lines (0 prints all)")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json or yaml")
	fs.BoolVar(&flags.Rejected, "show-rejected", false, "also list tags dropped as unparseable or pre-release")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: cicompat majors [flags] <tag>... | -\n\n")
		Writef(output, "Print one representative tag per major version, highest first.\n")
		Writef(output, "With '-', tags are read from stdin, one per line.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  cicompat majors v3.5.1 v4.1.2 v5.5.1-rc.0 v5.4.5 v3.9.0\n")
		Writef(output, "  git tag | cicompat majors -n 2 -\n")
	}

	return fs, flags
}

type majorsOutput struct {
	Majors   []string `json:"majors" yaml:"majors"`
	Rejected []string `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

// HandleMajors executes the majors command
func HandleMajors(args []string) error {
	fs, flags := SetupMajorsFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("majors command requires at least one tag, or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format, FormatText, FormatJSON, FormatYAML); err != nil {
		return err
	}
	if flags.Count < 0 {
		return fmt.Errorf("-n must not be negative")
	}

	tags := fs.Args()
	if len(tags) == 1 && tags[0] == StdinFilePath {
		data, err := ReadInput(StdinFilePath)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		tags = readLines(data)
	}

	var output majorsOutput
	if flags.Count > 0 {
		majors, err := versions.LatestMajors(tags, flags.Count)
		if err != nil {
			return err
		}
		output.Majors = majors
	} else {
		output.Majors = versions.MajorVersions(tags)
	}
	if flags.Rejected {
		_, rejected := versions.FilterStable(tags)
		for _, r := range rejected {
			output.Rejected = append(output.Rejected, r.Tag)
		}
	}

	if flags.Format != FormatText {
		return OutputStructured(stdout, output, flags.Format)
	}
	for _, m := range output.Majors {
		Writef(stdout, "%s\n", m)
	}
	if len(output.Rejected) > 0 {
		Writef(stderr, "rejected: %s\n", strings.Join(output.Rejected, ", "))
	}
	return nil
}

func readLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
