package main

import (
	"fmt"
	"os"

	"github.com/cicompat/cicompat"
	"github.com/cicompat/cicompat/cmd/cicompat/commands"
	"github.com/cicompat/cicompat/internal/cliutil"
)

// validCommands lists the commands offered as suggestions for typos.
var validCommands = []string{"report", "resolve", "majors", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("cicompat v%s\n", cicompat.Version())
		if len(args) > 0 && args[0] == "--build" {
			fmt.Println(cicompat.BuildInfo())
		}
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "report":
		err = commands.HandleReport(args)
	case "resolve":
		err = commands.HandleResolve(args)
	case "majors":
		err = commands.HandleMajors(args)
	case "mcp":
		err = commands.HandleMCP(args)
	default:
		cliutil.Errorf(os.Stderr, "unknown command: %s", command)
		if s := suggestCommand(command); s != "" {
			cliutil.Writef(os.Stderr, "Did you mean '%s'?\n", s)
		}
		cliutil.Writef(os.Stderr, "\n")
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		cliutil.Errorf(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

// suggestCommand returns the closest valid command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, c := range validCommands {
		if d := editDistance(input, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	cliutil.Writef(os.Stdout, `cicompat - GitLab CI dependency compatibility tables

Usage:
  cicompat <command> [options]

Commands:
  report      Build compatibility tables for every configured service
  resolve     Resolve a path in a GitLab CI file and list its versions
  majors      Pick one representative tag per major version
  mcp         Serve the cicompat tools over the Model Context Protocol
  version     Show version information (--build for build details)
  help        Show this help message

Run 'cicompat <command> --help' for more information on a command.
`)
}
