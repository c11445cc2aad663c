// Command finboard is the operator CLI for the finance dashboard: it inspects
// and mints session tokens, imports records and prints charts.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/mmynk/finboard/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app is the state shared by every subcommand. As a CLI it lives for one
// invocation only.
type app struct {
	cfg    *config.Config
	dbPath string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{cfg: config.Load(), stdin: stdin, stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet("finboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.dbPath, "db", a.cfg.DBPath, "Path to the SQLite database (env DB_PATH)")

	commander := subcommands.NewCommander(fs, "finboard")
	commander.Output = stdout
	commander.Error = stderr

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&claimsCmd{app: a}, "sessions")
	commander.Register(&tokenCmd{app: a}, "sessions")

	commander.Register(&importCmd{app: a}, "records")
	commander.Register(&chartCmd{app: a}, "records")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return int(subcommands.ExitSuccess)
		}
		return int(subcommands.ExitUsageError)
	}
	return int(commander.Execute(context.Background()))
}

func (a *app) errorf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.stderr, format+"\n", args...)
	return subcommands.ExitFailure
}

// parseNow reads an instant given as RFC 3339 or a plain date. An empty
// string means the current time.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readSecret reads a line from stdin without echo when stdin is a terminal.
func readSecret(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
