package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokenlint: %v\n", err)
		os.Exit(exitError)
	}

	c := &cli{ctx: ctx, root: root, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	code := c.run(os.Args[1:])
	stop()
	os.Exit(code)
}

func (c *cli) run(args []string) int {
	if len(args) < 1 {
		printUsage(c.stderr)
		return exitError
	}

	command, rest := args[0], args[1:]
	switch command {
	case "init":
		return c.runInit(rest)
	case "audit":
		return c.runAudit(rest)
	case "report":
		return c.runReport(rest)
	case "serve":
		return c.runServe(rest)
	case "watch":
		return c.runWatch(rest)
	case "version":
		fmt.Fprintf(c.stdout, "tokenlint %s\n", version)
		return exitOK
	case "help", "-h", "--help":
		printUsage(c.stdout)
		return exitOK
	default:
		fmt.Fprintf(c.stderr, "unknown command: %s\n", command)
		printUsage(c.stderr)
		return exitError
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tokenlint <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init       Write .tokenlint/config.yaml and a starter library (--mcp adds .mcp.json entry)")
	fmt.Fprintln(w, "  audit      Audit a scene export against the approved libraries")
	fmt.Fprintln(w, "  report     Normalize and summarize a findings file")
	fmt.Fprintln(w, "  serve      Start MCP server")
	fmt.Fprintln(w, "  watch      Re-audit a scene export whenever it or a library changes")
	fmt.Fprintln(w, "  version    Print version")
	fmt.Fprintln(w, "  help       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Audit flags:")
	fmt.Fprintln(w, "  --library <path>      Library file (repeatable; replaces discovery)")
	fmt.Fprintln(w, "  --tokens <path>       Saved-token file: JSON, YAML or a TS/JS module (repeatable)")
	fmt.Fprintln(w, "  --node <id>           Audit only this subtree (repeatable)")
	fmt.Fprintln(w, "  --format json|text    Output format (default json; text for watch)")
	fmt.Fprintln(w, "  --audit-log <path>    Append a JSONL run record")
	fmt.Fprintln(w, "  --fail-on-findings    Exit 2 when any finding is reported")
}
