// Command seshade is a small demonstration CLI around the expression
// engine: it evaluates a shading expression given on the command line,
// or fetches a named snippet from a git-hosted snippet library
// described by a manifest and prints the directory it was checked out
// into; fetched snippets are not evaluated.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"seshade/pkg/builtins"
	"seshade/pkg/driver"
	"seshade/pkg/expr"
	"seshade/pkg/registry"
)

const cliToolVersion = "seshade-cli 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "eval":
		return runEval(args[1:])
	case "fetch":
		return runFetch(args[1:])
	default:
		return runEval(args)
	}
}

func runEval(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "seshade eval requires exactly one expression argument")
		return 1
	}
	src := args[0]

	reg := registry.New()
	builtins.Register(reg)

	e := expr.New(reg)
	e.SetExpression(src)
	if err := e.Parse(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if !e.Prep() {
		for _, d := range e.Errors() {
			fmt.Fprintf(os.Stderr, "error: %s\n", d.Message)
		}
		return 1
	}

	result := e.Evaluate()
	if e.ReturnType().Width() <= 1 {
		fmt.Fprintf(os.Stdout, "%g\n", result.Lane0())
	} else {
		fmt.Fprintf(os.Stdout, "[%g, %g, %g]\n", result[0], result[1], result[2])
	}
	return 0
}

func runFetch(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "seshade fetch requires a manifest path and a snippet name")
		return 1
	}
	manifestPath, snippetName := args[0], args[1]

	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return 1
	}
	spec, ok := manifest.FindSnippet(snippetName)
	if !ok {
		fmt.Fprintf(os.Stderr, "no snippet named %q in %s\n", snippetName, manifestPath)
		return 1
	}

	cacheDir, err := resolveCacheDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve cache directory: %v\n", err)
		return 1
	}

	fetcher := driver.NewFetcher(cacheDir)
	dir, err := fetcher.Fetch(spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "Fetched %s into %s\n", snippetName, dir)
	return 0
}

func resolveCacheDir() (string, error) {
	if cache := strings.TrimSpace(os.Getenv("SESHADE_CACHE")); cache != "" {
		return filepath.Abs(cache)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(home, ".seshade", "cache"), nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  seshade eval '<expression>'")
	fmt.Fprintln(os.Stderr, "  seshade fetch <manifest.yml> <snippet-name>")
}
