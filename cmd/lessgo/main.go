package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dellyoung/lessgo"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: lessgo <command> [args]\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  compile <file>  Compile LESS to CSS\n")
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "compile":
		compileCmd := flag.NewFlagSet("compile", flag.ExitOnError)
		minify := compileCmd.Bool("minify", false, "emit minified CSS")
		compileCmd.Parse(os.Args[2:])

		args := compileCmd.Args()
		if len(args) != 1 {
			fmt.Fprintf(os.Stderr, "Usage: lessgo compile [-minify] <file>\n")
			os.Exit(1)
		}

		if err := compileFile(args[0], *minify); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		os.Exit(1)
	}
}

func compileFile(filePath string, minify bool) error {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	css, err := lessgo.Compile(string(source), lessgo.Options{
		Minify:   minify,
		Filename: filePath,
	})
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}

	fmt.Print(css)
	return nil
}
