package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/macro"
	"github.com/sunholo/jsxform/internal/registry"
	"github.com/sunholo/jsxform/internal/translate"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Translate one JSON-encoded AST node per line, interactively",
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		startREPL(os.Stdout, verbose)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var replCommands = []string{":help", ":quit", ":reset"}

// startREPL runs a read-translate-print loop: each line is a
// JSON-encoded source AST node (per internal/ast.Decode), translated
// against one session-long Registry/Context, so modules registered by
// a defmodule on an earlier line stay known to later ones. Every line
// is translated against the same root Environment: an alias, import
// or require on one line does not carry over to the next.
func startREPL(out io.Writer, verbose bool) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".jsxform_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	line.SetCompleter(func(in string) (c []string) {
		if strings.HasPrefix(in, ":") {
			for _, cmd := range replCommands {
				if strings.HasPrefix(cmd, in) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Fprintf(out, "%s %s\n", bold("jsxform"), bold(resolvedVersion()))
	fmt.Fprintln(out, "Type :help for help, :quit to exit")

	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	reg := registry.New(".", log)
	defer reg.Stop()
	ctx := translate.NewContext(reg, macro.NoopExpander{}, log)
	e := env.New(".", "<repl>")

	for {
		input, err := line.Prompt("jsxform> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			return
		}
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", red("error:"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case ":quit":
			return
		case ":help":
			fmt.Fprintln(out, "Enter one JSON-encoded source AST node per line; :quit to exit.")
			continue
		case ":reset":
			reg = registry.New(".", log)
			ctx = translate.NewContext(reg, macro.NoopExpander{}, log)
			e = env.New(".", "<repl>")
			continue
		}

		node, err := ast.Decode([]byte(input))
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", red("parse error:"), err)
			continue
		}
		result, err := translate.Translate(node, e, ctx)
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", red("translate error:"), err)
			continue
		}
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", red("encode error:"), err)
			continue
		}
		fmt.Fprintln(out, string(encoded))
	}
}
