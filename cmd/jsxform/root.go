package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is filled when building via `make`, but not when installing
// via `go install` (mirrors the go-corset/ailang ldflags convention).
var Version string

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "jsxform",
	Short: "Translates a homoiconic functional-language AST into a module-based target AST.",
	Long:  "jsxform translates a homoiconic, pattern-matching functional language's AST into the AST of a module-based scripting language.",
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("config", "jsxform.yaml", "path to the project config file")
}

func resolvedVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown version)"
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
