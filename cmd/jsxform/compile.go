package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sunholo/jsxform/internal/ast"
	"github.com/sunholo/jsxform/internal/cache"
	"github.com/sunholo/jsxform/internal/config"
	"github.com/sunholo/jsxform/internal/env"
	"github.com/sunholo/jsxform/internal/macro"
	"github.com/sunholo/jsxform/internal/registry"
	"github.com/sunholo/jsxform/internal/target"
	"github.com/sunholo/jsxform/internal/translate"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file.json>",
	Short: "Translate a JSON-encoded source AST into a target AST",
	Args:  cobra.ExactArgs(1),
	Run:   runCompile,
}

func init() {
	compileCmd.Flags().StringP("out", "o", "", "write the emitted Program JSON here instead of stdout")
	compileCmd.Flags().Bool("no-cache", false, "skip the build cache even if configured")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")
	outPath, _ := cmd.Flags().GetString("out")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("%v", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fatal("reading %s: %v", args[0], err)
	}

	var buildCache *cache.Cache
	if !noCache {
		buildCache, err = cache.Open(cfg.CachePath, verbose)
		if err != nil {
			log.WithError(err).Warn("build cache unavailable, continuing without it")
			buildCache = nil
		} else {
			defer buildCache.Close()
		}
	}

	hash := sha256.Sum256(data)
	sourceHash := hex.EncodeToString(hash[:])

	if buildCache != nil {
		if cached, ok, err := buildCache.Lookup(args[0], sourceHash); err == nil && ok {
			writeOutput(outPath, cached)
			fmt.Fprintln(os.Stderr, green("cache hit"), cyan(args[0]))
			return
		}
	}

	file, err := ast.DecodeFile(data)
	if err != nil {
		fatal("decoding %s: %v", args[0], err)
	}

	reg := registry.New(cfg.OutDir, log)
	defer reg.Stop()
	ctx := translate.NewContext(reg, macro.NoopExpander{}, log)
	rootEnv := env.New(cfg.OutDir, file.Path)

	programs, err := translateFile(file, rootEnv, ctx)
	if err != nil {
		fatal("%v", err)
	}
	for _, w := range ctx.Warnings() {
		fmt.Fprintf(os.Stderr, "%s %s.%s: %s\n", yellow("warning:"), w.Module, w.Function, w.MissingPattern)
	}

	out, err := json.MarshalIndent(programs, "", "  ")
	if err != nil {
		fatal("encoding output: %v", err)
	}

	if buildCache != nil {
		if err := buildCache.Store(args[0], sourceHash, out, nil); err != nil {
			log.WithError(err).Warn("failed to write build cache entry")
		}
	}

	writeOutput(outPath, out)
}

// translateFile walks a File's top-level declarations, collecting every
// emitted Program: a top-level ModuleDecl expands to one Program per
// module (itself plus any nested modules, innermost first per the
// resolved nesting-order Open Question), everything else translates to
// a single implicit top-level Program.
func translateFile(file *ast.File, e *env.Environment, ctx *translate.Context) ([]*target.Program, error) {
	var programs []*target.Program
	var loose []target.Node

	for _, decl := range file.Decls {
		if mod, ok := decl.(*ast.ModuleDecl); ok {
			progs, err := translate.TranslateModule(mod, e, ctx)
			if err != nil {
				return nil, err
			}
			for _, p := range progs {
				programs = append(programs, p.(*target.Program))
			}
			continue
		}
		node, err := translate.Translate(decl, e, ctx)
		if err != nil {
			return nil, err
		}
		loose = append(loose, target.NewExprStmt(node))
	}

	if len(loose) > 0 {
		programs = append(programs, target.NewProgram(loose...))
	}
	return programs, nil
}

func writeOutput(path string, data []byte) {
	if path == "" {
		os.Stdout.Write(data)
		os.Stdout.Write([]byte("\n"))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fatal("writing %s: %v", path, err)
	}
}
