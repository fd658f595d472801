// Package main provides the CLI entry point for jsonlogic, a tool that
// compiles and evaluates JSONLogic-style rules against JSON or YAML data.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	jlog "github.com/macropower/jsonlogic/log"
	"github.com/macropower/jsonlogic/logic"
	"github.com/macropower/jsonlogic/logic/yamlrule"
	"github.com/macropower/jsonlogic/profile"
	"github.com/macropower/jsonlogic/version"
)

var (
	// ErrReadInput indicates an I/O error occurred reading a rule or data
	// file.
	ErrReadInput = errors.New("read input")
	// ErrWriteOutput indicates an I/O error occurred writing output.
	ErrWriteOutput = errors.New("write output")
)

func main() {
	cfg := logic.NewConfig()
	logCfg := jlog.NewConfig()
	profCfg := profile.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "jsonlogic",
		Short:         "Compile and evaluate JSONLogic rules",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			handler, err := logCfg.NewHandler(os.Stderr)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			slog.SetDefault(slog.New(handler))

			// Built here, not at registration time: pflag only populates
			// profCfg's fields once Execute() parses argv, so constructing
			// the Profiler earlier would capture its zero-value defaults.
			activeProfiler = profCfg.NewProfiler()

			return activeProfiler.Start()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return activeProfiler.Stop()
		},
	}

	cfg.RegisterFlags(rootCmd.PersistentFlags())
	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profCfg.RegisterFlags(rootCmd.PersistentFlags())

	for _, register := range []func(*cobra.Command) error{
		cfg.RegisterCompletions, logCfg.RegisterCompletions, profCfg.RegisterCompletions,
	} {
		if err := register(rootCmd); err != nil {
			fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
		}
	}

	var (
		rulePath string
		dataPath string
		trace    bool
	)

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a rule against a data document",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runEval(cfg, rulePath, dataPath, trace)
		},
	}
	evalCmd.Flags().StringVar(&rulePath, "rule", "", "path to a rule file (.json or .yaml), or - for stdin")
	evalCmd.Flags().StringVar(&dataPath, "data", "", "path to a data file (.json or .yaml), or - for stdin")
	evalCmd.Flags().BoolVar(&trace, "trace", false, "include an execution trace in the output")

	compileCmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a rule and report whether it is well-formed",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCompile(cfg, rulePath)
		},
	}
	compileCmd.Flags().StringVar(&rulePath, "rule", "", "path to a rule file (.json or .yaml), or - for stdin")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build and runtime version information",
		RunE: func(_ *cobra.Command, _ []string) error {
			return writeJSON(map[string]any{
				"version":   version.Version,
				"revision":  version.Revision,
				"branch":    version.Branch,
				"goVersion": version.GoVersion,
				"goOS":      version.GoOS,
				"goArch":    version.GoArch,
			})
		},
	}

	rootCmd.AddCommand(evalCmd, compileCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// activeProfiler is built from profCfg once flags are parsed; RunE bodies
// never touch it directly, only the root command's pre/post hooks do.
var activeProfiler *profile.Profiler

func runEval(cfg *logic.Config, rulePath, dataPath string, trace bool) error {
	eng, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	rule, err := readValue(rulePath)
	if err != nil {
		return err
	}

	data, err := readValue(dataPath)
	if err != nil {
		return err
	}

	node, err := eng.Compile(rule)
	if err != nil {
		return err
	}

	var out any

	if trace {
		result, evalErr := eng.EvaluateWithTrace(node, data)
		if evalErr != nil {
			slog.Default().Error("rule evaluation failed", "error", evalErr, "steps", len(result.Steps))
		}

		out = map[string]any{
			"result": result.Result,
			"error":  errString(evalErr),
			"steps":  len(result.Steps),
			"nodes":  len(result.Tree.Nodes),
		}
	} else {
		result, evalErr := eng.Evaluate(node, data)
		if evalErr != nil {
			slog.Default().Error("rule evaluation failed", "error", evalErr)
		}

		out = map[string]any{
			"result": result,
			"error":  errString(evalErr),
		}
	}

	return writeJSON(out)
}

func runCompile(cfg *logic.Config, rulePath string) error {
	eng, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	rule, err := readValue(rulePath)
	if err != nil {
		return err
	}

	if _, err := eng.Compile(rule); err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	return writeJSON(map[string]any{"ok": true})
}

func errString(err error) any {
	if err == nil {
		return nil
	}

	return err.Error()
}

// readValue reads path (or stdin for "-") and decodes it as JSON or YAML
// based on its extension, falling back to YAML (a superset of JSON) when
// the extension is absent or ambiguous.
func readValue(path string) (any, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path given", ErrReadInput)
	}

	var (
		raw []byte
		err error
	)

	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		v, err := logic.ParseJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		return v, nil
	}

	v, err := yamlrule.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	return v, nil
}

func writeJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	out = append(out, '\n')

	if _, err := os.Stdout.Write(out); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}
