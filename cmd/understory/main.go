package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/understory"
)

var (
	flagDB     string
	flagFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "understory",
	Short:         "Conservative static-safety analysis for JavaScript rewrites",
	Long:          "Understory analyzes JavaScript sources and reports the rewrite opportunities it can prove behavior-preserving from tree shape alone: const-safe declarations, membership-test rewrites, and removable wrapper aliases.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .understory/findings.db under the target)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

var (
	flagForce    bool
	flagWrappers string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a directory and store findings",
	Long:  "Parses JavaScript files with tree-sitter, runs the safety rule catalog, and writes findings to the SQLite database. Unchanged files are skipped by content hash.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Analyze files and print findings without a database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-analyze files as they change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and analyze from scratch")
	analyzeCmd.Flags().StringVar(&flagWrappers, "wrappers", "", "comma-separated wrapper callee names for alias resolution (default: $,jQuery)")
	checkCmd.Flags().StringVar(&flagWrappers, "wrappers", "", "comma-separated wrapper callee names for alias resolution (default: $,jQuery)")
	watchCmd.Flags().StringVar(&flagWrappers, "wrappers", "", "comma-separated wrapper callee names for alias resolution (default: $,jQuery)")
}

func targetDir(args []string) (string, error) {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("target: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("target %s is not a directory", abs)
	}
	return abs, nil
}

func dbPath(target string) string {
	if flagDB != "" {
		return flagDB
	}
	return filepath.Join(target, ".understory", "findings.db")
}

func engineOptions() []understory.Option {
	var opts []understory.Option
	if flagWrappers != "" {
		names := strings.Split(flagWrappers, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		opts = append(opts, understory.WithWrappers(names...))
	}
	return opts
}

func openEngine(target string) (*understory.Engine, error) {
	path := dbPath(target)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if flagForce {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing database for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", path)
	}
	return understory.New(path, engineOptions()...)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	start := time.Now()
	target, err := targetDir(args)
	if err != nil {
		return err
	}
	engine, err := openEngine(target)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	if err := engine.AnalyzeDirectory(cmd.Context(), target); err != nil {
		return err
	}
	findings, err := engine.AllFindings()
	if err != nil {
		return err
	}
	if err := outputFindings(os.Stdout, findings); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Analyzed %s in %s\n", target, time.Since(start).Round(time.Millisecond))
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	// check runs against a throwaway database so repeated invocations
	// never skip by stale hash.
	tmp, err := os.MkdirTemp("", "understory-check-*")
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	engine, err := understory.New(filepath.Join(tmp, "check.db"), engineOptions()...)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	paths := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", a, err)
		}
		paths = append(paths, abs)
	}
	if err := engine.AnalyzeFiles(cmd.Context(), paths); err != nil {
		return err
	}
	findings, err := engine.AllFindings()
	if err != nil {
		return err
	}
	if err := outputFindings(os.Stdout, findings); err != nil {
		return err
	}
	if len(findings) > 0 {
		// Nonzero exit when rewrites are available, for CI gating.
		os.Exit(2)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	target, err := targetDir(args)
	if err != nil {
		return err
	}
	engine, err := openEngine(target)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	// Initial full pass so the watch starts from a clean baseline.
	if err := engine.AnalyzeDirectory(cmd.Context(), target); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Watching %s\n", target)
	return watch(cmd.Context(), engine, target)
}

func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid format %q (want json or text)", format)
	}
}
