package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/crillab/booltrainer/analyzer"
	"github.com/crillab/booltrainer/bf"
	"github.com/crillab/booltrainer/circuit"
	"github.com/crillab/booltrainer/config"
	"github.com/crillab/booltrainer/server"
	"github.com/crillab/booltrainer/truthtable"
)

var (
	configPath string
	vars       string
	colorMode  string
	asJSON     bool
	dimacs     bool
	dangling   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "booltrainer",
		Short:        "Truth tables, normal forms and circuits for boolean expressions",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	root.PersistentFlags().StringVar(&colorMode, "color", "auto", "colored output: auto, always or never")

	tableCmd := &cobra.Command{
		Use:   "table EXPRESSION",
		Short: "Prints the truth table of an expression",
		Args:  cobra.ExactArgs(1),
		RunE:  runTable,
	}
	formsCmd := &cobra.Command{
		Use:   "forms EXPRESSION",
		Short: "Prints the conjunctive and disjunctive normal forms of an expression",
		Args:  cobra.ExactArgs(1),
		RunE:  runForms,
	}
	solveCmd := &cobra.Command{
		Use:   "solve EXPRESSION",
		Short: "Looks for an assignment satisfying an expression",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	circuitCmd := &cobra.Command{
		Use:   "circuit FILE",
		Short: "Prints the truth table of a circuit described in a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCircuit,
	}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the analysis API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	for _, cmd := range []*cobra.Command{tableCmd, formsCmd, solveCmd, circuitCmd} {
		cmd.Flags().StringVarP(&vars, "vars", "v", "", "declared variables, separated by commas or spaces")
	}
	for _, cmd := range []*cobra.Command{tableCmd, formsCmd, circuitCmd} {
		cmd.Flags().BoolVar(&asJSON, "json", false, "prints the API response as JSON")
	}
	formsCmd.Flags().BoolVar(&dimacs, "dimacs", false, "prints the CNF in the DIMACS format instead")
	circuitCmd.Flags().StringVar(&dangling, "dangling", "", "policy for unwired input slots: fatal or float (default from config)")
	root.AddCommand(tableCmd, formsCmd, solveCmd, circuitCmd, serveCmd)
	return root
}

func newAnalyzer() (*analyzer.Analyzer, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return analyzer.New(truthtable.New(cfg.Table)), cfg, nil
}

// declared returns the variables given by the --vars flag.
func declared() analyzer.Variables { return analyzer.SplitVariables(vars) }

// colored tells whether the output to w should be colored.
func colored(w io.Writer) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// failure reports an analysis error along with its kind.
func failure(err error) error {
	return fmt.Errorf("%s: %w", analyzer.Kind(err), err)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runTable(cmd *cobra.Command, args []string) error {
	an, _, err := newAnalyzer()
	if err != nil {
		return err
	}
	v := declared()
	res, err := an.TruthTable(cmd.Context(), analyzer.ExpressionRequest{Expression: args[0], Variables: v})
	if err != nil {
		return failure(err)
	}
	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, res)
	}
	fmt.Fprintln(out, res.Expression)
	renderTable(out, res.Table, colored(out))
	renderAnalysis(out, res.Analysis)
	return nil
}

func runForms(cmd *cobra.Command, args []string) error {
	an, _, err := newAnalyzer()
	if err != nil {
		return err
	}
	v := declared()
	req := analyzer.ExpressionRequest{Expression: args[0], Variables: v}
	out := cmd.OutOrStdout()
	if dimacs {
		f, err := bf.Parse(req.Expression, req.Variables)
		if err != nil {
			return failure(err)
		}
		return bf.Dimacs(f, out)
	}
	res, err := an.NormalForms(cmd.Context(), req)
	if err != nil {
		return failure(err)
	}
	if asJSON {
		return printJSON(out, res)
	}
	fmt.Fprintf(out, "original: %s\ncnf:      %s\ndnf:      %s\nmost compact: %s\n",
		res.Original, res.CNF, res.DNF, res.Complexity.MostCompact)
	return nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	v := declared()
	f, err := bf.Parse(args[0], v)
	if err != nil {
		return failure(err)
	}
	out := cmd.OutOrStdout()
	model := bf.Solve(f)
	if model == nil {
		fmt.Fprintln(out, "UNSATISFIABLE")
		return nil
	}
	fmt.Fprintln(out, "SATISFIABLE")
	keys := make([]string, 0, len(model))
	for k := range model {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s: %t\n", k, model[k])
	}
	return nil
}

// readScheme reads a circuit from a JSON file, or a YAML one if its extension says so.
func readScheme(path string) (*circuit.Scheme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %v", path, err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var s circuit.Scheme
		if err := yaml.NewDecoder(f).Decode(&s); err != nil {
			return nil, fmt.Errorf("could not parse scheme in %q: %v", path, err)
		}
		return &s, nil
	default:
		return circuit.DecodeScheme(f)
	}
}

func runCircuit(cmd *cobra.Command, args []string) error {
	an, cfg, err := newAnalyzer()
	if err != nil {
		return err
	}
	v := declared()
	s, err := readScheme(args[0])
	if err != nil {
		return err
	}
	policy := dangling
	if policy == "" {
		policy = cfg.DanglingPolicy().String()
	}
	res, err := an.Circuit(cmd.Context(), analyzer.SchemeRequest{Scheme: s, Variables: v, Dangling: policy})
	if err != nil {
		return failure(err)
	}
	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, res)
	}
	for _, o := range res.Outputs {
		if f, ok := res.Formulas[o]; ok {
			fmt.Fprintf(out, "%s = %s\n", o, f)
		}
	}
	renderTable(out, res.Table, colored(out))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	an, cfg, err := newAnalyzer()
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(cfg, an, logger).Run(ctx)
}
