package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calibtrack/calibtrack/go-engine/internal/formula"
)

var evalVars []string

var evalCmd = &cobra.Command{
	Use:   "eval <equation>",
	Short: "Evaluate a formula with optional variable bindings",
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	v, err := parseVarFlags(evalVars)
	if err != nil {
		return err
	}
	result, err := formula.EvaluateEquation(args[0], v)
	if err != nil {
		return err
	}
	fmt.Println(formula.FormatCalculation(result, 0, -1))
	return nil
}

// parseVarFlags turns repeated --var name=value flags into bindings.
func parseVarFlags(flags []string) (formula.Vars, error) {
	v := formula.Vars{}
	for _, raw := range flags {
		name, val, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --var %q: want name=value", raw)
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --var %q: %v", raw, err)
		}
		v[strings.TrimSpace(name)] = n
	}
	return v, nil
}

func init() {
	evalCmd.Flags().StringArrayVar(&evalVars, "var", nil, "variable binding name=value (repeatable)")
}
