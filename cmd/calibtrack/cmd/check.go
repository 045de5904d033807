package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calibtrack/calibtrack/go-engine/internal/formula"
)

var checkCmd = &cobra.Command{
	Use:   "check <equation>",
	Short: "Validate a formula: syntax, variables, pass/fail shape",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	eq := args[0]
	if _, err := formula.Parse(eq); err != nil {
		return fmt.Errorf("syntax: %w", err)
	}
	ok, unknown := formula.ValidateVariables(eq)
	if !ok {
		return fmt.Errorf("unknown variables: %s", strings.Join(unknown, ", "))
	}

	names := formula.ListVariables(eq)
	if len(names) == 0 {
		fmt.Println("variables: (none)")
	} else {
		fmt.Printf("variables: %s\n", strings.Join(names, ", "))
	}
	if formula.HasComparison(eq) {
		fmt.Println("pass/fail condition: yes (condition mode)")
	} else {
		fmt.Println("pass/fail condition: no (tolerance band)")
	}
	return nil
}
