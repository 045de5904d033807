package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/calibtrack/calibtrack/go-engine/internal/config"
	"github.com/calibtrack/calibtrack/go-engine/internal/formula"
)

const historyFile = ".calibtrack_history"

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive formula console",
	Long: `Evaluate formulas interactively. "name = value" binds a variable for
later formulas; :vars lists bindings, :quit exits.`,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	fmt.Println("calibtrack formula console. Type :quit to exit.")

	// Results honor default_sig_figs; edits to the config file apply to the
	// running console without a restart.
	var sigFigs atomic.Int32
	sigFigs.Store(int32(loadConfig().DefaultSigFigs))
	if configPath != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := config.Watch(ctx, configPath, func(c *config.Config) {
				sigFigs.Store(int32(c.DefaultSigFigs))
			}); err != nil {
				log.Printf("config: watch: %v", err)
			}
		}()
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	v := formula.Vars{}
	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		ln.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			switch strings.ToLower(input) {
			case ":quit", ":q":
				return nil
			case ":vars":
				printVars(v)
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		if name, ok := tryBinding(input, v); ok {
			fmt.Printf("%s bound\n", name)
			continue
		}

		result, err := formula.EvaluateEquation(input, v)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			continue
		}
		fmt.Println(formula.FormatCalculation(result, int(sigFigs.Load()), -1))
	}
}

// tryBinding handles "name = 1.5" inputs. A lone "=" distinguishes a binding
// from a "==" comparison formula.
func tryBinding(input string, v formula.Vars) (string, bool) {
	eq := strings.Index(input, "=")
	if eq <= 0 || eq+1 >= len(input) {
		return "", false
	}
	if input[eq+1] == '=' || input[eq-1] == '<' || input[eq-1] == '>' || input[eq-1] == '!' {
		return "", false
	}
	name := strings.TrimSpace(input[:eq])
	if strings.ContainsAny(name, " \t()[]+-*/^%,") {
		return "", false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(input[eq+1:]), 64)
	if err != nil {
		return "", false
	}
	v[name] = n
	return name, true
}

func printVars(v formula.Vars) {
	if len(v) == 0 {
		fmt.Println("(no bindings)")
		return
	}
	for name, val := range v {
		fmt.Printf("%s = %s\n", name, formula.FormatCalculation(val, 0, -1))
	}
}
