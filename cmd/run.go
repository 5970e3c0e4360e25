/*
Copyright © 2023 Glossopoeia
*/
package cmd

import (
	"io"
	"os"

	"github.com/glossopoeia/saturate/egraph"
	"github.com/glossopoeia/saturate/runtime"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type runOptions struct {
	trace       bool
	disassemble bool
}

func (o *runOptions) addFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&o.trace, "trace", false, "print the value stack after every instruction")
	flags.BoolVar(&o.disassemble, "disassemble", false, "print every compiled program and executed instruction")
}

func (o *runOptions) machine(out io.Writer) *runtime.Machine {
	m := runtime.NewReleaseMachine()
	m.TraceValues = o.trace
	m.TraceExecution = o.disassemble
	m.Out = out
	return m
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file and print the result of each command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			eg := egraph.New(egraph.WithMachine(opts.machine(cmd.ErrOrStderr())))
			out := cmd.OutOrStdout()
			return scenario.Run(eg, out, isTerminal(out))
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
