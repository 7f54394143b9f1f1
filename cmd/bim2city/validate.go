package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/bim2city/pkg/bim"
)

func validateCmd(g *globalFlags) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a model document without converting it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := g.setup(cmd, input); err != nil {
				return err
			}
			m, err := bim.Load(input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			res := bim.ValidateAll(m)
			for _, e := range res.Errors {
				fmt.Fprintln(out, e.Error())
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(out, w.Error())
			}
			fmt.Fprintf(out, "%s: %d elements, %d buildings, %d errors, %d warnings\n",
				input, m.Len(), len(m.Buildings()), len(res.Errors), len(res.Warnings))

			if !res.OK() {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Model document (YAML or JSON)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
