package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chazu/bim2city/pkg/bim"
	"github.com/chazu/bim2city/pkg/engine"
	"github.com/chazu/bim2city/pkg/exchange"
)

// inspectCmd shows what the geometry engine makes of one element: the
// exchange document it receives and the triangles it returns per instance.
func inspectCmd(g *globalFlags) *cobra.Command {
	var (
		input     string
		elementID string
		raw       bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Tessellate a single element and report the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.setup(cmd, input)
			if err != nil {
				return err
			}
			m, err := bim.Load(input)
			if err != nil {
				return err
			}
			el := m.Get(bim.ElementID(elementID))
			if el == nil {
				return fmt.Errorf("element %q not found", elementID)
			}

			data, err := exchange.Marshal(m, el)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				_, err := out.Write(data)
				return err
			}
			return inspect(out, newEngine(cfg), cfg.Conversion.PostProcessing, data)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Model document (YAML or JSON)")
	cmd.Flags().StringVarP(&elementID, "element", "e", "", "Element id")
	cmd.Flags().BoolVar(&raw, "exchange", false, "Print the exchange document instead of tessellating")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("element")
	return cmd
}

func inspect(out io.Writer, eng *engine.Engine, postProcessing bool, data []byte) error {
	model, err := eng.OpenModel(data)
	if err != nil {
		var perr *engine.ParseError
		if errors.As(err, &perr) {
			return fmt.Errorf("exchange document line %d: %s", perr.Line, perr.Message)
		}
		return err
	}
	defer model.Close()

	model.SetPostProcessing(postProcessing)
	sp, err := model.InitializeModelling()
	if err != nil {
		return fmt.Errorf("tessellation failed: %w", err)
	}
	geom, err := model.FinalizeModelling(sp)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "vertices: %d\nindices: %d\n", sp.VertexCount, sp.IndexCount)
	if geom == nil {
		return nil
	}
	for _, inst := range model.All() {
		vp := inst.VisualisationProperties()
		fmt.Fprintf(out, "%s %s: start %d, triangles %d\n", inst.TypeName, inst.ID, vp.StartIndex, vp.PrimitiveCount)
	}
	return nil
}
