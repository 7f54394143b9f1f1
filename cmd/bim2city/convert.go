package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/chazu/bim2city/pkg/bim"
	"github.com/chazu/bim2city/pkg/citygml"
	"github.com/chazu/bim2city/pkg/config"
	"github.com/chazu/bim2city/pkg/convert"
)

func convertCmd(g *globalFlags) *cobra.Command {
	var input, output, metricsFile string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a model document to CityGML",
		Example: `  bim2city convert -i house.yaml -o house.gml
  bim2city convert -i house.yaml -c strict.yaml > house.gml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup(cmd, input)
			if err != nil {
				return err
			}
			if err := runConvert(cmd, cfg, logger, input, output); err != nil {
				return err
			}
			if metricsFile != "" {
				return writeMetrics(prometheus.DefaultGatherer, metricsFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Model document (YAML or JSON)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write conversion metrics in Prometheus text format")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runConvert(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, input, output string) error {
	m, err := loadValidModel(logger, input)
	if err != nil {
		return err
	}

	conv := convert.New(m, convert.NewEngineAdapter(newEngine(cfg)),
		convert.WithLogger(logger),
		convert.WithGeometryErrorPolicy(cfg.GeometryErrorPolicy()),
		convert.WithPostProcessing(cfg.Conversion.PostProcessing),
		convert.WithPruneEmptyRooms(cfg.Conversion.PruneEmptyRooms),
	)

	// Convert fully before touching the output so a failed run leaves no
	// partial file behind.
	doc, err := conv.Convert()
	if err != nil {
		return err
	}
	for _, cerr := range conv.SkippedErrors() {
		logger.Warn("element dropped", slog.String("error", cerr.Error()))
	}

	opts := []citygml.EncoderOption{
		citygml.WithIndent(cfg.Output.Indent),
		citygml.WithSrsName(cfg.Output.SrsName),
	}
	if output == "-" || output == "" {
		return citygml.NewEncoder(cmd.OutOrStdout(), opts...).Encode(doc)
	}

	enc := func(w io.Writer) error { return citygml.NewEncoder(w, opts...).Encode(doc) }
	if err := writeFile(output, enc); err != nil {
		return err
	}
	logger.Info("document written", slog.String("path", output))
	return nil
}

// writeFile creates path and fills it with write. The file is removed when
// writing fails so no truncated document is left behind.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	err = write(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write output file: %w", cerr)
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// loadValidModel reads a model and refuses it when structural validation
// reports blocking errors. Warnings are logged.
func loadValidModel(logger *slog.Logger, path string) (*bim.Model, error) {
	m, err := bim.Load(path)
	if err != nil {
		return nil, err
	}
	res := bim.ValidateAll(m)
	for _, w := range res.Warnings {
		logger.Warn("model warning", slog.String("finding", w.Error()))
	}
	if !res.OK() {
		for _, e := range res.Errors {
			logger.Error("model error", slog.String("finding", e.Error()))
		}
		return nil, fmt.Errorf("%s: model has %d validation errors", path, len(res.Errors))
	}
	return m, nil
}
