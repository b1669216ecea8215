package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treestrut/pkg/treesupport"
)

func newInspectCmd() *cobra.Command {
	var (
		configPath string
		output     string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "inspect [scene.json]",
		Short: "Render the branch forest of a scene as DOT or SVG",
		Long: `Render the branch forest of a scene as DOT or SVG.

The inspect command runs the support pipeline with a forest recorder
attached and renders every parent→child node relation the drop produced.
This shows where branches merge, drift around the model and root, which
makes placement problems visible before printing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "dot" && format != "svg" {
				return fmt.Errorf("invalid format: %q (must be dot or svg)", format)
			}
			return runInspect(cmd.Context(), args[0], configPath, output, format)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "treestrut.toml", "machine and settings config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: scene name with .forest.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), dot")

	return cmd
}

func runInspect(ctx context.Context, scenePath, configPath, output, format string) error {
	logger := loggerFromContext(ctx)

	storage, _, err := loadScene(scenePath, configPath)
	if err != nil {
		return err
	}
	if output == "" {
		base := scenePath[:len(scenePath)-len(filepath.Ext(scenePath))]
		output = base + ".forest." + format
	}

	spinner := newSpinnerWithContext(ctx, "Dropping branches...")
	spinner.Start()
	forest := &treesupport.Forest{}
	ts := treesupport.New(storage, logger)
	ts.RecordForest(forest)
	ts.GenerateSupportAreas(ctx, storage)
	spinner.Stop()

	if len(forest.Edges()) == 0 {
		printWarning("No branches were dropped; nothing to render")
	}

	dot := forest.ToDOT()
	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = renderSVG(ctx, dot)
		if err != nil {
			printError("Rendering failed")
			return err
		}
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Forest written to %s", output)
	printDetail("%d branch segments", len(forest.Edges()))
	return nil
}

// renderSVG renders a DOT graph to SVG using Graphviz.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
