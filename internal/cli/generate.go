package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treestrut/pkg/cache"
	"github.com/matzehuels/treestrut/pkg/sliceio"
	"github.com/matzehuels/treestrut/pkg/treesupport"
)

// defaultCacheDir is the subdirectory under the user cache dir where
// generated artifacts live.
const defaultCacheDir = "treestrut"

func newGenerateCmd() *cobra.Command {
	var (
		configPath string
		output     string
		noCache    bool
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "generate [scene.json]",
		Short: "Generate tree support for a sliced scene",
		Long: `Generate tree support for a sliced scene.

The scene file carries per-layer model outlines and per-mesh overhang
areas; the config file carries the machine description and the support
settings. The generated support (infill parts, roof and floor polygons
per layer) is written as JSON.

Results are cached locally keyed by the scene and settings, so repeated
runs on an unchanged scene skip the pipeline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), args[0], configPath, output, noCache, watch)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "treestrut.toml", "machine and settings config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: scene name with .support.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&watch, "watch", false, "show a live progress bar")

	return cmd
}

func runGenerate(ctx context.Context, scenePath, configPath, output string, noCache, watch bool) error {
	logger := loggerFromContext(ctx)

	storage, cfg, err := loadScene(scenePath, configPath)
	if err != nil {
		return err
	}
	if output == "" {
		base := scenePath[:len(scenePath)-len(filepath.Ext(scenePath))]
		output = base + ".support.json"
	}

	store, err := openCache(noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	sceneData, err := os.ReadFile(scenePath)
	if err != nil {
		return fmt.Errorf("read scene %s: %w", scenePath, err)
	}
	key := cache.Key("support", cache.Hash(sceneData), cfg)

	if artifact, hit, err := store.Get(ctx, key); err == nil && hit {
		if err := os.WriteFile(output, artifact, 0644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Support written to %s %s", output, cacheBadge(true))
		return nil
	}

	track := newProgress(logger)
	generate := func() error {
		ts := treesupport.New(storage, logger)
		ts.GenerateSupportAreas(ctx, storage)
		return nil
	}

	if watch {
		err = runWithProgressUI(generate)
	} else {
		spinner := newSpinnerWithContext(ctx, "Generating support...")
		spinner.Start()
		err = generate()
		spinner.Stop()
	}
	if err != nil {
		printError("Generation failed")
		return err
	}
	track.done(fmt.Sprintf("Generated support for %d layers", storage.NumLayers()))

	var buf bytes.Buffer
	if err := sliceio.WriteSupport(storage, &buf); err != nil {
		return fmt.Errorf("encode support: %w", err)
	}
	if err := store.Set(ctx, key, buf.Bytes(), 0); err != nil {
		logger.Debug("cache write failed", "err", err)
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Support written to %s %s", output, cacheBadge(false))
	if maxFilled := storage.Support.MaxFilledLayer(); maxFilled >= 0 {
		printDetail("highest filled layer: %d", maxFilled)
	} else {
		printDetail("no support needed")
	}
	return nil
}

// openCache returns the artifact cache: a file cache under the user cache
// dir, or a null cache when disabled or unavailable.
func openCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(base, defaultCacheDir))
}
