package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // base path; the format is appended as extension
	formats  []string // "dot", "svg", "json"
	detailed bool     // add ids, shapes and non-zero counts to labels
	regions  bool     // cluster expansion regions
	noCache  bool     // bypass the artifact cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [demo|graph.json]",
		Short: "Render a graph as a node-link diagram",
		Long: `Render a demo graph, or a graph file in the JSON node-link format, to
Graphviz DOT, SVG and/or JSON.

SVG documents are cached by the hash of the graph and the render options,
so re-rendering an unchanged graph is instant. Use --no-cache to force a fresh render.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = c.parseFormats(formatsStr)
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = c.Config.Render.Detailed
			}
			if opts.output == "" {
				opts.output = strings.TrimSuffix(args[0], ".json")
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	demoArgs(cmd)

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: <demo> or the graph file without .json)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output formats: dot, svg, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids, shapes and non-zero counts")
	cmd.Flags().BoolVar(&opts.regions, "regions", false, "cluster expansion regions")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, name string, opts renderOpts) error {
	if err := pipeline.ValidateFormats(opts.formats); err != nil {
		return err
	}
	if err := errors.ValidatePath(opts.output); err != nil {
		return err
	}
	for _, format := range opts.formats {
		if opts.output+"."+format == name {
			return errors.New(errors.ErrCodeInvalidPath, "%s output would overwrite %s", format, name)
		}
	}

	store := c.newCache(ctx, opts.noCache)
	defer store.Close()
	runner := c.newRunner(store)

	var spinner *Spinner
	if slices.Contains(opts.formats, pipeline.FormatSVG) {
		spinner = newSpinner(ctx, os.Stderr, "Rendering...")
		spinner.Start()
	}
	popts := c.sourceOptions(name)
	popts.Formats = opts.formats
	popts.Detailed = opts.detailed
	popts.Regions = opts.regions
	result, err := runner.Execute(ctx, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	var paths []string
	for _, format := range opts.formats {
		path := opts.output + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess(w, "Rendered %s", name)
	for _, p := range paths {
		printFile(w, p)
	}
	printStats(w, result.Stats.NodeCount, result.Stats.OutputCount, result.CacheInfo.RenderHit)
	return nil
}
