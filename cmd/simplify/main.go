// simplify - Quadric error metric mesh simplifier
// Reduces the triangle count of an OBJ or GLB mesh by collapsing edges.
//
// Usage:
//
//	simplify [flags] <input> <output> <ratio>
//
// ratio is the fraction of triangles to remove, in [0, 1).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/xalanq/mesh-simplification/internal/config"
	"github.com/xalanq/mesh-simplification/pkg/models"
	"github.com/xalanq/mesh-simplification/pkg/simplify"
)

var version = "dev"

type cliOptions struct {
	configPath string
	flags      config.Flags
	quiet      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "simplify [flags] <input> <output> <ratio>",
		Short: "Reduce the triangle count of a mesh",
		Long: "simplify collapses the cheapest edges of a triangle mesh, measured by the\n" +
			"quadric error metric, until ratio of its triangles have been removed.\n" +
			"OBJ and GLB files are read and written based on their extension.",
		Example: "  simplify bunny.obj bunny-small.obj 0.5\n" +
			"  simplify --degenerate reject scan.glb scan-small.glb 0.9",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return fmt.Errorf("expected <input> <output> <ratio>, got %d argument(s)", len(args))
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ratio, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid ratio %q: %w", args[2], err)
			}
			return run(cmd.Context(), args[0], args[1], ratio, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON config file")
	f.Float64Var(&opts.flags.MaxDistance, "max-distance", 0, "Never collapse vertex pairs at least this far apart")
	f.Float64Var(&opts.flags.MaxCost, "max-cost", 0, "Refuse collapses with at least this quadric error")
	f.StringVar(&opts.flags.Degenerate, "degenerate", "", "Degenerate triangle policy: zero or reject")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Only print errors")

	return cmd
}

func run(ctx context.Context, inputPath, outputPath string, ratio float64, opts cliOptions) error {
	var cfg config.Config
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return err
		}
	}
	cfg.Resolve(opts.flags)

	simplifyOpts, err := cfg.Options()
	if err != nil {
		return err
	}

	logf := func(format string, args ...any) {
		if !opts.quiet {
			fmt.Printf(format, args...)
		}
	}

	logf("Loading %s...\n", inputPath)
	mesh, err := models.Load(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	logf("Loaded: %s (%d vertices, %d triangles)\n", filepath.Base(inputPath), mesh.VertexCount(), mesh.TriangleCount())
	size, center := mesh.Size(), mesh.Center()
	logf("Bounds: %.4g x %.4g x %.4g centered at (%.4g, %.4g, %.4g)\n", size.X, size.Y, size.Z, center.X, center.Y, center.Z)

	start := time.Now()
	out, stats, err := simplify.Simplify(ctx, mesh, ratio, simplifyOpts)
	if err != nil {
		return fmt.Errorf("simplify %s: %w", filepath.Base(inputPath), err)
	}
	elapsed := time.Since(start)

	logf("Simplified: %d -> %d triangles, %d -> %d vertices (%d collapses in %v)\n",
		stats.InputTriangles, stats.OutputTriangles,
		stats.InputVertices, stats.OutputVertices,
		stats.Collapses, elapsed.Round(time.Millisecond))
	if stats.SingularSolves > 0 || stats.DegenerateFaces > 0 {
		logf("Note: %d midpoint placements, %d degenerate faces\n", stats.SingularSolves, stats.DegenerateFaces)
	}

	if err := models.Save(outputPath, out); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	logf("Saved: %s\n", outputPath)
	return nil
}
