// hftool is a CLI utility for inspecting and converting height fields.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/geomip/internal/engine/terrain"
	"github.com/Faultbox/geomip/pkg/heightmap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "convert", "cv":
		cmdConvert(args)
	case "generate", "gen":
		cmdGenerate(args)
	case "errors", "lod":
		cmdErrors(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hftool - height field utility

Usage:
  hftool <command> [options]

Commands:
  info <file>                  Show size, spacing and elevation range
  convert <in> <out>           Convert between images (.png/.tif/.bmp) and snapshots (.ghf)
  generate <out>               Write a procedural height field
  errors <file>                Show the per-level geometric error of every patch

Examples:
  hftool info terrain.ghf
  hftool convert -scale 300 heightmap.png terrain.ghf
  hftool generate -size 513 -seed 7 hills.ghf
  hftool errors -patch-size 32 -max-level 5 terrain.ghf`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	spacing := fs.Float64("spacing", 1, "Sample spacing for image input")
	scale := fs.Float64("scale", 1, "Height scale for image input")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hftool info <file>")
		os.Exit(1)
	}

	g, err := heightmap.Load(fs.Arg(0), float32(*spacing), float32(*scale))
	if err != nil {
		fail(err)
	}
	lo, hi := g.Range()

	fmt.Printf("File:    %s\n", fs.Arg(0))
	fmt.Printf("Size:    %d x %d samples\n", g.Size, g.Size)
	fmt.Printf("Spacing: %g\n", g.Spacing)
	fmt.Printf("Extent:  %g world units\n", float32(g.Size-1)*g.Spacing)
	fmt.Printf("Heights: %g .. %g\n", lo, hi)
	fmt.Println()
	fmt.Println("Patch sizes that tile this field:")
	for ps := 4; ps <= 256 && ps <= g.Size-1; ps *= 2 {
		if (g.Size-1)%ps == 0 {
			n := (g.Size - 1) / ps
			fmt.Printf("  %-4d %d x %d patches\n", ps, n, n)
		}
	}
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	spacing := fs.Float64("spacing", 1, "Sample spacing for image input")
	scale := fs.Float64("scale", 1, "Height scale for image input")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: hftool convert <in> <out>")
		os.Exit(1)
	}

	g, err := heightmap.Load(fs.Arg(0), float32(*spacing), float32(*scale))
	if err != nil {
		fail(err)
	}
	if err := write(fs.Arg(1), g); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%d x %d)\n", fs.Arg(1), g.Size, g.Size)
}

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	size := fs.Int("size", 257, "Samples per side")
	seed := fs.Int64("seed", 1, "Noise seed")
	spacing := fs.Float64("spacing", 1, "Sample spacing")
	amplitude := fs.Float64("amplitude", 64, "Height range")
	octaves := fs.Int("octaves", 5, "Noise octaves")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hftool generate [options] <out>")
		os.Exit(1)
	}

	opts := heightmap.DefaultNoiseOptions(*seed)
	opts.Amplitude = float32(*amplitude)
	opts.Octaves = *octaves
	g := heightmap.Generate(*size, float32(*spacing), opts)
	if err := g.Validate(); err != nil {
		fail(err)
	}
	if err := write(fs.Arg(0), g); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%d x %d, seed %d)\n", fs.Arg(0), g.Size, g.Size, *seed)
}

func cmdErrors(args []string) {
	fs := flag.NewFlagSet("errors", flag.ExitOnError)
	patchSize := fs.Int("patch-size", 16, "Cells per patch side")
	maxLevel := fs.Int("max-level", 4, "Coarsest level")
	planar := fs.Float64("planar", 0.5, "Planar error scale")
	spacing := fs.Float64("spacing", 1, "Sample spacing for image input")
	scale := fs.Float64("scale", 1, "Height scale for image input")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hftool errors [options] <file>")
		os.Exit(1)
	}

	g, err := heightmap.Load(fs.Arg(0), float32(*spacing), float32(*scale))
	if err != nil {
		fail(err)
	}
	hf, err := terrain.HeightFieldFromGrid(g)
	if err != nil {
		fail(err)
	}
	opts := terrain.DefaultOptions()
	opts.PatchSize = *patchSize
	opts.MaxLevel = *maxLevel
	opts.PlanarErrorScale = float32(*planar)
	s, err := terrain.Build(hf, opts)
	if err != nil {
		fail(err)
	}

	levels := s.MaxLevel() + 1
	worst := make([]float32, levels)
	sum := make([]float64, levels)
	for _, p := range s.Patches() {
		for l, e := range p.ErrorPerLevel {
			if e > worst[l] {
				worst[l] = e
			}
			sum[l] += float64(e)
		}
	}

	n := float64(len(s.Patches()))
	fmt.Printf("Patches: %d (%d per side)\n", len(s.Patches()), s.PatchesPerSide())
	fmt.Printf("Quadtree: %d nodes, depth %d\n", s.Quadtree().NodeCount(), s.Quadtree().Depth())
	fmt.Println()
	fmt.Printf("  %-6s %-12s %-12s %s\n", "level", "mean", "max", "triangles/patch")
	for l := 0; l < levels; l++ {
		tris := s.Geometry().Variant(terrain.GeometryKey{Level: l}).Triangles()
		fmt.Printf("  %-6d %-12.4f %-12.4f %d\n", l, sum[l]/n, worst[l], tris)
	}
}

// write picks the output format from the file extension.
func write(path string, g *heightmap.Grid) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case heightmap.SnapshotExt:
		return heightmap.Save(path, g)
	case ".png":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := heightmap.EncodePNG(f, g); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported output format %q (use %s or .png)", filepath.Ext(path), heightmap.SnapshotExt)
	}
}
