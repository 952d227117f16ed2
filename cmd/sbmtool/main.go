// sbmtool is a CLI utility for inspecting and merging SBM mesh files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/sbmconv/pkg/encoding"
	"github.com/Faultbox/sbmconv/pkg/sbm"
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
	case "dump":
		cmdDump(args)
	case "check":
		cmdCheck(args)
	case "merge":
		cmdMerge(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sbmtool - SBM static mesh utility

Usage:
  sbmtool <command> [options]

Commands:
  info <file.sbm>               Show materials and per-mesh counts
  dump <file.sbm>               Dump the decoded document
  check <file.sbm>              Validate references and index ranges
  merge <in.sbm> <out.sbm>      Merge all meshes into one, joining submeshes by material

Every command accepts -encoding <label> for material names (default utf-8).

Examples:
  sbmtool info output.sbm
  sbmtool dump -n 4 output.sbm
  sbmtool merge -encoding euc-kr level.sbm level_merged.sbm`)
}

// open parses the file named by the first positional argument of fs.
func open(fs *flag.FlagSet, label string) *sbm.Document {
	codec, err := encoding.Lookup(label)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	doc, err := sbm.ParseFileWithNames(fs.Arg(0), codec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return doc
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	label := fs.String("encoding", "utf-8", "Material name encoding")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sbmtool info <file.sbm>")
		os.Exit(1)
	}
	doc := open(fs, *label)

	fmt.Printf("File:      %s\n", fs.Arg(0))
	fmt.Printf("Meshes:    %d\n", len(doc.Meshes))
	fmt.Printf("Vertices:  %d\n", doc.TotalVertexCount())
	fmt.Printf("Triangles: %d\n", doc.TotalTriangleCount())
	fmt.Println()

	fmt.Printf("Materials (%d):\n", len(doc.Materials))
	for i, name := range doc.Materials {
		fmt.Printf("  %3d  %q\n", i, name)
	}
	fmt.Println()

	for i := range doc.Meshes {
		mesh := &doc.Meshes[i]
		fmt.Printf("Mesh %d: %d vertices, %d submeshes\n", i, len(mesh.Vertices), len(mesh.Submeshes))
		for j := range mesh.Submeshes {
			sm := &mesh.Submeshes[j]
			name, _ := doc.MaterialName(sm.MaterialIndex)
			fmt.Printf("  %3d  %-24q %d triangles\n", j, name, sm.TriangleCount())
		}
	}
}

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	label := fs.String("encoding", "utf-8", "Material name encoding")
	limit := fs.Int("n", 8, "Limit vertices and indices shown per mesh (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sbmtool dump <file.sbm>")
		os.Exit(1)
	}
	doc := open(fs, *label)

	if *limit > 0 {
		truncate(doc, *limit)
	}

	cfg := spew.NewDefaultConfig()
	cfg.DisableCapacities = true
	cfg.DisablePointerAddresses = true
	cfg.Fdump(os.Stdout, doc)
}

// truncate shortens every vertex and index list of doc to at most n entries.
func truncate(doc *sbm.Document, n int) {
	for i := range doc.Meshes {
		mesh := &doc.Meshes[i]
		if len(mesh.Vertices) > n {
			mesh.Vertices = mesh.Vertices[:n]
		}
		for j := range mesh.Submeshes {
			if sm := &mesh.Submeshes[j]; len(sm.Indices) > n {
				sm.Indices = sm.Indices[:n]
			}
		}
	}
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	label := fs.String("encoding", "utf-8", "Material name encoding")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sbmtool check <file.sbm>")
		os.Exit(1)
	}
	doc := open(fs, *label)

	if err := doc.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", fs.Arg(0), err)
		os.Exit(1)
	}
	fmt.Printf("%s: OK (%d meshes, %d triangles)\n", fs.Arg(0), len(doc.Meshes), doc.TotalTriangleCount())
}

func cmdMerge(args []string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	label := fs.String("encoding", "utf-8", "Material name encoding")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: sbmtool merge <in.sbm> <out.sbm>")
		os.Exit(1)
	}
	doc := open(fs, *label)

	merged, err := sbm.Merge(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	codec, _ := encoding.Lookup(*label)
	if err := sbm.WriteFile(fs.Arg(1), merged, sbm.WriteOptions{Names: codec}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Merged %d meshes into %s (%d materials, %d vertices, %d triangles)\n",
		len(doc.Meshes), fs.Arg(1), len(merged.Materials),
		merged.TotalVertexCount(), merged.TotalTriangleCount())
}
