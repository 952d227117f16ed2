// sbmconv converts a glTF scene into a single SBM static mesh file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/sbmconv/internal/config"
	"github.com/Faultbox/sbmconv/internal/convert"
	"github.com/Faultbox/sbmconv/internal/logger"
	"github.com/Faultbox/sbmconv/internal/scene/gltfscene"
	"github.com/Faultbox/sbmconv/pkg/encoding"
	"github.com/Faultbox/sbmconv/pkg/sbm"
)

var errNoInput = errors.New("no input file")

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.SaveConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}

	if err := run(cfg, config.InputPath()); err != nil {
		if errors.Is(err, errNoInput) {
			printUsage()
		}
		logger.Error("Conversion failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `sbmconv - convert a glTF scene to an SBM static mesh file

Usage:
  sbmconv [options] <input.gltf|input.glb>

Options:`)
	flag.PrintDefaults()
}

func run(cfg *config.Config, input string) error {
	if input == "" {
		return errNoInput
	}

	names, err := encoding.Lookup(cfg.Output.NameEncoding)
	if err != nil {
		return err
	}
	logger.Debug("Name encoding selected", zap.String("encoding", names.Name()))

	logger.Info("Importing scene", zap.String("input", input))
	s, err := gltfscene.Load(input, gltfscene.Options{
		DefaultMaterial:  cfg.Import.DefaultMaterial,
		GenerateTangents: cfg.Import.GenerateTangents,
		Logger:           logger.Log,
	})
	if err != nil {
		return err
	}

	doc, stats, err := convert.New(logger.Log).Convert(s)
	if err != nil {
		return err
	}

	// Meshes are dropped as they are written, so everything printed below
	// comes from stats.
	err = sbm.WriteFile(cfg.Output.Path, doc, sbm.WriteOptions{
		Names:         names,
		ReleaseMeshes: true,
	})
	if err != nil {
		return err
	}

	logger.Info("Wrote SBM file",
		zap.String("output", cfg.Output.Path),
		zap.String("encoding", names.Name()),
		zap.Int("meshes", stats.Meshes),
		zap.Int("materials", stats.Materials))

	fmt.Printf("Output:    %s\n", cfg.Output.Path)
	fmt.Printf("Meshes:    %d\n", stats.Meshes)
	fmt.Printf("Materials: %d\n", stats.Materials)
	fmt.Printf("Vertices:  %d\n", stats.Vertices)
	fmt.Printf("Triangles: %d\n", stats.Triangles)
	if n := stats.DroppedPolygons + stats.DegeneratePolygons; n > 0 {
		logger.Warn("Polygons skipped during conversion",
			zap.Int("dropped", stats.DroppedPolygons),
			zap.Int("degenerate", stats.DegeneratePolygons))
		fmt.Printf("Skipped:   %d polygons (%d without material, %d degenerate)\n",
			n, stats.DroppedPolygons, stats.DegeneratePolygons)
	}
	if n := logger.WarningCount(); n > 0 {
		fmt.Printf("Warnings:  %d\n", n)
	}
	return nil
}
