// gltftool is a CLI utility for inspecting glTF 1.0 assets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfkit/internal/config"
	"github.com/Faultbox/gltfkit/internal/logger"
	"github.com/Faultbox/gltfkit/pkg/gltf"
)

type tool struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command, args := args[0], args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	t := &tool{cfg: cfg, log: logger.Named("gltftool")}

	switch command {
	case "info":
		err = t.cmdInfo(ctx, args)
	case "refs":
		err = t.cmdRefs(ctx, args)
	case "accessors", "acc":
		err = t.cmdAccessors(ctx, args)
	case "dump":
		err = t.cmdDump(ctx, args)
	case "bounds":
		err = t.cmdBounds(ctx, args)
	case "extract", "x":
		err = t.cmdExtract(ctx, args)
	case "pack":
		err = t.cmdPack(ctx, args)
	case "config":
		err = t.cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		stop()
		os.Exit(1)
	}
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gltftool - glTF 1.0 asset utility

Usage:
  gltftool [global options] <command> [options]

Commands:
  info <file>                       Show asset summary and problems
  refs <file>                       List external references
  accessors <file>                  List accessors with computed min/max
  dump <file> <accessor>            Print accessor elements
  bounds <file> [scene]             Compute the bounding box
  extract <file> <id> [output]      Write an image or shader payload to disk
  pack <file.gltf> <out.glb>        Convert to a binary container
  config [output]                   Print or save the effective configuration

Global options:
  -config <path>        Config file (.yaml or .toml)
  -debug                Debug logging
  -locale <tag>         Locale for dump number formatting
  -legacy-bytelength    Accept buffer views without byteLength
  -no-data-uris         Refuse embedded data: URIs
  -log-file <path>      Also log to a rotated file

Examples:
  gltftool info duck.gltf
  gltftool -locale de dump duck.glb accessor_21
  gltftool extract duck.glb texture0 ./out
  gltftool pack duck.gltf duck.glb`)
}

// load reads an asset using the loader settings of the config.
func (t *tool) load(ctx context.Context, path string) (*gltf.Asset, error) {
	lc := t.cfg.Loader

	if lc.MaxFileSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if size := datasize.ByteSize(info.Size()); size > lc.MaxFileSize {
			return nil, fmt.Errorf("%s is %s, limit is %s", path, size.HumanReadable(), lc.MaxFileSize.HumanReadable())
		}
	}

	baseDir := lc.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(path)
	}

	loaderLog := logger.Named("loader")
	a, err := gltf.Load(ctx, path, gltf.Options{
		Fetcher:          gltf.NewCachingFetcher(gltf.FileFetcher{BaseDir: baseDir, MaxSize: lc.MaxFileSize}),
		Logger:           loaderLog,
		LegacyByteLength: lc.LegacyByteLength,
		RejectDataURIs:   !lc.AllowDataURIs,
		Progress: func(p float64) {
			if p >= 0 {
				loaderLog.Debug("loading", zap.String("file", path), zap.Float64("progress", p))
			}
		},
	})
	if err != nil {
		return nil, err
	}

	for _, d := range a.Diagnostics {
		t.log.Debug("diagnostic", zap.String("path", d.Path), zap.String("message", d.Message))
	}
	return a, nil
}

func requireArgs(fs *flag.FlagSet, n int, usage string) error {
	if fs.NArg() < n {
		return fmt.Errorf("usage: gltftool %s", usage)
	}
	return nil
}
