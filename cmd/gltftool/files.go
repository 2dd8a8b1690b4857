package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfkit/pkg/gltf"
)

func (t *tool) cmdExtract(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	fs.Parse(args)
	if err := requireArgs(fs, 2, "extract <file> <image|shader id> [output_dir]"); err != nil {
		return err
	}
	id := fs.Arg(1)
	outputDir := "."
	if fs.NArg() > 2 {
		outputDir = fs.Arg(2)
	}

	a, err := t.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	data, ext, err := payload(a, id)
	if err != nil {
		return err
	}

	outputPath := filepath.Join(outputDir, id+"."+ext)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	fmt.Printf("Extracted: %s (%d bytes)\n", outputPath, len(data))
	return nil
}

// payload finds id among images, then shaders, and picks a file extension.
// Image extensions come from the payload's magic bytes.
func payload(a *gltf.Asset, id string) ([]byte, string, error) {
	data, err := a.ImageData(id)
	if err == nil {
		ext := "bin"
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			ext = kind.Extension
		}
		return data, ext, nil
	}
	if !errors.Is(err, gltf.ErrMissingImage) || a.Document.Images[id] != nil {
		return nil, "", err
	}

	data, err = a.ShaderSource(id)
	if err != nil {
		return nil, "", fmt.Errorf("no image or shader %q: %w", id, err)
	}
	return data, "glsl", nil
}

func (t *tool) cmdPack(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	fs.Parse(args)
	if err := requireArgs(fs, 2, "pack <file.gltf> <out.glb>"); err != nil {
		return err
	}

	a, err := t.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if len(a.FetchErrors) > 0 {
		return fmt.Errorf("cannot pack with missing references: %w", a.FetchErrors[0])
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return err
	}
	if err := gltf.Pack(a, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	t.log.Info("packed", zap.String("from", fs.Arg(0)), zap.String("to", fs.Arg(1)))
	return nil
}

func (t *tool) cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() > 0 {
		path := fs.Arg(0)
		if err := t.cfg.SaveTo(path); err != nil {
			return err
		}
		fmt.Printf("Saved: %s\n", path)
		return nil
	}

	data, err := t.cfg.Marshal("config.yaml")
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
