package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/c2h5oh/datasize"
	"golang.org/x/text/language"

	"github.com/Faultbox/gltfkit/pkg/accessor"
	"github.com/Faultbox/gltfkit/pkg/bounds"
	"github.com/Faultbox/gltfkit/pkg/gltf"
	"github.com/Faultbox/gltfkit/pkg/math"
)

func (t *tool) cmdInfo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)
	if err := requireArgs(fs, 1, "info <file>"); err != nil {
		return err
	}
	path := fs.Arg(0)

	a, err := t.load(ctx, path)
	if err != nil {
		return err
	}
	doc := a.Document

	format := "JSON"
	if a.IsBinary() {
		format = "binary container"
	}
	fmt.Printf("Asset:     %s\n", path)
	fmt.Printf("Format:    %s\n", format)
	fmt.Printf("Version:   %s\n", doc.Asset.Version)
	if doc.Asset.Generator != "" {
		fmt.Printf("Generator: %s\n", doc.Asset.Generator)
	}
	if len(doc.ExtensionsUsed) > 0 {
		fmt.Printf("Extensions: %s\n", strings.Join(doc.ExtensionsUsed, ", "))
	}
	fmt.Println()

	fmt.Println("Entities:")
	for _, row := range []struct {
		name  string
		count int
	}{
		{"scenes", len(doc.Scenes)},
		{"nodes", len(doc.Nodes)},
		{"meshes", len(doc.Meshes)},
		{"accessors", len(doc.Accessors)},
		{"bufferViews", len(doc.BufferViews)},
		{"buffers", len(doc.Buffers)},
		{"images", len(doc.Images)},
		{"shaders", len(doc.Shaders)},
	} {
		fmt.Printf("  %-12s %d\n", row.name, row.count)
	}
	fmt.Println()

	ids := make([]string, 0, len(a.Buffers))
	var total datasize.ByteSize
	for id, b := range a.Buffers {
		ids = append(ids, id)
		total += datasize.ByteSize(b.Size())
	}
	sort.Strings(ids)
	fmt.Printf("Buffers loaded (%s):\n", total.HumanReadable())
	for _, id := range ids {
		fmt.Printf("  %-24s %s\n", id, datasize.ByteSize(a.Buffers[id].Size()).HumanReadable())
	}

	printProblems(a)
	return nil
}

func printProblems(a *gltf.Asset) {
	if len(a.Diagnostics) > 0 {
		fmt.Printf("\nDiagnostics (%d):\n", len(a.Diagnostics))
		for _, d := range a.Diagnostics {
			fmt.Printf("  %s\n", d)
		}
	}
	if len(a.FetchErrors) > 0 {
		fmt.Printf("\nFailed references (%d):\n", len(a.FetchErrors))
		for _, e := range a.FetchErrors {
			fmt.Printf("  %v\n", e)
		}
	}
	if len(a.ViewErrors) > 0 {
		ids := make([]string, 0, len(a.ViewErrors))
		for id := range a.ViewErrors {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Printf("\nUnresolved buffer views (%d):\n", len(ids))
		for _, id := range ids {
			fmt.Printf("  %-24s %v\n", id, a.ViewErrors[id])
		}
	}
}

func (t *tool) cmdRefs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("refs", flag.ExitOnError)
	fs.Parse(args)
	if err := requireArgs(fs, 1, "refs <file>"); err != nil {
		return err
	}

	a, err := t.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	refs := a.References()
	for _, ref := range refs {
		uri := ref.URI
		if gltf.IsDataURI(uri) {
			uri = fmt.Sprintf("(embedded, %s)", datasize.ByteSize(len(uri)).HumanReadable())
		}
		fmt.Printf("%-8s %-24s %s\n", ref.Kind, ref.Name, uri)
	}
	fmt.Fprintf(os.Stderr, "\n(%d references)\n", len(refs))
	return nil
}

func (t *tool) cmdAccessors(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("accessors", flag.ExitOnError)
	fs.Parse(args)
	if err := requireArgs(fs, 1, "accessors <file>"); err != nil {
		return err
	}

	a, err := t.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(a.Document.Accessors))
	for id := range a.Document.Accessors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		acc := a.Document.Accessors[id]
		fmt.Printf("%-24s %-6s %-14s count=%d\n", id, acc.Type, acc.ComponentType, acc.Count)

		lo, hi, err := accessorRange(a, id)
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		fmt.Printf("  min %v max %v\n", lo, hi)
		if acc.Min != nil || acc.Max != nil {
			fmt.Printf("  declared min %v max %v\n", acc.Min, acc.Max)
		}
	}
	return nil
}

// accessorRange computes the componentwise min and max of an accessor,
// reading it with the storage type of its component width.
func accessorRange(a *gltf.Asset, id string) (lo, hi []float64, err error) {
	acc, ok := a.Document.Accessors[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", gltf.ErrMissingAccessor, id)
	}
	switch acc.ComponentType {
	case accessor.Float:
		v, err := gltf.AccessorView[float32](a, id)
		if err != nil {
			return nil, nil, err
		}
		return toFloats(v.Min()), toFloats(v.Max()), nil
	case accessor.Byte, accessor.UnsignedByte:
		return intRange[int8](a, id)
	case accessor.Short, accessor.UnsignedShort:
		return intRange[int16](a, id)
	case accessor.Int, accessor.UnsignedInt:
		return intRange[int32](a, id)
	default:
		return nil, nil, fmt.Errorf("%w: %d", accessor.ErrInvalidComponentType, int(acc.ComponentType))
	}
}

func intRange[T accessor.Component](a *gltf.Asset, id string) ([]float64, []float64, error) {
	v, err := gltf.AccessorView[T](a, id)
	if err != nil {
		return nil, nil, err
	}
	lo, err := v.MinInt()
	if err != nil {
		return nil, nil, err
	}
	hi, err := v.MaxInt()
	if err != nil {
		return nil, nil, err
	}
	return toFloats(lo), toFloats(hi), nil
}

func toFloats[N int64 | float32](s []N) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s))
	for i, x := range s {
		out[i] = float64(x)
	}
	return out
}

func (t *tool) cmdDump(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	perRow := fs.Int("per-row", t.cfg.Dump.ElementsPerRow, "Elements per line (0 = one line)")
	verb := fs.String("format", t.cfg.Dump.NumberFormat, "fmt verb for numbers")
	fs.Parse(args)
	if err := requireArgs(fs, 2, "dump <file> <accessor>"); err != nil {
		return err
	}

	tag, err := t.cfg.Dump.Tag()
	if err != nil {
		return err
	}
	a, err := t.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	out, err := formatAccessor(a, fs.Arg(1), tag, *verb, *perRow)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func formatAccessor(a *gltf.Asset, id string, tag language.Tag, verb string, perRow int) (string, error) {
	acc, ok := a.Document.Accessors[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", gltf.ErrMissingAccessor, id)
	}
	width, err := acc.ComponentType.Width()
	if err != nil {
		return "", err
	}
	switch {
	case acc.ComponentType == accessor.Float:
		return formatView[float32](a, id, tag, verb, perRow)
	case width == 1:
		return formatView[int8](a, id, tag, verb, perRow)
	case width == 2:
		return formatView[int16](a, id, tag, verb, perRow)
	default:
		return formatView[int32](a, id, tag, verb, perRow)
	}
}

func formatView[T accessor.Component](a *gltf.Asset, id string, tag language.Tag, verb string, perRow int) (string, error) {
	v, err := gltf.AccessorView[T](a, id)
	if err != nil {
		return "", err
	}
	return v.Format(tag, verb, perRow), nil
}

func (t *tool) cmdBounds(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bounds", flag.ExitOnError)
	fs.Parse(args)
	if err := requireArgs(fs, 1, "bounds <file> [scene]"); err != nil {
		return err
	}

	a, err := t.load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	c := bounds.NewComputer(a, t.log.Named("bounds"))
	var box bounds.Box
	if fs.NArg() > 1 {
		box, err = c.ComputeScene(fs.Arg(1), math.Identity())
		if err != nil {
			return err
		}
	} else {
		box = c.ComputeAsset()
	}

	if box.IsEmpty() {
		fmt.Println("No positions found")
		return nil
	}
	fmt.Printf("Min:    %s\n", formatVec(box.Min))
	fmt.Printf("Max:    %s\n", formatVec(box.Max))
	fmt.Printf("Center: %s\n", formatVec(box.Center()))
	fmt.Printf("Size:   %s\n", formatVec(box.Size()))
	return nil
}

func formatVec(v math.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
