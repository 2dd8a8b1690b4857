package gltf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfkit/pkg/buffer"
	"github.com/Faultbox/gltfkit/pkg/encoding"
)

// Options controls loading.
type Options struct {
	// Fetcher reads external references. Load defaults to a cached
	// FileFetcher rooted at the asset's directory.
	Fetcher Fetcher
	// Logger receives warnings. nil discards them.
	Logger *zap.Logger
	// Progress receives the fraction of references read, or -1 while the
	// total is not known yet.
	Progress func(float64)
	// LegacyByteLength lets buffer views without byteLength extend to the
	// end of their buffer. Some old exporters omit the field.
	LegacyByteLength bool
	// RejectDataURIs makes embedded data: URIs a fetch error.
	RejectDataURIs bool
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Options) progress(p float64) {
	if o.Progress != nil {
		o.Progress(p)
	}
}

// Load reads a .gltf or binary container file and everything it references.
func Load(ctx context.Context, path string, opts Options) (*Asset, error) {
	opts.progress(-1)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewCachingFetcher(FileFetcher{BaseDir: filepath.Dir(path)})
	}

	if IsBinary(data) {
		return ReadBinary(ctx, data, opts)
	}
	return ReadJSON(ctx, data, opts)
}

// ReadBinary loads an asset from binary container bytes. The container
// body becomes the buffer with id buffer.BinaryContainerID.
func ReadBinary(ctx context.Context, data []byte, opts Options) (*Asset, error) {
	c, err := ParseBinary(data, opts.logger())
	if err != nil {
		return nil, err
	}
	return read(ctx, c.Scene, c.Body, true, opts)
}

// ReadJSON loads an asset from a JSON scene description.
func ReadJSON(ctx context.Context, data []byte, opts Options) (*Asset, error) {
	return read(ctx, data, nil, false, opts)
}

func read(ctx context.Context, scene, body []byte, binary bool, opts Options) (*Asset, error) {
	log := opts.logger()

	text, err := encoding.SceneText(encoding.TrimPadding(scene))
	if err != nil {
		return nil, err
	}
	doc, diags, err := DecodeDocument(text)
	if err != nil {
		return nil, err
	}
	if v := doc.Asset.Version; v != "" && v != "1" && !strings.HasPrefix(v, "1.") {
		log.Warn("unexpected asset version", zap.String("version", v))
	}

	a := newAsset(doc, diags, binary)
	a.scene = text
	if binary {
		a.Buffers[buffer.BinaryContainerID] = buffer.NewRawBuffer(buffer.BinaryContainerID, body)
	}

	if err := a.fetchReferences(ctx, opts); err != nil {
		return nil, err
	}

	decls := make(map[string]buffer.Declaration, len(doc.BufferViews))
	for id, v := range doc.BufferViews {
		decls[id] = v.Declaration()
	}
	views, errs := buffer.Resolve(decls, a.Buffers, buffer.ResolveOptions{LegacyByteLength: opts.LegacyByteLength})
	a.BufferViews = views
	for _, err := range errs {
		var re *buffer.ResolveError
		if errors.As(err, &re) {
			a.ViewErrors[re.ViewID] = re.Err
		}
		log.Warn("skipping buffer view", zap.Error(err))
	}

	return a, nil
}

// fetchReferences reads every external reference in order. Cancellation
// aborts the load; any other failure is recorded and loading continues.
func (a *Asset) fetchReferences(ctx context.Context, opts Options) error {
	log := opts.logger()
	refs := a.References()

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("loading %s %s: %w", ref.Kind, ref.Name, err)
		}

		data, err := fetch(ctx, ref.URI, opts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("loading %s %s: %w", ref.Kind, ref.Name, ctxErr)
			}
			log.Warn("failed to fetch reference",
				zap.Stringer("kind", ref.Kind),
				zap.String("name", ref.Name),
				zap.Error(err))
			a.FetchErrors = append(a.FetchErrors, &FetchError{Reference: ref, Err: err})
		} else {
			a.store(ref, data)
		}

		opts.progress(float64(i+1) / float64(len(refs)))
	}
	if len(refs) == 0 {
		opts.progress(1)
	}
	return nil
}

func fetch(ctx context.Context, uri string, opts Options) ([]byte, error) {
	if IsDataURI(uri) {
		if opts.RejectDataURIs {
			return nil, fmt.Errorf("%w: embedded data", ErrUnsupportedURI)
		}
		return DecodeDataURI(uri)
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher for %q", ErrUnsupportedURI, uri)
	}
	return opts.Fetcher.Fetch(ctx, uri)
}

func (a *Asset) store(ref Reference, data []byte) {
	switch ref.Kind {
	case BufferRef:
		a.Buffers[ref.Name] = buffer.NewRawBuffer(ref.Name, data)
		if declared := a.Document.Buffers[ref.Name].ByteLength; declared > 0 && declared != len(data) {
			a.Diagnostics = append(a.Diagnostics, Diagnostic{
				Path:    "$.buffers." + ref.Name + ".byteLength",
				Message: fmt.Sprintf("declared %d bytes, fetched %d", declared, len(data)),
			})
		}
	case ImageRef:
		a.images[ref.Name] = data
	case ShaderRef:
		a.shaders[ref.Name] = data
	}
}
