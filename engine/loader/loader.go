package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sketch/common"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sketch/engine/renderer/texture"
	"github.com/anthonynsimon/bild/transform"
)

// ErrNotImage is returned for files whose contents are not a supported image format.
var ErrNotImage = errors.New("loader: not an image")

// LoaderBackendType identifies the decoding backend to use.
type LoaderBackendType int

const (
	// BackendTypeImage selects the sniffing image decoder (jpeg, png, gif, webp).
	BackendTypeImage LoaderBackendType = iota
)

// Image is a decoded image ready for upload.
type Image struct {
	// Path is the file the image was read from, or the name passed to Decode.
	Path string
	// Format is the sniffed file extension.
	Format string
	// Data holds the RGBA pixels, downscaled to the loader's maximum dimension.
	Data common.TextureStagingData
	// SourceWidth and SourceHeight are the dimensions before downscaling.
	SourceWidth, SourceHeight int
}

// Aspect returns height / width, the plane height a unit-wide tile needs.
func (i Image) Aspect() float32 {
	return i.Data.Aspect()
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	renderer     renderer.Renderer
	workers      int
	maxDimension int

	cache map[string]Image

	backend loaderBackend
}

// Loader decodes image files in parallel and uploads them as textures.
// Results always come back in input order, whatever order the workers finish in.
type Loader interface {
	// Load reads and decodes every path in parallel, returning images in the order of paths.
	// Previously loaded paths are served from the cache.
	//
	// Parameters:
	//   - ctx: cancels loading; images not yet decoded are abandoned
	//   - paths: the files to load
	//
	// Returns:
	//   - []Image: one image per path, in order
	//   - error: the first failure in path order, wrapped with its path
	Load(ctx context.Context, paths ...string) ([]Image, error)

	// LoadDir loads every image in dir sorted by file name. Files that are not images are
	// skipped and logged.
	//
	// Parameters:
	//   - ctx: cancels loading
	//   - dir: the directory to scan (not recursive)
	//
	// Returns:
	//   - []Image: the images, sorted by file name
	//   - error: an error if the directory cannot be read, holds no images, or an image fails to decode
	LoadDir(ctx context.Context, dir string) ([]Image, error)

	// Decode sniffs and decodes in-memory data, applying the maximum dimension.
	//
	// Parameters:
	//   - name: a label for the image
	//   - data: the raw file contents
	//
	// Returns:
	//   - Image: the decoded image
	//   - error: ErrNotImage or a decode error
	Decode(name string, data []byte) (Image, error)

	// Upload creates one texture per image with the loader's renderer.
	//
	// Parameters:
	//   - images: the images to upload
	//
	// Returns:
	//   - []texture.Texture: the textures, in the order of images
	//   - error: an error if no renderer is set or an upload fails
	Upload(images []Image) ([]texture.Texture, error)

	// Get retrieves a cached image by path.
	//
	// Returns:
	//   - Image: the cached image
	//   - bool: false if the path has not been loaded
	Get(path string) (Image, bool)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
// Defaults to one worker per CPU and no downscaling.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeImage)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers: max(runtime.NumCPU(), 1),
		cache:   make(map[string]Image),
	}

	switch backendType {
	case BackendTypeImage:
		fallthrough
	default:
		l.backend = newImageLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Get(path string) (Image, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	img, ok := l.cache[path]
	return img, ok
}

func (l *loader) Decode(name string, data []byte) (Image, error) {
	img, format, err := l.backend.Decode(data)
	if err != nil {
		return Image{}, err
	}
	bounds := img.Bounds()
	out := Image{
		Path:         name,
		Format:       format,
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
	}
	out.Data = common.StagingFromImage(l.downscale(img))
	return out, nil
}

// downscale shrinks img so its longest side is at most maxDimension, keeping the aspect ratio.
func (l *loader) downscale(img image.Image) image.Image {
	if l.maxDimension <= 0 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	longest := max(w, h)
	if longest <= l.maxDimension {
		return img
	}
	scale := float64(l.maxDimension) / float64(longest)
	nw := max(int(float64(w)*scale+0.5), 1)
	nh := max(int(float64(h)*scale+0.5), 1)
	return transform.Resize(img, nw, nh, transform.Linear)
}

func (l *loader) loadFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	return l.Decode(path, data)
}

func (l *loader) Load(ctx context.Context, paths ...string) ([]Image, error) {
	results := make([]Image, len(paths))
	errs := make([]error, len(paths))

	var pending []int
	for i, p := range paths {
		if cached, ok := l.Get(p); ok {
			results[i] = cached
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return results, nil
	}

	start := time.Now()
	// The queue holds every task so SubmitTask never blocks on a full channel.
	pool := worker.NewDynamicWorkerPool(min(l.workers, len(pending)), len(pending), time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for _, i := range pending {
		wg.Add(1)
		idx := i
		pool.SubmitTask(worker.Task{
			ID:      idx,
			Payload: paths[idx],
			Do: func() (any, error) {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					errs[idx] = err
					return nil, err
				}
				img, err := l.loadFile(paths[idx])
				results[idx], errs[idx] = img, err
				return nil, err
			},
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", paths[i], err)
		}
	}

	l.mu.Lock()
	for _, i := range pending {
		l.cache[paths[i]] = results[i]
	}
	l.mu.Unlock()

	log.Printf("[Loader] decoded %d images with %d workers in %s", len(pending), min(l.workers, len(pending)), time.Since(start).Round(time.Millisecond))
	return results, nil
}

func (l *loader) LoadDir(ctx context.Context, dir string) ([]Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: read dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var paths []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if !l.isImageFile(path) {
			log.Printf("[Loader] skipping %s: %v", path, ErrNotImage)
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("loader: %s: no images found", dir)
	}
	return l.Load(ctx, paths...)
}

// isImageFile sniffs the file header without decoding.
func (l *loader) isImageFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 261)
	n, _ := f.Read(head)
	kind, err := filetypeMatch(head[:n])
	return err == nil && supportedFormats[kind]
}

func (l *loader) Upload(images []Image) ([]texture.Texture, error) {
	if l.renderer == nil {
		return nil, errors.New("loader: no renderer to upload with")
	}
	textures := make([]texture.Texture, 0, len(images))
	for _, img := range images {
		t, err := l.renderer.CreateTexture(filepath.Base(img.Path), img.Data)
		if err != nil {
			for _, created := range textures {
				l.renderer.ReleaseTexture(created)
			}
			return nil, fmt.Errorf("loader: upload %s: %w", img.Path, err)
		}
		textures = append(textures, t)
	}
	return textures, nil
}
