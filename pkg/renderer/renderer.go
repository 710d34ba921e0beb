package renderer

import (
	"context"
	"image"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/PepcyCh/simple-path-tracer/pkg/core"
)

// DefaultTileSize is the edge length of a render tile in pixels
const DefaultTileSize = 32

// Integrator estimates radiance along a primary ray. Implementations
// must be safe for concurrent use.
type Integrator interface {
	Li(ray core.Ray, sampler core.Sampler) core.Vec3
}

// Options configures a render
type Options struct {
	Width           int
	Height          int
	SamplesPerPixel int
	TileSize        int   // defaults to DefaultTileSize
	Workers         int   // defaults to runtime.NumCPU()
	Seed            int64 // base seed for per-tile samplers
}

// Progress is called after each completed tile
type Progress func(completedTiles, totalTiles int)

// Renderer traces an image tile by tile across a worker pool. Tiles are
// seeded deterministically, so the result does not depend on the worker
// count.
type Renderer struct {
	camera     *Camera
	integrator Integrator
	opts       Options
	logger     core.Logger
	progress   Progress
}

// NewRenderer creates a renderer over a camera and an integrator
func NewRenderer(camera *Camera, integrator Integrator, opts Options) *Renderer {
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultTileSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.SamplesPerPixel <= 0 {
		opts.SamplesPerPixel = 1
	}
	return &Renderer{camera: camera, integrator: integrator, opts: opts}
}

// SetLogger installs a logger for render progress messages
func (r *Renderer) SetLogger(logger core.Logger) {
	r.logger = logger
}

// SetProgress installs a per-tile progress callback. It is invoked from
// a single goroutine.
func (r *Renderer) SetProgress(fn Progress) {
	r.progress = fn
}

type tileTask struct {
	index  int
	bounds image.Rectangle
}

// tiles splits the film into row-major tile bounds
func (r *Renderer) tiles() []tileTask {
	size := r.opts.TileSize
	var tasks []tileTask
	for y := 0; y < r.opts.Height; y += size {
		for x := 0; x < r.opts.Width; x += size {
			bounds := image.Rect(x, y,
				min(x+size, r.opts.Width), min(y+size, r.opts.Height))
			tasks = append(tasks, tileTask{index: len(tasks), bounds: bounds})
		}
	}
	return tasks
}

// Render traces the full image. Cancelling the context stops the render
// between tiles; the returned film holds whatever finished.
func (r *Renderer) Render(ctx context.Context) (*Film, RenderStats) {
	start := time.Now()
	film := NewFilm(r.opts.Width, r.opts.Height)
	tasks := r.tiles()

	if r.logger != nil {
		r.logger.Printf("rendering %dx%d, %d spp, %d tiles, %d workers",
			r.opts.Width, r.opts.Height, r.opts.SamplesPerPixel, len(tasks), r.opts.Workers)
	}

	taskCh := make(chan tileTask, len(tasks))
	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)

	doneCh := make(chan int, len(tasks))
	var wg sync.WaitGroup
	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				select {
				case <-ctx.Done():
					return
				default:
				}
				r.renderTile(film, task)
				doneCh <- task.index
			}
		}()
	}

	go func() {
		wg.Wait()
		close(doneCh)
	}()

	completed := 0
	for range doneCh {
		completed++
		if r.progress != nil {
			r.progress(completed, len(tasks))
		}
	}

	stats := RenderStats{
		Width:           r.opts.Width,
		Height:          r.opts.Height,
		SamplesPerPixel: r.opts.SamplesPerPixel,
		Workers:         r.opts.Workers,
		TotalTiles:      len(tasks),
		CompletedTiles:  completed,
		Duration:        time.Since(start),
		Cancelled:       ctx.Err() != nil,
	}
	for y := 0; y < film.height; y++ {
		for x := 0; x < film.width; x++ {
			stats.TotalSamples += film.SampleCount(x, y)
		}
	}

	if r.logger != nil {
		r.logger.Printf("render finished: %d/%d tiles in %s",
			completed, len(tasks), stats.Duration)
	}
	return film, stats
}

// renderTile traces every pixel in the tile with jittered samples. The
// tile owns its pixels, so film writes need no synchronization.
func (r *Renderer) renderTile(film *Film, task tileTask) {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(r.opts.Seed + int64(task.index)*7919)))
	aspect := float64(r.opts.Width) / float64(r.opts.Height)
	widthInv := 1.0 / float64(r.opts.Width)
	heightInv := 1.0 / float64(r.opts.Height)

	for j := task.bounds.Min.Y; j < task.bounds.Max.Y; j++ {
		for i := task.bounds.Min.X; i < task.bounds.Max.X; i++ {
			for s := 0; s < r.opts.SamplesPerPixel; s++ {
				jitter := sampler.Get2D()
				x := ((float64(i)+jitter.X)*widthInv - 0.5) * aspect
				y := (float64(r.opts.Height-j-1)+jitter.Y)*heightInv - 0.5
				ray := r.camera.GenerateRay(x, y, sampler)
				radiance := r.integrator.Li(ray, sampler)
				if !radiance.IsFinite() {
					// A degenerate sample biases one pixel toward
					// black instead of poisoning the accumulator
					radiance = core.Vec3{}
				}
				film.AddSample(i, j, radiance)
			}
		}
	}
}
