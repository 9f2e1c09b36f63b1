// Package batch repacks many model files concurrently.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"rw-repacker/internal/dff"
	"rw-repacker/internal/export"
	"rw-repacker/internal/packer"
	"rw-repacker/internal/postprocess"
	"rw-repacker/internal/raster"
	"rw-repacker/internal/rw"
	"rw-repacker/internal/scene"
	"rw-repacker/internal/texture"
	"rw-repacker/internal/txd"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Format    string
	Textures  texture.Resolver
	// TextureMap names the dictionary of each model. Models it does not
	// list use the dictionary named after the model file.
	TextureMap  scene.TextureMap
	Packer      packer.Options
	Preview     bool
	PreviewSize int
	Supersample int
	Workers     int
	// RunID tags log records. Empty means a fresh id.
	RunID string
}

// Job is one model file. Dictionary overrides the dictionary lookup.
type Job struct {
	Path       string
	Dictionary string
}

// Atlas describes one packed geometry of a model.
type Atlas struct {
	Geometry  int    `json:"geometry"`
	Atomics   []int  `json:"atomics"`
	Frame     string `json:"frame,omitempty"`
	Image     string `json:"image,omitempty"`
	Preview   string `json:"preview,omitempty"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Submeshes int    `json:"submeshes"`
	Triangles int    `json:"triangles"`
}

// Result holds the outcome of processing one model.
type Result struct {
	Model      string   `json:"model"`
	Path       string   `json:"path"`
	Dictionary string   `json:"dictionary"`
	Success    bool     `json:"success"`
	Error      string   `json:"error,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Atlases    []Atlas  `json:"atlases,omitempty"`
}

// Run processes all jobs using a worker pool. A failing model never stops
// the others; its Result carries the error.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64
	workers := max(cfg.Workers, 1)

	runID := cfg.RunID
	if runID == "" {
		runID = NewRunID()
	}
	log := Logger().With("run", runID)
	log.Info("batch start", "models", total, "workers", workers)
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total, "per_sec", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processModel(cfg, jobs[idx])
				if !results[idx].Success {
					log.Warn("model failed", "model", results[idx].Model, "err", results[idx].Error)
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	log.Info("batch done", "ok", ok, "failed", total-ok, "elapsed", time.Since(start).Round(time.Millisecond))
	return results
}

// NewRunID returns a unique id for a batch run.
func NewRunID() string {
	return uuid.NewString()
}

func modelName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func processModel(cfg Config, job Job) Result {
	res := Result{Model: modelName(job.Path), Path: job.Path}
	start := time.Now()

	root, err := readSection(job.Path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	resolution, err := dff.ResolveTolerant(root)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	for _, e := range resolution.Errors {
		res.Warnings = append(res.Warnings, "dropped "+e.Error())
	}
	for _, w := range resolution.Warnings {
		res.Warnings = append(res.Warnings, w.Error())
	}

	res.Dictionary = dictionaryName(cfg, job, res.Model)
	var textures txd.Set
	if cfg.Textures != nil {
		textures, err = cfg.Textures.Dictionary(res.Dictionary)
		if err != nil {
			// Untextured tiles still carry material colors.
			res.Warnings = append(res.Warnings, err.Error())
		}
	}

	// Atomics sharing a geometry share its atlas.
	byGeometry := make(map[int]int)
	for _, inst := range resolution.Instances {
		if i, ok := byGeometry[inst.GeometryIndex]; ok {
			res.Atlases[i].Atomics = append(res.Atlases[i].Atomics, inst.AtomicIndex)
			continue
		}
		atlas, err := packInstance(cfg, res.Model, inst, textures)
		if err != nil {
			res.Error = errors.Wrapf(err, "atomic %d", inst.AtomicIndex).Error()
			return res
		}
		byGeometry[inst.GeometryIndex] = len(res.Atlases)
		res.Atlases = append(res.Atlases, atlas)
	}

	if len(resolution.Instances) == 0 && len(resolution.Errors) > 0 {
		res.Error = resolution.Errors[0].Error()
		return res
	}
	res.Success = true
	Logger().Debug("model done", "model", res.Model, "atlases", len(res.Atlases),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return res
}

func readSection(path string) (*rw.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	root, err := rw.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", filepath.Base(path))
	}
	return root, nil
}

func dictionaryName(cfg Config, job Job, model string) string {
	if job.Dictionary != "" {
		return job.Dictionary
	}
	if name, ok := cfg.TextureMap.Lookup(model); ok {
		return name
	}
	return model
}

func packInstance(cfg Config, model string, inst dff.Instance, textures txd.Set) (Atlas, error) {
	atlas := Atlas{Geometry: inst.GeometryIndex, Atomics: []int{inst.AtomicIndex}, Frame: inst.Name}

	mesh, err := packer.BuildMesh(inst.Model, textures, cfg.Packer)
	if err != nil {
		return atlas, err
	}
	atlas.Submeshes = len(mesh.Submeshes)
	atlas.Triangles = mesh.TriangleCount()

	base := fmt.Sprintf("%s_%d", model, inst.GeometryIndex)
	if mesh.Atlas != nil && mesh.Atlas.Width > 0 {
		atlas.Width, atlas.Height = mesh.Atlas.Width, mesh.Atlas.Height
		atlas.Image = base + "." + cfg.Format
		if err := export.WriteFile(filepath.Join(cfg.OutputDir, atlas.Image), mesh.Atlas.Image()); err != nil {
			return atlas, err
		}
	}

	if cfg.Preview && atlas.Triangles > 0 {
		size := max(cfg.PreviewSize, 1)
		img := raster.RenderMesh(mesh, raster.Options{
			Size:        size,
			Supersample: cfg.Supersample,
			Model:       inst.World.Matrix(),
		})
		if cfg.Supersample > 1 {
			img = postprocess.Downsample(img, size, size)
		}
		atlas.Preview = base + "_preview." + cfg.Format
		if err := export.WriteFile(filepath.Join(cfg.OutputDir, atlas.Preview), img); err != nil {
			return atlas, err
		}
	}
	return atlas, nil
}
