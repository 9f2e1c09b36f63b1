package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rw-repacker/internal/batch"
	"rw-repacker/internal/config"
	"rw-repacker/internal/packer"
	"rw-repacker/internal/scene"
	"rw-repacker/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	assetsDir := flag.String("assets", "", "Game root directory (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: <assets>/repacked)")
	format := flag.String("format", "", "Atlas format: png, webp, tga, bmp (default: png)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	preview := flag.Bool("preview", false, "Also render a preview of every packed mesh")
	txdName := flag.String("txd", "", "Texture dictionary for every model, bypassing the IDE lookup")
	iplFile := flag.String("ipl", "", "Repack every model placed by this IPL file")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: repack [flags] model.dff|dir ...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	batch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		AssetsDir: *assetsDir,
		OutputDir: *outputDir,
		Format:    *format,
		Workers:   *workers,
		Preview:   *preview,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.AssetsDir == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find the game directory. Use -assets flag or config.json.")
		os.Exit(1)
	}

	paths, err := collectModels(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *iplFile != "" {
		placed, err := placedModels(*iplFile, cfg.AssetsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading IPL: %v\n", err)
			os.Exit(1)
		}
		paths = append(paths, placed...)
	}
	if len(paths) == 0 {
		fmt.Println("No models to repack.")
		os.Exit(0)
	}

	// Model to dictionary table
	var texMap scene.TextureMap
	if *txdName == "" {
		var missing []string
		texMap, missing, err = scene.LoadTextureMap(cfg.AssetsDir, cfg.LevelDat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: level list: %v\n", err)
		}
		for _, m := range missing {
			fmt.Fprintf(os.Stderr, "Warning: IDE not found: %s\n", m)
		}
		fmt.Printf("IDE models: %d\n", len(texMap))
	}

	// Build texture index
	texIndex := texture.BuildIndex(cfg.AssetsDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Dictionaries: %d indexed\n", texIndex.Len())

	jobs := make([]batch.Job, len(paths))
	for i, p := range paths {
		jobs[i] = batch.Job{Path: p, Dictionary: *txdName}
	}

	fmt.Printf("RenderWare atlas repacker -> %s\n", cfg.Format)
	fmt.Printf("Models: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	runID := batch.NewRunID()

	// Run batch
	results := batch.Run(batch.Config{
		OutputDir:  cfg.OutputDir,
		Format:     cfg.Format,
		Textures:   texCache,
		TextureMap: texMap,
		Packer: packer.Options{
			MaxSize:      cfg.AtlasMaxSize,
			MaxMaterials: cfg.MaxMaterials,
		},
		Preview:     cfg.Preview,
		PreviewSize: cfg.PreviewSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		RunID:       runID,
	}, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, atlases := 0, 0
	var failures []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			atlases += len(r.Atlases)
		} else {
			failures = append(failures, r)
		}
	}
	fmt.Printf("Repacked: %d/%d (%d atlases)\n", success, len(results), atlases)

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		limit := min(len(failures), 20)
		for _, r := range failures[:limit] {
			fmt.Printf("  %s: %s\n", r.Model, r.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	m := batch.NewManifest(runID, cfg.Format, results)
	if err := batch.WriteManifest(manifestPath, m); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}

// collectModels expands directory arguments into the model files below them.
func collectModels(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isModel(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// placedModels returns the model file of every distinct object an IPL
// places, searching the whole game directory.
func placedModels(iplPath, root string) ([]string, error) {
	f, err := os.Open(iplPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ipl, err := scene.ParseIPL(f)
	if err != nil {
		return nil, err
	}

	files := make(map[string]string)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && isModel(path) {
			files[strings.ToLower(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	for _, req := range ipl.Requests() {
		key := strings.ToLower(req.ModelName)
		if seen[key] {
			continue
		}
		seen[key] = true
		if p, ok := files[key]; ok {
			out = append(out, p)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: no model file for %s\n", req.ModelName)
		}
	}
	sort.Strings(out)
	return out, nil
}

func isModel(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".dff")
}
