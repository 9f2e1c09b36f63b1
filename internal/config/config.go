package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Image formats the tools can write.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatTGA  = "tga"
	FormatBMP  = "bmp"
)

// Config holds all configurable paths and repack settings.
type Config struct {
	// Paths
	AssetsDir string `json:"assets_dir"`
	LevelDat  string `json:"level_dat"`
	OutputDir string `json:"output_dir"`

	// Output
	Format string `json:"format"`

	// Repack settings
	Workers      int `json:"workers"`
	AtlasMaxSize int `json:"atlas_max_size"`
	MaxMaterials int `json:"max_materials"`

	// Preview settings
	Preview     bool `json:"preview"`
	PreviewSize int  `json:"preview_size"`
	Supersample int  `json:"supersample"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: parse %s", path)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	AssetsDir string
	OutputDir string
	Format    string
	Workers   int
	Preview   bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.AssetsDir != "" {
		c.AssetsDir = flags.AssetsDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Preview {
		c.Preview = true
	}

	if c.AssetsDir == "" {
		c.AssetsDir = detectAssetsDir()
	}

	// Resolve relative paths against the assets dir
	if c.AssetsDir != "" {
		if c.LevelDat == "" {
			c.LevelDat = filepath.Join(c.AssetsDir, "data", "gta_vc.dat")
		} else if !filepath.IsAbs(c.LevelDat) {
			c.LevelDat = filepath.Join(c.AssetsDir, c.LevelDat)
		}

		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(c.AssetsDir, "repacked")
		} else if !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.AssetsDir, c.OutputDir)
		}
	}

	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = FormatPNG
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.AtlasMaxSize <= 0 {
		c.AtlasMaxSize = 4096
	}
	if c.MaxMaterials <= 0 {
		c.MaxMaterials = 256
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatPNG, FormatWebP, FormatTGA, FormatBMP:
	default:
		return errors.Errorf("config: unknown format %q", c.Format)
	}
	if c.AtlasMaxSize > 1<<14 {
		return errors.Errorf("config: atlas_max_size %d exceeds %d", c.AtlasMaxSize, 1<<14)
	}
	return nil
}

func detectAssetsDir() string {
	// Try the working directory and its parent
	cwd, _ := os.Getwd()
	for _, base := range []string{cwd, filepath.Dir(cwd)} {
		if base == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(base, "models")); err == nil {
			return base
		}
	}
	return ""
}
