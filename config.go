package raystack

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
)

// Config holds the viewer settings. Zero values are replaced by DefaultConfig values in Normalize.
type Config struct {
	Width  int
	Height int
	Title  string
	Debug  bool

	// EnvDir is the directory holding the six cube-map faces named by EnvFaces.
	EnvDir   string
	EnvFaces [6]string

	// Shader-side array capacities; the trace program's uniform layout is sized by these.
	MaxQuadrics int
	MaxLights   int

	CameraSpeed float32
}

// DefaultEnvFaces lists the environment faces in +X, -X, +Y, -Y, +Z, -Z order.
var DefaultEnvFaces = [6]string{"fnx.png", "fx.png", "fy.png", "fny.png", "fz.png", "fnz.png"}

func DefaultConfig() Config {
	return Config{
		Width:       1280,
		Height:      720,
		Title:       "Quadric RT",
		EnvDir:      "media",
		EnvFaces:    DefaultEnvFaces,
		MaxQuadrics: 16,
		MaxLights:   8,
		CameraSpeed: 2.5,
	}
}

// BindFlags registers the command-line flags for c on fs.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "Initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "Initial window height")
	fs.StringVar(&c.Title, "title", c.Title, "Window title")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging and frame timings")
	fs.StringVar(&c.EnvDir, "env", c.EnvDir, "Directory containing the environment cube-map faces")
	fs.IntVar(&c.MaxQuadrics, "max-quadrics", c.MaxQuadrics, "Capacity of the quadric uniform array")
	fs.IntVar(&c.MaxLights, "max-lights", c.MaxLights, "Capacity of the light uniform array")
}

// Normalize fills unset fields with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if strings.TrimSpace(c.Title) == "" {
		c.Title = def.Title
	}
	for i, f := range c.EnvFaces {
		if f == "" {
			c.EnvFaces[i] = def.EnvFaces[i]
		}
	}
	if c.MaxQuadrics <= 0 {
		c.MaxQuadrics = def.MaxQuadrics
	}
	if c.MaxLights <= 0 {
		c.MaxLights = def.MaxLights
	}
	if c.CameraSpeed <= 0 {
		c.CameraSpeed = def.CameraSpeed
	}
}

// EnvPaths returns the cube-map face paths joined with EnvDir.
func (c Config) EnvPaths() []string {
	paths := make([]string, len(c.EnvFaces))
	for i, f := range c.EnvFaces {
		paths[i] = filepath.Join(c.EnvDir, f)
	}
	return paths
}

func (c Config) String() string {
	return fmt.Sprintf("%dx%d %q debug=%v env=%s quadrics=%d lights=%d",
		c.Width, c.Height, c.Title, c.Debug, c.EnvDir, c.MaxQuadrics, c.MaxLights)
}
