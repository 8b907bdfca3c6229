// Package config loads sketch settings from a TOML file with command-line flag overrides.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Duration is a time.Duration written as a Go duration string ("150ms") in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds every tunable of the window, engine, loader and sketches.
type Config struct {
	Title            string   `toml:"title"`
	Width            int      `toml:"width"`
	Height           int      `toml:"height"`
	TickRate         float64  `toml:"tick_rate"`
	FrameLimit       float64  `toml:"frame_limit"`
	PresentMode      string   `toml:"present_mode"`
	Profiling        bool     `toml:"profiling"`
	ProfileInterval  Duration `toml:"profile_interval"`
	ResizeDebounce   Duration `toml:"resize_debounce"`
	SoftwareRenderer bool     `toml:"software_renderer"`

	ImageDir        string  `toml:"image_dir"`
	Tiles           int     `toml:"tiles"`
	Margin          float64 `toml:"margin"`
	WheelScale      float64 `toml:"wheel_scale"`
	WheelLineHeight float64 `toml:"wheel_line_height"`
	MaxTextureSize  int     `toml:"max_texture_size"`
	LoaderWorkers   int     `toml:"loader_workers"`
	ShaderDir       string  `toml:"shader_dir"`

	OrbitSpeed      float64 `toml:"orbit_speed"`
	DragSensitivity float64 `toml:"drag_sensitivity"`
	ZoomSpeed       float64 `toml:"zoom_speed"`
	PanSpeed        float64 `toml:"pan_speed"`
	ElevationMin    float64 `toml:"elevation_min"`
	ElevationMax    float64 `toml:"elevation_max"`
}

// Present modes accepted by PresentMode.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// Default returns the settings used when neither file nor flags set a value.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Title:           "oxy-sketch",
		Width:           1280,
		Height:          720,
		TickRate:        60,
		PresentMode:     PresentModeVSync,
		ProfileInterval: Duration{time.Second},
		ImageDir:        "images",
		Tiles:           10,
		Margin:          1.1,
		WheelScale:      0.3,
		WheelLineHeight: 100,
		MaxTextureSize:  2048,
		OrbitSpeed:      0.03,
		DragSensitivity: 0.005,
		ZoomSpeed:       0.01,
		PanSpeed:        0.003,
		ElevationMin:    -89,
		ElevationMax:    89,
	}
}

// Decode overlays TOML from r onto c. Keys that do not map to a field are rejected.
//
// Parameters:
//   - r: the TOML document
//
// Returns:
//   - error: a decode error, including unknown keys
func (c *Config) Decode(r io.Reader) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config: unknown keys:\n%s", strict.String())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads the defaults overlaid with the TOML file at path, then validates.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the loaded settings
//   - error: an error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	c := Default()
	if err := c.loadFile(path); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return c.Decode(f)
}

// Marshal encodes the config as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Parse builds the config for a program: defaults, then the file named by -config (if any),
// then every flag explicitly set in args. The result is validated.
//
// Parameters:
//   - name: the program name used in flag usage output
//   - args: command-line arguments without the program name
//
// Returns:
//   - Config: the resolved settings
//   - error: a flag, file or validation error
func Parse(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "TOML config file")

	fl := Default()
	fs.StringVar(&fl.Title, "title", fl.Title, "window title")
	fs.IntVar(&fl.Width, "width", fl.Width, "window width in pixels")
	fs.IntVar(&fl.Height, "height", fl.Height, "window height in pixels")
	fs.Float64Var(&fl.TickRate, "tick-rate", fl.TickRate, "logic ticks per second")
	fs.Float64Var(&fl.FrameLimit, "frame-limit", fl.FrameLimit, "render frame cap, 0 for none")
	fs.StringVar(&fl.PresentMode, "present-mode", fl.PresentMode, "vsync or uncapped")
	fs.BoolVar(&fl.Profiling, "profiling", fl.Profiling, "log FPS and memory statistics")
	fs.DurationVar(&fl.ProfileInterval.Duration, "profile-interval", fl.ProfileInterval.Duration, "how often profiling statistics are logged")
	fs.BoolVar(&fl.SoftwareRenderer, "software-renderer", fl.SoftwareRenderer, "force a CPU fallback adapter")
	fs.DurationVar(&fl.ResizeDebounce.Duration, "resize-debounce", fl.ResizeDebounce.Duration, "coalesce resizes for this long, 0 for none")
	fs.StringVar(&fl.ImageDir, "image-dir", fl.ImageDir, "directory of gallery images")
	fs.IntVar(&fl.Tiles, "tiles", fl.Tiles, "number of gallery tiles")
	fs.Float64Var(&fl.Margin, "margin", fl.Margin, "tile spacing in world units")
	fs.Float64Var(&fl.WheelScale, "wheel-scale", fl.WheelScale, "scroll target change per wheel pixel")
	fs.Float64Var(&fl.WheelLineHeight, "wheel-line-height", fl.WheelLineHeight, "pixels per wheel line")
	fs.IntVar(&fl.MaxTextureSize, "max-texture-size", fl.MaxTextureSize, "downscale images beyond this many pixels, 0 for none")
	fs.IntVar(&fl.LoaderWorkers, "loader-workers", fl.LoaderWorkers, "parallel image decoders, 0 for one per CPU")
	fs.StringVar(&fl.ShaderDir, "shader-dir", fl.ShaderDir, "load and hot reload shaders from this directory")
	fs.Float64Var(&fl.OrbitSpeed, "orbit-speed", fl.OrbitSpeed, "radians orbited per arrow key press")
	fs.Float64Var(&fl.DragSensitivity, "drag-sensitivity", fl.DragSensitivity, "radians orbited per pixel of drag")
	fs.Float64Var(&fl.ZoomSpeed, "zoom-speed", fl.ZoomSpeed, "zoom per wheel pixel")
	fs.Float64Var(&fl.PanSpeed, "pan-speed", fl.PanSpeed, "world units panned per pixel of right drag")
	fs.Float64Var(&fl.ElevationMin, "elevation-min", fl.ElevationMin, "lowest orbit elevation in degrees")
	fs.Float64Var(&fl.ElevationMax, "elevation-max", fl.ElevationMax, "highest orbit elevation in degrees")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	c := Default()
	if *path != "" {
		if err := c.loadFile(*path); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply(&c, &fl)
		}
	})

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// overrides copies one flag-backed field from the flag values onto the resolved config.
var overrides = map[string]func(dst, src *Config){
	"title":             func(d, s *Config) { d.Title = s.Title },
	"width":             func(d, s *Config) { d.Width = s.Width },
	"height":            func(d, s *Config) { d.Height = s.Height },
	"tick-rate":         func(d, s *Config) { d.TickRate = s.TickRate },
	"frame-limit":       func(d, s *Config) { d.FrameLimit = s.FrameLimit },
	"present-mode":      func(d, s *Config) { d.PresentMode = s.PresentMode },
	"profiling":         func(d, s *Config) { d.Profiling = s.Profiling },
	"profile-interval":  func(d, s *Config) { d.ProfileInterval = s.ProfileInterval },
	"software-renderer": func(d, s *Config) { d.SoftwareRenderer = s.SoftwareRenderer },
	"resize-debounce":   func(d, s *Config) { d.ResizeDebounce = s.ResizeDebounce },
	"image-dir":         func(d, s *Config) { d.ImageDir = s.ImageDir },
	"tiles":             func(d, s *Config) { d.Tiles = s.Tiles },
	"margin":            func(d, s *Config) { d.Margin = s.Margin },
	"wheel-scale":       func(d, s *Config) { d.WheelScale = s.WheelScale },
	"wheel-line-height": func(d, s *Config) { d.WheelLineHeight = s.WheelLineHeight },
	"max-texture-size":  func(d, s *Config) { d.MaxTextureSize = s.MaxTextureSize },
	"loader-workers":    func(d, s *Config) { d.LoaderWorkers = s.LoaderWorkers },
	"shader-dir":        func(d, s *Config) { d.ShaderDir = s.ShaderDir },
	"orbit-speed":       func(d, s *Config) { d.OrbitSpeed = s.OrbitSpeed },
	"drag-sensitivity":  func(d, s *Config) { d.DragSensitivity = s.DragSensitivity },
	"zoom-speed":        func(d, s *Config) { d.ZoomSpeed = s.ZoomSpeed },
	"pan-speed":         func(d, s *Config) { d.PanSpeed = s.PanSpeed },
	"elevation-min":     func(d, s *Config) { d.ElevationMin = s.ElevationMin },
	"elevation-max":     func(d, s *Config) { d.ElevationMax = s.ElevationMax },
}

// Validate checks every field range.
//
// Returns:
//   - error: all violations joined, each wrapping ErrInvalid; nil if the config is usable
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Width > 0, "width %d must be positive", c.Width)
	check(c.Height > 0, "height %d must be positive", c.Height)
	check(c.TickRate > 0, "tick_rate %g must be positive", c.TickRate)
	check(c.FrameLimit >= 0, "frame_limit %g must not be negative", c.FrameLimit)
	check(c.PresentMode == PresentModeVSync || c.PresentMode == PresentModeUncapped,
		"present_mode %q must be %q or %q", c.PresentMode, PresentModeVSync, PresentModeUncapped)
	check(c.ProfileInterval.Duration > 0, "profile_interval %s must be positive", c.ProfileInterval)
	check(c.ResizeDebounce.Duration >= 0, "resize_debounce %s must not be negative", c.ResizeDebounce)
	check(c.Tiles > 0, "tiles %d must be positive", c.Tiles)
	check(c.Margin > 0, "margin %g must be positive", c.Margin)
	check(c.WheelLineHeight > 0, "wheel_line_height %g must be positive", c.WheelLineHeight)
	check(c.MaxTextureSize >= 0, "max_texture_size %d must not be negative", c.MaxTextureSize)
	check(c.LoaderWorkers >= 0, "loader_workers %d must not be negative", c.LoaderWorkers)
	check(c.OrbitSpeed > 0, "orbit_speed %g must be positive", c.OrbitSpeed)
	check(c.DragSensitivity > 0, "drag_sensitivity %g must be positive", c.DragSensitivity)
	check(c.ZoomSpeed > 0, "zoom_speed %g must be positive", c.ZoomSpeed)
	check(c.PanSpeed > 0, "pan_speed %g must be positive", c.PanSpeed)
	check(c.ElevationMin > -90 && c.ElevationMax < 90, "elevation_min %g and elevation_max %g must lie inside (-90, 90)", c.ElevationMin, c.ElevationMax)
	check(c.ElevationMin < c.ElevationMax, "elevation_min %g must be below elevation_max %g", c.ElevationMin, c.ElevationMax)

	return errors.Join(errs...)
}
