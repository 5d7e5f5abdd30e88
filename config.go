package orrery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LocationConfig describes a Location to register on the viewed body.
type LocationConfig struct {
	Name   string  `yaml:"name" toml:"name"`
	Lat    float64 `yaml:"lat" toml:"lat"`
	Lon    float64 `yaml:"lon" toml:"lon"`
	Radius float64 `yaml:"radius,omitempty" toml:"radius,omitempty"` // Overrides the body radius if greater than 0.
	Color  string  `yaml:"color,omitempty" toml:"color,omitempty"`   // Label color; defaults to LabelConfig.Color.

	Properties map[string]any `yaml:"properties,omitempty" toml:"properties,omitempty"`
}

type CameraConfig struct {
	Start       [3]float64 `yaml:"start" toml:"start"`
	Target      [3]float64 `yaml:"target" toml:"target"`
	Speed       float64    `yaml:"speed" toml:"speed"`
	Threshold   float64    `yaml:"threshold" toml:"threshold"`
	FieldOfView float64    `yaml:"fov" toml:"fov"`
	Spin        float64    `yaml:"spin" toml:"spin"` // How far the body spins each approaching frame, in radians.
}

type VisibilityConfig struct {
	Policy            string `yaml:"policy" toml:"policy"` // "normal" or "raycount".
	Parallel          bool   `yaml:"parallel" toml:"parallel"`
	ParallelThreshold int    `yaml:"parallel_threshold" toml:"parallel_threshold"`
	Workers           int    `yaml:"workers" toml:"workers"`
}

type LabelConfig struct {
	Offset       float64 `yaml:"offset" toml:"offset"`
	Color        string  `yaml:"color" toml:"color"`
	FadeDuration float64 `yaml:"fade" toml:"fade"` // In seconds.
}

type LightingConfig struct {
	Sun     [3]float64 `yaml:"sun" toml:"sun"` // The direction sunlight comes from.
	Energy  float32    `yaml:"energy" toml:"energy"`
	Ambient float32    `yaml:"ambient" toml:"ambient"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// ViewerConfig is everything needed to set up a viewer session.
type ViewerConfig struct {
	Body        string           `yaml:"body" toml:"body"`             // The identifier of the body to view; usually a planet preset name.
	AssetRoot   string           `yaml:"assets" toml:"assets"`         // The directory models and textures are loaded from.
	Procedural  bool             `yaml:"procedural" toml:"procedural"` // Whether to generate a sphere when the body's model is missing.
	Width       int              `yaml:"width" toml:"width"`
	Height      int              `yaml:"height" toml:"height"`
	Camera      CameraConfig     `yaml:"camera" toml:"camera"`
	Visibility  VisibilityConfig `yaml:"visibility" toml:"visibility"`
	Labels      LabelConfig      `yaml:"labels" toml:"labels"`
	Locations   []LocationConfig `yaml:"locations" toml:"locations"`
	Lighting    LightingConfig   `yaml:"lighting" toml:"lighting"`
	Log         LoggingConfig    `yaml:"log" toml:"log"`
	MetricsAddr string           `yaml:"metrics_addr" toml:"metrics_addr"` // If set, Prometheus metrics are served here.
}

// DefaultViewerConfig creates an instance of ViewerConfig with some sensible defaults: a fly-in towards Mars with a single
// Location.
func DefaultViewerConfig() *ViewerConfig {
	return &ViewerConfig{
		Body:       "Mars",
		AssetRoot:  "assets",
		Procedural: true,
		Width:      960,
		Height:     540,
		Camera: CameraConfig{
			Start:       [3]float64{0, 0, 60},
			Target:      [3]float64{0, 0, 12},
			Speed:       0.25,
			Threshold:   0.5,
			FieldOfView: 75,
			Spin:        0.002,
		},
		Visibility: VisibilityConfig{
			Policy:            VisibilityNormal.String(),
			ParallelThreshold: 256,
		},
		Labels: LabelConfig{
			Offset:       DefaultLabelOffset,
			Color:        "red",
			FadeDuration: 0.25,
		},
		Locations: []LocationConfig{
			{Name: "London", Lat: 51.5072, Lon: 0.1276},
		},
		Lighting: LightingConfig{
			Sun:     [3]float64{1, 1, 1},
			Energy:  1,
			Ambient: 0.35,
		},
		Log: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadViewerConfigFile loads a ViewerConfig from the YAML (.yaml, .yml) or TOML (.toml) file at the path given in the filesystem
// given. Settings the file leaves out keep their defaults.
func LoadViewerConfigFile(fsys fs.FS, filepath string) (*ViewerConfig, error) {

	data, err := fs.ReadFile(fsys, filepath)
	if err != nil {
		return nil, fmt.Errorf("orrery: reading config: %w", err)
	}

	return ParseViewerConfig(data, strings.TrimPrefix(path.Ext(filepath), "."))

}

// ParseViewerConfig parses a ViewerConfig in the format given ("yaml", "yml", or "toml") over the defaults. Unknown keys are errors.
func ParseViewerConfig(data []byte, format string) (*ViewerConfig, error) {

	cfg := DefaultViewerConfig()

	var err error

	switch strings.ToLower(format) {
	case "yaml", "yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err = decoder.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case "toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	default:
		return nil, fmt.Errorf("orrery: unknown config format %q", format)
	}

	if err != nil {
		return nil, fmt.Errorf("orrery: parsing %s config: %w", format, err)
	}

	// YAML and TOML decode numbers differently.
	for i, loc := range cfg.Locations {
		if loc.Properties != nil {
			cfg.Locations[i].Properties = NewProperties(loc.Properties).props
		}
	}

	return cfg, nil

}

// Validate reports settings that would leave the viewer unable to run. Locations with latitudes outside of [-90, 90] are
// only logged, as they still resolve to a point on the body.
func (cfg *ViewerConfig) Validate() error {

	var errs []error

	if cfg.Body == "" {
		errs = append(errs, errors.New("orrery: config: body is empty"))
	}

	if !(cfg.Camera.Speed > 0) {
		errs = append(errs, fmt.Errorf("orrery: config: %w: got %v", ErrInvalidSpeed, cfg.Camera.Speed))
	}

	if !(cfg.Camera.Threshold > 0) {
		errs = append(errs, fmt.Errorf("orrery: config: %w: got %v", ErrInvalidThreshold, cfg.Camera.Threshold))
	}

	if cfg.Camera.FieldOfView <= 0 || cfg.Camera.FieldOfView >= 180 {
		errs = append(errs, fmt.Errorf("orrery: config: field of view must be in (0, 180), got %v", cfg.Camera.FieldOfView))
	}

	if _, err := ParseVisibilityPolicy(cfg.Visibility.Policy); err != nil {
		errs = append(errs, fmt.Errorf("orrery: config: %w", err))
	}

	if _, err := ParseColor(cfg.Labels.Color); err != nil {
		errs = append(errs, fmt.Errorf("orrery: config: label color: %w", err))
	}

	if vectorFromArray(cfg.Lighting.Sun).IsZero() {
		errs = append(errs, errors.New("orrery: config: sun direction is zero"))
	}

	for _, loc := range cfg.Locations {

		if loc.Color != "" {
			if _, err := ParseColor(loc.Color); err != nil {
				errs = append(errs, fmt.Errorf("orrery: config: location %q: %w", loc.Name, err))
			}
		}

		if math.Abs(loc.Lat) > 90 {
			Logger().Warn("location latitude out of range", slog.String("location", loc.Name), slog.Float64("lat", loc.Lat))
		}

	}

	return errors.Join(errs...)

}

// LogConfig returns the LogConfig the config's log settings describe.
func (cfg *ViewerConfig) LogConfig() LogConfig {
	return LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format}
}

// NewCamera returns a Camera positioned at the configured start, looking at the target.
func (cfg *ViewerConfig) NewCamera() *Camera {
	camera := NewCamera(cfg.Width, cfg.Height)
	camera.SetFieldOfView(cfg.Camera.FieldOfView)
	camera.SetWorldPositionVec(vectorFromArray(cfg.Camera.Start))
	camera.LookAt(vectorFromArray(cfg.Camera.Target))
	return camera
}

// NewLights returns the sun and ambient light the config describes, to be added to the Scene.
func (cfg *ViewerConfig) NewLights() (*DirectionalLight, *AmbientLight) {
	sun := NewDirectionalLight("Sun", 1, 1, 1, cfg.Lighting.Energy)
	sun.SetWorldPositionVec(vectorFromArray(cfg.Lighting.Sun))
	sun.LookAt(NewVectorZero())
	ambient := NewAmbientLight("Ambient", 1, 1, 1, cfg.Lighting.Ambient)
	return sun, ambient
}

// NewApproachController returns the ApproachController (with its VisibilityEvaluator) that the config describes.
func (cfg *ViewerConfig) NewApproachController() (*ApproachController, error) {

	controller, err := NewApproachController(vectorFromArray(cfg.Camera.Target), cfg.Camera.Speed, cfg.Camera.Threshold)
	if err != nil {
		return nil, err
	}

	policy, err := ParseVisibilityPolicy(cfg.Visibility.Policy)
	if err != nil {
		return nil, err
	}

	controller.SpinSpeed = cfg.Camera.Spin
	controller.Visibility = NewVisibilityEvaluator(policy)
	controller.Visibility.Parallel = cfg.Visibility.Parallel
	if cfg.Visibility.ParallelThreshold > 0 {
		controller.Visibility.ParallelThreshold = cfg.Visibility.ParallelThreshold
	}
	controller.Visibility.Workers = cfg.Visibility.Workers

	return controller, nil

}

// Start configures the Session's labels, starts loading the configured body, and queues its configured Locations.
func (cfg *ViewerConfig) Start(session *Session) error {

	labelColor, err := ParseColor(cfg.Labels.Color)
	if err != nil {
		return fmt.Errorf("orrery: label color: %w", err)
	}

	session.Labels.FadeDuration = cfg.Labels.FadeDuration
	session.LabelOffset = cfg.Labels.Offset

	if err := session.Load(cfg.Body); err != nil {
		return err
	}

	for _, loc := range cfg.Locations {

		options := &LocationOptions{Radius: loc.Radius, Color: labelColor, Properties: loc.Properties}

		if loc.Color != "" {
			if options.Color, err = ParseColor(loc.Color); err != nil {
				return fmt.Errorf("orrery: location %q: %w", loc.Name, err)
			}
		}

		if err := session.QueueLocation(cfg.Body, loc.Name, loc.Lat, loc.Lon, options); err != nil {
			return err
		}

	}

	return nil

}

func vectorFromArray(v [3]float64) Vector {
	return NewVector(v[0], v[1], v[2])
}
