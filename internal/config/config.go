// Package config loads the gridsight demo settings from YAML.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/gridsight/pkg/scene"
	"github.com/taigrr/gridsight/pkg/voxel"
)

// Config holds all demo settings.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Camera   CameraConfig   `yaml:"camera"`
	Raycast  RaycastConfig  `yaml:"raycast"`
	Voxel    VoxelConfig    `yaml:"voxel"`
	Scene    SceneConfig    `yaml:"scene"`
	Textures map[int]string `yaml:"textures"` // wall id -> image path
}

type DisplayConfig struct {
	Width       int    `yaml:"width"` // framebuffer size for windowed backends
	Height      int    `yaml:"height"`
	WindowTitle string `yaml:"window_title"`
	WindowScale int    `yaml:"window_scale"`
	FPS         int    `yaml:"fps"`
}

type CameraConfig struct {
	FieldOfView  float64 `yaml:"field_of_view"` // degrees
	ViewDistance float64 `yaml:"view_distance"`
	MoveSpeed    float64 `yaml:"move_speed"` // cells per second
	TurnSpeed    float64 `yaml:"turn_speed"` // radians per second
	JumpSpeed    float64 `yaml:"jump_speed"`
}

type RaycastConfig struct {
	Map       string  `yaml:"map"` // text map file; empty uses the built-in map
	SideShade float64 `yaml:"side_shade"`
	Sprites   bool    `yaml:"sprites"`
}

type VoxelConfig struct {
	ColorMap  string  `yaml:"color_map"` // empty generates terrain
	HeightMap string  `yaml:"height_map"`
	Size      int     `yaml:"size"`
	Seed      int64   `yaml:"seed"`
	Occlusion string  `yaml:"occlusion"`
	Distance  float64 `yaml:"distance"`
	Clearance float64 `yaml:"clearance"`
}

type SceneConfig struct {
	Mode          string  `yaml:"mode"`
	CellSize      float64 `yaml:"cell_size"`
	Height        float64 `yaml:"height"`
	WallThickness float64 `yaml:"wall_thickness"`
	Prop          string  `yaml:"prop"` // GLB model placed in marked cells; empty uses a box
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:       320,
			Height:      200,
			WindowTitle: "gridsight",
			WindowScale: 3,
			FPS:         30,
		},
		Camera: CameraConfig{
			FieldOfView:  60,
			ViewDistance: 24,
			MoveSpeed:    3,
			TurnSpeed:    2.5,
			JumpSpeed:    2.5,
		},
		Raycast: RaycastConfig{SideShade: 0.75, Sprites: true},
		Voxel: VoxelConfig{
			Size:      512,
			Seed:      1,
			Occlusion: voxel.OcclusionYBuffer.String(),
			Distance:  600,
			Clearance: 20,
		},
		Scene: SceneConfig{
			Mode:          scene.ModeTextured.String(),
			CellSize:      1,
			Height:        1,
			WallThickness: 0.05,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(filename string) *Config {
	cfg, err := Load(filename)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	return cfg
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		errs = append(errs, fmt.Errorf("display size %dx%d must be positive", c.Display.Width, c.Display.Height))
	}
	if c.Display.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", c.Display.FPS))
	}
	if c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180 {
		errs = append(errs, fmt.Errorf("field of view %v must be in (0, 180)", c.Camera.FieldOfView))
	}
	if _, err := voxel.ParseOcclusion(c.Voxel.Occlusion); err != nil {
		errs = append(errs, err)
	}
	if c.Voxel.Size <= 0 || c.Voxel.Size&(c.Voxel.Size-1) != 0 {
		errs = append(errs, fmt.Errorf("voxel size %d: %w", c.Voxel.Size, voxel.ErrNotPowerOfTwo))
	}
	if (c.Voxel.ColorMap == "") != (c.Voxel.HeightMap == "") {
		errs = append(errs, errors.New("voxel color_map and height_map must be set together"))
	}
	if _, err := scene.ParseMode(c.Scene.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Scene.CellSize <= 0 || c.Scene.Height <= 0 {
		errs = append(errs, fmt.Errorf("scene cell size %v and height %v must be positive", c.Scene.CellSize, c.Scene.Height))
	}
	if c.Scene.WallThickness < 0 {
		errs = append(errs, fmt.Errorf("wall thickness: %w", scene.ErrNegativeThickness))
	}
	for id := range c.Textures {
		if id <= 0 {
			errs = append(errs, fmt.Errorf("texture id %d must be positive", id))
		}
	}
	return errors.Join(errs...)
}

// FOV returns the field of view in radians.
func (c *Config) FOV() float64 {
	return c.Camera.FieldOfView * math.Pi / 180
}

// OcclusionStrategy returns the parsed voxel occlusion strategy.
func (c *Config) OcclusionStrategy() voxel.Occlusion {
	o, _ := voxel.ParseOcclusion(c.Voxel.Occlusion)
	return o
}

// SceneMode returns the parsed scene render mode.
func (c *Config) SceneMode() scene.Mode {
	m, err := scene.ParseMode(c.Scene.Mode)
	if err != nil {
		return scene.ModeTextured
	}
	return m
}
