package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/gridsight/pkg/scene"
	"github.com/taigrr/gridsight/pkg/voxel"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if math.Abs(cfg.FOV()-math.Pi/3) > 1e-12 {
		t.Errorf("FOV = %v, want pi/3", cfg.FOV())
	}
	if cfg.SceneMode() != scene.ModeTextured || cfg.OcclusionStrategy() != voxel.OcclusionYBuffer {
		t.Errorf("mode %v occlusion %v", cfg.SceneMode(), cfg.OcclusionStrategy())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
display:
  fps: 60
voxel:
  occlusion: depth
scene:
  mode: wireframe
textures:
  1: bricks.png
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.FPS != 60 || cfg.Display.Width != 320 {
		t.Errorf("display = %+v, want fps 60 over default size", cfg.Display)
	}
	if cfg.OcclusionStrategy() != voxel.OcclusionDepthBuffer {
		t.Errorf("occlusion = %v", cfg.OcclusionStrategy())
	}
	if cfg.SceneMode() != scene.ModeWireframe {
		t.Errorf("mode = %v", cfg.SceneMode())
	}
	if cfg.Textures[1] != "bricks.png" {
		t.Errorf("textures = %v", cfg.Textures)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "display: [", "parse config"},
		{"unknown occlusion", "voxel:\n  occlusion: painter\n", "occlusion"},
		{"unknown mode", "scene:\n  mode: voxels\n", "render mode"},
		{"bad fov", "camera:\n  field_of_view: 190\n", "field of view"},
		{"half a heightmap", "voxel:\n  color_map: c.png\n", "set together"},
		{"bad texture id", "textures:\n  0: x.png\n", "texture id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Load err = %v, want mention of %q", err, tc.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestValidateWrapsSentinels(t *testing.T) {
	cfg := Default()
	cfg.Voxel.Size = 300
	cfg.Scene.WallThickness = -1
	err := cfg.Validate()
	if !errors.Is(err, voxel.ErrNotPowerOfTwo) {
		t.Errorf("err = %v, want ErrNotPowerOfTwo", err)
	}
	if !errors.Is(err, scene.ErrNegativeThickness) {
		t.Errorf("err = %v, want ErrNegativeThickness", err)
	}
}

func TestMustLoadPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLoad did not panic on a missing file")
		}
	}()
	MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
}
