package main

import (
	"fmt"
	"math"
	"os"

	"github.com/taigrr/gridsight/internal/config"
	"github.com/taigrr/gridsight/pkg/math3d"
	"github.com/taigrr/gridsight/pkg/models"
	"github.com/taigrr/gridsight/pkg/raycast"
	"github.com/taigrr/gridsight/pkg/render"
	"github.com/taigrr/gridsight/pkg/scene"
	"github.com/taigrr/gridsight/pkg/voxel"
)

// world is one explorable scene. Update and Render run on the render
// goroutine only.
type world interface {
	Update(dt float64, c controls)
	Render(fb *render.Framebuffer)
	// Status describes the last rendered frame.
	Status() string
	SetBackground(c render.Color)
}

const defaultMap = `
##########
#........#
#..2..3..#
#........#
#.##..##.#
#.#....#.#
#...44...#
#.#....#.#
#........#
##########
`

// Texture ids used by the built-in worlds.
const (
	floorTexture   = 10
	ceilingTexture = 11
)

func newWorld(name string, cfg *config.Config) (world, error) {
	switch name {
	case "voxel":
		w, err := newVoxelWorld(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	case "raycast", "cells", "dungeon":
	default:
		return nil, fmt.Errorf("unknown mode %q (use raycast, cells, voxel or dungeon)", name)
	}

	m, err := loadMap(cfg.Raycast.Map)
	if err != nil {
		return nil, err
	}
	textures, err := loadTextures(cfg)
	if err != nil {
		return nil, err
	}
	var w world
	switch name {
	case "raycast":
		w = newRaycastWorld(cfg, m, textures)
	case "cells":
		w, err = newCellsWorld(cfg, m, textures)
	default:
		w, err = newDungeonWorld(cfg, m, textures)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func loadMap(path string) (*raycast.GridMap, error) {
	if path == "" {
		return raycast.MustParseGridMap(defaultMap), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	m, err := raycast.ParseGridMap(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	return m, nil
}

// loadTextures fills every wall id with a procedural brick pattern, then
// replaces them with the images named in the config.
func loadTextures(cfg *config.Config) (*render.TextureSet, error) {
	ts := render.NewTextureSet()
	for id := 1; id <= 9; id++ {
		base := render.PaletteColor(id)
		ts.Add(id, render.NewCheckerTexture(32, 32, 8, base, render.MultiplyColor(base, 0.7)))
	}
	ts.Add(floorTexture, render.NewCheckerTexture(32, 32, 16, render.RGB(84, 76, 66), render.RGB(70, 62, 54)))
	ts.Add(ceilingTexture, render.NewSolidTexture(4, 4, render.RGB(52, 52, 64)))

	for id, path := range cfg.Textures {
		if err := ts.Load(id, path); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// spawn returns the center of the first open cell in reading order.
func spawn(m *raycast.GridMap) math3d.Vec2 {
	for row := range m.Height() {
		for col := range m.Width() {
			if !m.Solid(row, col) {
				return math3d.V2(float64(col)+0.5, float64(row)+0.5)
			}
		}
	}
	return math3d.V2(0.5, 0.5)
}

// open reports whether (col, row) is a free cell of m.
func open(m *raycast.GridMap, col, row int) bool {
	_, ok := m.At(row, col)
	return ok && !m.Solid(row, col)
}

func newRaycastCamera(cfg *config.Config, m *raycast.GridMap) raycast.Camera {
	cam := raycast.NewCamera(spawn(m), 0)
	cam.FOV = cfg.FOV()
	cam.MaxDistance = cfg.Camera.ViewDistance
	return cam
}

// walker moves a raycast camera through a wall map.
type walker struct {
	m     *raycast.GridMap
	cam   raycast.Camera
	speed float64
	turn  float64
}

func newWalker(cfg *config.Config, m *raycast.GridMap) walker {
	return walker{m: m, cam: newRaycastCamera(cfg, m), speed: cfg.Camera.MoveSpeed, turn: cfg.Camera.TurnSpeed}
}

func (w *walker) step(dt float64, c controls) {
	w.cam.Turn(c.Turn * w.turn * dt)
	w.cam.Look(c.Look * dt)
	w.cam.Move(w.m, c.Forward*w.speed*dt, c.Strafe*w.speed*dt)
}

type raycastWorld struct {
	walker
	r        *raycast.Renderer
	textures render.TextureProvider
	sprites  []raycast.Sprite
	mini     *minimap
	showMap  bool
	columns  int
	drawn    int
}

func newRaycastWorld(cfg *config.Config, m *raycast.GridMap, textures *render.TextureSet) *raycastWorld {
	r := raycast.NewRenderer(textures)
	r.SideShade = cfg.Raycast.SideShade
	w := &raycastWorld{
		walker:   newWalker(cfg, m),
		r:        r,
		textures: textures,
		mini:     newMinimap(m, 2),
		showMap:  true,
	}
	if cfg.Raycast.Sprites {
		barrel := render.NewCheckerTexture(8, 12, 4, render.RGB(150, 96, 40), render.RGB(110, 70, 30))
		for row := range m.Height() {
			for col := range m.Width() {
				// Scatter barrels over the open cells.
				if (row+col)%7 == 3 && open(m, col, row) {
					w.sprites = append(w.sprites, raycast.Sprite{
						Pos:     math3d.V2(float64(col)+0.5, float64(row)+0.5),
						Scale:   0.5,
						Texture: barrel,
					})
				}
			}
		}
	}
	return w
}

func (w *raycastWorld) Update(dt float64, c controls) {
	w.step(dt, c)
	if c.Map {
		w.showMap = !w.showMap
	}
	if c.Cycle {
		if w.r.Textures != nil {
			w.r.Textures = nil
		} else {
			w.r.Textures = w.textures
		}
	}
}

func (w *raycastWorld) Render(fb *render.Framebuffer) {
	cols := w.r.Render(fb, w.m, w.cam)
	w.columns = len(cols)
	w.drawn = w.r.DrawSprites(fb, w.cam, cols, w.sprites)
	if w.showMap {
		w.mini.Draw(fb, w.cam.Pos, w.cam.Yaw)
	}
}

func (w *raycastWorld) Status() string {
	return fmt.Sprintf("raycast (%.1f, %.1f) %d cols %d sprites", w.cam.Pos.X, w.cam.Pos.Y, w.columns, w.drawn)
}

func (w *raycastWorld) SetBackground(c render.Color) { w.cam.Background = c }

type cellsWorld struct {
	walker
	cells   *raycast.CellMap
	r       *raycast.PrimitiveRenderer
	mini    *minimap
	showMap bool
	stats   raycast.Stats
}

func newCellsWorld(cfg *config.Config, m *raycast.GridMap, textures *render.TextureSet) (*cellsWorld, error) {
	cells := raycast.CellMapFromGrid(m, floorTexture, ceilingTexture)

	// Furnish some of the open cells.
	lamp := render.NewCheckerTexture(8, 16, 4, render.ColorYellow, render.WithAlpha(render.ColorYellow, 0))
	for row := range m.Height() {
		for col := range m.Width() {
			if !open(m, col, row) {
				continue
			}
			var p raycast.Primitive
			switch (row*m.Width() + col) % 11 {
			case 4:
				p = raycast.Cube(math3d.V2(0.3, 0.3), math3d.V2(0.7, 0.7), 0, 0.35, 3)
			case 7:
				p = raycast.Decoration(math3d.V2(0.5, 0.5), 0.4, 0, 0.8, lamp)
			case 9:
				p = raycast.Ramp(raycast.EdgeEast, 0, 0.25, floorTexture)
			default:
				continue
			}
			if err := cells.Add(col, row, p); err != nil {
				return nil, fmt.Errorf("furnish cell (%d, %d): %w", col, row, err)
			}
		}
	}

	r := raycast.NewPrimitiveRenderer(textures)
	r.SideShade = cfg.Raycast.SideShade
	return &cellsWorld{
		walker:  newWalker(cfg, m),
		cells:   cells,
		r:       r,
		mini:    newMinimap(m, 2),
		showMap: true,
	}, nil
}

func (w *cellsWorld) Update(dt float64, c controls) {
	w.step(dt, c)
	if c.Map {
		w.showMap = !w.showMap
	}
	if c.Cycle {
		w.r.SideShade = 1.75 - w.r.SideShade
	}
}

func (w *cellsWorld) Render(fb *render.Framebuffer) {
	w.stats = w.r.Render(fb, w.cells, w.cam)
	if w.showMap {
		w.mini.Draw(fb, w.cam.Pos, w.cam.Yaw)
	}
}

func (w *cellsWorld) Status() string {
	return fmt.Sprintf("cells %d rays %d hits %d faults", w.stats.Rays, w.stats.Hits, w.stats.Faults)
}

func (w *cellsWorld) SetBackground(c render.Color) { w.cam.Background = c }

type voxelWorld struct {
	m         *voxel.HeightmapPair
	cam       voxel.Camera
	r         *voxel.Renderer
	speed     float64
	turn      float64
	clearance float64
	stats     voxel.Stats
}

// voxelUnits is the number of height-map texels walked per cell of speed.
const voxelUnits = 24

func newVoxelWorld(cfg *config.Config) (*voxelWorld, error) {
	var (
		m   *voxel.HeightmapPair
		err error
	)
	if cfg.Voxel.ColorMap != "" {
		m, err = voxel.Load(cfg.Voxel.ColorMap, cfg.Voxel.HeightMap)
	} else {
		m, err = voxel.Generate(cfg.Voxel.Size, cfg.Voxel.Seed)
	}
	if err != nil {
		return nil, err
	}

	cam := voxel.DefaultCamera(float64(m.Width)/2, float64(m.Height)/2)
	cam.Distance = cfg.Voxel.Distance
	cam.FOV = cfg.FOV()
	cam.Follow(m, cfg.Voxel.Clearance)
	return &voxelWorld{
		m:         m,
		cam:       cam,
		r:         voxel.NewRenderer(cfg.OcclusionStrategy()),
		speed:     cfg.Camera.MoveSpeed * voxelUnits,
		turn:      cfg.Camera.TurnSpeed,
		clearance: cfg.Voxel.Clearance,
	}, nil
}

func (w *voxelWorld) Update(dt float64, c controls) {
	w.cam.Turn(c.Turn * w.turn * dt)
	w.cam.Move(c.Forward*w.speed*dt, c.Strafe*w.speed*dt)
	const limit = 0.6
	w.cam.Pitch = math.Max(-limit, math.Min(limit, w.cam.Pitch+c.Look*dt))
	// Sink back toward the terrain, then keep clear of it.
	w.cam.Height -= 10 * dt
	w.cam.Follow(w.m, w.clearance)
	if c.Cycle {
		w.r.Occlusion = (w.r.Occlusion + 1) % (voxel.OcclusionBatched + 1)
	}
}

func (w *voxelWorld) Render(fb *render.Framebuffer) {
	w.stats = w.r.Render(fb, w.m, w.cam)
}

func (w *voxelWorld) Status() string {
	return fmt.Sprintf("voxel %s %d slices %d spans", w.r.Occlusion, w.stats.Slices, w.stats.Spans)
}

func (w *voxelWorld) SetBackground(c render.Color) { w.cam.Background = c }

type dungeonWorld struct {
	walker
	grid    *scene.Grid
	r       *scene.Renderer
	view    render.Camera
	size    float64
	eye     float64
	jump    float64
	player  scene.Actor
	npcs    []scene.Actor
	hop     float64
	mini    *minimap
	showMap bool
	stats   scene.Stats
}

// hopInterval is the time between NPC jumps in seconds.
const hopInterval = 1.5

func newDungeonWorld(cfg *config.Config, m *raycast.GridMap, textures *render.TextureSet) (*dungeonWorld, error) {
	size := cfg.Scene.CellSize
	g, err := scene.FromWallMap(m, size, cfg.Scene.Height, cfg.Scene.WallThickness, floorTexture, ceilingTexture)
	if err != nil {
		return nil, err
	}

	prop := models.NewBoxMesh(0.4*size, 0.4*size, 0.4*size, render.ColorStone)
	if cfg.Scene.Prop != "" {
		if prop, err = models.LoadGLB(cfg.Scene.Prop); err != nil {
			return nil, err
		}
		prop.FitToCell(0.5 * size)
	}

	view := render.NewCamera()
	view.FOV = cfg.FOV()
	view.Far = cfg.Camera.ViewDistance * size

	w := &dungeonWorld{
		walker:  newWalker(cfg, m),
		grid:    g,
		r:       scene.NewRenderer(textures),
		view:    view,
		size:    size,
		eye:     cfg.Scene.Height / 2,
		jump:    cfg.Camera.JumpSpeed,
		mini:    newMinimap(m, 2),
		showMap: true,
	}
	w.r.Mode = cfg.SceneMode()

	imp := render.NewCheckerTexture(8, 16, 4, render.RGB(200, 60, 40), render.RGB(120, 30, 20))
	for row := range m.Height() {
		for col := range m.Width() {
			if !open(m, col, row) {
				continue
			}
			center := math3d.V3((float64(col)+0.5)*size, 0, (float64(row)+0.5)*size)
			c := g.At(col, row, 0)
			switch (row*m.Width() + col) % 13 {
			case 5:
				c.Prop = &scene.Prop{Mesh: prop, Yaw: float64(col) * 0.7}
			case 8:
				c.Layers = append(c.Layers, scene.CellLayer{
					Name:   "water",
					Height: 0.02 * cfg.Scene.Height,
					Color:  render.ColorWater,
					Blend:  true,
					Fade:   cfg.Scene.Height / 2,
				})
			case 11:
				npc := scene.NewActor(fmt.Sprintf("imp%d", len(w.npcs)), center)
				npc.Sprite = imp
				npc.Height = 0.6 * cfg.Scene.Height
				w.npcs = append(w.npcs, npc)
			}
		}
	}

	start := w.cam.Pos.Scale(size)
	w.player = scene.NewActor("player", math3d.V3(start.X, 0, start.Y))
	w.place()
	return w, nil
}

// place moves the matrix camera to the player's eye. The 2D camera's yaw
// grows from +X toward +Z; the matrix camera looks down -Z at yaw 0.
func (w *dungeonWorld) place() {
	w.view.Position = w.player.Pos.Add(math3d.V3(0, w.eye, 0))
	w.view.Yaw = -float64(w.cam.Yaw) - math.Pi/2
	w.view.Pitch = w.cam.Pitch
}

// fall integrates gravity for an actor over the floor below it.
func (w *dungeonWorld) fall(a *scene.Actor, dt float64) {
	ground, ok := w.grid.FloorAt(a.Pos)
	if !ok {
		ground = 0
	}
	a.Step(dt, ground)
}

func (w *dungeonWorld) Update(dt float64, c controls) {
	w.step(dt, c)
	if c.Jump {
		w.player.Jump(w.jump)
	}
	w.player.Pos.X = w.cam.Pos.X * w.size
	w.player.Pos.Z = w.cam.Pos.Y * w.size
	w.fall(&w.player, dt)
	w.place()

	w.hop += dt
	hop := w.hop >= hopInterval
	if hop {
		w.hop = 0
	}
	for i := range w.npcs {
		if hop {
			w.npcs[i].Jump(w.jump * 0.8)
		}
		w.fall(&w.npcs[i], dt)
	}

	if c.Map {
		w.showMap = !w.showMap
	}
	if c.Cycle {
		w.r.Mode = (w.r.Mode + 1) % (scene.ModeTextured + 1)
	}
}

func (w *dungeonWorld) Render(fb *render.Framebuffer) {
	width, height := fb.Size()
	w.view.AspectRatio = float64(width) / float64(height)
	w.stats = w.r.Render(fb, w.view, w.grid, w.npcs)
	if w.showMap {
		w.mini.Draw(fb, w.cam.Pos, w.cam.Yaw)
	}
}

func (w *dungeonWorld) Status() string {
	st := w.stats
	return fmt.Sprintf("dungeon %s %d faces %d/%d cells culled %d actors", w.r.Mode, st.FacesDrawn, st.CellsCulled, st.CellsTested, st.ActorsDrawn)
}

func (w *dungeonWorld) SetBackground(c render.Color) { w.view.Background = c }
