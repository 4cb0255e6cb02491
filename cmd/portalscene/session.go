package main

import (
	"context"
	"fmt"

	"portalscene/internal/engine3D"
	"portalscene/internal/level"
	"portalscene/internal/portal"
	"portalscene/internal/script"
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	soundFrameOpen  = "audio/frame_open.wav"
	soundFrameClose = "audio/frame_close.wav"
	soundCross      = "audio/cross.wav"
	soundPickup     = "audio/pickup.wav"
	soundPlace      = "audio/place.wav"
)

// dropDistance is how far ahead of the player a dropped item lands.
const dropDistance = 0.8

// Audio is the part of the audio manager the session drives.
type Audio interface {
	Play(path string) bool
	SetAmbient(path string)
}

// Input is one frame of player intent.
type Input struct {
	Forward  float32
	Strafe   float32
	LookX    float32
	LookY    float32
	Interact bool
	Frame    bool
	Drop     bool
	Cycle    int
}

// SessionConfig wires a session to its collaborators. Backend, Mask, Targets,
// Textures and Audio may all be nil when nothing is drawn or heard.
type SessionConfig struct {
	Graph    *level.Graph
	Start    string
	Fovy     float32
	Backend  portal.Backend
	Mask     portal.Target
	Targets  func(name string) portal.Target
	Textures func(name string) *rl.Texture2D
	Audio    Audio
}

// Session is the running game without the window: levels, the portal system,
// the player and trigger scripts. It is also the script host.
type Session struct {
	cfg     SessionConfig
	graph   *level.Graph
	system  *portal.System
	levels  map[string]*Level
	player  *Player
	scripts *script.Runtime

	triggers   triggerTracker
	frameIndex int

	inventory Inventory
	// placed holds items set down in each level, so reloads keep them.
	placed map[string][]*engine3D.Prop

	// Nearby is the interact trigger in reach after the last Update.
	Nearby       *level.TriggerSpec
	LastCrossing *portal.Crossing
}

func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Graph == nil {
		return nil, fmt.Errorf("session: no level graph")
	}
	start, ok := cfg.Graph.Get(cfg.Start)
	if !ok {
		return nil, fmt.Errorf("session: unknown start level %q", cfg.Start)
	}

	s := &Session{
		cfg:    cfg,
		graph:  cfg.Graph,
		system: portal.NewSystem(cfg.Backend, cfg.Mask, portal.DefaultHalfExtents),
		levels: make(map[string]*Level),
		placed: make(map[string][]*engine3D.Prop),
		player: NewPlayer(start.Spawn.YawRadians()),
	}
	s.scripts = script.NewRuntime(level.LoadScript, s)

	// The start level registers first so it becomes the active view.
	s.addLevel(start)
	for _, name := range cfg.Graph.Names() {
		if name == start.Name {
			continue
		}
		m, _ := cfg.Graph.Get(name)
		s.addLevel(m)
	}

	s.player.Place(s.levels[start.Name].Scene, start.Spawn.Position[0], start.Spawn.Position[2])
	s.syncCamera()
	s.system.OnCross = s.onCross

	s.setAmbient(start.Ambient)
	utils.Info("Session: started in %s (%d levels)", start.Name, len(s.levels))
	return s, nil
}

func (s *Session) addLevel(m *level.Manifest) *Level {
	var target portal.Target
	if s.cfg.Targets != nil {
		target = s.cfg.Targets(m.Name)
	}
	lvl := buildLevel(m, target, s.cfg.Fovy, s.cfg.Textures)
	s.levels[m.Name] = lvl
	s.system.Register(lvl.View)
	return lvl
}

func (s *Session) System() *portal.System { return s.system }

func (s *Session) Player() *Player { return s.player }

func (s *Session) Scripts() *script.Runtime { return s.scripts }

func (s *Session) Inventory() *Inventory { return &s.inventory }

func (s *Session) Level(name string) (*Level, bool) {
	lvl, ok := s.levels[name]
	return lvl, ok
}

// Current is the level the player stands in.
func (s *Session) Current() *Level {
	return s.levels[s.system.Active().ID()]
}

func (s *Session) Camera() portal.Camera {
	return s.system.Active().Camera()
}

func (s *Session) syncCamera() {
	view := s.system.Active()
	camera := view.Camera()
	camera.Pose = s.player.Pose()
	view.SetCamera(camera)
}

func (s *Session) play(path string) {
	if s.cfg.Audio != nil {
		s.cfg.Audio.Play(path)
	}
}

func (s *Session) setAmbient(path string) {
	if s.cfg.Audio != nil {
		s.cfg.Audio.SetAmbient(path)
	}
}

func (s *Session) onCross(c portal.Crossing) {
	dest := s.levels[c.To]
	s.player.Transfer(dest.Scene, c)
	s.LastCrossing = &c
	s.triggers.Reset()
	s.setAmbient(dest.Manifest.Ambient)
	s.play(soundCross)
	utils.Info("Session: walked from %s into %s", c.From, c.To)
}

// Update runs one frame: look and walk, portal tick, then triggers.
// It reports whether the player crossed this frame.
func (s *Session) Update(dt float32, in Input) bool {
	s.player.Look(in.LookX, in.LookY)
	s.player.Move(in.Forward, in.Strafe)
	s.syncCamera()

	_, crossed := s.system.Update(dt)

	if in.Frame {
		s.ToggleFrame()
	}
	if in.Cycle != 0 {
		s.inventory.Cycle(in.Cycle)
	}
	if in.Drop {
		s.Drop()
	}

	entered, nearby := s.triggers.Update(s.Current().Manifest.Triggers, s.player.Position())
	for _, trig := range entered {
		s.runTrigger(trig, script.PhaseEnter)
	}
	s.Nearby = nearby
	if in.Interact && nearby != nil {
		s.runTrigger(*nearby, script.PhaseInteract)
	}
	return crossed
}

func (s *Session) runTrigger(trig level.TriggerSpec, phase script.Phase) {
	if trig.Script == "" {
		return
	}
	utils.Debug("Session: trigger %s (%s)", trig.Name, phase)
	if err := s.scripts.Run(context.Background(), trig.Script, phase, trig.Name); err != nil {
		utils.Warn("Session: trigger %s: %v", trig.Name, err)
	}
}

// ToggleFrame closes an open portal, or raises the frame in front of the
// player onto the next neighbour in turn.
func (s *Session) ToggleFrame() {
	if s.system.IsOpen() {
		s.system.Close()
		s.play(soundFrameClose)
		return
	}
	cur := s.Current().Manifest
	neighbors := s.graph.Neighbors(cur.Name)
	if len(neighbors) == 0 {
		utils.Info("Session: %s has no neighbouring memories", cur.Name)
		return
	}
	dest := neighbors[s.frameIndex%len(neighbors)]
	s.frameIndex++

	anchor := FrameAnchor(s.player.Position(), s.player.Yaw)
	if s.open(dest, &anchor) {
		s.play(soundFrameOpen)
	}
}

// open links the current level with dest. local overrides the entry anchor;
// otherwise the manifest's portal anchor for dest is used, falling back to a
// frame in front of the player.
func (s *Session) open(dest string, local *portal.Pose) bool {
	s.system.Close()

	cur := s.Current().Manifest
	if !cur.HasNeighbor(dest) {
		utils.Warn("Session: %s is not a neighbour of %s", dest, cur.Name)
		return false
	}
	target, ok := s.graph.Get(dest)
	if !ok || target.Arrival == nil {
		utils.Warn("Session: %s has no arrival anchor", dest)
		return false
	}

	var entry portal.Pose
	switch {
	case local != nil:
		entry = *local
	default:
		if anchor, ok := cur.Portal(dest); ok {
			entry = AnchorPose(anchor)
		} else {
			entry = FrameAnchor(s.player.Position(), s.player.Yaw)
		}
	}
	return s.system.Open(dest, entry, AnchorPose(*target.Arrival))
}

// Reload applies a hot-reload change from the watcher.
func (s *Session) Reload(change level.Change) {
	switch change.Kind {
	case level.ChangeScript:
		s.scripts.Invalidate(change.Name)
		utils.Info("Session: script %s reloaded", change.Name)
	case level.ChangeLevel:
		m, err := level.LoadManifest(change.Name)
		if err != nil {
			utils.Error("Session: reload %s: %v", change.Name, err)
			return
		}
		s.graph.Put(m)
		if err := s.graph.Validate(); err != nil {
			utils.Warn("Session: level graph after reloading %s: %v", m.Name, err)
		}

		lvl, ok := s.levels[m.Name]
		if !ok {
			s.addLevel(m)
			utils.Info("Session: level %s added", m.Name)
			return
		}
		lvl.Manifest = m
		lvl.Scene.ClearProps()
		populate(lvl.Scene, m, s.cfg.Textures)
		s.restoreItems(lvl)
		if lvl == s.Current() {
			s.triggers.Reset()
			s.setAmbient(m.Ambient)
		}
		utils.Info("Session: level %s rebuilt", m.Name)
	}
}

// Script host.

func (s *Session) Open(dest string) bool { return s.open(dest, nil) }

func (s *Session) Close() { s.system.Close() }

func (s *Session) IsOpen() bool { return s.system.IsOpen() }

func (s *Session) CurrentLevel() string { return s.system.Active().ID() }

func (s *Session) Neighbors() []string { return s.graph.Neighbors(s.CurrentLevel()) }

func (s *Session) PlayerPosition() [3]float32 {
	p := s.player.Position()
	return [3]float32{p.X, p.Y, p.Z}
}

func (s *Session) Play(sound string) bool {
	if s.cfg.Audio == nil {
		return false
	}
	return s.cfg.Audio.Play(sound)
}

func (s *Session) Pickup(item string) bool {
	lvl := s.Current()
	for _, prop := range lvl.Scene.Props() {
		if prop.Name != item {
			continue
		}
		lvl.Scene.Remove(prop)
		s.unplace(lvl.Manifest.Name, prop)
		s.inventory.Add(prop)
		s.play(soundPickup)
		utils.Info("Session: picked up %s in %s", item, lvl.Manifest.Name)
		return true
	}
	utils.Debug("Session: no %s to pick up in %s", item, lvl.Manifest.Name)
	return false
}

func (s *Session) Place(at [3]float32) bool {
	item := s.inventory.Take()
	if item == nil {
		return false
	}
	lvl := s.Current()
	item.SetPose(portal.NewPose(rl.NewVector3(at[0], at[1], at[2]), s.player.Yaw))
	lvl.Scene.Add(item)
	s.placed[lvl.Manifest.Name] = append(s.placed[lvl.Manifest.Name], item)
	s.play(soundPlace)
	utils.Info("Session: placed %s in %s", item.Name, lvl.Manifest.Name)
	return true
}

// Drop sets the held item on the floor just ahead of the player.
func (s *Session) Drop() bool {
	item := s.inventory.Held()
	if item == nil {
		return false
	}
	pos := rl.Vector3Add(s.player.Position(), rl.Vector3Scale(s.player.Heading(), dropDistance))
	return s.Place([3]float32{pos.X, item.Scale().Y / 2, pos.Z})
}

func (s *Session) Held() string {
	if item := s.inventory.Held(); item != nil {
		return item.Name
	}
	return ""
}

func (s *Session) unplace(level string, item *engine3D.Prop) {
	placed := s.placed[level]
	for i, p := range placed {
		if p == item {
			s.placed[level] = append(placed[:i], placed[i+1:]...)
			return
		}
	}
}

// restoreItems reconciles a rebuilt level with the player's items: carried
// ones stay out of the scene and placed ones come back.
func (s *Session) restoreItems(lvl *Level) {
	placed := s.placed[lvl.Manifest.Name]
	for _, prop := range lvl.Scene.Props() {
		if s.inventory.Carries(prop.Name) || placedNamed(placed, prop.Name) {
			lvl.Scene.Remove(prop)
		}
	}
	for _, item := range placed {
		lvl.Scene.Add(item)
	}
}

func placedNamed(placed []*engine3D.Prop, name string) bool {
	for _, p := range placed {
		if p.Name == name {
			return true
		}
	}
	return false
}
