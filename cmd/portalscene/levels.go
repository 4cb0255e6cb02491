package main

import (
	"portalscene/internal/engine3D"
	"portalscene/internal/level"
	"portalscene/internal/portal"
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// frameDistance is how far ahead of the player the picture frame is raised.
const (
	frameDistance = 1.5
	frameHeight   = 1.25
)

// Level is one loaded manifest with its scene and view.
type Level struct {
	Manifest *level.Manifest
	Scene    *engine3D.Scene
	View     *portal.View
}

func vec3(v level.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// AnchorPose turns a manifest anchor into a pose.
func AnchorPose(a level.Anchor) portal.Pose {
	return portal.NewPose(vec3(a.Position), a.YawRadians())
}

// FrameAnchor is the pose of a frame raised in front of a player at position
// looking along yaw. The frame faces away from the player so walking forward
// goes through it.
func FrameAnchor(position rl.Vector3, yaw float32) portal.Pose {
	ahead := portal.NewPose(rl.Vector3{}, yaw).Forward()
	pos := rl.Vector3Add(position, rl.Vector3Scale(ahead, frameDistance))
	pos.Y = frameHeight
	return portal.NewPose(pos, yaw)
}

// propFromSpec builds the prop for one manifest box. Missing sizes default to 1.
func propFromSpec(ps level.PropSpec) *engine3D.Prop {
	size := vec3(ps.Size)
	if size.X <= 0 {
		size.X = 1
	}
	if size.Y <= 0 {
		size.Y = 1
	}
	if size.Z <= 0 {
		size.Z = 1
	}
	prop := engine3D.NewProp(ps.Name, portal.NewPose(vec3(ps.Position), ps.YawRadians()), size, ps.Solid)
	if ps.Color != nil {
		prop.Tint = ps.Color.RGBA
	}
	return prop
}

// populate fills scene with the manifest's props. textures may be nil.
func populate(scene *engine3D.Scene, m *level.Manifest, textures func(string) *rl.Texture2D) {
	for _, ps := range m.AllProps() {
		prop := propFromSpec(ps)
		if ps.Texture != "" && textures != nil {
			prop.Texture = textures(ps.Texture)
		}
		scene.Add(prop)
	}
	scene.Sky = m.SkyColor()
	scene.Ambient = m.Ambient
	utils.Debug("Level %s: %d props, %d static colliders", m.Name, len(scene.Props()), scene.Physics().StaticCount())
}

func buildLevel(m *level.Manifest, target portal.Target, fovy float32, textures func(string) *rl.Texture2D) *Level {
	scene := engine3D.NewScene(m.Name, m.SkyColor())
	populate(scene, m, textures)
	return &Level{
		Manifest: m,
		Scene:    scene,
		View:     portal.NewView(scene, target, fovy),
	}
}
