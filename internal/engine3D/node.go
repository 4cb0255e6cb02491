package engine3D

import (
	"image/color"

	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Prop is a box of level geometry.
type Prop struct {
	Name    string
	Tint    color.RGBA
	Texture *rl.Texture2D

	pose  portal.Pose
	scale rl.Vector3
	solid bool
}

func NewProp(name string, pose portal.Pose, scale rl.Vector3, solid bool) *Prop {
	return &Prop{
		Name:  name,
		Tint:  rl.LightGray,
		pose:  pose,
		scale: scale,
		solid: solid,
	}
}

func (p *Prop) Pose() portal.Pose { return p.pose }

func (p *Prop) SetPose(pose portal.Pose) { p.pose = pose }

func (p *Prop) Scale() rl.Vector3 { return p.scale }

func (p *Prop) Tag() portal.Tag { return nil }

func (p *Prop) Solid() bool { return p.solid }

// Bounds is the axis-aligned box around the posed prop.
func (p *Prop) Bounds() rl.BoundingBox {
	return nodeBounds(p)
}

func nodeBounds(node portal.Node) rl.BoundingBox {
	pose := node.Pose()
	half := rl.Vector3Scale(node.Scale(), 0.5)
	box := rl.BoundingBox{Min: pose.Position, Max: pose.Position}
	for _, sx := range []float32{-1, 1} {
		for _, sy := range []float32{-1, 1} {
			for _, sz := range []float32{-1, 1} {
				corner := rl.NewVector3(sx*half.X, sy*half.Y, sz*half.Z)
				w := rl.Vector3Add(pose.Position, rl.Vector3RotateByQuaternion(corner, pose.Rotation))
				box.Min = rl.Vector3Min(box.Min, w)
				box.Max = rl.Vector3Max(box.Max, w)
			}
		}
	}
	return box
}
