package engine3D

import (
	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// castNodes returns the nearest solid or tagged node hit by ray. Each oriented
// box is tested in its own frame against an axis-aligned unit box scaled by
// the node's visual size; rigid poses keep distances unchanged.
func castNodes(nodes []portal.Node, ray rl.Ray) (portal.Hit, bool) {
	var best portal.Hit
	found := false

	for _, node := range nodes {
		if !node.Solid() && node.Tag() == nil {
			continue
		}
		hit, ok := castNode(node, ray)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

func castNode(node portal.Node, ray rl.Ray) (portal.Hit, bool) {
	pose := node.Pose()
	inverse := rl.QuaternionInvert(pose.Rotation)
	local := rl.Ray{
		Position:  rl.Vector3RotateByQuaternion(rl.Vector3Subtract(ray.Position, pose.Position), inverse),
		Direction: rl.Vector3RotateByQuaternion(ray.Direction, inverse),
	}

	half := rl.Vector3Scale(node.Scale(), 0.5)
	box := rl.BoundingBox{Min: rl.Vector3Negate(half), Max: half}

	collision := rl.GetRayCollisionBox(local, box)
	if !collision.Hit || collision.Distance < 0 {
		return portal.Hit{}, false
	}

	return portal.Hit{
		Node:     node,
		Position: rl.Vector3Add(pose.Position, rl.Vector3RotateByQuaternion(collision.Point, pose.Rotation)),
		Normal:   rl.Vector3RotateByQuaternion(collision.Normal, pose.Rotation),
		Distance: collision.Distance,
	}, true
}
