package portal

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	axisForward = rl.NewVector3(0, 0, 1)
	axisUp      = rl.NewVector3(0, 1, 0)
	axisRight   = rl.NewVector3(1, 0, 0)
)

// Pose is a rigid transform: a position and a unit rotation. It never carries scale.
type Pose struct {
	Position rl.Vector3
	Rotation rl.Quaternion
}

// NewPose builds a pose from a position and a yaw angle in radians around +Y.
func NewPose(position rl.Vector3, yaw float32) Pose {
	return Pose{
		Position: position,
		Rotation: rl.QuaternionFromAxisAngle(axisUp, yaw),
	}
}

// Forward returns the rotated +Z axis.
func (p Pose) Forward() rl.Vector3 { return Forward(p.Rotation) }

// Up returns the rotated +Y axis.
func (p Pose) Up() rl.Vector3 { return Up(p.Rotation) }

// Right returns Forward x Up.
func (p Pose) Right() rl.Vector3 { return Right(p.Rotation) }

// Matrix returns the column-vector matrix T·R for the pose.
func (p Pose) Matrix() rl.Matrix {
	q := rl.QuaternionNormalize(p.Rotation)
	x := rl.Vector3RotateByQuaternion(axisRight, q)
	y := rl.Vector3RotateByQuaternion(axisUp, q)
	z := rl.Vector3RotateByQuaternion(axisForward, q)

	return rl.Matrix{
		M0: x.X, M4: y.X, M8: z.X, M12: p.Position.X,
		M1: x.Y, M5: y.Y, M9: z.Y, M13: p.Position.Y,
		M2: x.Z, M6: y.Z, M10: z.Z, M14: p.Position.Z,
		M3: 0, M7: 0, M11: 0, M15: 1,
	}
}

// PoseFromMatrix extracts translation and rotation from an orthonormal matrix.
func PoseFromMatrix(m rl.Matrix) Pose {
	// QuaternionFromMatrix sums M15 into the trace, so it only sees the 3x3 block.
	rot := m
	rot.M12, rot.M13, rot.M14 = 0, 0, 0
	rot.M3, rot.M7, rot.M11, rot.M15 = 0, 0, 0, 0
	return Pose{
		Position: rl.NewVector3(m.M12, m.M13, m.M14),
		Rotation: rl.QuaternionNormalize(rl.QuaternionFromMatrix(rot)),
	}
}

func Forward(q rl.Quaternion) rl.Vector3 { return rl.Vector3RotateByQuaternion(axisForward, q) }

func Up(q rl.Quaternion) rl.Vector3 { return rl.Vector3RotateByQuaternion(axisUp, q) }

func Right(q rl.Quaternion) rl.Vector3 {
	return rl.Vector3CrossProduct(Forward(q), Up(q))
}

// mul returns a·b in column-vector notation (b is applied first).
// rl.MatrixMultiply(left, right) applies left first.
func mul(a, b rl.Matrix) rl.Matrix {
	return rl.MatrixMultiply(b, a)
}

// Mirror reflects point across the plane through planePoint with normal planeNormal.
func Mirror(point, planePoint, planeNormal rl.Vector3) rl.Vector3 {
	n := rl.Vector3Normalize(planeNormal)
	d := rl.Vector3DotProduct(rl.Vector3Subtract(planePoint, point), n)
	return rl.Vector3Add(point, rl.Vector3Scale(n, 2*d))
}

// ComposeAcrossPortal maps actor from the frame of source into the frame of dest:
// dest · inverse(source) · actor.
func ComposeAcrossPortal(actor, source, dest rl.Matrix) rl.Matrix {
	return mul(dest, mul(rl.MatrixInvert(source), actor))
}

// ComposeRotation is the rotation block of ComposeAcrossPortal.
func ComposeRotation(actor, source, dest rl.Quaternion) rl.Quaternion {
	relative := rl.QuaternionMultiply(dest, rl.QuaternionInvert(source))
	return rl.QuaternionNormalize(rl.QuaternionMultiply(relative, actor))
}

// ComposePose is ComposeAcrossPortal on poses.
func ComposePose(actor, source, dest Pose) Pose {
	return PoseFromMatrix(ComposeAcrossPortal(actor.Matrix(), source.Matrix(), dest.Matrix()))
}
