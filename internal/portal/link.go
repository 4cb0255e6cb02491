package portal

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Link is the single active portal pair: the planes and which view is local.
type Link struct {
	Entry  *Plane
	Exit   *Plane
	Local  *View
	Remote *View

	originOffset      rl.Vector3
	orientationOffset rl.Quaternion
	mask              Target

	// OnSwap runs after the roles are exchanged.
	OnSwap func(*Link)
}

// NewLink builds the link for entry (in local's scene) and exit (in remote's scene).
func NewLink(entry, exit *Plane, local, remote *View, mask Target) *Link {
	l := &Link{
		Entry:  entry,
		Exit:   exit,
		Local:  local,
		Remote: remote,
		mask:   mask,
	}
	l.derive()
	l.bind()
	return l
}

func (l *Link) derive() {
	l.originOffset = l.Exit.Position
	l.orientationOffset = rl.QuaternionNormalize(
		rl.QuaternionMultiply(l.Exit.Rotation, rl.QuaternionInvert(l.Entry.Rotation)),
	)
}

func (l *Link) bind() {
	l.Local.BindAsLocal()
	l.Remote.BindAsRemote(l.mask)
}

// OriginOffset is the exit plane position the remote camera is expressed against.
func (l *Link) OriginOffset() rl.Vector3 { return l.originOffset }

// OrientationOffset is exit.Rotation ⊗ inverse(entry.Rotation).
func (l *Link) OrientationOffset() rl.Quaternion { return l.orientationOffset }

// Other returns the partner of plane, or nil when plane is not in the pair.
func (l *Link) Other(plane *Plane) *Plane {
	switch plane {
	case l.Entry:
		return l.Exit
	case l.Exit:
		return l.Entry
	}
	return nil
}

// Owns reports whether node is one of the pair's planes.
func (l *Link) Owns(node Node) (*Plane, bool) {
	plane, ok := node.(*Plane)
	if !ok || (plane != l.Entry && plane != l.Exit) {
		return nil, false
	}
	return plane, true
}

// RefreshRemoteCamera places the remote camera so that its offset from the exit
// plane matches the local camera's offset from the entry plane.
func (l *Link) RefreshRemoteCamera() {
	local := l.Local.Camera()
	offset := rl.Vector3Subtract(local.Position, l.Entry.Position)

	remote := l.Remote.Camera()
	remote.Position = rl.Vector3Add(l.originOffset, rl.Vector3RotateByQuaternion(offset, l.orientationOffset))
	remote.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(l.orientationOffset, local.Rotation))
	remote.Fovy = local.Fovy
	l.Remote.SetCamera(remote)
}

// Swap exchanges local/remote views and entry/exit planes.
func (l *Link) Swap() {
	l.Local, l.Remote = l.Remote, l.Local
	l.Entry, l.Exit = l.Exit, l.Entry
	l.derive()
	l.bind()
	if l.OnSwap != nil {
		l.OnSwap(l)
	}
}

// Planes returns the pair in entry, exit order.
func (l *Link) Planes() []*Plane {
	return []*Plane{l.Entry, l.Exit}
}
