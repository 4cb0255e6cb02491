package debug

import (
	"fmt"
	"math"

	"portalscene/internal/portal"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PlaneInfo is what the Portal tab shows for one surface.
type PlaneInfo struct {
	Name        string
	Position    rl.Vector3
	Normal      rl.Vector3
	HalfExtents rl.Vector2
	Destination string
	Scene       string
	Parked      bool
}

// TargetInfo is one render target thumbnail.
type TargetInfo struct {
	Label   string
	Texture rl.Texture2D
	Depth   rl.Texture2D
}

// Snapshot is the per-frame portal state the overlay renders. Building it is
// separate from drawing so it can be inspected without a window.
type Snapshot struct {
	Level        string
	Open         bool
	Entry        PlaneInfo
	Exit         PlaneInfo
	LocalView    string
	RemoteView   string
	OriginOffset rl.Vector3
	OffsetYaw    float32
	Crossings    int
	LastCrossing string
	Player       rl.Vector3
	Targets      []TargetInfo
}

func planeInfo(p *portal.Plane) PlaneInfo {
	info := PlaneInfo{
		Name:        p.Name,
		Position:    p.Position,
		Normal:      p.Normal(),
		HalfExtents: p.HalfExtents,
		Destination: p.Destination(),
		Parked:      p.Parked(),
	}
	if scene := p.Scene(); scene != nil {
		info.Scene = scene.ID()
	}
	return info
}

// YawDegrees is the heading of q about +Y, in (-180, 180].
func YawDegrees(q rl.Quaternion) float32 {
	f := portal.Forward(q)
	return float32(math.Atan2(float64(f.X), float64(f.Z)) * 180 / math.Pi)
}

// Capture reads sys into a Snapshot. last may be nil.
func Capture(sys *portal.System, last *portal.Crossing, player rl.Vector3) Snapshot {
	snap := Snapshot{
		Open:      sys.IsOpen(),
		Crossings: sys.Detector().Count(),
		Player:    player,
	}
	if active := sys.Active(); active != nil {
		snap.Level = active.ID()
	}

	entry, exit := sys.Planes()
	snap.Entry = planeInfo(entry)
	snap.Exit = planeInfo(exit)

	if link := sys.Link(); link != nil {
		snap.LocalView = link.Local.ID()
		snap.RemoteView = link.Remote.ID()
		snap.OriginOffset = link.OriginOffset()
		snap.OffsetYaw = YawDegrees(link.OrientationOffset())
	}

	if last != nil {
		snap.LastCrossing = fmt.Sprintf("%s -> %s via %s", last.From, last.To, last.Source.Name)
	}

	if mask := sys.Compositor().Mask(); mask != nil {
		snap.Targets = append(snap.Targets, TargetInfo{Label: "mask", Texture: mask.Color(), Depth: mask.Depth()})
	}
	for _, view := range sys.Views() {
		if view.Target() == nil {
			continue
		}
		snap.Targets = append(snap.Targets, TargetInfo{
			Label:   fmt.Sprintf("%s (%s)", view.ID(), view.Mode()),
			Texture: view.ColorTexture(),
			Depth:   view.DepthTexture(),
		})
	}
	return snap
}

func vec(v rl.Vector3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

func planeLines(p PlaneInfo) []string {
	if p.Parked {
		return []string{p.Name + ": parked"}
	}
	return []string{
		fmt.Sprintf("%s: %s -> %s", p.Name, p.Scene, p.Destination),
		"  pos " + vec(p.Position),
		"  normal " + vec(p.Normal),
		fmt.Sprintf("  size %.2f x %.2f", p.HalfExtents.X*2, p.HalfExtents.Y*2),
	}
}

// PortalLines renders the Portal tab as plain text.
func PortalLines(s Snapshot) []string {
	lines := []string{
		"Level: " + s.Level,
		"Player: " + vec(s.Player),
	}
	if !s.Open {
		lines = append(lines, "Portal: closed")
	} else {
		lines = append(lines,
			fmt.Sprintf("Portal: %s | %s", s.LocalView, s.RemoteView),
			"Origin offset: "+vec(s.OriginOffset),
			fmt.Sprintf("Orientation offset: %.1f deg", s.OffsetYaw),
		)
	}
	lines = append(lines, planeLines(s.Entry)...)
	lines = append(lines, planeLines(s.Exit)...)
	lines = append(lines, fmt.Sprintf("Crossings: %d", s.Crossings))
	if s.LastCrossing != "" {
		lines = append(lines, "Last: "+s.LastCrossing)
	}
	return lines
}
