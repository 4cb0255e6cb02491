package portal

import (
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultHalfExtents matches a 1 x 2.5 picture-frame surface.
var DefaultHalfExtents = rl.NewVector2(0.5, 1.25)

// System owns the plane pair for the whole session and drives open, close,
// update and render.
type System struct {
	entry      *Plane
	exit       *Plane
	views      map[string]*View
	order      []string
	active     *View
	link       *Link
	detector   Detector
	compositor *Compositor

	OnOpen  func(*Link)
	OnClose func()
	OnCross func(Crossing)
}

func NewSystem(backend Backend, mask Target, halfExtents rl.Vector2) *System {
	if halfExtents.X <= 0 || halfExtents.Y <= 0 {
		halfExtents = DefaultHalfExtents
	}
	return &System{
		entry:      NewPlane("portal-entry", halfExtents, ParkedEntry),
		exit:       NewPlane("portal-exit", halfExtents, ParkedExit),
		views:      make(map[string]*View),
		compositor: NewCompositor(backend, mask),
	}
}

// Register adds a view. The first registered view becomes active.
func (s *System) Register(view *View) {
	id := view.ID()
	if _, exists := s.views[id]; !exists {
		s.order = append(s.order, id)
	}
	s.views[id] = view
	if s.active == nil {
		s.setActive(view)
	}
}

// SetActive moves the tracked camera into another registered scene. Any open
// pair is closed first.
func (s *System) SetActive(id string) bool {
	view, ok := s.views[id]
	if !ok {
		utils.Warn("Portal: cannot activate unknown scene %q", id)
		return false
	}
	s.Close()
	s.setActive(view)
	return true
}

func (s *System) setActive(view *View) {
	s.active = view
	view.BindAsLocal()
	s.compositor.Unbind(view)
}

func (s *System) Active() *View { return s.active }

func (s *System) View(id string) (*View, bool) {
	view, ok := s.views[id]
	return view, ok
}

// Views returns registered views in registration order.
func (s *System) Views() []*View {
	views := make([]*View, 0, len(s.order))
	for _, id := range s.order {
		views = append(views, s.views[id])
	}
	return views
}

func (s *System) Link() *Link { return s.link }

func (s *System) IsOpen() bool { return s.link != nil }

func (s *System) Planes() (entry, exit *Plane) { return s.entry, s.exit }

func (s *System) Compositor() *Compositor { return s.compositor }

func (s *System) Detector() *Detector { return &s.detector }

// Open places the pair at the anchors and links the active scene with dest.
// Any open pair is closed first. Opening onto the active scene or an unknown
// scene leaves no pair open and returns false.
func (s *System) Open(dest string, localAnchor, remoteAnchor Pose) bool {
	s.Close()

	if s.active == nil {
		utils.Warn("Portal: open(%s) with no active scene", dest)
		return false
	}
	if dest == s.active.ID() {
		utils.Debug("Portal: refusing to open %s onto itself", dest)
		return false
	}
	remote, ok := s.views[dest]
	if !ok {
		utils.Warn("Portal: open(%s): scene not registered", dest)
		return false
	}
	local := s.active

	s.entry.Place(localAnchor, dest)
	s.exit.Place(remoteAnchor, local.ID())
	s.entry.Spawn(local.Scene())
	s.exit.Spawn(remote.Scene())

	link := NewLink(s.entry, s.exit, local, remote, s.compositor.Mask())
	link.OnSwap = s.rebind
	s.link = link
	s.compositor.Bind(link)
	s.detector.Reset(local.Camera().Position)
	link.RefreshRemoteCamera()

	utils.Info("Portal: opened %s -> %s", local.ID(), dest)
	if s.OnOpen != nil {
		s.OnOpen(link)
	}
	return true
}

// Close parks the pair and falls back to single-scene rendering.
func (s *System) Close() {
	if s.link == nil {
		return
	}
	local := s.link.Local

	s.entry.Park()
	s.exit.Park()
	s.link = nil
	s.setActive(local)

	utils.Info("Portal: closed, active scene %s", local.ID())
	if s.OnClose != nil {
		s.OnClose()
	}
}

func (s *System) rebind(link *Link) {
	s.active = link.Local
	s.compositor.Bind(link)
}

// Update runs one tick and returns the crossing, if one fired.
func (s *System) Update(dt float32) (Crossing, bool) {
	var crossing Crossing
	crossed := false

	if s.link != nil {
		s.link.RefreshRemoteCamera()
		crossing, crossed = s.detector.Detect(s.link)
		s.link.RefreshRemoteCamera()
	}

	if s.link != nil {
		s.link.Local.Advance(dt)
		s.link.Remote.Advance(dt)
	} else if s.active != nil {
		s.active.Advance(dt)
	}

	if crossed && s.OnCross != nil {
		s.OnCross(crossing)
	}
	return crossing, crossed
}

func (s *System) Render() {
	s.compositor.Render()
}
