package portal

// Compositor schedules the per-frame passes. It owns only the mask target.
type Compositor struct {
	backend Backend
	mask    Target

	active *View
	local  *View
	remote *View
	planes []*Plane
}

func NewCompositor(backend Backend, mask Target) *Compositor {
	return &Compositor{backend: backend, mask: mask}
}

func (c *Compositor) Mask() Target { return c.mask }

// SetMask replaces the mask target, e.g. after a window resize.
func (c *Compositor) SetMask(mask Target) { c.mask = mask }

// Bind points the merge inputs at a linked pair.
func (c *Compositor) Bind(link *Link) {
	c.local = link.Local
	c.remote = link.Remote
	c.planes = link.Planes()
	c.active = link.Local
}

// Unbind falls back to drawing active alone.
func (c *Compositor) Unbind(active *View) {
	c.local = nil
	c.remote = nil
	c.planes = nil
	c.active = active
}

func (c *Compositor) Bound() bool { return c.local != nil && c.remote != nil }

// Render runs mask, remote, local, merge when bound, otherwise one plain pass.
func (c *Compositor) Render() {
	if !c.Bound() {
		if c.active == nil {
			return
		}
		c.active.Draw(c.backend)
		c.backend.Present(c.active.Target())
		return
	}

	c.backend.DrawMask(c.maskPlanes(), c.local.Camera(), c.mask)
	c.remote.Draw(c.backend)
	c.local.Draw(c.backend)
	c.backend.Merge(c.local.Target(), c.remote.Target(), c.mask)
}

// maskPlanes returns the bound planes that live in the local scene; the partner
// sits in the remote scene and projects onto the same silhouette.
func (c *Compositor) maskPlanes() []*Plane {
	planes := make([]*Plane, 0, len(c.planes))
	for _, plane := range c.planes {
		if plane.Scene() == c.local.Scene() {
			planes = append(planes, plane)
		}
	}
	return planes
}
