package portal

// Tag marks a node with a role. A nil Tag means the node is plain geometry.
type Tag interface {
	isTag()
}

// PortalSurface marks a node as a portal surface leading into Destination.
type PortalSurface struct {
	Destination string
}

func (PortalSurface) isTag() {}

// SurfaceDestination reports the destination of a portal-surface tag.
func SurfaceDestination(tag Tag) (string, bool) {
	switch t := tag.(type) {
	case PortalSurface:
		return t.Destination, true
	case *PortalSurface:
		if t == nil {
			return "", false
		}
		return t.Destination, true
	}
	return "", false
}
