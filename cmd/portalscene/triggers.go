package main

import (
	"portalscene/internal/level"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// triggerTracker remembers which enter triggers the player is standing in so
// each fires once per visit.
type triggerTracker struct {
	inside map[string]bool
}

func (t *triggerTracker) Reset() {
	t.inside = nil
}

// horizontal distance only; triggers are columns, not spheres.
func triggerDistance(trig level.TriggerSpec, pos rl.Vector3) float32 {
	dx := pos.X - trig.Position[0]
	dz := pos.Z - trig.Position[2]
	return rl.Vector3Length(rl.NewVector3(dx, 0, dz))
}

// Update returns the enter triggers crossed into since the last call and the
// nearest interact trigger in reach, if any.
func (t *triggerTracker) Update(triggers []level.TriggerSpec, pos rl.Vector3) ([]level.TriggerSpec, *level.TriggerSpec) {
	if t.inside == nil {
		t.inside = make(map[string]bool)
	}

	var entered []level.TriggerSpec
	var nearby *level.TriggerSpec
	best := float32(0)

	for i := range triggers {
		trig := triggers[i]
		d := triggerDistance(trig, pos)
		in := d <= trig.Radius

		switch trig.Kind {
		case level.TriggerEnter:
			if in && !t.inside[trig.Name] {
				entered = append(entered, trig)
			}
			t.inside[trig.Name] = in
		case level.TriggerInteract:
			if in && (nearby == nil || d < best) {
				nearby = &triggers[i]
				best = d
			}
		}
	}
	return entered, nearby
}
