package level

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vec3 is [x, y, z] in world units.
type Vec3 [3]float32

// Anchor is a position plus a heading in degrees about +Y. Yaw 0 faces +Z.
type Anchor struct {
	Position Vec3    `yaml:"position"`
	Yaw      float32 `yaml:"yaw"`
}

func (a Anchor) YawRadians() float32 {
	return a.Yaw * math.Pi / 180
}

// Color is a hex "#rrggbb" or "#rrggbbaa" scalar.
type Color struct {
	color.RGBA
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	rgba, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.RGBA = rgba
	return nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}

func ParseHexColor(value string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color format: %s", value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var out [4]uint8
	out[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color format: %s", value)
		}
		out[i] = v
	}
	return color.RGBA{R: out[0], G: out[1], B: out[2], A: out[3]}, nil
}

// PropSpec is one box of level geometry. Size is the full extent.
type PropSpec struct {
	Name     string  `yaml:"name"`
	Position Vec3    `yaml:"position"`
	Size     Vec3    `yaml:"size"`
	Yaw      float32 `yaml:"yaw"`
	Color    *Color  `yaml:"color"`
	Texture  string  `yaml:"texture"`
	Solid    bool    `yaml:"solid"`
}

func (p PropSpec) YawRadians() float32 {
	return p.Yaw * math.Pi / 180
}

// RoomSpec expands into a floor, a ceiling and four solid walls.
type RoomSpec struct {
	Center    [2]float32 `yaml:"center"`
	Width     float32    `yaml:"width"`
	Depth     float32    `yaml:"depth"`
	Height    float32    `yaml:"height"`
	Thickness float32    `yaml:"thickness"`
	Floor     *Color     `yaml:"floor"`
	Walls     *Color     `yaml:"walls"`
	Ceiling   *Color     `yaml:"ceiling"`
}

type TriggerKind string

const (
	TriggerEnter    TriggerKind = "enter"
	TriggerInteract TriggerKind = "interact"
)

// TriggerSpec runs Script when the player enters the sphere or presses
// interact inside it.
type TriggerSpec struct {
	Name     string      `yaml:"name"`
	Position Vec3        `yaml:"position"`
	Radius   float32     `yaml:"radius"`
	Kind     TriggerKind `yaml:"kind"`
	Script   string      `yaml:"script"`
}

// Manifest describes one memory level.
type Manifest struct {
	Name      string            `yaml:"name"`
	Sky       *Color            `yaml:"sky"`
	Ambient   string            `yaml:"ambient"`
	Spawn     Anchor            `yaml:"spawn"`
	Neighbors []string          `yaml:"neighbors"`
	Room      *RoomSpec         `yaml:"room"`
	Props     []PropSpec        `yaml:"props"`
	Portals   map[string]Anchor `yaml:"portals"`
	Arrival   *Anchor           `yaml:"arrival"`
	Triggers  []TriggerSpec     `yaml:"triggers"`
}

func ParseManifest(name string, data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("level: unmarshal %s: %w", name, err)
	}
	if m.Name == "" {
		m.Name = name
	}
	for i := range m.Triggers {
		t := &m.Triggers[i]
		switch t.Kind {
		case "":
			t.Kind = TriggerInteract
		case TriggerEnter, TriggerInteract:
		default:
			return nil, fmt.Errorf("level: %s trigger %q: unknown kind %q", m.Name, t.Name, t.Kind)
		}
		if t.Radius <= 0 {
			t.Radius = 1
		}
	}
	return &m, nil
}

// SkyColor falls back to a dark grey.
func (m *Manifest) SkyColor() color.RGBA {
	if m.Sky == nil {
		return color.RGBA{R: 24, G: 24, B: 28, A: 255}
	}
	return m.Sky.RGBA
}

// AllProps returns the room shell followed by the explicit props.
func (m *Manifest) AllProps() []PropSpec {
	props := make([]PropSpec, 0, len(m.Props)+6)
	if m.Room != nil {
		props = append(props, m.Room.Props()...)
	}
	return append(props, m.Props...)
}

// Portal returns the frame anchor leading to dest.
func (m *Manifest) Portal(dest string) (Anchor, bool) {
	a, ok := m.Portals[dest]
	return a, ok
}

func (m *Manifest) HasNeighbor(name string) bool {
	for _, n := range m.Neighbors {
		if n == name {
			return true
		}
	}
	return false
}

func (r RoomSpec) Props() []PropSpec {
	t := r.Thickness
	if t <= 0 {
		t = 0.2
	}
	cx, cz := r.Center[0], r.Center[1]
	w, d, h := r.Width, r.Depth, r.Height

	floor, walls, ceiling := r.Floor, r.Walls, r.Ceiling
	if walls == nil {
		walls = floor
	}
	if ceiling == nil {
		ceiling = walls
	}

	return []PropSpec{
		{Name: "floor", Position: Vec3{cx, -t / 2, cz}, Size: Vec3{w, t, d}, Color: floor, Solid: true},
		{Name: "ceiling", Position: Vec3{cx, h + t/2, cz}, Size: Vec3{w, t, d}, Color: ceiling, Solid: true},
		{Name: "wall-east", Position: Vec3{cx + (w+t)/2, h / 2, cz}, Size: Vec3{t, h, d + 2*t}, Color: walls, Solid: true},
		{Name: "wall-west", Position: Vec3{cx - (w+t)/2, h / 2, cz}, Size: Vec3{t, h, d + 2*t}, Color: walls, Solid: true},
		{Name: "wall-north", Position: Vec3{cx, h / 2, cz + (d+t)/2}, Size: Vec3{w, h, t}, Color: walls, Solid: true},
		{Name: "wall-south", Position: Vec3{cx, h / 2, cz - (d+t)/2}, Size: Vec3{w, h, t}, Color: walls, Solid: true},
	}
}
