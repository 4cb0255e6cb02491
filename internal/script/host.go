package script

import (
	"strings"

	"portalscene/internal/utils"

	"github.com/d5/tengo/v2"
)

// Host is what trigger scripts may do to the running game.
type Host interface {
	Open(dest string) bool
	Close()
	IsOpen() bool
	CurrentLevel() string
	Neighbors() []string
	PlayerPosition() [3]float32
	Play(sound string) bool

	// Pickup moves the named prop of the current level into the player's hands.
	Pickup(item string) bool
	// Place sets the held item down at a world position; Drop sets it at the player's feet.
	Place(at [3]float32) bool
	Drop() bool
	// Held is the name of the item in hand, or "".
	Held() string
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

// argVec3 reads three numeric arguments starting at i.
func argVec3(args []tengo.Object, i int) ([3]float32, bool) {
	var v [3]float32
	if len(args) < i+3 {
		return v, false
	}
	for k := 0; k < 3; k++ {
		f, ok := tengo.ToFloat64(args[i+k])
		if !ok {
			return v, false
		}
		v[k] = float32(f)
	}
	return v, true
}

func argString(args []tengo.Object, i int) string {
	if i >= len(args) || args[i] == nil {
		return ""
	}
	if s, ok := tengo.ToString(args[i]); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// buildEngine exposes the host API as the immutable map scripts receive.
func buildEngine(r *Runtime, trigger string) *tengo.ImmutableMap {
	h := r.host
	values := map[string]tengo.Object{}

	values["trigger"] = &tengo.String{Value: trigger}

	values["open"] = &tengo.UserFunction{Name: "open", Value: func(args ...tengo.Object) (tengo.Object, error) {
		dest := argString(args, 0)
		if dest == "" {
			return tengo.FalseValue, nil
		}
		return boolObject(h.Open(dest)), nil
	}}

	values["close"] = &tengo.UserFunction{Name: "close", Value: func(args ...tengo.Object) (tengo.Object, error) {
		h.Close()
		return tengo.UndefinedValue, nil
	}}

	values["is_open"] = &tengo.UserFunction{Name: "is_open", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(h.IsOpen()), nil
	}}

	values["current_level"] = &tengo.UserFunction{Name: "current_level", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: h.CurrentLevel()}, nil
	}}

	values["neighbors"] = &tengo.UserFunction{Name: "neighbors", Value: func(args ...tengo.Object) (tengo.Object, error) {
		names := h.Neighbors()
		out := make([]tengo.Object, 0, len(names))
		for _, n := range names {
			out = append(out, &tengo.String{Value: n})
		}
		return &tengo.ImmutableArray{Value: out}, nil
	}}

	values["player_position"] = &tengo.UserFunction{Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p := h.PlayerPosition()
		return &tengo.ImmutableArray{Value: []tengo.Object{
			&tengo.Float{Value: float64(p[0])},
			&tengo.Float{Value: float64(p[1])},
			&tengo.Float{Value: float64(p[2])},
		}}, nil
	}}

	values["play"] = &tengo.UserFunction{Name: "play", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(h.Play(argString(args, 0))), nil
	}}

	values["pickup"] = &tengo.UserFunction{Name: "pickup", Value: func(args ...tengo.Object) (tengo.Object, error) {
		item := argString(args, 0)
		if item == "" {
			return tengo.FalseValue, nil
		}
		return boolObject(h.Pickup(item)), nil
	}}

	values["place"] = &tengo.UserFunction{Name: "place", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) == 0 {
			return boolObject(h.Drop()), nil
		}
		at, ok := argVec3(args, 0)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "position", Expected: "three numbers", Found: args[0].TypeName()}
		}
		return boolObject(h.Place(at)), nil
	}}

	values["held"] = &tengo.UserFunction{Name: "held", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: h.Held()}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			if s, ok := tengo.ToString(a); ok {
				parts = append(parts, s)
			}
		}
		utils.Info("Script[%s]: %s", trigger, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	values["set_flag"] = &tengo.UserFunction{Name: "set_flag", Value: func(args ...tengo.Object) (tengo.Object, error) {
		key := argString(args, 0)
		if key == "" {
			return tengo.FalseValue, nil
		}
		var value interface{} = true
		if len(args) > 1 {
			value = tengo.ToInterface(args[1])
		}
		r.SetFlag(key, value)
		return tengo.TrueValue, nil
	}}

	values["flag"] = &tengo.UserFunction{Name: "flag", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := r.Flag(argString(args, 0))
		if !ok {
			return tengo.FalseValue, nil
		}
		obj, err := tengo.FromInterface(v)
		if err != nil {
			return tengo.UndefinedValue, nil
		}
		return obj, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
