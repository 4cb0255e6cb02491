package script

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"portalscene/internal/utils"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Phase selects which script entry point runs.
type Phase string

const (
	PhaseEnter    Phase = "enter"
	PhaseInteract Phase = "interact"
)

var phaseFuncs = map[Phase]string{
	PhaseEnter:    "on_enter",
	PhaseInteract: "on_interact",
}

// DefaultTimeout bounds a single phase run.
const DefaultTimeout = 50 * time.Millisecond

// Loader returns a script's source by name.
type Loader func(name string) ([]byte, error)

type program struct {
	compiled *tengo.Compiled
	phases   map[Phase]bool
}

// Runtime compiles trigger scripts once and runs their phases against a Host.
type Runtime struct {
	load    Loader
	host    Host
	cache   map[string]*program
	flags   map[string]interface{}
	Timeout time.Duration
}

func NewRuntime(load Loader, host Host) *Runtime {
	return &Runtime{
		load:    load,
		host:    host,
		cache:   make(map[string]*program),
		flags:   make(map[string]interface{}),
		Timeout: DefaultTimeout,
	}
}

// Run executes phase of script name. A script without that entry point is a no-op.
func (r *Runtime) Run(ctx context.Context, name string, phase Phase, trigger string) error {
	prog, err := r.program(name)
	if err != nil {
		return err
	}
	if !prog.phases[phase] {
		utils.Debug("Script: %s has no %s handler", name, phaseFuncs[phase])
		return nil
	}

	engine := buildEngine(r, trigger)
	if err := prog.compiled.Set("__phase", string(phase)); err != nil {
		return fmt.Errorf("script: %s: %w", name, err)
	}
	if err := prog.compiled.Set("__engine", engine); err != nil {
		return fmt.Errorf("script: %s: %w", name, err)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	if err := prog.compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("script: %s %s: %w", name, phase, err)
	}
	return nil
}

// Has reports whether script name compiles and defines phase.
func (r *Runtime) Has(name string, phase Phase) bool {
	prog, err := r.program(name)
	return err == nil && prog.phases[phase]
}

// Invalidate drops a cached compile so the next Run reloads the source.
func (r *Runtime) Invalidate(name string) {
	if _, ok := r.cache[name]; ok {
		utils.Debug("Script: invalidated %s", name)
	}
	delete(r.cache, name)
}

func (r *Runtime) Flag(key string) (interface{}, bool) {
	v, ok := r.flags[key]
	return v, ok
}

func (r *Runtime) SetFlag(key string, value interface{}) {
	r.flags[key] = value
}

// ResetFlags clears session state, e.g. on restart.
func (r *Runtime) ResetFlags() {
	r.flags = make(map[string]interface{})
}

func (r *Runtime) program(name string) (*program, error) {
	if prog, ok := r.cache[name]; ok {
		return prog, nil
	}

	src, err := r.load(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}

	phases := definedPhases(string(src))
	full := string(src) + "\n" + dispatchTrailer(phases)

	s := tengo.NewScript([]byte(full))
	_ = s.Add("__phase", "")
	_ = s.Add("__engine", map[string]interface{}{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	prog := &program{compiled: compiled, phases: phases}
	r.cache[name] = prog
	utils.Debug("Script: compiled %s (%d handlers)", name, len(phases))
	return prog, nil
}

// definedPhases finds top-level `on_enter := func` style declarations.
func definedPhases(src string) map[Phase]bool {
	phases := make(map[Phase]bool)
	for phase, fn := range phaseFuncs {
		re := regexp.MustCompile(`(?m)^\s*` + fn + `\s*:?=\s*func\b`)
		if re.MatchString(src) {
			phases[phase] = true
		}
	}
	return phases
}

// dispatchTrailer calls only the handlers the script defines, so missing
// ones never become undefined-identifier compile errors.
func dispatchTrailer(phases map[Phase]bool) string {
	var sb strings.Builder
	first := true
	for _, phase := range []Phase{PhaseEnter, PhaseInteract} {
		if !phases[phase] {
			continue
		}
		if first {
			sb.WriteString("if ")
			first = false
		} else {
			sb.WriteString(" else if ")
		}
		fmt.Fprintf(&sb, "__phase == %q {\n\t%s(__engine)\n}", string(phase), phaseFuncs[phase])
	}
	sb.WriteString("\n")
	return sb.String()
}
