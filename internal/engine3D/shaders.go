package engine3D

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed shaders
var shaderFS embed.FS

// DepthBias lets the mask win ties against coplanar local geometry.
const DepthBias = 0.00002

// PreprocessShader prepends the version line and shared macros and resolves
// #include "file" lines against the embedded shader directory.
func PreprocessShader(source string, defines map[string]string, name string) string {
	var sb strings.Builder
	sb.WriteString("#version 330\n")

	for k, v := range defines {
		sb.WriteString(fmt.Sprintf("#define %s %s\n", k, v))
	}
	sb.WriteString("#define saturate(x) clamp(x, 0.0, 1.0)\n")

	included := make(map[string]bool)
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#include \"") && strings.HasSuffix(trimmed, "\"") {
			file := strings.TrimSpace(trimmed[len("#include \"") : len(trimmed)-1])
			if included[file] {
				continue
			}
			data, err := shaderFS.ReadFile(path.Join("shaders", file))
			if err != nil {
				utils.Warn("Shader: %s - could not resolve include: %s", name, file)
				continue
			}
			sb.WriteString(strings.Trim(string(data), "\ufeff"))
			sb.WriteString("\n")
			included[file] = true
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// LoadShader compiles an embedded vertex/fragment pair. Returns an empty
// shader when compilation fails so callers fall back to raylib's default.
func LoadShader(vertex, fragment string, defines map[string]string) rl.Shader {
	name := strings.TrimSuffix(fragment, ".fs")

	vData, err := shaderFS.ReadFile(path.Join("shaders", vertex))
	if err != nil {
		utils.Warn("Shader: %s - no vertex source: %v", name, err)
		return rl.Shader{}
	}
	fData, err := shaderFS.ReadFile(path.Join("shaders", fragment))
	if err != nil {
		utils.Warn("Shader: %s - no fragment source: %v", name, err)
		return rl.Shader{}
	}

	vSource := PreprocessShader(string(vData), defines, name)
	fSource := PreprocessShader(string(fData), defines, name)

	var shader rl.Shader
	func() {
		defer func() {
			if r := recover(); r != nil {
				utils.Error("Shader: %s - compilation panic (skipping): %v", name, r)
				shader = rl.Shader{}
			}
		}()
		shader = rl.LoadShaderFromMemory(vSource, fSource)
	}()

	if !rl.IsShaderValid(shader) {
		utils.Warn("Shader: %s - failed to compile (using default)", name)
		return rl.Shader{}
	}
	utils.Info("Shader: %s - loaded (ID: %d)", name, shader.ID)
	return shader
}

// Shaders holds the four pass programs and their uniform locations.
type Shaders struct {
	Local  rl.Shader
	Remote rl.Shader
	Mask   rl.Shader
	Merge  rl.Shader

	locs map[uint32]map[string]int32
}

func LoadShaders() *Shaders {
	defines := map[string]string{
		"DEPTH_BIAS": fmt.Sprintf("%.8f", DepthBias),
	}
	s := &Shaders{
		Local:  LoadShader("scene.vs", "local.fs", defines),
		Remote: LoadShader("scene.vs", "remote.fs", defines),
		Mask:   LoadShader("scene.vs", "mask.fs", defines),
		Merge:  LoadShader("merge.vs", "merge.fs", defines),
		locs:   make(map[uint32]map[string]int32),
	}
	return s
}

// Loc caches GetShaderLocation lookups. Returns -1 for an unloaded shader.
func (s *Shaders) Loc(shader rl.Shader, uniform string) int32 {
	if shader.ID == 0 {
		return -1
	}
	byName, ok := s.locs[shader.ID]
	if !ok {
		byName = make(map[string]int32)
		s.locs[shader.ID] = byName
	}
	if loc, ok := byName[uniform]; ok {
		return loc
	}
	loc := rl.GetShaderLocation(shader, uniform)
	byName[uniform] = loc
	return loc
}

func (s *Shaders) SetVec2(shader rl.Shader, uniform string, x, y float32) {
	if loc := s.Loc(shader, uniform); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{x, y}, rl.ShaderUniformVec2)
	}
}

func (s *Shaders) SetVec3(shader rl.Shader, uniform string, v rl.Vector3) {
	if loc := s.Loc(shader, uniform); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{v.X, v.Y, v.Z}, rl.ShaderUniformVec3)
	}
}

func (s *Shaders) SetVec4(shader rl.Shader, uniform string, x, y, z, w float32) {
	if loc := s.Loc(shader, uniform); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{x, y, z, w}, rl.ShaderUniformVec4)
	}
}

func (s *Shaders) SetFloat(shader rl.Shader, uniform string, v float32) {
	if loc := s.Loc(shader, uniform); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

func (s *Shaders) SetTexture(shader rl.Shader, uniform string, texture rl.Texture2D) {
	if loc := s.Loc(shader, uniform); loc >= 0 {
		rl.SetShaderValueTexture(shader, loc, texture)
	}
}

func (s *Shaders) Unload() {
	for _, shader := range []rl.Shader{s.Local, s.Remote, s.Mask, s.Merge} {
		if shader.ID != 0 {
			rl.UnloadShader(shader)
		}
	}
	s.locs = make(map[uint32]map[string]int32)
}
