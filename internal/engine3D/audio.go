package engine3D

import (
	"portalscene/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type audioStream struct {
	path   string
	music  rl.Music
	active bool
}

// AudioManager plays one looping ambient stream per scene and cached one-shot sounds.
type AudioManager struct {
	streams map[string]*audioStream
	sounds  map[string]rl.Sound
	current string
	Volume  float32
}

func NewAudioManager() *AudioManager {
	if !utils.SilentMode && !rl.IsAudioDeviceReady() {
		rl.InitAudioDevice()
	}
	return &AudioManager{
		streams: make(map[string]*audioStream),
		sounds:  make(map[string]rl.Sound),
		Volume:  0.6,
	}
}

func (am *AudioManager) enabled() bool {
	return !utils.SilentMode && rl.IsAudioDeviceReady()
}

// SetAmbient switches the looping stream to path, pausing the previous one.
// An empty path stops ambient playback.
func (am *AudioManager) SetAmbient(path string) {
	if path == am.current {
		return
	}
	if prev, ok := am.streams[am.current]; ok && prev.active {
		rl.PauseMusicStream(prev.music)
	}
	am.current = path
	if path == "" || !am.enabled() {
		return
	}

	stream, ok := am.streams[path]
	if !ok {
		music := rl.LoadMusicStream(utils.ResolveAssetPath(path))
		if !rl.IsMusicValid(music) {
			utils.Warn("Audio: could not load ambient %s", path)
			am.streams[path] = &audioStream{path: path}
			return
		}
		music.Looping = true
		stream = &audioStream{path: path, music: music, active: true}
		am.streams[path] = stream
		rl.SetMusicVolume(music, am.Volume)
		rl.PlayMusicStream(music)
		utils.Info("Audio: playing ambient %s (Vol: %.2f)", path, am.Volume)
		return
	}
	if stream.active {
		rl.ResumeMusicStream(stream.music)
	}
}

// Play fires a one-shot sound, loading it on first use.
func (am *AudioManager) Play(path string) bool {
	if !am.enabled() || path == "" {
		return false
	}
	sound, ok := am.sounds[path]
	if !ok {
		sound = rl.LoadSound(utils.ResolveAssetPath(path))
		if !rl.IsSoundValid(sound) {
			utils.Warn("Audio: could not load sound %s", path)
			return false
		}
		rl.SetSoundVolume(sound, am.Volume)
		am.sounds[path] = sound
	}
	rl.PlaySound(sound)
	utils.Debug("Audio: play %s", path)
	return true
}

func (am *AudioManager) Update() {
	if stream, ok := am.streams[am.current]; ok && stream.active {
		rl.UpdateMusicStream(stream.music)
	}
}

func (am *AudioManager) Close() {
	for _, stream := range am.streams {
		if stream.active {
			rl.StopMusicStream(stream.music)
			rl.UnloadMusicStream(stream.music)
			stream.active = false
		}
	}
	for _, sound := range am.sounds {
		rl.UnloadSound(sound)
	}
	am.sounds = make(map[string]rl.Sound)
	if rl.IsAudioDeviceReady() {
		rl.CloseAudioDevice()
	}
}
