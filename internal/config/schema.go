// Package config defines the configuration schema for neocortex.
//
// The main configuration lives at ~/.neocortex/config.json; API credentials
// live separately in a keys.txt file (see keys.go) or are passed as CLI flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AgentConfig holds defaults for the conversational agent itself.
type AgentConfig struct {
	Name           string  `json:"name"`
	SelfConcept    string  `json:"selfConcept"`
	Model          string  `json:"model"`
	APIBase        string  `json:"apiBase,omitempty"`
	ReplyTokens    int     `json:"replyTokens"`
	Temperature    float64 `json:"temperature"`
	RestoreOnStart bool    `json:"restoreOnStart"`
}

// SpeechConfig configures audio capture and transcription.
type SpeechConfig struct {
	CaptureCommand string  `json:"captureCommand,omitempty"` // auto-detected when empty
	ListenSeconds  int     `json:"listenSeconds"`
	SampleRate     int     `json:"sampleRate"`
	SilenceRMS     float64 `json:"silenceRms"` // baseline; replaced by ambient calibration
	Model          string  `json:"model"`
	APIBase        string  `json:"apiBase,omitempty"`
}

// TTSConfig configures spoken output.
type TTSConfig struct {
	Voice        string `json:"voice,omitempty"` // ElevenLabs voice ID
	RobotCommand string `json:"robotCommand,omitempty"`
	PlayCommand  string `json:"playCommand,omitempty"`
}

// StatusConfig configures the websocket status indicator.
type StatusConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// SnapshotConfig configures scheduled memory snapshots.
type SnapshotConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"` // cron expression
}

// TelegramMirrorConfig configures transcript mirroring to a Telegram chat.
type TelegramMirrorConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token,omitempty"`
	ChatID  int64  `json:"chatId,omitempty"`
}

// SlackMirrorConfig configures transcript mirroring to a Slack channel.
type SlackMirrorConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"botToken,omitempty"`
	Channel  string `json:"channel,omitempty"`
}

// MirrorConfig groups the outbound transcript mirrors.
type MirrorConfig struct {
	Telegram TelegramMirrorConfig `json:"telegram"`
	Slack    SlackMirrorConfig    `json:"slack"`
}

// Config is the root configuration object.
type Config struct {
	Agent    AgentConfig    `json:"agent"`
	Speech   SpeechConfig   `json:"speech"`
	TTS      TTSConfig      `json:"tts"`
	Status   StatusConfig   `json:"status"`
	Snapshot SnapshotConfig `json:"snapshot"`
	Mirror   MirrorConfig   `json:"mirror"`
	Neocortex string        `json:"neocortex,omitempty"` // memory store directory override
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Agent: AgentConfig{
			Name:        "Aibot",
			SelfConcept: "You are a helpful voice assistant. Keep replies short enough to be spoken aloud.",
			Model:       "gpt-4o-mini",
			ReplyTokens: 256,
			Temperature: 0.7,
		},
		Speech: SpeechConfig{
			ListenSeconds: 6,
			SampleRate:    16000,
			SilenceRMS:    250,
			Model:         "whisper-1",
		},
		Status: StatusConfig{
			Addr: "localhost:18791",
		},
		Snapshot: SnapshotConfig{
			Schedule: "@hourly",
		},
	}
}

// DataDir returns the neocortex data directory: ~/.neocortex.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".neocortex"
	}
	return filepath.Join(home, ".neocortex")
}

// ConfigPath returns the default configuration file path: ~/.neocortex/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// KeysPath returns the default credential file path: ~/.neocortex/keys.txt.
func KeysPath() string {
	return filepath.Join(DataDir(), "keys.txt")
}

// NeocortexPath resolves the memory store directory for cfg.
func (c *Config) NeocortexPath() string {
	if c.Neocortex != "" {
		return expandHome(c.Neocortex)
	}
	return filepath.Join(DataDir(), "neocortex")
}

// PresetsPath returns the named-preset catalog path: ~/.neocortex/presets.yaml.
func PresetsPath() string {
	return filepath.Join(DataDir(), "presets.yaml")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
