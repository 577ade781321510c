package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Keys holds the API credentials loaded at startup.
// OpenAI is required; ElevenLabs is optional (local TTS is used without it).
type Keys struct {
	OpenAI     string
	ElevenLabs string
}

// ConfigurationError is fatal at startup: the process cannot run without the
// required credential. Guidance carries the instruction shown to the user.
type ConfigurationError struct {
	Guidance string
}

func (e *ConfigurationError) Error() string { return e.Guidance }

// keysTemplate is written when no keys file exists so the user has something
// to fill in. The key names match the original keys.txt format.
const keysTemplate = "OpenAI_Key=\nElevenLabs_Key="

// LoadKeys reads the key file at path and parses the two recognised entries.
// A missing file is created from the template and reported as a
// ConfigurationError so the user knows where to put their key.
func LoadKeys(path string) (Keys, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if merr := os.MkdirAll(filepath.Dir(path), 0o755); merr != nil {
				return Keys{}, fmt.Errorf("create key file dir: %w", merr)
			}
			if werr := os.WriteFile(path, []byte(keysTemplate), 0o600); werr != nil {
				return Keys{}, fmt.Errorf("create key file %s: %w", path, werr)
			}
			return Keys{}, &ConfigurationError{
				Guidance: fmt.Sprintf("created %s — fill in OpenAI_Key or pass the key as an argument", path),
			}
		}
		return Keys{}, fmt.Errorf("read key file %s: %w", path, err)
	}

	return parseKeys(string(data)), nil
}

// parseKeys extracts OpenAI_Key= and ElevenLabs_Key= values from the file
// body. Spaces inside a value are stripped; unknown lines are ignored.
func parseKeys(body string) Keys {
	var keys Keys
	for _, line := range strings.Split(body, "\n") {
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.ReplaceAll(strings.TrimSpace(value), " ", "")
		switch strings.TrimSpace(name) {
		case "OpenAI_Key":
			keys.OpenAI = value
		case "ElevenLabs_Key":
			keys.ElevenLabs = value
		}
	}
	return keys
}

// ResolveKeys merges CLI-argument keys over file-loaded keys and enforces the
// required-credential rule. Argument keys win; the OpenAI key is mandatory.
func ResolveKeys(path, argOpenAI, argElevenLabs string) (Keys, error) {
	keys := Keys{OpenAI: argOpenAI, ElevenLabs: argElevenLabs}
	if keys.OpenAI != "" {
		return keys, nil
	}

	loaded, err := LoadKeys(path)
	if err != nil {
		return Keys{}, err
	}

	keys.OpenAI = loaded.OpenAI
	if keys.ElevenLabs == "" {
		keys.ElevenLabs = loaded.ElevenLabs
	}

	if keys.OpenAI == "" {
		return Keys{}, &ConfigurationError{
			Guidance: fmt.Sprintf("no OpenAI key found — add OpenAI_Key to %s or pass it as an argument", path),
		}
	}
	return keys, nil
}
