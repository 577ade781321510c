package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neocortex/neocortex/internal/config"
	"github.com/neocortex/neocortex/internal/schema"
	"github.com/neocortex/neocortex/internal/tts"
)

var sayRobot bool

var sayCmd = &cobra.Command{
	Use:   "say [text...]",
	Short: "Speak text aloud through the configured voice",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSay,
}

func init() {
	sayCmd.Flags().BoolVar(&sayRobot, "robot", false, "Use the robotic local voice")
}

func runSay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The ElevenLabs key is optional here; without it the local voice speaks.
	keys, _ := config.LoadKeys(config.KeysPath())

	speaker := tts.NewSpeaker(keys.ElevenLabs, cfg.TTS.Voice, cfg.TTS.RobotCommand, cfg.TTS.PlayCommand)

	style := schema.StyleNormal
	if sayRobot {
		style = schema.StyleRobotic
	}
	return speaker.Speak(cmd.Context(), strings.Join(args, " "), style)
}
