package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neocortex/neocortex/internal/config"
	"github.com/neocortex/neocortex/internal/neocortex"
)

var memoriesCmd = &cobra.Command{
	Use:   "memories",
	Short: "Show the stored conversation and memory artifacts",
	RunE:  runMemories,
}

func runMemories(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store := neocortex.NewStore(cfg.NeocortexPath())
	if !store.Exists() {
		fmt.Printf("No memories yet. The neocortex will be created at %s on first save.\n", store.Dir())
		return nil
	}

	transcript, concept, err := store.Restore()
	if err != nil {
		return fmt.Errorf("read neocortex: %w", err)
	}

	if concept != "" {
		fmt.Printf("Self-concept:\n%s\n\n", concept)
	}
	if transcript.Len() > 0 {
		fmt.Printf("Conversation (%d exchanges):\n%s\n", transcript.Len(), transcript.Render(cfg.Agent.Name))
	} else {
		fmt.Println("Conversation: empty")
	}

	artifacts, err := store.Enumerate()
	if err != nil {
		return fmt.Errorf("read neocortex: %w", err)
	}
	for _, a := range artifacts {
		fmt.Printf("\n--- %s ---\n%s\n", a.ID, a.Content)
	}
	return nil
}
