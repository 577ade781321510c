package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neocortex/neocortex/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and the credential template",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	// LoadKeys writes the template when the file is missing; the resulting
	// ConfigurationError is the expected first-run outcome, not a failure.
	keysPath := config.KeysPath()
	if _, err := config.LoadKeys(keysPath); err != nil {
		var cfgErr *config.ConfigurationError
		if !errors.As(err, &cfgErr) {
			return err
		}
		fmt.Printf("✓ Created credential template at %s\n", keysPath)
	} else {
		fmt.Printf("Credentials already present at %s\n", keysPath)
	}

	fmt.Printf("\n%s neocortex is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Put your OpenAI key (and optionally an ElevenLabs key) in %s\n", keysPath)
	fmt.Println("  2. Start talking: neocortex listen")
	return nil
}
