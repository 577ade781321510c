package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/neocortex/neocortex/internal/bus"
	"github.com/neocortex/neocortex/internal/config"
	"github.com/neocortex/neocortex/internal/dependency"
	"github.com/neocortex/neocortex/internal/status"
)

var (
	listenOpenAIKey string
	listenElevenKey string
	listenRestore   bool
	listenVerbose   bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Start the voice loop",
	RunE:  runListen,
}

func init() {
	listenCmd.Flags().StringVar(&listenOpenAIKey, "openai-key", "", "OpenAI API key (overrides keys.txt)")
	listenCmd.Flags().StringVar(&listenElevenKey, "elevenlabs-key", "", "ElevenLabs API key (overrides keys.txt)")
	listenCmd.Flags().BoolVarP(&listenRestore, "restore", "r", false, "Restore memories on start")
	listenCmd.Flags().BoolVarP(&listenVerbose, "verbose", "v", false, "Verbose logging")
}

func runListen(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if listenVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	keys, err := config.ResolveKeys(config.KeysPath(), listenOpenAIKey, listenElevenKey)
	if err != nil {
		return err
	}

	container, err := dependency.New(cfg, keys)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl := container.Controller()
	sigBus := container.Bus()

	fmt.Printf("%s neocortex listening as %s\n", logo, cfg.Agent.Name)
	fmt.Println("keys: [l] listen  [p] cancel  [q] save and quit  [x] quit")

	ctrl.Start(ctx, cfg.Agent.RestoreOnStart || listenRestore)

	if cfg.Snapshot.Enabled {
		if err := container.SnapshotService().Start(); err != nil {
			return err
		}
		defer container.SnapshotService().Stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Status.Enabled {
		g.Go(func() error { return container.StatusServer().Run(gctx) })
	}

	g.Go(func() error {
		defer stop()
		return ctrl.RunLoop(gctx)
	})

	go keyLoop(gctx, sigBus)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("\nGoodbye.")
	return nil
}

// keyLoop reads single-letter commands from stdin and converts them into
// control signals. It shares key bindings with the websocket status page.
func keyLoop(ctx context.Context, b bus.Bus) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		key := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if key == "" {
			key = "l" // bare Enter starts a listen, like the original spacebar
		}
		sig, ok := status.SignalForKey(key)
		if !ok {
			fmt.Println("keys: [l] listen  [p] cancel  [q] save and quit  [x] quit")
			continue
		}
		b.PublishSignal(sig)
		if sig == bus.SignalExit || sig == bus.SignalSaveExit {
			return
		}
	}
}
