// Package dependency wires core neocortex services using go.uber.org/dig.
package dependency

import (
	"os"

	"go.uber.org/dig"

	"github.com/neocortex/neocortex/internal/agent"
	"github.com/neocortex/neocortex/internal/bus"
	"github.com/neocortex/neocortex/internal/config"
	"github.com/neocortex/neocortex/internal/mirror"
	"github.com/neocortex/neocortex/internal/neocortex"
	"github.com/neocortex/neocortex/internal/persona"
	"github.com/neocortex/neocortex/internal/providers"
	"github.com/neocortex/neocortex/internal/schema"
	"github.com/neocortex/neocortex/internal/session"
	"github.com/neocortex/neocortex/internal/snapshot"
	"github.com/neocortex/neocortex/internal/speech"
	"github.com/neocortex/neocortex/internal/status"
	"github.com/neocortex/neocortex/internal/tts"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	controller *agent.Controller
	sigBus     bus.Bus
	statusSrv  *status.Server
	snapSvc    *snapshot.Service
	store      *neocortex.Store
	sess       *session.Session
}

func (c *Container) Controller() *agent.Controller      { return c.controller }
func (c *Container) Bus() bus.Bus                       { return c.sigBus }
func (c *Container) StatusServer() *status.Server       { return c.statusSrv }
func (c *Container) SnapshotService() *snapshot.Service { return c.snapSvc }
func (c *Container) Store() *neocortex.Store            { return c.store }
func (c *Container) Session() *session.Session          { return c.sess }

// New builds and wires all core services from cfg and keys.
func New(cfg *config.Config, keys config.Keys) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() config.Keys { return keys }); err != nil {
		return nil, err
	}
	if err := d.Provide(newStore); err != nil {
		return nil, err
	}
	if err := d.Provide(newSession); err != nil {
		return nil, err
	}
	if err := d.Provide(newPersona); err != nil {
		return nil, err
	}
	if err := d.Provide(newTranscript); err != nil {
		return nil, err
	}
	if err := d.Provide(newSignalBus); err != nil {
		return nil, err
	}
	if err := d.Provide(newRecognizer); err != nil {
		return nil, err
	}
	if err := d.Provide(newSpeaker); err != nil {
		return nil, err
	}
	if err := d.Provide(newProvider); err != nil {
		return nil, err
	}
	if err := d.Provide(newMirrors); err != nil {
		return nil, err
	}
	if err := d.Provide(newController); err != nil {
		return nil, err
	}
	if err := d.Provide(newStatusServer); err != nil {
		return nil, err
	}
	if err := d.Provide(newSnapshotService); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		controller *agent.Controller,
		sigBus bus.Bus,
		statusSrv *status.Server,
		snapSvc *snapshot.Service,
		store *neocortex.Store,
		sess *session.Session,
	) {
		result = &Container{
			controller: controller,
			sigBus:     sigBus,
			statusSrv:  statusSrv,
			snapSvc:    snapSvc,
			store:      store,
			sess:       sess,
		}
	})
	return result, err
}

func newStore(cfg *config.Config) *neocortex.Store {
	return neocortex.NewStore(cfg.NeocortexPath())
}

func newSession(cfg *config.Config) *session.Session {
	return session.New(cfg.Agent.ReplyTokens)
}

func newPersona(cfg *config.Config, store *neocortex.Store) (*persona.Manager, error) {
	catalog, err := persona.LoadCatalog(config.PresetsPath())
	if err != nil {
		return nil, err
	}
	return persona.NewManager(cfg.Agent.Name, cfg.Agent.SelfConcept, store, catalog), nil
}

func newTranscript() *schema.Transcript {
	return schema.NewTranscript()
}

func newSignalBus() bus.Bus {
	return bus.NewSignalBus(16)
}

func newRecognizer(cfg *config.Config, keys config.Keys) speech.Recognizer {
	capture := speech.NewMicCapture(
		cfg.Speech.CaptureCommand,
		cfg.Speech.SampleRate,
		cfg.Speech.ListenSeconds,
		cfg.Speech.SilenceRMS,
	)
	return speech.NewWhisperRecognizer(capture, keys.OpenAI, cfg.Speech.APIBase, cfg.Speech.Model)
}

func newSpeaker(cfg *config.Config, keys config.Keys) tts.Speaker {
	return tts.NewSpeaker(keys.ElevenLabs, cfg.TTS.Voice, cfg.TTS.RobotCommand, cfg.TTS.PlayCommand)
}

func newProvider(cfg *config.Config, keys config.Keys) schema.LLMProvider {
	return providers.NewOpenAIProvider(keys.OpenAI, cfg.Agent.APIBase, cfg.Agent.Model)
}

func newMirrors(cfg *config.Config) (*mirror.Manager, error) {
	m := mirror.NewManager()
	if tg := cfg.Mirror.Telegram; tg.Enabled && tg.Token != "" {
		n, err := mirror.NewTelegramNotifier(tg.Token, tg.ChatID, cfg.Agent.Name)
		if err != nil {
			return nil, err
		}
		m.Add(n)
	}
	if sl := cfg.Mirror.Slack; sl.Enabled && sl.BotToken != "" {
		m.Add(mirror.NewSlackNotifier(sl.BotToken, sl.Channel, cfg.Agent.Name))
	}
	return m, nil
}

func newController(
	cfg *config.Config,
	sess *session.Session,
	p *persona.Manager,
	store *neocortex.Store,
	transcript *schema.Transcript,
	recognizer speech.Recognizer,
	speaker tts.Speaker,
	provider schema.LLMProvider,
	sigBus bus.Bus,
	mirrors *mirror.Manager,
) *agent.Controller {
	return agent.NewController(agent.Options{
		Session:     sess,
		Persona:     p,
		Store:       store,
		Transcript:  transcript,
		Recognizer:  recognizer,
		Speaker:     speaker,
		Provider:    provider,
		Bus:         sigBus,
		Mirrors:     mirrors,
		Model:       cfg.Agent.Model,
		Temperature: cfg.Agent.Temperature,
		Out:         os.Stdout,
	})
}

func newStatusServer(cfg *config.Config, sigBus bus.Bus) *status.Server {
	return status.NewServer(cfg.Status.Addr, sigBus)
}

func newSnapshotService(cfg *config.Config, store *neocortex.Store, controller *agent.Controller) *snapshot.Service {
	return snapshot.NewService(cfg.Snapshot.Schedule, store, controller.SnapshotText)
}
