package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mlutsenko/voiceforge/pkg/bus"
	"github.com/mlutsenko/voiceforge/pkg/catalog"
	"github.com/mlutsenko/voiceforge/pkg/channels"
	"github.com/mlutsenko/voiceforge/pkg/config"
	"github.com/mlutsenko/voiceforge/pkg/elevenlabs"
	"github.com/mlutsenko/voiceforge/pkg/flow"
	"github.com/mlutsenko/voiceforge/pkg/logger"
)

// runner holds the initialized bot components so startup and shutdown
// stay in one place.
type runner struct {
	cfg      *config.Config
	msgBus   *bus.MessageBus
	store    *catalog.Store
	engine   *flow.Engine
	telegram *channels.TelegramChannel
	ctx      context.Context
	cancel   context.CancelFunc
}

func main() {
	// Missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	configPath := flag.String("config", "config.json", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		logger.SetLevel(logger.DEBUG)
	}

	r, err := createRunner(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := r.run(); err != nil {
			logger.ErrorCF("main", "Bot error", map[string]any{"error": err.Error()})
			r.stop()
			os.Exit(1)
		}
	}()

	<-sigChan
	r.stop()
}

func createRunner(configPath string) (*runner, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.LogFile != "" {
		if err := logger.EnableFileLogging(cfg.LogFile); err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
	}

	store, err := catalog.NewStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening voice storage: %w", err)
	}

	msgBus := bus.NewMessageBus()
	provider := elevenlabs.NewClient(cfg.ElevenLabs.APIKey, cfg.ElevenLabs.BaseURL)
	engine := flow.NewEngine(msgBus, provider, store)

	telegram, err := channels.NewTelegramChannel(cfg.Telegram, msgBus)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("error creating telegram channel: %w", err)
	}
	engine.RegisterDownloader(telegram.Name(), telegram)

	ctx, cancel := context.WithCancel(context.Background())
	return &runner{
		cfg:      cfg,
		msgBus:   msgBus,
		store:    store,
		engine:   engine,
		telegram: telegram,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (r *runner) run() error {
	if err := r.telegram.Start(r.ctx); err != nil {
		return fmt.Errorf("error starting telegram channel: %w", err)
	}

	go r.engine.Run(r.ctx)
	go r.dispatchOutbound()

	logger.InfoC("main", "VoiceForge bot is running")
	<-r.ctx.Done()
	return nil
}

// dispatchOutbound routes engine replies to their transport channel.
func (r *runner) dispatchOutbound() {
	for {
		msg, ok := r.msgBus.ConsumeOutbound(r.ctx)
		if !ok {
			if r.ctx.Err() != nil {
				return
			}
			continue
		}

		sendCtx, cancel := context.WithTimeout(r.ctx, 2*time.Minute)
		if err := r.telegram.Send(sendCtx, msg); err != nil {
			logger.ErrorCF("main", "Failed to deliver message", map[string]any{
				"chat_id": msg.ChatID,
				"error":   err.Error(),
			})
		}
		cancel()
	}
}

func (r *runner) stop() {
	logger.InfoC("main", "Shutting down...")
	r.engine.Stop()
	r.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.telegram.Stop(ctx); err != nil {
		logger.ErrorCF("main", "Error stopping telegram channel", map[string]any{
			"error": err.Error(),
		})
	}
	r.msgBus.Close()
	if err := r.store.Close(); err != nil {
		logger.ErrorCF("main", "Error closing voice storage", map[string]any{
			"error": err.Error(),
		})
	}

	logger.InfoC("main", "Shutdown complete")
}
