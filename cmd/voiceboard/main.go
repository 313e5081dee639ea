// Command voiceboard runs the voice-to-diagram HTTP API: it transcribes
// recorded audio, derives diagram edit actions from the transcript via a
// language model, and publishes the latest batch for the front-end to poll.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/voiceboard/internal/api"
	"github.com/skillsenselab/voiceboard/internal/config"
	"github.com/skillsenselab/voiceboard/internal/diagram"
	"github.com/skillsenselab/voiceboard/internal/llm/openai"
	"github.com/skillsenselab/voiceboard/internal/logger"
	"github.com/skillsenselab/voiceboard/internal/server"
	"github.com/skillsenselab/voiceboard/internal/stt/whisper"
)

const serviceName = "voiceboard"

func main() {
	var cfg config.Config
	if err := config.Load(serviceName, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&cfg.Logging, cfg.Name)

	llmProvider, err := openai.NewProvider(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create LLM provider", logger.ErrorFields("startup", err))
	}

	sttProvider := whisper.NewProvider(whisper.Config{
		BaseURL:  cfg.STT.BaseURL,
		Timeout:  cfg.STT.Timeout,
		Language: cfg.STT.Language,
		BeamSize: cfg.STT.BeamSize,
	})

	agent := diagram.NewAgent(llmProvider, log)

	sink, err := diagram.NewSink(cfg.Sink.Path, log)
	if err != nil {
		log.Fatal("Failed to create action sink", logger.ErrorFields("startup", err))
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	handlers := api.NewHandlers(sttProvider, agent, sink, api.Options{
		MinAudioBytes: cfg.STT.MinAudioBytes,
		Language:      cfg.STT.Language,
		BeamSize:      cfg.STT.BeamSize,
	}, log)
	handlers.Register(srv.GinEngine())

	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		log.Fatal("Failed to start server", logger.ErrorFields("startup", err))
	}

	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if !sttProvider.IsAvailable(probeCtx) {
		log.Warn("Speech-recognition sidecar is not reachable yet", map[string]interface{}{
			"base_url": cfg.STT.BaseURL,
		})
	}
	cancel()

	log.Info("Voice recording API ready", map[string]interface{}{
		"addr":   srv.Addr(),
		"sink":   sink.Path(),
		"model":  cfg.LLM.Model,
		"health": fmt.Sprintf("http://%s/health", srv.Addr()),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := srv.Stop(ctx); err != nil {
		log.Error("Shutdown error", logger.ErrorFields("shutdown", err))
	}
}
