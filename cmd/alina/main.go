package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/pitabwire/frame"
	frameconfig "github.com/pitabwire/frame/config"
	"github.com/rs/xid"

	alinaconfig "github.com/alinavoice/alina/config"
	"github.com/alinavoice/alina/internal/assistant/chain"
	"github.com/alinavoice/alina/internal/assistant/handler"
	"github.com/alinavoice/alina/internal/assistant/pipeline"
	"github.com/alinavoice/alina/internal/httputil"
	"github.com/alinavoice/alina/internal/session"
	"github.com/alinavoice/alina/pkg/events"
	"github.com/alinavoice/alina/pkg/persona"

	// Register speech and language backends via init().
	_ "github.com/alinavoice/alina/internal/assistant/backends/deepgram"
	_ "github.com/alinavoice/alina/internal/assistant/backends/elevenlabs"
	_ "github.com/alinavoice/alina/internal/assistant/backends/openai"
)

func main() {
	ctx := context.Background()

	cfg, err := frameconfig.LoadWithOIDC[alinaconfig.AssistantConfig](ctx)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	eventRef := cfg.GetEventsQueueName()
	eventURL := cfg.GetEventsQueueURL()

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("alina"),
		frame.WithRegisterPublisher(eventRef, eventURL),
	)
	defer srv.Stop(ctx)

	pool, err := srv.WorkManager().GetPool()
	if err != nil {
		log.Fatalf("getting worker pool: %v", err)
	}

	// Source is node-unique so the bus subscriber can tell remote envelopes
	// from ones this process already fanned out.
	pub := events.NewPublisher(srv.QueueManager(), "alina-"+xid.New().String(), eventRef)

	bcfg := chain.BreakerConfig{
		FailureThreshold: cfg.BreakerFailureThreshold,
		ResetTimeout:     time.Duration(cfg.BreakerResetSec) * time.Second,
	}
	backendCfg := cfg.BackendConfig()

	stt, err := chain.NewTranscriber(cfg.STTBackendList(), backendCfg, bcfg)
	if err != nil {
		log.Fatalf("building STT chain: %v", err)
	}
	llm, err := chain.NewReplier(cfg.LLMBackendList(), backendCfg, bcfg)
	if err != nil {
		log.Fatalf("building LLM chain: %v", err)
	}
	tts, err := chain.NewSynthesizer(cfg.TTSBackendList(), backendCfg, bcfg)
	if err != nil {
		log.Fatalf("building TTS chain: %v", err)
	}
	defer stt.Close()
	defer llm.Close()
	defer tts.Close()

	personas, err := persona.Defaults(cfg.DefaultLang)
	if err != nil {
		log.Fatalf("building personas: %v", err)
	}
	if cfg.PersonaDir != "" {
		loader := persona.NewLoader(cfg.PersonaDir, personas)
		if err = loader.LoadAll(); err != nil {
			log.Fatalf("loading personas from %s: %v", cfg.PersonaDir, err)
		}
		_ = pool.Submit(ctx, func() {
			if werr := loader.WatchAndReload(ctx.Done()); werr != nil {
				log.Printf("persona watcher stopped: %v", werr)
			}
		})
	}

	store := session.NewStore()
	if cfg.SessionIdleTTLSec > 0 {
		ttl := time.Duration(cfg.SessionIdleTTLSec) * time.Second
		_ = pool.Submit(ctx, func() {
			store.RunEvictor(ctx, ttl)
		})
	}

	orc := pipeline.New(stt, llm, tts, store, personas, cfg.MaxHistoryTurns, pub)

	mux := http.NewServeMux()
	h := handler.NewVoiceHandler(orc, store, personas, int64(cfg.STTMaxBytes))
	h.Register(mux)

	busSub := &events.Subscriber{Pub: pub}

	srv.Init(ctx,
		frame.WithRegisterSubscriber(eventRef+".local", eventURL, busSub),
		frame.WithHTTPHandler(httputil.H2CHandler(mux)),
	)

	if err := srv.Run(ctx, ""); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}
