// Package main boots the Project Luna companion service and wires
// application dependencies.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/cmd/launcher"
	"google.golang.org/adk/cmd/launcher/full"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/session/database"
	"google.golang.org/genai"
	"gorm.io/driver/postgres"

	internalagent "github.com/easeaico/project-luna/internal/agent"
	"github.com/easeaico/project-luna/internal/config"
	"github.com/easeaico/project-luna/internal/dialogue"
	"github.com/easeaico/project-luna/internal/ending"
	"github.com/easeaico/project-luna/internal/engine"
	"github.com/easeaico/project-luna/internal/memory"
	"github.com/easeaico/project-luna/internal/repository"
	"github.com/easeaico/project-luna/internal/state"
	"github.com/easeaico/project-luna/internal/store"
	"github.com/easeaico/project-luna/internal/tone"
	"github.com/easeaico/project-luna/internal/trigger"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	slog.Info("configuration loaded", "llm_model", cfg.LLMModel, "embedding_model", cfg.EmbeddingModel, "character", cfg.CharacterID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	game, err := config.LoadGameConfig(cfg.GameDataDir)
	if err != nil {
		// Tone/trigger/ending components degrade without game data; the
		// session itself stays up.
		slog.Warn("game data unavailable, running degraded", "error", err)
		game = &config.GameConfig{}
	}

	repos, err := repository.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer repos.Close()

	embedder, err := memory.NewEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("failed to create embedder service: %v", err)
	}
	memoryService := memory.NewService(embedder, repos.Memories)
	if err := memoryService.Warm(ctx, cfg.CharacterID); err != nil {
		slog.Warn("failed to warm memory stats", "character_id", cfg.CharacterID, "error", err)
	}

	analyzerModel, err := gemini.NewModel(ctx, cfg.LLMModel, &genai.ClientConfig{
		APIKey:  cfg.GoogleAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("failed to create analyzer model: %v", err)
	}

	eng := engine.New(engine.Deps{
		Machine:      state.NewMachine(game.Gifts),
		States:       newStateRepo(cfg, repos),
		Memories:     memoryService,
		Renderer:     tone.NewRenderer(game.ToneLevels, game.Archetypes, newRNG(cfg.RandomSeed)),
		Evaluator:    trigger.NewEvaluator(game.Archetypes, game.SpecialEvents, game.AmbientMessages, newRNG(cfg.RandomSeed)),
		Resolver:     ending.NewResolver(game.Endings),
		MoodAnalyzer: dialogue.NewAnalyzer(analyzerModel),
		History:      repos.History,
		TopK:         cfg.TopK,
		Threshold:    cfg.SimilarityThreshold,
		HistoryLimit: cfg.HistoryLimit,
		Logger:       logger,
	})

	character, err := repos.Characters.GetByID(ctx, cfg.CharacterID)
	if err != nil {
		log.Fatalf("failed to load character %q: %v", cfg.CharacterID, err)
	}

	sessionService, err := database.NewSessionService(postgres.Open(cfg.DatabaseURL))
	if err != nil {
		log.Fatalf("failed to create session service: %v", err)
	}

	llmAgent, err := internalagent.NewLunaAgent(ctx, &cfg, game, character, eng, memoryService)
	if err != nil {
		log.Fatalf("failed to initialize agent: %v", err)
	}

	launcherConfig := &launcher.Config{
		SessionService: sessionService,
		AgentLoader:    agent.NewSingleLoader(llmAgent),
	}

	l := full.NewLauncher()
	errCh := make(chan error, 1)
	go func() {
		slog.Info("launcher starting")
		errCh <- l.Execute(ctx, launcherConfig, os.Args[1:])
	}()

	var execErr error
	select {
	case execErr = <-errCh:
	case <-ctx.Done():
		fmt.Println("\n종료하는 중...")
	}

	if execErr != nil && !errors.Is(execErr, context.Canceled) && !errors.Is(execErr, context.DeadlineExceeded) {
		log.Fatalf("failed to run agent: %v\n\n%s", execErr, l.CommandLineSyntax())
	}

	fmt.Println("Agent shutdown complete")
}

// newStateRepo keeps hot progression state in Redis when REDIS_ADDR is
// set, otherwise in PostgreSQL alongside everything else.
func newStateRepo(cfg config.Config, repos *repository.Store) state.Repo {
	if cfg.RedisAddr == "" {
		return repos.States
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	slog.Info("using redis state store", "addr", cfg.RedisAddr)
	return store.NewStateStore(store.NewRedisStore(client, store.RedisConfig{Prefix: "luna"}))
}

func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
