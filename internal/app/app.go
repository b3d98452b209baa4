package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"github.com/flame-cai/video-qna-backend/internal/config"
	"github.com/flame-cai/video-qna-backend/internal/media"
	"github.com/flame-cai/video-qna-backend/internal/pipeline"
	"github.com/flame-cai/video-qna-backend/internal/qna"
	"github.com/flame-cai/video-qna-backend/internal/store"
)

// App wires the configured job store, generation provider, media stages, and
// orchestrator together for the CLI and HTTP entry points.
type App struct {
	Config *config.Config

	Jobs         store.JobStore
	Generator    qna.Generator
	Extractor    *qna.Extractor
	Evaluator    *qna.Evaluator
	Acquirer     pipeline.AudioAcquirer
	Transcriber  pipeline.Transcriber
	Orchestrator *pipeline.Orchestrator

	redisClient *redis.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := app.initJobStore(); err != nil {
		return nil, err
	}
	if err := app.initGenerator(); err != nil {
		return nil, err
	}
	app.initMediaStages()

	app.Extractor = qna.NewExtractor(app.Generator, cfg.QnA.MaxPromptChars)
	app.Orchestrator = pipeline.NewOrchestrator(app.Jobs, app.Acquirer, app.Transcriber, app.Extractor)

	log.Info("application initialization complete")
	return app, nil
}

func (a *App) initJobStore() error {
	switch a.Config.Store.Backend {
	case "", "memory":
		a.Jobs = store.NewMemoryStore()
	case "redis":
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     a.Config.Redis.Address,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
		ttl := time.Duration(a.Config.Store.TTLSeconds) * time.Second
		a.Jobs = store.NewRedisStore(a.redisClient, ttl)
		log.Infof("using redis job store at %s", a.Config.Redis.Address)
	default:
		return fmt.Errorf("unknown store backend %q", a.Config.Store.Backend)
	}
	return nil
}

func (a *App) initGenerator() error {
	var openaiClient qna.ChatCompletionClient
	if key := a.Config.QnA.OpenaiApiKey; key != "" {
		openaiClient = openai.NewClient(key)
	}
	// The evaluator always rides on OpenAI; a missing key disables it.
	a.Evaluator = qna.NewEvaluator(openaiClient, a.Config.QnA.Model)

	switch a.Config.QnA.Provider {
	case "", "openai":
		a.Generator = qna.NewOpenAIGenerator(openaiClient, a.Config.QnA.Model)
	case "gemini":
		gen, err := qna.NewGeminiGenerator(context.Background(), a.Config.QnA.GoogleApiKey, a.Config.QnA.GeminiModel)
		if err != nil {
			return fmt.Errorf("init gemini generator: %w", err)
		}
		a.Generator = gen
	default:
		return fmt.Errorf("unknown qna provider %q", a.Config.QnA.Provider)
	}
	return nil
}

func (a *App) initMediaStages() {
	a.Acquirer = media.NewYTDLPAcquirer(a.Config.Media.YtdlpPath, a.Config.Media.FfmpegPath, a.Config.Media.WorkDir)
	a.Transcriber = media.NewWhisperTranscriber(a.Config.Media.WhisperPath, a.Config.Media.WhisperModel, a.Config.Media.Language)
}

// PingStore checks job store connectivity. The in-memory backend is always
// reachable.
func (a *App) PingStore(ctx context.Context) error {
	if a.redisClient == nil {
		return nil
	}
	return a.redisClient.Ping(ctx).Err()
}

// Close releases provider and store connections.
func (a *App) Close() error {
	if g, ok := a.Generator.(*qna.GeminiGenerator); ok {
		if err := g.Close(); err != nil {
			log.Warnf("closing gemini client: %v", err)
		}
	}
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}
