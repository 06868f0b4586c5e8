package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/BTreeMap/MindGuide/internal/api"
	"github.com/BTreeMap/MindGuide/internal/genai"
	"github.com/BTreeMap/MindGuide/internal/store"
	"github.com/BTreeMap/MindGuide/internal/util"
)

// Config holds environment configuration
type Config struct {
	GeminiKey  string
	OpenAIKey  string
	Provider   string
	Model      string
	APIAddr    string
	SessionTTL time.Duration
	Debug      bool
}

// Flags holds command line flag values
type Flags struct {
	geminiKey  *string
	openaiKey  *string
	provider   *string
	model      *string
	apiAddr    *string
	sessionTTL *time.Duration
}

func main() {
	config := loadEnvironmentConfig()
	initializeLogger(config)

	flags := parseCommandLineFlags(config)

	genaiOpts := buildGenAIOptions(flags)
	storeOpts := buildStoreOptions(flags)
	apiOpts := buildAPIOptions(flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping MindGuide with configured modules")
	slog.Debug("Final configuration", "provider", *flags.provider, "api_addr", *flags.apiAddr, "session_ttl", *flags.sessionTTL)
	if err := api.Run(ctx, genaiOpts, storeOpts, apiOpts); err != nil {
		slog.Error("MindGuide failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("MindGuide exited successfully")
}

// initializeLogger sets up structured logging
func initializeLogger(config Config) {
	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		GeminiKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		Provider:   os.Getenv("GENAI_PROVIDER"),
		Model:      os.Getenv("GENAI_MODEL"),
		APIAddr:    os.Getenv("API_ADDR"),
		SessionTTL: util.ParseDurationEnv("SESSION_TTL", store.DefaultSessionTTL),
		Debug:      util.ParseBoolEnv("MINDGUIDE_DEBUG", false),
	}

	if config.Provider == "" {
		config.Provider = string(genai.ProviderGemini)
	}
	if config.APIAddr == "" {
		config.APIAddr = api.DefaultAddr
	}

	slog.Debug("environment variables loaded",
		"GEMINI_API_KEY_SET", config.GeminiKey != "",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"GENAI_PROVIDER", config.Provider,
		"GENAI_MODEL", config.Model,
		"API_ADDR", config.APIAddr,
		"SESSION_TTL", config.SessionTTL)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		geminiKey:  flag.String("gemini-api-key", config.GeminiKey, "Gemini API key (overrides $GEMINI_API_KEY)"),
		openaiKey:  flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		provider:   flag.String("genai-provider", config.Provider, "GenAI provider, gemini or openai (overrides $GENAI_PROVIDER)"),
		model:      flag.String("genai-model", config.Model, "GenAI model name (overrides $GENAI_MODEL)"),
		apiAddr:    flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		sessionTTL: flag.Duration("session-ttl", config.SessionTTL, "idle session eviction TTL (overrides $SESSION_TTL)"),
	}
	flag.Parse()
	return flags
}

// buildGenAIOptions builds GenAI client options from flags
func buildGenAIOptions(flags Flags) []genai.Option {
	provider := genai.Provider(*flags.provider)
	opts := []genai.Option{genai.WithProvider(provider)}

	key := *flags.geminiKey
	if provider == genai.ProviderOpenAI {
		key = *flags.openaiKey
	}
	if key != "" {
		opts = append(opts, genai.WithAPIKey(key))
	}
	if *flags.model != "" {
		opts = append(opts, genai.WithModel(*flags.model))
	}
	return opts
}

// buildStoreOptions builds session store options from flags
func buildStoreOptions(flags Flags) []store.Option {
	return []store.Option{store.WithSessionTTL(*flags.sessionTTL)}
}

// buildAPIOptions builds API server options from flags
func buildAPIOptions(flags Flags) []api.Option {
	return []api.Option{api.WithAddr(*flags.apiAddr)}
}
