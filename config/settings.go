package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ClassifierVader       = "vader"
	ClassifierHuggingFace = "huggingface"
	ClassifierHugot       = "hugot"
	ClassifierOpenAI      = "openai"
)

// Settings is the typed view of the environment shared by the CLI and the
// worker.
type Settings struct {
	AppEnv   string
	LogLevel string

	LexiconPath string

	Classifier        string
	ChunkSize         int
	ChunkOverlap      int
	MinChunkChars     int
	MaxChunks         int
	CacheSize         int
	ClassifierTimeout time.Duration

	HFSentimentEndpoint string
	HFHealthEndpoint    string
	HugotModelPath      string
	OpenAIAPIKey        string
	OpenAIModel         string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
	ValkeyTTL      time.Duration

	KafkaBroker          string
	KafkaConsumerGroupID string
	KafkaTranscriptTopic string
	KafkaReportTopic     string
}

// Load reads Settings from the environment. Call LoadEnv first to pull in
// an env file.
func Load() Settings {
	appEnv := getString("APP_ENV", "dev")

	// Remote classifiers get a short leash in production.
	timeout := 60 * time.Second
	if appEnv == "production" {
		timeout = 10 * time.Second
	}

	return Settings{
		AppEnv:   appEnv,
		LogLevel: getString("LOG_LEVEL", "info"),

		LexiconPath: getString("LEXICON_PATH", "data/hype_keywords.json"),

		Classifier:        strings.ToLower(getString("SENTIMENT_CLASSIFIER", ClassifierVader)),
		ChunkSize:         getInt("CHUNK_SIZE", 300),
		ChunkOverlap:      getInt("CHUNK_OVERLAP", 50),
		MinChunkChars:     getInt("MIN_CHUNK_CHARS", 20),
		MaxChunks:         getInt("MAX_CHUNKS", 5),
		CacheSize:         getInt("SENTIMENT_CACHE_SIZE", 128),
		ClassifierTimeout: getDuration("CLASSIFIER_TIMEOUT", timeout),

		HFSentimentEndpoint: getString("HF_SENTIMENT_ENDPOINT", "https://spacesedan-sentiment-analyzer.hf.space/analyze_batch"),
		HFHealthEndpoint:    getString("HF_HEALTH_ENDPOINT", "https://spacesedan-sentiment-analyzer.hf.space/health"),
		HugotModelPath:      getString("HUGOT_MODEL_PATH", "models/finbert"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getString("OPENAI_MODEL", "gpt-4o-mini"),

		ValkeyAddress:  os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:      os.Getenv("VALKEY_TLS") == "true",
		ValkeyTTL:      getDuration("VALKEY_TTL", 24*time.Hour),

		KafkaBroker:          getString("KAFKA_BROKER", "localhost:9092"),
		KafkaConsumerGroupID: getString("KAFKA_CONSUMER_GROUP_ID", "hypewatch-worker"),
		KafkaTranscriptTopic: getString("KAFKA_TOPIC_TRANSCRIPTS", "transcripts"),
		KafkaReportTopic:     getString("KAFKA_TOPIC_REPORTS", "risk-reports"),
	}
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", fallback))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("[Config] Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", fallback))
		return fallback
	}
	return d
}
