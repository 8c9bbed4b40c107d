// Package config assembles runtime settings from an optional TOML config
// file and the environment. Environment values win over file values; API
// keys are only ever read from the environment.
package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".microcosmos"

	geminiKeyEnv    = "GEMINI_API_KEY"
	searchKeyEnv    = "EXA_API_KEY"
	maxNumberedKeys = 20
)

type Config struct {
	// Personas are the character document names to load, in answer order.
	Personas []string
	// PersonaDir holds the character documents.
	PersonaDir string
	// Model is the Gemini model identifier.
	Model string
	// HistoryTurns is the conversation window carried into prompts.
	HistoryTurns int
	// HistoryCap bounds the stored conversation history (2-5).
	HistoryCap int
	// GeminiKeys are the credential secrets, in pool order.
	GeminiKeys []string
	// SearchKey enables web search when non-empty.
	SearchKey string
	// SearchResultLimit caps results per query.
	SearchResultLimit int
	// SearchPhrasings override the built-in query phrasings. "%s" is
	// replaced with the stage-derived terms.
	SearchPhrasings []string
	// TriggerWords override the built-in search gate keywords.
	TriggerWords []string
	// CallTimeout bounds each provider call.
	CallTimeout time.Duration
	// ShuffleKeys randomizes pool order at startup so repeated runs do
	// not always burn the same key first.
	ShuffleKeys bool
	// Verbose switches event logging to debug level.
	Verbose bool
}

var ErrNoAPIKeys = errors.New("no Gemini API keys configured (set GEMINI_API_KEY)")

// Load reads the optional config file and the environment. A missing
// config file is fine; missing API keys are not.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	cfg.SetDefault("personas.names", []string{"tugrul_bey", "yeni_tugrul"})
	cfg.SetDefault("personas.dir", "personas")
	cfg.SetDefault("model.name", "gemini-1.5-flash")
	cfg.SetDefault("history.turns", 1)
	cfg.SetDefault("history.cap", 3)
	cfg.SetDefault("keys.shuffle", true)
	cfg.SetDefault("llm.timeout_seconds", 60)
	cfg.SetDefault("search.result_limit", 5)

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	config := Config{
		Personas:     cfg.GetStringSlice("personas.names"),
		PersonaDir:   cfg.GetString("personas.dir"),
		Model:        cfg.GetString("model.name"),
		HistoryTurns: cfg.GetInt("history.turns"),
		HistoryCap:   cfg.GetInt("history.cap"),
		GeminiKeys:   geminiKeysFromEnv(),
		SearchKey:    strings.TrimSpace(os.Getenv(searchKeyEnv)),
		ShuffleKeys:  cfg.GetBool("keys.shuffle"),

		SearchResultLimit: cfg.GetInt("search.result_limit"),
		SearchPhrasings:   cfg.GetStringSlice("search.extra_queries"),
		TriggerWords:      cfg.GetStringSlice("search.trigger_words"),
		CallTimeout:       time.Duration(cfg.GetInt("llm.timeout_seconds")) * time.Second,
	}

	if len(config.GeminiKeys) == 0 {
		return Config{}, ErrNoAPIKeys
	}

	return config, nil
}

// geminiKeysFromEnv collects GEMINI_API_KEY plus the numbered variants
// GEMINI_API_KEY_1..N. Numbering may have gaps; blanks are skipped.
func geminiKeysFromEnv() []string {
	var keys []string
	if key := strings.TrimSpace(os.Getenv(geminiKeyEnv)); key != "" {
		keys = append(keys, key)
	}
	for i := 1; i <= maxNumberedKeys; i++ {
		key := strings.TrimSpace(os.Getenv(fmt.Sprintf("%s_%d", geminiKeyEnv, i)))
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// ShuffledKeys returns the keys in randomized order when shuffling is
// enabled, otherwise in configured order.
func (c Config) ShuffledKeys() []string {
	keys := make([]string, len(c.GeminiKeys))
	copy(keys, c.GeminiKeys)
	if c.ShuffleKeys {
		rand.Shuffle(len(keys), func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})
	}
	return keys
}
