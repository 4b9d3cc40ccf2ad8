package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"

	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken string

	Provider          string
	DeepSeekAPIKey    string
	CompletionURL     string
	CompletionModel   string
	GeminiAPIKey      string
	GeminiModel       string
	CompletionTimeout time.Duration
	SystemPrompt      string

	AllowedUserIDs []int64

	HistoryBackend string
	HistoryScope   string
	HistoryDBPath  string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string

	MaxMessageLength int
	PreviewLimit     int
	MaxDocumentBytes int

	Port      string
	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("completion_provider", ProviderDeepSeek)
	v.SetDefault("completion_api_url", "https://api.deepseek.com/v1/chat/completions")
	v.SetDefault("completion_model", "deepseek-chat")
	v.SetDefault("gemini_model", "gemini-2.0-flash")
	v.SetDefault("completion_timeout", "120s")
	v.SetDefault("system_prompt", "Ты полезный AI-ассистент. Отвечай дружелюбно и профессионально.")
	v.SetDefault("allowed_user_ids", "155964417")
	v.SetDefault("history_backend", BackendMemory)
	v.SetDefault("history_scope", "global")
	v.SetDefault("history_db_path", "data/history.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "assistant:")
	v.SetDefault("max_message_length", 4000)
	v.SetDefault("preview_limit", 500)
	v.SetDefault("max_document_bytes", 20*1024*1024)
	v.SetDefault("port", "10000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load konfiguratsiyani yuklash. v da flaglar bog'langan bo'lishi mumkin,
// ular environment qiymatlaridan ustun turadi.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	// .env faylini yuklash (mavjud bo'lsa)
	if envFile := v.GetString("env_file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("env faylini o'qib bo'lmadi: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	setDefaults(v)
	v.AutomaticEnv()

	timeout, err := parseDuration(v.GetString("completion_timeout"))
	if err != nil {
		return nil, fmt.Errorf("COMPLETION_TIMEOUT noto'g'ri formatda: %v", err)
	}

	allowed, err := parseUserIDs(v.GetString("allowed_user_ids"))
	if err != nil {
		return nil, fmt.Errorf("ALLOWED_USER_IDS noto'g'ri formatda: %v", err)
	}

	config := &Config{
		TelegramToken:     v.GetString("telegram_bot_token"),
		Provider:          strings.ToLower(v.GetString("completion_provider")),
		DeepSeekAPIKey:    v.GetString("deepseek_api_key"),
		CompletionURL:     v.GetString("completion_api_url"),
		CompletionModel:   v.GetString("completion_model"),
		GeminiAPIKey:      v.GetString("gemini_api_key"),
		GeminiModel:       v.GetString("gemini_model"),
		CompletionTimeout: timeout,
		SystemPrompt:      v.GetString("system_prompt"),
		AllowedUserIDs:    allowed,
		HistoryBackend:    strings.ToLower(v.GetString("history_backend")),
		HistoryScope:      strings.ToLower(v.GetString("history_scope")),
		HistoryDBPath:     v.GetString("history_db_path"),
		RedisAddr:         v.GetString("redis_addr"),
		RedisPassword:     v.GetString("redis_password"),
		RedisDB:           v.GetInt("redis_db"),
		RedisPrefix:       v.GetString("redis_prefix"),
		MaxMessageLength:  v.GetInt("max_message_length"),
		PreviewLimit:      v.GetInt("preview_limit"),
		MaxDocumentBytes:  v.GetInt("max_document_bytes"),
		Port:              v.GetString("port"),
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validatsiya
func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}

	switch c.Provider {
	case ProviderDeepSeek:
		if c.DeepSeekAPIKey == "" {
			return fmt.Errorf("DEEPSEEK_API_KEY environment variable bo'sh")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable bo'sh")
		}
	default:
		return fmt.Errorf("COMPLETION_PROVIDER noma'lum: %q", c.Provider)
	}

	switch c.HistoryBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("HISTORY_BACKEND noma'lum: %q", c.HistoryBackend)
	}

	if c.MaxMessageLength <= 0 || c.MaxMessageLength > 4096 {
		return fmt.Errorf("MAX_MESSAGE_LENGTH 1..4096 oralig'ida bo'lishi kerak: %d", c.MaxMessageLength)
	}
	return nil
}

// parseDuration "90s" yoki oddiy soniyalar soni
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	d, err := time.ParseDuration(raw)
	if secs, convErr := strconv.Atoi(raw); convErr == nil {
		d, err = time.Duration(secs)*time.Second, nil
	}
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %s", raw)
	}
	return d, nil
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
