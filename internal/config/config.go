package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	defaultBaseURL         = "/api"
	defaultOrigin          = "http://localhost:5173"
	defaultAdviceTimeout   = 60 * time.Second
	defaultClassifyTimeout = 15 * time.Second
	defaultMaxImageBytes   = 5 * 1024 * 1024
)

func Load() (*Config, error) {
	timezone := os.Getenv("TZ")
	if timezone == "" {
		timezone = "UTC"
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", timezone, err)
	}

	gatewayConfig, err := loadGatewayConfig()
	if err != nil {
		return nil, err
	}

	scheduleConfig, err := loadScheduleConfig()
	if err != nil {
		return nil, err
	}

	idle, err := durationEnv("REGEN_SESSION_IDLE", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	alertsConfig, err := loadAlertsConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Timezone: timezone,
		Gateway:  gatewayConfig,
		Bots:     loadMultiBotConfig(),
		Session:  SessionConfig{IdleTimeout: idle},
		Schedule: scheduleConfig,
		Catalog:  CatalogConfig{Path: os.Getenv("REGEN_CATALOG")},
		Rewards:  loadRewardsConfig(),
		Health:   loadHealthConfig(),
		Alerts:   alertsConfig,
	}, nil
}

func loadGatewayConfig() (GatewayConfig, error) {
	base := os.Getenv("REGEN_API_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}

	origin := os.Getenv("REGEN_API_ORIGIN")
	if origin == "" {
		origin = defaultOrigin
	}

	baseURL, err := ResolveBaseURL(origin, base)
	if err != nil {
		return GatewayConfig{}, err
	}

	adviceTimeout, err := durationEnv("REGEN_ADVICE_TIMEOUT", defaultAdviceTimeout)
	if err != nil {
		return GatewayConfig{}, err
	}

	// the classifier contract fixes the upload timeout; the override exists for tests and slow links
	classifyTimeout, err := durationEnv("REGEN_CLASSIFY_TIMEOUT", defaultClassifyTimeout)
	if err != nil {
		return GatewayConfig{}, err
	}

	maxImage := int64(defaultMaxImageBytes)
	if n, err := strconv.ParseInt(os.Getenv("REGEN_MAX_IMAGE_BYTES"), 10, 64); err == nil && n > 0 {
		maxImage = n
	}

	return GatewayConfig{
		BaseURL:         baseURL,
		AdviceTimeout:   adviceTimeout,
		ClassifyTimeout: classifyTimeout,
		MaxImageBytes:   maxImage,
	}, nil
}

func loadMultiBotConfig() MultiBot {
	telegramToken := os.Getenv("TELEGRAM_TOKEN")
	discordToken := os.Getenv("DISCORD_TOKEN")

	return MultiBot{
		Telegram: BotInstance{
			Enabled: telegramToken != "",
			Token:   telegramToken,
		},
		Discord: BotInstance{
			Enabled: discordToken != "",
			Token:   discordToken,
		},
	}
}

func loadScheduleConfig() (ScheduleConfig, error) {
	lead, err := durationEnv("REGEN_REMINDER_LEAD", 30*time.Minute)
	if err != nil {
		return ScheduleConfig{}, err
	}

	return ScheduleConfig{ReminderLead: lead}, nil
}

func loadRewardsConfig() RewardsConfig {
	reward := 10
	if n, err := strconv.Atoi(os.Getenv("REGEN_SCAN_REWARD")); err == nil && n >= 0 {
		reward = n
	}

	return RewardsConfig{ScanReward: reward}
}

func loadHealthConfig() HealthConfig {
	addr, ok := os.LookupEnv("REGEN_HEALTH_ADDR")
	if !ok {
		addr = ":8080"
	}

	return HealthConfig{Addr: addr}
}

func loadAlertsConfig() (AlertsConfig, error) {
	var chatID int64
	if id, err := strconv.ParseInt(os.Getenv("REGEN_OPS_CHAT_ID"), 10, 64); err == nil {
		chatID = id
	}

	cooldown, err := durationEnv("REGEN_ALERT_COOLDOWN", time.Hour)
	if err != nil {
		return AlertsConfig{}, err
	}

	return AlertsConfig{
		ChatID:   chatID,
		Cooldown: cooldown,
	}, nil
}

// ResolveBaseURL turns the configured API base into an absolute URL.
// Relative bases such as "/api" are resolved against origin.
func ResolveBaseURL(origin, base string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("invalid REGEN_API_BASE_URL %q: %w", base, err)
	}

	if !ref.IsAbs() {
		originURL, err := url.Parse(origin)
		if err != nil || !originURL.IsAbs() {
			return "", fmt.Errorf("invalid REGEN_API_ORIGIN %q", origin)
		}
		ref = originURL.ResolveReference(ref)
	}

	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", fmt.Errorf("unsupported API scheme: %s", ref.Scheme)
	}

	return strings.TrimRight(ref.String(), "/"), nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: negative duration", key)
	}

	return d, nil
}
