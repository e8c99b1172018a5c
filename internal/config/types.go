package config

import "time"

type Config struct {
	Timezone string
	Gateway  GatewayConfig
	Bots     MultiBot
	Session  SessionConfig
	Schedule ScheduleConfig
	Catalog  CatalogConfig
	Rewards  RewardsConfig
	Health   HealthConfig
	Alerts   AlertsConfig
}

// GatewayConfig describes the remote advice and classification endpoints.
type GatewayConfig struct {
	BaseURL         string // absolute, no trailing slash
	AdviceTimeout   time.Duration
	ClassifyTimeout time.Duration
	MaxImageBytes   int64
}

type BotInstance struct {
	Enabled bool
	Token   string
}

type MultiBot struct {
	Telegram BotInstance
	Discord  BotInstance
}

type SessionConfig struct {
	IdleTimeout time.Duration // bot sessions unused this long are dropped
}

type ScheduleConfig struct {
	ReminderLead time.Duration
}

type CatalogConfig struct {
	Path string // optional YAML override, embedded catalog otherwise
}

type RewardsConfig struct {
	ScanReward int // coins credited per recyclable scan
}

type HealthConfig struct {
	Addr string // empty disables the operator endpoints
}

type AlertsConfig struct {
	ChatID   int64
	Cooldown time.Duration
}
