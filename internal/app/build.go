package app

import (
	"fmt"
	"time"

	"github.com/bowerhall/regen/internal/assistant"
	"github.com/bowerhall/regen/internal/catalog"
	"github.com/bowerhall/regen/internal/config"
	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/logger"
	"github.com/bowerhall/regen/internal/scan"
	"github.com/bowerhall/regen/internal/schedule"
)

// Build wires the catalog, gateway client and screens from cfg.
func Build(cfg *config.Config) (*App, error) {
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		var err error
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		logger.Info("catalog loaded", "path", cfg.Catalog.Path)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	sched, err := schedule.New(cat.Schedule.Days, loc)
	if err != nil {
		return nil, fmt.Errorf("build pickup schedule: %w", err)
	}

	client := gateway.New(gateway.Config{
		BaseURL:         cfg.Gateway.BaseURL,
		AdviceTimeout:   cfg.Gateway.AdviceTimeout,
		ClassifyTimeout: cfg.Gateway.ClassifyTimeout,
	})

	logger.Debug("gateway configured", "base", client.BaseURL(),
		"adviceTimeout", cfg.Gateway.AdviceTimeout, "classifyTimeout", cfg.Gateway.ClassifyTimeout)

	return New(Config{
		Catalog:    cat,
		Assistant:  assistant.New(client),
		Scanner:    scan.New(client, cfg.Gateway.MaxImageBytes),
		Schedule:   sched,
		ScanReward: cfg.Rewards.ScanReward,
	}), nil
}

// PickupSchedule is the weekly schedule reminders are built from.
func (a *App) PickupSchedule() *schedule.Schedule {
	return a.schedule
}
