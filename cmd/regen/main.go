package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bowerhall/regen/internal/alerts"
	"github.com/bowerhall/regen/internal/app"
	"github.com/bowerhall/regen/internal/bot"
	"github.com/bowerhall/regen/internal/config"
	"github.com/bowerhall/regen/internal/health"
	"github.com/bowerhall/regen/internal/logger"
	"github.com/bowerhall/regen/internal/schedule"
)

func init() {
	godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	regen, err := app.Build(cfg)
	if err != nil {
		logger.Fatal("failed to build app", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bots := make(map[string]bot.Bot)
	var enabledProviders []string

	if cfg.Bots.Telegram.Enabled {
		b, err := bot.NewTelegram(cfg.Bots.Telegram.Token, regen, cfg.Gateway.MaxImageBytes)
		if err != nil {
			logger.Fatal("failed to create telegram bot", "error", err)
		}

		bots[bot.Telegram] = b
		enabledProviders = append(enabledProviders, bot.Telegram)

		go startBot(ctx, b)
	}

	if cfg.Bots.Discord.Enabled {
		b, err := bot.NewDiscord(cfg.Bots.Discord.Token, regen, cfg.Gateway.MaxImageBytes)
		if err != nil {
			logger.Fatal("failed to create discord bot", "error", err)
		}

		bots[bot.Discord] = b
		enabledProviders = append(enabledProviders, bot.Discord)

		go startBot(ctx, b)
	}

	if len(bots) == 0 {
		logger.Fatal("no bot providers enabled, set TELEGRAM_TOKEN or DISCORD_TOKEN")
	}

	// operator alerts go to the first configured platform
	notifyBot := bots[enabledProviders[0]]

	if cfg.Alerts.ChatID != 0 {
		alerter := alerts.New(
			func(message string) {
				notifyBot.Send(cfg.Alerts.ChatID, message)
			},
			cfg.Alerts.Cooldown,
		)
		regen.SetAlerter(alerter)
		logger.Info("error alerting enabled", "chatID", cfg.Alerts.ChatID)
	}

	reminders, err := schedule.NewReminders(regen.PickupSchedule(), cfg.Schedule.ReminderLead,
		func(sub schedule.Subscriber, message string) {
			b, ok := bots[sub.Platform]
			if !ok {
				logger.Warn("reminder for disabled platform", "platform", sub.Platform)
				return
			}
			if err := b.Send(sub.ChatID, message); err != nil {
				logger.Error("reminder failed", "error", err, "platform", sub.Platform, "chatID", sub.ChatID)
			}
		})
	if err != nil {
		logger.Fatal("failed to schedule reminders", "error", err)
	}
	regen.SetReminders(reminders)
	go reminders.Run(ctx)

	if cfg.Health.Addr != "" {
		server := health.New(health.Config{
			Sessions: regen.Sessions().Len,
			Gateway:  cfg.Gateway.BaseURL,
			Bots:     enabledProviders,
		})
		go func() {
			if err := server.Run(ctx, cfg.Health.Addr); err != nil {
				logger.Error("health server failed", "error", err)
			}
		}()
	}

	go pruneSessions(ctx, regen, cfg.Session.IdleTimeout)

	logger.Info("regen started",
		"bots", enabledProviders,
		"gateway", cfg.Gateway.BaseURL,
		"timezone", cfg.Timezone,
		"reminderLead", cfg.Schedule.ReminderLead,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()

	// give the reminder runner and health server a moment to stop
	time.Sleep(500 * time.Millisecond)
}

func startBot(ctx context.Context, b bot.Bot) {
	if err := b.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error("bot stopped", "platform", b.Platform(), "error", err)
	}
}

func pruneSessions(ctx context.Context, regen *app.App, idle time.Duration) {
	if idle <= 0 {
		return
	}

	ticker := time.NewTicker(idle / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := regen.Sessions().Prune(idle); n > 0 {
				logger.Info("idle sessions pruned", "count", n, "remaining", regen.Sessions().Len())
			}
		}
	}
}
