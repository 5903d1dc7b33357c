package main

import (
	"FleetFuel/internal/adapters/eventbus"
	"FleetFuel/internal/adapters/session"
	"FleetFuel/internal/adapters/sheets"
	"FleetFuel/internal/adapters/telegram"
	"FleetFuel/internal/bot"
	_ "FleetFuel/internal/bot/handlers" // registers handlers via init()
	"FleetFuel/internal/core/services"
	"FleetFuel/internal/scheduler"
	"FleetFuel/internal/shared/config"
	"FleetFuel/internal/shared/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	isDevMode := cfg.AppEnv == "dev"
	baseLogger := logger.New(isDevMode, cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("bot_mode", cfg.Bot.Mode).
		Str("timezone", cfg.Fleet.Timezone).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Fleet.Timezone)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to load timezone")
	}

	// 3. Initialize the spreadsheet stores
	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets.CredentialsPath, cfg.Sheets.SpreadsheetID, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to connect to Google Sheets")
	}
	userRepo := sheets.NewUserRepository(sheetsClient, cfg.Sheets.IdentitySheet, loc, &baseLogger)
	vehicleRepo := sheets.NewVehicleRepository(sheetsClient, cfg.Sheets.FleetSheet, loc, &baseLogger)
	changeRepo := sheets.NewChangeLogRepository(sheetsClient, cfg.Sheets.ChangesSheet, loc, &baseLogger)

	// 4. Load the administrator allow-list
	admins := services.NewAdminRegistry(userRepo, &baseLogger)
	if _, err := admins.Refresh(ctx); err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to load administrators")
	}

	// 5. Telegram API and client adapter
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}
	api.Debug = isDevMode && cfg.LogLevel == "debug"
	baseLogger.Info().Str("username", api.Self.UserName).Msg("Bot API connected")
	client := telegram.NewClient(api, &baseLogger)

	// 6. Core services
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	clock := services.Clock(time.Now)
	userSvc := services.NewUserService(userRepo, bus, clock, loc, &baseLogger)
	fleetSvc := services.NewFleetService(userRepo, vehicleRepo, changeRepo, cfg.Fleet.PageSize, clock, loc, &baseLogger)
	messagingSvc := services.NewMessagingService(userRepo, client, &baseLogger)
	sessions := session.NewMemoryStore(&baseLogger)

	// 7. Router and handlers
	router := bot.NewRouter(sessions, admins, userSvc, client, &baseLogger)
	bot.RegisterAllHandlers(router, bus, bot.Dependencies{
		Users:     userSvc,
		Fleet:     fleetSvc,
		Messaging: messagingSvc,
		Admins:    admins,
		Sessions:  sessions,
		BotClient: client,
		Logger:    &baseLogger,
	})

	if err := client.SetMenuCommands(ctx); err != nil {
		baseLogger.Warn().Err(err).Msg("Menu commands not set (continuing anyway)")
	}

	// 8. Reminder scheduler
	var tasks []telegram.BackgroundTask
	if cfg.Reminder.Enabled {
		reminderCfg, err := reminderConfig(cfg.Reminder, loc)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Invalid reminder configuration")
		}
		tasks = append(tasks, scheduler.NewReminder(userSvc, client, reminderCfg, time.Now, &baseLogger))
	} else {
		baseLogger.Info().Msg("Reminder disabled")
	}

	// 9. Run until a signal arrives
	server := telegram.NewBotServer(api, router, &cfg.Bot, &baseLogger)
	orchestrator := telegram.NewOrchestrator(server, &baseLogger, tasks...)

	baseLogger.Info().Msg("Application started")
	if err := orchestrator.Start(ctx); err != nil {
		baseLogger.Error().Err(err).Msg("Application stopped with error")
	}

	bus.Wait() // let in-flight notifications finish
	baseLogger.Info().Msg("Shutdown complete")
}

func reminderConfig(rc config.ReminderConfig, loc *time.Location) (scheduler.Config, error) {
	start, err := config.ParseClock(rc.WindowStart)
	if err != nil {
		return scheduler.Config{}, err
	}
	end, err := config.ParseClock(rc.WindowEnd)
	if err != nil {
		return scheduler.Config{}, err
	}
	rollover, err := config.ParseClock(rc.RolloverStart)
	if err != nil {
		return scheduler.Config{}, err
	}
	return scheduler.Config{
		WindowStart:   start,
		WindowEnd:     end,
		RolloverStart: rollover,
		Interval:      rc.Interval,
		Location:      loc,
	}, nil
}
