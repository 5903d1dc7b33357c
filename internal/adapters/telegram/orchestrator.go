package telegram

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Runner is a blocking service such as the BotServer.
type Runner interface {
	Start(ctx context.Context) error
}

// BackgroundTask is a loop that runs beside the bot, like the reminder.
type BackgroundTask interface {
	Run(ctx context.Context) error
	Stop()
}

// Orchestrator runs the bot server and its background tasks together.
type Orchestrator struct {
	server Runner
	tasks  []BackgroundTask
	log    zerolog.Logger
	wg     sync.WaitGroup
}

// NewOrchestrator creates a new orchestrator. Nil tasks are skipped.
func NewOrchestrator(server Runner, baseLogger *zerolog.Logger, tasks ...BackgroundTask) *Orchestrator {
	o := &Orchestrator{
		server: server,
		log:    baseLogger.With().Str("component", "orchestrator").Logger(),
	}
	for _, t := range tasks {
		if t != nil {
			o.tasks = append(o.tasks, t)
		}
	}
	return o
}

// Start launches everything and blocks until the bot server returns.
// Background tasks are stopped once the server is gone.
func (o *Orchestrator) Start(ctx context.Context) error {
	for i, task := range o.tasks {
		o.wg.Add(1)
		go func(id int, t BackgroundTask) {
			defer o.wg.Done()
			if err := t.Run(ctx); err != nil {
				o.log.Error().Err(err).Int("task", id).Msg("Background task failed")
			}
		}(i, task)
	}

	err := o.server.Start(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("Bot server failed")
	}

	for _, t := range o.tasks {
		t.Stop()
	}
	o.wg.Wait() // Wait for background tasks to finish
	o.log.Info().Msg("All services stopped")
	return err
}
