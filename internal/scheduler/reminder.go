package scheduler

import (
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OnTripLister returns the drivers currently out with a vehicle.
type OnTripLister interface {
	OnTrip(ctx context.Context) ([]*domain.User, error)
}

// Config is the daily window as offsets from local midnight.
type Config struct {
	WindowStart   time.Duration
	WindowEnd     time.Duration
	RolloverStart time.Duration // start used once today's window is over
	Interval      time.Duration
	Location      *time.Location
}

// Window is one reminder run: scans happen while Start <= now < End.
type Window struct {
	Start time.Time
	End   time.Time
}

// NextWindow returns today's window, or tomorrow's rollover window when
// now is already past today's end.
func NextWindow(now time.Time, cfg Config) Window {
	local := now.In(cfg.Location)
	y, m, d := local.Date()

	end := clockOn(y, m, d, cfg.WindowEnd, cfg.Location)
	if local.Before(end) {
		return Window{Start: clockOn(y, m, d, cfg.WindowStart, cfg.Location), End: end}
	}

	// time.Date normalises d+1 across month ends
	return Window{
		Start: clockOn(y, m, d+1, cfg.RolloverStart, cfg.Location),
		End:   clockOn(y, m, d+1, cfg.WindowEnd, cfg.Location),
	}
}

func clockOn(y int, m time.Month, d int, offset time.Duration, loc *time.Location) time.Time {
	h := int(offset / time.Hour)
	mi := int(offset % time.Hour / time.Minute)
	s := int(offset % time.Minute / time.Second)
	return time.Date(y, m, d, h, mi, s, 0, loc)
}

// Reminder nudges every on-trip driver to report fuel during the daily
// window. Delivery is best-effort.
type Reminder struct {
	users OnTripLister
	bot   ports.BotClientPort
	cfg   Config
	now   func() time.Time
	log   zerolog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func NewReminder(
	users OnTripLister,
	bot ports.BotClientPort,
	cfg Config,
	now func() time.Time,
	baseLogger *zerolog.Logger,
) *Reminder {
	return &Reminder{
		users: users,
		bot:   bot,
		cfg:   cfg,
		now:   now,
		log:   baseLogger.With().Str("component", "reminder").Logger(),
		stop:  make(chan struct{}),
	}
}

// Run loops over daily windows until ctx is done or Stop is called.
func (r *Reminder) Run(ctx context.Context) error {
	for {
		w := NextWindow(r.now(), r.cfg)
		r.log.Info().
			Time("start", w.Start).
			Time("end", w.End).
			Msg("Next reminder window")

		if !r.sleep(ctx, w.Start.Sub(r.now())) {
			return r.exit(ctx)
		}

		for r.now().Before(w.End) {
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.Error().Err(err).Msg("Reminder scan failed")
			}
			if !r.sleep(ctx, r.cfg.Interval) {
				return r.exit(ctx)
			}
		}
	}
}

// RunOnce reminds every on-trip driver once and returns how many messages
// went out. Failed recipients are logged and skipped.
func (r *Reminder) RunOnce(ctx context.Context) (int, error) {
	log := r.log.With().Str("scan_id", uuid.NewString()).Logger()

	drivers, err := r.users.OnTrip(ctx)
	if err != nil {
		return 0, err
	}

	msg := messages.NewBuilder(0).
		WithText(messages.TextReminder).
		WithInlineButtons(messages.BackToMainMenuKeyboard())

	sent := 0
	for _, u := range drivers {
		params := msg.Build()
		params.ChatID = u.TelegramID
		if _, err := r.bot.SendMessage(ctx, params); err != nil {
			log.Warn().Err(err).Int64("user_id", u.TelegramID).Msg("Failed to send reminder")
			continue
		}
		sent++
	}

	log.Info().Int("on_trip", len(drivers)).Int("sent", sent).Msg("Reminder scan finished")
	return sent, nil
}

// Stop ends Run. Safe to call more than once.
func (r *Reminder) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// sleep waits for d; false means the reminder must exit.
func (r *Reminder) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		case <-r.stop:
			return false
		default:
			return true
		}
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-r.stop:
		return false
	case <-t.C:
		return true
	}
}

func (r *Reminder) exit(ctx context.Context) error {
	r.log.Info().Msg("Reminder stopped")
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
