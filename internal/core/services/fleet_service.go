package services

import (
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var stockRegex = regexp.MustCompile(`^\d+$`)

// MaxStock is the largest stock, in liters, accepted from a chat.
const MaxStock = 100000

// ErrStockTooLarge is the ErrValidation returned for values above MaxStock.
var ErrStockTooLarge = fmt.Errorf("stock above %d liters: %w", MaxStock, domain.ErrValidation)

// ParseStock accepts non-negative whole liters up to MaxStock.
func ParseStock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if !stockRegex.MatchString(raw) {
		return 0, fmt.Errorf("stock %q: %w", raw, domain.ErrValidation)
	}
	// Atoi also fails on overflow, which is above MaxStock as well
	n, err := strconv.Atoi(raw)
	if err != nil || n > MaxStock {
		return 0, fmt.Errorf("stock %q: %w", raw, ErrStockTooLarge)
	}
	return n, nil
}

// Paginate cuts a 1-based page out of vehicles. Pages past the end are
// empty; navigation never offers them.
func Paginate(vehicles []domain.Vehicle, page, size int) domain.VehiclePage {
	total := (len(vehicles) + size - 1) / size
	result := domain.VehiclePage{Number: page, Total: total}

	start := (page - 1) * size
	if page < 1 || start >= len(vehicles) {
		return result
	}
	end := start + size
	if end > len(vehicles) {
		end = len(vehicles)
	}
	result.Vehicles = vehicles[start:end]
	return result
}

// FleetService covers vehicle listing, trip start and stock reporting.
type FleetService struct {
	users    ports.UserRepository
	vehicles ports.VehicleRepository
	changes  ports.ChangeLogRepository
	pageSize int
	now      Clock
	loc      *time.Location
	log      zerolog.Logger
}

func NewFleetService(
	users ports.UserRepository,
	vehicles ports.VehicleRepository,
	changes ports.ChangeLogRepository,
	pageSize int,
	now Clock,
	loc *time.Location,
	baseLogger *zerolog.Logger,
) *FleetService {
	return &FleetService{
		users:    users,
		vehicles: vehicles,
		changes:  changes,
		pageSize: pageSize,
		now:      now,
		loc:      loc,
		log:      baseLogger.With().Str("component", "fleet_service").Logger(),
	}
}

// Today is the current date in the fleet's time zone.
func (s *FleetService) Today() time.Time {
	return s.now().In(s.loc)
}

func (s *FleetService) ListVehicles(ctx context.Context, page int) (domain.VehiclePage, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return domain.VehiclePage{}, err
	}
	return Paginate(vehicles, page, s.pageSize), nil
}

func (s *FleetService) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	if vehicleID == "" {
		return nil, fmt.Errorf("empty vehicle id: %w", domain.ErrValidation)
	}
	v, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("vehicle %q: %w", vehicleID, domain.ErrNotFound)
	}
	return v, nil
}

// SelectVehicle starts a trip: the driver is marked OnTrip until the next
// successful SubmitStock. Selecting again is not guarded.
// When the driver has no identity row the vehicle is still returned along
// with domain.ErrNotFound, so callers can tell the two misses apart.
func (s *FleetService) SelectVehicle(ctx context.Context, telegramID int64, vehicleID string) (*domain.Vehicle, error) {
	v, err := s.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateAvailability(ctx, telegramID, domain.AvailabilityOnTrip); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return v, err
		}
		return nil, err
	}

	s.log.Info().Int64("telegram_id", telegramID).Str("vehicle_id", vehicleID).Msg("Trip started")
	return v, nil
}

// SubmitStock logs a driver's reading, frees the driver and refreshes the
// vehicle row. The vehicle refresh is best-effort.
func (s *FleetService) SubmitStock(ctx context.Context, telegramID int64, vehicleID, raw string) (*domain.ChangeRecord, error) {
	log := s.log.With().Int64("telegram_id", telegramID).Str("vehicle_id", vehicleID).Logger()

	stock, err := ParseStock(raw)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", telegramID, domain.ErrNotFound)
	}

	record := &domain.ChangeRecord{
		FullName:  orUnknown(user.FullName),
		Phone:     orUnknown(user.Phone),
		VehicleID: vehicleID,
		Stock:     stock,
		Timestamp: s.now().In(s.loc),
	}
	if err := s.changes.Append(ctx, record); err != nil {
		return nil, err
	}
	if err := s.users.UpdateAvailability(ctx, telegramID, domain.AvailabilityFree); err != nil {
		return nil, err
	}

	if err := s.vehicles.UpdateStock(ctx, vehicleID, stock, record.Timestamp); err != nil {
		log.Warn().Err(err).Msg("Change logged but vehicle row not refreshed")
	}

	log.Info().Int("stock", stock).Msg("Stock submitted")
	return record, nil
}

// AdminSetStock overwrites a vehicle's stock without touching the change log.
func (s *FleetService) AdminSetStock(ctx context.Context, vehicleID, raw string) (*domain.Vehicle, error) {
	stock, err := ParseStock(raw)
	if err != nil {
		return nil, err
	}

	at := s.now().In(s.loc)
	if err := s.vehicles.UpdateStock(ctx, vehicleID, stock, at); err != nil {
		return nil, err
	}

	s.log.Info().Str("vehicle_id", vehicleID).Int("stock", stock).Msg("Stock set by administrator")
	return &domain.Vehicle{
		ID:        vehicleID,
		Stock:     strconv.Itoa(stock),
		UpdatedAt: at.Format(domain.TimestampLayout),
	}, nil
}

// DailySummary reports, per known vehicle in store order, the last record
// appended on the given date. Append order decides, not timestamps.
func (s *FleetService) DailySummary(ctx context.Context, date time.Time) ([]domain.SummaryLine, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.changes.List(ctx)
	if err != nil {
		return nil, err
	}

	day := date.In(s.loc).Format(domain.DateLayout)
	last := make(map[string]domain.ChangeRecord)
	for _, rec := range records {
		if rec.Day(s.loc) == day {
			last[rec.VehicleID] = rec
		}
	}

	lines := make([]domain.SummaryLine, 0, len(vehicles))
	for _, v := range vehicles {
		line := domain.SummaryLine{VehicleID: v.ID}
		if rec, ok := last[v.ID]; ok {
			line.FullName = rec.FullName
			line.Stock = rec.StockLabel()
			line.HasData = true
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Неизвестно"
	}
	return s
}
