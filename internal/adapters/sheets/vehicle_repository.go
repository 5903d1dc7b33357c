package sheets

import (
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Fleet sheet columns: VehicleID, Stock, LastUpdated.
const (
	colVehicleID = iota
	colVehicleStock
	colVehicleUpdated
)

const vehicleRange = "A:C"

type vehicleRepository struct {
	api   ValuesAPI
	sheet string
	loc   *time.Location
	log   zerolog.Logger
}

var _ ports.VehicleRepository = (*vehicleRepository)(nil)

// NewVehicleRepository creates the fleet status store on top of a sheet.
func NewVehicleRepository(api ValuesAPI, sheet string, loc *time.Location, baseLogger *zerolog.Logger) ports.VehicleRepository {
	return &vehicleRepository{
		api:   api,
		sheet: sheet,
		loc:   loc,
		log:   baseLogger.With().Str("component", "vehicle_repo").Logger(),
	}
}

func (r *vehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	vehicles, _, err := r.scan(ctx)
	return vehicles, err
}

func (r *vehicleRepository) Get(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	vehicles, _, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	for i := range vehicles {
		if vehicles[i].ID == vehicleID {
			return &vehicles[i], nil
		}
	}
	return nil, nil
}

func (r *vehicleRepository) UpdateStock(ctx context.Context, vehicleID string, stock int, at time.Time) error {
	vehicles, rowNumbers, err := r.scan(ctx)
	if err != nil {
		return err
	}

	for i, v := range vehicles {
		if v.ID != vehicleID {
			continue
		}
		rng := a1(r.sheet, fmt.Sprintf("B%d:C%d", rowNumbers[i], rowNumbers[i]))
		values := [][]interface{}{{stock, at.In(r.loc).Format(TimeLayout)}}
		if err := r.api.Update(ctx, rng, values); err != nil {
			r.log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to update stock")
			return err
		}
		return nil
	}
	return fmt.Errorf("vehicle %q: %w", vehicleID, domain.ErrNotFound)
}

// scan returns vehicles in sheet order along with their sheet row numbers.
func (r *vehicleRepository) scan(ctx context.Context) ([]domain.Vehicle, []int, error) {
	rows, err := r.api.Get(ctx, a1(r.sheet, vehicleRange))
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to read vehicles")
		return nil, nil, err
	}

	var (
		vehicles   []domain.Vehicle
		rowNumbers []int
	)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		id := cell(row, colVehicleID)
		if id == "" {
			continue
		}
		vehicles = append(vehicles, domain.Vehicle{
			ID:        id,
			Stock:     cell(row, colVehicleStock),
			UpdatedAt: cell(row, colVehicleUpdated),
		})
		rowNumbers = append(rowNumbers, i+1)
	}
	return vehicles, rowNumbers, nil
}
