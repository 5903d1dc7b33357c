package sheets

import (
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Change log columns: FullName, Phone, VehicleID, Stock, Timestamp.
const (
	colChangeName = iota
	colChangePhone
	colChangeVehicle
	colChangeStock
	colChangeTimestamp
	changeColumns
)

const changeRange = "A:E"

type changeLogRepository struct {
	api   ValuesAPI
	sheet string
	loc   *time.Location
	log   zerolog.Logger
}

var _ ports.ChangeLogRepository = (*changeLogRepository)(nil)

// NewChangeLogRepository creates the append-only change log on top of a sheet.
func NewChangeLogRepository(api ValuesAPI, sheet string, loc *time.Location, baseLogger *zerolog.Logger) ports.ChangeLogRepository {
	return &changeLogRepository{
		api:   api,
		sheet: sheet,
		loc:   loc,
		log:   baseLogger.With().Str("component", "change_log_repo").Logger(),
	}
}

func (r *changeLogRepository) Append(ctx context.Context, record *domain.ChangeRecord) error {
	row := []interface{}{
		record.FullName,
		record.Phone,
		record.VehicleID,
		record.Stock,
		record.Timestamp.In(r.loc).Format(TimeLayout),
	}
	if err := r.api.Append(ctx, a1(r.sheet, changeRange), [][]interface{}{row}); err != nil {
		r.log.Error().Err(err).Str("vehicle_id", record.VehicleID).Msg("Failed to append change record")
		return err
	}
	return nil
}

// List skips incomplete rows only. Hand-typed cells are kept as text in
// StockText and Date; Stock and Timestamp are filled when they parse.
func (r *changeLogRepository) List(ctx context.Context) ([]domain.ChangeRecord, error) {
	rows, err := r.api.Get(ctx, a1(r.sheet, changeRange))
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to read change log")
		return nil, err
	}

	var records []domain.ChangeRecord
	for i, row := range rows {
		if i == 0 || len(row) < changeColumns {
			continue
		}

		stockText := cell(row, colChangeStock)
		stamp := cell(row, colChangeTimestamp)

		stock, err := strconv.Atoi(stockText)
		if err != nil {
			r.log.Debug().Int("row", i+1).Str("stock", stockText).Msg("Change record with non-integer stock")
		}
		ts, err := r.parseTimestamp(stamp)
		if err != nil {
			r.log.Debug().Int("row", i+1).Str("timestamp", stamp).Msg("Change record with free-form timestamp")
		}

		records = append(records, domain.ChangeRecord{
			FullName:  cell(row, colChangeName),
			Phone:     cell(row, colChangePhone),
			VehicleID: cell(row, colChangeVehicle),
			Stock:     stock,
			Timestamp: ts,
			StockText: stockText,
			Date:      leadingDate(stamp),
		})
	}
	return records, nil
}

// parseTimestamp accepts the full layout and the minute-precision form
// staff type by hand.
func (r *changeLogRepository) parseTimestamp(s string) (time.Time, error) {
	ts, err := time.ParseInLocation(TimeLayout, s, r.loc)
	if err == nil {
		return ts, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", s, r.loc)
}

// leadingDate returns the first whitespace-separated token when it is a
// YYYY-MM-DD date, and "" otherwise.
func leadingDate(stamp string) string {
	fields := strings.Fields(stamp)
	if len(fields) == 0 {
		return ""
	}
	if _, err := time.Parse(domain.DateLayout, fields[0]); err != nil {
		return ""
	}
	return fields[0]
}
