package sheets

import (
	"FleetFuel/internal/core/domain"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ValuesAPI is the part of the Sheets values API the repositories need.
// Ranges are A1 notation, optionally prefixed with a quoted sheet name.
type ValuesAPI interface {
	Get(ctx context.Context, rng string) ([][]interface{}, error)
	Append(ctx context.Context, rng string, rows [][]interface{}) error
	Update(ctx context.Context, rng string, rows [][]interface{}) error
}

// Client talks to one spreadsheet through a service account.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

var _ ValuesAPI = (*Client)(nil)

// NewClient authenticates with the credentials file and checks that the
// spreadsheet is reachable.
func NewClient(ctx context.Context, credentialsPath, spreadsheetID string, baseLogger *zerolog.Logger) (*Client, error) {
	log := baseLogger.With().Str("component", "sheets").Logger()

	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		log.Error().Err(err).Str("credentials", credentialsPath).Msg("Failed to create sheets service")
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	doc, err := service.Spreadsheets.Get(spreadsheetID).Fields("spreadsheetId,properties.title").Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Str("spreadsheet_id", spreadsheetID).Msg("Failed to open spreadsheet")
		return nil, fmt.Errorf("unable to open spreadsheet %s: %w", spreadsheetID, err)
	}

	title := ""
	if doc.Properties != nil {
		title = doc.Properties.Title
	}
	log.Info().Str("spreadsheet_id", spreadsheetID).Str("title", title).Msg("Spreadsheet connected")

	return &Client{service: service, spreadsheetID: spreadsheetID, log: log}, nil
}

// Get reads every row of the range.
func (c *Client) Get(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// Append adds rows after the last non-empty row of the range.
func (c *Client) Append(ctx context.Context, rng string, rows [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Append(
		c.spreadsheetID,
		rng,
		&sheets.ValueRange{Values: rows},
	).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to append to %s: %w", rng, err)
	}
	return nil
}

// Update overwrites the cells of the range.
func (c *Client) Update(ctx context.Context, rng string, rows [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Update(
		c.spreadsheetID,
		rng,
		&sheets.ValueRange{Values: rows},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to update %s: %w", rng, err)
	}
	return nil
}

// a1 prefixes a range with its sheet name. An empty name addresses the
// first sheet of the spreadsheet.
func a1(sheet, rng string) string {
	if sheet == "" {
		return rng
	}
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + rng
}

// cell returns the trimmed text of column i, or "" for short rows.
func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

// TimeLayout is the timestamp format used in every sheet.
const TimeLayout = domain.TimestampLayout
