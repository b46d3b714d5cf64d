// Package sheets delivers movement reports to a Google spreadsheet, one
// row per movement plus a trailing summary row.
package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/binpoint/wms/internal/domain/models"
)

const timestampLayout = time.RFC3339

// Sink appends report rows to a configured spreadsheet range.
type Sink struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetRange    string
	logger        *zap.Logger
}

// New builds a Google Sheets backed report sink.
func New(ctx context.Context, credentialsPath, spreadsheetID, sheetRange string, logger *zap.Logger) (*Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &Sink{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetRange:    sheetRange,
		logger:        logger,
	}, nil
}

func (s *Sink) Name() string {
	return "sheets"
}

// Deliver appends every movement row followed by one summary row.
func (s *Sink) Deliver(ctx context.Context, report models.MovementReport) error {
	values := make([][]interface{}, 0, len(report.Rows)+1)
	for _, row := range report.Rows {
		values = append(values, []interface{}{
			row.Timestamp.Format(timestampLayout),
			row.SKU,
			row.BinCode,
			string(row.OperationType),
			row.Quantity,
			row.Opening,
			row.Closing,
		})
	}
	values = append(values, []interface{}{
		fmt.Sprintf("TOTAL %d movements", report.Summary.TotalMovements),
		fmt.Sprintf("%d SKUs", report.Summary.UniqueSKUs),
		fmt.Sprintf("%d locations", report.Summary.UniqueLocations),
		fmt.Sprintf("%d putaway / %d pick", report.Summary.PutawayCount, report.Summary.PickCount),
		report.Summary.TotalQuantityMoved,
		"",
		"",
	})

	payload := &sheetsapi.ValueRange{Values: values}
	call := s.service.Spreadsheets.Values.Append(s.spreadsheetID, s.sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report into range %s: %w", s.sheetRange, err)
	}

	s.logger.Debug("report appended to sheet",
		zap.String("range", s.sheetRange),
		zap.Int("rows", len(report.Rows)))
	return nil
}
