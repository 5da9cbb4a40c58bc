// Package sheets implements audit.Destination on a Google Sheets worksheet.
package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Destination appends rows to a single worksheet of a spreadsheet. Rows go
// through the values.append API, which the Sheets backend applies atomically
// per call.
type Destination struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

// NewDestination builds a Sheets client from a service-account credentials
// file and binds it to one worksheet.
func NewDestination(ctx context.Context, credentialsFile, spreadsheetID, sheetName string, logger *slog.Logger, opts ...option.ClientOption) (*Destination, error) {
	clientOpts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &Destination{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

// IsEmpty reports whether the worksheet has no rows at all, by probing the
// first cell. A sheet with any header already written is non-empty.
func (d *Destination) IsEmpty(ctx context.Context) (bool, error) {
	readRange := fmt.Sprintf("%s!A1:A1", d.sheetName)
	resp, err := d.svc.Spreadsheets.Values.Get(d.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read %s: %w", readRange, err)
	}
	return len(resp.Values) == 0, nil
}

// AppendRow appends one row of raw values after the last non-empty row.
func (d *Destination) AppendRow(ctx context.Context, values []any) error {
	body := &sheets.ValueRange{
		Values: [][]any{values},
	}
	_, err := d.svc.Spreadsheets.Values.Append(d.spreadsheetID, d.sheetName, body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", d.sheetName, err)
	}
	return nil
}
