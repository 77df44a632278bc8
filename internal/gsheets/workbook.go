// Package gsheets implements sheet.Workbook on top of a Google spreadsheet.
//
// Creating a sheet is sent immediately because later requests need its
// numeric ID. Values and formatting are queued and sent by Save in two batch
// calls; Value and Formula flush the queue before reading.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"monthsheet/internal/logger"
	"monthsheet/internal/sheet"
	"os"
	"strings"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var _ sheet.Workbook = (*Workbook)(nil)

type Workbook struct {
	svc           *gsheet.Service
	spreadsheetID string

	values   []*gsheet.ValueRange
	requests []*gsheet.Request
}

// New opens the spreadsheet with the given client options.
func New(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Workbook, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Workbook{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// CredentialsFile reads a service account key and returns the options
// needed to edit spreadsheets with it.
func CredentialsFile(path string) ([]option.ClientOption, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("missing service account credentials (set workbook.credentials_file or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	credentialsJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	logger.Debug("Read credentials file", "path", path, "size", len(credentialsJSON))

	return []option.ClientOption{
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheet.SpreadsheetsScope),
	}, nil
}

func (w *Workbook) CreateSheet(ctx context.Context, name string) (sheet.Sheet, error) {
	if _, ok, err := w.sheetID(ctx, name); err != nil {
		return nil, err
	} else if ok {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetExists, name)
	}

	resp, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: name}},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("add sheet %q: %w", name, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return nil, fmt.Errorf("add sheet %q: empty reply", name)
	}

	id := resp.Replies[0].AddSheet.Properties.SheetId
	logger.Info("Added sheet", "spreadsheet_id", w.spreadsheetID, "sheet", name, "sheet_id", id)
	return &worksheet{book: w, name: name, id: id}, nil
}

func (w *Workbook) LookupSheet(ctx context.Context, name string) (sheet.Sheet, bool, error) {
	id, ok, err := w.sheetID(ctx, name)
	if err != nil || !ok {
		return nil, false, err
	}

	// Continue after the last row that has anything in it.
	resp, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, sheet.QuoteName(name)).Context(ctx).Do()
	if err != nil {
		return nil, false, fmt.Errorf("read sheet %q: %w", name, err)
	}

	return &worksheet{book: w, name: name, id: id, lastRow: len(resp.Values)}, true, nil
}

func (w *Workbook) SheetNames(ctx context.Context) ([]string, error) {
	props, err := w.properties(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Title)
	}
	return names, nil
}

// Save sends the queued values, then the queued formatting requests.
func (w *Workbook) Save(ctx context.Context) error {
	if len(w.values) > 0 {
		_, err := w.svc.Spreadsheets.Values.BatchUpdate(w.spreadsheetID, &gsheet.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data:             w.values,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write values: %w", err)
		}
		logger.Debug("Wrote values", "ranges", len(w.values))
		w.values = nil
	}

	if len(w.requests) > 0 {
		_, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
			Requests: w.requests,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("apply formatting: %w", err)
		}
		logger.Debug("Applied formatting", "requests", len(w.requests))
		w.requests = nil
	}
	return nil
}

func (w *Workbook) properties(ctx context.Context) ([]*gsheet.SheetProperties, error) {
	resp, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	props := make([]*gsheet.SheetProperties, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			props = append(props, s.Properties)
		}
	}
	return props, nil
}

func (w *Workbook) sheetID(ctx context.Context, name string) (int64, bool, error) {
	props, err := w.properties(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, p := range props {
		if p.Title == name {
			return p.SheetId, true, nil
		}
	}
	return 0, false, nil
}
