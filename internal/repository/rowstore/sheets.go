package rowstore

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/abhishekjatav/dukaan/internal/config"
)

// Each table lives on its own sheet: headers on row 1, data from row 2. The
// data width is capped at column J which covers the widest table (Sales).
const dataColumns = "A2:J"

// GoogleSheetStore implements Store against the official Google Sheets API.
type GoogleSheetStore struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// NewGoogleSheetStore builds a Google Sheets backed row store.
func NewGoogleSheetStore(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetStore{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// ReadAll fetches every data row of the named table.
func (s *GoogleSheetStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	if table == "" {
		return nil, fmt.Errorf("table must not be empty")
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.dataRange(table)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}

	rows := make([]Row, 0, len(resp.Values))
	for _, values := range resp.Values {
		rows = append(rows, Row(values))
	}
	return rows, nil
}

// Append adds the row below the last populated row of the table.
func (s *GoogleSheetStore) Append(ctx context.Context, table string, row Row) error {
	if table == "" {
		return fmt.Errorf("table must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := s.service.Spreadsheets.Values.Append(s.spreadsheetID, s.dataRange(table), payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into table %s: %w", table, err)
	}

	s.logger.Debug("row appended", zap.String("table", table))
	return nil
}

// FindAndDelete removes the row whose first column equals id.
func (s *GoogleSheetStore) FindAndDelete(ctx context.Context, table string, id string) error {
	index, err := s.findRowIndex(ctx, table, id)
	if err != nil {
		return err
	}

	sheetID, err := s.resolveSheetID(ctx, table)
	if err != nil {
		return err
	}

	// Grid indexes are zero-based; data row i sits on grid row i+1 because of
	// the header row.
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index + 1),
					EndIndex:   int64(index + 2),
				},
			},
		}},
	}

	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %s from table %s: %w", id, table, err)
	}

	s.logger.Debug("row deleted", zap.String("table", table), zap.String("id", id))
	return nil
}

// FindAndUpdate overwrites a single cell on the row whose first column equals id.
func (s *GoogleSheetStore) FindAndUpdate(ctx context.Context, table string, id string, column int, value interface{}) error {
	if column < 0 || column > 25 {
		return fmt.Errorf("column index %d out of range for table %s", column, table)
	}

	index, err := s.findRowIndex(ctx, table, id)
	if err != nil {
		return err
	}

	cell := fmt.Sprintf("%s!%c%d", table, 'A'+byte(column), index+2)
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}

	call := s.service.Spreadsheets.Values.Update(s.spreadsheetID, cell, payload).
		ValueInputOption("USER_ENTERED").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("update cell %s: %w", cell, err)
	}

	s.logger.Debug("cell updated", zap.String("cell", cell))
	return nil
}

func (s *GoogleSheetStore) dataRange(table string) string {
	return fmt.Sprintf("%s!%s", table, dataColumns)
}

func (s *GoogleSheetStore) findRowIndex(ctx context.Context, table string, id string) (int, error) {
	rows, err := s.ReadAll(ctx, table)
	if err != nil {
		return 0, err
	}

	for i, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == id {
			return i, nil
		}
	}

	return 0, fmt.Errorf("table %s id %s: %w", table, id, ErrRowNotFound)
}

func (s *GoogleSheetStore) resolveSheetID(ctx context.Context, table string) (int64, error) {
	s.mu.Lock()
	if sheetID, ok := s.sheetIDs[table]; ok {
		s.mu.Unlock()
		return sheetID, nil
	}
	s.mu.Unlock()

	meta, err := s.service.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("load spreadsheet metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil {
			s.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
		}
	}

	sheetID, ok := s.sheetIDs[table]
	if !ok {
		return 0, fmt.Errorf("spreadsheet has no sheet named %s", table)
	}
	return sheetID, nil
}
