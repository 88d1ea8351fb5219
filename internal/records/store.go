// internal/records/store.go
package records

import (
	"context"
	"fmt"
	"strings"

	"academy-bot/internal/common/config"
	cerrors "academy-bot/internal/common/errors"
	"academy-bot/internal/common/logger"
	"academy-bot/internal/common/metrics"
	"academy-bot/internal/common/sheets"
)

// Store adapts the two application spreadsheets behind a field-level
// read/write contract. Lookups re-read the full table every call; store
// size is small and the freshness matters more than the round-trip. This
// is the workflow's main scalability ceiling.
type Store struct {
	api    sheets.ValuesAPI
	tabs   *sheets.TabCache
	cfg    config.RecordsConfig
	logger logger.Logger
}

func NewStore(api sheets.ValuesAPI, tabs *sheets.TabCache, cfg config.RecordsConfig, log logger.Logger) *Store {
	return &Store{
		api:    api,
		tabs:   tabs,
		cfg:    cfg,
		logger: log,
	}
}

func (s *Store) spreadsheetID(storeID StoreID) (string, error) {
	var id string
	switch storeID {
	case StoreStudent:
		id = s.cfg.StudentSpreadsheetID
	case StoreTeacher:
		id = s.cfg.TeacherSpreadsheetID
	default:
		return "", cerrors.NewUnknownStoreError(string(storeID))
	}

	if id == "" {
		return "", cerrors.NewStoreDisabledError(string(storeID))
	}
	return id, nil
}

// fetch pulls the full table for a store: the tab name, the header row and
// the data rows beneath it.
func (s *Store) fetch(ctx context.Context, storeID StoreID) (string, []string, [][]string, error) {
	spreadsheetID, err := s.spreadsheetID(storeID)
	if err != nil {
		return "", nil, nil, err
	}

	tab, err := s.tabs.FirstTabName(ctx, s.api, spreadsheetID)
	if err != nil {
		metrics.StoreReads.WithLabelValues(string(storeID), "error").Inc()
		return "", nil, nil, cerrors.NewStoreUnavailableError(string(storeID), err)
	}

	readRange := fmt.Sprintf("%s!%s", tab, s.cfg.ReadRange)
	rows, err := s.api.GetRange(ctx, spreadsheetID, readRange)
	if err != nil {
		metrics.StoreReads.WithLabelValues(string(storeID), "error").Inc()
		return "", nil, nil, cerrors.NewStoreUnavailableError(string(storeID), err)
	}
	metrics.StoreReads.WithLabelValues(string(storeID), "ok").Inc()

	if len(rows) == 0 {
		return tab, nil, nil, nil
	}
	return tab, rows[0], rows[1:], nil
}

// recordFromRow builds a Record from one data row. sheetRow is the 1-based
// sheet row number of the data row.
func recordFromRow(tab string, sheetRow int, columns map[Field]int, row []string) *Record {
	cell := func(field Field) string {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	return &Record{
		Handle:          cell(FieldHandle),
		LinkedAccountID: cell(FieldLinkedAccountID),
		Status:          cell(FieldStatus),
		PaymentStatus:   cell(FieldPaymentStatus),
		NextSteps:       cell(FieldNextSteps),
		StaffNotes:      cell(FieldStaffNotes),
		LastUpdated:     cell(FieldLastUpdated),
		Positions:       cell(FieldPositions),
		Signature:       cell(FieldSignature),
		Ref: RowRef{
			Tab:     tab,
			Row:     sheetRow,
			Columns: columns,
		},
	}
}

func resolveColumns(headers []string) map[Field]int {
	columns := make(map[Field]int)
	for _, field := range []Field{
		FieldHandle,
		FieldLinkedAccountID,
		FieldStatus,
		FieldPaymentStatus,
		FieldNextSteps,
		FieldStaffNotes,
		FieldLastUpdated,
		FieldPositions,
		FieldSignature,
	} {
		if idx := ResolveHeader(headers, field); idx >= 0 {
			columns[field] = idx
		}
	}
	return columns
}

// FindByHandle returns the first row whose handle matches, case-insensitive
// and exact. Duplicate handles are a data-quality issue upstream; first
// match wins.
func (s *Store) FindByHandle(ctx context.Context, storeID StoreID, handle string) (*Record, error) {
	tab, headers, rows, err := s.fetch(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, cerrors.NewSheetEmptyError(string(storeID))
	}

	columns := resolveColumns(headers)
	handleIdx, ok := columns[FieldHandle]
	if !ok {
		return nil, cerrors.NewRecordNotFoundError(string(storeID), handle, "handle column not found")
	}

	want := strings.ToLower(strings.TrimSpace(handle))
	for i, row := range rows {
		if handleIdx >= len(row) {
			continue
		}
		if strings.ToLower(strings.TrimSpace(row[handleIdx])) == want {
			return recordFromRow(tab, i+2, columns, row), nil
		}
	}

	return nil, cerrors.NewRecordNotFoundError(string(storeID), handle, "no matching row")
}

// FindByLinkedID returns the first row bound to the given account id.
func (s *Store) FindByLinkedID(ctx context.Context, storeID StoreID, linkedID string) (*Record, error) {
	tab, headers, rows, err := s.fetch(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, cerrors.NewSheetEmptyError(string(storeID))
	}

	columns := resolveColumns(headers)
	idIdx, ok := columns[FieldLinkedAccountID]
	if !ok {
		return nil, cerrors.NewRecordNotFoundError(string(storeID), linkedID, "linked account column not found")
	}

	want := strings.TrimSpace(linkedID)
	for i, row := range rows {
		if idIdx >= len(row) {
			continue
		}
		if strings.TrimSpace(row[idIdx]) == want {
			return recordFromRow(tab, i+2, columns, row), nil
		}
	}

	return nil, cerrors.NewRecordNotFoundError(string(storeID), linkedID, "no row linked to account")
}

// AllRecords returns every data row of a store, in sheet order. Used by the
// follow-up scan.
func (s *Store) AllRecords(ctx context.Context, storeID StoreID) ([]*Record, error) {
	tab, headers, rows, err := s.fetch(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, cerrors.NewSheetEmptyError(string(storeID))
	}

	columns := resolveColumns(headers)
	out := make([]*Record, 0, len(rows))
	for i, row := range rows {
		out = append(out, recordFromRow(tab, i+2, columns, row))
	}
	return out, nil
}

// UpdateFields writes the given fields into the row's resolved cells in one
// batched round-trip. Fields without a resolved header are skipped, so
// unmanaged columns are never touched. Returns the number of cells written.
func (s *Store) UpdateFields(ctx context.Context, storeID StoreID, ref RowRef, fields map[Field]string) (int, error) {
	spreadsheetID, err := s.spreadsheetID(storeID)
	if err != nil {
		return 0, err
	}

	data := make([]sheets.ValueRange, 0, len(fields))
	skipped := make([]string, 0)
	for field, value := range fields {
		idx, ok := ref.Columns[field]
		if !ok {
			skipped = append(skipped, string(field))
			continue
		}
		cellRange := fmt.Sprintf("%s!%s%d", ref.Tab, columnLetter(idx), ref.Row)
		data = append(data, sheets.ValueRange{
			Range:  cellRange,
			Values: [][]string{{value}},
		})
	}

	if len(skipped) > 0 {
		s.logger.Warn("skipping fields without a resolved header", map[string]interface{}{
			"storeId": string(storeID),
			"row":     ref.Row,
			"fields":  strings.Join(skipped, ","),
		})
	}

	if len(data) == 0 {
		return 0, nil
	}

	updated, err := s.api.BatchUpdate(ctx, spreadsheetID, data)
	if err != nil {
		metrics.StoreWrites.WithLabelValues(string(storeID), "error").Inc()
		return 0, cerrors.NewStoreWriteFailedError(string(storeID), err)
	}
	metrics.StoreWrites.WithLabelValues(string(storeID), "ok").Inc()

	return updated, nil
}
