package records

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-bot/internal/common/config"
	cerrors "academy-bot/internal/common/errors"
	"academy-bot/internal/common/logger"
	"academy-bot/internal/common/sheets"
)

// fakeValues is an in-memory spreadsheet. Writes through BatchUpdate land
// in the same grid a later GetRange reads, so round-trip behavior is real.
type fakeValues struct {
	tab        string
	grids      map[string][][]string
	failReads  bool
	failWrites bool
	readCalls  int
}

func newFakeValues(tab string, grids map[string][][]string) *fakeValues {
	return &fakeValues{tab: tab, grids: grids}
}

func (f *fakeValues) GetRange(_ context.Context, spreadsheetID, _ string) ([][]string, error) {
	f.readCalls++
	if f.failReads {
		return nil, errors.New("connection refused")
	}
	grid, ok := f.grids[spreadsheetID]
	if !ok {
		return nil, fmt.Errorf("unknown spreadsheet %s", spreadsheetID)
	}
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (f *fakeValues) BatchUpdate(_ context.Context, spreadsheetID string, data []sheets.ValueRange) (int, error) {
	if f.failWrites {
		return 0, errors.New("write quota exceeded")
	}
	grid, ok := f.grids[spreadsheetID]
	if !ok {
		return 0, fmt.Errorf("unknown spreadsheet %s", spreadsheetID)
	}

	updated := 0
	for _, vr := range data {
		col, row, err := parseCellRef(vr.Range)
		if err != nil {
			return 0, err
		}
		for row > len(grid) {
			grid = append(grid, []string{})
		}
		for col >= len(grid[row-1]) {
			grid[row-1] = append(grid[row-1], "")
		}
		grid[row-1][col] = vr.Values[0][0]
		updated++
	}
	f.grids[spreadsheetID] = grid
	return updated, nil
}

func (f *fakeValues) FirstTabName(_ context.Context, _ string) (string, error) {
	if f.failReads {
		return "", errors.New("connection refused")
	}
	return f.tab, nil
}

// parseCellRef decodes a single-cell A1 reference like "Applications!D5"
// into a 0-based column and 1-based row.
func parseCellRef(ref string) (int, int, error) {
	parts := strings.SplitN(ref, "!", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad range %q", ref)
	}
	cell := parts[1]

	col := 0
	i := 0
	for ; i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z'; i++ {
		col = col*26 + int(cell[i]-'A') + 1
	}
	row, err := strconv.Atoi(cell[i:])
	if err != nil {
		return 0, 0, fmt.Errorf("bad range %q", ref)
	}
	return col - 1, row, nil
}

var testHeaders = []string{
	"Handle", "Linked Account ID", "Status", "Payment Status",
	"Next Steps", "Staff Notes", "Last Updated", "Positions", "Signature",
}

func testStore(t *testing.T, studentRows, teacherRows [][]string) (*Store, *fakeValues) {
	t.Helper()

	grids := map[string][][]string{
		"sheet-students": append([][]string{testHeaders}, studentRows...),
		"sheet-teachers": append([][]string{testHeaders}, teacherRows...),
	}
	fake := newFakeValues("Applications", grids)

	cfg := config.RecordsConfig{
		StudentSpreadsheetID: "sheet-students",
		TeacherSpreadsheetID: "sheet-teachers",
		ReadRange:            "A1:Z1000",
	}

	return NewStore(fake, sheets.NewTabCache(), cfg, logger.NewNoOpLogger()), fake
}

func studentRow(handle, linkedID, status string) []string {
	return []string{handle, linkedID, status, "", "", "", "", "", ""}
}

func TestFindByHandleCaseInsensitive(t *testing.T) {
	store, _ := testStore(t, [][]string{
		studentRow("ByteWolf", "", "Pending"),
		studentRow("nova99", "111", "Approved"),
	}, nil)

	upper, err := store.FindByHandle(context.Background(), StoreStudent, "ByteWolf")
	require.NoError(t, err)
	lower, err := store.FindByHandle(context.Background(), StoreStudent, "bytewolf")
	require.NoError(t, err)

	assert.Equal(t, upper.Ref.Row, lower.Ref.Row)
	assert.Equal(t, "ByteWolf", lower.Handle)
}

func TestFindByHandleFirstMatchWins(t *testing.T) {
	store, _ := testStore(t, [][]string{
		studentRow("dup", "", "Pending"),
		studentRow("dup", "", "Approved"),
	}, nil)

	rec, err := store.FindByHandle(context.Background(), StoreStudent, "dup")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Ref.Row)
	assert.Equal(t, "Pending", rec.Status)
}

func TestFindByHandleNotFound(t *testing.T) {
	store, _ := testStore(t, [][]string{
		studentRow("ByteWolf", "", "Pending"),
	}, nil)

	_, err := store.FindByHandle(context.Background(), StoreStudent, "nobody")
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeRecordNotFound))
}

func TestFindByHandleEmptySheet(t *testing.T) {
	store, _ := testStore(t, nil, nil)

	_, err := store.FindByHandle(context.Background(), StoreStudent, "anyone")
	require.True(t, cerrors.IsCode(err, cerrors.ErrCodeSheetEmpty))

	var stdErr *cerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, "Sheet is empty", stdErr.Message)
}

func TestFindByHandleStoreUnavailable(t *testing.T) {
	store, fake := testStore(t, [][]string{
		studentRow("ByteWolf", "", "Pending"),
	}, nil)
	fake.failReads = true

	_, err := store.FindByHandle(context.Background(), StoreStudent, "ByteWolf")
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeStoreUnavailable))
}

func TestFindByHandleStoreDisabled(t *testing.T) {
	fake := newFakeValues("Applications", map[string][][]string{})
	store := NewStore(fake, sheets.NewTabCache(), config.RecordsConfig{
		ReadRange: "A1:Z1000",
	}, logger.NewNoOpLogger())

	_, err := store.FindByHandle(context.Background(), StoreStudent, "anyone")
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeStoreDisabled))
}

func TestFindByLinkedID(t *testing.T) {
	store, _ := testStore(t, [][]string{
		studentRow("ByteWolf", "", "Pending"),
		studentRow("nova99", "111", "Approved"),
	}, nil)

	rec, err := store.FindByLinkedID(context.Background(), StoreStudent, "111")
	require.NoError(t, err)
	assert.Equal(t, "nova99", rec.Handle)

	_, err = store.FindByLinkedID(context.Background(), StoreStudent, "999")
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeRecordNotFound))
}

func TestUpdateFieldsRoundTrip(t *testing.T) {
	store, _ := testStore(t, [][]string{
		studentRow("ByteWolf", "", "Pending"),
	}, nil)
	ctx := context.Background()

	rec, err := store.FindByHandle(ctx, StoreStudent, "ByteWolf")
	require.NoError(t, err)

	fields := map[Field]string{
		FieldStatus:          "Approved",
		FieldNextSteps:       "Pay tuition",
		FieldStaffNotes:      "approved by cheng",
		FieldLastUpdated:     "2026-09-01T10:00:00Z",
		FieldPaymentStatus:   "Paid",
		FieldLinkedAccountID: "222",
	}
	updated, err := store.UpdateFields(ctx, StoreStudent, rec.Ref, fields)
	require.NoError(t, err)
	assert.Equal(t, len(fields), updated)

	after, err := store.FindByHandle(ctx, StoreStudent, "ByteWolf")
	require.NoError(t, err)
	assert.Equal(t, "Approved", after.Status)
	assert.Equal(t, "Pay tuition", after.NextSteps)
	assert.Equal(t, "approved by cheng", after.StaffNotes)
	assert.Equal(t, "2026-09-01T10:00:00Z", after.LastUpdated)
	assert.Equal(t, "Paid", after.PaymentStatus)
	assert.Equal(t, "222", after.LinkedAccountID)
}

func TestUpdateFieldsSkipsUnresolvedHeaders(t *testing.T) {
	grids := map[string][][]string{
		"sheet-students": {
			{"Handle", "Status"},
			{"ByteWolf", "Pending"},
		},
	}
	fake := newFakeValues("Applications", grids)
	store := NewStore(fake, sheets.NewTabCache(), config.RecordsConfig{
		StudentSpreadsheetID: "sheet-students",
		ReadRange:            "A1:Z1000",
	}, logger.NewNoOpLogger())
	ctx := context.Background()

	rec, err := store.FindByHandle(ctx, StoreStudent, "ByteWolf")
	require.NoError(t, err)

	updated, err := store.UpdateFields(ctx, StoreStudent, rec.Ref, map[Field]string{
		FieldStatus:        "Approved",
		FieldPaymentStatus: "Paid", // no such column
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	// The row keeps its shape: only the status cell changed.
	assert.Equal(t, []string{"ByteWolf", "Approved"}, grids["sheet-students"][1])
}

func TestUpdateFieldsWriteFailure(t *testing.T) {
	store, fake := testStore(t, [][]string{
		studentRow("ByteWolf", "", "Pending"),
	}, nil)
	ctx := context.Background()

	rec, err := store.FindByHandle(ctx, StoreStudent, "ByteWolf")
	require.NoError(t, err)

	fake.failWrites = true
	_, err = store.UpdateFields(ctx, StoreStudent, rec.Ref, map[Field]string{FieldStatus: "Approved"})
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeStoreWriteFailed))
}

func TestEveryLookupRereadsTheStore(t *testing.T) {
	store, fake := testStore(t, [][]string{
		studentRow("ByteWolf", "", "Pending"),
	}, nil)
	ctx := context.Background()

	_, err := store.FindByHandle(ctx, StoreStudent, "ByteWolf")
	require.NoError(t, err)
	_, err = store.FindByHandle(ctx, StoreStudent, "ByteWolf")
	require.NoError(t, err)

	assert.Equal(t, 2, fake.readCalls)
}

func TestAllRecords(t *testing.T) {
	store, _ := testStore(t, [][]string{
		studentRow("a", "", "Pending"),
		studentRow("b", "1", "Approved"),
		studentRow("c", "", ""),
	}, nil)

	recs, err := store.AllRecords(context.Background(), StoreStudent)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "a", recs[0].Handle)
	assert.Equal(t, 4, recs[2].Ref.Row)
}

func TestParseStoreID(t *testing.T) {
	tests := []struct {
		input    string
		expected StoreID
		ok       bool
	}{
		{"student", StoreStudent, true},
		{"students", StoreStudent, true},
		{"teacher", StoreTeacher, true},
		{"staff", StoreTeacher, true},
		{"alumni", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStoreID(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}
}
