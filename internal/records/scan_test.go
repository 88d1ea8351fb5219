package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "academy-bot/internal/common/errors"
	"academy-bot/internal/common/logger"
)

func scanRow(handle, linkedID, signature string) []string {
	return []string{handle, linkedID, "Pending", "", "", "", "", "", signature}
}

func TestScanFollowups(t *testing.T) {
	wf, _, notifier := testWorkflow(t, [][]string{
		scanRow("signed", "1", "Jane Doe"),
		scanRow("linked-unsigned", "2", ""),
		scanRow("unlinked-unsigned", "", ""),
		scanRow("another-linked", "4", ""),
	})

	summary, err := wf.ScanFollowups(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Scanned)
	assert.Equal(t, 3, summary.MissingFollowup)
	assert.Equal(t, 2, summary.Notified)
	assert.Equal(t, 1, summary.Unlinked)
	assert.Equal(t, 0, summary.Failed)

	assert.ElementsMatch(t, []string{"2", "4"}, notifier.targets)
}

func TestScanFollowupsDeliveryFailureDoesNotHalt(t *testing.T) {
	wf, _, notifier := testWorkflow(t, [][]string{
		scanRow("a", "1", ""),
		scanRow("b", "2", ""),
		scanRow("c", "3", ""),
	})
	notifier.deliver = false

	summary, err := wf.ScanFollowups(context.Background())
	require.NoError(t, err)

	// Every record was still attempted.
	assert.Len(t, notifier.targets, 3)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 0, summary.Notified)
}

func TestScanFollowupsStoreFailure(t *testing.T) {
	store, fake := testStore(t, [][]string{
		scanRow("a", "1", ""),
	}, nil)
	wf := NewWorkflow(store, &fakeNotifier{}, DefaultTemplates(), logger.NewNoOpLogger())

	fake.failReads = true
	_, err := wf.ScanFollowups(context.Background())
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeStoreUnavailable))
}

func TestScanSummaryString(t *testing.T) {
	s := ScanSummary{Scanned: 5, MissingFollowup: 3, Notified: 2, Failed: 0, Unlinked: 1}
	out := s.String()
	assert.Contains(t, out, "scanned 5 records")
	assert.Contains(t, out, "3 missing a signature")
}
