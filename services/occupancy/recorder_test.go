package occupancy

import (
	"errors"
	"testing"

	alertModel "minpaku-guard/models/alert"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordIfNeededCreatesAlertOnError(t *testing.T) {
	store := newFakeStore()
	r := Recorder{Store: store}

	verdict := Evaluate([]FrameEstimate{{FrameIndex: 0, Count: 6}}, 4)
	require.Equal(t, VerdictError, verdict.Status)

	created, err := r.RecordIfNeeded(verdict, 7)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(7), created.BookingID)
	assert.Equal(t, 4, created.ReservedCount)
	assert.Equal(t, 6, created.ActualCount)
	assert.Equal(t, alertModel.AlertStatusOpen, created.Status)
	assert.Greater(t, created.ActualCount, created.ReservedCount)
	assert.Len(t, store.alerts, 1)
}

func TestRecordIfNeededSkipsNormalVerdict(t *testing.T) {
	store := newFakeStore()
	r := Recorder{Store: store}

	verdict := Evaluate([]FrameEstimate{{FrameIndex: 0, Count: 4}}, 4)
	require.Equal(t, VerdictNormal, verdict.Status)

	created, err := r.RecordIfNeeded(verdict, 7)

	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Empty(t, store.alerts)
}

func TestRecordIfNeededEveryErrorVerdictCreatesNewAlert(t *testing.T) {
	store := newFakeStore()
	r := Recorder{Store: store}

	verdict := Evaluate([]FrameEstimate{{FrameIndex: 0, Count: 6}}, 4)

	first, err := r.RecordIfNeeded(verdict, 7)
	require.NoError(t, err)
	second, err := r.RecordIfNeeded(verdict, 7)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.alerts, 2)
}

func TestRecordIfNeededWrapsStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("disk full")
	r := Recorder{Store: store}

	verdict := Evaluate([]FrameEstimate{{FrameIndex: 0, Count: 6}}, 4)

	created, err := r.RecordIfNeeded(verdict, 7)

	require.Error(t, err)
	assert.Nil(t, created)
	assert.True(t, IsKind(err, KindStoreFailure))
}
