package occupancy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	alertModel "minpaku-guard/models/alert"
	bookingModel "minpaku-guard/models/booking"
	guestModel "minpaku-guard/models/guest"
	"minpaku-guard/services/frames"
	"minpaku-guard/services/vision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with the same atomicity guarantees as the
// database-backed one: alert identities are allocated under a lock and never
// reused.
type fakeStore struct {
	mu       sync.Mutex
	bookings map[uint]*bookingModel.Booking
	alerts   []*alertModel.Alert
	nextID   uint

	getErr    error
	createErr error
}

func newFakeStore(bookings ...*bookingModel.Booking) *fakeStore {
	s := &fakeStore{
		bookings: make(map[uint]*bookingModel.Booking),
		nextID:   1,
	}
	for _, b := range bookings {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *fakeStore) GetBooking(id uint) (*bookingModel.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.bookings[id], nil
}

func (s *fakeStore) CreateAlert(bookingID uint, reservedCount, actualCount int) (*alertModel.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	created := &alertModel.Alert{
		ID:            s.nextID,
		BookingID:     bookingID,
		ReservedCount: reservedCount,
		ActualCount:   actualCount,
		Status:        alertModel.AlertStatusOpen,
	}
	s.nextID++
	s.alerts = append(s.alerts, created)
	return created, nil
}

// fakeExtractor returns a fixed number of frames, or an error
type fakeExtractor struct {
	frameCount int
	err        error
}

func (f *fakeExtractor) ExtractFrames(ctx context.Context, videoBytes []byte, intervalSeconds float64) ([]frames.FrameSample, error) {
	if f.err != nil {
		return nil, f.err
	}
	samples := make([]frames.FrameSample, f.frameCount)
	for i := range samples {
		samples[i] = frames.FrameSample{Index: i, Data: []byte{byte(i)}, MimeType: "image/jpeg"}
	}
	return samples, nil
}

// fakeCounter maps frame payloads to counts by frame position, with optional
// per-frame failures
type fakeCounter struct {
	counts  []int
	failAt  map[int]bool
	failAll bool

	mu    sync.Mutex
	calls int
}

func (f *fakeCounter) CountPeople(ctx context.Context, imageBytes []byte, mimeType string) (*vision.PeopleCount, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.failAll {
		return nil, vision.ErrUnavailable
	}
	idx := int(imageBytes[0])
	if f.failAt[idx] {
		return nil, fmt.Errorf("frame %d: %w", idx, vision.ErrUnavailable)
	}
	count := 0
	if idx < len(f.counts) {
		count = f.counts[idx]
	}
	return &vision.PeopleCount{Count: count, Confidence: 0.9, Description: "test estimate"}, nil
}

func testBooking(id uint, reserved int) *bookingModel.Booking {
	return &bookingModel.Booking{
		ID:            id,
		GuestID:       1,
		Guest:         guestModel.Guest{ID: 1, FullName: "田中太郎"},
		ReservedCount: reserved,
		Status:        bookingModel.BookingStatusCheckedIn,
	}
}

func TestPipelineVideoOverOccupancyCreatesAlert(t *testing.T) {
	store := newFakeStore(testBooking(1, 4))
	p := &Pipeline{
		Extractor: &fakeExtractor{frameCount: 3},
		Counter:   &fakeCounter{counts: []int{2, 6, 3}},
		Store:     store,
	}

	result, err := p.Run(context.Background(), Input{
		BookingID: 1,
		Media:     []byte("video-bytes"),
		MimeType:  "video/mp4",
	})

	require.NoError(t, err)
	assert.Equal(t, 6, result.DetectedCount)
	assert.Equal(t, 4, result.ReservedCount)
	assert.Equal(t, 3, result.FrameCount)
	assert.Equal(t, VerdictError, result.Verdict.Status)
	require.NotNil(t, result.Alert)
	assert.Equal(t, uint(1), result.Alert.BookingID)
	assert.Equal(t, 4, result.Alert.ReservedCount)
	assert.Equal(t, 6, result.Alert.ActualCount)
	assert.Equal(t, alertModel.AlertStatusOpen, result.Alert.Status)
	assert.Len(t, store.alerts, 1)
}

func TestPipelineWithinHeadcountSkipsAlert(t *testing.T) {
	store := newFakeStore(testBooking(1, 4))
	p := &Pipeline{
		Extractor: &fakeExtractor{frameCount: 3},
		Counter:   &fakeCounter{counts: []int{2, 4, 3}},
		Store:     store,
	}

	result, err := p.Run(context.Background(), Input{
		BookingID: 1,
		Media:     []byte("video-bytes"),
		MimeType:  "video/mp4",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, result.DetectedCount)
	assert.Equal(t, VerdictNormal, result.Verdict.Status)
	assert.Nil(t, result.Alert)
	assert.Empty(t, store.alerts)
}

func TestPipelinePhotoSkipsExtraction(t *testing.T) {
	store := newFakeStore(testBooking(1, 2))
	p := &Pipeline{
		// nil Extractor: a photo run must never touch it
		Counter: &fakeCounter{counts: []int{3}},
		Store:   store,
	}

	result, err := p.Run(context.Background(), Input{
		BookingID: 1,
		Media:     []byte{0},
		MimeType:  "image/jpeg",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.FrameCount)
	assert.Equal(t, 3, result.DetectedCount)
	assert.Equal(t, VerdictError, result.Verdict.Status)
	require.NotNil(t, result.Alert)
}

func TestPipelineExtractionFailureAborts(t *testing.T) {
	store := newFakeStore(testBooking(1, 4))
	p := &Pipeline{
		Extractor: &fakeExtractor{err: frames.ErrNoFrames},
		Counter:   &fakeCounter{},
		Store:     store,
	}

	result, err := p.Run(context.Background(), Input{
		BookingID: 1,
		Media:     []byte("corrupt"),
		MimeType:  "video/mp4",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsKind(err, KindExtractionFailed))
	assert.ErrorIs(t, err, frames.ErrNoFrames)
	assert.Empty(t, store.alerts)
}

func TestPipelineSingleFrameFailureDegrades(t *testing.T) {
	store := newFakeStore(testBooking(1, 4))
	p := &Pipeline{
		Extractor: &fakeExtractor{frameCount: 3},
		Counter:   &fakeCounter{counts: []int{2, 0, 5}, failAt: map[int]bool{1: true}},
		Store:     store,
	}

	result, err := p.Run(context.Background(), Input{
		BookingID: 1,
		Media:     []byte("video-bytes"),
		MimeType:  "video/mp4",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.FrameCount)
	assert.Equal(t, 5, result.DetectedCount)
	assert.Equal(t, VerdictError, result.Verdict.Status)

	require.Len(t, result.Estimates, 3)
	assert.True(t, result.Estimates[1].Degraded)
	assert.Equal(t, 0, result.Estimates[1].Count)
	assert.False(t, result.Estimates[0].Degraded)
	assert.False(t, result.Estimates[2].Degraded)
}

func TestPipelineAllFramesFailAborts(t *testing.T) {
	store := newFakeStore(testBooking(1, 4))
	p := &Pipeline{
		Extractor: &fakeExtractor{frameCount: 3},
		Counter:   &fakeCounter{failAll: true},
		Store:     store,
	}

	result, err := p.Run(context.Background(), Input{
		BookingID: 1,
		Media:     []byte("video-bytes"),
		MimeType:  "video/mp4",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsKind(err, KindEstimationUnavailable))
	assert.Empty(t, store.alerts)
}

func TestPipelineEstimatesKeepSamplingOrder(t *testing.T) {
	store := newFakeStore(testBooking(1, 100))
	p := &Pipeline{
		Extractor:     &fakeExtractor{frameCount: 8},
		Counter:       &fakeCounter{counts: []int{0, 1, 2, 3, 4, 5, 6, 7}},
		Store:         store,
		MaxConcurrent: 3,
	}

	result, err := p.Run(context.Background(), Input{
		BookingID: 1,
		Media:     []byte("video-bytes"),
		MimeType:  "video/mp4",
	})

	require.NoError(t, err)
	require.Len(t, result.Estimates, 8)
	for i, e := range result.Estimates {
		assert.Equal(t, i, e.FrameIndex)
		assert.Equal(t, i, e.Count)
	}
}

func TestPipelineInvalidInput(t *testing.T) {
	store := newFakeStore(testBooking(1, 4))
	p := &Pipeline{
		Extractor: &fakeExtractor{frameCount: 1},
		Counter:   &fakeCounter{counts: []int{1}},
		Store:     store,
	}

	cases := []struct {
		name string
		in   Input
	}{
		{"empty media", Input{BookingID: 1, Media: nil, MimeType: "video/mp4"}},
		{"missing mime type", Input{BookingID: 1, Media: []byte{0}, MimeType: ""}},
		{"unknown booking", Input{BookingID: 99, Media: []byte{0}, MimeType: "image/jpeg"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := p.Run(context.Background(), tc.in)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, IsKind(err, KindInvalidInput))
		})
	}
	assert.Empty(t, store.alerts)
}

func TestPipelineNonPositiveReservedCountRejected(t *testing.T) {
	store := newFakeStore(testBooking(1, 0))
	p := &Pipeline{
		Extractor: &fakeExtractor{frameCount: 1},
		Counter:   &fakeCounter{counts: []int{1}},
		Store:     store,
	}

	_, err := p.Run(context.Background(), Input{
		BookingID: 1,
		Media:     []byte{0},
		MimeType:  "image/jpeg",
	})

	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidInput))
}

func TestPipelineStoreFailureSurfaced(t *testing.T) {
	store := newFakeStore(testBooking(1, 2))
	store.createErr = errors.New("connection reset")
	p := &Pipeline{
		Counter: &fakeCounter{counts: []int{5}},
		Store:   store,
	}

	result, err := p.Run(context.Background(), Input{
		BookingID: 1,
		Media:     []byte{0},
		MimeType:  "image/jpeg",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsKind(err, KindStoreFailure))
}

func TestPipelineConcurrentRunsGetDistinctAlerts(t *testing.T) {
	store := newFakeStore(testBooking(1, 2), testBooking(2, 3))
	p := &Pipeline{
		Extractor: &fakeExtractor{frameCount: 2},
		Counter:   &fakeCounter{counts: []int{9, 9}},
		Store:     store,
	}

	var wg sync.WaitGroup
	results := make([]*Result, 2)
	errs := make([]error, 2)
	for i, bookingID := range []uint{1, 2} {
		wg.Add(1)
		go func(i int, bookingID uint) {
			defer wg.Done()
			results[i], errs[i] = p.Run(context.Background(), Input{
				BookingID: bookingID,
				Media:     []byte("video-bytes"),
				MimeType:  "video/mp4",
			})
		}(i, bookingID)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.NotNil(t, results[0].Alert)
	require.NotNil(t, results[1].Alert)
	assert.NotEqual(t, results[0].Alert.ID, results[1].Alert.ID)
	assert.Len(t, store.alerts, 2)
}
