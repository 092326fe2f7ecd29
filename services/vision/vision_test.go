package vision

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCountResponsePlainJSON(t *testing.T) {
	result := ParseCountResponse(`{"count": 3, "confidence": 0.85, "description": "three people at a table"}`)

	assert.Equal(t, 3, result.Count)
	assert.Equal(t, 0.85, result.Confidence)
	assert.Equal(t, "three people at a table", result.Description)
}

func TestParseCountResponseMarkdownFence(t *testing.T) {
	text := "```json\n{\"count\": 2, \"confidence\": 0.9, \"description\": \"two people\"}\n```"

	result := ParseCountResponse(text)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestParseCountResponseBareFence(t *testing.T) {
	text := "```\n{\"count\": 5, \"confidence\": 1.0, \"description\": \"crowded room\"}\n```"

	result := ParseCountResponse(text)

	assert.Equal(t, 5, result.Count)
}

func TestParseCountResponseClampsNegativeCount(t *testing.T) {
	result := ParseCountResponse(`{"count": -2, "confidence": 0.5}`)

	assert.Equal(t, 0, result.Count)
}

func TestParseCountResponseRoundsFractionalCount(t *testing.T) {
	result := ParseCountResponse(`{"count": 2.6, "confidence": 0.5}`)

	assert.Equal(t, 3, result.Count)
}

func TestParseCountResponseClampsConfidence(t *testing.T) {
	over := ParseCountResponse(`{"count": 1, "confidence": 1.7}`)
	under := ParseCountResponse(`{"count": 1, "confidence": -0.3}`)

	assert.Equal(t, 1.0, over.Confidence)
	assert.Equal(t, 0.0, under.Confidence)
}

func TestParseCountResponseMissingCount(t *testing.T) {
	result := ParseCountResponse(`{"confidence": 0.8, "description": "empty hallway"}`)

	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, "empty hallway", result.Description)
}

func TestParseCountResponseNonNumericCount(t *testing.T) {
	result := ParseCountResponse(`{"count": "several", "confidence": 0.8}`)

	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestParseCountResponseUnparseable(t *testing.T) {
	result := ParseCountResponse("I cannot analyze this image.")

	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, "unparseable vision response", result.Description)
}

func TestNewGeminiCounterHasBoundedCallTimeout(t *testing.T) {
	counter := NewGeminiCounter()

	assert.Equal(t, defaultCallTimeout, counter.Timeout)
	assert.Greater(t, counter.Timeout, time.Duration(0))
}

func TestGeminiCounterHonorsCanceledContext(t *testing.T) {
	counter := &GeminiCounter{APIKey: "test-key", Model: "gemini-2.5-flash-lite", Timeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	var result *PeopleCount
	var err error
	go func() {
		result, err = counter.CountPeople(ctx, []byte{0xff}, "image/jpeg")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("CountPeople did not return after context cancellation")
	}

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestGeminiCounterMissingKeyIsUnavailable(t *testing.T) {
	counter := &GeminiCounter{APIKey: "", Model: "gemini-2.5-flash-lite"}

	result, err := counter.CountPeople(context.Background(), []byte{0xff}, "image/jpeg")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStubCounterCyclesDeterministically(t *testing.T) {
	stub := &StubCounter{Counts: []int{1, 4, 2}}
	ctx := context.Background()

	expected := []int{1, 4, 2, 1, 4}
	for _, want := range expected {
		result, err := stub.CountPeople(ctx, []byte{0x00}, "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, want, result.Count)
	}
}

func TestStubCounterEmptySequence(t *testing.T) {
	stub := &StubCounter{}

	result, err := stub.CountPeople(context.Background(), []byte{0x00}, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
}
