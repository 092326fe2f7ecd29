package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateUsesMaxAcrossFrames(t *testing.T) {
	estimates := []FrameEstimate{
		{FrameIndex: 0, Count: 2},
		{FrameIndex: 1, Count: 6},
		{FrameIndex: 2, Count: 3},
	}

	verdict := Evaluate(estimates, 4)

	assert.Equal(t, 6, verdict.DetectedCount)
	assert.Equal(t, 4, verdict.ReservedCount)
	assert.Equal(t, VerdictError, verdict.Status)
	assert.Contains(t, verdict.Message, "over-occupancy")
}

func TestEvaluateEqualityIsNormal(t *testing.T) {
	estimates := []FrameEstimate{
		{FrameIndex: 0, Count: 3},
		{FrameIndex: 1, Count: 2},
	}

	verdict := Evaluate(estimates, 3)

	assert.Equal(t, 3, verdict.DetectedCount)
	assert.Equal(t, VerdictNormal, verdict.Status)
}

func TestEvaluateBelowReservedIsNormal(t *testing.T) {
	estimates := []FrameEstimate{
		{FrameIndex: 0, Count: 1},
		{FrameIndex: 1, Count: 2},
	}

	verdict := Evaluate(estimates, 4)

	assert.Equal(t, 2, verdict.DetectedCount)
	assert.Equal(t, VerdictNormal, verdict.Status)
}

func TestEvaluateOrderIndependent(t *testing.T) {
	forward := []FrameEstimate{
		{FrameIndex: 0, Count: 1},
		{FrameIndex: 1, Count: 5},
		{FrameIndex: 2, Count: 2},
	}
	reversed := []FrameEstimate{
		{FrameIndex: 2, Count: 2},
		{FrameIndex: 1, Count: 5},
		{FrameIndex: 0, Count: 1},
	}

	a := Evaluate(forward, 4)
	b := Evaluate(reversed, 4)

	assert.Equal(t, a.DetectedCount, b.DetectedCount)
	assert.Equal(t, a.Status, b.Status)
	assert.Equal(t, a.Message, b.Message)
}

func TestEvaluateEmptyEstimates(t *testing.T) {
	verdict := Evaluate(nil, 2)

	assert.Equal(t, 0, verdict.DetectedCount)
	assert.Equal(t, VerdictNormal, verdict.Status)
}

func TestEvaluateDeterministic(t *testing.T) {
	estimates := []FrameEstimate{
		{FrameIndex: 0, Count: 4},
		{FrameIndex: 1, Count: 2},
	}

	first := Evaluate(estimates, 4)
	second := Evaluate(estimates, 4)

	assert.Equal(t, first, second)
}

func TestEvaluateDegradedFramesStillCount(t *testing.T) {
	// A degraded zero-count frame must never mask the max from healthy frames
	estimates := []FrameEstimate{
		{FrameIndex: 0, Count: 0, Degraded: true},
		{FrameIndex: 1, Count: 5},
	}

	verdict := Evaluate(estimates, 4)

	assert.Equal(t, 5, verdict.DetectedCount)
	assert.Equal(t, VerdictError, verdict.Status)
}
