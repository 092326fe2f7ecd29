package occupancy

import (
	"fmt"
)

// FrameEstimate is the per-frame people count produced by the estimator,
// held only for the duration of one pipeline run and returned for display
type FrameEstimate struct {
	FrameIndex  int     `json:"frame_index"`
	Count       int     `json:"count"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description,omitempty"`
	Degraded    bool    `json:"degraded,omitempty"` // estimate substituted after a failed vision call
}

// VerdictStatus classifies the comparison of detected vs reserved counts
type VerdictStatus string

const (
	VerdictNormal VerdictStatus = "normal"
	VerdictError  VerdictStatus = "error"
)

// Verdict is the outcome of comparing the aggregate detected count against
// the booking's contracted headcount
type Verdict struct {
	ReservedCount int           `json:"reserved_count"`
	DetectedCount int           `json:"detected_count"`
	Status        VerdictStatus `json:"status"`
	Message       string        `json:"message"`
}

// Evaluate aggregates per-frame counts into a single detected count and
// classifies it against the reserved count.
//
// The aggregate is the maximum across frames: a single frame under-detecting
// people (occlusion, motion blur) must not mask an over-occupancy event. An
// empty estimate slice yields a detected count of 0. The verdict is "error"
// only when detected strictly exceeds reserved; an exact match is "normal"
// because the contract is an upper bound.
func Evaluate(estimates []FrameEstimate, reservedCount int) Verdict {
	detected := 0
	for _, e := range estimates {
		if e.Count > detected {
			detected = e.Count
		}
	}

	verdict := Verdict{
		ReservedCount: reservedCount,
		DetectedCount: detected,
	}

	if detected > reservedCount {
		verdict.Status = VerdictError
		verdict.Message = fmt.Sprintf("detected %d people against %d reserved: over-occupancy", detected, reservedCount)
	} else {
		verdict.Status = VerdictNormal
		verdict.Message = fmt.Sprintf("detected %d people against %d reserved: within the contracted headcount", detected, reservedCount)
	}

	return verdict
}
