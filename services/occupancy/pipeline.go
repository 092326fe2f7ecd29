package occupancy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"minpaku-guard/logger"
	alertModel "minpaku-guard/models/alert"
	"minpaku-guard/services/frames"
	"minpaku-guard/services/vision"
)

const (
	defaultIntervalSeconds = 2.0
	defaultMaxConcurrent   = 4
)

// FrameExtractor decodes an uploaded video into ordered still frames
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, videoBytes []byte, intervalSeconds float64) ([]frames.FrameSample, error)
}

// WorkflowNotifier forwards a confirmed discrepancy to an external workflow
// engine. Notification is best effort and never retried.
type WorkflowNotifier interface {
	NotifyDiscrepancy(reservedCount, detectedCount int, bookingName string) error
}

// Pipeline composes the sampler, estimator, evaluator and recorder into the
// end-to-end occupancy check
type Pipeline struct {
	Extractor FrameExtractor
	Counter   vision.PeopleCounter
	Store     Store
	Workflow  WorkflowNotifier // optional, nil disables forwarding

	IntervalSeconds float64 // default sampling interval, 0 means defaultIntervalSeconds
	MaxConcurrent   int     // per-frame estimation concurrency, 0 means defaultMaxConcurrent
}

// Input is one occupancy check request
type Input struct {
	BookingID       uint
	Media           []byte
	MimeType        string
	IntervalSeconds float64 // 0 means the pipeline default
}

// Result is the complete outcome of a successful run. Estimates are ordered
// by frame index regardless of estimation concurrency.
type Result struct {
	BookingID     uint                `json:"booking_id"`
	ReservedCount int                 `json:"reserved_count"`
	DetectedCount int                 `json:"detected_count"`
	FrameCount    int                 `json:"frame_count"`
	Estimates     []FrameEstimate     `json:"estimates"`
	Verdict       Verdict             `json:"verdict"`
	Alert         *alertModel.Alert   `json:"alert,omitempty"`
}

// Run executes one occupancy check: extract frames, estimate each, evaluate
// the aggregate and record an alert when the verdict is an error. It returns
// either a complete Result or a single *PipelineError, never a partial result.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	// Received: fail fast on malformed input
	if len(in.Media) == 0 {
		return nil, invalidInput("media payload is empty")
	}
	if in.MimeType == "" {
		return nil, invalidInput("media mime type is missing")
	}

	bk, err := p.Store.GetBooking(in.BookingID)
	if err != nil {
		return nil, storeFailure(StageReceived, err)
	}
	if bk == nil {
		return nil, invalidInput(fmt.Sprintf("booking %d not found", in.BookingID))
	}
	if bk.ReservedCount <= 0 {
		return nil, invalidInput(fmt.Sprintf("booking %d has a non-positive reserved count", in.BookingID))
	}

	// Extracting: video uploads go through the sampler, photo uploads are a
	// single-frame batch
	samples, err := p.sample(ctx, in)
	if err != nil {
		return nil, err
	}

	// Estimating
	estimates, err := p.estimate(ctx, samples)
	if err != nil {
		return nil, err
	}

	// Evaluating
	verdict := Evaluate(estimates, bk.ReservedCount)

	// Recording or Skipping, decided purely by the verdict
	recorder := Recorder{Store: p.Store}
	created, err := recorder.RecordIfNeeded(verdict, bk.ID)
	if err != nil {
		return nil, err
	}

	if created != nil {
		logger.Warning(fmt.Sprintf("Over-occupancy alert %d created for booking %d: %s", created.ID, bk.ID, verdict.Message))
		p.forward(verdict, bk.Guest.FullName)
	}

	return &Result{
		BookingID:     bk.ID,
		ReservedCount: bk.ReservedCount,
		DetectedCount: verdict.DetectedCount,
		FrameCount:    len(estimates),
		Estimates:     estimates,
		Verdict:       verdict,
		Alert:         created,
	}, nil
}

func (p *Pipeline) sample(ctx context.Context, in Input) ([]frames.FrameSample, error) {
	if !strings.HasPrefix(in.MimeType, "video/") {
		return []frames.FrameSample{{Index: 0, Data: in.Media, MimeType: in.MimeType}}, nil
	}

	interval := in.IntervalSeconds
	if interval <= 0 {
		interval = p.IntervalSeconds
	}
	if interval <= 0 {
		interval = defaultIntervalSeconds
	}

	samples, err := p.Extractor.ExtractFrames(ctx, in.Media, interval)
	if err != nil {
		return nil, extractionFailed(err)
	}
	if len(samples) == 0 {
		return nil, extractionFailed(frames.ErrNoFrames)
	}
	return samples, nil
}

// estimate runs the people counter once per frame with bounded concurrency.
// Results are written back by slice position so the returned estimates keep
// sampling order. A single failed frame degrades to a flagged zero-count
// estimate; the run aborts only when every frame fails.
func (p *Pipeline) estimate(ctx context.Context, samples []frames.FrameSample) ([]FrameEstimate, error) {
	maxConcurrent := p.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	estimates := make([]FrameEstimate, len(samples))
	sem := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0
	var lastErr error

	for i, sample := range samples {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, sample frames.FrameSample) {
			defer wg.Done()
			defer func() { <-sem }()

			counted, err := p.Counter.CountPeople(ctx, sample.Data, sample.MimeType)
			if err != nil {
				logger.Error(fmt.Sprintf("People count failed for frame %d", sample.Index), err)
				estimates[i] = FrameEstimate{
					FrameIndex:  sample.Index,
					Count:       0,
					Confidence:  0,
					Description: "estimate unavailable for this frame",
					Degraded:    true,
				}
				mu.Lock()
				failures++
				lastErr = err
				mu.Unlock()
				return
			}

			estimates[i] = FrameEstimate{
				FrameIndex:  sample.Index,
				Count:       counted.Count,
				Confidence:  counted.Confidence,
				Description: counted.Description,
			}
		}(i, sample)
	}
	wg.Wait()

	if failures == len(samples) {
		return nil, estimationUnavailable(lastErr)
	}

	return estimates, nil
}

// forward pushes the discrepancy to the workflow engine without blocking the
// response. Failures are logged and never retried.
func (p *Pipeline) forward(verdict Verdict, bookingName string) {
	if p.Workflow == nil {
		return
	}
	go func() {
		if err := p.Workflow.NotifyDiscrepancy(verdict.ReservedCount, verdict.DetectedCount, bookingName); err != nil {
			logger.Error("Failed to forward discrepancy to workflow engine", err)
		}
	}()
}
