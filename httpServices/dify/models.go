package httpServices

// WorkflowInputs carries the verdict fields the workflow consumes
type WorkflowInputs struct {
	HasDiscrepancy bool   `json:"hasDiscrepancy"`
	ReservedCount  int    `json:"reservedCount"`
	DetectedCount  int    `json:"detectedCount"`
	BookingName    string `json:"bookingName,omitempty"`
}

// WorkflowRequest is the body of a blocking workflow run
type WorkflowRequest struct {
	Inputs       WorkflowInputs `json:"inputs"`
	ResponseMode string         `json:"response_mode"`
	User         string         `json:"user"`
}

// WorkflowRunData is the inner run record of a workflow response
type WorkflowRunData struct {
	ID          string                 `json:"id"`
	WorkflowID  string                 `json:"workflow_id"`
	Status      string                 `json:"status"`
	Outputs     map[string]interface{} `json:"outputs"`
	Error       string                 `json:"error,omitempty"`
	ElapsedTime float64                `json:"elapsed_time"`
	TotalTokens int                    `json:"total_tokens"`
	TotalSteps  int                    `json:"total_steps"`
	CreatedAt   int64                  `json:"created_at"`
	FinishedAt  int64                  `json:"finished_at"`
}

// WorkflowRunResponse is the full response of a workflow run
type WorkflowRunResponse struct {
	WorkflowRunID string          `json:"workflow_run_id"`
	TaskID        string          `json:"task_id"`
	Data          WorkflowRunData `json:"data"`
}
