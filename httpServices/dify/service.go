package httpServices

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"minpaku-guard/logger"
)

const workflowUser = "minpaku-guard-system"

// DifyClient calls the Dify workflow engine
type DifyClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *DifyClient {
	return &DifyClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Configured reports whether the workflow credentials are present
func (c *DifyClient) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// RunWorkflow triggers a blocking workflow run with the verdict fields as
// inputs. A non-2xx response fails with the downstream payload attached.
// Calls are never retried.
func (c *DifyClient) RunWorkflow(hasDiscrepancy bool, reservedCount, detectedCount int, bookingName string) (*WorkflowRunResponse, error) {
	if !c.Configured() {
		return nil, errors.New("Dify API credentials are not configured")
	}

	body, err := json.Marshal(WorkflowRequest{
		Inputs: WorkflowInputs{
			HasDiscrepancy: hasDiscrepancy,
			ReservedCount:  reservedCount,
			DetectedCount:  detectedCount,
			BookingName:    bookingName,
		},
		ResponseMode: "blocking",
		User:         workflowUser,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/workflows/run", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	logger.Info("Calling Dify workflow API: " + c.baseURL)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("Dify API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp WorkflowRunResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, err
	}

	return &apiResp, nil
}

// NotifyDiscrepancy forwards a confirmed over-occupancy to the workflow
// engine. It satisfies the pipeline's notifier contract.
func (c *DifyClient) NotifyDiscrepancy(reservedCount, detectedCount int, bookingName string) error {
	_, err := c.RunWorkflow(true, reservedCount, detectedCount, bookingName)
	return err
}
