package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrUnavailable is returned when the vision capability cannot be reached at
// all (missing credentials, client setup failure, network failure). Callers
// must not substitute a fabricated count in that case.
var ErrUnavailable = errors.New("vision service unavailable")

// PeopleCount is the sanitized result of one counting call
type PeopleCount struct {
	Count       int     `json:"count"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// PeopleCounter counts the people visible in a single image. Calls are
// independent: no cross-frame memory, same image gives the same answer.
type PeopleCounter interface {
	CountPeople(ctx context.Context, imageBytes []byte, mimeType string) (*PeopleCount, error)
}

// One stuck counting call must never hang a whole batch
const defaultCallTimeout = 30 * time.Second

// GeminiCounter counts people using the Gemini Vision API
type GeminiCounter struct {
	APIKey  string
	Model   string
	Timeout time.Duration // upper bound for one counting call
}

// NewGeminiCounter creates a counter configured from the environment
func NewGeminiCounter() *GeminiCounter {
	return &GeminiCounter{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   "gemini-2.5-flash-lite",
		Timeout: defaultCallTimeout,
	}
}

const countPrompt = `You are an expert in analyzing images to count people.
Count the number of people visible in this image. Include people who are only
partially visible. Return ONLY valid JSON in this format:
{
"count": number,              // non-negative integer count of people
"confidence": number,         // confidence score between 0 and 1
"description": string         // short description of what you see
}`

// CountPeople sends the image to Gemini with a counting instruction and
// sanitizes the response into a strict PeopleCount
func (g *GeminiCounter) CountPeople(ctx context.Context, imageBytes []byte, mimeType string) (*PeopleCount, error) {
	if g.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not found in environment variables", ErrUnavailable)
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrUnavailable, err)
	}

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: countPrompt},
			{InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     imageBytes,
			}},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		g.Model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no content generated by vision model")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, errors.New("empty response from vision model")
	}

	return ParseCountResponse(responseText), nil
}

// ParseCountResponse coerces the loosely typed vision response into a strict
// PeopleCount. A missing or non-numeric count becomes 0 with zero confidence
// rather than an error, so one bad frame does not abort a whole batch. The
// count is clamped to >= 0 and rounded; confidence is clamped into [0,1].
func ParseCountResponse(text string) *PeopleCount {
	jsonText := extractJSONFromMarkdown(text)

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return &PeopleCount{Count: 0, Confidence: 0, Description: "unparseable vision response"}
	}

	result := &PeopleCount{}

	if v, ok := raw["count"].(float64); ok {
		result.Count = int(math.Round(math.Max(0, v)))
	} else {
		// missing or non-numeric count: flagged zero, not a failure
		result.Count = 0
		result.Confidence = 0
		if d, ok := raw["description"].(string); ok {
			result.Description = d
		}
		return result
	}

	if v, ok := raw["confidence"].(float64); ok {
		result.Confidence = math.Max(0, math.Min(1, v))
	}
	if d, ok := raw["description"].(string); ok {
		result.Description = d
	}

	return result
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			jsonLines := lines[1 : len(lines)-1]
			return strings.Join(jsonLines, "\n")
		}
	}

	return text
}
