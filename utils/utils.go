package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"minpaku-guard/types"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// Request bodies above this size are not persisted to the request log
const maxLoggedBodyBytes = 4096

// CreateSanitizedLogEntry builds a log entry from the request/response pair.
// All data is deep copied to prevent memory reference issues with fasthttp's
// reused buffers, and multipart/oversized bodies are elided.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeBody(string(c.Request().Header.ContentType()), c.Body())
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}

func sanitizeBody(contentType string, body []byte) string {
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return fmt.Sprintf("[multipart body omitted, %d bytes]", len(body))
	}
	if len(body) > maxLoggedBodyBytes {
		return fmt.Sprintf("[body omitted, %d bytes]", len(body))
	}
	return string(append([]byte(nil), body...))
}

// ParseUintParam reads a positive integer route parameter
func ParseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("invalid %s parameter: %q", name, raw)
	}
	return uint(value), nil
}

// DayBounds returns the inclusive start and end of the day containing t
func DayBounds(t time.Time) (time.Time, time.Time) {
	n := now.With(t)
	return n.BeginningOfDay(), n.EndOfDay()
}
