package occupancy

import (
	"net/http/httptest"
	"testing"

	"minpaku-guard/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	controller := NewCheckController(nil, logger.NewAsyncLogger(nil), nil)
	app.Get("/api/occupancy/checks", controller.ListCheckRequests)
	return app
}

func TestListCheckRequestsRejectsUnknownStatus(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/occupancy/checks?status=bogus", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListCheckRequestsRejectsBadLimit(t *testing.T) {
	app := newTestApp()

	for _, target := range []string{
		"/api/occupancy/checks?status=success&limit=0",
		"/api/occupancy/checks?status=success&limit=500",
	} {
		req := httptest.NewRequest("GET", target, nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, target)
	}
}
