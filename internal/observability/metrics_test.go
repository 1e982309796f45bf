package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDomainCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(Submissions().WithLabelValues("accepted"))
	Submissions().WithLabelValues("accepted").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(Submissions().WithLabelValues("accepted")))

	marks := testutil.ToFloat64(MarksRecorded())
	MarksRecorded().Inc()
	require.Equal(t, marks+1, testutil.ToFloat64(MarksRecorded()))
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	app := fiber.New()
	app.Get("/metrics", MetricsHandler())
	MarksRecorded().Inc()

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "lab_marks_recorded_total"))
}
