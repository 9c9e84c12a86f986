package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithProfilingLabels(t *testing.T) {
	t.Run("no labels runs fn with the same context", func(t *testing.T) {
		ctx := context.Background()
		called := false
		WithProfilingLabels(ctx, nil, func(c context.Context) {
			called = true
			assert.Equal(t, ctx, c)
		})
		assert.True(t, called)
	})

	t.Run("labels visible inside fn", func(t *testing.T) {
		labels := map[string]string{
			ProfilingLabelMethod: "POST",
			ProfilingLabelRoute:  "/api/v1/ajax",
			ProfilingLabelAction: "",
		}
		WithProfilingLabels(context.Background(), labels, func(c context.Context) {
			method, ok := pprof.Label(c, ProfilingLabelMethod)
			assert.True(t, ok)
			assert.Equal(t, "POST", method)

			_, ok = pprof.Label(c, ProfilingLabelAction)
			assert.False(t, ok, "empty values are dropped")
		})
	})

	t.Run("long values are truncated", func(t *testing.T) {
		labels := map[string]string{ProfilingLabelRoute: strings.Repeat("r", 100)}
		WithProfilingLabels(context.Background(), labels, func(c context.Context) {
			route, _ := pprof.Label(c, ProfilingLabelRoute)
			assert.Len(t, route, maxProfilingLabelLength)
		})
	})
}
