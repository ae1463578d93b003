package okapi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterceptorChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("runs interceptors in order", func(t *testing.T) {
		t.Parallel()

		chain := okapi.NewInterceptorChain()

		var order []string

		chain.AddRequestInterceptor(func(ctx context.Context, req *okapi.Request) error {
			order = append(order, "first")

			return nil
		})
		chain.AddRequestInterceptor(func(ctx context.Context, req *okapi.Request) error {
			order = append(order, "second")

			return nil
		})

		err := chain.ExecuteRequestInterceptors(ctx, &okapi.Request{})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("interceptor error aborts the chain", func(t *testing.T) {
		t.Parallel()

		chain := okapi.NewInterceptorChain()

		boom := errors.New("boom")
		ran := false

		chain.AddRequestInterceptor(func(ctx context.Context, req *okapi.Request) error {
			return boom
		})
		chain.AddRequestInterceptor(func(ctx context.Context, req *okapi.Request) error {
			ran = true

			return nil
		})

		err := chain.ExecuteRequestInterceptors(ctx, &okapi.Request{})
		require.ErrorIs(t, err, boom)
		assert.False(t, ran)
	})
}

func TestRequestIDInterceptor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	interceptor := okapi.RequestIDInterceptor()

	t.Run("stamps a fresh id", func(t *testing.T) {
		t.Parallel()

		req := &okapi.Request{Headers: make(http.Header)}

		require.NoError(t, interceptor(ctx, req))

		id := req.Headers.Get("X-Okapi-Request-Id")
		require.NotEmpty(t, id)

		_, err := uuid.Parse(id)
		require.NoError(t, err)
	})

	t.Run("keeps an existing id", func(t *testing.T) {
		t.Parallel()

		req := &okapi.Request{Headers: make(http.Header)}
		req.Headers.Set("X-Okapi-Request-Id", "fixed")

		require.NoError(t, interceptor(ctx, req))
		assert.Equal(t, "fixed", req.Headers.Get("X-Okapi-Request-Id"))
	})
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := okapi.HeaderInterceptor(map[string]string{"X-Custom": "value"})

	req := &okapi.Request{}
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "value", req.Headers.Get("X-Custom"))
}

func TestMetricsInterceptors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	collector := okapi.NewMetricsCollector()

	reqInterceptor := okapi.MetricsRequestInterceptor(collector)
	respInterceptor := okapi.MetricsResponseInterceptor(collector)

	req := &okapi.Request{Method: "GET", Path: "/users"}
	require.NoError(t, reqInterceptor(ctx, req))
	require.NoError(t, respInterceptor(ctx, req, &okapi.Response{StatusCode: 200}))
	require.NoError(t, reqInterceptor(ctx, req))
	require.NoError(t, respInterceptor(ctx, req, &okapi.Response{StatusCode: 500}))

	metrics := collector.GetMetrics("GET /users")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.Nil(t, collector.GetMetrics("GET /other"))
}
