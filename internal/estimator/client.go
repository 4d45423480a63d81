package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/turia-capital/scout-cli/internal/config"
	"github.com/turia-capital/scout-cli/internal/resilience"
)

// ErrUnavailable marks the estimator as unreachable or unconfigured. The
// scoring stage reports this distinctly from a malformed-feature error: no
// opportunities can be produced without price estimates.
var ErrUnavailable = eris.New("estimator: unavailable")

// Estimator supplies one independent fair-value estimate per feature row.
type Estimator interface {
	Predict(ctx context.Context, m *Matrix) ([]float64, error)
}

// Func adapts a plain function to the Estimator interface.
type Func func(ctx context.Context, m *Matrix) ([]float64, error)

// Predict implements Estimator.
func (f Func) Predict(ctx context.Context, m *Matrix) ([]float64, error) {
	return f(ctx, m)
}

// Client calls the model service over HTTP. The whole feature matrix goes
// out in a single request; batching is the intended usage, one listing per
// call is functionally correct but wasteful.
type Client struct {
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a Client from configuration. An empty URL yields
// ErrUnavailable so the caller can distinguish misconfiguration from a
// request failure.
func NewClient(cfg config.EstimatorConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, eris.Wrap(ErrUnavailable, "estimator: no service URL configured")
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	retry := resilience.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}

	return &Client{
		baseURL: cfg.URL,
		http:    &http.Client{Timeout: timeout},
		retry:   retry,
	}, nil
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predict sends the feature matrix and returns one estimate per row, in row
// order. Transient failures are retried; a response with the wrong row
// count or a negative estimate is rejected.
func (c *Client) Predict(ctx context.Context, m *Matrix) ([]float64, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, eris.Wrap(err, "estimator: marshal matrix")
	}

	start := time.Now()
	preds, err := resilience.DoVal(ctx, c.retry, "estimator.predict", func(ctx context.Context) ([]float64, error) {
		return c.predictOnce(ctx, body)
	})
	if err != nil {
		return nil, eris.Wrap(ErrUnavailable, err.Error())
	}

	if len(preds) != len(m.Rows) {
		return nil, eris.Errorf("estimator: got %d predictions for %d rows", len(preds), len(m.Rows))
	}
	for i, p := range preds {
		if p < 0 {
			return nil, eris.Errorf("estimator: negative estimate %g at row %d", p, i)
		}
	}

	zap.L().Info("estimator: batch predicted",
		zap.Int("rows", len(m.Rows)),
		zap.String("model_version", m.Version),
		zap.Duration("elapsed", time.Since(start)),
	)
	return preds, nil
}

func (c *Client) predictOnce(ctx context.Context, body []byte) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "estimator: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "estimator: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("estimator: status %d: %s", resp.StatusCode, payload)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, eris.Wrap(err, "estimator: decode response")
	}
	return pr.Predictions, nil
}
