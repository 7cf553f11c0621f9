package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const apiPrefix = "/api/v1"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type createdOrder struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`
}

// Stats mirrors the admin statistics payload
type Stats struct {
	TotalOrders     int64   `json:"totalOrders"`
	PendingOrders   int64   `json:"pendingOrders"`
	CompletedOrders int64   `json:"completedOrders"`
	TodaysOrders    int64   `json:"todaysOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// Runner executes a scenario
type Runner struct {
	scenario *Scenario
	client   *http.Client
	factory  *OrderFactory
	limiter  *rate.Limiter
	logger   *zap.Logger
	baseURL  string
	token    string
}

// Option configures a Runner
type Option func(*Runner)

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) {
		if c != nil {
			r.client = c
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner for a validated scenario
func NewRunner(sc *Scenario, opts ...Option) *Runner {
	r := &Runner{
		scenario: sc,
		client:   &http.Client{Timeout: sc.RequestTimeout},
		factory:  NewOrderFactory(sc.Orders, sc.Seed),
		limiter:  rate.NewLimiter(rate.Limit(sc.QPS), sc.Burst),
		logger:   zap.NewNop(),
		baseURL:  strings.TrimRight(sc.Target, "/") + apiPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives checkouts until the duration elapses, MaxRequests is reached or ctx ends.
// An error is returned only when the run could not start.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.scenario.Admin.Enabled() {
		token, err := r.login(ctx)
		if err != nil {
			return nil, fmt.Errorf("admin login failed: %w", err)
		}
		r.token = token
	}

	runCtx, cancel := context.WithTimeout(ctx, r.scenario.Duration)
	defer cancel()

	collector := newCollector()
	var issued atomic.Int64
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < r.scenario.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := r.limiter.Wait(runCtx); err != nil {
					return
				}
				if limit := r.scenario.MaxRequests; limit > 0 && issued.Add(1) > int64(limit) {
					return
				}
				r.checkout(runCtx, collector)
			}
		}()
	}
	wg.Wait()

	report := collector.report(time.Since(start))
	if r.token != "" {
		stats, err := r.stats(ctx)
		if err != nil {
			r.logger.Warn("Failed to read order statistics", zap.Error(err))
		} else {
			report.Stats = stats
		}
	}
	return report, nil
}

func (r *Runner) checkout(ctx context.Context, c *collector) {
	begin := time.Now()
	status, env, err := r.do(ctx, http.MethodPost, "/orders", r.factory.Next(), false)
	elapsed := time.Since(begin)

	if err != nil {
		// requests cut off by the end of the run are not failures
		if ctx.Err() != nil {
			return
		}
		r.logger.Debug("Checkout failed", zap.Error(err))
		c.record(0, "", elapsed)
		return
	}
	if status != http.StatusCreated {
		if env.Error != nil {
			r.logger.Debug("Checkout rejected",
				zap.Int("status", status),
				zap.String("code", env.Error.Code),
				zap.String("message", env.Error.Message),
			)
		}
		c.record(status, "", elapsed)
		return
	}

	var created createdOrder
	if err := json.Unmarshal(env.Data, &created); err != nil || created.OrderNumber == "" {
		r.logger.Warn("Checkout response carried no order number", zap.Error(err))
		c.record(0, "", elapsed)
		return
	}
	c.record(status, created.OrderNumber, elapsed)

	if r.token != "" && r.factory.Chance(r.scenario.CompleteRatio) {
		body := map[string]string{"status": "completed"}
		status, _, err := r.do(ctx, http.MethodPatch, "/orders/"+created.ID+"/status", body, true)
		if err == nil && status == http.StatusOK {
			c.completed()
		} else if ctx.Err() == nil {
			r.logger.Debug("Status update failed", zap.Int("status", status), zap.Error(err))
		}
	}
}

func (r *Runner) login(ctx context.Context) (string, error) {
	status, env, err := r.do(ctx, http.MethodPost, "/auth/admin/login", r.scenario.Admin, false)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", status)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("empty token")
	}
	return out.Token, nil
}

func (r *Runner) stats(ctx context.Context) (*Stats, error) {
	status, env, err := r.do(ctx, http.MethodGet, "/orders/stats", nil, true)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", status)
	}
	var stats Stats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Runner) do(ctx context.Context, method, path string, body any, authed bool) (int, *envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, &env, nil
}
