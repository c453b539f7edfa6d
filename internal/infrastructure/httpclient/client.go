package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/orkg/license-service/internal/infrastructure/config"
	"github.com/orkg/license-service/internal/infrastructure/resilience"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Observer receives outbound call statistics. *monitoring.Metrics satisfies it.
type Observer interface {
	RecordUpstreamCall(client, status string)
	SetBreakerState(name string, state int)
}

// Options configures a Client.
type Options struct {
	Name              string
	BaseURL           string
	Timeout           time.Duration
	Retries           int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RequestsPerSecond float64
	UserAgent         string
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
	Logger            *zap.Logger
	Observer          Observer
}

// OptionsFromConfig builds client options for the named provider.
func OptionsFromConfig(name string, cfg config.HTTPClientConfig) Options {
	return Options{
		Name:              name,
		Timeout:           cfg.Timeout,
		Retries:           cfg.Retries,
		RetryWaitMin:      cfg.RetryWaitMin,
		RetryWaitMax:      cfg.RetryWaitMax,
		RequestsPerSecond: cfg.RequestsPerSecond,
		UserAgent:         cfg.UserAgent,
		BreakerFailures:   cfg.BreakerFailures,
		BreakerTimeout:    cfg.BreakerTimeout,
	}
}

// StatusError reports an upstream status the caller cannot interpret.
type StatusError struct {
	Client string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: upstream responded %d", e.Client, e.Code)
}

// Client wraps resty with rate limiting and a circuit breaker
type Client struct {
	name     string
	resty    *resty.Client
	limiter  *rate.Limiter
	breaker  *resilience.Breaker
	observer Observer
	mu       sync.RWMutex
}

// New creates an HTTP client. Retries happen in the retryablehttp transport
// on connection errors, 429 and 5xx; the breaker sees one outcome per call.
func New(opts Options) *Client {
	if opts.Name == "" {
		opts.Name = "http"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryWaitMin <= 0 {
		opts.RetryWaitMin = 200 * time.Millisecond
	}
	if opts.RetryWaitMax < opts.RetryWaitMin {
		opts.RetryWaitMax = opts.RetryWaitMin
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.Retries
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.Logger = leveledLogger{opts.Logger.Named(opts.Name).Sugar()}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.New().
		SetTransport(&retryablehttp.RoundTripper{Client: retryClient}).
		SetTimeout(opts.Timeout).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		restyClient.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.BaseURL != "" {
		restyClient.SetBaseURL(opts.BaseURL)
	}

	c := &Client{
		name:     opts.Name,
		resty:    restyClient,
		limiter:  newLimiter(opts.RequestsPerSecond),
		observer: opts.Observer,
	}

	failures := opts.BreakerFailures
	c.breaker = resilience.New(opts.Name, resilience.Settings{
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// A cancelled caller says nothing about upstream health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to resilience.State) {
			opts.Logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if c.observer != nil {
				c.observer.SetBreakerState(name, int(to))
			}
		},
	})

	return c
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Name returns the client name used for metrics and the breaker.
func (c *Client) Name() string {
	return c.name
}

// SetHeader adds a default header
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetHeader(key, value)
}

// SetBearerAuth configures bearer token authentication
func (c *Client) SetBearerAuth(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetAuthToken(token)
}

// SetBaseURL sets the prefix for relative request URLs.
func (c *Client) SetBaseURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetBaseURL(url)
}

// Request creates a request bound to ctx after waiting on the rate limiter.
func (c *Client) Request(ctx context.Context) (*resty.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resty.R().SetContext(ctx), nil
}

// Get fetches url through the breaker. Responses below 500 are returned to
// the caller to interpret; 5xx answers become a *StatusError.
func (c *Client) Get(ctx context.Context, url string, prepare func(*resty.Request)) (*resty.Response, error) {
	req, err := c.Request(ctx)
	if err != nil {
		return nil, err
	}
	if prepare != nil {
		prepare(req)
	}

	resp, err := resilience.Do(c.breaker, func() (*resty.Response, error) {
		resp, err := req.Get(url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			if body := resp.RawBody(); body != nil {
				_ = body.Close()
			}
			return resp, &StatusError{Client: c.name, Code: resp.StatusCode()}
		}
		return resp, nil
	})

	c.observe(resp, err)
	return resp, err
}

func (c *Client) observe(resp *resty.Response, err error) {
	if c.observer == nil {
		return
	}
	status := "error"
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		status = "rejected"
	case resp != nil && resp.RawResponse != nil:
		status = strconv.Itoa(resp.StatusCode())
	}
	c.observer.RecordUpstreamCall(c.name, status)
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// BreakerCounts returns circuit breaker statistics
func (c *Client) BreakerCounts() resilience.Counts {
	return c.breaker.Counts()
}

// leveledLogger adapts zap to retryablehttp's logger interface.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
