package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexivanou/placenotes-api/internal/config"
	"github.com/alexivanou/placenotes-api/internal/model"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrUnavailable is the only error condition the provider layer reports.
// Provider-specific causes are flattened into the message and never wrapped.
var ErrUnavailable = errors.New("upstream unavailable")

// Provider performs the upstream place and photo lookups
type Provider interface {
	Name() string
	// TextSearch returns at most limit raw records in upstream order.
	TextSearch(ctx context.Context, query string, limit int) ([]Record, error)
	// NearbySearch returns zero or one raw record closest to the point.
	NearbySearch(ctx context.Context, lat, lng float64) ([]Record, error)
	// FetchPhotoMedia resolves one photo identifier to a time-limited URI.
	FetchPhotoMedia(ctx context.Context, photoName string, maxHeightPx int) (model.PhotoDetail, error)
	Ping(ctx context.Context) error
}

func unavailable(provider, op string, cause error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, provider, op, cause)
}

// Option configures a provider client
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	userAgent  string
}

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithRateLimit sets the upstream request rate with a burst of the same size.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(o *options) {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithLogger sets a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

func buildOptions(defaultBaseURL string, opts []Option) options {
	o := options{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds the provider selected by configuration
func New(cfg config.PlacesConfig, logger *zap.Logger) (Provider, error) {
	opts := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithRateLimit(cfg.RateLimit),
		WithLogger(logger),
	}

	switch cfg.Provider {
	case config.ProviderGoogle:
		g, err := NewGoogle(cfg.GoogleAPIKey, append(opts, WithBaseURL(cfg.GoogleBaseURL))...)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderNominatim:
		return NewNominatim(append(opts,
			WithBaseURL(cfg.NominatimBaseURL),
			WithUserAgent(cfg.NominatimUserAgent),
		)...), nil
	default:
		return nil, fmt.Errorf("unknown places provider %q", cfg.Provider)
	}
}
