package specmap

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/specmap/specmap/internal/gitlog"
	"github.com/specmap/specmap/pkg/logging"
)

// config holds the assembled collection configuration.
type config struct {
	dir          string
	cacheDir     string
	baseURL      string
	discoveryURL string
	userAgent    string
	httpClient   *http.Client
	logger       *zerolog.Logger
	dates        gitlog.Dater
}

// defaultDiscoveryURL is the public Google API Discovery directory.
const defaultDiscoveryURL = "https://www.googleapis.com/discovery/v1/apis"

func defaultConfig() *config {
	return &config{
		dir:          "APIs",
		cacheDir:     "cache",
		discoveryURL: defaultDiscoveryURL,
		userAgent:    "specmap",
		logger:       logging.Default(),
	}
}

// Option configures a Collection.
type Option func(*config) error

// WithDir sets the collection root directory. Every document artifact lives
// under it at provider[/service]/version.
func WithDir(dir string) Option {
	return func(c *config) error {
		if dir != "" {
			c.dir = dir
		}
		return nil
	}
}

// WithCacheDir sets the directory for cached external assets (logos),
// relative to the collection root.
func WithCacheDir(dir string) Option {
	return func(c *config) error {
		if dir != "" {
			c.cacheDir = dir
		}
		return nil
	}
}

// WithBaseURL sets the public URL prefix under which the collection is
// served. Generated index artifacts link to documents through it.
func WithBaseURL(url string) Option {
	return func(c *config) error {
		c.baseURL = url
		return nil
	}
}

// WithDiscoveryURL overrides the Google API Discovery directory endpoint.
func WithDiscoveryURL(url string) Option {
	return func(c *config) error {
		if url != "" {
			c.discoveryURL = url
		}
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for source fetches.
func WithHTTPClient(h *http.Client) Option {
	return func(c *config) error {
		if h != nil {
			c.httpClient = h
		}
		return nil
	}
}

// WithUserAgent sets the User-Agent header on source fetches.
func WithUserAgent(ua string) Option {
	return func(c *config) error {
		if ua != "" {
			c.userAgent = ua
		}
		return nil
	}
}

// WithLogger sets the logger used for progress and failure reporting.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithDates overrides the added/updated date source used by index
// generation. The default reads git history of the collection directory.
func WithDates(d gitlog.Dater) Option {
	return func(c *config) error {
		if d != nil {
			c.dates = d
		}
		return nil
	}
}
