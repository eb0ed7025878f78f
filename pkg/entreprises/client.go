// Package entreprises provides a client for the French company registry search
// API (recherche-entreprises.api.gouv.fr).
package entreprises

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/company-enrich/internal/resilience"
)

// DefaultBaseURL is the public registry search endpoint.
const DefaultBaseURL = "https://recherche-entreprises.api.gouv.fr"

// DefaultRateLimit is the registry's published per-IP quota (req/s).
const DefaultRateLimit = 7

// ErrEmptyQuery is returned when Search is called with a blank term.
var ErrEmptyQuery = eris.New("entreprises: empty search query")

// Client defines the registry search operations.
type Client interface {
	// Search returns at most one matching company for query, with the total
	// number of matches reported by the registry.
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// SearchResponse is the parsed /search response.
type SearchResponse struct {
	Results      []Company `json:"results"`
	TotalResults int       `json:"total_results"`
	Page         int       `json:"page,omitempty"`
	PerPage      int       `json:"per_page,omitempty"`
}

// First returns the first result, or nil when there is none.
func (r *SearchResponse) First() *Company {
	if r == nil || r.TotalResults == 0 || len(r.Results) == 0 {
		return nil
	}
	return &r.Results[0]
}

// Company is one legal unit returned by the registry.
type Company struct {
	NomComplet             string `json:"nom_complet"`
	NomRaisonSociale       string `json:"nom_raison_sociale"`
	Siren                  string `json:"siren"`
	Siege                  Siege  `json:"siege"`
	TrancheEffectifSalarie string `json:"tranche_effectif_salarie"`
	NombreEtablissements   int    `json:"nombre_etablissements"`
}

// Name returns the full name, falling back to the legal name.
func (c *Company) Name() string {
	if c.NomComplet != "" {
		return c.NomComplet
	}
	return c.NomRaisonSociale
}

// Siege is the head office establishment of a company.
type Siege struct {
	Siret                     string `json:"siret"`
	ActivitePrincipale        string `json:"activite_principale"`
	LibelleActivitePrincipale string `json:"libelle_activite_principale"`
	CodePostal                string `json:"code_postal"`
	Ville                     string `json:"ville"`
	LibelleCommune            string `json:"libelle_commune"`
	Adresse                   string `json:"adresse"`
	ComplementAdresse         string `json:"complement_adresse"`
	NumeroVoie                string `json:"numero_voie"`
	TypeVoie                  string `json:"type_voie"`
	LibelleVoie               string `json:"libelle_voie"`
}

// City returns ville, falling back to libelle_commune.
func (s Siege) City() string {
	if s.Ville != "" {
		return s.Ville
	}
	return s.LibelleCommune
}

// Option configures the registry client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default limit. rps <= 0 disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithCircuitBreaker guards calls with cb. nil disables the breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *httpClient) {
		c.breaker = cb
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
	breaker   *resilience.CircuitBreaker
}

// NewClient creates a registry client limited to DefaultRateLimit req/s, with
// the default retry policy and a circuit breaker.
func NewClient(opts ...Option) Client {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("entreprises.search")

	c := &httpClient{
		baseURL:   DefaultBaseURL,
		userAgent: "company-enrich/1.0",
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(DefaultRateLimit, DefaultRateLimit),
		retry:   retry,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	call := func(ctx context.Context) (*SearchResponse, error) {
		return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*SearchResponse, error) {
			return c.search(ctx, query)
		})
	}

	var (
		resp *SearchResponse
		err  error
	)
	if c.breaker != nil {
		resp, err = resilience.ExecuteVal(ctx, c.breaker, call)
	} else {
		resp, err = call(ctx)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "entreprises: search %q", query)
	}

	zap.L().Debug("entreprises: search",
		zap.String("query", query),
		zap.Int("total_results", resp.TotalResults),
	)
	return resp, nil
}

func (c *httpClient) search(ctx context.Context, query string) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "entreprises: rate limit")
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page", "1")
	params.Set("per_page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "entreprises: create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, eris.Wrap(err, "entreprises: http request")
		}
		return nil, resilience.NewTransientError(eris.Wrap(err, "entreprises: http request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "entreprises: read body"), 0)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.New(fmt.Sprintf("entreprises: unexpected status %d: %s", resp.StatusCode, truncate(body, 200)))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "entreprises: decode response")
	}
	return &result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
