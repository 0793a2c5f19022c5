// Package sirene provides a rate-limited, cached client for the INSEE
// SIRENE national business registry.
package sirene

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/facturio/siret-cli/internal/resilience"
)

const defaultBaseURL = "https://api.insee.fr/entreprises/sirene/V3.11"

// ErrNotFound is returned when the registry explicitly reports that an
// identifier does not exist. Any other lookup error means the registry was
// unavailable; callers must never conflate the two.
var ErrNotFound = eris.New("sirene: identifier not found")

// Record is the registry data for one identifier.
type Record struct {
	Siren        string `json:"siren"`
	Siret        string `json:"siret,omitempty"`
	Denomination string `json:"denomination"`
	// Active reflects the current administrative state ("A" in SIRENE).
	Active bool `json:"active"`
}

// Client looks up identifiers in the SIRENE registry.
type Client interface {
	// Lookup fetches the registry record for a cleaned SIREN (9 digits) or
	// SIRET (14 digits). Returns ErrNotFound when the registry reports no
	// such identifier.
	Lookup(ctx context.Context, identifier string) (*Record, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit. INSEE enforces a quota
// of 30 requests per minute on the public plan.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCacheTTL sets how long lookup outcomes (including not-founds) are
// served from cache before the registry is asked again.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *httpClient) {
		c.cache = newTTLCache(ttl)
	}
}

// WithRetryConfig overrides the retry policy for transient failures.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithCircuitBreaker guards lookups with the given breaker, so a flapping
// registry short-circuits to unavailable instead of burning the quota.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *httpClient) {
		c.breaker = cb
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cache   *ttlCache
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewClient creates a SIRENE client authenticated with an INSEE API token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(0.5), 1), // 30 req/min
		cache:   newTTLCache(24 * time.Hour),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup implements Client. Cache entries are consulted before any network
// call; a concurrent duplicate miss issues a duplicate network call, which
// the registry quota tolerates.
func (c *httpClient) Lookup(ctx context.Context, identifier string) (*Record, error) {
	id := cleanDigits(identifier)
	if len(id) != 9 && len(id) != 14 {
		return nil, eris.Errorf("sirene: identifier %q is neither SIREN nor SIRET", identifier)
	}

	if rec, found, hit := c.cache.get(id); hit {
		zap.L().Debug("sirene cache hit", zap.String("identifier", id), zap.Bool("found", found))
		if !found {
			return nil, ErrNotFound
		}
		return rec, nil
	}

	fetch := func(ctx context.Context) (*Record, error) {
		return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Record, error) {
			return c.fetch(ctx, id)
		})
	}

	var rec *Record
	var err error
	if c.breaker != nil {
		rec, err = resilience.ExecuteVal(ctx, c.breaker, fetch)
	} else {
		rec, err = fetch(ctx)
	}

	switch {
	case err == nil:
		c.cache.set(id, rec)
		return rec, nil
	case errors.Is(err, ErrNotFound):
		c.cache.set(id, nil)
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

func (c *httpClient) fetch(ctx context.Context, id string) (*Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "sirene: rate limit")
	}

	var path string
	if len(id) == 9 {
		path = "/siren/" + id
	} else {
		path = "/siret/" + id
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sirene: build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sirene: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resilience.IsTransientHTTPStatus(resp.StatusCode):
		return nil, resilience.NewTransientError(
			eris.Errorf("sirene: registry returned status %d", resp.StatusCode), resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, eris.Errorf("sirene: registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "sirene: read body")
	}

	if len(id) == 9 {
		return parseSiren(body)
	}
	return parseSiret(body)
}

// sirenResponse is the subset of the SIRENE unité légale payload we consume.
// The first entry of periodesUniteLegale is the current period.
type sirenResponse struct {
	UniteLegale struct {
		Siren    string `json:"siren"`
		Periodes []struct {
			Etat         string `json:"etatAdministratifUniteLegale"`
			Denomination string `json:"denominationUniteLegale"`
		} `json:"periodesUniteLegale"`
	} `json:"uniteLegale"`
}

type siretResponse struct {
	Etablissement struct {
		Siret       string `json:"siret"`
		Siren       string `json:"siren"`
		UniteLegale struct {
			Denomination string `json:"denominationUniteLegale"`
		} `json:"uniteLegale"`
		Periodes []struct {
			Etat string `json:"etatAdministratifEtablissement"`
		} `json:"periodesEtablissement"`
	} `json:"etablissement"`
}

func parseSiren(body []byte) (*Record, error) {
	var r sirenResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, eris.Wrap(err, "sirene: parse siren response")
	}
	if r.UniteLegale.Siren == "" {
		return nil, eris.New("sirene: siren response missing unite legale")
	}

	rec := &Record{Siren: r.UniteLegale.Siren}
	if len(r.UniteLegale.Periodes) > 0 {
		rec.Active = r.UniteLegale.Periodes[0].Etat == "A"
		rec.Denomination = r.UniteLegale.Periodes[0].Denomination
	}
	return rec, nil
}

func parseSiret(body []byte) (*Record, error) {
	var r siretResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, eris.Wrap(err, "sirene: parse siret response")
	}
	if r.Etablissement.Siret == "" {
		return nil, eris.New("sirene: siret response missing etablissement")
	}

	rec := &Record{
		Siren:        r.Etablissement.Siren,
		Siret:        r.Etablissement.Siret,
		Denomination: r.Etablissement.UniteLegale.Denomination,
	}
	if len(r.Etablissement.Periodes) > 0 {
		rec.Active = r.Etablissement.Periodes[0].Etat == "A"
	}
	return rec, nil
}

func cleanDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// String renders a record for log output.
func (r *Record) String() string {
	state := "fermé"
	if r.Active {
		state = "actif"
	}
	id := r.Siret
	if id == "" {
		id = r.Siren
	}
	return fmt.Sprintf("%s (%s, %s)", id, r.Denomination, state)
}
