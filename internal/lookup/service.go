// Package lookup orchestrates one carrier lookup end to end: authenticate
// the caller, build and submit the registry query, classify the response,
// assemble the result, and issue a fresh session token.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fleetscope/carriercheck/internal/cache"
	"github.com/fleetscope/carriercheck/internal/metrics"
	"github.com/fleetscope/carriercheck/internal/safer"
	"github.com/fleetscope/carriercheck/internal/session"
)

// Result type discriminators in the response union.
const (
	TypeSnapshot = "SNAPSHOT"
	TypeList     = "LIST"
)

// listMessage accompanies LIST responses the way the registry's own result
// page prompts the user.
const listMessage = "Multiple results found or no direct snapshot. Please refine search."

// Fetcher submits a registry query and returns the parsed response page.
type Fetcher interface {
	Fetch(ctx context.Context, q safer.Query) (*safer.Page, error)
}

// CaptchaVerifier checks a caller-supplied proof of humanity.
type CaptchaVerifier interface {
	Verify(ctx context.Context, proof string) (bool, error)
}

// Request is one inbound lookup.
type Request struct {
	Query        string
	Kind         string
	CaptchaProof string
	SessionToken string
}

// Outcome is the successful response union: a SNAPSHOT with a carrier
// record, or a LIST with result rows. Either way it carries a freshly
// issued session token, sliding the caller's authenticated window forward.
//
// Count and Results are pointers so a LIST with no rows still serializes
// "count":0 and "results":[] — the empty sequence is the meaningful
// no-results answer, not an absent field — while SNAPSHOT responses carry
// neither key.
type Outcome struct {
	Type         string               `json:"type"`
	SessionToken string               `json:"sessionToken"`
	Data         *safer.CarrierRecord `json:"data,omitempty"`
	Count        *int                 `json:"count,omitempty"`
	Message      string               `json:"message,omitempty"`
	Results      *[]safer.ResultRow   `json:"results,omitempty"`
}

// resolved is the token-free portion of an outcome, safe to cache and share
// between callers: the token is minted per response, never cached.
type resolved struct {
	Type string
	Data *safer.CarrierRecord
	Rows []safer.ResultRow
}

// Service runs lookups. Stateless apart from the concurrency-safe result
// cache and the singleflight group; any number of lookups may run in
// parallel.
type Service struct {
	tokens  *session.Codec
	captcha CaptchaVerifier
	fetcher Fetcher
	results *cache.Results[*resolved]
	group   singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithResultCache caches resolved results for ttl, serving repeat queries
// without a second scrape. Tokens are minted per response and never cached.
func WithResultCache(maxItems int, ttl time.Duration) Option {
	return func(s *Service) {
		s.results = cache.NewResults[*resolved](maxItems, ttl)
	}
}

// New creates a lookup service. Caching is off unless WithResultCache is
// given.
func New(tokens *session.Codec, captcha CaptchaVerifier, fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		tokens:  tokens,
		captcha: captcha,
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup authenticates the caller, queries the registry, and returns the
// assembled outcome with a fresh session token. Failures carry one of the
// package's error codes; the registry is never contacted when
// authentication fails.
func (s *Service) Lookup(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()
	kind := safer.ParseKind(req.Kind)

	value := strings.TrimSpace(req.Query)
	if value == "" {
		metrics.LookupsTotal.WithLabelValues(string(kind), "invalid_input").Inc()
		return nil, ErrInvalidInput("query")
	}

	if err := s.authenticate(ctx, req); err != nil {
		outcome := "auth_failed"
		var coded *CodedError
		if errors.As(err, &coded) && coded.Code == ErrCodeCaptchaProvider {
			outcome = "captcha_provider_error"
		}
		metrics.LookupsTotal.WithLabelValues(string(kind), outcome).Inc()
		return nil, err
	}

	res, err := s.resolve(ctx, safer.Query{Kind: kind, Value: value})
	if err != nil {
		metrics.LookupsTotal.WithLabelValues(string(kind), "upstream_error").Inc()
		slog.Warn("lookup failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	out := &Outcome{
		Type:         res.Type,
		SessionToken: s.tokens.Issue(),
		Data:         res.Data,
	}
	outcome := "snapshot"
	if res.Type == TypeList {
		n := len(res.Rows)
		out.Count = &n
		out.Message = listMessage
		out.Results = &res.Rows
		outcome = "list"
	}

	metrics.LookupsTotal.WithLabelValues(string(kind), outcome).Inc()
	slog.Info("lookup resolved",
		slog.String("kind", string(kind)),
		slog.String("type", res.Type),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return out, nil
}

// authenticate takes the fast path when the caller holds a live session
// token; otherwise the proof goes to the CAPTCHA collaborator.
func (s *Service) authenticate(ctx context.Context, req Request) error {
	if req.SessionToken != "" && s.tokens.Verify(req.SessionToken) {
		return nil
	}

	ok, err := s.captcha.Verify(ctx, req.CaptchaProof)
	if err != nil {
		return &CodedError{Code: ErrCodeCaptchaProvider, Message: "captcha verification error", Cause: err}
	}
	if !ok {
		return ErrAuthFailed("captcha verification failed")
	}
	return nil
}

// resolve answers from the cache when possible and otherwise fetches,
// collapsing concurrent identical queries into a single scrape.
func (s *Service) resolve(ctx context.Context, q safer.Query) (*resolved, error) {
	key := string(q.Kind) + ":" + strings.ToUpper(q.Value)

	if s.results != nil {
		if res, ok := s.results.Get(key); ok {
			metrics.CacheHitsTotal.Inc()
			return res, nil
		}
	}

	// Concurrent callers share the in-flight fetch through singleflight,
	// so it must not die with whichever caller happened to start it. The
	// fetch client's own timeout still bounds the call.
	fetchCtx := context.WithoutCancel(ctx)

	v, err, _ := s.group.Do(key, func() (any, error) {
		res, err := s.fetchAndAssemble(fetchCtx, q)
		if err != nil {
			return nil, err
		}
		if s.results != nil {
			s.results.Put(key, res)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*resolved), nil
}

func (s *Service) fetchAndAssemble(ctx context.Context, q safer.Query) (*resolved, error) {
	start := time.Now()
	page, err := s.fetcher.Fetch(ctx, q)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, wrapUpstream(err)
	}

	// Assemblers are total; nothing past this point fails.
	switch safer.Classify(page) {
	case safer.PageSnapshot:
		rec := safer.AssembleSnapshot(page)
		return &resolved{Type: TypeSnapshot, Data: &rec}, nil
	default:
		return &resolved{Type: TypeList, Rows: safer.AssembleList(page)}, nil
	}
}
