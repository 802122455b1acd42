// Package services contains server-side business logic. This file implements
// TokenService, which answers validity checks, creates tokens on behalf of
// an administrator and seeds the default tokens at startup.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/subcheck/internal/common"
	"github.com/dmitrijs2005/subcheck/internal/logging"
	"github.com/dmitrijs2005/subcheck/internal/server/metrics"
	"github.com/dmitrijs2005/subcheck/internal/server/models"
	"github.com/dmitrijs2005/subcheck/internal/server/repositories/repomanager"
	repo "github.com/dmitrijs2005/subcheck/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/subcheck/internal/server/tokens"
)

// ValidationError carries the reason a token creation request was rejected.
// It matches common.ErrorValidation with errors.Is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return common.ErrorValidation }

// AddTokenRequest is the decoded body of an admin creation request.
// Active defaults to true; Expires is an optional YYYY-MM-DD date (UTC).
type AddTokenRequest struct {
	Token   *string `json:"token"`
	Active  *bool   `json:"active"`
	Expires *string `json:"expires"`
}

// TokenService provides the token operations exposed by the HTTP API.
type TokenService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewTokenService constructs a TokenService over m. mt may be nil.
func NewTokenService(m repomanager.RepositoryManager, l logging.Logger, mt *metrics.Metrics) *TokenService {
	return &TokenService{
		repomanager: m,
		logger:      l.With("module", "token_service"),
		metrics:     mt,
		now:         time.Now,
	}
}

// WithClock replaces the time source; used by tests and the CLI.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Check evaluates value against the store at the current instant.
func (s *TokenService) Check(ctx context.Context, value string) (tokens.Result, error) {
	start := time.Now()

	res, err := tokens.Evaluate(ctx, value, s.now().UTC(), s.repomanager.Tokens())
	if err != nil {
		return res, fmt.Errorf("error checking token: %w", err)
	}

	s.metrics.ObserveCheck(res.Verdict.String(), time.Since(start).Seconds())
	s.logger.Debug(ctx, "token checked", "token", value, "verdict", res.Verdict.String())

	return res, nil
}

// Add validates req and stores a new token. Invalid requests yield a
// *ValidationError; an existing token value yields common.ErrorAlreadyExists.
func (s *TokenService) Add(ctx context.Context, req AddTokenRequest) (*models.Token, error) {
	token, err := buildToken(req)
	if err != nil {
		return nil, err
	}

	created, err := s.repomanager.Tokens().Create(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating token: %w", err)
	}

	s.metrics.TokensCreated(metrics.SourceAdmin, 1)
	s.logger.Info(ctx, "token added", "token", created.Token, "active", created.Active)

	return created, nil
}

func buildToken(req AddTokenRequest) (*models.Token, error) {
	if req.Token == nil || strings.TrimSpace(*req.Token) == "" {
		return nil, &ValidationError{Reason: "Missing 'token' in request body"}
	}
	value := *req.Token
	if utf8.RuneCountInString(value) > common.MaxTokenLength {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("'token' must be at most %d characters", common.MaxTokenLength),
		}
	}

	token := &models.Token{Token: value, Active: true}
	if req.Active != nil {
		token.Active = *req.Active
	}

	if req.Expires != nil && *req.Expires != "" {
		t, err := time.ParseInLocation(common.ExpiresDateLayout, *req.Expires, time.UTC)
		if err != nil {
			return nil, &ValidationError{Reason: "'expires' must be a date in YYYY-MM-DD format"}
		}
		token.Expires = &t
	}

	return token, nil
}

// Seed creates every token of plan that is not stored yet, in a single unit
// of work, and returns how many were created. Running it again creates
// nothing. Values longer than common.MaxTokenLength are skipped.
func (s *TokenService) Seed(ctx context.Context, plan tokens.SeedPlan) (int, error) {
	if len(plan.Tokens) == 0 {
		return 0, nil
	}

	expires := plan.ExpiresAt(s.now())

	var created int
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx repo.Repository) error {
		created = 0
		for _, value := range plan.Tokens {
			if utf8.RuneCountInString(value) > common.MaxTokenLength {
				s.logger.Warn(ctx, "default token too long, skipped", "length", utf8.RuneCountInString(value))
				continue
			}

			exists, err := tx.Exists(ctx, value)
			if err != nil {
				return fmt.Errorf("error looking up token %q: %w", value, err)
			}
			if exists {
				continue
			}

			if _, err := tx.Create(ctx, &models.Token{Token: value, Active: true, Expires: expires}); err != nil {
				return fmt.Errorf("error creating token %q: %w", value, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.metrics.TokensCreated(metrics.SourceSeed, created)
	s.logger.Info(ctx, "default tokens seeded", "configured", len(plan.Tokens), "created", created)

	return created, nil
}

// Ping reports whether the store is reachable.
func (s *TokenService) Ping(ctx context.Context) error {
	return s.repomanager.Ping(ctx)
}
