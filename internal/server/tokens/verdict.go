// Package tokens holds the subscription token rules: how a stored record is
// judged at a given instant, and how the startup seed list is interpreted.
package tokens

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/subcheck/internal/common"
	"github.com/dmitrijs2005/subcheck/internal/server/models"
)

// Verdict is the outcome of evaluating a token.
type Verdict int

const (
	NotFound Verdict = iota
	Inactive
	Expired
	Valid
)

func (v Verdict) String() string {
	switch v {
	case NotFound:
		return "not_found"
	case Inactive:
		return "inactive"
	case Expired:
		return "expired"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// Message is the human readable reason reported for a negative verdict.
func (v Verdict) Message() string {
	switch v {
	case NotFound:
		return "Token not found"
	case Inactive:
		return "Token inactive"
	case Expired:
		return "Token expired"
	default:
		return ""
	}
}

// Lookup finds a record by its exact token string. Implementations return
// common.ErrorNotFound when no record matches.
type Lookup interface {
	Find(ctx context.Context, token string) (*models.Token, error)
}

// Result is a verdict for one token value. Expires is only set for a Valid
// verdict and may still be nil for tokens without expiry.
type Result struct {
	Token   string
	Verdict Verdict
	Expires *time.Time
}

// Judge decides the verdict of an existing record at instant now. A nil
// record is NotFound. Expiry is strict: a token expiring exactly at now is
// still valid.
func Judge(rec *models.Token, now time.Time) Verdict {
	switch {
	case rec == nil:
		return NotFound
	case !rec.Active:
		return Inactive
	case rec.Expires != nil && rec.Expires.Before(now):
		return Expired
	default:
		return Valid
	}
}

// Evaluate looks value up and judges it at now. Errors other than not-found
// come from the store and are returned unchanged.
//
// Stored tokens are always valid UTF-8, so any other value is NotFound
// without a lookup.
func Evaluate(ctx context.Context, value string, now time.Time, lookup Lookup) (Result, error) {
	if !utf8.ValidString(value) {
		return Result{Token: value, Verdict: NotFound}, nil
	}

	rec, err := lookup.Find(ctx, value)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return Result{Token: value}, err
		}
		rec = nil
	}

	res := Result{Token: value, Verdict: Judge(rec, now)}
	if res.Verdict == Valid {
		res.Expires = rec.Expires
	}
	return res, nil
}
