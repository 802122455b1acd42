package tokens

import (
	"strconv"
	"strings"
	"time"
)

// SeedPlan is the validated form of the default-token configuration.
type SeedPlan struct {
	// Tokens are the trimmed, non-empty, de-duplicated values in list order.
	Tokens []string
	// TTL is added to the seeding instant to compute expiry; zero means the
	// seeded tokens never expire.
	TTL time.Duration
	// TTLIgnored reports that a day count was configured but rejected.
	TTLIgnored bool
}

// NewSeedPlan parses a comma-separated token list and an optional day
// count. Only a positive integer day count produces a TTL; anything else is
// treated as absent.
func NewSeedPlan(list, ttlDays string) SeedPlan {
	plan := SeedPlan{Tokens: ParseTokenList(list)}

	ttlDays = strings.TrimSpace(ttlDays)
	if ttlDays == "" {
		return plan
	}

	days, err := strconv.Atoi(ttlDays)
	if err != nil || days <= 0 {
		plan.TTLIgnored = true
		return plan
	}
	plan.TTL = time.Duration(days) * 24 * time.Hour
	return plan
}

// ParseTokenList splits s on commas, trims whitespace and drops empty and
// repeated entries.
func ParseTokenList(s string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		v := strings.TrimSpace(part)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ExpiresAt returns the expiry for a token seeded at now, or nil when the
// plan has no TTL.
func (p SeedPlan) ExpiresAt(now time.Time) *time.Time {
	if p.TTL <= 0 {
		return nil
	}
	t := now.UTC().Add(p.TTL)
	return &t
}
