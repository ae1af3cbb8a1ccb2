// Package ratelimit tracks the upstream trade API's per-rule rate limit
// windows and computes how long to wait before the next request.
//
// The upstream reports its budget on every response through positionally
// paired headers:
//
//	X-Rate-Limit-Rules: Account,Ip
//	X-Rate-Limit-Account: 3:5:60,15:60:600
//	X-Rate-Limit-Account-State: 1:5:0,4:60:0
//
// Each policy entry is limit:windowSeconds:restrictedSeconds and each state
// entry is used:windowSeconds:restrictedSeconds.
package ratelimit

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/tradewatch/internal/logging"
)

// Policy is one limit:window:reset triple from a rate limit header.
// For state headers the Limit field carries the used count.
type Policy struct {
	Limit  int
	Window int // seconds
	Reset  int // seconds
}

// RuleState holds the most recently reported budget for one named rule.
type RuleState struct {
	Name     string
	Policies []Policy
	Used     []Policy
	ParsedAt time.Time
}

// Governor serializes outbound requests against the upstream budget.
// Construct one per upstream host and share it across all clients that
// talk to that host.
type Governor struct {
	mu    sync.Mutex
	rules map[string]RuleState

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGovernor creates a Governor with no recorded state. Until the first
// response is recorded every wait is zero.
func NewGovernor() *Governor {
	return &Governor{
		rules: make(map[string]RuleState),
		now:   time.Now,
		sleep: sleepContext,
	}
}

// Record parses the rate limit headers from one upstream response and
// merges them into the governor's state, last write wins per rule.
// Absent or malformed headers contribute nothing: the governor fails
// open rather than deadlocking on a parsing miss.
func (g *Governor) Record(h http.Header) {
	rulesHeader := h.Get("X-Rate-Limit-Rules")
	if rulesHeader == "" {
		return
	}

	parsedAt := g.now()

	for _, name := range strings.Split(rulesHeader, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		policies, ok := parseTriples(h.Get("X-Rate-Limit-" + name))
		if !ok {
			logging.Debug("rate limit policy header unparseable, ignoring rule", "rule", name)
			continue
		}
		used, ok := parseTriples(h.Get("X-Rate-Limit-" + name + "-State"))
		if !ok {
			logging.Debug("rate limit state header unparseable, ignoring rule", "rule", name)
			continue
		}

		g.mu.Lock()
		g.rules[name] = RuleState{
			Name:     name,
			Policies: policies,
			Used:     used,
			ParsedAt: parsedAt,
		}
		g.mu.Unlock()
	}
}

// WaitDuration returns the wait the current state requires before the
// next request. Each (limit, window, used) triple contributes
//
//	(used/limit)^sqrt(limit) * window
//
// which stays near zero while comfortably under budget and climbs
// sharply toward the full window as usage approaches the limit; larger
// limits get a sharper curve. The overall wait is the maximum over all
// known rule/limit pairs.
func (g *Governor) WaitDuration() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	var max time.Duration
	for _, rule := range g.rules {
		n := len(rule.Policies)
		if len(rule.Used) < n {
			n = len(rule.Used)
		}
		for i := 0; i < n; i++ {
			limit := rule.Policies[i].Limit
			window := rule.Policies[i].Window
			used := rule.Used[i].Limit
			if limit <= 0 || window <= 0 || used <= 0 {
				continue
			}

			frac := float64(used) / float64(limit)
			wait := time.Duration(math.Pow(frac, math.Sqrt(float64(limit))) * float64(window) * float64(time.Second))
			if wait > max {
				max = wait
			}
		}
	}
	return max
}

// AwaitSlot blocks until the governor's required wait has elapsed, or
// the context is cancelled. Every upstream request must pass through
// this call first.
func (g *Governor) AwaitSlot(ctx context.Context) error {
	d := g.WaitDuration()
	if d <= 0 {
		return nil
	}
	logging.Debug("rate limit wait", "duration", d)
	return g.sleep(ctx, d)
}

// Snapshot returns a copy of the current per-rule state, for display.
func (g *Governor) Snapshot() []RuleState {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]RuleState, 0, len(g.rules))
	for _, r := range g.rules {
		out = append(out, r)
	}
	return out
}

// parseTriples parses a comma-separated list of a:b:c integer triples.
// Returns ok=false when the header is empty or any entry is malformed.
func parseTriples(header string) ([]Policy, bool) {
	if header == "" {
		return nil, false
	}

	entries := strings.Split(header, ",")
	out := make([]Policy, 0, len(entries))
	for _, entry := range entries {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, false
		}
		a, err1 := strconv.Atoi(parts[0])
		b, err2 := strconv.Atoi(parts[1])
		c, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, false
		}
		out = append(out, Policy{Limit: a, Window: b, Reset: c})
	}
	return out, true
}

// sleepContext sleeps for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
