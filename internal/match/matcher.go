package match

import (
	"fmt"
	"sync"

	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/shared"
)

// Matcher pairs attendees with their best-scoring guild member.
type Matcher struct {
	threshold int
	workers   int
}

// Options configures optional Matcher behavior.
type Options struct {
	// Workers sets the number of goroutines matching attendees in parallel.
	// Values below 2 run the search inline. Output is identical either way.
	Workers int
}

// New creates a Matcher with the given acceptance threshold.
// Thresholds outside [0,100] fail with [shared.ErrInvalidThreshold].
func New(threshold int, opts Options) (*Matcher, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("%w: got %d", shared.ErrInvalidThreshold, threshold)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	return &Matcher{threshold: threshold, workers: workers}, nil
}

// Threshold returns the acceptance threshold this matcher was built with.
func (m *Matcher) Threshold() int {
	return m.threshold
}

// FindMissing produces exactly one MatchResult per attendee, in roster order.
//
// Member display names are normalized once for the whole call. For each
// attendee the strictly highest-scoring member wins; ties go to the member
// with the lexicographically smallest display name so output is reproducible
// regardless of member ordering. A best score below the threshold leaves the
// attendee unmatched with the score recorded; an empty member list leaves it
// unmatched with no score at all.
func (m *Matcher) FindMissing(members []models.Member, attendees []models.Attendee) []models.MatchResult {
	normalized := make([]string, len(members))
	for i, member := range members {
		normalized[i] = Normalize(member.DisplayName)
	}

	results := make([]models.MatchResult, len(attendees))

	if m.workers < 2 || len(attendees) < 2 {
		for i, attendee := range attendees {
			results[i] = m.matchOne(members, normalized, attendee)
		}
		return results
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < m.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = m.matchOne(members, normalized, attendees[i])
			}
		}()
	}

	for i := range attendees {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

// matchOne finds the best member for a single attendee.
func (m *Matcher) matchOne(members []models.Member, normalized []string, attendee models.Attendee) models.MatchResult {
	result := models.MatchResult{Attendee: attendee}
	if len(members) == 0 {
		return result
	}

	name := Normalize(attendee.Name)

	best := 0
	bestScore := Score(normalized[0], name)
	for i := 1; i < len(members); i++ {
		score := Score(normalized[i], name)
		if score > bestScore || (score == bestScore && members[i].DisplayName < members[best].DisplayName) {
			best = i
			bestScore = score
		}
	}

	result.Score = bestScore
	result.Scored = true
	if bestScore >= m.threshold {
		member := members[best]
		result.Matched = &member
	}

	return result
}

// FindMissing is a convenience wrapper constructing a single-use Matcher.
func FindMissing(members []models.Member, attendees []models.Attendee, threshold int) ([]models.MatchResult, error) {
	m, err := New(threshold, Options{})
	if err != nil {
		return nil, err
	}
	return m.FindMissing(members, attendees), nil
}
