package review

import (
	"math/rand"
	"time"

	"studyplan-service/internal/models"
)

// Selector picks the next review item: unseen items first so every
// item is covered before any repeats, then weighted random over seen
// items proportional to their probability weight.
type Selector struct {
	rand *rand.Rand
}

// NewSelector creates a selector with a time-based seed.
func NewSelector() *Selector {
	return &Selector{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSelectorWithSeed creates a deterministic selector for tests.
func NewSelectorWithSeed(seed int64) *Selector {
	return &Selector{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Pick chooses the next item from the candidate set. seen holds the
// learner's existing review records; records for items outside the
// candidate set (locked modules) are ignored.
func (s *Selector) Pick(candidates []Candidate, seen []models.ReviewItem) (*Selection, error) {
	if len(candidates) == 0 {
		return nil, ErrNoItemsAvailable
	}

	seenByKey := make(map[string]*models.ReviewItem, len(seen))
	for i := range seen {
		seenByKey[itemKey(seen[i].ItemType, seen[i].ContentRef())] = &seen[i]
	}

	// Unseen items first: uniform random guarantees full coverage
	// before any item comes back around.
	var unseen []Candidate
	for _, c := range candidates {
		if _, exists := seenByKey[itemKey(c.ItemType, c.ContentID)]; !exists {
			unseen = append(unseen, c)
		}
	}
	if len(unseen) > 0 {
		chosen := unseen[s.rand.Intn(len(unseen))]
		return &Selection{Candidate: chosen, Unseen: true}, nil
	}

	return s.weightedPick(candidates, seenByKey)
}

// weightedPick selects among seen candidates with probability
// proportional to each record's weight.
func (s *Selector) weightedPick(candidates []Candidate, seenByKey map[string]*models.ReviewItem) (*Selection, error) {
	type weighted struct {
		candidate Candidate
		record    *models.ReviewItem
		weight    float64
	}

	pool := make([]weighted, 0, len(candidates))
	totalWeight := 0.0
	for _, c := range candidates {
		record := seenByKey[itemKey(c.ItemType, c.ContentID)]
		if record == nil {
			continue
		}
		w := record.ProbabilityWeight
		if w <= 0 {
			w = models.DefaultProbabilityWeight
		}
		pool = append(pool, weighted{candidate: c, record: record, weight: w})
		totalWeight += w
	}

	if len(pool) == 0 {
		return nil, ErrNoItemsAvailable
	}

	if totalWeight == 0 {
		chosen := pool[s.rand.Intn(len(pool))]
		return &Selection{Candidate: chosen.candidate, Existing: chosen.record}, nil
	}

	r := s.rand.Float64() * totalWeight
	cumulative := 0.0
	for _, w := range pool {
		cumulative += w.weight
		if r <= cumulative {
			return &Selection{Candidate: w.candidate, Existing: w.record}, nil
		}
	}

	// Floating point edge: fall back to the last entry.
	last := pool[len(pool)-1]
	return &Selection{Candidate: last.candidate, Existing: last.record}, nil
}

func itemKey(itemType models.ReviewItemType, contentID string) string {
	return string(itemType) + ":" + contentID
}
