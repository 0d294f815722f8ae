package review

import (
	"errors"
	"testing"

	"studyplan-service/internal/models"
)

func reviewModules() []models.CourseModule {
	return []models.CourseModule{
		{ID: "mod-1", Order: 1, FlashcardIDs: []string{"fc-1", "fc-2"}, ActivityIDs: []string{"act-1"}},
		{ID: "mod-2", Order: 2, FlashcardIDs: []string{"fc-3"}, ActivityIDs: []string{"act-2"}},
		{ID: "mod-3", Order: 3, FlashcardIDs: []string{"fc-4"}},
	}
}

func TestUnlockedModuleIDs(t *testing.T) {
	modules := reviewModules()

	testCases := []struct {
		name     string
		progress map[string]models.LearnStatus
		expected []string
	}{
		{
			"nothing learned bootstraps first module",
			map[string]models.LearnStatus{},
			[]string{"mod-1"},
		},
		{
			"learned modules plus bootstrap",
			map[string]models.LearnStatus{"mod-2": models.StatusLearned},
			[]string{"mod-2", "mod-1"},
		},
		{
			"first module learned is not duplicated",
			map[string]models.LearnStatus{"mod-1": models.StatusLearned},
			[]string{"mod-1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := UnlockedModuleIDs(modules, tc.progress)
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
			for i, id := range tc.expected {
				if got[i] != id {
					t.Errorf("expected %v, got %v", tc.expected, got)
				}
			}
		})
	}
}

func TestCandidatesScopedToUnlocked(t *testing.T) {
	modules := reviewModules()
	candidates := Candidates(modules, []string{"mod-1"})

	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates from mod-1, got %d", len(candidates))
	}
	for _, c := range candidates {
		if c.ModuleID != "mod-1" {
			t.Errorf("candidate from locked module: %+v", c)
		}
	}
}

// Repeated picks for a fresh user exhaust every unseen item before any
// item is served a second time.
func TestCoverageBeforeRepeat(t *testing.T) {
	selector := NewSelectorWithSeed(42)
	modules := reviewModules()
	unlocked := []string{"mod-1", "mod-2", "mod-3"}
	candidates := Candidates(modules, unlocked)

	var seen []models.ReviewItem
	served := make(map[string]int)

	for i := 0; i < len(candidates); i++ {
		sel, err := selector.Pick(candidates, seen)
		if err != nil {
			t.Fatalf("pick %d failed: %v", i, err)
		}
		if !sel.Unseen {
			t.Fatalf("pick %d returned a repeat with %d unseen items left", i, len(candidates)-i)
		}
		key := string(sel.Candidate.ItemType) + ":" + sel.Candidate.ContentID
		served[key]++
		if served[key] > 1 {
			t.Fatalf("item %s served twice before full coverage", key)
		}
		seen = append(seen, models.ReviewItem{
			ItemType:          sel.Candidate.ItemType,
			FlashcardID:       flashcardID(sel.Candidate),
			ActivityID:        activityID(sel.Candidate),
			ModuleID:          sel.Candidate.ModuleID,
			ProbabilityWeight: models.DefaultProbabilityWeight,
			TimesServed:       1,
		})
	}

	// Every item covered, the next pick must be a repeat.
	sel, err := selector.Pick(candidates, seen)
	if err != nil {
		t.Fatalf("post-coverage pick failed: %v", err)
	}
	if sel.Unseen {
		t.Error("all items seen, pick should come from the weighted pool")
	}
	if sel.Existing == nil {
		t.Error("repeat pick must carry the existing record")
	}
}

func TestPickNoItemsAvailable(t *testing.T) {
	selector := NewSelectorWithSeed(1)

	if _, err := selector.Pick(nil, nil); !errors.Is(err, ErrNoItemsAvailable) {
		t.Fatalf("expected ErrNoItemsAvailable, got %v", err)
	}

	// Unlocked module with no content behaves the same.
	modules := []models.CourseModule{{ID: "empty", Order: 1}}
	candidates := Candidates(modules, []string{"empty"})
	if _, err := selector.Pick(candidates, nil); !errors.Is(err, ErrNoItemsAvailable) {
		t.Fatalf("expected ErrNoItemsAvailable, got %v", err)
	}
}

// Hard-rated items resurface more often than easy-rated ones.
func TestWeightedPickFavorsHardItems(t *testing.T) {
	selector := NewSelectorWithSeed(7)
	modules := []models.CourseModule{
		{ID: "mod-1", Order: 1, FlashcardIDs: []string{"fc-easy", "fc-hard"}},
	}
	candidates := Candidates(modules, []string{"mod-1"})
	seen := []models.ReviewItem{
		{ItemType: models.ItemFlashcard, FlashcardID: "fc-easy", ModuleID: "mod-1", ProbabilityWeight: 0.5},
		{ItemType: models.ItemFlashcard, FlashcardID: "fc-hard", ModuleID: "mod-1", ProbabilityWeight: 1.3},
	}

	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		sel, err := selector.Pick(candidates, seen)
		if err != nil {
			t.Fatalf("pick failed: %v", err)
		}
		counts[sel.Candidate.ContentID]++
	}

	if counts["fc-hard"] <= counts["fc-easy"] {
		t.Errorf("hard item should dominate: hard=%d easy=%d", counts["fc-hard"], counts["fc-easy"])
	}
}

// Ratings overwrite the weight, they never accumulate: hard then easy
// then medium lands exactly back on 1.0.
func TestDifficultyWeightLastWriteWins(t *testing.T) {
	item := models.ReviewItem{ProbabilityWeight: models.DefaultProbabilityWeight}
	for _, d := range []models.Difficulty{models.DifficultyHard, models.DifficultyEasy, models.DifficultyMedium} {
		item.ProbabilityWeight = models.DifficultyWeights[d]
		item.LastDifficulty = d
	}
	if item.ProbabilityWeight != 1.0 {
		t.Errorf("expected final weight 1.0, got %.2f", item.ProbabilityWeight)
	}
}

func flashcardID(c Candidate) string {
	if c.ItemType == models.ItemFlashcard {
		return c.ContentID
	}
	return ""
}

func activityID(c Candidate) string {
	if c.ItemType == models.ItemActivity {
		return c.ContentID
	}
	return ""
}
