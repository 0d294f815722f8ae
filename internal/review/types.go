package review

import (
	"errors"

	"studyplan-service/internal/models"
)

// ErrNoItemsAvailable signals that no modules are unlocked or the
// unlocked modules carry no flashcards or activities. This is an
// expected state for a brand-new learner, not a fault.
var ErrNoItemsAvailable = errors.New("no review items available")

// Candidate is one servable flashcard or activity from an unlocked
// module.
type Candidate struct {
	ModuleID  string                `json:"module_id"`
	ItemType  models.ReviewItemType `json:"item_type"`
	ContentID string                `json:"content_id"`
}

// Selection is the outcome of one pick: the chosen candidate and, when
// the item has been served before, its existing review record.
type Selection struct {
	Candidate Candidate          `json:"candidate"`
	Existing  *models.ReviewItem `json:"existing,omitempty"`
	Unseen    bool               `json:"unseen"`
}

// UnlockedModuleIDs returns the modules eligible for review: every
// learned module, plus the first module by course order so review can
// start before anything is finished.
func UnlockedModuleIDs(modules []models.CourseModule, progress map[string]models.LearnStatus) []string {
	var ids []string
	firstID := ""
	firstOrder := 0
	for i := range modules {
		m := &modules[i]
		if firstID == "" || m.Order < firstOrder {
			firstID = m.ID
			firstOrder = m.Order
		}
		if progress[m.ID] == models.StatusLearned {
			ids = append(ids, m.ID)
		}
	}
	if firstID != "" && !containsString(ids, firstID) {
		ids = append(ids, firstID)
	}
	return ids
}

// Candidates expands unlocked modules into the flat servable item set.
func Candidates(modules []models.CourseModule, unlockedIDs []string) []Candidate {
	unlocked := make(map[string]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	var out []Candidate
	for i := range modules {
		m := &modules[i]
		if !unlocked[m.ID] {
			continue
		}
		for _, fc := range m.FlashcardIDs {
			out = append(out, Candidate{ModuleID: m.ID, ItemType: models.ItemFlashcard, ContentID: fc})
		}
		for _, act := range m.ActivityIDs {
			out = append(out, Candidate{ModuleID: m.ID, ItemType: models.ItemActivity, ContentID: act})
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
