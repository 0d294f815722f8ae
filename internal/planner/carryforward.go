package planner

import (
	"time"

	"studyplan-service/internal/models"
)

// MergeResult reports what the carry-forward pass did.
type MergeResult struct {
	Entries        []models.PlanEntry
	CarriedForward int
}

// MergeCompletion applies the regeneration contract: each new block
// that matches an old block's identity key inherits completed status
// with a fresh completion timestamp; every other block starts pending.
// Completed work is never silently lost as long as the key holds.
func MergeCompletion(oldEntries, newBlocks []models.PlanEntry) *MergeResult {
	completedByKey := make(map[string]bool, len(oldEntries))
	for i := range oldEntries {
		e := &oldEntries[i]
		e.EnsureBlockKey()
		if e.Status == models.StatusCompleted {
			completedByKey[e.BlockKey] = true
		}
	}

	result := &MergeResult{Entries: make([]models.PlanEntry, len(newBlocks))}
	now := time.Now().UTC()
	for i := range newBlocks {
		entry := newBlocks[i]
		entry.EnsureBlockKey()
		if completedByKey[entry.BlockKey] {
			entry.Status = models.StatusCompleted
			entry.CompletedAt = &now
			result.CarriedForward++
		} else {
			entry.Status = models.StatusPending
			entry.CompletedAt = nil
		}
		result.Entries[i] = entry
	}
	return result
}

// Chunk splits entries into bounded insert batches so a later batch
// failure cannot take down rows already committed.
func Chunk(entries []models.PlanEntry, size int) [][]models.PlanEntry {
	if size <= 0 {
		size = 100
	}
	var chunks [][]models.PlanEntry
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		chunks = append(chunks, entries[start:end])
	}
	return chunks
}
