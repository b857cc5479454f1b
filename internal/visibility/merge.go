package visibility

import (
	"sort"

	"github.com/google/uuid"

	"sitetrack/internal/models"
)

// MergeProjects unions independently queried project sets by id, so a user
// matched by more than one filter (e.g. manager on one project, supervisor
// on another) never sees duplicates. The merge is idempotent and does not
// depend on which input set arrived first. Final ordering is by project
// name ascending, id as tiebreaker.
func MergeProjects(sets ...[]models.Project) []models.Project {
	byID := make(map[uuid.UUID]models.Project)
	for _, set := range sets {
		for _, p := range set {
			byID[p.ID] = p
		}
	}

	merged := make([]models.Project, 0, len(byID))
	for _, p := range byID {
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Name != merged[j].Name {
			return merged[i].Name < merged[j].Name
		}
		return merged[i].ID.String() < merged[j].ID.String()
	})
	return merged
}

// ChunkIDs splits an id list into batches of at most size elements,
// matching the backing store's cap on set-membership query operands.
func ChunkIDs(ids []uuid.UUID, size int) [][]uuid.UUID {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]uuid.UUID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// ProjectIDs extracts the id list of a project set.
func ProjectIDs(projects []models.Project) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}
