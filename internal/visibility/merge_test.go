package visibility

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"sitetrack/internal/models"
)

func named(name string) models.Project {
	return models.Project{ID: uuid.New(), Name: name}
}

func TestMergeProjectsUnionByID(t *testing.T) {
	alpha := named("Alpha")
	beta := named("Beta")

	// Alpha appears in both query results; the union must hold it once.
	got := MergeProjects([]models.Project{alpha, beta}, []models.Project{alpha})
	if len(got) != 2 {
		t.Fatalf("got %d projects, want 2", len(got))
	}
	if got[0].ID != alpha.ID || got[1].ID != beta.ID {
		t.Errorf("expected [Alpha Beta] ordered by name, got [%s %s]", got[0].Name, got[1].Name)
	}
}

func TestMergeProjectsOrderIndependent(t *testing.T) {
	a := named("Alpha")
	b := named("Beta")

	first := MergeProjects([]models.Project{a}, []models.Project{b})
	second := MergeProjects([]models.Project{b}, []models.Project{a})
	if !reflect.DeepEqual(first, second) {
		t.Errorf("merge must not depend on which stream resolved first")
	}
}

func TestMergeProjectsIdempotent(t *testing.T) {
	a := named("Alpha")
	b := named("Beta")
	c := named("Alpha") // same name, different id

	once := MergeProjects([]models.Project{a, c}, []models.Project{b})
	twice := MergeProjects(once, once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-applying the merge must yield an identical list")
	}
}

func TestMergeProjectsEmptyInputs(t *testing.T) {
	if got := MergeProjects(nil, nil); len(got) != 0 {
		t.Errorf("empty inputs must merge to empty, got %d", len(got))
	}
}

func TestChunkIDs(t *testing.T) {
	ids := make([]uuid.UUID, 65)
	for i := range ids {
		ids[i] = uuid.New()
	}

	chunks := ChunkIDs(ids, 30)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if len(chunks[0]) != 30 || len(chunks[1]) != 30 || len(chunks[2]) != 5 {
		t.Errorf("chunk sizes = %d,%d,%d, want 30,30,5", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	// Nothing dropped, order preserved.
	var flat []uuid.UUID
	for _, c := range chunks {
		flat = append(flat, c...)
	}
	if !reflect.DeepEqual(flat, ids) {
		t.Errorf("chunking must preserve every id in order")
	}

	if ChunkIDs(nil, 30) != nil {
		t.Errorf("no ids yields no chunks")
	}
	if ChunkIDs(ids, 0) != nil {
		t.Errorf("non-positive size yields no chunks")
	}
}
