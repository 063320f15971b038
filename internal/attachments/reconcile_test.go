package attachments

import (
	"fmt"
	"testing"
	"time"

	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func att(url string) types.Attachment {
	return types.Attachment{
		URL:         url,
		Filename:    url + ".png",
		ContentType: "image/png",
		SizeBytes:   1024,
		UploadedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func urls(set []types.Attachment) []string {
	out := make([]string, len(set))
	for i, a := range set {
		out[i] = a.URL
	}
	return out
}

func TestReconcile_AddAndRemove(t *testing.T) {
	existing := []types.Attachment{att("a"), att("b")}

	next := Reconcile(existing, []types.Attachment{att("c")}, []string{"a"})

	assert.Equal(t, []string{"b", "c"}, urls(next))
}

func TestReconcile_PreservesSurvivorOrder(t *testing.T) {
	existing := []types.Attachment{att("a"), att("b"), att("c"), att("d")}

	next := Reconcile(existing, []types.Attachment{att("e"), att("f")}, []string{"b"})

	assert.Equal(t, []string{"a", "c", "d", "e", "f"}, urls(next))
}

func TestReconcile_RemovalOfMissingURLIsNoOp(t *testing.T) {
	existing := []types.Attachment{att("a")}

	next := Reconcile(existing, nil, []string{"nope"})

	assert.Equal(t, []string{"a"}, urls(next))
}

func TestReconcile_NothingToDo(t *testing.T) {
	existing := []types.Attachment{att("a"), att("b")}

	next := Reconcile(existing, nil, nil)

	assert.True(t, Equal(existing, next))
}

func TestReconcile_NeverDuplicatesByURL(t *testing.T) {
	existing := []types.Attachment{att("a")}

	next := Reconcile(existing, []types.Attachment{att("a"), att("b"), att("b")}, nil)

	assert.Equal(t, []string{"a", "b"}, urls(next))
}

func TestReconcile_AddedEntryAlsoRemovedLoses(t *testing.T) {
	next := Reconcile(nil, []types.Attachment{att("a")}, []string{"a"})
	assert.Empty(t, next)
}

func TestReconcile_SizeInvariant(t *testing.T) {
	// len(output) == len(existing) - |removed ∩ existing| + len(new) for
	// disjoint inputs, across a spread of set sizes.
	for existingN := 0; existingN < 4; existingN++ {
		for addedN := 0; addedN < 3; addedN++ {
			for removedN := 0; removedN <= existingN; removedN++ {
				var existing, added []types.Attachment
				var removed []string
				for i := 0; i < existingN; i++ {
					existing = append(existing, att(fmt.Sprintf("e%d", i)))
				}
				for i := 0; i < addedN; i++ {
					added = append(added, att(fmt.Sprintf("n%d", i)))
				}
				for i := 0; i < removedN; i++ {
					removed = append(removed, fmt.Sprintf("e%d", i))
				}

				next := Reconcile(existing, added, removed)
				require.Len(t, next, existingN-removedN+addedN)

				seen := map[string]bool{}
				for _, a := range next {
					require.False(t, seen[a.URL], "url %s appears twice", a.URL)
					seen[a.URL] = true
				}
			}
		}
	}
}

func TestEqual(t *testing.T) {
	a := []types.Attachment{att("a"), att("b")}
	b := []types.Attachment{att("a"), att("b")}
	assert.True(t, Equal(a, b))

	assert.False(t, Equal(a, []types.Attachment{att("b"), att("a")}))
	assert.False(t, Equal(a, a[:1]))
	assert.True(t, Equal(nil, []types.Attachment{}))
}
