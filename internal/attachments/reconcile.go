// Package attachments holds the pure reconciliation step that merges newly
// uploaded attachment descriptors into a record's existing set and subtracts
// explicit removals. It performs no file validation; the upload collaborator
// enforces size, type and count limits before descriptors get here.
package attachments

import (
	"github.com/dayronponce94/designer-platform-sub000/pkg/types"
)

// Reconcile computes the next attachment set from the existing set, newly
// uploaded descriptors, and removal requests keyed by URL.
//
// Survivors keep their relative order and new entries are appended after them.
// A removal URL with no matching entry is a no-op. No URL ever appears twice
// in the output: a new descriptor whose URL is already present is skipped
// rather than duplicated.
func Reconcile(existing, added []types.Attachment, removeURLs []string) []types.Attachment {
	removed := make(map[string]bool, len(removeURLs))
	for _, u := range removeURLs {
		removed[u] = true
	}

	next := make([]types.Attachment, 0, len(existing)+len(added))
	seen := make(map[string]bool, len(existing)+len(added))

	for _, a := range existing {
		if removed[a.URL] || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		next = append(next, a)
	}

	for _, a := range added {
		if removed[a.URL] || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		next = append(next, a)
	}

	return next
}

// Equal reports whether two attachment sets hold the same descriptors in the
// same order. The service uses it to skip a persist when a reconcile turned
// out to be a no-op.
func Equal(a, b []types.Attachment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
