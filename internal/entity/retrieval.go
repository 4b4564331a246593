package entity

import "strings"

// UserContext carries the identity and group memberships that drive access
// control for a single request. It is immutable once built.
type UserContext struct {
	UserID string
	Groups []string
}

// HasGroups reports whether the user has at least one group membership.
func (u *UserContext) HasGroups() bool {
	return u != nil && len(u.Groups) > 0
}

// InGroup reports case-insensitive membership in the given group.
func (u *UserContext) InGroup(group string) bool {
	if u == nil {
		return false
	}
	for _, g := range u.Groups {
		if strings.EqualFold(g, group) {
			return true
		}
	}
	return false
}

// AnonymousContext returns a context with no identity and no groups.
func AnonymousContext() UserContext {
	return UserContext{}
}

// SearchHit is a single chunk returned by the similarity search.
type SearchHit struct {
	SourceType string            `json:"source_type"`
	SourceID   string            `json:"source_id"`
	ChunkType  string            `json:"chunk_type"`
	Text       string            `json:"text"`
	Score      float32           `json:"score"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// AssignedGroup returns the access group recorded on the hit, empty when the
// content is public.
func (h *SearchHit) AssignedGroup() string {
	if h.Metadata == nil {
		return ""
	}
	return h.Metadata["assigned_group"]
}

// Title returns the source title from metadata, if present.
func (h *SearchHit) Title() string {
	if h.Metadata == nil {
		return ""
	}
	return h.Metadata["title"]
}

// Category returns the source category from metadata, if present.
func (h *SearchHit) Category() string {
	if h.Metadata == nil {
		return ""
	}
	return h.Metadata["category"]
}

// SourceKey identifies the source record a hit was chunked from.
func (h *SearchHit) SourceKey() string {
	return h.SourceType + ":" + h.SourceID
}

// RetrievalResult is the access-filtered, ranked hit list together with the
// rendered context block handed to the language model. An empty result is a
// valid value, never nil.
type RetrievalResult struct {
	Hits    []SearchHit `json:"hits"`
	Context string      `json:"context"`
}

// EmptyRetrievalResult returns the canonical empty result.
func EmptyRetrievalResult() *RetrievalResult {
	return &RetrievalResult{Hits: []SearchHit{}, Context: ""}
}

// IsEmpty reports whether nothing qualified for retrieval.
func (r *RetrievalResult) IsEmpty() bool {
	return r == nil || len(r.Hits) == 0
}

// SourceReferences returns the distinct source references for citations, in
// ranking order.
func (r *RetrievalResult) SourceReferences() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool, len(r.Hits))
	refs := make([]string, 0, len(r.Hits))
	for i := range r.Hits {
		ref := r.Hits[i].SourceType + " " + r.Hits[i].SourceID
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}
