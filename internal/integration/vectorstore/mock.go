package vectorstore

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// MockConnector serves canned hits for local development without a search
// backend.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Search(ctx context.Context, query string, maxResults int) ([]entity.SearchHit, error) {
	ctxzap.Info(ctx, "[MOCK] vector store search",
		zap.Int("query_length", len(query)),
		zap.Int("max_results", maxResults),
	)
	return truncateHits(cannedHits(), maxResults), nil
}

// SearchWithGroups mimics the server-side access restriction: group-assigned
// hits are returned only when the caller holds the matching group.
func (m *MockConnector) SearchWithGroups(ctx context.Context, query string, maxResults int, groups []string) ([]entity.SearchHit, error) {
	ctxzap.Info(ctx, "[MOCK] vector store search with groups",
		zap.Int("query_length", len(query)),
		zap.Int("max_results", maxResults),
		zap.Strings("groups", groups),
	)

	allowed := make(map[string]bool, len(groups))
	for _, g := range groups {
		allowed[g] = true
	}

	visible := make([]entity.SearchHit, 0)
	for _, h := range cannedHits() {
		if group := h.AssignedGroup(); group == "" || allowed[group] {
			visible = append(visible, h)
		}
	}
	return truncateHits(visible, maxResults), nil
}

func truncateHits(hits []entity.SearchHit, maxResults int) []entity.SearchHit {
	if maxResults > 0 && len(hits) > maxResults {
		return hits[:maxResults]
	}
	return hits
}

func cannedHits() []entity.SearchHit {
	return []entity.SearchHit{
		{
			SourceType: "KnowledgeArticle",
			SourceID:   "KBA00000101",
			ChunkType:  "ARTICLE_CONTENT",
			Text:       "To reset a domain password open the self-service portal, choose Reset Password and follow the MFA prompt.",
			Score:      0.91,
			Metadata:   map[string]string{"title": "Password self-service reset"},
		},
		{
			SourceType: "Incident",
			SourceID:   "INC00000042",
			ChunkType:  "RESOLUTION",
			Text:       "Restarted the VPN concentrator and asked affected users to reconnect. Root cause was an expired gateway certificate.",
			Score:      0.84,
			Metadata:   map[string]string{"assigned_group": "Network Team", "title": "VPN disconnects sitewide"},
		},
		{
			SourceType: "Incident",
			SourceID:   "INC00000042",
			ChunkType:  "DESCRIPTION",
			Text:       "Multiple users report VPN sessions dropping every few minutes since the morning.",
			Score:      0.78,
			Metadata:   map[string]string{"assigned_group": "Network Team", "title": "VPN disconnects sitewide"},
		},
	}
}
