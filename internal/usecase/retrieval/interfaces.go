package retrieval

import (
	"context"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

type VectorStoreConnector interface {
	Search(ctx context.Context, query string, maxResults int) ([]entity.SearchHit, error)
	SearchWithGroups(ctx context.Context, query string, maxResults int, groups []string) ([]entity.SearchHit, error)
}
