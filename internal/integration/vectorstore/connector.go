package vectorstore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/config"
	"github.com/servicedesk-ai/assistant-backend/internal/entity"
	"github.com/servicedesk-ai/assistant-backend/internal/integration/common"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/retry"
	pkghttp "github.com/servicedesk-ai/assistant-backend/pkg/http"
)

type Connector struct {
	config    config.VectorStoreConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.VectorStoreConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type searchRequest struct {
	Query      string   `json:"query"`
	MaxResults int      `json:"max_results"`
	Groups     []string `json:"groups,omitempty"`
}

type searchResponse struct {
	Hits []searchHit `json:"hits"`
}

type searchHit struct {
	SourceType string            `json:"source_type"`
	SourceID   string            `json:"source_id"`
	ChunkType  string            `json:"chunk_type"`
	Text       string            `json:"text"`
	Score      float32           `json:"score"`
	Metadata   map[string]string `json:"metadata"`
}

// Search runs a similarity search and returns raw, unfiltered hits.
// POST {search_endpoint}
func (c *Connector) Search(ctx context.Context, query string, maxResults int) ([]entity.SearchHit, error) {
	return c.search(ctx, &searchRequest{Query: query, MaxResults: maxResults})
}

// SearchWithGroups runs a similarity search restricted server-side to public
// content and content assigned to the given groups.
// POST {search_endpoint}
func (c *Connector) SearchWithGroups(ctx context.Context, query string, maxResults int, groups []string) ([]entity.SearchHit, error) {
	return c.search(ctx, &searchRequest{Query: query, MaxResults: maxResults, Groups: groups})
}

func (c *Connector) search(ctx context.Context, req *searchRequest) ([]entity.SearchHit, error) {
	ctxzap.Debug(ctx, "searching vector store",
		zap.Int("max_results", req.MaxResults),
		zap.Int("group_count", len(req.Groups)),
	)

	var resp searchResponse
	err := retry.Do(ctx, c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.SearchEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Error(ctx, "vector store search failed", zap.Error(err))
		return nil, fmt.Errorf("%w: vector store search: %v", entity.ErrExternalFailure, err)
	}

	hits := make([]entity.SearchHit, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		hits = append(hits, entity.SearchHit{
			SourceType: h.SourceType,
			SourceID:   h.SourceID,
			ChunkType:  h.ChunkType,
			Text:       h.Text,
			Score:      h.Score,
			Metadata:   h.Metadata,
		})
	}

	ctxzap.Debug(ctx, "vector store search finished", zap.Int("hit_count", len(hits)))
	return hits, nil
}
