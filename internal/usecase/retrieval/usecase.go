package retrieval

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/config"
	"github.com/servicedesk-ai/assistant-backend/internal/entity"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/rebac"
	"github.com/servicedesk-ai/assistant-backend/internal/pkg/rewrite"
)

// MaxQueryLength caps the query accepted by retrieval. Longer input is
// rejected before any external call.
const MaxQueryLength = 10000

// RetrievalUsecase runs the full retrieval pipeline: query normalization,
// overfetched similarity search, access filtering and context rendering.
type RetrievalUsecase struct {
	cfg       config.RetrievalConfig
	rewriter  *rewrite.Rewriter
	filter    *rebac.Filter
	connector VectorStoreConnector
	logger    *zap.Logger
}

func NewUsecase(
	cfg config.RetrievalConfig,
	rewriter *rewrite.Rewriter,
	filter *rebac.Filter,
	connector VectorStoreConnector,
	logger *zap.Logger,
) *RetrievalUsecase {
	return &RetrievalUsecase{
		cfg:       cfg,
		rewriter:  rewriter,
		filter:    filter,
		connector: connector,
		logger:    logger,
	}
}

// Retrieve returns the access-filtered hits for a query together with the
// rendered context block for the model prompt. Users with group memberships
// get a group-scoped search; the local filter still runs on the response as a
// second enforcement point. The search overfetches at twice the configured
// result count because filtering drops hits.
func (uc *RetrievalUsecase) Retrieve(ctx context.Context, user entity.UserContext, query string) (*entity.RetrievalResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: query is empty", entity.ErrInvalidInput)
	}
	if utf8.RuneCountInString(trimmed) > MaxQueryLength {
		return nil, fmt.Errorf("%w: query exceeds %d characters", entity.ErrQueryTooLong, MaxQueryLength)
	}

	rewritten := uc.rewriter.Rewrite(ctx, trimmed)

	var raw []entity.SearchHit
	var err error
	if user.HasGroups() {
		raw, err = uc.connector.SearchWithGroups(ctx, rewritten.Rewritten, uc.cfg.MaxResults*2, user.Groups)
	} else {
		raw, err = uc.connector.Search(ctx, rewritten.Rewritten, uc.cfg.MaxResults*2)
	}
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := uc.filter.Apply(ctx, user, raw, uc.cfg.MaxResults)
	ctxzap.Info(ctx, "retrieval finished",
		zap.Int("raw_hits", len(raw)),
		zap.Int("visible_hits", len(hits)),
	)

	if len(hits) == 0 {
		return entity.EmptyRetrievalResult(), nil
	}

	return &entity.RetrievalResult{
		Hits:    hits,
		Context: renderContext(hits),
	}, nil
}

// renderContext formats hits as numbered source blocks separated by rules, so
// the model can cite sources by number.
func renderContext(hits []entity.SearchHit) string {
	var b strings.Builder
	for i, hit := range hits {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "### Source %d", i+1)
		if title := hit.Title(); title != "" {
			fmt.Fprintf(&b, ": %s", title)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "[%s %s", hit.SourceType, hit.SourceID)
		if hit.ChunkType != "" {
			fmt.Fprintf(&b, ", %s", hit.ChunkType)
		}
		fmt.Fprintf(&b, ", score %.2f]\n\n", hit.Score)
		b.WriteString(strings.TrimSpace(hit.Text))
	}
	return b.String()
}
