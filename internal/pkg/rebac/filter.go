package rebac

import (
	"context"
	"sort"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

// highValueChunks are chunk types carrying actionable operational content.
// Hits of these types are ranked ahead of descriptive chunks so resolutions
// and rollback steps reach the model first.
var highValueChunks = map[string]bool{
	"RESOLUTION":      true,
	"IMPLEMENTATION":  true,
	"ROLLBACK":        true,
	"ARTICLE_CONTENT": true,
}

type Config struct {
	Enabled             bool
	MinScore            float32
	PreferredSourceType string
}

// Filter applies group-based access control and relevance shaping to raw
// search hits. A hit is visible when it carries no assigned group or when the
// caller is a member of that group.
type Filter struct {
	cfg Config
}

func NewFilter(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Apply filters hits by the caller's group membership, drops hits below the
// score floor, deduplicates by source keeping the best-scoring chunk, and
// returns at most maxResults hits. Ranking is by raw score with stable
// partitions on top: the preferred source type first, then high-value chunk
// types ahead of the rest. Scores are never mutated, so the rendered context
// reports what the search actually returned. With filtering disabled only
// the score floor and ranking run.
func (f *Filter) Apply(ctx context.Context, user entity.UserContext, hits []entity.SearchHit, maxResults int) []entity.SearchHit {
	if len(hits) == 0 {
		return nil
	}

	visible := make([]entity.SearchHit, 0, len(hits))
	dropped := 0
	for _, hit := range hits {
		if hit.Score < f.cfg.MinScore {
			continue
		}
		if f.cfg.Enabled && !f.accessible(user, hit) {
			dropped++
			continue
		}
		visible = append(visible, hit)
	}
	if dropped > 0 {
		ctxzap.Extract(ctx).Debug("hits dropped by access filter",
			zap.String("user_id", user.UserID),
			zap.Int("dropped", dropped))
	}

	deduped := dedupeBySource(visible)
	f.rank(deduped)

	if maxResults > 0 && len(deduped) > maxResults {
		deduped = deduped[:maxResults]
	}
	return deduped
}

// accessible reports whether the user may see the hit. Hits without an
// assigned group are public.
func (f *Filter) accessible(user entity.UserContext, hit entity.SearchHit) bool {
	group := hit.AssignedGroup()
	if group == "" {
		return true
	}
	return user.InGroup(group)
}

// dedupeBySource keeps the highest-scoring hit for each sourceType:sourceId
// pair, preserving first-seen order among distinct sources.
func dedupeBySource(hits []entity.SearchHit) []entity.SearchHit {
	best := make(map[string]int, len(hits))
	out := make([]entity.SearchHit, 0, len(hits))
	for _, hit := range hits {
		key := hit.SourceKey()
		if idx, seen := best[key]; seen {
			if hit.Score > out[idx].Score {
				out[idx] = hit
			}
			continue
		}
		best[key] = len(out)
		out = append(out, hit)
	}
	return out
}

// rank orders hits by raw score descending, then stably moves
// preferred-source hits to the front, then high-value chunks to the very
// front. Within a bucket the stronger score still wins.
func (f *Filter) rank(hits []entity.SearchHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if f.cfg.PreferredSourceType != "" {
		partitionFront(hits, func(h entity.SearchHit) bool {
			return strings.EqualFold(h.SourceType, f.cfg.PreferredSourceType)
		})
	}
	partitionFront(hits, func(h entity.SearchHit) bool {
		return highValueChunks[strings.ToUpper(h.ChunkType)]
	})
}

// partitionFront stably moves hits matching pred ahead of the rest.
func partitionFront(hits []entity.SearchHit, pred func(entity.SearchHit) bool) {
	sort.SliceStable(hits, func(i, j int) bool {
		return pred(hits[i]) && !pred(hits[j])
	})
}
