package rewrite

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// LLMRewriter produces a semantically improved rendering of a query. The
// returned string replaces the deterministic result when the call succeeds.
type LLMRewriter interface {
	RewriteQuery(ctx context.Context, query string) (string, error)
}

type Config struct {
	Enabled         bool
	UseLLM          bool
	ArabicExpansion bool
}

// Rewriter normalizes free-text queries before retrieval. The deterministic
// pipeline always runs; the LLM step is best-effort and falls back to the
// deterministic result on any error.
type Rewriter struct {
	cfg Config
	llm LLMRewriter
}

func NewRewriter(cfg Config, llm LLMRewriter) *Rewriter {
	return &Rewriter{cfg: cfg, llm: llm}
}

var wordPattern = regexp.MustCompile(`[a-zA-Z0-9]+`)

// Result describes one rewrite run. Modifications lists the stages that
// changed the query, in pipeline order.
type Result struct {
	Original      string   `json:"original_query"`
	Rewritten     string   `json:"rewritten_query"`
	WasModified   bool     `json:"was_modified"`
	Modifications []string `json:"modifications,omitempty"`
}

// Rewrite applies the normalization pipeline: digit normalization, typo
// correction, Arabic term expansion, abbreviation expansion, synonym
// enrichment, then the optional LLM pass. The LLM pass only runs when at
// least one deterministic stage changed the query. A disabled rewriter
// returns the trimmed input unchanged.
func (r *Rewriter) Rewrite(ctx context.Context, query string) Result {
	trimmed := strings.TrimSpace(query)
	res := Result{Original: trimmed, Rewritten: trimmed}
	if trimmed == "" || !r.cfg.Enabled {
		return res
	}

	apply := func(stage string, fn func(string) string) {
		next := fn(res.Rewritten)
		if next != res.Rewritten {
			res.Rewritten = next
			res.Modifications = append(res.Modifications, stage)
		}
	}

	apply("digits_normalized", NormalizeDigits)
	apply("typos_corrected", correctTypos)
	if r.cfg.ArabicExpansion && ContainsArabic(res.Rewritten) {
		apply("arabic_expanded", expandArabicTerms)
	}
	apply("abbreviations_expanded", expandAbbreviations)
	apply("synonyms_added", appendSynonyms)

	if r.cfg.UseLLM && r.llm != nil && len(res.Modifications) > 0 {
		improved, err := r.llm.RewriteQuery(ctx, res.Rewritten)
		if err != nil {
			ctxzap.Extract(ctx).Warn("llm query rewrite failed, using deterministic result",
				zap.Error(err))
		} else if cleaned := strings.TrimSpace(improved); cleaned != "" && cleaned != res.Rewritten {
			res.Rewritten = cleaned
			res.Modifications = append(res.Modifications, "llm_rewrite")
		}
	}

	res.WasModified = len(res.Modifications) > 0
	if res.WasModified {
		ctxzap.Extract(ctx).Debug("query rewritten",
			zap.Int("original_len", len(res.Original)),
			zap.Int("rewritten_len", len(res.Rewritten)),
			zap.Strings("modifications", res.Modifications))
	}
	return res
}

// correctTypos replaces known misspellings wherever they occur as whole words.
func correctTypos(query string) string {
	return wordPattern.ReplaceAllStringFunc(query, func(word string) string {
		if fixed, ok := typoCorrections[strings.ToLower(word)]; ok {
			return fixed
		}
		return word
	})
}

// expandAbbreviations appends the expansion for every abbreviation present as
// a standalone word, skipping terms whose expansion is already in the query.
func expandAbbreviations(query string) string {
	words := queryWordSet(query)
	var additions []string
	for abbr, expansion := range abbreviations {
		if !words[abbr] {
			continue
		}
		if containsFold(query, expansion) {
			continue
		}
		additions = append(additions, expansion)
	}
	if len(additions) == 0 {
		return query
	}
	sort.Strings(additions)
	return query + " " + strings.Join(additions, " ")
}

// appendSynonyms adds the first synonym of each recognized term when that
// synonym is not already present.
func appendSynonyms(query string) string {
	words := queryWordSet(query)
	var additions []string
	for term, alts := range synonyms {
		if !words[term] || len(alts) == 0 {
			continue
		}
		if !containsFold(query, alts[0]) {
			additions = append(additions, alts[0])
		}
	}
	if len(additions) == 0 {
		return query
	}
	sort.Strings(additions)
	return query + " " + strings.Join(additions, " ")
}

func queryWordSet(query string) map[string]bool {
	words := wordPattern.FindAllString(strings.ToLower(query), -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
