package rewrite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRewriter() *Rewriter {
	return NewRewriter(Config{Enabled: true, ArabicExpansion: true}, nil)
}

func TestRewriteDisabledReturnsTrimmedInput(t *testing.T) {
	r := NewRewriter(Config{Enabled: false}, nil)
	got := r.Rewrite(context.Background(), "  vpn not working  ")
	assert.Equal(t, "vpn not working", got.Rewritten)
	assert.False(t, got.WasModified)
}

func TestRewriteEmptyQuery(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "   ")
	assert.Equal(t, "", got.Rewritten)
	assert.False(t, got.WasModified)
}

func TestRewriteKeepsOriginalQuery(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "vpn disconnects every hour")
	assert.Equal(t, "vpn disconnects every hour", got.Original)
	assert.True(t, got.WasModified)
	assert.Contains(t, got.Modifications, "abbreviations_expanded")
}

func TestRewriteUnchangedQueryReportsNoModifications(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "the projector in meeting room four flickers")
	assert.Equal(t, got.Original, got.Rewritten)
	assert.False(t, got.WasModified)
	assert.Empty(t, got.Modifications)
}

func TestCorrectTypos(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "outlok pasword erorr")
	assert.Contains(t, got.Rewritten, "outlook")
	assert.Contains(t, got.Rewritten, "password")
	assert.Contains(t, got.Rewritten, "error")
	assert.NotContains(t, got.Rewritten, "outlok")
	assert.NotContains(t, got.Rewritten, "pasword")
	assert.Contains(t, got.Modifications, "typos_corrected")
}

func TestTypoCorrectionWholeWordsOnly(t *testing.T) {
	r := newTestRewriter()
	// "adapter" must not trigger the "ad" abbreviation substring.
	got := r.Rewrite(context.Background(), "network adapter missing")
	assert.NotContains(t, got.Rewritten, "Active Directory")
}

func TestExpandAbbreviations(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "vpn disconnects every hour")
	assert.Contains(t, got.Rewritten, "Virtual Private Network")
	// Original text stays at the front of the rewritten query.
	assert.True(t, strings.HasPrefix(got.Rewritten, "vpn disconnects every hour"))
}

func TestAbbreviationNotDuplicatedWhenExpansionPresent(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "vpn Virtual Private Network issue")
	assert.Equal(t, 1, strings.Count(got.Rewritten, "Virtual Private Network"))
}

func TestAppendSynonyms(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "laptop is slow")
	assert.Contains(t, got.Rewritten, "performance")
	assert.Contains(t, got.Modifications, "synonyms_added")
}

func TestSynonymNotDuplicated(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "slow performance on laptop")
	assert.Equal(t, 1, strings.Count(got.Rewritten, "performance"))
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "ticket 12345", NormalizeDigits("ticket ١٢٣٤٥"))
	assert.Equal(t, "room 09", NormalizeDigits("room ۰۹"))
	assert.Equal(t, "plain 42", NormalizeDigits("plain 42"))
}

func TestContainsArabic(t *testing.T) {
	assert.True(t, ContainsArabic("مشكلة في الشبكة"))
	assert.True(t, ContainsArabic("issue with الطابعة"))
	assert.False(t, ContainsArabic("plain english query"))
}

func TestExpandArabicTerms(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "مشكلة في الشبكة")
	assert.Contains(t, got.Rewritten, "problem")
	assert.Contains(t, got.Rewritten, "network")
	assert.Contains(t, got.Modifications, "arabic_expanded")
}

func TestExpandArabiziTerms(t *testing.T) {
	r := newTestRewriter()
	got := r.Rewrite(context.Background(), "نسيت الباسورد")
	assert.Contains(t, got.Rewritten, "password")
}

func TestArabicExpansionDisabled(t *testing.T) {
	r := NewRewriter(Config{Enabled: true, ArabicExpansion: false}, nil)
	got := r.Rewrite(context.Background(), "مشكلة في الشبكة")
	assert.NotContains(t, got.Rewritten, "network")
}

type stubLLMRewriter struct {
	result string
	err    error
	called bool
}

func (s *stubLLMRewriter) RewriteQuery(_ context.Context, _ string) (string, error) {
	s.called = true
	return s.result, s.err
}

func TestLLMRewriteReplacesDeterministicResult(t *testing.T) {
	stub := &stubLLMRewriter{result: "improved query text"}
	r := NewRewriter(Config{Enabled: true, UseLLM: true}, stub)
	got := r.Rewrite(context.Background(), "vpn broken")
	require.True(t, stub.called)
	assert.Equal(t, "improved query text", got.Rewritten)
	assert.Contains(t, got.Modifications, "llm_rewrite")
}

func TestLLMSkippedWhenDeterministicPassChangedNothing(t *testing.T) {
	stub := &stubLLMRewriter{result: "improved query text"}
	r := NewRewriter(Config{Enabled: true, UseLLM: true}, stub)
	got := r.Rewrite(context.Background(), "the projector in meeting room four flickers")
	assert.False(t, stub.called)
	assert.Equal(t, got.Original, got.Rewritten)
	assert.False(t, got.WasModified)
}

func TestLLMRewriteFailureFallsBack(t *testing.T) {
	stub := &stubLLMRewriter{err: errors.New("upstream timeout")}
	r := NewRewriter(Config{Enabled: true, UseLLM: true}, stub)
	got := r.Rewrite(context.Background(), "vpn broken")
	assert.Contains(t, got.Rewritten, "Virtual Private Network")
	assert.NotContains(t, got.Modifications, "llm_rewrite")
}

func TestLLMEmptyResultFallsBack(t *testing.T) {
	stub := &stubLLMRewriter{result: "   "}
	r := NewRewriter(Config{Enabled: true, UseLLM: true}, stub)
	got := r.Rewrite(context.Background(), "vpn broken")
	assert.Contains(t, got.Rewritten, "Virtual Private Network")
}
