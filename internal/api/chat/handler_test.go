package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

type stubChatUsecase struct {
	result    *entity.ChatResult
	export    *entity.TranscriptExport
	err       error
	deltas    []string
	lastQuery string
}

func (s *stubChatUsecase) HandleMessage(_ context.Context, req *entity.ChatMessageRequest) (*entity.ChatResult, error) {
	s.lastQuery = req.Message
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubChatUsecase) HandleMessageStream(_ context.Context, req *entity.ChatMessageRequest, onDelta func(string) error) (*entity.ChatResult, error) {
	s.lastQuery = req.Message
	if s.err != nil {
		return nil, s.err
	}
	for _, d := range s.deltas {
		if err := onDelta(d); err != nil {
			return nil, err
		}
	}
	return s.result, nil
}

func (s *stubChatUsecase) ExportTranscript(_ context.Context, sessionID string, format entity.ResultFormat) (*entity.TranscriptExport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.export, nil
}

func newTestRouter(uc ChatUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc))
	return r
}

func TestSendMessage(t *testing.T) {
	uc := &stubChatUsecase{
		result: &entity.ChatResult{
			SessionID: "s1",
			Reply:     "Restart the VPN client.",
			Intent:    entity.IntentQuestion,
		},
	}
	router := newTestRouter(uc)

	body := `{"session_id":"s1","user_id":"u1","message":"vpn not working"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result entity.ChatResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "s1", result.SessionID)
	assert.Equal(t, "Restart the VPN client.", result.Reply)
	assert.Equal(t, "vpn not working", uc.lastQuery)
}

func TestSendMessageInvalidBody(t *testing.T) {
	router := newTestRouter(&stubChatUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing field", entity.ErrMissingField, http.StatusBadRequest},
		{"query too long", entity.ErrQueryTooLong, http.StatusBadRequest},
		{"injection", entity.ErrInjectionDetected, http.StatusUnprocessableEntity},
		{"rate limited", entity.ErrRateLimited, http.StatusTooManyRequests},
		{"action expired", entity.ErrActionExpired, http.StatusConflict},
		{"upstream down", entity.ErrExternalFailure, http.StatusBadGateway},
		{"stream timeout", entity.ErrStreamTimeout, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubChatUsecase{err: tt.err})

			body := `{"user_id":"u1","message":"hello"}`
			req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			var errResp entity.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, http.StatusText(tt.want), errResp.Error)
		})
	}
}

func TestSendMessageStreaming(t *testing.T) {
	uc := &stubChatUsecase{
		deltas: []string{"Restart ", "the VPN ", "client."},
		result: &entity.ChatResult{
			SessionID: "s1",
			Reply:     "Restart the VPN client.",
			Intent:    entity.IntentQuestion,
		},
	}
	router := newTestRouter(uc)

	body := `{"session_id":"s1","user_id":"u1","message":"vpn broken","stream":true}`
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)

	var assembled string
	for _, line := range lines[:3] {
		var chunk entity.LLMStreamChunk
		require.NoError(t, json.Unmarshal([]byte(line), &chunk))
		assembled += chunk.Delta
	}
	assert.Equal(t, "Restart the VPN client.", assembled)

	var final struct {
		Done   bool              `json:"done"`
		Result entity.ChatResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &final))
	assert.True(t, final.Done)
	assert.Equal(t, "s1", final.Result.SessionID)
}

func TestGetTranscript(t *testing.T) {
	uc := &stubChatUsecase{
		export: &entity.TranscriptExport{
			Data:        []byte("# Conversation Transcript\n"),
			ContentType: "text/markdown",
			Filename:    "transcript-s1.md",
		},
	}
	router := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/chat/s1/transcript?format=markdown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="transcript-s1.md"`)
	assert.Equal(t, "# Conversation Transcript\n", rec.Body.String())
}

func TestGetTranscriptUnknownSession(t *testing.T) {
	router := newTestRouter(&stubChatUsecase{err: entity.ErrSessionNotFound})

	req := httptest.NewRequest(http.MethodGet, "/chat/missing/transcript", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
