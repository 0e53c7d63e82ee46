package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/giftgenius/giftgenius-api/internal/concierge"
	"github.com/giftgenius/giftgenius-api/internal/flow"
	"github.com/giftgenius/giftgenius-api/internal/history"
	"github.com/giftgenius/giftgenius-api/internal/logger"
	"github.com/giftgenius/giftgenius-api/internal/models"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateGiftIdeas(ctx context.Context, profile models.RecipientProfile) ([]models.GiftIdea, error) {
	args := m.Called(ctx, profile)
	if ideas := args.Get(0); ideas != nil {
		return ideas.([]models.GiftIdea), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixture struct {
	router  *gin.Engine
	gen     *MockGenerator
	history *history.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	require.NoError(t, err)

	gen := &MockGenerator{}
	hist := history.NewStore(filepath.Join(t.TempDir(), "history.json"))
	machine := flow.NewMachine()
	require.NoError(t, machine.Start())

	h := NewHandler(gen, hist, nil, machine, "http://localhost:8080", 5*time.Second, log)
	return &fixture{
		router:  NewRouter(h, log, []string{"*"}),
		gen:     gen,
		history: hist,
	}
}

func validProfile() models.RecipientProfile {
	return models.RecipientProfile{
		Relation:  models.RelationFriend,
		Age:       "28",
		Gender:    models.GenderFemale,
		Occasion:  "Birthday",
		Taste:     models.ParseTasteSet("Minimalist, Foodie"),
		Budget:    "Around $150",
		Currency:  "USD",
		Interests: "hiking, specialty coffee",
	}
}

func sevenIdeas() []models.GiftIdea {
	ideas := make([]models.GiftIdea, 7)
	for i := range ideas {
		ideas[i] = models.GiftIdea{
			Title:          "Idea",
			Reason:         "Fits her interests.",
			Retailer:       "Amazon",
			EstimatedPrice: "$120",
			ImageKeyword:   "gift idea",
		}
	}
	return ideas
}

func (f *fixture) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorField(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "response must carry an error object: %s", w.Body.String())
	return errObj
}

func TestHandleGenerate_Success(t *testing.T) {
	f := newFixture(t)
	f.gen.On("GenerateGiftIdeas", mock.Anything, mock.Anything).Return(sevenIdeas(), nil)

	w := f.do(t, http.MethodPost, "/api/gifts", validProfile())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Len(t, body["ideas"], 7)

	items := f.history.Items()
	require.Len(t, items, 1, "a successful generation lands in history")
	assert.Equal(t, validProfile(), items[0].Profile)
	f.gen.AssertExpectations(t)
}

func TestHandleGenerate_InvalidBody(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/gifts", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", errorField(t, w)["kind"])
}

func TestHandleGenerate_IncompleteProfile(t *testing.T) {
	f := newFixture(t)

	profile := validProfile()
	profile.Interests = ""
	w := f.do(t, http.MethodPost, "/api/gifts", profile)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_profile", errorField(t, w)["kind"])
	assert.Empty(t, f.history.Items())
}

func TestHandleGenerate_BusyUntilReset(t *testing.T) {
	f := newFixture(t)
	f.gen.On("GenerateGiftIdeas", mock.Anything, mock.Anything).Return(sevenIdeas(), nil)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/gifts", validProfile()).Code)

	// The machine sits in Success; a second submit needs a reset first.
	w := f.do(t, http.MethodPost, "/api/gifts", validProfile())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "busy", errorField(t, w)["kind"])

	reset := f.do(t, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, reset.Code)
	assert.Equal(t, "idle", decodeBody(t, reset)["state"])

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/gifts", validProfile()).Code)
}

func TestHandleGenerate_ErrorStatusByKind(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"configuration", &concierge.Error{Kind: concierge.KindConfiguration, Message: "API_KEY_MISSING"}, http.StatusServiceUnavailable, "configuration"},
		{"rate limited", &concierge.Error{Kind: concierge.KindRateLimited, Message: "quota"}, http.StatusTooManyRequests, "rate_limited"},
		{"safety blocked", &concierge.Error{Kind: concierge.KindSafetyBlocked, Message: "blocked"}, http.StatusUnprocessableEntity, "safety_blocked"},
		{"access denied", &concierge.Error{Kind: concierge.KindAccessDenied, Message: "forbidden"}, http.StatusBadGateway, "access_denied"},
		{"empty response", &concierge.Error{Kind: concierge.KindEmptyResponse, Message: "empty"}, http.StatusBadGateway, "empty_response"},
		{"generic", &concierge.Error{Kind: concierge.KindGeneration, Message: "boom"}, http.StatusBadGateway, "generation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.gen.On("GenerateGiftIdeas", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := f.do(t, http.MethodPost, "/api/gifts", validProfile())

			assert.Equal(t, tt.wantStatus, w.Code)
			errObj := errorField(t, w)
			assert.Equal(t, tt.wantKind, errObj["kind"])
			assert.NotEmpty(t, errObj["message"])
			assert.Empty(t, f.history.Items(), "failed generations never land in history")
		})
	}
}

func TestHandleGenerate_ParsingErrorExposesRawPrefix(t *testing.T) {
	f := newFixture(t)
	f.gen.On("GenerateGiftIdeas", mock.Anything, mock.Anything).
		Return(nil, &concierge.Error{Kind: concierge.KindParsing, Message: "unreadable", RawPrefix: "I'm sorry, I can't..."})

	w := f.do(t, http.MethodPost, "/api/gifts", validProfile())

	assert.Equal(t, http.StatusBadGateway, w.Code)
	errObj := errorField(t, w)
	assert.Equal(t, "parsing", errObj["kind"])
	assert.Equal(t, "I'm sorry, I can't...", errObj["raw"])
	assert.Contains(t, errObj["report"], "mailto:")
}

func TestHandleGenerate_FailureRecoversViaReset(t *testing.T) {
	f := newFixture(t)
	f.gen.On("GenerateGiftIdeas", mock.Anything, mock.Anything).
		Return(nil, &concierge.Error{Kind: concierge.KindGeneration, Message: "boom"}).Once()
	f.gen.On("GenerateGiftIdeas", mock.Anything, mock.Anything).Return(sevenIdeas(), nil).Once()

	require.Equal(t, http.StatusBadGateway, f.do(t, http.MethodPost, "/api/gifts", validProfile()).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/reset", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/gifts", validProfile()).Code)
}

func TestHistoryEndpoints(t *testing.T) {
	f := newFixture(t)
	f.gen.On("GenerateGiftIdeas", mock.Anything, mock.Anything).Return(sevenIdeas(), nil)

	empty := f.do(t, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, empty.Code)
	assert.Len(t, decodeBody(t, empty)["history"], 0)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/gifts", validProfile()).Code)

	filled := f.do(t, http.MethodGet, "/api/history", nil)
	assert.Len(t, decodeBody(t, filled)["history"], 1)

	cleared := f.do(t, http.MethodDelete, "/api/history", nil)
	require.Equal(t, http.StatusOK, cleared.Code)
	assert.Len(t, decodeBody(t, cleared)["history"], 0)
	assert.Empty(t, f.history.Items())

	// Clearing twice stays a success.
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/api/history", nil).Code)
}

func TestShareEndpoints_RoundTrip(t *testing.T) {
	f := newFixture(t)

	payload := shareRequest{Profile: validProfile(), Gifts: sevenIdeas()[:2]}
	created := f.do(t, http.MethodPost, "/api/share", payload)
	require.Equal(t, http.StatusOK, created.Code, created.Body.String())

	body := decodeBody(t, created)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	assert.Contains(t, body["url"], token)

	resolved := f.do(t, http.MethodGet, "/api/share?token="+token, nil)
	require.Equal(t, http.StatusOK, resolved.Code)
	resolvedBody := decodeBody(t, resolved)
	assert.Equal(t, true, resolvedBody["shared"])
	assert.Len(t, resolvedBody["gifts"], 2)
}

func TestShareEndpoints_DefectiveTokenIsNotAnError(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/share", "/api/share?token=%21%21garbage"} {
		w := f.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeBody(t, w)["shared"])
	}
}

func TestArchiveEndpoints_DisabledWithoutStore(t *testing.T) {
	f := newFixture(t)

	saved := f.do(t, http.MethodPost, "/api/archive", shareRequest{Profile: validProfile()})
	assert.Equal(t, http.StatusNotFound, saved.Code)
	assert.Equal(t, "archive_disabled", errorField(t, saved)["kind"])

	loaded := f.do(t, http.MethodGet, "/api/archive/some-id", nil)
	assert.Equal(t, http.StatusNotFound, loaded.Code)
	assert.Equal(t, "archive_disabled", errorField(t, loaded)["kind"])
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
