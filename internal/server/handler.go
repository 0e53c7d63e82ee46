package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/giftgenius/giftgenius-api/internal/archive"
	"github.com/giftgenius/giftgenius-api/internal/concierge"
	"github.com/giftgenius/giftgenius-api/internal/flow"
	"github.com/giftgenius/giftgenius-api/internal/history"
	"github.com/giftgenius/giftgenius-api/internal/logger"
	"github.com/giftgenius/giftgenius-api/internal/models"
	"github.com/giftgenius/giftgenius-api/internal/share"
)

// expectedIdeaCount is what the prompt asks for; a differing count is
// accepted and logged, never rejected.
const expectedIdeaCount = 7

// Generator is the slice of the concierge client the handlers need; tests
// substitute a fake.
type Generator interface {
	GenerateGiftIdeas(ctx context.Context, profile models.RecipientProfile) ([]models.GiftIdea, error)
}

type Handler struct {
	gen     Generator
	history *history.Store
	// archive may be nil; every archive route answers "disabled" then.
	archive archive.Store
	flow    *flow.Machine
	baseURL string
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(gen Generator, hist *history.Store, arch archive.Store, machine *flow.Machine, baseURL string, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		gen:     gen,
		history: hist,
		archive: arch,
		flow:    machine,
		baseURL: baseURL,
		timeout: timeout,
		log:     log,
	}
}

// HandleGenerate runs one generation attempt: validate, gate on the state
// machine, call the model, append history on success.
func (h *Handler) HandleGenerate(c *gin.Context) {
	var profile models.RecipientProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request", "The request body could not be read.")
		return
	}
	if err := profile.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_profile", err.Error())
		return
	}

	if err := h.flow.Submit(); err != nil {
		h.sendError(c, http.StatusConflict, "busy", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	ideas, err := h.gen.GenerateGiftIdeas(ctx, profile)
	if err != nil {
		_ = h.flow.Fail()
		h.log.Error("gift generation failed", "kind", concierge.KindOf(err).String(), "error", err)
		h.sendGenerationError(c, err)
		return
	}
	_ = h.flow.Succeed()

	if len(ideas) != expectedIdeaCount {
		h.log.Warn("unexpected idea count", "want", expectedIdeaCount, "got", len(ideas))
	}

	item := models.HistoryItem{Date: time.Now().UTC(), Profile: profile, Ideas: ideas}
	if err := h.history.Append(item); err != nil {
		// History is best-effort; a write failure never fails the request.
		h.log.Warn("failed to persist history", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

// HandleReset returns the machine to Idle so a new submit is reachable,
// clearing nothing but the flow state. History survives resets.
func (h *Handler) HandleReset(c *gin.Context) {
	if err := h.flow.Reset(); err != nil {
		h.sendError(c, http.StatusConflict, "busy", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.flow.State().String()})
}

func (h *Handler) HandleHistory(c *gin.Context) {
	items := h.history.Items()
	if items == nil {
		items = []models.HistoryItem{}
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (h *Handler) HandleClearHistory(c *gin.Context) {
	if err := h.history.Clear(); err != nil {
		h.log.Warn("failed to clear history file", "error", err)
	}
	// The in-memory mirror is cleared regardless; report success.
	c.JSON(http.StatusOK, gin.H{"history": []models.HistoryItem{}})
}

type shareRequest struct {
	Profile models.RecipientProfile `json:"profile"`
	Gifts   []models.GiftIdea       `json:"gifts"`
}

func (h *Handler) HandleCreateShare(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request", "The request body could not be read.")
		return
	}
	token, err := share.Encode(req.Profile, req.Gifts)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "encode_failed", "The share link could not be created.")
		return
	}
	shareURL, err := share.BuildURL(h.baseURL, token)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "encode_failed", "The share link could not be created.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "url": shareURL})
}

// HandleResolveShare decodes a share token. An absent or defective token is
// "no shared state", reported with 200 so page load never trips on it.
func (h *Handler) HandleResolveShare(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.Query(share.QueryParam)
	}
	state := share.Decode(token)
	if state == nil {
		c.JSON(http.StatusOK, gin.H{"shared": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shared": true, "profile": state.Profile, "gifts": state.Gifts})
}

func (h *Handler) HandleArchiveSave(c *gin.Context) {
	if h.archive == nil {
		h.sendError(c, http.StatusNotFound, "archive_disabled", "The shared-list archive is not enabled.")
		return
	}
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request", "The request body could not be read.")
		return
	}
	id, err := h.archive.Save(c.Request.Context(), req.Profile, req.Gifts)
	if err != nil {
		h.log.Error("archive save failed", "error", err)
		h.sendError(c, http.StatusInternalServerError, "archive_failed", "The list could not be saved.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handler) HandleArchiveLoad(c *gin.Context) {
	if h.archive == nil {
		h.sendError(c, http.StatusNotFound, "archive_disabled", "The shared-list archive is not enabled.")
		return
	}
	id := c.Param("id")
	state, err := h.archive.Load(c.Request.Context(), id)
	if err != nil {
		h.log.Error("archive load failed", "id", id, "error", err)
		h.sendError(c, http.StatusInternalServerError, "archive_failed", "The list could not be loaded.")
		return
	}
	if state == nil {
		h.sendError(c, http.StatusNotFound, "not_found", "No shared list exists with that id.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": state.Profile, "gifts": state.Gifts})
}

func (h *Handler) sendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"kind": code, "message": message}})
}

// sendGenerationError maps the error kind to an HTTP status and the copy the
// client shows. Parsing failures additionally expose the bounded raw prefix
// and invite an out-of-band report.
func (h *Handler) sendGenerationError(c *gin.Context, err error) {
	kind := concierge.KindOf(err)

	var status int
	var message string
	switch kind {
	case concierge.KindConfiguration:
		status = http.StatusServiceUnavailable
		message = "The service is not configured with an AI API key yet. Please contact the site owner."
	case concierge.KindRateLimited:
		status = http.StatusTooManyRequests
		message = "The service is busy right now. Please wait a moment and try again."
	case concierge.KindSafetyBlocked:
		status = http.StatusUnprocessableEntity
		message = "The request was flagged by safety filters. Please try rewording it."
	case concierge.KindAccessDenied:
		status = http.StatusBadGateway
		message = "The AI service rejected our credentials. Please try again later."
	case concierge.KindEmptyResponse:
		status = http.StatusBadGateway
		message = "The AI returned an empty answer. Please try again."
	case concierge.KindParsing:
		status = http.StatusBadGateway
		message = "The AI answer could not be read. Please try again, or report this if it keeps happening."
	default:
		status = http.StatusBadGateway
		message = "We couldn't generate ideas right now. Please try again."
	}

	body := gin.H{"kind": kind.String(), "message": message}
	var ce *concierge.Error
	if errors.As(err, &ce) && ce.RawPrefix != "" {
		body["raw"] = ce.RawPrefix
		body["report"] = "mailto:support@giftgenius.app?subject=Unreadable%20AI%20response"
	}
	c.JSON(status, gin.H{"error": body})
}
