package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/ops"
)

// requestIDHeader is the header carrying the per-request correlation id
// assigned by requestIDMiddleware.
const requestIDHeader = "X-Request-Id"

// requestIDMiddleware assigns each request an opaque id, echoed back on
// the response and available to handlers for idempotency keys or log
// correlation. A caller-supplied X-Request-Id is honored as-is so
// retried requests can be traced to the same id.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestId", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Handler wires the operations facade to the HTTP surface. hub fans out
// channel and settlement events to subscribed dashboards.
type Handler struct {
	node *ops.NodeOps
	hub  *Hub
}

// SetupRouter builds the gin engine: CORS, rate limiting, the public
// health and websocket endpoints, and the bearer-auth-protected
// content, query, channel, and settlement routes.
func SetupRouter(node *ops.NodeOps, hub *Hub) *gin.Engine {
	h := &Handler{node: node, hub: hub}
	r := gin.Default()

	r.Use(requestIDMiddleware())
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", h.handleHealth)
	r.GET("/stream", hub.Subscribe)

	protected := r.Group("/")
	protected.Use(AuthMiddleware())
	protected.Use(NewRateLimiter(120, 30).Middleware())
	{
		protected.POST("/content", h.handleCreateContent)
		protected.GET("/content/:hash", h.handlePreviewContent)
		protected.GET("/content/:hash/versions", h.handleGetVersions)
		protected.POST("/content/:hash/publish", h.handlePublishContent)
		protected.POST("/content/:hash/unpublish", h.handleUnpublishContent)
		protected.PUT("/content/:hash", h.handleUpdateContent)
		protected.POST("/content/:hash/extract", h.handleExtractL1)
		protected.POST("/content/:hash/reference", h.handleReferenceL3AsL0)
		protected.POST("/content/derive", h.handleDeriveContent)

		protected.GET("/search", h.handleSearch)
		protected.POST("/query/:hash", h.handleQuery)

		protected.POST("/channels", h.handleOpenChannel)
		protected.POST("/channels/accept", h.handleAcceptChannel)
		protected.GET("/channels/:id", h.handleGetChannel)
		protected.POST("/channels/:peer/close", h.handleCloseChannel)
		protected.POST("/channels/:id/dispute", h.handleDisputeChannel)

		protected.POST("/settlement/trigger", h.handleTriggerSettlement)
		protected.POST("/settlement/force", h.handleForceSettlement)
	}

	return r
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"peerId": h.node.Self.String(),
	})
}

// writeError translates an ops error onto an HTTP status and JSON body.
// Errors not produced by the facade fall back to 500.
func writeError(c *gin.Context, err error) {
	var opsErr *ops.Error
	if !errors.As(err, &opsErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch opsErr.Code {
	case ops.CodeNotFound:
		status = http.StatusNotFound
	case ops.CodeInvalidHash, ops.CodeInvalidManifest:
		status = http.StatusBadRequest
	case ops.CodeInsufficientBalance, ops.CodePaymentRequired:
		status = http.StatusPaymentRequired
	case ops.CodeConnectionFailed:
		status = http.StatusBadGateway
	case ops.CodeAccessDenied:
		status = http.StatusForbidden
	}

	c.JSON(status, gin.H{
		"error":       opsErr.Message,
		"code":        opsErr.Code.String(),
		"suggestion":  opsErr.Suggestion,
		"recoverable": opsErr.Recoverable,
	})
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func parseHashParam(c *gin.Context, name string) (ndlcrypto.Hash, bool) {
	hash, err := ndlcrypto.ParseHash(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed hash: " + err.Error()})
		return ndlcrypto.Hash{}, false
	}
	return hash, true
}

func parsePeerParam(c *gin.Context, name string) (ndlcrypto.PeerId, bool) {
	peer, err := ndlcrypto.ParsePeerId(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed peer id: " + err.Error()})
		return ndlcrypto.PeerId{}, false
	}
	return peer, true
}

// ── content ──────────────────────────────────────────────────────

type createContentRequest struct {
	Content  []byte            `json:"content"`
	Metadata ndltypes.Metadata `json:"metadata"`
}

func (h *Handler) handleCreateContent(c *gin.Context) {
	var req createContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hash, err := h.node.CreateContent(c.Request.Context(), req.Content, req.Metadata)
	if err != nil {
		writeError(c, err)
		return
	}
	// Content is already content-addressed, so the request id only serves
	// as an idempotency/tracing key for clients that want to correlate
	// retried POSTs, not for de-duplication on our side.
	c.JSON(http.StatusCreated, gin.H{"hash": hash.String(), "requestId": c.GetString("requestId")})
}

func (h *Handler) handlePreviewContent(c *gin.Context) {
	hash, ok := parseHashParam(c, "hash")
	if !ok {
		return
	}
	manifest, err := h.node.PreviewContent(c.Request.Context(), hash)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, manifest)
}

func (h *Handler) handleGetVersions(c *gin.Context) {
	hash, ok := parseHashParam(c, "hash")
	if !ok {
		return
	}
	versions, err := h.node.GetVersions(c.Request.Context(), hash)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

type publishRequest struct {
	Visibility ndltypes.Visibility    `json:"visibility"`
	Price      ndltypes.Tinybars      `json:"price"`
	Access     ndltypes.AccessControl `json:"access"`
}

func (h *Handler) handlePublishContent(c *gin.Context) {
	hash, ok := parseHashParam(c, "hash")
	if !ok {
		return
	}
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.node.PublishContent(c.Request.Context(), hash, req.Visibility, req.Price, req.Access); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "published"})
}

func (h *Handler) handleUnpublishContent(c *gin.Context) {
	hash, ok := parseHashParam(c, "hash")
	if !ok {
		return
	}
	if err := h.node.UnpublishContent(c.Request.Context(), hash); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unpublished"})
}

type updateContentRequest struct {
	Content  []byte            `json:"content"`
	Metadata ndltypes.Metadata `json:"metadata"`
}

func (h *Handler) handleUpdateContent(c *gin.Context) {
	oldHash, ok := parseHashParam(c, "hash")
	if !ok {
		return
	}
	var req updateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newHash, err := h.node.UpdateContent(c.Request.Context(), oldHash, req.Content, req.Metadata)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hash": newHash.String()})
}

func (h *Handler) handleExtractL1(c *gin.Context) {
	hash, ok := parseHashParam(c, "hash")
	if !ok {
		return
	}
	mentions, err := h.node.ExtractL1(c.Request.Context(), hash)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", mentions)
}

type deriveContentRequest struct {
	Sources  []string          `json:"sources"`
	Insight  []byte            `json:"insight"`
	Metadata ndltypes.Metadata `json:"metadata"`
}

func (h *Handler) handleDeriveContent(c *gin.Context) {
	var req deriveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sources := make([]ndlcrypto.Hash, 0, len(req.Sources))
	for _, s := range req.Sources {
		hash, err := ndlcrypto.ParseHash(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed source hash: " + err.Error()})
			return
		}
		sources = append(sources, hash)
	}
	hash, err := h.node.DeriveContent(c.Request.Context(), sources, req.Insight, req.Metadata)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hash": hash.String()})
}

func (h *Handler) handleReferenceL3AsL0(c *gin.Context) {
	hash, ok := parseHashParam(c, "hash")
	if !ok {
		return
	}
	newHash, err := h.node.ReferenceL3AsL0(c.Request.Context(), hash)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hash": newHash.String()})
}

// ── search / query ───────────────────────────────────────────────

func (h *Handler) handleSearch(c *gin.Context) {
	q := c.Query("q")
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	var contentType *ndltypes.ContentType
	if v := c.Query("type"); v != "" {
		var ct ndltypes.ContentType
		if err := ct.UnmarshalText([]byte(v)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content type"})
			return
		}
		contentType = &ct
	}

	results, err := h.node.SearchContent(c.Request.Context(), q, contentType, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) handleQuery(c *gin.Context) {
	hash, ok := parseHashParam(c, "hash")
	if !ok {
		return
	}
	var req struct {
		Amount ndltypes.Tinybars `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.node.QueryContent(c.Request.Context(), hash, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content": res.Bytes,
		"receipt": res.Receipt,
	})
}

// ── channels ─────────────────────────────────────────────────────

func (h *Handler) handleOpenChannel(c *gin.Context) {
	var req struct {
		Peer    string            `json:"peer"`
		Deposit ndltypes.Tinybars `json:"deposit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	peer, err := ndlcrypto.ParsePeerId(req.Peer)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed peer id: " + err.Error()})
		return
	}
	ch, err := h.node.OpenChannel(c.Request.Context(), peer, req.Deposit)
	if err != nil {
		writeError(c, err)
		return
	}
	h.hub.Broadcast(mustJSON(gin.H{"event": "channel.opened", "channel": ch}))
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) handleAcceptChannel(c *gin.Context) {
	var req struct {
		ChannelID string            `json:"channelId"`
		Initiator string            `json:"initiator"`
		Deposit   ndltypes.Tinybars `json:"deposit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	channelID, err := ndlcrypto.ParseHash(req.ChannelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed channel id: " + err.Error()})
		return
	}
	initiator, err := ndlcrypto.ParsePeerId(req.Initiator)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed peer id: " + err.Error()})
		return
	}
	ch, err := h.node.AcceptChannel(c.Request.Context(), channelID, initiator, req.Deposit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) handleGetChannel(c *gin.Context) {
	channelID, err := ndlcrypto.ParseHash(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed channel id: " + err.Error()})
		return
	}
	ch, err := h.node.GetChannel(c.Request.Context(), channelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) handleCloseChannel(c *gin.Context) {
	peer, ok := parsePeerParam(c, "peer")
	if !ok {
		return
	}
	ch, err := h.node.CloseChannel(c.Request.Context(), peer)
	if err != nil {
		writeError(c, err)
		return
	}
	h.hub.Broadcast(mustJSON(gin.H{"event": "channel.closed", "channel": ch}))
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) handleDisputeChannel(c *gin.Context) {
	channelID, err := ndlcrypto.ParseHash(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed channel id: " + err.Error()})
		return
	}
	ch, err := h.node.DisputeChannel(c.Request.Context(), channelID)
	if err != nil {
		writeError(c, err)
		return
	}
	h.hub.Broadcast(mustJSON(gin.H{"event": "channel.disputed", "channel": ch}))
	c.JSON(http.StatusOK, ch)
}

// ── settlement ───────────────────────────────────────────────────

func (h *Handler) handleTriggerSettlement(c *gin.Context) {
	batchID, err := h.node.TriggerSettlement(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if !batchID.IsZero() {
		h.hub.Broadcast(mustJSON(gin.H{"event": "settlement.batched", "batchId": batchID.String()}))
	}
	c.JSON(http.StatusOK, gin.H{"batchId": batchID.String()})
}

func (h *Handler) handleForceSettlement(c *gin.Context) {
	batchID, err := h.node.ForceSettlement(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	h.hub.Broadcast(mustJSON(gin.H{"event": "settlement.batched", "batchId": batchID.String()}))
	c.JSON(http.StatusOK, gin.H{"batchId": batchID.String()})
}
