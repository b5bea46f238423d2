package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"wavebot/internal/infrastructure"
	"wavebot/internal/interfaces"
)

// sendRequest is one outbound trigger entry. The webhook accepts either a
// single object or an array of these.
type sendRequest struct {
	UserPhone string `json:"userPhone"`
	Message   string `json:"mssg"`
}

type sendResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	For       string `json:"for"`
	MessageID string `json:"messageId,omitempty"`
	Status    int    `json:"status"`
}

// SessionInfo exposes the WhatsApp session state the HTTP layer reports on.
type SessionInfo interface {
	GetQR() string
	IsLoggedIn() bool
	IsConnected() bool
}

type Handler struct {
	sender  interfaces.Sender
	limiter *infrastructure.RecipientRateLimiter
	session SessionInfo
	log     *slog.Logger
}

func NewHandler(sender interfaces.Sender, limiter *infrastructure.RecipientRateLimiter, session SessionInfo, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sender:  sender,
		limiter: limiter,
		session: session,
		log:     logger.With("component", "http"),
	}
}

func SetupRoutes(r *gin.Engine, sender interfaces.Sender, limiter *infrastructure.RecipientRateLimiter, session SessionInfo, logger *slog.Logger) {
	h := NewHandler(sender, limiter, session, logger)

	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(10 << 20)) // 10MB max request size

	r.POST("/api/webhook/whatsapp", h.HandleOutboundTrigger)
	r.GET("/api/whatsapp/qr", h.GetQRCode)
	r.GET("/api/whatsapp/status", h.GetStatus)
	r.GET("/healthz", h.Healthz)
}

// HandleOutboundTrigger sends platform-initiated messages (nudges, match
// announcements). The body is either one sendRequest or an array; array
// entries are dispatched concurrently and each gets its own result.
func (h *Handler) HandleOutboundTrigger(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	ctx := c.Request.Context()

	var batch []sendRequest
	if err := json.Unmarshal(body, &batch); err != nil {
		var single sendRequest
		if err := json.Unmarshal(body, &single); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
			return
		}
		res := h.dispatch(ctx, single)
		c.JSON(res.Status, res)
		return
	}

	results := make([]sendResult, len(batch))
	var wg sync.WaitGroup
	for i, req := range batch {
		wg.Add(1)
		go func(i int, req sendRequest) {
			defer wg.Done()
			results[i] = h.dispatch(ctx, req)
		}(i, req)
	}
	wg.Wait()

	c.JSON(http.StatusOK, results)
}

func (h *Handler) dispatch(ctx context.Context, req sendRequest) sendResult {
	if req.UserPhone == "" || req.Message == "" {
		return sendResult{
			Success: false,
			Error:   "Invalid message object",
			For:     req.UserPhone,
			Status:  http.StatusBadRequest,
		}
	}

	if !h.limiter.Allow(req.UserPhone) {
		h.log.Warn("rate limit exceeded for recipient", "phone", req.UserPhone)
		return sendResult{
			Success: false,
			Error:   "Rate limit exceeded",
			For:     req.UserPhone,
			Status:  http.StatusTooManyRequests,
		}
	}

	id, err := h.sender.Send(ctx, req.UserPhone, req.Message)
	if err != nil {
		h.log.Error("failed to send triggered message", "phone", req.UserPhone, "error", err)
		return sendResult{
			Success: false,
			Error:   err.Error(),
			For:     req.UserPhone,
			Status:  http.StatusInternalServerError,
		}
	}

	return sendResult{
		Success:   true,
		For:       req.UserPhone,
		MessageID: id,
		Status:    http.StatusOK,
	}
}

// GetQRCode returns the pending pairing QR as a PNG.
func (h *Handler) GetQRCode(c *gin.Context) {
	qr := h.session.GetQR()
	if qr == "" {
		if h.session.IsLoggedIn() {
			c.String(http.StatusOK, "Already logged in")
			return
		}
		c.String(http.StatusAccepted, "QR code not yet available. Please wait...")
		return
	}

	png, err := qrcode.Encode(qr, qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected": h.session.IsConnected(),
		"loggedIn":  h.session.IsLoggedIn(),
		"hasQR":     h.session.GetQR() != "",
	})
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
