package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/attempt"
	"github.com/stemsi/exstem-client/internal/response"
	"github.com/stemsi/exstem-client/internal/service"
	ws "github.com/stemsi/exstem-client/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams attempt events to the browser and accepts its input.
type WSHandler struct {
	attemptService *service.AttemptService
	hub            *ws.Hub
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, hub *ws.Hub, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		hub:            hub,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/attempts/:attempt_id/stream
// Pushes tick, state and navigate events; accepts answer, advance, submit
// and ping actions.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	id, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sess, err := h.attemptService.Get(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	out := ws.NewConn(raw)
	defer out.Close()

	wsLog := h.log.With().Str("attempt_id", id.String()).Logger()
	wsLog.Info().Msg("Stream connected")

	events, cancel := h.hub.Subscribe(id)
	defer cancel()

	if err := out.Write(ws.SnapshotResponse{Event: ws.EventLoaded, Snapshot: sess.Controller().Snapshot()}); err != nil {
		return
	}

	go func() {
		for msg := range events {
			if err := out.Write(msg); err != nil {
				wsLog.Debug().Err(err).Msg("Stream write failed")
				_ = out.Close()
				return
			}
		}
		// The attempt was discarded; ending the socket ends the read loop.
		out.CloseNormal("attempt closed")
	}()

	// Submissions must outlive a socket that drops mid-request.
	ctx := context.WithoutCancel(c.Request.Context())

	for {
		msg, err := out.Read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionAnswer:
			h.handleAnswer(out, sess, &msg)
		case ws.ActionAdvance:
			h.handleAdvance(out, sess, &msg)
		case ws.ActionSubmit:
			h.handleSubmit(ctx, out, wsLog, sess)
		case ws.ActionPing:
			_ = out.Write(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			_ = out.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

func (h *WSHandler) handleAnswer(out *ws.Conn, sess *service.Session, msg *ws.RequestPayload) {
	if msg.QuestionID <= 0 {
		_ = out.WriteError("q_id is required")
		return
	}
	if !sess.Controller().RecordAnswer(msg.QuestionID, msg.Answer) {
		_ = out.WriteError("answer not accepted")
		return
	}
	_ = out.Write(ws.SuccessResponse{Event: ws.EventSuccess, Status: "saved"})
}

func (h *WSHandler) handleAdvance(out *ws.Conn, sess *service.Session, msg *ws.RequestPayload) {
	dir := attempt.Direction(msg.Direction)
	if dir != attempt.DirectionNext && dir != attempt.DirectionPrevious {
		_ = out.WriteError("direction must be next or previous")
		return
	}
	sess.Controller().Advance(dir)
	_ = out.Write(ws.SuccessResponse{Event: ws.EventSuccess, Status: "moved"})
}

func (h *WSHandler) handleSubmit(ctx context.Context, out *ws.Conn, wsLog zerolog.Logger, sess *service.Session) {
	if _, err := h.attemptService.Submit(ctx, sess.ID); err != nil {
		wsLog.Warn().Err(err).Msg("Submit from stream failed")
		_ = out.WriteError("submission failed: " + err.Error())
		return
	}
	// The state and navigate events follow through the hub.
	_ = out.Write(ws.SuccessResponse{Event: ws.EventSuccess, Status: "submitted"})
}
