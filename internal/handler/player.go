// Package handler contains the HTTP handlers of the Player API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/combat-tiers/internal/model"
	"github.com/iliyamo/combat-tiers/internal/queue"
	"github.com/iliyamo/combat-tiers/internal/repository"
)

// Error bodies returned by the player endpoints.
const (
	msgInvalidID   = "Invalid player ID"
	msgInvalidBody = "Invalid request body"
	msgNotFound    = "Player not found"
	msgInternal    = "Internal server error"
)

// EventPublisher receives a notification after every successful write.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.PlayerEvent) error
}

// PlayerHandler serves /api/players. It holds no per-request state.
type PlayerHandler struct {
	Store          repository.PlayerStore
	Events         EventPublisher
	Logger         *slog.Logger
	PublishTimeout time.Duration
}

// NewPlayerHandler wires a handler. events may be nil.
func NewPlayerHandler(store repository.PlayerStore, events EventPublisher, logger *slog.Logger) *PlayerHandler {
	if store == nil || logger == nil {
		panic("nil dependency passed to NewPlayerHandler")
	}
	return &PlayerHandler{Store: store, Events: events, Logger: logger, PublishTimeout: 2 * time.Second}
}

// Create handles POST /api/players.
func (h *PlayerHandler) Create(c echo.Context) error {
	in, err := readInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	if err := in.Validate(); err != nil {
		return validationFailed(c, err)
	}

	p := in.ToPlayer(0)
	if err := h.Store.Create(c.Request().Context(), p); err != nil {
		return h.internalError(c, "create player", err)
	}
	h.publish(c, queue.PlayerCreated, p.ID, p)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Player added successfully", "player": p})
}

// List handles GET /api/players.
func (h *PlayerHandler) List(c echo.Context) error {
	players, err := h.Store.ListAll(c.Request().Context())
	if err != nil {
		return h.internalError(c, "list players", err)
	}
	return c.JSON(http.StatusOK, players)
}

// Update handles PUT /api/players/:id. Points and title are recomputed
// from the submitted tiers; the stored rank is left alone.
func (h *PlayerHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidID})
	}
	in, err := readInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	if err := in.Validate(); err != nil {
		return validationFailed(c, err)
	}

	p := in.ToPlayer(id)
	if err := h.Store.Update(c.Request().Context(), p); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgNotFound})
		}
		return h.internalError(c, "update player", err)
	}
	h.publish(c, queue.PlayerUpdated, id, p)
	return c.JSON(http.StatusOK, echo.Map{"message": "Player updated successfully", "player": p})
}

// Delete handles DELETE /api/players/:id.
func (h *PlayerHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidID})
	}
	if err := h.Store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgNotFound})
		}
		return h.internalError(c, "delete player", err)
	}
	h.publish(c, queue.PlayerDeleted, id, nil)
	return c.JSON(http.StatusOK, echo.Map{"message": "Player deleted successfully"})
}

// readInput decodes the JSON body. An empty body or `null` yields a zero
// input, which then fails validation on the player name.
func readInput(c echo.Context) (model.PlayerInput, error) {
	var in model.PlayerInput
	err := json.NewDecoder(c.Request().Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		return in, nil
	}
	return in, err
}

// parseID reads a path id leniently: leading whitespace, an optional sign,
// then the leading run of digits ("0x" switches to hex). Trailing text is
// ignored, so "1abc" and "1.5" both mean 1. Only a segment with no leading
// digits is rejected. Out-of-range values clamp and match no row.
func parseID(raw string) (int64, bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base, isDigit := 10, isDecimal
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHex
		s = s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	digits := s[:end]
	if neg {
		digits = "-" + digits
	}
	id, _ := strconv.ParseInt(digits, base, 64)
	return id, true
}

func isDecimal(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDecimal(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func validationFailed(c echo.Context, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

func (h *PlayerHandler) internalError(c echo.Context, op string, err error) error {
	h.Logger.Error(op+" failed", slog.Any("error", err), slog.String("path", c.Request().URL.Path))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgInternal})
}

// publish is best effort: a failure is logged and never changes the response.
func (h *PlayerHandler) publish(c echo.Context, t queue.EventType, id int64, p *model.Player) {
	if h.Events == nil {
		return
	}
	timeout := h.PublishTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), timeout)
	defer cancel()
	if err := h.Events.Publish(ctx, queue.NewPlayerEvent(t, id, p)); err != nil {
		h.Logger.Warn("publish player event failed", slog.String("type", string(t)), slog.Int64("player_id", id), slog.Any("error", err))
	}
}
