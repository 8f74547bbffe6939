// Package queue defines the player change notifications exchanged over
// RabbitMQ and the consumer used by `tierctl watch`.
package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/combat-tiers/internal/model"
)

// EventType names a kind of player change. It doubles as the AMQP message type.
type EventType string

const (
	PlayerCreated EventType = "player.created"
	PlayerUpdated EventType = "player.updated"
	PlayerDeleted EventType = "player.deleted"
)

// PlayerEvent is published after a player write has been persisted. Player is
// nil for deletions.
type PlayerEvent struct {
	ID         string        `json:"id"`
	Type       EventType     `json:"type"`
	PlayerID   int64         `json:"player_id"`
	Player     *model.Player `json:"player,omitempty"`
	OccurredAt string        `json:"occurred_at"`
}

// NewPlayerEvent stamps a fresh id and the current UTC time.
func NewPlayerEvent(t EventType, id int64, p *model.Player) PlayerEvent {
	if p != nil {
		p = p.Clone()
	}
	return PlayerEvent{
		ID:         uuid.NewString(),
		Type:       t,
		PlayerID:   id,
		Player:     p,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// String renders the event as a single log line.
func (e PlayerEvent) String() string {
	if e.Player == nil {
		return fmt.Sprintf("[%s] %s | id=%d", e.OccurredAt, e.Type, e.PlayerID)
	}
	p := e.Player
	return fmt.Sprintf("[%s] %s | id=%d | name=%q | region=%q | tier=%s | mace=%s | points=%d | title=%q",
		e.OccurredAt, e.Type, e.PlayerID, p.PlayerName, p.Region,
		orDash(p.TierClass), orDash(p.MaceTier), p.Points, p.PlayerTitle)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
