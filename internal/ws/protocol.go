package ws

import (
	"github.com/bryanseely/house-olympics/internal/olympics"
	"github.com/bryanseely/house-olympics/internal/roster"
)

type MessageType string

const (
	MsgSnapshot   MessageType = "snapshot"
	MsgCollection MessageType = "collection"
	MsgChampions  MessageType = "champions"
	MsgError      MessageType = "error"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// SnapshotPayload carries the full current state of all three collections.
type SnapshotPayload struct {
	Players  []roster.Player      `json:"players"`
	Events   []olympics.PoolEvent `json:"events"`
	Sessions []*olympics.Session  `json:"sessions"`
}

// CollectionPayload carries the replacement document set for one collection
// after a change. Exactly one of the three slices is populated, named by
// Collection.
type CollectionPayload struct {
	Collection string               `json:"collection"`
	Players    []roster.Player      `json:"players,omitempty"`
	Events     []olympics.PoolEvent `json:"events,omitempty"`
	Sessions   []*olympics.Session  `json:"sessions,omitempty"`
}

// ChampionsPayload announces a finalized session's titles.
type ChampionsPayload struct {
	SessionID   string                `json:"sessionId"`
	SessionName string                `json:"sessionName"`
	PointsChamp *olympics.PlayerState `json:"pointsChamp,omitempty"`
	StarsChamp  *olympics.PlayerState `json:"starsChamp,omitempty"`
}
