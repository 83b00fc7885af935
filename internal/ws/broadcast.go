package ws

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/bryanseely/house-olympics/internal/olympics"
	"github.com/bryanseely/house-olympics/internal/pool"
	"github.com/bryanseely/house-olympics/internal/roster"
	"github.com/bryanseely/house-olympics/internal/service"
	"github.com/bryanseely/house-olympics/internal/store"
	"github.com/gorilla/websocket"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// Broadcaster relays store changes to websocket clients. It subscribes to
// the players, events, and sessions collections, coalesces bursts of changes
// behind a throttle, and re-sends a full snapshot on a fixed interval so
// clients recover from any dropped delta.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool

	store          *store.Store
	throttle       time.Duration
	snapshotTicker *time.Ticker
	cancels        []func()

	flushMu    sync.Mutex
	pending    map[string][]store.Document
	flushTimer *time.Timer
}

func NewBroadcaster(st *store.Store, throttle, snapshotInterval time.Duration) *Broadcaster {
	b := &Broadcaster{
		clients:  make(map[*client]bool),
		store:    st,
		throttle: throttle,
		pending:  make(map[string][]store.Document),
	}

	for _, collection := range []string{roster.Collection, pool.Collection, service.SessionCollection} {
		ch, cancel := st.Subscribe(collection)
		b.cancels = append(b.cancels, cancel)
		go b.watch(collection, ch)
	}

	b.snapshotTicker = time.NewTicker(snapshotInterval)
	go b.snapshotLoop()

	return b
}

// Close stops the subscription watchers and the snapshot loop.
func (b *Broadcaster) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
	b.snapshotTicker.Stop()
}

func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	msg := WSMessage{Type: MsgSnapshot, Payload: b.snapshot()}
	data, _ := json.Marshal(msg)

	select {
	case c.send <- data:
	default:
		// Client too slow, drop the snapshot
	}

	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// AnnounceChampions pushes the champion reveal for a finalized session,
// bypassing the delta throttle.
func (b *Broadcaster) AnnounceChampions(sess *olympics.Session) {
	payload := ChampionsPayload{
		SessionID:   sess.ID,
		SessionName: sess.Name,
	}
	if p, ok := sess.PlayerByID(sess.PointsChampID); ok {
		cp := *p
		payload.PointsChamp = &cp
	}
	if p, ok := sess.PlayerByID(sess.StarsChampID); ok {
		cp := *p
		payload.StarsChamp = &cp
	}
	b.broadcast(WSMessage{Type: MsgChampions, Payload: payload})
}

// watch queues each document set pushed by the store subscription. Only the
// most recent set per collection survives coalescing.
func (b *Broadcaster) watch(collection string, ch <-chan []store.Document) {
	for docs := range ch {
		b.flushMu.Lock()
		b.pending[collection] = docs
		if b.flushTimer == nil {
			b.flushTimer = time.AfterFunc(b.throttle, b.flush)
		}
		b.flushMu.Unlock()
	}
}

func (b *Broadcaster) flush() {
	b.flushMu.Lock()
	pending := b.pending
	b.pending = make(map[string][]store.Document)
	b.flushTimer = nil
	b.flushMu.Unlock()

	for collection, docs := range pending {
		payload, err := decodeCollection(collection, docs)
		if err != nil {
			log.Printf("broadcast decode error: %v", err)
			continue
		}
		b.broadcast(WSMessage{Type: MsgCollection, Payload: payload})
	}
}

func (b *Broadcaster) snapshotLoop() {
	for range b.snapshotTicker.C {
		b.broadcast(WSMessage{Type: MsgSnapshot, Payload: b.snapshot()})
	}
}

func (b *Broadcaster) snapshot() SnapshotPayload {
	payload := SnapshotPayload{
		Players:  []roster.Player{},
		Events:   []olympics.PoolEvent{},
		Sessions: []*olympics.Session{},
	}

	if players, err := roster.List(b.store); err == nil {
		payload.Players = roster.HallOfFame(players)
	} else {
		log.Printf("snapshot players error: %v", err)
	}
	if events, err := pool.List(b.store); err == nil {
		payload.Events = events
	} else {
		log.Printf("snapshot events error: %v", err)
	}
	if sessions, err := decodeSessions(b.store.List(service.SessionCollection)); err == nil {
		payload.Sessions = sessions
	} else {
		log.Printf("snapshot sessions error: %v", err)
	}

	return payload
}

func decodeCollection(collection string, docs []store.Document) (CollectionPayload, error) {
	payload := CollectionPayload{Collection: collection}
	switch collection {
	case roster.Collection:
		players := make([]roster.Player, 0, len(docs))
		for _, doc := range docs {
			p, err := roster.Decode(doc)
			if err != nil {
				return payload, err
			}
			players = append(players, p)
		}
		payload.Players = roster.HallOfFame(players)
	case pool.Collection:
		events := make([]olympics.PoolEvent, 0, len(docs))
		for _, doc := range docs {
			ev, err := pool.Decode(doc)
			if err != nil {
				return payload, err
			}
			events = append(events, ev)
		}
		payload.Events = events
	case service.SessionCollection:
		sessions, err := decodeSessions(docs)
		if err != nil {
			return payload, err
		}
		payload.Sessions = sessions
	}
	return payload, nil
}

func decodeSessions(docs []store.Document) ([]*olympics.Session, error) {
	sessions := make([]*olympics.Session, 0, len(docs))
	for _, doc := range docs {
		sess, err := service.DecodeSession(doc)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt > sessions[j].CreatedAt
	})
	return sessions, nil
}

func (b *Broadcaster) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			// Client can't keep up, disconnect it
			log.Printf("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
