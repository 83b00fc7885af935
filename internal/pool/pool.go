package pool

import (
	"encoding/json"
	"fmt"

	"github.com/bryanseely/house-olympics/internal/olympics"
	"github.com/bryanseely/house-olympics/internal/store"
)

// Collection is the store collection holding pool event documents. The
// engine reads these; pool editing happens outside it.
const Collection = "events"

// Decode unmarshals a pool event document, stamping the document id.
func Decode(doc store.Document) (olympics.PoolEvent, error) {
	var ev olympics.PoolEvent
	if err := json.Unmarshal(doc.Data, &ev); err != nil {
		return olympics.PoolEvent{}, fmt.Errorf("parsing pool event %s: %w", doc.ID, err)
	}
	ev.ID = doc.ID
	return ev, nil
}

// Encode marshals a pool event for storage.
func Encode(ev olympics.PoolEvent) (json.RawMessage, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshaling pool event %s: %w", ev.ID, err)
	}
	return data, nil
}

// List returns every event in the pool.
func List(st *store.Store) ([]olympics.PoolEvent, error) {
	docs := st.List(Collection)
	events := make([]olympics.PoolEvent, 0, len(docs))
	for _, doc := range docs {
		ev, err := Decode(doc)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
