// Package store persists the last-copied payload.  Stored records are
// plain serializable forms of a snapshot: live node handles never
// cross the store boundary.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/signadot/graft/index"
	"github.com/signadot/graft/ir"
)

// DefaultKey is the single slot the session writes.  A new copy fully
// overwrites it, last-writer-wins.
const DefaultKey = "last"

var ErrNotFound = errors.New("payload not found")

type Store interface {
	Put(key string, p *Payload) error
	Get(key string) (*Payload, error)
	Clear(key string) error
	Close() error
}

// Item is the serializable form of an index.LeafItem.
type Item struct {
	Path    ir.Path  `json:"path"`
	Name    string   `json:"name,omitempty"`
	Content string   `json:"content"`
	Locked  bool     `json:"locked,omitempty"`
	Font    *ir.Font `json:"font,omitempty"`
	StyleID string   `json:"styleId,omitempty"`
}

type Payload struct {
	ID        string      `json:"id"`
	Document  string      `json:"document,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	Stats     index.Stats `json:"stats"`
	Items     []Item      `json:"items"`
}

func FromSnapshot(snap *index.Snapshot, document string) *Payload {
	p := &Payload{
		ID:        uuid.NewString(),
		Document:  document,
		CreatedAt: time.Now().UTC(),
		Stats:     snap.Stats,
		Items:     make([]Item, len(snap.Items)),
	}
	for i := range snap.Items {
		it := &snap.Items[i]
		p.Items[i] = Item{
			Path:    it.Path.Clone(),
			Name:    it.Name,
			Content: it.Content,
			Locked:  it.Locked,
			StyleID: it.StyleID,
		}
		if it.Font != nil {
			f := *it.Font
			p.Items[i].Font = &f
		}
	}
	return p
}

// Snapshot reconstructs an index.Snapshot from the stored record.
// Items carry no node handles.
func (p *Payload) Snapshot() *index.Snapshot {
	snap := &index.Snapshot{
		Stats: p.Stats,
		Items: make([]index.LeafItem, len(p.Items)),
	}
	for i := range p.Items {
		it := &p.Items[i]
		snap.Items[i] = index.LeafItem{
			Path:    it.Path.Clone(),
			Name:    it.Name,
			Content: it.Content,
			Locked:  it.Locked,
			StyleID: it.StyleID,
		}
		if it.Font != nil {
			f := *it.Font
			snap.Items[i].Font = &f
		}
	}
	return snap
}
