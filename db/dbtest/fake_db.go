// Package dbtest provides an in-memory db.Repository for tests.
package dbtest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/cbsinteractive/keyframes/db"
)

// FakeRepository is an in-memory db.Repository. It stores copies, so
// callers may keep mutating the documents they pass in.
type FakeRepository struct {
	mu       sync.Mutex
	channels map[string]*db.Channel

	// Puts counts successful Put calls.
	Puts int

	// Err, when set, is returned by every method.
	Err error
}

// NewFakeRepository creates an empty repository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{channels: make(map[string]*db.Channel)}
}

func (r *FakeRepository) Put(_ context.Context, ch *db.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if err := ch.Validate(); err != nil {
		return err
	}
	r.channels[ch.ID] = clone(ch)
	r.Puts++
	return nil
}

func (r *FakeRepository) Get(_ context.Context, id string) (*db.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	ch, ok := r.channels[id]
	if !ok {
		return nil, db.ErrChannelNotFound
	}
	return clone(ch), nil
}

func (r *FakeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.channels[id]; !ok {
		return db.ErrChannelNotFound
	}
	delete(r.channels, id)
	return nil
}

func (r *FakeRepository) List(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	ids := make([]string, 0, len(r.channels))
	for id := range r.channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(ch *db.Channel) *db.Channel {
	c := *ch
	if ch.Keyframes == nil {
		return &c
	}
	c.Keyframes = make([]db.Keyframe, len(ch.Keyframes))
	for i, k := range ch.Keyframes {
		k.Payload = append(json.RawMessage(nil), k.Payload...)
		if len(k.Payload) == 0 {
			k.Payload = nil
		}
		c.Keyframes[i] = k
	}
	return &c
}
