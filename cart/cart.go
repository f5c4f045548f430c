// Package cart implements the per-user cart store: a single persisted key
// holding a JSON-serialized item list, with a change notification published
// on every mutation so other consumers can re-read without polling.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// Item is a denormalized snapshot of a course at the time it was added.
type Item struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

// Event actions carried by cart change notifications
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
	ActionCleared = "cleared"
)

// Event is the typed payload broadcast after every cart mutation.
type Event struct {
	Action string `json:"action"`
	Items  []Item `json:"items"`
}

// ErrDuplicate is returned when adding a course id already in the cart.
var ErrDuplicate = errors.New("course already in cart")

// Backend abstracts the persistence medium and the notification channel.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Publish(ctx context.Context, channel, payload string) error
	Subscribe(ctx context.Context, channel string) (<-chan string, error)
}

// Store is the cart store over a Backend.
type Store struct {
	backend Backend
}

// CartStore is the global store instance, set during startup.
var CartStore *Store

func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// Key returns the persisted cart key for a user.
func Key(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

// Channel returns the notification channel for a user's cart.
func Channel(userID uint) string {
	return fmt.Sprintf("cart:events:%d", userID)
}

// Read returns the user's cart. A missing key is an empty cart; malformed
// content is logged and treated as empty rather than failing the caller.
func (s *Store) Read(ctx context.Context, userID uint) ([]Item, error) {
	raw, found, err := s.backend.Get(ctx, Key(userID))
	if err != nil {
		return nil, err
	}
	if !found {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("Malformed cart payload for user %d, treating as empty: %v", userID, err)
		return []Item{}, nil
	}
	return items, nil
}

// Contains reports whether the user's cart holds the given course id.
func (s *Store) Contains(ctx context.Context, userID, courseID uint) (bool, error) {
	items, err := s.Read(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.ID == courseID {
			return true, nil
		}
	}
	return false, nil
}

// Add appends a course snapshot to the cart. Duplicate course ids are
// rejected with ErrDuplicate: no write, no notification.
func (s *Store) Add(ctx context.Context, userID uint, item Item) ([]Item, error) {
	items, err := s.Read(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, existing := range items {
		if existing.ID == item.ID {
			return items, ErrDuplicate
		}
	}

	items = append(items, item)
	if err := s.write(ctx, userID, items); err != nil {
		return nil, err
	}
	s.notify(ctx, userID, ActionAdded, items)
	return items, nil
}

// Remove deletes a course from the cart. Removing an absent id is a no-op
// write of the unchanged list, matching last-writer-wins semantics.
func (s *Store) Remove(ctx context.Context, userID, courseID uint) ([]Item, error) {
	items, err := s.Read(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != courseID {
			updated = append(updated, item)
		}
	}

	if err := s.write(ctx, userID, updated); err != nil {
		return nil, err
	}
	s.notify(ctx, userID, ActionRemoved, updated)
	return updated, nil
}

// Clear empties the cart and broadcasts the cleared notification.
func (s *Store) Clear(ctx context.Context, userID uint) error {
	if err := s.backend.Del(ctx, Key(userID)); err != nil {
		return err
	}
	s.notify(ctx, userID, ActionCleared, []Item{})
	return nil
}

// Total computes the cart total as a plain sum of item prices.
func Total(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total
}

// write persists the list, deleting the key when the list is empty.
func (s *Store) write(ctx context.Context, userID uint, items []Item) error {
	if len(items) == 0 {
		return s.backend.Del(ctx, Key(userID))
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, Key(userID), string(payload))
}

// notify publishes the change event. A failed publish is logged, not
// returned: the write already succeeded and listeners will catch up on the
// next read.
func (s *Store) notify(ctx context.Context, userID uint, action string, items []Item) {
	payload, err := json.Marshal(Event{Action: action, Items: items})
	if err != nil {
		log.Printf("Failed to encode cart event for user %d: %v", userID, err)
		return
	}
	if err := s.backend.Publish(ctx, Channel(userID), string(payload)); err != nil {
		log.Printf("Failed to publish cart event for user %d: %v", userID, err)
	}
}
