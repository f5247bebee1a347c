package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/fms/internal/apperr"
	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/substrate"
)

// Notices is the one collection with hard delete and a view counter.
type Notices struct {
	*Collection[models.Notice]
}

// NewNotices creates the notice repository.
func NewNotices(sub substrate.Substrate, defaults []models.Notice, logger *slog.Logger) *Notices {
	return &Notices{Collection: NewCollection(sub, models.KeyNotices, defaults, logger)}
}

// Delete removes the notice with id and persists the filtered list.
func (n *Notices) Delete(ctx context.Context, id string) error {
	return n.mutate(ctx, func(items []models.Notice) ([]models.Notice, error) {
		out := items[:0]
		found := false
		for _, it := range items {
			if it.ID == id {
				found = true
				continue
			}
			out = append(out, it)
		}
		if !found {
			return nil, fmt.Errorf("repository: delete notice %s: %w", id, apperr.ErrNotFound)
		}
		return out, nil
	})
}

// IncrementView adds one to the notice's view count and returns the updated
// notice. The count is never decremented.
func (n *Notices) IncrementView(ctx context.Context, id string) (models.Notice, error) {
	var updated models.Notice
	err := n.mutate(ctx, func(items []models.Notice) ([]models.Notice, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].ViewCount++
				updated = items[i]
				return items, nil
			}
		}
		return nil, fmt.Errorf("repository: view notice %s: %w", id, apperr.ErrNotFound)
	})
	return updated, err
}
