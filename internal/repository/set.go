package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/substrate"
)

// Set holds one repository per entity kind over a shared substrate.
type Set struct {
	Stores   *Collection[models.Store]
	Actions  *Collection[models.ActionItem]
	Events   *Collection[models.EventLog]
	Notices  *Notices
	Baseline *Singleton[models.BaselineConfig]
}

// NewSet builds every repository with its compiled-in defaults.
func NewSet(sub substrate.Substrate, logger *slog.Logger) *Set {
	return &Set{
		Stores:   NewCollection(sub, models.KeyStores, DefaultStores(), logger),
		Actions:  NewCollection(sub, models.KeyActions, DefaultActions(), logger),
		Events:   NewCollection(sub, models.KeyEvents, DefaultEvents(), logger),
		Notices:  NewNotices(sub, DefaultNotices(), logger),
		Baseline: NewSingleton(sub, models.KeyPolicyBaseline, DefaultBaseline(), logger),
	}
}

// EnsureSeeded seeds every namespace that is still empty.
func (s *Set) EnsureSeeded(ctx context.Context) error {
	return errors.Join(
		s.Stores.EnsureSeeded(ctx),
		s.Actions.EnsureSeeded(ctx),
		s.Events.EnsureSeeded(ctx),
		s.Notices.EnsureSeeded(ctx),
		s.Baseline.EnsureSeeded(ctx),
	)
}

// Keys lists every namespaced key the set persists under.
func (s *Set) Keys() []string {
	return []string{
		s.Stores.Key(), s.Actions.Key(), s.Events.Key(), s.Notices.Key(), s.Baseline.Key(),
	}
}
