// Package opsservice is the application layer over repositories, data
// sources and the aggregator. Transports (HTTP, MCP, CLI) call into it.
package opsservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/fms/internal/apperr"
	"github.com/starford/fms/internal/checksum"
	"github.com/starford/fms/internal/dashboard"
	"github.com/starford/fms/internal/datasource"
	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/repository"
)

// Change kinds passed to a Notifier.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Notifier is told about every successful write.
type Notifier interface {
	PublishEntityEvent(kind, namespace, id string)
}

// Options configures a Service.
type Options struct {
	Notifier      Notifier
	PriorityLimit int
	Now           func() time.Time
	Logger        *slog.Logger
}

// Service coordinates repositories and read paths.
type Service struct {
	repos   *repository.Set
	sources datasource.Sources
	notify  Notifier
	limit   int
	now     func() time.Time
	logger  *slog.Logger
}

// NewService creates the service.
func NewService(repos *repository.Set, sources datasource.Sources, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repos:   repos,
		sources: sources,
		notify:  opts.Notifier,
		limit:   opts.PriorityLimit,
		now:     now,
		logger:  logger,
	}
}

// ETag fingerprints an entity for optimistic concurrency.
func ETag(v any) string {
	tag, err := checksum.JSON(v)
	if err != nil {
		return ""
	}
	return tag
}

func (s *Service) published(kind, namespace, id string) {
	if s.notify != nil {
		s.notify.PublishEntityEvent(kind, namespace, id)
	}
}

func newID(prefix string) string {
	return prefix + "-" + uuid.Must(uuid.NewV7()).String()
}

func checkMatch(current any, ifMatch string) error {
	if ifMatch != "" && ifMatch != ETag(current) {
		return apperr.ErrConflict
	}
	return nil
}

// Stores

// ListStores returns every store in stored order.
func (s *Service) ListStores(ctx context.Context) []models.Store {
	return s.repos.Stores.List(ctx)
}

// GetStore returns one store.
func (s *Service) GetStore(ctx context.Context, id string) (models.Store, error) {
	st, ok := s.repos.Stores.Get(ctx, id)
	if !ok {
		return models.Store{}, apperr.ErrNotFound
	}
	return st, nil
}

// SaveStore replaces or inserts a store. ifMatch, when set, must equal the
// current ETag of the stored record. The check and the write are atomic.
func (s *Service) SaveStore(ctx context.Context, st models.Store, ifMatch string) (models.Store, error) {
	if err := validateStore(st); err != nil {
		return models.Store{}, err
	}
	if st.Status == "" {
		st.Status = models.StoreOperating
	}
	st.UpdatedAt = s.now().UTC()
	kind := ChangeCreated
	saved, err := s.repos.Stores.UpsertIf(ctx, st.ID, func(cur models.Store, found bool) (models.Store, error) {
		if !found {
			if ifMatch != "" {
				return models.Store{}, apperr.ErrNotFound
			}
			return st, nil
		}
		if err := checkMatch(cur, ifMatch); err != nil {
			return models.Store{}, err
		}
		kind = ChangeUpdated
		return st, nil
	})
	if err != nil {
		return models.Store{}, err
	}
	s.published(kind, "stores", saved.ID)
	return saved, nil
}

// Actions

// ActionFilter narrows ListActions. Empty fields match everything.
type ActionFilter struct {
	AssigneeID string
	StoreID    string
	Status     string
	OpenOnly   bool
}

// ListActions returns matching actions ordered by priority, then newest.
func (s *Service) ListActions(ctx context.Context, f ActionFilter) []models.ActionItem {
	out := []models.ActionItem{}
	for _, a := range s.repos.Actions.List(ctx) {
		if f.AssigneeID != "" && a.AssigneeID != f.AssigneeID {
			continue
		}
		if f.StoreID != "" && a.StoreID != f.StoreID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.OpenOnly && !a.Open() {
			continue
		}
		out = append(out, a)
	}
	dashboard.SortActions(out)
	return out
}

// GetAction returns one action.
func (s *Service) GetAction(ctx context.Context, id string) (models.ActionItem, error) {
	a, ok := s.repos.Actions.Get(ctx, id)
	if !ok {
		return models.ActionItem{}, apperr.ErrNotFound
	}
	return a, nil
}

// CreateAction assigns an id and creation time and stores a new action.
func (s *Service) CreateAction(ctx context.Context, a models.ActionItem) (models.ActionItem, error) {
	if a.Status == "" {
		a.Status = models.ActionOpen
	}
	if a.Priority == "" {
		a.Priority = models.PriorityMedium
	}
	if err := validateAction(a); err != nil {
		return models.ActionItem{}, err
	}
	if a.ID == "" {
		a.ID = newID("AC")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	if _, err := s.repos.Actions.UpsertIf(ctx, a.ID, func(_ models.ActionItem, found bool) (models.ActionItem, error) {
		if found {
			return models.ActionItem{}, apperr.ErrConflict
		}
		return a, nil
	}); err != nil {
		return models.ActionItem{}, err
	}
	s.published(ChangeCreated, "actions", a.ID)
	return a, nil
}

// UpdateAction replaces an existing action. ifMatch is checked atomically
// with the write.
func (s *Service) UpdateAction(ctx context.Context, a models.ActionItem, ifMatch string) (models.ActionItem, error) {
	if err := validateAction(a); err != nil {
		return models.ActionItem{}, err
	}
	updated, err := s.repos.Actions.UpsertIf(ctx, a.ID, func(cur models.ActionItem, found bool) (models.ActionItem, error) {
		if !found {
			return models.ActionItem{}, apperr.ErrNotFound
		}
		if err := checkMatch(cur, ifMatch); err != nil {
			return models.ActionItem{}, err
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = cur.CreatedAt
		}
		return a, nil
	})
	if err != nil {
		return models.ActionItem{}, err
	}
	s.published(ChangeUpdated, "actions", updated.ID)
	return updated, nil
}

// Events

// EventFilter narrows ListEvents.
type EventFilter struct {
	StoreID        string
	UnresolvedOnly bool
	Limit          int
}

// ListEvents returns matching events, newest first.
func (s *Service) ListEvents(ctx context.Context, f EventFilter) []models.EventLog {
	out := []models.EventLog{}
	for _, e := range s.repos.Events.List(ctx) {
		if f.StoreID != "" && e.StoreID != f.StoreID {
			continue
		}
		if f.UnresolvedOnly && e.Resolved {
			continue
		}
		out = append(out, e)
	}
	sortEventsNewestFirst(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// RecordEvent stores a new event.
func (s *Service) RecordEvent(ctx context.Context, e models.EventLog) (models.EventLog, error) {
	if lvl, ok := models.ParseRiskLevel(string(e.Severity)); ok {
		e.Severity = lvl
	}
	if err := validateEvent(e); err != nil {
		return models.EventLog{}, err
	}
	if _, ok := s.repos.Stores.Get(ctx, e.StoreID); !ok {
		return models.EventLog{}, fmt.Errorf("%w: unknown store %q", apperr.ErrInvalidInput, e.StoreID)
	}
	if e.ID == "" {
		e.ID = newID("EV")
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now().UTC()
	}
	if e.Message == "" {
		e.Message = strings.ReplaceAll(strings.ToLower(e.Type), "_", " ")
	}
	if err := s.repos.Events.Upsert(ctx, e); err != nil {
		return models.EventLog{}, err
	}
	s.published(ChangeCreated, "events", e.ID)
	return e, nil
}

// Notices

// ListNotices lists board notices through the configured read path.
func (s *Service) ListNotices(ctx context.Context, keyword string) ([]models.Notice, error) {
	return s.sources.Notices.List(ctx, keyword)
}

// GetNotice reads one notice through the configured read path.
func (s *Service) GetNotice(ctx context.Context, id string) (models.Notice, error) {
	return s.sources.Notices.Get(ctx, id)
}

// CreateNotice publishes a new notice.
func (s *Service) CreateNotice(ctx context.Context, n models.Notice) (models.Notice, error) {
	n.ViewCount = 0
	if err := validateNotice(n); err != nil {
		return models.Notice{}, err
	}
	if n.ID == "" {
		n.ID = newID("NT")
	}
	if n.PublishedAt.IsZero() {
		n.PublishedAt = s.now().UTC()
	}
	if _, err := s.repos.Notices.UpsertIf(ctx, n.ID, func(_ models.Notice, found bool) (models.Notice, error) {
		if found {
			return models.Notice{}, apperr.ErrConflict
		}
		return n, nil
	}); err != nil {
		return models.Notice{}, err
	}
	s.published(ChangeCreated, "notices", n.ID)
	return n, nil
}

// UpdateNotice replaces a notice. The view count is kept from the stored
// record so edits cannot rewind it. ifMatch is checked atomically with the
// write.
func (s *Service) UpdateNotice(ctx context.Context, n models.Notice, ifMatch string) (models.Notice, error) {
	if err := validateNotice(n); err != nil {
		return models.Notice{}, err
	}
	updated, err := s.repos.Notices.UpsertIf(ctx, n.ID, func(cur models.Notice, found bool) (models.Notice, error) {
		if !found {
			return models.Notice{}, apperr.ErrNotFound
		}
		if err := checkMatch(cur, ifMatch); err != nil {
			return models.Notice{}, err
		}
		n.ViewCount = cur.ViewCount
		if n.PublishedAt.IsZero() {
			n.PublishedAt = cur.PublishedAt
		}
		return n, nil
	})
	if err != nil {
		return models.Notice{}, err
	}
	s.published(ChangeUpdated, "notices", updated.ID)
	return updated, nil
}

// DeleteNotice removes a notice.
func (s *Service) DeleteNotice(ctx context.Context, id string) error {
	if err := s.repos.Notices.Delete(ctx, id); err != nil {
		return err
	}
	s.published(ChangeDeleted, "notices", id)
	return nil
}

// ViewNotice records one view.
func (s *Service) ViewNotice(ctx context.Context, id string) (models.Notice, error) {
	n, err := s.repos.Notices.IncrementView(ctx, id)
	if err != nil {
		return models.Notice{}, err
	}
	s.published(ChangeUpdated, "notices", id)
	return n, nil
}

// Baseline

// Baseline returns the anomaly policy.
func (s *Service) Baseline(ctx context.Context) models.BaselineConfig {
	return s.repos.Baseline.Get(ctx)
}

// SaveBaseline replaces the anomaly policy.
func (s *Service) SaveBaseline(ctx context.Context, b models.BaselineConfig) (models.BaselineConfig, error) {
	if err := validateBaseline(b); err != nil {
		return models.BaselineConfig{}, err
	}
	if err := s.repos.Baseline.Save(ctx, b); err != nil {
		return models.BaselineConfig{}, err
	}
	s.published(ChangeUpdated, "policy_baseline", "")
	return b, nil
}
