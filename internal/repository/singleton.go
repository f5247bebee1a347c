package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/fms/internal/substrate"
)

// Singleton persists exactly one record under a key, falling back to a fixed
// default when nothing usable is stored.
type Singleton[T any] struct {
	sub    substrate.Substrate
	key    string
	def    T
	logger *slog.Logger

	mu sync.Mutex
}

// NewSingleton creates a singleton record over sub.
func NewSingleton[T any](sub substrate.Substrate, key string, def T, logger *slog.Logger) *Singleton[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Singleton[T]{sub: sub, key: key, def: def, logger: logger}
}

// Key returns the namespaced persistence key.
func (s *Singleton[T]) Key() string { return s.key }

// EnsureSeeded writes the default if the key is absent.
func (s *Singleton[T]) EnsureSeeded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.sub.Get(ctx, s.key)
	switch {
	case err == nil, errors.Is(err, substrate.ErrUnavailable):
		return nil
	case errors.Is(err, substrate.ErrNotFound):
		s.logger.Info("repository: seeding default", slog.String("key", s.key))
		return s.write(ctx, s.def)
	default:
		return fmt.Errorf("repository: seed %s: %w", s.key, err)
	}
}

// Get returns the stored record or the default.
func (s *Singleton[T]) Get(ctx context.Context) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.sub.Get(ctx, s.key)
	if err != nil {
		return s.def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("repository: corrupt record, reseeding default",
			slog.String("key", s.key), slog.String("error", err.Error()))
		if werr := s.write(ctx, s.def); werr != nil {
			s.logger.Error("repository: reseed failed",
				slog.String("key", s.key), slog.String("error", werr.Error()))
		}
		return s.def
	}
	return v
}

// Save replaces the record.
func (s *Singleton[T]) Save(ctx context.Context, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, v)
}

func (s *Singleton[T]) write(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", s.key, err)
	}
	if err := s.sub.Set(ctx, s.key, raw); err != nil {
		if errors.Is(err, substrate.ErrUnavailable) {
			return nil
		}
		return fmt.Errorf("repository: write %s: %w", s.key, err)
	}
	return nil
}
