// Package testutil provides shared test helpers for setting up seeded
// repositories and services.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/starford/fms/internal/dashboard"
	"github.com/starford/fms/internal/datasource"
	"github.com/starford/fms/internal/gateway"
	"github.com/starford/fms/internal/opsservice"
	"github.com/starford/fms/internal/repository"
	"github.com/starford/fms/internal/substrate"
)

// Now is the clock used by Service; it matches the seed data.
var Now = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

// Repos returns a repository set seeded into an in-memory substrate.
func Repos(t *testing.T) *repository.Set {
	t.Helper()
	repos := repository.NewSet(substrate.NewMemory(), nil)
	if err := repos.EnsureSeeded(context.Background()); err != nil {
		t.Fatal(err)
	}
	return repos
}

// Service creates a seeded, local-only service with a fixed clock.
func Service(t *testing.T, notify opsservice.Notifier) *opsservice.Service {
	t.Helper()
	repos := Repos(t)
	clock := func() time.Time { return Now }
	sources := datasource.Select(datasource.Options{Repos: repos, Policy: dashboard.DefaultInsightPolicy(), Now: clock})
	return opsservice.NewService(repos, sources, opsservice.Options{
		Notifier: notify,
		Now:      clock,
	})
}

// RemoteDashboardService is Service with the dashboard area read from the
// API at baseURL.
func RemoteDashboardService(t *testing.T, baseURL string) *opsservice.Service {
	t.Helper()
	client, err := gateway.New(gateway.Options{BaseURL: baseURL, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	repos := Repos(t)
	clock := func() time.Time { return Now }
	sources := datasource.Select(datasource.Options{
		Repos:  repos,
		Client: client,
		Remote: true,
		Areas:  datasource.Areas{Dashboard: true},
		Policy: dashboard.DefaultInsightPolicy(),
		Now:    clock,
	})
	return opsservice.NewService(repos, sources, opsservice.Options{Now: clock})
}
