package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/pkg/logger"
)

// ReferenceSource lists a tenant's reference data. Satisfied by
// repositories.ReferenceRepository.
type ReferenceSource interface {
	ListClassYears(ctx context.Context, schoolID string) ([]*models.ClassYear, error)
	ListClassArms(ctx context.Context, schoolID string) ([]*models.ClassArm, error)
	ListClassGroups(ctx context.Context, schoolID string) ([]*models.ClassGroup, error)
	ListSessions(ctx context.Context, schoolID string) ([]*models.Session, error)
	ListTermsBySession(ctx context.Context, sessionID string) ([]*models.Term, error)
}

// ReferenceBundle indexes one tenant's reference data for name- and
// ID-based lookup. Read-only after load; safe to share across jobs.
type ReferenceBundle struct {
	SchoolID string

	GroupsByID   map[string]*models.ClassGroup
	GroupsByName map[string][]*models.ClassGroup
	Groups       []*models.ClassGroup

	YearsByID   map[string]*models.ClassYear
	YearsByName map[string][]*models.ClassYear

	ArmsByID   map[string]*models.ClassArm
	ArmsByName map[string][]*models.ClassArm

	SessionsByID   map[string]*models.Session
	SessionsByName map[string][]*models.Session
	Sessions       []*models.Session

	TermsByID      map[string]*models.Term
	TermsBySession map[string][]*models.Term
	Terms          []*models.Term
}

// LoadReferenceBundle reads and indexes all reference data for a school.
// Terms are loaded per loaded session.
func LoadReferenceBundle(ctx context.Context, source ReferenceSource, schoolID string) (*ReferenceBundle, error) {
	bundle := &ReferenceBundle{
		SchoolID:       schoolID,
		GroupsByID:     make(map[string]*models.ClassGroup),
		GroupsByName:   make(map[string][]*models.ClassGroup),
		YearsByID:      make(map[string]*models.ClassYear),
		YearsByName:    make(map[string][]*models.ClassYear),
		ArmsByID:       make(map[string]*models.ClassArm),
		ArmsByName:     make(map[string][]*models.ClassArm),
		SessionsByID:   make(map[string]*models.Session),
		SessionsByName: make(map[string][]*models.Session),
		TermsByID:      make(map[string]*models.Term),
		TermsBySession: make(map[string][]*models.Term),
	}

	years, err := source.ListClassYears(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("loading class years: %w", err)
	}
	for _, year := range years {
		bundle.YearsByID[year.ID] = year
		key := normalizeName(year.Name)
		bundle.YearsByName[key] = append(bundle.YearsByName[key], year)
	}

	arms, err := source.ListClassArms(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("loading class arms: %w", err)
	}
	for _, arm := range arms {
		bundle.ArmsByID[arm.ID] = arm
		key := normalizeName(arm.Name)
		bundle.ArmsByName[key] = append(bundle.ArmsByName[key], arm)
	}

	groups, err := source.ListClassGroups(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("loading class groups: %w", err)
	}
	bundle.Groups = groups
	for _, group := range groups {
		bundle.GroupsByID[group.ID] = group
		key := normalizeName(group.Name)
		bundle.GroupsByName[key] = append(bundle.GroupsByName[key], group)
	}

	sessions, err := source.ListSessions(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	bundle.Sessions = sessions
	for _, session := range sessions {
		bundle.SessionsByID[session.ID] = session
		key := normalizeName(session.Name)
		bundle.SessionsByName[key] = append(bundle.SessionsByName[key], session)

		terms, err := source.ListTermsBySession(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("loading terms for session %s: %w", session.ID, err)
		}
		for _, term := range terms {
			bundle.TermsByID[term.ID] = term
			bundle.TermsBySession[session.ID] = append(bundle.TermsBySession[session.ID], term)
			bundle.Terms = append(bundle.Terms, term)
		}
	}

	return bundle, nil
}

type bundleEntry struct {
	bundle   *ReferenceBundle
	loadedAt time.Time
}

// ReferenceCache memoizes reference bundles per school with a bounded TTL.
// An expired or missing entry is rebuilt through the injected source.
type ReferenceCache struct {
	source ReferenceSource
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]bundleEntry
}

// NewReferenceCache creates a reference cache with the given TTL
func NewReferenceCache(source ReferenceSource, ttl time.Duration) *ReferenceCache {
	return &ReferenceCache{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]bundleEntry),
	}
}

// Get returns the cached bundle for a school, loading it when absent or
// older than the TTL.
func (c *ReferenceCache) Get(ctx context.Context, schoolID string) (*ReferenceBundle, error) {
	c.mu.Lock()
	entry, ok := c.entries[schoolID]
	c.mu.Unlock()

	if ok && time.Since(entry.loadedAt) < c.ttl {
		return entry.bundle, nil
	}

	bundle, err := LoadReferenceBundle(ctx, c.source, schoolID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[schoolID] = bundleEntry{bundle: bundle, loadedAt: time.Now()}
	c.mu.Unlock()

	logger.Debug().Str("schoolId", schoolID).
		Int("classGroups", len(bundle.Groups)).
		Int("sessions", len(bundle.Sessions)).
		Int("terms", len(bundle.Terms)).
		Msg("Reference bundle loaded")

	return bundle, nil
}
