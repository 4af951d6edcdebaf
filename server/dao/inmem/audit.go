package inmem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hannesm/xml/internal/util"
	"github.com/hannesm/xml/server/dao"
	"github.com/google/uuid"
)

// NewAuditRepository creates a new audit log repo. If seshRepo is not
// provided, Create will not validate that the referenced session exists.
func NewAuditRepository(seshRepo dao.SessionRepository) *InMemoryAuditRepository {
	return &InMemoryAuditRepository{
		seshRepo:      seshRepo,
		entries:       make(map[uuid.UUID]dao.AuditEntry),
		bySeshIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryAuditRepository struct {
	entries       map[uuid.UUID]dao.AuditEntry
	seshRepo      dao.SessionRepository
	bySeshIDIndex map[uuid.UUID][]uuid.UUID
}

func (imar *InMemoryAuditRepository) Close() error {
	return nil
}

func (imar *InMemoryAuditRepository) Create(ctx context.Context, e dao.AuditEntry) (dao.AuditEntry, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.AuditEntry{}, fmt.Errorf("could not generate ID: %w", err)
	}

	e.ID = newUUID
	e.Created = time.Now()

	if imar.seshRepo != nil {
		_, err := imar.seshRepo.GetByID(ctx, e.SessionID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return dao.AuditEntry{}, dao.ErrConstraintViolation
			}
			return dao.AuditEntry{}, err
		}
	}

	imar.entries[e.ID] = e

	seshEntries := imar.bySeshIDIndex[e.SessionID]
	seshEntries = append(seshEntries, e.ID)
	imar.bySeshIDIndex[e.SessionID] = seshEntries

	return e, nil
}

func (imar *InMemoryAuditRepository) GetAllBySession(ctx context.Context, sessionID uuid.UUID, notBefore *time.Time, notAfter *time.Time) ([]dao.AuditEntry, error) {
	bySesh := imar.bySeshIDIndex[sessionID]
	if len(bySesh) < 1 {
		return nil, dao.ErrNotFound
	}

	all := make([]dao.AuditEntry, 0, len(bySesh))
	for _, id := range bySesh {
		e := imar.entries[id]
		if notBefore != nil && e.Created.Before(*notBefore) {
			continue
		}
		if notAfter != nil && e.Created.After(*notAfter) {
			continue
		}
		all = append(all, e)
	}

	all = util.SortBy(all, func(l, r dao.AuditEntry) bool {
		return l.Created.Before(r.Created)
	})

	return all, nil
}
