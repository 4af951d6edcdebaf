package tunas

import (
	"context"
	"errors"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	xml "github.com/hannesm/xml"
	"github.com/hannesm/xml/server/dao"
	"github.com/hannesm/xml/server/serr"
)

// FeedResult is what feeding a chunk of input to a session produces.
type FeedResult struct {
	Session     dao.Session
	Productions []xml.Production
	RestBuffer  []byte
}

// CreateSession starts a new parsing session for the given user, persisting
// a fresh Parser's snapshot so the first Feed call has something to resume
// from.
func (svc Service) CreateSession(ctx context.Context, userID uuid.UUID) (dao.Session, error) {
	p := xml.New()
	snap, err := p.Snapshot()
	if err != nil {
		// a brand new parser is always suspended in the prolog, which is
		// always snapshotable.
		return dao.Session{}, serr.New("could not snapshot new parser", err)
	}

	stateBytes := rezi.EncBinary(snap)

	sesh, err := svc.DB.Sessions().Create(ctx, dao.Session{
		UserID: userID,
		State:  stateBytes,
	})
	if err != nil {
		return dao.Session{}, serr.WrapDB("could not create session", err)
	}

	return sesh, nil
}

// GetSession retrieves the session with the given ID.
func (svc Service) GetSession(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	sesh, err := svc.DB.Sessions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("could not get session", err)
	}
	return sesh, nil
}

// ListSessionsByUser returns all sessions owned by the given user.
func (svc Service) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]dao.Session, error) {
	seshes, err := svc.DB.Sessions().GetAllByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, nil
		}
		return nil, serr.WrapDB("could not list sessions", err)
	}
	return seshes, nil
}

// ListAudit returns the audit trail for a session, optionally restricted to
// entries created within [notBefore, notAfter].
func (svc Service) ListAudit(ctx context.Context, sessionID uuid.UUID, notBefore, notAfter *time.Time) ([]dao.AuditEntry, error) {
	entries, err := svc.DB.Audit().GetAllBySession(ctx, sessionID, notBefore, notAfter)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, serr.ErrNotFound
		}
		return nil, serr.WrapDB("could not list audit entries", err)
	}
	return entries, nil
}

// DeleteSession deletes the session with the given ID, returning it as it
// existed just before deletion.
func (svc Service) DeleteSession(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	sesh, err := svc.DB.Sessions().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("could not delete session", err)
	}
	return sesh, nil
}

// Feed restores the parser suspended in sesh, drives it over chunk, and
// records every Production it emits until the parser suspends again
// (PEndOfBuffer), the document ends (PEndOfData), or a parse error occurs.
// The session's persisted state is updated to the point the parser reached,
// and an audit entry is recorded for the chunk regardless of outcome.
//
// If the parser errors partway through, the productions produced up to that
// point are still returned alongside the error, and the session is left at
// its last successfully snapshotable suspend point.
func (svc Service) Feed(ctx context.Context, sessionID uuid.UUID, chunk []byte, finish bool) (FeedResult, error) {
	sesh, err := svc.DB.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return FeedResult{}, serr.ErrNotFound
		}
		return FeedResult{}, serr.WrapDB("could not get session", err)
	}

	var snap xml.ParserSnapshot
	n, err := rezi.DecBinary(sesh.State, &snap)
	if err != nil {
		return FeedResult{}, serr.New("could not decode session state", err)
	}
	if n != len(sesh.State) {
		return FeedResult{}, serr.New("session state decoded short")
	}

	p := xml.RestoreSnapshot(snap)

	var (
		prods     []xml.Production
		parseErr  error
		nextChunk = chunk
	)
	for {
		var prod xml.Production
		prod, p, parseErr = p.Parse(nextChunk, finish)
		nextChunk = nil
		if parseErr != nil {
			break
		}
		prods = append(prods, prod)
		if prod.Kind == xml.PEndOfBuffer || prod.Kind == xml.PEndOfData {
			break
		}
	}

	auditEntry := dao.AuditEntry{
		SessionID:      sessionID,
		BytesConsumed:  len(chunk),
		ProductionsOut: len(prods),
	}
	if parseErr != nil {
		auditEntry.Error = parseErr.Error()
	}
	if _, auditErr := svc.DB.Audit().Create(ctx, auditEntry); auditErr != nil {
		return FeedResult{}, serr.WrapDB("could not record audit entry", auditErr)
	}

	// only persist state if the parser is suspended somewhere snapshotable;
	// a mid-token suspend leaves the session's previously-stored state in
	// place so a later Feed still has something valid to resume from.
	newSnap, snapErr := p.Snapshot()
	if snapErr == nil {
		sesh.State = rezi.EncBinary(newSnap)
		sesh.LastUpdate = time.Now()
		sesh, err = svc.DB.Sessions().Update(ctx, sessionID, sesh)
		if err != nil {
			return FeedResult{}, serr.WrapDB("could not update session", err)
		}
	}

	result := FeedResult{
		Session:     sesh,
		Productions: prods,
		RestBuffer:  p.RestBuffer(),
	}

	if parseErr != nil {
		return result, serr.New("parse error", parseErr)
	}

	return result, nil
}
