package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/rezi"
	xml "github.com/hannesm/xml"
	"github.com/hannesm/xml/server/dao"
	"github.com/hannesm/xml/server/middle"
	"github.com/hannesm/xml/server/result"
	"github.com/hannesm/xml/server/serr"
)

// HTTPCreateSession returns a HandlerFunc that starts a new parsing session
// owned by the logged-in client.
func (api API) HTTPCreateSession() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateSession)
}

func (api API) epCreateSession(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	sesh, err := api.Backend.CreateSession(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError("could not create session: " + err.Error())
	}

	return result.Created(sessionModel(sesh), "user '%s' created session %s", user.Username, sesh.ID)
}

// HTTPGetAllSessions returns a HandlerFunc that lists all sessions owned by
// the logged-in client, or every session in the system for an admin.
func (api API) HTTPGetAllSessions() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllSessions)
}

func (api API) epGetAllSessions(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	seshes, err := api.Backend.ListSessionsByUser(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError("could not list sessions: " + err.Error())
	}

	resp := make([]SessionModel, len(seshes))
	for i := range seshes {
		resp[i] = sessionModel(seshes[i])
	}

	return result.OK(resp, "user '%s' listed their sessions", user.Username)
}

// HTTPGetSession returns a HandlerFunc that gets an existing session. All
// users may retrieve sessions they own, but only an admin may retrieve
// another user's session.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the session being operated on and the logged-in user of
// the client making the request.
func (api API) HTTPGetSession() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetSession)
}

func (api API) epGetSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	sesh, err := api.Backend.GetSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get session: " + err.Error())
	}

	if sesh.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get session %s: forbidden", user.Username, user.Role, id)
	}

	return result.OK(sessionModel(sesh), "user '%s' got session %s", user.Username, id)
}

// HTTPDeleteSession returns a HandlerFunc that deletes a session. All users
// may delete sessions they own, but only an admin may delete another user's
// session.
func (api API) HTTPDeleteSession() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteSession)
}

func (api API) epDeleteSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get session: " + err.Error())
	}

	if existing.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) delete session %s: forbidden", user.Username, user.Role, id)
	}

	_, err = api.Backend.DeleteSession(req.Context(), id)
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete session: " + err.Error())
	}

	return result.NoContent("user '%s' deleted session %s", user.Username, id)
}

// HTTPFeedSession returns a HandlerFunc that feeds a chunk of input to a
// session's suspended parser and returns every Production the parser
// emitted before it suspended again, reached the end of the document, or
// hit a parse error.
func (api API) HTTPFeedSession() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epFeedSession)
}

func (api API) epFeedSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get session: " + err.Error())
	}

	if existing.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) feed session %s: forbidden", user.Username, user.Role, id)
	}

	var chunkReq ChunkRequest
	if err := parseJSON(req, &chunkReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	feedResult, feedErr := api.Backend.Feed(req.Context(), id, []byte(chunkReq.Data), chunkReq.Finish)

	resp := ChunkResponse{
		Session:     sessionModel(feedResult.Session),
		Productions: make([]ProductionModel, len(feedResult.Productions)),
		RestBuffer:  len(feedResult.RestBuffer),
	}
	for i := range feedResult.Productions {
		resp.Productions[i] = productionModel(feedResult.Productions[i])
	}

	if feedErr != nil {
		resp.Error = feedErr.Error()
		return result.Response(http.StatusUnprocessableEntity, resp, "user '%s' fed session %s: parse error: %s", user.Username, id, feedErr.Error())
	}

	return result.OK(resp, "user '%s' fed session %s (%d bytes, %d productions)", user.Username, id, len(chunkReq.Data), len(resp.Productions))
}

// HTTPGetAudit returns a HandlerFunc that lists the audit trail for a
// session: one entry per chunk it has been fed.
func (api API) HTTPGetAudit() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAudit)
}

func (api API) epGetAudit(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get session: " + err.Error())
	}

	if existing.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get audit of session %s: forbidden", user.Username, user.Role, id)
	}

	entries, err := api.Backend.ListAudit(req.Context(), id, nil, nil)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.OK([]AuditModel{}, "user '%s' got audit of session %s (empty)", user.Username, id)
		}
		return result.InternalServerError("could not list audit entries: " + err.Error())
	}

	resp := make([]AuditModel, len(entries))
	for i := range entries {
		resp[i] = auditModel(entries[i])
	}

	return result.OK(resp, "user '%s' got audit of session %s", user.Username, id)
}

func sessionModel(s dao.Session) SessionModel {
	return SessionModel{
		URI:        PathPrefix + "/sessions/" + s.ID.String(),
		ID:         s.ID.String(),
		UserID:     s.UserID.String(),
		Created:    s.Created.Format(time.RFC3339),
		LastUpdate: s.LastUpdate.Format(time.RFC3339),
		Done:       sessionDone(s),
	}
}

// sessionDone reports whether the parser snapshotted in s has already
// reached PEndOfData. A State that fails to decode (a brand new session
// that hasn't been snapshotted, or corrupt state) is treated as not done.
func sessionDone(s dao.Session) bool {
	if len(s.State) == 0 {
		return false
	}
	var snap xml.ParserSnapshot
	if _, err := rezi.DecBinary(s.State, &snap); err != nil {
		return false
	}
	return !snap.IsParsing
}

func auditModel(e dao.AuditEntry) AuditModel {
	return AuditModel{
		ID:             e.ID.String(),
		SessionID:      e.SessionID.String(),
		Created:        e.Created.Format(time.RFC3339),
		BytesConsumed:  e.BytesConsumed,
		ProductionsOut: e.ProductionsOut,
		Error:          e.Error,
	}
}

func productionModel(p xml.Production) ProductionModel {
	m := ProductionModel{Kind: p.Kind.String()}

	switch p.Kind {
	case xml.PStartElement, xml.PEmptyElement, xml.PEndElement:
		m.Name = p.Name
		if len(p.Attrs) > 0 {
			m.Attrs = make([]AttrModel, len(p.Attrs))
			for i := range p.Attrs {
				m.Attrs[i] = AttrModel{Name: p.Attrs[i].Name, Value: p.Attrs[i].Value}
			}
		}
	case xml.PText, xml.PWhitespace, xml.PCdata, xml.PComment:
		m.Text = p.Text
	case xml.PPi:
		m.Target = p.Target
		m.Data = p.Data
	case xml.PDoctype:
		if p.Doctype != nil {
			m.DoctypeName = p.Doctype.Name
		}
	}

	return m
}
