package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hannesm/xml/server/dao"
)

func NewAuditDBConn(file string) (*AuditDB, error) {
	repo := &AuditDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init(false)
}

type AuditDB struct {
	db *sql.DB
}

func (repo *AuditDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS audit_entries (
		id TEXT NOT NULL PRIMARY KEY,
		session_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES sessions(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		created INTEGER NOT NULL,
		bytes_consumed INTEGER NOT NULL,
		productions_out INTEGER NOT NULL,
		error TEXT NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *AuditDB) Create(ctx context.Context, e dao.AuditEntry) (dao.AuditEntry, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.AuditEntry{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO audit_entries (id, session_id, created, bytes_consumed, productions_out, error) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.AuditEntry{}, wrapDBError(err)
	}
	now := time.Now()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(e.SessionID),
		convertToDB_Time(now),
		e.BytesConsumed,
		e.ProductionsOut,
		e.Error,
	)
	if err != nil {
		return dao.AuditEntry{}, wrapDBError(err)
	}

	e.ID = newUUID
	e.Created = now
	return e, nil
}

func (repo *AuditDB) GetAllBySession(ctx context.Context, sessionID uuid.UUID, notBefore *time.Time, notAfter *time.Time) ([]dao.AuditEntry, error) {
	query := `SELECT id, session_id, created, bytes_consumed, productions_out, error FROM audit_entries WHERE session_id = ?`
	args := []any{convertToDB_UUID(sessionID)}

	if notBefore != nil {
		query += ` AND created >= ?`
		args = append(args, convertToDB_Time(*notBefore))
	}
	if notAfter != nil {
		query += ` AND created <= ?`
		args = append(args, convertToDB_Time(*notAfter))
	}
	query += ` ORDER BY created ASC;`

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.AuditEntry

	for rows.Next() {
		var e dao.AuditEntry
		var id, seshID string
		var created int64

		err = rows.Scan(&id, &seshID, &created, &e.BytesConsumed, &e.ProductionsOut, &e.Error)
		if err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &e.ID); err != nil {
			return all, err
		}
		if err := convertFromDB_UUID(seshID, &e.SessionID); err != nil {
			return all, err
		}
		if err := convertFromDB_Time(created, &e.Created); err != nil {
			return all, err
		}

		all = append(all, e)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	if len(all) < 1 {
		return nil, dao.ErrNotFound
	}

	return all, nil
}

func (repo *AuditDB) Close() error {
	return repo.db.Close()
}
