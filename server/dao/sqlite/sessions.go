package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hannesm/xml/server/dao"
)

func NewSessionsDBConn(file string) (*SessionsDB, error) {
	repo := &SessionsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init(false)
}

type SessionsDB struct {
	db *sql.DB
}

func (repo *SessionsDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		state TEXT NOT NULL,
		created INTEGER NOT NULL,
		last_update INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *SessionsDB) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO sessions (id, user_id, state, created, last_update) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	now := time.Now()

	encState := convertToDB_SnapshotBytes(s.State)
	_, err = stmt.ExecContext(ctx, newUUID.String(), convertToDB_UUID(s.UserID), encState, convertToDB_Time(now), convertToDB_Time(now))
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SessionsDB) GetAll(ctx context.Context) ([]dao.Session, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, state, created, last_update FROM sessions;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Session

	for rows.Next() {
		var s dao.Session
		var id, userID, state string
		var created, lastUpdate int64

		err = rows.Scan(&id, &userID, &state, &created, &lastUpdate)
		if err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &s.ID); err != nil {
			return all, err
		}
		if err := convertFromDB_UUID(userID, &s.UserID); err != nil {
			return all, err
		}
		if err := convertFromDB_SnapshotBytes(state, &s.State); err != nil {
			return all, err
		}
		if err := convertFromDB_Time(created, &s.Created); err != nil {
			return all, err
		}
		if err := convertFromDB_Time(lastUpdate, &s.LastUpdate); err != nil {
			return all, err
		}

		all = append(all, s)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *SessionsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Session, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, state, created, last_update FROM sessions WHERE user_id = ?;`, convertToDB_UUID(userID))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Session

	for rows.Next() {
		var s dao.Session
		var id, uid, state string
		var created, lastUpdate int64

		err = rows.Scan(&id, &uid, &state, &created, &lastUpdate)
		if err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &s.ID); err != nil {
			return all, err
		}
		if err := convertFromDB_UUID(uid, &s.UserID); err != nil {
			return all, err
		}
		if err := convertFromDB_SnapshotBytes(state, &s.State); err != nil {
			return all, err
		}
		if err := convertFromDB_Time(created, &s.Created); err != nil {
			return all, err
		}
		if err := convertFromDB_Time(lastUpdate, &s.LastUpdate); err != nil {
			return all, err
		}

		all = append(all, s)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	if len(all) < 1 {
		return nil, dao.ErrNotFound
	}

	return all, nil
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s := dao.Session{ID: id}
	var userID, state string
	var created, lastUpdate int64

	row := repo.db.QueryRowContext(ctx, `SELECT user_id, state, created, last_update FROM sessions WHERE id = ?;`, id.String())
	err := row.Scan(&userID, &state, &created, &lastUpdate)
	if err != nil {
		return s, wrapDBError(err)
	}

	if err := convertFromDB_UUID(userID, &s.UserID); err != nil {
		return s, err
	}
	if err := convertFromDB_SnapshotBytes(state, &s.State); err != nil {
		return s, err
	}
	if err := convertFromDB_Time(created, &s.Created); err != nil {
		return s, err
	}
	if err := convertFromDB_Time(lastUpdate, &s.LastUpdate); err != nil {
		return s, err
	}

	return s, nil
}

func (repo *SessionsDB) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	s.LastUpdate = time.Now()

	res, err := repo.db.ExecContext(ctx, `UPDATE sessions SET id=?, user_id=?, state=?, created=?, last_update=? WHERE id=?;`,
		s.ID.String(),
		convertToDB_UUID(s.UserID),
		convertToDB_SnapshotBytes(s.State),
		convertToDB_Time(s.Created),
		convertToDB_Time(s.LastUpdate),
		id.String(),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Session{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, s.ID)
}

func (repo *SessionsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *SessionsDB) Close() error {
	return repo.db.Close()
}
