package inmem

import (
	"fmt"

	"github.com/hannesm/xml/server/dao"
)

type store struct {
	users  *InMemoryUsersRepository
	seshes *InMemorySessionsRepository
	audit  *InMemoryAuditRepository
}

func NewDatastore() dao.Store {
	st := &store{
		users:  NewUsersRepository(),
		seshes: NewSessionsRepository(),
	}
	st.audit = NewAuditRepository(st.seshes)
	return st
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Sessions() dao.SessionRepository {
	return s.seshes
}

func (s *store) Audit() dao.AuditRepository {
	return s.audit
}

func (s *store) Close() error {
	var err error
	var nextErr error

	nextErr = s.users.Close()
	if nextErr != err {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}
	nextErr = s.seshes.Close()
	if nextErr != err {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
