// Package inmem provides a dao.Store that keeps everything in memory. It is
// lost when the process exits.
package inmem

import (
	"fmt"

	"github.com/dekarrin/cmdtree/server/dao"
)

type store struct {
	seshes *InMemorySessionsRepository
	coms   *InMemoryCommandsRepository
}

func NewDatastore() dao.Store {
	st := &store{
		seshes: NewSessionsRepository(),
	}
	st.coms = NewCommandsRepository(st.seshes)
	return st
}

func (s *store) Sessions() dao.SessionRepository {
	return s.seshes
}

func (s *store) Commands() dao.CommandRepository {
	return s.coms
}

func (s *store) Close() error {
	var err error

	if nextErr := s.seshes.Close(); nextErr != nil {
		err = nextErr
	}
	if nextErr := s.coms.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
