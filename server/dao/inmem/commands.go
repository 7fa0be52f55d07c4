package inmem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/google/uuid"
)

// NewCommandsRepository creates a new Commands repo. If seshRepo is not
// provided, the session a command refers to is not checked on creation.
func NewCommandsRepository(seshRepo dao.SessionRepository) *InMemoryCommandsRepository {
	return &InMemoryCommandsRepository{
		seshRepo:      seshRepo,
		coms:          make(map[uuid.UUID]dao.Command),
		bySeshIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryCommandsRepository struct {
	mtx           sync.RWMutex
	coms          map[uuid.UUID]dao.Command
	seshRepo      dao.SessionRepository
	bySeshIDIndex map[uuid.UUID][]uuid.UUID
}

func (imcr *InMemoryCommandsRepository) Close() error {
	return nil
}

func (imcr *InMemoryCommandsRepository) Create(ctx context.Context, c dao.Command) (dao.Command, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Command{}, fmt.Errorf("could not generate ID: %w", err)
	}

	if imcr.seshRepo != nil {
		_, err := imcr.seshRepo.GetByID(ctx, c.SessionID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return dao.Command{}, dao.ErrConstraintViolation
			}
			return dao.Command{}, err
		}
	}

	imcr.mtx.Lock()
	defer imcr.mtx.Unlock()

	c.ID = newUUID
	c.Created = time.Now()
	c.Output = copyOutput(c.Output)

	imcr.coms[c.ID] = c
	imcr.bySeshIDIndex[c.SessionID] = append(imcr.bySeshIDIndex[c.SessionID], c.ID)

	return c, nil
}

func (imcr *InMemoryCommandsRepository) GetAllBySession(ctx context.Context, id uuid.UUID) ([]dao.Command, error) {
	imcr.mtx.RLock()
	defer imcr.mtx.RUnlock()

	bySesh := imcr.bySeshIDIndex[id]
	all := make([]dao.Command, len(bySesh))

	// index is kept in insertion order, which is also creation order
	for i := range bySesh {
		c := imcr.coms[bySesh[i]]
		c.Output = copyOutput(c.Output)
		all[i] = c
	}

	return all, nil
}

func (imcr *InMemoryCommandsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Command, error) {
	imcr.mtx.RLock()
	defer imcr.mtx.RUnlock()

	c, ok := imcr.coms[id]
	if !ok {
		return dao.Command{}, dao.ErrNotFound
	}
	c.Output = copyOutput(c.Output)

	return c, nil
}

func (imcr *InMemoryCommandsRepository) DeleteAllBySession(ctx context.Context, id uuid.UUID) ([]dao.Command, error) {
	imcr.mtx.Lock()
	defer imcr.mtx.Unlock()

	bySesh := imcr.bySeshIDIndex[id]
	deleted := make([]dao.Command, len(bySesh))

	for i := range bySesh {
		deleted[i] = imcr.coms[bySesh[i]]
		delete(imcr.coms, bySesh[i])
	}
	delete(imcr.bySeshIDIndex, id)

	return deleted, nil
}

func copyOutput(out []string) []string {
	if out == nil {
		return nil
	}
	cp := make([]string, len(out))
	copy(cp, out)
	return cp
}
