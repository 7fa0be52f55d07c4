package cmdsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/dekarrin/cmdtree/internal/world"
	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/dekarrin/cmdtree/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used by HashPassword.
const PasswordCost = 14

// HashPassword gives the bcrypt hash of password for use as
// Service.OperatorPassword.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
}

// CreateSession starts a new session for the given player. If password is
// not empty, it is checked against the operator password and the session is
// made a moderator if it matches.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the player name is not
// valid, it will match serr.ErrBadArgument. If a password was given and does
// not match, it will match serr.ErrBadCredentials. If the error occured due to
// an unexpected problem with the DB, it will match serr.ErrDB.
func (svc *Service) CreateSession(ctx context.Context, player string, password string) (dao.Session, error) {
	if player == "" {
		return dao.Session{}, serr.New("player name cannot be empty", serr.ErrBadArgument)
	}
	if len(strings.Fields(player)) != 1 {
		return dao.Session{}, serr.New("player name cannot contain whitespace", serr.ErrBadArgument)
	}
	if strings.HasPrefix(player, "@") {
		return dao.Session{}, serr.New("player name cannot start with '@'", serr.ErrBadArgument)
	}

	group := world.GroupNormal
	if password != "" {
		if svc.OperatorPassword == nil {
			return dao.Session{}, serr.ErrBadCredentials
		}

		err := bcrypt.CompareHashAndPassword(svc.OperatorPassword, []byte(password))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return dao.Session{}, serr.ErrBadCredentials
			}
			return dao.Session{}, serr.New("could not check operator password", err)
		}
		group = world.GroupModerator
	}

	sesh := dao.Session{State: *world.NewSession(player, group)}
	sesh, err := svc.DB.Sessions().Create(ctx, sesh)
	if err != nil {
		return dao.Session{}, serr.WrapDB("could not create session", err)
	}

	return sesh, nil
}

// GetSession returns the session with the given ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such session, or serr.ErrDB if there was a problem with the DB.
func (svc *Service) GetSession(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	sesh, err := svc.DB.Sessions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("could not get session", err)
	}
	return sesh, nil
}

// EndSession deletes the session with the given ID along with its command
// history. Tokens issued for it stop working. Returns the session that was
// ended.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such session, or serr.ErrDB if there was a problem with the DB.
func (svc *Service) EndSession(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	unlock := svc.lockSession(id)
	defer unlock()

	if _, err := svc.DB.Commands().DeleteAllBySession(ctx, id); err != nil {
		return dao.Session{}, serr.WrapDB("could not delete command history", err)
	}

	sesh, err := svc.DB.Sessions().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("could not delete session", err)
	}

	// a blocked RunCommand for this ID will find it gone once it gets the lock
	svc.sessionLocks.Delete(id)

	return sesh, nil
}
