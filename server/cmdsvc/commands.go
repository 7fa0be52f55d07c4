package cmdsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/dekarrin/cmdtree/internal/cmderrors"
	"github.com/dekarrin/cmdtree/internal/world"
	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/dekarrin/cmdtree/server/serr"
	"github.com/dekarrin/cmdtree/tree"
	"github.com/google/uuid"
)

// RunCommand dispatches line in the session with the given ID and records it
// in the session's history. A command that fails to dispatch or whose handler
// fails is still recorded, with the failure in its Error field; that is not an
// error of RunCommand.
//
// Commands in the same session run one at a time. Commands in different
// sessions run concurrently against the shared tree.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such session, serr.ErrBadArgument if line is blank, or serr.ErrDB if there
// was a problem with the DB.
func (svc *Service) RunCommand(ctx context.Context, sessionID uuid.UUID, line string) (dao.Command, error) {
	if strings.TrimSpace(line) == "" {
		return dao.Command{}, serr.New("command cannot be blank", serr.ErrBadArgument)
	}

	unlock := svc.lockSession(sessionID)
	defer unlock()

	sesh, err := svc.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			svc.sessionLocks.Delete(sessionID)
		}
		return dao.Command{}, err
	}

	expanded := line
	if svc.Aliases != nil {
		expanded = svc.Aliases.Expand(line)
	}

	msgs, runErr := world.Run(svc.Commands, &sesh.State, expanded)

	cmd := dao.Command{
		SessionID: sesh.ID,
		Input:     line,
		Output:    msgs,
	}
	if runErr != nil {
		cmd.Error = cmderrors.GameMessage(runErr)
	}

	// state is saved even on failure; a handler may have said things and
	// changed state before failing
	if _, err := svc.DB.Sessions().Update(ctx, sesh.ID, sesh); err != nil {
		return dao.Command{}, serr.WrapDB("could not save session", err)
	}

	cmd, err = svc.DB.Commands().Create(ctx, cmd)
	if err != nil {
		return dao.Command{}, serr.WrapDB("could not save command", err)
	}

	return cmd, nil
}

// GetCommands returns every command run in the session with the given ID,
// oldest first.
func (svc *Service) GetCommands(ctx context.Context, sessionID uuid.UUID) ([]dao.Command, error) {
	cmds, err := svc.DB.Commands().GetAllBySession(ctx, sessionID)
	if err != nil {
		return nil, serr.WrapDB("could not get commands", err)
	}
	return cmds, nil
}

// GetCommand returns the command with the given ID. It is only found if it
// was run in the session with the given session ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such command in the session, or serr.ErrDB if there was a problem with the
// DB.
func (svc *Service) GetCommand(ctx context.Context, sessionID, id uuid.UUID) (dao.Command, error) {
	cmd, err := svc.DB.Commands().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Command{}, serr.ErrNotFound
		}
		return dao.Command{}, serr.WrapDB("could not get command", err)
	}

	if cmd.SessionID != sessionID {
		return dao.Command{}, serr.ErrNotFound
	}
	return cmd, nil
}

// Tree returns the serialized form of the command tree.
func (svc *Service) Tree() tree.Packet {
	return tree.Serialize(svc.Commands)
}
