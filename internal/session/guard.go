package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/pkg/errors"
)

// Guard gates protected views on the presence of a local token.
type Guard struct {
	session *Session
	logger  *zerolog.Logger
}

func NewGuard(session *Session, logger *zerolog.Logger) *Guard {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Guard{session: session, logger: logger}
}

// Enter returns an Unauthenticated error when no token is stored. It makes
// no network call; an unreadable store counts as signed out.
func (g *Guard) Enter(ctx context.Context) error {
	valid, err := g.session.Valid(ctx)
	if err != nil {
		g.logger.Warn().Err(err).Msg("session store unreadable")
		return errors.Unauthenticated(err)
	}
	if !valid {
		return errors.Unauthenticated(nil)
	}
	return nil
}
