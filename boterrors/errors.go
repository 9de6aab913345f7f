package boterrors

import "errors"

// Protocol and session sentinel errors. Used by the game, ws and bot packages
// to avoid circular imports.
var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrSelfNotFound     = errors.New("self player not found in game details")
	ErrAmbiguousPlayers = errors.New("cannot tell self and opponent apart")
	ErrBoardWithheld    = errors.New("board withheld by server")
	ErrAuthRejected     = errors.New("authentication rejected")
	ErrAckTimeout       = errors.New("timed out waiting for ack")
	ErrNotConnected     = errors.New("not connected")
)
