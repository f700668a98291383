package domain

import "errors"

var (
	// ErrNicknameTaken is returned when a registration or rename collides
	// with a nickname bound to a different live connection.
	ErrNicknameTaken = errors.New("nickname already in use")

	// ErrNotRegistered is returned for channel actions on a connection that
	// has not bound a nickname yet.
	ErrNotRegistered = errors.New("connection not registered")

	// ErrUnknownChannel is returned for actions on a channel that does not
	// exist. Join never returns it; channels are created lazily.
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrNotAMember is returned when a channel action requires membership.
	ErrNotAMember = errors.New("not a member of channel")
)
