package models

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrForbidden signals an access violation.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTeamExists signals a team name conflict.
	ErrTeamExists = errors.New("team exists")
	// ErrAlreadySubscribed signals a duplicate signup email.
	ErrAlreadySubscribed = errors.New("email already subscribed")
	// ErrUsernameTaken signals a duplicate username on registration.
	ErrUsernameTaken = errors.New("username taken")
	// ErrInconsistentQuest is returned when the documents of a quest disagree
	// on whether the quest is completed.
	ErrInconsistentQuest = errors.New("inconsistent quest completion")
)
