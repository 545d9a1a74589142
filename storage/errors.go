package storage

import "errors"

var ErrNotFound = errors.New("item not found in storage")
var ErrOpenEventExists = errors.New("an open event already exists for this category")
var ErrDuplicateStoreNumber = errors.New("store number is already registered to a member")
var ErrCandidateExists = errors.New("member is already an active candidate")
var ErrAlreadyVoted = errors.New("member has already voted for this event")
var ErrNotCheckedIn = errors.New("member is not checked in to this event")
var ErrInvalidPolicy = errors.New("selection policy would leave min above max")
