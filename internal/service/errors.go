package service

import (
	"errors"
	"fmt"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid         = errors.New("invalid parameter")
	ErrInvalidAddress       = errors.New("invalid wallet address")
	ErrInvalidVoteType      = errors.New("invalid vote type")
	ErrInvalidBuildType     = errors.New("invalid build type")
	ErrInvalidPeriod        = errors.New("invalid leaderboard period")
	ErrTooManyTags          = errors.New("a build can have at most 5 tags")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrChallengeExpired     = errors.New("challenge expired or never issued")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrBuildNotFound        = errors.New("build not found")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrFollowSelf           = errors.New("cannot follow yourself")
	ErrVoteInProgress       = errors.New("a vote on this build is already in progress")
	ErrFileNotSupported     = errors.New("file type not supported")
	ErrMediaDisabled        = errors.New("media storage is disabled")
	ErrStoreUnavailable     = errors.New("store unavailable")
	UnExpectedError         = errors.New("unexpected error, please retry later")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrInvalidAddress:       BadRequest,
	ErrInvalidVoteType:      BadRequest,
	ErrInvalidBuildType:     BadRequest,
	ErrInvalidPeriod:        BadRequest,
	ErrTooManyTags:          BadRequest,
	ErrUnauthorized:         Unauthorized,
	ErrAuthenticationFailed: Unauthorized,
	ErrChallengeExpired:     Unauthorized,
	ErrProfileNotFound:      NotFound,
	ErrBuildNotFound:        NotFound,
	ErrUsernameTaken:        Conflict,
	ErrFollowSelf:           BadRequest,
	ErrVoteInProgress:       Conflict,
	ErrFileNotSupported:     BadRequest,
	ErrMediaDisabled:        ServiceUnavailable,
	ErrStoreUnavailable:     ServiceUnavailable,
	UnExpectedError:         InternalServerError,
}

// Lookup finds the business error err wraps and returns its code and public message.
func Lookup(err error) (int, string, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, err.Error(), true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, target.Error(), true
		}
	}
	return 0, "", false
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
