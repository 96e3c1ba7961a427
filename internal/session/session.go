// Package session holds the process-local view of the signed-in wallet and its profile.
package session

import (
	"Buildrs/internal/model"
	"Buildrs/internal/pkg/wallet"
	"context"
	"errors"
	log "log/slog"
	"sync"
)

type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "unauthenticated"
}

var (
	ErrSignInInProgress = errors.New("session: sign in already in progress")
	// ErrSessionChanged is returned when the wallet disconnected or signed out mid sign in.
	ErrSessionChanged = errors.New("session: wallet changed during sign in, result discarded")
)

type Signer = wallet.Signer

type Authenticator interface {
	Authenticate(ctx context.Context, address string, signer wallet.Signer) (*model.SessionUser, *model.Profile, error)
}

type Snapshot struct {
	User      *model.SessionUser `json:"user"`
	Profile   *model.Profile     `json:"profile"`
	IsLoading bool               `json:"isLoading"`
	State     State              `json:"state"`
}

type Session struct {
	mu         sync.Mutex
	auth       Authenticator
	address    string
	signer     Signer
	state      State
	user       *model.SessionUser
	profile    *model.Profile
	generation uint64
}

func New(auth Authenticator) *Session {
	return &Session{auth: auth}
}

// Connect records the wallet and signs in unless that wallet is already signed in.
// Switching to another wallet drops the previous identity first.
func (s *Session) Connect(ctx context.Context, address string, signer Signer) error {
	s.mu.Lock()
	if s.state == Authenticated && s.address == address {
		s.mu.Unlock()
		return nil
	}
	if s.address != address {
		s.resetLocked()
	}
	s.address = address
	s.signer = signer
	s.mu.Unlock()

	return s.SignIn(ctx)
}

// Disconnect forgets the wallet; an in-flight sign in completes into nothing.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.address = ""
	s.signer = nil
}

// SignIn authenticates the connected wallet. Without a valid connected wallet, or when that wallet
// is already signed in, it does nothing.
func (s *Session) SignIn(ctx context.Context) error {
	s.mu.Lock()
	if s.signer == nil || !wallet.IsValidAddress(s.address) {
		s.mu.Unlock()
		log.WarnContext(ctx, "sign in skipped, no valid wallet connected", "address", s.address)
		return nil
	}
	if s.state == Authenticating {
		s.mu.Unlock()
		return ErrSignInInProgress
	}
	if s.state == Authenticated && s.user != nil &&
		wallet.NormalizeAddress(s.user.Address) == wallet.NormalizeAddress(s.address) {
		s.mu.Unlock()
		return nil
	}
	s.state = Authenticating
	gen := s.generation
	address, signer := s.address, s.signer
	s.mu.Unlock()

	user, profile, err := s.auth.Authenticate(ctx, address, signer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrSessionChanged
	}
	if err != nil {
		log.WarnContext(ctx, "wallet sign in failed", "address", address, "err", err)
		s.state = Unauthenticated
		s.user = nil
		s.profile = nil
		return err
	}
	s.state = Authenticated
	s.user = user
	s.profile = profile
	return nil
}

// SignOut clears the identity but keeps the wallet connected. The profile is never deleted.
func (s *Session) SignOut(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return nil
}

// RefreshProfile replaces the cached profile when it belongs to the signed-in wallet.
func (s *Session) RefreshProfile(profile *model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated || profile == nil || s.user == nil {
		return
	}
	if wallet.NormalizeAddress(profile.WalletAddress) != wallet.NormalizeAddress(s.user.Address) {
		return
	}
	s.profile = profile
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:     s.state,
		IsLoading: s.state == Authenticating,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// resetLocked bumps the generation so in-flight results are discarded.
func (s *Session) resetLocked() {
	s.generation++
	s.state = Unauthenticated
	s.user = nil
	s.profile = nil
}
