package domain

// AuthenticationAggregate is the consistency boundary for one user and
// at most one session within a single use-case call. It is transient:
// reconstructed per call from loaded entities, never persisted. It
// performs no I/O; token generation and persistence belong to the
// caller, which also drains the event buffer.
type AuthenticationAggregate struct {
	user    *User
	session *AuthSession
	events  []DomainEvent
}

// NewAuthenticationAggregate wraps an existing user with no session.
func NewAuthenticationAggregate(user *User) *AuthenticationAggregate {
	return &AuthenticationAggregate{user: user}
}

// NewAuthenticationAggregateWithSession wraps a user and an already
// loaded session, for logout and refresh flows.
func NewAuthenticationAggregateWithSession(user *User, session *AuthSession) *AuthenticationAggregate {
	return &AuthenticationAggregate{user: user, session: session}
}

// Authenticate verifies the password and opens a session bound to the
// pre-generated tokens. Order matters: account state, then password,
// then session creation, then the login record and event.
func (a *AuthenticationAggregate) Authenticate(plainPassword string, accessToken, refreshToken Token, userAgent, ipAddress string) error {
	if !a.user.CanAuthenticate() {
		return ErrAccountNotActive
	}

	ok, err := a.user.VerifyPassword(plainPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	a.session = NewAuthSession(a.user.ID(), accessToken, refreshToken, userAgent, ipAddress)
	a.user.RecordLogin()

	a.addEvent(NewUserLoggedIn(a.user.ID().String(), a.session.ID().String(), userAgent, ipAddress))
	return nil
}

// RefreshTokens rotates the session's tokens. The old access expiry is
// captured before mutation so the event carries both sides.
func (a *AuthenticationAggregate) RefreshTokens(newAccessToken, newRefreshToken Token) error {
	if a.session == nil {
		return ErrNoActiveSession
	}
	if !a.session.CanRefresh() {
		return ErrSessionCannotRefresh
	}

	oldExpiry := a.session.AccessToken().ExpiresAt()
	a.session.RefreshTokens(newAccessToken, newRefreshToken)

	a.addEvent(NewTokenRefreshed(a.user.ID().String(), a.session.ID().String(), oldExpiry, newAccessToken.ExpiresAt()))
	return nil
}

// Logout ends the session. The event is appended before the session
// reference is cleared; afterwards this aggregate instance is terminal.
func (a *AuthenticationAggregate) Logout(reason LogoutReason) error {
	if a.session == nil {
		return ErrNoActiveSession
	}
	if reason == "" {
		reason = LogoutUserInitiated
	}

	a.addEvent(NewUserLoggedOut(a.user.ID().String(), a.session.ID().String(), reason))
	a.session = nil
	return nil
}

// IsAuthenticated reports whether a valid session is attached.
func (a *AuthenticationAggregate) IsAuthenticated() bool {
	return a.session != nil && a.session.IsValid()
}

// NeedsTokenRefresh delegates to the session, false when absent.
func (a *AuthenticationAggregate) NeedsTokenRefresh() bool {
	if a.session == nil {
		return false
	}
	return a.session.NeedsRefresh()
}

func (a *AuthenticationAggregate) User() *User {
	return a.user
}

func (a *AuthenticationAggregate) Session() *AuthSession {
	return a.session
}

// DomainEvents returns a copy of the buffered events; the caller
// publishes them and then calls ClearDomainEvents.
func (a *AuthenticationAggregate) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(a.events))
	copy(out, a.events)
	return out
}

// ClearDomainEvents empties the buffer after publication.
func (a *AuthenticationAggregate) ClearDomainEvents() {
	a.events = nil
}

func (a *AuthenticationAggregate) addEvent(e DomainEvent) {
	a.events = append(a.events, e)
}
