package domain

import "time"

// needsRefreshWindow is how close to access-token expiry a session is
// considered due for a refresh.
const needsRefreshWindow = 5 * time.Minute

// AuthSession is a server-tracked authenticated context bound to one
// user. The userId never changes after creation.
type AuthSession struct {
	id             SessionID
	userID         UserID
	accessToken    Token
	refreshToken   Token
	createdAt      time.Time
	lastActivityAt time.Time
	userAgent      string
	ipAddress      string
}

// NewAuthSession creates a fresh session with a generated id. Used only
// by the aggregate during authentication.
func NewAuthSession(userID UserID, accessToken, refreshToken Token, userAgent, ipAddress string) *AuthSession {
	now := time.Now().UTC()
	return &AuthSession{
		id:             NewSessionID(),
		userID:         userID,
		accessToken:    accessToken,
		refreshToken:   refreshToken,
		createdAt:      now,
		lastActivityAt: now,
		userAgent:      userAgent,
		ipAddress:      ipAddress,
	}
}

// ReconstituteAuthSession rebuilds a session from storage; no event is
// emitted and timestamps are taken as-is.
func ReconstituteAuthSession(id, userID string, accessToken, refreshToken Token, createdAt, lastActivityAt time.Time, userAgent, ipAddress string) (*AuthSession, error) {
	sid, err := ParseSessionID(id)
	if err != nil {
		return nil, err
	}
	uid, err := ParseUserID(userID)
	if err != nil {
		return nil, err
	}
	return &AuthSession{
		id:             sid,
		userID:         uid,
		accessToken:    accessToken,
		refreshToken:   refreshToken,
		createdAt:      createdAt,
		lastActivityAt: lastActivityAt,
		userAgent:      userAgent,
		ipAddress:      ipAddress,
	}, nil
}

// RefreshTokens swaps in newly minted tokens and bumps activity.
func (s *AuthSession) RefreshTokens(newAccessToken, newRefreshToken Token) {
	s.accessToken = newAccessToken
	s.refreshToken = newRefreshToken
	s.UpdateActivity()
}

// UpdateActivity stamps the session as recently used.
func (s *AuthSession) UpdateActivity() {
	s.lastActivityAt = time.Now().UTC()
}

// IsExpired reports whether both tokens have expired.
func (s *AuthSession) IsExpired() bool {
	return s.accessToken.IsExpired() && s.refreshToken.IsExpired()
}

// CanRefresh reports whether the refresh token is still usable.
func (s *AuthSession) CanRefresh() bool {
	return !s.refreshToken.IsExpired()
}

// NeedsRefresh reports whether the access token is within the refresh
// window of its expiry.
func (s *AuthSession) NeedsRefresh() bool {
	return s.accessToken.RemainingTime() < needsRefreshWindow
}

func (s *AuthSession) IsValid() bool {
	return !s.IsExpired()
}

func (s *AuthSession) ID() SessionID             { return s.id }
func (s *AuthSession) UserID() UserID            { return s.userID }
func (s *AuthSession) AccessToken() Token        { return s.accessToken }
func (s *AuthSession) RefreshToken() Token       { return s.refreshToken }
func (s *AuthSession) CreatedAt() time.Time      { return s.createdAt }
func (s *AuthSession) LastActivityAt() time.Time { return s.lastActivityAt }
func (s *AuthSession) UserAgent() string         { return s.userAgent }
func (s *AuthSession) IPAddress() string         { return s.ipAddress }
