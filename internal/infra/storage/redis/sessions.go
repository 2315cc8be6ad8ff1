package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	domainauth "innkeep/internal/domain/auth"
	domainuser "innkeep/internal/domain/user"
)

// SessionStore keeps bearer sessions in Redis. The TTL on each entry tracks
// the session expiry, and a per-user set backs DeleteByUser so role changes
// can revoke every outstanding token.
type SessionStore struct {
	client *goredis.Client
}

func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

type sessionRecord struct {
	Token     string   `json:"token"`
	UserID    string   `json:"user_id"`
	Roles     []string `json:"roles"`
	CreatedAt int64    `json:"created_at"`
	ExpiresAt int64    `json:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	roles := make([]string, 0, len(session.Roles))
	for _, r := range session.Roles {
		roles = append(roles, string(r))
	}
	raw, err := json.Marshal(sessionRecord{
		Token:     string(session.Token),
		UserID:    string(session.UserID),
		Roles:     roles,
		CreatedAt: session.CreatedAt.UnixMilli(),
		ExpiresAt: session.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(session.Token), raw, ttl)
	pipe.SAdd(ctx, s.userKey(session.UserID), string(session.Token))
	pipe.Expire(ctx, s.userKey(session.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	session := &domainauth.Session{
		Token:     domainauth.Token(rec.Token),
		UserID:    domainuser.ID(rec.UserID),
		Roles:     make([]domainuser.Role, 0, len(rec.Roles)),
		CreatedAt: time.UnixMilli(rec.CreatedAt).UTC(),
		ExpiresAt: time.UnixMilli(rec.ExpiresAt).UTC(),
	}
	for _, r := range rec.Roles {
		session.Roles = append(session.Roles, domainuser.Role(r))
	}
	if session.Expired(time.Now()) {
		_ = s.Delete(ctx, token)
		return nil, domainauth.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return err
	}
	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err == nil && rec.UserID != "" {
		_ = s.client.SRem(ctx, s.userKey(domainuser.ID(rec.UserID)), string(token)).Err()
	}
	return s.client.Del(ctx, s.tokenKey(token)).Err()
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	tokens, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, s.tokenKey(domainauth.Token(token)))
	}
	keys = append(keys, s.userKey(userID))
	return s.client.Del(ctx, keys...).Err()
}

func (s *SessionStore) tokenKey(token domainauth.Token) string {
	return "sess:" + string(token)
}

func (s *SessionStore) userKey(userID domainuser.ID) string {
	return "sess_user:" + string(userID)
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
