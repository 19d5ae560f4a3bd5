package repositories

import (
	"context"
	"errors"
	"time"

	"pojistovna/internal/database"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"

	"gorm.io/gorm"
)

const sessionCacheTTL = 15 * time.Minute

type SessionRepository interface {
	GetByToken(ctx context.Context, token string) (*Session, error)
	Create(ctx context.Context, session *Session) error
	Delete(ctx context.Context, token string) error
}

// sessionRepository is cache-aside: valkey in front of the identity schema.
// Cache trouble is logged as a warning and falls through to the database.
type sessionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSession(db database.DB) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: logger.New("sessionRepository"),
	}
}

func cacheKey(token string) string {
	return "session:" + token
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*Session, error) {
	log := r.log.Function("GetByToken")

	var session Session
	found, err := database.NewCacheBuilder(r.db.Cache.Session, cacheKey(token)).
		WithContext(ctx).
		Get(&session)
	if err != nil {
		log.Warn("failed to read session from cache", "error", err)
	}
	if found && !session.Expired() {
		return &session, nil
	}

	if err := r.db.IdentityWithContext(ctx).First(&session, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get session", err)
	}

	if session.Expired() {
		// Expired rows are cleaned up lazily on access.
		if err := r.Delete(ctx, token); err != nil {
			log.Warn("failed to remove expired session", "error", err)
		}
		return nil, ErrNotFound
	}

	if err := r.addToCache(ctx, &session); err != nil {
		log.Warn("failed to add session to cache", "error", err)
	}

	return &session, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *Session) error {
	log := r.log.Function("Create")

	if err := r.db.IdentityWithContext(ctx).Create(session).Error; err != nil {
		return log.Err("failed to create session", err, "userID", session.UserID)
	}

	if err := r.addToCache(ctx, session); err != nil {
		log.Warn("failed to add session to cache", "error", err)
	}

	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	log := r.log.Function("Delete")

	if err := r.db.IdentityWithContext(ctx).Delete(&Session{}, "token = ?", token).Error; err != nil {
		return log.Err("failed to delete session", err)
	}

	if err := database.NewCacheBuilder(r.db.Cache.Session, cacheKey(token)).WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to remove session from cache", "error", err)
	}

	return nil
}

func (r *sessionRepository) addToCache(ctx context.Context, session *Session) error {
	ttl := sessionCacheTTL
	if remaining := time.Until(session.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return nil
	}

	return database.NewCacheBuilder(r.db.Cache.Session, cacheKey(session.Token)).
		WithStruct(session).
		WithTTL(ttl).
		WithContext(ctx).
		Set()
}
