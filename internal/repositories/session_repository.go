package repositories

import (
	"time"

	"querydesk/internal/models"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the in-process registry of live sessions. Entries
// expire after the configured idle TTL, which is what discards a transcript;
// there is deliberately no persistence behind this.
type SessionRepository interface {
	Put(session *models.Session)
	Get(id string) (*models.Session, bool)
	Delete(id string)
	Touch(id string)
	CountByUser(userID string) int
}

type sessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) SessionRepository {
	return &sessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *sessionRepository) Put(session *models.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *sessionRepository) Get(id string) (*models.Session, bool) {
	value, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}

func (r *sessionRepository) Delete(id string) {
	r.cache.Delete(id)
}

// Touch refreshes the idle expiry so an active conversation never vanishes
// mid-use.
func (r *sessionRepository) Touch(id string) {
	if value, ok := r.cache.Get(id); ok {
		r.cache.Set(id, value, cache.DefaultExpiration)
	}
}

func (r *sessionRepository) CountByUser(userID string) int {
	count := 0
	for _, item := range r.cache.Items() {
		if session, ok := item.Object.(*models.Session); ok && session.UserID == userID {
			count++
		}
	}
	return count
}
