package i18n

import (
	"net/http"
	"sync"
	"time"
)

// Storage persists small string values for a visitor.
type Storage interface {
	Get(key string) string
	Set(key, value string)
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the stored value or "".
func (s *MemoryStorage) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Set stores a value.
func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// CookieMaxAge is how long a persisted preference lives in the browser.
const CookieMaxAge = 365 * 24 * time.Hour

// CookieStorage reads values from request cookies and writes them back as
// Set-Cookie headers on the response.
type CookieStorage struct {
	r       *http.Request
	w       http.ResponseWriter
	written map[string]string
}

// NewCookieStorage binds storage to one request/response pair. w may be nil
// for read-only use.
func NewCookieStorage(w http.ResponseWriter, r *http.Request) *CookieStorage {
	return &CookieStorage{r: r, w: w, written: make(map[string]string)}
}

// Get prefers a value set during this request over the request cookie.
func (s *CookieStorage) Get(key string) string {
	if v, ok := s.written[key]; ok {
		return v
	}
	if s.r == nil {
		return ""
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return ""
	}
	return c.Value
}

// Set records the value and emits a cookie.
func (s *CookieStorage) Set(key, value string) {
	s.written[key] = value
	if s.w == nil {
		return
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
