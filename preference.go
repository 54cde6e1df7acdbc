package main

import (
	"net/http"

	"github.com/aminshennan/portfolio/internal/config"
	"github.com/aminshennan/portfolio/internal/i18n"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	languageCookie  = "language"
	visitorCookie   = "visitor_id"
	cookieMaxAgeSec = 365 * 24 * 3600
)

// cookiePreference keeps the language in a long-lived browser cookie.
type cookiePreference struct {
	c *gin.Context
}

func (p cookiePreference) Load() (string, bool) {
	value, err := p.c.Cookie(languageCookie)
	if err != nil {
		return "", false
	}
	return value, true
}

func (p cookiePreference) Save(value string) error {
	p.c.SetSameSite(http.SameSiteLaxMode)
	p.c.SetCookie(languageCookie, value, cookieMaxAgeSec, "/", "", false, true)
	return nil
}

// isPrefetch reports speculative loads, which must not touch preferences.
func isPrefetch(c *gin.Context) bool {
	return c.GetHeader("Sec-Purpose") == "prefetch" || c.GetHeader("Purpose") == "prefetch"
}

// visitorID returns the visitor's stable id, issuing one when needed.
func visitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookie); err == nil {
		if parsed, err := uuid.Parse(id); err == nil {
			return parsed.String()
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(visitorCookie, id, cookieMaxAgeSec, "/", "", false, true)
	return id
}

// preferenceFor picks the storage backing the visitor's language. It is
// nil when the request cannot persist anything.
func (s *site) preferenceFor(c *gin.Context) i18n.Storage {
	if isPrefetch(c) {
		return nil
	}
	if s.cfg.PreferenceBackend == config.BackendSQLite && s.db != nil {
		return s.db.Preference(c.Request.Context(), visitorID(c))
	}
	return cookiePreference{c: c}
}

// storeFor builds the language store of one request. Presentation
// attributes land in the gin context for templates.
func (s *site) storeFor(c *gin.Context, extra ...i18n.Option) *i18n.Store {
	opts := []i18n.Option{
		i18n.WithPresenter(i18n.PresenterFunc(func(a i18n.Attributes) {
			c.Set(attributesKey, a)
		})),
	}
	opts = append(opts, extra...)
	if storage := s.preferenceFor(c); storage != nil {
		opts = append(opts, i18n.WithStorage(storage))
	}
	if s.cfg.NegotiateLanguage {
		opts = append(opts, i18n.WithFallback(i18n.Negotiate(c.GetHeader("Accept-Language"))))
	}
	st := i18n.NewStore(s.catalog.Tree(), opts...)
	st.Initialize()
	return st
}

const attributesKey = "i18n.attributes"
