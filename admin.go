// admin.go - privacy-conscious admin dashboard
package main

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/aminshennan/portfolio/internal/config"
	"github.com/aminshennan/portfolio/internal/i18n"
	"github.com/aminshennan/portfolio/internal/timeline"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	adminCookie     = "admin_token"
	adminSessionTTL = 24 * time.Hour
)

// adminAuth issues and checks signed admin session tokens.
type adminAuth struct {
	username string
	password string
	secret   []byte
	now      func() time.Time
}

func newAdminAuth(cfg *config.Config) *adminAuth {
	a := &adminAuth{
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
		secret:   []byte(cfg.AdminSecret),
		now:      time.Now,
	}
	if len(a.secret) == 0 {
		a.secret = []byte(randomToken())
	}
	if a.password == "" {
		a.password = randomToken()
		if gin.Mode() == gin.DebugMode {
			log.Printf("WARNING: ADMIN_PASSWORD not set. Generated admin password (dev only): %s", a.password)
		}
	}
	log.Printf("Admin access available at: /admin/login")
	return a
}

func randomToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate admin token:", err)
	}
	return hex.EncodeToString(bytes)
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

func (a *adminAuth) issue() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   a.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminSessionTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

var errBadSession = errors.New("invalid admin session")

func (a *adminAuth) verify(token string) error {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return err
	}
	if !parsed.Valid || claims.Subject != a.username {
		return errBadSession
	}
	return nil
}

// middleware redirects requests without a valid session cookie to the
// login page.
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || a.verify(token) != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// catalogReport summarizes translation health for each language.
type catalogReport struct {
	Gaps     []string          `json:"gaps"`
	Timeline map[string]string `json:"timeline"`
}

func buildCatalogReport(tree i18n.Tree) catalogReport {
	report := catalogReport{Timeline: map[string]string{}}
	for _, gap := range tree.Parity() {
		report.Gaps = append(report.Gaps, gap.String())
	}
	for _, code := range tree.Languages() {
		st := i18n.NewStore(tree, i18n.WithMissingKeyHandler(nil))
		st.Initialize()
		st.SetLanguage(code)

		status := "ok"
		items, err := timelineItems(st, sectionAll)
		if err == nil {
			err = timeline.Validate(items)
		}
		if err != nil {
			status = err.Error()
		}
		report.Timeline[string(code)] = status
	}
	return report
}

func (s *site) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			log.Printf("Failed admin login attempt from %s", s.hashIP(c.ClientIP()))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"error": "Invalid credentials",
			})
			return
		}

		token, err := s.admin.issue()
		if err != nil {
			log.Printf("Error issuing admin token: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to start session",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, token, int(adminSessionTTL.Seconds()), "/admin", "", false, true)
		log.Printf("Admin login successful from %s", s.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(s.admin.middleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		if s.db == nil {
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{
				"error": "Visitor storage is disabled",
			})
			return
		}
		stats, err := s.db.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":   stats,
			"catalog": buildCatalogReport(s.catalog.Tree()),
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		if s.db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor storage is disabled"})
			return
		}
		stats, err := s.db.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/api/catalog", func(c *gin.Context) {
		c.JSON(http.StatusOK, buildCatalogReport(s.catalog.Tree()))
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		if s.db == nil {
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{
				"error": "Visitor storage is disabled",
			})
			return
		}
		visitors, err := s.db.RecentVisits(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// Privacy compliance: drop visits past the retention window now.
	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor storage is disabled"})
			return
		}
		removed, err := s.db.CleanupVisits(c.Request.Context(), s.cfg.VisitorRetention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		if s.db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor storage is disabled"})
			return
		}
		stats, err := s.db.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", s.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}

// hashIP keeps raw addresses out of the logs.
func (s *site) hashIP(ip string) string {
	if s.db != nil {
		return s.db.HashIP(ip)
	}
	return "-"
}
