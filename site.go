package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aminshennan/portfolio/internal/config"
	"github.com/aminshennan/portfolio/internal/i18n"
	"github.com/aminshennan/portfolio/internal/projects"
	"github.com/aminshennan/portfolio/internal/skills"
	"github.com/aminshennan/portfolio/internal/storage"
	"github.com/aminshennan/portfolio/internal/timeline"
	"github.com/gin-gonic/gin"
)

// site carries everything request handlers share. Per-visitor language
// state lives in a fresh i18n.Store built for each request.
type site struct {
	cfg     *config.Config
	catalog *i18n.Catalog
	db      *storage.DB
	admin   *adminAuth
	send    func(*config.Config, contactMessage) error
	now     func() time.Time

	// visits tracks in-flight visit inserts so shutdown can drain them
	// before the database closes.
	visits sync.WaitGroup
}

func newSite(cfg *config.Config, catalog *i18n.Catalog, db *storage.DB) *site {
	return &site{
		cfg:     cfg,
		catalog: catalog,
		db:      db,
		admin:   newAdminAuth(cfg),
		send:    sendContactEmail,
		now:     time.Now,
	}
}

func (s *site) normalizer() timeline.Normalizer {
	return timeline.Normalizer{Now: s.now, Strict: s.cfg.StrictTimeline}
}

func (s *site) routes() *gin.Engine {
	r := gin.Default()
	r.LoadHTMLGlob(s.cfg.TemplatesGlob)
	r.Static("/static", "./static")

	r.Use(s.visitorTrackingMiddleware())

	r.GET("/", s.handleIndex)
	r.GET("/lang/:code", s.handleSetLanguage)

	// HTMX contact form endpoint - returns just the form HTML
	r.GET("/contact-form", s.handleContactForm)
	r.POST("/contact", s.handleContact)

	r.GET("/privacy", func(c *gin.Context) {
		st := s.storeFor(c)
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"t":     st.Text,
			"attrs": st.Attributes(),
		})
	})

	api := r.Group("/api")
	api.GET("/translate", s.handleTranslate)
	api.GET("/timeline", s.handleTimeline)
	api.GET("/projects", s.handleProjects)
	api.GET("/skills", s.handleSkills)

	s.setupAdminRoutes(r)
	return r
}

// Timeline sections.
const (
	sectionExperience = "experience"
	sectionVolunteer  = "volunteer"
	sectionAll        = "all"
)

// timelineItems decodes the translated entries of a section.
func timelineItems(st *i18n.Store, section string) ([]timeline.Item, error) {
	switch section {
	case sectionExperience:
		return timeline.FromTranslation(st.Translate("experience.timeline"), timeline.Work)
	case sectionVolunteer:
		return timeline.FromTranslation(st.Translate("volunteer.roles"), timeline.Volunteer)
	case sectionAll:
		work, err := timelineItems(st, sectionExperience)
		if err != nil {
			return nil, err
		}
		volunteer, err := timelineItems(st, sectionVolunteer)
		if err != nil {
			return nil, err
		}
		return append(work, volunteer...), nil
	}
	return nil, errUnknownSection
}

var errUnknownSection = errors.New("unknown timeline section")

// sortedTimeline returns the section ordered newest first. Decode
// failures are logged and render as an empty section.
func (s *site) sortedTimeline(st *i18n.Store, section string) []timeline.Entry {
	items, err := timelineItems(st, section)
	if err != nil {
		log.Printf("Error loading %s timeline (%s): %v", section, st.Language(), err)
		return nil
	}
	return s.normalizer().SortDescending(items)
}

type skillView struct {
	skills.Skill
	Score  int    `json:"score"`
	Level  string `json:"level"`
	Accent string `json:"accent"`
}

func skillViews(st *i18n.Store, key string) []skillView {
	list, err := skills.FromTranslation(st.Translate(key))
	if err != nil {
		log.Printf("Error loading %s (%s): %v", key, st.Language(), err)
		return nil
	}
	out := make([]skillView, 0, len(list))
	for _, sk := range list {
		out = append(out, skillView{
			Skill:  sk,
			Score:  sk.Score(),
			Level:  st.Text(sk.Level().Key()),
			Accent: sk.Accent(),
		})
	}
	return out
}

type projectView struct {
	projects.Project
	Metrics []projects.Metric `json:"metrics"`
}

func projectViews(st *i18n.Store) []projectView {
	list, err := projects.FromTranslation(st.Translate("projects.projectList"))
	if err != nil {
		log.Printf("Error loading projects (%s): %v", st.Language(), err)
		return nil
	}
	out := make([]projectView, 0, len(list))
	for _, p := range list {
		out = append(out, projectView{Project: p, Metrics: p.Metrics()})
	}
	return out
}

type languageOption struct {
	Code   i18n.Code
	Label  string
	Active bool
}

func languageOptions(st *i18n.Store) []languageOption {
	options := make([]languageOption, 0, len(i18n.Codes()))
	for _, code := range i18n.Codes() {
		options = append(options, languageOption{
			Code:   code,
			Label:  st.Text("nav.languages." + string(code)),
			Active: code == st.Language(),
		})
	}
	return options
}

// stringList keeps the string items of a translated sequence. Anything
// else, including a missing-key placeholder, yields nil.
func stringList(value any) []string {
	seq, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(seq))
	for _, v := range seq {
		if text, ok := v.(string); ok {
			out = append(out, text)
		}
	}
	return out
}

func (s *site) handleIndex(c *gin.Context) {
	st := s.storeFor(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"t":           st.Text,
		"attrs":       st.Attributes(),
		"languages":   languageOptions(st),
		"careerGoals": stringList(st.Translate("about.careerGoals")),
		"technical":   skillViews(st, "skills.technical"),
		"soft":        skillViews(st, "skills.soft"),
		"projects":    projectViews(st),
		"experience":  s.sortedTimeline(st, sectionExperience),
		"volunteer":   s.sortedTimeline(st, sectionVolunteer),
		"year":        s.now().Year(),
	})
}

// handleSetLanguage persists the chosen language and returns the visitor
// to where they were. Unsupported codes change nothing.
func (s *site) handleSetLanguage(c *gin.Context) {
	st := s.storeFor(c)
	st.SetLanguage(i18n.Code(c.Param("code")))

	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusFound, safeNext(c.Query("next")))
}

// safeNext only allows local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}

// apiStore returns a store for read-only API calls. A valid "lang" query
// parameter selects the language without persisting it.
func (s *site) apiStore(c *gin.Context, opts ...i18n.Option) *i18n.Store {
	if code, err := i18n.ParseCode(c.Query("lang")); err == nil {
		st := i18n.NewStore(s.catalog.Tree(), opts...)
		st.Initialize()
		st.SetLanguage(code)
		return st
	}
	return s.storeFor(c, opts...)
}

func (s *site) handleTranslate(c *gin.Context) {
	key := strings.TrimSpace(c.Query("key"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	found := true
	st := s.apiStore(c, i18n.WithMissingKeyHandler(func(m i18n.MissingKey) {
		found = false
		i18n.LogMissingKey(m)
	}))
	value := st.Translate(key)

	c.JSON(http.StatusOK, gin.H{
		"key":       key,
		"language":  st.Language(),
		"direction": st.Direction(),
		"found":     found,
		"value":     value,
	})
}

type entryJSON struct {
	timeline.Item
	Date   time.Time `json:"date"`
	Parsed bool      `json:"parsed"`
}

func (s *site) handleTimeline(c *gin.Context) {
	section := c.DefaultQuery("section", sectionExperience)
	st := s.apiStore(c)

	items, err := timelineItems(st, section)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errUnknownSection) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	entries := s.normalizer().SortDescending(items)
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{Item: e.Item, Date: e.Date, Parsed: e.Parsed})
	}
	c.JSON(http.StatusOK, gin.H{
		"language":  st.Language(),
		"direction": st.Direction(),
		"section":   section,
		"entries":   out,
	})
}

func (s *site) handleProjects(c *gin.Context) {
	st := s.apiStore(c)
	c.JSON(http.StatusOK, gin.H{
		"language": st.Language(),
		"projects": projectViews(st),
	})
}

func (s *site) handleSkills(c *gin.Context) {
	st := s.apiStore(c)
	c.JSON(http.StatusOK, gin.H{
		"language":  st.Language(),
		"technical": skillViews(st, "skills.technical"),
		"soft":      skillViews(st, "skills.soft"),
	})
}

// visitorTrackingMiddleware records page views with hashed IPs. Static
// files, admin pages and API calls are skipped, and Do Not Track is
// honored.
func (s *site) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if s.db == nil ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/api/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") ||
			c.GetHeader("DNT") == "1" ||
			isPrefetch(c) {
			c.Next()
			return
		}

		c.Next()

		var language string
		if v, ok := c.Get(attributesKey); ok {
			language = string(v.(i18n.Attributes).Lang)
		}
		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		s.visits.Add(1)
		go func() {
			defer s.visits.Done()
			if err := s.db.RecordVisit(context.Background(), ip, ua, path, language); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
	}
}
