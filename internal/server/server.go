package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"dashboard/internal/apperr"
	"dashboard/internal/config"
	"dashboard/internal/logging"
	"dashboard/internal/models"
	"dashboard/internal/posts"
	"dashboard/internal/products"
	"dashboard/internal/revalidate"
	"dashboard/internal/session"
	"dashboard/internal/validate"
)

type Server struct {
	DB       *sql.DB
	Auth     config.Auth
	Posts    *posts.Service
	Products *products.Service

	log    *logging.Logger
	cache  *listingCache
	engine *gin.Engine
}

// New wires the HTTP routes. Cached listings are dropped whenever bus
// reports a revalidated path.
func New(db *sql.DB, auth config.Auth, ps *posts.Service, prs *products.Service, bus *revalidate.Bus, log *logging.Logger) *Server {
	s := &Server{
		DB:       db,
		Auth:     auth,
		Posts:    ps,
		Products: prs,
		log:      log,
		cache:    newListingCache(),
	}
	bus.Subscribe(s.cache.invalidate)
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.loadSession())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/register", s.handleRegister)
	r.POST("/login", s.handleLogin)
	r.POST("/logout", s.handleLogout)

	dash := r.Group("/dashboard", s.requireDashboardAuth())
	{
		dash.GET("", s.handleOverview)
		dash.GET("/posts", s.handlePostListing)
		dash.GET("/products", s.handleProductListing)
		dash.GET("/users/:id/posts", s.handleUserPosts)
	}

	api := r.Group("/api")
	{
		api.POST("/posts", s.handleCreatePost)
		api.GET("/posts/:id", s.handleGetPost)
		api.PUT("/posts/:id", s.handleUpdatePost)
		api.DELETE("/posts/:id", s.handleDeletePost)

		api.POST("/products", s.handleCreateProduct)
		api.GET("/products/:id", s.handleGetProduct)
		api.PUT("/products/:id", s.handleUpdateProduct)
		api.DELETE("/products/:id", s.handleDeleteProduct)
	}
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// failure is the body of every unsuccessful operation.
type failure struct {
	Success     bool              `json:"success"`
	ErrorKind   apperr.Kind       `json:"errorKind"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func ok(c *gin.Context, status int, record any) {
	c.JSON(status, gin.H{"success": true, "record": record})
}

func fail(c *gin.Context, err error) {
	e := apperr.From(err)
	c.JSON(apperr.Status(e.Kind), failure{
		ErrorKind:   e.Kind,
		Message:     e.Message,
		FieldErrors: e.Fields,
	})
}

// bind decodes the JSON body into dst. A malformed body is a validation failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperr.Validation(map[string]string{"_": "malformed JSON body: " + err.Error()}))
		return false
	}
	return true
}

// middleware

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		ctx := logging.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		s.log.Info(ctx, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds())
	}
}

func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := s.currentUser(c.Request); sess != nil {
			c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), sess))
		}
		c.Next()
	}
}

func (s *Server) requireDashboardAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.Auth.RequireAuth && session.FromContext(c.Request.Context()) == nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) currentUser(r *http.Request) *session.Session {
	cookie, err := r.Cookie(s.Auth.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	ctx := r.Context()
	sess, err := models.GetSession(ctx, s.DB, cookie.Value)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.log.Error(ctx, "session lookup failed", "error", err)
		}
		return nil
	}
	if sess.RevokedAt != nil || sess.ExpiresAt.Before(time.Now()) {
		return nil
	}
	u, err := models.GetUserByID(ctx, s.DB, sess.UserID)
	if err != nil {
		return nil
	}
	return &session.Session{UserID: u.ID, Email: u.Email, Name: u.Name}
}

// accounts

type credentials struct {
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var in credentials
	if !bind(c, &in) {
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(&in); err != nil {
		fail(c, err)
		return
	}
	if in.Email == posts.AnonymousEmail {
		fail(c, apperr.Validation(map[string]string{"email": "email is reserved"}))
		return
	}
	ctx := c.Request.Context()
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error(ctx, "hash password", "error", err)
		fail(c, apperr.Internal(err))
		return
	}
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := models.CreateUser(ctx, s.DB, u); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			fail(c, apperr.Validation(map[string]string{"email": models.ErrDuplicateEmail.Error()}))
			return
		}
		s.log.Error(ctx, "create user", "error", err)
		fail(c, apperr.Internal(err))
		return
	}
	ok(c, http.StatusCreated, u)
}

func (s *Server) handleLogin(c *gin.Context) {
	var in credentials
	if !bind(c, &in) {
		return
	}
	ctx := c.Request.Context()
	u, err := models.GetUserByEmail(ctx, s.DB, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil || u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		fail(c, apperr.Unauthenticated(models.ErrInvalidCredentials.Error()))
		return
	}
	sid := uuid.NewString()
	expires := time.Now().Add(s.Auth.SessionTTL)
	if err := models.CreateSession(ctx, s.DB, u.ID, sid, expires); err != nil {
		s.log.Error(ctx, "create session", "error", err)
		fail(c, apperr.Internal(err))
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{Name: s.Auth.CookieName, Value: sid, Path: "/", Expires: expires, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	ok(c, http.StatusOK, session.Session{UserID: u.ID, Email: u.Email, Name: u.Name})
}

func (s *Server) handleLogout(c *gin.Context) {
	if cookie, err := c.Request.Cookie(s.Auth.CookieName); err == nil {
		if err := models.RevokeSession(c.Request.Context(), s.DB, cookie.Value); err != nil {
			s.log.Error(c.Request.Context(), "revoke session", "error", err)
		}
	}
	http.SetCookie(c.Writer, &http.Cookie{Name: s.Auth.CookieName, Path: "/", MaxAge: -1})
	ok(c, http.StatusOK, nil)
}

// viewerKey identifies whose view a cached listing is.
func viewerKey(ctx context.Context) string {
	if sess := session.FromContext(ctx); sess != nil {
		return sess.UserID
	}
	return ""
}

// cached serves the listing at the request path from the cache, or builds it.
func (s *Server) cached(c *gin.Context, build func(ctx context.Context) (any, error)) {
	ctx := c.Request.Context()
	path := c.Request.URL.Path
	viewer := viewerKey(ctx)
	v, hit, gen := s.cache.get(path, viewer)
	if hit {
		ok(c, http.StatusOK, v)
		return
	}
	v, err := build(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	s.cache.put(path, viewer, v, gen)
	ok(c, http.StatusOK, v)
}
