// Package devserver is a local stand-in for the debts REST backend, used
// for development and end-to-end tests of the client.
package devserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	// Secret signs issued tokens.
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

type Server struct {
	db     *gorm.DB
	tokens *tokenIssuer
	cost   int
	log    zerolog.Logger
}

// Open opens the sqlite database at dsn.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// New migrates the schema and builds the server.
func New(db *gorm.DB, cfg Config, log zerolog.Logger) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("devserver requires database handle")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("devserver requires a token secret")
	}
	if err := db.AutoMigrate(&User{}, &Debt{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Server{
		db:     db,
		tokens: &tokenIssuer{secret: []byte(cfg.Secret), ttl: ttl},
		cost:   cost,
		log:    log,
	}, nil
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Index Page API") })

	auth := r.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.GET("/me", s.me)

	debts := r.Group("/debts")
	debts.GET("", s.listDebts)
	debts.POST("", s.createDebt)
	debts.GET("/:id", s.getDebt)
	debts.PUT("/:id", s.updateDebt)
	debts.DELETE("/:id", s.deleteDebt)

	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("[HTTP]")
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
