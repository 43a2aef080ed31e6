// Package server exposes practice sessions over HTTP and websockets.
package server

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/liorion-nguyen/chess-master-app/engine"
	"github.com/liorion-nguyen/chess-master-app/practice"
)

type Options struct {
	Log         zerolog.Logger
	CORSOrigins []string
	Catalog     practice.Catalog
	Difficulty  engine.Difficulty // for ad hoc free-play sessions
	ThinkingCap time.Duration
	HumanDelay  time.Duration
	// NewEngine builds the engine of each free-play session; nil means
	// engine.New with default options.
	NewEngine func() *engine.Engine
}

// Server owns the live sessions behind the router.
type Server struct {
	log      zerolog.Logger
	opts     Options
	sessions *store

	rngMu sync.Mutex
	rng   *rand.Rand // lesson picks
}

func New(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = practice.DefaultCatalog
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.NewEngine == nil {
		opts.NewEngine = func() *engine.Engine { return engine.New() }
	}
	return &Server{
		log:      opts.Log,
		opts:     opts,
		sessions: newStore(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Close ends every session.
func (s *Server) Close() { s.sessions.Close() }

// NewRouter builds the HTTP API around s.
func NewRouter(s *Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.log))
	router.Use(cors.New(cors.Config{
		AllowOrigins: s.opts.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", s.Health)
	router.GET("/lessons", s.ListLessons)
	router.GET("/lessons/path", s.LearningPath)
	router.GET("/lessons/random", s.RandomLesson)

	sessions := router.Group("/sessions")
	sessions.POST("", s.CreateSession)
	sessions.GET("/:id", s.GetSession)
	sessions.DELETE("/:id", s.DeleteSession)
	sessions.POST("/:id/select", s.Select)
	sessions.POST("/:id/moves", s.Move)
	sessions.POST("/:id/undo", s.Undo)
	sessions.POST("/:id/reset", s.Reset)
	sessions.GET("/:id/hint", s.Hint)
	sessions.PUT("/:id/difficulty", s.SetDifficulty)
	sessions.GET("/:id/pgn", s.PGN)
	sessions.GET("/:id/ws", s.Watch)

	return router
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
