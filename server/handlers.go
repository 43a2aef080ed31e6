package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liorion-nguyen/chess-master-app/engine"
	"github.com/liorion-nguyen/chess-master-app/practice"
	"github.com/liorion-nguyen/chess-master-app/rules"
)

type createRequest struct {
	Lesson     string            `json:"lesson"`
	Mode       practice.Mode     `json:"mode"`
	FEN        string            `json:"fen"`
	Pieces     []rules.Placement `json:"pieces"`
	Turn       rules.Color       `json:"turn"`
	Difficulty string            `json:"difficulty"`
	Expected   []string          `json:"expected"`
	White      []string          `json:"white"`
	Black      []string          `json:"black"`
}

type selectRequest struct {
	Square string `json:"square" binding:"required"`
}

type moveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
	SAN       string `json:"san"`
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty" binding:"required"`
}

type sessionResponse struct {
	ID      string            `json:"id"`
	Session practice.Snapshot `json:"session"`
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) ListLessons(c *gin.Context) {
	var mode practice.Mode
	if q := c.Query("mode"); q != "" {
		m, err := practice.ParseMode(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		mode = m
	}
	c.JSON(http.StatusOK, gin.H{"lessons": s.opts.Catalog.Lessons(mode)})
}

// RandomLesson picks a catalog lesson, optionally restricted to ?mode=.
func (s *Server) RandomLesson(c *gin.Context) {
	var mode practice.Mode
	if q := c.Query("mode"); q != "" {
		m, err := practice.ParseMode(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		mode = m
	}
	s.rngMu.Lock()
	l, err := s.opts.Catalog.Random(mode, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": l})
}

func (s *Server) LearningPath(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"lessons": s.opts.Catalog.LearningPath()})
}

func (s *Server) CreateSession(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lesson, err := s.lessonFor(req)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	e, err := s.sessions.Create(func(observe practice.Option) (practice.Session, error) {
		return practice.NewSession(lesson,
			observe,
			practice.WithLogger(s.log.With().Str("lesson", lesson.Key).Logger()),
			practice.WithEngine(s.opts.NewEngine()),
			practice.WithThinkingCap(s.opts.ThinkingCap),
			practice.WithHumanDelay(s.opts.HumanDelay),
		)
	})
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	s.log.Info().Str("id", e.id).Str("mode", string(lesson.Mode)).Str("lesson", lesson.Key).Msg("session created")
	c.JSON(http.StatusCreated, sessionResponse{ID: e.id, Session: e.session.Snapshot()})
}

// lessonFor resolves a catalog lesson or builds an ad hoc one from a FEN or
// a piece list.
func (s *Server) lessonFor(req createRequest) (practice.Lesson, error) {
	if req.Lesson != "" {
		return s.opts.Catalog.Lesson(req.Lesson)
	}
	mode, err := practice.ParseMode(string(req.Mode))
	if err != nil {
		return practice.Lesson{}, err
	}
	l := practice.Lesson{
		Mode:       mode,
		FEN:        req.FEN,
		Expected:   req.Expected,
		White:      req.White,
		Black:      req.Black,
		Difficulty: s.opts.Difficulty,
	}
	if len(req.Pieces) > 0 {
		if req.FEN != "" {
			return practice.Lesson{}, fmt.Errorf("%w: give either fen or pieces", rules.ErrInvalidPosition)
		}
		b, err := rules.FromPieces(req.Pieces, req.Turn)
		if err != nil {
			return practice.Lesson{}, err
		}
		l.FEN = b.FEN()
	}
	if req.Difficulty != "" {
		if l.Difficulty, err = engine.ParseDifficulty(req.Difficulty); err != nil {
			return practice.Lesson{}, err
		}
	}
	return l, nil
}

// lookup resolves the :id parameter, answering 404 itself when it fails.
func (s *Server) lookup(c *gin.Context) (*entry, bool) {
	e, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return e, true
}

func (s *Server) GetSession(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: e.id, Session: e.session.Snapshot()})
}

func (s *Server) DeleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.log.Info().Str("id", c.Param("id")).Msg("session deleted")
	c.Status(http.StatusNoContent)
}

func (s *Server) Select(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sq, err := rules.ParseSquare(req.Square)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := e.session.Select(sq)
	s.respond(c, e, snap, err)
}

func (s *Server) Move(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SAN != "" {
		snap, err := e.session.PlaySAN(c.Request.Context(), req.SAN)
		s.respond(c, e, snap, err)
		return
	}
	from, err := rules.ParseSquare(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from: " + err.Error()})
		return
	}
	to, err := rules.ParseSquare(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to: " + err.Error()})
		return
	}
	promo, err := rules.ParsePieceType(req.Promotion)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := e.session.Move(c.Request.Context(), from, to, promo)
	s.respond(c, e, snap, err)
}

func (s *Server) Undo(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	snap, err := e.session.Undo()
	s.respond(c, e, snap, err)
}

func (s *Server) Reset(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	snap, err := e.session.Reset()
	s.respond(c, e, snap, err)
}

func (s *Server) Hint(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	m, err := e.session.Hint()
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"move": m, "uci": m.String()})
}

type difficultySetter interface {
	SetDifficulty(engine.Difficulty) (practice.Snapshot, error)
}

func (s *Server) SetDifficulty(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	var req difficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := engine.ParseDifficulty(req.Difficulty)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	setter, ok := e.session.(difficultySetter)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "session has no engine opponent"})
		return
	}
	snap, err := setter.SetDifficulty(d)
	s.respond(c, e, snap, err)
}

func (s *Server) PGN(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	pgn, err := e.session.PGN()
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pgn": pgn})
}

func (s *Server) Watch(c *gin.Context) {
	e, ok := s.lookup(c)
	if !ok {
		return
	}
	if err := serveWS(e.hub, e.session.Snapshot(), c.Writer, c.Request); err != nil {
		s.log.Debug().Err(err).Str("id", e.id).Msg("websocket upgrade failed")
	}
}

// respond answers with the snapshot, adding the error and its details when
// the operation failed.
func (s *Server) respond(c *gin.Context, e *entry, snap practice.Snapshot, err error) {
	if err == nil {
		c.JSON(http.StatusOK, sessionResponse{ID: e.id, Session: snap})
		return
	}
	body := gin.H{"error": err.Error(), "session": snap}
	var mistake *practice.MistakeError
	if errors.As(err, &mistake) {
		body["played"] = mistake.Played
		body["expected"] = mistake.Expected
		body["side"] = mistake.Side.Name()
	}
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("id", e.id).Msg("session operation failed")
	}
	c.JSON(status, body)
}

func statusOf(err error) int {
	var mistake *practice.MistakeError
	switch {
	case errors.As(err, &mistake),
		errors.Is(err, rules.ErrInvalidMove),
		errors.Is(err, practice.ErrIllegalTarget):
		return http.StatusUnprocessableEntity
	case errors.Is(err, practice.ErrUnknownLesson),
		errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, practice.ErrNotYourTurn),
		errors.Is(err, practice.ErrNoSelection),
		errors.Is(err, practice.ErrGameOver),
		errors.Is(err, practice.ErrEngineThinking),
		errors.Is(err, practice.ErrLessonComplete),
		errors.Is(err, practice.ErrNoHint),
		errors.Is(err, practice.ErrClosed),
		errors.Is(err, rules.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, practice.ErrUnknownMode),
		errors.Is(err, engine.ErrUnknownDifficulty),
		errors.Is(err, rules.ErrInvalidFEN),
		errors.Is(err, rules.ErrInvalidSquare),
		errors.Is(err, rules.ErrInvalidPosition):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
