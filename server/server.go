package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lbreton/folio"
)

// Server is the HTTP surface of the tracker. It serves the JSON API the
// browser frontend consumes; the frontend itself is not part of this
// repository.
type Server struct {
	session *Session
	search  Searcher
	log     *zap.Logger
	engine  *gin.Engine
}

// New assembles the router. The searcher is typically the alphavantage
// client, but anything answering lookup queries will do.
func New(session *Session, search Searcher, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	s := &Server{session: session, search: search, log: log, engine: engine}

	api := engine.Group("/api")
	api.GET("/portfolio", s.getPortfolio)
	api.GET("/prices", s.getPrices)
	api.GET("/search", s.searchInstruments)
	api.POST("/transactions", s.addTransaction)
	api.PUT("/transactions/:id", s.updateTransaction)
	api.DELETE("/transactions/:id", s.deleteTransaction)
	api.GET("/stream", s.stream)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return s
}

// Handler returns the assembled http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// transactionRequest is the mutation payload: everything a transaction
// carries except the server-assigned id.
type transactionRequest struct {
	Type     string    `json:"type" binding:"required,oneof=buy sell"`
	Asset    string    `json:"asset" binding:"required"`
	Quantity float64   `json:"quantity" binding:"required,gt=0"`
	Price    float64   `json:"price" binding:"required,gt=0"`
	Date     time.Time `json:"date" binding:"required"`
}

func (r transactionRequest) transaction() folio.Transaction {
	kind, _ := folio.ParseTradeKind(r.Type) // binding already constrained it
	return folio.Transaction{
		Kind:       kind,
		Instrument: r.Asset,
		Quantity:   folio.Q(r.Quantity),
		UnitPrice:  folio.M(r.Price),
		TradeDate:  r.Date,
	}
}

func (s *Server) getPortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) getPrices(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Prices())
}

func (s *Server) searchInstruments(c *gin.Context) {
	results := s.search.Search(c.Request.Context(), c.Query("q"))
	if results == nil {
		results = []folio.SearchResult{}
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) addTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := s.session.AddTransaction(req.transaction())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (s *Server) updateTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := s.session.UpdateTransaction(id, req.transaction())
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, folio.ErrTransactionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	if err := s.session.DeleteTransaction(id); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, folio.ErrTransactionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// requestLogger logs one line per request, zap-style.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
