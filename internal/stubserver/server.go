// Package stubserver is a local stand-in for the remote report API, used
// for development and tests.
package stubserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pokereports/pokereports/internal/lifecycle"
	"github.com/pokereports/pokereports/internal/logx"
)

// Envelope selects how GET /api/request wraps the list.
type Envelope string

const (
	EnvelopeArray   Envelope = "array"
	EnvelopeResults Envelope = "results"
	EnvelopeData    Envelope = "data"
)

// ParseEnvelope validates an envelope name.
func ParseEnvelope(s string) (Envelope, error) {
	switch e := Envelope(strings.ToLower(s)); e {
	case EnvelopeArray, EnvelopeResults, EnvelopeData:
		return e, nil
	case "":
		return EnvelopeArray, nil
	}
	return "", fmt.Errorf("unknown envelope %q (want array, results or data)", s)
}

// Config configures the stub server.
type Config struct {
	CompleteAfter time.Duration
	Envelope      Envelope
	// Now overrides the clock.
	Now func() time.Time
}

// Server serves the report API from an in-memory store.
type Server struct {
	cfg    Config
	store  *Store
	drain  *lifecycle.DrainManager
	engine *gin.Engine
}

type createRequest struct {
	Type       string `json:"type"`
	SampleSize *int   `json:"sampleSize"`
}

func New(cfg Config) *Server {
	if cfg.Envelope == "" {
		cfg.Envelope = EnvelopeArray
	}
	s := &Server{
		cfg:   cfg,
		store: NewStore(cfg.CompleteAfter, cfg.Now),
		drain: lifecycle.NewDrainManager(),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logx.RequestIDMiddleware())
	r.Use(logx.AccessLogMiddleware("stub_http"))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logx.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", logx.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(func(c *gin.Context) {
		if s.drain.IsDraining() && c.Request.URL.Path != "/health" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service is draining"})
			return
		}
		release := s.drain.Track()
		defer release()
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/request", s.list)
		api.POST("/request", s.create)
		api.DELETE("/request/:id", s.delete)
		api.GET("/types", s.types)
	}
	r.GET("/files/:file", s.download)

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("stub server starting", "component", "stub_server", "addr", addr,
			"envelope", s.cfg.Envelope, "complete_after", s.cfg.CompleteAfter.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start stub server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down stub server", "component", "stub_server")
	s.drain.StartDraining()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stub server forced to shutdown: %w", err)
	}
	if err := s.drain.Wait(shutdownCtx); err != nil {
		slog.Warn("stub server drained with timeout", "component", "stub_server", "active", s.drain.Active())
	}
	return nil
}

func (s *Server) wire(rec record) gin.H {
	out := gin.H{
		"ReportId":    rec.ID,
		"Status":      statusPending,
		"PokemonType": rec.Type,
		"Created":     rec.Created.Format(time.RFC3339),
		"Updated":     rec.Created.Format(time.RFC3339),
		"sample_size": rec.SampleSize,
	}
	if done, at := s.store.Completed(rec); done {
		out["Status"] = statusCompleted
		out["Updated"] = at.Format(time.RFC3339)
		out["URL"] = "/files/" + rec.ID + ".csv"
	}
	return out
}

// list handles GET /api/request
func (s *Server) list(c *gin.Context) {
	recs := s.store.List()
	items := make([]gin.H, 0, len(recs))
	for _, rec := range recs {
		items = append(items, s.wire(rec))
	}

	switch s.cfg.Envelope {
	case EnvelopeResults:
		c.JSON(http.StatusOK, gin.H{"count": len(items), "results": items})
	case EnvelopeData:
		c.JSON(http.StatusOK, gin.H{"data": items})
	default:
		c.JSON(http.StatusOK, items)
	}
}

// create handles POST /api/request
func (s *Server) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_REQUEST", "message": err.Error()}})
		return
	}
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_REQUEST", "message": "type is required"}})
		return
	}
	size := 0
	if req.SampleSize != nil {
		if *req.SampleSize <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "INVALID_REQUEST", "message": "sampleSize must be a positive integer"}})
			return
		}
		size = *req.SampleSize
	}

	rec := s.store.Create(req.Type, size)
	logx.Logger(c.Request.Context(), nil).Info("report requested",
		"component", "stub_server", "report_id", rec.ID, "type", rec.Type, "sample_size", size)
	c.JSON(http.StatusCreated, s.wire(rec))
}

// delete handles DELETE /api/request/:id
func (s *Server) delete(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "REPORT_NOT_FOUND", "message": "Report '" + id + "' not found"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "reportId": id})
}

// types handles GET /api/types
func (s *Server) types(c *gin.Context) {
	results := make([]gin.H, 0, len(Types))
	for _, t := range Types {
		results = append(results, gin.H{"name": t})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "results": results})
}

// download handles GET /files/:file
func (s *Server) download(c *gin.Context) {
	id, ok := strings.CutSuffix(c.Param("file"), ".csv")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	rec, err := s.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "REPORT_NOT_FOUND", "message": "Report '" + id + "' not found"}})
		return
	}
	if done, _ := s.store.Completed(rec); !done {
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"code": "REPORT_PENDING", "message": "Report '" + id + "' is not ready"}})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.ID+".csv"))
	c.Status(http.StatusOK)
	if err := writeCSV(c.Writer, rec.Type, rec.SampleSize); err != nil {
		_ = c.Error(err)
	}
}
