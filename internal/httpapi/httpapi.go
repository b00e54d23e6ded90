// Package httpapi serves the validation pipeline over HTTP.
package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"girder/internal/ingest"
	"girder/internal/metrics"
	"girder/pkg/clash"
	"girder/pkg/pipeline"
)

// Server holds the HTTP surface around one pipeline.
type Server struct {
	pipe    *pipeline.Pipeline
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewServer wires the pipeline behind a router. metrics may be nil.
func NewServer(pipe *pipeline.Pipeline, m *metrics.Metrics, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{pipe: pipe, metrics: m, log: log}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v1 := r.Group("/api/v1")
	v1.POST("/validate", s.handleValidate)
	v1.GET("/checks", s.handleChecks)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleValidate runs the full pipeline on the posted structure document.
// JSON and YAML bodies are accepted, selected by Content-Type.
func (s *Server) handleValidate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
		return
	}

	ext := ".json"
	ct := c.GetHeader("Content-Type")
	if strings.Contains(ct, "yaml") || strings.Contains(ct, "yml") {
		ext = ".yaml"
	}

	decoded, err := ingest.Decode(body, ext)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := decoded.Build(s.log)
	if len(in.Members) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "no valid members in structure",
			"anomalies": in.Anomalies,
		})
		return
	}

	out, err := s.pipe.Run(c.Request.Context(), in.Name, in.Members, in.Joints)
	if err != nil {
		s.log.Error("validation run failed", "structure", in.Name, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out.Report.Anomalies = append(in.Anomalies, out.Report.Anomalies...)
	if s.metrics != nil {
		s.metrics.ObserveReport(out.Report)
	}

	s.log.Info("validation run finished",
		"structure", in.Name, "run", out.Report.RunID,
		"status", string(out.Report.Status), "clashes", len(out.Report.Clashes))
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleChecks(c *gin.Context) {
	codes := clash.Codes()
	type check struct {
		Code     string `json:"code"`
		Category string `json:"category"`
	}
	checks := make([]check, len(codes))
	for i, code := range codes {
		checks[i] = check{Code: code, Category: string(clash.CategoryOf(code))}
	}
	c.JSON(http.StatusOK, gin.H{"checks": checks})
}
