package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/config"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/pipeline"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/report"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/driver"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/logging"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/scenario"
)

// Server exposes the validator over HTTP. The Exporter is nil unless a
// graph store is configured.
type Server struct {
	Validator *core.GraphValidator
	Loader    scenario.Loader
	Exporter  *core.Exporter
	Workers   int
	Log       *logging.Logger
}

func NewServer(cfg *config.Config, log *logging.Logger) (*Server, error) {
	if log == nil {
		log = logging.Nop()
	}
	s := &Server{
		Validator: core.NewGraphValidator(pipeline.FromConfig(cfg), log),
		Loader:    scenario.NewFileRepository(cfg.Scenarios.Dir),
		Workers:   cfg.Concurrency.BatchValidate,
		Log:       log,
	}
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			return nil, err
		}
		s.Exporter = core.NewExporter(d)
		log.Info("graph export enabled", "uri", cfg.Memgraph.URI)
	}
	return s, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/scenarios/:id", s.GetScenario)
	r.POST("/scenarios/:id/validate", s.ValidateScenario)
	r.POST("/scenarios/:id/export", s.ExportScenario)
	r.POST("/domains/:domain/validate", s.ValidateDomain)
	r.POST("/assertions/validate", s.ValidateAssertion)

	return r
}

func (s *Server) GetScenario(c *gin.Context) {
	sc, err := s.Loader.LoadScenario(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.scenarioError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (s *Server) ValidateScenario(c *gin.Context) {
	sc, err := s.Loader.LoadScenario(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.scenarioError(c, err)
		return
	}
	result := s.Validator.ValidateGraphFidelity(sc)
	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"record": report.Flatten(result),
	})
}

func (s *Server) ValidateDomain(c *gin.Context) {
	outcomes, err := s.Validator.ValidateDomain(c.Request.Context(), s.Loader, c.Param("domain"), s.Workers)
	if err != nil {
		s.Log.Error("domain validation failed", "domain", c.Param("domain"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load domain scenarios"})
		return
	}
	type entry struct {
		ScenarioID string                  `json:"scenario_id"`
		Result     *model.ValidationResult `json:"result,omitempty"`
		Error      string                  `json:"error,omitempty"`
	}
	entries := make([]entry, 0, len(outcomes))
	for _, o := range outcomes {
		e := entry{ScenarioID: o.ScenarioID, Result: o.Result}
		if o.Err != nil {
			e.Error = o.Err.Error()
		}
		entries = append(entries, e)
	}
	c.JSON(http.StatusOK, gin.H{"domain": c.Param("domain"), "scenarios": entries})
}

func (s *Server) ValidateAssertion(c *gin.Context) {
	var a model.Assertion
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": s.Validator.ValidateGremlinAssertion(a)})
}

func (s *Server) ExportScenario(c *gin.Context) {
	if s.Exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "graph export not configured"})
		return
	}
	sc, err := s.Loader.LoadScenario(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.scenarioError(c, err)
		return
	}
	run := s.Validator.Pipeline.Run(sc)
	if err := s.Exporter.ExportGraph(c.Request.Context(), sc.ID, run.Nodes); err != nil {
		s.Log.Error("export failed", "scenario", sc.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenario_id": sc.ID, "nodes": len(run.Nodes)})
}

func (s *Server) scenarioError(c *gin.Context, err error) {
	if errors.Is(err, scenario.ErrScenarioNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "scenario not found"})
		return
	}
	s.Log.Error("scenario load failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load scenario"})
}
