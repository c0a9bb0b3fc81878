package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"analytics-dashboard/predictor"
	"analytics-dashboard/services"
	"analytics-dashboard/storage"
	"analytics-dashboard/utils"
)

// ModelLoader hands out the process-wide prediction model.
type ModelLoader interface {
	Load() (predictor.Model, error)
}

// Options wires a Server to its collaborators.
type Options struct {
	Source     storage.RecordSource
	Sessions   storage.SessionStore
	Models     ModelLoader
	Filters    *services.FilterEngine
	Metrics    *services.MetricsService
	Tables     *services.TableService
	Export     storage.TableWriter
	Logger     *utils.Logger
	SessionTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server renders the dashboard. Every request is one render cycle:
// fetch, filter, aggregate, respond.
type Server struct {
	source     storage.RecordSource
	sessions   storage.SessionStore
	models     ModelLoader
	filters    *services.FilterEngine
	metrics    *services.MetricsService
	tables     *services.TableService
	export     storage.TableWriter
	logger     *utils.Logger
	sessionTTL time.Duration
	now        func() time.Time
}

func NewServer(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		source:     opts.Source,
		sessions:   opts.Sessions,
		models:     opts.Models,
		filters:    opts.Filters,
		metrics:    opts.Metrics,
		tables:     opts.Tables,
		export:     opts.Export,
		logger:     opts.Logger,
		sessionTTL: opts.SessionTTL,
		now:        now,
	}
}

// Router builds the gin engine serving every view and the JSON API.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.logger))
	r.SetHTMLTemplate(parseTemplates())

	r.GET("/healthz", s.health)

	pages := r.Group("/", Sessions(s.sessions, s.sessionTTL, true, s.logger))
	{
		pages.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/home") })
		pages.GET("/home", s.home)
		pages.GET("/table", s.table)
		pages.GET("/table.csv", s.tableCSV)
		pages.GET("/betdata", s.betdata)
		pages.GET("/predict", s.predictForm)
		pages.POST("/predict", s.predictSubmit)
		pages.POST("/filters", s.updateFilters)
		pages.POST("/filters/reset", s.resetFilters)
	}

	api := r.Group("/api", Sessions(s.sessions, s.sessionTTL, false, s.logger))
	{
		api.GET("/summary", s.apiSummary)
		api.POST("/predict", s.apiPredict)
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
