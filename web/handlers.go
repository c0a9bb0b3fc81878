package web

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"analytics-dashboard/apperrors"
	"analytics-dashboard/models"
	"analytics-dashboard/predictor"
	"analytics-dashboard/services"
)

const predictHint = "Input information and click on Calculate to get an estimated price"

type page struct {
	Title   string
	Active  string
	Clock   string
	Sidebar *sidebarData
}

type option struct {
	Value    string
	Selected bool
}

type sidebarData struct {
	OrderTypes []option
	APINames   []option
	Return     string
}

type homeData struct {
	page
	Metrics models.Metrics
	Pie     template.HTML
	Bar     template.HTML
	Rows    int
}

type tableData struct {
	page
	Columns []option
	View    *models.TableView
	Stats   []models.ColumnStats
	CSVHref template.URL
}

type predictData struct {
	page
	Form       models.PredictionRequest
	Makes      []string
	CarModels  []string
	Provinces  []string
	Result     string
	Error      string
	ModelError string
}

type errorData struct {
	page
	Message string
}

// renderCycle is the filtered view of one fetch.
type renderCycle struct {
	selection models.Dataset
	options   models.FilterSelection
	chosen    models.FilterSelection
}

func (rc renderCycle) sidebar(returnTo string) *sidebarData {
	return &sidebarData{
		OrderTypes: markSelected(rc.options.OrderTypes, rc.chosen.OrderTypes),
		APINames:   markSelected(rc.options.APINames, rc.chosen.APINames),
		Return:     returnTo,
	}
}

func markSelected(options, chosen []string) []option {
	out := make([]option, len(options))
	for i, o := range options {
		out[i] = option{Value: o, Selected: slices.Contains(chosen, o)}
	}
	return out
}

func (s *Server) page(title, active string, sidebar *sidebarData) page {
	return page{Title: title, Active: active, Clock: clock(s.now()), Sidebar: sidebar}
}

// load fetches the full table and narrows it to the session's selection.
func (s *Server) load(c *gin.Context, sess *models.Session) (renderCycle, error) {
	dataset, err := s.source.FetchAll(c.Request.Context())
	if err != nil {
		return renderCycle{}, err
	}
	chosen := s.filters.Resolve(dataset, sess.Filters)
	return renderCycle{
		selection: s.filters.ApplySelection(dataset, chosen),
		options:   s.filters.DefaultSelection(dataset),
		chosen:    chosen,
	}, nil
}

func (s *Server) home(c *gin.Context) {
	rc, err := s.load(c, currentSession(c))
	if err != nil {
		s.renderError(c, err)
		return
	}

	summary, err := s.metrics.Generate(rc.selection)
	if err != nil {
		s.renderError(c, err)
		return
	}

	pie, err := PieSVG("Order number by order type", summary.OrderNumberByType)
	if err != nil {
		s.logger.Warn("[web] Pie chart failed: %v", err)
		pie = noDataChart
	}
	bar, err := BarSVG("Valid order amount by order type", summary.ValidAmountByType)
	if err != nil {
		s.logger.Warn("[web] Bar chart failed: %v", err)
		bar = noDataChart
	}

	c.HTML(http.StatusOK, "home", homeData{
		page:    s.page("Home", "home", rc.sidebar("/home")),
		Metrics: summary.Metrics,
		Pie:     pie,
		Bar:     bar,
		Rows:    summary.Rows,
	})
}

// requestedColumns reads the table view's column picker. With no picker
// state at all every column is shown.
func requestedColumns(c *gin.Context) []string {
	cols := c.QueryArray("columns")
	if _, submitted := c.GetQuery("columns_set"); !submitted && len(cols) == 0 {
		return append([]string(nil), models.Columns...)
	}
	return services.SanitizeColumns(cols)
}

func (s *Server) table(c *gin.Context) {
	rc, err := s.load(c, currentSession(c))
	if err != nil {
		s.renderError(c, err)
		return
	}

	columns := requestedColumns(c)
	view, err := s.tables.Project(rc.selection, columns)
	if err != nil {
		s.renderError(c, err)
		return
	}

	var stats []models.ColumnStats
	for _, st := range services.Describe(rc.selection) {
		if slices.Contains(columns, st.Column) {
			stats = append(stats, st)
		}
	}

	query := url.Values{"columns_set": {"1"}, "columns": columns}
	c.HTML(http.StatusOK, "table", tableData{
		page:    s.page("Table", "table", rc.sidebar(c.Request.URL.RequestURI())),
		Columns: markSelected(models.Columns, columns),
		View:    view,
		Stats:   stats,
		CSVHref: template.URL("/table.csv?" + query.Encode()),
	})
}

func (s *Server) tableCSV(c *gin.Context) {
	rc, err := s.load(c, currentSession(c))
	if err != nil {
		s.renderError(c, err)
		return
	}

	view, err := s.tables.Project(rc.selection, requestedColumns(c))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="testing_data.csv"`)
	c.Status(http.StatusOK)
	if err := s.export.WriteTable(c.Writer, view); err != nil {
		s.logger.Error("[web] CSV export failed: %v", err)
	}
}

func (s *Server) betdata(c *gin.Context) {
	c.HTML(http.StatusOK, "betdata", errorData{page: s.page("Betdata", "betdata", nil)})
}

func (s *Server) predictPage(sess *models.Session) predictData {
	result := predictHint
	if sess.Prediction != nil {
		result = resultText(*sess.Prediction)
	}
	return predictData{
		page:      s.page("Car Price Prediction", "predict", nil),
		Form:      sess.Form,
		Makes:     models.Makes,
		CarModels: models.CarModels,
		Provinces: models.Provinces,
		Result:    result,
	}
}

func resultText(v float64) string {
	return fmt.Sprintf("The estimated car price is %s$", price(v))
}

func (s *Server) predictForm(c *gin.Context) {
	data := s.predictPage(currentSession(c))
	if _, err := s.models.Load(); err != nil {
		data.ModelError = err.Error()
		c.HTML(statusFor(err), "predict", data)
		return
	}
	c.HTML(http.StatusOK, "predict", data)
}

func (s *Server) predictSubmit(c *gin.Context) {
	sess := currentSession(c)

	req, err := bindPrediction(c.ShouldBind)
	if err != nil {
		data := s.predictPage(sess)
		data.Form = req
		data.Error = err.Error()
		c.HTML(statusFor(err), "predict", data)
		return
	}

	sess.Form = req
	value, err := s.estimate(req)
	if err != nil {
		s.saveSession(c, sess)
		data := s.predictPage(sess)
		if apperrors.IsKind(err, apperrors.KindModelLoad) {
			data.ModelError = err.Error()
		} else {
			data.Error = err.Error()
		}
		c.HTML(statusFor(err), "predict", data)
		return
	}

	sess.Prediction = &value
	s.saveSession(c, sess)
	c.HTML(http.StatusOK, "predict", s.predictPage(sess))
}

// bindPrediction binds and checks a request; categoricals must come from the
// form's option lists.
func bindPrediction(bind func(any) error) (models.PredictionRequest, error) {
	var req models.PredictionRequest
	if err := bind(&req); err != nil {
		return req, apperrors.NewValidationError(fmt.Sprintf("invalid prediction input: %v", err))
	}
	switch {
	case !slices.Contains(models.Makes, req.Make):
		return req, apperrors.NewValidationError(fmt.Sprintf("unknown make %q", req.Make))
	case !slices.Contains(models.CarModels, req.Model):
		return req, apperrors.NewValidationError(fmt.Sprintf("unknown model %q", req.Model))
	case !slices.Contains(models.Provinces, req.Province):
		return req, apperrors.NewValidationError(fmt.Sprintf("unknown province %q", req.Province))
	}
	return req, nil
}

func (s *Server) estimate(req models.PredictionRequest) (float64, error) {
	model, err := s.models.Load()
	if err != nil {
		return 0, err
	}
	return predictor.Predict(model, req)
}

func (s *Server) updateFilters(c *gin.Context) {
	sess := currentSession(c)
	sess.Filters = &models.FilterSelection{
		OrderTypes: c.PostFormArray("order_type"),
		APINames:   c.PostFormArray("api_name"),
	}
	s.saveSession(c, sess)
	c.Redirect(http.StatusSeeOther, returnPath(c.PostForm("return")))
}

func (s *Server) resetFilters(c *gin.Context) {
	sess := currentSession(c)
	sess.Filters = nil
	s.saveSession(c, sess)
	c.Redirect(http.StatusSeeOther, returnPath(c.PostForm("return")))
}

// returnPath only allows local redirects.
func returnPath(p string) string {
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\") {
		return p
	}
	return "/home"
}

func (s *Server) apiSummary(c *gin.Context) {
	rc, err := s.load(c, currentSession(c))
	if err != nil {
		s.jsonError(c, err)
		return
	}
	summary, err := s.metrics.Generate(rc.selection)
	if err != nil {
		s.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) apiPredict(c *gin.Context) {
	req, err := bindPrediction(c.ShouldBindJSON)
	if err != nil {
		s.jsonError(c, err)
		return
	}
	value, err := s.estimate(req)
	if err != nil {
		s.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prediction": value,
		"message":    resultText(value),
	})
}

func (s *Server) saveSession(c *gin.Context, sess *models.Session) {
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(c.Request.Context(), sess); err != nil {
		s.logger.Warn("[session] Could not save %s: %v", sess.ID, err)
	}
}
