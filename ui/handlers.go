package ui

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"surveystat/adapters/charts"
	"surveystat/adapters/report"
	"surveystat/app"
	"surveystat/domain/survey"
	"surveystat/internal/errors"
)

// pageData is the view model shared by every page
type pageData struct {
	Title       string
	State       State
	Error       string
	MaxUploadMB int
	Alpha       *alphaView
	Normality   *normalityView
}

type alphaView struct {
	Report   *survey.AlphaReport
	Columns  []columnView
	Averages template.HTML
}

type columnView struct {
	Name      string
	Histogram template.HTML
	Pie       template.HTML
	Table     survey.FrequencyTable
}

type normalityView struct {
	Report   *survey.NormalityReport
	Filename string
	Contents string
}

func (s *Server) newPage(title string, state State) *pageData {
	return &pageData{Title: title, State: state, MaxUploadMB: s.config.MaxUploadMB}
}

// advance fires e and mirrors the resulting state onto the page. A rejected
// transition leaves both unchanged.
func (s *Server) advance(page *pageData, machine *Machine, e Event) {
	if err := machine.Fire(e); err != nil {
		s.logger.Debug("[State] %v", err)
	}
	page.State = machine.State()
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", s.newPage("Survey Analysis", NoFileUploaded))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAlpha runs the reliability workflow and renders the dashboard
func (s *Server) handleAlpha(c *gin.Context) {
	machine := NewMachine(WorkflowAlpha)
	page := s.newPage("Cronbach's Alpha", machine.State())

	upload, err := s.readUpload(c, "file")
	if err != nil {
		s.renderAlphaError(c, page, err)
		return
	}
	s.advance(page, machine, EventUpload)

	rep, err := s.alpha.Analyze(c.Request.Context(), upload)
	if err != nil {
		s.advance(page, machine, EventFailed)
		s.renderAlphaError(c, page, err)
		return
	}

	rendered, err := s.charts.RenderReport(c.Request.Context(), rep, s.config.ChartWorkers)
	if err != nil {
		s.advance(page, machine, EventFailed)
		if c.Request.Context().Err() == nil {
			s.logger.Error("[Alpha] run %s: %v", rep.RunID, err)
			err = errors.InternalError("the charts could not be rendered")
		}
		s.renderAlphaError(c, page, err)
		return
	}

	s.advance(page, machine, EventParsed)
	page.Alpha = buildAlphaView(rep, rendered)
	s.renderTemplate(c, http.StatusOK, "alpha.html", page)
}

func (s *Server) renderAlphaError(c *gin.Context, page *pageData, err error) {
	s.logFailure("Alpha", err)
	page.Error = app.Message(err)
	s.renderTemplate(c, statusFor(err), "alpha.html", page)
}

func buildAlphaView(rep *survey.AlphaReport, rendered *charts.ReportCharts) *alphaView {
	view := &alphaView{
		Report:   rep,
		Columns:  make([]columnView, len(rep.FrequencyTables)),
		Averages: template.HTML(rendered.Averages),
	}
	for i, table := range rep.FrequencyTables {
		view.Columns[i] = columnView{Name: table.Column, Table: table}
		if i < len(rendered.Columns) {
			view.Columns[i].Histogram = template.HTML(rendered.Columns[i].Histogram)
			view.Columns[i].Pie = template.HTML(rendered.Columns[i].Pie)
		}
	}
	return view
}

// handleAlphaReport returns the reliability report as Markdown or HTML
func (s *Server) handleAlphaReport(c *gin.Context) {
	format, err := report.ParseFormat(c.DefaultQuery("format", string(report.FormatMarkdown)))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	upload, err := s.readUpload(c, "file")
	if err != nil {
		s.logFailure("AlphaReport", err)
		c.String(statusFor(err), app.Message(err))
		return
	}

	rep, err := s.alpha.Analyze(c.Request.Context(), upload)
	if err != nil {
		s.logFailure("AlphaReport", err)
		c.String(statusFor(err), app.Message(err))
		return
	}

	body, err := report.RenderAlpha(rep, format)
	if err != nil {
		s.logFailure("AlphaReport", err)
		c.String(http.StatusInternalServerError, app.Message(err))
		return
	}
	c.Data(http.StatusOK, format.ContentType(), body)
}

// handleNormalityColumns parses the upload and offers its columns for selection
func (s *Server) handleNormalityColumns(c *gin.Context) {
	machine := NewMachine(WorkflowNormality)
	page := s.newPage("Normality Test", machine.State())

	upload, err := s.readUpload(c, "file")
	if err != nil {
		s.renderNormalityError(c, page, err)
		return
	}
	s.advance(page, machine, EventUpload)

	rep, err := s.normality.Columns(c.Request.Context(), upload)
	if err != nil {
		s.advance(page, machine, EventFailed)
		s.renderNormalityError(c, page, err)
		return
	}

	s.advance(page, machine, EventParsed)
	page.Normality = &normalityView{Report: rep, Filename: upload.Filename, Contents: encodeDataURL(upload)}
	s.renderTemplate(c, http.StatusOK, "normality.html", page)
}

// handleNormalityTest reparses the carried upload and tests the selected column
func (s *Server) handleNormalityTest(c *gin.Context) {
	machine := NewMachine(WorkflowNormality)
	page := s.newPage("Normality Test", machine.State())

	upload, err := s.readCarriedUpload(c)
	if err != nil {
		s.renderNormalityError(c, page, err)
		return
	}
	s.advance(page, machine, EventUpload)

	columns, err := s.normality.Columns(c.Request.Context(), upload)
	if err != nil {
		s.advance(page, machine, EventFailed)
		s.renderNormalityError(c, page, err)
		return
	}
	s.advance(page, machine, EventParsed)
	page.Normality = &normalityView{Report: columns, Filename: upload.Filename, Contents: encodeDataURL(upload)}

	rep, err := s.normality.Analyze(c.Request.Context(), upload, c.PostForm("column"))
	if err != nil {
		s.advance(page, machine, EventFailed)
		columns.SelectedColumn = c.PostForm("column")
		s.renderNormalityError(c, page, err)
		return
	}

	s.advance(page, machine, EventRunTest)
	page.Normality.Report = rep
	s.renderTemplate(c, http.StatusOK, "normality.html", page)
}

func (s *Server) renderNormalityError(c *gin.Context, page *pageData, err error) {
	s.logFailure("Normality", err)
	page.Error = app.Message(err)
	s.renderTemplate(c, statusFor(err), "normality.html", page)
}

// apiError writes the JSON error body used by every API route
func (s *Server) apiError(c *gin.Context, route string, err error) {
	s.logFailure(route, err)
	c.JSON(statusFor(err), gin.H{"error": app.Message(err), "code": errors.GetCode(err)})
}

func (s *Server) handleAPIAlpha(c *gin.Context) {
	upload, err := s.readUpload(c, "file")
	if err != nil {
		s.apiError(c, "API", err)
		return
	}
	rep, err := s.alpha.Analyze(c.Request.Context(), upload)
	if err != nil {
		s.apiError(c, "API", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleAPINormalityColumns(c *gin.Context) {
	upload, err := s.readCarriedUpload(c)
	if err != nil {
		s.apiError(c, "API", err)
		return
	}
	rep, err := s.normality.Columns(c.Request.Context(), upload)
	if err != nil {
		s.apiError(c, "API", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleAPINormality(c *gin.Context) {
	upload, err := s.readCarriedUpload(c)
	if err != nil {
		s.apiError(c, "API", err)
		return
	}
	rep, err := s.normality.Analyze(c.Request.Context(), upload, c.PostForm("column"))
	if err != nil {
		s.apiError(c, "API", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
