// internal/server/handlers.go
package server

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"loantracker/internal/common/errors"
	"loantracker/internal/common/logger"
	"loantracker/internal/common/metrics"
	"loantracker/internal/models"
	"loantracker/internal/report"
	"loantracker/internal/report/export"
	"loantracker/internal/service"
)

const (
	dateQueryLayout = "2006-01-02"

	defaultPageSize = 25
	maxPageSize     = 200
)

type handler struct {
	svc service.ApplicationService
	log logger.Logger
}

func (h *handler) list(c *gin.Context) {
	status := models.Status(c.Query("status"))
	if status != "" && !status.IsValid() {
		h.fail(c, errors.NewValidationFailedError("status: unknown value "+string(status)))
		return
	}
	apps, err := h.svc.List(c.Request.Context(), status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *handler) get(c *gin.Context) {
	app, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *handler) searchByName(c *gin.Context) {
	first := c.Query("first_name")
	last := c.Query("last_name")
	if first == "" || last == "" {
		h.fail(c, errors.NewValidationFailedError("first_name and last_name are required"))
		return
	}
	app, err := h.svc.SearchByName(c.Request.Context(), first, last)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *handler) create(c *gin.Context) {
	var app models.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		h.fail(c, errors.NewValidationFailedError("malformed request body: "+err.Error()))
		return
	}
	id, err := h.svc.Create(c.Request.Context(), &app)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *handler) update(c *gin.Context) {
	var upd models.ApplicationUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.fail(c, errors.NewValidationFailedError("malformed request body: "+err.Error()))
		return
	}
	if err := h.svc.Update(c.Request.Context(), c.Param("id"), upd); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *handler) reportPage(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	s, err := parseSort(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	pg, err := h.svc.Report(c.Request.Context(), f, s, page, pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pg)
}

func (h *handler) reportSummary(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	ov, err := h.svc.Summary(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

func (h *handler) reportDownload(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	s, err := parseSort(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatPDF)))
	if err != nil {
		h.fail(c, errors.NewValidationFailedError(err.Error()))
		return
	}
	data, err := h.svc.DownloadReport(c.Request.Context(), format, f, s)
	if err != nil {
		h.fail(c, err)
		return
	}
	metrics.ReportsGenerated.WithLabelValues(string(format)).Inc()

	name := "applications-report." + extensionFor(format)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentTypeFor(format), data)
}

func (h *handler) upload(c *gin.Context) {
	// file_type travels in the query string; the form field is accepted
	// as a fallback.
	raw := c.Query("file_type")
	if raw == "" {
		raw = c.PostForm("file_type")
	}
	fileType, err := models.ParseFileType(raw)
	if err != nil {
		h.fail(c, errors.NewValidationFailedError(err.Error()))
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, errors.NewValidationFailedError("file part is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		metrics.UploadsFailed.WithLabelValues(string(fileType)).Inc()
		h.fail(c, errors.NewUploadFailedError(string(fileType), err))
		return
	}
	defer f.Close()

	if err := h.svc.UploadFile(c.Request.Context(), c.Param("id"), fileType, fh.Filename, f); err != nil {
		metrics.UploadsFailed.WithLabelValues(string(fileType)).Inc()
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_type": string(fileType), "filename": fh.Filename})
}

func (h *handler) listFiles(c *gin.Context) {
	names, err := h.svc.ListFiles(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *handler) downloadFile(c *gin.Context) {
	fileType, err := models.ParseFileType(c.Query("file_type"))
	if err != nil {
		h.fail(c, errors.NewValidationFailedError(err.Error()))
		return
	}
	data, err := h.svc.DownloadFile(c.Request.Context(), c.Param("id"), fileType)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+string(fileType)+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// fail maps service errors onto HTTP statuses and serializes the
// StandardError body the client reconstructs on its side.
func (h *handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("request failed", map[string]interface{}{
			"path": c.FullPath(),
		})
	}

	var se *errors.StandardError
	if !stderrors.As(err, &se) {
		se = errors.NewStorageError(err)
	}
	c.AbortWithStatusJSON(status, se)
}

func parseFilter(c *gin.Context) (report.Filter, error) {
	f := report.Filter{
		Search: c.Query("search"),
		Status: models.Status(c.Query("status")),
	}
	if f.Status != "" && !f.Status.IsValid() {
		return f, errors.NewValidationFailedError("status: unknown value " + string(f.Status))
	}
	if raw := dateQuery(c, "start_date", "from"); raw != "" {
		t, err := time.Parse(dateQueryLayout, raw)
		if err != nil {
			return f, errors.NewValidationFailedError("start_date: expected YYYY-MM-DD")
		}
		f.From = t
	}
	if raw := dateQuery(c, "end_date", "to"); raw != "" {
		t, err := time.Parse(dateQueryLayout, raw)
		if err != nil {
			return f, errors.NewValidationFailedError("end_date: expected YYYY-MM-DD")
		}
		// Inclusive through the end of the named day.
		f.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return f, nil
}

// dateQuery reads a date filter under its wire name, accepting the short
// alias as a fallback.
func dateQuery(c *gin.Context, name, alias string) string {
	if raw := c.Query(name); raw != "" {
		return raw
	}
	return c.Query(alias)
}

func parseSort(c *gin.Context) (report.Sort, error) {
	raw := c.Query("sort")
	if raw == "" {
		return report.Sort{}, nil
	}
	col, err := report.ParseColumn(raw)
	if err != nil {
		return report.Sort{}, errors.NewValidationFailedError(err.Error())
	}
	return report.Sort{Column: col, Desc: c.Query("desc") == "true"}, nil
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func extensionFor(f export.Format) string {
	if f == export.FormatExcel {
		return "xlsx"
	}
	return "pdf"
}

func contentTypeFor(f export.Format) string {
	if f == export.FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}
