package handler

import (
	"mime"
	"net/http"

	"github.com/bitfantasy/mashg/internal/inspection/service"
	"github.com/bitfantasy/mashg/internal/report"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// attachment quotes filename as needed; non ASCII names are sent in the
// RFC 2231 filename* form.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// Download GET /inspections/:id/report
func (h *ReportHandler) Download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	data, inspection, err := h.svc.Render(c.Request.Context(), id)
	if err != nil {
		fail(c, "render report", err)
		return
	}
	c.Header("Content-Disposition", attachment(report.FileName(inspection)))
	c.Data(http.StatusOK, report.ContentType, data)
}

// Archive POST /inspections/:id/report/archive
func (h *ReportHandler) Archive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inspection, err := h.svc.Archive(c.Request.Context(), id)
	if err != nil {
		fail(c, "archive report", err)
		return
	}
	Success(c, inspection)
}

// Export GET /inspections/export?factoryId=&result=
func (h *ReportHandler) Export(c *gin.Context) {
	f, filename, err := h.svc.Export(c.Request.Context(), inspectionFilters(c))
	if err != nil {
		fail(c, "export inspections", err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", attachment(filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
