package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	dom "github.com/faithingod1/parish-record/internal/domain"
	"github.com/faithingod1/parish-record/internal/service"
)

const createdAtFormat = "2006-01-02 15:04:05"

// BackupHandler serves the raw database download and the CSV export.
type BackupHandler struct {
	svc    *service.ConfirmationService
	dbPath string
}

// NewBackupHandler returns a new BackupHandler. dbPath is the SQLite file
// served by DownloadDB.
func NewBackupHandler(svc *service.ConfirmationService, dbPath string) *BackupHandler {
	return &BackupHandler{svc: svc, dbPath: dbPath}
}

// DownloadDB streams the database file as an attachment.
func (h *BackupHandler) DownloadDB(c *gin.Context) {
	if _, err := os.Stat(h.dbPath); err != nil {
		c.String(http.StatusNotFound, "database file not found")
		return
	}
	c.FileAttachment(h.dbPath, "church_records_backup.db")
}

// ExportCSV writes every record, id ascending, with the fixed header row.
func (h *BackupHandler) ExportCSV(c *gin.Context) {
	records, err := h.svc.ExportAll(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to export records")
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"ID", "Full Name", "Date of Birth", "Confirmation Date",
		"Church Name", "Priest Name", "Sponsor Name", "Remarks", "Created At",
	})
	for _, r := range records {
		_ = w.Write([]string{
			strconv.FormatInt(r.ID, 10),
			r.FullName,
			r.DateOfBirth.Format(dom.DateFormat),
			r.ConfirmationDate.Format(dom.DateFormat),
			r.ChurchName,
			r.PriestName,
			r.SponsorName,
			r.Remarks,
			r.CreatedAt.Format(createdAtFormat),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.String(http.StatusInternalServerError, "failed to write CSV")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="confirmations_export.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
