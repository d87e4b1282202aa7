package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/smartgrow/internal/analytics"
	"github.com/julianstephens/smartgrow/internal/constants"
	apperrors "github.com/julianstephens/smartgrow/internal/errors"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/notifier"
	"github.com/julianstephens/smartgrow/internal/provider"
	"github.com/julianstephens/smartgrow/internal/storage"
	"github.com/julianstephens/smartgrow/internal/tracker"
)

// diagnosisRequest is the JSON form of POST /scans and /sessions/:id/checkin,
// used when the photo was analysed elsewhere.
type diagnosisRequest struct {
	Diagnosis       *models.DiagnosisRecord `json:"diagnosis" binding:"required"`
	StartMonitoring bool                    `json:"startMonitoring"`
}

// scanInput is either a photo to analyse or a finished diagnosis.
type scanInput struct {
	image           *provider.Image
	diagnosis       models.DiagnosisRecord
	startMonitoring bool
	lang            models.Language
}

func (s *Server) readScanInput(c *gin.Context, t *tracker.Tracker) (scanInput, error) {
	in := scanInput{lang: s.language(t)}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			return in, validationErr("image", errors.New("multipart field \"image\" is required"))
		}
		if fh.Size > constants.MaxImageBytes {
			return in, validationErr("image", fmt.Errorf("image is larger than %d bytes", constants.MaxImageBytes))
		}
		f, err := fh.Open()
		if err != nil {
			return in, validationErr("image", err)
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, constants.MaxImageBytes))
		if err != nil {
			return in, validationErr("image", err)
		}
		img := provider.NewImage(data)
		in.image = &img
		in.startMonitoring, _ = strconv.ParseBool(c.PostForm("startMonitoring"))
		if raw := c.PostForm("lang"); raw != "" {
			lang, err := models.ParseLanguage(raw)
			if err != nil {
				return in, validationErr("lang", err)
			}
			in.lang = lang
		}
		return in, nil
	}

	var req diagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return in, validationErr("diagnosis", err)
	}
	diag, err := t.Finalize(*req.Diagnosis)
	if err != nil {
		return in, err
	}
	in.diagnosis = diag
	in.startMonitoring = req.StartMonitoring
	return in, nil
}

// language prefers the user's stored choice over the server default.
func (s *Server) language(t *tracker.Tracker) models.Language {
	if lang := t.Store().GetStats().Language; lang.Valid() {
		return lang
	}
	return s.cfg.Language
}

// Scans

func (s *Server) listScans(c *gin.Context) {
	scans := trackerFrom(c).Store().GetScans()
	switch c.DefaultQuery("archived", "false") {
	case "all":
	case "true":
		scans, _ = analytics.Archived(scans, nil)
	default:
		scans = analytics.VisibleScans(scans)
	}
	c.JSON(http.StatusOK, scans)
}

func (s *Server) getScan(c *gin.Context) {
	scan, ok := trackerFrom(c).Store().GetScan(c.Param("id"))
	if !ok {
		notFound(c, "scan")
		return
	}
	c.JSON(http.StatusOK, scan)
}

func (s *Server) createScan(c *gin.Context) {
	t := trackerFrom(c)
	in, err := s.readScanInput(c, t)
	if err != nil {
		writeError(c, err)
		return
	}

	var result tracker.SaveResult
	if in.image != nil {
		result, err = t.Analyze(c.Request.Context(), *in.image, in.lang, in.startMonitoring)
	} else {
		result, err = t.SaveDiagnosis(in.diagnosis, in.startMonitoring, nil)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) archiveScan(c *gin.Context) {
	s.setScanArchived(c, true)
}

func (s *Server) restoreScan(c *gin.Context) {
	s.setScanArchived(c, false)
}

func (s *Server) setScanArchived(c *gin.Context, archived bool) {
	t := trackerFrom(c)
	id := c.Param("id")
	if _, ok := t.Store().GetScan(id); !ok {
		notFound(c, "scan")
		return
	}

	var err error
	if archived {
		_, err = t.ArchiveScan(id)
	} else {
		_, err = t.RestoreScan(id)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	scan, _ := t.Store().GetScan(id)
	c.JSON(http.StatusOK, scan)
}

func (s *Server) deleteScan(c *gin.Context) {
	removed, err := trackerFrom(c).DeleteScan(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		notFound(c, "scan")
		return
	}
	c.Status(http.StatusNoContent)
}

// Sessions

func (s *Server) listSessions(c *gin.Context) {
	sessions := trackerFrom(c).Store().GetSessions()
	if status := c.Query("status"); status != "" {
		filtered := make([]models.MonitoringSession, 0, len(sessions))
		for _, m := range sessions {
			if strings.EqualFold(string(m.Status), status) {
				filtered = append(filtered, m)
			}
		}
		sessions = filtered
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) getSession(c *gin.Context) {
	session, ok := trackerFrom(c).Store().GetSession(c.Param("id"))
	if !ok {
		notFound(c, "session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// checkin logs a follow-up scan for the session's current day.
func (s *Server) checkin(c *gin.Context) {
	t := trackerFrom(c)
	session, ok := t.Store().GetSession(c.Param("id"))
	if !ok {
		notFound(c, "session")
		return
	}
	if session.Status.Terminal() {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("session is %s", session.Status)})
		return
	}

	in, err := s.readScanInput(c, t)
	if err != nil {
		writeError(c, err)
		return
	}

	var result tracker.SaveResult
	if in.image != nil {
		t.BeginFollowUp(session.ID, session.CurrentDay)
		result, err = t.Analyze(c.Request.Context(), *in.image, in.lang, false)
	} else {
		result, err = t.SaveDiagnosis(in.diagnosis, false, &tracker.FollowUp{SessionID: session.ID, Day: session.CurrentDay})
	}
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Skipped {
		c.JSON(http.StatusConflict, gin.H{"error": "follow-up not recorded: session is closed or the day is already logged"})
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) archiveSession(c *gin.Context) {
	t := trackerFrom(c)
	id := c.Param("id")
	session, ok := t.Store().GetSession(id)
	if !ok {
		notFound(c, "session")
		return
	}
	archived, err := t.ArchiveSession(id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !archived {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("session is %s", session.Status)})
		return
	}
	session, _ = t.Store().GetSession(id)
	c.JSON(http.StatusOK, session)
}

func (s *Server) deleteSession(c *gin.Context) {
	removed, err := trackerFrom(c).DeleteSession(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		notFound(c, "session")
		return
	}
	c.Status(http.StatusNoContent)
}

// Alerts

func (s *Server) listAlerts(c *gin.Context) {
	alerts := trackerFrom(c).Store().GetAlerts()
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(c, validationErr("limit", fmt.Errorf("invalid limit %q", raw)))
			return
		}
		alerts = alerts[:min(limit, len(alerts))]
	}
	c.JSON(http.StatusOK, alerts)
}

func (s *Server) clearAlerts(c *gin.Context) {
	if err := trackerFrom(c).ClearAlerts(); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// notify raises an alert pushed by `smartgrow alerts raise`.
func (s *Server) notify(c *gin.Context) {
	var payload notifier.AlertPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, validationErr("alert", err))
		return
	}
	if strings.TrimSpace(payload.Title) == "" {
		writeError(c, validationErr("alert", errors.New("title is required")))
		return
	}
	severity := payload.Severity
	if severity == "" {
		severity = models.AlertInfo
	}
	if _, err := models.ParseAlertSeverity(string(severity)); err != nil {
		writeError(c, validationErr("alert", err))
		return
	}

	user := storage.NewUserContext(payload.UserID)
	l := s.userLock(user.UserID)
	l.Lock()
	defer l.Unlock()

	alert, err := s.trackerFor(user).RaiseAlert(payload.Title, payload.Message, severity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// Profile

func (s *Server) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, trackerFrom(c).Store().GetStats())
}

type profileRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"fullName"`
	Persona  *string `json:"profileIcon"`
	Theme    *string `json:"themeColor"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, validationErr("profile", err))
		return
	}
	stats, err := trackerFrom(c).UpdateProfile(tracker.ProfileUpdate{
		Username: req.Username,
		FullName: req.FullName,
		Persona:  req.Persona,
		Theme:    req.Theme,
	})
	if err != nil {
		if !apperrors.IsKind(err, apperrors.KindStorage) {
			err = validationErr("profile", err)
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

func (s *Server) setLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, validationErr("language", err))
		return
	}
	lang, err := models.ParseLanguage(req.Language)
	if err != nil {
		writeError(c, validationErr("language", err))
		return
	}
	stats, err := trackerFrom(c).SetLanguage(lang)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Insights

func (s *Server) getAnalytics(c *gin.Context) {
	store := trackerFrom(c).Store()
	summary := analytics.Summarize(store.GetScans(), store.GetSessions(), store.GetStats(), s.cfg.Now(), s.cfg.Location)
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getEnvironment(c *gin.Context) {
	if s.cfg.Sampler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "environment sampler is not running"})
		return
	}
	c.JSON(http.StatusOK, s.cfg.Sampler.Current())
}

// Errors

func validationErr(op string, err error) error {
	return apperrors.Wrap(apperrors.KindValidation, op, err)
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch apperrors.KindOf(err) {
	case apperrors.KindProvider:
		status = http.StatusBadGateway
		if errors.Is(err, provider.ErrNotAPlant) {
			status = http.StatusUnprocessableEntity
		}
		msg = provider.UserMessage
	case apperrors.KindValidation, apperrors.KindMalformedData:
		status = http.StatusBadRequest
		msg = err.Error()
	case apperrors.KindNotFound:
		status = http.StatusNotFound
		msg = err.Error()
	case apperrors.KindStorage:
		msg = "failed to save changes"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}
