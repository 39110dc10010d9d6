package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quaverlabs/quaver/backend/internal/practice"
	"github.com/quaverlabs/quaver/backend/internal/timeutil"
)

// recentLogDateLayout renders dates like "Monday, Jan 02, 2006" for the
// dashboard's recent-activity list.
const recentLogDateLayout = "Monday, Jan 02, 2006"

// logPayload is the JSON shape of a serialized practice log. The "Unlisted"
// sentinel for logs without a piece is applied here, at the presentation
// layer only; the data layer keeps a nullable reference.
type logPayload struct {
	ID         int       `json:"id"`
	LocalDate  string    `json:"local_date"`
	UTCDate    time.Time `json:"utc_date"`
	UpdatedAt  time.Time `json:"updated_at"`
	Instrument string    `json:"instrument"`
	Duration   int       `json:"duration"`
	Notes      string    `json:"notes"`
	Piece      string    `json:"piece"`
	Composer   string    `json:"composer"`
}

func serializeLogs(logs []practice.Log, tzName string, localLayout string) []logPayload {
	payloads := make([]logPayload, 0, len(logs))
	for _, log := range logs {
		payload := logPayload{
			ID:         log.UserLogNumber,
			LocalDate:  timeutil.FormatLocal(log.UTCTimestamp, tzName, localLayout),
			UTCDate:    log.UTCTimestamp,
			UpdatedAt:  log.UpdatedAt,
			Instrument: log.Instrument,
			Duration:   log.Duration,
			Notes:      log.Notes,
			Piece:      practice.UnlistedLabel,
			Composer:   practice.UnlistedLabel,
		}
		if log.Piece != nil {
			payload.Piece = log.Piece.Title
			payload.Composer = log.Piece.Composer
		}
		payloads = append(payloads, payload)
	}
	return payloads
}

func (h *httpHandler) handleAddLog(c *gin.Context) {
	user := currentUser(c)

	var input practice.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	_, err := h.practice.SubmitLog(user.ID, input)
	var validationErr *practice.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
		return
	}
	if err != nil {
		h.logger.Error("failed to add log", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add log"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "log added!"})
}

func (h *httpHandler) handleGetLogs(c *gin.Context) {
	user := currentUser(c)

	logs, err := h.practice.Store().AllLogsNewestFirst(user.ID)
	if err != nil {
		h.logger.Error("failed to list logs", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list logs"})
		return
	}

	c.JSON(http.StatusOK, serializeLogs(logs, user.Timezone, ""))
}

func (h *httpHandler) handleRecentLogs(c *gin.Context) {
	user := currentUser(c)

	logs, err := h.practice.Store().RecentLogs(user.ID, 5)
	if err != nil {
		h.logger.Error("failed to list recent logs", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recent logs"})
		return
	}

	c.JSON(http.StatusOK, serializeLogs(logs, user.Timezone, recentLogDateLayout))
}

func (h *httpHandler) handleEditLog(c *gin.Context) {
	user := currentUser(c)

	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "log not found"})
		return
	}

	var input practice.EditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	_, err = h.practice.EditLog(user.ID, number, input)
	if errors.Is(err, practice.ErrLogNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "log not found"})
		return
	}
	var validationErr *practice.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
		return
	}
	if err != nil {
		h.logger.Error("failed to edit log", zap.Uint("user_id", user.ID), zap.Int("log_number", number), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to edit log"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "log updated"})
}
