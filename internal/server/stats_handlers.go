package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quaverlabs/quaver/backend/internal/practice"
	"github.com/quaverlabs/quaver/backend/internal/stats"
)

// dailyTargetMinutes feeds the dashboard gauge.
const dailyTargetMinutes = 60

func (h *httpHandler) handleDashboardStats(c *gin.Context) {
	user := currentUser(c)
	now := h.now()
	store := h.practice.Store()

	allLogs, err := store.AllLogs(user.ID)
	if err != nil {
		h.logger.Error("failed to load logs for stats", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	weekLogs, err := store.ThisWeekLogs(user.ID, user.Timezone, now)
	if err != nil {
		h.logger.Error("failed to load weekly logs", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	instrumentKey, _, _ := stats.MostFrequent(allLogs, stats.ByInstrument, nil)

	var commonPiece *string
	if title, _, ok := stats.MostFrequent(allLogs, stats.ByPieceTitle, stats.ByDuration); ok {
		commonPiece = &title
	}

	c.JSON(http.StatusOK, gin.H{
		"cumulative":        stats.CumulativeSeries(allLogs, user.Timezone, now),
		"weekly":            stats.WeeklySeries(weekLogs, user.Timezone, now),
		"weekly_cumulative": stats.WeeklyCumulativeSeries(weekLogs, user.Timezone, now),
		"daily": gin.H{
			"total_today": stats.TodayMinutes(allLogs, user.Timezone, now),
			"target":      dailyTargetMinutes,
		},
		"total_minutes":     stats.TotalMinutes(allLogs),
		"average_minutes":   stats.Round(stats.AverageMinutes(allLogs), 2),
		"common_instrument": practice.InstrumentLabel(instrumentKey),
		"common_instr_key":  instrumentKey,
		"common_piece":      commonPiece,
	})
}

func (h *httpHandler) handleGetPieces(c *gin.Context) {
	user := currentUser(c)

	pieces, err := h.practice.Store().Pieces(user.ID)
	if err != nil {
		h.logger.Error("failed to list pieces", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pieces"})
		return
	}

	payload := make([]gin.H, 0, len(pieces))
	for _, piece := range pieces {
		payload = append(payload, gin.H{
			"id":       piece.ID,
			"title":    piece.Title,
			"composer": piece.Composer,
			"minutes":  piece.LogTime,
		})
	}
	c.JSON(http.StatusOK, payload)
}
