package practice

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/quaverlabs/quaver/backend/internal/timeutil"
)

// Store bundles the read-side queries over practice logs and pieces. Every
// query is scoped to an explicit user id; "no rows" is an empty slice.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AllLogs returns every log for the user in chronological order, with the
// referenced piece hydrated.
func (s *Store) AllLogs(userID uint) ([]Log, error) {
	logs := []Log{}
	err := s.db.
		Preload("Piece").
		Where("user_id = ?", userID).
		Order("utc_timestamp ASC").
		Find(&logs).Error
	return logs, err
}

// AllLogsNewestFirst returns every log for the user, most recent first.
func (s *Store) AllLogsNewestFirst(userID uint) ([]Log, error) {
	logs := []Log{}
	err := s.db.
		Preload("Piece").
		Where("user_id = ?", userID).
		Order("utc_timestamp DESC").
		Find(&logs).Error
	return logs, err
}

// RecentLogs returns the n most recent logs for the user.
func (s *Store) RecentLogs(userID uint, n int) ([]Log, error) {
	logs := []Log{}
	err := s.db.
		Preload("Piece").
		Where("user_id = ?", userID).
		Order("utc_timestamp DESC").
		Limit(n).
		Find(&logs).Error
	return logs, err
}

// FirstLog returns the user's earliest log, or nil when none exist.
func (s *Store) FirstLog(userID uint) (*Log, error) {
	var log Log
	err := s.db.
		Preload("Piece").
		Where("user_id = ?", userID).
		Order("utc_timestamp ASC").
		Take(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// ThisWeekLogs returns the user's logs for the current local week. The week
// starts Monday 00:00 in the user's timezone; the bounds are converted to a
// UTC range for the filter.
func (s *Store) ThisWeekLogs(userID uint, tzName string, now time.Time) ([]Log, error) {
	start := timeutil.StartOfWeek(now, tzName)
	end := start.AddDate(0, 0, 7)

	logs := []Log{}
	err := s.db.
		Preload("Piece").
		Where("user_id = ? AND utc_timestamp >= ? AND utc_timestamp < ?",
			userID, start.UTC(), end.UTC()).
		Order("utc_timestamp ASC").
		Find(&logs).Error
	return logs, err
}

// LogByNumber returns the user's log with the given per-user number.
func (s *Store) LogByNumber(userID uint, userLogNumber int) (*Log, error) {
	var log Log
	err := s.db.
		Preload("Piece").
		Where("user_id = ? AND user_log_number = ?", userID, userLogNumber).
		Take(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// Pieces returns the user's pieces ordered alphabetically by title.
func (s *Store) Pieces(userID uint) ([]Piece, error) {
	pieces := []Piece{}
	err := s.db.
		Where("user_id = ?", userID).
		Order("title ASC").
		Find(&pieces).Error
	return pieces, err
}
