package practice

import (
	"time"
)

// Log is one recorded practice session. Timestamps are stored in UTC;
// conversion to the owner's timezone happens at read time.
type Log struct {
	ID            uint      `gorm:"column:id;primaryKey"`
	UserID        uint      `gorm:"column:user_id;not null;index;uniqueIndex:idx_logs_user_number,priority:1"`
	UserLogNumber int       `gorm:"column:user_log_number;not null;uniqueIndex:idx_logs_user_number,priority:2"`
	UTCTimestamp  time.Time `gorm:"column:utc_timestamp;not null;index"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
	Instrument    string    `gorm:"column:instrument;size:50;not null"`
	Duration      int       `gorm:"column:duration;not null"`
	Notes         string    `gorm:"column:notes"`
	PieceID       *uint     `gorm:"column:piece_id"`
	Piece         *Piece    `gorm:"foreignKey:PieceID"`
}

// TableName exposes the table backing practice logs.
func (Log) TableName() string {
	return "practice_logs"
}

// Piece is a musical work a user practices. LogTime is a running counter of
// minutes logged against the piece, incremented atomically on every submit
// that references it; it is not recomputed from logs.
type Piece struct {
	ID       uint   `gorm:"column:id;primaryKey"`
	UserID   uint   `gorm:"column:user_id;not null;uniqueIndex:idx_pieces_identity,priority:1"`
	Title    string `gorm:"column:title;size:100;not null;uniqueIndex:idx_pieces_identity,priority:2"`
	Composer string `gorm:"column:composer;size:100;not null;uniqueIndex:idx_pieces_identity,priority:3"`
	LogTime  int    `gorm:"column:log_time;not null"`
}

// TableName exposes the table backing pieces.
func (Piece) TableName() string {
	return "pieces"
}
