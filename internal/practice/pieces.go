package practice

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UnknownComposer is substituted when a submission names a piece but no
// composer.
const UnknownComposer = "Unknown"

// ResolvePiece finds or creates the user's piece for the given title and
// composer and adds the submitted minutes to its running total. The lookup
// and increment run as a single upsert against the (user_id, title,
// composer) unique index, so concurrent submissions can neither duplicate
// the piece nor lose an increment.
func ResolvePiece(db *gorm.DB, userID uint, title, composer string, addMinutes int) (*Piece, error) {
	title = strings.TrimSpace(title)
	composer = strings.TrimSpace(composer)
	if composer == "" {
		composer = UnknownComposer
	}

	piece := Piece{
		UserID:   userID,
		Title:    title,
		Composer: composer,
		LogTime:  addMinutes,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "title"}, {Name: "composer"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"log_time": gorm.Expr("log_time + ?", addMinutes),
		}),
	}).Create(&piece).Error
	if err != nil {
		return nil, err
	}

	// The conflict path leaves the in-memory struct stale; re-read for the
	// authoritative id and total.
	var resolved Piece
	err = db.
		Where("user_id = ? AND title = ? AND composer = ?", userID, title, composer).
		Take(&resolved).Error
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}
