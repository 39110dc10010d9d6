package practice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/quaverlabs/quaver/backend/internal/users"
)

var (
	// ErrLogNotFound indicates a log number that does not exist for the user.
	ErrLogNotFound = errors.New("practice: log not found")
	// ErrUnknownUser indicates a submit for a user id with no account row.
	ErrUnknownUser = errors.New("practice: unknown user")
)

// ServiceConfig describes the dependencies required for the practice service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// Service owns the write paths for practice logs. All log creation flows
// through SubmitLog so no record can bypass validation.
type Service struct {
	db    *gorm.DB
	store *Store
	now   func() time.Time
}

// NewService constructs the practice service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("practice: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{db: cfg.Database, store: NewStore(cfg.Database), now: clock}, nil
}

// Store exposes the read-side queries backed by the same connection.
func (s *Service) Store() *Store {
	return s.store
}

// SubmitLog validates the submission, assigns the next per-user log number,
// resolves the referenced piece when one is named, and persists the log.
// The whole write runs in one transaction: the number comes from an atomic
// increment of the user's counter, never from scanning existing logs.
func (s *Service) SubmitLog(userID uint, input SubmissionInput) (*Log, error) {
	submission, verr := ParseSubmission(input)
	if verr != nil {
		return nil, verr
	}

	var created Log
	err := s.db.Transaction(func(tx *gorm.DB) error {
		bump := tx.Model(&users.User{}).
			Where("id = ?", userID).
			UpdateColumn("log_counter", gorm.Expr("log_counter + 1"))
		if bump.Error != nil {
			return bump.Error
		}
		if bump.RowsAffected == 0 {
			return ErrUnknownUser
		}

		var account users.User
		if err := tx.Select("log_counter").Take(&account, userID).Error; err != nil {
			return err
		}

		var pieceID *uint
		if submission.PieceTitle != "" {
			piece, err := ResolvePiece(tx, userID, submission.PieceTitle, submission.Composer, submission.Duration)
			if err != nil {
				return err
			}
			pieceID = &piece.ID
		}

		created = Log{
			UserID:        userID,
			UserLogNumber: account.LogCounter,
			UTCTimestamp:  submission.UTCTimestamp,
			Instrument:    submission.Instrument,
			Duration:      submission.Duration,
			Notes:         submission.Notes,
			PieceID:       pieceID,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// EditInput is the raw JSON body of a log edit. Only duration, instrument
// and notes are mutable; absent fields are left untouched.
type EditInput struct {
	Duration   *json.Number `json:"duration"`
	Instrument *string      `json:"instrument"`
	Notes      *string      `json:"notes"`
}

// EditLog mutates an existing log identified by its per-user number.
func (s *Service) EditLog(userID uint, userLogNumber int, input EditInput) (*Log, error) {
	log, err := s.store.LogByNumber(userID, userLogNumber)
	if err != nil {
		return nil, err
	}

	if input.Duration != nil {
		duration, verr := parseDuration(*input.Duration)
		if verr != nil {
			return nil, verr
		}
		log.Duration = duration
	}
	if input.Instrument != nil {
		instrument := strings.TrimSpace(*input.Instrument)
		if instrument == "" {
			return nil, &ValidationError{Field: "instrument", Message: "instrument cannot be empty"}
		}
		log.Instrument = instrument
	}
	if input.Notes != nil {
		log.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := s.db.Omit("Piece").Save(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}
