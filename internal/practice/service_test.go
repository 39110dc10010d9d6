package practice

import (
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/quaverlabs/quaver/backend/internal/users"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &Log{}, &Piece{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *users.User {
	t.Helper()
	user := users.User{Username: username, PasswordHash: "x", Timezone: "UTC"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return service
}

func TestSubmitLogAssignsSequentialNumbers(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	service := newTestService(t, db)

	input := validInput()
	first, err := service.SubmitLog(user.ID, input)
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if first.UserLogNumber != 1 {
		t.Fatalf("expected log number 1, got %d", first.UserLogNumber)
	}

	second, err := service.SubmitLog(user.ID, input)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if second.UserLogNumber != 2 {
		t.Fatalf("expected log number 2, got %d", second.UserLogNumber)
	}
}

func TestSubmitLogNumbersAreIndependentPerUser(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	service := newTestService(t, db)

	if _, err := service.SubmitLog(alice.ID, validInput()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	bobLog, err := service.SubmitLog(bob.ID, validInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if bobLog.UserLogNumber != 1 {
		t.Fatalf("expected bob's sequence to start at 1, got %d", bobLog.UserLogNumber)
	}
}

func TestSubmitLogCreatesPieceAndAccumulatesMinutes(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	service := newTestService(t, db)

	input := validInput()
	input.Duration = numPtr("30")
	input.Piece = strPtr("Concerto in D")
	input.Composer = strPtr("Beethoven")

	first, err := service.SubmitLog(user.ID, input)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if first.PieceID == nil {
		t.Fatal("expected log to reference a piece")
	}

	input.Duration = numPtr("45")
	second, err := service.SubmitLog(user.ID, input)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if second.PieceID == nil || *second.PieceID != *first.PieceID {
		t.Fatal("expected both logs to reference the same piece")
	}

	var pieces []Piece
	if err := db.Where("user_id = ?", user.ID).Find(&pieces).Error; err != nil {
		t.Fatalf("failed to load pieces: %v", err)
	}
	if len(pieces) != 1 {
		t.Fatalf("expected exactly one piece, got %d", len(pieces))
	}
	if pieces[0].LogTime != 75 {
		t.Fatalf("expected accumulated 75 minutes, got %d", pieces[0].LogTime)
	}
}

func TestSubmitLogWithoutPieceLeavesReferenceNil(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	service := newTestService(t, db)

	log, err := service.SubmitLog(user.ID, validInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if log.PieceID != nil {
		t.Fatalf("expected nil piece reference, got %v", *log.PieceID)
	}

	var count int64
	if err := db.Model(&Piece{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no pieces, got %d", count)
	}
}

func TestSubmitLogRejectsInvalidInputBeforeWriting(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	service := newTestService(t, db)

	input := validInput()
	input.Duration = numPtr("0")
	if _, err := service.SubmitLog(user.ID, input); err == nil {
		t.Fatal("expected validation error")
	}

	var logCount int64
	if err := db.Model(&Log{}).Count(&logCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if logCount != 0 {
		t.Fatalf("expected no logs written, got %d", logCount)
	}

	var account users.User
	if err := db.Take(&account, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if account.LogCounter != 0 {
		t.Fatalf("expected counter untouched by rejected submit, got %d", account.LogCounter)
	}
}

func TestSubmitLogUnknownUser(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)

	_, err := service.SubmitLog(999, validInput())
	if err == nil || err != ErrUnknownUser {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestResolvePieceDefaultsComposerToUnknown(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")

	piece, err := ResolvePiece(db, user.ID, "  Gymnopedie No. 1 ", "", 20)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if piece.Title != "Gymnopedie No. 1" {
		t.Fatalf("expected trimmed title, got %q", piece.Title)
	}
	if piece.Composer != UnknownComposer {
		t.Fatalf("expected Unknown composer, got %q", piece.Composer)
	}
	if piece.LogTime != 20 {
		t.Fatalf("expected 20 minutes, got %d", piece.LogTime)
	}
}

func TestResolvePieceIsCaseSensitive(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")

	if _, err := ResolvePiece(db, user.ID, "Nocturne", "Chopin", 10); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if _, err := ResolvePiece(db, user.ID, "nocturne", "Chopin", 10); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	var count int64
	if err := db.Model(&Piece{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected case-sensitive match to create two pieces, got %d", count)
	}
}

func TestResolvePieceScopedPerUser(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	alicePiece, err := ResolvePiece(db, alice.ID, "Nocturne", "Chopin", 10)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	bobPiece, err := ResolvePiece(db, bob.ID, "Nocturne", "Chopin", 25)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if alicePiece.ID == bobPiece.ID {
		t.Fatal("expected separate piece rows per user")
	}
	if alicePiece.LogTime != 10 || bobPiece.LogTime != 25 {
		t.Fatalf("expected independent totals, got %d and %d", alicePiece.LogTime, bobPiece.LogTime)
	}
}

func TestEditLogMutatesAllowedFields(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	service := newTestService(t, db)

	created, err := service.SubmitLog(user.ID, validInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	edited, err := service.EditLog(user.ID, created.UserLogNumber, EditInput{
		Duration:   numPtr("90"),
		Instrument: strPtr("violin"),
		Notes:      strPtr("worked on intonation"),
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Duration != 90 || edited.Instrument != "violin" || edited.Notes != "worked on intonation" {
		t.Fatalf("unexpected edited log: %+v", edited)
	}
	if edited.UserLogNumber != created.UserLogNumber {
		t.Fatal("log number must not change on edit")
	}
	if !edited.UTCTimestamp.Equal(created.UTCTimestamp) {
		t.Fatal("practice timestamp must not change on edit")
	}
}

func TestEditLogPartialUpdateLeavesOtherFields(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	service := newTestService(t, db)

	created, err := service.SubmitLog(user.ID, validInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	edited, err := service.EditLog(user.ID, created.UserLogNumber, EditInput{Notes: strPtr("short session")})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Duration != created.Duration || edited.Instrument != created.Instrument {
		t.Fatalf("unexpected mutation of untouched fields: %+v", edited)
	}
	if edited.Notes != "short session" {
		t.Fatalf("unexpected notes: %q", edited.Notes)
	}
}

func TestEditLogUnknownNumber(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	service := newTestService(t, db)

	_, err := service.EditLog(user.ID, 42, EditInput{Notes: strPtr("x")})
	if err != ErrLogNotFound {
		t.Fatalf("expected ErrLogNotFound, got %v", err)
	}
}

func TestEditLogRejectsInvalidDuration(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	service := newTestService(t, db)

	created, err := service.SubmitLog(user.ID, validInput())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.EditLog(user.ID, created.UserLogNumber, EditInput{Duration: numPtr("100000")}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestStoreQueriesAreScopedAndOrdered(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")
	service := newTestService(t, db)
	store := service.Store()

	timestamps := []string{
		"2025-01-03T10:00:00",
		"2025-01-01T10:00:00",
		"2025-01-02T10:00:00",
	}
	for _, ts := range timestamps {
		input := validInput()
		input.UTCTimestamp = strPtr(ts)
		if _, err := service.SubmitLog(user.ID, input); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	if _, err := service.SubmitLog(other.ID, validInput()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	logs, err := store.AllLogsNewestFirst(user.ID)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs for alice, got %d", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].UTCTimestamp.After(logs[i-1].UTCTimestamp) {
			t.Fatalf("logs not ordered newest first: %v", logs)
		}
	}

	first, err := store.FirstLog(user.ID)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if first == nil || !first.UTCTimestamp.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first log: %+v", first)
	}

	recent, err := store.RecentLogs(user.ID, 2)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent logs, got %d", len(recent))
	}

	empty, err := store.AllLogs(12345)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty slice for unknown user, got %v", empty)
	}
}

func TestStoreThisWeekLogsUsesLocalWeekBounds(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	service := newTestService(t, db)
	store := service.Store()

	submit := func(ts string) {
		t.Helper()
		input := validInput()
		input.UTCTimestamp = strPtr(ts)
		if _, err := service.SubmitLog(user.ID, input); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	submit("2025-01-06T00:30:00") // Monday of the target week
	submit("2025-01-05T23:00:00") // Sunday before
	submit("2025-01-12T23:30:00") // Sunday of the target week
	submit("2025-01-13T00:30:00") // next Monday

	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	logs, err := store.ThisWeekLogs(user.ID, "UTC", now)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs inside the week, got %d", len(logs))
	}
}

func TestStorePiecesAlphabetical(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	store := NewStore(db)

	for _, title := range []string{"Waldstein", "Appassionata", "Moonlight"} {
		if _, err := ResolvePiece(db, user.ID, title, "Beethoven", 10); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
	}

	pieces, err := store.Pieces(user.ID)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	want := []string{"Appassionata", "Moonlight", "Waldstein"}
	if len(pieces) != len(want) {
		t.Fatalf("expected %d pieces, got %d", len(want), len(pieces))
	}
	for i, title := range want {
		if pieces[i].Title != title {
			t.Fatalf("unexpected order at %d: got %q, want %q", i, pieces[i].Title, title)
		}
	}
}
