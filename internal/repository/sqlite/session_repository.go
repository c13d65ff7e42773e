package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"

	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a SessionRepository backed by SQLite.
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Insert appends one session as a single row, so a session is either fully
// persisted with its details or not at all.
func (r *sessionRepository) Insert(ctx context.Context, rec models.SessionRecord) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, total=%d, correct=%d", rec.ID, rec.TotalQuestions, rec.CorrectAnswers)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (id, created_at, total_questions, correct_answers, time_taken_ms, complexity, specialties, exam_types, details)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.ID, rec.Timestamp, rec.TotalQuestions, rec.CorrectAnswers, rec.TimeTakenMs, rec.Complexity,
		marshalJSON(rec.Specialties), marshalJSON(rec.ExamTypes), marshalJSON(rec.Details))
	if err != nil {
		log.Error("failed to insert session: %v", err)
	}
	return err
}

func (r *sessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: specialty=%s, exam_type=%s, complexity=%s", filter.Specialty, filter.ExamType, filter.Complexity)

	query := sqlBuilder.Select(
		"id", "created_at", "total_questions", "correct_answers", "time_taken_ms",
		"complexity", "specialties", "exam_types", "details",
	).From("sessions")

	// Specialty and exam type live in JSON arrays; substring match against
	// the quoted label keeps the filter inside a single indexed scan.
	if filter.Specialty != "" {
		query = query.Where(squirrel.Like{"specialties": `%"` + filter.Specialty + `"%`})
	}
	if filter.ExamType != "" {
		query = query.Where(squirrel.Like{"exam_types": `%"` + filter.ExamType + `"%`})
	}
	if filter.Complexity != "" {
		query = query.Where(squirrel.Eq{"complexity": filter.Complexity})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": *filter.Since})
	}

	query = query.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build session query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows, log)
}

// All returns the full history, most recent first.
func (r *sessionRepository) All(ctx context.Context) ([]models.SessionRecord, error) {
	return r.List(ctx, models.SessionFilter{})
}

func (r *sessionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions`).Scan(&count)
	return count, err
}

func (r *sessionRepository) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Warn("deleting all sessions")
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}

func scanSessions(rows *sql.Rows, log *logger.Logger) ([]models.SessionRecord, error) {
	var sessions []models.SessionRecord
	for rows.Next() {
		var rec models.SessionRecord
		var specialties, examTypes, details string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.TotalQuestions, &rec.CorrectAnswers,
			&rec.TimeTakenMs, &rec.Complexity, &specialties, &examTypes, &details); err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		rec.Specialties = unmarshalStrings(specialties)
		rec.ExamTypes = unmarshalStrings(examTypes)
		if err := json.Unmarshal([]byte(details), &rec.Details); err != nil {
			// A corrupt details blob degrades to session-level counts only.
			log.Warn("unreadable details for session %s: %v", rec.ID, err)
			rec.Details = nil
		}
		sessions = append(sessions, rec)
	}
	return sessions, rows.Err()
}
