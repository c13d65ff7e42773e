package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/repository"
)

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a QuestionRepository backed by SQLite.
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

const questionColumns = `id, vignette, options, correct_index, tags, clinical_concepts, cognitive_level, explanation`

func (r *questionRepository) Upsert(ctx context.Context, q models.Question) error {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("upserting question: id=%s", q.ID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO questions (id, vignette, options, correct_index, tags, clinical_concepts, cognitive_level, explanation)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    vignette = excluded.vignette,
    options = excluded.options,
    correct_index = excluded.correct_index,
    tags = excluded.tags,
    clinical_concepts = excluded.clinical_concepts,
    cognitive_level = excluded.cognitive_level,
    explanation = excluded.explanation
`, q.ID, q.Vignette, marshalJSON(q.Options), q.CorrectIndex,
		marshalJSON(q.Tags), marshalJSON(q.ClinicalConcepts), q.CognitiveLevel, q.Explanation)
	if err != nil {
		log.Error("failed to upsert question: %v", err)
	}
	return err
}

func (r *questionRepository) UpsertBatch(ctx context.Context, qs []models.Question) error {
	return tx(ctx, r.db, func(t *sql.Tx) error {
		for _, q := range qs {
			if _, err := t.ExecContext(ctx, `
INSERT INTO questions (id, vignette, options, correct_index, tags, clinical_concepts, cognitive_level, explanation)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    vignette = excluded.vignette,
    options = excluded.options,
    correct_index = excluded.correct_index,
    tags = excluded.tags,
    clinical_concepts = excluded.clinical_concepts,
    cognitive_level = excluded.cognitive_level,
    explanation = excluded.explanation
`, q.ID, q.Vignette, marshalJSON(q.Options), q.CorrectIndex,
				marshalJSON(q.Tags), marshalJSON(q.ClinicalConcepts), q.CognitiveLevel, q.Explanation); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *questionRepository) Get(ctx context.Context, id string) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	row := r.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("question not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get question: %v", err)
		return nil, err
	}
	return q, nil
}

func (r *questionRepository) All(ctx context.Context) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
	if err != nil {
		log.Error("failed to query questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

func (r *questionRepository) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Warn("deleting all questions")
	_, err := r.db.ExecContext(ctx, `DELETE FROM questions`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var options, tags, concepts string
	if err := row.Scan(&q.ID, &q.Vignette, &options, &q.CorrectIndex, &tags, &concepts, &q.CognitiveLevel, &q.Explanation); err != nil {
		return nil, err
	}
	q.Options = unmarshalStrings(options)
	q.Tags = unmarshalStrings(tags)
	q.ClinicalConcepts = unmarshalStrings(concepts)
	return &q, nil
}
