package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/repository"
)

type bookmarkRepository struct {
	db *sql.DB
}

// NewBookmarkRepository creates a BookmarkRepository backed by SQLite.
func NewBookmarkRepository(db *sql.DB) repository.BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Add(ctx context.Context, questionID string) error {
	log := logger.FromContext(ctx).WithPrefix("bookmark_repo")
	log.Debug("adding bookmark: question_id=%s", questionID)
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO bookmarks (question_id) VALUES (?)`, questionID)
	if err != nil {
		log.Error("failed to add bookmark: %v", err)
	}
	return err
}

func (r *bookmarkRepository) Remove(ctx context.Context, questionID string) error {
	log := logger.FromContext(ctx).WithPrefix("bookmark_repo")
	log.Debug("removing bookmark: question_id=%s", questionID)
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE question_id = ?`, questionID)
	return err
}

func (r *bookmarkRepository) All(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT question_id FROM bookmarks ORDER BY created_at, question_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *bookmarkRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks`)
	return err
}

type masteryRepository struct {
	db *sql.DB
}

// NewMasteryRepository creates a MasteryRepository backed by SQLite.
func NewMasteryRepository(db *sql.DB) repository.MasteryRepository {
	return &masteryRepository{db: db}
}

const masteryColumns = `id, question_id, card_type, front, back, created_at`

func (r *masteryRepository) InsertBatch(ctx context.Context, cards []models.MasteryCard) error {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("inserting %d mastery cards", len(cards))

	return tx(ctx, r.db, func(t *sql.Tx) error {
		for _, c := range cards {
			if _, err := t.ExecContext(ctx, `
INSERT INTO mastery_cards (id, question_id, card_type, front, back, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, c.ID, c.QuestionID, c.CardType, c.Front, c.Back, c.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *masteryRepository) ForQuestion(ctx context.Context, questionID string) ([]models.MasteryCard, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+masteryColumns+` FROM mastery_cards WHERE question_id = ? ORDER BY card_type`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMasteryCards(rows)
}

func (r *masteryRepository) All(ctx context.Context) ([]models.MasteryCard, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+masteryColumns+` FROM mastery_cards ORDER BY question_id, card_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMasteryCards(rows)
}

func (r *masteryRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM mastery_cards`)
	return err
}

func scanMasteryCards(rows *sql.Rows) ([]models.MasteryCard, error) {
	var cards []models.MasteryCard
	for rows.Next() {
		var c models.MasteryCard
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.CardType, &c.Front, &c.Back, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a CardRepository backed by SQLite.
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Upsert(ctx context.Context, card models.ReviewCard) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("upserting card: id=%s, interval=%d, ease=%.2f", card.CardID, card.IntervalDays, card.EaseFactor)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO srs_cards (card_id, next_review_at, interval_days, ease_factor, repetition_count, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(card_id) DO UPDATE SET
    next_review_at = excluded.next_review_at,
    interval_days = excluded.interval_days,
    ease_factor = excluded.ease_factor,
    repetition_count = excluded.repetition_count
`, card.CardID, card.NextReviewAt, card.IntervalDays, card.EaseFactor, card.RepetitionCount, card.CreatedAt)
	if err != nil {
		log.Error("failed to upsert card: %v", err)
	}
	return err
}

func (r *cardRepository) Get(ctx context.Context, cardID string) (*models.ReviewCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	var c models.ReviewCard
	err := r.db.QueryRowContext(ctx, `
SELECT card_id, next_review_at, interval_days, ease_factor, repetition_count, created_at
FROM srs_cards WHERE card_id = ?
`, cardID).Scan(&c.CardID, &c.NextReviewAt, &c.IntervalDays, &c.EaseFactor, &c.RepetitionCount, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) All(ctx context.Context) ([]models.ReviewCard, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT card_id, next_review_at, interval_days, ease_factor, repetition_count, created_at
FROM srs_cards ORDER BY next_review_at, card_id
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.ReviewCard
	for rows.Next() {
		var c models.ReviewCard
		if err := rows.Scan(&c.CardID, &c.NextReviewAt, &c.IntervalDays, &c.EaseFactor, &c.RepetitionCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *cardRepository) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Warn("deleting all srs cards")
	_, err := r.db.ExecContext(ctx, `DELETE FROM srs_cards`)
	return err
}
