package infra_postgres_interaction

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/burningsawals/core/internal/model"
	"github.com/burningsawals/core/internal/storage"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

func (d *Driver) Add(ctx context.Context, questionID int64, userID string, kind model.Reaction) error {
	query := `
		INSERT INTO interactions (question_id, user_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (question_id, user_id) DO UPDATE SET kind = EXCLUDED.kind
	`
	_, err := d.db.ExecContext(ctx, query, questionID, userID, kind)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return storage.ErrNotFound
	}
	return err
}

func (d *Driver) Remove(ctx context.Context, questionID int64, userID string, kind model.Reaction) error {
	query := `DELETE FROM interactions WHERE question_id = $1 AND user_id = $2 AND kind = $3`
	res, err := d.db.ExecContext(ctx, query, questionID, userID, kind)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (d *Driver) ActiveKind(ctx context.Context, questionID int64, userID string) (model.Reaction, error) {
	var kind model.Reaction
	query := `SELECT kind FROM interactions WHERE question_id = $1 AND user_id = $2`
	if err := d.db.GetContext(ctx, &kind, query, questionID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReactionNone, nil
		}
		return model.ReactionNone, err
	}
	return kind, nil
}

type statDTO struct {
	UserID       string `db:"user_id"`
	UserName     string `db:"user_name"`
	PhoneOrEmail string `db:"phone_or_email"`
	Swipes       int    `db:"swipes"`
	Likes        int    `db:"likes"`
	Dislikes     int    `db:"dislikes"`
	SuperLikes   int    `db:"super_likes"`
}

func (d *Driver) UserStats(ctx context.Context) ([]model.UserStat, error) {
	var stats []statDTO
	query := `
		SELECT u.user_id, u.user_name, u.phone_or_email,
		       count(i.*) AS swipes,
		       count(i.*) FILTER (WHERE i.kind = 'like') AS likes,
		       count(i.*) FILTER (WHERE i.kind = 'dislike') AS dislikes,
		       count(i.*) FILTER (WHERE i.kind = 'super_like') AS super_likes
		FROM users u
		LEFT JOIN interactions i ON i.user_id = u.user_id
		GROUP BY u.user_id, u.user_name, u.phone_or_email
		ORDER BY u.user_id
	`
	if err := d.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, err
	}

	out := make([]model.UserStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, model.UserStat(s))
	}
	return out, nil
}

type topDTO struct {
	QuestionID int64         `db:"question_id"`
	Question   string        `db:"question"`
	Prompt     string        `db:"prompt"`
	GenreIDs   pq.Int64Array `db:"genre_ids"`
	Likes      int           `db:"likes"`
}

func (d *Driver) TopQuestions(ctx context.Context, limit int) ([]model.TopQuestion, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []topDTO
	query := `
		SELECT q.question_id, q.question, q.prompt,
		       COALESCE(array_agg(qg.genre_id) FILTER (WHERE qg.genre_id IS NOT NULL), '{}') AS genre_ids,
		       count(DISTINCT i.user_id) FILTER (WHERE i.kind IN ('like', 'super_like')) AS likes
		FROM questions q
		LEFT JOIN question_genres qg ON qg.question_id = q.question_id
		LEFT JOIN interactions i ON i.question_id = q.question_id
		GROUP BY q.question_id
		HAVING count(DISTINCT i.user_id) FILTER (WHERE i.kind IN ('like', 'super_like')) > 0
		ORDER BY likes DESC
		LIMIT $1
	`
	if err := d.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}

	out := make([]model.TopQuestion, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.TopQuestion{
			Question: model.Question{
				QuestionID: r.QuestionID,
				Question:   r.Question,
				Prompt:     r.Prompt,
				GenreIDs:   []int64(r.GenreIDs),
			},
			Likes: r.Likes,
		})
	}
	return out, nil
}
