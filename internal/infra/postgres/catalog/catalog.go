package infra_postgres_catalog

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

type typeDTO struct {
	TypeID   int64  `db:"type_id"`
	TypeName string `db:"type_name"`
}

type genreDTO struct {
	GenreID int64  `db:"genre_id"`
	Name    string `db:"name"`
	TypeID  int64  `db:"type_id"`
}

type questionDTO struct {
	QuestionID int64         `db:"question_id"`
	Question   string        `db:"question"`
	Prompt     string        `db:"prompt"`
	GenreIDs   pq.Int64Array `db:"genre_ids"`
}

const questionSelect = `
	SELECT q.question_id, q.question, q.prompt,
	       COALESCE(array_agg(qg.genre_id) FILTER (WHERE qg.genre_id IS NOT NULL), '{}') AS genre_ids
	FROM questions q
	LEFT JOIN question_genres qg ON qg.question_id = q.question_id
`

func (d *Driver) QuestionTypes(ctx context.Context) ([]model.QuestionType, error) {
	var types []typeDTO
	if err := d.db.SelectContext(ctx, &types, `SELECT type_id, type_name FROM question_types ORDER BY type_id`); err != nil {
		return nil, err
	}

	genres, err := d.Genres(ctx)
	if err != nil {
		return nil, err
	}

	var links []struct {
		TypeID  int64 `db:"type_id"`
		GenreID int64 `db:"genre_id"`
	}
	if err := d.db.SelectContext(ctx, &links, `SELECT type_id, genre_id FROM question_type_genres`); err != nil {
		return nil, err
	}
	linked := make(map[int64]map[int64]bool)
	for _, l := range links {
		if linked[l.TypeID] == nil {
			linked[l.TypeID] = make(map[int64]bool)
		}
		linked[l.TypeID][l.GenreID] = true
	}

	out := make([]model.QuestionType, 0, len(types))
	for _, t := range types {
		qt := model.QuestionType{TypeID: t.TypeID, TypeName: t.TypeName}
		for _, g := range genres {
			if g.TypeID == t.TypeID || linked[t.TypeID][g.GenreID] {
				qt.Genres = append(qt.Genres, g)
			}
		}
		out = append(out, qt)
	}
	return out, nil
}

func (d *Driver) QuestionTypeByID(ctx context.Context, id int64) (model.QuestionType, error) {
	types, err := d.QuestionTypes(ctx)
	if err != nil {
		return model.QuestionType{}, err
	}
	for _, qt := range types {
		if qt.TypeID == id {
			return qt, nil
		}
	}
	return model.QuestionType{}, storage.ErrNotFound
}

func (d *Driver) CreateQuestionType(ctx context.Context, name string) (model.QuestionType, error) {
	var dto typeDTO
	query := `INSERT INTO question_types (type_name) VALUES ($1) RETURNING type_id, type_name`
	if err := d.db.GetContext(ctx, &dto, query, name); err != nil {
		if isUniqueViolation(err) {
			return model.QuestionType{}, storage.ErrConflict
		}
		return model.QuestionType{}, err
	}
	return model.QuestionType{TypeID: dto.TypeID, TypeName: dto.TypeName}, nil
}

func (d *Driver) RenameQuestionType(ctx context.Context, id int64, name string) error {
	res, err := d.db.ExecContext(ctx, `UPDATE question_types SET type_name = $1 WHERE type_id = $2`, name, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (d *Driver) DeleteQuestionType(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM question_types WHERE type_id = $1`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (d *Driver) LinkGenres(ctx context.Context, typeID int64, genreIDs []int64) error {
	query := `
		INSERT INTO question_type_genres (type_id, genre_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`
	_, err := d.db.ExecContext(ctx, query, typeID, pq.Array(genreIDs))
	if err != nil && isForeignKeyViolation(err) {
		return storage.ErrNotFound
	}
	return err
}

func (d *Driver) UnlinkGenres(ctx context.Context, typeID int64, genreIDs []int64) error {
	query := `DELETE FROM question_type_genres WHERE type_id = $1 AND genre_id = ANY($2::bigint[])`
	_, err := d.db.ExecContext(ctx, query, typeID, pq.Array(genreIDs))
	return err
}

func (d *Driver) Genres(ctx context.Context) ([]model.Genre, error) {
	var genres []genreDTO
	if err := d.db.SelectContext(ctx, &genres, `SELECT genre_id, name, type_id FROM genres ORDER BY genre_id`); err != nil {
		return nil, err
	}
	out := make([]model.Genre, 0, len(genres))
	for _, g := range genres {
		out = append(out, model.Genre(g))
	}
	return out, nil
}

func (d *Driver) GenreByID(ctx context.Context, id int64) (model.Genre, error) {
	var g genreDTO
	err := d.db.GetContext(ctx, &g, `SELECT genre_id, name, type_id FROM genres WHERE genre_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Genre{}, storage.ErrNotFound
		}
		return model.Genre{}, err
	}
	return model.Genre(g), nil
}

func (d *Driver) CreateGenre(ctx context.Context, name string, typeID int64) (model.Genre, error) {
	var g genreDTO
	query := `INSERT INTO genres (name, type_id) VALUES ($1, $2) RETURNING genre_id, name, type_id`
	if err := d.db.GetContext(ctx, &g, query, name, typeID); err != nil {
		if isForeignKeyViolation(err) {
			return model.Genre{}, storage.ErrNotFound
		}
		return model.Genre{}, err
	}
	return model.Genre(g), nil
}

func (d *Driver) RenameGenre(ctx context.Context, id int64, name string) error {
	res, err := d.db.ExecContext(ctx, `UPDATE genres SET name = $1 WHERE genre_id = $2`, name, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (d *Driver) DeleteGenre(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM genres WHERE genre_id = $1`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (d *Driver) Questions(ctx context.Context) ([]model.Question, error) {
	var questions []questionDTO
	query := questionSelect + ` GROUP BY q.question_id ORDER BY q.question_id`
	if err := d.db.SelectContext(ctx, &questions, query); err != nil {
		return nil, err
	}
	return toQuestions(questions), nil
}

func (d *Driver) QuestionsByGenre(ctx context.Context, genreID int64) ([]model.Question, error) {
	var questions []questionDTO
	query := questionSelect + `
		WHERE q.question_id IN (SELECT question_id FROM question_genres WHERE genre_id = $1)
		GROUP BY q.question_id ORDER BY q.question_id
	`
	if err := d.db.SelectContext(ctx, &questions, query, genreID); err != nil {
		return nil, err
	}
	return toQuestions(questions), nil
}

func (d *Driver) QuestionByID(ctx context.Context, id int64) (model.Question, error) {
	var q questionDTO
	query := questionSelect + ` WHERE q.question_id = $1 GROUP BY q.question_id`
	if err := d.db.GetContext(ctx, &q, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Question{}, storage.ErrNotFound
		}
		return model.Question{}, err
	}
	return toQuestion(q), nil
}

func (d *Driver) CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Question{}, err
	}
	defer tx.Rollback()

	var questionID int64
	query := `INSERT INTO questions (question, prompt) VALUES ($1, $2) RETURNING question_id`
	if err := tx.GetContext(ctx, &questionID, query, in.Question, in.Prompt); err != nil {
		return model.Question{}, err
	}
	if err := insertGenreLinks(ctx, tx, questionID, in.GenreIDs); err != nil {
		return model.Question{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Question{}, err
	}

	return model.Question{QuestionID: questionID, Question: in.Question, Prompt: in.Prompt, GenreIDs: in.GenreIDs}, nil
}

func (d *Driver) UpdateQuestion(ctx context.Context, id int64, in model.QuestionInput) (model.Question, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Question{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE questions SET question = $1, prompt = $2 WHERE question_id = $3`, in.Question, in.Prompt, id)
	if err != nil {
		return model.Question{}, err
	}
	if err := requireRows(res); err != nil {
		return model.Question{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM question_genres WHERE question_id = $1`, id); err != nil {
		return model.Question{}, err
	}
	if err := insertGenreLinks(ctx, tx, id, in.GenreIDs); err != nil {
		return model.Question{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Question{}, err
	}

	return model.Question{QuestionID: id, Question: in.Question, Prompt: in.Prompt, GenreIDs: in.GenreIDs}, nil
}

func (d *Driver) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM questions WHERE question_id = $1`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func insertGenreLinks(ctx context.Context, tx *sqlx.Tx, questionID int64, genreIDs []int64) error {
	query := `INSERT INTO question_genres (question_id, genre_id) SELECT $1, unnest($2::bigint[])`
	_, err := tx.ExecContext(ctx, query, questionID, pq.Array(genreIDs))
	if err != nil && isForeignKeyViolation(err) {
		return storage.ErrNotFound
	}
	return err
}

func toQuestions(dtos []questionDTO) []model.Question {
	out := make([]model.Question, 0, len(dtos))
	for _, q := range dtos {
		out = append(out, toQuestion(q))
	}
	return out
}

func toQuestion(q questionDTO) model.Question {
	return model.Question{
		QuestionID: q.QuestionID,
		Question:   q.Question,
		Prompt:     q.Prompt,
		GenreIDs:   []int64(q.GenreIDs),
	}
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
