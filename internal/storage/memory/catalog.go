package storage_memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/burningsawals/core/internal/model"
	"github.com/burningsawals/core/internal/storage"
)

// Catalog is an in-memory catalog store. It backs sawalsd's memory mode and
// the integration tests, so development needs neither Postgres nor Redis.
type Catalog struct {
	mu sync.Mutex

	nextID    int64
	types     map[int64]*model.QuestionType
	genres    map[int64]*model.Genre
	questions map[int64]*model.Question
	// typeGenres holds genre ids linked to a type beyond the genre's own
	// type_id relation (admin "add genres to type").
	typeGenres map[int64]map[int64]bool
}

func NewCatalog() *Catalog {
	return &Catalog{
		nextID:     1,
		types:      make(map[int64]*model.QuestionType),
		genres:     make(map[int64]*model.Genre),
		questions:  make(map[int64]*model.Question),
		typeGenres: make(map[int64]map[int64]bool),
	}
}

func (c *Catalog) id() int64 {
	n := c.nextID
	c.nextID++
	return n
}

func (c *Catalog) QuestionTypes(_ context.Context) ([]model.QuestionType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.QuestionType, 0, len(c.types))
	for id := range c.types {
		out = append(out, c.assembleType(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeID < out[j].TypeID })
	return out, nil
}

func (c *Catalog) QuestionTypeByID(_ context.Context, id int64) (model.QuestionType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.types[id]; !ok {
		return model.QuestionType{}, storage.ErrNotFound
	}
	return c.assembleType(id), nil
}

// assembleType nests the genres belonging to or linked with the type.
// Callers must hold c.mu.
func (c *Catalog) assembleType(id int64) model.QuestionType {
	qt := *c.types[id]
	qt.Genres = nil
	for gid, g := range c.genres {
		if g.TypeID == id || c.typeGenres[id][gid] {
			qt.Genres = append(qt.Genres, *g)
		}
	}
	sort.Slice(qt.Genres, func(i, j int) bool { return qt.Genres[i].GenreID < qt.Genres[j].GenreID })
	return qt
}

func (c *Catalog) CreateQuestionType(_ context.Context, name string) (model.QuestionType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, qt := range c.types {
		if strings.EqualFold(qt.TypeName, name) {
			return model.QuestionType{}, storage.ErrConflict
		}
	}
	qt := &model.QuestionType{TypeID: c.id(), TypeName: name}
	c.types[qt.TypeID] = qt
	return *qt, nil
}

func (c *Catalog) RenameQuestionType(_ context.Context, id int64, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	qt, ok := c.types[id]
	if !ok {
		return storage.ErrNotFound
	}
	qt.TypeName = name
	return nil
}

func (c *Catalog) DeleteQuestionType(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.types[id]; !ok {
		return storage.ErrNotFound
	}
	delete(c.types, id)
	delete(c.typeGenres, id)
	return nil
}

func (c *Catalog) LinkGenres(_ context.Context, typeID int64, genreIDs []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.types[typeID]; !ok {
		return storage.ErrNotFound
	}
	links := c.typeGenres[typeID]
	if links == nil {
		links = make(map[int64]bool)
		c.typeGenres[typeID] = links
	}
	for _, gid := range genreIDs {
		if _, ok := c.genres[gid]; !ok {
			return storage.ErrNotFound
		}
		links[gid] = true
	}
	return nil
}

func (c *Catalog) UnlinkGenres(_ context.Context, typeID int64, genreIDs []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.types[typeID]; !ok {
		return storage.ErrNotFound
	}
	for _, gid := range genreIDs {
		delete(c.typeGenres[typeID], gid)
	}
	return nil
}

func (c *Catalog) Genres(_ context.Context) ([]model.Genre, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Genre, 0, len(c.genres))
	for _, g := range c.genres {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GenreID < out[j].GenreID })
	return out, nil
}

func (c *Catalog) GenreByID(_ context.Context, id int64) (model.Genre, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.genres[id]
	if !ok {
		return model.Genre{}, storage.ErrNotFound
	}
	return *g, nil
}

func (c *Catalog) CreateGenre(_ context.Context, name string, typeID int64) (model.Genre, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.types[typeID]; !ok {
		return model.Genre{}, storage.ErrNotFound
	}
	g := &model.Genre{GenreID: c.id(), Name: name, TypeID: typeID}
	c.genres[g.GenreID] = g
	return *g, nil
}

func (c *Catalog) RenameGenre(_ context.Context, id int64, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.genres[id]
	if !ok {
		return storage.ErrNotFound
	}
	g.Name = name
	return nil
}

func (c *Catalog) DeleteGenre(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.genres[id]; !ok {
		return storage.ErrNotFound
	}
	delete(c.genres, id)
	return nil
}

func (c *Catalog) Questions(_ context.Context) ([]model.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Question, 0, len(c.questions))
	for _, q := range c.questions {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (c *Catalog) QuestionsByGenre(_ context.Context, genreID int64) ([]model.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []model.Question
	for _, q := range c.questions {
		for _, gid := range q.GenreIDs {
			if gid == genreID {
				out = append(out, *q)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (c *Catalog) QuestionByID(_ context.Context, id int64) (model.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, ok := c.questions[id]
	if !ok {
		return model.Question{}, storage.ErrNotFound
	}
	return *q, nil
}

func (c *Catalog) CreateQuestion(_ context.Context, in model.QuestionInput) (model.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, gid := range in.GenreIDs {
		if _, ok := c.genres[gid]; !ok {
			return model.Question{}, storage.ErrNotFound
		}
	}
	q := &model.Question{
		QuestionID: c.id(),
		Question:   in.Question,
		Prompt:     in.Prompt,
		GenreIDs:   append([]int64(nil), in.GenreIDs...),
	}
	c.questions[q.QuestionID] = q
	return *q, nil
}

func (c *Catalog) UpdateQuestion(_ context.Context, id int64, in model.QuestionInput) (model.Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, ok := c.questions[id]
	if !ok {
		return model.Question{}, storage.ErrNotFound
	}
	q.Question = in.Question
	q.Prompt = in.Prompt
	q.GenreIDs = append([]int64(nil), in.GenreIDs...)
	return *q, nil
}

func (c *Catalog) DeleteQuestion(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.questions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(c.questions, id)
	return nil
}
