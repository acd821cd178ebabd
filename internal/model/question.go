package model

// QuestionType is the root of the browsing hierarchy.
type QuestionType struct {
	TypeID   int64   `json:"type_id"`
	TypeName string  `json:"type_name"`
	Genres   []Genre `json:"genres"`
}

// Genre belongs to exactly one QuestionType.
type Genre struct {
	GenreID int64  `json:"genre_id"`
	Name    string `json:"name"`
	TypeID  int64  `json:"type_id"`
}

// Question is a prompt/question pair shown on a card. Many-to-many with Genre.
type Question struct {
	QuestionID int64   `json:"question_id"`
	Question   string  `json:"question"`
	Prompt     string  `json:"prompt"`
	GenreIDs   []int64 `json:"genre_ids"`
}

// QuestionInput carries the writable fields of a Question.
type QuestionInput struct {
	Question string  `json:"question"`
	Prompt   string  `json:"prompt"`
	GenreIDs []int64 `json:"genre_ids"`
}

var EmptyQuestion = Question{}

func (q Question) IsEmpty() bool {
	return q.QuestionID == 0
}
