package model

// Reaction is a user's recorded response to a question card.
// At most one reaction is active per (user, question) pair.
type Reaction = string

const (
	ReactionNone      Reaction = ""
	ReactionLike      Reaction = "like"
	ReactionDislike   Reaction = "dislike"
	ReactionSuperLike Reaction = "super_like"
)

func ValidReaction(r Reaction) bool {
	switch r {
	case ReactionLike, ReactionDislike, ReactionSuperLike:
		return true
	}
	return false
}
