package slidepack

// MergeRequest represents the request to merge completed packs
type MergeRequest struct {
	Title   string   `json:"title" validate:"required,min=1,max=255"`
	PackIDs []string `json:"pack_ids" validate:"required,min=2,dive,uuid"`
}

// RenameRequest represents the request to rename a pack
type RenameRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// MoveRequest represents the request to move a pack to a course.
// A null course_id detaches the pack.
type MoveRequest struct {
	CourseID *string `json:"course_id,omitempty" validate:"omitempty,uuid"`
}

// CardPayload is one card in a replace-cards request
type CardPayload struct {
	ID           int      `json:"id"`
	Kind         string   `json:"kind" validate:"required,oneof=standard quiz"`
	Question     string   `json:"question" validate:"required"`
	Hint         *string  `json:"hint,omitempty"`
	Answer       string   `json:"answer,omitempty"`
	Options      []string `json:"options,omitempty"`
	CorrectIndex *int     `json:"correct_index,omitempty"`
	Explanation  *string  `json:"explanation,omitempty"`
}

// ReplaceCardsRequest represents the request to replace a pack's card list
type ReplaceCardsRequest struct {
	Cards []CardPayload `json:"cards" validate:"required,dive"`
}

// ListPacksRequest represents query parameters for listing packs
type ListPacksRequest struct {
	CourseID *string `query:"course_id" validate:"omitempty,uuid"`
	Status   *string `query:"status" validate:"omitempty,oneof=processing completed failed"`
	Page     int     `query:"page" validate:"omitempty,min=1"`
	PageSize int     `query:"page_size" validate:"omitempty,min=1,max=100"`
}
