package transport

// IngestRequest carries one line of free-form task text.
type IngestRequest struct {
	Input string `json:"input"`
}

type SubtaskPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// EditRequest is a partial update. Absent fields stay unchanged; an empty
// due string clears the due date.
type EditRequest struct {
	Title    *string           `json:"title"`
	Notes    *string           `json:"notes"`
	Due      *string           `json:"due"`
	Tags     *[]string         `json:"tags"`
	Priority *string           `json:"priority"`
	Subtasks *[]SubtaskPayload `json:"subtasks"`
}

// BumpRequest direction is "up" or "down".
type BumpRequest struct {
	Direction string `json:"direction"`
}

type MoveRequest struct {
	Bucket string `json:"bucket"`
}
