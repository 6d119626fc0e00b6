package exam

// Exam is the authoring unit criteria defaults hang off.
type Exam struct {
	UUID      string `json:"uuid"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// Question belongs to one exam; its rubric is the exam defaults merged with
// per-question overrides.
type Question struct {
	UUID      string `json:"uuid"`
	ExamUUID  string `json:"exam_uuid"`
	Statement string `json:"statement"`
	Position  int    `json:"position"`
	CreatedAt int64  `json:"created_at,omitempty"`
}
