package entities

import "time"

// QuizQuestion is a single validated multiple-choice question.
// Invariant: all fields non-empty, exactly four options, CorrectOption in A-D.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

// IsValid reports whether the question satisfies the structural invariant
func (q *QuizQuestion) IsValid() bool {
	if q.Question == "" || q.Explanation == "" || len(q.Options) != 4 {
		return false
	}
	for _, opt := range q.Options {
		if opt == "" {
			return false
		}
	}
	switch q.CorrectOption {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

// GeneratedQuiz is a persisted quiz tied to an equipment and/or procedure.
// Read-only after creation; retained indefinitely for reuse.
type GeneratedQuiz struct {
	ID          string         `json:"id" db:"id"`
	EquipmentID *string        `json:"equipment_id,omitempty" db:"equipment_id"`
	ProcedureID *string        `json:"procedure_id,omitempty" db:"procedure_id"`
	Questions   []QuizQuestion `json:"questions" db:"questions"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
