package quiz

// Complexity is the requested difficulty of a generated test.
type Complexity string

const (
	ComplexityEasy   Complexity = "Easy"
	ComplexityMedium Complexity = "Medium"
	ComplexityHard   Complexity = "Hard"
)

// Student identity is the (name, age, class) triple; the id is assigned on
// first login and reused for every later login with the same triple.
type Student struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Class string `json:"className"`
}

type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"` // exactly four when present
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type Analysis struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// Test is one generated question set. The question sequence is immutable
// once saved; evaluation and history never rewrite it.
type Test struct {
	ID         int64      `json:"id"`
	StudentID  int64      `json:"studentId"`
	Topic      string     `json:"topic"`
	Complexity Complexity `json:"complexity"`
	Concepts   string     `json:"concepts"`
	Questions  []Question `json:"questions"`
	CreatedAt  int64      `json:"createdAt"` // unix seconds
}

// HistoryEntry is a test left-joined with its result. The result fields are
// nil when the test has not been evaluated yet; that is normal data, not an
// error.
type HistoryEntry struct {
	Test
	Score       *int      `json:"score"`
	Feedback    *string   `json:"feedback"`
	Analysis    *Analysis `json:"analysis"`
	CompletedAt *int64    `json:"completedAt"`
}
