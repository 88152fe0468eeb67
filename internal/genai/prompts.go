package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sarikapunglia/Dronacharya/internal/quiz"
)

func generationPrompt(st quiz.Student, topic string, complexity quiz.Complexity, concepts string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a tutor preparing a practice test for a student aged %d in class %q.\n", st.Age, st.Class)
	fmt.Fprintf(&b, "Generate exactly %d multiple-choice questions on the topic %q with %s difficulty.\n", count, topic, complexity)
	if strings.TrimSpace(concepts) != "" {
		fmt.Fprintf(&b, "Focus on these concepts: %s.\n", concepts)
	}
	b.WriteString(`Respond with ONLY a JSON array, no prose, where each element has this shape:
{"id": 1, "question": "...", "options": ["...","...","...","..."], "correctAnswer": "...", "explanation": "..."}
Rules: ids are sequential starting at 1, options holds exactly four choices,
correctAnswer is the exact text of the right option, explanation is one or
two sentences a child of that age can follow.`)
	return b.String()
}

func evaluationPrompt(st quiz.Student, questions []quiz.Question, answers map[int]string) string {
	qj, _ := json.Marshal(questions)
	aj, _ := json.Marshal(answers)

	var b strings.Builder
	fmt.Fprintf(&b, "You are grading a practice test taken by a student aged %d in class %q.\n", st.Age, st.Class)
	fmt.Fprintf(&b, "Questions (with correct answers): %s\n", qj)
	fmt.Fprintf(&b, "The student's answers, keyed by question id: %s\n", aj)
	b.WriteString(`Unanswered questions count as wrong. Respond with ONLY a JSON object, no prose:
{"score": 0-100, "feedback": "...", "analysis": {"strengths": ["..."], "weaknesses": ["..."], "suggestions": ["..."]}}
Feedback should be encouraging and specific to what the student got right and wrong.`)
	return b.String()
}
