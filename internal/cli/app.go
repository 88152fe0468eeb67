package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sarikapunglia/Dronacharya/internal/quiz"
	"github.com/sarikapunglia/Dronacharya/internal/session"
)

// Run drives one interactive student session over the given reader/writer.
// It returns nil on a clean exit (EOF or the exit command).
func Run(ctx context.Context, in io.Reader, out io.Writer, ctrl *session.Controller) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "Dronacharya — AI practice tests")
	if err := login(ctx, reader, out, ctrl); err != nil {
		return err
	}
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToLower(strings.Fields(line)[0]) {
		case "help":
			printHelp(out)
		case "new":
			newTest(ctx, reader, out, ctrl)
		case "print":
			printTest(out, ctrl.CurrentTest())
		case "answer":
			answerTest(ctx, reader, out, ctrl)
		case "history":
			showHistory(ctx, out, ctrl)
		case "logout":
			ctrl.Logout()
			fmt.Fprintln(out, "Logged out.")
			if err := login(ctx, reader, out, ctrl); err != nil {
				return err
			}
		case "exit":
			return nil
		default:
			fmt.Fprintln(out, "Unknown command. Type help for a list.")
		}
	}
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `
Commands:
  new      generate a new practice test
  print    show the current test (for printing on paper)
  answer   answer the current test and get it evaluated
  history  show past tests and scores
  logout   switch student
  help     show this help
  exit     quit
`)
}

// login keeps prompting until a login succeeds; storage failures here are
// retryable, not fatal.
func login(ctx context.Context, reader *bufio.Reader, out io.Writer, ctrl *session.Controller) error {
	for {
		name, err := prompt(reader, out, "Name: ")
		if err != nil {
			return err
		}
		ageText, err := prompt(reader, out, "Age: ")
		if err != nil {
			return err
		}
		class, err := prompt(reader, out, "Class: ")
		if err != nil {
			return err
		}

		age, convErr := strconv.Atoi(ageText)
		if convErr != nil || age <= 0 {
			fmt.Fprintln(out, "Age must be a positive number, try again.")
			continue
		}
		if err := ctrl.Login(ctx, name, age, class); err != nil {
			fmt.Fprintf(out, "Login failed (%v), try again.\n", err)
			continue
		}
		st := ctrl.Student()
		fmt.Fprintf(out, "\nWelcome, %s! You have %d past test(s).\n", st.Name, len(ctrl.History()))
		return nil
	}
}

func newTest(ctx context.Context, reader *bufio.Reader, out io.Writer, ctrl *session.Controller) {
	topic, err := prompt(reader, out, "Topic: ")
	if err != nil || topic == "" {
		fmt.Fprintln(out, "A topic is required.")
		return
	}
	levelText, err := prompt(reader, out, "Difficulty (Easy/Medium/Hard) [Easy]: ")
	if err != nil {
		return
	}
	complexity := parseComplexity(levelText)
	concepts, err := prompt(reader, out, "Concepts to focus on (optional): ")
	if err != nil {
		return
	}

	fmt.Fprintln(out, "Generating questions...")
	test, err := ctrl.GenerateTest(ctx, topic, complexity, concepts)
	if err != nil {
		fmt.Fprintf(out, "Could not generate a test: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Test #%d ready with %d questions. Use print or answer.\n", test.ID, len(test.Questions))
}

func parseComplexity(s string) quiz.Complexity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medium", "m":
		return quiz.ComplexityMedium
	case "hard", "h":
		return quiz.ComplexityHard
	default:
		return quiz.ComplexityEasy
	}
}

func printTest(out io.Writer, test *quiz.Test) {
	if test == nil {
		fmt.Fprintln(out, "No current test. Use new first.")
		return
	}
	fmt.Fprintf(out, "\n%s (%s)\n", test.Topic, test.Complexity)
	for _, q := range test.Questions {
		fmt.Fprintf(out, "\nQ%d: %s\n", q.ID, q.Question)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %c. %s\n", 'A'+i, opt)
		}
	}
	fmt.Fprintln(out)
}

func answerTest(ctx context.Context, reader *bufio.Reader, out io.Writer, ctrl *session.Controller) {
	test := ctrl.CurrentTest()
	if test == nil {
		fmt.Fprintln(out, "No current test. Use new first.")
		return
	}
	if ctrl.State() == session.StateTestGenerated {
		if err := ctrl.Begin(); err != nil {
			fmt.Fprintf(out, "%v\n", err)
			return
		}
	}

	fmt.Fprintln(out, "Answer each question (option letter or text; empty to skip).")
	for _, q := range test.Questions {
		fmt.Fprintf(out, "\nQ%d: %s\n", q.ID, q.Question)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %c. %s\n", 'A'+i, opt)
		}
		answer, err := prompt(reader, out, "Your answer: ")
		if err != nil {
			return
		}
		if answer == "" {
			continue
		}
		// A single letter picks the matching option.
		if len(answer) == 1 && len(q.Options) > 0 {
			letter := strings.ToUpper(answer)[0]
			if idx := int(letter - 'A'); idx >= 0 && idx < len(q.Options) {
				answer = q.Options[idx]
			}
		}
		_ = ctrl.SetAnswer(q.ID, answer)
	}

	fmt.Fprintln(out, "\nEvaluating...")
	ev, err := ctrl.Submit(ctx)
	if err != nil && !errors.Is(err, session.ErrStaleHistory) {
		fmt.Fprintf(out, "Submission failed: %v\n", err)
		return
	}
	if err != nil {
		// The score is saved; only the cached history is out of date.
		fmt.Fprintln(out, "Saved, but history could not be refreshed; use history to retry.")
	}
	fmt.Fprintf(out, "\nScore: %d/100\n%s\n", ev.Score, ev.Feedback)
	printList(out, "Strengths", ev.Analysis.Strengths)
	printList(out, "Weaknesses", ev.Analysis.Weaknesses)
	printList(out, "Suggestions", ev.Analysis.Suggestions)
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}

func showHistory(ctx context.Context, out io.Writer, ctrl *session.Controller) {
	history, err := ctrl.RefreshHistory(ctx)
	if err != nil {
		fmt.Fprintf(out, "Could not load history: %v\n", err)
		return
	}
	if len(history) == 0 {
		fmt.Fprintln(out, "No tests yet.")
		return
	}
	for _, entry := range history {
		when := time.Unix(entry.CreatedAt, 0).Format("2006-01-02 15:04")
		score := "not taken"
		if entry.Score != nil {
			score = fmt.Sprintf("%d/100", *entry.Score)
		}
		fmt.Fprintf(out, "#%d  %s  %s (%s, %d questions)  score: %s\n",
			entry.ID, when, entry.Topic, entry.Complexity, len(entry.Questions), score)
	}
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
