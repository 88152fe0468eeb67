package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sarikapunglia/Dronacharya/internal/db"
)

// SQLStore implements Store directly against a relational database. It
// serves both the embedded (sqlite) app and the networked backend server
// (postgres or sqlite behind the HTTP API). All JSON encoding of nested
// structures happens here and nowhere else.
type SQLStore struct {
	db     *sql.DB
	driver db.Driver
}

func NewSQLStore(dbh *sql.DB, driver db.Driver) *SQLStore {
	return &SQLStore{db: dbh, driver: driver}
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) Login(ctx context.Context, name string, age int, class string) (Student, error) {
	if err := validateLogin(name, age, class); err != nil {
		return Student{}, err
	}
	st, err := s.findStudent(ctx, name, age, class)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Student{}, wrapStoreErr("login", err)
	}

	id, err := s.insert(ctx,
		`INSERT INTO students (name, age, class) VALUES ($1,$2,$3)`,
		name, age, class)
	if err != nil {
		// Lost a concurrent login race for the same key: the unique index
		// rejected our row, so the winner's row exists now.
		if constraintViolated(err) {
			if st, serr := s.findStudent(ctx, name, age, class); serr == nil {
				return st, nil
			}
		}
		return Student{}, wrapStoreErr("login", err)
	}
	return Student{ID: id, Name: name, Age: age, Class: class}, nil
}

func (s *SQLStore) findStudent(ctx context.Context, name string, age int, class string) (Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, age, class FROM students WHERE name=$1 AND age=$2 AND class=$3`,
		name, age, class)
	var st Student
	err := row.Scan(&st.ID, &st.Name, &st.Age, &st.Class)
	return st, err
}

func (s *SQLStore) SaveTest(ctx context.Context, studentID int64, topic string, complexity Complexity, concepts string, questions []Question) (int64, error) {
	if err := validateTest(topic, complexity, questions); err != nil {
		return 0, err
	}
	qj, err := json.Marshal(questions)
	if err != nil {
		return 0, fmt.Errorf("save test: encode questions: %w", err)
	}
	id, err := s.insert(ctx,
		`INSERT INTO tests (student_id, topic, complexity, concepts, questions_json, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		studentID, topic, string(complexity), concepts, string(qj), time.Now().Unix())
	if err != nil {
		return 0, wrapStoreErr("save test", err)
	}
	return id, nil
}

func (s *SQLStore) GetHistory(ctx context.Context, studentID int64) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.student_id, t.topic, t.complexity, t.concepts, t.questions_json, t.created_at,
		       r.score, r.feedback, r.analysis_json, r.completed_at
		FROM tests t
		LEFT JOIN results r ON r.test_id = t.id
		WHERE t.student_id = $1
		ORDER BY t.created_at DESC, t.id DESC`, studentID)
	if err != nil {
		return nil, wrapStoreErr("get history", err)
	}
	defer rows.Close()

	out := []HistoryEntry{}
	for rows.Next() {
		var (
			e     HistoryEntry
			qjson string
			score sql.NullInt64
			fb    sql.NullString
			ajson sql.NullString
			done  sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.StudentID, &e.Topic, &e.Complexity, &e.Concepts, &qjson, &e.CreatedAt,
			&score, &fb, &ajson, &done); err != nil {
			return nil, wrapStoreErr("get history", err)
		}
		if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
			return nil, fmt.Errorf("get history: test %d questions: %w", e.ID, ErrCorruptData)
		}
		if score.Valid {
			v := int(score.Int64)
			e.Score = &v
		}
		if fb.Valid {
			v := fb.String
			e.Feedback = &v
		}
		if ajson.Valid {
			var a Analysis
			if err := json.Unmarshal([]byte(ajson.String), &a); err != nil {
				return nil, fmt.Errorf("get history: test %d analysis: %w", e.ID, ErrCorruptData)
			}
			e.Analysis = &a
		}
		if done.Valid {
			v := done.Int64
			e.CompletedAt = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("get history", err)
	}
	return out, nil
}

func (s *SQLStore) SaveResult(ctx context.Context, testID int64, answers map[int]string, score int, feedback string, analysis Analysis) (int64, error) {
	if err := validateResult(score); err != nil {
		return 0, err
	}
	if answers == nil {
		answers = map[int]string{}
	}
	aj, err := json.Marshal(answers)
	if err != nil {
		return 0, fmt.Errorf("save result: encode answers: %w", err)
	}
	nj, err := json.Marshal(analysis)
	if err != nil {
		return 0, fmt.Errorf("save result: encode analysis: %w", err)
	}
	id, err := s.insert(ctx,
		`INSERT INTO results (test_id, answers_json, score, feedback, analysis_json, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		testID, string(aj), score, feedback, string(nj), time.Now().Unix())
	if err != nil {
		return 0, wrapStoreErr("save result", err)
	}
	return id, nil
}

// insert runs an INSERT and returns the assigned id, papering over the one
// dialect split that matters: postgres hands ids back via RETURNING, sqlite
// via LastInsertId.
func (s *SQLStore) insert(ctx context.Context, query string, args ...any) (int64, error) {
	if s.driver == db.DriverPostgres {
		var id int64
		err := s.db.QueryRowContext(ctx, query+` RETURNING id`, args...).Scan(&id)
		return id, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
