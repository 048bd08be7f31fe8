package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
)

const lessonColumns = `id, title, description, order_index, is_active, created_at, updated_at`

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new LessonRepository implementation
func NewLessonRepository(db *sql.DB) repository.LessonRepository {
	return &lessonRepository{db: db}
}

func scanLesson(row interface{ Scan(...any) error }, l *models.Lesson) error {
	return row.Scan(&l.ID, &l.Title, &l.Description, &l.OrderIndex, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
}

func (r *lessonRepository) ListActive(ctx context.Context) ([]models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("listing active lessons")

	rows, err := r.db.QueryContext(ctx, `
SELECT `+lessonColumns+`
FROM lessons
WHERE is_active = 1
ORDER BY order_index ASC, id ASC
`)
	if err != nil {
		log.Error("failed to list lessons: %v", err)
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := scanLesson(rows, &l); err != nil {
			log.Error("failed to scan lesson row: %v", err)
			return nil, err
		}
		lessons = append(lessons, l)
	}
	log.Debug("found %d active lessons", len(lessons))
	return lessons, rows.Err()
}

func (r *lessonRepository) Get(ctx context.Context, id int64) (*models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("getting lesson: id=%d", id)

	var l models.Lesson
	err := scanLesson(r.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id = ?`, id), &l)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("lesson not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get lesson: %v", err)
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepository) GetByTitle(ctx context.Context, title string) (*models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")

	var l models.Lesson
	err := scanLesson(r.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE title = ? ORDER BY id LIMIT 1`, title), &l)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get lesson by title: %v", err)
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepository) Problems(ctx context.Context, lessonID int64) ([]models.Problem, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("loading problems: lesson_id=%d", lessonID)

	query := sqlBuilder.
		Select("id", "lesson_id", "question", "problem_type", "xp_value", "order_index").
		From("problems").
		Where(squirrel.Eq{"lesson_id": lessonID}).
		OrderBy("order_index ASC", "id ASC")
	return r.problems(ctx, query)
}

func (r *lessonRepository) ProblemsByID(ctx context.Context, ids []int64) ([]models.Problem, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("loading %d problems by id", len(ids))
	if len(ids) == 0 {
		return nil, nil
	}

	query := sqlBuilder.
		Select("id", "lesson_id", "question", "problem_type", "xp_value", "order_index").
		From("problems").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("order_index ASC", "id ASC")
	return r.problems(ctx, query)
}

func (r *lessonRepository) problems(ctx context.Context, query squirrel.SelectBuilder) ([]models.Problem, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to query problems: %v", err)
		return nil, err
	}
	defer rows.Close()

	var problems []models.Problem
	for rows.Next() {
		var p models.Problem
		if err := rows.Scan(&p.ID, &p.LessonID, &p.Question, &p.ProblemType, &p.XPValue, &p.OrderIndex); err != nil {
			log.Error("failed to scan problem row: %v", err)
			return nil, err
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachOptions(ctx, problems); err != nil {
		return nil, err
	}
	return problems, nil
}

func (r *lessonRepository) attachOptions(ctx context.Context, problems []models.Problem) error {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	if len(problems) == 0 {
		return nil
	}

	index := make(map[int64]int, len(problems))
	ids := make([]int64, len(problems))
	for i, p := range problems {
		index[p.ID] = i
		ids[i] = p.ID
	}

	stmt, args, err := sqlBuilder.
		Select("id", "problem_id", "option_text", "order_index", "is_correct").
		From("problem_options").
		Where(squirrel.Eq{"problem_id": ids}).
		OrderBy("problem_id ASC", "order_index ASC", "id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to query options: %v", err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.ProblemID, &o.OptionText, &o.OrderIndex, &o.IsCorrect); err != nil {
			log.Error("failed to scan option row: %v", err)
			return err
		}
		i := index[o.ProblemID]
		problems[i].Options = append(problems[i].Options, o)
	}
	return rows.Err()
}

func (r *lessonRepository) CountProblems(ctx context.Context, lessonID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems WHERE lesson_id = ?`, lessonID).Scan(&count); err != nil {
		log.Error("failed to count problems: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *lessonRepository) CountActive(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons WHERE is_active = 1`).Scan(&count); err != nil {
		log.Error("failed to count active lessons: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *lessonRepository) Insert(ctx context.Context, l models.Lesson, problems []models.Problem) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("inserting lesson: title=%s, problems=%d", l.Title, len(problems))

	var lessonID int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO lessons (title, description, order_index, is_active)
VALUES (?, ?, ?, ?)
`, l.Title, l.Description, l.OrderIndex, l.IsActive)
		if err != nil {
			log.Error("failed to insert lesson: %v", err)
			return err
		}
		if lessonID, err = res.LastInsertId(); err != nil {
			return err
		}

		for _, p := range problems {
			problemType := p.ProblemType
			if problemType == "" {
				problemType = "options"
			}
			res, err := tx.ExecContext(ctx, `
INSERT INTO problems (lesson_id, question, problem_type, xp_value, order_index)
VALUES (?, ?, ?, ?, ?)
`, lessonID, p.Question, problemType, p.XPValue, p.OrderIndex)
			if err != nil {
				log.Error("failed to insert problem: %v", err)
				return err
			}
			problemID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for _, o := range p.Options {
				if _, err := tx.ExecContext(ctx, `
INSERT INTO problem_options (problem_id, option_text, order_index, is_correct)
VALUES (?, ?, ?, ?)
`, problemID, o.OptionText, o.OrderIndex, o.IsCorrect); err != nil {
					log.Error("failed to insert option: %v", err)
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Debug("lesson inserted: id=%d", lessonID)
	return lessonID, nil
}
