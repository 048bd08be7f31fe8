package catalog

import (
	"context"

	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
)

// Report summarizes one Seed run.
type Report struct {
	LessonsCreated int   `json:"lessons_created"`
	LessonsSkipped int   `json:"lessons_skipped"`
	DemoUserID     int64 `json:"demo_user_id"`
}

// Seed inserts the demo user and every lesson whose title is not stored yet,
// so running it twice is harmless. demoUserID, when positive, overrides the
// id in the document.
func Seed(ctx context.Context, lessons repository.LessonRepository, users repository.UserRepository, c *Catalog, demoUserID int64) (*Report, error) {
	log := logger.FromContext(ctx).WithPrefix("seed")
	report := &Report{}

	if c.DemoUser != nil {
		demo := models.User{ID: c.DemoUser.ID, Username: c.DemoUser.Username}
		if demoUserID > 0 {
			demo.ID = demoUserID
		}
		if c.DemoUser.Email != "" {
			email := c.DemoUser.Email
			demo.Email = &email
		}
		stored, err := users.Ensure(ctx, demo)
		if err != nil {
			return nil, err
		}
		report.DemoUserID = stored.ID
		log.Info("demo user ready: id=%d username=%s", stored.ID, stored.Username)
	}

	for _, l := range c.Lessons {
		existing, err := lessons.GetByTitle(ctx, l.Title)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Debug("lesson %q exists (id=%d), skipping", l.Title, existing.ID)
			report.LessonsSkipped++
			continue
		}

		lesson, problems := toModels(l)
		id, err := lessons.Insert(ctx, lesson, problems)
		if err != nil {
			return nil, err
		}
		log.Info("lesson created: id=%d title=%q problems=%d", id, l.Title, len(problems))
		report.LessonsCreated++
	}
	return report, nil
}

func toModels(l Lesson) (models.Lesson, []models.Problem) {
	lesson := models.Lesson{Title: l.Title, OrderIndex: l.Order, IsActive: !l.Inactive}
	if l.Description != "" {
		desc := l.Description
		lesson.Description = &desc
	}

	problems := make([]models.Problem, len(l.Problems))
	for i, p := range l.Problems {
		problems[i] = models.Problem{
			Question:    p.Question,
			ProblemType: p.Type,
			XPValue:     p.XP,
			OrderIndex:  i + 1,
			Options:     make([]models.Option, len(p.Options)),
		}
		for j, o := range p.Options {
			problems[i].Options[j] = models.Option{OptionText: o.Text, OrderIndex: j + 1, IsCorrect: o.Correct}
		}
	}
	return lesson, problems
}
