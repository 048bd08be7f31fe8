// Package scoring grades a batch of answers against a snapshot of catalog data.
package scoring

import (
	"github.com/vytor/ezexam/internal/errors"
	"github.com/vytor/ezexam/internal/models"
)

// Score grades answers for one lesson. problems is the catalog snapshot for
// that lesson (at least every problem the answers reference, with options).
//
// A problem id outside the snapshot, or an option id that does not belong to
// the referenced problem, fails the whole batch; every offending id is listed.
// Score has no side effects.
func Score(lessonID int64, problems []models.Problem, answers []models.Answer) ([]models.AnswerResult, error) {
	byID := make(map[int64]models.Problem, len(problems))
	for _, p := range problems {
		if p.LessonID != lessonID {
			continue
		}
		byID[p.ID] = p
	}

	var badProblems, badOptions []int64
	seenProblem := map[int64]bool{}
	seenOption := map[int64]bool{}

	results := make([]models.AnswerResult, 0, len(answers))
	for _, a := range answers {
		problem, ok := byID[a.ProblemID]
		if !ok {
			if !seenProblem[a.ProblemID] {
				seenProblem[a.ProblemID] = true
				badProblems = append(badProblems, a.ProblemID)
			}
			continue
		}

		option, ok := findOption(problem, a.OptionID)
		if !ok {
			if !seenOption[a.OptionID] {
				seenOption[a.OptionID] = true
				badOptions = append(badOptions, a.OptionID)
			}
			continue
		}

		results = append(results, grade(problem, option))
	}

	if len(badProblems) > 0 || len(badOptions) > 0 {
		var refs []errors.InvalidReference
		if len(badProblems) > 0 {
			refs = append(refs, errors.InvalidReference{Kind: "problem", IDs: badProblems})
		}
		if len(badOptions) > 0 {
			refs = append(refs, errors.InvalidReference{Kind: "option", IDs: badOptions})
		}
		return nil, errors.NewInvalidReferenceError(refs...)
	}

	return results, nil
}

// TotalXP sums the XP of a set of results.
func TotalXP(results []models.AnswerResult) int {
	total := 0
	for _, r := range results {
		total += r.XPEarned
	}
	return total
}

func findOption(p models.Problem, optionID int64) (models.Option, bool) {
	for _, o := range p.Options {
		if o.ID == optionID && o.ProblemID == p.ID {
			return o, true
		}
	}
	return models.Option{}, false
}

func grade(p models.Problem, o models.Option) models.AnswerResult {
	xp := 0
	if o.IsCorrect {
		xp = p.XPValue
	}
	return models.AnswerResult{
		ProblemID: p.ID,
		IsCorrect: o.IsCorrect,
		XPEarned:  xp,
	}
}
