package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophquiz/internal/client/client"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. It does
// not log in.
func (a *App) Register(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	nickname, err := getSimpleText(a.reader, "Enter nickname", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	msg, err := a.api.Register(ctx, client.RegisterRequest{
		FullName: fullName,
		Email:    email,
		Nickname: nickname,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	nickname, err := getSimpleText(a.reader, "Enter nickname", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	if err := a.api.Login(ctx, nickname, string(password)); err != nil {
		if errors.Is(err, client.ErrRateLimited) {
			return fmt.Errorf("too many attempts, wait a bit: %w", err)
		}
		return err
	}

	a.nickname = nickname
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.nickname = ""
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status asks the server whether the session is still alive and syncs the
// local view with the answer.
func (a *App) Status(ctx context.Context) error {
	in, err := a.api.LoggedIn(ctx)
	if err != nil {
		return err
	}
	if !in {
		a.nickname = ""
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.nickname)
	return nil
}

func (a *App) Courses(ctx context.Context) error {
	courses, err := a.api.Courses(ctx)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		fmt.Fprintln(a.out, "No courses available")
		return nil
	}

	for _, subject := range sortedKeys(courses) {
		c := courses[subject]
		fmt.Fprintf(a.out, "%s %-12s %s (%s)\n", c.Emoji, subject, c.Title, c.Professor)
		if c.Description != "" {
			fmt.Fprintf(a.out, "    %s\n", c.Description)
		}
		if c.PDFLink != nil {
			fmt.Fprintf(a.out, "    material: %s\n", *c.PDFLink)
		}
	}
	return nil
}

// Me prints the profile and best scores.
func (a *App) Me(ctx context.Context) error {
	d, err := a.api.Data(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.nickname = ""
		}
		return err
	}

	fmt.Fprintf(a.out, "%s <%s> @%s\n", d.User.FullName, d.User.Email, d.User.Nickname)
	if len(d.User.Progress) == 0 {
		fmt.Fprintln(a.out, "No scores yet")
		return nil
	}
	for _, subject := range sortedKeys(d.User.Progress) {
		fmt.Fprintf(a.out, "  %-12s %d\n", subject, d.User.Progress[subject])
	}
	return nil
}

func (a *App) Score(ctx context.Context, subject string, score int) error {
	if err := a.api.SubmitScore(ctx, subject, score); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Score %d for %s submitted\n", score, subject)
	return nil
}

// quizQuestion is the question shape the CLI knows how to ask. Questions
// in any other shape are shown as raw JSON and not graded.
type quizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz asks every question of subject, grades the ones that carry an
// answer and submits the percentage of correct answers as the score.
func (a *App) Quiz(ctx context.Context, subject string) error {
	questions, err := a.api.Quiz(ctx, subject)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "This quiz has no questions yet")
		return nil
	}

	var graded, correct int
	for i, raw := range questions {
		var q quizQuestion
		if err := json.Unmarshal(raw, &q); err != nil || q.Question == "" {
			fmt.Fprintf(a.out, "%d. %s\n", i+1, string(raw))
			continue
		}

		prompt := fmt.Sprintf("%d. %s", i+1, q.Question)
		for j, opt := range q.Options {
			prompt += fmt.Sprintf("\n   %c) %s", 'a'+j, opt)
		}
		answer, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if q.Answer == "" {
			continue
		}

		graded++
		if answerMatches(q, answer) {
			correct++
			fmt.Fprintln(a.out, "Correct!")
		} else {
			fmt.Fprintf(a.out, "Wrong, the answer is %s\n", q.Answer)
		}
	}

	if graded == 0 {
		return nil
	}

	score := correct * 100 / graded
	fmt.Fprintf(a.out, "You got %d of %d right (%d%%)\n", correct, graded, score)
	return a.Score(ctx, subject, score)
}

// answerMatches accepts the answer text or, for multiple choice, the
// option letter.
func answerMatches(q quizQuestion, answer string) bool {
	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, q.Answer) {
		return true
	}
	if len(answer) == 1 {
		idx := int(strings.ToLower(answer)[0] - 'a')
		if idx >= 0 && idx < len(q.Options) {
			return strings.EqualFold(q.Options[idx], q.Answer)
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
