// cmd/tools/seed-candidates/main.go
//
// Loads a JSON fixture of candidates, work history and skills into postgres
// for local development. Candidates without ids get fresh uuids.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type fixture struct {
	Candidates []fixtureCandidate `json:"candidates"`
}

type fixtureCandidate struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	Location   string              `json:"location"`
	Experience []fixtureExperience `json:"experience"`
	Skills     []fixtureSkill      `json:"skills"`
}

type fixtureExperience struct {
	Company     string `json:"company"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type fixtureSkill struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Level    string  `json:"level"`
	Years    float64 `json:"years"`
}

func main() {
	var (
		file = flag.String("file", "fixtures/candidates.json", "path to the fixture file")
		dsn  = flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	)
	flag.Parse()

	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "missing -dsn (or DATABASE_URL)")
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read fixture: %v\n", err)
		os.Exit(1)
	}

	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		fmt.Fprintf(os.Stderr, "parse fixture: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open postgres: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	seeded := 0
	for _, c := range fx.Candidates {
		if err := seedCandidate(ctx, db, c); err != nil {
			fmt.Fprintf(os.Stderr, "seed %s: %v\n", c.Name, err)
			os.Exit(1)
		}
		seeded++
	}

	fmt.Printf("seeded %d candidates from %s\n", seeded, *file)
}

func seedCandidate(ctx context.Context, db *sql.DB, c fixtureCandidate) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	totalMonths, err := totalExperienceMonths(c.Experience)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO candidates (id, name, email, phone, location, total_experience_months)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			total_experience_months = EXCLUDED.total_experience_months`,
		c.ID, c.Name, c.Email, c.Phone, c.Location, totalMonths)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM work_experiences WHERE candidate_id = $1`, c.ID); err != nil {
		return err
	}
	for _, w := range c.Experience {
		var end interface{}
		if w.EndDate != "" {
			end = w.EndDate
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO work_experiences (candidate_id, company, department, position, start_date, end_date, description)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''))`,
			c.ID, w.Company, w.Department, w.Position, w.StartDate, end, w.Description)
		if err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM candidate_skills WHERE candidate_id = $1`, c.ID); err != nil {
		return err
	}
	for _, s := range c.Skills {
		var skillID string
		err = tx.QueryRowContext(ctx, `
			INSERT INTO skills (id, name, category)
			VALUES ($1, $2, NULLIF($3, ''))
			ON CONFLICT (name) DO UPDATE SET category = COALESCE(EXCLUDED.category, skills.category)
			RETURNING id`,
			uuid.New().String(), s.Name, s.Category).Scan(&skillID)
		if err != nil {
			return fmt.Errorf("upsert skill %s: %w", s.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO candidate_skills (candidate_id, skill_id, level, years)
			VALUES ($1, $2, $3, $4)`,
			c.ID, skillID, s.Level, s.Years)
		if err != nil {
			return fmt.Errorf("insert candidate skill: %w", err)
		}
	}

	return tx.Commit()
}

// totalExperienceMonths mirrors the engine's interval merge so the stored
// prefilter column and the derived profile value agree.
func totalExperienceMonths(entries []fixtureExperience) (int, error) {
	type span struct{ start, end time.Time }
	now := time.Now()

	spans := make([]span, 0, len(entries))
	for _, w := range entries {
		start, err := time.Parse("2006-01-02", w.StartDate)
		if err != nil {
			return 0, fmt.Errorf("bad start_date %q: %w", w.StartDate, err)
		}
		end := now
		if w.EndDate != "" {
			end, err = time.Parse("2006-01-02", w.EndDate)
			if err != nil {
				return 0, fmt.Errorf("bad end_date %q: %w", w.EndDate, err)
			}
		}
		if end.After(start) {
			spans = append(spans, span{start, end})
		}
	}
	if len(spans) == 0 {
		return 0, nil
	}

	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].start.Before(spans[j-1].start); j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}

	months := 0
	cur := spans[0]
	for _, s := range spans[1:] {
		if !s.start.After(cur.end) {
			if s.end.After(cur.end) {
				cur.end = s.end
			}
			continue
		}
		months += monthsBetween(cur.start, cur.end)
		cur = s
	}
	months += monthsBetween(cur.start, cur.end)
	return months, nil
}

func monthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
