// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"talent-engine/internal/common/errors"
	"talent-engine/internal/common/logger"

	"github.com/lib/pq"
)

// PostgresStore reads candidate data from the relational store.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "postgres-store"}),
	}
}

const candidateColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(location, '')`

func (s *PostgresStore) GetCandidate(ctx context.Context, id string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+candidateColumns+`
		FROM candidates WHERE id = $1`, id)

	var c Candidate
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Location); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("candidate", id)
		}
		return nil, errors.Unavailable("candidate lookup failed", err)
	}

	experience, err := s.loadExperience(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	skills, err := s.loadSkills(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	return &Profile{
		Candidate:  c,
		Experience: experience[id],
		Skills:     skills[id],
	}, nil
}

func (s *PostgresStore) QueryCandidates(ctx context.Context, filter Filter) ([]string, error) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	query := `SELECT id FROM candidates c`

	if filter.MinExperienceMonths != nil {
		conditions = append(conditions, "c.total_experience_months >= "+arg(*filter.MinExperienceMonths))
	}
	if filter.MaxExperienceMonths != nil {
		conditions = append(conditions, "c.total_experience_months <= "+arg(*filter.MaxExperienceMonths))
	}
	if len(filter.Locations) > 0 {
		conditions = append(conditions, "LOWER(c.location) = ANY("+arg(pq.Array(lowerAll(filter.Locations)))+")")
	}
	if len(filter.Companies) > 0 {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM work_experiences w WHERE w.candidate_id = c.id AND LOWER(w.company) = ANY("+
				arg(pq.Array(lowerAll(filter.Companies)))+"))")
	}
	if len(filter.Departments) > 0 {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM work_experiences w WHERE w.candidate_id = c.id AND LOWER(w.department) = ANY("+
				arg(pq.Array(lowerAll(filter.Departments)))+"))")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Unavailable("candidate query failed", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Unavailable("candidate query scan failed", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Unavailable("candidate query failed", err)
	}
	return ids, nil
}

func (s *PostgresStore) BatchLoad(ctx context.Context, ids []string) (map[string]*Profile, error) {
	profiles := make(map[string]*Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candidateColumns+`
		FROM candidates WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, errors.Unavailable("candidate batch load failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Location); err != nil {
			return nil, errors.Unavailable("candidate batch scan failed", err)
		}
		profiles[c.ID] = &Profile{Candidate: c}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Unavailable("candidate batch load failed", err)
	}

	loaded := make([]string, 0, len(profiles))
	for id := range profiles {
		loaded = append(loaded, id)
	}

	experience, err := s.loadExperience(ctx, loaded)
	if err != nil {
		return nil, err
	}
	skills, err := s.loadSkills(ctx, loaded)
	if err != nil {
		return nil, err
	}
	for id, p := range profiles {
		p.Experience = experience[id]
		p.Skills = skills[id]
	}

	return profiles, nil
}

func (s *PostgresStore) loadExperience(ctx context.Context, ids []string) (map[string][]WorkExperience, error) {
	out := make(map[string][]WorkExperience, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id, company, COALESCE(department, ''), position,
		       start_date, end_date, COALESCE(description, '')
		FROM work_experiences
		WHERE candidate_id = ANY($1)
		ORDER BY candidate_id, start_date DESC`, pq.Array(ids))
	if err != nil {
		return nil, errors.Unavailable("work history load failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			candidateID string
			w           WorkExperience
			end         sql.NullTime
		)
		if err := rows.Scan(&candidateID, &w.Company, &w.Department, &w.Position,
			&w.StartDate, &end, &w.Description); err != nil {
			return nil, errors.Unavailable("work history scan failed", err)
		}
		if end.Valid {
			t := end.Time
			w.EndDate = &t
		}
		out[candidateID] = append(out[candidateID], w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Unavailable("work history load failed", err)
	}
	return out, nil
}

func (s *PostgresStore) loadSkills(ctx context.Context, ids []string) (map[string][]CandidateSkill, error) {
	out := make(map[string][]CandidateSkill, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cs.candidate_id, s.name, COALESCE(s.category, ''), cs.level, cs.years
		FROM candidate_skills cs
		JOIN skills s ON s.id = cs.skill_id
		WHERE cs.candidate_id = ANY($1)
		ORDER BY cs.candidate_id, s.name`, pq.Array(ids))
	if err != nil {
		return nil, errors.Unavailable("skill load failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			candidateID string
			sk          CandidateSkill
			level       string
		)
		if err := rows.Scan(&candidateID, &sk.Name, &sk.Category, &level, &sk.Years); err != nil {
			return nil, errors.Unavailable("skill scan failed", err)
		}
		sk.Level = ParseSkillLevel(level)
		out[candidateID] = append(out[candidateID], sk)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Unavailable("skill load failed", err)
	}
	return out, nil
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
