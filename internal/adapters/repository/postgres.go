package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/okian/vibecheck/internal/domain/profile"
	"github.com/okian/vibecheck/pkg/metrics"
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

const profileColumns = `id, name, age, bio, photos, interests, personality, taste_preferences, current_vibe, created_at, updated_at`

// PostgresStore persists profiles in the profiles table. Lists go into
// TEXT[] columns and nested records into JSONB.
type PostgresStore struct {
	db   *sql.DB
	opts options
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres opens and pings a database handle for dsn.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %w", ErrUnavailable, err)
	}
	return db, nil
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &PostgresStore{db: db, opts: o}
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, id string) (profile.Profile, error) {
	defer observe("get", time.Now())
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError("get")
		return profile.Profile{}, fmt.Errorf("%w: get %s: %w", ErrUnavailable, id, err)
	}
	return p, nil
}

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	defer observe("create", time.Now())
	cols, err := encodeProfile(p)
	if err != nil {
		return profile.Profile{}, err
	}
	now := s.opts.now().UTC()

	const query = `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING ` + profileColumns

	row := s.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Age, p.Bio,
		pq.Array(cols.photos), pq.Array(cols.interests),
		cols.personality, cols.taste, cols.vibe, now,
	)
	out, err := scanProfile(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return profile.Profile{}, ErrConflict
		}
		metrics.RecordStoreError("create")
		return profile.Profile{}, fmt.Errorf("%w: create %s: %w", ErrUnavailable, p.ID, err)
	}
	return out, nil
}

// Update implements Store.
func (s *PostgresStore) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	defer observe("update", time.Now())
	cols, err := encodeProfile(p)
	if err != nil {
		return profile.Profile{}, err
	}

	const query = `
		UPDATE profiles
		SET name = $2, age = $3, bio = $4, photos = $5, interests = $6,
		    personality = $7, taste_preferences = $8, current_vibe = $9, updated_at = $10
		WHERE id = $1
		RETURNING ` + profileColumns

	row := s.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Age, p.Bio,
		pq.Array(cols.photos), pq.Array(cols.interests),
		cols.personality, cols.taste, cols.vibe, s.opts.now().UTC(),
	)
	out, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError("update")
		return profile.Profile{}, fmt.Errorf("%w: update %s: %w", ErrUnavailable, p.ID, err)
	}
	return out, nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	defer observe("delete", time.Now())
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		metrics.RecordStoreError("delete")
		return fmt.Errorf("%w: delete %s: %w", ErrUnavailable, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrUnavailable, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context, f ListFilter) ([]profile.Profile, error) {
	defer observe("list", time.Now())
	query, args := listQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordStoreError("list")
		return nil, fmt.Errorf("%w: list: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	out := []profile.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list scan: %w", ErrUnavailable, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list rows: %w", ErrUnavailable, err)
	}
	return out, nil
}

// listQuery builds the filtered SELECT with positional arguments.
func listQuery(f ListFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ExcludeID != "" {
		where = append(where, "id <> "+arg(f.ExcludeID))
	}
	if f.MinAge > 0 {
		where = append(where, "age >= "+arg(f.MinAge))
	}
	if f.MaxAge > 0 {
		where = append(where, "age <= "+arg(f.MaxAge))
	}

	var b strings.Builder
	b.WriteString("SELECT " + profileColumns + " FROM profiles")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at, id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	if f.Offset > 0 {
		b.WriteString(" OFFSET " + arg(f.Offset))
	}
	return b.String(), args
}

// encodedColumns holds JSON as strings, since lib/pq sends []byte
// parameters as bytea.
type encodedColumns struct {
	photos      []string
	interests   []string
	personality string
	taste       string
	vibe        any
}

func encodeProfile(p profile.Profile) (encodedColumns, error) {
	c := encodedColumns{
		photos:    nonNil(p.Photos),
		interests: nonNil(p.Interests),
	}
	personality, err := json.Marshal(p.Personality)
	if err != nil {
		return c, fmt.Errorf("encode personality: %w", err)
	}
	taste, err := json.Marshal(p.Taste)
	if err != nil {
		return c, fmt.Errorf("encode taste: %w", err)
	}
	c.personality, c.taste = string(personality), string(taste)
	if p.CurrentVibe != nil {
		vibe, err := json.Marshal(p.CurrentVibe)
		if err != nil {
			return c, fmt.Errorf("encode vibe: %w", err)
		}
		c.vibe = string(vibe)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (profile.Profile, error) {
	var (
		p                  profile.Profile
		photos, interests  pq.StringArray
		personality, taste []byte
		vibe               []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Bio, &photos, &interests,
		&personality, &taste, &vibe, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return profile.Profile{}, err
	}
	p.Photos = []string(photos)
	p.Interests = []string(interests)
	if len(personality) > 0 {
		if err := json.Unmarshal(personality, &p.Personality); err != nil {
			return profile.Profile{}, fmt.Errorf("decode personality: %w", err)
		}
	}
	if len(taste) > 0 {
		if err := json.Unmarshal(taste, &p.Taste); err != nil {
			return profile.Profile{}, fmt.Errorf("decode taste: %w", err)
		}
	}
	if len(vibe) > 0 {
		p.CurrentVibe = &profile.Vibe{}
		if err := json.Unmarshal(vibe, p.CurrentVibe); err != nil {
			return profile.Profile{}, fmt.Errorf("decode vibe: %w", err)
		}
	}
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
