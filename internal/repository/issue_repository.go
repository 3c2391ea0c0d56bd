package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-report/internal/domain"
)

// IssueFilter captures listing parameters. All fields are optional and
// conjunctive; a zero filter matches every issue.
type IssueFilter struct {
	Category    *string
	Status      *domain.IssueStatus
	Priority    *domain.IssuePriority
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// EscalationResult reports a promotion performed by Escalate.
type EscalationResult struct {
	PrevStatus domain.IssueStatus
	Department string
}

// IssueRepository encapsulates issue persistence. List returns issues
// most-recent-first. The store is the single owner of canonical records;
// services mutate only through Update and Escalate.
//
// Escalate promotes one issue to ASSIGNED, assigning the given department
// only when none is set. The resolved-status check and the mutation are a
// single atomic step in the store, so an issue resolved after a sweep took
// its snapshot is never pulled back. A nil result with a nil error means the
// issue was skipped because it is resolved or no longer exists.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	Escalate(ctx context.Context, id, department string, now time.Time) (*EscalationResult, error)
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates the Postgres-backed repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (id, user_id, category, description, priority, emergency, status,
                            department, latitude, longitude, media_kind, media_data,
                            voice_kind, voice_data, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	lat, lng := locationColumns(issue.Location)
	mediaKind, mediaData := mediaColumns(issue.Media)
	voiceKind, voiceData := mediaColumns(issue.VoiceNote)
	_, err := r.pool.Exec(ctx, query,
		issue.ID,
		issue.UserID,
		issue.Category,
		issue.Description,
		issue.Priority,
		issue.Emergency,
		issue.Status,
		issue.Department,
		lat,
		lng,
		mediaKind,
		mediaData,
		voiceKind,
		voiceData,
		issue.CreatedAt,
		issue.UpdatedAt,
	)
	return err
}

func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET status=$1, department=$2, priority=$3, updated_at=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		issue.Status,
		issue.Department,
		issue.Priority,
		issue.UpdatedAt,
		issue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueRepository) Escalate(ctx context.Context, id, department string, now time.Time) (*EscalationResult, error) {
	// Self-join so RETURNING can expose the pre-update status. The status
	// guard in WHERE makes the check-and-set a single statement.
	const query = `
        UPDATE issues SET status=$2, department=COALESCE(issues.department,$3), updated_at=$4
        FROM issues prev
        WHERE issues.id=$1 AND prev.id=issues.id AND issues.status <> $5
        RETURNING prev.status, issues.department`
	row := r.pool.QueryRow(ctx, query, id,
		domain.IssueStatusAssigned, department, now, domain.IssueStatusResolved)
	var result EscalationResult
	if err := row.Scan(&result.PrevStatus, &result.Department); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

const issueColumns = `id, user_id, category, description, priority, emergency, status,
               department, latitude, longitude, media_kind, media_data,
               voice_kind, voice_data, created_at, updated_at`

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE id=$1`, issueColumns)
	row := r.pool.QueryRow(ctx, query, id)
	issue, err := scanIssue(row)
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (r *issueRepository) List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s ORDER BY created_at DESC`,
		issueColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (*domain.Issue, error) {
	var (
		issue                domain.Issue
		lat, lng             *float64
		mediaKind, mediaData *string
		voiceKind, voiceData *string
	)
	if err := row.Scan(
		&issue.ID,
		&issue.UserID,
		&issue.Category,
		&issue.Description,
		&issue.Priority,
		&issue.Emergency,
		&issue.Status,
		&issue.Department,
		&lat,
		&lng,
		&mediaKind,
		&mediaData,
		&voiceKind,
		&voiceData,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		issue.Location = &domain.Location{Latitude: *lat, Longitude: *lng}
	}
	issue.Media = mediaFromColumns(mediaKind, mediaData)
	issue.VoiceNote = mediaFromColumns(voiceKind, voiceData)
	return &issue, nil
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *issue)
	}
	return result, rows.Err()
}

func locationColumns(loc *domain.Location) (lat, lng *float64) {
	if loc == nil {
		return nil, nil
	}
	return &loc.Latitude, &loc.Longitude
}

func mediaColumns(m *domain.Media) (kind, data *string) {
	if m == nil {
		return nil, nil
	}
	k := string(m.Kind)
	return &k, &m.Data
}

func mediaFromColumns(kind, data *string) *domain.Media {
	if kind == nil || data == nil {
		return nil
	}
	return &domain.Media{Kind: domain.MediaKind(*kind), Data: *data}
}
