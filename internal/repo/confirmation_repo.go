package repo

import (
	"context"
	"database/sql"
	"strings"
	"time"

	dom "github.com/faithingod1/parish-record/internal/domain"
)

// ConfirmationRepo provides confirmation record persistence.
type ConfirmationRepo interface {
	Create(ctx context.Context, c dom.Confirmation) (dom.Confirmation, error)
	GetByID(ctx context.Context, id int64) (dom.Confirmation, error)
	Update(ctx context.Context, id int64, c dom.Confirmation) (dom.Confirmation, error)
	Delete(ctx context.Context, id int64) error
	// Search matches q as a case-insensitive substring of full_name,
	// church_name, priest_name or the confirmation date formatted YYYY-MM-DD.
	// An empty q returns every record. Ordered confirmation_date DESC, then
	// insertion order.
	Search(ctx context.Context, q string) ([]dom.Confirmation, error)
	// ExportAll returns every record ordered by id ASC for deterministic export.
	ExportAll(ctx context.Context) ([]dom.Confirmation, error)
	Count(ctx context.Context) (int64, error)
}

const confirmationColumns = `id, full_name, date_of_birth, confirmation_date,
	church_name, priest_name, sponsor_name, remarks, created_at`

// SQLiteConfirmationRepo implements ConfirmationRepo over SQLite. The two
// date fields are stored as YYYY-MM-DD text so the date column can be
// substring-searched like the name columns.
type SQLiteConfirmationRepo struct {
	db *sql.DB
}

// NewSQLiteConfirmationRepo returns a new SQLiteConfirmationRepo.
func NewSQLiteConfirmationRepo(db *sql.DB) *SQLiteConfirmationRepo {
	return &SQLiteConfirmationRepo{db: db}
}

func (r *SQLiteConfirmationRepo) Create(ctx context.Context, c dom.Confirmation) (dom.Confirmation, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO confirmations (full_name, date_of_birth, confirmation_date,
			church_name, priest_name, sponsor_name, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+confirmationColumns,
		c.FullName,
		c.DateOfBirth.Format(dom.DateFormat),
		c.ConfirmationDate.Format(dom.DateFormat),
		c.ChurchName, c.PriestName, c.SponsorName, c.Remarks, toMillis(time.Now()),
	)
	return scanConfirmation(row)
}

func (r *SQLiteConfirmationRepo) GetByID(ctx context.Context, id int64) (dom.Confirmation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+confirmationColumns+` FROM confirmations WHERE id = ?`, id)
	return scanConfirmation(row)
}

// Update replaces all mutable fields in a single statement; id and
// created_at stay untouched. sql.ErrNoRows if the record does not exist.
func (r *SQLiteConfirmationRepo) Update(ctx context.Context, id int64, c dom.Confirmation) (dom.Confirmation, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE confirmations
		SET full_name = ?, date_of_birth = ?, confirmation_date = ?,
			church_name = ?, priest_name = ?, sponsor_name = ?, remarks = ?
		WHERE id = ?
		RETURNING `+confirmationColumns,
		c.FullName,
		c.DateOfBirth.Format(dom.DateFormat),
		c.ConfirmationDate.Format(dom.DateFormat),
		c.ChurchName, c.PriestName, c.SponsorName, c.Remarks, id,
	)
	return scanConfirmation(row)
}

// Delete removes the record for good. sql.ErrNoRows if it does not exist.
func (r *SQLiteConfirmationRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM confirmations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteConfirmationRepo) Search(ctx context.Context, q string) ([]dom.Confirmation, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		rows, err := r.db.QueryContext(ctx, `
			SELECT `+confirmationColumns+` FROM confirmations
			ORDER BY confirmation_date DESC, id ASC`)
		if err != nil {
			return nil, err
		}
		return scanConfirmations(rows)
	}
	needle := strings.ToLower(q)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+confirmationColumns+` FROM confirmations
		WHERE instr(lower(full_name), ?) > 0
		   OR instr(lower(church_name), ?) > 0
		   OR instr(lower(priest_name), ?) > 0
		   OR instr(confirmation_date, ?) > 0
		ORDER BY confirmation_date DESC, id ASC`,
		needle, needle, needle, needle)
	if err != nil {
		return nil, err
	}
	return scanConfirmations(rows)
}

func (r *SQLiteConfirmationRepo) ExportAll(ctx context.Context) ([]dom.Confirmation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+confirmationColumns+` FROM confirmations ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return scanConfirmations(rows)
}

func (r *SQLiteConfirmationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM confirmations`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfirmation(row rowScanner) (dom.Confirmation, error) {
	var (
		c         dom.Confirmation
		dob, cd   string
		createdAt int64
	)
	err := row.Scan(&c.ID, &c.FullName, &dob, &cd,
		&c.ChurchName, &c.PriestName, &c.SponsorName, &c.Remarks, &createdAt)
	if err != nil {
		return dom.Confirmation{}, err
	}
	if c.DateOfBirth, err = time.Parse(dom.DateFormat, dob); err != nil {
		return dom.Confirmation{}, err
	}
	if c.ConfirmationDate, err = time.Parse(dom.DateFormat, cd); err != nil {
		return dom.Confirmation{}, err
	}
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

// Timestamps are stored as unix milliseconds.
func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func scanConfirmations(rows *sql.Rows) ([]dom.Confirmation, error) {
	defer rows.Close()
	var list []dom.Confirmation
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
