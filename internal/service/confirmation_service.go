package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/faithingod1/parish-record/internal/cache"
	dom "github.com/faithingod1/parish-record/internal/domain"
	"github.com/faithingod1/parish-record/internal/repo"
)

var ErrNotFound = errors.New("not found")

// ValidationError names the offending field. The input is discarded whole;
// nothing is persisted when any field fails.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConfirmationInput is the raw form input for create and update. Dates are
// strings here; the service owns parsing and validation.
type ConfirmationInput struct {
	FullName         string
	DateOfBirth      string
	ConfirmationDate string
	ChurchName       string
	PriestName       string
	SponsorName      string
	Remarks          string
}

// ConfirmationService validates input and orchestrates the record store.
type ConfirmationService struct {
	repo  repo.ConfirmationRepo
	cache *cache.ConfirmationCache
	sf    singleflight.Group
}

// NewConfirmationService creates a ConfirmationService. If c is nil, caching
// is disabled.
func NewConfirmationService(r repo.ConfirmationRepo, c *cache.ConfirmationCache) *ConfirmationService {
	return &ConfirmationService{repo: r, cache: c}
}

func (s *ConfirmationService) Create(ctx context.Context, in ConfirmationInput) (dom.Confirmation, error) {
	rec, err := validateInput(in)
	if err != nil {
		return dom.Confirmation{}, err
	}
	out, err := s.repo.Create(ctx, rec)
	if err != nil {
		return dom.Confirmation{}, err
	}
	s.invalidateCache(ctx)
	return out, nil
}

func (s *ConfirmationService) GetByID(ctx context.Context, id int64) (dom.Confirmation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Confirmation{}, ErrNotFound
		}
		return dom.Confirmation{}, err
	}
	return c, nil
}

// Update replaces every mutable field after full validation; id and
// created_at are untouched.
func (s *ConfirmationService) Update(ctx context.Context, id int64, in ConfirmationInput) (dom.Confirmation, error) {
	rec, err := validateInput(in)
	if err != nil {
		return dom.Confirmation{}, err
	}
	out, err := s.repo.Update(ctx, id, rec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Confirmation{}, ErrNotFound
		}
		return dom.Confirmation{}, err
	}
	s.invalidateCache(ctx)
	return out, nil
}

// Delete removes the record irreversibly.
func (s *ConfirmationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// Search returns matching records, date descending. An empty or whitespace
// query returns everything.
func (s *ConfirmationService) Search(ctx context.Context, q string) ([]dom.Confirmation, error) {
	q = strings.TrimSpace(q)
	if s.cache != nil {
		key := "search:" + strings.ToLower(q)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSearch(ctx, q); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Search(ctx, q)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, q, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Confirmation), nil
	}
	return s.repo.Search(ctx, q)
}

// ExportAll returns every record ordered by id for deterministic export.
// Always read from the store: exports are backups, never stale data.
func (s *ConfirmationService) ExportAll(ctx context.Context) ([]dom.Confirmation, error) {
	return s.repo.ExportAll(ctx)
}

func (s *ConfirmationService) Count(ctx context.Context) (int64, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("count", func() (interface{}, error) {
			if n, ok, err := s.cache.GetCount(ctx); err == nil && ok {
				return n, nil
			}
			n, err := s.repo.Count(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetCount(ctx, n)
			return n, nil
		})
		if err != nil {
			return 0, err
		}
		return v.(int64), nil
	}
	return s.repo.Count(ctx)
}

func (s *ConfirmationService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}

// validateInput trims every field, checks the required ones and parses the
// two dates. The first offending field wins.
func validateInput(in ConfirmationInput) (dom.Confirmation, error) {
	rec := dom.Confirmation{
		FullName:    strings.TrimSpace(in.FullName),
		ChurchName:  strings.TrimSpace(in.ChurchName),
		PriestName:  strings.TrimSpace(in.PriestName),
		SponsorName: strings.TrimSpace(in.SponsorName),
		Remarks:     strings.TrimSpace(in.Remarks),
	}
	if rec.FullName == "" {
		return dom.Confirmation{}, &ValidationError{Field: "full_name", Reason: "is required"}
	}
	var err error
	if rec.DateOfBirth, err = parseDate(in.DateOfBirth, "date_of_birth"); err != nil {
		return dom.Confirmation{}, err
	}
	if rec.ConfirmationDate, err = parseDate(in.ConfirmationDate, "confirmation_date"); err != nil {
		return dom.Confirmation{}, err
	}
	if rec.ChurchName == "" {
		return dom.Confirmation{}, &ValidationError{Field: "church_name", Reason: "is required"}
	}
	if rec.PriestName == "" {
		return dom.Confirmation{}, &ValidationError{Field: "priest_name", Reason: "is required"}
	}
	return rec, nil
}

// parseDate accepts exactly YYYY-MM-DD and real calendar dates; anything
// else is a ValidationError naming the field.
func parseDate(value, field string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, &ValidationError{Field: field, Reason: "is required"}
	}
	t, err := time.Parse(dom.DateFormat, s)
	// time.Parse tolerates unpadded months and days; round-trip to enforce
	// the exact YYYY-MM-DD form.
	if err != nil || t.Format(dom.DateFormat) != s {
		return time.Time{}, &ValidationError{Field: field, Reason: "must be a valid date in YYYY-MM-DD format"}
	}
	return t, nil
}
