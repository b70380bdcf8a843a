package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dom "github.com/faithingod1/parish-record/internal/domain"
)

// fakeConfirmationRepo implements repo.ConfirmationRepo in memory and
// records which operations ran.
type fakeConfirmationRepo struct {
	records map[int64]dom.Confirmation
	nextID  int64

	createCalls int
	searchLast  string
}

func newFakeConfirmationRepo() *fakeConfirmationRepo {
	return &fakeConfirmationRepo{records: make(map[int64]dom.Confirmation), nextID: 1}
}

func (f *fakeConfirmationRepo) Create(ctx context.Context, c dom.Confirmation) (dom.Confirmation, error) {
	f.createCalls++
	c.ID = f.nextID
	c.CreatedAt = time.Now().UTC()
	f.nextID++
	f.records[c.ID] = c
	return c, nil
}

func (f *fakeConfirmationRepo) GetByID(ctx context.Context, id int64) (dom.Confirmation, error) {
	c, ok := f.records[id]
	if !ok {
		return dom.Confirmation{}, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeConfirmationRepo) Update(ctx context.Context, id int64, c dom.Confirmation) (dom.Confirmation, error) {
	old, ok := f.records[id]
	if !ok {
		return dom.Confirmation{}, sql.ErrNoRows
	}
	c.ID = old.ID
	c.CreatedAt = old.CreatedAt
	f.records[id] = c
	return c, nil
}

func (f *fakeConfirmationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.records[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.records, id)
	return nil
}

func (f *fakeConfirmationRepo) Search(ctx context.Context, q string) ([]dom.Confirmation, error) {
	f.searchLast = q
	var out []dom.Confirmation
	for _, c := range f.records {
		if q == "" || strings.Contains(strings.ToLower(c.FullName), strings.ToLower(q)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConfirmationRepo) ExportAll(ctx context.Context) ([]dom.Confirmation, error) {
	var out []dom.Confirmation
	for _, c := range f.records {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeConfirmationRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func validInput() ConfirmationInput {
	return ConfirmationInput{
		FullName:         "Jane Doe",
		DateOfBirth:      "2010-01-01",
		ConfirmationDate: "2023-05-01",
		ChurchName:       "St. Mary",
		PriestName:       "Fr. John",
	}
}

func TestCreateTrimsAndAssigns(t *testing.T) {
	ctx := context.Background()
	repo := newFakeConfirmationRepo()
	svc := NewConfirmationService(repo, nil)

	in := validInput()
	in.FullName = "  Jane Doe  "
	in.SponsorName = " Mary Smith "

	rec, err := svc.Create(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", rec.FullName)
	require.Equal(t, "Mary Smith", rec.SponsorName)
	require.NotZero(t, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())
	require.Equal(t, "2023-05-01", rec.ConfirmationDate.Format(dom.DateFormat))

	got, err := svc.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestCreateRequiredFields(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		field string
		mut   func(*ConfirmationInput)
	}{
		{"full_name", func(in *ConfirmationInput) { in.FullName = "   " }},
		{"date_of_birth", func(in *ConfirmationInput) { in.DateOfBirth = "" }},
		{"confirmation_date", func(in *ConfirmationInput) { in.ConfirmationDate = " " }},
		{"church_name", func(in *ConfirmationInput) { in.ChurchName = "" }},
		{"priest_name", func(in *ConfirmationInput) { in.PriestName = "\t" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			repo := newFakeConfirmationRepo()
			svc := NewConfirmationService(repo, nil)

			in := validInput()
			tc.mut(&in)

			_, err := svc.Create(ctx, in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
			require.Zero(t, repo.createCalls, "nothing may be persisted on a validation failure")
		})
	}
}

func TestCreateRejectsBadDates(t *testing.T) {
	ctx := context.Background()

	for _, bad := range []string{"2023-13-01", "2023-02-30", "01/05/2023", "2023-5-1", "yesterday"} {
		t.Run(bad, func(t *testing.T) {
			repo := newFakeConfirmationRepo()
			svc := NewConfirmationService(repo, nil)

			in := validInput()
			in.ConfirmationDate = bad

			_, err := svc.Create(ctx, in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, "confirmation_date", ve.Field)
			require.Zero(t, repo.createCalls)
		})
	}
}

func TestUpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := newFakeConfirmationRepo()
	svc := NewConfirmationService(repo, nil)

	rec, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.FullName = "Jane A. Doe"
	in.Remarks = "updated"

	updated, err := svc.Update(ctx, rec.ID, in)
	require.NoError(t, err)
	require.Equal(t, rec.ID, updated.ID)
	require.Equal(t, rec.CreatedAt, updated.CreatedAt)
	require.Equal(t, "Jane A. Doe", updated.FullName)
	require.Equal(t, "updated", updated.Remarks)

	got, err := svc.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, updated, got)
}

func TestUpdateValidatesBeforeWrite(t *testing.T) {
	ctx := context.Background()
	repo := newFakeConfirmationRepo()
	svc := NewConfirmationService(repo, nil)

	rec, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.DateOfBirth = "2010-13-01"

	_, err = svc.Update(ctx, rec.ID, in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "date_of_birth", ve.Field)

	got, err := svc.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec, got, "rejected input must not change the record")
}

func TestUpdateNotFound(t *testing.T) {
	svc := NewConfirmationService(newFakeConfirmationRepo(), nil)
	_, err := svc.Update(context.Background(), 42, validInput())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIsIrreversible(t *testing.T) {
	ctx := context.Background()
	svc := NewConfirmationService(newFakeConfirmationRepo(), nil)

	rec, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ID))
	_, err = svc.GetByID(ctx, rec.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, rec.ID), ErrNotFound)
}

func TestSearchTrimsQuery(t *testing.T) {
	ctx := context.Background()
	repo := newFakeConfirmationRepo()
	svc := NewConfirmationService(repo, nil)

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	list, err := svc.Search(ctx, "   ")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "", repo.searchLast, "whitespace-only query reaches the repo trimmed")
}
