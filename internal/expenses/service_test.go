package expenses

import (
	"context"
	"testing"
	"time"

	"theaterbook/internal/branches"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows     map[uuid.UUID]*Expense
	lastFrom time.Time
	lastTo   time.Time
}

func (m *memRepo) Create(_ context.Context, e *Expense) error {
	e.ID = uuid.New()
	m.rows[e.ID] = e
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Expense, error) {
	e, ok := m.rows[id]
	if !ok {
		return nil, ErrExpenseNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memRepo) ListByBranch(_ context.Context, branchID uuid.UUID, from, to time.Time) ([]Expense, error) {
	m.lastFrom, m.lastTo = from, to
	var out []Expense
	for _, e := range m.rows {
		if e.BranchID == branchID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, e *Expense) error {
	m.rows[e.ID] = e
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return ErrExpenseNotFound
	}
	delete(m.rows, id)
	return nil
}

type refs struct {
	branch  uuid.UUID
	theater uuid.UUID
}

func (r refs) branchFind(_ context.Context, id uuid.UUID) (*branches.Branch, error) {
	if id != r.branch {
		return nil, branches.ErrBranchNotFound
	}
	return &branches.Branch{ID: id}, nil
}

type branchFunc func(context.Context, uuid.UUID) (*branches.Branch, error)

func (f branchFunc) FindByID(ctx context.Context, id uuid.UUID) (*branches.Branch, error) {
	return f(ctx, id)
}

type theaterFunc func(context.Context, uuid.UUID) (*theaters.Theater, error)

func (f theaterFunc) FindByID(ctx context.Context, id uuid.UUID) (*theaters.Theater, error) {
	return f(ctx, id)
}

func setup() (Service, *memRepo, refs) {
	r := refs{branch: uuid.New(), theater: uuid.New()}
	repo := &memRepo{rows: map[uuid.UUID]*Expense{}}
	svc := NewService(repo, branchFunc(r.branchFind), theaterFunc(func(_ context.Context, id uuid.UUID) (*theaters.Theater, error) {
		if id != r.theater {
			return nil, theaters.ErrTheaterNotFound
		}
		return &theaters.Theater{ID: id}, nil
	}), timewindow.New("Asia/Kolkata", time.Hour))
	return svc, repo, r
}

func TestCreateChecksReferences(t *testing.T) {
	svc, _, r := setup()
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateExpenseRequest{Name: " Flowers ", Amount: 450, Category: "decor", BranchID: r.branch.String(), TheaterID: r.theater.String()})
	require.NoError(t, err)
	assert.Equal(t, "Flowers", e.Name)

	_, err = svc.Create(ctx, CreateExpenseRequest{Name: "x", Category: "c", BranchID: uuid.NewString(), TheaterID: r.theater.String()})
	assert.ErrorIs(t, err, branches.ErrBranchNotFound)

	_, err = svc.Create(ctx, CreateExpenseRequest{Name: "x", Category: "c", BranchID: r.branch.String(), TheaterID: uuid.NewString()})
	assert.ErrorIs(t, err, theaters.ErrTheaterNotFound)

	_, err = svc.Create(ctx, CreateExpenseRequest{Name: "x", Category: "c", Amount: -1, BranchID: r.branch.String(), TheaterID: r.theater.String()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByBranchRangeCoversWholeDays(t *testing.T) {
	svc, repo, r := setup()
	ctx := context.Background()

	_, err := svc.ListByBranch(ctx, r.branch.String(), RangeQuery{From: "2025-03-01", To: "2025-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T00:00:00+05:30", repo.lastFrom.Format(time.RFC3339))
	assert.True(t, repo.lastTo.Before(time.Date(2025, 4, 1, 0, 0, 0, 0, repo.lastFrom.Location())))
	assert.Equal(t, 31, repo.lastTo.Day())

	_, err = svc.ListByBranch(ctx, r.branch.String(), RangeQuery{From: "2025-03-31", To: "2025-03-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListByBranch(ctx, r.branch.String(), RangeQuery{From: "2025-03-01"})
	require.NoError(t, err)
	assert.True(t, repo.lastFrom.IsZero())
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _, r := setup()
	ctx := context.Background()
	e, err := svc.Create(ctx, CreateExpenseRequest{Name: "Cake", Amount: 900, Category: "food", BranchID: r.branch.String(), TheaterID: r.theater.String()})
	require.NoError(t, err)

	amount := 1200.0
	updated, err := svc.Update(ctx, e.ID.String(), UpdateExpenseRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, updated.Amount)

	require.NoError(t, svc.Delete(ctx, e.ID.String()))
	_, err = svc.Get(ctx, e.ID.String())
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}
