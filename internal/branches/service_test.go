package branches

import (
	"context"
	"testing"

	"theaterbook/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows map[uuid.UUID]*Branch
}

func newMemRepo() *memRepo { return &memRepo{rows: map[uuid.UUID]*Branch{}} }

func (m *memRepo) Create(_ context.Context, b *Branch) error {
	b.ID = uuid.New()
	m.rows[b.ID] = b
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Branch, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, ErrBranchNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memRepo) ExistsByNameOrCode(_ context.Context, name, code string, exclude uuid.UUID) (bool, error) {
	for id, b := range m.rows {
		if id != exclude && (b.BranchName == name || b.Code == code) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) List(context.Context) ([]Branch, error) {
	out := make([]Branch, 0, len(m.rows))
	for _, b := range m.rows {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, b *Branch) error {
	m.rows[b.ID] = b
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return ErrBranchNotFound
	}
	delete(m.rows, id)
	return nil
}

func TestBranchCode(t *testing.T) {
	assert.Equal(t, "andheri-west", BranchCode("Andheri West", ""))
	assert.Equal(t, "aw-01", BranchCode("Andheri West", "AW 01"))
}

func TestCreateRejectsDuplicates(t *testing.T) {
	svc := NewService(newMemRepo(), cache.NewNoop())
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBranchRequest{BranchName: "Bandra", Location: "Mumbai"})
	require.NoError(t, err)
	assert.Equal(t, "bandra", b.Code)

	_, err = svc.Create(ctx, CreateBranchRequest{BranchName: "Bandra", Location: "Mumbai"})
	assert.ErrorIs(t, err, ErrBranchExists)
}

func TestUpdateAndDelete(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, cache.NewNoop())
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBranchRequest{BranchName: "Powai", Location: "Mumbai"})
	require.NoError(t, err)

	name := "Powai Lake"
	updated, err := svc.Update(ctx, b.ID.String(), UpdateBranchRequest{BranchName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Powai Lake", updated.BranchName)
	assert.Equal(t, "powai", updated.Code)

	require.NoError(t, svc.Delete(ctx, b.ID.String()))
	_, err = svc.Get(ctx, b.ID.String())
	assert.ErrorIs(t, err, ErrBranchNotFound)

	_, err = svc.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidBranchID)
}
