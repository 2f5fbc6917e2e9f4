package flatfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
	"ledger/internal/storage"
)

func sample() []core.Expense {
	return []core.Expense{
		{Name: "Groceries", Date: "2024-03-01", Category: core.Necessary, Amount: decimal.RequireFromString("42.15")},
		{Name: "", Date: "2024-03-02", Category: "Custom category", Amount: decimal.NewFromInt(0)},
		{Name: "Train", Date: "2024-03-02", Category: core.Travel, Amount: decimal.RequireFromString("0.001")},
		{Name: "Train", Date: "2024-03-02", Category: core.Travel, Amount: decimal.RequireFromString("0.001")},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "expenses.txt"), nil)

	want := sample()
	require.NoError(t, s.Save(ctx, want))

	got := s.Load(ctx)
	require.Len(t, got, len(want))
	for i := range want {
		require.Truef(t, want[i].Equal(got[i]), "record %d: want %+v, got %+v", i, want[i], got[i])
	}
}

func TestSaveWritesFixedFieldOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	s := New(path, nil)
	require.NoError(t, s.Save(context.Background(), sample()[:2]))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "2024-03-01,Groceries,Necessary,42.15\n2024-03-02,,Custom category,0\n", string(raw))
}

func TestSaveReplacesPreviousContent(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "expenses.txt"), nil)

	require.NoError(t, s.Save(ctx, sample()))
	require.NoError(t, s.Save(ctx, sample()[:1]))
	require.Len(t, s.Load(ctx), 1)

	require.NoError(t, s.Save(ctx, nil))
	require.Empty(t, s.Load(ctx))
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	content := "2024-03-01,Lunch,Personal,12.5\n" +
		"2024-03-02,only two\n" +
		"2024-03-03,Bad,Personal,twelve\n" +
		"2024-03-04,Too,many,fields,1\n" +
		"\n" +
		"not-a-date,Kept,Travel,-3\r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got := New(path, nil).Load(context.Background())
	require.Len(t, got, 2)
	require.Equal(t, "Lunch", got[0].Name)
	require.Equal(t, "not-a-date", got[1].Date)
	require.True(t, got[1].Amount.Equal(decimal.NewFromInt(-3)))
}

func TestLoadSkipsOverlongLine(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.txt")
	content := "2024-03-01,Lunch,Personal,12.5\n" +
		"2024-03-02," + strings.Repeat("x", 2<<20) + ",Travel,1\n" +
		"2024-03-03,Dinner,Personal,20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store := New(path, nil)
	got := store.Load(ctx)
	require.Len(t, got, 2)
	require.Equal(t, "Lunch", got[0].Name)
	require.Equal(t, "Dinner", got[1].Name)

	require.NoError(t, store.Save(ctx, got))
	require.Len(t, store.Load(ctx), 2)
}

func TestLoadMissingFile(t *testing.T) {
	got := New(filepath.Join(t.TempDir(), "nope.txt"), nil).Load(context.Background())
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestLoadUnreadablePathIsEmpty(t *testing.T) {
	// A directory cannot be read as a ledger file.
	got := New(t.TempDir(), nil).Load(context.Background())
	require.Empty(t, got)
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "expenses.txt")
	s := New(path, nil)
	require.NoError(t, s.Save(context.Background(), sample()))
	require.Len(t, s.Load(context.Background()), 4)
}

func TestSaveReportsIOError(t *testing.T) {
	dir := t.TempDir()
	err := New(dir, nil).Save(context.Background(), sample())
	require.Error(t, err)

	var ioErr *storage.IOError
	require.True(t, errors.As(err, &ioErr))
	require.Equal(t, "create", ioErr.Op)
}

func TestDefaultPath(t *testing.T) {
	require.Equal(t, DefaultPath, New("", nil).Path())
}
