package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CachesAfterFirstLoad(t *testing.T) {
	path := writeCSV(t,
		testHeader,
		"2024-01-15,10001,Europe,Electronics,Laptop,Credit Card,2,500,1000",
	)

	svc := NewService(path)

	first, err := svc.Table()
	require.NoError(t, err)
	require.Len(t, first.Rows, 1)

	// Rewrite the file; the cached table must not change.
	require.NoError(t, os.WriteFile(path, []byte(testHeader+"\n"), 0o644))

	second, err := svc.Table()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, second.Rows, 1)
}

func TestService_RetriesAfterFailedLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	svc := NewService(path)

	_, err := svc.Table()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	// Only a successful load is cached; creating the file makes the next
	// call succeed without a restart.
	require.NoError(t, os.WriteFile(path, []byte(
		testHeader+"\n"+
			"2024-01-15,10001,Europe,Electronics,Laptop,Credit Card,2,500,1000\n",
	), 0o644))

	table, err := svc.Table()
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}
