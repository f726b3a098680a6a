package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	migrations, err := findMigrationFiles(files)
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "pathogens", migrations[0].Name)
	assert.Equal(t, "002", migrations[1].Version)
	assert.Equal(t, "pathogen_models", migrations[1].Name)
	for _, m := range migrations {
		assert.Len(t, m.Checksum, 64)
	}
}

func TestFindMigrationFilesSkipsUnversionedFiles(t *testing.T) {
	source := fstest.MapFS{
		"sql/010_later.sql":    {Data: []byte("SELECT 2;")},
		"sql/002_first.sql":    {Data: []byte("SELECT 1;")},
		"sql/README.md":        {Data: []byte("notes")},
		"sql/nounderscore.sql": {Data: []byte("SELECT 3;")},
	}

	migrations, err := findMigrationFiles(source)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "002", migrations[0].Version)
	assert.Equal(t, "010", migrations[1].Version)
	assert.Equal(t, calculateChecksum([]byte("SELECT 1;")), migrations[0].Checksum)
}

func TestChecksumChangesWithContent(t *testing.T) {
	assert.NotEqual(t, calculateChecksum([]byte("a")), calculateChecksum([]byte("b")))
	assert.Equal(t, calculateChecksum([]byte("a")), calculateChecksum([]byte("a")))
}
