package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVSource_Read(t *testing.T) {
	path := writeFile(t, "TN_FastFood.csv", "\ufeffitem, calories,protein\nChicken Burger,500,25\nFries,300\n")

	src := &CSVSource{Path: path}
	table, err := src.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "TN_FastFood", table.Origin)
	assert.Equal(t, []string{"item", "calories", "protein"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Chicken Burger", "500", "25"}, table.Rows[0])
	assert.Equal(t, []string{"Fries", "300", ""}, table.Rows[1], "short rows are padded")
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := &CSVSource{Path: filepath.Join(t.TempDir(), "nope.csv")}
	_, err := src.Read(context.Background())
	assert.Error(t, err)
}

func TestReadCSV_EmptyInput(t *testing.T) {
	_, err := readCSV(context.Background(), strings.NewReader(""), "empty")
	assert.Error(t, err)
}

func TestSQLiteSource_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE foods (item TEXT, calories REAL, sodium INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO foods VALUES ('Chicken Nugget', 50.5, 120), ('Side Salad', NULL, 10)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	src := &SQLiteSource{Path: path, Table: "foods"}
	table, err := src.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "catalog.foods", table.Origin)
	assert.Equal(t, []string{"item", "calories", "sodium"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Chicken Nugget", table.Rows[0][0])
	assert.Equal(t, "50.5", table.Rows[0][1])
	assert.Equal(t, "120", table.Rows[0][2])
	assert.Equal(t, "", table.Rows[1][1], "NULL becomes an empty cell")
}

func TestSQLiteSource_MissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	src := &SQLiteSource{Path: path, Table: "foods"}

	_, err := src.Read(context.Background())
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "reading must not create the database")
}

func TestSQLiteStorage_RejectsBadTableName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE foods (item TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	stor, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer stor.Close()

	_, err = stor.ReadTable(context.Background(), `foods"; DROP TABLE foods; --`, "x")
	assert.Error(t, err)
}

func TestSQLiteStorage_ReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE foods (item TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	stor, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer stor.Close()

	_, err = stor.db.ExecContext(context.Background(), `INSERT INTO foods VALUES ('x')`)
	assert.Error(t, err, "catalog databases are opened read-only")

	table, err := stor.ReadTable(context.Background(), "foods", "x")
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestReadOnlyDSN(t *testing.T) {
	assert.Equal(t, "file:/data/foods.db?mode=ro", readOnlyDSN("/data/foods.db"))
	assert.Equal(t, "file:/data/50%25 off%3f.db?mode=ro", readOnlyDSN("/data/50% off?.db"))
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		name    string
		spec    SourceSpec
		want    string
		wantErr bool
	}{
		{"csv by extension", SourceSpec{Path: "data/a.csv"}, "csv", false},
		{"sqlite by extension", SourceSpec{Path: "data/a.sqlite"}, "sqlite", false},
		{"explicit format", SourceSpec{Path: "data/a.txt", Format: "CSV"}, "csv", false},
		{"unknown", SourceSpec{Path: "data/a.xlsx"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(tt.spec)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			switch tt.want {
			case "csv":
				assert.IsType(t, &CSVSource{}, src)
			case "sqlite":
				assert.IsType(t, &SQLiteSource{}, src)
			}
		})
	}
}
