package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/tableview"
	"github.com/nao1215/tableview/domain/model"
)

const salesCSV = "region,amount\nnorth,120\nsouth,80\neast,200\n"

// run executes the root command with a settings file from dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "tableview.yaml")}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShowCommand(t *testing.T) {
	t.Parallel()

	t.Run("prints every row", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out, err := run(t, dir, "show", writeFile(t, dir, "sales.csv", salesCSV))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, lines[0], "region")
		assert.Contains(t, lines[1], "north")
	})

	t.Run("sorted and limited", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out, err := run(t, dir, "show", "--sort", "amount", "--desc", "--limit", "1", "--palette", "rdbu",
			writeFile(t, dir, "sales.csv", salesCSV))
		require.NoError(t, err)
		assert.Contains(t, out, "east")
		assert.NotContains(t, out, "north")
		assert.Contains(t, out, "2 more rows")
	})

	errorTests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "unknown palette", args: []string{"--palette", "rainbow"}, wantErr: tableview.ErrUnknownPalette},
		{name: "unknown column", args: []string{"--sort", "price"}, wantErr: tableview.ErrColumnNotFound},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			args := append([]string{"show"}, tt.args...)
			_, err := run(t, dir, append(args, writeFile(t, dir, "sales.csv", salesCSV))...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, err := run(t, dir, "show", filepath.Join(dir, "missing.csv"))
		require.Error(t, err)
	})

	t.Run("invalid settings", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "tableview.yaml", "display:\n  palette: rainbow\n")
		_, err := run(t, dir, "show", writeFile(t, dir, "sales.csv", salesCSV))
		require.ErrorIs(t, err, tableview.ErrUnknownPalette)
	})
}

func TestExportCommand(t *testing.T) {
	t.Parallel()

	t.Run("format follows the extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out := filepath.Join(dir, "sales.tsv.gz")
		stdout, err := run(t, dir, "export", "--sort", "amount", writeFile(t, dir, "sales.csv", salesCSV), out)
		require.NoError(t, err)
		assert.Contains(t, stdout, "wrote 3 rows")

		inputs, err := tableview.LoadFile(out)
		require.NoError(t, err)
		table := tableview.BuildFromColumns(inputs)
		assert.Equal(t, []string{"region", "amount"}, table.ColumnNames())
		assert.Equal(t, model.Text("south"), table.Get(0, 0))
		assert.Equal(t, model.Float(200), table.Get(2, 1))
	})

	t.Run("settings decide for unknown extensions", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "tableview.yaml", "export:\n  format: ltsv\n")
		out := filepath.Join(dir, "sales.out")
		_, err := run(t, dir, "export", writeFile(t, dir, "sales.csv", salesCSV), out)
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "region:north\tamount:120"))
	})

	t.Run("flags override the extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out := filepath.Join(dir, "sales.csv")
		_, err := run(t, dir, "export", "--format", "tsv", writeFile(t, dir, "in.csv", salesCSV), out)
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "region\tamount\n"))
	})

	t.Run("unknown format flag", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, err := run(t, dir, "export", "--format", "json", writeFile(t, dir, "in.csv", salesCSV), filepath.Join(dir, "x.csv"))
		require.ErrorIs(t, err, tableview.ErrUnsupportedFormat)
	})

	t.Run("unknown compression flag", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, err := run(t, dir, "export", "--compression", "lz4", writeFile(t, dir, "in.csv", salesCSV), filepath.Join(dir, "x.csv"))
		require.ErrorIs(t, err, tableview.ErrUnsupportedFormat)
	})
}

func TestBrowseCommand_OpenStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := &app{configPath: filepath.Join(dir, "tableview.yaml")}
	require.NoError(t, a.init(&bytes.Buffer{}))

	dbPath := filepath.Join(dir, "sales.db")
	store, err := a.openStore(t.Context(), writeFile(t, dir, "sales.csv", salesCSV), &browseOptions{store: dbPath, table: "sales"})
	require.NoError(t, err)
	rows, cols := store.Size()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	require.NoError(t, store.Close())

	reopened, err := a.openStore(t.Context(), dbPath, &browseOptions{table: "sales"})
	require.NoError(t, err)
	defer reopened.Close()
	rows, _ = reopened.Size()
	assert.Equal(t, 3, rows)
}

func TestListCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "sales.csv", salesCSV)
	writeFile(t, dir, "notes.txt", "hello")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "logs"), 0o750))
	writeFile(t, dir, filepath.Join("logs", "access.ltsv"), "k:v\n")

	out, err := run(t, dir, "list", dir)
	require.NoError(t, err)
	assert.Equal(t,
		"access\tltsv\t"+filepath.Join(dir, "logs", "access.ltsv")+"\n"+
			"sales\tcsv\t"+filepath.Join(dir, "sales.csv")+"\n",
		out)
}
