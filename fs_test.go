package tableview

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"data/users.csv":     {Data: []byte("name,age\nalice,30\nbob,25\n")},
		"data/scores.tsv.gz": {Data: gzipped(t, "id\tscore\n1\t0.5\n")},
		"notes.txt":          {Data: []byte("hello")},
	}

	t.Run("plain", func(t *testing.T) {
		t.Parallel()

		cols, err := LoadFS(fsys, "data/users.csv")
		if err != nil {
			t.Fatalf("LoadFS() error = %v", err)
		}
		if len(cols) != 2 || cols[1].Name != "age" || cols[1].Values[0] != int64(30) {
			t.Errorf("LoadFS() = %+v", cols)
		}
	})

	t.Run("compressed", func(t *testing.T) {
		t.Parallel()

		cols, err := LoadFS(fsys, "data/scores.tsv.gz")
		if err != nil {
			t.Fatalf("LoadFS() error = %v", err)
		}
		if len(cols) != 2 || cols[1].Values[0] != 0.5 {
			t.Errorf("LoadFS() = %+v", cols)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadFS(fsys, "notes.txt"); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("LoadFS(notes.txt) error = %v, want %v", err, ErrUnsupportedFormat)
		}
		if _, err := LoadFS(fsys, "data/missing.csv"); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("LoadFS(missing) error = %v, want %v", err, fs.ErrNotExist)
		}
		if _, err := LoadFS(nil, "data/users.csv"); err == nil {
			t.Error("LoadFS(nil) succeeded")
		}
	})
}

func TestFindTables(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a.csv":           {Data: []byte("x\n1\n")},
		"a.csv.gz":        {Data: []byte{}},
		"b.tsv.xz":        {Data: []byte{}},
		"b.tsv.zst":       {Data: []byte{}},
		"sub/c.parquet":   {Data: []byte{}},
		"sub/readme.md":   {Data: []byte{}},
		"sub/deep/d.ltsv": {Data: []byte{}},
	}

	tables, err := FindTables(fsys)
	if err != nil {
		t.Fatalf("FindTables() error = %v", err)
	}
	want := []TableFile{
		{Name: "a", Path: "a.csv", Type: FileTypeCSV},
		{Name: "b", Path: "b.tsv.xz", Type: FileTypeTSV},
		{Name: "c", Path: "sub/c.parquet", Type: FileTypeParquet},
		{Name: "d", Path: "sub/deep/d.ltsv", Type: FileTypeLTSV},
	}
	if len(tables) != len(want) {
		t.Fatalf("FindTables() = %+v, want %+v", tables, want)
	}
	for i := range want {
		if tables[i] != want[i] {
			t.Errorf("FindTables()[%d] = %+v, want %+v", i, tables[i], want[i])
		}
	}
}
