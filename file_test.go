package tableview

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/tableview/domain/model"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDetectFileType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected FileType
	}{
		{name: "CSV file", path: "test.csv", expected: FileTypeCSV},
		{name: "TSV file", path: "test.tsv", expected: FileTypeTSV},
		{name: "LTSV file", path: "test.ltsv", expected: FileTypeLTSV},
		{name: "Parquet file", path: "test.parquet", expected: FileTypeParquet},
		{name: "XLSX file", path: "test.XLSX", expected: FileTypeXLSX},
		{name: "Compressed CSV file", path: "test.csv.gz", expected: FileTypeCSV},
		{name: "Compressed TSV file", path: "test.tsv.bz2", expected: FileTypeTSV},
		{name: "Compressed LTSV file", path: "test.ltsv.xz", expected: FileTypeLTSV},
		{name: "Zstd compressed CSV file", path: "test.csv.zst", expected: FileTypeCSV},
		{name: "Unsupported file", path: "test.txt", expected: FileTypeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := detectFileType(tt.path); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if isSupportedFile(tt.path) != (tt.expected != FileTypeUnsupported) {
				t.Errorf("isSupportedFile(%s) disagrees with detectFileType", tt.path)
			}
		})
	}
}

func TestTableFromFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"users.csv", "users"},
		{"/path/to/data.tsv.gz", "data"},
		{"logs.ltsv.zst", "logs"},
		{"sales.xlsx", "sales"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := tableFromFilePath(tt.path); got != tt.want {
				t.Errorf("tableFromFilePath(%s) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("CSV with typed columns", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "points.csv", "id,x,label,day\n1,0.5,a,2024-01-02\n2,1.5,b,2024-01-03\n")
		columns, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if len(columns) != 4 {
			t.Fatalf("expected 4 columns, got %d", len(columns))
		}
		if columns[0].Values[1] != int64(2) {
			t.Errorf("id = %#v, want int64(2)", columns[0].Values[1])
		}
		if columns[1].Values[0] != 0.5 {
			t.Errorf("x = %#v, want 0.5", columns[1].Values[0])
		}
		if columns[2].Values[0] != "a" {
			t.Errorf("label = %#v, want a", columns[2].Values[0])
		}
		if columns[3].Values[0] != "2024-01-02" {
			t.Errorf("day = %#v, want the original text", columns[3].Values[0])
		}

		table := BuildFromColumns(columns)
		if !table.ColumnIsNumeric(0) || !table.ColumnIsNumeric(1) || table.ColumnIsNumeric(2) || table.ColumnIsNumeric(3) {
			t.Errorf("unexpected numeric flags for %v", table.ColumnNames())
		}
	})

	t.Run("short records are padded", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "short.csv", "a,b\n1\n2,3\n")
		columns, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if columns[1].Values[0] != nil {
			t.Errorf("missing cell = %#v, want nil", columns[1].Values[0])
		}
	})

	t.Run("TSV", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "points.tsv", "name\tscore\nalpha\t1\nbeta\t2\n")
		columns, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if columns[0].Name != "name" || columns[1].Values[1] != int64(2) {
			t.Errorf("unexpected columns %#v", columns)
		}
	})

	t.Run("LTSV keeps labels in first-seen order", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "access.ltsv", "host:a\tstatus:200\n\nstatus:404\thost:b\tsize:10\n")
		columns, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		names := make([]string, len(columns))
		for i, c := range columns {
			names[i] = c.Name
		}
		if strings.Join(names, ",") != "host,status,size" {
			t.Errorf("columns = %v", names)
		}
		if columns[1].Values[1] != int64(404) || columns[0].Values[1] != "b" {
			t.Errorf("unexpected values %#v", columns)
		}
		if columns[2].Values[0] != nil {
			t.Errorf("missing label = %#v, want nil", columns[2].Values[0])
		}
	})

	t.Run("gzip compressed CSV", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "points.csv.gz")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		w := gzip.NewWriter(f)
		if _, err := w.Write([]byte("v\n1\n2\n")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}

		columns, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if len(columns[0].Values) != 2 {
			t.Errorf("expected 2 values, got %d", len(columns[0].Values))
		}
	})

	errorTests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{name: "unsupported extension", file: "notes.txt", content: "a", wantErr: ErrUnsupportedFormat},
		{name: "empty CSV", file: "empty.csv", content: "", wantErr: ErrEmptyData},
		{name: "empty LTSV", file: "empty.ltsv", content: "\n\n", wantErr: ErrEmptyData},
		{name: "duplicate columns", file: "dup.csv", content: "a,a\n1,2\n", wantErr: errDuplicateColumnName},
		{name: "broken quotes", file: "bad.csv", content: "a,b\n\"1,2\n", wantErr: ErrInvalidData},
		{name: "not a workbook", file: "bad.xlsx", content: "plain text", wantErr: ErrInvalidData},
		{name: "empty parquet", file: "empty.parquet", content: "", wantErr: ErrEmptyData},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadFile(writeTestFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
			t.Error("LoadFile() error = nil, want error")
		}
	})
}

func TestLoadReader(t *testing.T) {
	t.Parallel()

	columns, err := LoadReader(strings.NewReader("k,v\nx,1\n"), FileTypeCSV)
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}
	table := BuildFromColumns(columns)
	if got := table.Get(0, 0); !got.Equal(model.Text("x")) {
		t.Errorf("cell = %v, want x", got)
	}

	if _, err := LoadReader(strings.NewReader("a"), FileTypeUnsupported); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadReader() error = %v, want %v", err, ErrUnsupportedFormat)
	}
}
