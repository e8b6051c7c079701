//nolint:errcheck // Test cleanup error handling is intentionally ignored
package tableview

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

func TestCompressionHandlerInterface(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		compressionType CompressionType
		extension       string
		canWrite        bool
	}{
		{
			name:            "No compression",
			compressionType: CompressionNone,
			extension:       "",
			canWrite:        true,
		},
		{
			name:            "Gzip compression",
			compressionType: CompressionGZ,
			extension:       ".gz",
			canWrite:        true,
		},
		{
			name:            "Bzip2 compression",
			compressionType: CompressionBZ2,
			extension:       ".bz2",
			canWrite:        false, // bzip2 doesn't support writing
		},
		{
			name:            "XZ compression",
			compressionType: CompressionXZ,
			extension:       ".xz",
			canWrite:        true,
		},
		{
			name:            "ZSTD compression",
			compressionType: CompressionZSTD,
			extension:       ".zst",
			canWrite:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewCompressionHandler(tt.compressionType)
			if got := handler.Extension(); got != tt.extension {
				t.Errorf("Extension() = %v, want %v", got, tt.extension)
			}

			testData := []byte("x,name\n1,alpha\n2,beta")
			var output bytes.Buffer
			writer, closeWriter, err := handler.CreateWriter(&output)
			if !tt.canWrite {
				if err == nil {
					t.Errorf("CreateWriter() error = nil, want error for unsupported compression")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateWriter() error = %v, want nil", err)
			}
			if _, err := writer.Write(testData); err != nil {
				t.Fatalf("Failed to write data: %v", err)
			}
			if err := closeWriter(); err != nil {
				t.Fatalf("Failed to close writer: %v", err)
			}

			reader, closeReader, err := handler.CreateReader(&output)
			if err != nil {
				t.Fatalf("CreateReader() error = %v", err)
			}
			defer closeReader()

			readData, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("Failed to read data: %v", err)
			}
			if !bytes.Equal(readData, testData) {
				t.Errorf("Read data = %q, want %q", readData, testData)
			}
		})
	}
}

func TestCompressionHandlerReadsExternalStreams(t *testing.T) {
	t.Parallel()

	testData := []byte("label:value")

	t.Run("gzip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		w.Write(testData)
		w.Close()
		checkDecompressed(t, CompressionGZ, &buf, testData)
	})

	t.Run("xz", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			t.Fatalf("Failed to create xz writer: %v", err)
		}
		w.Write(testData)
		w.Close()
		checkDecompressed(t, CompressionXZ, &buf, testData)
	})

	t.Run("zstd", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("Failed to create zstd writer: %v", err)
		}
		w.Write(testData)
		w.Close()
		checkDecompressed(t, CompressionZSTD, &buf, testData)
	})

	t.Run("corrupt gzip", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewCompressionHandler(CompressionGZ).CreateReader(bytes.NewReader([]byte("not gzip")))
		if err == nil {
			t.Error("CreateReader() error = nil, want error for corrupt input")
		}
	})
}

func checkDecompressed(t *testing.T, typ CompressionType, r io.Reader, want []byte) {
	t.Helper()

	reader, closeReader, err := NewCompressionHandler(typ).CreateReader(r)
	if err != nil {
		t.Fatalf("CreateReader() error = %v", err)
	}
	defer closeReader()

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Failed to read data: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Read data = %q, want %q", got, want)
	}
}

func TestDetectCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected CompressionType
	}{
		{"data.csv", CompressionNone},
		{"data.csv.gz", CompressionGZ},
		{"data.CSV.GZ", CompressionGZ},
		{"data.tsv.bz2", CompressionBZ2},
		{"data.ltsv.xz", CompressionXZ},
		{"data.parquet.zst", CompressionZSTD},
		{"path/to/file.csv.gz", CompressionGZ},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := detectCompression(tt.path); got != tt.expected {
				t.Errorf("detectCompression(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestStripCompressionExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected string
	}{
		{"data.csv", "data.csv"},
		{"data.csv.gz", "data.csv"},
		{"data.TSV.BZ2", "data.TSV"},
		{"dir/data.ltsv.xz", "dir/data.ltsv"},
		{"data.parquet.zst", "data.parquet"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := stripCompressionExt(tt.path); got != tt.expected {
				t.Errorf("stripCompressionExt(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestOpenDecompressed(t *testing.T) {
	t.Parallel()

	t.Run("gzip file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.csv.gz")
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		w.Write([]byte("a,b\n1,2\n"))
		w.Close()
		if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
			t.Fatal(err)
		}

		reader, closer, err := openDecompressed(path)
		if err != nil {
			t.Fatalf("openDecompressed() error = %v", err)
		}
		defer closer()

		got, err := io.ReadAll(reader)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "a,b\n1,2\n" {
			t.Errorf("openDecompressed() read %q", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, _, err := openDecompressed(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
			t.Error("openDecompressed() error = nil, want error")
		}
	})
}

func TestCompressionHandlerUnsupported(t *testing.T) {
	t.Parallel()

	if _, _, err := NewCompressionHandler(CompressionBZ2).CreateWriter(io.Discard); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("CreateWriter(bz2) error = %v, want %v", err, ErrUnsupportedFormat)
	}
	if _, _, err := NewCompressionHandler(CompressionType(99)).CreateReader(bytes.NewReader(nil)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("CreateReader(99) error = %v, want %v", err, ErrUnsupportedFormat)
	}
	if got := CompressionType(99).String(); got != "none" {
		t.Errorf("CompressionType(99).String() = %q, want none", got)
	}
}
