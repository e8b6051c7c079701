package tableview

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression extensions
const (
	// extGZ is the gzip compression extension
	extGZ = ".gz"
	// extBZ2 is the bzip2 compression extension
	extBZ2 = ".bz2"
	// extXZ is the xz compression extension
	extXZ = ".xz"
	// extZSTD is the zstd compression extension
	extZSTD = ".zst"
)

type (
	openFunc func(io.Reader) (io.Reader, func() error, error)
	wrapFunc func(io.Writer) (io.Writer, func() error, error)
)

// codec is one compression format. wrap is nil for read-only formats.
type codec struct {
	name    string
	aliases []string
	ext     string
	open    openFunc
	wrap    wrapFunc
}

// codecs holds every compression type other than CompressionNone. Their
// extensions never share a suffix.
var codecs = map[CompressionType]codec{
	CompressionGZ: {
		name: "gz", aliases: []string{"gzip"}, ext: extGZ,
		open: func(r io.Reader) (io.Reader, func() error, error) {
			zr, err := gzip.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return zr, zr.Close, nil
		},
		wrap: func(w io.Writer) (io.Writer, func() error, error) {
			zw := gzip.NewWriter(w)
			return zw, zw.Close, nil
		},
	},
	CompressionBZ2: {
		name: "bz2", aliases: []string{"bzip2"}, ext: extBZ2,
		open: func(r io.Reader) (io.Reader, func() error, error) {
			return bzip2.NewReader(r), nopClose, nil
		},
	},
	CompressionXZ: {
		name: "xz", ext: extXZ,
		open: func(r io.Reader) (io.Reader, func() error, error) {
			xr, err := xz.NewReader(r)
			return xr, nopClose, err
		},
		wrap: func(w io.Writer) (io.Writer, func() error, error) {
			xw, err := xz.NewWriter(w)
			if err != nil {
				return nil, nil, err
			}
			return xw, xw.Close, nil
		},
	},
	CompressionZSTD: {
		name: "zstd", aliases: []string{"zst"}, ext: extZSTD,
		open: func(r io.Reader) (io.Reader, func() error, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return dec, func() error { dec.Close(); return nil }, nil
		},
		wrap: func(w io.Writer) (io.Writer, func() error, error) {
			enc, err := zstd.NewWriter(w)
			if err != nil {
				return nil, nil, err
			}
			return enc, enc.Close, nil
		},
	},
}

func nopClose() error { return nil }

// CompressionHandler wraps readers and writers with a compression codec
type CompressionHandler interface {
	// CreateReader wraps an io.Reader with a decompression reader if needed
	CreateReader(reader io.Reader) (io.Reader, func() error, error)
	// CreateWriter wraps an io.Writer with a compression writer if needed
	CreateWriter(writer io.Writer) (io.Writer, func() error, error)
	// Extension returns the file extension for this compression type (e.g., ".gz")
	Extension() string
}

type compressionHandler struct {
	typ CompressionType
}

// NewCompressionHandler creates a new compression handler for the given compression type
func NewCompressionHandler(compressionType CompressionType) CompressionHandler {
	return compressionHandler{typ: compressionType}
}

// CreateReader returns reader itself for CompressionNone.
func (h compressionHandler) CreateReader(reader io.Reader) (io.Reader, func() error, error) {
	if h.typ == CompressionNone {
		return reader, nopClose, nil
	}
	c, ok := codecs[h.typ]
	if !ok {
		return nil, nil, fmt.Errorf("%w: compression %d", ErrUnsupportedFormat, h.typ)
	}
	r, closeFn, err := c.open(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s reader: %w", c.name, err)
	}
	return r, closeFn, nil
}

// CreateWriter returns writer itself for CompressionNone. The returned close
// function flushes the codec but does not close writer.
func (h compressionHandler) CreateWriter(writer io.Writer) (io.Writer, func() error, error) {
	if h.typ == CompressionNone {
		return writer, nopClose, nil
	}
	c, ok := codecs[h.typ]
	if !ok || c.wrap == nil {
		return nil, nil, fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, h.typ)
	}
	w, closeFn, err := c.wrap(writer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s writer: %w", c.name, err)
	}
	return w, closeFn, nil
}

func (h compressionHandler) Extension() string {
	return h.typ.Extension()
}

// detectCompression detects the compression type from a file path
func detectCompression(path string) CompressionType {
	path = strings.ToLower(path)
	for typ, c := range codecs {
		if strings.HasSuffix(path, c.ext) {
			return typ
		}
	}
	return CompressionNone
}

// stripCompressionExt removes the compression extension from a file path if present
func stripCompressionExt(path string) string {
	if typ := detectCompression(path); typ != CompressionNone {
		return path[:len(path)-len(codecs[typ].ext)]
	}
	return path
}

// openDecompressed opens a file and returns a reader that handles decompression
func openDecompressed(path string) (io.Reader, func() error, error) {
	file, err := os.Open(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return decompress(file, path)
}

// decompress wraps an open file in the decompressor its name calls for. The
// returned cleanup also closes the file.
func decompress(file io.ReadCloser, path string) (io.Reader, func() error, error) {
	reader, cleanup, err := NewCompressionHandler(detectCompression(path)).CreateReader(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	return reader, func() error {
		cleanupErr := cleanup()
		if closeErr := file.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}, nil
}
