package tableview

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
)

// LoadFS is LoadFile for a file inside fsys, such as an embed.FS or os.DirFS.
func LoadFS(fsys fs.FS, name string) ([]ColumnInput, error) {
	ec := NewErrorContext("load", name)
	if fsys == nil {
		return nil, ec.Error(errors.New("nil file system"))
	}
	if !isSupportedFile(name) {
		return nil, ec.Error(ErrUnsupportedFormat)
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, ec.Error(err)
	}
	reader, closer, err := decompress(f, name)
	if err != nil {
		return nil, ec.Error(err)
	}
	defer func() {
		_ = closer() // Ignore close error on read
	}()

	cols, err := parse(reader, detectFileType(name), tableFromFilePath(name))
	if err != nil {
		return nil, ec.Error(err)
	}
	return cols, nil
}

// TableFile is a loadable file found by FindTables.
type TableFile struct {
	// Name is the table name derived from the file name.
	Name string
	// Path is the slash separated path inside the file system.
	Path string
	// Type is the file format.
	Type FileType
}

// FindTables walks fsys for supported files, sorted by path. When a table
// exists both compressed and uncompressed, only the uncompressed file is
// kept; among several compressed copies the first path wins.
func FindTables(fsys fs.FS) ([]TableFile, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isSupportedFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk file system: %w", err)
	}
	slices.Sort(paths)

	chosen := make(map[string]string, len(paths))
	for _, path := range paths {
		key := stripCompressionExt(path)
		prev, ok := chosen[key]
		if !ok || (isCompressed(prev) && !isCompressed(path)) {
			chosen[key] = path
		}
	}

	tables := make([]TableFile, 0, len(chosen))
	for _, path := range paths {
		if chosen[stripCompressionExt(path)] != path {
			continue
		}
		tables = append(tables, TableFile{
			Name: tableFromFilePath(path),
			Path: path,
			Type: detectFileType(path),
		})
	}
	return tables, nil
}

func isCompressed(path string) bool {
	return detectCompression(path) != CompressionNone
}
