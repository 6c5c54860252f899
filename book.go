// Package sheets extracts tabular data from Excel 2007+ (.xlsx)
// packages: shared strings, sheet names and plain cell values, rendered
// as dense tables, row streams or header-keyed records. Formulas,
// styles and number formats are out of scope; every cell value is a
// string or nil.
package sheets

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
)

const worksheetPrefix = "xl/worksheets/sheet"

// Options configures a Book. A nil Options means sanitize on.
type Options struct {
	// Sanitize trims cell strings and folds line breaks into single
	// spaces.
	Sanitize bool
}

// Book is an open xlsx package. The shared-string table and the sheet
// name map are each read at most once per Book and cached.
type Book struct {
	zip      *zip.Reader
	closer   io.Closer
	sanitize bool
	files    map[string]*zip.File

	sharedOnce sync.Once
	shared     []string
	sharedErr  error

	namesOnce sync.Once
	decls     []sheetDecl
	nameByID  map[int]string
	namesErr  error
}

// Open opens the xlsx package at path.
func Open(filename string, opts *Options) (*Book, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	book, err := New(f, stat.Size(), opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	book.closer = f
	return book, nil
}

// New opens an xlsx package from an in-memory or already open reader.
// It fails with ErrNotAnArchive when the bytes are not a zip container.
func New(reader io.ReaderAt, size int64, opts *Options) (*Book, error) {
	zipReader, err := zip.NewReader(reader, size)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrNotAnArchive)
	}

	sanitize := true
	if opts != nil {
		sanitize = opts.Sanitize
	}

	book := &Book{
		zip:      zipReader,
		sanitize: sanitize,
		files:    make(map[string]*zip.File, len(zipReader.File)),
	}
	for _, file := range zipReader.File {
		book.files[file.Name] = file
	}
	return book, nil
}

// Close releases the underlying file when the Book was created with
// Open. Cached shared strings and sheet data stay usable.
func (b *Book) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// Entries lists the package's entry names in archive order.
func (b *Book) Entries() []string {
	result := make([]string, 0, len(b.zip.File))
	for _, file := range b.zip.File {
		result = append(result, file.Name)
	}
	return result
}

// ReadEntry returns the raw bytes of a named package entry. It fails
// with ErrMissingEntry when no such entry exists.
func (b *Book) ReadEntry(name string) ([]byte, error) {
	file, ok := b.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingEntry)
	}
	return readEntry(file)
}

// SharedStrings returns the workbook's shared-string table. A workbook
// without a sharedStrings entry gets an empty table.
func (b *Book) SharedStrings() ([]string, error) {
	b.sharedOnce.Do(func() {
		file := b.findFile("sharedStrings.xml")
		if file == nil {
			return
		}
		reader, err := file.Open()
		if err != nil {
			b.sharedErr = err
			return
		}
		defer reader.Close()

		b.shared, b.sharedErr = readSharedStrings(reader)
	})
	return b.shared, b.sharedErr
}

// SheetNames returns the names declared in the workbook manifest, in
// declaration order. A workbook without a manifest entry has no
// declared names.
func (b *Book) SheetNames() ([]string, error) {
	if err := b.loadManifest(); err != nil {
		return nil, err
	}
	result := make([]string, len(b.decls))
	for i, decl := range b.decls {
		result[i] = decl.Name
	}
	return result, nil
}

func (b *Book) loadManifest() error {
	b.namesOnce.Do(func() {
		file, ok := b.files["xl/workbook.xml"]
		if !ok {
			return
		}
		reader, err := file.Open()
		if err != nil {
			b.namesErr = err
			return
		}
		defer reader.Close()

		b.decls, b.namesErr = readManifest(reader)
		if b.namesErr != nil {
			return
		}
		b.nameByID = make(map[int]string, len(b.decls))
		for _, decl := range b.decls {
			b.nameByID[decl.ID] = decl.Name
		}
	})
	return b.namesErr
}

// Sheets reads every worksheet entry in the package, ordered by the
// numeric suffix of the entry name. The shared-string table and the
// name map are forced first, so the returned sheets can be extracted
// concurrently.
func (b *Book) Sheets() ([]*Sheet, error) {
	if _, err := b.SharedStrings(); err != nil {
		return nil, err
	}
	if err := b.loadManifest(); err != nil {
		return nil, err
	}

	type entry struct {
		file *zip.File
		stem string
		id   int
	}
	var entries []entry
	for name, file := range b.files {
		if !strings.HasPrefix(name, worksheetPrefix) || !strings.HasSuffix(name, ".xml") {
			continue
		}
		stem := strings.TrimSuffix(path.Base(name), ".xml")
		id := -1
		if n, err := strconv.Atoi(strings.TrimPrefix(stem, "sheet")); err == nil {
			id = n
		}
		entries = append(entries, entry{file: file, stem: stem, id: id})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].id != entries[j].id {
			return entries[i].id < entries[j].id
		}
		return entries[i].stem < entries[j].stem
	})

	result := make([]*Sheet, 0, len(entries))
	for _, e := range entries {
		raw, err := readEntry(e.file)
		if err != nil {
			return nil, fmt.Errorf("worksheet %s: %w", e.file.Name, err)
		}

		name := e.stem
		if declared, ok := b.nameByID[e.id]; ok {
			name = fmt.Sprintf("%02d-%s", e.id, declared)
		}

		sheet, err := newSheet(b, name, raw)
		if err != nil {
			return nil, err
		}
		result = append(result, sheet)
	}
	return result, nil
}

func (b *Book) findFile(name string) *zip.File {
	for _, file := range b.files {
		if strings.HasSuffix(file.Name, name) {
			return file
		}
	}
	return nil
}

func readEntry(file *zip.File) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
