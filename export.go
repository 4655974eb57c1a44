package md2cards

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alnah/go-md2cards/internal/fileutil"
)

// Output permissions.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// minIndexDigits is the narrowest zero padding of card numbers.
const minIndexDigits = 2

// PageFileName returns the file name of card index out of total:
// "<prefix>_<NN>.<ext>", zero-padded to at least two digits and wider when
// total needs it. Names therefore sort in card order.
func PageFileName(prefix string, index, total int, ext string) string {
	digits := max(len(strconv.Itoa(total)), minIndexDigits)
	return fmt.Sprintf("%s_%0*d.%s", prefix, digits, index, ext)
}

// WritePages writes the Data of every page to dir, creating it if needed,
// and returns the written paths in card order. Pages without Data are
// skipped.
func WritePages(dir, prefix string, pages []Page, format Format) ([]string, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrOutputWrite, dir, err)
	}

	paths := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Data == nil {
			continue
		}
		path := filepath.Join(dir, PageFileName(prefix, p.Index, len(pages), format.Ext()))
		if err := fileutil.WriteFileAtomic(path, p.Data, filePermissions); err != nil {
			return paths, fmt.Errorf("%w: %v", ErrOutputWrite, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
