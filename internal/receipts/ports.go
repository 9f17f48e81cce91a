// Package receipts defines the port for receipt file storage. Records only
// carry the stored filename and a display link; where the bytes actually
// land (local disk, Google Drive) is an adapter concern.
package receipts

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Store persists one uploaded receipt and returns the stored filename. The
// stored name, not the original one, goes on the damage record.
type Store interface {
	Save(ctx context.Context, originalName string, content io.Reader) (storedName string, err error)
}

// StoredName derives a collision-free stored filename from the uploaded one.
// Path separators in the original name are stripped before prefixing.
func StoredName(originalName string) string {
	base := originalName
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if base == "" {
		base = "receipt"
	}
	return uuid.New().String() + "_" + base
}
