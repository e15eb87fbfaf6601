// Package materials resolves course material names (PDFs referenced by the
// catalog) to something the HTTP layer can serve: a local file or a
// presigned object storage URL.
package materials

import (
	"context"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/gophquiz/internal/common"
)

// Location is the result of a lookup. Exactly one field is set.
type Location struct {
	// FilePath is a file on local disk to stream back.
	FilePath string
	// RedirectURL is a URL the client should be redirected to.
	RedirectURL string
}

type Store interface {
	// Locate returns common.ErrorNotFound for unknown or unsafe names.
	Locate(ctx context.Context, name string) (*Location, error)
}

// cleanName rejects names that are not plain slash separated paths inside
// the material root ("..", empty or dot elements, backslashes).
func cleanName(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" || strings.ContainsAny(name, "\\\x00") || !fs.ValidPath(name) {
		return "", common.ErrorNotFound
	}
	return name, nil
}
