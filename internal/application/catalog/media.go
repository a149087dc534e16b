package catalog

import (
	"context"
	"io"
)

// MediaHost stores product images and returns their permanent public URL
type MediaHost interface {
	Upload(ctx context.Context, folder, filename string, body io.Reader) (string, error)
}
