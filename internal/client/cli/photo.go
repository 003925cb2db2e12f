package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staffql/internal/filex"
	"github.com/dmitrijs2005/staffql/internal/netx"
)

var (
	readUpload           = filex.ReadUpload
	uploadToPresignedURL = netx.UploadToPresignedURL
)

func (a *App) uploadPhoto(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: upload-photo <file>")
	}

	up, err := readUpload(args[0])
	if err != nil {
		return err
	}

	target, err := a.api.PhotoUploadURL(ctx, up.Extension)
	if err != nil {
		return fmt.Errorf("requesting upload url: %w", err)
	}

	if err := uploadToPresignedURL(ctx, a.http, target.UploadURL, up.Data, up.ContentType); err != nil {
		return fmt.Errorf("uploading photo: %w", err)
	}

	fmt.Fprintln(a.out, target.PhotoURL)
	return nil
}
