package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/Skotchmaster/yoneltic/pkg/logging"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cfg CloudinaryConfig) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &Cloudinary{cld: cld, folder: strings.Trim(cfg.Folder, "/")}, nil
}

func (c *Cloudinary) newPublicID() string {
	id := uuid.NewString()
	if c.folder == "" {
		return id
	}
	return path.Join(c.folder, id)
}

func (c *Cloudinary) Upload(ctx context.Context, f *File) (Image, error) {
	if f.Empty() {
		return Image{}, fmt.Errorf("%w: file is empty", ErrUpload)
	}
	l := logging.FromContext(ctx).With("gateway", "cloudinary")

	res, err := c.cld.Upload.Upload(ctx, bytes.NewReader(f.Data), uploader.UploadParams{
		PublicID:       c.newPublicID(),
		Transformation: Transformation,
	})
	if err != nil {
		l.Error("image_upload_failed", "file", f.Name, "error", err)
		return Image{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if res.Error.Message != "" {
		l.Error("image_upload_failed", "file", f.Name, "error", res.Error.Message)
		return Image{}, fmt.Errorf("%w: %s", ErrUpload, res.Error.Message)
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	l.Info("image_uploaded", "public_id", res.PublicID, "bytes", len(f.Data))
	return Image{URL: url, PublicID: res.PublicID}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	l := logging.FromContext(ctx).With("gateway", "cloudinary", "public_id", publicID)

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		l.Error("image_delete_failed", "error", err)
		return fmt.Errorf("%w: %w", ErrDelete, err)
	}
	if res.Error.Message != "" {
		l.Error("image_delete_failed", "error", res.Error.Message)
		return fmt.Errorf("%w: %s", ErrDelete, res.Error.Message)
	}
	l.Info("image_deleted", "result", res.Result)
	return nil
}
