package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// CloudinaryConfig contains credentials required to talk to Cloudinary.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Cloudinary stores document blobs in a Cloudinary folder. Save returns the
// secure delivery URL, which later Open and Remove calls take as the path.
type Cloudinary struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// NewCloudinary constructs a Cloudinary-backed store.
func NewCloudinary(cfg CloudinaryConfig, logger zerolog.Logger) (*Cloudinary, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Cloudinary{
		client: cld,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary_storage").Logger(),
	}, nil
}

// Save uploads the blob and returns its secure URL.
func (c *Cloudinary) Save(ctx context.Context, name string, reader io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       c.folder,
		PublicID:     strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
		ResourceType: "auto",
	}

	result, err := c.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	c.logger.Info().Str("public_id", result.PublicID).Msg("blob uploaded to cloudinary")

	return result.SecureURL, nil
}

// Open streams the blob back from its delivery URL.
func (c *Cloudinary) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download asset: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d downloading asset", resp.StatusCode)
	}

	return resp.Body, nil
}

// Remove destroys the uploaded asset.
func (c *Cloudinary) Remove(ctx context.Context, path string) error {
	publicID := c.publicIDFromURL(path)
	if publicID == "" {
		return fmt.Errorf("unable to derive public id from %q", path)
	}

	_, err := c.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to destroy asset: %w", err)
	}

	return nil
}

// publicIDFromURL recovers "<folder>/<name>" from a secure delivery URL.
func (c *Cloudinary) publicIDFromURL(url string) string {
	marker := "/" + c.folder + "/"
	index := strings.Index(url, marker)
	if index < 0 {
		return ""
	}

	rest := url[index+1:]
	return strings.TrimSuffix(rest, filepath.Ext(rest))
}
