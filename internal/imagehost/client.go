// Package imagehost talks to the Cloudinary style image collaborator: an
// unsigned upload endpoint plus URL level resize/format transforms.
package imagehost

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatboylabs/gamestore/config"
	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Client struct {
	cloudName    string
	uploadPreset string
}

func NewClient(cfg config.ImageConfig) *Client {
	return &Client{cloudName: cfg.CloudName, uploadPreset: cfg.UploadPreset}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the image bytes to the unsigned upload endpoint and returns
// the hosted secure URL.
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.cloudName)

	var resp uploadResponse
	var code int
	err := gout.POST(endpoint).
		WithContext(ctx).
		SetForm(gout.H{
			"file":          gout.FormMem(data),
			"upload_preset": c.uploadPreset,
		}).
		Code(&code).
		BindJSON(&resp).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "image upload")
	}
	if code >= 400 || resp.SecureURL == "" {
		zap.L().Warn("image host rejected upload",
			zap.Int("status", code), zap.String("message", resp.Error.Message))
		return "", errors.Errorf("image upload failed: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// OptimizedURL appends the resize/quality/format transform segment for
// hosted URLs. Anything not on the image host passes through untouched.
func OptimizedURL(url string, width int) string {
	if url == "" || !strings.Contains(url, "cloudinary.com") {
		return url
	}
	transform := fmt.Sprintf("/upload/w_%d,c_fill,q_auto,f_auto/", width)
	return strings.Replace(url, "/upload/", transform, 1)
}
