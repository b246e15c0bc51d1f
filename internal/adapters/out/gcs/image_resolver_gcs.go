// internal/adapters/out/gcs/image_resolver_gcs.go
package gcs

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/storage"
)

// ImageResolverGCS maps catalog image references to public HTTPS URLs.
// References that are already absolute URLs pass through untouched; bare
// object paths are resolved against the configured bucket.
type ImageResolverGCS struct {
	bucket string
}

func NewImageResolverGCS(bucket string) *ImageResolverGCS {
	return &ImageResolverGCS{bucket: strings.TrimSpace(bucket)}
}

func (r *ImageResolverGCS) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || r == nil || r.bucket == "" {
		return ref
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return objectPublicURL(r.bucket, ref)
}

// objectPublicURL returns the public HTTPS URL for an object.
func objectPublicURL(bucket, object string) string {
	object = strings.TrimLeft(object, "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

// CheckBucket verifies the configured bucket is reachable. Best-effort boot
// diagnostic; a failure is logged by the caller, not fatal.
func (r *ImageResolverGCS) CheckBucket(ctx context.Context, client *storage.Client) error {
	if r == nil || r.bucket == "" {
		return nil
	}
	if client == nil {
		return fmt.Errorf("image_resolver_gcs: storage client is nil")
	}
	if _, err := client.Bucket(r.bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("image_resolver_gcs: bucket %s: %w", r.bucket, err)
	}
	log.Printf("[gcs] image bucket ok: %s", r.bucket)
	return nil
}
