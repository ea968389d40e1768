// Package imagestore stores uploaded photo blobs in a Google Cloud
// Storage bucket.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Store wraps a GCS bucket holding image blobs.
type Store struct {
	gcsClient *storage.Client
	bucket    string
}

func New(gcsClient *storage.Client, bucket string) *Store {
	return &Store{
		gcsClient: gcsClient,
		bucket:    bucket,
	}
}

// ObjectPath derives the canonical blob path for an upload:
// projects/{projectID}/day-{n}/{uploaderID}__{unixMillis}_{filename}.
// The timestamp keeps concurrent uploads from the same member from
// colliding.
func ObjectPath(projectID string, dayNumber int, uploaderID, filename string, uploadedAt time.Time) string {
	return fmt.Sprintf("projects/%s/day-%d/%s__%d_%s", projectID, dayNumber, uploaderID, uploadedAt.UnixMilli(), filename)
}

// ParseObjectPath decodes an image blob path back into its project id
// and day number.  Returns false for paths not produced by ObjectPath.
func ParseObjectPath(objectPath string) (projectID string, dayNumber int, ok bool) {
	rest, found := strings.CutPrefix(objectPath, "projects/")
	if !found {
		return "", 0, false
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, false
	}
	dayPart, found := strings.CutPrefix(parts[1], "day-")
	if !found {
		return "", 0, false
	}
	n, err := strconv.Atoi(dayPart)
	if err != nil || n < 1 {
		return "", 0, false
	}
	return parts[0], n, true
}

// URL returns the public download URL for an object.
func (s *Store) URL(objectPath string) string {
	return "https://storage.googleapis.com/" + s.bucket + "/" + objectPath
}

// Upload writes an image blob.
func (s *Store) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) error {
	w := s.gcsClient.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("while writing object %s: %w", objectPath, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("while finalizing object %s: %w", objectPath, err)
	}

	return nil
}

// Delete removes an image blob.  Deleting an object that is already
// gone is not an error; the sweeper and the delete compensations may
// race.
func (s *Store) Delete(ctx context.Context, objectPath string) error {
	err := s.gcsClient.Bucket(s.bucket).Object(objectPath).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("while deleting object %s: %w", objectPath, err)
	}
	return nil
}

// List returns the paths of all objects under the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string

	it := s.gcsClient.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while listing objects under %s: %w", prefix, err)
		}
		paths = append(paths, attrs.Name)
	}

	return paths, nil
}
