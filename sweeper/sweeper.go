// Package sweeper garbage-collects orphaned image blobs and day/image
// documents whose owning project document has been deleted.  Project
// deletion cascades in the serving path, but a crash mid-cascade can
// strand children; the sweeper picks them up on its next pass.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"adventshare/imagestore"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

type Sweeper struct {
	firestoreClient *firestore.Client
	images          *imagestore.Store
	recheckPeriod   time.Duration
}

func New(firestoreClient *firestore.Client, images *imagestore.Store, recheckPeriod time.Duration) *Sweeper {
	return &Sweeper{
		firestoreClient: firestoreClient,
		images:          images,
		recheckPeriod:   recheckPeriod,
	}
}

func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.recheckPeriod)
	defer ticker.Stop()

	// Sweep once right away --- ticker doesn't fire until the tick
	// period has elapsed.
	if err := s.sweep(ctx); err != nil {
		slog.ErrorContext(ctx, "Error during sweeper pass", slog.Any("err", err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := s.sweep(ctx); err != nil {
			slog.ErrorContext(ctx, "Error during sweeper pass", slog.Any("err", err))
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting sweeper pass")
	defer func() {
		slog.InfoContext(ctx, "Finished sweeper pass")
	}()

	// One existence probe per project per pass.
	liveProjects := map[string]bool{}

	if err := s.sweepBlobs(ctx, liveProjects); err != nil {
		return fmt.Errorf("while sweeping blobs: %w", err)
	}

	for _, collection := range []string{"days", "images"} {
		if err := s.sweepDocs(ctx, collection, liveProjects); err != nil {
			return fmt.Errorf("while sweeping %s documents: %w", collection, err)
		}
	}

	return nil
}

// projectExists reports whether the project document is present,
// memoizing the answer for the rest of the pass.
func (s *Sweeper) projectExists(ctx context.Context, liveProjects map[string]bool, projectID string) (bool, error) {
	if live, probed := liveProjects[projectID]; probed {
		return live, nil
	}

	snap, err := s.firestoreClient.Collection("projects").Doc(projectID).Get(ctx)
	if err != nil && !isNotFound(err) {
		return false, fmt.Errorf("while probing project %s: %w", projectID, err)
	}

	live := err == nil && snap.Exists()
	liveProjects[projectID] = live
	return live, nil
}

func (s *Sweeper) sweepBlobs(ctx context.Context, liveProjects map[string]bool) error {
	paths, err := s.images.List(ctx, "projects/")
	if err != nil {
		return fmt.Errorf("while listing image objects: %w", err)
	}

	for _, objectPath := range paths {
		projectID, _, ok := imagestore.ParseObjectPath(objectPath)
		if !ok {
			// Not one of ours; leave it alone.
			slog.WarnContext(ctx, "Skipping unrecognized object", slog.String("path", objectPath))
			continue
		}

		live, err := s.projectExists(ctx, liveProjects, projectID)
		if err != nil {
			return err
		}
		if live {
			continue
		}

		slog.InfoContext(ctx, "Deleting orphaned blob", slog.String("path", objectPath))
		if err := s.images.Delete(ctx, objectPath); err != nil {
			return fmt.Errorf("while deleting orphaned blob %s: %w", objectPath, err)
		}
	}

	return nil
}

func (s *Sweeper) sweepDocs(ctx context.Context, collection string, liveProjects map[string]bool) error {
	iter := s.firestoreClient.CollectionGroup(collection).Documents(ctx)
	defer iter.Stop()

	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("while iterating %s documents: %w", collection, err)
		}

		projectRef := docSnap.Ref.Parent.Parent
		if projectRef == nil || projectRef.Parent.ID != "projects" {
			continue
		}

		live, err := s.projectExists(ctx, liveProjects, projectRef.ID)
		if err != nil {
			return err
		}
		if live {
			continue
		}

		slog.InfoContext(ctx, "Deleting orphaned document", slog.String("path", docSnap.Ref.Path))
		if _, err := docSnap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("while deleting orphaned document %s: %w", docSnap.Ref.Path, err)
		}
	}

	return nil
}
