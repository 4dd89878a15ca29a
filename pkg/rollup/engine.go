package rollup

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/postroll/postroll/pkg/archive"
)

// DefaultWorkers bounds the per-submission build parallelism when the
// caller does not choose one.
const DefaultWorkers = 4

// Store is the archive access the engine needs: the four source relations
// plus a way to swap the derived ones atomically.
type Store interface {
	ListSubmissions(ctx context.Context) ([]archive.Submission, error)
	ListMedias(ctx context.Context) ([]archive.Media, error)
	ListAlbums(ctx context.Context) ([]archive.Album, error)
	ListImages(ctx context.Context) ([]archive.Image, error)
	ReplaceRollups(ctx context.Context, posts []AlbumPost, medias []MediaRollup, submissions []SubmissionRollup) error
}

// Engine recomputes the derived relations from a backing store and
// materializes them, replacing whatever the previous refresh left behind.
type Engine struct {
	store   Store
	log     *logrus.Logger
	workers int
}

// NewEngine creates a rollup engine. A nil logger falls back to the logrus
// standard logger; workers < 1 falls back to DefaultWorkers.
func NewEngine(s Store, log *logrus.Logger, workers int) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Engine{store: s, log: log, workers: workers}
}

// RefreshStats summarizes one refresh pass: how many source rows were read
// and how many derived rows were written.
type RefreshStats struct {
	Submissions int `json:"submissions"`
	Medias      int `json:"medias"`
	Albums      int `json:"albums"`
	Images      int `json:"images"`

	AlbumPosts        int `json:"album_posts"`
	MediaRollups      int `json:"media_rollups"`
	SubmissionRollups int `json:"submission_rollups"`

	Elapsed time.Duration `json:"elapsed"`
}

// Refresh loads the four source relations, rebuilds the derived ones from
// scratch and replaces the stored copies in one transaction.
func (e *Engine) Refresh(ctx context.Context) (RefreshStats, error) {
	start := time.Now()

	submissions, err := e.store.ListSubmissions(ctx)
	if err != nil {
		return RefreshStats{}, fmt.Errorf("list submissions: %w", err)
	}
	medias, err := e.store.ListMedias(ctx)
	if err != nil {
		return RefreshStats{}, fmt.Errorf("list medias: %w", err)
	}
	albums, err := e.store.ListAlbums(ctx)
	if err != nil {
		return RefreshStats{}, fmt.Errorf("list albums: %w", err)
	}
	images, err := e.store.ListImages(ctx)
	if err != nil {
		return RefreshStats{}, fmt.Errorf("list images: %w", err)
	}

	posts := BuildAlbumPosts(albums, images)
	mediaRollups := BuildMediaRollups(medias, albums, images, posts)
	submissionRollups := e.buildSubmissionRollups(submissions, mediaRollups)

	if err := e.store.ReplaceRollups(ctx, posts, mediaRollups, submissionRollups); err != nil {
		return RefreshStats{}, fmt.Errorf("replace rollups: %w", err)
	}

	stats := RefreshStats{
		Submissions:       len(submissions),
		Medias:            len(medias),
		Albums:            len(albums),
		Images:            len(images),
		AlbumPosts:        len(posts),
		MediaRollups:      len(mediaRollups),
		SubmissionRollups: len(submissionRollups),
		Elapsed:           time.Since(start),
	}
	e.log.WithFields(logrus.Fields{
		"submissions": stats.Submissions,
		"medias":      stats.Medias,
		"posts":       stats.AlbumPosts,
		"elapsed":     stats.Elapsed.Round(time.Millisecond),
	}).Info("rollups refreshed")
	return stats, nil
}

// buildSubmissionRollups fans the per-submission builds out over a bounded
// worker group. Submissions are independent, so only the write into the
// caller-indexed slot needs coordination; output order matches the
// sequential build exactly.
func (e *Engine) buildSubmissionRollups(submissions []archive.Submission, rollups []MediaRollup) []SubmissionRollup {
	if e.workers <= 1 || len(submissions) < 2 {
		return BuildSubmissionRollups(submissions, rollups)
	}

	grouped := groupRollupsBySubmission(rollups)
	out := make([]SubmissionRollup, len(submissions))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, sub := range submissions {
		// Shadow the loop variables: with the go directive below 1.22 they
		// are shared across iterations, and every worker needs its own pair.
		i, sub := i, sub
		g.Go(func() error {
			out[i] = buildSubmissionRollup(sub, grouped[sub.ID])
			return nil
		})
	}
	// The workers never fail; Wait is only the barrier.
	_ = g.Wait()
	return out
}
