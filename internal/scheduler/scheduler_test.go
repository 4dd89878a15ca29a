package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/postroll/postroll/pkg/archive"
	"github.com/postroll/postroll/pkg/rollup"
)

type countingStore struct {
	refreshes int
}

func (c *countingStore) ListSubmissions(context.Context) ([]archive.Submission, error) {
	return nil, nil
}

func (c *countingStore) ListMedias(context.Context) ([]archive.Media, error) { return nil, nil }

func (c *countingStore) ListAlbums(context.Context) ([]archive.Album, error) { return nil, nil }

func (c *countingStore) ListImages(context.Context) ([]archive.Image, error) { return nil, nil }

func (c *countingStore) ReplaceRollups(context.Context, []rollup.AlbumPost, []rollup.MediaRollup, []rollup.SubmissionRollup) error {
	c.refreshes++
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunRefreshesOnStartAndTick(t *testing.T) {
	cs := &countingStore{}
	engine := rollup.NewEngine(cs, quietLogger(), 1)
	sched := New(engine, quietLogger(), 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Millisecond)
	defer cancel()

	err := sched.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	// One immediate refresh plus at least one tick.
	if cs.refreshes < 2 {
		t.Errorf("refreshes = %d, want >= 2", cs.refreshes)
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	sched := New(nil, nil, 0)
	if sched.interval != 15*time.Minute {
		t.Errorf("interval = %v, want 15m", sched.interval)
	}
}
