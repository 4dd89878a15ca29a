package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/postroll/postroll/internal/config"
	"github.com/postroll/postroll/internal/scheduler"
	"github.com/postroll/postroll/internal/store"
	"github.com/postroll/postroll/pkg/rollup"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("postroll.yaml"); err == nil {
			path = "postroll.yaml"
		}
	}
	return config.Load(path)
}

// newLogger builds the stderr logger; stdout stays reserved for results.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func runRefresh(workers int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if workers <= 0 {
		workers = cfg.Rollup.Workers
	}
	engine := rollup.NewEngine(db, newLogger(cfg), workers)

	stats, err := engine.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "submissions\t%d\n", stats.Submissions)
	fmt.Fprintf(w, "medias\t%d\n", stats.Medias)
	fmt.Fprintf(w, "albums\t%d\n", stats.Albums)
	fmt.Fprintf(w, "images\t%d\n", stats.Images)
	fmt.Fprintf(w, "album posts\t%d\n", stats.AlbumPosts)
	fmt.Fprintf(w, "media rollups\t%d\n", stats.MediaRollups)
	fmt.Fprintf(w, "submission rollups\t%d\n", stats.SubmissionRollups)
	fmt.Fprintf(w, "elapsed\t%s\n", stats.Elapsed.Round(time.Millisecond))
	return w.Flush()
}

func runReport(jsonOutput bool, limit int, subreddit, query, author string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	log := newLogger(cfg)
	ctx := context.Background()

	// Refresh first so the report reflects the current archive; a failure
	// still leaves the previous rollups readable.
	engine := rollup.NewEngine(db, log, cfg.Rollup.Workers)
	if _, err := engine.Refresh(ctx); err != nil {
		log.WithError(err).Warn("refresh failed, reporting stored rollups")
	}

	if limit == 0 {
		limit = cfg.Report.Limit
	}
	if subreddit == "" {
		subreddit = cfg.Report.Subreddit
	}
	if query == "" {
		query = cfg.Report.Query
	}

	rollups, err := db.ListSubmissionRollups(ctx, store.RollupListOpts{
		Subreddit: subreddit,
		Query:     query,
		Author:    author,
		Limit:     limit,
	})
	if err != nil {
		return fmt.Errorf("list rollups: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rollups)
	}

	if len(rollups) == 0 {
		fmt.Println("no rollups found (seed the archive, then: postroll refresh)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tAUTHOR\tALBUMS\tIMAGES\tTITLE")
	for _, r := range rollups {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.SubmissionID,
			time.Unix(r.CreatedUTC, 0).UTC().Format("2006-01-02"),
			r.Author,
			optInt(r.NAlbums),
			optInt(r.TotalImages),
			truncate(r.Title, 60))
	}
	return w.Flush()
}

func runShow(id string, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	sub, err := db.GetSubmissionRollup(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// Tell a missing submission apart from a stale rollup table.
		if _, subErr := db.GetSubmission(ctx, id); subErr == nil {
			return fmt.Errorf("no rollup for %s yet (run: postroll refresh)", id)
		}
		return fmt.Errorf("unknown submission %s", id)
	}
	if err != nil {
		return err
	}

	medias, err := db.ListMediaRollups(ctx, id)
	if err != nil {
		return err
	}

	if jsonOutput {
		out := struct {
			Submission *rollup.SubmissionRollup `json:"submission"`
			Medias     []rollup.MediaRollup     `json:"medias"`
		}{sub, medias}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", sub.SubmissionID)
	fmt.Fprintf(w, "title\t%s\n", sub.Title)
	fmt.Fprintf(w, "author\t%s\n", sub.Author)
	fmt.Fprintf(w, "created\t%s\n", time.Unix(sub.CreatedUTC, 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "comments\t%d\n", sub.Comments)
	fmt.Fprintf(w, "ups/downs\t%d/%d\n", sub.Ups, sub.Downs)
	fmt.Fprintf(w, "gilded\t%d\n", sub.Gilded)
	fmt.Fprintf(w, "albums\t%s\n", optInt(sub.NAlbums))
	fmt.Fprintf(w, "album views\t%s\n", optInt(sub.TotalAlbumViews))
	fmt.Fprintf(w, "images\t%s\n", optInt(sub.TotalImages))
	fmt.Fprintf(w, "image span\t%s .. %s\n", optDate(sub.FirstImageUploaded), optDate(sub.LastImageUploaded))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(medias) > 0 {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MEDIA\tIMAGES\tIMG VIEWS\tALBUM VIEWS\tFIRST\tLAST\tPOST")
		for _, m := range medias {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				m.MediaID,
				optInt(m.NImages),
				optInt(m.ImageViews),
				optInt(m.AlbumViews),
				optDate(m.FirstUploaded),
				optDate(m.LastUploaded),
				yesNo(m.Post != nil))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if sub.Posts != nil {
		fmt.Printf("\n%s\n", *sub.Posts)
	}
	return nil
}

func runStats() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	counts, err := db.Counts(ctx)
	if err != nil {
		return err
	}
	byQuery, err := db.CountBySearchQuery(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tROWS")
	fmt.Fprintf(w, "submissions\t%d\n", counts.Submissions)
	fmt.Fprintf(w, "medias\t%d\n", counts.Medias)
	fmt.Fprintf(w, "albums\t%d\n", counts.Albums)
	fmt.Fprintf(w, "images\t%d\n", counts.Images)
	fmt.Fprintf(w, "album_posts\t%d\n", counts.AlbumPosts)
	fmt.Fprintf(w, "media_rollups\t%d\n", counts.MediaRollups)
	fmt.Fprintf(w, "submission_rollups\t%d\n", counts.SubmissionRollups)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(byQuery) > 0 {
		queries := make([]string, 0, len(byQuery))
		for q := range byQuery {
			queries = append(queries, q)
		}
		sort.Strings(queries)

		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "QUERY\tSUBMISSIONS")
		for _, q := range queries {
			name := q
			if name == "" {
				name = "(none)"
			}
			fmt.Fprintf(w, "%s\t%d\n", name, byQuery[q])
		}
		return w.Flush()
	}
	return nil
}

func runCheck() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	var problems []string

	subs, err := db.ListSubmissions(ctx)
	if err != nil {
		return err
	}
	for i := range subs {
		if err := subs[i].Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("submission %s: %v", subs[i].ID, err))
		}
	}

	medias, err := db.ListMedias(ctx)
	if err != nil {
		return err
	}
	for i := range medias {
		if err := medias[i].Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("media %d (%s): %v", medias[i].ID, medias[i].URL, err))
		}
	}

	albums, err := db.ListAlbums(ctx)
	if err != nil {
		return err
	}
	for i := range albums {
		if err := albums[i].Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("album %s: %v", albums[i].ID, err))
		}
	}

	images, err := db.ListImages(ctx)
	if err != nil {
		return err
	}
	for i := range images {
		if err := images[i].Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("image %s: %v", images[i].ID, err))
		}
	}

	orphans, err := db.CountOrphans(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "invalid rows\t%d\n", len(problems))
	fmt.Fprintf(w, "medias without submission\t%d\n", orphans.MediasWithoutSubmission)
	fmt.Fprintf(w, "albums without media\t%d\n", orphans.AlbumsWithoutMedia)
	fmt.Fprintf(w, "images without media\t%d\n", orphans.ImagesWithoutMedia)
	fmt.Fprintf(w, "images with unknown album\t%d\n", orphans.ImagesWithUnknownAlbum)
	if err := w.Flush(); err != nil {
		return err
	}

	const maxShown = 20
	for i, p := range problems {
		if i == maxShown {
			fmt.Printf("... and %d more\n", len(problems)-maxShown)
			break
		}
		fmt.Println(p)
	}

	if total := int64(len(problems)) + orphans.Total(); total > 0 {
		return fmt.Errorf("found %d integrity problems", total)
	}
	fmt.Println("archive ok")
	return nil
}

func runWatch(interval time.Duration) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	log := newLogger(cfg)
	if interval <= 0 {
		interval = cfg.Schedule.ParseRefreshInterval()
	}

	engine := rollup.NewEngine(db, log, cfg.Rollup.Workers)
	sched := scheduler.New(engine, log, interval)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func optInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

// optDate renders an optional epoch-seconds value as a date.
func optDate(v *int64) string {
	if v == nil {
		return "-"
	}
	return time.Unix(*v, 0).UTC().Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
