package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/postroll/postroll/internal/store"
	"github.com/postroll/postroll/pkg/rollup"
)

// exportBundle is the single-document form written to stdout.
type exportBundle struct {
	AlbumPosts        []rollup.AlbumPost        `json:"album_posts"`
	MediaRollups      []rollup.MediaRollup      `json:"media_rollups"`
	SubmissionRollups []rollup.SubmissionRollup `json:"submission_rollups"`
}

func runExport(dir string, toStdout bool, format string) error {
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown format %q (want json or csv)", format)
	}
	if toStdout && format == "csv" {
		return fmt.Errorf("csv export needs --dir")
	}

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

	posts, err := db.ListAlbumPosts(ctx)
	if err != nil {
		return err
	}
	medias, err := db.ListMediaRollups(ctx, "")
	if err != nil {
		return err
	}
	subs, err := db.ListSubmissionRollups(ctx, store.RollupListOpts{Limit: -1})
	if err != nil {
		return err
	}

	if toStdout {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(exportBundle{posts, medias, subs})
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir %s: %w", dir, err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"album_posts." + format, func(w io.Writer) error {
			if format == "csv" {
				return writeAlbumPostsCSV(w, posts)
			}
			return writeJSON(w, posts)
		}},
		{"media_rollups." + format, func(w io.Writer) error {
			if format == "csv" {
				return writeMediaRollupsCSV(w, medias)
			}
			return writeJSON(w, medias)
		}},
		{"submission_rollups." + format, func(w io.Writer) error {
			if format == "csv" {
				return writeSubmissionRollupsCSV(w, subs)
			}
			return writeJSON(w, subs)
		}},
	}

	log := newLogger(cfg)
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := f.write(out); err != nil {
			out.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		log.WithField("path", path).Info("wrote export")
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeAlbumPostsCSV(w io.Writer, posts []rollup.AlbumPost) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"media_id", "post"}); err != nil {
		return err
	}
	for _, p := range posts {
		if err := cw.Write([]string{strconv.FormatInt(p.MediaID, 10), p.Post}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeMediaRollupsCSV(w io.Writer, rollups []rollup.MediaRollup) error {
	cw := csv.NewWriter(w)
	header := []string{
		"media_id", "submission_id", "album_uploaded", "album_views",
		"n_images", "has_album", "image_views", "first_uploaded",
		"last_uploaded", "post",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range rollups {
		rec := []string{
			strconv.FormatInt(m.MediaID, 10),
			m.SubmissionID,
			csvInt(m.AlbumUploaded),
			csvInt(m.AlbumViews),
			csvInt(m.NImages),
			csvBool(m.HasAlbum),
			csvInt(m.ImageViews),
			csvInt(m.FirstUploaded),
			csvInt(m.LastUploaded),
			csvStr(m.Post),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSubmissionRollupsCSV(w io.Writer, rollups []rollup.SubmissionRollup) error {
	cw := csv.NewWriter(w)
	header := []string{
		"submission_id", "title", "author", "created_utc", "selftext_html",
		"comments", "gilded", "downs", "ups", "n_albums",
		"first_album_uploaded", "last_album_uploaded", "total_album_views",
		"total_images", "first_image_uploaded", "last_image_uploaded", "posts",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rollups {
		rec := []string{
			r.SubmissionID,
			r.Title,
			r.Author,
			strconv.FormatInt(r.CreatedUTC, 10),
			csvStr(r.SelftextHTML),
			strconv.FormatInt(r.Comments, 10),
			strconv.FormatInt(r.Gilded, 10),
			strconv.FormatInt(r.Downs, 10),
			strconv.FormatInt(r.Ups, 10),
			csvInt(r.NAlbums),
			csvInt(r.FirstAlbumUploaded),
			csvInt(r.LastAlbumUploaded),
			csvInt(r.TotalAlbumViews),
			csvInt(r.TotalImages),
			csvInt(r.FirstImageUploaded),
			csvInt(r.LastImageUploaded),
			csvStr(r.Posts),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Absent values become empty cells.
func csvInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func csvBool(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "1"
	}
	return "0"
}

func csvStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
