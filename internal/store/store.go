package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/postroll/postroll/pkg/archive"
	"github.com/postroll/postroll/pkg/rollup"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// RollupListOpts controls submission rollup listing. Subreddit and Query
// filter through the submissions table because the rollup projection drops
// both columns. Limit 0 applies the default of 50; a negative Limit lists
// everything.
type RollupListOpts struct {
	Subreddit string
	Query     string
	Author    string
	Limit     int
}

// Counts holds per-table row counts.
type Counts struct {
	Submissions int64 `json:"submissions"`
	Medias      int64 `json:"medias"`
	Albums      int64 `json:"albums"`
	Images      int64 `json:"images"`

	AlbumPosts        int64 `json:"album_posts"`
	MediaRollups      int64 `json:"media_rollups"`
	SubmissionRollups int64 `json:"submission_rollups"`
}

// OrphanCounts holds rows whose back-reference points nowhere. Orphans are
// legal (references are soft) but invisible to the rollups, so they are
// worth surfacing.
type OrphanCounts struct {
	MediasWithoutSubmission int64 `json:"medias_without_submission"`
	AlbumsWithoutMedia      int64 `json:"albums_without_media"`
	ImagesWithoutMedia      int64 `json:"images_without_media"`
	ImagesWithUnknownAlbum  int64 `json:"images_with_unknown_album"`
}

// Total sums all orphan categories.
func (o OrphanCounts) Total() int64 {
	return o.MediasWithoutSubmission + o.AlbumsWithoutMedia +
		o.ImagesWithoutMedia + o.ImagesWithUnknownAlbum
}

// Store is the persistence interface.
type Store interface {
	UpsertSubmission(ctx context.Context, sub *archive.Submission) error
	UpsertSubmissions(ctx context.Context, subs []archive.Submission) error
	UpsertMedia(ctx context.Context, m *archive.Media) error
	UpsertAlbum(ctx context.Context, a *archive.Album) error
	UpsertImage(ctx context.Context, img *archive.Image) error

	GetSubmission(ctx context.Context, id string) (*archive.Submission, error)
	ListSubmissions(ctx context.Context) ([]archive.Submission, error)
	ListMedias(ctx context.Context) ([]archive.Media, error)
	ListAlbums(ctx context.Context) ([]archive.Album, error)
	ListImages(ctx context.Context) ([]archive.Image, error)

	ReplaceRollups(ctx context.Context, posts []rollup.AlbumPost, medias []rollup.MediaRollup, submissions []rollup.SubmissionRollup) error
	ListAlbumPosts(ctx context.Context) ([]rollup.AlbumPost, error)
	ListMediaRollups(ctx context.Context, submissionID string) ([]rollup.MediaRollup, error)
	GetSubmissionRollup(ctx context.Context, id string) (*rollup.SubmissionRollup, error)
	ListSubmissionRollups(ctx context.Context, opts RollupListOpts) ([]rollup.SubmissionRollup, error)

	Counts(ctx context.Context) (Counts, error)
	CountBySearchQuery(ctx context.Context) (map[string]int, error)
	CountOrphans(ctx context.Context) (OrphanCounts, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertSubmission inserts a submission, ignoring duplicates on id or
// permalink. Existing rows are never updated; the archive only grows.
func (s *SQLiteStore) UpsertSubmission(ctx context.Context, sub *archive.Submission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, title, author, subreddit, permalink, created_utc, selftext_html, comments, gilded, downs, ups, score, search_query, date_created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, sub.ID, sub.Title, sub.Author, sub.Subreddit, sub.Permalink,
		sub.CreatedUTC, sub.SelftextHTML, sub.Comments, sub.Gilded,
		sub.Downs, sub.Ups, sub.Score, sub.SearchQuery, sub.DateCreated)
	if err != nil {
		return fmt.Errorf("upsert submission %s: %w", sub.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertSubmissions(ctx context.Context, subs []archive.Submission) error {
	for i := range subs {
		if err := s.UpsertSubmission(ctx, &subs[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpsertMedia inserts a media row, ignoring duplicates on
// (submission_id, url). When the surrogate id is unset it is resolved
// through the unique key afterwards, whether or not the insert took.
func (s *SQLiteStore) UpsertMedia(ctx context.Context, m *archive.Media) error {
	if m.ID > 0 {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO medias (id, submission_id, url, is_direct, txt)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, m.ID, m.SubmissionID, m.URL, m.IsDirect, m.Txt)
		if err != nil {
			return fmt.Errorf("upsert media %d: %w", m.ID, err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO medias (submission_id, url, is_direct, txt)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, m.SubmissionID, m.URL, m.IsDirect, m.Txt)
	if err != nil {
		return fmt.Errorf("upsert media %s: %w", m.URL, err)
	}
	if err := s.db.GetContext(ctx, &m.ID,
		"SELECT id FROM medias WHERE submission_id = ? AND url = ?",
		m.SubmissionID, m.URL); err != nil {
		return fmt.Errorf("resolve media id %s: %w", m.URL, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertAlbum(ctx context.Context, a *archive.Album) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO albums (id, media_id, title, description, uploaded_utc, url, views)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, a.ID, a.MediaID, a.Title, a.Description, a.UploadedUTC, a.URL, a.Views)
	if err != nil {
		return fmt.Errorf("upsert album %s: %w", a.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertImage(ctx context.Context, img *archive.Image) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (id, media_id, album_id, title, description, uploaded_utc, mimetype, url, views, img)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, img.ID, img.MediaID, img.AlbumID, img.Title, img.Description,
		img.UploadedUTC, img.Mimetype, img.URL, img.Views, img.Payload)
	if err != nil {
		return fmt.Errorf("upsert image %s: %w", img.ID, err)
	}
	return nil
}

func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*archive.Submission, error) {
	var sub archive.Submission
	err := s.db.GetContext(ctx, &sub, "SELECT * FROM submissions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission %s: %w", id, err)
	}
	return &sub, nil
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context) ([]archive.Submission, error) {
	var subs []archive.Submission
	if err := s.db.SelectContext(ctx, &subs, "SELECT * FROM submissions ORDER BY rowid"); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

func (s *SQLiteStore) ListMedias(ctx context.Context) ([]archive.Media, error) {
	var medias []archive.Media
	if err := s.db.SelectContext(ctx, &medias, "SELECT * FROM medias ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list medias: %w", err)
	}
	return medias, nil
}

func (s *SQLiteStore) ListAlbums(ctx context.Context) ([]archive.Album, error) {
	var albums []archive.Album
	if err := s.db.SelectContext(ctx, &albums, "SELECT * FROM albums ORDER BY rowid"); err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	return albums, nil
}

func (s *SQLiteStore) ListImages(ctx context.Context) ([]archive.Image, error) {
	var images []archive.Image
	if err := s.db.SelectContext(ctx, &images, "SELECT * FROM images ORDER BY rowid"); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// ReplaceRollups swaps the three derived tables for the given rows in one
// transaction. Readers never observe a half-refreshed state.
func (s *SQLiteStore) ReplaceRollups(ctx context.Context, posts []rollup.AlbumPost, medias []rollup.MediaRollup, submissions []rollup.SubmissionRollup) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rollup tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"album_posts", "media_rollups", "submission_rollups"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, p := range posts {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO album_posts (media_id, post) VALUES (?, ?)",
			p.MediaID, p.Post); err != nil {
			return fmt.Errorf("insert album post %d: %w", p.MediaID, err)
		}
	}
	for i := range medias {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO media_rollups (media_id, submission_id, album_uploaded, album_views, n_images, has_album, image_views, first_uploaded, last_uploaded, post)
			VALUES (:media_id, :submission_id, :album_uploaded, :album_views, :n_images, :has_album, :image_views, :first_uploaded, :last_uploaded, :post)
		`, medias[i]); err != nil {
			return fmt.Errorf("insert media rollup %d: %w", medias[i].MediaID, err)
		}
	}
	for i := range submissions {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO submission_rollups (submission_id, title, author, created_utc, selftext_html, comments, gilded, downs, ups, n_albums, first_album_uploaded, last_album_uploaded, total_album_views, total_images, first_image_uploaded, last_image_uploaded, posts)
			VALUES (:submission_id, :title, :author, :created_utc, :selftext_html, :comments, :gilded, :downs, :ups, :n_albums, :first_album_uploaded, :last_album_uploaded, :total_album_views, :total_images, :first_image_uploaded, :last_image_uploaded, :posts)
		`, submissions[i]); err != nil {
			return fmt.Errorf("insert submission rollup %s: %w", submissions[i].SubmissionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rollup tx: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAlbumPosts(ctx context.Context) ([]rollup.AlbumPost, error) {
	var posts []rollup.AlbumPost
	if err := s.db.SelectContext(ctx, &posts, "SELECT * FROM album_posts ORDER BY media_id"); err != nil {
		return nil, fmt.Errorf("list album posts: %w", err)
	}
	return posts, nil
}

// ListMediaRollups returns the rollups for one submission, or for the whole
// archive when submissionID is empty.
func (s *SQLiteStore) ListMediaRollups(ctx context.Context, submissionID string) ([]rollup.MediaRollup, error) {
	query := "SELECT * FROM media_rollups"
	var args []any
	if submissionID != "" {
		query += " WHERE submission_id = ?"
		args = append(args, submissionID)
	}
	query += " ORDER BY media_id"

	var rollups []rollup.MediaRollup
	if err := s.db.SelectContext(ctx, &rollups, query, args...); err != nil {
		return nil, fmt.Errorf("list media rollups: %w", err)
	}
	return rollups, nil
}

func (s *SQLiteStore) GetSubmissionRollup(ctx context.Context, id string) (*rollup.SubmissionRollup, error) {
	var r rollup.SubmissionRollup
	err := s.db.GetContext(ctx, &r, "SELECT * FROM submission_rollups WHERE submission_id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission rollup %s: %w", id, err)
	}
	return &r, nil
}

func (s *SQLiteStore) ListSubmissionRollups(ctx context.Context, opts RollupListOpts) ([]rollup.SubmissionRollup, error) {
	query := "SELECT r.* FROM submission_rollups r"
	var args []any

	if opts.Subreddit != "" || opts.Query != "" {
		query += " JOIN submissions s ON s.id = r.submission_id"
	}
	query += " WHERE 1=1"
	if opts.Subreddit != "" {
		query += " AND s.subreddit = ?"
		args = append(args, opts.Subreddit)
	}
	if opts.Query != "" {
		query += " AND s.search_query = ?"
		args = append(args, opts.Query)
	}
	if opts.Author != "" {
		query += " AND r.author = ?"
		args = append(args, opts.Author)
	}

	query += " ORDER BY r.created_utc DESC"

	limit := opts.Limit
	if limit == 0 {
		limit = 50
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rollups []rollup.SubmissionRollup
	if err := s.db.SelectContext(ctx, &rollups, query, args...); err != nil {
		return nil, fmt.Errorf("list submission rollups: %w", err)
	}
	return rollups, nil
}

func (s *SQLiteStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	tables := []struct {
		name string
		dst  *int64
	}{
		{"submissions", &c.Submissions},
		{"medias", &c.Medias},
		{"albums", &c.Albums},
		{"images", &c.Images},
		{"album_posts", &c.AlbumPosts},
		{"media_rollups", &c.MediaRollups},
		{"submission_rollups", &c.SubmissionRollups},
	}
	for _, t := range tables {
		if err := s.db.GetContext(ctx, t.dst, "SELECT COUNT(*) FROM "+t.name); err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", t.name, err)
		}
	}
	return c, nil
}

func (s *SQLiteStore) CountBySearchQuery(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT search_query, COUNT(*) as cnt FROM submissions GROUP BY search_query")
	if err != nil {
		return nil, fmt.Errorf("count submissions by query: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var query string
		var cnt int
		if err := rows.Scan(&query, &cnt); err != nil {
			return nil, err
		}
		counts[query] = cnt
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) CountOrphans(ctx context.Context) (OrphanCounts, error) {
	var o OrphanCounts
	queries := []struct {
		what  string
		query string
		dst   *int64
	}{
		{"orphan medias",
			"SELECT COUNT(*) FROM medias WHERE submission_id NOT IN (SELECT id FROM submissions)",
			&o.MediasWithoutSubmission},
		{"orphan albums",
			"SELECT COUNT(*) FROM albums WHERE media_id NOT IN (SELECT id FROM medias)",
			&o.AlbumsWithoutMedia},
		{"orphan images",
			"SELECT COUNT(*) FROM images WHERE media_id NOT IN (SELECT id FROM medias)",
			&o.ImagesWithoutMedia},
		{"dangling album refs",
			"SELECT COUNT(*) FROM images WHERE album_id IS NOT NULL AND album_id NOT IN (SELECT id FROM albums)",
			&o.ImagesWithUnknownAlbum},
	}
	for _, q := range queries {
		if err := s.db.GetContext(ctx, q.dst, q.query); err != nil {
			return OrphanCounts{}, fmt.Errorf("count %s: %w", q.what, err)
		}
	}
	return o, nil
}
