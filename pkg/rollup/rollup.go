// Package rollup derives the reporting relations of the archive: album
// posts, media rollups and submission rollups. The builders are pure
// functions over fully materialized input slices; they never mutate their
// inputs and follow left-outer-join semantics throughout, so a missing child
// relation surfaces as nil fields rather than a dropped or zeroed row.
//
// Derived rows are caches: the Engine recomputes and replaces them wholesale
// on every refresh, and nothing treats them as a source of truth.
package rollup

// AlbumPost is the combined text of an album and its images' descriptions,
// keyed by the album's media link. Albums whose images contribute no
// description text produce no AlbumPost at all.
type AlbumPost struct {
	MediaID int64  `json:"media_id" db:"media_id"`
	Post    string `json:"post" db:"post"`
}

// MediaRollup is the per-media summary row. Image aggregates are nil when
// the media link has no images; album fields are nil when it has no album.
type MediaRollup struct {
	MediaID      int64  `json:"media_id" db:"media_id"`
	SubmissionID string `json:"submission_id" db:"submission_id"`

	AlbumUploaded *int64 `json:"album_uploaded" db:"album_uploaded"`
	AlbumViews    *int64 `json:"album_views" db:"album_views"`

	NImages *int64 `json:"n_images" db:"n_images"`
	// HasAlbum reports whether any of the media's images references an
	// album, not whether an album row exists for the media.
	HasAlbum      *bool   `json:"has_album" db:"has_album"`
	ImageViews    *int64  `json:"image_views" db:"image_views"`
	FirstUploaded *int64  `json:"first_uploaded" db:"first_uploaded"`
	LastUploaded  *int64  `json:"last_uploaded" db:"last_uploaded"`
	Post          *string `json:"post" db:"post"`
}

// SubmissionRollup is the per-submission summary row, merging submission
// metadata with aggregates over its media rollups. A submission without
// media keeps every aggregate nil. Score is deliberately absent from the
// projection.
type SubmissionRollup struct {
	SubmissionID string  `json:"submission_id" db:"submission_id"`
	Title        string  `json:"title" db:"title"`
	Author       string  `json:"author" db:"author"`
	CreatedUTC   int64   `json:"created_utc" db:"created_utc"`
	SelftextHTML *string `json:"selftext_html" db:"selftext_html"`
	Comments     int64   `json:"comments" db:"comments"`
	Gilded       int64   `json:"gilded" db:"gilded"`
	Downs        int64   `json:"downs" db:"downs"`
	Ups          int64   `json:"ups" db:"ups"`

	NAlbums            *int64 `json:"n_albums" db:"n_albums"`
	FirstAlbumUploaded *int64 `json:"first_album_uploaded" db:"first_album_uploaded"`
	LastAlbumUploaded  *int64 `json:"last_album_uploaded" db:"last_album_uploaded"`
	TotalAlbumViews    *int64 `json:"total_album_views" db:"total_album_views"`
	TotalImages        *int64 `json:"total_images" db:"total_images"`
	// FirstImageUploaded and LastImageUploaded are the min and max over
	// the per-media first/last upload times, skipping medias without
	// images.
	FirstImageUploaded *int64  `json:"first_image_uploaded" db:"first_image_uploaded"`
	LastImageUploaded  *int64  `json:"last_image_uploaded" db:"last_image_uploaded"`
	Posts              *string `json:"posts" db:"posts"`
}
