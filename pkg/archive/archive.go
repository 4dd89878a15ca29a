// Package archive defines the source relations of a scraped-submission
// archive: submissions, the media links found on them, and the albums and
// images fetched for those links. Rows reference their parents through soft
// back-references (ids), never owning pointers; deleting a submission leaves
// its media, albums and images in place.
package archive

// Submission is one archived search result. Counters are point-in-time
// values captured at scrape time.
type Submission struct {
	ID           string  `json:"id" db:"id"`
	Title        string  `json:"title" db:"title"`
	Author       string  `json:"author" db:"author"`
	Subreddit    string  `json:"subreddit" db:"subreddit"`
	Permalink    string  `json:"permalink" db:"permalink"`
	CreatedUTC   int64   `json:"created_utc" db:"created_utc"`
	SelftextHTML *string `json:"selftext_html" db:"selftext_html"`
	Comments     int64   `json:"comments" db:"comments"`
	Gilded       int64   `json:"gilded" db:"gilded"`
	Downs        int64   `json:"downs" db:"downs"`
	Ups          int64   `json:"ups" db:"ups"`
	Score        int64   `json:"score" db:"score"`
	SearchQuery  string  `json:"search_query" db:"search_query"`
	DateCreated  string  `json:"date_created" db:"date_created"`
}

// Media is a link to hosted media found on a submission, either in its
// metadata (direct) or in its body (indirect, with the anchor text in Txt).
// The ID is a store-assigned surrogate.
type Media struct {
	ID           int64   `json:"id" db:"id"`
	SubmissionID string  `json:"submission_id" db:"submission_id"`
	URL          string  `json:"url" db:"url"`
	IsDirect     bool    `json:"is_direct" db:"is_direct"`
	Txt          *string `json:"txt" db:"txt"`
}

// Album is hosted-album metadata for a media link. A media link has at most
// one album; an album belongs to exactly one media link.
type Album struct {
	ID          string  `json:"id" db:"id"`
	MediaID     int64   `json:"media_id" db:"media_id"`
	Title       *string `json:"title" db:"title"`
	Description *string `json:"description" db:"description"`
	UploadedUTC int64   `json:"uploaded_utc" db:"uploaded_utc"`
	URL         string  `json:"url" db:"url"`
	Views       int64   `json:"views" db:"views"`
}

// Image is a fetched image for a media link. AlbumID is set when the image
// was part of an album, nil for standalones. Payload holds the image bytes
// when the fetch succeeded; metadata-only rows leave it nil.
type Image struct {
	ID          string  `json:"id" db:"id"`
	MediaID     int64   `json:"media_id" db:"media_id"`
	AlbumID     *string `json:"album_id" db:"album_id"`
	Title       *string `json:"title" db:"title"`
	Description *string `json:"description" db:"description"`
	UploadedUTC *int64  `json:"uploaded_utc" db:"uploaded_utc"`
	Mimetype    *string `json:"mimetype" db:"mimetype"`
	URL         string  `json:"url" db:"url"`
	Views       *int64  `json:"views" db:"views"`
	Payload     []byte  `json:"-" db:"img"`
}

// GroupImagesByMedia keys images by media id, preserving input order within
// each group.
func GroupImagesByMedia(images []Image) map[int64][]Image {
	groups := make(map[int64][]Image)
	for _, img := range images {
		groups[img.MediaID] = append(groups[img.MediaID], img)
	}
	return groups
}

// GroupAlbumsByMedia keys albums by media id, preserving input order. The
// model allows at most one album per media; extra rows are kept here so
// callers can apply a first-wins policy explicitly.
func GroupAlbumsByMedia(albums []Album) map[int64][]Album {
	groups := make(map[int64][]Album)
	for _, a := range albums {
		groups[a.MediaID] = append(groups[a.MediaID], a)
	}
	return groups
}

// GroupMediasBySubmission keys media links by submission id, preserving
// input order within each group.
func GroupMediasBySubmission(medias []Media) map[string][]Media {
	groups := make(map[string][]Media)
	for _, m := range medias {
		groups[m.SubmissionID] = append(groups[m.SubmissionID], m)
	}
	return groups
}
