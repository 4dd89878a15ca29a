package rollup

import "github.com/postroll/postroll/pkg/archive"

// BuildMediaRollups produces exactly one rollup per media row. Albums,
// images and posts attach with left-outer-join semantics: a media link
// without them keeps its row, with the corresponding fields nil. Orphaned
// albums, images and posts referencing unknown media ids are skipped.
// Output order follows the medias input.
func BuildMediaRollups(medias []archive.Media, albums []archive.Album, images []archive.Image, posts []AlbumPost) []MediaRollup {
	albumsByMedia := archive.GroupAlbumsByMedia(albums)
	imagesByMedia := archive.GroupImagesByMedia(images)

	postByMedia := make(map[int64]string, len(posts))
	for _, p := range posts {
		if _, ok := postByMedia[p.MediaID]; ok {
			continue
		}
		postByMedia[p.MediaID] = p.Post
	}

	rollups := make([]MediaRollup, 0, len(medias))
	for _, media := range medias {
		r := MediaRollup{MediaID: media.ID, SubmissionID: media.SubmissionID}

		if group := albumsByMedia[media.ID]; len(group) > 0 {
			album := group[0]
			r.AlbumUploaded = &album.UploadedUTC
			r.AlbumViews = &album.Views
		}

		if group := imagesByMedia[media.ID]; len(group) > 0 {
			n := int64(len(group))
			r.NImages = &n

			hasAlbum := false
			views := make([]*int64, 0, len(group))
			uploads := make([]*int64, 0, len(group))
			for _, img := range group {
				if img.AlbumID != nil {
					hasAlbum = true
				}
				views = append(views, img.Views)
				uploads = append(uploads, img.UploadedUTC)
			}
			r.HasAlbum = &hasAlbum
			r.ImageViews = sumInt64s(views)
			r.FirstUploaded = minInt64s(uploads)
			r.LastUploaded = maxInt64s(uploads)
		}

		if post, ok := postByMedia[media.ID]; ok {
			p := post
			r.Post = &p
		}

		rollups = append(rollups, r)
	}
	return rollups
}
