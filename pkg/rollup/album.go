package rollup

import "github.com/postroll/postroll/pkg/archive"

// BuildAlbumPosts derives one post per media link from that link's first
// album and the descriptions of all its images. Albums whose images carry
// no description text are dropped rather than emitted empty. Input order is
// preserved in the output.
func BuildAlbumPosts(albums []archive.Album, images []archive.Image) []AlbumPost {
	imagesByMedia := archive.GroupImagesByMedia(images)
	seen := make(map[int64]bool, len(albums))
	posts := make([]AlbumPost, 0, len(albums))
	for _, album := range albums {
		if seen[album.MediaID] {
			continue
		}
		seen[album.MediaID] = true
		post, ok := albumPost(album, imagesByMedia[album.MediaID])
		if !ok {
			continue
		}
		posts = append(posts, AlbumPost{MediaID: album.MediaID, Post: post})
	}
	return posts
}

// albumPost combines the album's own text with its images' descriptions.
// The second return is false when no image description survives, in which
// case the album contributes nothing at all.
func albumPost(album archive.Album, images []archive.Image) (string, bool) {
	body := trimNewlines(orEmpty(album.Title) + "\n" + orEmpty(album.Description))

	descs := make([]*string, 0, len(images))
	for _, img := range images {
		descs = append(descs, img.Description)
	}
	joined := joinPresent(descs, "\n")
	if joined == nil {
		return "", false
	}
	imagePost := trimNewlines(*joined)
	if imagePost == "" {
		return "", false
	}
	return body + "\n" + imagePost, true
}
