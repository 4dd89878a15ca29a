package rollup

import "github.com/postroll/postroll/pkg/archive"

// BuildSubmissionRollups produces one rollup per submission, merging the
// submission's own fields with aggregates over its media rollups. A
// submission without media keeps its row with every aggregate nil. Media
// rollups referencing unknown submission ids are skipped. Output order
// follows the submissions input.
func BuildSubmissionRollups(submissions []archive.Submission, rollups []MediaRollup) []SubmissionRollup {
	grouped := groupRollupsBySubmission(rollups)
	out := make([]SubmissionRollup, 0, len(submissions))
	for _, sub := range submissions {
		out = append(out, buildSubmissionRollup(sub, grouped[sub.ID]))
	}
	return out
}

// groupRollupsBySubmission indexes media rollups by submission id,
// preserving input order within each group.
func groupRollupsBySubmission(rollups []MediaRollup) map[string][]MediaRollup {
	grouped := make(map[string][]MediaRollup)
	for _, r := range rollups {
		grouped[r.SubmissionID] = append(grouped[r.SubmissionID], r)
	}
	return grouped
}

func buildSubmissionRollup(sub archive.Submission, group []MediaRollup) SubmissionRollup {
	r := SubmissionRollup{
		SubmissionID: sub.ID,
		Title:        sub.Title,
		Author:       sub.Author,
		CreatedUTC:   sub.CreatedUTC,
		SelftextHTML: sub.SelftextHTML,
		Comments:     sub.Comments,
		Gilded:       sub.Gilded,
		Downs:        sub.Downs,
		Ups:          sub.Ups,
	}
	if len(group) == 0 {
		return r
	}

	hasAlbums := make([]*bool, 0, len(group))
	albumUploads := make([]*int64, 0, len(group))
	albumViews := make([]*int64, 0, len(group))
	nImages := make([]*int64, 0, len(group))
	firstUploads := make([]*int64, 0, len(group))
	lastUploads := make([]*int64, 0, len(group))
	posts := make([]*string, 0, len(group))
	for _, m := range group {
		hasAlbums = append(hasAlbums, m.HasAlbum)
		albumUploads = append(albumUploads, m.AlbumUploaded)
		albumViews = append(albumViews, m.AlbumViews)
		nImages = append(nImages, m.NImages)
		firstUploads = append(firstUploads, m.FirstUploaded)
		lastUploads = append(lastUploads, m.LastUploaded)
		posts = append(posts, m.Post)
	}

	r.NAlbums = sumBools(hasAlbums)
	r.FirstAlbumUploaded = minInt64s(albumUploads)
	r.LastAlbumUploaded = maxInt64s(albumUploads)
	r.TotalAlbumViews = sumInt64s(albumViews)
	r.TotalImages = sumInt64s(nImages)
	r.FirstImageUploaded = minInt64s(firstUploads)
	r.LastImageUploaded = maxInt64s(lastUploads)
	if joined := joinPresent(posts, "\n\n"); joined != nil {
		trimmed := trimNewlines(*joined)
		r.Posts = &trimmed
	}
	return r
}
