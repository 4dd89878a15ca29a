package rollup

import (
	"testing"

	"github.com/postroll/postroll/pkg/archive"
)

func TestBuildMediaRollupsBareMedia(t *testing.T) {
	medias := []archive.Media{{ID: 1, SubmissionID: "s1", URL: "http://example.com/x"}}

	rollups := BuildMediaRollups(medias, nil, nil, nil)
	if len(rollups) != 1 {
		t.Fatalf("got %d rollups, want 1", len(rollups))
	}
	r := rollups[0]
	if r.MediaID != 1 || r.SubmissionID != "s1" {
		t.Errorf("keys = (%d, %q), want (1, %q)", r.MediaID, r.SubmissionID, "s1")
	}
	if r.AlbumUploaded != nil || r.AlbumViews != nil {
		t.Error("album fields should be nil without an album")
	}
	if r.NImages != nil || r.HasAlbum != nil || r.ImageViews != nil ||
		r.FirstUploaded != nil || r.LastUploaded != nil {
		t.Error("image aggregates should be nil without images")
	}
	if r.Post != nil {
		t.Error("post should be nil without an album post")
	}
}

func TestBuildMediaRollupsAggregates(t *testing.T) {
	medias := []archive.Media{{ID: 1, SubmissionID: "s1"}}
	albums := []archive.Album{{ID: "alb1", MediaID: 1, UploadedUTC: 500, Views: 900}}
	images := []archive.Image{
		{ID: "img1", MediaID: 1, AlbumID: strp("alb1"), UploadedUTC: i64p(30), Views: i64p(10)},
		{ID: "img2", MediaID: 1, UploadedUTC: i64p(10), Views: i64p(5)},
		{ID: "img3", MediaID: 1, UploadedUTC: nil, Views: nil},
	}
	posts := []AlbumPost{{MediaID: 1, Post: "combined"}}

	rollups := BuildMediaRollups(medias, albums, images, posts)
	if len(rollups) != 1 {
		t.Fatalf("got %d rollups, want 1", len(rollups))
	}
	r := rollups[0]
	if r.AlbumUploaded == nil || *r.AlbumUploaded != 500 {
		t.Errorf("album uploaded = %v, want 500", r.AlbumUploaded)
	}
	if r.AlbumViews == nil || *r.AlbumViews != 900 {
		t.Errorf("album views = %v, want 900", r.AlbumViews)
	}
	if r.NImages == nil || *r.NImages != 3 {
		t.Errorf("n images = %v, want 3", r.NImages)
	}
	if r.HasAlbum == nil || !*r.HasAlbum {
		t.Errorf("has album = %v, want true", r.HasAlbum)
	}
	if r.ImageViews == nil || *r.ImageViews != 15 {
		t.Errorf("image views = %v, want 15", r.ImageViews)
	}
	if r.FirstUploaded == nil || *r.FirstUploaded != 10 {
		t.Errorf("first uploaded = %v, want 10", r.FirstUploaded)
	}
	if r.LastUploaded == nil || *r.LastUploaded != 30 {
		t.Errorf("last uploaded = %v, want 30", r.LastUploaded)
	}
	if r.Post == nil || *r.Post != "combined" {
		t.Errorf("post = %v, want combined", r.Post)
	}
}

func TestBuildMediaRollupsAllNilValuesStayNil(t *testing.T) {
	medias := []archive.Media{{ID: 1, SubmissionID: "s1"}}
	images := []archive.Image{
		{ID: "img1", MediaID: 1},
		{ID: "img2", MediaID: 1},
	}

	r := BuildMediaRollups(medias, nil, images, nil)[0]
	if r.NImages == nil || *r.NImages != 2 {
		t.Fatalf("n images = %v, want 2", r.NImages)
	}
	// Counting works, but sums and extremes over all-nil inputs are nil,
	// not zero.
	if r.ImageViews != nil {
		t.Errorf("image views = %v, want nil", r.ImageViews)
	}
	if r.FirstUploaded != nil || r.LastUploaded != nil {
		t.Error("upload extremes should be nil when every image lacks one")
	}
	if r.HasAlbum == nil || *r.HasAlbum {
		t.Errorf("has album = %v, want false", r.HasAlbum)
	}
}

func TestBuildMediaRollupsHasAlbumTracksImageRefs(t *testing.T) {
	// An album row alone does not set the flag; only images referencing an
	// album do.
	medias := []archive.Media{{ID: 1, SubmissionID: "s1"}}
	albums := []archive.Album{{ID: "alb1", MediaID: 1, UploadedUTC: 5, Views: 6}}
	images := []archive.Image{{ID: "img1", MediaID: 1, AlbumID: nil}}

	r := BuildMediaRollups(medias, albums, images, nil)[0]
	if r.AlbumUploaded == nil {
		t.Fatal("album fields should come from the album row")
	}
	if r.HasAlbum == nil || *r.HasAlbum {
		t.Errorf("has album = %v, want false when no image references one", r.HasAlbum)
	}
}

func TestBuildMediaRollupsSkipsOrphans(t *testing.T) {
	medias := []archive.Media{{ID: 1, SubmissionID: "s1"}}
	albums := []archive.Album{{ID: "alb9", MediaID: 99, UploadedUTC: 1, Views: 2}}
	images := []archive.Image{{ID: "img9", MediaID: 99, Views: i64p(7)}}
	posts := []AlbumPost{{MediaID: 99, Post: "orphan"}}

	rollups := BuildMediaRollups(medias, albums, images, posts)
	if len(rollups) != 1 {
		t.Fatalf("got %d rollups, want 1", len(rollups))
	}
	r := rollups[0]
	if r.AlbumUploaded != nil || r.NImages != nil || r.Post != nil {
		t.Errorf("orphaned children must not attach: %+v", r)
	}
}

func TestBuildMediaRollupsKeepsInputOrder(t *testing.T) {
	medias := []archive.Media{
		{ID: 3, SubmissionID: "s1"},
		{ID: 1, SubmissionID: "s2"},
		{ID: 2, SubmissionID: "s1"},
	}

	rollups := BuildMediaRollups(medias, nil, nil, nil)
	want := []int64{3, 1, 2}
	for i, r := range rollups {
		if r.MediaID != want[i] {
			t.Errorf("rollup[%d].MediaID = %d, want %d", i, r.MediaID, want[i])
		}
	}
}
