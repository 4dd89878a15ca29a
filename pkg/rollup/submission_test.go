package rollup

import (
	"testing"

	"github.com/postroll/postroll/pkg/archive"
)

func boolp(b bool) *bool { return &b }

func TestBuildSubmissionRollupsNoMedia(t *testing.T) {
	subs := []archive.Submission{{
		ID:           "s1",
		Title:        "a title",
		Author:       "someone",
		CreatedUTC:   1234,
		SelftextHTML: strp("<p>hi</p>"),
		Comments:     3,
		Gilded:       1,
		Downs:        2,
		Ups:          40,
		Score:        38,
	}}

	rollups := BuildSubmissionRollups(subs, nil)
	if len(rollups) != 1 {
		t.Fatalf("got %d rollups, want 1", len(rollups))
	}
	r := rollups[0]
	if r.SubmissionID != "s1" || r.Title != "a title" || r.Author != "someone" {
		t.Errorf("metadata not carried over: %+v", r)
	}
	if r.CreatedUTC != 1234 || r.Comments != 3 || r.Gilded != 1 || r.Downs != 2 || r.Ups != 40 {
		t.Errorf("counters not carried over: %+v", r)
	}
	if r.SelftextHTML == nil || *r.SelftextHTML != "<p>hi</p>" {
		t.Errorf("selftext = %v, want <p>hi</p>", r.SelftextHTML)
	}
	if r.NAlbums != nil || r.FirstAlbumUploaded != nil || r.LastAlbumUploaded != nil ||
		r.TotalAlbumViews != nil || r.TotalImages != nil ||
		r.FirstImageUploaded != nil || r.LastImageUploaded != nil || r.Posts != nil {
		t.Errorf("aggregates should all be nil without media: %+v", r)
	}
}

func TestBuildSubmissionRollupsAggregates(t *testing.T) {
	subs := []archive.Submission{{ID: "s1"}}
	medias := []MediaRollup{
		{
			MediaID: 1, SubmissionID: "s1",
			HasAlbum:      boolp(true),
			AlbumUploaded: i64p(100), AlbumViews: i64p(10),
			NImages:       i64p(3),
			FirstUploaded: i64p(50), LastUploaded: i64p(80),
			Post: strp("X"),
		},
		{
			MediaID: 2, SubmissionID: "s1",
			HasAlbum:      boolp(false),
			AlbumUploaded: i64p(40), AlbumViews: i64p(5),
		},
		{
			MediaID: 3, SubmissionID: "s1",
			NImages:       i64p(2),
			FirstUploaded: i64p(20), LastUploaded: i64p(60),
			Post: strp("Y"),
		},
	}

	r := BuildSubmissionRollups(subs, medias)[0]
	if r.NAlbums == nil || *r.NAlbums != 1 {
		t.Errorf("n albums = %v, want 1", r.NAlbums)
	}
	if r.FirstAlbumUploaded == nil || *r.FirstAlbumUploaded != 40 {
		t.Errorf("first album uploaded = %v, want 40", r.FirstAlbumUploaded)
	}
	if r.LastAlbumUploaded == nil || *r.LastAlbumUploaded != 100 {
		t.Errorf("last album uploaded = %v, want 100", r.LastAlbumUploaded)
	}
	if r.TotalAlbumViews == nil || *r.TotalAlbumViews != 15 {
		t.Errorf("total album views = %v, want 15", r.TotalAlbumViews)
	}
	if r.TotalImages == nil || *r.TotalImages != 5 {
		t.Errorf("total images = %v, want 5", r.TotalImages)
	}
	if r.FirstImageUploaded == nil || *r.FirstImageUploaded != 20 {
		t.Errorf("first image uploaded = %v, want 20", r.FirstImageUploaded)
	}
	if r.LastImageUploaded == nil || *r.LastImageUploaded != 80 {
		t.Errorf("last image uploaded = %v, want 80", r.LastImageUploaded)
	}
	if r.Posts == nil || *r.Posts != "X\n\nY" {
		t.Errorf("posts = %v, want X\\n\\nY", r.Posts)
	}
}

func TestBuildSubmissionRollupsNilPostsLeaveNoSeparator(t *testing.T) {
	subs := []archive.Submission{{ID: "s1"}}
	medias := []MediaRollup{
		{MediaID: 1, SubmissionID: "s1", Post: strp("X")},
		{MediaID: 2, SubmissionID: "s1", Post: nil},
		{MediaID: 3, SubmissionID: "s1", Post: strp("Y")},
	}

	r := BuildSubmissionRollups(subs, medias)[0]
	if r.Posts == nil || *r.Posts != "X\n\nY" {
		t.Errorf("posts = %v, want X\\n\\nY", r.Posts)
	}

	// All posts nil: the field stays nil, not empty.
	medias = []MediaRollup{{MediaID: 1, SubmissionID: "s1"}}
	r = BuildSubmissionRollups(subs, medias)[0]
	if r.Posts != nil {
		t.Errorf("posts = %q, want nil", *r.Posts)
	}
}

func TestBuildSubmissionRollupsSkipsOrphanRollups(t *testing.T) {
	subs := []archive.Submission{{ID: "s1"}}
	medias := []MediaRollup{
		{MediaID: 1, SubmissionID: "s1", NImages: i64p(2)},
		{MediaID: 2, SubmissionID: "ghost", NImages: i64p(9)},
	}

	rollups := BuildSubmissionRollups(subs, medias)
	if len(rollups) != 1 {
		t.Fatalf("got %d rollups, want 1", len(rollups))
	}
	if r := rollups[0]; r.TotalImages == nil || *r.TotalImages != 2 {
		t.Errorf("total images = %v, want 2", r.TotalImages)
	}
}

func TestBuildSubmissionRollupsKeepsInputOrder(t *testing.T) {
	subs := []archive.Submission{{ID: "s3"}, {ID: "s1"}, {ID: "s2"}}

	rollups := BuildSubmissionRollups(subs, nil)
	want := []string{"s3", "s1", "s2"}
	for i, r := range rollups {
		if r.SubmissionID != want[i] {
			t.Errorf("rollup[%d] = %q, want %q", i, r.SubmissionID, want[i])
		}
	}
}
