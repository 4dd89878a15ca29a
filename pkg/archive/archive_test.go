package archive

import (
	"testing"
)

func TestGroupImagesByMediaKeepsOrder(t *testing.T) {
	images := []Image{
		{ID: "c", MediaID: 2, URL: "https://i.example/c.jpg"},
		{ID: "a", MediaID: 1, URL: "https://i.example/a.jpg"},
		{ID: "b", MediaID: 1, URL: "https://i.example/b.jpg"},
	}

	groups := GroupImagesByMedia(images)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	g := groups[1]
	if len(g) != 2 || g[0].ID != "a" || g[1].ID != "b" {
		t.Errorf("media 1 group = %+v, want [a b] in input order", g)
	}
	if len(groups[2]) != 1 || groups[2][0].ID != "c" {
		t.Errorf("media 2 group = %+v, want [c]", groups[2])
	}
}

func TestGroupAlbumsByMediaKeepsDuplicates(t *testing.T) {
	albums := []Album{
		{ID: "first", MediaID: 7, URL: "https://a.example/first"},
		{ID: "second", MediaID: 7, URL: "https://a.example/second"},
	}

	groups := GroupAlbumsByMedia(albums)
	g := groups[7]
	if len(g) != 2 {
		t.Fatalf("got %d albums for media 7, want 2", len(g))
	}
	if g[0].ID != "first" {
		t.Errorf("first album = %q, want %q", g[0].ID, "first")
	}
}

func TestGroupMediasBySubmission(t *testing.T) {
	medias := []Media{
		{ID: 1, SubmissionID: "s1", URL: "https://m.example/1"},
		{ID: 2, SubmissionID: "s2", URL: "https://m.example/2"},
		{ID: 3, SubmissionID: "s1", URL: "https://m.example/3"},
	}

	groups := GroupMediasBySubmission(medias)
	if len(groups["s1"]) != 2 || len(groups["s2"]) != 1 {
		t.Fatalf("group sizes = %d/%d, want 2/1", len(groups["s1"]), len(groups["s2"]))
	}
	if groups["s1"][0].ID != 1 || groups["s1"][1].ID != 3 {
		t.Errorf("s1 group order = [%d %d], want [1 3]", groups["s1"][0].ID, groups["s1"][1].ID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		row     interface{ Validate() error }
		wantErr bool
	}{
		{
			name: "valid submission",
			row: Submission{
				ID:         "abc123",
				Permalink:  "/r/goodyearwelt/comments/abc123/review",
				CreatedUTC: 1500000000,
			},
		},
		{
			name:    "submission without id",
			row:     Submission{Permalink: "/r/x/comments/1"},
			wantErr: true,
		},
		{
			name:    "submission with negative comments",
			row:     Submission{ID: "abc", Permalink: "/p", Comments: -1},
			wantErr: true,
		},
		{
			name: "valid media",
			row:  Media{SubmissionID: "abc", URL: "https://imgur.com/gallery/xyz"},
		},
		{
			name:    "media with bad url",
			row:     Media{SubmissionID: "abc", URL: "not a url"},
			wantErr: true,
		},
		{
			name:    "media without submission",
			row:     Media{URL: "https://imgur.com/a/xyz"},
			wantErr: true,
		},
		{
			name: "valid album",
			row:  Album{ID: "alb", MediaID: 3, URL: "https://imgur.com/a/alb"},
		},
		{
			name:    "album without media id",
			row:     Album{ID: "alb", URL: "https://imgur.com/a/alb"},
			wantErr: true,
		},
		{
			name: "valid image",
			row:  Image{ID: "img", MediaID: 3, URL: "https://i.imgur.com/img.jpg"},
		},
		{
			name:    "image without url",
			row:     Image{ID: "img", MediaID: 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.row.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
