package archive

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate reports malformed submission rows. The rollup pipeline never
// validates; this backs the archive check command.
func (s Submission) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Permalink, validation.Required),
		validation.Field(&s.CreatedUTC, validation.Min(int64(0))),
		validation.Field(&s.Comments, validation.Min(int64(0))),
		validation.Field(&s.Gilded, validation.Min(int64(0))),
		validation.Field(&s.Downs, validation.Min(int64(0))),
		validation.Field(&s.Ups, validation.Min(int64(0))),
	)
}

// Validate reports malformed media rows.
func (m Media) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SubmissionID, validation.Required),
		validation.Field(&m.URL, validation.Required, is.URL),
	)
}

// Validate reports malformed album rows.
func (a Album) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.MediaID, validation.Required),
		validation.Field(&a.URL, validation.Required, is.URL),
		validation.Field(&a.UploadedUTC, validation.Min(int64(0))),
		validation.Field(&a.Views, validation.Min(int64(0))),
	)
}

// Validate reports malformed image rows.
func (i Image) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.MediaID, validation.Required),
		validation.Field(&i.URL, validation.Required, is.URL),
		validation.Field(&i.Views, validation.Min(int64(0))),
	)
}
