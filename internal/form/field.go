package form

// Field type tags as declared by the authoring layer.
const (
	TypeShortText      = "short_text"
	TypeLongText       = "long_text"
	TypeFullName       = "full_name"
	TypeEmail          = "email"
	TypePhone          = "phone"
	TypeAddress        = "address"
	TypeSingleChoice   = "single_choice"
	TypeMultipleChoice = "multiple_choice"
	TypeDropdown       = "dropdown"
	TypeDatePicker     = "date_picker"
	TypeAppointment    = "appointment"
	TypeHeading        = "heading"
	TypeParagraph      = "paragraph"
	TypeFileUpload     = "file_upload"
)

type FieldContent struct {
	Title   string   `json:"title"`
	Options []string `json:"options,omitempty"`
}

type Field struct {
	ID      string       `json:"id"`
	Type    string       `json:"type"`
	Content FieldContent `json:"content"`
}

// IsChoice returns true if the field offers a fixed option list.
func (f Field) IsChoice() bool {
	switch f.Type {
	case TypeSingleChoice, TypeMultipleChoice, TypeDropdown:
		return len(f.Content.Options) > 0
	}
	return false
}

// IsDate returns true if the field holds a date or appointment value.
func (f Field) IsDate() bool {
	return f.Type == TypeDatePicker || f.Type == TypeAppointment
}
