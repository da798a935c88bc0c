package form

// Page owns an ordered slice of fields. Page order within a template defines
// the default navigation sequence and the "Page N" display number.
type Page struct {
	ID       string  `json:"id"`
	Elements []Field `json:"elements"`
}

// HasField returns true if the page contains the field.
func (p Page) HasField(fieldID string) bool {
	for _, f := range p.Elements {
		if f.ID == fieldID {
			return true
		}
	}
	return false
}
