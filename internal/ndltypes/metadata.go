package ndltypes

// Metadata describes a manifest's human-facing attributes. Its bounds
// are checked by WithinBounds, which the Validator's content check
// calls; constructing a Metadata value does not check them.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	MimeType    string   `json:"mimeType,omitempty"`
	ContentSize int64    `json:"contentSize"`
	Tags        []string `json:"tags,omitempty"`
}

// WithinBounds reports whether Metadata respects the field-length limits.
// The Validator calls this as part of its content check.
func (m Metadata) WithinBounds() bool {
	if len(m.Title) > MaxTitleLength {
		return false
	}
	if len(m.Description) > MaxDescriptionLength {
		return false
	}
	if len(m.Tags) > MaxTagCount {
		return false
	}
	for _, tag := range m.Tags {
		if len(tag) > MaxTagLength {
			return false
		}
	}
	return true
}
