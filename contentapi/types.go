package contentapi

// Post is a blog entry as served by the Content API. Optional string fields
// are empty when the API omits them or sends null.
type Post struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Thumbnail        string     `json:"thumbnail,omitempty"`
	DescriptionImage string     `json:"description_image,omitempty"`
	Image            string     `json:"image,omitempty"`
	Slug             string     `json:"slug"`
	CreatedAt        string     `json:"created_at"`
	Subtopics        []Subtopic `json:"subtopics"`
}

// Subtopic is one content section of a Post. Subtopics keep the order the
// API delivered them in.
type Subtopic struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Code         string `json:"code,omitempty"`
	CodeLanguage string `json:"code_language,omitempty"`
	Order        int    `json:"order"`
	Image        string `json:"image,omitempty"`
}

// CardImage returns the image shown on listing cards: the thumbnail, or the
// legacy image field when no thumbnail is set.
func (p Post) CardImage() string {
	if p.Thumbnail != "" {
		return p.Thumbnail
	}
	return p.Image
}

// Subtopic returns the subtopic with the given id.
func (p Post) Subtopic(id int64) (Subtopic, bool) {
	for _, s := range p.Subtopics {
		if s.ID == id {
			return s, true
		}
	}
	return Subtopic{}, false
}
