package models

// Text holds the Indonesian and English versions of a string
type Text struct {
	ID string `json:"id"`
	EN string `json:"en"`
}

// In returns the text for a language code, falling back to Indonesian
func (t Text) In(lang string) string {
	if lang == "en" {
		return t.EN
	}
	return t.ID
}

// Project represents a portfolio project from the catalog. HasID is false
// when the catalog entry has no integral id; such a project is listed but
// never matched by id.
type Project struct {
	Code        string   `json:"code"`
	ID          int      `json:"id"`
	HasID       bool     `json:"-"`
	Title       Text     `json:"title"`
	Slug        Text     `json:"slug"`
	Description Text     `json:"description"`
	Skill       []string `json:"skill"`
	Image       []string `json:"image"`
}

// Is reports whether the project is addressable by id
func (p *Project) Is(id int) bool {
	return p.HasID && p.ID == id
}

// Thumbnail returns the first image, or "" when the project has none
func (p *Project) Thumbnail() string {
	if len(p.Image) == 0 {
		return ""
	}
	return p.Image[0]
}

// ProjectList wraps the array of projects
type ProjectList struct {
	Projects []Project `json:"projects"`
}
