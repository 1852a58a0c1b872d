package projects

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"karya.dev/internal/models"
)

var fragments = template.Must(template.New("projects").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`
{{define "card"}}<article class="work-card">
  {{- with .Thumb}}
  <img class="thumb" src="{{.}}" alt="{{$.Project.Title.ID}}" loading="lazy">
  {{- end}}
  <div class="work-body">
    <h3 class="work-title" data-i18n-id="{{.Project.Title.ID}}" data-i18n-en="{{.Project.Title.EN}}"></h3>
    <div class="work-meta" style="text-align:justify;" data-i18n-id="{{.Project.Slug.ID}}" data-i18n-en="{{.Project.Slug.EN}}" data-i18n-html="true"></div>
    <div class="tags">{{range .Project.Skill}}<span class="tag">{{.}}</span>{{end}}</div>
    <div class="work-actions">
      <button type="button" class="btn primary js-project-detail"{{if .Project.HasID}} data-project-id="{{.Project.ID}}"{{end}} data-bs-toggle="modal" data-bs-target="#projectModal" data-i18n-id="Rincian" data-i18n-en="Details"></button>
    </div>
  </div>
</article>
{{end}}

{{define "title"}}<span data-i18n-id="{{.Title.ID}}" data-i18n-en="{{.Title.EN}}"></span>{{end}}

{{define "skills"}}{{range .Skill}}<span class="badge">{{.}}</span>{{end}}{{end}}

{{define "description"}}<div data-i18n-id="{{.Description.ID}}" data-i18n-en="{{.Description.EN}}" data-i18n-html="true"></div>{{end}}

{{define "indicators"}}{{range $i, $img := .Images}}<button type="button" data-bs-target="#pmCarousel" data-bs-slide-to="{{$i}}"{{if eq $i 0}} class="active" aria-current="true"{{end}} aria-label="Slide {{inc $i}}"></button>{{end}}{{end}}

{{define "slides"}}
{{- range $i, $img := .Images -}}
<div class="carousel-item{{if eq $i 0}} active{{end}}"><img src="{{$img}}" class="d-block w-100" alt="{{$.Project.Title.ID}} - {{inc $i}}" loading="lazy"></div>
{{- else -}}
<div class="carousel-item active"><div class="carousel-empty" data-i18n-id="Tidak ada gambar untuk proyek ini." data-i18n-en="No images for this project."></div></div>
{{- end -}}
{{end}}
`))

type cardData struct {
	Project *models.Project
	Thumb   string
}

type carouselData struct {
	Project *models.Project
	Images  []string
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// imageURL resolves a catalog filename against the image base path.
func imageURL(base, file string) string {
	if file == "" {
		return ""
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + url.PathEscape(file)
}
