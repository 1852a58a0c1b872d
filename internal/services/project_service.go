package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"karya.dev/internal/assets"
	"karya.dev/internal/models"
)

// ProjectService loads the project catalog once and serves lookups from memory
type ProjectService struct {
	fetcher assets.Fetcher
	path    string

	mu     sync.RWMutex
	loaded bool
	list   models.ProjectList
}

// NewProjectService creates a new ProjectService for the catalog at path
func NewProjectService(fetcher assets.Fetcher, path string) *ProjectService {
	return &ProjectService{fetcher: fetcher, path: path}
}

// Load fetches and normalizes the catalog on first use and returns the cached
// list afterwards. A failed load is not cached.
func (s *ProjectService) Load(ctx context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.list.Projects, nil
	}

	data, err := s.fetcher.Fetch(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	projects, err := Normalize(data)
	if err != nil {
		return nil, err
	}

	s.list = models.ProjectList{Projects: projects}
	s.loaded = true
	return projects, nil
}

// GetAll returns all loaded projects in catalog order
func (s *ProjectService) GetAll() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Projects
}

// GetByID returns a specific project by numeric ID
func (s *ProjectService) GetByID(id int) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.list.Projects {
		if s.list.Projects[i].Is(id) {
			return &s.list.Projects[i], nil
		}
	}
	return nil, fmt.Errorf("project not found: %d", id)
}

// Normalize turns the catalog document into a flat project list.
//
// The document looks like {"proyek": [{"<code>": {...}}, ...]}. Each wrapper
// is unwrapped by its first key; wrappers that are not objects, or whose value
// is null or not an object, are skipped.
func Normalize(data []byte) ([]models.Project, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse catalog: invalid JSON")
	}

	list := gjson.GetBytes(data, "proyek")
	if !list.IsArray() {
		return []models.Project{}, nil
	}

	projects := make([]models.Project, 0, len(list.Array()))
	for _, wrapper := range list.Array() {
		if !wrapper.IsObject() {
			continue
		}
		var code string
		var value gjson.Result
		wrapper.ForEach(func(key, val gjson.Result) bool {
			code, value = key.String(), val
			return false
		})
		if !value.IsObject() {
			continue
		}
		id, ok := toID(value.Get("id"))
		projects = append(projects, models.Project{
			Code:        code,
			ID:          id,
			HasID:       ok,
			Title:       toText(value.Get("title")),
			Slug:        toText(value.Get("slug")),
			Description: toText(value.Get("description")),
			Skill:       toStrings(value.Get("skill")),
			Image:       toStrings(value.Get("image")),
		})
	}
	return projects, nil
}

// toID accepts integral numbers and numeric strings. Missing, fractional
// and non-numeric ids are reported as not ok.
func toID(r gjson.Result) (int, bool) {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
		f = v
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func toText(r gjson.Result) models.Text {
	if !r.IsObject() {
		return models.Text{}
	}
	return models.Text{ID: r.Get("id").String(), EN: r.Get("en").String()}
}

func toStrings(r gjson.Result) []string {
	if !r.IsArray() {
		return []string{}
	}
	items := r.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}
