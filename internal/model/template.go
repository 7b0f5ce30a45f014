package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TemplateStatus is the lifecycle state of a template
type TemplateStatus string

const (
	StatusDraft  TemplateStatus = "draft"
	StatusActive TemplateStatus = "active"
)

// Structural validation errors. These surface as user-facing messages, never
// as panics; a rejected operation leaves the template unchanged.
var (
	ErrLastPage         = errors.New("a template must keep at least one page")
	ErrPageNotFound     = errors.New("page not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrQuestionNotFound = errors.New("question not found")
)

// Section is an ordered container of questions within a page
type Section struct {
	ID          string      `json:"id" bson:"id"`
	Name        string      `json:"name" bson:"name"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	Order       int         `json:"order" bson:"order"`
	Questions   []Question  `json:"questions" bson:"questions"`
	Logic       []LogicRule `json:"logic,omitempty" bson:"logic,omitempty"`
}

// Page is an ordered container of sections
type Page struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Order       int       `json:"order" bson:"order"`
	Sections    []Section `json:"sections" bson:"sections"`
}

// Template is the aggregate root of an inspection form definition
type Template struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	OwnerID     string         `json:"ownerId" bson:"ownerId"`
	Name        string         `json:"name" bson:"name"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Type        string         `json:"type,omitempty" bson:"type,omitempty"`
	Status      TemplateStatus `json:"status" bson:"status"`
	Pages       []Page         `json:"pages" bson:"pages"`
	// Questions is a flattened mirror of every question across all pages,
	// kept for backward compatibility with older report consumers. Rebuilt
	// before every save; never edited directly.
	Questions []Question `json:"questions" bson:"questions"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// NewTemplate creates an empty template with one page and one section
func NewTemplate(ownerID, name string) *Template {
	return &Template{
		OwnerID: ownerID,
		Name:    name,
		Status:  StatusDraft,
		Pages: []Page{
			{
				ID:    uuid.New().String(),
				Name:  "Page 1",
				Order: 0,
				Sections: []Section{
					{
						ID:        uuid.New().String(),
						Name:      "Section 1",
						Order:     0,
						Questions: []Question{},
					},
				},
			},
		},
	}
}

// Page returns the page with the given id, or nil
func (t *Template) Page(pageID string) *Page {
	for i := range t.Pages {
		if t.Pages[i].ID == pageID {
			return &t.Pages[i]
		}
	}
	return nil
}

// Section returns the section with the given id within a page, or nil
func (t *Template) Section(pageID, sectionID string) *Section {
	p := t.Page(pageID)
	if p == nil {
		return nil
	}
	for i := range p.Sections {
		if p.Sections[i].ID == sectionID {
			return &p.Sections[i]
		}
	}
	return nil
}

// Question returns the question with the given id anywhere in the template,
// along with its containing page and section ids
func (t *Template) Question(questionID string) (q *Question, pageID, sectionID string) {
	for pi := range t.Pages {
		for si := range t.Pages[pi].Sections {
			sec := &t.Pages[pi].Sections[si]
			for qi := range sec.Questions {
				if sec.Questions[qi].ID == questionID {
					return &sec.Questions[qi], t.Pages[pi].ID, sec.ID
				}
			}
		}
	}
	return nil, "", ""
}

// AddPage appends a new page
func (t *Template) AddPage(name string) *Page {
	t.Pages = append(t.Pages, Page{
		ID:       uuid.New().String(),
		Name:     name,
		Order:    len(t.Pages),
		Sections: []Section{},
	})
	return &t.Pages[len(t.Pages)-1]
}

// RemovePage removes a page; a template must retain at least one page
func (t *Template) RemovePage(pageID string) error {
	if len(t.Pages) <= 1 {
		return ErrLastPage
	}
	for i := range t.Pages {
		if t.Pages[i].ID == pageID {
			t.Pages = append(t.Pages[:i], t.Pages[i+1:]...)
			t.renumberPages()
			return nil
		}
	}
	return ErrPageNotFound
}

// ReorderPage splices the page out and reinserts it at toIndex (clamped)
func (t *Template) ReorderPage(pageID string, toIndex int) error {
	from := -1
	for i := range t.Pages {
		if t.Pages[i].ID == pageID {
			from = i
			break
		}
	}
	if from == -1 {
		return ErrPageNotFound
	}
	page := t.Pages[from]
	t.Pages = append(t.Pages[:from], t.Pages[from+1:]...)
	toIndex = clamp(toIndex, 0, len(t.Pages))
	t.Pages = append(t.Pages[:toIndex], append([]Page{page}, t.Pages[toIndex:]...)...)
	t.renumberPages()
	return nil
}

// AddSection appends a new section to a page
func (t *Template) AddSection(pageID, name string) (*Section, error) {
	p := t.Page(pageID)
	if p == nil {
		return nil, ErrPageNotFound
	}
	p.Sections = append(p.Sections, Section{
		ID:        uuid.New().String(),
		Name:      name,
		Order:     len(p.Sections),
		Questions: []Question{},
	})
	return &p.Sections[len(p.Sections)-1], nil
}

// RemoveSection removes a section from a page and renumbers the rest
func (t *Template) RemoveSection(pageID, sectionID string) error {
	p := t.Page(pageID)
	if p == nil {
		return ErrPageNotFound
	}
	for i := range p.Sections {
		if p.Sections[i].ID == sectionID {
			p.Sections = append(p.Sections[:i], p.Sections[i+1:]...)
			renumberSections(p)
			return nil
		}
	}
	return ErrSectionNotFound
}

// ReorderSection splices the section out and reinserts it at toIndex (clamped)
func (t *Template) ReorderSection(pageID, sectionID string, toIndex int) error {
	p := t.Page(pageID)
	if p == nil {
		return ErrPageNotFound
	}
	from := -1
	for i := range p.Sections {
		if p.Sections[i].ID == sectionID {
			from = i
			break
		}
	}
	if from == -1 {
		return ErrSectionNotFound
	}
	sec := p.Sections[from]
	p.Sections = append(p.Sections[:from], p.Sections[from+1:]...)
	toIndex = clamp(toIndex, 0, len(p.Sections))
	p.Sections = append(p.Sections[:toIndex], append([]Section{sec}, p.Sections[toIndex:]...)...)
	renumberSections(p)
	return nil
}

// AddQuestion appends a question to a section, assigning an id if missing
func (t *Template) AddQuestion(pageID, sectionID string, q Question) (*Question, error) {
	sec := t.Section(pageID, sectionID)
	if sec == nil {
		if t.Page(pageID) == nil {
			return nil, ErrPageNotFound
		}
		return nil, ErrSectionNotFound
	}
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.RequirementType == "" {
		q.RequirementType = RequirementMandatory
	}
	sec.Questions = append(sec.Questions, q)
	return &sec.Questions[len(sec.Questions)-1], nil
}

// UpdateQuestion shallow-merges a patch into an existing question
func (t *Template) UpdateQuestion(pageID, sectionID, questionID string, patch *QuestionPatch) (*Question, error) {
	sec := t.Section(pageID, sectionID)
	if sec == nil {
		if t.Page(pageID) == nil {
			return nil, ErrPageNotFound
		}
		return nil, ErrSectionNotFound
	}
	for i := range sec.Questions {
		if sec.Questions[i].ID == questionID {
			sec.Questions[i].Apply(patch)
			return &sec.Questions[i], nil
		}
	}
	return nil, ErrQuestionNotFound
}

// RemoveQuestion removes a question from a section
func (t *Template) RemoveQuestion(pageID, sectionID, questionID string) error {
	sec := t.Section(pageID, sectionID)
	if sec == nil {
		if t.Page(pageID) == nil {
			return ErrPageNotFound
		}
		return ErrSectionNotFound
	}
	for i := range sec.Questions {
		if sec.Questions[i].ID == questionID {
			sec.Questions = append(sec.Questions[:i], sec.Questions[i+1:]...)
			return nil
		}
	}
	return ErrQuestionNotFound
}

// MoveQuestion removes a question from its current section and appends it to
// the target section, preserving the question unchanged. Moving to the
// section it already lives in is a no-op; moved reports whether anything
// changed.
func (t *Template) MoveQuestion(questionID, targetPageID, targetSectionID string) (moved bool, err error) {
	q, srcPageID, srcSectionID := t.Question(questionID)
	if q == nil {
		return false, ErrQuestionNotFound
	}
	target := t.Section(targetPageID, targetSectionID)
	if target == nil {
		if t.Page(targetPageID) == nil {
			return false, ErrPageNotFound
		}
		return false, ErrSectionNotFound
	}
	if srcPageID == targetPageID && srcSectionID == targetSectionID {
		return false, nil
	}
	copied := *q
	if err := t.RemoveQuestion(srcPageID, srcSectionID, questionID); err != nil {
		return false, err
	}
	// Target pointer may be stale after the removal reslices; look it up again.
	target = t.Section(targetPageID, targetSectionID)
	target.Questions = append(target.Questions, copied)
	return true, nil
}

// Flatten rebuilds the backward-compatible flat questions mirror in
// page/section/question order
func (t *Template) Flatten() []Question {
	flat := []Question{}
	for pi := range t.Pages {
		for si := range t.Pages[pi].Sections {
			flat = append(flat, t.Pages[pi].Sections[si].Questions...)
		}
	}
	return flat
}

func (t *Template) renumberPages() {
	for i := range t.Pages {
		t.Pages[i].Order = i
	}
}

func renumberSections(p *Page) {
	for i := range p.Sections {
		p.Sections[i].Order = i
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
