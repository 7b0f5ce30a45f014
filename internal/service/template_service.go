package service

import (
	"context"
	"errors"
	"log"

	"inspectkit/internal/cache"
	"inspectkit/internal/model"
	"inspectkit/internal/repository"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrNotOwner         = errors.New("template does not belong to operator")
	ErrRuleSelfTarget   = errors.New("a logic rule may not target its own trigger question")
	ErrNothingToPublish = errors.New("template has no questions to publish")
)

// TemplateService handles template CRUD and structural edits. Every write
// path normalizes the aggregate first: scoring caches recomputed, the flat
// questions mirror rebuilt, logic rules validated.
type TemplateService struct {
	repo        repository.TemplateRepo
	drafts      cache.DraftCache
	broadcaster Broadcaster
}

// NewTemplateService creates a new template service
func NewTemplateService(repo repository.TemplateRepo, drafts cache.DraftCache) *TemplateService {
	return &TemplateService{repo: repo, drafts: drafts}
}

// SetBroadcaster injects the live-preview broadcaster
func (s *TemplateService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *TemplateService) notifyUpdated(tpl *model.Template) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTemplateUpdated(tpl.ID, tpl)
	}
}

// Create persists a new template and clears the operator's unsaved draft
func (s *TemplateService) Create(ctx context.Context, operatorID string, tpl *model.Template) (string, error) {
	tpl.OwnerID = operatorID
	if tpl.Status == "" {
		tpl.Status = model.StatusDraft
	}
	if len(tpl.Pages) == 0 {
		tpl.Pages = model.NewTemplate(operatorID, tpl.Name).Pages
	}
	if err := s.normalize(tpl); err != nil {
		return "", err
	}

	id, err := s.repo.Create(ctx, tpl)
	if err != nil {
		return "", err
	}

	// The draft cache only covers unsaved new templates; best effort.
	if err := s.drafts.Delete(ctx, operatorID); err != nil {
		log.Printf("clear draft for %s: %v", operatorID, err)
	}
	return id, nil
}

// GetByID retrieves a template owned by the operator
func (s *TemplateService) GetByID(ctx context.Context, operatorID, id string) (*model.Template, error) {
	tpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}
	if tpl.OwnerID != operatorID {
		return nil, ErrNotOwner
	}
	return tpl, nil
}

// List retrieves all templates for an operator
func (s *TemplateService) List(ctx context.Context, operatorID string) ([]*model.Template, error) {
	return s.repo.GetByOwnerID(ctx, operatorID)
}

// Update replaces a template wholesale (last-write-wins)
func (s *TemplateService) Update(ctx context.Context, operatorID string, tpl *model.Template) error {
	existing, err := s.GetByID(ctx, operatorID, tpl.ID)
	if err != nil {
		return err
	}
	tpl.OwnerID = existing.OwnerID
	tpl.CreatedAt = existing.CreatedAt
	if err := s.normalize(tpl); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, tpl); err != nil {
		return err
	}
	s.notifyUpdated(tpl)
	return nil
}

// Delete removes a template
func (s *TemplateService) Delete(ctx context.Context, operatorID, id string) error {
	if _, err := s.GetByID(ctx, operatorID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Publish transitions a draft template to active
func (s *TemplateService) Publish(ctx context.Context, operatorID, id string) (*model.Template, error) {
	tpl, err := s.GetByID(ctx, operatorID, id)
	if err != nil {
		return nil, err
	}
	if len(tpl.Flatten()) == 0 {
		return nil, ErrNothingToPublish
	}
	tpl.Status = model.StatusActive
	if err := s.normalize(tpl); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	s.notifyUpdated(tpl)
	return tpl, nil
}

// Mutate loads a template, applies a structural edit, renormalizes and
// saves. A failed edit leaves the stored template untouched.
func (s *TemplateService) Mutate(ctx context.Context, operatorID, id string, edit func(*model.Template) error) (*model.Template, error) {
	tpl, err := s.GetByID(ctx, operatorID, id)
	if err != nil {
		return nil, err
	}
	if err := edit(tpl); err != nil {
		return nil, err
	}
	if err := s.normalize(tpl); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	s.notifyUpdated(tpl)
	return tpl, nil
}

// normalize enforces the save-time invariants: fresh scoring caches, a
// rebuilt flat questions mirror, and sane logic rules.
func (s *TemplateService) normalize(tpl *model.Template) error {
	RecomputeScoring(tpl)
	tpl.Questions = tpl.Flatten()
	return s.normalizeLogic(tpl)
}

// normalizeLogic rejects self-targeting rules and resets conditions that
// are stale for their trigger's current answer type (the trigger changed
// after the rule was written).
func (s *TemplateService) normalizeLogic(tpl *model.Template) error {
	for pi := range tpl.Pages {
		for si := range tpl.Pages[pi].Sections {
			sec := &tpl.Pages[pi].Sections[si]
			for ri := range sec.Logic {
				rule := &sec.Logic[ri]
				for _, target := range rule.Targets {
					if target == rule.Question {
						return ErrRuleSelfTarget
					}
				}
				trigger, _, _ := tpl.Question(rule.Question)
				triggerType := model.AnswerType("")
				if trigger != nil {
					triggerType = trigger.AnswerType
				}
				if !model.ConditionAllowed(triggerType, rule.Condition) {
					rule.Condition = model.CondEquals
					rule.Value = ""
				}
			}
		}
	}
	return nil
}
