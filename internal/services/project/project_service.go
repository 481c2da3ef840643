package project

import (
	"context"
	"strings"

	"github.com/taskdeck/taskdeck/internal/perrors"
	"github.com/taskdeck/taskdeck/internal/policy"
)

type ProjectService struct {
	repo *ProjectRepo
}

func NewProjectService(repo *ProjectRepo) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create is admin-only. The stored progress is only a creation-time seed
// computed from tasks already assigned to the incoming team; every read
// recomputes it from the task population.
func (s *ProjectService) Create(ctx context.Context, sub policy.Subject, req *CreateProjectRequest) (*Project, error) {
	if !policy.Decide(policy.ProfileProjectScoped, sub, policy.KindProject, policy.OpCreate, policy.Resource{}).Allow {
		return nil, perrors.NewErrUnauthorized("Only admins can create projects", nil)
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, perrors.NewErrValidation("Invalid project payload", []perrors.FieldError{
			{Field: "title", Message: "Title is required"},
		})
	}

	total, done, err := s.repo.CountTasksForUsers(ctx, req.Team)
	if err != nil {
		return nil, err
	}
	progress := Progress(done, total)

	return s.repo.Create(ctx, req, sub.UserID, progress, DeriveStatus(progress))
}

func (s *ProjectService) GetByID(ctx context.Context, sub policy.Subject, id string) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.refresh(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *ProjectService) List(ctx context.Context, sub policy.Subject) ([]*Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	counts, err := s.repo.CountTasks(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		c := counts[p.ID]
		p.Progress = Progress(c.Done, c.Total)
		p.Status = DeriveStatus(p.Progress)
	}

	return projects, nil
}

func (s *ProjectService) Update(ctx context.Context, sub policy.Subject, id string, req *UpdateProjectRequest) (*Project, error) {
	if !policy.Decide(policy.ProfileProjectScoped, sub, policy.KindProject, policy.OpUpdate, policy.Resource{}).Allow {
		return nil, perrors.NewErrUnauthorized("Only admins can update projects", nil)
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, perrors.NewErrValidation("Invalid project payload", []perrors.FieldError{
			{Field: "title", Message: "Title cannot be empty"},
		})
	}

	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	if err := s.refresh(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *ProjectService) SoftDelete(ctx context.Context, sub policy.Subject, id string) error {
	if !policy.Decide(policy.ProfileProjectScoped, sub, policy.KindProject, policy.OpDelete, policy.Resource{}).Allow {
		return perrors.NewErrUnauthorized("Only admins can delete projects", nil)
	}

	return s.repo.SoftDelete(ctx, id)
}

// refresh overwrites the advisory stored progress with the derived value.
func (s *ProjectService) refresh(ctx context.Context, p *Project) error {
	counts, err := s.repo.CountTasks(ctx, []string{p.ID})
	if err != nil {
		return err
	}

	c := counts[p.ID]
	p.Progress = Progress(c.Done, c.Total)
	p.Status = DeriveStatus(p.Progress)

	return nil
}
