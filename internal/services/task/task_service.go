package task

import (
	"context"
	"errors"

	"github.com/taskdeck/taskdeck/internal/perrors"
	"github.com/taskdeck/taskdeck/internal/policy"
	"github.com/taskdeck/taskdeck/internal/services/project"
	"github.com/taskdeck/taskdeck/internal/services/user"
)

// UserDirectory resolves user ids when an admin assigns a task to someone
// else. Satisfied by *user.UserService.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ProjectDirectory resolves the owning project on create. Satisfied by
// *project.ProjectRepo.
type ProjectDirectory interface {
	GetByID(ctx context.Context, id string) (*project.Project, error)
}

type TaskService struct {
	repo     *TaskRepo
	users    UserDirectory
	projects ProjectDirectory
}

func NewTaskService(repo *TaskRepo, users UserDirectory, projects ProjectDirectory) *TaskService {
	return &TaskService{repo: repo, users: users, projects: projects}
}

// Create validates, resolves the assignee per policy and persists. The
// explicit assignee is honored only for admins and must resolve to an
// existing user; everyone else self-assigns.
func (s *TaskService) Create(ctx context.Context, sub policy.Subject, req *CreateTaskRequest) (*Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.projects.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return nil, perrors.NewErrNotFound("Project not found", err)
		}
		return nil, err
	}

	assignee, needsLookup := policy.ResolveAssignee(sub, req.AssignedTo)
	if needsLookup {
		if _, err := s.users.GetByID(ctx, assignee); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return nil, perrors.NewErrNotFound("Assigned user not found", err)
			}
			return nil, err
		}
	}

	return s.repo.Create(ctx, req, sub.UserID, assignee)
}

// GetByID reads a single task under the given ownership profile. A
// visibility violation is reported as not-found so callers cannot probe for
// other users' tasks.
func (s *TaskService) GetByID(ctx context.Context, profile policy.Profile, sub policy.Subject, id string) (*Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dec := policy.Decide(profile, sub, policy.KindTask, policy.OpRead, resourceOf(t))
	if !dec.Allow {
		return nil, ErrTaskNotFound
	}

	return t, nil
}

// List applies the subject's visibility scope on top of the caller's
// filters, then hands the combined predicate set to the store.
func (s *TaskService) List(ctx context.Context, profile policy.Profile, sub policy.Subject, filter ListTasksFilter) ([]*Task, error) {
	scope := policy.TaskListScope(profile, sub)
	if scope.AssignedTo != "" {
		filter.AssignedTo = scope.AssignedTo
	}
	if scope.CreatedBy != "" {
		filter.CreatedBy = scope.CreatedBy
	}

	return s.repo.List(ctx, filter)
}

// Update is the single policy-gated mutation path. The decision's field mask
// is applied unconditionally at this boundary: fields the subject may not
// write are silently dropped, whatever the payload shape, and the rest of
// the request proceeds.
func (s *TaskService) Update(ctx context.Context, sub policy.Subject, id string, req *UpdateTaskRequest) (*Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dec := policy.Decide(policy.ProfileProjectScoped, sub, policy.KindTask, policy.OpUpdate, resourceOf(t))
	if !dec.Allow {
		return nil, ErrTaskNotFound
	}

	masked := maskUpdate(dec, req)

	if masked.AssignedTo != nil {
		if _, err := s.users.GetByID(ctx, *masked.AssignedTo); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return nil, perrors.NewErrNotFound("Assigned user not found", err)
			}
			return nil, err
		}
	}

	return s.repo.Update(ctx, id, masked)
}

// UpdateStatus is the drag-and-drop reclassification path: a status-only
// update through the same policy gate.
func (s *TaskService) UpdateStatus(ctx context.Context, sub policy.Subject, id string, status Status) (*Task, error) {
	return s.Update(ctx, sub, id, &UpdateTaskRequest{Status: &status})
}

func (s *TaskService) SoftDelete(ctx context.Context, sub policy.Subject, id string) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	dec := policy.Decide(policy.ProfileProjectScoped, sub, policy.KindTask, policy.OpDelete, resourceOf(t))
	if !dec.Allow {
		return ErrTaskNotFound
	}

	return s.repo.SoftDelete(ctx, id)
}

func resourceOf(t *Task) policy.Resource {
	return policy.Resource{OwnerID: t.CreatedBy, AssigneeID: t.AssignedTo}
}

// maskUpdate drops every field the decision does not permit. The returned
// request shares pointers with the original for the surviving fields.
func maskUpdate(dec policy.Decision, req *UpdateTaskRequest) *UpdateTaskRequest {
	masked := &UpdateTaskRequest{}

	if dec.CanWrite(policy.FieldTitle) {
		masked.Title = req.Title
	}
	if dec.CanWrite(policy.FieldDescription) {
		masked.Description = req.Description
	}
	if dec.CanWrite(policy.FieldStatus) {
		masked.Status = req.Status
	}
	if dec.CanWrite(policy.FieldPriority) {
		masked.Priority = req.Priority
	}
	if dec.CanWrite(policy.FieldTags) {
		masked.Tags = req.Tags
	}
	if dec.CanWrite(policy.FieldDueDate) {
		masked.DueDate = req.DueDate
		masked.dueAt = req.dueAt
	}
	if dec.CanWrite(policy.FieldAssignedTo) {
		masked.AssignedTo = req.AssignedTo
	}

	return masked
}
