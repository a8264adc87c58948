package services

import (
	"context"
	"strings"

	"taskboard/errs"
	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

type ProjectService struct {
	projects repositories.Collection[models.Project]
	tasks    repositories.Collection[models.Task]
	now      Clock
}

func NewProjectService(projects repositories.Collection[models.Project], tasks repositories.Collection[models.Task], clock Clock) *ProjectService {
	if clock == nil {
		clock = SystemClock
	}
	return &ProjectService{projects: projects, tasks: tasks, now: clock}
}

func (s *ProjectService) CreateProject(ctx context.Context, in models.NewProject) (*models.Project, error) {
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	if err := required("description", in.Description); err != nil {
		return nil, err
	}
	if in.ManagerID.IsZero() {
		return nil, errs.Validationf("managerId is required")
	}
	if err := required("iconName", in.IconName); err != nil {
		return nil, err
	}
	icon, err := validIcon(models.IconProject, in.IconName)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.ProjectActive
	}
	if !status.Valid() {
		return nil, errs.Validationf("unknown project status %q", status)
	}

	project := &models.Project{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ManagerID:   in.ManagerID,
		Members:     uniqueMembers(in.Members),
		Status:      status,
		IconName:    icon,
		Comments:    []models.Comment{},
		CreatedAt:   s.now(),
		Deadline:    in.Deadline,
	}
	if err := s.projects.Insert(ctx, project); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by manager %s", project.ID.Hex(), project.ManagerID.Hex())
	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Normalize()
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	q := bson.M{}
	if filter.ManagerID != nil {
		q["managerId"] = *filter.ManagerID
	}
	if filter.Member != nil {
		q["members"] = *filter.Member
	}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, errs.Validationf("unknown project status %q", filter.Status)
		}
		q["status"] = filter.Status
	}
	projects, err := s.projects.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		p.Normalize()
	}
	return projects, nil
}

// UpdateProject merges the supplied fields. Values are checked one by one;
// there are no cross-field rules.
func (s *ProjectService) UpdateProject(ctx context.Context, id primitive.ObjectID, patch models.ProjectPatch) (*models.Project, error) {
	set := bson.M{}
	if patch.Title != nil {
		if err := required("title", *patch.Title); err != nil {
			return nil, err
		}
		set["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if err := required("description", *patch.Description); err != nil {
			return nil, err
		}
		set["description"] = *patch.Description
	}
	if patch.ManagerID != nil {
		if patch.ManagerID.IsZero() {
			return nil, errs.Validationf("managerId is required")
		}
		set["managerId"] = *patch.ManagerID
	}
	if patch.Members != nil {
		set["members"] = uniqueMembers(*patch.Members)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, errs.Validationf("unknown project status %q", *patch.Status)
		}
		set["status"] = *patch.Status
	}
	if patch.IconName != nil {
		icon, err := validIcon(models.IconProject, *patch.IconName)
		if err != nil {
			return nil, err
		}
		set["iconName"] = icon
	}
	if patch.Deadline.Set {
		set["deadline"] = patch.Deadline.Time
	}
	if len(set) == 0 {
		return s.GetProject(ctx, id)
	}
	return s.update(ctx, id, bson.M{"$set": set})
}

// SetStatus moves a project to any valid status. Projects have no transition rules.
func (s *ProjectService) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ProjectStatus) (*models.Project, error) {
	if !status.Valid() {
		return nil, errs.Validationf("unknown project status %q", status)
	}
	project, err := s.update(ctx, id, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: PROJECT_STATUS_CHANGED, Description: Project %s is now %s", id.Hex(), status)
	return project, nil
}

// AddMember is idempotent.
func (s *ProjectService) AddMember(ctx context.Context, id, userID primitive.ObjectID) (*models.Project, error) {
	if userID.IsZero() {
		return nil, errs.Validationf("userId is required")
	}
	return s.update(ctx, id, bson.M{"$addToSet": bson.M{"members": userID}})
}

// RemoveMember is idempotent; removing a non-member is not an error.
func (s *ProjectService) RemoveMember(ctx context.Context, id, userID primitive.ObjectID) (*models.Project, error) {
	return s.update(ctx, id, bson.M{"$pull": bson.M{"members": userID}})
}

func (s *ProjectService) AddComment(ctx context.Context, id primitive.ObjectID, req models.CommentRequest) (*models.Project, error) {
	comment, err := buildComment(req, s.now())
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, bson.M{"$push": bson.M{"comments": comment}})
}

// DeleteProject removes the project document only. Its tasks stay in the
// store and remain listable by projectId.
func (s *ProjectService) DeleteProject(ctx context.Context, id primitive.ObjectID) error {
	if err := s.projects.DeleteByID(ctx, id); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted", id.Hex())
	return nil
}

// Board groups the project's tasks into status columns.
func (s *ProjectService) Board(ctx context.Context, id primitive.ObjectID) (*models.Board, error) {
	if _, err := s.projects.FindByID(ctx, id); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.Find(ctx, bson.M{"projectId": id})
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.Normalize()
	}
	board := models.NewBoard(id, tasks)
	return &board, nil
}

func (s *ProjectService) update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Project, error) {
	project, err := s.projects.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}
	project.Normalize()
	return project, nil
}

func uniqueMembers(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
