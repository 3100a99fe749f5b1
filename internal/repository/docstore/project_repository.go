package docstore

import (
	"context"
	"sort"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/project"
	"github.com/RAFagb11/synked-sub001/internal/store"
)

type ProjectRepository struct {
	store store.Store
}

func NewProjectRepository(s store.Store) *ProjectRepository {
	return &ProjectRepository{store: s}
}

func (r *ProjectRepository) Create(ctx context.Context, p project.Project) (*project.Project, error) {
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	fields, err := encode(p)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, store.CollectionProjects, p.ID.String(), fields); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id common.UUID) (*project.Project, error) {
	fields, err := r.store.Get(ctx, store.CollectionProjects, id.String())
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "project not found", err)
		}
		return nil, err
	}
	var p project.Project
	if err := decode(fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	return r.query(ctx, nil)
}

func (r *ProjectRepository) ListByOrganization(ctx context.Context, organizationID common.UUID) ([]project.Project, error) {
	return r.query(ctx, []store.Filter{{Field: "organization_id", Value: organizationID.String()}})
}

func (r *ProjectRepository) ListByStatus(ctx context.Context, status project.Status) ([]project.Project, error) {
	return r.query(ctx, []store.Filter{{Field: "status", Value: string(status)}})
}

func (r *ProjectRepository) query(ctx context.Context, filters []store.Filter) ([]project.Project, error) {
	docs, err := r.store.Query(ctx, store.CollectionProjects, filters, nil)
	if err != nil {
		return nil, err
	}
	items := make([]project.Project, 0, len(docs))
	for _, doc := range docs {
		var p project.Project
		if err := decode(doc, &p); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id common.UUID, status project.Status) (*project.Project, error) {
	err := r.store.Update(ctx, store.CollectionProjects, id.String(), map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ProjectRepository) SetCounts(ctx context.Context, id common.UUID, applicationCount, applicantCount int) (*project.Project, error) {
	err := r.store.Update(ctx, store.CollectionProjects, id.String(), map[string]any{
		"application_count": applicationCount,
		"applicant_count":   applicantCount,
		"updated_at":        time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// AddEnrolled performs an idempotent set union; re-adding an enrolled
// applicant leaves the record unchanged.
func (r *ProjectRepository) AddEnrolled(ctx context.Context, id, applicantID common.UUID) (*project.Project, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsEnrolled(applicantID) {
		return current, nil
	}
	return r.SetEnrolled(ctx, id, append(current.EnrolledIDs, applicantID))
}

func (r *ProjectRepository) RemoveEnrolled(ctx context.Context, id, applicantID common.UUID) (*project.Project, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsEnrolled(applicantID) {
		return current, nil
	}
	remaining := make([]common.UUID, 0, len(current.EnrolledIDs))
	for _, enrolled := range current.EnrolledIDs {
		if enrolled != applicantID {
			remaining = append(remaining, enrolled)
		}
	}
	return r.SetEnrolled(ctx, id, remaining)
}

func (r *ProjectRepository) SetEnrolled(ctx context.Context, id common.UUID, applicantIDs []common.UUID) (*project.Project, error) {
	ids := make([]string, 0, len(applicantIDs))
	for _, applicantID := range applicantIDs {
		ids = append(ids, applicantID.String())
	}
	err := r.store.Update(ctx, store.CollectionProjects, id.String(), map[string]any{
		"enrolled_ids": ids,
		"updated_at":   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
