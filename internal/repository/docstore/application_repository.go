package docstore

import (
	"context"
	"sort"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/application"
	"github.com/RAFagb11/synked-sub001/internal/store"
)

type ApplicationRepository struct {
	store store.Store
}

func NewApplicationRepository(s store.Store) *ApplicationRepository {
	return &ApplicationRepository{store: s}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	fields, err := encode(app)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, store.CollectionApplications, app.ID.String(), fields); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	fields, err := r.store.Get(ctx, store.CollectionApplications, id.String())
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, err
	}
	var app application.Application
	if err := decode(fields, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	return r.query(ctx, []store.Filter{{Field: "applicant_id", Value: applicantID.String()}})
}

func (r *ApplicationRepository) ListByProject(ctx context.Context, projectID common.UUID) ([]application.Application, error) {
	return r.query(ctx, []store.Filter{{Field: "project_id", Value: projectID.String()}})
}

func (r *ApplicationRepository) ListByProjectAndStatus(ctx context.Context, projectID common.UUID, status application.Status) ([]application.Application, error) {
	return r.query(ctx, []store.Filter{
		{Field: "project_id", Value: projectID.String()},
		{Field: "status", Value: string(status)},
	})
}

func (r *ApplicationRepository) ListByOrganization(ctx context.Context, organizationID common.UUID) ([]application.Application, error) {
	return r.query(ctx, []store.Filter{{Field: "organization_id", Value: organizationID.String()}})
}

func (r *ApplicationRepository) ListByStatus(ctx context.Context, status application.Status) ([]application.Application, error) {
	return r.query(ctx, []store.Filter{{Field: "status", Value: string(status)}})
}

// ListActiveByApplicant merges two equality queries because the store only
// filters on a single value per attribute. Earliest-created first, which is
// the order the duplicate-resolution pass depends on.
func (r *ApplicationRepository) ListActiveByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	var active []application.Application
	for _, status := range []application.Status{application.StatusPending, application.StatusAccepted} {
		items, err := r.query(ctx, []store.Filter{
			{Field: "applicant_id", Value: applicantID.String()},
			{Field: "status", Value: string(status)},
		})
		if err != nil {
			return nil, err
		}
		active = append(active, items...)
	}
	sort.Slice(active, func(i, j int) bool { return active[i].CreatedAt.Before(active[j].CreatedAt) })
	return active, nil
}

func (r *ApplicationRepository) query(ctx context.Context, filters []store.Filter) ([]application.Application, error) {
	docs, err := r.store.Query(ctx, store.CollectionApplications, filters, nil)
	if err != nil {
		return nil, err
	}
	items := make([]application.Application, 0, len(docs))
	for _, doc := range docs {
		var app application.Application
		if err := decode(doc, &app); err != nil {
			return nil, err
		}
		items = append(items, app)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status, feedback string, acceptedAt *time.Time) (*application.Application, error) {
	fields := map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if feedback != "" {
		fields["feedback"] = feedback
	}
	if acceptedAt != nil {
		fields["accepted_at"] = acceptedAt.UTC()
	}
	if err := r.store.Update(ctx, store.CollectionApplications, id.String(), fields); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	return r.store.Delete(ctx, store.CollectionApplications, id.String())
}
