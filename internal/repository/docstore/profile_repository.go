package docstore

import (
	"context"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/domain/profile"
	"github.com/RAFagb11/synked-sub001/internal/store"
)

type ProfileRepository struct {
	store store.Store
}

func NewProfileRepository(s store.Store) *ProfileRepository {
	return &ProfileRepository{store: s}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID common.UUID) (*profile.Profile, error) {
	fields, err := r.store.Get(ctx, store.CollectionProfiles, userID.String())
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "profile not found", err)
		}
		return nil, err
	}
	var p profile.Profile
	if err := decode(fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Put(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	fields, err := encode(p)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, store.CollectionProfiles, p.UserID.String(), fields); err != nil {
		return nil, err
	}
	return &p, nil
}
