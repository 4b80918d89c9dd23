package catalog

import (
	"context"
	"errors"

	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"go.uber.org/zap"
)

const maxRelated = 3

// Service answers catalog queries over an immutable store
type Service struct {
	store  *Store
	policy LookupPolicy
}

// NewService creates a new catalog service
func NewService(store *Store, policy LookupPolicy) *Service {
	if policy == "" {
		policy = LookupStrict
	}
	return &Service{store: store, policy: policy}
}

// Store exposes the underlying catalog for price lookups
func (s *Service) Store() *Store {
	return s.store
}

// List returns the filtered and sorted listing
func (s *Service) List(ctx context.Context, criteria Criteria) *ListResult {
	vehicles := ComputeView(s.store.All(), criteria)

	logger.DebugContext(ctx, "catalog listing computed",
		zap.String("category", string(criteria.Category)),
		zap.String("sort", string(criteria.Sort)),
		zap.Int("results", len(vehicles)),
	)

	return &ListResult{
		Vehicles: vehicles,
		Total:    len(vehicles),
		Criteria: criteria,
	}
}

// Categories returns the storefront tabs
func (s *Service) Categories() []CategoryInfo {
	return s.store.Categories()
}

// Features returns the feature filter checklist
func (s *Service) Features() []string {
	return AvailableFeatures()
}

// GetDetail renders the detail page for id. Unknown ids follow the lookup policy.
func (s *Service) GetDetail(ctx context.Context, id string, state DetailState) (*DetailView, error) {
	v, ok := s.store.Get(id)
	fallback := false
	if !ok {
		if s.policy != LookupFallback {
			return nil, common.NewNotFoundError("bike not found", nil)
		}
		v, ok = s.store.Get(SampleVehicleID)
		if !ok {
			return nil, common.NewInternalError("sample bike missing from catalog", errors.New("sample vehicle not seeded"))
		}
		fallback = true
		logger.WarnContext(ctx, "unknown bike id, rendering sample",
			zap.String("requested_id", id),
			zap.String("sample_id", SampleVehicleID),
		)
	}

	d := BuildDetail(v)
	view := Render(d, state)
	view.Related = s.related(d)
	if fallback {
		view.Fallback = true
		view.RequestedID = id
	}
	return &view, nil
}

// related resolves RelatedIDs against the store, or picks same-category
// vehicles when the detail names none.
func (s *Service) related(d Detail) []Summary {
	out := make([]Summary, 0, maxRelated)
	for _, id := range d.RelatedIDs {
		if v, ok := s.store.Get(id); ok && v.ID != d.ID {
			out = append(out, v.Summary())
		}
	}
	if len(d.RelatedIDs) > 0 {
		return out
	}

	for _, v := range s.store.All() {
		if len(out) == maxRelated {
			break
		}
		if v.Category == d.Category && v.ID != d.ID {
			out = append(out, v.Summary())
		}
	}
	return out
}
