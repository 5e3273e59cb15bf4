package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"umrahcrm/infras/otel"
	"umrahcrm/internal/domains/lead/model"
	"umrahcrm/shared"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/store"
	"umrahcrm/shared/timezone"
)

var ErrNotFound = errors.New("lead not found")

type Lead interface {
	// GetAll never returns an empty list: missing sample data is written back first.
	GetAll(ctx context.Context) ([]model.Lead, error)
	Get(ctx context.Context, id string) (model.Lead, error)
	// Insert puts the lead at the front and returns the stored collection.
	Insert(ctx context.Context, lead model.Lead) ([]model.Lead, error)
	Update(ctx context.Context, id string, patch model.Patch) (model.Lead, error)
	// Apply derives a patch from the stored lead and merges it within the same write.
	Apply(ctx context.Context, id string, fn func(model.Lead) (model.Patch, error)) (model.Lead, error)
	AddDocument(ctx context.Context, id string, doc model.Document) (model.Lead, error)
	Delete(ctx context.Context, id string) error
}

type repositoryImpl struct {
	leads store.Collection[model.Lead]
	otel  otel.Otel
	now   func() time.Time
}

func New(s store.Store, otel otel.Otel) Lead {
	return &repositoryImpl{
		leads: store.NewCollection[model.Lead](s, store.KeyLeads),
		otel:  otel,
		now:   timezone.Now,
	}
}

func (r *repositoryImpl) GetAll(ctx context.Context) (leads []model.Lead, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".lead.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	leads, err = r.leads.Mutate(ctx, func(items []model.Lead) ([]model.Lead, error) {
		seeded, changed := r.seed(items)
		if !changed {
			return nil, store.ErrNoChange
		}

		return seeded, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}

	return leads, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (lead model.Lead, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".lead.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	leads, err := r.GetAll(ctx)
	if err != nil {
		return lead, err
	}

	idx := indexOf(leads, id)
	if idx < 0 {
		return lead, ErrNotFound
	}

	return leads[idx], nil
}

func (r *repositoryImpl) Insert(ctx context.Context, lead model.Lead) (leads []model.Lead, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".lead.Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	leads, err = r.leads.Mutate(ctx, func(items []model.Lead) ([]model.Lead, error) {
		seeded, _ := r.seed(items)

		return append([]model.Lead{lead}, seeded...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert lead: %w", err)
	}

	return leads, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id string, patch model.Patch) (lead model.Lead, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".lead.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return r.modify(ctx, id, func(current model.Lead) (model.Lead, error) {
		return shared.ShallowMerge(current, patch)
	})
}

func (r *repositoryImpl) Apply(ctx context.Context, id string, fn func(model.Lead) (model.Patch, error)) (lead model.Lead, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".lead.Apply")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return r.modify(ctx, id, func(current model.Lead) (model.Lead, error) {
		patch, err := fn(current)
		if err != nil {
			return current, err
		}

		return shared.ShallowMerge(current, patch)
	})
}

func (r *repositoryImpl) AddDocument(ctx context.Context, id string, doc model.Document) (lead model.Lead, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".lead.AddDocument")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return r.modify(ctx, id, func(current model.Lead) (model.Lead, error) {
		current.Documents = append([]model.Document{doc}, current.Documents...)

		return current, nil
	})
}

func (r *repositoryImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".lead.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	_, err = r.leads.Mutate(ctx, func(items []model.Lead) ([]model.Lead, error) {
		seeded, _ := r.seed(items)

		idx := indexOf(seeded, id)
		if idx < 0 {
			return nil, ErrNotFound
		}

		return append(seeded[:idx:idx], seeded[idx+1:]...), nil
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	return nil
}

// modify applies fn to the lead with the given id and stamps the change.
func (r *repositoryImpl) modify(ctx context.Context, id string, fn func(model.Lead) (model.Lead, error)) (model.Lead, error) {
	var updated model.Lead

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	_, err := r.leads.Mutate(ctx, func(items []model.Lead) ([]model.Lead, error) {
		seeded, _ := r.seed(items)

		idx := indexOf(seeded, id)
		if idx < 0 {
			return nil, ErrNotFound
		}

		next, err := fn(seeded[idx])
		if err != nil {
			return nil, err
		}

		next.ID = id
		next.Touch(r.now(), actor)

		seeded[idx] = next
		updated = next

		return seeded, nil
	})
	if errors.Is(err, ErrNotFound) {
		return updated, ErrNotFound
	}

	if err != nil {
		return updated, fmt.Errorf("failed to update lead: %w", err)
	}

	return updated, nil
}

// seed fills an empty collection with the sample leads and restores the demo lead.
func (r *repositoryImpl) seed(items []model.Lead) ([]model.Lead, bool) {
	now := r.now()

	if len(items) == 0 {
		return model.SeedLeads(now), true
	}

	if indexOf(items, model.DemoLeadID) >= 0 {
		return items, false
	}

	return append(items, model.DemoLead(now)), true
}

func indexOf(leads []model.Lead, id string) int {
	for i, lead := range leads {
		if lead.ID == id {
			return i
		}
	}

	return -1
}
