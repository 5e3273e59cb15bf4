package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"umrahcrm/infras/otel"
	"umrahcrm/internal/domains/user/model"
	"umrahcrm/shared"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/store"
	"umrahcrm/shared/timezone"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type User interface {
	GetAll(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	// Insert appends the user unless the email is already registered.
	Insert(ctx context.Context, user model.User) error
	Update(ctx context.Context, id string, patch model.Patch) (model.User, error)
	// Apply derives a patch from the stored user and merges it within the same write.
	Apply(ctx context.Context, id string, fn func(model.User) (model.Patch, error)) (model.User, error)
}

type repositoryImpl struct {
	users store.Collection[model.User]
	otel  otel.Otel
	now   func() time.Time
}

func New(s store.Store, otel otel.Otel) User {
	return &repositoryImpl{
		users: store.NewCollection[model.User](s, store.KeyUsers),
		otel:  otel,
		now:   timezone.Now,
	}
}

func (r *repositoryImpl) GetAll(ctx context.Context) (users []model.User, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	users, _, err = r.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	return users, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (model.User, error) {
	return r.find(ctx, "Get", func(u model.User) bool { return u.ID == id })
}

func (r *repositoryImpl) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = model.NormalizeEmail(email)

	return r.find(ctx, "GetByEmail", func(u model.User) bool { return u.Email == email })
}

func (r *repositoryImpl) find(ctx context.Context, op string, match func(model.User) bool) (user model.User, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user."+op)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	users, err := r.GetAll(ctx)
	if err != nil {
		return user, err
	}

	for _, u := range users {
		if match(u) {
			return u, nil
		}
	}

	return user, ErrNotFound
}

func (r *repositoryImpl) Insert(ctx context.Context, user model.User) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user.Email = model.NormalizeEmail(user.Email)

	_, err = r.users.Mutate(ctx, func(items []model.User) ([]model.User, error) {
		for _, u := range items {
			if u.Email == user.Email {
				return nil, ErrEmailTaken
			}
		}

		return append(items, user), nil
	})
	if errors.Is(err, ErrEmailTaken) {
		return ErrEmailTaken
	}

	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *repositoryImpl) Update(ctx context.Context, id string, patch model.Patch) (model.User, error) {
	return r.Apply(ctx, id, func(model.User) (model.Patch, error) {
		return patch, nil
	})
}

func (r *repositoryImpl) Apply(ctx context.Context, id string, fn func(model.User) (model.Patch, error)) (user model.User, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.Apply")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	_, err = r.users.Mutate(ctx, func(items []model.User) ([]model.User, error) {
		idx := -1

		for i, u := range items {
			if u.ID == id {
				idx = i

				break
			}
		}

		if idx < 0 {
			return nil, ErrNotFound
		}

		patch, err := fn(items[idx])
		if err != nil {
			return nil, err
		}

		next, err := shared.ShallowMerge(items[idx], patch)
		if err != nil {
			return nil, err
		}

		next.ID = id
		next.Touch(r.now(), actor)

		items[idx] = next
		user = next

		return items, nil
	})
	if errors.Is(err, ErrNotFound) {
		return user, ErrNotFound
	}

	if err != nil {
		return user, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
