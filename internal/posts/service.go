// Package posts implements the permission-aware post operations.
package posts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"dashboard/internal/apperr"
	"dashboard/internal/logging"
	"dashboard/internal/models"
	"dashboard/internal/policy"
	"dashboard/internal/revalidate"
	"dashboard/internal/session"
	"dashboard/internal/validate"
)

// ListingPath is the view revalidated after every post mutation.
const ListingPath = "/dashboard"

type CreateInput struct {
	Title     string  `json:"title" validate:"min=1,max=200"`
	Content   *string `json:"content"`
	Published bool    `json:"published"`
}

type UpdateInput struct {
	ID        string  `json:"id" validate:"required,uuid"`
	Title     string  `json:"title" validate:"min=1,max=200"`
	Content   *string `json:"content"`
	Published bool    `json:"published"`
}

type DeleteInput struct {
	ID string `json:"id" validate:"required,uuid"`
}

// Row is a listing entry annotated with whether the viewer may change it.
type Row struct {
	models.PostWithAuthor
	CanEdit bool `json:"canEdit"`
}

type Service struct {
	store       Store
	sessions    session.Resolver
	policy      policy.Config
	revalidator revalidate.Revalidator
	log         *logging.Logger
	now         func() time.Time
}

func NewService(store Store, sessions session.Resolver, cfg policy.Config, rv revalidate.Revalidator, log *logging.Logger) *Service {
	if rv == nil {
		rv = revalidate.Nop{}
	}
	return &Service{
		store:       store,
		sessions:    sessions,
		policy:      cfg,
		revalidator: rv,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) authContext(ctx context.Context) (policy.Context, error) {
	sess, err := s.sessions.CurrentSession(ctx)
	if err != nil {
		return policy.Context{}, s.internal(ctx, "resolve session", err)
	}
	return policy.NewContext(s.policy, sess), nil
}

// internal logs an unexpected failure and hides it behind a generic error.
func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "post operation failed", "op", op, "error", err)
	return apperr.Internal(err)
}

// Create stores a new post authored by the session user, or by the anonymous
// placeholder when anonymous authoring is enabled.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Post, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	ac, err := s.authContext(ctx)
	if err != nil {
		return nil, err
	}
	authorship, err := policy.AuthorizeCreate(ac)
	if err != nil {
		return nil, err
	}
	authorID := authorship.UserID
	if authorship.Anonymous {
		anon, err := GetOrCreateAnonymousIdentity(ctx, s.store)
		if err != nil {
			return nil, s.internal(ctx, "provision anonymous author", err)
		}
		authorID = anon.ID
	}

	now := s.now()
	p := &models.Post{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertPost(ctx, p); err != nil {
		return nil, s.internal(ctx, "insert post", err)
	}
	s.log.Info(ctx, "post created", "id", p.ID, "author_id", authorID, "anonymous", authorship.Anonymous)
	s.revalidator.Revalidate(ctx, ListingPath)
	return p, nil
}

// existing loads the target of an update or delete and applies the policy.
func (s *Service) existing(ctx context.Context, id string, action policy.Action) (*models.Post, error) {
	ac, err := s.authContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindPost(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("post")
	}
	if err != nil {
		return nil, s.internal(ctx, "find post", err)
	}
	if err := policy.AuthorizeMutation(ac, action, p.AuthorID); err != nil {
		s.log.Warn(ctx, "post mutation denied", "id", id, "action", action, "error", err)
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields of a post. The author never changes.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*models.Post, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	p, err := s.existing(ctx, in.ID, policy.Update)
	if err != nil {
		return nil, err
	}
	p.Title = in.Title
	p.Content = in.Content
	p.Published = in.Published
	p.UpdatedAt = s.now()
	if err := s.store.UpdatePost(ctx, p); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// deleted between the lookup and the write
			return nil, apperr.NotFound("post")
		}
		return nil, s.internal(ctx, "update post", err)
	}
	s.log.Info(ctx, "post updated", "id", p.ID)
	s.revalidator.Revalidate(ctx, ListingPath)
	return p, nil
}

// Delete removes a post and returns its id.
func (s *Service) Delete(ctx context.Context, in DeleteInput) (string, error) {
	if err := validate.Struct(&in); err != nil {
		return "", err
	}
	if _, err := s.existing(ctx, in.ID, policy.Delete); err != nil {
		return "", err
	}
	if err := s.store.DeletePost(ctx, in.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", apperr.NotFound("post")
		}
		return "", s.internal(ctx, "delete post", err)
	}
	s.log.Info(ctx, "post deleted", "id", in.ID)
	s.revalidator.Revalidate(ctx, ListingPath)
	return in.ID, nil
}

// Get returns a single post.
func (s *Service) Get(ctx context.Context, id string) (*models.Post, error) {
	if err := validate.Struct(&DeleteInput{ID: id}); err != nil {
		return nil, err
	}
	p, err := s.store.FindPost(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("post")
	}
	if err != nil {
		return nil, s.internal(ctx, "find post", err)
	}
	return p, nil
}

// List returns posts newest first, each marked with whether the caller may
// change it. A limit of zero lists every post.
func (s *Service) List(ctx context.Context, limit int) ([]Row, error) {
	ac, err := s.authContext(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.store.ListPosts(ctx, limit)
	if err != nil {
		return nil, s.internal(ctx, "list posts", err)
	}
	rows := make([]Row, len(posts))
	for i, p := range posts {
		rows[i] = Row{PostWithAuthor: p, CanEdit: policy.CanMutate(ac, p.AuthorID)}
	}
	return rows, nil
}

// ListByAuthor returns one author's posts, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	if err := validate.Struct(&DeleteInput{ID: authorID}); err != nil {
		return nil, err
	}
	posts, err := s.store.ListPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, s.internal(ctx, "list author posts", err)
	}
	return posts, nil
}
