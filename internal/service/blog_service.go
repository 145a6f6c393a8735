package service

import (
	"context"
	"strings"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/repository"
	"brokerage/internal/validation"
)

type BlogService struct {
	repo        repository.BlogRepository
	revalidator *Revalidator
	now         func() time.Time
}

type CreateBlogPostInput struct {
	Title        string   `json:"title" validate:"required,notblank,max=300"`
	Slug         string   `json:"slug" validate:"max=300"`
	Excerpt      string   `json:"excerpt" validate:"required,notblank,max=1000"`
	Content      string   `json:"content" validate:"required,notblank"`
	Author       string   `json:"author" validate:"required,notblank,max=200"`
	AuthorAvatar string   `json:"author_avatar" validate:"omitempty,mediaurl"`
	Image        string   `json:"image" validate:"omitempty,mediaurl"`
	Category     string   `json:"category" validate:"required,notblank,max=100"`
	Tags         []string `json:"tags" validate:"omitempty,dive,notblank,max=50"`
	Published    bool     `json:"published"`
}

// UpdateBlogPostInput carries the fields to change; nil fields are left untouched.
type UpdateBlogPostInput struct {
	Title        *string   `json:"title" validate:"omitempty,notblank,max=300"`
	Slug         *string   `json:"slug" validate:"omitempty,max=300"`
	Excerpt      *string   `json:"excerpt" validate:"omitempty,notblank,max=1000"`
	Content      *string   `json:"content" validate:"omitempty,notblank"`
	Author       *string   `json:"author" validate:"omitempty,notblank,max=200"`
	AuthorAvatar *string   `json:"author_avatar" validate:"omitempty,mediaurl"`
	Image        *string   `json:"image" validate:"omitempty,mediaurl"`
	Category     *string   `json:"category" validate:"omitempty,notblank,max=100"`
	Tags         *[]string `json:"tags" validate:"omitempty,dive,notblank,max=50"`
	Published    *bool     `json:"published"`
}

func NewBlogService(repo repository.BlogRepository, revalidator *Revalidator) *BlogService {
	return &BlogService{repo: repo, revalidator: revalidator, now: time.Now}
}

// resolveSlug normalizes an explicit slug, or derives one from title when slug is blank.
func resolveSlug(slug, title string) string {
	if strings.TrimSpace(slug) != "" {
		return validation.Slugify(slug)
	}
	return validation.Slugify(title)
}

func (s *BlogService) Create(ctx context.Context, in CreateBlogPostInput) (_ *models.BlogPost, err error) {
	ctx, done := observe(ctx, EntityBlog, OpCreate)
	defer func() { done(err) }()

	in.Title = strings.TrimSpace(in.Title)
	slug := resolveSlug(in.Slug, in.Title)

	var extra map[string]string
	if slug == "" && in.Title != "" {
		extra = map[string]string{"slug": "is required"}
	}
	if err := validate(in, extra); err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Title:        in.Title,
		Slug:         slug,
		Excerpt:      strings.TrimSpace(in.Excerpt),
		Content:      in.Content,
		Author:       strings.TrimSpace(in.Author),
		AuthorAvatar: in.AuthorAvatar,
		Image:        in.Image,
		Category:     strings.TrimSpace(in.Category),
		Tags:         nonNil(in.Tags),
		Published:    in.Published,
	}
	if post.Published {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.revalidator.Invalidate(ctx, EntityBlog, BlogPaths(post.Slug))
	return post, nil
}

func (s *BlogService) Update(ctx context.Context, id uint, in UpdateBlogPostInput) (_ *models.BlogPost, err error) {
	ctx, done := observe(ctx, EntityBlog, OpUpdate)
	defer func() { done(err) }()

	var extra map[string]string
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" && validation.Slugify(*in.Slug) == "" {
		extra = map[string]string{"slug": "is required"}
	}
	if err := validate(in, extra); err != nil {
		return nil, err
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "BlogPost", id)
	}
	oldSlug := post.Slug

	columns := s.applyBlogUpdate(post, in)
	if len(columns) == 0 {
		return post, nil
	}
	if err := s.repo.Update(ctx, post, columns); err != nil {
		return nil, repoError(err, "BlogPost", id)
	}

	s.revalidator.Invalidate(ctx, EntityBlog, BlogPaths(oldSlug, post.Slug))
	return post, nil
}

func (s *BlogService) applyBlogUpdate(post *models.BlogPost, in UpdateBlogPostInput) []string {
	var columns []string
	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
		columns = append(columns, "title")
	}
	if in.Slug != nil {
		// A blank slug re-derives it from the (possibly new) title.
		post.Slug = resolveSlug(*in.Slug, post.Title)
		columns = append(columns, "slug")
	}
	if in.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*in.Excerpt)
		columns = append(columns, "excerpt")
	}
	if in.Content != nil {
		post.Content = *in.Content
		columns = append(columns, "content")
	}
	if in.Author != nil {
		post.Author = strings.TrimSpace(*in.Author)
		columns = append(columns, "author")
	}
	if in.AuthorAvatar != nil {
		post.AuthorAvatar = *in.AuthorAvatar
		columns = append(columns, "author_avatar")
	}
	if in.Image != nil {
		post.Image = *in.Image
		columns = append(columns, "image")
	}
	if in.Category != nil {
		post.Category = strings.TrimSpace(*in.Category)
		columns = append(columns, "category")
	}
	if in.Tags != nil {
		post.Tags = nonNil(*in.Tags)
		columns = append(columns, "tags")
	}
	if in.Published != nil {
		// published_at is set once, on the first publish, and survives unpublishing.
		if *in.Published && !post.Published && post.PublishedAt == nil {
			now := s.now()
			post.PublishedAt = &now
			columns = append(columns, "published_at")
		}
		post.Published = *in.Published
		columns = append(columns, "published")
	}
	return columns
}

func (s *BlogService) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := observe(ctx, EntityBlog, OpDelete)
	defer func() { done(err) }()

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "BlogPost", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "BlogPost", id)
	}
	s.revalidator.Invalidate(ctx, EntityBlog, BlogPaths(post.Slug))
	return nil
}

func (s *BlogService) Get(ctx context.Context, id uint) (*models.BlogPost, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "BlogPost", id)
	}
	return post, nil
}

// GetPublished returns the published post with slug.
func (s *BlogService) GetPublished(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, repoError(err, "BlogPost", slug)
	}
	return post, nil
}

func (s *BlogService) ListPublished(ctx context.Context, category string, limit int) ([]models.BlogPost, error) {
	posts, err := s.repo.ListPublished(ctx, category, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListAll returns every post including drafts.
func (s *BlogService) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
