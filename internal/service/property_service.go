package service

import (
	"context"
	"log/slog"
	"strings"

	"brokerage/internal/listing"
	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/repository"
)

// PropertyIndexer mirrors property writes into a search index.
type PropertyIndexer interface {
	Upsert(ctx context.Context, p models.Property) error
	Delete(ctx context.Context, id uint) error
}

// PropertySearcher resolves a free-text query to property ids in relevance order.
type PropertySearcher interface {
	Enabled() bool
	Search(ctx context.Context, query string, limit int64) ([]uint, error)
}

type PropertyService struct {
	repo        repository.PropertyRepository
	revalidator *Revalidator
	indexer     PropertyIndexer
}

type FloorPlanInput struct {
	Label string `json:"label" validate:"required,notblank,max=100"`
	Image string `json:"image" validate:"required,mediaurl"`
}

type CreatePropertyInput struct {
	Name        string           `json:"name" validate:"required,notblank,max=200"`
	Address     string           `json:"address" validate:"required,notblank,max=300"`
	Price       float64          `json:"price" validate:"gt=0"`
	Currency    string           `json:"currency" validate:"omitempty,oneof=USD NGN"`
	Image       string           `json:"image" validate:"required,mediaurl"`
	Gallery     []string         `json:"gallery" validate:"omitempty,dive,required,mediaurl"`
	Beds        int              `json:"beds" validate:"gt=0"`
	Baths       float64          `json:"baths" validate:"gt=0"`
	Sqft        int              `json:"sqft" validate:"gt=0"`
	Status      string           `json:"status" validate:"required"`
	Tags        []string         `json:"tags" validate:"omitempty,dive,notblank,max=50"`
	Featured    bool             `json:"featured"`
	Description string           `json:"description" validate:"max=10000"`
	Amenities   []string         `json:"amenities" validate:"omitempty,dive,notblank,max=100"`
	FloorPlans  []FloorPlanInput `json:"floor_plans" validate:"omitempty,dive"`
}

// UpdatePropertyInput carries the fields to change; nil fields are left untouched.
type UpdatePropertyInput struct {
	Name        *string           `json:"name" validate:"omitempty,notblank,max=200"`
	Address     *string           `json:"address" validate:"omitempty,notblank,max=300"`
	Price       *float64          `json:"price" validate:"omitempty,gt=0"`
	Currency    *string           `json:"currency" validate:"omitempty,oneof=USD NGN"`
	Image       *string           `json:"image" validate:"omitempty,notblank,mediaurl"`
	Gallery     *[]string         `json:"gallery" validate:"omitempty,dive,required,mediaurl"`
	Beds        *int              `json:"beds" validate:"omitempty,gt=0"`
	Baths       *float64          `json:"baths" validate:"omitempty,gt=0"`
	Sqft        *int              `json:"sqft" validate:"omitempty,gt=0"`
	Status      *string           `json:"status"`
	Tags        *[]string         `json:"tags" validate:"omitempty,dive,notblank,max=50"`
	Featured    *bool             `json:"featured"`
	Description *string           `json:"description" validate:"omitempty,max=10000"`
	Amenities   *[]string         `json:"amenities" validate:"omitempty,dive,notblank,max=100"`
	FloorPlans  *[]FloorPlanInput `json:"floor_plans" validate:"omitempty,dive"`
}

// ListPropertiesInput combines database-side and in-memory listing filters.
type ListPropertiesInput struct {
	Query    repository.PropertyQuery
	Criteria listing.Criteria
}

func NewPropertyService(repo repository.PropertyRepository, revalidator *Revalidator, indexer PropertyIndexer) *PropertyService {
	return &PropertyService{
		repo:        repo,
		revalidator: revalidator,
		indexer:     indexer,
	}
}

func statusFieldError(status string) map[string]string {
	if models.IsValidPropertyStatus(status) {
		return nil
	}
	return map[string]string{"status": "must be one of: " + strings.Join(models.PropertyStatuses, ", ")}
}

func (s *PropertyService) Create(ctx context.Context, in CreatePropertyInput) (_ *models.Property, err error) {
	ctx, done := observe(ctx, EntityProperty, OpCreate)
	defer func() { done(err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if err := validate(in, statusFieldError(in.Status)); err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = models.CurrencyUSD
	}
	p := &models.Property{
		Name:        in.Name,
		Address:     in.Address,
		Price:       in.Price,
		Currency:    currency,
		Image:       in.Image,
		Gallery:     nonNil(in.Gallery),
		Beds:        in.Beds,
		Baths:       in.Baths,
		Sqft:        in.Sqft,
		Status:      in.Status,
		Tags:        nonNil(in.Tags),
		Featured:    in.Featured,
		Description: in.Description,
		Amenities:   nonNil(in.Amenities),
		FloorPlans:  floorPlans(in.FloorPlans),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.afterWrite(ctx, p)
	return p, nil
}

func (s *PropertyService) Update(ctx context.Context, id uint, in UpdatePropertyInput) (_ *models.Property, err error) {
	ctx, done := observe(ctx, EntityProperty, OpUpdate)
	defer func() { done(err) }()

	var extra map[string]string
	if in.Status != nil {
		extra = statusFieldError(*in.Status)
	}
	if err := validate(in, extra); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Property", id)
	}

	columns := applyPropertyUpdate(p, in)
	if len(columns) == 0 {
		return p, nil
	}
	if err := s.repo.Update(ctx, p, columns); err != nil {
		return nil, repoError(err, "Property", id)
	}

	s.afterWrite(ctx, p)
	return p, nil
}

func applyPropertyUpdate(p *models.Property, in UpdatePropertyInput) []string {
	var columns []string
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
		columns = append(columns, "name")
	}
	if in.Address != nil {
		p.Address = strings.TrimSpace(*in.Address)
		columns = append(columns, "address")
	}
	if in.Price != nil {
		p.Price = *in.Price
		columns = append(columns, "price")
	}
	if in.Currency != nil {
		p.Currency = *in.Currency
		columns = append(columns, "currency")
	}
	if in.Image != nil {
		p.Image = *in.Image
		columns = append(columns, "image")
	}
	if in.Gallery != nil {
		p.Gallery = nonNil(*in.Gallery)
		columns = append(columns, "gallery")
	}
	if in.Beds != nil {
		p.Beds = *in.Beds
		columns = append(columns, "beds")
	}
	if in.Baths != nil {
		p.Baths = *in.Baths
		columns = append(columns, "baths")
	}
	if in.Sqft != nil {
		p.Sqft = *in.Sqft
		columns = append(columns, "sqft")
	}
	if in.Status != nil {
		p.Status = *in.Status
		columns = append(columns, "status")
	}
	if in.Tags != nil {
		p.Tags = nonNil(*in.Tags)
		columns = append(columns, "tags")
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
		columns = append(columns, "featured")
	}
	if in.Description != nil {
		p.Description = *in.Description
		columns = append(columns, "description")
	}
	if in.Amenities != nil {
		p.Amenities = nonNil(*in.Amenities)
		columns = append(columns, "amenities")
	}
	if in.FloorPlans != nil {
		p.FloorPlans = floorPlans(*in.FloorPlans)
		columns = append(columns, "floor_plans")
	}
	return columns
}

func (s *PropertyService) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := observe(ctx, EntityProperty, OpDelete)
	defer func() { done(err) }()

	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "Property", id)
	}

	s.revalidator.Invalidate(ctx, EntityProperty, PropertyPaths(id))
	if s.indexer != nil {
		if err := s.indexer.Delete(ctx, id); err != nil {
			middleware.Logger.WarnContext(ctx, "search delete failed", slog.Uint64("property_id", uint64(id)), slog.String("error", err.Error()))
		}
	}
	return nil
}

func (s *PropertyService) afterWrite(ctx context.Context, p *models.Property) {
	s.revalidator.Invalidate(ctx, EntityProperty, PropertyPaths(p.ID))
	if s.indexer != nil {
		if err := s.indexer.Upsert(ctx, *p); err != nil {
			middleware.Logger.WarnContext(ctx, "search upsert failed", slog.Uint64("property_id", uint64(p.ID)), slog.String("error", err.Error()))
		}
	}
}

func (s *PropertyService) Get(ctx context.Context, id uint) (*models.Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Property", id)
	}
	return p, nil
}

// List fetches properties with the database filters in in.Query and narrows them
// with the listing criteria. The limit applies to the filtered, sorted result.
func (s *PropertyService) List(ctx context.Context, in ListPropertiesInput) ([]models.Property, error) {
	limit := in.Query.Limit
	q := in.Query
	q.Limit = 0

	props, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	out := listing.Apply(props, in.Criteria)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListAll returns every property for the admin console, bypassing the cache.
func (s *PropertyService) ListAll(ctx context.Context) ([]models.Property, error) {
	props, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return props, nil
}

// Search resolves query through searcher when it is enabled and falls back to a
// listing filter over every property otherwise or when the index fails.
func (s *PropertyService) Search(ctx context.Context, searcher PropertySearcher, query string, limit int) ([]models.Property, error) {
	if searcher != nil && searcher.Enabled() && query != "" {
		ids, err := searcher.Search(ctx, query, int64(limit))
		if err == nil {
			return s.byIDs(ctx, ids), nil
		}
		middleware.Logger.WarnContext(ctx, "search index query failed, falling back to listing filter",
			slog.String("query", query), slog.String("error", err.Error()))
	}

	props, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	out := listing.Apply(props, listing.Criteria{Query: query})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// byIDs loads properties in ids order, skipping ids deleted since indexing.
func (s *PropertyService) byIDs(ctx context.Context, ids []uint) []models.Property {
	out := make([]models.Property, 0, len(ids))
	for _, id := range ids {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func floorPlans(in []FloorPlanInput) []models.FloorPlan {
	out := make([]models.FloorPlan, 0, len(in))
	for _, fp := range in {
		out = append(out, models.FloorPlan{Label: strings.TrimSpace(fp.Label), Image: fp.Image})
	}
	return out
}
