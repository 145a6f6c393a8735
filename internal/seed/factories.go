// Package seed provides helpers to create demo data for the brokerage
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	propertyTags = []string{"Waterfront", "New Build", "Gated Estate", "Serviced", "Pet Friendly", "Furnished", "Off-Plan", "Penthouse"}
	amenities    = []string{"Swimming Pool", "Gym", "24/7 Security", "Backup Power", "Parking", "Elevator", "Garden", "Rooftop Terrace", "Smart Home"}
	propertyKind = []string{"Villa", "Duplex", "Terrace", "Apartment", "Penthouse", "Bungalow", "Townhouse"}
	categories   = []string{"Market Insights", "Buying Guide", "Investment", "Lifestyle", "Company News"}
	leadBudgets  = []string{"$150k - $250k", "$250k - $500k", "$500k - $1M", "$1M+", "Flexible"}
)

// Factory builds domain entities with realistic fake content. It never
// touches the database; the Seeder persists what it builds.
type Factory struct {
	faker *gofakeit.Faker
	now   func() time.Time
	seq   int
	slugs map[string]int
}

// NewFactory returns a Factory. A zero seed produces different data on every run.
func NewFactory(seed int64) *Factory {
	return &Factory{
		faker: gofakeit.New(seed),
		now:   time.Now,
		slugs: make(map[string]int),
	}
}

func (f *Factory) image(prefix string, w, h int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s-%s/%d/%d", prefix, f.faker.UUID(), w, h)
}

func (f *Factory) pick(src []string, n int) []string {
	shuffled := append([]string(nil), src...)
	f.faker.ShuffleStrings(shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

func (f *Factory) past(maxDays int) time.Time {
	return f.now().Add(-time.Duration(f.faker.Number(0, maxDays*24)) * time.Hour)
}

// Property builds an unsaved listing.
func (f *Factory) Property(overrides ...func(*models.Property)) *models.Property {
	kind := f.faker.RandomString(propertyKind)
	beds := f.faker.Number(1, 6)
	currency := f.faker.RandomString([]string{models.CurrencyUSD, models.CurrencyNGN})
	price := float64(f.faker.Number(8, 250)) * 10000
	if currency == models.CurrencyNGN {
		price *= 1500
	}

	p := &models.Property{
		Name:        fmt.Sprintf("%d-Bedroom %s, %s", beds, kind, f.faker.StreetName()),
		Address:     fmt.Sprintf("%s, %s", f.faker.Street(), f.faker.City()),
		Price:       price,
		Currency:    currency,
		Image:       f.image("property", 1200, 800),
		Beds:        beds,
		Baths:       math.Max(1, float64(beds)-0.5*float64(f.faker.Number(0, 2))),
		Sqft:        f.faker.Number(6, 60) * 100,
		Status:      f.faker.RandomString(models.PropertyStatuses),
		Tags:        f.pick(propertyTags, f.faker.Number(1, 3)),
		Featured:    f.faker.Number(1, 4) == 1,
		Description: f.faker.Paragraph(2, 3, 12, "\n\n"),
		Amenities:   f.pick(amenities, f.faker.Number(2, 5)),
		FloorPlans: []models.FloorPlan{
			{Label: "Ground Floor", Image: f.image("plan", 800, 600)},
		},
	}
	for i := 0; i < 3; i++ {
		p.Gallery = append(p.Gallery, f.image("gallery", 1200, 800))
	}
	p.CreatedAt = f.past(120)
	p.UpdatedAt = p.CreatedAt

	for _, override := range overrides {
		override(p)
	}
	return p
}

// Lead builds an unsaved enquiry at a random pipeline stage.
func (f *Factory) Lead(overrides ...func(*models.Lead)) *models.Lead {
	l := &models.Lead{
		Name:             f.faker.Name(),
		Email:            strings.ToLower(f.faker.Email()),
		Phone:            f.faker.Phone(),
		PropertyInterest: f.faker.RandomString(propertyKind),
		Budget:           f.faker.RandomString(leadBudgets),
		Message:          f.faker.Sentence(18),
		Status:           f.faker.RandomString(models.LeadStatuses),
	}
	l.CreatedAt = f.past(60)
	l.UpdatedAt = l.CreatedAt
	if l.Status != models.LeadStatusNew {
		contacted := l.CreatedAt.Add(time.Duration(f.faker.Number(1, 72)) * time.Hour)
		l.ContactedAt = &contacted
	}

	for _, override := range overrides {
		override(l)
	}
	return l
}

// BlogPost builds an unsaved article with a slug unique within this Factory.
func (f *Factory) BlogPost(overrides ...func(*models.BlogPost)) *models.BlogPost {
	title := strings.TrimSuffix(f.faker.Sentence(f.faker.Number(4, 8)), ".")
	b := &models.BlogPost{
		Title:        title,
		Slug:         f.uniqueSlug(validation.Slugify(title)),
		Excerpt:      f.faker.Sentence(20),
		Content:      "<p>" + f.faker.Paragraph(4, 4, 14, "</p><p>") + "</p>",
		Author:       f.faker.Name(),
		AuthorAvatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		Image:        f.image("blog", 1200, 630),
		Category:     f.faker.RandomString(categories),
		Tags:         []string{strings.ToLower(f.faker.Word()), strings.ToLower(f.faker.Word())},
		Published:    f.faker.Number(1, 5) != 1,
	}
	b.CreatedAt = f.past(180)
	b.UpdatedAt = b.CreatedAt
	if b.Published {
		at := b.CreatedAt.Add(time.Duration(f.faker.Number(1, 48)) * time.Hour)
		b.PublishedAt = &at
	}

	for _, override := range overrides {
		override(b)
	}
	return b
}

func (f *Factory) uniqueSlug(slug string) string {
	n := f.slugs[slug]
	f.slugs[slug] = n + 1
	if n == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, n+1)
}

// Subscriber builds an unsaved newsletter subscriber with a unique address.
func (f *Factory) Subscriber() *models.NewsletterSubscriber {
	f.seq++
	return &models.NewsletterSubscriber{
		Email:     strings.ToLower(fmt.Sprintf("%s.%d@%s", f.faker.Username(), f.seq, f.faker.DomainName())),
		CreatedAt: f.past(365),
	}
}

// ContactMessage builds an unsaved contact form submission.
func (f *Factory) ContactMessage() *models.ContactMessage {
	return &models.ContactMessage{
		Name:      f.faker.Name(),
		Email:     strings.ToLower(f.faker.Email()),
		Phone:     f.faker.Phone(),
		Subject:   f.faker.RandomString([]string{"Viewing request", "Valuation", "Partnership", "General enquiry"}),
		Message:   f.faker.Paragraph(1, 3, 12, " "),
		CreatedAt: f.past(30),
	}
}
