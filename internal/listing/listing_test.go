package listing

import (
	"testing"

	"brokerage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func sampleProperties() []models.Property {
	return []models.Property{
		{ID: 1, Name: "Ocean View Villa", Address: "12 Marina Rd, Lagos", Price: 450000, Status: models.PropertyStatusForSale},
		{ID: 2, Name: "City Loft", Address: "4 Broad St, Lagos", Price: 2500, Status: models.PropertyStatusForRent},
		{ID: 3, Name: "Garden Duplex", Address: "9 Ocean Close, Lekki", Price: 320000, Status: models.PropertyStatusForSale},
		{ID: 4, Name: "Palm Cottage", Address: "1 Palm Ave, Abuja", Price: 320000, Status: models.PropertyStatusSold},
		{ID: 5, Name: "Studio Nine", Address: "77 Allen Ave, Ikeja", Price: 900, Status: models.PropertyStatusComingSoon},
	}
}

func ids(props []models.Property) []uint {
	out := make([]uint, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

func TestApply_QueryMatchesNameOrAddress(t *testing.T) {
	got := Apply(sampleProperties(), Criteria{Query: "ocean"})
	assert.Equal(t, []uint{1, 3}, ids(got))
}

func TestApply_StatusAllIsNoFilter(t *testing.T) {
	props := sampleProperties()
	assert.Len(t, Apply(props, Criteria{Status: StatusAll}), len(props))
	assert.Len(t, Apply(props, Criteria{}), len(props))
	assert.Equal(t, []uint{1, 3}, ids(Apply(props, Criteria{Status: models.PropertyStatusForSale})))
}

func TestApply_PriceBoundsInclusive(t *testing.T) {
	got := Apply(sampleProperties(), Criteria{MinPrice: ptr(2500), MaxPrice: ptr(320000)})
	assert.Equal(t, []uint{2, 3, 4}, ids(got))
}

func TestApply_SubsetAndConjunction(t *testing.T) {
	props := sampleProperties()
	criteria := []Criteria{
		{Query: "lagos", Status: models.PropertyStatusForSale},
		{MinPrice: ptr(1000), Sort: SortPriceDesc},
		{Query: "a", MaxPrice: ptr(400000), Sort: SortPriceAsc},
		{Status: "Unknown"},
	}

	for _, c := range criteria {
		got := Apply(props, c)
		for _, p := range got {
			assert.True(t, c.Matches(p), "result %d must satisfy every filter", p.ID)
			assert.Contains(t, ids(props), p.ID)
		}
		for _, p := range props {
			if c.Matches(p) {
				assert.Contains(t, ids(got), p.ID, "matching property %d must be kept", p.ID)
			}
		}
	}
}

func TestApply_FilterOrderIndependent(t *testing.T) {
	props := sampleProperties()
	full := Apply(props, Criteria{Query: "a", Status: models.PropertyStatusForSale, MinPrice: ptr(100000)})

	staged := Apply(props, Criteria{MinPrice: ptr(100000)})
	staged = Apply(staged, Criteria{Status: models.PropertyStatusForSale})
	staged = Apply(staged, Criteria{Query: "a"})

	assert.Equal(t, ids(full), ids(staged))
}

func TestApply_PriceSortMonotonicAndStable(t *testing.T) {
	asc := Apply(sampleProperties(), Criteria{Sort: SortPriceAsc})
	for i := 1; i < len(asc); i++ {
		assert.LessOrEqual(t, asc[i-1].Price, asc[i].Price)
	}
	// Equal prices keep input order.
	assert.Equal(t, []uint{5, 2, 3, 4, 1}, ids(asc))

	desc := Apply(sampleProperties(), Criteria{Sort: SortPriceDesc})
	for i := 1; i < len(desc); i++ {
		assert.GreaterOrEqual(t, desc[i-1].Price, desc[i].Price)
	}
	assert.Equal(t, []uint{1, 3, 4, 2, 5}, ids(desc))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	props := sampleProperties()
	before := ids(props)

	_ = Apply(props, Criteria{Sort: SortPriceAsc})

	assert.Equal(t, before, ids(props))
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, Criteria{Query: "anything"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseCriteria(t *testing.T) {
	c := ParseCriteria(" villa ", "For Sale", "1000", "abc", "Price: High to Low")
	assert.Equal(t, "villa", c.Query)
	assert.Equal(t, "For Sale", c.Status)
	require.NotNil(t, c.MinPrice)
	assert.Equal(t, 1000.0, *c.MinPrice)
	assert.Nil(t, c.MaxPrice, "non-numeric bound is ignored")
	assert.Equal(t, SortPriceDesc, c.Sort)
}

func TestParseSort(t *testing.T) {
	tests := map[string]SortKey{
		"":                   SortNewest,
		"newest":             SortNewest,
		"price-asc":          SortPriceAsc,
		"price_asc":          SortPriceAsc,
		"Price: Low to High": SortPriceAsc,
		"price_desc":         SortPriceDesc,
		"bogus":              SortNewest,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseSort(raw), raw)
	}
}
