package catalog

import (
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allSortKeys() []SortKey {
	return []SortKey{SortFeatured, SortPriceLow, SortPriceHigh, SortNewest, SortEngineSize, SortPower, SortMileage}
}

func TestComputeView_FeaturedNewFlagDominatesPrice(t *testing.T) {
	records := []Vehicle{
		{ID: "b", Category: CategorySport, Price: 200, IsNew: false},
		{ID: "a", Category: CategorySport, Price: 100, IsNew: true},
	}
	c := DefaultCriteria()

	view := ComputeView(records, c)

	require.Len(t, view, 2)
	assert.Equal(t, "a", view[0].ID)
	assert.Equal(t, "b", view[1].ID)
}

func TestComputeView_DefaultCriteriaShowsWholeCatalog(t *testing.T) {
	store := DefaultStore()
	view := ComputeView(store.All(), DefaultCriteria())
	assert.Len(t, view, store.Len())
}

func TestComputeView_DoesNotMutateInput(t *testing.T) {
	records := DefaultStore().All()
	before := make([]string, len(records))
	for i, r := range records {
		before[i] = r.ID
	}

	c := DefaultCriteria()
	c.Sort = SortPriceLow
	_ = ComputeView(records, c)

	after := make([]string, len(records))
	for i, r := range records {
		after[i] = r.ID
	}
	assert.Equal(t, before, after)
}

func TestComputeView_OutputSatisfiesEveryPredicate(t *testing.T) {
	records := DefaultStore().All()

	criteriaList := []Criteria{
		{Category: CategorySport, PriceMin: 0, PriceMax: DefaultPriceMax, EngineMin: 0, EngineMax: DefaultEngineMax, Sort: SortFeatured},
		{Category: CategoryAll, PriceMin: 100000, PriceMax: 1000000, EngineMin: 200, EngineMax: 700, Sort: SortPriceLow},
		{Category: CategoryAll, PriceMin: 0, PriceMax: DefaultPriceMax, EngineMin: 0, EngineMax: DefaultEngineMax, Features: []string{"ABS", "DCT"}, Sort: SortPower},
		{Category: CategoryScooter, PriceMin: 0, PriceMax: DefaultPriceMax, EngineMin: 0, EngineMax: DefaultEngineMax, Search: "dio", Sort: SortMileage},
		{Category: CategoryAll, PriceMin: 0, PriceMax: DefaultPriceMax, EngineMin: 0, EngineMax: DefaultEngineMax, Search: "CRUISER", Sort: SortNewest},
		{Category: CategoryTouring, PriceMin: 0, PriceMax: 10, EngineMin: 0, EngineMax: DefaultEngineMax, Sort: SortFeatured},
	}

	for _, c := range criteriaList {
		view := ComputeView(records, c)
		for _, v := range view {
			assert.True(t, slices.ContainsFunc(records, func(r Vehicle) bool { return r.ID == v.ID }), "output must be a subset")
			if c.Category != CategoryAll {
				assert.Equal(t, c.Category, v.Category)
			}
			assert.GreaterOrEqual(t, v.Price, c.PriceMin)
			assert.LessOrEqual(t, v.Price, c.PriceMax)
			assert.GreaterOrEqual(t, v.EngineSize, c.EngineMin)
			assert.LessOrEqual(t, v.EngineSize, c.EngineMax)
			for _, f := range c.Features {
				assert.Contains(t, v.Features, f)
			}
			if c.Search != "" {
				q := strings.ToLower(c.Search)
				assert.True(t, matchesSearch(v, q), "%s should match %q", v.ID, c.Search)
			}
		}
	}
}

func TestComputeView_SearchIsCaseInsensitive(t *testing.T) {
	c := DefaultCriteria()
	c.Search = "REBEL"

	view := ComputeView(DefaultStore().All(), c)

	require.Len(t, view, 3)
	for _, v := range view {
		assert.Contains(t, v.Name, "Rebel")
	}
}

func TestComputeView_FeaturesUseAndSemantics(t *testing.T) {
	c := DefaultCriteria()
	c.Features = []string{"DCT", "Navigation"}

	view := ComputeView(DefaultStore().All(), c)

	require.Len(t, view, 1)
	assert.Equal(t, "goldwing", view[0].ID)
}

func TestComputeView_SortIsOrderedAndIdempotent(t *testing.T) {
	records := DefaultStore().All()

	for _, key := range allSortKeys() {
		t.Run(string(key), func(t *testing.T) {
			c := DefaultCriteria()
			c.Sort = key

			first := ComputeView(records, c)
			cmp := comparator(key)
			for i := 1; i < len(first); i++ {
				assert.LessOrEqual(t, cmp(first[i-1], first[i]), 0, "%s before %s", first[i-1].ID, first[i].ID)
			}

			second := ComputeView(first, c)
			assert.Equal(t, first, second)
		})
	}
}

func TestComputeView_MissingMileageSortsAsZero(t *testing.T) {
	mileage := 40.0
	records := []Vehicle{
		{ID: "none", Price: 1},
		{ID: "some", Price: 1, Mileage: &mileage},
	}
	c := DefaultCriteria()
	c.Sort = SortMileage

	view := ComputeView(records, c)

	assert.Equal(t, []string{"some", "none"}, []string{view[0].ID, view[1].ID})
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		raw     string
		want    SortKey
		wantErr bool
	}{
		{"", SortFeatured, false},
		{"featured", SortFeatured, false},
		{"price-low", SortPriceLow, false},
		{"price-ascending", SortPriceLow, false},
		{"Price-High", SortPriceHigh, false},
		{"price-descending", SortPriceHigh, false},
		{"engine-size-descending", SortEngineSize, false},
		{"power-descending", SortPower, false},
		{"mileage", SortMileage, false},
		{"cheapest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSortKey(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSortKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCriteriaFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("category", "scooty")
	q.Set("price_min", "70000")
	q.Set("price_max", "100000")
	q.Add("feature", "LED Lights")
	q.Add("feature", "LED Lights")
	q.Add("feature", "USB Charging")
	q.Set("search", "  <b>activa</b> ")
	q.Set("sort", "price-high")

	c, err := CriteriaFromQuery(q)

	require.NoError(t, err)
	assert.Equal(t, CategoryScooter, c.Category)
	assert.Equal(t, 70000, c.PriceMin)
	assert.Equal(t, 100000, c.PriceMax)
	assert.Equal(t, 0, c.EngineMin)
	assert.Equal(t, DefaultEngineMax, c.EngineMax)
	assert.Equal(t, []string{"LED Lights", "USB Charging"}, c.Features)
	assert.Equal(t, "activa", c.Search)
	assert.Equal(t, SortPriceHigh, c.Sort)

	view := ComputeView(DefaultStore().All(), c)
	require.Len(t, view, 1)
	assert.Equal(t, "activa6g", view[0].ID)
}

func TestCriteriaFromQuery_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		wantErr error
	}{
		{"unknown category", url.Values{"category": {"trucks"}}, ErrInvalidCategory},
		{"non numeric price", url.Values{"price_min": {"cheap"}}, ErrInvalidRange},
		{"negative engine", url.Values{"engine_min": {"-5"}}, ErrInvalidRange},
		{"inverted price", url.Values{"price_min": {"500"}, "price_max": {"100"}}, ErrInvalidRange},
		{"unknown sort", url.Values{"sort": {"random"}}, ErrInvalidSortKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CriteriaFromQuery(tt.query)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCriteriaFromQuery_EmptyIsDefault(t *testing.T) {
	c, err := CriteriaFromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultCriteria(), c)
}
