package catalog

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDetail(t *testing.T) Detail {
	t.Helper()
	v, ok := DefaultStore().Get(SampleVehicleID)
	require.True(t, ok)
	return BuildDetail(v)
}

func TestSelectColorAndImageClamp(t *testing.T) {
	d := sampleDetail(t)
	require.Len(t, d.Colors, 3)

	s := DetailState{}
	assert.Equal(t, 2, SelectColor(d, s, 2).SelectedColor)
	assert.Equal(t, 2, SelectColor(d, s, 10).SelectedColor)
	assert.Equal(t, 0, SelectColor(d, s, -1).SelectedColor)

	last := len(d.Gallery) - 1
	assert.Equal(t, last, SelectImage(d, s, 99).SelectedImage)
	assert.Equal(t, 0, SelectImage(Detail{}, s, 3).SelectedImage)
}

func TestTransitionsDoNotShareState(t *testing.T) {
	d := sampleDetail(t)
	s := DetailState{}

	next := ToggleDescription(SelectColor(d, s, 1))

	assert.Equal(t, DetailState{}, s)
	assert.Equal(t, 1, next.SelectedColor)
	assert.True(t, next.DescriptionExpanded)
	assert.False(t, ToggleDescription(next).DescriptionExpanded)
}

func TestRender_TruncatesLongDescription(t *testing.T) {
	d := sampleDetail(t)
	require.Greater(t, utf8.RuneCountInString(d.Description), DescriptionPreviewLength)

	collapsed := Render(d, DetailState{})
	assert.True(t, collapsed.CanExpand)
	assert.True(t, strings.HasSuffix(collapsed.VisibleText, "..."))
	assert.Equal(t, DescriptionPreviewLength+3, utf8.RuneCountInString(collapsed.VisibleText))
	assert.True(t, strings.HasPrefix(d.Description, strings.TrimSuffix(collapsed.VisibleText, "...")))

	expanded := Render(d, DetailState{DescriptionExpanded: true})
	assert.Equal(t, d.Description, expanded.VisibleText)
}

func TestRender_ShortDescriptionIsNotTruncated(t *testing.T) {
	d := Detail{Description: "Short and sweet."}

	view := Render(d, DetailState{})

	assert.False(t, view.CanExpand)
	assert.Equal(t, "Short and sweet.", view.VisibleText)
	assert.Nil(t, view.SelectedColor)
	assert.Empty(t, view.SelectedImage)
}

func TestRender_SelectedVariant(t *testing.T) {
	d := sampleDetail(t)

	view := Render(d, DetailState{SelectedColor: 1, SelectedImage: 7})

	require.NotNil(t, view.SelectedColor)
	assert.Equal(t, "Matte Black Metallic", view.SelectedColor.Name)
	assert.Equal(t, d.Gallery[len(d.Gallery)-1], view.SelectedImage)
	assert.Equal(t, len(d.Gallery)-1, view.State.SelectedImage)
}

func TestBuildDetail_GeneratedContent(t *testing.T) {
	v, ok := DefaultStore().Get("cb300r")
	require.True(t, ok)

	d := BuildDetail(v)

	assert.Equal(t, "Naked", d.Tagline)
	assert.Contains(t, d.Description, "CB300R")
	assert.Equal(t, "286cc", d.Specifications.Engine.Displacement)
	require.Len(t, d.Colors, 1)
	assert.Equal(t, []string{v.Image}, d.Gallery)
	assert.Len(t, d.FeatureNotes, len(v.Features))
}

func TestParseLookupPolicy(t *testing.T) {
	p, err := ParseLookupPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LookupStrict, p)

	p, err = ParseLookupPolicy("Fallback")
	require.NoError(t, err)
	assert.Equal(t, LookupFallback, p)

	_, err = ParseLookupPolicy("lenient")
	assert.ErrorIs(t, err, ErrInvalidLookupPolicy)
}

func TestService_GetDetailStrict(t *testing.T) {
	svc := NewService(DefaultStore(), LookupStrict)

	_, err := svc.GetDetail(context.Background(), "vespa", DetailState{})

	require.Error(t, err)
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
}

func TestService_GetDetailFallback(t *testing.T) {
	svc := NewService(DefaultStore(), LookupFallback)

	view, err := svc.GetDetail(context.Background(), "vespa", DetailState{})

	require.NoError(t, err)
	assert.True(t, view.Fallback)
	assert.Equal(t, "vespa", view.RequestedID)
	assert.Equal(t, SampleVehicleID, view.ID)
}

func TestService_GetDetailKnownIDIgnoresPolicy(t *testing.T) {
	for _, policy := range []LookupPolicy{LookupStrict, LookupFallback} {
		svc := NewService(DefaultStore(), policy)

		view, err := svc.GetDetail(context.Background(), "rebel500", DetailState{})

		require.NoError(t, err)
		assert.False(t, view.Fallback)
		assert.Equal(t, "rebel500", view.ID)
	}
}

func TestService_RelatedVehicles(t *testing.T) {
	svc := NewService(DefaultStore(), LookupStrict)

	view, err := svc.GetDetail(context.Background(), "cbr1000rr", DetailState{})
	require.NoError(t, err)

	ids := make([]string, 0, len(view.Related))
	for _, r := range view.Related {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"cbr600rr", "cbr500r", "cb1000r"}, ids)
	assert.Equal(t, 1200000, view.Related[0].Price)

	view, err = svc.GetDetail(context.Background(), "cb650r", DetailState{})
	require.NoError(t, err)
	require.Len(t, view.Related, 2)
	for _, r := range view.Related {
		assert.Equal(t, CategoryNaked, r.Category)
		assert.NotEqual(t, "cb650r", r.ID)
	}
}
