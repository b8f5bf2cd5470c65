package home

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_Sections(t *testing.T) {
	p := Page()

	assert.Equal(t, "Welcome to Movers Solution Company", p.Hero.Title)
	require.Len(t, p.Features, 3)
	require.Len(t, p.Testimonials, 2)
	assert.Equal(t, "Ready to Move?", p.CallToAction.Title)

	for _, f := range p.Features {
		assert.NotEmpty(t, f.Title)
		assert.NotEmpty(t, f.Body)
	}
	for _, tm := range p.Testimonials {
		assert.NotEmpty(t, tm.Quote)
		assert.NotEmpty(t, tm.Author)
	}
}

func TestPage_PureAndIdempotent(t *testing.T) {
	first := Page()
	second := Page()
	assert.Equal(t, first, second)

	// Mutating one result must not leak into the next
	first.Features[0].Title = "changed"
	assert.Equal(t, "Experienced Professionals", Page().Features[0].Title)
}
