package producer

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/stypro"
	"github.com/npillmayer/stypro/rules"
	"github.com/npillmayer/stypro/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forward(p *Producer, props value.Properties) error {
	return p.Render(props)
}

func renderers(stages []Stage) []Renderer {
	rr := make([]Renderer, len(stages))
	for i, s := range stages {
		rr[i] = s.Renderer()
	}
	return rr
}

func TestResolveAlwaysIncludesProperties(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	stages := Resolve(nil)
	require.Len(t, stages, 1)
	assert.Same(t, PropertiesRenderer, stages[0].Renderer())
	stages = Resolve(Renderers{PropertiesRenderer, Renderers{PropertiesRenderer}})
	require.Len(t, stages, 1, "expected properties renderer once only")
}

func TestResolveDeduplicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	a := &Descriptor{Order: 1, Render: forward}
	b := &Descriptor{Order: 2, Needs: a, Render: forward}
	stages := Resolve(Renderers{b, a, Renderers{a, b}})
	assert.Equal(t, []Renderer{PropertiesRenderer, a, b}, renderers(stages))
	// plain render functions have no identity
	stages = Resolve(Renderers{RenderFunc(forward), RenderFunc(forward)})
	assert.Len(t, stages, 3)
}

func TestResolveCyclicNeeds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	a := &Descriptor{Order: -2, Render: forward}
	b := &Factory{Order: -1, Needs: a, Create: func(stypro.Rule) Renderer {
		return RenderFunc(forward)
	}}
	a.Needs = b
	stages := Resolve(a)
	assert.Equal(t, []Renderer{a, b, PropertiesRenderer}, renderers(stages))
}

func TestResolveIsStable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	first := &Descriptor{Order: 5, Render: forward}
	second := &Descriptor{Order: 5, Render: forward}
	early := &Descriptor{Order: FirstRenderOrder, Render: forward}
	stages := Resolve(Renderers{first, second, early})
	assert.Equal(t, []Renderer{early, PropertiesRenderer, first, second}, renderers(stages))
	stages = Resolve(Renderers{second, first})
	assert.Equal(t, []Renderer{PropertiesRenderer, second, first}, renderers(stages))
}

func TestResolveDefaultRenderers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	stages := Resolve(DefaultRenderers)
	assert.Equal(t, []Renderer{XMLNSRenderer, GlobalsRenderer, TextRenderer, PropertiesRenderer},
		renderers(stages))
}

func TestInstantiateInvalidRenderer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	rule := rules.New()
	nested := &Factory{Create: func(stypro.Rule) Renderer {
		return &Factory{}
	}}
	stages := Resolve(nested)
	require.Len(t, stages, 2)
	_, err := stages[0].Instantiate(rule)
	assert.True(t, errors.Is(err, ErrInvalidRenderer), "expected invalid renderer, is %v", err)
	_, err = Resolve(&Descriptor{})[0].Instantiate(rule)
	assert.True(t, errors.Is(err, ErrInvalidRenderer))
	f, err := Resolve(&Factory{Create: func(stypro.Rule) Renderer {
		return &Descriptor{Render: forward}
	}})[0].Instantiate(rule)
	require.NoError(t, err)
	assert.NotNil(t, f)
}
