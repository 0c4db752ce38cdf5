package producer_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/stypro"
	"github.com/npillmayer/stypro/cssom"
	"github.com/npillmayer/stypro/cssom/douceuradapter"
	"github.com/npillmayer/stypro/cssom/htmladapter"
	"github.com/npillmayer/stypro/ns"
	"github.com/npillmayer/stypro/producer"
	"github.com/npillmayer/stypro/rules"
	"github.com/npillmayer/stypro/selector"
	"github.com/npillmayer/stypro/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// find returns the rule of a style sheet for a selector.
func find(sheet cssom.StyleSheet, sel string) cssom.Rule {
	for _, r := range sheet.Rules() {
		if r.Selector() == sel {
			return r
		}
	}
	return nil
}

// spySheet records calls to RemoveOutput.
type spySheet struct {
	*douceuradapter.CSSStyles
	removed []string
}

func (s *spySheet) RemoveOutput(sel string) error {
	s.removed = append(s.removed, sel)
	return s.CSSStyles.RemoveOutput(sel)
}

// recorder is a renderer recording the properties it sees.
type recorder struct {
	calls []value.Properties
}

func (rec *recorder) renderer(order int) *producer.Descriptor {
	return &producer.Descriptor{
		Order: order,
		Render: func(p *producer.Producer, props value.Properties) error {
			rec.calls = append(rec.calls, props)
			return p.Render(props)
		},
	}
}

func TestProduceRootRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	require.NoError(t, root.Set(value.Properties{"margin": value.Zero}))
	sheet := douceuradapter.New()
	interest := producer.Produce(root.Rules(), producer.Options{Target: sheet})
	r := find(sheet, "body")
	require.NotNil(t, r, "expected root rule to be rendered for 'body'")
	assert.Equal(t, "0", r.Value("margin"))
	require.NoError(t, interest.Off())
	assert.True(t, sheet.Empty())
	//
	sheet = douceuradapter.New()
	producer.Produce(root.Rules(), producer.Options{Target: sheet, RootSelector: ":root"})
	assert.NotNil(t, find(sheet, ":root"))
	assert.Nil(t, find(sheet, "body"))
}

func TestProduceRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{
		"fontSize": value.LengthPt.Of(12, "pt"),
		"color":    value.Text("red !important"),
	})
	interest := producer.Produce(root.Rules(), producer.Options{})
	sheet := interest.Target()
	require.NotNil(t, sheet, "expected a default target style sheet")
	r := find(sheet, ".a")
	require.NotNil(t, r)
	assert.Equal(t, "12pt", r.Value("font-size"))
	assert.Equal(t, "red", r.Value("color"))
	assert.True(t, r.IsImportant("color"))
	// updates
	require.NoError(t, a.Put("fontSize", nil))
	r = find(sheet, ".a")
	require.NotNil(t, r)
	assert.Equal(t, []string{"color"}, r.Properties())
	// rules added later on
	b := a.Add(selector.Raw(".b"), value.Properties{"display": value.Text("none")})
	r = find(sheet, ".a .b")
	require.NotNil(t, r, "expected nested rule to be rendered")
	assert.Equal(t, "none", r.Value("display"))
	// removal
	done := false
	interest.WhenDone(func() { done = true })
	b.Remove()
	assert.Nil(t, find(sheet, ".a .b"))
	assert.NotNil(t, find(sheet, ".a"))
	assert.False(t, done, "expected removal of a rule not to end the production")
	// interest withdrawn
	require.NoError(t, interest.Off())
	assert.True(t, done)
	assert.True(t, interest.IsOff())
	assert.True(t, sheet.Empty(), "expected styles to be removed, have %d rules", len(sheet.Rules()))
	require.NoError(t, a.Put("color", value.Text("blue")))
	assert.True(t, sheet.Empty(), "expected no rendering after interest is withdrawn")
	called := false
	interest.WhenDone(func() { called = true })
	assert.True(t, called)
}

func TestProduceSingleRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{"color": value.Text("red")})
	root.Add(selector.Raw(".b"), value.Properties{"color": value.Text("blue")})
	sheet := douceuradapter.New()
	interest := producer.ProduceRule(a, producer.Options{Target: sheet})
	assert.Len(t, sheet.Rules(), 1)
	assert.NotNil(t, find(sheet, ".a"))
	interest.Off()
	assert.True(t, sheet.Empty())
}

func TestProduceRawText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	root.Add(selector.Raw(".a"), value.Properties{
		producer.TextKey: value.Text("color: blue; margin: 0"),
		"color":          value.Text("red"),
	})
	sheet := douceuradapter.New()
	producer.Produce(root.Rules(), producer.Options{Target: sheet})
	r := find(sheet, ".a")
	require.NotNil(t, r)
	assert.Equal(t, "0", r.Value("margin"))
	assert.Equal(t, "red", r.Value("color"), "expected properties to override raw text")
}

func TestProduceCoalescesUpdates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{"width": value.Length.Of(1, "px")})
	rec := &recorder{}
	batch := &producer.Batch{}
	sheet := douceuradapter.New()
	producer.ProduceRule(a, producer.Options{
		Target:   sheet,
		Schedule: batch.Schedule,
		Renderer: rec.renderer(producer.LastRenderOrder),
	})
	assert.Equal(t, 1, batch.Len())
	assert.Empty(t, rec.calls, "expected rendering to be deferred")
	for i := 2; i <= 4; i++ {
		require.NoError(t, a.Put("width", value.Length.Of(float64(i), "px")))
	}
	assert.Equal(t, 1, batch.Len(), "expected updates to be coalesced")
	assert.Equal(t, 1, batch.Flush())
	require.Len(t, rec.calls, 1)
	assert.Equal(t, value.Length.Of(4, "px"), rec.calls[0]["width"])
	assert.Equal(t, "4px", find(sheet, ".a").Value("width"))
	assert.Equal(t, 0, batch.Flush())
}

func TestProduceDisposesPendingPass(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{"color": value.Text("red")})
	rec := &recorder{}
	batch := &producer.Batch{}
	sheet := &spySheet{CSSStyles: douceuradapter.New()}
	interest := producer.Produce(root.Rules(), producer.Options{
		Target:   sheet,
		Schedule: batch.Schedule,
		Renderer: rec.renderer(0),
	})
	batch.Flush()
	require.Len(t, rec.calls, 2) // root and .a
	require.NoError(t, a.Put("color", value.Text("blue")))
	a.Remove()
	assert.Equal(t, 1, batch.Flush())
	assert.Len(t, rec.calls, 2, "expected pending pass of removed rule to be cancelled")
	assert.Nil(t, find(sheet, ".a"))
	assert.Equal(t, []string{".a"}, sheet.removed)
	require.NoError(t, interest.Off())
	assert.Equal(t, []string{".a"}, sheet.removed, "expected no further removals")
}

func TestProduceCreatesRendererPerRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	a := root.Add(selector.Raw(".a"), nil)
	b := root.Add(selector.Raw(".b"), nil)
	created := map[string]int{}
	factory := &producer.Factory{
		Create: func(rule stypro.Rule) producer.Renderer {
			created[selector.KeyText(rule.Selector())]++
			return producer.RenderFunc(func(p *producer.Producer, props value.Properties) error {
				return p.Render(props)
			})
		},
	}
	producer.Produce(root.Rules(), producer.Options{Renderer: factory})
	for i := 0; i < 3; i++ {
		require.NoError(t, a.Put("order", value.Number(i)))
		require.NoError(t, b.Put("order", value.Number(i)))
	}
	assert.Equal(t, map[string]int{"": 1, ".a": 1, ".b": 1}, created)
}

func TestProduceRenderOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	var calls []string
	stage := func(name string, order int) *producer.Descriptor {
		return &producer.Descriptor{
			Order: order,
			Render: func(p *producer.Producer, props value.Properties) error {
				calls = append(calls, name)
				return p.Render(props)
			},
		}
	}
	root := rules.New()
	root.Add(selector.Raw(".a"), value.Properties{"color": value.Text("red")})
	sheet := douceuradapter.New()
	producer.ProduceRule(root.Rules().All()[1], producer.Options{
		Target:   sheet,
		Renderer: producer.Renderers{stage("2", 2), stage("1", 1)},
	})
	assert.Equal(t, []string{"1", "2"}, calls)
	assert.Len(t, sheet.Rules(), 1)
}

func TestProduceSuppressedPass(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{"color": value.Text("red")})
	hide := &producer.Descriptor{
		Order: -10,
		Render: func(p *producer.Producer, props value.Properties) error {
			if _, hidden := props["$hidden"]; hidden {
				return nil // end of chain
			}
			return p.Render(props)
		},
	}
	sheet := douceuradapter.New()
	producer.ProduceRule(a, producer.Options{Target: sheet, Renderer: hide})
	require.NotNil(t, find(sheet, ".a"))
	require.NoError(t, a.Put("$hidden", value.Text("yes")))
	assert.Nil(t, find(sheet, ".a"), "expected output of previous pass to be removed")
	require.NoError(t, a.Put("$hidden", nil))
	assert.NotNil(t, find(sheet, ".a"))
}

func TestProduceRenderOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	root.Add(selector.Raw(".a"), value.Properties{"color": value.Text("red")})
	other := douceuradapter.New()
	redirect := &producer.Descriptor{
		Order: -1,
		Render: func(p *producer.Producer, props value.Properties) error {
			if p.Selector().IsRoot() {
				return p.Render(props)
			}
			return p.Render(props,
				producer.WithSelector(p.Selector().Append(selector.Part{S: ":hover"})),
				producer.WithTarget(other))
		},
	}
	sheet := douceuradapter.New()
	interest := producer.Produce(root.Rules(), producer.Options{Target: sheet, Renderer: redirect})
	assert.True(t, sheet.Empty())
	r := find(other, ".a :hover")
	require.NotNil(t, r, "expected redirected output, have %v", other)
	assert.Equal(t, "red", r.Value("color"))
	interest.Off()
	assert.True(t, other.Empty())
}

func TestProduceFailingPass(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	errFailed := errors.New("failed")
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{"color": value.Text("red")})
	failing := &producer.Descriptor{
		Order: producer.LastRenderOrder,
		Render: func(p *producer.Producer, props value.Properties) error {
			switch props["fail"] {
			case value.Text("error"):
				return errFailed
			case value.Text("panic"):
				panic("renderer broken")
			}
			return p.Render(props)
		},
	}
	var errs []error
	sheet := douceuradapter.New()
	producer.ProduceRule(a, producer.Options{
		Target:   sheet,
		Renderer: failing,
		OnError:  func(_ stypro.Rule, err error) { errs = append(errs, err) },
	})
	require.Empty(t, errs)
	require.NoError(t, a.Set(value.Properties{"color": value.Text("blue"), "fail": value.Text("error")}))
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], errFailed))
	assert.Equal(t, "red", find(sheet, ".a").Value("color"), "expected failed pass not to be committed")
	require.NoError(t, a.Put("fail", value.Text("panic")))
	require.Len(t, errs, 2)
	assert.Contains(t, errs[1].Error(), "renderer broken")
	assert.Equal(t, "red", find(sheet, ".a").Value("color"))
	require.NoError(t, a.Put("fail", nil))
	assert.Equal(t, "blue", find(sheet, ".a").Value("color"))
}

func TestProduceNamespaces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	testNS := ns.New("test/ns", "test")
	root := rules.New()
	circle := root.Add(selector.Of(selector.Part{NSDef: testNS, E: "circle"}),
		value.Properties{"property": value.Text("value")})
	rect := root.Add(selector.Of(selector.Part{NSDef: testNS, E: "rect"}),
		value.Properties{"property": value.Text("value")})
	rec := &recorder{}
	sheet := douceuradapter.New()
	producer.ProduceRule(circle, producer.Options{
		Target:   sheet,
		Renderer: producer.Renderers{producer.DefaultRenderers, rec.renderer(producer.LastRenderOrder)},
	})
	require.Len(t, rec.calls, 1)
	assert.Equal(t, value.Properties{
		"@namespace:test": value.URL("test/ns"),
		"property":        value.Text("value"),
	}, rec.calls[0])
	assert.NotNil(t, find(sheet, `@namespace test url("test/ns")`), "have %v", sheet)
	assert.NotNil(t, find(sheet, "test|circle"))
	//
	sheet = douceuradapter.New()
	interest := producer.Produce(root.Rules(), producer.Options{Target: sheet})
	const stmt = `@namespace test url("test/ns")`
	require.NotNil(t, find(sheet, stmt))
	circle.Remove()
	assert.NotNil(t, find(sheet, stmt), "expected namespace to be kept for remaining rule")
	assert.NotNil(t, find(sheet, "test|rect"))
	rect.Remove()
	assert.Nil(t, find(sheet, stmt))
	interest.Off()
}

func TestProduceImports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	root.Add(selector.Raw(".a"), value.Properties{
		producer.ImportPrefix + "print.css": value.Text("print"),
		"color":                             value.Text("red"),
	})
	sheet := douceuradapter.New()
	producer.Produce(root.Rules(), producer.Options{Target: sheet})
	assert.NotNil(t, find(sheet, `@import url("print.css") print`), "have %v", sheet)
	r := find(sheet, ".a")
	require.NotNil(t, r)
	assert.Equal(t, []string{"color"}, r.Properties())
}

func TestProduceToHTML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{"color": value.Text("red")})
	doc := htmladapter.New()
	interest := producer.Produce(root.Rules(), producer.Options{Target: doc})
	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, `data-stypro=".a"`)
	assert.Contains(t, html, "color: red")
	require.NoError(t, a.Put("color", value.Text("green")))
	buf.Reset()
	require.NoError(t, doc.Render(&buf))
	assert.Contains(t, buf.String(), "color: green")
	assert.Equal(t, 1, strings.Count(buf.String(), "<style"))
	interest.Off()
	assert.True(t, doc.Empty())
}

func TestPropertyName(t *testing.T) {
	for key, name := range map[string]string{
		"color":            "color",
		"fontSize":         "font-size",
		"WebkitTransition": "-webkit-transition",
		"margin-top":       "margin-top",
	} {
		if n := producer.PropertyName(key); n != name {
			t.Errorf("expected property name %q for %q, is %q", name, key, n)
		}
	}
}

func TestProducePoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{
		"width":  value.Length.Of(16, "px"),
		"margin": value.Length.Of(1, "em"),
	})
	sheet := douceuradapter.New()
	producer.Produce(root.Rules(), producer.Options{
		Target:   sheet,
		Renderer: producer.Renderers{producer.DefaultRenderers, producer.PointsRenderer},
	})
	r := find(sheet, ".a")
	require.NotNil(t, r)
	assert.Equal(t, "12pt", r.Value("width"))
	assert.Equal(t, "1em", r.Value("margin"))
	assert.Equal(t, value.Length.Of(16, "px"), a.Properties()["width"], "expected rule to be left unchanged")
}

func TestProduceLoadedNamespaces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	doc := `
rules:
  - selector: [ { ns: svg, e: circle } ]
    properties:
      fill: red
`
	root, err := rules.LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	sheet := douceuradapter.New()
	producer.Produce(root.Rules(), producer.Options{Target: sheet})
	assert.NotNil(t, find(sheet, `@namespace svg url("http://www.w3.org/2000/svg")`), "have %v", sheet)
	r := find(sheet, "svg|circle")
	require.NotNil(t, r)
	assert.Equal(t, "red", r.Value("fill"))
}

func TestProduceEndOfChain(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	var calls []string
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{"display": value.Text("block")})
	sheet := &spySheet{CSSStyles: douceuradapter.New()}
	producer.ProduceRule(a, producer.Options{
		Target: sheet,
		Renderer: producer.Renderers{
			&producer.Descriptor{Order: 2, Render: func(p *producer.Producer, props value.Properties) error {
				calls = append(calls, "2")
				return nil // does not forward
			}},
			&producer.Descriptor{Order: 1, Render: func(p *producer.Producer, props value.Properties) error {
				calls = append(calls, "1")
				return p.Render(props)
			}},
		},
	})
	assert.Equal(t, []string{"1", "2"}, calls)
	require.Len(t, sheet.Rules(), 1)
	r := find(sheet, ".a")
	require.NotNil(t, r)
	assert.Equal(t, []string{"display"}, r.Properties(), "expected properties to be rendered once")
	assert.Equal(t, "block", r.Value("display"))
	assert.Empty(t, sheet.removed)
}

func TestProducePanicWithoutErrorHandler(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "stypro.producer")
	defer teardown()
	//
	root := rules.New()
	a := root.Add(selector.Raw(".a"), value.Properties{"color": value.Text("red")})
	broken := &producer.Descriptor{
		Order: producer.LastRenderOrder,
		Render: func(p *producer.Producer, props value.Properties) error {
			if props["fail"] != nil {
				panic("renderer broken")
			}
			return p.Render(props)
		},
	}
	sheet := douceuradapter.New()
	producer.ProduceRule(a, producer.Options{Target: sheet, Renderer: broken})
	assert.PanicsWithValue(t, "renderer broken", func() {
		_ = a.Put("fail", value.Text("yes"))
	})
	assert.Equal(t, "red", find(sheet, ".a").Value("color"), "expected failed pass not to be committed")
	require.NoError(t, a.Set(value.Properties{"color": value.Text("blue")}))
	assert.Equal(t, "blue", find(sheet, ".a").Value("color"))
}
