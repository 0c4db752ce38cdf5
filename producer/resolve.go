package producer

import (
	"fmt"
	"sort"

	"github.com/npillmayer/stypro"
)

// Stage is a resolved renderer.
type Stage struct {
	order       int
	renderer    Renderer
	instantiate func(stypro.Rule) (RenderFunc, error)
}

// Order returns the render order of the stage.
func (s Stage) Order() int {
	return s.order
}

// Renderer returns the renderer the stage has been resolved from.
func (s Stage) Renderer() Renderer {
	return s.renderer
}

// Instantiate returns the render function of the stage for a rule.
// Factories are called on every call to Instantiate.
func (s Stage) Instantiate(rule stypro.Rule) (RenderFunc, error) {
	return s.instantiate(rule)
}

// Resolve resolves a set of renderers to a list of stages, sorted by render
// order. Renderers with equal order keep the order in which they have been
// encountered. Renderers needed by other renderers are included, and every
// descriptor and factory is included once only, even for cyclic needs.
// The PropertiesRenderer is always included.
func Resolve(r Renderer) []Stage {
	var stages []Stage
	seen := make(map[Renderer]bool)
	var add func(Renderer)
	add = func(r Renderer) {
		switch x := r.(type) {
		case nil:
		case Renderers:
			for _, ch := range x {
				add(ch)
			}
		case RenderFunc:
			if x != nil {
				stages = append(stages, stageFor(x))
			}
		case *Descriptor:
			if x == nil || seen[x] {
				return
			}
			seen[x] = true
			stages = append(stages, stageFor(x))
			add(x.Needs)
		case *Factory:
			if x == nil || seen[x] {
				return
			}
			seen[x] = true
			stages = append(stages, stageFor(x))
			add(x.Needs)
		}
	}
	add(r)
	resolved := make([]Stage, 0, len(stages)+1)
	for _, s := range stages {
		if s.renderer != Renderer(PropertiesRenderer) {
			resolved = append(resolved, s)
		}
	}
	resolved = append(resolved, stageFor(PropertiesRenderer))
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].order < resolved[j].order
	})
	tracer().Debugf("resolved %d render stages", len(resolved))
	return resolved
}

func stageFor(r Renderer) Stage {
	switch x := r.(type) {
	case RenderFunc:
		return Stage{renderer: x, instantiate: func(stypro.Rule) (RenderFunc, error) {
			return x, nil
		}}
	case *Descriptor:
		return Stage{order: x.Order, renderer: x, instantiate: func(stypro.Rule) (RenderFunc, error) {
			if x.Render == nil {
				return nil, fmt.Errorf("%w: descriptor without render function", ErrInvalidRenderer)
			}
			return x.Render, nil
		}}
	case *Factory:
		return Stage{order: x.Order, renderer: x, instantiate: func(rule stypro.Rule) (RenderFunc, error) {
			if x.Create == nil {
				return nil, fmt.Errorf("%w: factory without create function", ErrInvalidRenderer)
			}
			return renderFuncOf(x.Create(rule))
		}}
	}
	panic(fmt.Sprintf("cannot create stage for renderer %T", r))
}

func renderFuncOf(r Renderer) (RenderFunc, error) {
	switch x := r.(type) {
	case RenderFunc:
		if x != nil {
			return x, nil
		}
	case *Descriptor:
		if x != nil && x.Render != nil {
			return x.Render, nil
		}
	}
	return nil, fmt.Errorf("%w: factory created %T", ErrInvalidRenderer, r)
}
