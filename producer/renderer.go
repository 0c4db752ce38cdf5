package producer

import (
	"errors"

	"github.com/npillmayer/stypro"
	"github.com/npillmayer/stypro/value"
)

// ErrInvalidRenderer is flagged when a renderer cannot be turned into a
// render function, e.g. when a factory creates another factory.
var ErrInvalidRenderer = errors.New("invalid renderer")

// Render orders of built-in renderers.
const (
	FirstRenderOrder = -0xffff // render before anything else
	LastRenderOrder  = 0xffff  // render after anything else
)

// Renderer is one of RenderFunc, *Descriptor, *Factory or Renderers.
type Renderer interface {
	isRenderer()
}

// RenderFunc renders properties for a rule. It calls p.Render to hand
// properties to the next renderer in the chain.
//
// A RenderFunc has no identity: using the same function twice in a set of
// renderers results in two stages.
type RenderFunc func(p *Producer, props value.Properties) error

// Descriptor is a renderer with render order and dependencies.
// Descriptors are identified by address.
type Descriptor struct {
	Order  int        // stages are sorted by order, default 0
	Needs  Renderer   // renderers to include as well, may be nil
	Render RenderFunc // the render function
}

// Factory creates a render function per rule. Factories are identified by
// address.
type Factory struct {
	Order int      // stages are sorted by order, default 0
	Needs Renderer // renderers to include as well, may be nil
	// Create is called once per rule and production. It must return a
	// RenderFunc or a *Descriptor, whose order and needs are ignored.
	Create func(rule stypro.Rule) Renderer
}

// Renderers is a set of renderers.
type Renderers []Renderer

func (RenderFunc) isRenderer()  {}
func (*Descriptor) isRenderer() {}
func (*Factory) isRenderer()    {}
func (Renderers) isRenderer()   {}
