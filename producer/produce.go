package producer

import (
	"fmt"

	"github.com/npillmayer/stypro"
	"github.com/npillmayer/stypro/cssom"
	"github.com/npillmayer/stypro/cssom/douceuradapter"
	"github.com/npillmayer/stypro/ns"
	"github.com/npillmayer/stypro/selector"
	"github.com/npillmayer/stypro/value"
	"go.uber.org/multierr"
)

// Options configures a style production. The zero value is usable.
type Options struct {
	// Target is the style sheet to render to. If nil, a new in-memory style
	// sheet is created (see Interest.Target).
	Target cssom.StyleSheet
	// RootSelector is the selector text for the root rule, "body" by default.
	RootSelector string
	// Schedule defers render passes, Immediate by default.
	Schedule Scheduler
	// Renderer is the renderer or set of renderers to use. If nil,
	// DefaultRenderers are used. The PropertiesRenderer is always included.
	Renderer Renderer
	// Aliaser assigns namespace aliases. If nil, a new one is created.
	Aliaser *ns.Aliaser
	// OnError is called for failed render passes and for errors of the
	// target style sheet. By default errors are traced, and panics of
	// renderers are passed on to the caller.
	OnError func(rule stypro.Rule, err error)
}

func (opts Options) withDefaults() Options {
	if opts.Target == nil {
		opts.Target = douceuradapter.New()
	}
	if opts.RootSelector == "" {
		opts.RootSelector = "body"
	}
	if opts.Schedule == nil {
		opts.Schedule = Immediate
	}
	if opts.Renderer == nil {
		opts.Renderer = DefaultRenderers
	}
	if opts.Aliaser == nil {
		opts.Aliaser = ns.NewAliaser()
	}
	if opts.OnError == nil {
		opts.OnError = func(rule stypro.Rule, err error) {
			tracer().Errorf("rendering %q: %v", selector.KeyText(rule.Selector()), err)
		}
	}
	return opts
}

// Produce starts producing styles for a rule set. It renders every rule of
// the set, every rule added to the set later on, and re-renders rules
// whenever their properties change, until interest is withdrawn.
//
// Rules are used as map keys and therefore have to be comparable.
func Produce(set stypro.RuleSet, opts Options) *Interest {
	p := &production{
		opts:    opts.withDefaults(),
		states:  make(map[stypro.Rule]*ruleState),
		refs:    make(map[outputKey]int),
		repanic: opts.OnError == nil,
	}
	p.stages = Resolve(p.opts.Renderer)
	p.unsubscribe = set.OnChange(p.add, p.remove)
	set.Each(p.add)
	return &Interest{p: p}
}

// ProduceRule starts producing styles for a single rule.
func ProduceRule(rule stypro.Rule, opts Options) *Interest {
	return Produce(stypro.Single{Rule: rule}, opts)
}

// --- Interest --------------------------------------------------------------

// Interest represents the interest of a client in a style production.
type Interest struct {
	p *production
}

// Off withdraws interest in the production. Pending render passes are
// cancelled, and the output of all rules is removed from the style sheet.
// Off returns the errors of the style sheet while removing outputs.
// Calling Off more than once is harmless.
func (i *Interest) Off() error {
	p := i.p
	if p.off {
		return nil
	}
	p.off = true
	p.unsubscribe()
	var errs error
	for _, rs := range p.order {
		errs = multierr.Append(errs, rs.dispose())
	}
	p.states, p.order, p.refs = nil, nil, nil
	tracer().Debugf("style production stopped")
	done := p.whenDone
	p.whenDone = nil
	for _, fn := range done {
		fn()
	}
	return errs
}

// WhenDone registers a callback called when interest is withdrawn. If it
// has been withdrawn already, fn is called immediately.
func (i *Interest) WhenDone(fn func()) {
	if i.p.off {
		fn()
		return
	}
	i.p.whenDone = append(i.p.whenDone, fn)
}

// IsOff is true after interest has been withdrawn.
func (i *Interest) IsOff() bool {
	return i.p.off
}

// Target returns the top-level style sheet of the production.
func (i *Interest) Target() cssom.StyleSheet {
	return i.p.opts.Target
}

// --- Production ------------------------------------------------------------

type production struct {
	opts        Options
	stages      []Stage
	states      map[stypro.Rule]*ruleState
	order       []*ruleState      // in order of addition
	refs        map[outputKey]int // number of rules owning an output
	repanic     bool              // no error handler configured
	unsubscribe stypro.Unsubscribe
	whenDone    []func()
	off         bool
}

func (p *production) add(rule stypro.Rule) {
	if p.off {
		return
	}
	if _, ok := p.states[rule]; ok {
		return
	}
	rs := &ruleState{rule: rule, prod: p}
	p.states[rule] = rs
	p.order = append(p.order, rs)
	rs.subscribe()
}

func (p *production) remove(rule stypro.Rule) {
	rs, ok := p.states[rule]
	if !ok {
		return
	}
	delete(p.states, rule)
	for i, s := range p.order {
		if s == rs {
			p.order = append(p.order[:i:i], p.order[i+1:]...)
			break
		}
	}
	if err := rs.dispose(); err != nil {
		p.opts.OnError(rule, err)
	}
}

// --- Per-rule state machine ------------------------------------------------

type ruleStatus uint8

const (
	idle ruleStatus = iota
	subscribed
	scheduled
	rendering
	disposed
)

func (s ruleStatus) String() string {
	return [...]string{"idle", "subscribed", "scheduled", "rendering", "disposed"}[s]
}

type ruleState struct {
	rule        stypro.Rule
	prod        *production
	status      ruleStatus
	latest      value.Properties
	dirty       bool // updated while rendering
	unsubscribe stypro.Unsubscribe
	chain       []RenderFunc
	rendered    []outputKey // output of the last committed pass
}

func (rs *ruleState) subscribe() {
	rs.status = subscribed
	unsubscribe := rs.rule.OnUpdate(rs.update)
	if rs.status == disposed { // removed during subscription
		unsubscribe()
		return
	}
	rs.unsubscribe = unsubscribe
}

func (rs *ruleState) update(props value.Properties) {
	switch rs.status {
	case disposed, idle:
		return
	case rendering:
		rs.latest = props
		rs.dirty = true
		return
	case scheduled:
		rs.latest = props // coalesce into pending pass
		return
	}
	rs.latest = props
	rs.status = scheduled
	tracer().Debugf("scheduling render pass for %q", selector.KeyText(rs.rule.Selector()))
	rs.prod.opts.Schedule(rs.run)
}

// run executes a scheduled render pass.
func (rs *ruleState) run() {
	if rs.status != scheduled {
		return // cancelled
	}
	rs.status = rendering
	defer func() {
		if rs.status == rendering {
			rs.status = subscribed
		}
		if rs.dirty {
			rs.dirty = false
			rs.update(rs.latest)
		}
	}()
	if err := rs.render(); err != nil {
		rs.prod.opts.OnError(rs.rule, err)
	}
}

func (rs *ruleState) render() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rs.prod.repanic {
				panic(r)
			}
			err = fmt.Errorf("render pass aborted: %v", r)
		}
	}()
	if rs.chain == nil {
		chain := make([]RenderFunc, len(rs.prod.stages))
		for i, s := range rs.prod.stages {
			if chain[i], err = s.Instantiate(rs.rule); err != nil {
				return err
			}
		}
		rs.chain = chain
	}
	ps := &pass{}
	p := &Producer{
		rule:     rs.rule,
		selector: rs.rule.Selector(),
		target:   rs.prod.opts.Target,
		chain:    rs.chain,
		prod:     rs.prod,
		pass:     ps,
	}
	if err = p.Render(rs.latest); err != nil {
		return fmt.Errorf("render pass aborted: %w", err)
	}
	if rs.status == disposed {
		return nil // removed by a renderer
	}
	return rs.commit(ps)
}

// commit applies the output of a pass and removes stale output of the
// previous one.
func (rs *ruleState) commit(ps *pass) error {
	var errs error
	committed := make([]outputKey, 0, len(ps.outputs))
	for _, o := range ps.outputs {
		if err := o.key.target.ApplyOutput(o.key.selector, o.out); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		committed = append(committed, o.key)
	}
	for _, key := range committed {
		if !containsKey(rs.rendered, key) {
			rs.prod.refs[key]++
		}
	}
	for _, old := range rs.rendered {
		if !containsKey(committed, old) {
			errs = multierr.Append(errs, rs.prod.release(old))
		}
	}
	rs.rendered = committed
	tracer().Debugf("committed %d outputs for %q", len(committed), selector.KeyText(rs.rule.Selector()))
	return errs
}

func (rs *ruleState) dispose() error {
	if rs.status == disposed {
		return nil
	}
	rs.status = disposed
	if rs.unsubscribe != nil {
		rs.unsubscribe()
	}
	var errs error
	for _, key := range rs.rendered {
		errs = multierr.Append(errs, rs.prod.release(key))
	}
	rs.rendered = nil
	tracer().Debugf("disposed rule %q", selector.KeyText(rs.rule.Selector()))
	return errs
}

// release drops a reference to an output. Output shared between rules,
// e.g. an @namespace statement, is removed with its last reference.
func (p *production) release(key outputKey) error {
	if p.refs[key] > 1 {
		p.refs[key]--
		return nil
	}
	delete(p.refs, key)
	return key.target.RemoveOutput(key.selector)
}

func containsKey(keys []outputKey, key outputKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
