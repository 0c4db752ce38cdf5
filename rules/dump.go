package rules

import (
	"fmt"

	"github.com/npillmayer/stypro/selector"
	tp "github.com/xlab/treeprint"
)

// Dump renders a rule tree for debugging purposes, e.g.
//
//	<root>
//	└── ul {display: block}
//	    └── ul>li {margin: 1em}
func (r *Rule) Dump() string {
	p := tp.New()
	p.SetValue(dumpLabel(r))
	for _, ch := range r.children {
		dump(p, ch)
	}
	return p.String()
}

func dump(p tp.Tree, r *Rule) {
	if len(r.children) == 0 {
		p.AddNode(dumpLabel(r))
		return
	}
	branch := p.AddBranch(dumpLabel(r))
	for _, ch := range r.children {
		dump(branch, ch)
	}
}

func dumpLabel(r *Rule) string {
	sel := selector.KeyText(r.full)
	if sel == "" {
		sel = "<root>"
	}
	if len(r.props) == 0 {
		return sel
	}
	return fmt.Sprintf("%s %v", sel, r.props)
}
