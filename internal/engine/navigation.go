package engine

import "formflow-backend/internal/form"

// StateSubmitted is the terminal navigation state: advancing past the last
// effective page lands here.
const StateSubmitted = "_submitted"

// ResolvePageVisibility computes the shown state of every page. Only
// "hide page" conditions vote (negated outcome, AND per target, same policy
// as field visibility); "skip to" conditions are navigation-only and cast no
// visibility vote. Dangling references cast no vote.
func ResolvePageVisibility(t *form.Template, responses ResponseMap) VisibilityMap {
	vis := make(VisibilityMap, len(t.Pages))
	for _, p := range t.Pages {
		vis[p.ID] = true
	}

	votes := make(map[string][]bool)
	for _, c := range t.PageConditions {
		if c.Action != form.ActionHidePage {
			continue
		}
		if _, ok := vis[c.TargetPageID]; !ok {
			continue
		}
		if c.Expression == "" && !t.HasField(c.TriggerFieldID) {
			continue
		}

		met := EvaluatePageCondition(c, responses).Met()
		votes[c.TargetPageID] = append(votes[c.TargetPageID], !met)
	}

	for pageID, vs := range votes {
		visible := true
		for _, v := range vs {
			if !v {
				visible = false
				break
			}
		}
		vis[pageID] = visible
	}
	return vis
}

// ResolvePageSequence returns the effective page sequence: the structural
// page order with hidden pages removed. "Page N of M" counts against this
// sequence, never the structural one.
func ResolvePageSequence(t *form.Template, responses ResponseMap) []form.Page {
	vis := ResolvePageVisibility(t, responses)
	var seq []form.Page
	for _, p := range t.Pages {
		if vis[p.ID] {
			seq = append(seq, p)
		}
	}
	return seq
}

// Navigator drives page-to-page movement for one fill session. States are
// page ids plus the StateSubmitted sentinel; every transition re-resolves the
// effective sequence against the current responses.
type Navigator struct {
	tpl       *form.Template
	responses ResponseMap
}

func NewNavigator(tpl *form.Template, responses ResponseMap) *Navigator {
	return &Navigator{tpl: tpl, responses: responses}
}

// Start returns the first effective page id, or StateSubmitted when every
// page is hidden.
func (n *Navigator) Start() string {
	seq := ResolvePageSequence(n.tpl, n.responses)
	if len(seq) == 0 {
		return StateSubmitted
	}
	return seq[0].ID
}

// Next resolves the transition for "Next" pressed on the given page.
//
// Active "skip to" conditions whose trigger field sits on the current page or
// an earlier one override the structurally-next page; when several match, the
// first declared wins. The skip target is taken as-is and the bypassed pages
// are not evaluated for their own hide conditions: bypass takes precedence.
// Without a skip, the next page is the first still-visible page after the
// current one, and falling off the end submits.
func (n *Navigator) Next(currentPageID string) string {
	cur := n.tpl.PageIndex(currentPageID)
	if cur < 0 {
		return StateSubmitted
	}

	for _, c := range n.tpl.PageConditions {
		if c.Action != form.ActionSkipTo {
			continue
		}
		target := n.tpl.PageIndex(c.TargetPageID)
		if target < 0 || target <= cur {
			continue
		}
		if c.Expression == "" {
			trigger := n.tpl.PageOfField(c.TriggerFieldID)
			if trigger < 0 || trigger > cur {
				continue
			}
		}
		if EvaluatePageCondition(c, n.responses).Met() {
			return c.TargetPageID
		}
	}

	vis := ResolvePageVisibility(n.tpl, n.responses)
	for i := cur + 1; i < len(n.tpl.Pages); i++ {
		if vis[n.tpl.Pages[i].ID] {
			return n.tpl.Pages[i].ID
		}
	}
	return StateSubmitted
}

// Back always steps to the previous page of the effective sequence, never a
// skip-target reversal. On the first effective page it stays put.
func (n *Navigator) Back(currentPageID string) string {
	cur := n.tpl.PageIndex(currentPageID)
	if cur < 0 {
		return n.Start()
	}

	vis := ResolvePageVisibility(n.tpl, n.responses)
	for i := cur - 1; i >= 0; i-- {
		if vis[n.tpl.Pages[i].ID] {
			return n.tpl.Pages[i].ID
		}
	}
	return currentPageID
}
