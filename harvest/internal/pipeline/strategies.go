package pipeline

import (
	"context"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/msaharvest/harvest/internal/browser"
)

// strategy is one way to locate a UI control. Strategies are evaluated
// in declaration order; the first that yields an element wins.
type strategy struct {
	name   string
	locate func(ctx context.Context) (*rod.Element, error)
}

// strategyNames label the ordered candidate selectors from config:
// ID match, attribute match, then DOM-structure match.
var strategyNames = []string{"id", "attribute", "structure"}

// controlStrategies builds the ordered lookup list for one control:
// the configured candidate selectors first, a text-content match last.
func controlStrategies(tab *browser.Tab, p *Pipeline, candidates []string, textSelector, textRegex string) []strategy {
	var list []strategy
	for i, sel := range candidates {
		name := "selector"
		if i < len(strategyNames) {
			name = strategyNames[i]
		}
		list = append(list, strategy{
			name: name,
			locate: func(ctx context.Context) (*rod.Element, error) {
				return tab.Element(ctx, sel, p.cfg.Waits.Element)
			},
		})
	}
	list = append(list, strategy{
		name: "text",
		locate: func(ctx context.Context) (*rod.Element, error) {
			return tab.ElementByText(ctx, textSelector, textRegex, p.cfg.Waits.Element)
		},
	})
	return list
}

// findFirst tries each strategy in order and returns the first match,
// or nil when every strategy misses.
func (p *Pipeline) findFirst(ctx context.Context, control string, strategies []strategy) *rod.Element {
	for _, s := range strategies {
		el, err := s.locate(ctx)
		if err == nil && el != nil {
			p.logger.Debug("pipeline: control located",
				"control", control, "strategy", s.name)
			return el
		}
	}
	return nil
}
