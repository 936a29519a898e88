package reveal

import "fmt"

// PositionKind tags where the sequence currently is. Splash and Finale are
// explicit states rather than sentinel indexes, so panel bounds never mix
// with virtual positions.
type PositionKind int

const (
	AtSplash PositionKind = iota
	AtPanel
	AtFinale
)

// Position is one of Splash, InPanel(index) or Finale. Index is meaningful
// only when Kind == AtPanel.
type Position struct {
	Kind  PositionKind
	Index int
}

func Splash() Position { return Position{Kind: AtSplash} }
func InPanel(i int) Position { return Position{Kind: AtPanel, Index: i} }
func Finale() Position { return Position{Kind: AtFinale} }
func (p Position) IsSplash() bool { return p.Kind == AtSplash }
func (p Position) IsFinale() bool { return p.Kind == AtFinale }

// PanelIndex returns the panel index and whether the position is in a panel.
func (p Position) PanelIndex() (int, bool) {
	if p.Kind != AtPanel {
		return 0, false
	}
	return p.Index, true
}

// Next returns the position after p for a sequence of n panels. Advancing
// past Finale is a no-op.
func (p Position) Next(n int) Position {
	switch p.Kind {
	case AtSplash:
		if n == 0 {
			return Finale()
		}
		return InPanel(0)
	case AtPanel:
		if p.Index+1 < n {
			return InPanel(p.Index + 1)
		}
		return Finale()
	default:
		return p
	}
}

// Prev returns the position before p for a sequence of n panels. Retreating
// past Splash is a no-op.
func (p Position) Prev(n int) Position {
	switch p.Kind {
	case AtFinale:
		if n == 0 {
			return Splash()
		}
		return InPanel(n - 1)
	case AtPanel:
		if p.Index > 0 {
			return InPanel(p.Index - 1)
		}
		return Splash()
	default:
		return p
	}
}

// Clamp forces p back into range after the panel list changed underneath a
// live session. Positions inside the surviving prefix are untouched.
func (p Position) Clamp(n int) Position {
	if p.Kind == AtPanel && p.Index >= n {
		if n == 0 {
			return Splash()
		}
		return InPanel(n - 1)
	}
	return p
}

func (p Position) String() string {
	switch p.Kind {
	case AtSplash:
		return "splash"
	case AtFinale:
		return "finale"
	default:
		return fmt.Sprintf("panel:%d", p.Index)
	}
}
