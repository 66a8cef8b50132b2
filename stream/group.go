package stream

import "math"

// animationGroup indexes the animations sharing one cadence so the control
// loop decides once per group, not once per animation, whether to advance.
type animationGroup struct {
	cadence  float64
	interval int64
	keys     []string

	serviced     bool
	lastServiced int64
}

func newAnimationGroup(cadence, tickRate float64) *animationGroup {
	g := new(animationGroup)
	g.cadence = cadence
	g.interval = int64(math.Round(tickRate / cadence))
	if g.interval < 1 {
		g.interval = 1
	}
	return g
}

// add appends key unless it is already a member, which keeps a replaced
// animation in its original layering position.
func (g *animationGroup) add(key string) {
	for _, k := range g.keys {
		if k == key {
			return
		}
	}
	g.keys = append(g.keys, key)
}

func (g *animationGroup) remove(key string) {
	for i, k := range g.keys {
		if k == key {
			g.keys = append(g.keys[:i], g.keys[i+1:]...)
			return
		}
	}
}

func (g *animationGroup) empty() bool {
	return len(g.keys) == 0
}

// due reports whether the group should advance on tick. A group that has
// never been serviced is due straight away.
func (g *animationGroup) due(tick int64) bool {
	return !g.serviced || tick-g.lastServiced >= g.interval
}

func (g *animationGroup) stamp(tick int64) {
	g.serviced = true
	g.lastServiced = tick
}
