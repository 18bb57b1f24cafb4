package battle

import (
	"battlesim/internal/content"
)

// impact is one resolved hit position with its damage percentage.
type impact struct {
	Pos     Position
	Percent float64
}

// ValidTargets enumerates the opposing positions a unit may aim the
// given weapon at, applying tag, range, direction and line-of-fire
// checks in that order.
func (b *Battle) ValidTargets(attacker *Unit, weaponID int) []Position {
	weapon, ok := attacker.Template.Weapons[weaponID]
	if !ok || len(weapon.Abilities) == 0 {
		return nil
	}
	ability := b.store.GetAbility(weapon.Abilities[0])
	if ability == nil {
		return nil
	}

	var out []Position
	for _, target := range b.sideUnits(attacker.Side.Opponent()) {
		if !target.Alive {
			continue
		}
		if b.canTarget(attacker, target, &ability.Stats) {
			out = append(out, target.Pos)
		}
	}
	return out
}

func (b *Battle) canTarget(attacker, target *Unit, stats *content.AbilityStats) bool {
	if !b.store.CanTarget(stats.Targets, target.Template.Tags) {
		return false
	}

	dist := Distance(attacker.Pos, target.Pos)
	if dist < stats.MinRange || dist > stats.MaxRange {
		return false
	}

	switch stats.AttackDirection {
	case content.DirectionForward:
		if target.Pos.Y <= attacker.Pos.Y {
			return false
		}
	case content.DirectionBackward:
		if target.Pos.Y >= attacker.Pos.Y {
			return false
		}
	}

	return !b.lineOfFireBlocked(target, stats.LineOfFire)
}

// lineOfFireBlocked scans living units of the target's side standing in
// the same column and strictly in front of the target. One sufficiently
// blocking unit shadows everything behind it.
func (b *Battle) lineOfFireBlocked(target *Unit, lof content.LineOfFire) bool {
	var threshold content.Blocking
	switch lof {
	case content.FireIndirect, content.FireContact:
		return false
	case content.FireDirect:
		threshold = content.BlockPartial
	case content.FirePrecise:
		threshold = content.BlockFull
	default:
		return false
	}

	for _, u := range b.sideUnits(target.Side) {
		if u == target || !u.Alive {
			continue
		}
		if u.Pos.X != target.Pos.X || u.Pos.Y >= target.Pos.Y {
			continue
		}
		if u.Stats.Blocking >= threshold {
			return true
		}
	}
	return false
}

// resolveImpacts expands an aim point through the ability's target
// pattern, then composes the splash pattern over each impact point.
func (b *Battle) resolveImpacts(stats *content.AbilityStats, aim Position) []impact {
	impacts := b.resolveTargetPattern(stats.TargetPattern, aim)
	if len(stats.SplashPattern) == 0 {
		return impacts
	}

	out := make([]impact, 0, len(impacts)*len(stats.SplashPattern))
	for _, imp := range impacts {
		for _, cell := range stats.SplashPattern {
			out = append(out, impact{
				Pos:     Position{X: imp.Pos.X + cell.Off.X, Y: imp.Pos.Y + cell.Off.Y},
				Percent: imp.Percent * cell.Percent / 100,
			})
		}
	}
	return out
}

func (b *Battle) resolveTargetPattern(tp *content.TargetPattern, aim Position) []impact {
	if tp == nil {
		return []impact{{Pos: aim, Percent: 100}}
	}

	switch tp.Kind {
	case content.TargetSingle:
		if tp.Random && len(tp.Cells) > 0 {
			if imp, ok := b.weightedDraw(tp.Cells, aim); ok {
				return []impact{imp}
			}
			return []impact{{Pos: aim, Percent: 100}}
		}
		// A non-random single pattern with non-zero offsets is a fixed
		// shape that cannot be re-aimed: every offset fires.
		if tp.HasOffsets() {
			return allOffsets(tp.Cells, aim)
		}
		return []impact{{Pos: aim, Percent: 100}}
	case content.TargetSelf:
		return []impact{{Pos: aim, Percent: 100}}
	default:
		// ALL, ROW, COLUMN: every listed offset fires at its percent.
		if len(tp.Cells) == 0 {
			return []impact{{Pos: aim, Percent: 100}}
		}
		return allOffsets(tp.Cells, aim)
	}
}

func (b *Battle) weightedDraw(cells []content.PatternCell, aim Position) (impact, bool) {
	total := 0.0
	for _, c := range cells {
		total += c.Weight
	}
	if total <= 0 {
		return impact{}, false
	}
	roll := b.rng.Float64() * total
	cum := 0.0
	for _, c := range cells {
		cum += c.Weight
		if roll <= cum {
			return impact{
				Pos:     Position{X: aim.X + c.Off.X, Y: aim.Y + c.Off.Y},
				Percent: c.Percent,
			}, true
		}
	}
	last := cells[len(cells)-1]
	return impact{
		Pos:     Position{X: aim.X + last.Off.X, Y: aim.Y + last.Off.Y},
		Percent: last.Percent,
	}, true
}

func allOffsets(cells []content.PatternCell, aim Position) []impact {
	out := make([]impact, 0, len(cells))
	for _, c := range cells {
		out = append(out, impact{
			Pos:     Position{X: aim.X + c.Off.X, Y: aim.Y + c.Off.Y},
			Percent: c.Percent,
		})
	}
	return out
}

// IsSingleTarget reports whether every resolved hit lands on the aim
// point itself. Policy helpers, not used by the resolver.
func IsSingleTarget(stats *content.AbilityStats) bool {
	if stats.TargetPattern != nil && stats.TargetPattern.HasOffsets() {
		return false
	}
	for _, c := range stats.SplashPattern {
		if c.Off.X != 0 || c.Off.Y != 0 {
			return false
		}
	}
	return true
}

// IsFixedAttack reports whether the ability fires a fixed, non-aimable
// shape: a non-random single target pattern carrying non-zero offsets.
func IsFixedAttack(stats *content.AbilityStats) bool {
	tp := stats.TargetPattern
	return tp != nil && tp.Kind == content.TargetSingle && !tp.Random && tp.HasOffsets()
}
