package battle

import (
	"battlesim/internal/content"
)

// tryApplyEffect rolls a status effect against a target. The source
// damage captured here already carries every hit modifier, so DOT ticks
// replay it as-is. Reapplying an effect of the same family refreshes
// the duration, resets the decay counter, and keeps the larger capture.
func (b *Battle) tryApplyEffect(target *Unit, effectID int, chance, sourceDamage float64) bool {
	for _, immune := range target.Stats.StatusImmunities {
		if immune == effectID {
			return false
		}
	}
	tpl := b.store.GetStatusEffect(effectID)
	if tpl == nil {
		return false
	}
	if b.rng.Float64()*100 >= chance {
		return false
	}

	for _, e := range target.Effects {
		if e.Template.Family == tpl.Family {
			e.Remaining = tpl.Duration
			e.Elapsed = 0
			if sourceDamage > e.SourceDamage {
				e.SourceDamage = sourceDamage
			}
			return true
		}
	}

	target.Effects = append(target.Effects, &ActiveEffect{
		Template:     tpl,
		Remaining:    tpl.Duration,
		SourceDamage: sourceDamage,
	})
	return true
}

// processEffects ticks every active effect on a unit at end of turn.
// DOT damage goes through the armor/HP split with the effect's own
// damage type and piercing. Returns total damage dealt by ticks.
func (b *Battle) processEffects(u *Unit) int {
	if !u.Alive {
		return 0
	}

	total := 0
	kept := u.Effects[:0]
	for _, e := range u.Effects {
		tpl := e.Template
		if tpl.Kind == content.EffectDOT {
			e.Elapsed++
			tick := int(e.SourceDamage*tpl.DotDamageMult) + tpl.DotBonusDamage
			if tpl.DotDiminishing && tpl.Duration > 0 {
				// Decay scales the original tick amount by the share of
				// duration left, not a running total.
				factor := float64(tpl.Duration-e.Elapsed+1) / float64(tpl.Duration)
				tick = int(float64(tick) * factor)
			}
			if tick > 0 {
				hp, armor := b.applyDamage(u, tick, tpl.DotDamageType, tpl.DotPiercingPct)
				total += hp + armor
			}
		}

		e.Remaining--
		if e.Remaining > 0 {
			kept = append(kept, e)
		}
	}
	u.Effects = kept
	return total
}
