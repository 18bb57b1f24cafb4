package battle

import (
	"battlesim/internal/content"
)

// hitRoll is the outcome of the pre-split damage pipeline for one hit.
type hitRoll struct {
	Damage   int
	Critical bool
	Dodged   bool
}

func clampChance(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 95 {
		return 95
	}
	return v
}

// scaleDamage applies the power rank-scaling to a base damage value.
func scaleDamage(v, power int) int {
	return int(float64(v) * (1 + 0.02*float64(power)))
}

// rollHit runs the per-hit pipeline up to the armor/HP split: dodge,
// base draw, crit, class modifier, pattern falloff, then environmental
// and status modifiers. The order is load-bearing.
func (b *Battle) rollHit(attacker, defender *Unit, weapon *content.Weapon, stats *content.AbilityStats, percent float64) hitRoll {
	dodge := clampChance(float64(defender.Stats.Defense-(stats.Attack+attacker.Stats.Accuracy)) + 5)
	if !b.deterministic && b.rng.Float64()*100 < dodge {
		return hitRoll{Dodged: true}
	}

	low := scaleDamage(weapon.Stats.BaseDamageMin, attacker.Stats.Power)
	high := scaleDamage(weapon.Stats.BaseDamageMax, attacker.Stats.Power)
	var damage int
	switch {
	case high <= low:
		damage = low
	case b.deterministic:
		damage = (low + high) / 2
	default:
		damage = low + b.rng.Intn(high-low+1)
	}
	damage += stats.Damage

	crit := false
	if !b.deterministic {
		chance := attacker.Stats.Critical + weapon.Stats.BaseCritPct + stats.CriticalHitPct
		for tag, bonus := range stats.CriticalBonuses {
			if defender.Template.HasTag(tag) {
				chance += bonus
			}
		}
		if b.rng.Float64()*100 < chance {
			crit = true
			damage = int(float64(damage) * 1.5)
		}
	}

	classMod := b.store.ClassDamageMod(attacker.Template.Class, defender.Template.Class)
	damage = int(float64(damage) * classMod)

	damage = int(float64(damage) * percent / 100)

	mod := b.envMod(stats.DamageType) * defender.StatusDamageMod(stats.DamageType)
	damage = int(float64(damage) * mod)

	return hitRoll{Damage: damage, Critical: crit}
}

func (b *Battle) envMod(dt content.DamageType) float64 {
	if m, ok := b.envMods[dt]; ok {
		return m
	}
	return 1.0
}

// applyDamage splits a hit between armor and HP with per-damage-type
// modifiers, mutates the target, and returns the HP and armor damage
// actually taken. Death is flagged here.
func (b *Battle) applyDamage(target *Unit, damage int, dt content.DamageType, piercingFrac float64) (hpDamage, armorDamage int) {
	if !target.Alive || damage <= 0 {
		return 0, 0
	}

	hpMod := target.Stats.HPMod(dt)

	if target.Armor <= 0 || target.BypassArmor() {
		hpDamage = int(float64(damage) * hpMod)
		target.HP -= hpDamage
		target.markDeadIfDown()
		return hpDamage, 0
	}

	piercing := int(float64(damage) * piercingFrac)
	remainder := damage - piercing

	armorMod := target.Stats.ArmorMod(dt) * target.StatusArmorMod(dt)
	capacity := target.Armor
	if armorMod > 0 {
		capacity = int(float64(target.Armor) / armorMod)
	}

	if remainder <= capacity {
		armorDamage = int(float64(remainder) * armorMod)
		hpDamage = int(float64(piercing) * hpMod)
	} else {
		armorDamage = target.Armor
		overflow := remainder - capacity
		hpDamage = int(float64(overflow+piercing) * hpMod)
	}

	target.Armor -= armorDamage
	if target.Armor < 0 {
		target.Armor = 0
	}
	target.HP -= hpDamage
	target.markDeadIfDown()
	return hpDamage, armorDamage
}
