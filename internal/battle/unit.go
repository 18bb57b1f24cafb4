package battle

import (
	"sort"

	"battlesim/internal/content"
)

// ActiveEffect is one status effect instance on a unit. SourceDamage is
// captured at apply time with all hit modifiers already applied, so a
// DOT tick never re-applies them.
type ActiveEffect struct {
	Template     *content.StatusEffectTemplate
	Remaining    int
	Elapsed      int
	SourceDamage float64
}

// Unit is a mutable combatant instance. The slot keeps its index for
// the whole battle; death flips Alive instead of removing the unit.
type Unit struct {
	Template *content.UnitTemplate
	Stats    *content.UnitStats
	Rank     int
	Pos      Position
	Side     content.BattleSide

	HP    int
	Armor int
	Alive bool

	Ammo            map[int]int
	WeaponCooldowns map[int]int
	GlobalCooldown  int

	Effects []*ActiveEffect
}

// NewUnit instantiates a template at a rank and position.
func NewUnit(tpl *content.UnitTemplate, rank int, pos Position, side content.BattleSide) *Unit {
	stats := tpl.StatsAtRank(rank)
	u := &Unit{
		Template:        tpl,
		Stats:           stats,
		Rank:            rank,
		Pos:             pos,
		Side:            side,
		HP:              stats.HP,
		Armor:           stats.ArmorHP,
		Alive:           true,
		Ammo:            make(map[int]int),
		WeaponCooldowns: make(map[int]int),
	}
	for id, w := range tpl.Weapons {
		if w.Stats.Ammo >= 0 {
			u.Ammo[id] = w.Stats.Ammo
		}
	}
	return u
}

// IsStunned reports whether an active modifier effect blocks actions.
func (u *Unit) IsStunned() bool {
	for _, e := range u.Effects {
		if e.Template.Kind == content.EffectModifier && e.Template.BlocksAction {
			return true
		}
	}
	return false
}

// CanAct reports whether the unit may take an action this turn.
func (u *Unit) CanAct() bool {
	return u.Alive && !u.IsStunned()
}

// BypassArmor reports whether incoming hits skip armor entirely: only
// active-style armor drops while its owner is stunned.
func (u *Unit) BypassArmor() bool {
	return u.Stats.ArmorStyle == content.ArmorActive && u.IsStunned()
}

// StatusDamageMod is the product of all active modifier-effect damage
// multipliers for a damage type.
func (u *Unit) StatusDamageMod(dt content.DamageType) float64 {
	mod := 1.0
	for _, e := range u.Effects {
		if e.Template.Kind != content.EffectModifier {
			continue
		}
		if m, ok := e.Template.DamageMods[dt]; ok {
			mod *= m
		}
	}
	return mod
}

// StatusArmorMod is the product of all active modifier-effect armor
// damage multipliers for a damage type.
func (u *Unit) StatusArmorMod(dt content.DamageType) float64 {
	mod := 1.0
	for _, e := range u.Effects {
		if e.Template.Kind != content.EffectModifier {
			continue
		}
		if m, ok := e.Template.ArmorMods[dt]; ok {
			mod *= m
		}
	}
	return mod
}

// AvailableWeapons lists weapon ids usable this turn, sorted for a
// deterministic action order.
func (u *Unit) AvailableWeapons() []int {
	if u.GlobalCooldown > 0 {
		return nil
	}
	var out []int
	for id, w := range u.Template.Weapons {
		if u.WeaponCooldowns[id] > 0 {
			continue
		}
		if w.Stats.Ammo >= 0 && u.Ammo[id] <= 0 {
			continue
		}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// TickCooldowns decrements the global and per-weapon cooldowns.
func (u *Unit) TickCooldowns() {
	if u.GlobalCooldown > 0 {
		u.GlobalCooldown--
	}
	for id, cd := range u.WeaponCooldowns {
		if cd > 0 {
			u.WeaponCooldowns[id] = cd - 1
		}
	}
}

// Heal restores HP up to the rank maximum. Returns the amount healed.
func (u *Unit) Heal(amount int) int {
	if !u.Alive || amount <= 0 {
		return 0
	}
	old := u.HP
	u.HP += amount
	if u.HP > u.Stats.HP {
		u.HP = u.Stats.HP
	}
	return u.HP - old
}

// HPFraction is current HP over rank maximum, in [0,1].
func (u *Unit) HPFraction() float64 {
	if u.Stats.HP <= 0 {
		return 0
	}
	return float64(u.HP) / float64(u.Stats.HP)
}

func (u *Unit) markDeadIfDown() {
	if u.HP <= 0 {
		u.HP = 0
		u.Alive = false
	}
}
