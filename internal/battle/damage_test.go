package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"battlesim/internal/content"
)

func statsUnit(stats content.UnitStats) *Unit {
	tpl := &content.UnitTemplate{ID: 99, Name: "dummy", RankStats: []content.UnitStats{stats}}
	return NewUnit(tpl, 1, Position{}, content.SidePlayer.Opponent())
}

func TestClampChance(t *testing.T) {
	assert.Equal(t, 0.0, clampChance(-10))
	assert.Equal(t, 0.0, clampChance(0))
	assert.Equal(t, 50.0, clampChance(50))
	assert.Equal(t, 95.0, clampChance(95))
	assert.Equal(t, 95.0, clampChance(120))
}

func TestScaleDamage(t *testing.T) {
	assert.Equal(t, 100, scaleDamage(100, 0))
	assert.Equal(t, 200, scaleDamage(100, 50))
	assert.Equal(t, 150, scaleDamage(100, 25))
	assert.Equal(t, 12, scaleDamage(10, 10))
}

func TestApplyDamageNoArmor(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{HP: 100})

	hp, armor := b.applyDamage(u, 30, content.DamagePiercing, 0)
	assert.Equal(t, 30, hp)
	assert.Equal(t, 0, armor)
	assert.Equal(t, 70, u.HP)
	assert.True(t, u.Alive)
}

func TestApplyDamageArmorWithinCapacity(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{
		HP: 200, ArmorHP: 100,
		ArmorDamageMods: map[string]float64{"piercing": 0.6},
	})

	// capacity = floor(100 / 0.6) = 166; 150 fits.
	hp, armor := b.applyDamage(u, 150, content.DamagePiercing, 0)
	assert.Equal(t, 0, hp)
	assert.Equal(t, 90, armor)
	assert.Equal(t, 10, u.Armor)
	assert.Equal(t, 200, u.HP)
}

func TestApplyDamageArmorOverflow(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{
		HP: 200, ArmorHP: 100,
		ArmorDamageMods: map[string]float64{"piercing": 0.6},
	})

	// capacity 166; 200 overflows by 34, armor fully depleted.
	hp, armor := b.applyDamage(u, 200, content.DamagePiercing, 0)
	assert.Equal(t, 100, armor)
	assert.Equal(t, 34, hp)
	assert.Equal(t, 0, u.Armor)
	assert.Equal(t, 166, u.HP)
}

func TestApplyDamagePiercingSplit(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{
		HP: 200, ArmorHP: 100,
		ArmorDamageMods: map[string]float64{"piercing": 0.6},
	})

	// Half the hit bypasses armor straight to HP.
	hp, armor := b.applyDamage(u, 100, content.DamagePiercing, 0.5)
	assert.Equal(t, 50, hp)
	assert.Equal(t, 30, armor)
	assert.Equal(t, 70, u.Armor)
	assert.Equal(t, 150, u.HP)
}

func TestApplyDamageHPModifier(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{
		HP:         100,
		DamageMods: map[string]float64{"fire": 2.0},
	})

	hp, _ := b.applyDamage(u, 20, content.DamageFire, 0)
	assert.Equal(t, 40, hp)
	assert.Equal(t, 60, u.HP)
}

func TestApplyDamageActiveArmorBypassWhenStunned(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{
		HP: 100, ArmorHP: 100, ArmorStyle: content.ArmorActive,
	})
	u.Effects = append(u.Effects, &ActiveEffect{
		Template:  &content.StatusEffectTemplate{ID: 1, Kind: content.EffectModifier, BlocksAction: true},
		Remaining: 2,
	})

	hp, armor := b.applyDamage(u, 40, content.DamagePiercing, 0)
	assert.Equal(t, 40, hp)
	assert.Equal(t, 0, armor)
	assert.Equal(t, 100, u.Armor, "active armor is skipped entirely while stunned")
	assert.Equal(t, 60, u.HP)
}

func TestApplyDamageKills(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{HP: 10})

	b.applyDamage(u, 15, content.DamagePiercing, 0)
	assert.False(t, u.Alive)
	assert.Equal(t, 0, u.HP)

	hp, armor := b.applyDamage(u, 10, content.DamagePiercing, 0)
	assert.Zero(t, hp+armor, "dead units take no further damage")
}

func TestStatusDamageModProduct(t *testing.T) {
	u := statsUnit(content.UnitStats{HP: 100})
	u.Effects = append(u.Effects,
		&ActiveEffect{Template: &content.StatusEffectTemplate{
			ID: 1, Kind: content.EffectModifier,
			DamageMods: map[content.DamageType]float64{content.DamageFire: 1.5},
		}, Remaining: 2},
		&ActiveEffect{Template: &content.StatusEffectTemplate{
			ID: 2, Kind: content.EffectModifier,
			DamageMods: map[content.DamageType]float64{content.DamageFire: 2.0},
		}, Remaining: 2},
	)

	assert.InDelta(t, 3.0, u.StatusDamageMod(content.DamageFire), 1e-9)
	assert.InDelta(t, 1.0, u.StatusDamageMod(content.DamagePiercing), 1e-9)
}
