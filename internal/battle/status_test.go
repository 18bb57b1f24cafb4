package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"battlesim/internal/content"
)

func dotTemplate(duration int, mult float64, diminishing bool) *content.StatusEffectTemplate {
	return &content.StatusEffectTemplate{
		ID:             10,
		Kind:           content.EffectDOT,
		Family:         1,
		Duration:       duration,
		DotDamageType:  content.DamageFire,
		DotDamageMult:  mult,
		DotDiminishing: diminishing,
	}
}

func TestDOTDiminishingDecay(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{HP: 100})
	u.Effects = append(u.Effects, &ActiveEffect{
		Template:     dotTemplate(4, 0.5, true),
		Remaining:    4,
		SourceDamage: 40, // original tick = 20
	})

	// Ticks scale by 1.0, 0.75, 0.5, 0.25 of the original amount.
	assert.Equal(t, 20, b.processEffects(u))
	assert.Equal(t, 15, b.processEffects(u))
	assert.Equal(t, 10, b.processEffects(u))
	assert.Equal(t, 5, b.processEffects(u))
	assert.Empty(t, u.Effects, "effect expires after its duration")
	assert.Equal(t, 50, u.HP)

	assert.Equal(t, 0, b.processEffects(u), "no effects left to tick")
}

func TestDOTFlatTicks(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{HP: 100})
	u.Effects = append(u.Effects, &ActiveEffect{
		Template:     dotTemplate(3, 0.5, false),
		Remaining:    3,
		SourceDamage: 40,
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, 20, b.processEffects(u))
	}
	assert.Empty(t, u.Effects)
	assert.Equal(t, 40, u.HP)
}

func TestDOTBonusDamage(t *testing.T) {
	b := &Battle{}
	u := statsUnit(content.UnitStats{HP: 100})
	tpl := dotTemplate(2, 1.0, false)
	tpl.DotBonusDamage = 3
	u.Effects = append(u.Effects, &ActiveEffect{Template: tpl, Remaining: 2, SourceDamage: 10})

	assert.Equal(t, 13, b.processEffects(u))
}

func TestStunBlocksAction(t *testing.T) {
	u := statsUnit(content.UnitStats{HP: 100})
	assert.True(t, u.CanAct())

	u.Effects = append(u.Effects, &ActiveEffect{
		Template:  &content.StatusEffectTemplate{ID: 11, Kind: content.EffectModifier, BlocksAction: true},
		Remaining: 2,
	})
	assert.True(t, u.IsStunned())
	assert.False(t, u.CanAct())

	b := &Battle{}
	b.processEffects(u)
	b.processEffects(u)
	assert.False(t, u.IsStunned(), "stun wears off after its duration")
	assert.True(t, u.CanAct())
}

func TestTryApplyEffectRefreshSameFamily(t *testing.T) {
	store := loadStore(t)
	b := &Battle{store: store}
	b.Seed(7)
	u := statsUnit(content.UnitStats{HP: 100})

	assert.True(t, b.tryApplyEffect(u, 10, 100, 40))
	assert.Len(t, u.Effects, 1)

	// Burn down two ticks, then reapply with a weaker hit.
	u.Effects[0].Remaining = 2
	u.Effects[0].Elapsed = 2

	assert.True(t, b.tryApplyEffect(u, 10, 100, 25))
	assert.Len(t, u.Effects, 1, "same family refreshes instead of stacking")
	assert.Equal(t, 4, u.Effects[0].Remaining)
	assert.Equal(t, 0, u.Effects[0].Elapsed, "decay counter restarts on refresh")
	assert.Equal(t, 40.0, u.Effects[0].SourceDamage, "larger captured damage wins")
}

func TestTryApplyEffectImmunity(t *testing.T) {
	store := loadStore(t)
	b := &Battle{store: store}
	b.Seed(7)
	u := statsUnit(content.UnitStats{HP: 100, StatusImmunities: []int{10}})

	assert.False(t, b.tryApplyEffect(u, 10, 100, 40))
	assert.Empty(t, u.Effects)
}

func TestTryApplyEffectUnknownID(t *testing.T) {
	store := loadStore(t)
	b := &Battle{store: store}
	b.Seed(7)
	u := statsUnit(content.UnitStats{HP: 100})

	assert.False(t, b.tryApplyEffect(u, 999, 100, 40))
}
