package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battlesim/internal/content"
)

func TestBlockingPropagation(t *testing.T) {
	// A PARTIAL blocker in front: DIRECT fire cannot reach the back
	// rank, PRECISE fire can.
	b := fixtureBattle(t,
		[]Placement{{UnitID: 1, GridID: 0, Rank: 1}},
		[]Placement{
			{UnitID: 1, GridID: 0, Rank: 1}, // blocking PARTIAL, front
			{UnitID: 3, GridID: 3, Rank: 1}, // back rank, same column
		},
		Options{Seed: 1})
	attacker := b.PlayerUnits()[0]

	direct := b.ValidTargets(attacker, 1)
	assert.Contains(t, direct, Position{X: 0, Y: 0})
	assert.NotContains(t, direct, Position{X: 0, Y: 1}, "PARTIAL blocker stops DIRECT fire")

	precise := b.ValidTargets(attacker, 2)
	assert.Contains(t, precise, Position{X: 0, Y: 1}, "PRECISE fire ignores PARTIAL blockers")
}

func TestFullBlockerStopsPreciseFire(t *testing.T) {
	b := fixtureBattle(t,
		[]Placement{{UnitID: 1, GridID: 0, Rank: 1}},
		[]Placement{
			{UnitID: 2, GridID: 0, Rank: 1}, // blocking FULL, front
			{UnitID: 3, GridID: 3, Rank: 1},
		},
		Options{Seed: 1})
	attacker := b.PlayerUnits()[0]

	assert.NotContains(t, b.ValidTargets(attacker, 1), Position{X: 0, Y: 1})
	assert.NotContains(t, b.ValidTargets(attacker, 2), Position{X: 0, Y: 1})
}

func TestDeadBlockerDoesNotBlock(t *testing.T) {
	b := fixtureBattle(t,
		[]Placement{{UnitID: 1, GridID: 0, Rank: 1}},
		[]Placement{
			{UnitID: 2, GridID: 0, Rank: 1},
			{UnitID: 3, GridID: 3, Rank: 1},
		},
		Options{Seed: 1})
	blocker := b.EnemyUnits()[0]
	blocker.HP = 0
	blocker.Alive = false

	assert.Contains(t, b.ValidTargets(b.PlayerUnits()[0], 1), Position{X: 0, Y: 1})
}

func TestTagTargetingThroughHierarchy(t *testing.T) {
	// anti_armor targets tag 24, which expands to {24,25,26,27}: the
	// heavy (26) and rifleman (27) qualify, the untagged drone does not.
	b := fixtureBattle(t,
		[]Placement{{UnitID: 3, GridID: 0, Rank: 1}},
		[]Placement{
			{UnitID: 2, GridID: 3, Rank: 1},
			{UnitID: 4, GridID: 4, Rank: 1},
		},
		Options{Seed: 1})
	attacker := b.PlayerUnits()[0]
	stats := &content.AbilityStats{
		Targets:    []content.Tag{24},
		MinRange:   1,
		MaxRange:   9,
		LineOfFire: content.FireIndirect,
	}

	assert.True(t, b.canTarget(attacker, b.EnemyUnits()[0], stats))
	assert.False(t, b.canTarget(attacker, b.EnemyUnits()[1], stats))

	stats.Targets = []content.Tag{content.TagMatchAll}
	assert.True(t, b.canTarget(attacker, b.EnemyUnits()[1], stats), "match-all tag hits anything")
}

func TestAttackDirectionConstraint(t *testing.T) {
	b := fixtureBattle(t,
		[]Placement{{UnitID: 1, GridID: 3, Rank: 1}}, // row 1
		[]Placement{
			{UnitID: 1, GridID: 0, Rank: 1}, // row 0
			{UnitID: 3, GridID: 6, Rank: 1}, // row 2
		},
		Options{Seed: 1})
	attacker := b.PlayerUnits()[0]
	stats := &content.AbilityStats{MinRange: 1, MaxRange: 9, LineOfFire: content.FireIndirect}

	stats.AttackDirection = content.DirectionForward
	assert.False(t, b.canTarget(attacker, b.EnemyUnits()[0], stats))
	assert.True(t, b.canTarget(attacker, b.EnemyUnits()[1], stats))

	stats.AttackDirection = content.DirectionBackward
	assert.True(t, b.canTarget(attacker, b.EnemyUnits()[0], stats))
	assert.False(t, b.canTarget(attacker, b.EnemyUnits()[1], stats))

	stats.AttackDirection = content.DirectionAny
	assert.True(t, b.canTarget(attacker, b.EnemyUnits()[0], stats))
	assert.True(t, b.canTarget(attacker, b.EnemyUnits()[1], stats))
}

func TestRangeWindow(t *testing.T) {
	b := fixtureBattle(t,
		[]Placement{{UnitID: 1, GridID: 0, Rank: 1}},
		[]Placement{
			{UnitID: 1, GridID: 0, Rank: 1}, // distance 1
			{UnitID: 3, GridID: 6, Rank: 1}, // distance 3
		},
		Options{Seed: 1})
	attacker := b.PlayerUnits()[0]
	stats := &content.AbilityStats{MinRange: 2, MaxRange: 2, LineOfFire: content.FireIndirect}

	assert.False(t, b.canTarget(attacker, b.EnemyUnits()[0], stats), "below min range")
	assert.False(t, b.canTarget(attacker, b.EnemyUnits()[1], stats), "above max range")

	stats.MaxRange = 3
	assert.True(t, b.canTarget(attacker, b.EnemyUnits()[1], stats))
}

func TestResolveTargetPatternShapes(t *testing.T) {
	b := &Battle{}
	b.Seed(1)
	aim := Position{X: 1, Y: 1}

	t.Run("nil pattern hits the aim point", func(t *testing.T) {
		imps := b.resolveTargetPattern(nil, aim)
		require.Len(t, imps, 1)
		assert.Equal(t, impact{Pos: aim, Percent: 100}, imps[0])
	})

	t.Run("row pattern fires every offset", func(t *testing.T) {
		tp := &content.TargetPattern{
			Kind: content.TargetRow,
			Cells: []content.PatternCell{
				{Off: content.Offset{X: -1}, Percent: 50, Weight: 100},
				{Off: content.Offset{}, Percent: 100, Weight: 100},
				{Off: content.Offset{X: 1}, Percent: 50, Weight: 100},
			},
		}
		imps := b.resolveTargetPattern(tp, aim)
		require.Len(t, imps, 3)
		assert.Equal(t, Position{X: 0, Y: 1}, imps[0].Pos)
		assert.Equal(t, 100.0, imps[1].Percent)
	})

	t.Run("fixed single pattern is not aimable", func(t *testing.T) {
		tp := &content.TargetPattern{
			Kind: content.TargetSingle,
			Cells: []content.PatternCell{
				{Off: content.Offset{Y: 1}, Percent: 100, Weight: 100},
				{Off: content.Offset{Y: 2}, Percent: 75, Weight: 100},
			},
		}
		imps := b.resolveTargetPattern(tp, aim)
		require.Len(t, imps, 2, "non-random single with offsets fires them all")
		assert.Equal(t, Position{X: 1, Y: 2}, imps[0].Pos)
	})

	t.Run("random single draws exactly one cell", func(t *testing.T) {
		tp := &content.TargetPattern{
			Kind:   content.TargetSingle,
			Random: true,
			Cells: []content.PatternCell{
				{Off: content.Offset{X: -1}, Percent: 100, Weight: 100},
				{Off: content.Offset{X: 1}, Percent: 100, Weight: 100},
			},
		}
		imps := b.resolveTargetPattern(tp, aim)
		require.Len(t, imps, 1)
		assert.Contains(t, []Position{{X: 0, Y: 1}, {X: 2, Y: 1}}, imps[0].Pos)
	})

	t.Run("zero total weight falls back to the aim point", func(t *testing.T) {
		tp := &content.TargetPattern{
			Kind:   content.TargetSingle,
			Random: true,
			Cells: []content.PatternCell{
				{Off: content.Offset{X: -1}, Percent: 100, Weight: 0},
			},
		}
		imps := b.resolveTargetPattern(tp, aim)
		require.Len(t, imps, 1)
		assert.Equal(t, impact{Pos: aim, Percent: 100}, imps[0])
	})
}

func TestSplashComposesMultiplicatively(t *testing.T) {
	b := &Battle{}
	b.Seed(1)
	stats := &content.AbilityStats{
		TargetPattern: &content.TargetPattern{
			Kind: content.TargetRow,
			Cells: []content.PatternCell{
				{Off: content.Offset{}, Percent: 100, Weight: 100},
				{Off: content.Offset{X: 1}, Percent: 50, Weight: 100},
			},
		},
		SplashPattern: []content.PatternCell{
			{Off: content.Offset{}, Percent: 100, Weight: 100},
			{Off: content.Offset{Y: 1}, Percent: 40, Weight: 100},
		},
	}

	imps := b.resolveImpacts(stats, Position{})
	require.Len(t, imps, 4)
	assert.Equal(t, 100.0, imps[0].Percent)
	assert.Equal(t, 40.0, imps[1].Percent)
	assert.Equal(t, 50.0, imps[2].Percent)
	assert.Equal(t, 20.0, imps[3].Percent, "50% impact x 40% splash")
}

func TestTotalShots(t *testing.T) {
	cases := []struct {
		shots, attacks, want int
	}{
		{3, 1, 3}, {1, 2, 2}, {2, 3, 6}, {5, 2, 10}, {0, 0, 1},
	}
	for _, c := range cases {
		stats := content.AbilityStats{ShotsPerAttack: c.shots, AttacksPerUse: c.attacks}
		assert.Equal(t, c.want, stats.TotalShots())
	}
}

func TestAbilityShapePredicates(t *testing.T) {
	plain := &content.AbilityStats{}
	assert.True(t, IsSingleTarget(plain))
	assert.False(t, IsFixedAttack(plain))

	fixed := &content.AbilityStats{TargetPattern: &content.TargetPattern{
		Kind:  content.TargetSingle,
		Cells: []content.PatternCell{{Off: content.Offset{Y: 1}, Percent: 100, Weight: 100}},
	}}
	assert.False(t, IsSingleTarget(fixed))
	assert.True(t, IsFixedAttack(fixed))

	splashy := &content.AbilityStats{SplashPattern: []content.PatternCell{
		{Off: content.Offset{}, Percent: 100},
		{Off: content.Offset{X: 1}, Percent: 50},
	}}
	assert.False(t, IsSingleTarget(splashy))
}
