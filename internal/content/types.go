package content

// Offset is a relative grid offset inside a pattern.
type Offset struct {
	X int
	Y int
}

// PatternCell is one entry of a target or splash pattern: an offset from
// the aim/impact point, the damage percentage applied there, and the
// selection weight used by random single-target patterns.
type PatternCell struct {
	Off     Offset
	Percent float64
	Weight  float64
	Order   int
}

// TargetPattern describes how an aim point expands into impact points.
type TargetPattern struct {
	Kind   TargetKind
	Cells  []PatternCell
	Random bool
}

// HasOffsets reports whether any cell sits away from the aim point.
func (p *TargetPattern) HasOffsets() bool {
	for _, c := range p.Cells {
		if c.Off.X != 0 || c.Off.Y != 0 {
			return true
		}
	}
	return false
}

// AbilityStats is the combat-relevant portion of an ability definition.
type AbilityStats struct {
	AbilityCooldown int
	GlobalCooldown  int
	AmmoRequired    int
	ChargeTime      int

	Attack         int
	AttacksPerUse  int
	ShotsPerAttack int

	Damage           int
	DamageType       DamageType
	ArmorPiercingPct float64 // fraction in [0,1]

	CriticalHitPct  float64
	CriticalBonuses map[Tag]float64

	MinRange        int
	MaxRange        int
	LineOfFire      LineOfFire
	AttackDirection AttackDirection

	SplashPattern []PatternCell
	TargetPattern *TargetPattern

	Targets []Tag

	// StatusEffects maps effect id -> apply chance percent.
	StatusEffects map[int]float64
}

// TotalShots is the number of independent shots one use resolves.
func (s *AbilityStats) TotalShots() int {
	shots := s.ShotsPerAttack
	if shots < 1 {
		shots = 1
	}
	attacks := s.AttacksPerUse
	if attacks < 1 {
		attacks = 1
	}
	return shots * attacks
}

// Ability is an immutable attack definition.
type Ability struct {
	ID    int
	Name  string
	Stats AbilityStats
}

// WeaponStats holds a weapon's ammo capacity and base damage profile.
// Ammo of -1 means unlimited.
type WeaponStats struct {
	Ammo          int
	BaseDamageMin int
	BaseDamageMax int
	BaseCritPct   float64
}

// Weapon is a unit's weapon slot referencing its abilities by id.
type Weapon struct {
	ID        int
	Name      string
	Abilities []int
	Stats     WeaponStats
}

// UnitStats is one rank's stat block.
type UnitStats struct {
	HP       int
	Defense  int
	Accuracy int
	Dodge    int
	Critical float64
	Power    int
	Blocking Blocking

	ArmorHP    int
	ArmorStyle ArmorStyle

	// Incoming damage multipliers keyed by damage type name.
	DamageMods      map[string]float64
	ArmorDamageMods map[string]float64

	StatusImmunities []int
}

// HPMod returns the incoming HP damage multiplier for a damage type.
func (s *UnitStats) HPMod(dt DamageType) float64 {
	return lookupMod(s.DamageMods, dt)
}

// ArmorMod returns the incoming armor damage multiplier for a damage type.
func (s *UnitStats) ArmorMod(dt DamageType) float64 {
	return lookupMod(s.ArmorDamageMods, dt)
}

func lookupMod(mods map[string]float64, dt DamageType) float64 {
	if mods == nil {
		return 1.0
	}
	for name, v := range damageTypeNames {
		if v == dt {
			if m, ok := mods[name]; ok {
				return m
			}
		}
	}
	return 1.0
}

// UnitTemplate is the immutable definition of a unit type.
type UnitTemplate struct {
	ID    int
	Name  string
	Class UnitClass
	Tags  []Tag

	RankStats []UnitStats
	Weapons   map[int]Weapon

	// Unimportant units never count toward victory or defeat.
	Unimportant bool
}

// StatsAtRank returns the stat block for a 1-based rank, clamped to the
// available range.
func (t *UnitTemplate) StatsAtRank(rank int) *UnitStats {
	if len(t.RankStats) == 0 {
		return &UnitStats{HP: 1}
	}
	idx := rank - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.RankStats) {
		idx = len(t.RankStats) - 1
	}
	return &t.RankStats[idx]
}

// HasTag reports whether the template carries the given tag.
func (t *UnitTemplate) HasTag(tag Tag) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// StatusEffectTemplate defines a status effect.
type StatusEffectTemplate struct {
	ID       int
	Kind     EffectKind
	Family   int
	Duration int

	// DOT parameters.
	DotDamageType  DamageType
	DotDamageMult  float64
	DotBonusDamage int
	DotPiercingPct float64
	DotDiminishing bool

	// Modifier/stun parameters.
	BlocksAction   bool
	BlocksMovement bool
	DamageMods     map[DamageType]float64
	ArmorMods      map[DamageType]float64
}

// GridLayout is a battle grid with one validity mask per side.
type GridLayout struct {
	ID           int
	AttackerGrid [][]CellType
	DefenderGrid [][]CellType
}

// Width of the grid in columns.
func (g *GridLayout) Width() int {
	if len(g.AttackerGrid) == 0 {
		return 0
	}
	return len(g.AttackerGrid[0])
}

// Height of the grid in rows.
func (g *GridLayout) Height() int { return len(g.AttackerGrid) }

// IsValidCell reports whether (x, y) is an available cell for a side.
func (g *GridLayout) IsValidCell(side BattleSide, x, y int) bool {
	grid := g.AttackerGrid
	if side == SideEnemy {
		grid = g.DefenderGrid
	}
	if y < 0 || y >= len(grid) {
		return false
	}
	if x < 0 || x >= len(grid[y]) {
		return false
	}
	return grid[y][x] == CellAvailable
}

// EncounterUnit places a unit template on a grid slot at a rank.
type EncounterUnit struct {
	GridID int
	UnitID int
	Rank   int
}

// Encounter is a predefined enemy roster split into waves.
type Encounter struct {
	ID               int
	Name             string
	Level            int
	LayoutID         int
	Waves            [][]EncounterUnit
	PlayerUnits      []EncounterUnit
	IsPlayerAttacker bool
}
