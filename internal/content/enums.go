package content

// DamageType identifies a damage channel. Values match the upstream
// content pack and must not be reordered.
type DamageType int

const (
	DamageNone DamageType = iota
	DamagePiercing
	DamageCold
	DamageCrushing
	DamageExplosive
	DamageFire
	DamageTorpedo
	DamageDepthCharge
	DamageMelee
	DamageProjectile
	DamageShell
)

var damageTypeNames = map[string]DamageType{
	"none":         DamageNone,
	"piercing":     DamagePiercing,
	"cold":         DamageCold,
	"crushing":     DamageCrushing,
	"explosive":    DamageExplosive,
	"fire":         DamageFire,
	"torpedo":      DamageTorpedo,
	"depthcharge":  DamageDepthCharge,
	"depth_charge": DamageDepthCharge,
	"melee":        DamageMelee,
	"projectile":   DamageProjectile,
	"shell":        DamageShell,
}

// DamageTypeByName parses a content-pack damage type string.
// Unknown names fall back to piercing, matching the pack's default.
func DamageTypeByName(name string) DamageType {
	if dt, ok := damageTypeNames[name]; ok {
		return dt
	}
	return DamagePiercing
}

// UnitClass is the class axis of the class-vs-class damage table.
type UnitClass int

const (
	ClassNone UnitClass = iota
	ClassEmplacement
	ClassInvincible
	ClassCritter
	ClassAircraft
	ClassSub
	ClassFortress
	ClassVehicle
	ClassDestroyer
	ClassHeavySoldier
	ClassArtillery
	ClassBattleship
	ClassGunboat
	ClassSoldier
	ClassTank
	ClassShip
)

// Tag is a small integer capability label on units; abilities restrict
// their targets to tag sets expanded through the hierarchy.
type Tag int

// TagMatchAll passes every tag check regardless of the defender's tags.
const TagMatchAll Tag = 51

// LineOfFire classifies how an ability's trajectory interacts with
// blockers. Values are fixed by the content pack.
type LineOfFire int

const (
	FireContact LineOfFire = iota
	FireDirect
	FirePrecise
	FireIndirect
)

// AttackDirection constrains targets by relative row.
type AttackDirection int

const (
	DirectionAny AttackDirection = iota
	DirectionForward
	DirectionBackward
)

// Blocking is the ordinal obstruction level a unit presents to shots
// passing through its cell.
type Blocking int

const (
	BlockNone Blocking = iota
	BlockPartial
	BlockFull
	BlockGod
)

// ArmorStyle selects the armor interaction model. Active armor is
// bypassed entirely while the owner is stunned.
type ArmorStyle int

const (
	ArmorPassive ArmorStyle = iota
	ArmorActive
)

// TargetKind is the shape rule of an ability's target pattern.
type TargetKind int

const (
	TargetSelf TargetKind = iota
	TargetAll
	TargetSingle
	TargetRow
	TargetColumn
)

// EffectKind splits status effects into damage-over-time and
// modifier/stun behavior.
type EffectKind int

const (
	EffectDOT EffectKind = iota + 1
	EffectModifier
)

// BattleSide is battle-team membership, independent of a unit's
// inherent faction in the content pack.
type BattleSide int

const (
	SidePlayer BattleSide = 1
	SideEnemy  BattleSide = 2
)

// Opponent returns the other battle side.
func (s BattleSide) Opponent() BattleSide {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

// CellType marks grid cells in a layout's validity mask.
type CellType int

const (
	CellNone CellType = iota
	CellAvailable
	CellUnavailable
	CellWall
)
