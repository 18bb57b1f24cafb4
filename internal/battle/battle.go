package battle

import (
	"fmt"
	"math/rand"

	"battlesim/internal/content"
	"battlesim/internal/util"
)

// Result is the battle outcome state.
type Result int

const (
	ResultInProgress Result = iota
	ResultPlayerWin
	ResultEnemyWin
	ResultSurrender
)

func (r Result) String() string {
	switch r {
	case ResultPlayerWin:
		return "player_win"
	case ResultEnemyWin:
		return "enemy_win"
	case ResultSurrender:
		return "surrender"
	}
	return "in_progress"
}

// Placement puts a unit template on a grid slot at a rank.
type Placement struct {
	UnitID int `json:"unit_id" yaml:"unit_id"`
	GridID int `json:"grid_id" yaml:"grid_id"`
	Rank   int `json:"rank" yaml:"rank"`
}

// Options configures a battle instance at construction.
type Options struct {
	Seed          int64
	Deterministic bool
	EnvMods       map[content.DamageType]float64
}

// Action is one unit using one weapon against an aim point. UnitIndex
// indexes the acting side's roster.
type Action struct {
	UnitIndex int      `json:"unit_index"`
	WeaponID  int      `json:"weapon_id"`
	Target    Position `json:"target"`
}

// AppliedStatus records a status effect landing on a unit.
type AppliedStatus struct {
	UnitIndex int `json:"unit_index"`
	EffectID  int `json:"effect_id"`
}

// ActionResult reports one executed action. Unit indexes are global:
// player roster first, then the enemy roster.
type ActionResult struct {
	Success       bool            `json:"success"`
	Damage        map[int]int     `json:"damage,omitempty"`
	Kills         []int           `json:"kills,omitempty"`
	StatusApplied []AppliedStatus `json:"status_applied,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// HistoryEntry is one executed (or rejected) action and its result.
type HistoryEntry struct {
	Action Action       `json:"action"`
	Result ActionResult `json:"result"`
}

// Battle is a single battle instance. It owns its RNG; the content
// store is shared read-only.
type Battle struct {
	store  *content.Store
	layout *content.GridLayout

	rng           *rand.Rand
	deterministic bool
	envMods       map[content.DamageType]float64

	playerUnits      []*Unit
	enemyUnits       []*Unit
	playerIsAttacker bool

	waves     [][]content.EncounterUnit
	waveIndex int

	turn       int
	playerTurn bool
	result     Result
	history    []HistoryEntry
}

// New builds a battle from a layout and explicit placements per side.
func New(store *content.Store, layoutID int, player, enemy []Placement, opts Options) (*Battle, error) {
	layout := store.GetLayout(layoutID)
	if layout == nil {
		return nil, fmt.Errorf("battle: unknown layout %d", layoutID)
	}

	b := &Battle{
		store:            store,
		layout:           layout,
		rng:              util.New(opts.Seed),
		deterministic:    opts.Deterministic,
		envMods:          opts.EnvMods,
		playerIsAttacker: true,
		playerTurn:       true,
		waveIndex:        1,
	}

	var err error
	b.playerUnits, err = b.buildSide(player, content.SidePlayer)
	if err != nil {
		return nil, err
	}
	b.enemyUnits, err = b.buildSide(enemy, content.SidePlayer.Opponent())
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NewFromEncounter builds a battle from an encounter definition. The
// player roster is placed row-first; extra encounter waves stay pending
// until SpawnWave.
func NewFromEncounter(store *content.Store, encounterID int, playerUnitIDs, playerRanks []int, opts Options) (*Battle, error) {
	enc := store.GetEncounter(encounterID)
	if enc == nil {
		return nil, fmt.Errorf("battle: unknown encounter %d", encounterID)
	}
	layout := store.GetLayout(enc.LayoutID)
	if layout == nil {
		return nil, fmt.Errorf("battle: encounter %d references unknown layout %d", encounterID, enc.LayoutID)
	}

	player := make([]Placement, 0, len(playerUnitIDs))
	for i, id := range playerUnitIDs {
		rank := 1
		if i < len(playerRanks) {
			rank = playerRanks[i]
		}
		player = append(player, Placement{UnitID: id, GridID: i, Rank: rank})
	}
	if len(player) == 0 {
		for _, eu := range enc.PlayerUnits {
			player = append(player, Placement{UnitID: eu.UnitID, GridID: eu.GridID, Rank: eu.Rank})
		}
	}

	var enemy []Placement
	if len(enc.Waves) > 0 {
		for _, eu := range enc.Waves[0] {
			enemy = append(enemy, Placement{UnitID: eu.UnitID, GridID: eu.GridID, Rank: eu.Rank})
		}
	}

	b, err := New(store, enc.LayoutID, player, enemy, opts)
	if err != nil {
		return nil, err
	}
	b.playerIsAttacker = enc.IsPlayerAttacker
	b.waves = enc.Waves
	return b, nil
}

func (b *Battle) buildSide(placements []Placement, side content.BattleSide) ([]*Unit, error) {
	units := make([]*Unit, 0, len(placements))
	taken := make(map[Position]bool)
	for _, p := range placements {
		tpl := b.store.GetUnit(p.UnitID)
		if tpl == nil {
			return nil, fmt.Errorf("battle: unknown unit %d", p.UnitID)
		}
		pos := FromGridID(p.GridID, b.layout.Width())
		if !b.layout.IsValidCell(side, pos.X, pos.Y) {
			return nil, fmt.Errorf("battle: unit %d placed on invalid cell %d", p.UnitID, p.GridID)
		}
		if taken[pos] {
			return nil, fmt.Errorf("battle: cell %d occupied twice", p.GridID)
		}
		taken[pos] = true
		rank := p.Rank
		if rank < 1 {
			rank = 1
		}
		units = append(units, NewUnit(tpl, rank, pos, side))
	}
	return units, nil
}

// Seed reseeds the instance RNG so the roll sequence is reproducible.
func (b *Battle) Seed(seed int64) { b.rng = util.New(seed) }

// PlayerUnits returns the player roster, stable across the battle.
func (b *Battle) PlayerUnits() []*Unit { return b.playerUnits }

// EnemyUnits returns the enemy roster, stable across the battle.
func (b *Battle) EnemyUnits() []*Unit { return b.enemyUnits }

// Turn is the number of completed full rounds.
func (b *Battle) Turn() int { return b.turn }

// IsPlayerTurn reports whether the player side acts next.
func (b *Battle) IsPlayerTurn() bool { return b.playerTurn }

// Result is the current outcome state.
func (b *Battle) Result() Result { return b.result }

// History returns every action attempted so far with its result.
func (b *Battle) History() []HistoryEntry { return b.history }

// WavesRemaining counts encounter waves not yet spawned.
func (b *Battle) WavesRemaining() int {
	if b.waveIndex >= len(b.waves) {
		return 0
	}
	return len(b.waves) - b.waveIndex
}

// LivingCount counts living units on a side, unimportant ones included.
func (b *Battle) LivingCount(side content.BattleSide) int {
	return livingCount(b.sideUnits(side))
}

// SideDefeated reports whether a side has no living unit that counts
// toward victory. Orchestrators use this to drive wave spawning.
func (b *Battle) SideDefeated(side content.BattleSide) bool {
	return !sideHasFight(b.sideUnits(side))
}

func (b *Battle) sideUnits(side content.BattleSide) []*Unit {
	if side == content.SidePlayer {
		return b.playerUnits
	}
	return b.enemyUnits
}

func (b *Battle) currentUnits() []*Unit {
	if b.playerTurn {
		return b.playerUnits
	}
	return b.enemyUnits
}

// UnitAt returns the living unit of one side at a side-local position,
// or nil. Positions only mean something relative to a side's own grid.
func (b *Battle) UnitAt(side content.BattleSide, pos Position) *Unit {
	for _, u := range b.sideUnits(side) {
		if u.Alive && u.Pos == pos {
			return u
		}
	}
	return nil
}

// unitIndex is the global index used in ActionResult: player roster
// first, then enemy roster.
func (b *Battle) unitIndex(target *Unit) int {
	if target.Side == content.SidePlayer {
		for i, u := range b.playerUnits {
			if u == target {
				return i
			}
		}
		return -1
	}
	for i, u := range b.enemyUnits {
		if u == target {
			return len(b.playerUnits) + i
		}
	}
	return -1
}

// LegalActions enumerates every (unit, weapon, aim point) the current
// side may execute this turn.
func (b *Battle) LegalActions() []Action {
	if b.result != ResultInProgress {
		return nil
	}
	var actions []Action
	for idx, u := range b.currentUnits() {
		if !u.CanAct() {
			continue
		}
		for _, weaponID := range u.AvailableWeapons() {
			for _, pos := range b.ValidTargets(u, weaponID) {
				actions = append(actions, Action{UnitIndex: idx, WeaponID: weaponID, Target: pos})
			}
		}
	}
	return actions
}

// ExecuteAction validates and resolves one action for the current side.
// Invalid input never panics; it yields a failed result and leaves the
// state untouched. Every attempt lands in the history.
func (b *Battle) ExecuteAction(action Action) ActionResult {
	result := b.executeAction(action)
	b.history = append(b.history, HistoryEntry{Action: action, Result: result})
	return result
}

func (b *Battle) executeAction(action Action) ActionResult {
	fail := func(msg string) ActionResult {
		return ActionResult{Success: false, Message: msg}
	}

	if b.result != ResultInProgress {
		return fail("battle is over")
	}
	units := b.currentUnits()
	if action.UnitIndex < 0 || action.UnitIndex >= len(units) {
		return fail("invalid unit index")
	}
	unit := units[action.UnitIndex]
	if !unit.Alive {
		return fail("unit is dead")
	}
	if unit.IsStunned() {
		return fail("unit is stunned")
	}
	weapon, ok := unit.Template.Weapons[action.WeaponID]
	if !ok {
		return fail("invalid weapon")
	}
	if unit.GlobalCooldown > 0 || unit.WeaponCooldowns[action.WeaponID] > 0 {
		return fail("weapon on cooldown")
	}
	if weapon.Stats.Ammo >= 0 && unit.Ammo[action.WeaponID] <= 0 {
		return fail("out of ammo")
	}
	if len(weapon.Abilities) == 0 {
		return fail("weapon has no ability")
	}
	ability := b.store.GetAbility(weapon.Abilities[0])
	if ability == nil {
		return fail("ability not found")
	}
	if !b.isValidTarget(unit, action.WeaponID, action.Target) {
		return fail("target not in range")
	}

	result := b.resolveAttack(unit, &weapon, ability, action.Target)

	stats := &ability.Stats
	unit.WeaponCooldowns[action.WeaponID] = stats.AbilityCooldown
	if stats.GlobalCooldown > 0 {
		unit.GlobalCooldown = stats.GlobalCooldown
	}
	if weapon.Stats.Ammo >= 0 {
		cost := stats.AmmoRequired
		if cost < 1 {
			cost = 1
		}
		unit.Ammo[action.WeaponID] -= cost
		if unit.Ammo[action.WeaponID] < 0 {
			unit.Ammo[action.WeaponID] = 0
		}
	}

	return result
}

func (b *Battle) isValidTarget(unit *Unit, weaponID int, target Position) bool {
	for _, pos := range b.ValidTargets(unit, weaponID) {
		if pos == target {
			return true
		}
	}
	return false
}

func (b *Battle) resolveAttack(attacker *Unit, weapon *content.Weapon, ability *content.Ability, aim Position) ActionResult {
	result := ActionResult{Success: true, Damage: make(map[int]int)}
	stats := &ability.Stats
	defending := attacker.Side.Opponent()

	for shot := 0; shot < stats.TotalShots(); shot++ {
		for _, imp := range b.resolveImpacts(stats, aim) {
			target := b.UnitAt(defending, imp.Pos)
			if target == nil {
				continue
			}

			roll := b.rollHit(attacker, target, weapon, stats, imp.Percent)
			if roll.Dodged {
				continue
			}

			hp, armor := b.applyDamage(target, roll.Damage, stats.DamageType, stats.ArmorPiercingPct)
			if hp+armor == 0 && target.Alive {
				// A landed hit always costs at least one point.
				target.HP--
				target.markDeadIfDown()
				hp = 1
			}

			idx := b.unitIndex(target)
			result.Damage[idx] += hp + armor
			if !target.Alive {
				result.Kills = appendUnique(result.Kills, idx)
			}

			for effectID, chance := range stats.StatusEffects {
				if b.tryApplyEffect(target, effectID, chance, float64(roll.Damage)) {
					result.StatusApplied = append(result.StatusApplied, AppliedStatus{UnitIndex: idx, EffectID: effectID})
				}
			}
		}
	}
	return result
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// EndTurn ticks the acting side's effects and cooldowns, hands the turn
// to the other side, and re-evaluates terminal conditions. The round
// counter advances when the turn wraps back to the player.
func (b *Battle) EndTurn() {
	if b.result != ResultInProgress {
		return
	}

	for _, u := range b.currentUnits() {
		b.processEffects(u)
		u.TickCooldowns()
	}

	b.playerTurn = !b.playerTurn
	if b.playerTurn {
		b.turn++
	}

	b.checkTerminal()
}

func (b *Battle) checkTerminal() {
	playerAlive := sideHasFight(b.playerUnits)
	enemyAlive := sideHasFight(b.enemyUnits)

	switch {
	case !enemyAlive:
		// A defeated defender holds the field while waves remain; the
		// orchestrator spawns the next one.
		if b.playerIsAttacker && b.WavesRemaining() > 0 {
			return
		}
		b.result = ResultPlayerWin
	case !playerAlive:
		b.result = ResultEnemyWin
	}
}

func sideHasFight(units []*Unit) bool {
	for _, u := range units {
		if u.Alive && !u.Template.Unimportant {
			return true
		}
	}
	return false
}

// Surrender ends the battle immediately regardless of unit counts.
func (b *Battle) Surrender() { b.result = ResultSurrender }

// SpawnWave places the next pending encounter wave on the enemy side.
// Returns false when no wave remains or the battle is over.
func (b *Battle) SpawnWave() bool {
	if b.result != ResultInProgress || b.waveIndex >= len(b.waves) {
		return false
	}
	wave := b.waves[b.waveIndex]
	b.waveIndex++

	side := content.SidePlayer.Opponent()
	for _, eu := range wave {
		tpl := b.store.GetUnit(eu.UnitID)
		if tpl == nil {
			continue
		}
		pos := FromGridID(eu.GridID, b.layout.Width())
		if !b.layout.IsValidCell(side, pos.X, pos.Y) || b.UnitAt(side, pos) != nil {
			continue
		}
		rank := eu.Rank
		if rank < 1 {
			rank = 1
		}
		b.enemyUnits = append(b.enemyUnits, NewUnit(tpl, rank, pos, side))
	}
	return true
}
