package api

import (
	"battlesim/internal/battle"
	"battlesim/internal/content"
)

// CreateBattleRequest sets up a battle from explicit placements or an
// encounter id. EnvMods maps damage type id to a whole-hit multiplier.
type CreateBattleRequest struct {
	LayoutID      int                `json:"layout_id"`
	EncounterID   int                `json:"encounter_id"`
	Player        []battle.Placement `json:"player"`
	Enemy         []battle.Placement `json:"enemy"`
	Seed          int64              `json:"seed"`
	Deterministic bool               `json:"deterministic"`
	EnvMods       map[int]float64    `json:"env_mods"`
}

func (r *CreateBattleRequest) envMods() map[content.DamageType]float64 {
	if len(r.EnvMods) == 0 {
		return nil
	}
	mods := make(map[content.DamageType]float64, len(r.EnvMods))
	for id, m := range r.EnvMods {
		mods[content.DamageType(id)] = m
	}
	return mods
}

// UnitState is one unit's visible state in a snapshot.
type UnitState struct {
	Index    int             `json:"index"`
	UnitID   int             `json:"unit_id"`
	Name     string          `json:"name"`
	Rank     int             `json:"rank"`
	Pos      battle.Position `json:"pos"`
	HP       int             `json:"hp"`
	MaxHP    int             `json:"max_hp"`
	Armor    int             `json:"armor"`
	MaxArmor int             `json:"max_armor"`
	Alive    bool            `json:"alive"`
	Stunned  bool            `json:"stunned"`
	Effects  []int           `json:"effects,omitempty"`
}

// BattleSnapshot is the full externally visible battle state.
type BattleSnapshot struct {
	Turn           int         `json:"turn"`
	PlayerTurn     bool        `json:"player_turn"`
	Result         string      `json:"result"`
	WavesRemaining int         `json:"waves_remaining"`
	Player         []UnitState `json:"player"`
	Enemy          []UnitState `json:"enemy"`
}

// streamEvent is one websocket message to battle watchers.
type streamEvent struct {
	Type   string               `json:"type"`
	Action *battle.Action       `json:"action,omitempty"`
	Result *battle.ActionResult `json:"result,omitempty"`
	State  *BattleSnapshot      `json:"state,omitempty"`
}

func snapshot(b *battle.Battle) BattleSnapshot {
	return BattleSnapshot{
		Turn:           b.Turn(),
		PlayerTurn:     b.IsPlayerTurn(),
		Result:         b.Result().String(),
		WavesRemaining: b.WavesRemaining(),
		Player:         unitStates(b.PlayerUnits(), 0),
		Enemy:          unitStates(b.EnemyUnits(), len(b.PlayerUnits())),
	}
}

func unitStates(units []*battle.Unit, base int) []UnitState {
	out := make([]UnitState, 0, len(units))
	for i, u := range units {
		st := UnitState{
			Index:    base + i,
			UnitID:   u.Template.ID,
			Name:     u.Template.Name,
			Rank:     u.Rank,
			Pos:      u.Pos,
			HP:       u.HP,
			MaxHP:    u.Stats.HP,
			Armor:    u.Armor,
			MaxArmor: u.Stats.ArmorHP,
			Alive:    u.Alive,
			Stunned:  u.IsStunned(),
		}
		for _, e := range u.Effects {
			st.Effects = append(st.Effects, e.Template.ID)
		}
		out = append(out, st)
	}
	return out
}
