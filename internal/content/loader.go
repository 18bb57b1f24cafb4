package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Raw JSON shapes of the upstream content pack. Field names and defaults
// follow the pack format, not Go taste.

type rawPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type rawAreaCell struct {
	Pos           rawPos   `json:"pos"`
	DamagePercent *float64 `json:"damage_percent"`
	Weight        *float64 `json:"weight"`
	Order         int      `json:"order"`
}

type rawTargetArea struct {
	TargetType int           `json:"target_type"`
	Data       []rawAreaCell `json:"data"`
	Random     bool          `json:"random"`
}

type rawAbilityStats struct {
	AbilityCooldown int `json:"ability_cooldown"`
	GlobalCooldown  int `json:"global_cooldown"`
	AmmoRequired    int `json:"ammo_required"`
	ChargeTime      int `json:"charge_time"`

	Attack         int  `json:"attack"`
	AttacksPerUse  *int `json:"attacks_per_use"`
	ShotsPerAttack *int `json:"shots_per_attack"`

	Damage             int     `json:"damage"`
	DamageType         *int    `json:"damage_type"`
	ArmorPiercingPct   float64 `json:"armor_piercing_percent"`
	CriticalHitPercent float64 `json:"critical_hit_percent"`

	CriticalBonuses map[string]float64 `json:"critical_bonuses"`

	MinRange        *int `json:"min_range"`
	MaxRange        *int `json:"max_range"`
	LineOfFire      *int `json:"line_of_fire"`
	AttackDirection *int `json:"attack_direction"`

	DamageArea []rawAreaCell  `json:"damage_area"`
	TargetArea *rawTargetArea `json:"target_area"`

	Targets       []int              `json:"targets"`
	StatusEffects map[string]float64 `json:"status_effects"`
}

type rawAbility struct {
	Name  string          `json:"name"`
	Stats rawAbilityStats `json:"stats"`
}

type rawStatusEffect struct {
	StatusEffectType    *int               `json:"status_effect_type"`
	Family              *int               `json:"family"`
	Duration            *int               `json:"duration"`
	DotDamageType       *int               `json:"dot_damage_type"`
	DotAbilityDamageMlt *float64           `json:"dot_ability_damage_mult"`
	DotBonusDamage      int                `json:"dot_bonus_damage"`
	DotAPPercent        float64            `json:"dot_ap_percent"`
	DotDiminishing      *bool              `json:"dot_diminishing"`
	StunBlockAction     bool               `json:"stun_block_action"`
	StunBlockMovement   bool               `json:"stun_block_movement"`
	StunDamageMods      map[string]float64 `json:"stun_damage_mods"`
	StunArmorDamageMods map[string]float64 `json:"stun_armor_damage_mods"`
}

type rawWeaponStats struct {
	Ammo            *int    `json:"ammo"`
	BaseDamageMin   int     `json:"base_damage_min"`
	BaseDamageMax   int     `json:"base_damage_max"`
	BaseCritPercent float64 `json:"base_crit_percent"`
}

type rawWeapon struct {
	Name      string         `json:"name"`
	Abilities []int          `json:"abilities"`
	Stats     rawWeaponStats `json:"stats"`
}

type rawUnitConfig struct {
	Type string `json:"_t"`

	// identity config
	Name      string `json:"name"`
	ClassName *int   `json:"class_name"`
	Tags      []int  `json:"tags"`

	// stats config
	Stats                  []rawRankStats `json:"stats"`
	Blocking               int            `json:"blocking"`
	StatusEffectImmunities []int          `json:"status_effect_immunities"`
	Unimportant            bool           `json:"unimportant"`

	// weapons config
	Weapons map[string]rawWeapon `json:"weapons"`
}

type rawRankStats struct {
	HP              *int               `json:"hp"`
	Defense         int                `json:"defense"`
	Accuracy        int                `json:"accuracy"`
	Dodge           int                `json:"dodge"`
	Critical        float64            `json:"critical"`
	Power           int                `json:"power"`
	ArmorHP         int                `json:"armor_hp"`
	ArmorDefStyle   int                `json:"armor_def_style"`
	DamageMods      map[string]float64 `json:"damage_mods"`
	ArmorDamageMods map[string]float64 `json:"armor_damage_mods"`
}

type rawLayout struct {
	BaseGrids struct {
		Attacker [][]int `json:"attacker"`
		Defender [][]int `json:"defender"`
	} `json:"base_grids"`
}

type rawBattleConfig struct {
	Classes struct {
		ClassTypes map[string]struct {
			DamageMods map[string]float64 `json:"damage_mods"`
		} `json:"class_types"`
	} `json:"classes"`
	TagHierarchy map[string][]int     `json:"tag_hierarchy"`
	Layouts      map[string]rawLayout `json:"layouts"`
}

type rawEncounterUnit struct {
	GridID int  `json:"grid_id"`
	UnitID int  `json:"unit_id"`
	Rank   *int `json:"rank"`
}

type rawEncounter struct {
	Name             string               `json:"name"`
	Level            int                  `json:"level"`
	LayoutID         *int                 `json:"layout_id"`
	Units            []rawEncounterUnit   `json:"units"`
	Waves            [][]rawEncounterUnit `json:"waves"`
	PlayerUnits      []rawEncounterUnit   `json:"player_units"`
	IsPlayerAttacker *bool                `json:"is_player_attacker"`
}

type rawEncounters struct {
	Armies map[string]rawEncounter `json:"armies"`
}

func loadJSON(dir, name string, out any) error {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Load reads the content pack from dir and builds an immutable Store.
func Load(dir string) (*Store, error) {
	var cfg rawBattleConfig
	if err := loadJSON(dir, "battle_config.json", &cfg); err != nil {
		return nil, err
	}
	var effects map[string]rawStatusEffect
	if err := loadJSON(dir, "status_effects.json", &effects); err != nil {
		return nil, err
	}
	var abilities map[string]rawAbility
	if err := loadJSON(dir, "battle_abilities.json", &abilities); err != nil {
		return nil, err
	}
	var units map[string][]rawUnitConfig
	if err := loadJSON(dir, "battle_units.json", &units); err != nil {
		return nil, err
	}
	var encounters rawEncounters
	if err := loadJSON(dir, "battle_encounters.json", &encounters); err != nil {
		return nil, err
	}

	s := &Store{
		units:         make(map[int]*UnitTemplate),
		abilities:     make(map[int]*Ability),
		statusEffects: make(map[int]*StatusEffectTemplate),
		layouts:       make(map[int]*GridLayout),
		encounters:    make(map[int]*Encounter),
		classMods:     make(map[UnitClass]map[UnitClass]float64),
	}

	for key, classData := range cfg.Classes.ClassTypes {
		cid, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("battle_config.json: class id %q: %w", key, err)
		}
		mods := make(map[UnitClass]float64, len(classData.DamageMods))
		for tk, mult := range classData.DamageMods {
			tid, err := strconv.Atoi(tk)
			if err != nil {
				return nil, fmt.Errorf("battle_config.json: class %d target %q: %w", cid, tk, err)
			}
			mods[UnitClass(tid)] = mult
		}
		s.classMods[UnitClass(cid)] = mods
	}

	hierarchy := make(map[Tag][]Tag, len(cfg.TagHierarchy))
	for key, children := range cfg.TagHierarchy {
		pid, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("battle_config.json: tag %q: %w", key, err)
		}
		kids := make([]Tag, len(children))
		for i, c := range children {
			kids[i] = Tag(c)
		}
		hierarchy[Tag(pid)] = kids
	}
	s.tags = newTagIndex(hierarchy)

	for key, l := range cfg.Layouts {
		lid, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("battle_config.json: layout %q: %w", key, err)
		}
		s.layouts[lid] = &GridLayout{
			ID:           lid,
			AttackerGrid: parseGrid(l.BaseGrids.Attacker),
			DefenderGrid: parseGrid(l.BaseGrids.Defender),
		}
	}

	for key, e := range effects {
		eid, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("status_effects.json: id %q: %w", key, err)
		}
		s.statusEffects[eid] = parseStatusEffect(eid, e)
	}

	for key, a := range abilities {
		aid, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("battle_abilities.json: id %q: %w", key, err)
		}
		ab, err := parseAbility(aid, a)
		if err != nil {
			return nil, err
		}
		s.abilities[aid] = ab
	}

	for key, configs := range units {
		uid, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("battle_units.json: id %q: %w", key, err)
		}
		tpl, err := parseUnit(uid, configs)
		if err != nil {
			return nil, err
		}
		if tpl != nil {
			s.units[uid] = tpl
		}
	}

	armies := encounters.Armies
	for key, e := range armies {
		eid, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("battle_encounters.json: id %q: %w", key, err)
		}
		s.encounters[eid] = parseEncounter(eid, e)
	}

	return s, nil
}

func parseGrid(rows [][]int) [][]CellType {
	out := make([][]CellType, len(rows))
	for y, row := range rows {
		out[y] = make([]CellType, len(row))
		for x, c := range row {
			out[y][x] = CellType(c)
		}
	}
	return out
}

func parseStatusEffect(id int, e rawStatusEffect) *StatusEffectTemplate {
	t := &StatusEffectTemplate{
		ID:             id,
		Kind:           EffectKind(intOr(e.StatusEffectType, 1)),
		Family:         intOr(e.Family, 5),
		Duration:       intOr(e.Duration, 1),
		DotDamageType:  DamageType(intOr(e.DotDamageType, int(DamageFire))),
		DotDamageMult:  floatOr(e.DotAbilityDamageMlt, 1.0),
		DotBonusDamage: e.DotBonusDamage,
		DotPiercingPct: e.DotAPPercent,
		DotDiminishing: boolOr(e.DotDiminishing, true),
		BlocksAction:   e.StunBlockAction,
		BlocksMovement: e.StunBlockMovement,
	}
	t.DamageMods = parseTypedMods(e.StunDamageMods)
	t.ArmorMods = parseTypedMods(e.StunArmorDamageMods)
	return t
}

func parseTypedMods(raw map[string]float64) map[DamageType]float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[DamageType]float64, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[DamageType(id)] = v
	}
	return out
}

func parseAreaCells(raw []rawAreaCell) []PatternCell {
	out := make([]PatternCell, 0, len(raw))
	for _, c := range raw {
		out = append(out, PatternCell{
			Off:     Offset{X: c.Pos.X, Y: c.Pos.Y},
			Percent: floatOr(c.DamagePercent, 100.0),
			Weight:  floatOr(c.Weight, 100.0),
			Order:   c.Order,
		})
	}
	return out
}

func parseAbility(id int, a rawAbility) (*Ability, error) {
	st := a.Stats
	stats := AbilityStats{
		AbilityCooldown:  st.AbilityCooldown,
		GlobalCooldown:   st.GlobalCooldown,
		AmmoRequired:     st.AmmoRequired,
		ChargeTime:       st.ChargeTime,
		Attack:           st.Attack,
		AttacksPerUse:    intOr(st.AttacksPerUse, 1),
		ShotsPerAttack:   intOr(st.ShotsPerAttack, 1),
		Damage:           st.Damage,
		DamageType:       DamageType(intOr(st.DamageType, int(DamagePiercing))),
		ArmorPiercingPct: st.ArmorPiercingPct,
		CriticalHitPct:   st.CriticalHitPercent,
		MinRange:         intOr(st.MinRange, 1),
		MaxRange:         intOr(st.MaxRange, 5),
		LineOfFire:       LineOfFire(intOr(st.LineOfFire, int(FireIndirect))),
		AttackDirection:  AttackDirection(intOr(st.AttackDirection, int(DirectionForward))),
		SplashPattern:    parseAreaCells(st.DamageArea),
	}
	if st.TargetArea != nil {
		stats.TargetPattern = &TargetPattern{
			Kind:   TargetKind(st.TargetArea.TargetType),
			Cells:  parseAreaCells(st.TargetArea.Data),
			Random: st.TargetArea.Random,
		}
	}
	if len(st.CriticalBonuses) > 0 {
		stats.CriticalBonuses = make(map[Tag]float64, len(st.CriticalBonuses))
		for k, v := range st.CriticalBonuses {
			tid, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("battle_abilities.json: ability %d crit bonus tag %q: %w", id, k, err)
			}
			stats.CriticalBonuses[Tag(tid)] = v
		}
	}
	if len(st.StatusEffects) > 0 {
		stats.StatusEffects = make(map[int]float64, len(st.StatusEffects))
		for k, v := range st.StatusEffects {
			eid, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("battle_abilities.json: ability %d effect %q: %w", id, k, err)
			}
			stats.StatusEffects[eid] = v
		}
	}
	stats.Targets = make([]Tag, len(st.Targets))
	for i, t := range st.Targets {
		stats.Targets[i] = Tag(t)
	}
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("ability_%d", id)
	}
	return &Ability{ID: id, Name: name, Stats: stats}, nil
}

func parseUnit(id int, configs []rawUnitConfig) (*UnitTemplate, error) {
	var identity, statsCfg, weaponsCfg *rawUnitConfig
	for i := range configs {
		switch configs[i].Type {
		case "battle_unit_identity_config":
			identity = &configs[i]
		case "battle_unit_stats_config":
			statsCfg = &configs[i]
		case "battle_unit_weapons_config":
			weaponsCfg = &configs[i]
		}
	}
	if identity == nil {
		return nil, nil
	}

	tpl := &UnitTemplate{
		ID:    id,
		Name:  identity.Name,
		Class: UnitClass(intOr(identity.ClassName, int(ClassSoldier))),
	}
	if tpl.Name == "" {
		tpl.Name = fmt.Sprintf("unit_%d", id)
	}
	tpl.Tags = make([]Tag, len(identity.Tags))
	for i, t := range identity.Tags {
		tpl.Tags[i] = Tag(t)
	}

	if statsCfg != nil {
		tpl.Unimportant = statsCfg.Unimportant
		for _, rs := range statsCfg.Stats {
			tpl.RankStats = append(tpl.RankStats, UnitStats{
				HP:               intOr(rs.HP, 100),
				Defense:          rs.Defense,
				Accuracy:         rs.Accuracy,
				Dodge:            rs.Dodge,
				Critical:         rs.Critical,
				Power:            rs.Power,
				Blocking:         Blocking(statsCfg.Blocking),
				ArmorHP:          rs.ArmorHP,
				ArmorStyle:       ArmorStyle(rs.ArmorDefStyle),
				DamageMods:       rs.DamageMods,
				ArmorDamageMods:  rs.ArmorDamageMods,
				StatusImmunities: statsCfg.StatusEffectImmunities,
			})
		}
	}

	if weaponsCfg != nil {
		tpl.Weapons = make(map[int]Weapon, len(weaponsCfg.Weapons))
		for key, w := range weaponsCfg.Weapons {
			wid, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("battle_units.json: unit %d weapon %q: %w", id, key, err)
			}
			name := w.Name
			if name == "" {
				name = fmt.Sprintf("weapon_%d", wid)
			}
			tpl.Weapons[wid] = Weapon{
				ID:        wid,
				Name:      name,
				Abilities: w.Abilities,
				Stats: WeaponStats{
					Ammo:          intOr(w.Stats.Ammo, -1),
					BaseDamageMin: w.Stats.BaseDamageMin,
					BaseDamageMax: w.Stats.BaseDamageMax,
					BaseCritPct:   w.Stats.BaseCritPercent,
				},
			}
		}
	}

	return tpl, nil
}

func parseEncounter(id int, e rawEncounter) *Encounter {
	enc := &Encounter{
		ID:               id,
		Name:             e.Name,
		Level:            e.Level,
		LayoutID:         intOr(e.LayoutID, 2),
		IsPlayerAttacker: boolOr(e.IsPlayerAttacker, true),
	}
	if enc.Name == "" {
		enc.Name = fmt.Sprintf("encounter_%d", id)
	}
	if len(e.Units) > 0 {
		enc.Waves = append(enc.Waves, parseEncounterUnits(e.Units))
	}
	for _, wave := range e.Waves {
		enc.Waves = append(enc.Waves, parseEncounterUnits(wave))
	}
	enc.PlayerUnits = parseEncounterUnits(e.PlayerUnits)
	return enc
}

func parseEncounterUnits(raw []rawEncounterUnit) []EncounterUnit {
	out := make([]EncounterUnit, 0, len(raw))
	for _, u := range raw {
		out = append(out, EncounterUnit{
			GridID: u.GridID,
			UnitID: u.UnitID,
			Rank:   intOr(u.Rank, 1),
		})
	}
	return out
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
