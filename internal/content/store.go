package content

// Store is the read-only content database backing battles. All maps are
// populated once by Load and never mutated afterwards, so a single Store
// may be shared by reference across concurrent battles.
type Store struct {
	units         map[int]*UnitTemplate
	abilities     map[int]*Ability
	statusEffects map[int]*StatusEffectTemplate
	layouts       map[int]*GridLayout
	encounters    map[int]*Encounter
	classMods     map[UnitClass]map[UnitClass]float64
	tags          *tagIndex
}

// GetUnit returns the unit template for id, or nil.
func (s *Store) GetUnit(id int) *UnitTemplate { return s.units[id] }

// GetAbility returns the ability for id, or nil.
func (s *Store) GetAbility(id int) *Ability { return s.abilities[id] }

// GetStatusEffect returns the status effect template for id, or nil.
func (s *Store) GetStatusEffect(id int) *StatusEffectTemplate {
	return s.statusEffects[id]
}

// GetLayout returns the grid layout for id, or nil.
func (s *Store) GetLayout(id int) *GridLayout { return s.layouts[id] }

// GetEncounter returns the encounter for id, or nil.
func (s *Store) GetEncounter(id int) *Encounter { return s.encounters[id] }

// UnitIDs lists all loaded unit template ids.
func (s *Store) UnitIDs() []int {
	ids := make([]int, 0, len(s.units))
	for id := range s.units {
		ids = append(ids, id)
	}
	return ids
}

// ClassDamageMod returns the attacker-class vs defender-class damage
// multiplier, 1.0 when the table has no entry.
func (s *Store) ClassDamageMod(attacker, defender UnitClass) float64 {
	if mods, ok := s.classMods[attacker]; ok {
		if m, ok := mods[defender]; ok {
			return m
		}
	}
	return 1.0
}

// ExpandTag returns the tag plus all its descendants in the hierarchy.
func (s *Store) ExpandTag(tag Tag) []Tag { return s.tags.expand(tag) }

// CanTarget reports whether an ability whose target list is abilityTargets
// may hit a unit carrying unitTags. An empty target list and the match-all
// tag both pass unconditionally.
func (s *Store) CanTarget(abilityTargets, unitTags []Tag) bool {
	return s.tags.canTarget(abilityTargets, unitTags)
}
