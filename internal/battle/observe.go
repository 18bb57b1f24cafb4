package battle

// Observation layout: a fixed-size vector for ML consumers. Eight unit
// slots per side with ten features each, then ten global slots.
const (
	maxObservedUnits = 8
	unitFeatures     = 10
	// StateVectorSize is the length of the vector StateVector returns.
	StateVectorSize = maxObservedUnits*unitFeatures*2 + 10
)

// StateVector flattens the battle into StateVectorSize float32s.
// Missing roster slots stay zero.
func (b *Battle) StateVector() []float32 {
	state := make([]float32, StateVectorSize)

	writeUnits := func(units []*Unit, base int) {
		for i, u := range units {
			if i >= maxObservedUnits {
				break
			}
			idx := base + i*unitFeatures
			state[idx] = float32(u.HPFraction())
			if u.Stats.ArmorHP > 0 {
				state[idx+1] = float32(u.Armor) / float32(u.Stats.ArmorHP)
			}
			state[idx+2] = float32(u.Pos.X) / 5
			state[idx+3] = float32(u.Pos.Y) / 3
			state[idx+4] = float32(u.Template.Class) / 15
			if u.Alive {
				state[idx+5] = 1
			}
			if u.CanAct() {
				state[idx+6] = 1
			}
			state[idx+7] = float32(len(u.AvailableWeapons())) / 2
			state[idx+8] = float32(u.GlobalCooldown) / 5
			state[idx+9] = float32(len(u.Effects)) / 3
		}
	}

	writeUnits(b.playerUnits, 0)
	writeUnits(b.enemyUnits, maxObservedUnits*unitFeatures)

	idx := maxObservedUnits * unitFeatures * 2
	state[idx] = float32(b.turn) / 50
	if b.playerTurn {
		state[idx+1] = 1
	}
	state[idx+2] = float32(livingCount(b.playerUnits)) / maxObservedUnits
	state[idx+3] = float32(livingCount(b.enemyUnits)) / maxObservedUnits
	state[idx+4] = hpFraction(b.playerUnits)
	state[idx+5] = hpFraction(b.enemyUnits)

	return state
}

func livingCount(units []*Unit) int {
	n := 0
	for _, u := range units {
		if u.Alive {
			n++
		}
	}
	return n
}

func hpFraction(units []*Unit) float32 {
	cur, max := 0, 0
	for _, u := range units {
		cur += u.HP
		max += u.Stats.HP
	}
	if max <= 0 {
		return 0
	}
	return float32(cur) / float32(max)
}
