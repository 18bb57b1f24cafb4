package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"battlesim/internal/content"
)

func TestNewUnitInitializesAmmo(t *testing.T) {
	store := loadStore(t)
	u := NewUnit(store.GetUnit(3), 1, Position{}, content.SidePlayer)

	assert.Equal(t, 2, u.Ammo[3], "mortar capacity tracked")
	assert.NotContains(t, u.Ammo, 4, "unlimited weapons carry no ammo entry")
	assert.Equal(t, 100, u.HP)
	assert.True(t, u.Alive)
}

func TestHeal(t *testing.T) {
	u := statsUnit(content.UnitStats{HP: 100})
	u.HP = 60

	assert.Equal(t, 30, u.Heal(30))
	assert.Equal(t, 90, u.HP)
	assert.Equal(t, 10, u.Heal(50), "clamped at rank maximum")
	assert.Equal(t, 100, u.HP)
	assert.Equal(t, 0, u.Heal(-5))

	u.HP = 0
	u.Alive = false
	assert.Equal(t, 0, u.Heal(30), "the dead stay dead")
	assert.Equal(t, 0, u.HP)
}

func TestAvailableWeaponsGlobalCooldown(t *testing.T) {
	store := loadStore(t)
	u := NewUnit(store.GetUnit(1), 1, Position{}, content.SidePlayer)

	assert.Equal(t, []int{1, 2}, u.AvailableWeapons(), "sorted weapon ids")

	u.GlobalCooldown = 1
	assert.Empty(t, u.AvailableWeapons())

	u.TickCooldowns()
	assert.Equal(t, []int{1, 2}, u.AvailableWeapons())
}

func TestTickCooldownsStopsAtZero(t *testing.T) {
	u := statsUnit(content.UnitStats{HP: 100})
	u.WeaponCooldowns[1] = 2

	u.TickCooldowns()
	u.TickCooldowns()
	u.TickCooldowns()
	assert.Equal(t, 0, u.WeaponCooldowns[1])
	assert.Equal(t, 0, u.GlobalCooldown)
}
