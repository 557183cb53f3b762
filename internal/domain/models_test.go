package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Тест проверки открытых мест в наборе ролей
func TestHasOpenRole(t *testing.T) {
	t.Run("Success_OneSlotFree", func(t *testing.T) {
		roles := []RoleSlot{
			{RoleName: "Backend Developer", NumberOfOpenings: 2, FilledPositions: 2},
			{RoleName: "Designer", NumberOfOpenings: 1, FilledPositions: 0},
		}
		assert.True(t, HasOpenRole(roles))
	})

	t.Run("AllRolesFull", func(t *testing.T) {
		roles := []RoleSlot{
			{RoleName: "Backend Developer", NumberOfOpenings: 2, FilledPositions: 2},
			{RoleName: "Designer", NumberOfOpenings: 1, FilledPositions: 1},
		}
		assert.False(t, HasOpenRole(roles))
	})

	t.Run("NoRoles", func(t *testing.T) {
		assert.False(t, HasOpenRole(nil))
	})
}
