package entity

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

func TestMonster_ToCombatant(t *testing.T) {
	m := &Monster{ID: "m-1", Name: "Dragon", Attack: 50, Defense: 30, HP: 100, Speed: 40}

	c := m.ToCombatant()

	assert.Equal(t, "m-1", c.ID)
	assert.Equal(t, 50, c.Attack)
	assert.Equal(t, 30, c.Defense)
	assert.Equal(t, 40, c.Speed)
	assert.Equal(t, 100, c.Health)
}

func TestSoftDeleteFlags(t *testing.T) {
	m := &Monster{}
	assert.False(t, m.IsDeleted())
	m.DeletedAt = null.TimeFrom(time.Now())
	assert.True(t, m.IsDeleted())

	b := &Battle{}
	assert.False(t, b.IsDeleted())
}
