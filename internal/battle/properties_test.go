package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func drawCombatant(rt *rapid.T, id string) Combatant {
	return Combatant{
		ID:      id,
		Attack:  rapid.IntRange(0, 500).Draw(rt, id+"_attack"),
		Defense: rapid.IntRange(0, 500).Draw(rt, id+"_defense"),
		Speed:   rapid.IntRange(0, 50).Draw(rt, id+"_speed"),
		Health:  rapid.IntRange(0, 2000).Draw(rt, id+"_health"),
	}
}

func TestProperty_DamageFloor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		attack := rapid.IntRange(0, 10000).Draw(rt, "attack")
		defense := rapid.IntRange(0, 10000).Draw(rt, "defense")

		dmg := Damage(attack, defense)
		assert.GreaterOrEqual(rt, dmg, MinDamage)
		if attack <= defense {
			assert.Equal(rt, 1, dmg)
		} else {
			assert.Equal(rt, attack-defense, dmg)
		}
	})
}

func TestProperty_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := drawCombatant(rt, "a")
		b := drawCombatant(rt, "b")

		first, err := Simulate(a, b)
		require.NoError(rt, err)
		second, err := Simulate(a, b)
		require.NoError(rt, err)

		assert.Equal(rt, first, second)
	})
}

func TestProperty_TerminatesWithinHealthBound(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := drawCombatant(rt, "a")
		b := drawCombatant(rt, "b")

		result, err := Simulate(a, b)
		require.NoError(rt, err)

		// 每回合双方至少各掉 1 点血
		assert.LessOrEqual(rt, result.Rounds, min(a.Health, b.Health))
		assert.Contains(rt, []string{"a", "b"}, result.WinnerID)
	})
}

func TestProperty_WinnerMatchesSurvivalRule(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := drawCombatant(rt, "a")
		b := drawCombatant(rt, "b")

		result, err := Simulate(a, b)
		require.NoError(rt, err)

		first, second := ResolveFirstActor(a, b)
		assert.Equal(rt, first.ID, result.FirstActorID)

		// 独立重放：按回合扣血，检查先手存活判定
		for i := 0; i < result.Rounds; i++ {
			second.Health -= Damage(first.Attack, second.Defense)
			first.Health -= Damage(second.Attack, first.Defense)
		}
		if first.Health > 0 {
			assert.Equal(rt, first.ID, result.WinnerID)
		} else {
			assert.Equal(rt, second.ID, result.WinnerID)
		}
	})
}

func TestProperty_SpeedDominance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := drawCombatant(rt, "a")
		b := drawCombatant(rt, "b")
		b.Speed = a.Speed + rapid.IntRange(1, 50).Draw(rt, "speed_gap")

		first, _ := ResolveFirstActor(a, b)
		assert.Equal(rt, "b", first.ID)

		first, _ = ResolveFirstActor(b, a)
		assert.Equal(rt, "b", first.ID)
	})
}

func TestProperty_AttackBreaksSpeedTie(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := drawCombatant(rt, "a")
		b := drawCombatant(rt, "b")
		b.Speed = a.Speed
		a.Attack = b.Attack + rapid.IntRange(1, 100).Draw(rt, "attack_gap")

		first, second := ResolveFirstActor(a, b)
		assert.Equal(rt, "a", first.ID)
		assert.Equal(rt, "b", second.ID)
	})
}

func TestProperty_ArgumentOrderIrrelevantUnlessFullTie(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := drawCombatant(rt, "a")
		b := drawCombatant(rt, "b")
		if a.Speed == b.Speed && a.Attack == b.Attack {
			b.Attack++
		}

		ab, err := Simulate(a, b)
		require.NoError(rt, err)
		ba, err := Simulate(b, a)
		require.NoError(rt, err)

		assert.Equal(rt, ab, ba)
	})
}
