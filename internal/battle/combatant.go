// Package battle 两只怪物之间的对战结算。
//
// 纯计算：不做 I/O、没有包级可变状态，可被任意多个 goroutine 并发调用。
package battle

import "fmt"

// Combatant 单场对战使用的怪物属性快照
//
// 值类型：Simulate 在入口处复制双方，结算过程中的扣血不会影响调用方，也不会影响另一方。
type Combatant struct {
	ID      string `json:"id"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Speed   int    `json:"speed"`
	Health  int    `json:"health"`
}

// Validate 检查参战前置条件：ID 非空，所有属性非负
func (c Combatant) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidCombatant)
	}
	stats := []struct {
		name  string
		value int
	}{
		{"attack", c.Attack},
		{"defense", c.Defense},
		{"speed", c.Speed},
		{"health", c.Health},
	}
	for _, s := range stats {
		if s.value < 0 {
			return fmt.Errorf("%w: %s %s is negative (%d)", ErrInvalidCombatant, c.ID, s.name, s.value)
		}
	}
	return nil
}

// Alive 生命值大于 0
func (c Combatant) Alive() bool {
	return c.Health > 0
}

// Result 一场对战的结算结果
type Result struct {
	WinnerID     string `json:"winner_id"`
	FirstActorID string `json:"first_actor_id"`
	Rounds       int    `json:"rounds"`
}
