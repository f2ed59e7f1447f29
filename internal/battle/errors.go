package battle

import "errors"

// ErrInvalidCombatant 参战方不满足前置条件（ID 为空或属性为负）
var ErrInvalidCombatant = errors.New("invalid combatant")
