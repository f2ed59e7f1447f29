package battle

// ResolveFirstActor 决定先手
//
// 速度相同时攻击力严格更高者先手，否则速度严格更高者先手。
// 速度和攻击力都相同时 b 先手。
func ResolveFirstActor(a, b Combatant) (first, second Combatant) {
	if a.Speed == b.Speed {
		if a.Attack > b.Attack {
			return a, b
		}
		return b, a
	}
	if a.Speed > b.Speed {
		return a, b
	}
	return b, a
}
