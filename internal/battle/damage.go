package battle

// MinDamage 每次攻击的最低伤害，保证每回合双方生命值都严格下降
const MinDamage = 1

// Damage 攻击方对防御方造成的伤害：max(attack-defense, 1)
func Damage(attack, defense int) int {
	return max(attack-defense, MinDamage)
}
