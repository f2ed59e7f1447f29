package battle

import "fmt"

// Simulate 结算 a 与 b 的对战
//
// 每回合双方都出手：先手方先造成伤害，后手方随后反击，即使后手方在本回合已被击倒。
// 回合结束后任一方生命值 <= 0 即停止。先手方存活则先手方胜，否则后手方胜，
// 因此同回合双方同时倒下时判后手方胜。任一方初始生命值为 0 时不进行回合，直接按同一规则判定。
func Simulate(a, b Combatant) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, fmt.Errorf("monster a: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Result{}, fmt.Errorf("monster b: %w", err)
	}

	first, second := ResolveFirstActor(a, b)
	rounds := 0
	for first.Alive() && second.Alive() {
		second.Health -= Damage(first.Attack, second.Defense)
		first.Health -= Damage(second.Attack, first.Defense)
		rounds++
	}

	winner := second
	if first.Alive() {
		winner = first
	}

	return Result{
		WinnerID:     winner.ID,
		FirstActorID: first.ID,
		Rounds:       rounds,
	}, nil
}

// Recorder 持久化结算结果的回调
type Recorder func(Result) error

// Resolve 结算并把结果交给 record 保存；结算失败时不会调用 record
func Resolve(a, b Combatant, record Recorder) (Result, error) {
	result, err := Simulate(a, b)
	if err != nil {
		return Result{}, err
	}
	if record != nil {
		if err := record(result); err != nil {
			return result, fmt.Errorf("record battle result: %w", err)
		}
	}
	return result, nil
}
