package entity

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Battle 对战记录实体，对应 battles 表
type Battle struct {
	ID         string    `boil:"id" json:"id"`
	MonsterA   string    `boil:"monster_a" json:"monster_a"`
	MonsterB   string    `boil:"monster_b" json:"monster_b"`
	Winner     string    `boil:"winner" json:"winner"`
	FirstActor string    `boil:"first_actor" json:"first_actor"`
	Rounds     int       `boil:"rounds" json:"rounds"`
	CreatedAt  time.Time `boil:"created_at" json:"created_at"`
	DeletedAt  null.Time `boil:"deleted_at" json:"deleted_at,omitempty"`
}

// BattleTableName 表名
const BattleTableName = "battles"

// BattleAllColumns 查询时选取的全部列
var BattleAllColumns = []string{"id", "monster_a", "monster_b", "winner", "first_actor", "rounds", "created_at", "deleted_at"}

// IsDeleted 是否已软删除
func (b *Battle) IsDeleted() bool {
	return b.DeletedAt.Valid
}
