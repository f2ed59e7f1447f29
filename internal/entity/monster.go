package entity

import (
	"time"

	"battle-of-monsters/internal/battle"

	"github.com/aarondl/null/v8"
)

// Monster 怪物实体，对应 monsters 表
type Monster struct {
	ID        string      `boil:"id" json:"id"`
	Name      string      `boil:"name" json:"name"`
	Attack    int         `boil:"attack" json:"attack"`
	Defense   int         `boil:"defense" json:"defense"`
	HP        int         `boil:"hp" json:"hp"`
	Speed     int         `boil:"speed" json:"speed"`
	ImageURL  null.String `boil:"image_url" json:"image_url,omitempty"`
	CreatedAt time.Time   `boil:"created_at" json:"created_at"`
	UpdatedAt time.Time   `boil:"updated_at" json:"updated_at"`
	DeletedAt null.Time   `boil:"deleted_at" json:"deleted_at,omitempty"`
}

// MonsterTableName 表名
const MonsterTableName = "monsters"

// MonsterColumns 列名
var MonsterColumns = struct {
	ID        string
	Name      string
	Attack    string
	Defense   string
	HP        string
	Speed     string
	ImageURL  string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}{
	ID:        "id",
	Name:      "name",
	Attack:    "attack",
	Defense:   "defense",
	HP:        "hp",
	Speed:     "speed",
	ImageURL:  "image_url",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
	DeletedAt: "deleted_at",
}

// MonsterAllColumns 查询时选取的全部列，顺序与 INSERT 一致
var MonsterAllColumns = []string{"id", "name", "attack", "defense", "hp", "speed", "image_url", "created_at", "updated_at", "deleted_at"}

// IsDeleted 是否已软删除
func (m *Monster) IsDeleted() bool {
	return m.DeletedAt.Valid
}

// ToCombatant 生成参战快照，生命值取当前 HP
func (m *Monster) ToCombatant() battle.Combatant {
	return battle.Combatant{
		ID:      m.ID,
		Attack:  m.Attack,
		Defense: m.Defense,
		Speed:   m.Speed,
		Health:  m.HP,
	}
}
