package service

import (
	"database/sql"

	"battle-of-monsters/internal/pkg/log"
	"battle-of-monsters/internal/pkg/validator"
	"battle-of-monsters/internal/repository/impl"
	"battle-of-monsters/internal/repository/interfaces"
)

// ServiceContainer 对战模块服务容器 - 统一管理 Repository 和 Service
type ServiceContainer struct {
	monsterRepo interfaces.MonsterRepository
	battleRepo  interfaces.BattleRepository

	MonsterService *MonsterService
	BattleService  *BattleService
}

// NewServiceContainer 创建服务容器
// cache 可选，nil 时不缓存怪物
func NewServiceContainer(db *sql.DB, cache MonsterCache, logger log.Logger) *ServiceContainer {
	return NewServiceContainerWithRepos(impl.NewMonsterRepository(db), impl.NewBattleRepository(db), cache, logger)
}

// NewServiceContainerWithRepos 使用指定仓储创建容器（测试用）
func NewServiceContainerWithRepos(monsterRepo interfaces.MonsterRepository, battleRepo interfaces.BattleRepository, cache MonsterCache, logger log.Logger) *ServiceContainer {
	c := &ServiceContainer{
		monsterRepo: monsterRepo,
		battleRepo:  battleRepo,
	}

	c.MonsterService = NewMonsterService(c.monsterRepo, cache, validator.New(), logger)
	c.BattleService = NewBattleService(c.battleRepo, c.MonsterService, logger)
	return c
}

// GetMonsterService 获取怪物服务
func (c *ServiceContainer) GetMonsterService() *MonsterService {
	return c.MonsterService
}

// GetBattleService 获取对战服务
func (c *ServiceContainer) GetBattleService() *BattleService {
	return c.BattleService
}
