package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"battle-of-monsters/internal/entity"
	"battle-of-monsters/internal/repository/interfaces"
)

type fakeMonsterRepo struct {
	mu          sync.Mutex
	monsters    map[string]*entity.Monster
	getByIDs    int
	getByIDsErr error
	createErr   error
}

func newFakeMonsterRepo(monsters ...*entity.Monster) *fakeMonsterRepo {
	r := &fakeMonsterRepo{monsters: make(map[string]*entity.Monster)}
	for _, m := range monsters {
		r.monsters[m.ID] = m
	}
	return r
}

func (r *fakeMonsterRepo) GetByID(_ context.Context, monsterID string) (*entity.Monster, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.monsters[monsterID]
	if !ok || m.IsDeleted() {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrMonsterNotFound, monsterID)
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMonsterRepo) GetByIDs(_ context.Context, monsterIDs []string) (map[string]*entity.Monster, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getByIDs++
	if r.getByIDsErr != nil {
		return nil, r.getByIDsErr
	}
	found := make(map[string]*entity.Monster)
	for _, id := range monsterIDs {
		if m, ok := r.monsters[id]; ok && !m.IsDeleted() {
			clone := *m
			found[id] = &clone
		}
	}
	return found, nil
}

func (r *fakeMonsterRepo) List(_ context.Context, params interfaces.MonsterQueryParams) ([]*entity.Monster, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.Monster
	for _, m := range r.monsters {
		if m.IsDeleted() {
			continue
		}
		if params.Name != nil && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(*params.Name)) {
			continue
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	start := min(params.Offset, len(all))
	end := min(start+params.Limit, len(all))
	return all[start:end], total, nil
}

func (r *fakeMonsterRepo) Create(_ context.Context, monster *entity.Monster) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(monster)
}

func (r *fakeMonsterRepo) CreateBatch(_ context.Context, monsters []*entity.Monster) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	snapshot := make(map[string]*entity.Monster, len(r.monsters))
	for k, v := range r.monsters {
		snapshot[k] = v
	}
	for _, m := range monsters {
		if err := r.insertLocked(m); err != nil {
			r.monsters = snapshot
			return err
		}
	}
	return nil
}

func (r *fakeMonsterRepo) insertLocked(monster *entity.Monster) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.monsters {
		if !existing.IsDeleted() && strings.EqualFold(existing.Name, monster.Name) {
			return fmt.Errorf("%w: %s", interfaces.ErrMonsterNameConflict, monster.Name)
		}
	}
	if monster.ID == "" {
		monster.ID = uuid.New().String()
	}
	monster.CreatedAt = time.Now()
	monster.UpdatedAt = monster.CreatedAt
	clone := *monster
	r.monsters[monster.ID] = &clone
	return nil
}

func (r *fakeMonsterRepo) Update(_ context.Context, monster *entity.Monster) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.monsters[monster.ID]; !ok {
		return fmt.Errorf("%w: %s", interfaces.ErrMonsterNotFound, monster.ID)
	}
	clone := *monster
	r.monsters[monster.ID] = &clone
	return nil
}

func (r *fakeMonsterRepo) Delete(_ context.Context, monsterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.monsters[monsterID]
	if !ok || m.IsDeleted() {
		return fmt.Errorf("%w: %s", interfaces.ErrMonsterNotFound, monsterID)
	}
	m.DeletedAt.SetValid(time.Now())
	return nil
}

func (r *fakeMonsterRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.monsters)
}

type fakeBattleRepo struct {
	mu         sync.Mutex
	battles    map[string]*entity.Battle
	createErr  error
	purgeCalls []time.Time
	purged     int64
}

func newFakeBattleRepo() *fakeBattleRepo {
	return &fakeBattleRepo{battles: make(map[string]*entity.Battle)}
}

func (r *fakeBattleRepo) GetByID(_ context.Context, battleID string) (*entity.Battle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.battles[battleID]
	if !ok || b.IsDeleted() {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrBattleNotFound, battleID)
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBattleRepo) List(_ context.Context, params interfaces.BattleQueryParams) ([]*entity.Battle, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.Battle
	for _, b := range r.battles {
		if b.IsDeleted() {
			continue
		}
		if params.MonsterID != nil && b.MonsterA != *params.MonsterID && b.MonsterB != *params.MonsterID {
			continue
		}
		if params.WinnerID != nil && b.Winner != *params.WinnerID {
			continue
		}
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := min(params.Offset, len(all))
	end := min(start+params.Limit, len(all))
	return all[start:end], total, nil
}

func (r *fakeBattleRepo) Create(_ context.Context, battle *entity.Battle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if battle.ID == "" {
		battle.ID = uuid.New().String()
	}
	battle.CreatedAt = time.Now()
	clone := *battle
	r.battles[battle.ID] = &clone
	return nil
}

func (r *fakeBattleRepo) Delete(_ context.Context, battleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.battles[battleID]
	if !ok || b.IsDeleted() {
		return fmt.Errorf("%w: %s", interfaces.ErrBattleNotFound, battleID)
	}
	b.DeletedAt.SetValid(time.Now())
	return nil
}

func (r *fakeBattleRepo) PurgeDeletedBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeCalls = append(r.purgeCalls, before)
	return r.purged, nil
}

func (r *fakeBattleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.battles)
}

// recordingCache 记录调用的内存缓存，失效过的 ID 不再接受回填
type recordingCache struct {
	mu          sync.Mutex
	items       map[string]*entity.Monster
	fenced      map[string]bool
	hits        int
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{items: make(map[string]*entity.Monster), fenced: make(map[string]bool)}
}

func (c *recordingCache) Get(_ context.Context, monsterID string) (*entity.Monster, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.items[monsterID]
	if ok {
		c.hits++
	}
	return m, ok
}

func (c *recordingCache) Set(_ context.Context, monster *entity.Monster) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fenced[monster.ID] {
		return
	}
	c.items[monster.ID] = monster
}

func (c *recordingCache) Invalidate(_ context.Context, monsterIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range monsterIDs {
		delete(c.items, id)
		c.fenced[id] = true
	}
	c.invalidated = append(c.invalidated, monsterIDs...)
}

func testMonster(id, name string, attack, defense, hp, speed int) *entity.Monster {
	return &entity.Monster{ID: id, Name: name, Attack: attack, Defense: defense, HP: hp, Speed: speed}
}
