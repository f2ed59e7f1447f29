package handler

import (
	"context"
	"encoding/json"
	"time"

	"battle-of-monsters/internal/modules/battle/service"
	"battle-of-monsters/internal/pkg/xerrors"
)

// BattleRPCHandler 对战 RPC 处理器
// 供其他 mqant 模块发起对战，载荷为 JSON
type BattleRPCHandler struct {
	battleService *service.BattleService
	timeout       time.Duration
}

// NewBattleRPCHandler 创建对战 RPC Handler
func NewBattleRPCHandler(serviceContainer *service.ServiceContainer) *BattleRPCHandler {
	return &BattleRPCHandler{
		battleService: serviceContainer.GetBattleService(),
		timeout:       5 * time.Second,
	}
}

// ==================== RPC Methods ====================

// ResolveBattle 结算一场对战
// 请求: {"monster_a": "...", "monster_b": "..."}，响应: BattleResponse
func (h *BattleRPCHandler) ResolveBattle(data []byte) ([]byte, error) {
	req := &service.CreateBattleInput{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, xerrors.NewValidationError("request", "invalid json payload")
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	record, err := h.battleService.CreateBattle(ctx, req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(toBattleResponse(record))
}
