package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"battle-of-monsters/internal/entity"
	"battle-of-monsters/internal/modules/battle/service"
	"battle-of-monsters/internal/pkg/response"
)

// BattleHandler 对战 HTTP 处理器
type BattleHandler struct {
	battleService *service.BattleService
	respWriter    response.Writer
}

// NewBattleHandler 创建对战处理器
func NewBattleHandler(serviceContainer *service.ServiceContainer, respWriter response.Writer) *BattleHandler {
	return &BattleHandler{
		battleService: serviceContainer.GetBattleService(),
		respWriter:    respWriter,
	}
}

// BattleResponse 对战记录
type BattleResponse struct {
	ID         string `json:"id"`
	MonsterA   string `json:"monster_a"`
	MonsterB   string `json:"monster_b"`
	Winner     string `json:"winner"`
	FirstActor string `json:"first_actor"`
	Rounds     int    `json:"rounds"`
	CreatedAt  string `json:"created_at"`
}

// BattleListResponse 对战记录列表
type BattleListResponse struct {
	List  []BattleResponse `json:"list"`
	Total int64            `json:"total"`
}

// ListBattles 获取对战记录列表
// @Summary 获取对战记录列表
// @Description 按创建时间倒序分页返回
// @Tags 对战
// @Produce json
// @Param monster_id query string false "参战怪物ID(任一方)"
// @Param winner query string false "胜者ID"
// @Param limit query int false "每页数量" default(20) minimum(1) maximum(100)
// @Param offset query int false "偏移量" default(0) minimum(0)
// @Success 200 {object} response.Response{data=BattleListResponse} "查询成功"
// @Failure 500 {object} response.Response "服务器内部错误"
// @Router /battles [get]
func (h *BattleHandler) ListBattles(c echo.Context) error {
	in := service.ListBattlesInput{
		MonsterID: c.QueryParam("monster_id"),
		WinnerID:  c.QueryParam("winner"),
	}
	if limit := c.QueryParam("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			in.Limit = l
		}
	}
	if offset := c.QueryParam("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil && o >= 0 {
			in.Offset = o
		}
	}

	page, err := h.battleService.ListBattles(c.Request().Context(), in)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}

	resp := BattleListResponse{List: make([]BattleResponse, 0, len(page.Items)), Total: page.Total}
	for _, b := range page.Items {
		resp.List = append(resp.List, toBattleResponse(b))
	}
	return response.EchoOK(c, h.respWriter, resp)
}

// GetBattle 获取对战记录
// @Summary 获取对战记录详情
// @Tags 对战
// @Produce json
// @Param id path string true "对战ID"
// @Success 200 {object} response.Response{data=BattleResponse} "获取成功"
// @Failure 404 {object} response.Response "对战记录不存在(830002)"
// @Router /battles/{id} [get]
func (h *BattleHandler) GetBattle(c echo.Context) error {
	record, err := h.battleService.GetBattle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, toBattleResponse(record))
}

// CreateBattle 发起对战
// @Summary 发起对战
// @Description 速度高者先手，速度相同时攻击高者先手；每回合双方各出手一次，伤害为 max(攻击-防御, 1)
// @Description 同回合双方同时倒下时判后手方获胜
// @Tags 对战
// @Accept json
// @Produce json
// @Param request body service.CreateBattleInput true "参战双方"
// @Success 200 {object} response.Response{data=BattleResponse} "结算成功"
// @Failure 400 {object} response.Response "缺少怪物ID(830006) / 属性不合法(830003)"
// @Failure 404 {object} response.Response "怪物不存在(830001)"
// @Router /battles [post]
func (h *BattleHandler) CreateBattle(c echo.Context) error {
	var req service.CreateBattleInput
	if err := c.Bind(&req); err != nil {
		return response.EchoBadRequest(c, h.respWriter, "请求格式错误")
	}

	record, err := h.battleService.CreateBattle(c.Request().Context(), &req)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, toBattleResponse(record))
}

// DeleteBattle 删除对战记录
// @Summary 删除对战记录
// @Description 软删除，定时任务在保留期后物理删除
// @Tags 对战
// @Produce json
// @Param id path string true "对战ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 404 {object} response.Response "对战记录不存在(830002)"
// @Router /battles/{id} [delete]
func (h *BattleHandler) DeleteBattle(c echo.Context) error {
	if err := h.battleService.DeleteBattle(c.Request().Context(), c.Param("id")); err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, response.EmptyData{})
}

func toBattleResponse(b *entity.Battle) BattleResponse {
	return BattleResponse{
		ID:         b.ID,
		MonsterA:   b.MonsterA,
		MonsterB:   b.MonsterB,
		Winner:     b.Winner,
		FirstActor: b.FirstActor,
		Rounds:     b.Rounds,
		CreatedAt:  b.CreatedAt.Format(timeLayout),
	}
}
