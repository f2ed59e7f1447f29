package handler

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"battle-of-monsters/internal/entity"
	"battle-of-monsters/internal/modules/battle/service"
	"battle-of-monsters/internal/pkg/response"
	"battle-of-monsters/internal/pkg/xerrors"
)

const timeLayout = "2006-01-02 15:04:05"

// MonsterHandler 怪物 HTTP 处理器
type MonsterHandler struct {
	monsterService *service.MonsterService
	respWriter     response.Writer
	maxImportBytes int64
}

// NewMonsterHandler 创建怪物处理器
func NewMonsterHandler(serviceContainer *service.ServiceContainer, respWriter response.Writer, maxImportBytes int64) *MonsterHandler {
	return &MonsterHandler{
		monsterService: serviceContainer.GetMonsterService(),
		respWriter:     respWriter,
		maxImportBytes: maxImportBytes,
	}
}

// ==================== HTTP Request/Response Models ====================

// MonsterResponse 怪物信息
type MonsterResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Attack    int     `json:"attack"`
	Defense   int     `json:"defense"`
	HP        int     `json:"hp"`
	Speed     int     `json:"speed"`
	ImageURL  *string `json:"image_url,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// MonsterListResponse 怪物列表
type MonsterListResponse struct {
	List  []MonsterResponse `json:"list"`
	Total int64             `json:"total"`
}

// ==================== HTTP Handlers ====================

// ListMonsters 获取怪物列表
// @Summary 获取怪物列表
// @Description 分页查询怪物，支持按名称模糊搜索和排序
// @Tags 怪物
// @Accept json
// @Produce json
// @Param name query string false "怪物名称(模糊搜索)"
// @Param limit query int false "每页数量" default(20) minimum(1) maximum(100)
// @Param offset query int false "偏移量" default(0) minimum(0)
// @Param order_by query string false "排序字段" Enums(name, attack, defense, hp, speed, created_at) default(created_at)
// @Param order_desc query bool false "是否降序" default(false)
// @Success 200 {object} response.Response{data=MonsterListResponse} "查询成功"
// @Failure 500 {object} response.Response "服务器内部错误"
// @Router /monsters [get]
func (h *MonsterHandler) ListMonsters(c echo.Context) error {
	in := service.ListMonstersInput{
		Name:    c.QueryParam("name"),
		OrderBy: c.QueryParam("order_by"),
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
	if orderDesc := c.QueryParam("order_desc"); orderDesc != "" {
		if desc, err := strconv.ParseBool(orderDesc); err == nil {
			in.OrderDesc = desc
		}
	}

	page, err := h.monsterService.ListMonsters(c.Request().Context(), in)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}

	resp := MonsterListResponse{List: make([]MonsterResponse, 0, len(page.Items)), Total: page.Total}
	for _, m := range page.Items {
		resp.List = append(resp.List, toMonsterResponse(m))
	}
	return response.EchoOK(c, h.respWriter, resp)
}

// GetMonster 获取怪物详情
// @Summary 获取怪物详情
// @Tags 怪物
// @Produce json
// @Param id path string true "怪物ID"
// @Success 200 {object} response.Response{data=MonsterResponse} "获取成功"
// @Failure 404 {object} response.Response "怪物不存在(830001)"
// @Router /monsters/{id} [get]
func (h *MonsterHandler) GetMonster(c echo.Context) error {
	monster, err := h.monsterService.GetMonster(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, toMonsterResponse(monster))
}

// CreateMonster 创建怪物
// @Summary 创建怪物
// @Description 名称在未删除的怪物中唯一，攻防速不小于0，生命值不小于1
// @Tags 怪物
// @Accept json
// @Produce json
// @Param request body service.CreateMonsterInput true "怪物属性"
// @Success 200 {object} response.Response{data=MonsterResponse} "创建成功"
// @Failure 400 {object} response.Response "参数错误(100002)"
// @Failure 409 {object} response.Response "名称已存在(830007)"
// @Router /monsters [post]
func (h *MonsterHandler) CreateMonster(c echo.Context) error {
	var req service.CreateMonsterInput
	if err := c.Bind(&req); err != nil {
		return response.EchoBadRequest(c, h.respWriter, "请求格式错误")
	}

	monster, err := h.monsterService.CreateMonster(c.Request().Context(), &req)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, toMonsterResponse(monster))
}

// UpdateMonster 更新怪物
// @Summary 更新怪物
// @Description 只更新请求中出现的字段，image_url 传空字符串表示清除
// @Tags 怪物
// @Accept json
// @Produce json
// @Param id path string true "怪物ID"
// @Param request body service.UpdateMonsterInput true "要更新的字段"
// @Success 200 {object} response.Response{data=MonsterResponse} "更新成功"
// @Failure 400 {object} response.Response "参数错误(100002)"
// @Failure 404 {object} response.Response "怪物不存在(830001)"
// @Router /monsters/{id} [put]
func (h *MonsterHandler) UpdateMonster(c echo.Context) error {
	var req service.UpdateMonsterInput
	if err := c.Bind(&req); err != nil {
		return response.EchoBadRequest(c, h.respWriter, "请求格式错误")
	}

	monster, err := h.monsterService.UpdateMonster(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, toMonsterResponse(monster))
}

// DeleteMonster 删除怪物
// @Summary 删除怪物
// @Description 软删除，历史对战记录保留
// @Tags 怪物
// @Produce json
// @Param id path string true "怪物ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 404 {object} response.Response "怪物不存在(830001)"
// @Router /monsters/{id} [delete]
func (h *MonsterHandler) DeleteMonster(c echo.Context) error {
	if err := h.monsterService.DeleteMonster(c.Request().Context(), c.Param("id")); err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, response.EmptyData{})
}

// ImportMonsters CSV 批量导入怪物
// @Summary 导入怪物
// @Description 表头必须恰好为 name,attack,defense,hp,speed,imageUrl（不区分大小写，顺序不限）
// @Description 任一行不合法则整个文件被拒绝，不会写入任何怪物
// @Tags 怪物
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV 文件"
// @Success 200 {object} response.Response{data=MonsterListResponse} "导入成功"
// @Failure 400 {object} response.Response "列不合法(830004) / 行不合法(830005)"
// @Failure 409 {object} response.Response "名称已存在(830007)"
// @Router /monsters/import [post]
func (h *MonsterHandler) ImportMonsters(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.EchoError(c, h.respWriter, xerrors.NewValidationError("file", "缺少上传文件"))
	}
	if h.maxImportBytes > 0 && fileHeader.Size > h.maxImportBytes {
		return response.EchoError(c, h.respWriter,
			xerrors.NewValidationError("file", fmt.Sprintf("文件大小不能超过 %d 字节", h.maxImportBytes)))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.EchoError(c, h.respWriter, xerrors.NewValidationError("file", "无法读取上传文件"))
	}
	defer file.Close()

	monsters, err := h.monsterService.ImportMonsters(c.Request().Context(), file)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}

	resp := MonsterListResponse{List: make([]MonsterResponse, 0, len(monsters)), Total: int64(len(monsters))}
	for _, m := range monsters {
		resp.List = append(resp.List, toMonsterResponse(m))
	}
	return response.EchoOK(c, h.respWriter, resp)
}

func toMonsterResponse(m *entity.Monster) MonsterResponse {
	resp := MonsterResponse{
		ID:        m.ID,
		Name:      m.Name,
		Attack:    m.Attack,
		Defense:   m.Defense,
		HP:        m.HP,
		Speed:     m.Speed,
		CreatedAt: m.CreatedAt.Format(timeLayout),
		UpdatedAt: m.UpdatedAt.Format(timeLayout),
	}
	if !m.ImageURL.IsZero() {
		url := m.ImageURL.String
		resp.ImageURL = &url
	}
	return resp
}
