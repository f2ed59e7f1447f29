// File: internal/pkg/i18n/error_messages.go
package i18n

import (
	"battle-of-monsters/internal/pkg/xerrors"

	"golang.org/x/text/language"
)

// ErrorMessages 错误消息的多语言映射
var ErrorMessages = map[xerrors.ErrorCode]map[language.Tag]string{
	// 1xxxxx: 通用错误码
	xerrors.CodeSuccess:           {language.Chinese: "操作成功", language.English: "Operation successful"},
	xerrors.CodeInternalError:     {language.Chinese: "内部服务错误", language.English: "Internal server error"},
	xerrors.CodeInvalidParams:     {language.Chinese: "参数错误", language.English: "Invalid parameters"},
	xerrors.CodeInvalidRequest:    {language.Chinese: "请求格式错误", language.English: "Invalid request format"},
	xerrors.CodeResourceNotFound:  {language.Chinese: "资源不存在", language.English: "Resource not found"},
	xerrors.CodeDuplicateResource: {language.Chinese: "资源已存在", language.English: "Resource already exists"},
	xerrors.CodeRateLimitExceeded: {language.Chinese: "请求频率限制", language.English: "Rate limit exceeded"},

	// 6xxxxx: 业务逻辑错误码
	xerrors.CodeBusinessLogicError:  {language.Chinese: "业务逻辑错误", language.English: "Business logic error"},
	xerrors.CodeDataIntegrityError:  {language.Chinese: "数据完整性错误", language.English: "Data integrity error"},
	xerrors.CodeOperationNotAllowed: {language.Chinese: "操作不被允许", language.English: "Operation not allowed"},

	// 7xxxxx: 外部服务错误码
	xerrors.CodeExternalServiceError: {language.Chinese: "外部服务错误", language.English: "External service error"},
	xerrors.CodeDatabaseError:        {language.Chinese: "数据库错误", language.English: "Database error"},
	xerrors.CodeCacheError:           {language.Chinese: "缓存服务错误", language.English: "Cache service error"},
	xerrors.CodeMessageQueueError:    {language.Chinese: "消息队列错误", language.English: "Message queue error"},

	// 83xxxx: 怪物与对战
	xerrors.CodeMonsterNotFound:    {language.Chinese: "怪物不存在", language.English: "Monster not found"},
	xerrors.CodeBattleNotFound:     {language.Chinese: "对战记录不存在", language.English: "Battle not found"},
	xerrors.CodeInvalidCombatant:   {language.Chinese: "参战怪物属性无效", language.English: "Invalid combatant"},
	xerrors.CodeCSVInvalidColumn:   {language.Chinese: "CSV 列不合法", language.English: "Wrong data mapping"},
	xerrors.CodeCSVInvalidRow:      {language.Chinese: "CSV 行数据不合法", language.English: "Invalid CSV row"},
	xerrors.CodeMissingCombatantID: {language.Chinese: "缺少参战怪物 ID", language.English: "Missing ID"},
	xerrors.CodeMonsterNameExists:  {language.Chinese: "怪物名称已存在", language.English: "Monster name already exists"},
}

// GetErrorMessage 获取错误码对应语言的消息
func GetErrorMessage(code xerrors.ErrorCode, lang language.Tag) string {
	if messages, ok := ErrorMessages[code]; ok {
		if msg, ok := messages[lang]; ok {
			return msg
		}
		// 如果指定语言没有翻译，返回中文（默认）
		if msg, ok := messages[language.Chinese]; ok {
			return msg
		}
	}
	if lang == language.English {
		return "Unknown error"
	}
	return "未知错误"
}
