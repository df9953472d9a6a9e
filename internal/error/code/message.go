package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:          "成功",
	ErrUnknown:          "未知错误",
	ErrBind:             "请求参数绑定错误",
	ErrValidation:       "请求参数验证错误",
	ErrTokenInvalid:     "无效的认证令牌",
	ErrPermissionDenied: "权限不足",
	ErrTooManyRequests:  "请求频率过高",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",
	ErrRefreshTokenInvalid:   "无效的刷新令牌",

	// 访客相关错误码
	ErrVisitorNotFound:     "访客不存在",
	ErrVisitorAlreadyExist: "访客邮箱已被注册",

	// 访问记录相关错误码
	ErrVisitNotFound:     "访问记录不存在",
	ErrQRInvalidFormat:   "二维码数据格式无效",
	ErrVisitInvalidState: "访问状态不允许该操作",
	ErrVisitExpired:      "二维码已过期",

	// 文档相关错误码
	ErrDocumentNotFound:          "文档不存在",
	ErrDocumentFormatUnsupported: "不支持的导出格式",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrPermissionDenied: StatusForbidden,
	ErrTooManyRequests:  StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrRefreshTokenInvalid:   StatusUnauthorized,

	// 访客相关错误码
	ErrVisitorNotFound:     StatusNotFound,
	ErrVisitorAlreadyExist: StatusBadRequest,

	// 访问记录相关错误码
	ErrVisitNotFound:     StatusNotFound,
	ErrQRInvalidFormat:   StatusBadRequest,
	ErrVisitInvalidState: StatusBadRequest,
	ErrVisitExpired:      StatusBadRequest,

	// 文档相关错误码
	ErrDocumentNotFound:          StatusNotFound,
	ErrDocumentFormatUnsupported: StatusBadRequest,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
