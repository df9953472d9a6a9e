package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrPermissionDenied - 403: 权限不足.
	ErrPermissionDenied
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
	// ErrRefreshTokenInvalid - 401: 刷新令牌无效.
	ErrRefreshTokenInvalid
)

// 访客相关错误码 (102xxx).
const (
	// ErrVisitorNotFound - 404: 访客不存在.
	ErrVisitorNotFound int = iota + 102000
	// ErrVisitorAlreadyExist - 400: 访客邮箱已被注册.
	ErrVisitorAlreadyExist
)

// 访问记录相关错误码 (103xxx).
const (
	// ErrVisitNotFound - 404: 访问记录不存在.
	ErrVisitNotFound int = iota + 103000
	// ErrQRInvalidFormat - 400: 二维码数据格式无效.
	ErrQRInvalidFormat
	// ErrVisitInvalidState - 400: 访问状态不允许该操作.
	ErrVisitInvalidState
	// ErrVisitExpired - 400: 二维码已过期.
	ErrVisitExpired
)

// 文档相关错误码 (104xxx).
const (
	// ErrDocumentNotFound - 404: 文档不存在.
	ErrDocumentNotFound int = iota + 104000
	// ErrDocumentFormatUnsupported - 400: 不支持的导出格式.
	ErrDocumentFormatUnsupported
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
