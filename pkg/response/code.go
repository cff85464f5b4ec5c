package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists   = 10001
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005
	ErrUserBanned   = 10006

	// 论坛模块错误 200xx
	ErrTopicNotFound   = 20001
	ErrCommentNotFound = 20002
	ErrContentInvalid  = 20003

	// 投票/声望模块错误 300xx
	ErrVoteTargetInvalid = 30001
	ErrVoteTypeInvalid   = 30002
	ErrVoteTargetMissing = 30003
	ErrBadgeNotFound     = 30004

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
