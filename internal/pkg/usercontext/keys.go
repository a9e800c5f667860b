package usercontext

const (
	KeyUserContext   = "USER_CONTEXT"
	KeyFromProtected = "FROM_PROTECTED"
	KeyUserID        = "USER_ID"
	KeyUsername      = "USERNAME"
	KeyIsAdmin       = "IS_ADMIN"
)
