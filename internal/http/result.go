package httpapi

// Result response envelope shared with the admin frontend
// - code: 2000 success
// - type: 'success' | 'error' | 'warning'
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// TokenExpired: code=60401 + HTTP 401 so the frontend interceptor
	// redirects to login
	ResultTokenExpired = 60401
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

func TokenExpired(message string) Result[any] {
	return Result[any]{Code: ResultTokenExpired, Type: "error", Message: message, Result: nil}
}
