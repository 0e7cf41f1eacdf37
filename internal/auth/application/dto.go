package application

// AuthResult 认证结果，作为注册/登录/校验接口的响应体
type AuthResult struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token,omitempty"`
	Message  string `json:"message"`
}
