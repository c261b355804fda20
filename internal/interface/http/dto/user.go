package dto

// RegisterRequest HTTP层注册请求
// 密码强度、邮箱格式的业务规则在领域服务中校验,这里只校验必填
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	RepeatPassword  string `json:"repeat_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required,max=50"`
	LastName        string `json:"last_name" binding:"required,max=50"`
	ShippingAddress string `json:"shipping_address" binding:"max=255"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新Token请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
