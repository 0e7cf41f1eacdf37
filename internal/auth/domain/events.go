package domain

import "time"

const (
	UserRegisteredEventType = "user.registered"
	UserLoggedInEventType   = "user.logged_in"
)

// UserRegisteredEvent 用户注册事件
type UserRegisteredEvent struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// UserLoggedInEvent 用户登录事件
type UserLoggedInEvent struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}
