package domain

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Role 用户角色，封闭枚举避免散落的角色字符串比较
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleBuyer Role = "BUYER"
)

// ParseRole 解析角色字符串，大小写不敏感
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleBuyer):
		return RoleBuyer, nil
	default:
		return "", fmt.Errorf("invalid role: %s", s)
	}
}

type User struct {
	gorm.Model
	Username     string `gorm:"column:username;type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role         Role   `gorm:"column:role;type:varchar(20);not null" json:"role"`
}

func (User) TableName() string { return "users" }

func NewUser(username, passwordHash string, role Role) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
}
