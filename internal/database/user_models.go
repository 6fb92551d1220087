// Package database 定义了用户相关的数据库模型
package database

import "time"

// User 用户账户模型
// 用户名唯一性由注册流程中的先查后插保证，数据库层面不加唯一约束
// 并发注册同名用户存在竞态窗口，属于已知的正确性缺口
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                       // 主键ID，自增
	Username     string    `gorm:"not null;size:100;index" json:"username"`    // 用户名
	PasswordHash string    `gorm:"not null;size:100;column:password" json:"-"` // bcrypt加盐哈希，明文永不落库
	CreatedAt    time.Time `json:"createdAt"`                                  // 注册时间
	UpdatedAt    time.Time `json:"updatedAt"`                                  // 记录最后更新时间
}

// TableName 指定User模型对应的数据库表名
func (User) TableName() string {
	return "users"
}
