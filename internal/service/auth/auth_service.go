// Package service 提供用户账户相关的业务逻辑服务
// 包含注册和登录校验两个核心功能
package service

import (
	stderrors "errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Snidon06/Playbase/internal/database"
	"github.com/Snidon06/Playbase/internal/errors"
	"github.com/Snidon06/Playbase/internal/logger"
)

// bcryptCost 密码哈希的固定代价因子
const bcryptCost = bcrypt.DefaultCost

// AuthService 账户服务接口
// 负责用户注册和凭证校验，登录不产生任何会话状态
type AuthService interface {
	// Register 注册新用户
	// 参数:
	//   username - 用户名，必填
	//   password - 明文密码，必填，仅做存在性校验
	// 返回:
	//   error - 用户名已存在时返回ErrDuplicateUsername，存储失败时返回存储错误
	// 功能:
	//   - 先查询用户名是否已存在（先查后插，数据库层面无唯一约束）
	//   - 使用bcrypt计算加盐哈希后落库，明文不持久化
	Register(username, password string) error

	// Authenticate 校验登录凭证
	// 参数:
	//   username - 用户名
	//   password - 明文密码
	// 返回:
	//   error - 用户不存在和密码错误返回同一个ErrInvalidCredentials，不泄露具体原因
	// 注意:
	//   - 校验成功没有任何副作用，不创建会话
	Authenticate(username, password string) error
}

// authService 账户服务实现
type authService struct {
	db *gorm.DB // 数据库连接
}

// NewAuthService 创建账户服务实例
func NewAuthService(db *gorm.DB) AuthService {
	return &authService{db: db}
}

// Register 注册新用户
func (s *authService) Register(username, password string) error {
	if username == "" || password == "" {
		return errors.ErrMissingCredentialsError
	}

	logger.Infof("开始注册用户: %s", username)

	// 检查用户名是否已存在
	// 先查后插存在并发竞态窗口：两个同名注册可能同时通过检查
	var count int64
	if err := s.db.Model(&database.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		logger.Errorf("查询用户名失败: %s, 错误: %v", username, err)
		return errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}
	if count > 0 {
		logger.Warnf("用户名已存在: %s", username)
		return errors.ErrDuplicateUsernameError
	}

	// 计算加盐哈希，明文永不落库
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		logger.Errorf("密码哈希计算失败: %v", err)
		return errors.Wrap(errors.ErrInternalServer, errors.GetErrorMessage(errors.ErrInternalServer), err)
	}

	user := &database.User{
		Username:     username,
		PasswordHash: string(hash),
	}

	if err := s.db.Create(user).Error; err != nil {
		logger.Errorf("用户入库失败: %s, 错误: %v", username, err)
		return errors.Wrap(errors.ErrDatabaseInsert, errors.GetErrorMessage(errors.ErrDatabaseInsert), err)
	}

	logger.Infof("用户注册成功: %s (ID: %d)", username, user.ID)
	return nil
}

// Authenticate 校验登录凭证
// 用户不存在与密码错误返回完全相同的错误，避免探测已注册用户名
func (s *authService) Authenticate(username, password string) error {
	if username == "" || password == "" {
		return errors.ErrMissingCredentialsError
	}

	logger.Infof("开始校验登录凭证: %s", username)

	// 最多取一条记录；若存储中出现重复用户名，取到哪条是未定义的
	var user database.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warnf("登录失败，用户不存在: %s", username)
			return errors.ErrInvalidCredentialsError
		}
		logger.Errorf("查询用户失败: %s, 错误: %v", username, err)
		return errors.Wrap(errors.ErrDatabaseQuery, errors.GetErrorMessage(errors.ErrDatabaseQuery), err)
	}

	// 单向哈希比对，绝不做明文比较
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warnf("登录失败，密码错误: %s", username)
		return errors.ErrInvalidCredentialsError
	}

	logger.Infof("登录校验成功: %s", username)
	return nil
}
