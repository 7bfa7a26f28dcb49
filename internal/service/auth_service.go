package service

import (
	"errors"
	"strings"

	"github.com/recipebox/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrRegistrationFields = errors.New("username, email and password are required")
)

// AuthService 负责注册与凭证校验，密码使用 bcrypt 哈希存储。
type AuthService struct {
	db *gorm.DB
}

// RegisterInput 定义注册载荷
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// Register 创建新用户，邮箱唯一
func (s *AuthService) Register(input RegisterInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrRegistrationFields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{Username: username, Email: email, Password: string(hashed)}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate 校验邮箱与密码，成功返回用户。
// 无论邮箱不存在还是密码不符，都返回同一错误，不泄露差异。
func (s *AuthService) Authenticate(email, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("email = ?", strings.TrimSpace(strings.ToLower(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get 根据 ID 获取用户
func (s *AuthService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新用户名与（可选的）密码
func (s *AuthService) UpdateProfile(id uint, username, password string) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if trimmed := strings.TrimSpace(username); trimmed != "" {
		user.Username = trimmed
	}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureStaffUser 启动时保证存在一个后台账号，用户名/密码为空则跳过。
func EnsureStaffUser(gdb *gorm.DB, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil
	}

	var existing db.User
	err := gdb.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return gdb.Create(&db.User{Username: "admin", Email: email, Password: string(hashed), IsStaff: true}).Error
}
