package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Person 定义了作者/读者账号模型
type Person struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Bio       string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Follow links an observer to the person they follow.
type Follow struct {
	ObserverID uint `gorm:"primaryKey"`
	TargetID   uint `gorm:"primaryKey;index"`
	CreatedAt  time.Time
}

// EnsurePerson 存在性检查：若提供的用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的账号。
func EnsurePerson(gdb *gorm.DB, username, email, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	trimmedEmail := strings.TrimSpace(email)
	if trimmedEmail == "" {
		trimmedEmail = trimmedUser + "@conduit.local"
	}

	var existing Person
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := HashPassword(trimmedPassword)
		if err != nil {
			return err
		}

		return gdb.Create(&Person{Username: trimmedUser, Email: trimmedEmail, Password: hashed}).Error
	}

	return nil
}

// HashPassword returns the bcrypt hash stored in Person.Password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash.
func (p *Person) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password)) == nil
}

// TableName 指定自定义表名。
func (Person) TableName() string {
	return "persons"
}
