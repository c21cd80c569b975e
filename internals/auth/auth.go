package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stockdraft/api-server/pkg/kvstore"
)

type AuthService struct {
	KV     kvstore.KVStore
	DB     *gorm.DB
	Secret []byte
}

func New(kv kvstore.KVStore, db *gorm.DB, secret string) *AuthService {
	return &AuthService{
		KV:     kv,
		DB:     db,
		Secret: []byte(secret),
	}
}

func sessionKey(userID int) string {
	return "session_token_" + fmt.Sprintf("%d", userID)
}

// Login verifies credentials and returns a fresh token, whitelisted in
// the KV store so it can be revoked before expiry.
func (a *AuthService) Login(loginDetails LoginRequestBody) (string, error) {
	var user Users
	err := a.DB.Table("users").Select("user_id, user_name, password_hash").Where("user_name = ?", loginDetails.UserName).First(&user).Error
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(loginDetails.Password)) != nil {
		return "", errors.New("invalid credentials")
	}

	token, err := a.GenerateToken(user.UserID)
	if err != nil {
		return "", err
	}

	// One list per user: multiple devices, multiple live tokens.
	err = a.KV.RPush(sessionKey(user.UserID), token)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (a *AuthService) GenerateToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	})

	return token.SignedString(a.Secret)
}

func (a *AuthService) ValidateToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID := int(claims["user_id"].(float64))
		return userID, nil
	}

	return 0, errors.New("invalid token")
}

func (a *AuthService) RevokeToken(userID int, tokenString string) error {
	tokens, err := a.KV.LRange(sessionKey(userID), 0, -1)
	if err != nil {
		return err
	}

	for _, t := range tokens {
		if t == tokenString {
			return a.KV.LRem(sessionKey(userID), 1, t)
		}
	}
	return nil
}

func (a *AuthService) CheckIfTokenIsWhiteListed(userID int, tokenString string) bool {
	tokens, err := a.KV.LRange(sessionKey(userID), 0, -1)
	if err != nil {
		return false
	}

	for _, t := range tokens {
		if t == tokenString {
			return true
		}
	}
	return false
}

func (a *AuthService) Logout(userID int, tokenString string) error {
	return a.RevokeToken(userID, tokenString)
}

func (a *AuthService) SignUp(signUpDetails SignUpRequestBody) error {
	if signUpDetails.UserName == "" || signUpDetails.MailID == "" || signUpDetails.Password == "" {
		return errors.New("user_name, mail_id and password are required")
	}

	var count int64
	err := a.DB.Table("users").Where("mail_id = ? OR user_name = ?", signUpDetails.MailID, signUpDetails.UserName).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(signUpDetails.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return a.DB.Table("users").Create(&Users{
		UserName:     signUpDetails.UserName,
		MailID:       signUpDetails.MailID,
		PasswordHash: string(hash),
	}).Error
}
