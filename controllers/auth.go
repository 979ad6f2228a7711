package controllers

import (
	"EventManagement/collections"
	"EventManagement/configs"
	"EventManagement/database"
	"EventManagement/dto"
	"EventManagement/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	loginFailedTime     = 5 * time.Minute
	maxLoginFailedCount = 5
)

func Login(c *gin.Context) {
	var (
		loginRequest dto.LoginRequest
		ctx, cancel  = context.WithTimeout(context.Background(), 10*time.Second)
		redisClient  = database.GetRedisClient().Client
	)
	defer cancel()

	if err := c.ShouldBindJSON(&loginRequest); err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", utils.HandlerValidation(err))
		return
	}

	existedAccount := &collections.Account{}
	checkExisted := existedAccount.First(ctx, bson.M{
		"email": loginRequest.Email,
	})
	if checkExisted != nil {
		if errors.Is(checkExisted, mongo.ErrNoDocuments) {
			utils.ResponseError(c, http.StatusBadRequest, "Tài khoản đăng nhập hoặc mật khẩu không chính xác", nil)
			return
		}
		utils.ResponseError(c, http.StatusInternalServerError, "", checkExisted.Error())
		return
	}

	if !existedAccount.IsActive {
		utils.ResponseError(c, http.StatusForbidden, "Tài khoản của bạn đã bị vô hiệu hóa. Vui lòng liên hệ quản trị viên.", nil)
		return
	}

	// Đếm số lần đăng nhập sai theo IP + email để chặn brute force
	loginFailedPrefix := fmt.Sprintf("login_failed:%s:%s", c.ClientIP(), loginRequest.Email)
	if !utils.CheckPassword(existedAccount.Password, loginRequest.Password) {
		count, err := redisClient.Incr(ctx, loginFailedPrefix).Result()
		if err != nil {
			log.Println("Redis INCR error:", err)
			utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
			return
		}
		if count == 1 {
			if err := redisClient.Expire(ctx, loginFailedPrefix, loginFailedTime).Err(); err != nil {
				log.Println("Redis EXPIRE error:", err)
			}
		}
		if count > int64(maxLoginFailedCount) {
			utils.ResponseError(c, http.StatusTooManyRequests, "Đăng nhập sai quá nhiều lần, vui lòng thử lại sau.", nil)
			return
		}
		utils.ResponseError(c, http.StatusBadRequest, "Tài khoản đăng nhập hoặc mật khẩu không chính xác", nil)
		return
	}
	redisClient.Del(ctx, loginFailedPrefix)

	duration := configs.GetJWTAccessExp()
	token, _, err := utils.GenerateToken(existedAccount.ID.Hex(), existedAccount.Email, existedAccount.Roles, duration, utils.TokenTypeAccess)
	if err != nil {
		utils.ResponseError(c, http.StatusInternalServerError, "Lỗi tạo token!", err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "Đăng nhập thành công.", dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   duration,
		AccountID:   existedAccount.ID.Hex(),
		Name:        existedAccount.Name,
		Roles:       existedAccount.Roles,
	}, nil)
}

func Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", utils.HandlerValidation(err))
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	if role != "user" && role != "organizer" {
		utils.ResponseError(c, http.StatusBadRequest, "Role chỉ được là user hoặc organizer!", nil)
		return
	}

	existedAccount := &collections.Account{}
	checkExisted := existedAccount.First(c.Request.Context(), bson.M{"email": req.Email})
	if checkExisted == nil {
		utils.ResponseError(c, http.StatusConflict, "Email đã được sử dụng!", nil)
		return
	}
	if !errors.Is(checkExisted, mongo.ErrNoDocuments) {
		utils.ResponseError(c, http.StatusInternalServerError, "", checkExisted.Error())
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.ResponseError(c, http.StatusInternalServerError, "Lỗi mã hóa mật khẩu!", err.Error())
		return
	}

	now := time.Now()
	newAccount := &collections.Account{
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashed,
		Phone:     req.Phone,
		Roles:     []string{role},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := newAccount.Create(c.Request.Context()); err != nil {
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "Đăng ký tài khoản thành công.", newAccount, nil)
}

// Logout đưa access token hiện tại vào blacklist cho tới khi nó hết hạn.
func Logout(c *gin.Context) {
	var (
		redisClient = database.GetRedisClient().Client
	)

	authHeader := c.GetHeader("Authorization")
	authHeader = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if authHeader == "" {
		utils.ResponseError(c, http.StatusBadRequest, "Token không thấy!", nil)
		return
	}

	claims, err := utils.ExtractCustomClaims(authHeader)
	if err != nil {
		utils.ResponseError(c, http.StatusUnauthorized, "Token không hợp lệ!", err.Error())
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		utils.ResponseSuccess(c, http.StatusOK, "Đăng xuất thành công.", nil, nil)
		return
	}

	key := fmt.Sprintf("blacklist:accesstoken:%s", authHeader)
	if err := redisClient.Set(c.Request.Context(), key, "1", ttl).Err(); err != nil {
		utils.ResponseError(c, http.StatusInternalServerError, "Lỗi hệ thống redis blacklist!", err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "Đăng xuất thành công.", nil, nil)
}
