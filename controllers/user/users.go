package userControllers

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/cart"
	"github.com/OwaisShaikh-8/Instant-Meal/controllers/respond"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type RegisterInput struct {
	Fullname        string `json:"fullname" form:"fullname"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	CompanyName     string `json:"companyName" form:"companyName"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Sessions signs tokens and hands them out as cookies.
type Sessions struct {
	Tokens *auth.Tokens
	Secure bool // send the cookie over HTTPS only
}

func (s Sessions) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, token, int(s.Tokens.TTL().Seconds()), "/", "", s.Secure, true)
}

func (s Sessions) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", s.Secure, true)
}

// signIn issues a token for u and answers with it and the public user.
func (s Sessions) signIn(c *gin.Context, status int, message string, u *models.User) {
	token, _, err := s.Tokens.IssueUser(u)
	if err != nil {
		respond.Error(c, err)
		return
	}
	s.setCookie(c, token)
	respond.OK(c, status, message, gin.H{"token": token, "user": u})
}

// -------- Core Logic --------

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (in *RegisterInput) normalize() {
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.CompanyName = strings.TrimSpace(in.CompanyName)
}

func (in RegisterInput) validate(role models.Role) error {
	if in.Fullname == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" ||
		(role == models.RoleVendor && in.CompanyName == "") {
		return apperr.Validation("All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		return apperr.Validation("Passwords do not match")
	}
	if len(in.Password) < 6 {
		return apperr.Validation("Password must be at least 6 characters")
	}
	if !emailPattern.MatchString(in.Email) {
		return apperr.Validation("Invalid email format")
	}
	return nil
}

// Register creates a customer or vendor account.
func Register(db *gorm.DB, in RegisterInput, role models.Role) (*models.User, error) {
	in.normalize()
	if err := in.validate(role); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict("Email already registered")
	}
	if role == models.RoleVendor {
		if err := db.Model(&models.User{}).
			Where("role = ? AND company_name = ?", models.RoleVendor, in.CompanyName).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperr.Conflict("Company name already registered")
		}
	}

	hash, err := auth.HashSecret(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Fullname:     in.Fullname,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if role == models.RoleVendor {
		user.CompanyName = in.CompanyName
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, err
	}

	log.Printf("👤 Registered %s %s", role, user.Email)
	return user, nil
}

// Authenticate checks an email and password pair.
func Authenticate(db *gorm.DB, in LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckSecret(user.PasswordHash, in.Password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return &user, nil
}

// -------- Handlers --------

func register(db *gorm.DB, s Sessions, role models.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in RegisterInput
		if err := c.ShouldBind(&in); err != nil {
			respond.Error(c, apperr.Validation("Invalid request body"))
			return
		}
		user, err := Register(db.WithContext(c.Request.Context()), in, role)
		if err != nil {
			respond.Error(c, err)
			return
		}
		s.signIn(c, http.StatusCreated, message, user)
	}
}

// POST /api/auth/customersignin
func RegisterCustomerHandler(db *gorm.DB, s Sessions) gin.HandlerFunc {
	return register(db, s, models.RoleCustomer, "Customer registered successfully")
}

// POST /api/auth/vendorsignin
func RegisterVendorHandler(db *gorm.DB, s Sessions) gin.HandlerFunc {
	return register(db, s, models.RoleVendor, "Vendor registered successfully")
}

// POST /api/auth/login
func LoginHandler(db *gorm.DB, s Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in LoginInput
		if err := c.ShouldBind(&in); err != nil {
			respond.Error(c, apperr.Validation("Invalid request body"))
			return
		}
		user, err := Authenticate(db.WithContext(c.Request.Context()), in)
		if err != nil {
			respond.Error(c, err)
			return
		}
		log.Printf("🔐 %s signed in", user.Email)
		s.signIn(c, http.StatusOK, "Login successful", user)
	}
}

// POST /api/auth/logout
//
// Works with or without a valid token; when one is present the user's
// carts are dropped too.
func LogoutHandler(s Sessions, carts cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := middleware.TokenFrom(c); raw != "" {
			if claims, err := s.Tokens.Parse(raw); err == nil && claims.StaffRole == "" {
				if err := carts.Reset(c.Request.Context(), claims.UserID); err != nil {
					log.Printf("⚠️ Failed to reset carts for %s: %v", claims.UserID, err)
				}
			}
		}
		s.clearCookie(c)
		respond.OK(c, http.StatusOK, "Logout successful", nil)
	}
}

// GET /api/auth/allusers (admin API key)
func GetAllUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		users := []models.User{}
		if err := db.WithContext(c.Request.Context()).Order("created_at desc").Find(&users).Error; err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Users fetched", gin.H{"count": len(users), "users": users})
	}
}

// GET /user/me
func GetMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		respond.OK(c, http.StatusOK, "User fetched", gin.H{"user": middleware.CurrentUser(c)})
	}
}
