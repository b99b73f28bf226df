package auth

import (
	"errors"
	"time"

	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "jwt"

type Claims struct {
	UserID       string           `json:"user_id"`
	Email        string           `json:"email"`
	Role         models.Role      `json:"role"`
	StaffRole    models.StaffRole `json:"staff_role,omitempty"`
	RestaurantID string           `json:"restaurant_id,omitempty"`
	Caps         []Capability     `json:"caps,omitempty"`
	jwt.RegisteredClaims
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 20 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) TTL() time.Duration { return t.ttl }

func (t *Tokens) sign(claims Claims) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(t.ttl)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	claims.Subject = claims.UserID

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	return signed, exp, err
}

// IssueUser signs a login token. Vendors get every capability over their
// own restaurant; customers get none.
func (t *Tokens) IssueUser(u *models.User) (string, time.Time, error) {
	c := Claims{UserID: u.ID, Email: u.Email, Role: u.Role}
	if u.Role == models.RoleVendor {
		c.Caps = AllCapabilities
	}
	return t.sign(c)
}

// IssueStaff signs a token for someone who proved a staff role's secret.
// It acts for the owning vendor but only inside restaurantID and only with
// the role's capabilities.
func (t *Tokens) IssueStaff(owner *models.User, restaurantID string, role models.StaffRole) (string, time.Time, error) {
	return t.sign(Claims{
		UserID:       owner.ID,
		Email:        owner.Email,
		Role:         owner.Role,
		StaffRole:    role,
		RestaurantID: restaurantID,
		Caps:         CapabilitiesFor(role),
	})
}

var ErrInvalidToken = errors.New("invalid or expired token")

func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Claims) Principal() *Principal {
	caps := make([]Capability, len(c.Caps))
	copy(caps, c.Caps)
	return &Principal{
		UserID:       c.UserID,
		Email:        c.Email,
		Role:         c.Role,
		StaffRole:    c.StaffRole,
		RestaurantID: c.RestaurantID,
		Caps:         caps,
	}
}
