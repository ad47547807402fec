package ordertoken

import (
	"errors"
	"sync"
	"time"

	"marlex/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// 顾客点餐流程使用的订单跟踪令牌。下单后签发给顾客，
// 凭此令牌查询订单状态，与后台员工的会话认证完全独立。

// Claims 订单令牌声明
type Claims struct {
	OrderID      uint   `json:"order_id"`
	RestaurantID uint   `json:"restaurant_id"`
	OrderNumber  string `json:"order_number"`
	jwt.RegisteredClaims
}

// Manager 订单令牌管理器
type Manager struct {
	secretKey []byte
	ttl       time.Duration
}

// NewManager 创建订单令牌管理器
func NewManager(secretKey string, ttl time.Duration) *Manager {
	return &Manager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
	}
}

// Generate 为订单签发跟踪令牌
func (m *Manager) Generate(orderID, restaurantID uint, orderNumber string) (string, error) {
	now := time.Now()
	claims := Claims{
		OrderID:      orderID,
		RestaurantID: restaurantID,
		OrderNumber:  orderNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "Marlex",
			Subject:   orderNumber,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify 验证订单令牌
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// 验证签名方法
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("意外的签名方法")
			}
			return m.secretKey, nil
		},
	)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("无法解析令牌声明")
	}

	return claims, nil
}

// GetTTL 获取令牌有效期
func (m *Manager) GetTTL() time.Duration {
	return m.ttl
}

// 单例实现
var (
	defaultManager *Manager
	once           sync.Once
)

// GetManager 获取全局订单令牌管理器实例
func GetManager() *Manager {
	once.Do(func() {
		cfg := config.GetConfig()
		defaultManager = NewManager(cfg.OrderToken.SecretKey, cfg.OrderToken.TTL)
	})
	return defaultManager
}
