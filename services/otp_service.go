package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"servicehub-server/config"
)

// OTPService issues and verifies one-time login codes. Codes live in
// Redis with a TTL so the server stays stateless and horizontally
// scalable; nothing about a pending login is held in process memory.
type OTPService struct {
	rdb *redis.Client
}

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.Redis.Addr,
			Password: config.AppConfig.Redis.Password,
			DB:       config.AppConfig.Redis.DB,
		})
	})
	return redisClient
}

// NewOTPService creates a new OTP service
func NewOTPService() *OTPService {
	return &OTPService{rdb: getRedisClient()}
}

func otpKey(phoneNumber string) string {
	return "servicehub:otp:" + phoneNumber
}

// Issue generates a 6-digit code for the phone number and stores it
// with the configured TTL, replacing any previous pending code.
func (s *OTPService) Issue(ctx context.Context, phoneNumber string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	ttl := time.Duration(config.AppConfig.OTP.TTLSeconds) * time.Second
	if err := s.rdb.Set(ctx, otpKey(phoneNumber), code, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store OTP: %w", err)
	}

	// Delivery (SMS) is handled by an external provider; the code is
	// logged here for development environments only.
	if config.AppConfig.Server.GinMode != "release" {
		log.Printf("📱 OTP for %s: %s", phoneNumber, code)
	}
	return code, nil
}

// Verify checks the submitted code against the stored one and consumes
// it on success so a code can only be used once.
func (s *OTPService) Verify(ctx context.Context, phoneNumber, code string) (bool, error) {
	stored, err := s.rdb.Get(ctx, otpKey(phoneNumber)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load OTP: %w", err)
	}
	if stored != code {
		return false, nil
	}
	if err := s.rdb.Del(ctx, otpKey(phoneNumber)).Err(); err != nil {
		log.Printf("⚠️ Failed to consume OTP for %s: %v", phoneNumber, err)
	}
	return true, nil
}
