package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/bcrypt"
	jwtPkg "github.com/tinethkaveesha/Study-Planner-sub001/pkg/jwt"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/session"
	"github.com/tinethkaveesha/Study-Planner-sub001/pkg/utils"
)

// AuthService is the local development sign-in stub. It keeps one registered
// account and the current token in a session.Store, and signs tokens with the
// shared JWT secret. It is not a security boundary.
type AuthService struct {
	store     session.Store
	tokens    *jwtPkg.Manager
	validator *utils.Validator
	hasher    *bcrypt.Hasher
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(store session.Store, tokens *jwtPkg.Manager, validator *utils.Validator, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:     store,
		tokens:    tokens,
		validator: validator,
		hasher:    bcrypt.NewHasher(bcrypt.DefaultCost),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.Account, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	existing, err := s.account()
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Email == req.Email {
		return nil, ErrAccountExists
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		CreatedAt:    s.now().UTC(),
	}

	data, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("encode account: %w", err)
	}
	if err := s.store.Set(session.KeyAccount, string(data)); err != nil {
		return nil, err
	}
	// A token issued to the previous account must not outlive it.
	if err := s.store.Clear(session.KeySession); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", zap.String("user_id", account.ID))
	return account, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	account, err := s.account()
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if account.Email != req.Email {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatch) {
			return nil, fmt.Errorf("stored account: %w", err)
		}
		s.logger.Warn("login rejected", zap.String("user_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %w", err)
	}
	if err := s.store.Set(session.KeySession, token); err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:  token,
		UserID: account.ID,
		Email:  account.Email,
	}, nil
}

// Logout forgets the current token. The registered account is kept.
func (s *AuthService) Logout() error {
	return s.store.Clear(session.KeySession)
}

// Token returns the bearer credential of the signed-in user.
func (s *AuthService) Token() (string, error) {
	token, err := s.store.Get(session.KeySession)
	if errors.Is(err, session.ErrNotFound) {
		return "", ErrNotLoggedIn
	}
	return token, err
}

func (s *AuthService) account() (*models.Account, error) {
	raw, err := s.store.Get(session.KeyAccount)
	if err != nil {
		return nil, err
	}

	var account models.Account
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return nil, fmt.Errorf("decode stored account: %w", err)
	}
	return &account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
