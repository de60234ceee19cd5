package service

import (
	"context"
	"strings"

	"nutritrack/internal/models"
	"nutritrack/internal/observability"
	"nutritrack/internal/repository"
	"nutritrack/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// invalidCredentialsMessage answers both an unknown email and a wrong password.
const invalidCredentialsMessage = "Invalid email or password"

// TokenIssuer mints access tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type RegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Goal          string `json:"goal"`
	DailyCalories int    `json:"daily_calories"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User    *models.User
	Token   string
	Message string
	Login   *LoginResult
}

type AuthService struct {
	store      repository.Store
	streaks    *StreakService
	tokens     TokenIssuer
	bcryptCost int
	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(store repository.Store, streaks *StreakService, tokens TokenIssuer) *AuthService {
	return newAuthService(store, streaks, tokens, bcrypt.DefaultCost)
}

func newAuthService(store repository.Store, streaks *StreakService, tokens TokenIssuer, cost int) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("nutritrack-dummy-password"), cost)
	return &AuthService{
		store:      store,
		streaks:    streaks,
		tokens:     tokens,
		bcryptCost: cost,
		dummyHash:  dummy,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	goal := models.GoalMaintenance
	if in.Goal != "" {
		g, ok := models.ParseGoal(in.Goal)
		if !ok {
			return nil, models.NewValidationError("goal must be one of weight_loss, muscle_gain, maintenance")
		}
		goal = g
	}
	calories := in.DailyCalories
	if calories < 0 {
		return nil, models.NewValidationError("daily_calories must be positive")
	}
	if calories == 0 {
		calories = models.DefaultDailyCalories
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user := &models.User{
		Name:          name,
		Email:         email,
		Password:      string(hash),
		Goal:          goal,
		DailyCalories: calories,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, Message: "Account created successfully"}, nil
}

// Login checks credentials, records the day's login and issues a token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		observability.Logins.WithLabelValues(observability.LoginBadRequest).Inc()
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		observability.Logins.WithLabelValues(observability.LoginError).Inc()
		return nil, err
	}
	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.Password)
	}
	if cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)); cmpErr != nil || user == nil {
		observability.Logins.WithLabelValues(observability.LoginUnauthorized).Inc()
		return nil, models.NewUnauthorizedError(invalidCredentialsMessage)
	}

	login, err := s.streaks.RecordLogin(ctx, user.ID, s.streaks.Today())
	if err != nil {
		observability.Logins.WithLabelValues(observability.LoginError).Inc()
		return nil, err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		observability.Logins.WithLabelValues(observability.LoginError).Inc()
		return nil, models.NewInternalError(err)
	}

	outcome := observability.LoginSuccess
	if !login.Changed {
		outcome = observability.LoginRepeat
	}
	observability.Logins.WithLabelValues(outcome).Inc()
	return &AuthResult{User: login.User, Token: token, Message: login.Message, Login: login}, nil
}

// Me returns the user a token was issued for.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewUnauthorizedError("User no longer exists")
		}
		return nil, err
	}
	return user, nil
}
