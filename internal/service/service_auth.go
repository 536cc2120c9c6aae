package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/store"
	"github.com/MKhiriev/go-cert-flow/internal/utils"
	"github.com/MKhiriev/go-cert-flow/models"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// ResetAckMessage is returned for every well-formed password-reset request,
// whether or not the email belongs to an account.
const ResetAckMessage = "If an account exists with that email, a reset token has been generated."

// authService is the concrete implementation of AuthService.
// It handles registration, credential verification, session tokens and
// password resets using an AccountRepository for persistence.
type authService struct {
	// accountRepository is the data-access layer for credential records.
	accountRepository store.AccountRepository

	// resetTokenSender delivers issued reset tokens to their owners.
	resetTokenSender ResetTokenSender

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// passwordHashCost is the bcrypt cost for new password hashes.
	passwordHashCost int

	// resetTokenHashKey keys the HMAC digest under which reset tokens are
	// stored.
	resetTokenHashKey string

	resetTokenTTL    time.Duration
	exposeResetToken bool

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// AccountRepository and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(accountRepository store.AccountRepository, sender ResetTokenSender, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		accountRepository: accountRepository,
		resetTokenSender:  sender,
		tokenSignKey:      cfg.TokenSignKey,
		tokenIssuer:       cfg.TokenIssuer,
		tokenDuration:     cfg.TokenDuration,
		passwordHashCost:  cfg.PasswordHashCost,
		resetTokenHashKey: cfg.ResetTokenHashKey,
		resetTokenTTL:     cfg.ResetTokenTTL,
		exposeResetToken:  cfg.ExposeResetToken,
		now:               time.Now,
		logger:            logger,
	}
}

// Register creates a student account and issues a session token for it.
//
// Returns:
//   - ErrInvalidDataProvided if any field is blank.
//   - ErrPasswordTooShort if the password is shorter than MinPasswordLength.
//   - store.ErrEmailAlreadyExists / store.ErrRegNoAlreadyExists (wrapped) on
//     duplicates.
func (a *authService) Register(ctx context.Context, request models.RegisterRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	account := models.Account{
		Name:       strings.TrimSpace(request.Name),
		RegNo:      strings.TrimSpace(request.RegNo),
		Department: strings.TrimSpace(request.Department),
		Year:       strings.TrimSpace(request.Year),
		Semester:   strings.TrimSpace(request.Semester),
		Email:      normalizeEmail(request.Email),
		Role:       models.RoleStudent,
	}

	if account.Name == "" || account.RegNo == "" || account.Department == "" ||
		account.Year == "" || account.Semester == "" || account.Email == "" || request.Password == "" {
		return models.Token{}, ErrInvalidDataProvided
	}
	if utf8.RuneCountInString(request.Password) < MinPasswordLength {
		return models.Token{}, ErrPasswordTooShort
	}

	passwordHash, err := utils.HashPassword(request.Password, a.passwordHashCost)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("error hashing password")
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	account.PasswordHash = passwordHash

	created, err := a.accountRepository.CreateAccount(ctx, account)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Str("reg_no", account.RegNo).Msg("account creation ended with error")
		return models.Token{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	log.Info().Int64("account_id", created.AccountID).Msg("student registered")
	return a.createToken(created)
}

// Authenticate verifies credentials and issues a session token.
//
// A student logs in with a registration number, a reviewer ("admin" login
// type) with an email. Every mismatch is reported as ErrInvalidCredentials.
func (a *authService) Authenticate(ctx context.Context, request models.LoginRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	identifier := strings.TrimSpace(request.Identifier)
	if identifier == "" || request.Password == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	var (
		account models.Account
		err     error
	)
	switch request.LoginType {
	case models.LoginStudent, "":
		account, err = a.accountRepository.FindAccountByRegNo(ctx, identifier)
	case models.LoginReviewer:
		account, err = a.accountRepository.FindAccountByEmail(ctx, normalizeEmail(identifier))
	default:
		return models.Token{}, ErrInvalidDataProvided
	}

	if errors.Is(err, store.ErrAccountNotFound) {
		return models.Token{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.Authenticate").Msg("account lookup failed")
		return models.Token{}, fmt.Errorf("account lookup failed: %w", err)
	}

	if !loginKindAllows(request.LoginType, account.Role) {
		log.Warn().Int64("account_id", account.AccountID).Str("login_type", string(request.LoginType)).Msg("role does not match login type")
		return models.Token{}, ErrInvalidCredentials
	}

	if !utils.ComparePassword(account.PasswordHash, request.Password) {
		log.Warn().Int64("account_id", account.AccountID).Msg("wrong password")
		return models.Token{}, ErrInvalidCredentials
	}

	return a.createToken(account)
}

// ParseToken validates a raw session token. Any failure (expired, wrong
// issuer, bad signature, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Session, error) {
	session, err := utils.ValidateAndParseSessionToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("session token rejected")
		return models.Session{}, ErrTokenIsExpiredOrInvalid
	}

	return session, nil
}

// RequestPasswordReset issues a reset token for the account registered under
// email. The acknowledgement is identical whether or not such an account
// exists; the token is included only when the service is configured to
// expose it.
func (a *authService) RequestPasswordReset(ctx context.Context, email string) (models.PasswordResetAck, error) {
	log := logger.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" {
		return models.PasswordResetAck{}, ErrInvalidDataProvided
	}

	ack := models.PasswordResetAck{Message: ResetAckMessage}

	account, err := a.accountRepository.FindAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrAccountNotFound) {
		return ack, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.RequestPasswordReset").Msg("account lookup failed")
		return models.PasswordResetAck{}, fmt.Errorf("account lookup failed: %w", err)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		log.Err(err).Str("func", "*authService.RequestPasswordReset").Msg("error generating reset token")
		return models.PasswordResetAck{}, err
	}

	expiresAt := a.now().Add(a.resetTokenTTL)
	if err = a.accountRepository.SetResetToken(ctx, account.AccountID, utils.HashString(token, a.resetTokenHashKey), expiresAt); err != nil {
		log.Err(err).Str("func", "*authService.RequestPasswordReset").Int64("account_id", account.AccountID).Msg("error storing reset token")
		return models.PasswordResetAck{}, fmt.Errorf("error storing reset token: %w", err)
	}

	// a failed delivery must not change the response
	if err = a.resetTokenSender.SendResetToken(ctx, account, token, expiresAt); err != nil {
		log.Err(err).Str("func", "*authService.RequestPasswordReset").Int64("account_id", account.AccountID).Msg("error delivering reset token")
	}

	if a.exposeResetToken {
		ack.Token = &token
	}

	return ack, nil
}

// ConsumePasswordReset sets a new password for the account holding token,
// provided the token has not expired, and invalidates the token.
func (a *authService) ConsumePasswordReset(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return ErrInvalidDataProvided
	}
	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	passwordHash, err := utils.HashPassword(newPassword, a.passwordHashCost)
	if err != nil {
		log.Err(err).Str("func", "*authService.ConsumePasswordReset").Msg("error hashing password")
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	accountID, err := a.accountRepository.ConsumeResetToken(ctx, utils.HashString(token, a.resetTokenHashKey), passwordHash, a.now())
	if errors.Is(err, store.ErrResetTokenNotFound) {
		return ErrResetTokenInvalidOrExpired
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.ConsumePasswordReset").Msg("error consuming reset token")
		return fmt.Errorf("error consuming reset token: %w", err)
	}

	log.Info().Int64("account_id", accountID).Msg("password reset")
	return nil
}

// PurgeExpiredResetTokens clears reset tokens whose expiry has passed.
func (a *authService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	purged, err := a.accountRepository.PurgeExpiredResetTokens(ctx, a.now())
	if err != nil {
		return 0, fmt.Errorf("error purging reset tokens: %w", err)
	}
	return purged, nil
}

// EnsureReviewer creates the reviewer described by seed unless an account
// with the same role already exists. It reports whether an account was
// created.
func (a *authService) EnsureReviewer(ctx context.Context, seed models.ReviewerSeed) (bool, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(seed.Email)
	name := strings.TrimSpace(seed.Name)
	if !seed.Role.IsReviewer() || email == "" || name == "" || seed.Password == "" {
		return false, ErrInvalidDataProvided
	}

	exists, err := a.accountRepository.ExistsByRole(ctx, seed.Role)
	if err != nil {
		return false, fmt.Errorf("error checking reviewer: %w", err)
	}
	if exists {
		return false, nil
	}

	passwordHash, err := utils.HashPassword(seed.Password, a.passwordHashCost)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	_, err = a.accountRepository.CreateAccount(ctx, models.Account{
		Name:         name,
		Department:   strings.TrimSpace(seed.Department),
		Email:        email,
		Role:         seed.Role,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		log.Warn().Str("role", string(seed.Role)).Msg("reviewer email already taken, not seeding")
		return false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.EnsureReviewer").Str("role", string(seed.Role)).Msg("error creating reviewer")
		return false, fmt.Errorf("error creating reviewer: %w", err)
	}

	log.Info().Str("role", string(seed.Role)).Msg("reviewer account seeded")
	return true, nil
}

// createToken issues a signed JWT for account.
func (a *authService) createToken(account models.Account) (models.Token, error) {
	token, err := utils.GenerateSessionToken(a.tokenIssuer, account.Session(), a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

func loginKindAllows(kind models.LoginKind, role models.Role) bool {
	if kind == models.LoginReviewer {
		return role.IsReviewer()
	}
	return role == models.RoleStudent
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
