package usermanagement

import (
	"context"
	"errors"
	"time"

	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/policies"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	umUtils "github.com/legal-quotation/quotation-backend/pkg/user-management/utils"
)

const (
	DEFAULT_ACCESS_TOKEN_TTL         = 30 * time.Minute
	DEFAULT_PASSWORD_RESET_TOKEN_TTL = time.Hour
)

// AccountStore persists accounts. Every method touching a single account must be
// atomic for that account. Missing accounts are reported as types.ErrNotFound,
// duplicates as types.ErrConflict.
type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*types.Account, error)
	FindByEmail(ctx context.Context, email string) (*types.Account, error)
	FindByID(ctx context.Context, id string) (*types.Account, error)
	Create(ctx context.Context, account types.NewAccount, now time.Time) (*types.Account, error)

	// RecordFailedAttempt applies lockout.OnFailure in one atomic step. It reports
	// types.ErrAccountLocked if the account is locked at now.
	RecordFailedAttempt(ctx context.Context, id string, lockout policies.LockoutPolicy, now time.Time) (*types.Account, error)
	RecordSuccess(ctx context.Context, id string, now time.Time) (*types.Account, error)

	SetCredential(ctx context.Context, id string, credentialHash string, clearPendingReset bool, now time.Time) error
	SetTemporaryCredential(ctx context.Context, id string, credentialHash string, now time.Time) error
	// SetCredentialIfVersion works like SetCredential with clearPendingReset, but only
	// while the stored credential version equals expectedVersion. Otherwise it
	// reports types.ErrConflict.
	SetCredentialIfVersion(ctx context.Context, id string, expectedVersion int64, credentialHash string, now time.Time) error

	UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (*types.Account, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page int64, limit int64) ([]types.Account, error)
	Count(ctx context.Context) (int64, error)
}

type CredentialHasher interface {
	Hash(secret string) (string, error)
	Verify(secret string, encodedHash string) (bool, error)
}

type NotificationGateway interface {
	Deliver(ctx context.Context, notification messagingTypes.Notification) error
}

// Config is built once at startup and passed to the services.
type Config struct {
	TokenSignKey          string
	AccessTokenTTL        time.Duration
	PasswordResetTokenTTL time.Duration
	// PasswordResetLinkBase, if set, is prefixed to reset tokens to build a link
	PasswordResetLinkBase string
	TempCredentialLength  int

	Lockout           policies.LockoutPolicy
	PasswordLifecycle policies.PasswordLifecyclePolicy
	BlockedPasswords  umUtils.PasswordBlocklist
}

func (c Config) WithDefaults() Config {
	if c.AccessTokenTTL <= 0 {
		c.AccessTokenTTL = DEFAULT_ACCESS_TOKEN_TTL
	}
	if c.PasswordResetTokenTTL <= 0 {
		c.PasswordResetTokenTTL = DEFAULT_PASSWORD_RESET_TOKEN_TTL
	}
	if c.TempCredentialLength < umUtils.TEMP_CREDENTIAL_MIN_LEN {
		c.TempCredentialLength = umUtils.TEMP_CREDENTIAL_MIN_LEN
	}
	c.Lockout = c.Lockout.WithDefaults()
	c.PasswordLifecycle = c.PasswordLifecycle.WithDefaults()
	return c
}

// UserManagement bundles the services working on the account store.
type UserManagement struct {
	Authenticator *Authenticator
	Sessions      *SessionIssuer
	PasswordReset *PasswordResetFlow
	Accounts      *AccountService
	Lifecycle     policies.PasswordLifecyclePolicy
}

func New(
	store AccountStore,
	hasher CredentialHasher,
	gateway NotificationGateway,
	config Config,
) (*UserManagement, error) {
	if store == nil || hasher == nil || gateway == nil {
		return nil, errors.New("account store, credential hasher and notification gateway are required")
	}
	if config.TokenSignKey == "" {
		return nil, errors.New("token sign key is required")
	}
	config = config.WithDefaults()

	authenticator := NewAuthenticator(store, hasher, config.Lockout)
	return &UserManagement{
		Authenticator: authenticator,
		Sessions:      NewSessionIssuer(store, config.TokenSignKey, config.AccessTokenTTL),
		PasswordReset: NewPasswordResetFlow(store, hasher, gateway, authenticator, config),
		Accounts:      NewAccountService(store, hasher, config.BlockedPasswords),
		Lifecycle:     config.PasswordLifecycle,
	}, nil
}

// NeedsReset tells the client to replace the credential, either because it is
// older than the max age or because it is a temporary one.
func (um *UserManagement) NeedsReset(account *types.Account, now time.Time) bool {
	return um.Lifecycle.NeedsReset(account.CredentialCreatedAt, account.PendingCredentialReset, now)
}

// asServiceError keeps errors of the taxonomy and wraps everything else as internal.
func asServiceError(err error) error {
	var e *types.Error
	if errors.As(err, &e) {
		return err
	}
	return types.NewError(types.KindInternal, "internal error", err)
}

func validateNewCredential(secret string, blocklist umUtils.PasswordBlocklist) error {
	if err := umUtils.ValidatePasswordStrength(secret); err != nil {
		return types.NewError(types.KindValidation, err.Error(), nil)
	}
	if blocklist.Contains(secret) {
		return types.NewError(types.KindValidation, "password is too common", nil)
	}
	return nil
}
