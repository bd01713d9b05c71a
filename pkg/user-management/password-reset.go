package usermanagement

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	jwthandling "github.com/legal-quotation/quotation-backend/pkg/jwt-handling"
	messagingTypes "github.com/legal-quotation/quotation-backend/pkg/messaging/types"
	"github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	umUtils "github.com/legal-quotation/quotation-backend/pkg/user-management/utils"
)

var ErrInvalidResetToken = types.NewError(types.KindValidation, "invalid or expired token", nil)

// PasswordResetFlow replaces credentials without the old secret (temporary
// credential or signed reset token) and handles self-service changes.
type PasswordResetFlow struct {
	store         AccountStore
	hasher        CredentialHasher
	gateway       NotificationGateway
	authenticator *Authenticator
	config        Config
}

func NewPasswordResetFlow(
	store AccountStore,
	hasher CredentialHasher,
	gateway NotificationGateway,
	authenticator *Authenticator,
	config Config,
) *PasswordResetFlow {
	return &PasswordResetFlow{
		store:         store,
		hasher:        hasher,
		gateway:       gateway,
		authenticator: authenticator,
		config:        config.WithDefaults(),
	}
}

// RequestReset sets a temporary credential for the account with the given email
// and sends it out of band. An unknown email is not an error. If the message
// cannot be delivered, the temporary credential stays active and a
// DeliveryFailed error is returned.
func (f *PasswordResetFlow) RequestReset(ctx context.Context, email string, now time.Time) error {
	email = umUtils.SanitizeEmail(email)
	account, err := f.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			slog.Info("password reset requested for unknown email", slog.String("email", umUtils.BlurEmailAddress(email)))
			return nil
		}
		return asServiceError(err)
	}

	tempSecret, err := umUtils.GenerateTemporaryCredential(f.config.TempCredentialLength)
	if err != nil {
		return asServiceError(err)
	}
	hash, err := f.hasher.Hash(tempSecret)
	if err != nil {
		return asServiceError(err)
	}
	if err := f.store.SetTemporaryCredential(ctx, account.ID.Hex(), hash, now); err != nil {
		return asServiceError(err)
	}

	err = f.gateway.Deliver(ctx, messagingTypes.Notification{
		Recipient:   messagingTypes.Recipient{Username: account.Username, Email: account.Email},
		MessageType: messagingTypes.MESSAGE_TYPE_TEMPORARY_PASSWORD,
		Subject:     "Password recovery",
		Payload: map[string]string{
			"temporaryPassword": tempSecret,
		},
	})
	if err != nil {
		slog.Error("temporary credential set but not delivered", slog.String("accountID", account.ID.Hex()), slog.String("error", err.Error()))
		return types.NewError(types.KindDeliveryFailed, "temporary password could not be delivered", err)
	}

	slog.Info("temporary credential issued", slog.String("accountID", account.ID.Hex()))
	return nil
}

// ChangeCredential replaces the credential after checking the current one. Failed
// checks here do not count towards the lockout.
func (f *PasswordResetFlow) ChangeCredential(ctx context.Context, accountID string, currentSecret string, newSecret string, now time.Time) error {
	if _, err := f.authenticator.VerifyCredential(ctx, accountID, currentSecret); err != nil {
		return err
	}
	if err := validateNewCredential(newSecret, f.config.BlockedPasswords); err != nil {
		return err
	}

	hash, err := f.hasher.Hash(newSecret)
	if err != nil {
		return asServiceError(err)
	}
	if err := f.store.SetCredential(ctx, accountID, hash, true, now); err != nil {
		return asServiceError(err)
	}
	slog.Info("credential changed", slog.String("accountID", accountID))
	return nil
}

// IssueResetToken sends a signed single-use reset token for the account. The
// token is bound to the current credential version and becomes invalid once the
// credential changes.
func (f *PasswordResetFlow) IssueResetToken(ctx context.Context, accountID string, now time.Time) error {
	account, err := f.store.FindByID(ctx, accountID)
	if err != nil {
		return asServiceError(err)
	}

	token, err := jwthandling.GenerateNewPasswordResetToken(
		account.ID.Hex(),
		account.CredentialVersion,
		now,
		f.config.PasswordResetTokenTTL,
		f.config.TokenSignKey,
	)
	if err != nil {
		return asServiceError(err)
	}

	payload := map[string]string{
		"token":         token,
		"validForHours": strconv.Itoa(int(f.config.PasswordResetTokenTTL.Hours())),
	}
	if f.config.PasswordResetLinkBase != "" {
		payload["resetLink"] = f.config.PasswordResetLinkBase + url.QueryEscape(token)
	}

	err = f.gateway.Deliver(ctx, messagingTypes.Notification{
		Recipient:   messagingTypes.Recipient{Username: account.Username, Email: account.Email},
		MessageType: messagingTypes.MESSAGE_TYPE_PASSWORD_RESET_LINK,
		Subject:     "Password reset",
		Payload:     payload,
	})
	if err != nil {
		return types.NewError(types.KindDeliveryFailed, "reset token could not be delivered", err)
	}
	slog.Info("password reset token issued", slog.String("accountID", accountID))
	return nil
}

// ResetWithToken sets a new credential for the account the token was issued for.
func (f *PasswordResetFlow) ResetWithToken(ctx context.Context, token string, newSecret string, now time.Time) error {
	claims, ok, err := jwthandling.ValidateAccountToken(token, jwthandling.TOKEN_PURPOSE_PASSWORD_RESET, f.config.TokenSignKey, now)
	if err != nil || !ok {
		return ErrInvalidResetToken
	}

	account, err := f.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return asServiceError(err)
	}
	if claims.CredentialVersion != account.CredentialVersion || !account.IsActive {
		slog.Warn("reset token used after credential change or on inactive account", slog.String("accountID", claims.Subject))
		return ErrInvalidResetToken
	}

	if err := validateNewCredential(newSecret, f.config.BlockedPasswords); err != nil {
		return err
	}
	hash, err := f.hasher.Hash(newSecret)
	if err != nil {
		return asServiceError(err)
	}
	// the write fails if another request used the token since the check above
	if err := f.store.SetCredentialIfVersion(ctx, claims.Subject, claims.CredentialVersion, hash, now); err != nil {
		if errors.Is(err, types.ErrConflict) || errors.Is(err, types.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return asServiceError(err)
	}
	slog.Info("credential reset with token", slog.String("accountID", claims.Subject))
	return nil
}
