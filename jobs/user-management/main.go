package main

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	usermanagement "github.com/legal-quotation/quotation-backend/pkg/user-management"
	umTypes "github.com/legal-quotation/quotation-backend/pkg/user-management/types"
	umUtils "github.com/legal-quotation/quotation-backend/pkg/user-management/utils"

	userAccountsDB "github.com/legal-quotation/quotation-backend/pkg/db/user-accounts"
)

func main() {
	slog.Info("Starting user management job")
	start := time.Now()
	defer func() {
		if err := userAccountsDBService.Close(context.Background()); err != nil {
			slog.Error("Error closing User Accounts DB connection", slog.String("error", err.Error()))
		}
	}()

	if conf.RunTasks.EnsureAdminAccount {
		ensureAdminAccount()
	}

	if conf.RunTasks.ResetAdminPassword {
		resetAdminPassword()
	}

	if conf.RunTasks.ClearExpiredLocks {
		clearExpiredLocks()
	}

	if conf.RunTasks.ReportExpiredCredentials {
		reportExpiredCredentials()
	}

	slog.Info("User management jobs completed", slog.Duration("duration", time.Since(start)))
}

func ensureAdminAccount() {
	slog.Debug("Start ensuring admin account", slog.String("username", conf.AdminAccount.Username))

	account, created, err := accountService.EnsureAdmin(context.Background(), usermanagement.RegisterRequest{
		Username: conf.AdminAccount.Username,
		Email:    conf.AdminAccount.Email,
		Secret:   conf.AdminAccount.Password,
	}, time.Now())
	if err != nil {
		slog.Error("Error ensuring admin account", slog.String("error", err.Error()))
		return
	}

	if !created {
		slog.Info("Admin account exists already", slog.String("accountID", account.ID.Hex()))
		return
	}
	slog.Info("Admin account created", slog.String("accountID", account.ID.Hex()))
}

func resetAdminPassword() {
	err := accountService.SetCredentialByUsername(context.Background(), conf.AdminAccount.Username, conf.AdminAccount.Password, time.Now())
	if err != nil {
		slog.Error("Error resetting admin password", slog.String("username", conf.AdminAccount.Username), slog.String("error", err.Error()))
		return
	}
	slog.Info("Admin password reset", slog.String("username", conf.AdminAccount.Username))
}

func clearExpiredLocks() {
	count, err := userAccountsDBService.ClearExpiredLocks(context.Background(), time.Now())
	if err != nil {
		slog.Error("Error clearing expired locks", slog.String("error", err.Error()))
		return
	}
	slog.Info("Clear expired locks finished", slog.Int("count", int(count)))
}

func reportExpiredCredentials() {
	now := time.Now()
	cutoff := now.Add(-passwordLifecycle.MaxAge)
	slog.Debug("Start reporting expired credentials", slog.Time("cutoff", cutoff))

	count := 0
	err := userAccountsDBService.FindAndExecuteOnAccounts(
		context.Background(),
		userAccountsDB.CredentialsOlderThanFilter(cutoff),
		bson.D{{Key: "credentialCreatedAt", Value: 1}},
		false,
		func(dbService *userAccountsDB.UserAccountsDBService, account umTypes.Account, args ...interface{}) error {
			count = count + 1
			slog.Info("Account with expired credential",
				slog.String("accountID", account.ID.Hex()),
				slog.String("username", account.Username),
				slog.String("email", umUtils.BlurEmailAddress(account.Email)),
				slog.Time("credentialCreatedAt", account.CredentialCreatedAt),
				slog.Bool("pendingCredentialReset", account.PendingCredentialReset),
			)
			return nil
		},
	)
	if err != nil {
		slog.Error("Error reporting expired credentials", slog.String("error", err.Error()))
		return
	}

	slog.Info("Report expired credentials finished", slog.Int("count", count))
}
