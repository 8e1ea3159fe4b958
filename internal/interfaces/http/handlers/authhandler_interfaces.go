package handlers

import (
	"context"

	"lexid/internal/application/account/usecases"
	"lexid/internal/domain/account"
)

// Use case interfaces for AuthHandler - enables unit testing with mocks.

type registerUseCase interface {
	Execute(ctx context.Context, cmd usecases.RegisterCommand) (*usecases.RegisterResult, error)
}

type loginUseCase interface {
	Execute(ctx context.Context, cmd usecases.LoginCommand) (*usecases.LoginResult, error)
}

type initiateOAuthUseCase interface {
	Execute(ctx context.Context) (*usecases.InitiateOAuthLoginResult, error)
}

type handleOAuthCallbackUseCase interface {
	Execute(ctx context.Context, cmd usecases.HandleOAuthCallbackCommand) (*usecases.HandleOAuthCallbackResult, error)
}

type refreshTokenUseCase interface {
	Execute(ctx context.Context, cmd usecases.RefreshTokenCommand) (*usecases.RefreshTokenResult, error)
}

type logoutUseCase interface {
	Execute(ctx context.Context, cmd usecases.LogoutCommand) error
}

type getAccountUseCase interface {
	Execute(ctx context.Context, accountID uint) (*account.Account, error)
}
