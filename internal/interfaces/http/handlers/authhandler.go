package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexid/internal/application/account/usecases"
	"lexid/internal/shared/constants"
	apperrors "lexid/internal/shared/errors"
	"lexid/internal/shared/logger"
	"lexid/internal/shared/utils"
)

type AuthHandler struct {
	registerUseCase      registerUseCase
	loginUseCase         loginUseCase
	initiateOAuthUseCase initiateOAuthUseCase
	handleOAuthUseCase   handleOAuthCallbackUseCase
	refreshTokenUseCase  refreshTokenUseCase
	logoutUseCase        logoutUseCase
	getAccountUseCase    getAccountUseCase
	logger               logger.Interface
}

func NewAuthHandler(
	registerUC registerUseCase,
	loginUC loginUseCase,
	initiateOAuthUC initiateOAuthUseCase,
	handleOAuthUC handleOAuthCallbackUseCase,
	refreshTokenUC refreshTokenUseCase,
	logoutUC logoutUseCase,
	getAccountUC getAccountUseCase,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase:      registerUC,
		loginUseCase:         loginUC,
		initiateOAuthUseCase: initiateOAuthUC,
		handleOAuthUseCase:   handleOAuthUC,
		refreshTokenUseCase:  refreshTokenUC,
		logoutUseCase:        logoutUC,
		getAccountUseCase:    getAccountUC,
		logger:               logger,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// OAuthCallbackRequest covers both the GET query string and the POST
// body form of the provider callback
type OAuthCallbackRequest struct {
	Code  string `form:"code" json:"code"`
	State string `form:"state" json:"state"`
	Error string `form:"error" json:"error"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	cmd := usecases.RegisterCommand{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader(constants.HeaderUserAgent),
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		if apperrors.ShouldLogAuthError(err) && !apperrors.IsConflictError(err) && !apperrors.IsValidationError(err) {
			h.logger.Errorw("registration failed", "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "registration successful",
		newAuthResponse(result.Account, result.AccessToken, result.RefreshToken, result.ExpiresIn))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	cmd := usecases.LoginCommand{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader(constants.HeaderUserAgent),
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		if apperrors.ShouldLogAuthError(err) {
			h.logger.Errorw("login failed", "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful",
		newAuthResponse(result.Account, result.AccessToken, result.RefreshToken, result.ExpiresIn))
}

// OAuthLogin starts the authorization-code flow and hands the caller the
// provider URL to redirect the browser to.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	result, err := h.initiateOAuthUseCase.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to initiate oauth login", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"authorization_url": result.AuthorizationURL,
	})
}

// OAuthCallback completes the flow. All failures come back as 400 with a
// stable machine-readable reason code; provider error bodies are never
// echoed.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	var req OAuthCallbackRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondOAuthFailure(c, constants.OAuthErrorMissingCode)
		return
	}

	// the provider reports user denial and its own errors via the error param
	if req.Error != "" {
		code := constants.OAuthErrorServerError
		if req.Error == "access_denied" {
			code = constants.OAuthErrorAccessDenied
		}
		h.respondOAuthFailure(c, code)
		return
	}

	if req.Code == "" {
		h.respondOAuthFailure(c, constants.OAuthErrorMissingCode)
		return
	}
	if req.State == "" {
		h.respondOAuthFailure(c, constants.OAuthErrorMissingState)
		return
	}

	cmd := usecases.HandleOAuthCallbackCommand{
		Code:      req.Code,
		State:     req.State,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader(constants.HeaderUserAgent),
	}

	result, err := h.handleOAuthUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		if code, ok := oauthFailureCode(err); ok {
			h.respondOAuthFailure(c, code)
			return
		}
		h.logger.Errorw("oauth callback failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	status := http.StatusOK
	if result.IsNewAccount {
		status = http.StatusCreated
	}
	utils.SuccessResponse(c, status, "login successful",
		newAuthResponse(result.Account, result.AccessToken, result.RefreshToken, result.ExpiresIn))
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	cmd := usecases.RefreshTokenCommand{
		RefreshToken: req.RefreshToken,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.GetHeader(constants.HeaderUserAgent),
	}

	result, err := h.refreshTokenUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		if apperrors.ShouldLogAuthError(err) {
			h.logger.Errorw("token refresh failed", "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "token refreshed", AuthTokensResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout always answers 200; an invalid or missing token changes nothing
// server-side and the client discards its copy either way.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.logoutUseCase.Execute(c.Request.Context(), usecases.LogoutCommand{RefreshToken: req.RefreshToken}); err != nil {
		h.logger.Errorw("logout failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "logged out", nil)
}

// Me returns the account behind the verified access token.
func (h *AuthHandler) Me(c *gin.Context) {
	accountID, exists := c.Get(constants.ContextKeyAccountID)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	acc, err := h.getAccountUseCase.Execute(c.Request.Context(), accountID.(uint))
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			// token outlived the account
			utils.ErrorResponse(c, http.StatusUnauthorized, "account no longer active")
			return
		}
		h.logger.Errorw("failed to load account", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"account": newAccountResponse(acc)})
}

func (h *AuthHandler) respondOAuthFailure(c *gin.Context, code constants.OAuthErrorCode) {
	h.logger.Warnw("oauth callback rejected", "reason", string(code), "ip", c.ClientIP())
	c.JSON(http.StatusBadRequest, utils.APIResponse{
		Success: false,
		Error: &utils.ErrorInfo{
			Type:    string(code),
			Message: constants.GetOAuthErrorMessage(code),
		},
	})
}

// oauthFailureCode extracts the machine-readable callback reason from an
// error, when it carries one.
func oauthFailureCode(err error) (constants.OAuthErrorCode, bool) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return "", false
	}
	switch code := constants.OAuthErrorCode(appErr.Details); code {
	case constants.OAuthErrorInvalidState,
		constants.OAuthErrorExpiredState,
		constants.OAuthErrorExchangeFailed,
		constants.OAuthErrorUserInfoFailed:
		return code, true
	}
	return "", false
}
