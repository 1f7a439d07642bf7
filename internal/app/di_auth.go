package app

import (
	"context"
	"fmt"
	"time"

	authRepository "github.com/allisson/gatekeeper/internal/auth/repository"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	"github.com/allisson/gatekeeper/internal/database"
)

// jwtSecretDecryptTimeout bounds the KMS call made when the JWT secret is wrapped.
const jwtSecretDecryptTimeout = 30 * time.Second

// SaltedHasher returns the password hasher selected by configuration.
func (c *Container) SaltedHasher() (authService.SaltedHasher, error) {
	c.saltedHasherInit.Do(func() {
		var err error
		c.saltedHasher, err = authService.NewSaltedHasher(c.config.AuthPasswordHashAlgorithm)
		c.setInitError("saltedHasher", err)
	})
	if err := c.initError("saltedHasher"); err != nil {
		return nil, err
	}
	return c.saltedHasher, nil
}

// TokenService returns the API-key generation service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// KMSService returns the KMS service used to unwrap configured secrets.
func (c *Container) KMSService() authService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = authService.NewKMSService()
	})
	return c.kmsService
}

// CredentialExtractor returns the request credential extractor.
func (c *Container) CredentialExtractor() authService.CredentialExtractor {
	c.extractorInit.Do(func() {
		c.extractor = authService.NewCredentialExtractor(authService.ExtractorConfig{
			ClientUsername:   c.config.AuthClientUsername,
			OAuthPlaceholder: c.config.AuthOAuthPlaceholder,
			AccessTokenParam: c.config.AuthAccessTokenParam,
		})
	})
	return c.extractor
}

// JWTService returns the JWT service, or nil when no signing secret is configured.
func (c *Container) JWTService() (authService.JWTService, error) {
	c.jwtServiceInit.Do(func() {
		var err error
		c.jwtService, err = c.initJWTService()
		c.setInitError("jwtService", err)
	})
	if err := c.initError("jwtService"); err != nil {
		return nil, err
	}
	return c.jwtService, nil
}

// TokenRepository returns the API-key repository instance.
func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		var err error
		c.tokenRepo, err = c.initTokenRepository()
		c.setInitError("tokenRepo", err)
	})
	if err := c.initError("tokenRepo"); err != nil {
		return nil, err
	}
	return c.tokenRepo, nil
}

// TokenValidator returns the token validator chain (JWT then API key) behind the result cache.
func (c *Container) TokenValidator() (authUseCase.TokenValidator, error) {
	c.tokenValidatorInit.Do(func() {
		var err error
		c.tokenValidator, err = c.initTokenValidator()
		c.setInitError("tokenValidator", err)
	})
	if err := c.initError("tokenValidator"); err != nil {
		return nil, err
	}
	return c.tokenValidator, nil
}

// CredentialUseCase returns the credential use case instance.
func (c *Container) CredentialUseCase() (authUseCase.CredentialUseCase, error) {
	c.credentialUseCaseInit.Do(func() {
		var err error
		c.credentialUseCase, err = c.initCredentialUseCase()
		c.setInitError("credentialUseCase", err)
	})
	if err := c.initError("credentialUseCase"); err != nil {
		return nil, err
	}
	return c.credentialUseCase, nil
}

// TokenUseCase returns the token issuance use case instance.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		var err error
		c.tokenUseCase, err = c.initTokenUseCase()
		c.setInitError("tokenUseCase", err)
	})
	if err := c.initError("tokenUseCase"); err != nil {
		return nil, err
	}
	return c.tokenUseCase, nil
}

// initJWTService builds the JWT service, unwrapping the secret through KMS when
// a key URI is configured.
func (c *Container) initJWTService() (authService.JWTService, error) {
	secret := c.config.AuthJWTSecret
	if secret == "" {
		return nil, nil
	}

	if c.config.AuthJWTSecretKMSKeyURI != "" {
		ctx, cancel := context.WithTimeout(c.ctx, jwtSecretDecryptTimeout)
		defer cancel()

		plaintext, err := c.KMSService().DecryptSecret(ctx, c.config.AuthJWTSecretKMSKeyURI, secret)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt jwt secret: %w", err)
		}
		secret = plaintext
	}

	return authService.NewJWTService(authService.JWTConfig{
		Secret:   secret,
		Issuer:   c.config.AuthJWTIssuer,
		Audience: c.config.AuthJWTAudience,
		TTL:      c.config.AuthJWTExpiration,
	}), nil
}

// initTokenRepository selects the token repository matching the database driver.
func (c *Container) initTokenRepository() (authUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return authRepository.NewMySQLTokenRepository(db), nil
	case database.DriverPostgres:
		return authRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenValidator assembles the validator chain.
func (c *Container) initTokenValidator() (authUseCase.TokenValidator, error) {
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token validator: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for token validator: %w", err)
	}

	jwtService, err := c.JWTService()
	if err != nil {
		return nil, fmt.Errorf("failed to get jwt service for token validator: %w", err)
	}

	tokenService := c.TokenService()

	var validators []authUseCase.TokenValidator
	if jwtService != nil {
		validators = append(validators, authUseCase.NewJWTTokenValidator(jwtService))
	}
	validators = append(validators, authUseCase.NewAPIKeyTokenValidator(tokenRepo, userRepo, tokenService, c.Logger()))

	return authUseCase.NewCachedTokenValidator(
		authUseCase.NewChainTokenValidator(validators...),
		tokenService,
		c.config.AuthTokenCacheSize,
		c.config.AuthTokenCacheTTL,
	), nil
}

// initCredentialUseCase creates the credential use case, wrapped with metrics when enabled.
func (c *Container) initCredentialUseCase() (authUseCase.CredentialUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for credential use case: %w", err)
	}

	hasher, err := c.SaltedHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get salted hasher for credential use case: %w", err)
	}

	validator, err := c.TokenValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to get token validator for credential use case: %w", err)
	}

	baseUseCase := authUseCase.NewCredentialUseCase(userRepo, hasher, validator, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
		}
		return authUseCase.NewCredentialUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initTokenUseCase creates the token issuance use case, wrapped with metrics when enabled.
func (c *Container) initTokenUseCase() (authUseCase.TokenUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for token use case: %w", err)
	}

	jwtService, err := c.JWTService()
	if err != nil {
		return nil, fmt.Errorf("failed to get jwt service for token use case: %w", err)
	}

	baseUseCase := authUseCase.NewTokenUseCase(txManager, tokenRepo, userRepo, c.TokenService(), jwtService)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		return authUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
