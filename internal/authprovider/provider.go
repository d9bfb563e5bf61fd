// Package authprovider выполняет вход через внешнего OpenID Connect провайдера
// и выводит адрес кошелька пользователя из его идентификатора.
package authprovider

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/crypto/sha3"
	"golang.org/x/oauth2"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

var (
	// ErrNoIDToken провайдер не вернул id_token.
	ErrNoIDToken = errors.New("no id_token in response")
	// ErrNonceMismatch nonce в ID-токене не совпадает с ожидаемым.
	ErrNonceMismatch = errors.New("invalid nonce")
	// ErrNoEmail у аккаунта нет подтверждённого email.
	ErrNoEmail = errors.New("account has no verified email")
)

// Provider оборачивает OAuth2-конфигурацию и проверку ID-токенов.
type Provider struct {
	issuer   string
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// New получает метаданные провайдера по issuer URL.
func New(ctx context.Context, cfg config.OIDC) (*Provider, error) {
	const op = "authprovider.New"

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	return newProvider(cfg.IssuerURL, oauthCfg, verifier), nil
}

func newProvider(issuer string, oauthCfg *oauth2.Config, verifier *oidc.IDTokenVerifier) *Provider {
	return &Provider{
		issuer:   issuer,
		oauth:    oauthCfg,
		verifier: verifier,
	}
}

// AuthCodeURL возвращает адрес страницы входа провайдера.
func (p *Provider) AuthCodeURL(state, nonce string) string {
	return p.oauth.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
		oauth2.SetAuthURLParam("nonce", nonce),
	)
}

// Authenticate обменивает код авторизации на токены, проверяет ID-токен
// и возвращает email пользователя и адрес его кошелька.
func (p *Provider) Authenticate(ctx context.Context, code, nonce string) (models.Identity, error) {
	const op = "authprovider.Authenticate"

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: exchange: %w", op, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrNoIDToken)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: verify: %w", op, err)
	}

	var claims struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
		Nonce         string `json:"nonce"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return models.Identity{}, fmt.Errorf("%s: claims: %w", op, err)
	}
	if claims.Nonce == "" || claims.Nonce != nonce {
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrNonceMismatch)
	}
	if claims.Email == "" || (claims.EmailVerified != nil && !*claims.EmailVerified) {
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrNoEmail)
	}

	return models.Identity{
		Address: WalletAddress(idToken.Issuer, claims.Sub),
		Email:   claims.Email,
	}, nil
}

// WalletAddress детерминированно выводит адрес кошелька в формате EVM:
// последние 20 байт Keccak-256 от "issuer|subject".
func WalletAddress(issuer, subject string) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(issuer + "|" + subject))
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[len(sum)-20:])
}
