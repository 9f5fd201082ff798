package auth_services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"taskboard/internal/config"
	"taskboard/internal/model/auth_model"
)

var (
	ErrCodeMissing  = errors.New("authorization code is missing")
	ErrNoIDToken    = errors.New("token response contained no id_token")
	ErrMissingToken = errors.New("identity token is missing")
)

// providerTimeout bounds both provider round-trips. There is no retry: a
// failed exchange means the single-use code is likely consumed and the login
// flow has to restart.
const providerTimeout = 10 * time.Second

type OAuthVerifier struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// NewOAuthVerifier runs OIDC discovery against the configured issuer and
// prepares the code-exchange config and ID-token verifier.
func NewOAuthVerifier(ctx context.Context, cfg *config.Config) (*OAuthVerifier, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	provider, err := oidc.NewProvider(ctx, cfg.GoogleIssuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery failed: %w", err)
	}

	return &OAuthVerifier{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.GoogleClientID}),
	}, nil
}

// AuthCodeURL builds the consent-screen redirect URL.
func (v *OAuthVerifier) AuthCodeURL(state string) string {
	return v.oauthConfig.AuthCodeURL(state)
}

// ExchangeCode swaps the single-use authorization code for an ID token.
// Exactly one attempt.
func (v *OAuthVerifier) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrCodeMissing
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	token, err := v.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("code exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", ErrNoIDToken
	}
	return rawIDToken, nil
}

// VerifyIdentity checks the ID token's signature, issuer, audience and
// expiry against the provider keys. Claims are only read from a verified
// token, never from a raw payload.
func (v *OAuthVerifier) VerifyIdentity(ctx context.Context, rawIDToken string) (*auth_model.IdentityClaims, error) {
	if rawIDToken == "" {
		return nil, ErrMissingToken
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("identity token verification failed: %w", err)
	}

	var claims auth_model.IdentityClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse identity claims: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("verified token has no subject")
	}
	return &claims, nil
}
