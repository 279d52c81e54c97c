package dto

import (
	"errors"
	"strings"
)

/* =========================================================
   REQUEST: GOOGLE ID-TOKEN EXCHANGE
========================================================= */

type GoogleExchangeRequest struct {
	IDToken string `json:"id_token" form:"id_token"`
}

func (r *GoogleExchangeRequest) Normalize() {
	r.IDToken = strings.TrimSpace(r.IDToken)
}

func (r *GoogleExchangeRequest) Validate() error {
	if r.IDToken == "" {
		return errors.New("id_token required")
	}
	return nil
}

/* =========================================================
   RESPONSE
========================================================= */

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserEmail   string `json:"user_email"`
	UserRole    string `json:"user_role"`
}
