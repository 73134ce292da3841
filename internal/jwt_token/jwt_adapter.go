package jwttoken

import "traceline/internal/platform/middleware"

// Adapter exposes the JWT service through the middleware's validator
// interface.
type Adapter struct {
	svc *Service
}

func NewAdapter(svc *Service) *Adapter {
	return &Adapter{svc: svc}
}

func (a *Adapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.svc.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{Subject: claims.Subject}, nil
}
