// Package tokens erişim ve LCV (RSVP) bağlantıları için imzalı JWT'ler üretir ve doğrular.
package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	PurposeAccess = "access"
	PurposeRSVP   = "rsvp"
)

var (
	ErrInvalidToken = errors.New("geçersiz veya süresi dolmuş token")
	ErrWrongPurpose = errors.New("token bu işlem için kullanılamaz")
)

// Claims iki token türü için ortak alanlar. Subject kullanıcı veya katılımcı ID'sidir.
type Claims struct {
	Purpose string `json:"purpose"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issuer HS256 ile token imzalar.
type Issuer struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	rsvpTTL   time.Duration
	now       func() time.Time
}

func NewIssuer(secret, issuer string, accessTTL, rsvpTTL time.Duration) *Issuer {
	return &Issuer{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		rsvpTTL:   rsvpTTL,
		now:       time.Now,
	}
}

// AccessClaims doğrulanmış erişim token'ının içeriği.
type AccessClaims struct {
	UserID uint
	Email  string
}

// IssueAccess oturum açmış kullanıcı için erişim token'ı üretir.
func (i *Issuer) IssueAccess(userID uint, email string) (string, time.Time, error) {
	expiresAt := i.now().Add(i.accessTTL)
	token, err := i.sign(PurposeAccess, userID, email, expiresAt)
	return token, expiresAt, err
}

// ParseAccess erişim token'ını doğrular.
func (i *Issuer) ParseAccess(raw string) (AccessClaims, error) {
	claims, id, err := i.parse(raw, PurposeAccess)
	if err != nil {
		return AccessClaims{}, err
	}
	return AccessClaims{UserID: id, Email: claims.Email}, nil
}

// IssueRSVP davet e-postasındaki onay/ret bağlantıları için token üretir.
func (i *Issuer) IssueRSVP(participantID uint) (string, error) {
	return i.sign(PurposeRSVP, participantID, "", i.now().Add(i.rsvpTTL))
}

// ParseRSVP LCV token'ından katılımcı ID'sini çıkarır.
func (i *Issuer) ParseRSVP(raw string) (uint, error) {
	_, id, err := i.parse(raw, PurposeRSVP)
	return id, err
}

func (i *Issuer) sign(purpose string, subjectID uint, email string, expiresAt time.Time) (string, error) {
	if len(i.secret) == 0 {
		return "", errors.New("token imzalama anahtarı tanımlı değil")
	}
	now := i.now()
	claims := Claims{
		Purpose: purpose,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   strconv.FormatUint(uint64(subjectID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) parse(raw, purpose string) (*Claims, uint, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Purpose != purpose {
		return nil, 0, ErrWrongPurpose
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, 0, ErrInvalidToken
	}
	return claims, uint(id), nil
}
