// Package token creates and checks the JWTs that clients of the cmdtree server
// use to act as a session.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer = "cmdts"

	// Lifetime is how long a generated token is valid for.
	Lifetime = time.Hour
)

// Get returns the bearer token in the Authorization header of req.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// Validate checks that tok was signed with secret for a session that still
// exists in db, and returns that session.
func Validate(ctx context.Context, tok string, secret []byte, db dao.SessionRepository) (dao.Session, error) {
	var sesh dao.Session

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		// which session is it? we need this for further verification
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		sesh, err = db.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signingKey(secret, sesh), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Session{}, err
	}

	return sesh, nil
}

// Generate creates a new token for acting as s, signed with secret.
func Generate(secret []byte, s dao.Session) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        issuer,
		"exp":        time.Now().Add(Lifetime).Unix(),
		"sub":        s.ID.String(),
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signingKey(secret, s))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// signingKey binds a token to the session it was made for, so a session
// re-created under the same ID does not accept old tokens.
func signingKey(secret []byte, s dao.Session) []byte {
	var signKey []byte
	signKey = append(signKey, secret...)
	signKey = append(signKey, []byte(s.ID.String())...)
	signKey = append(signKey, []byte(fmt.Sprintf("%d", s.Created.Unix()))...)
	return signKey
}
