package service

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
	"github.com/sirupsen/logrus"
)

// AuthService handles wallet sign-in business logic
type AuthService struct {
	nonces    *NonceRegistry
	scheme    ports.SignatureScheme
	tokenizer ports.SessionTokenizer
	eventPub  ports.EventPublisher
	clock     clock.Clock
	log       logrus.FieldLogger

	appName string
}

type nopPublisher struct{}

func (nopPublisher) PublishSessionIssued(context.Context, string, string) error { return nil }

func (nopPublisher) PublishLogout(context.Context, string) error { return nil }

// Options tune an AuthService
type Options struct {
	AppName string      // Named in the challenge purpose line
	Clock   clock.Clock // Defaults to the wall clock
}

// NewAuthService creates a new authentication service
func NewAuthService(
	nonces *NonceRegistry,
	scheme ports.SignatureScheme,
	tokenizer ports.SessionTokenizer,
	eventPub ports.EventPublisher,
	log logrus.FieldLogger,
	opts Options,
) *AuthService {
	if opts.AppName == "" {
		opts.AppName = core.DefaultAppName
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if eventPub == nil {
		eventPub = nopPublisher{}
	}

	return &AuthService{
		nonces:    nonces,
		scheme:    scheme,
		tokenizer: tokenizer,
		eventPub:  eventPub,
		clock:     opts.Clock,
		log:       log,
		appName:   opts.AppName,
	}
}

// SessionTTL returns how long issued session tokens stay valid
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokenizer.TTL()
}

// RequestChallenge issues a nonce for address and renders the message to sign
func (s *AuthService) RequestChallenge(ctx context.Context, address string) (*core.Challenge, error) {
	if _, err := s.scheme.ValidateAddress(address); err != nil {
		return nil, err
	}

	record, err := s.nonces.Issue(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to issue nonce: %w", err)
	}

	issuedAt := record.ExpiresAt.Add(-s.nonces.TTL())

	return &core.Challenge{
		Address:   address,
		Message:   core.BuildMessage(s.appName, address, record.Nonce, issuedAt, record.ExpiresAt),
		IssuedAt:  issuedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// VerifyAndIssueSession checks a signed challenge and mints a session token.
// The nonce is consumed before the signature is looked at, so a failed
// verification still requires a fresh challenge.
func (s *AuthService) VerifyAndIssueSession(ctx context.Context, address, message, signature string) (string, error) {
	key, err := s.scheme.ValidateAddress(address)
	if err != nil {
		return "", err
	}

	nonce, ok := core.ExtractNonce(message)
	if !ok {
		return "", core.ErrNonceNotFoundInMessage
	}

	if !s.nonces.Consume(ctx, address, nonce) {
		return "", core.ErrNonceInvalidOrExpired
	}

	sig, err := s.scheme.DecodeSignature(signature)
	if err != nil {
		return "", err
	}

	if !s.scheme.Verify([]byte(message), sig, key) {
		s.log.WithField("address", address).Info("signature verification failed")
		return "", core.ErrSignatureVerificationFailed
	}

	token, err := s.tokenizer.Encode(address, s.clock.Now())
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}

	if err := s.eventPub.PublishSessionIssued(ctx, address, s.scheme.Name()); err != nil {
		// The session is valid regardless, other services just miss the notification
		s.log.WithError(err).Warn("failed to publish session issued event")
	}

	s.log.WithField("address", address).Info("session issued")

	return token, nil
}

// ReadSession reports who holds token, if anyone
func (s *AuthService) ReadSession(ctx context.Context, token string) core.Session {
	if token == "" {
		return core.Session{}
	}

	payload, ok := s.tokenizer.Decode(token)
	if !ok {
		return core.Session{}
	}

	return core.Session{
		Authenticated: true,
		Address:       payload.Address,
	}
}

// Logout announces the end of a session. Tokens are stateless and stay
// cryptographically valid until they expire; the transport drops its copy.
func (s *AuthService) Logout(ctx context.Context, token string) {
	session := s.ReadSession(ctx, token)
	if !session.Authenticated {
		return
	}

	if err := s.eventPub.PublishLogout(ctx, session.Address); err != nil {
		s.log.WithError(err).Warn("failed to publish logout event")
	}

	s.log.WithField("address", session.Address).Info("logged out")
}
