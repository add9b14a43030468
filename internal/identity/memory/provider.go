// Package memory implements the identity provider contract in memory for
// development and tests: bcrypt-hashed credentials, HS256 identity tokens,
// and per-installation auth-state streams.
package memory

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"lookbook/internal/identity"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

const minPasswordLength = 6

type account struct {
	userID       domain.UserID
	email        string
	displayName  string
	passwordHash []byte
}

// Provider is an in-memory identity.Provider.
type Provider struct {
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time

	mu       sync.Mutex
	disabled bool
	accounts map[string]*account // keyed by lowercased email
	bindings map[domain.InstallationID]domain.UserID
	watchers map[domain.InstallationID][]chan *identity.Identity
}

// ProviderOption configures Provider.
type ProviderOption func(*Provider)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs an empty provider.
func New(signingKey string, tokenTTL time.Duration, opts ...ProviderOption) *Provider {
	p := &Provider{
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
		accounts:   make(map[string]*account),
		bindings:   make(map[domain.InstallationID]domain.UserID),
		watchers:   make(map[domain.InstallationID][]chan *identity.Identity),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// SetSignUpEnabled toggles whether new registrations are accepted. Disabled
// sign-up surfaces as the operation-not-allowed provider code.
func (p *Provider) SetSignUpEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disabled = !enabled
}

func (p *Provider) SignIn(_ context.Context, inst domain.InstallationID, email, password string) (*identity.Identity, error) {
	key, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	acct, ok := p.accounts[key]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUserNotFound, "no account for email")
	}
	if bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) != nil {
		return nil, dErrors.New(dErrors.CodeInvalidCredential, "credential mismatch")
	}

	p.bindings[inst] = acct.userID
	id := acct.identity()
	p.notifyLocked(inst, id)
	return id, nil
}

func (p *Provider) SignUp(_ context.Context, inst domain.InstallationID, email, password, fullName string) (*identity.Identity, error) {
	key, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, dErrors.New(dErrors.CodeWeakPassword, "password too short")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disabled {
		return nil, dErrors.New(dErrors.CodeOperationNotAllowed, "sign-up is disabled")
	}
	if _, exists := p.accounts[key]; exists {
		return nil, dErrors.New(dErrors.CodeEmailAlreadyInUse, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	acct := &account{
		userID:       domain.NewUserID(),
		email:        key,
		displayName:  fullName,
		passwordHash: hash,
	}
	p.accounts[key] = acct
	p.bindings[inst] = acct.userID

	id := acct.identity()
	p.notifyLocked(inst, id)
	return id, nil
}

func (p *Provider) SignOut(_ context.Context, inst domain.InstallationID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.bindings[inst]; !ok {
		return nil
	}
	delete(p.bindings, inst)
	p.notifyLocked(inst, nil)
	return nil
}

func (p *Provider) Token(_ context.Context, inst domain.InstallationID) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.bindings[inst]
	if !ok {
		return "", dErrors.New(dErrors.CodeUnauthorized, "installation is not signed in")
	}

	acct := p.accountByIDLocked(userID)
	if acct == nil {
		return "", dErrors.New(dErrors.CodeUserNotFound, "account no longer exists")
	}

	now := p.now()
	claims := jwt.MapClaims{
		"sub":   acct.userID.String(),
		"email": acct.email,
		"name":  acct.displayName,
		"iat":   now.Unix(),
		"exp":   now.Add(p.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign token")
	}
	return token, nil
}

func (p *Provider) Watch(ctx context.Context, inst domain.InstallationID) (<-chan *identity.Identity, error) {
	ch := make(chan *identity.Identity, 8)

	p.mu.Lock()
	p.watchers[inst] = append(p.watchers[inst], ch)
	ch <- p.currentLocked(inst)
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		defer p.mu.Unlock()
		chans := p.watchers[inst]
		for i, w := range chans {
			if w == ch {
				p.watchers[inst] = append(chans[:i], chans[i+1:]...)
				close(ch)
				break
			}
		}
	}()

	return ch, nil
}

func (p *Provider) currentLocked(inst domain.InstallationID) *identity.Identity {
	userID, ok := p.bindings[inst]
	if !ok {
		return nil
	}
	if acct := p.accountByIDLocked(userID); acct != nil {
		return acct.identity()
	}
	return nil
}

func (p *Provider) accountByIDLocked(userID domain.UserID) *account {
	for _, acct := range p.accounts {
		if acct.userID == userID {
			return acct
		}
	}
	return nil
}

// notifyLocked delivers the new auth state to the installation's watchers.
// Slow watchers miss updates rather than blocking the auth flow.
func (p *Provider) notifyLocked(inst domain.InstallationID, id *identity.Identity) {
	for _, ch := range p.watchers[inst] {
		select {
		case ch <- id:
		default:
		}
	}
}

func (a *account) identity() *identity.Identity {
	return &identity.Identity{
		UserID:      a.userID,
		Email:       a.email,
		DisplayName: a.displayName,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidEmail, "malformed email address")
	}
	return email, nil
}
