package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
	"github.com/gearguard/gearguard-api/pkg/helpers"
	"github.com/gearguard/gearguard-api/pkg/mailer"
	"github.com/gearguard/gearguard-api/pkg/oauth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnknownProvider    = errors.New("unknown oauth provider")
)

// AuthService coordinates the credential store, OTP store, token issuer and
// external mail/OAuth collaborators into the sign-up, sign-in, OTP and
// federation flows.
type AuthService struct {
	Users    repo.UserRepository
	OTPs     repo.OTPRepository
	Activity repo.ActivityRepository
	JWT      *helpers.JWTManager
	Mail     mailer.Sender
	Logger   *logrus.Logger

	Providers map[string]oauth.Provider

	// OTP bypass configuration. The allowlist is empty in production.
	BypassEnabled bool
	DevMode       bool
	TestAccounts  []string
}

func NewAuthService(users repo.UserRepository, otps repo.OTPRepository, activity repo.ActivityRepository, jwt *helpers.JWTManager, mail mailer.Sender, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:     users,
		OTPs:      otps,
		Activity:  activity,
		JWT:       jwt,
		Mail:      mail,
		Logger:    logger,
		Providers: map[string]oauth.Provider{},
	}
}

// LoginMeta carries request context recorded with each completed sign-in.
type LoginMeta struct {
	IP        string
	UserAgent string
}

// AuthResult is the outcome of any flow that ends in an issued session.
type AuthResult struct {
	User        entity.PublicUser
	Token       string
	TokenExpiry time.Time
}

type SignupInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Signup creates the user and immediately issues a signup-lifetime token. A
// uniqueness violation raised at write time maps to DuplicateUser even when a
// prior existence check passed; the write is the source of truth.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	params := repo.CreateUserParams{
		Email:     in.Email,
		Password:  &in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if in.Username != "" {
		params.Username = &in.Username
	}

	u, err := s.Users.Create(ctx, params)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	token, exp, err := s.JWT.GenerateSignup(u.ID.Hex())
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Error("generate signup token failed")
		return nil, err
	}
	return &AuthResult{User: u.Public(), Token: token, TokenExpiry: exp}, nil
}

// SignIn runs the password step. On success it either issues the session
// directly (bypass) or parks the flow behind an emailed OTP and returns a nil
// result with pending=true.
func (s *AuthService) SignIn(ctx context.Context, email, password string, meta LoginMeta) (result *AuthResult, pending bool, err error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		// Absent user and wrong password share one answer so account
		// existence cannot be probed.
		if errors.Is(err, repo.ErrNotFound) {
			return nil, false, ErrInvalidCredentials
		}
		return nil, false, err
	}
	if !s.Users.VerifyPassword(u, password) {
		return nil, false, ErrInvalidCredentials
	}

	if s.bypassFor(u.Email) {
		res, err := s.completeLogin(ctx, u, "password", meta)
		return res, false, err
	}

	if err := s.sendOTP(ctx, u); err != nil {
		return nil, false, err
	}
	return nil, true, nil
}

// VerifyOTP completes a pending sign-in. Wrong code, no outstanding code and
// expired code all collapse into InvalidOTP toward the caller.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string, meta LoginMeta) (*AuthResult, error) {
	ok, err := s.OTPs.Verify(ctx, email, code)
	if err != nil && !errors.Is(err, repo.ErrOTPExpired) {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOTP
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	return s.completeLogin(ctx, u, "otp", meta)
}

// RegisterProvider wires an OAuth provider under its name.
func (s *AuthService) RegisterProvider(p oauth.Provider) {
	s.Providers[p.Name()] = p
}

// AuthCodeURL builds the consent URL for the named provider.
func (s *AuthService) AuthCodeURL(provider, state string) (string, error) {
	p, ok := s.Providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}
	return p.AuthCodeURL(state), nil
}

// HandleOAuthCallback exchanges the authorization code and parks the flow
// behind an OTP. Federation never takes the bypass shortcut: the caller always
// redirects the user to the OTP verification step.
func (s *AuthService) HandleOAuthCallback(ctx context.Context, provider, code string) (email string, err error) {
	p, ok := s.Providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}
	profile, err := p.Exchange(ctx, code)
	if err != nil {
		s.Logger.WithError(err).WithField("provider", provider).Error("oauth exchange failed")
		return "", err
	}
	return s.federate(ctx, profile)
}

// FederateGoogleProfile handles the client-side Google flow where the SPA has
// already obtained the profile and posts it directly.
func (s *AuthService) FederateGoogleProfile(ctx context.Context, email, firstName, lastName, googleID string) (string, error) {
	return s.federate(ctx, &oauth.Profile{
		Provider:   "google",
		ProviderID: googleID,
		Email:      email,
		FirstName:  firstName,
		LastName:   lastName,
	})
}

// federate maps an external profile to a local user, creating one without a
// password for a previously unseen email, then issues the OTP.
func (s *AuthService) federate(ctx context.Context, profile *oauth.Profile) (string, error) {
	u, err := s.Users.GetByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		// Record the provider linkage if this is the first federated login
		// for an existing account.
		if u, err = s.linkProvider(ctx, u, profile); err != nil {
			return "", err
		}
	case errors.Is(err, repo.ErrNotFound):
		params := repo.CreateUserParams{
			Email:     profile.Email,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
		}
		switch profile.Provider {
		case "google":
			params.GoogleID = &profile.ProviderID
		case "github":
			params.GithubID = &profile.ProviderID
		}
		u, err = s.Users.Create(ctx, params)
		if err != nil {
			// A concurrent callback for the same email may win the insert.
			if errors.Is(err, repo.ErrDuplicateEmail) {
				if u, err = s.Users.GetByEmail(ctx, profile.Email); err != nil {
					return "", err
				}
			} else {
				return "", err
			}
		}
	default:
		return "", err
	}

	if err := s.sendOTP(ctx, u); err != nil {
		return "", err
	}
	return u.Email, nil
}

func (s *AuthService) linkProvider(ctx context.Context, u *entity.User, profile *oauth.Profile) (*entity.User, error) {
	params := repo.UpdateUserParams{}
	switch profile.Provider {
	case "google":
		if u.GoogleID != nil {
			return u, nil
		}
		params.GoogleID = &profile.ProviderID
	case "github":
		if u.GithubID != nil {
			return u, nil
		}
		params.GithubID = &profile.ProviderID
	default:
		return u, nil
	}
	if profile.AvatarURL != "" && u.AvatarURL == "" {
		params.AvatarURL = &profile.AvatarURL
	}
	return s.Users.Update(ctx, u.ID.Hex(), params)
}

// RequestPasswordReset issues a reset code and mails it. An unknown email is
// answered identically to a known one so existence cannot be probed.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}
	code, err := helpers.GenOTPCode()
	if err != nil {
		return err
	}
	if err := s.Users.SetResetCode(ctx, u.ID.Hex(), code, time.Now().Add(10*time.Minute)); err != nil {
		return err
	}
	if err := s.Mail.SendResetCode(ctx, u.Email, u.FirstName, code); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Error("send reset code failed")
		return err
	}
	return nil
}

// ResetPassword verifies the emailed reset code and writes the new password.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	if !s.Users.VerifyResetCode(u, code) {
		return ErrInvalidOTP
	}
	return s.Users.ResetPassword(ctx, u.ID.Hex(), newPassword)
}

func (s *AuthService) sendOTP(ctx context.Context, u *entity.User) error {
	code, err := s.OTPs.Issue(ctx, u.Email)
	if err != nil {
		return err
	}
	if err := s.Mail.SendOTP(ctx, u.Email, u.FirstName, code); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Error("send otp failed")
		return err
	}
	return nil
}

func (s *AuthService) completeLogin(ctx context.Context, u *entity.User, method string, meta LoginMeta) (*AuthResult, error) {
	token, exp, err := s.JWT.GenerateSession(u.ID.Hex())
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Error("generate session token failed")
		return nil, err
	}
	if s.Activity != nil {
		event := &entity.LoginActivity{
			UserID:    u.ID.Hex(),
			Email:     u.Email,
			Method:    method,
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
		}
		if err := s.Activity.Record(ctx, event); err != nil {
			s.Logger.WithError(err).Warn("record login activity failed")
		}
	}
	return &AuthResult{User: u.Public(), Token: token, TokenExpiry: exp}, nil
}

func (s *AuthService) bypassFor(email string) bool {
	if s.BypassEnabled || s.DevMode {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range s.TestAccounts {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}
