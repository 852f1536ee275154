package application

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
	"github.com/gearguard/gearguard-api/pkg/helpers"
)

// fakeUserRepo is an in-memory credential store keyed by normalized email.
type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}}
}

func norm(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (f *fakeUserRepo) Create(_ context.Context, params repo.CreateUserParams) (*entity.User, error) {
	key := norm(params.Email)
	if _, ok := f.byEmail[key]; ok {
		return nil, repo.ErrDuplicateEmail
	}
	if params.Username != nil {
		for _, u := range f.byEmail {
			if u.Username != nil && *u.Username == *params.Username {
				return nil, repo.ErrDuplicateUsername
			}
		}
	}
	u := &entity.User{
		ID:        bson.NewObjectID(),
		Email:     key,
		Username:  params.Username,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Phone:     params.Phone,
		GoogleID:  params.GoogleID,
		GithubID:  params.GithubID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if params.Password != nil {
		hash, err := helpers.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = &hash
	}
	f.byEmail[key] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := f.byEmail[norm(email)]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, params repo.UpdateUserParams) (*entity.User, error) {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.GoogleID != nil {
		u.GoogleID = params.GoogleID
	}
	if params.GithubID != nil {
		u.GithubID = params.GithubID
	}
	if params.Username != nil {
		u.Username = params.Username
	}
	if params.FirstName != nil {
		u.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		u.LastName = *params.LastName
	}
	if params.Phone != nil {
		u.Phone = params.Phone
	}
	if params.AvatarURL != nil {
		u.AvatarURL = *params.AvatarURL
	}
	if params.Location != nil {
		u.Location = *params.Location
	}
	if params.Occupation != nil {
		u.Occupation = *params.Occupation
	}
	if params.Bio != nil {
		u.Bio = *params.Bio
	}
	u.UpdatedAt = time.Now()
	return u, nil
}

func (f *fakeUserRepo) VerifyPassword(u *entity.User, plaintext string) bool {
	if u.PasswordHash == nil {
		return false
	}
	return helpers.CompareHashAndPassword(*u.PasswordHash, plaintext)
}

func (f *fakeUserRepo) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(code)
	if err != nil {
		return err
	}
	u.ResetCodeHash = &hash
	u.ResetCodeExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) ResetPassword(ctx context.Context, id, newPassword string) error {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = &hash
	u.ResetCodeHash = nil
	u.ResetCodeExpiresAt = nil
	return nil
}

func (f *fakeUserRepo) VerifyResetCode(u *entity.User, code string) bool {
	if u.ResetCodeHash == nil || u.ResetCodeExpiresAt == nil {
		return false
	}
	if time.Now().After(*u.ResetCodeExpiresAt) {
		return false
	}
	return helpers.CompareHashAndPassword(*u.ResetCodeHash, code)
}

type otpRec struct {
	email   string
	code    string
	created time.Time
}

// fakeOTPRepo mirrors the store semantics: most recent record wins, deletion
// on success, expiry reported as a distinct cause.
type fakeOTPRepo struct {
	ttl  time.Duration
	recs []otpRec
}

func (f *fakeOTPRepo) Issue(_ context.Context, email string) (string, error) {
	code, err := helpers.GenOTPCode()
	if err != nil {
		return "", err
	}
	f.recs = append(f.recs, otpRec{email: norm(email), code: code, created: time.Now()})
	return code, nil
}

func (f *fakeOTPRepo) Verify(_ context.Context, email, code string) (bool, error) {
	latest := -1
	for i, r := range f.recs {
		if r.email == norm(email) {
			if latest < 0 || r.created.After(f.recs[latest].created) || i > latest {
				latest = i
			}
		}
	}
	if latest < 0 {
		return false, nil
	}
	r := f.recs[latest]
	if r.code != code {
		return false, nil
	}
	if f.ttl > 0 && time.Since(r.created) > f.ttl {
		return false, repo.ErrOTPExpired
	}
	f.recs = append(f.recs[:latest], f.recs[latest+1:]...)
	return true, nil
}

type fakeActivityRepo struct {
	events []entity.LoginActivity
}

func (f *fakeActivityRepo) Record(_ context.Context, a *entity.LoginActivity) error {
	f.events = append(f.events, *a)
	return nil
}

func (f *fakeActivityRepo) ListByUser(_ context.Context, userID string, _ int64) ([]entity.LoginActivity, error) {
	var out []entity.LoginActivity
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeSender captures outbound mail so tests can read the OTP code that
// production would deliver out of band.
type fakeSender struct {
	otpCodes   map[string]string
	resetCodes map[string]string
}

func newFakeSender() *fakeSender {
	return &fakeSender{otpCodes: map[string]string{}, resetCodes: map[string]string{}}
}

func (f *fakeSender) SendOTP(_ context.Context, to, _, code string) error {
	f.otpCodes[norm(to)] = code
	return nil
}

func (f *fakeSender) SendResetCode(_ context.Context, to, _, code string) error {
	f.resetCodes[norm(to)] = code
	return nil
}

func (f *fakeSender) SendAssignment(context.Context, string, string, string, string) error {
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestAuth(t *testing.T) (*AuthService, *fakeUserRepo, *fakeOTPRepo, *fakeActivityRepo, *fakeSender) {
	t.Helper()
	users := newFakeUserRepo()
	otps := &fakeOTPRepo{ttl: 10 * time.Minute}
	activity := &fakeActivityRepo{}
	mail := newFakeSender()
	jwt := helpers.NewJWTManager("test-secret", 24*time.Hour, 5*time.Hour)
	svc := NewAuthService(users, otps, activity, jwt, mail, quietLogger())
	return svc, users, otps, activity, mail
}

func signupInput() SignupInput {
	return SignupInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "secret1",
	}
}

func TestSignupTokenRoundTrip(t *testing.T) {
	svc, users, _, _, _ := newTestAuth(t)

	res, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, "ada@example.com", res.User.Email)

	claims, err := svc.JWT.Parse(res.Token)
	require.NoError(t, err)

	u, err := users.GetByID(context.Background(), claims.UserID)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", u.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newTestAuth(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	in := signupInput()
	in.FirstName = "Someone"
	in.LastName = "Else"
	in.Password = "different-password"
	_, err = svc.Signup(context.Background(), in)
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestSignInUnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	svc, _, _, _, _ := newTestAuth(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	_, _, errWrong := svc.SignIn(context.Background(), "ada@example.com", "not-the-password", LoginMeta{})
	_, _, errUnknown := svc.SignIn(context.Background(), "nobody@example.com", "whatever", LoginMeta{})

	require.ErrorIs(t, errWrong, ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestSignInPendingThenVerifyOTP(t *testing.T) {
	svc, _, _, activity, mail := newTestAuth(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	res, pending, err := svc.SignIn(context.Background(), "ada@example.com", "secret1", LoginMeta{IP: "203.0.113.7"})
	require.NoError(t, err)
	require.True(t, pending)
	require.Nil(t, res)

	code := mail.otpCodes["ada@example.com"]
	require.Len(t, code, 6)

	auth, err := svc.VerifyOTP(context.Background(), "ada@example.com", code, LoginMeta{IP: "203.0.113.7"})
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)
	require.Equal(t, "ada@example.com", auth.User.Email)

	require.Len(t, activity.events, 1)
	require.Equal(t, "otp", activity.events[0].Method)
	require.Equal(t, "203.0.113.7", activity.events[0].IP)
}

func TestVerifyOTPSingleUse(t *testing.T) {
	svc, _, _, _, mail := newTestAuth(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	_, _, err = svc.SignIn(context.Background(), "ada@example.com", "secret1", LoginMeta{})
	require.NoError(t, err)
	code := mail.otpCodes["ada@example.com"]

	_, err = svc.VerifyOTP(context.Background(), "ada@example.com", code, LoginMeta{})
	require.NoError(t, err)

	_, err = svc.VerifyOTP(context.Background(), "ada@example.com", code, LoginMeta{})
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTPLatestWins(t *testing.T) {
	svc, _, otps, _, _ := newTestAuth(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	first, err := otps.Issue(context.Background(), "ada@example.com")
	require.NoError(t, err)
	second, err := otps.Issue(context.Background(), "ada@example.com")
	require.NoError(t, err)
	if first == second {
		t.Skip("codes collided, nothing to distinguish")
	}

	_, err = svc.VerifyOTP(context.Background(), "ada@example.com", first, LoginMeta{})
	require.ErrorIs(t, err, ErrInvalidOTP)

	auth, err := svc.VerifyOTP(context.Background(), "ada@example.com", second, LoginMeta{})
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)
}

// Codes issued back to back can share a creation timestamp; the newer one
// must still win and the older one must stop verifying.
func TestVerifyOTPTiedTimestamps(t *testing.T) {
	otps := &fakeOTPRepo{}
	now := time.Now()
	otps.recs = append(otps.recs,
		otpRec{email: "ada@example.com", code: "111111", created: now},
		otpRec{email: "ada@example.com", code: "222222", created: now},
	)

	ok, err := otps.Verify(context.Background(), "ada@example.com", "111111")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = otps.Verify(context.Background(), "ada@example.com", "222222")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	svc, _, otps, _, _ := newTestAuth(t)
	otps.ttl = time.Nanosecond

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	code, err := otps.Issue(context.Background(), "ada@example.com")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	_, err = svc.VerifyOTP(context.Background(), "ada@example.com", code, LoginMeta{})
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestSignInBypassFlag(t *testing.T) {
	svc, _, _, activity, _ := newTestAuth(t)
	svc.BypassEnabled = true

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	res, pending, err := svc.SignIn(context.Background(), "ada@example.com", "secret1", LoginMeta{})
	require.NoError(t, err)
	require.False(t, pending)
	require.NotEmpty(t, res.Token)
	require.Len(t, activity.events, 1)
	require.Equal(t, "password", activity.events[0].Method)
}

func TestSignInBypassTestAccount(t *testing.T) {
	svc, _, _, _, _ := newTestAuth(t)
	svc.TestAccounts = []string{"test@example.com"}

	in := signupInput()
	in.Email = "test@example.com"
	_, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)

	res, pending, err := svc.SignIn(context.Background(), "test@example.com", "secret1", LoginMeta{})
	require.NoError(t, err)
	require.False(t, pending)
	require.NotEmpty(t, res.Token)

	// A non-listed account still goes through the OTP step.
	in2 := signupInput()
	in2.Email = "real@example.com"
	_, err = svc.Signup(context.Background(), in2)
	require.NoError(t, err)

	res, pending, err = svc.SignIn(context.Background(), "real@example.com", "secret1", LoginMeta{})
	require.NoError(t, err)
	require.True(t, pending)
	require.Nil(t, res)
}

func TestFederateCreatesPasswordlessUser(t *testing.T) {
	svc, users, _, _, mail := newTestAuth(t)

	email, err := svc.FederateGoogleProfile(context.Background(), "grace@example.com", "Grace", "Hopper", "google-123")
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", email)

	u, err := users.GetByEmail(context.Background(), "grace@example.com")
	require.NoError(t, err)
	require.Nil(t, u.PasswordHash)
	require.NotNil(t, u.GoogleID)
	require.Equal(t, "google-123", *u.GoogleID)

	// Federation never bypasses the second factor.
	code := mail.otpCodes["grace@example.com"]
	require.Len(t, code, 6)

	auth, err := svc.VerifyOTP(context.Background(), "grace@example.com", code, LoginMeta{})
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)
}

func TestFederateLinksExistingAccount(t *testing.T) {
	svc, users, _, _, _ := newTestAuth(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	_, err = svc.FederateGoogleProfile(context.Background(), "ada@example.com", "Ada", "Lovelace", "google-ada")
	require.NoError(t, err)

	u, err := users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, u.GoogleID)
	require.NotNil(t, u.PasswordHash)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, users, _, _, mail := newTestAuth(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"))
	code := mail.resetCodes["ada@example.com"]
	require.Len(t, code, 6)

	// Wrong code is rejected.
	err = svc.ResetPassword(context.Background(), "ada@example.com", "000000", "brand-new-pass")
	require.ErrorIs(t, err, ErrInvalidOTP)

	require.NoError(t, svc.ResetPassword(context.Background(), "ada@example.com", code, "brand-new-pass"))

	u, err := users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.True(t, users.VerifyPassword(u, "brand-new-pass"))
	require.False(t, users.VerifyPassword(u, "secret1"))
}

func TestRequestResetUnknownEmailSilent(t *testing.T) {
	svc, _, _, _, mail := newTestAuth(t)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
	require.Empty(t, mail.resetCodes)
}
