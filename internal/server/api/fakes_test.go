package api

import (
	"context"
	"errors"
	"time"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/logging"
	"github.com/ccsafarmai/farmai/internal/server/auth"
	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/services"
)

var errBoom = errors.New("boom")

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeAuth struct {
	registerErr error
	loginOut    *services.LoginResult
	loginErr    error
	verifyErr   error
	forgotErr   error
	resetErr    error
	resendErr   error

	gotCallback string
	gotToken    string
}

func (f *fakeAuth) Register(context.Context, services.RegisterInput) error { return f.registerErr }
func (f *fakeAuth) Login(_ context.Context, _ services.LoginInput, cb string) (*services.LoginResult, error) {
	f.gotCallback = cb
	return f.loginOut, f.loginErr
}
func (f *fakeAuth) VerifyEmail(_ context.Context, token string) error {
	f.gotToken = token
	return f.verifyErr
}
func (f *fakeAuth) ForgotPassword(context.Context, services.EmailInput) error { return f.forgotErr }
func (f *fakeAuth) ResetPassword(context.Context, services.ResetPasswordInput) error {
	return f.resetErr
}
func (f *fakeAuth) ResendVerificationEmail(context.Context, services.EmailInput) error {
	return f.resendErr
}

// fakeSessions accepts tokens of the form "tok:<role>" for user u1.
type fakeSessions struct {
	refreshErr error
	fresh      string
}

func (f *fakeSessions) Issue(u *models.User) (string, error) { return "tok:" + u.Role, nil }
func (f *fakeSessions) Refresh(_ context.Context, token string) (*auth.Claims, string, error) {
	if f.refreshErr != nil {
		return nil, "", f.refreshErr
	}
	var role string
	switch token {
	case "tok:USER":
		role = common.RoleUser
	case "tok:ADMIN":
		role = common.RoleAdmin
	default:
		return nil, "", common.ErrorUnauthorized
	}
	c := &auth.Claims{Name: "Ada", Email: "ada@farm.ng", Role: role, WalletBalance: 5}
	c.Subject = "u1"
	return c, f.fresh, nil
}

type fakeUsage struct {
	count int
	err   error
}

func (f *fakeUsage) PromptCount(context.Context, string) (int, error) { return f.count, f.err }
func (f *fakeUsage) Usage(context.Context, string) (*services.Usage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.Usage{PromptCount: f.count, FreeTierLimit: 3, CanUse: f.count < 3}, nil
}

type fakeAdvisor struct {
	text string
	err  error
}

func (f *fakeAdvisor) Assistant(context.Context, string, services.AssistantInput) (string, error) {
	return f.text, f.err
}
func (f *fakeAdvisor) Farm(context.Context, string, services.FarmInput) (string, error) {
	return f.text, f.err
}
func (f *fakeAdvisor) Soil(context.Context, string, services.SoilInput) (string, error) {
	return f.text, f.err
}
func (f *fakeAdvisor) Crop(context.Context, string, services.CropInput) (string, error) {
	return f.text, f.err
}

type fakeAccount struct {
	err     error
	balance float64
	upload  *services.UploadURL
}

func (f *fakeAccount) UpdateProfile(context.Context, string, services.UpdateProfileInput) error {
	return f.err
}
func (f *fakeAccount) UpdatePassword(context.Context, string, services.UpdatePasswordInput) error {
	return f.err
}
func (f *fakeAccount) UpdateProfileImage(context.Context, string, services.UpdateImageInput) error {
	return f.err
}
func (f *fakeAccount) PresignProfileImageUpload(context.Context, string, services.UploadURLInput) (*services.UploadURL, error) {
	return f.upload, f.err
}
func (f *fakeAccount) AddFundsToWallet(context.Context, string, float64) (float64, error) {
	return f.balance, f.err
}

type fakeAdmin struct {
	users []models.UserSummary
	err   error

	gotActor, gotID string
}

func (f *fakeAdmin) ListUsers(_ context.Context, actor string) ([]models.UserSummary, error) {
	f.gotActor = actor
	return f.users, f.err
}
func (f *fakeAdmin) CreateUser(_ context.Context, actor string, _ services.CreateUserInput) (*models.User, error) {
	f.gotActor = actor
	return &models.User{}, f.err
}
func (f *fakeAdmin) UpdateUser(_ context.Context, actor string, in services.UpdateUserInput) error {
	f.gotActor, f.gotID = actor, in.ID
	return f.err
}
func (f *fakeAdmin) DeleteUser(_ context.Context, actor, id string) error {
	f.gotActor, f.gotID = actor, id
	return f.err
}

type fakeLimiter struct {
	allow bool
	wait  time.Duration
	err   error
}

func (f *fakeLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return f.allow, f.wait, f.err
}
