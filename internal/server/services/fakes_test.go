package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/dbx"
	"github.com/ccsafarmai/farmai/internal/logging"
	"github.com/ccsafarmai/farmai/internal/server/config"
	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/repositories/prompts"
	"github.com/ccsafarmai/farmai/internal/server/repositories/tokens"
	usersrepo "github.com/ccsafarmai/farmai/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionSecret = "test-secret"
	return cfg
}

// freezeTime pins timeNow for the duration of the test.
func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = old })
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// --- users ---

// fakeUsersRepo keeps users in memory; the xxxErr fields force failures.
type fakeUsersRepo struct {
	users []*models.User

	createErr  error
	getErr     error
	listErr    error
	updateErr  error
	deleteErr  error
	markErr    error
	passErr    error
	walletErr  error
	reserveErr error
	releaseErr error

	listOut []models.UserSummary

	reserveCalls int
	releaseCalls int
	deleted      []string
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) byID(id string) *models.User {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, e := range f.users {
		if e.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	if c.ID == "" {
		c.ID = "new-user"
	}
	c.CreatedAt = time.Now()
	f.users = append(f.users, &c)
	out := c
	return &out, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsersRepo) List(context.Context) ([]models.UserSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeUsersRepo) Update(_ context.Context, id, name, email, role string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u := f.byID(id)
	if u == nil {
		return common.ErrorNotFound
	}
	u.Name, u.Email, u.Role = name, email, role
	return nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUsersRepo) MarkEmailVerified(_ context.Context, email string, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	for _, u := range f.users {
		if u.Email == email {
			u.EmailVerified = &at
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdatePassword(_ context.Context, id, hash string) error {
	if f.passErr != nil {
		return f.passErr
	}
	u := f.byID(id)
	if u == nil {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsersRepo) UpdateName(_ context.Context, id, name string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u := f.byID(id)
	if u == nil {
		return common.ErrorNotFound
	}
	u.Name = name
	return nil
}

func (f *fakeUsersRepo) UpdateImage(_ context.Context, id, image string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u := f.byID(id)
	if u == nil {
		return common.ErrorNotFound
	}
	u.Image = image
	return nil
}

func (f *fakeUsersRepo) AddToWallet(_ context.Context, id string, amount float64) (float64, error) {
	if f.walletErr != nil {
		return 0, f.walletErr
	}
	u := f.byID(id)
	if u == nil {
		return 0, common.ErrorNotFound
	}
	u.WalletBalance += amount
	return u.WalletBalance, nil
}

func (f *fakeUsersRepo) ReserveAIRequest(_ context.Context, id string, freeLimit int) (int, error) {
	f.reserveCalls++
	if f.reserveErr != nil {
		return 0, f.reserveErr
	}
	u := f.byID(id)
	if u == nil || !(u.Role == common.RoleAdmin || u.AIRequests < freeLimit || u.WalletBalance > 0) {
		return 0, common.ErrorUsageLimit
	}
	u.AIRequests++
	return u.AIRequests, nil
}

func (f *fakeUsersRepo) ReleaseAIRequest(_ context.Context, id string) error {
	f.releaseCalls++
	if f.releaseErr != nil {
		return f.releaseErr
	}
	if u := f.byID(id); u != nil && u.AIRequests > 0 {
		u.AIRequests--
	}
	return nil
}

// --- tokens ---

type fakeTokensRepo struct {
	rows map[string]*models.Token

	deleteErr  error
	createErr  error
	consumeErr error
}

func newFakeTokensRepo() *fakeTokensRepo {
	return &fakeTokensRepo{rows: map[string]*models.Token{}}
}

func (f *fakeTokensRepo) DeleteByIdentifier(_ context.Context, identifier string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for k, v := range f.rows {
		if v.Identifier == identifier {
			delete(f.rows, k)
		}
	}
	return nil
}

func (f *fakeTokensRepo) Create(_ context.Context, t *models.Token) (*models.Token, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *t
	c.ID = "tok-" + t.Token
	f.rows[t.Token] = &c
	return &c, nil
}

func (f *fakeTokensRepo) Consume(_ context.Context, token string) (*models.Token, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	t, ok := f.rows[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.rows, token)
	return t, nil
}

// --- prompts ---

type fakePromptsRepo struct {
	created []*models.Prompt

	createErr error
	countOut  int
	countErr  error
}

func (f *fakePromptsRepo) Create(_ context.Context, p *models.Prompt) (*models.Prompt, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *p
	c.ID = "p1"
	f.created = append(f.created, &c)
	return &c, nil
}

func (f *fakePromptsRepo) CountByUser(context.Context, string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.countOut, nil
}

// --- manager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	vt *fakeTokensRepo
	rt *fakeTokensRepo
	p  *fakePromptsRepo
}

func newFakeRepoManager(users ...*models.User) *fakeRepoManager {
	return &fakeRepoManager{
		u:  &fakeUsersRepo{users: users},
		vt: newFakeTokensRepo(),
		rt: newFakeTokensRepo(),
		p:  &fakePromptsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository            { return m.u }
func (m *fakeRepoManager) VerificationTokens(dbx.DBTX) tokens.Repository  { return m.vt }
func (m *fakeRepoManager) PasswordResetTokens(dbx.DBTX) tokens.Repository { return m.rt }
func (m *fakeRepoManager) Prompts(dbx.DBTX) prompts.Repository            { return m.p }

// --- mailer / generator ---

type sentMail struct {
	kind, email, token string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendVerificationEmail(_ context.Context, email, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{"verify", email, token})
	return nil
}

func (f *fakeMailer) SendPasswordResetEmail(_ context.Context, email, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{"reset", email, token})
	return nil
}

type fakeGenerator struct {
	out string
	err error

	system, prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}
