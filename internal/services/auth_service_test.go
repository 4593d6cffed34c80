package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"carbon-shredder/internal/models"
	"carbon-shredder/internal/utils"
)

func newTestAuthService(repo *fakeUserRepo, mailer *fakeMailer, otp *fakeOTPStore, store *fakeStorage) *AuthService {
	return NewAuthService(
		repo,
		utils.NewJWTUtil("test-secret", time.Hour),
		mailer,
		otp,
		newFakeCache(),
		store,
		&fakeGoogleVerifier{},
		"https://carbonshredder.com/activation",
	)
}

func hashedUser(email, password string) *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &models.User{
		Name:     "Thijn",
		Email:    email,
		Password: string(hashed),
		Country:  "NL",
		Role:     models.RoleUser,
	}
}

func TestRegister_HashesPasswordAndSendsActivation(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := newTestAuthService(repo, mailer, newFakeOTPStore(), newFakeStorage())

	user := &models.User{Name: "Thijn", Email: "thijn@example.com", Password: "secret123", Country: "NL"}
	require.NoError(t, svc.Register(user))

	stored, err := repo.FindUserByEmail("thijn@example.com")
	require.NoError(t, err)
	assert.NoError(t, stored.ComparePassword("secret123"))
	assert.NotEqual(t, "secret123", stored.Password)
	assert.False(t, stored.IsVerified)
	assert.NotEmpty(t, stored.EmailToken)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "thijn@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, stored.EmailToken)
}

func TestRegister_DuplicateEmailDeletesAvatar(t *testing.T) {
	repo := newFakeUserRepo(hashedUser("taken@example.com", "secret123"))
	mailer := &fakeMailer{}
	store := newFakeStorage()
	svc := newTestAuthService(repo, mailer, newFakeOTPStore(), store)

	user := &models.User{
		Name:     "Impostor",
		Email:    "taken@example.com",
		Password: "secret123",
		Country:  "NL",
		Avatar:   "abc123.png",
	}
	err := svc.Register(user)
	assert.ErrorIs(t, err, ErrEmailExists)
	// загруженная аватарка не должна остаться сиротой в хранилище
	assert.Contains(t, store.deleted, "abc123.png")
	assert.Empty(t, mailer.sent)
}

func TestRegister_MailFailureAfterPersist(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{failWith: assert.AnError}
	svc := newTestAuthService(repo, mailer, newFakeOTPStore(), newFakeStorage())

	err := svc.Register(&models.User{Name: "Thijn", Email: "thijn@example.com", Password: "secret123", Country: "NL"})
	assert.ErrorIs(t, err, ErrActivationMail)

	// пользователь уже сохранён, письмо можно запросить заново
	_, findErr := repo.FindUserByEmail("thijn@example.com")
	assert.NoError(t, findErr)
}

func TestActivate_SingleUse(t *testing.T) {
	user := hashedUser("thijn@example.com", "secret123")
	user.EmailToken = "activation-token-1"
	repo := newFakeUserRepo(user)
	svc := newTestAuthService(repo, &fakeMailer{}, newFakeOTPStore(), newFakeStorage())

	require.NoError(t, svc.Activate("activation-token-1"))
	assert.True(t, user.IsVerified)
	assert.Empty(t, user.EmailToken)

	// повторное использование того же токена
	assert.ErrorIs(t, svc.Activate("activation-token-1"), ErrInvalidActivation)
}

func TestActivate_InvalidatesCachedProfile(t *testing.T) {
	user := hashedUser("thijn@example.com", "secret123")
	user.EmailToken = "activation-token-1"
	repo := newFakeUserRepo(user)
	svc := newTestAuthService(repo, &fakeMailer{}, newFakeOTPStore(), newFakeStorage())

	// профиль закеширован ещё неподтверждённым
	cached, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	require.False(t, cached.IsVerified)

	require.NoError(t, svc.Activate("activation-token-1"))

	fresh, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.True(t, fresh.IsVerified)
}

func TestActivate_UnknownToken(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), &fakeMailer{}, newFakeOTPStore(), newFakeStorage())
	assert.ErrorIs(t, svc.Activate("no-such-token"), ErrInvalidActivation)
	assert.ErrorIs(t, svc.Activate(""), ErrInvalidActivation)
}

func TestLogin_DoesNotRevealWhichFieldWasWrong(t *testing.T) {
	repo := newFakeUserRepo(hashedUser("thijn@example.com", "secret123"))
	svc := newTestAuthService(repo, &fakeMailer{}, newFakeOTPStore(), newFakeStorage())

	_, _, unknownErr := svc.Login("nobody@example.com", "secret123")
	_, _, wrongPassErr := svc.Login("thijn@example.com", "wrong-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	// одна и та же ошибка в обоих случаях
	assert.Equal(t, unknownErr, wrongPassErr)
}

func TestLogin_IssuesValidToken(t *testing.T) {
	repo := newFakeUserRepo(hashedUser("thijn@example.com", "secret123"))
	svc := newTestAuthService(repo, &fakeMailer{}, newFakeOTPStore(), newFakeStorage())

	user, tokenStr, err := svc.Login("thijn@example.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, user)

	j := utils.NewJWTUtil("test-secret", time.Hour)
	token, err := j.ValidateToken(tokenStr)
	require.NoError(t, err)
	userID, role, _, ok := utils.TokenClaims(token)
	assert.True(t, ok)
	assert.Equal(t, user.ID.Hex(), userID)
	assert.Equal(t, "user", role)
}

func TestAdminLogin_RejectsNonAdmin(t *testing.T) {
	repo := newFakeUserRepo(hashedUser("user@example.com", "secret123"))
	svc := newTestAuthService(repo, &fakeMailer{}, newFakeOTPStore(), newFakeStorage())

	_, _, err := svc.AdminLogin("user@example.com", "secret123")
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, _, err = svc.AdminLogin("user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, _, err = svc.AdminLogin("ghost@example.com", "secret123")
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestAdminLogin_Succeeds(t *testing.T) {
	admin := hashedUser("admin@example.com", "secret123")
	admin.Role = models.RoleAdmin
	repo := newFakeUserRepo(admin)
	svc := newTestAuthService(repo, &fakeMailer{}, newFakeOTPStore(), newFakeStorage())

	user, tokenStr, err := svc.AdminLogin("admin@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NotEmpty(t, tokenStr)
}

func TestGoogleLogin_CreatesVerifiedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(
		repo,
		utils.NewJWTUtil("test-secret", time.Hour),
		&fakeMailer{},
		newFakeOTPStore(),
		newFakeCache(),
		newFakeStorage(),
		&fakeGoogleVerifier{email: "g@example.com", name: "Google User"},
		"https://carbonshredder.com/activation",
	)

	user, tokenStr, err := svc.GoogleLogin("id-token")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.True(t, user.IsVerified)
	assert.Equal(t, models.RoleUser, user.Role)

	// повторный вход находит тот же аккаунт
	again, _, err := svc.GoogleLogin("id-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestForgotPassword_StoresAndMailsOTP(t *testing.T) {
	repo := newFakeUserRepo(hashedUser("thijn@example.com", "secret123"))
	mailer := &fakeMailer{}
	otp := newFakeOTPStore()
	svc := newTestAuthService(repo, mailer, otp, newFakeStorage())

	require.NoError(t, svc.ForgotPassword("thijn@example.com"))

	code := otp.codes["thijn@example.com"]
	require.Len(t, code, 6)
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].body, code)
}

func TestForgotPassword_UnknownUser(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), &fakeMailer{}, newFakeOTPStore(), newFakeStorage())
	assert.ErrorIs(t, svc.ForgotPassword("nobody@example.com"), ErrUserNotFound)
}

func TestResetPassword_ConsumesCodeOnFirstAttempt(t *testing.T) {
	repo := newFakeUserRepo(hashedUser("thijn@example.com", "secret123"))
	otp := newFakeOTPStore()
	svc := newTestAuthService(repo, &fakeMailer{}, otp, newFakeStorage())

	require.NoError(t, svc.ForgotPassword("thijn@example.com"))
	code := otp.codes["thijn@example.com"]

	// неверная попытка сжигает код
	assert.ErrorIs(t, svc.ResetPassword("thijn@example.com", "000000", "newpass123"), ErrInvalidOTP)
	assert.ErrorIs(t, svc.ResetPassword("thijn@example.com", code, "newpass123"), ErrInvalidOTP)
}

func TestResetPassword_NewCodeSupersedesOld(t *testing.T) {
	repo := newFakeUserRepo(hashedUser("thijn@example.com", "secret123"))
	otp := newFakeOTPStore()
	svc := newTestAuthService(repo, &fakeMailer{}, otp, newFakeStorage())

	require.NoError(t, svc.ForgotPassword("thijn@example.com"))
	first := otp.codes["thijn@example.com"]
	require.NoError(t, svc.ForgotPassword("thijn@example.com"))
	second := otp.codes["thijn@example.com"]
	require.NotEqual(t, first, second)

	assert.ErrorIs(t, svc.ResetPassword("thijn@example.com", first, "newpass123"), ErrInvalidOTP)
}

func TestResetPassword_UpdatesHash(t *testing.T) {
	user := hashedUser("thijn@example.com", "secret123")
	repo := newFakeUserRepo(user)
	otp := newFakeOTPStore()
	svc := newTestAuthService(repo, &fakeMailer{}, otp, newFakeStorage())

	require.NoError(t, svc.ForgotPassword("thijn@example.com"))
	code := otp.codes["thijn@example.com"]

	require.NoError(t, svc.ResetPassword("thijn@example.com", code, "newpass123"))
	assert.NoError(t, user.ComparePassword("newpass123"))
	assert.Error(t, user.ComparePassword("secret123"))
}

func TestGetProfile_CachesRead(t *testing.T) {
	user := hashedUser("thijn@example.com", "secret123")
	repo := newFakeUserRepo(user)
	svc := newTestAuthService(repo, &fakeMailer{}, newFakeOTPStore(), newFakeStorage())

	first, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thijn", first.Name)

	// правка мимо сервиса не видна, пока жив кеш
	user.Name = "Changed Behind Cache"
	second, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thijn", second.Name)
}

func TestUpdateProfile_WrongPasswordDiscardsNewAvatar(t *testing.T) {
	user := hashedUser("thijn@example.com", "secret123")
	repo := newFakeUserRepo(user)
	store := newFakeStorage()
	svc := newTestAuthService(repo, &fakeMailer{}, newFakeOTPStore(), store)

	_, err := svc.UpdateProfile(user.ID, UpdateProfileInput{
		Name:            "Thijn",
		Email:           "thijn@example.com",
		Country:         "NL",
		CurrentPassword: "wrong-password",
		Avatar:          "new-avatar.png",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Contains(t, store.deleted, "new-avatar.png")
}

func TestUpdateProfile_ReplacesAvatarAndDeletesOld(t *testing.T) {
	user := hashedUser("thijn@example.com", "secret123")
	user.Avatar = "old-avatar.png"
	repo := newFakeUserRepo(user)
	store := newFakeStorage()
	svc := newTestAuthService(repo, &fakeMailer{}, newFakeOTPStore(), store)

	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{
		Name:            "Thijn F",
		Email:           "thijn@example.com",
		Country:         "DE",
		CurrentPassword: "secret123",
		Avatar:          "new-avatar.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Thijn F", updated.Name)
	assert.Equal(t, "DE", updated.Country)
	assert.Equal(t, "new-avatar.png", updated.Avatar)
	assert.Contains(t, store.deleted, "old-avatar.png")
}

func TestLogout_BlacklistsJTI(t *testing.T) {
	repo := newFakeUserRepo(hashedUser("thijn@example.com", "secret123"))
	cache := newFakeCache()
	svc := NewAuthService(
		repo,
		utils.NewJWTUtil("test-secret", time.Hour),
		&fakeMailer{},
		newFakeOTPStore(),
		cache,
		newFakeStorage(),
		&fakeGoogleVerifier{},
		"https://carbonshredder.com/activation",
	)

	_, tokenStr, err := svc.Login("thijn@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(tokenStr))

	found := false
	for key := range cache.data {
		if len(key) > len("blacklist:") && key[:len("blacklist:")] == "blacklist:" {
			found = true
		}
	}
	assert.True(t, found, "jti должен попасть в blacklist")
}

func TestLogout_RejectsGarbageToken(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), &fakeMailer{}, newFakeOTPStore(), newFakeStorage())
	assert.Error(t, svc.Logout("not-a-jwt"))
}
