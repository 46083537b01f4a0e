package services

import (
	"errors"
	"testing"

	"storeroom_backend/internal/models"
	"storeroom_backend/internal/repositories"
	"storeroom_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[int64]models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]models.User{}}
}

func (r *fakeUserRepo) addUser(t *testing.T, username, password, role string, isStaff, isActive bool) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	r.nextID++
	r.users[r.nextID] = models.User{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsStaff:      isStaff,
		IsActive:     isActive,
	}
	return r.nextID
}

func (r *fakeUserRepo) CreateUser(_ repositories.SQLExecutor, user *models.User) (int64, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) FindUserByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindUserByID(userID int64) (*models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetUsers() ([]models.User, error) {
	users := []models.User{}
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(_ repositories.SQLExecutor, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ repositories.SQLExecutor, userID int64) error {
	if _, ok := r.users[userID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, userID)
	return nil
}

func TestLoginIssuesTokensWithNormalizedRole(t *testing.T) {
	repo := newFakeUserRepo()
	// Role left empty on purpose: the staff flag decides the claim.
	repo.addUser(t, "admin", "correct-horse", "", true, true)
	repo.addUser(t, "operator", "battery-staple", "", false, true)

	svc := NewAuthService(repo)

	cases := []struct {
		username string
		password string
		wantRole string
	}{
		{"admin", "correct-horse", models.RoleAdministrator},
		{"operator", "battery-staple", models.RoleOperator},
	}

	for _, tc := range cases {
		resp, err := svc.LoginUser(LoginRequest{Username: tc.username, Password: tc.password})
		if err != nil {
			t.Fatalf("login %s: %v", tc.username, err)
		}
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Fatalf("login %s: expected both tokens", tc.username)
		}
		if resp.User.PasswordHash != "" {
			t.Errorf("login %s: password hash leaked in response", tc.username)
		}

		claims, err := utils.ValidateToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("validate access token for %s: %v", tc.username, err)
		}
		if claims.Role != tc.wantRole {
			t.Errorf("login %s: token role = %s, want %s", tc.username, claims.Role, tc.wantRole)
		}
		if claims.Username != tc.username {
			t.Errorf("login %s: token username = %s", tc.username, claims.Username)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser(t, "admin", "correct-horse", models.RoleAdministrator, true, true)
	repo.addUser(t, "disabled", "some-password", models.RoleOperator, false, false)

	svc := NewAuthService(repo)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown user", "ghost", "whatever"},
		{"inactive user", "disabled", "some-password"},
	}

	for _, tc := range cases {
		if _, err := svc.LoginUser(LoginRequest{Username: tc.username, Password: tc.password}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("%s: error = %v, want ErrInvalidCredentials", tc.name, err)
		}
	}
}

func TestRefreshTokenFlow(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser(t, "operator", "battery-staple", models.RoleOperator, false, true)

	svc := NewAuthService(repo)
	login, err := svc.LoginUser(LoginRequest{Username: "operator", Password: "battery-staple"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.RefreshToken(RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := utils.ValidateToken(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("validate refreshed access token: %v", err)
	}
	if claims.Role != models.RoleOperator {
		t.Errorf("refreshed token role = %s, want OPERATOR", claims.Role)
	}

	if _, err := svc.RefreshToken(RefreshRequest{RefreshToken: "not-a-token"}); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("garbage refresh token: error = %v, want ErrInvalidRefresh", err)
	}
	// An access token must not mint a fresh pair.
	if _, err := svc.RefreshToken(RefreshRequest{RefreshToken: login.AccessToken}); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("access token on refresh: error = %v, want ErrInvalidRefresh", err)
	}
}

func TestGetUserProfileHidesPasswordHash(t *testing.T) {
	repo := newFakeUserRepo()
	id := repo.addUser(t, "operator", "battery-staple", models.RoleOperator, false, true)

	svc := NewAuthService(repo)
	user, err := svc.GetUserProfile(id)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("password hash exposed on profile")
	}
	if user.Username != "operator" {
		t.Errorf("username = %s, want operator", user.Username)
	}

	if _, err := svc.GetUserProfile(999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: error = %v, want ErrUserNotFound", err)
	}
}
