package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/iblisbuu/gracenode-wallet/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func setupAuthServer(t *testing.T) (*testServer, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/user", RegisterHandler(gdb))
	r.GET("/user", LoginHandler(gdb, testSecret, time.Hour))
	r.GET("/admin/users", ListUsersHandler(gdb, nil))
	return &testServer{router: r}, mock
}

func TestRegisterHandler_Validation(t *testing.T) {
	s, mock := setupAuthServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing password", RegisterRequest{Username: "alice"}},
		{"non alphabetic username", RegisterRequest{Username: "alice1", Password: "password1"}},
		{"short password", RegisterRequest{Username: "alice", Password: "short"}},
		{"long password", RegisterRequest{Username: "alice", Password: "averyveryverylongpassword"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/user", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterHandler_Creates(t *testing.T) {
	s, mock := setupAuthServer(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	w := s.do(t, http.MethodPost, "/user", RegisterRequest{Username: "Alice", Password: "password1"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	s, mock := setupAuthServer(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	w := s.do(t, http.MethodPost, "/user", RegisterRequest{Username: "alice", Password: "password1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginHandler(t *testing.T) {
	s, mock := setupAuthServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	userRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "password", "role", "created_at"}).
			AddRow(3, "alice", string(hash), "admin", 1000)
	}

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows())
	w := s.do(t, http.MethodGet, "/user", LoginRequest{Username: "Alice", Password: "password1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	decode(t, w, &resp)
	assert.Equal(t, "admin", resp.Role)
	claims, err := utils.ParseJWT(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows())
	w = s.do(t, http.MethodGet, "/user", LoginRequest{Username: "alice", Password: "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	w = s.do(t, http.MethodGet, "/user", LoginRequest{Username: "bob", Password: "password1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersHandler(t *testing.T) {
	s, mock := setupAuthServer(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role", "created_at"}).
			AddRow(1, "root", "x", "admin", 1000).
			AddRow(2, "alice", "y", "user", 2000))

	w := s.do(t, http.MethodGet, "/admin/users?page_size=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Users usersPage `json:"users"`
	}
	decode(t, w, &body)
	assert.Equal(t, int64(2), body.Users.Total)
	assert.Equal(t, 2, body.Users.TotalPages)
	require.Len(t, body.Users.Users, 2)
	assert.Equal(t, "alice", body.Users.Users[1].Username)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NoError(t, mock.ExpectationsWereMet())
}
