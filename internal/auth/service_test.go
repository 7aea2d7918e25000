package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/core/testdb"
	"github.com/frahmantamala/budgetwise/internal/transport"
	"github.com/frahmantamala/budgetwise/internal/user"
	userPostgres "github.com/frahmantamala/budgetwise/internal/user/postgres"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

const (
	accessSecret  = "test-access-secret-0123456789abcdef"
	refreshSecret = "test-refresh-secret-0123456789abcdef"
)

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var gen *JWTTokenGenerator

	ginkgo.BeforeEach(func() {
		gen = NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 24*time.Hour)
	})

	ginkgo.It("round-trips the user id and username in an access token", func() {
		token, err := gen.GenerateAccessToken(42, "alice")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := gen.ValidateAccessToken(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.UserID).To(gomega.Equal(int64(42)))
		gomega.Expect(claims.Username).To(gomega.Equal("alice"))
		gomega.Expect(claims.Subject).To(gomega.Equal("42"))
	})

	ginkgo.It("does not accept a refresh token as an access token", func() {
		refresh, err := gen.GenerateRefreshToken(42, "alice")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = gen.ValidateAccessToken(refresh)
		gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))

		claims, err := gen.ValidateRefreshToken(refresh)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.TokenType).To(gomega.Equal(TokenTypeRefresh))
	})

	ginkgo.It("reports expiry separately from malformed tokens", func() {
		// Given
		token, err := gen.GenerateAccessToken(1, "alice")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		// When
		gen.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, expiredErr := gen.ValidateAccessToken(token)
		_, malformedErr := gen.ValidateAccessToken("invalid.token")

		// Then
		gomega.Expect(expiredErr).To(gomega.Equal(errors.ErrTokenExpired))
		gomega.Expect(malformedErr).To(gomega.Equal(errors.ErrInvalidToken))
	})

	ginkgo.It("rejects tokens signed with another secret", func() {
		other := NewJWTTokenGenerator("another-access-secret-0123456789ab", refreshSecret, time.Minute, time.Hour)
		token, err := other.GenerateAccessToken(1, "alice")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = gen.ValidateAccessToken(token)
		gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))
	})
})

var _ = ginkgo.Describe("AuthService", func() {
	var (
		db      *gorm.DB
		service *Service
		ctx     context.Context
		logger  *slog.Logger
	)

	ginkgo.BeforeEach(func() {
		db = testdb.MustOpen()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		users := user.NewService(userPostgres.NewUserRepository(db), logger)
		tokens := NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 24*time.Hour)
		service = NewService(users, tokens, bcrypt.MinCost, logger)
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	register := func() *user.User {
		u, err := service.Register(ctx, RegisterDTO{
			Username: "alice",
			Email:    "Alice@Example.com",
			Password: "correct-horse",
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return u
	}

	ginkgo.Describe("Register", func() {
		ginkgo.It("stores a bcrypt hash and a lowercased email", func() {
			u := register()

			gomega.Expect(u.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(u.Email).To(gomega.Equal("alice@example.com"))
			gomega.Expect(u.PasswordHash).ToNot(gomega.Equal("correct-horse"))
			gomega.Expect(VerifyPassword(u.PasswordHash, "correct-horse")).To(gomega.Succeed())
		})

		ginkgo.It("rejects a duplicate email before a duplicate username", func() {
			register()

			_, err := service.Register(ctx, RegisterDTO{Username: "alice", Email: "alice@example.com", Password: "correct-horse"})
			gomega.Expect(err).To(gomega.Equal(errors.ErrEmailTaken))

			_, err = service.Register(ctx, RegisterDTO{Username: "alice", Email: "other@example.com", Password: "correct-horse"})
			gomega.Expect(err).To(gomega.Equal(errors.ErrUsernameTaken))
		})

		ginkgo.It("validates the payload", func() {
			_, err := service.Register(ctx, RegisterDTO{Username: "", Email: "not-an-email", Password: "short"})

			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(errors.ErrorTypeValidation))
			details := appErr.Details.(errors.ValidationErrors)
			gomega.Expect(details.Errors).To(gomega.HaveLen(3))
		})
	})

	ginkgo.Describe("Login", func() {
		ginkgo.BeforeEach(func() {
			register()
		})

		ginkgo.It("returns the user and a usable token pair", func() {
			// When
			u, tokens, err := service.Login(ctx, LoginDTO{Email: "alice@example.com", Password: "correct-horse"})

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Username).To(gomega.Equal("alice"))
			gomega.Expect(tokens.TokenType).To(gomega.Equal("Bearer"))
			gomega.Expect(tokens.ExpiresIn).To(gomega.Equal(int64(900)))

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal(u.ID))
		})

		ginkgo.It("fails the same way for a wrong password and an unknown email", func() {
			_, _, err := service.Login(ctx, LoginDTO{Email: "alice@example.com", Password: "wrong"})
			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidCredentials))

			_, _, err = service.Login(ctx, LoginDTO{Email: "nobody@example.com", Password: "correct-horse"})
			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidCredentials))
		})

		ginkgo.It("requires both fields", func() {
			_, _, err := service.Login(ctx, LoginDTO{Email: "alice@example.com"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
		})
	})

	ginkgo.Describe("Refresh", func() {
		ginkgo.It("issues a new pair for a valid refresh token", func() {
			register()
			_, tokens, err := service.Login(ctx, LoginDTO{Email: "alice@example.com", Password: "correct-horse"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			fresh, err := service.Refresh(ctx, RefreshTokenDTO{RefreshToken: tokens.RefreshToken})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(fresh.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("rejects an access token", func() {
			register()
			_, tokens, err := service.Login(ctx, LoginDTO{Email: "alice@example.com", Password: "correct-horse"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Refresh(ctx, RefreshTokenDTO{RefreshToken: tokens.AccessToken})
			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))
		})

		ginkgo.It("rejects a token for a user that no longer exists", func() {
			gen := NewJWTTokenGenerator(accessSecret, refreshSecret, time.Minute, time.Hour)
			token, err := gen.GenerateRefreshToken(999, "ghost")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Refresh(ctx, RefreshTokenDTO{RefreshToken: token})
			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var (
			handler *Handler
			seen    int64
			next    http.Handler
		)

		ginkgo.BeforeEach(func() {
			handler = NewHandler(transport.NewBaseHandler(logger), service)
			seen = 0
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = errors.UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})
		})

		call := func(authorization string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
			if authorization != "" {
				req.Header.Set("Authorization", authorization)
			}
			w := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(w, req)
			return w
		}

		ginkgo.It("puts the token's user id on the request context", func() {
			u := register()
			_, tokens, err := service.Login(ctx, LoginDTO{Email: "alice@example.com", Password: "correct-horse"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			w := call("Bearer " + tokens.AccessToken)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(seen).To(gomega.Equal(u.ID))
		})

		ginkgo.It("returns 401 without a token", func() {
			w := call("")
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(seen).To(gomega.BeZero())
		})

		ginkgo.It("returns 401 with a garbage token", func() {
			w := call("Bearer nope")
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))

			var body map[string]map[string]interface{}
			gomega.Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body["error"]["code"]).To(gomega.Equal("INVALID_TOKEN"))
		})
	})

	ginkgo.Describe("Handler", func() {
		ginkgo.It("registers then logs in over HTTP", func() {
			handler := NewHandler(transport.NewBaseHandler(logger), service)

			req := httptest.NewRequest(http.MethodPost, "/auth/register",
				strings.NewReader(`{"username":"bob","email":"bob@example.com","password":"hunter22!"}`))
			w := httptest.NewRecorder()
			handler.Register(w, req)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusCreated))

			req = httptest.NewRequest(http.MethodPost, "/auth/login",
				strings.NewReader(`{"email":"bob@example.com","password":"hunter22!"}`))
			w = httptest.NewRecorder()
			handler.Login(w, req)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

			var body map[string]interface{}
			gomega.Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body["username"]).To(gomega.Equal("bob"))
			gomega.Expect(body["message"]).To(gomega.Equal("Welcome bob"))
			gomega.Expect(body["access_token"]).ToNot(gomega.BeEmpty())
		})
	})
})
