package category_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/category"
	categoryPostgres "github.com/frahmantamala/budgetwise/internal/category/postgres"
	userDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/user"
	"github.com/frahmantamala/budgetwise/internal/core/testdb"
	"github.com/frahmantamala/budgetwise/internal/transport"
	"github.com/frahmantamala/budgetwise/internal/transport/middleware"
	"github.com/frahmantamala/budgetwise/internal/user"
	userPostgres "github.com/frahmantamala/budgetwise/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		admin  *userDatamodel.User
		member *userDatamodel.User
	)

	deleteAs := func(userID int64, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, path, nil)
		req = req.WithContext(internal.ContextWithUserID(req.Context(), userID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		db = testdb.MustOpen()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		repo := categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, slogger)
		handler := category.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		users := user.NewService(userPostgres.NewUserRepository(db), slogger)
		router.With(middleware.RequireAdmin(users, slogger)).Delete("/categories/{id}", handler.DeleteCategory)

		admin = &userDatamodel.User{Username: "root", Email: "root@example.com", PasswordHash: "x", IsAdmin: true}
		member = &userDatamodel.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
		Expect(db.Create(admin).Error).To(Succeed())
		Expect(db.Create(member).Error).To(Succeed())

		for _, name := range []string{"Transport", "Food"} {
			req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"`+name+`"}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusCreated))
		}
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	It("lists categories ordered by name", func() {
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Categories).To(HaveLen(2))
		Expect(response.Categories[0].Name).To(Equal("Food"))
		Expect(response.Categories[1].Name).To(Equal("Transport"))
	})

	It("returns 409 for a duplicate name", func() {
		req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Food"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("CATEGORY_EXISTS"))
	})

	It("returns 400 for malformed JSON", func() {
		req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("deletes a category and returns 404 the second time", func() {
		Expect(deleteAs(admin.ID, "/categories/1").Code).To(Equal(http.StatusOK))
		Expect(deleteAs(admin.ID, "/categories/1").Code).To(Equal(http.StatusNotFound))
	})

	It("forbids deletion by a regular user and keeps the category", func() {
		w := deleteAs(member.ID, "/categories/1")
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).To(ContainSubstring("ADMIN_REQUIRED"))

		var count int64
		Expect(db.Table("categories").Where("id = ?", 1).Count(&count).Error).To(Succeed())
		Expect(count).To(Equal(int64(1)))
	})

	It("rejects a non-numeric id", func() {
		Expect(deleteAs(admin.ID, "/categories/abc").Code).To(Equal(http.StatusBadRequest))
	})
})
