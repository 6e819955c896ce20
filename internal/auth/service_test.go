package auth_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/payrollhq/payroll-management/internal"
	"github.com/payrollhq/payroll-management/internal/auth"
)

// mockUserRepository is an in-memory Repository keyed by email. Absent
// records are reported through the same sentinel the real repository uses.
type mockUserRepository struct {
	byEmail map[string]*auth.User
	nextID  int64
	failAll bool
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{byEmail: make(map[string]*auth.User)}
}

func (m *mockUserRepository) Create(user *auth.User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return auth.ErrUserExists
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepository) GetByEmail(email string) (*auth.User, error) {
	if m.failAll {
		return nil, errors.New("storage failure")
	}
	user, ok := m.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByID(id int64) (*auth.User, error) {
	if m.failAll {
		return nil, errors.New("storage failure")
	}
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	for _, user := range m.byEmail {
		if user.Email == email || user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

var _ = Describe("AuthService", func() {
	var (
		repo    *mockUserRepository
		service *auth.Service
	)

	const secret = "test-secret-key-for-unit-tests-only-0001"

	signupDTO := func() auth.SignupDTO {
		return auth.SignupDTO{
			FullName: "Ada Mensah",
			Email:    "ada@payroll.local",
			Username: "ada",
			Password: "s3cret-pass",
		}
	}

	BeforeEach(func() {
		repo = newMockUserRepository()
		tokenGen := auth.NewJWTTokenGenerator(secret, time.Hour)
		service = auth.NewService(repo, tokenGen, bcrypt.MinCost)
	})

	Describe("Signup", func() {
		It("should create a user with a hashed password and default role", func() {
			user, err := service.Signup(signupDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal("1"))
			Expect(user.Email).To(Equal("ada@payroll.local"))
			Expect(user.Role).To(Equal("Finance Officer"))

			stored := repo.byEmail["ada@payroll.local"]
			Expect(stored.PasswordHash).NotTo(Equal("s3cret-pass"))
			Expect(bcrypt.CompareHashAndPassword(
				[]byte(stored.PasswordHash), []byte("s3cret-pass"),
			)).To(Succeed())
		})

		It("should lowercase email and username", func() {
			dto := signupDTO()
			dto.Email = "  ADA@Payroll.Local "
			dto.Username = "ADA"

			user, err := service.Signup(dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("ada@payroll.local"))
			Expect(user.Username).To(Equal("ada"))
		})

		It("should reject missing fields", func() {
			dto := signupDTO()
			dto.Password = ""

			_, err := service.Signup(dto)

			Expect(err).To(Equal(auth.ErrMissingFields))
		})

		It("should conflict on a duplicate email", func() {
			_, err := service.Signup(signupDTO())
			Expect(err).NotTo(HaveOccurred())

			dto := signupDTO()
			dto.Username = "other"
			_, err = service.Signup(dto)

			Expect(err).To(Equal(auth.ErrUserExists))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("should conflict on a duplicate username", func() {
			_, err := service.Signup(signupDTO())
			Expect(err).NotTo(HaveOccurred())

			dto := signupDTO()
			dto.Email = "other@payroll.local"
			_, err = service.Signup(dto)

			Expect(err).To(Equal(auth.ErrUserExists))
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			_, err := service.Signup(signupDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return a token whose claims identify the user", func() {
			token, err := service.Authenticate(auth.LoginDTO{
				Email:    "ada@payroll.local",
				Password: "s3cret-pass",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("1"))
			Expect(claims.Email).To(Equal("ada@payroll.local"))
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "ada@payroll.local",
				Password: "wrong",
			})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown email with the same error as a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@payroll.local",
				Password: "s3cret-pass",
			})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(401))
		})

		It("should reject missing credentials", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "ada@payroll.local"})

			Expect(err).To(Equal(auth.ErrMissingFields))
		})

		It("should surface a storage failure as an internal error, not bad credentials", func() {
			repo.failAll = true

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "ada@payroll.local",
				Password: "s3cret-pass",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("Profile", func() {
		It("should return the caller's own profile", func() {
			_, err := service.Signup(signupDTO())
			Expect(err).NotTo(HaveOccurred())

			profile, err := service.Profile("1")

			Expect(err).NotTo(HaveOccurred())
			Expect(profile.FullName).To(Equal("Ada Mensah"))
			Expect(profile.Email).To(Equal("ada@payroll.local"))
		})

		It("should report a since-deleted user as not found", func() {
			_, err := service.Profile("99")

			Expect(err).To(Equal(auth.ErrUserNotFound))
		})

		It("should report a malformed user ID as not found", func() {
			_, err := service.Profile("abc")

			Expect(err).To(Equal(auth.ErrUserNotFound))
		})

		It("should surface a storage failure as an internal error, not as not found", func() {
			_, err := service.Signup(signupDTO())
			Expect(err).NotTo(HaveOccurred())

			repo.failAll = true

			_, err = service.Profile("1")

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should reject garbage tokens", func() {
			_, err := service.ValidateAccessToken("not.a.token")

			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("should reject expired tokens specifically", func() {
			expiredGen := auth.NewJWTTokenGenerator(secret, -time.Minute)
			token, err := expiredGen.GenerateAccessToken("1", "ada@payroll.local")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)

			Expect(err).To(Equal(auth.ErrTokenExpired))
		})

		It("should reject tokens signed with a different secret", func() {
			otherGen := auth.NewJWTTokenGenerator("another-secret-key-of-sufficient-len", time.Hour)
			token, err := otherGen.GenerateAccessToken("1", "ada@payroll.local")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)

			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})
})
