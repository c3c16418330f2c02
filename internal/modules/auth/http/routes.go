package http

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"auth/internal/modules/auth/domain"
	"auth/internal/modules/auth/infra"
	pg "auth/internal/modules/auth/infra/pg"
	"auth/internal/modules/auth/service"
	plathttp "auth/internal/platform/http"
	"auth/internal/platform/security"
)

// Module wires up dependencies for the auth HTTP module.
type Module struct {
	registration *service.RegistrationService
	recovery     *service.RecoveryService
	users        *service.UserService
	sessions     *service.SessionRegistry
	jwtMgr       *security.JWTManager

	userStore    domain.UserStore
	sessionStore domain.DeviceSessionStore
	hasher       service.PasswordHasher
	mailer       service.Mailer
}

// WithMailer replaces the dev-mode mailer; call before Register.
func (m *Module) WithMailer(ma service.Mailer) *Module {
	m.mailer = ma
	m.rebuild()
	return m
}

// NewModule builds an in-memory module; dev and test wiring.
func NewModule() *Module {
	return newModule(infra.NewMemUserStore(), infra.NewMemSessionStore(),
		"super-secret", 15*time.Minute, 30*24*time.Hour)
}

// NewModulePG builds a Postgres-backed module.
func NewModulePG(db *pgxpool.Pool, jwtSecret string, accessTTL, refreshTTL time.Duration) *Module {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return newModule(pg.NewUserStore(db), pg.NewSessionStore(db), jwtSecret, accessTTL, refreshTTL)
}

func newModule(users domain.UserStore, sessions domain.DeviceSessionStore, jwtSecret string, accessTTL, refreshTTL time.Duration) *Module {
	m := &Module{
		userStore:    users,
		sessionStore: sessions,
		hasher:       security.NewHasher(),
		mailer:       logMailer{},
		jwtMgr:       security.NewJWTManager(jwtSecret, accessTTL, refreshTTL),
	}
	m.rebuild()
	return m
}

func (m *Module) rebuild() {
	m.registration = service.NewRegistrationService(m.userStore, m.hasher, m.mailer)
	m.recovery = service.NewRecoveryService(m.userStore, m.hasher, m.mailer)
	m.users = service.NewUserService(m.userStore, m.hasher)
	m.sessions = service.NewSessionRegistry(m.sessionStore, m.jwtMgr)
}

func (m *Module) Register(r fiber.Router) {
	// -------- public --------
	r.Post("/sign-up", SignUpHandler(m.registration, m.users))
	r.Post("/sign-up/confirm", SignUpConfirmHandler(m.registration))
	r.Post("/sign-up/resend", SignUpResendHandler(m.registration, m.users))
	r.Post("/sign-in", SignInHandler(m.users, m.sessions))
	r.Post("/refresh", RefreshHandler(m.users, m.sessions, m.jwtMgr))
	r.Post("/password-recovery", PasswordRecoveryHandler(m.recovery))
	r.Post("/new-password", NewPasswordHandler(m.recovery))

	// -------- protected --------
	protected := r.Group("", plathttp.JWTAuth(m.jwtMgr))
	protected.Post("/logout", LogoutHandler(m.sessions))
	protected.Get("/user/devices", ListDevicesHandler(m.sessions))
	protected.Delete("/user/devices/others", DeleteOtherDevicesHandler(m.sessions))
	protected.Delete("/user/devices/:device_id", DeleteDeviceHandler(m.sessions))
}

// logMailer drops mail and logs the code; dev-mode default until WithMailer
// is called.
type logMailer struct{}

func (logMailer) SendConfirmationCode(_ context.Context, to, code string) error {
	log.Printf("mail (dev): confirmation code %s -> %s", code, to)
	return nil
}

func (logMailer) SendRecoveryCode(_ context.Context, to, code string) error {
	log.Printf("mail (dev): recovery code %s -> %s", code, to)
	return nil
}
