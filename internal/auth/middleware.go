package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/domain"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/session"
	apperrors "github.com/deepkumarpeerislands/smart-onboarding-service-sub007/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and resolves principals. When the
// token's session is still present in the session store the caller gets an
// enriched principal carrying the session id and the session role list;
// otherwise it falls back to a basic principal built from the token's own
// authority claims.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions session.Store
	logger   *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions session.Store, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := m.resolvePrincipal(c, claims)
	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *AuthMiddleware) resolvePrincipal(c *fiber.Ctx, claims *Claims) *domain.Principal {
	if claims.SessionID != "" && m.sessions != nil {
		sess, err := m.sessions.Get(c.Context(), claims.Subject, claims.SessionID)
		if err != nil {
			m.logger.Warn("session lookup failed; using token authorities",
				zap.String("user", claims.Subject),
				zap.Error(err),
			)
		}
		if sess != nil {
			return &domain.Principal{
				Kind:      domain.PrincipalEnriched,
				Email:     claims.Subject,
				SessionID: sess.SessionID,
				Roles:     sess.Roles,
			}
		}
	}

	return &domain.Principal{
		Kind:        domain.PrincipalBasic,
		Email:       claims.Subject,
		Authorities: claims.Roles,
	}
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
