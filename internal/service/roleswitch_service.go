package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/auth"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/config"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/domain"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/events"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/repository"
	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/session"
	apperrors "github.com/deepkumarpeerislands/smart-onboarding-service-sub007/pkg/util"
)

// SwitchResult is returned after a completed switch.
type SwitchResult struct {
	Username   string
	FirstName  string
	LastName   string
	ActiveRole string
	Roles      []string
	Token      string
	Email      string
	ExpiresAt  time.Time
}

// switchContext threads immutable per-request state through the pipeline
// stages. It is built once at entry and never mutated or shared.
type switchContext struct {
	email            string
	requestedRole    string
	normalizedRole   string
	currentSessionID string
	availableRoles   []string
	newSessionID     string
}

// RoleSwitchService sequences validation, old-session invalidation, role
// persistence, new-session creation and token issuance.
//
// No cross-store transaction spans the user store and the session store, and
// no mutual exclusion is enforced across concurrent switches for the same
// user: two concurrent switches can both validate against a stale role
// snapshot, both persist (last write wins) and both create valid sessions.
// The session store is the authoritative record of the current token; the
// persisted active role is denormalized state for display and recovery.
type RoleSwitchService struct {
	users      repository.UserRepository
	sessions   session.Store
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	rolePrefix string
	sessionTTL time.Duration
}

// RoleSwitchDependencies encapsulates collaborators for the service.
type RoleSwitchDependencies struct {
	UserRepo     repository.UserRepository
	SessionStore session.Store
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewRoleSwitchService builds the service.
func NewRoleSwitchService(cfg config.AuthConfig, deps RoleSwitchDependencies) *RoleSwitchService {
	prefix := cfg.RolePrefix
	if prefix == "" {
		prefix = auth.DefaultRolePrefix
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleSwitchService{
		users:      deps.UserRepo,
		sessions:   deps.SessionStore,
		tokens:     deps.TokenManager,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		rolePrefix: prefix,
		sessionTTL: cfg.SessionTTL(),
	}
}

// SwitchRole runs the switch pipeline for the caller.
//
// Stages run in a fixed order: validate, invalidate the old session
// (best-effort), persist the new active role, create the new session, issue
// the token. A session-creation failure is reported after the role has
// already been persisted; that inconsistency window is intentional and the
// session TTL bounds its blast radius.
func (s *RoleSwitchService) SwitchRole(ctx context.Context, principal *domain.Principal, requestedRole string) (*SwitchResult, error) {
	sc, err := s.validate(principal, requestedRole)
	if err != nil {
		return nil, err
	}

	s.invalidateOld(ctx, sc)

	user, err := s.persistRole(ctx, sc)
	if err != nil {
		return nil, err
	}

	if err := s.createSession(ctx, sc, user); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.Email, user.Roles, user.ActiveRole, sc.newSessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &SwitchResult{
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		ActiveRole: user.ActiveRole,
		Roles:      user.Roles,
		Token:      token,
		Email:      user.Email,
		ExpiresAt:  expiresAt,
	}, nil
}

// validate checks the requested role against the caller's available roles
// and builds the immutable switch context. No side effects on failure.
func (s *RoleSwitchService) validate(principal *domain.Principal, requestedRole string) (switchContext, error) {
	available := principal.AvailableRoles()
	if !auth.IsAvailable(requestedRole, available, s.rolePrefix) {
		return switchContext{}, apperrors.NewPermissionDenied("requested role not available to user")
	}

	normalized := auth.Normalize(requestedRole, s.rolePrefix)
	return switchContext{
		email:            principal.Email,
		requestedRole:    requestedRole,
		normalizedRole:   normalized,
		currentSessionID: principal.CurrentSessionID(),
		availableRoles:   available,
		newSessionID:     s.sessions.NewIdentifier(),
	}, nil
}

// invalidateOld removes the caller's previous session entry. Best-effort: an
// already-absent or unreachable old session never halts the pipeline.
func (s *RoleSwitchService) invalidateOld(ctx context.Context, sc switchContext) {
	if sc.currentSessionID == "" {
		return
	}

	found, err := s.sessions.Invalidate(ctx, sc.email, sc.currentSessionID)
	if err != nil {
		s.logger.Warn("failed to invalidate old session",
			zap.String("user", sc.email),
			zap.String("session_id", sc.currentSessionID),
			zap.Error(err),
		)
		return
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionInvalidated,
		UserEmail: sc.email,
		Timestamp: time.Now(),
		Payload:   events.SessionInvalidatedPayload{SessionID: sc.currentSessionID, Found: found},
	})
}

// persistRole loads the user and commits the new active role. This is the
// authoritative state change; failure after this point does not roll it back.
func (s *RoleSwitchService) persistRole(ctx context.Context, sc switchContext) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, sc.email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.MapError(err)
	}

	oldRole := user.ActiveRole
	user.ActiveRole = auth.Strip(sc.normalizedRole, s.rolePrefix)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRoleSwitched,
		UserEmail: user.Email,
		Timestamp: time.Now(),
		Payload: events.RoleSwitchedPayload{
			OldActiveRole: oldRole,
			NewActiveRole: user.ActiveRole,
			SessionID:     sc.newSessionID,
		},
	})
	return user, nil
}

// createSession writes the new session entry. Fatal on failure; the role
// persisted in the previous stage stays committed.
func (s *RoleSwitchService) createSession(ctx context.Context, sc switchContext, user *domain.User) error {
	sess := domain.Session{
		UserID:     user.Email,
		SessionID:  sc.newSessionID,
		ActiveRole: sc.normalizedRole,
		Roles:      auth.PrefixAll(user.Roles, s.rolePrefix),
		CreatedAt:  time.Now(),
	}
	if err := s.sessions.Create(ctx, sess, s.sessionTTL); err != nil {
		return apperrors.NewSessionStoreFailure("failed to create session", err)
	}
	return nil
}

func (s *RoleSwitchService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
