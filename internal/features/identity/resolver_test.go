package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	accounts_repositories "zidotask/internal/features/accounts/repositories"
	accounts_testing "zidotask/internal/features/accounts/testing"
	identity_providers "zidotask/internal/features/identity/providers"
	"zidotask/internal/util/app_errors"
	"zidotask/internal/util/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAuditLogWriter struct {
	mu       sync.Mutex
	messages []string
}

func (w *recordingAuditLogWriter) WriteAuditLog(message string, _, _, _ *uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.messages = append(w.messages, message)
}

func (w *recordingAuditLogWriter) hasMessageContaining(part string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, message := range w.messages {
		if strings.Contains(message, part) {
			return true
		}
	}

	return false
}

func Test_Resolve_WithNewIdentity_CreatesAccountAndIdentity(t *testing.T) {
	resolver, auditWriter := newTestResolver()
	profile := newTestProfile()

	account, err := resolver.Resolve(context.Background(), "gitea", profile)
	require.NoError(t, err)

	assert.Equal(t, profile.Email, account.Email)
	assert.Equal(t, profile.DisplayName, account.DisplayName)
	assert.False(t, account.HasPassword())
	assert.True(t, account.IsActive())

	identity := getTestIdentity(t, "gitea", profile.ProviderUserID)
	require.NotNil(t, identity)
	assert.Equal(t, account.ID, identity.AccountID)
	assert.Equal(t, profile.Login, identity.Login)
	assert.Equal(t, profile.AccessToken, identity.AccessToken)

	assert.True(t, auditWriter.hasMessageContaining("Account created from gitea identity: "+profile.Login))
}

func Test_Resolve_WithoutEmail_UsesPlaceholderEmail(t *testing.T) {
	resolver, _ := newTestResolver()
	profile := newTestProfile()
	profile.Email = ""
	profile.DisplayName = ""

	account, err := resolver.Resolve(context.Background(), "gitea", profile)
	require.NoError(t, err)

	assert.Equal(t, strings.ToLower(profile.Login)+"@gitea.user", account.Email)
	assert.Equal(t, profile.Login, account.DisplayName)
}

func Test_Resolve_WithKnownIdentity_ReturnsSameAccountAndRefreshesProfile(t *testing.T) {
	resolver, auditWriter := newTestResolver()
	profile := newTestProfile()

	first, err := resolver.Resolve(context.Background(), "gitea", profile)
	require.NoError(t, err)

	profile.Login = profile.Login + "-renamed"
	profile.AccessToken = "refreshed-token"
	profile.DisplayName = "Renamed User"
	profile.AvatarURL = "https://gitea.example.com/avatars/renamed"

	second, err := resolver.Resolve(context.Background(), "gitea", profile)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Renamed User", second.DisplayName)
	require.NotNil(t, second.AvatarURL)
	assert.Equal(t, profile.AvatarURL, *second.AvatarURL)

	identity := getTestIdentity(t, "gitea", profile.ProviderUserID)
	require.NotNil(t, identity)
	assert.Equal(t, profile.Login, identity.Login)
	assert.Equal(t, "refreshed-token", identity.AccessToken)

	stored := accounts_testing.GetTestAccount(first.ID)
	assert.Equal(t, "Renamed User", stored.DisplayName)

	assert.True(t, auditWriter.hasMessageContaining("Account signed in with gitea identity: "+profile.Login))
}

func Test_Resolve_WhenEmailBelongsToUnlinkedAccount_ReturnsIdentityLinkError(t *testing.T) {
	resolver, _ := newTestResolver()
	existing := accounts_testing.CreateTestAccount()

	profile := newTestProfile()
	profile.Email = strings.ToUpper(existing.Email)

	account, err := resolver.Resolve(context.Background(), "gitea", profile)

	assert.Nil(t, account)
	assert.ErrorIs(t, err, app_errors.ErrIdentityLink)
	assert.ErrorIs(t, err, app_errors.IdentityLink("").WithCode("EMAIL_ALREADY_REGISTERED"))
	assert.Nil(t, getTestIdentity(t, "gitea", profile.ProviderUserID))
}

func Test_Resolve_WithSameUserIDOnAnotherProvider_CreatesSeparateAccount(t *testing.T) {
	resolver, _ := newTestResolver()
	profile := newTestProfile()

	first, err := resolver.Resolve(context.Background(), "gitea", profile)
	require.NoError(t, err)

	profile.Email = ""
	second, err := resolver.Resolve(context.Background(), "forgejo", profile)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, strings.ToLower(profile.Login)+"@forgejo.user", second.Email)
}

func Test_Resolve_WithIncompleteProfile_ReturnsValidationError(t *testing.T) {
	resolver, _ := newTestResolver()

	_, err := resolver.Resolve(context.Background(), "gitea", &identity_providers.Profile{Login: "nobody"})

	assert.ErrorIs(t, err, app_errors.ErrValidation)
}

func Test_Resolve_WhenCalledConcurrentlyInProcess_ReturnsOneAccount(t *testing.T) {
	resolver, _ := newTestResolver()
	profile := newTestProfile()

	accountIDs := resolveConcurrently(t, []*IdentityResolver{resolver}, profile, 8)

	for _, accountID := range accountIDs {
		assert.Equal(t, accountIDs[0], accountID)
	}
}

func Test_Resolve_WhenCallerContextIsCancelled_SharedResolutionStillCompletes(t *testing.T) {
	resolver, _ := newTestResolver()
	profile := newTestProfile()

	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	account, err := resolver.Resolve(cancelledCtx, "gitea", profile)
	require.NoError(t, err)

	again, err := resolver.Resolve(context.Background(), "gitea", profile)
	require.NoError(t, err)
	assert.Equal(t, account.ID, again.ID)

	identity := getTestIdentity(t, "gitea", profile.ProviderUserID)
	require.NotNil(t, identity)
	assert.Equal(t, account.ID, identity.AccountID)
}

func Test_Resolve_WhenResolversRaceAcrossProcesses_ConvergeOnOneAccount(t *testing.T) {
	first, _ := newTestResolver()
	second, _ := newTestResolver()
	third, _ := newTestResolver()
	profile := newTestProfile()

	accountIDs := resolveConcurrently(t, []*IdentityResolver{first, second, third}, profile, 6)

	for _, accountID := range accountIDs {
		assert.Equal(t, accountIDs[0], accountID)
	}

	identity := getTestIdentity(t, "gitea", profile.ProviderUserID)
	require.NotNil(t, identity)
	assert.Equal(t, accountIDs[0], identity.AccountID)
}

func newTestResolver() (*IdentityResolver, *recordingAuditLogWriter) {
	auditWriter := &recordingAuditLogWriter{}

	resolver := &IdentityResolver{
		identityRepository: &ExternalIdentityRepository{},
		accountRepository:  &accounts_repositories.AccountRepository{},
		auditLogWriter:     auditWriter,
		logger:             logger.GetLogger(),
	}

	return resolver, auditWriter
}

func newTestProfile() *identity_providers.Profile {
	suffix := uuid.New().String()[:8]

	return &identity_providers.Profile{
		ProviderUserID: fmt.Sprintf("%d", uuid.New().ID()),
		Login:          "octo-" + suffix,
		Email:          fmt.Sprintf("octo-%s@test.com", suffix),
		DisplayName:    "Octo " + suffix,
		AvatarURL:      "https://gitea.example.com/avatars/" + suffix,
		AccessToken:    "token-" + suffix,
	}
}

// resolveConcurrently spreads calls over the resolvers and returns the
// resolved account IDs. Every call must succeed.
func resolveConcurrently(
	t *testing.T,
	resolvers []*IdentityResolver,
	profile *identity_providers.Profile,
	calls int,
) []uuid.UUID {
	t.Helper()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		accountIDs []uuid.UUID
		errs       []error
	)

	for i := range calls {
		wg.Add(1)

		go func(resolver *IdentityResolver) {
			defer wg.Done()

			profileCopy := *profile
			account, err := resolver.Resolve(context.Background(), "gitea", &profileCopy)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, err)
				return
			}

			accountIDs = append(accountIDs, account.ID)
		}(resolvers[i%len(resolvers)])
	}

	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, accountIDs, calls)

	return accountIDs
}

func getTestIdentity(t *testing.T, provider, providerUserID string) *ExternalIdentity {
	t.Helper()

	identity, err := (&ExternalIdentityRepository{}).GetIdentity(context.Background(), provider, providerUserID)
	require.NoError(t, err)

	return identity
}
