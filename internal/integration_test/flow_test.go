package integrationtest

import (
	"context"
	"net/http/httptest"
	"testing"

	http_analytics "github.com/burningsawals/core/internal/delivery/http/analytics"
	http_auth "github.com/burningsawals/core/internal/delivery/http/auth"
	http_catalog "github.com/burningsawals/core/internal/delivery/http/catalog"
	http_init "github.com/burningsawals/core/internal/delivery/http/init"
	http_auth_middleware "github.com/burningsawals/core/internal/delivery/http/middleware/auth"
	api_client "github.com/burningsawals/core/internal/infra/api"
	"github.com/burningsawals/core/internal/model"
	service_otp "github.com/burningsawals/core/internal/service/otp"
	service_ratelimit "github.com/burningsawals/core/internal/service/ratelimit"
	storage_memory "github.com/burningsawals/core/internal/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FlowIntegrationSuite drives the real HTTP stack end to end: the assembled
// gin engine behind httptest, the API client in front, memory stores behind.
type FlowIntegrationSuite struct {
	suite.Suite
}

type stack struct {
	client  *api_client.Client
	codes   *storage_memory.KV
	catalog *storage_memory.Catalog
	ctx     context.Context
}

func initStack(t provider.T) *stack {
	gin.SetMode(gin.TestMode)

	catalog := storage_memory.NewCatalog()
	users := storage_memory.NewUsers()
	interactions := storage_memory.NewInteractions(catalog, users)
	codes := storage_memory.NewKV()
	sessions := storage_memory.NewKV()
	counters := storage_memory.NewKV()

	otpService := service_otp.New(codes, sessions, 0, 0)
	limiter := service_ratelimit.New(counters, 3, 0)
	authMW := http_auth_middleware.New(otpService)

	pool := http_init.NewControllerPool()
	pool.Add(http_auth.New(otpService, users, limiter))
	pool.Add(http_catalog.New(catalog))
	pool.Add(http_analytics.New(interactions, authMW))
	pool.Register()

	srv := httptest.NewServer(pool.Engine())
	t.Cleanup(srv.Close)

	return &stack{
		client:  api_client.New(srv.URL + "/api/v1"),
		codes:   codes,
		catalog: catalog,
		ctx:     context.Background(),
	}
}

// issuedCode reads the pending OTP straight from the code cache, standing in
// for the SMS or email the user would receive.
func (s *stack) issuedCode(t provider.T, identifier string) string {
	code, err := s.codes.Get(identifier)
	require.NoError(t, err)
	require.NotEmpty(t, code)
	return code
}

func (s *stack) login(t provider.T, identifier, userName string) model.Credentials {
	_, err := s.client.SendOTP(s.ctx, model.ChannelPhone, identifier, "")
	require.NoError(t, err)

	creds, err := s.client.VerifyOTP(s.ctx, model.ChannelPhone, identifier, s.issuedCode(t, identifier), userName)
	require.NoError(t, err)
	require.NotEmpty(t, creds.Token)

	s.client.SetToken(creds.Token)
	return creds
}

func (suite *FlowIntegrationSuite) TestRegistrationAndLogin(t provider.T) {
	s := initStack(t)

	ticket, err := s.client.SendOTP(s.ctx, model.ChannelPhone, "+15550001122", "")
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.OTPID)
	assert.False(t, ticket.IsExistingUser)

	check, err := s.client.CheckUsername(s.ctx, "sawal_fan")
	require.NoError(t, err)
	assert.True(t, check.Available)

	creds, err := s.client.VerifyOTP(s.ctx, model.ChannelPhone, "+15550001122", s.issuedCode(t, "+15550001122"), "sawal_fan")
	require.NoError(t, err)
	assert.True(t, creds.User.IsNewUser)
	assert.Equal(t, "sawal_fan", creds.User.UserName)

	// The name is taken from now on.
	check, err = s.client.CheckUsername(s.ctx, "sawal_fan")
	require.NoError(t, err)
	assert.False(t, check.Available)

	// Second login with the same identifier is a returning user.
	ticket, err = s.client.SendOTP(s.ctx, model.ChannelPhone, "+15550001122", "")
	require.NoError(t, err)
	assert.True(t, ticket.IsExistingUser)

	returning, err := s.client.VerifyOTP(s.ctx, model.ChannelPhone, "+15550001122", s.issuedCode(t, "+15550001122"), "")
	require.NoError(t, err)
	assert.Equal(t, creds.User.UserID, returning.User.UserID)
	assert.False(t, returning.User.IsNewUser)
}

func (suite *FlowIntegrationSuite) TestWrongOTPIsUnauthorized(t provider.T) {
	s := initStack(t)

	_, err := s.client.SendOTP(s.ctx, model.ChannelPhone, "+15550001122", "")
	require.NoError(t, err)

	_, err = s.client.VerifyOTP(s.ctx, model.ChannelPhone, "+15550001122", "999999x", "name")
	assert.ErrorIs(t, err, api_client.ErrUnauthorized)
}

func (suite *FlowIntegrationSuite) TestSendOTPRateLimit(t provider.T) {
	s := initStack(t)

	for i := 0; i < 3; i++ {
		_, err := s.client.SendOTP(s.ctx, model.ChannelPhone, "+15550009999", "")
		require.NoError(t, err)
	}

	_, err := s.client.SendOTP(s.ctx, model.ChannelPhone, "+15550009999", "")
	assert.ErrorIs(t, err, api_client.ErrRateLimited)

	// Other identifiers keep their own budget.
	_, err = s.client.SendOTP(s.ctx, model.ChannelPhone, "+15550001111", "")
	assert.NoError(t, err)
}

func (suite *FlowIntegrationSuite) TestCatalogCRUD(t provider.T) {
	s := initStack(t)

	qt, err := s.client.CreateQuestionType(s.ctx, "icebreakers")
	require.NoError(t, err)

	g, err := s.client.CreateGenre(s.ctx, "travel", qt.TypeID)
	require.NoError(t, err)

	q, err := s.client.CreateQuestion(s.ctx, model.QuestionInput{
		Question: "window or aisle",
		Prompt:   "and why",
		GenreIDs: []int64{g.GenreID},
	})
	require.NoError(t, err)

	types, err := s.client.QuestionTypes(s.ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Len(t, types[0].Genres, 1)

	byGenre, err := s.client.QuestionsByGenre(s.ctx, g.GenreID)
	require.NoError(t, err)
	require.Len(t, byGenre, 1)
	assert.Equal(t, q.QuestionID, byGenre[0].QuestionID)

	require.NoError(t, s.client.RenameGenre(s.ctx, g.GenreID, "trips"))
	renamed, err := s.client.Genre(s.ctx, g.GenreID)
	require.NoError(t, err)
	assert.Equal(t, "trips", renamed.Name)

	require.NoError(t, s.client.DeleteQuestion(s.ctx, q.QuestionID))
	err = s.client.DeleteQuestion(s.ctx, q.QuestionID)
	assert.ErrorIs(t, err, api_client.ErrNotFound)
}

func (suite *FlowIntegrationSuite) TestDuplicateTypeNameConflicts(t provider.T) {
	s := initStack(t)

	_, err := s.client.CreateQuestionType(s.ctx, "icebreakers")
	require.NoError(t, err)

	_, err = s.client.CreateQuestionType(s.ctx, "Icebreakers")
	require.Error(t, err)

	var apiErr *api_client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
}

func (suite *FlowIntegrationSuite) TestInteractionsNeedASession(t provider.T) {
	s := initStack(t)

	qt, err := s.client.CreateQuestionType(s.ctx, "icebreakers")
	require.NoError(t, err)
	g, err := s.client.CreateGenre(s.ctx, "travel", qt.TypeID)
	require.NoError(t, err)
	q, err := s.client.CreateQuestion(s.ctx, model.QuestionInput{
		Question: "q", Prompt: "p", GenreIDs: []int64{g.GenreID},
	})
	require.NoError(t, err)

	err = s.client.AddInteraction(s.ctx, q.QuestionID, model.ReactionLike)
	assert.ErrorIs(t, err, api_client.ErrUnauthorized)

	s.client.SetToken("stale-token")
	err = s.client.AddInteraction(s.ctx, q.QuestionID, model.ReactionLike)
	assert.ErrorIs(t, err, api_client.ErrUnauthorized)
}

func (suite *FlowIntegrationSuite) TestReactionFlowThroughTheStack(t provider.T) {
	s := initStack(t)

	qt, err := s.client.CreateQuestionType(s.ctx, "icebreakers")
	require.NoError(t, err)
	g, err := s.client.CreateGenre(s.ctx, "travel", qt.TypeID)
	require.NoError(t, err)
	q, err := s.client.CreateQuestion(s.ctx, model.QuestionInput{
		Question: "q", Prompt: "p", GenreIDs: []int64{g.GenreID},
	})
	require.NoError(t, err)

	s.login(t, "+15550001122", "sawal_fan")

	require.NoError(t, s.client.AddInteraction(s.ctx, q.QuestionID, model.ReactionSuperLike))

	top, err := s.client.TopQuestions(s.ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].Likes)

	stats, err := s.client.UserStats(s.ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "sawal_fan", stats[0].UserName)
	assert.Equal(t, 1, stats[0].SuperLikes)

	require.NoError(t, s.client.RemoveInteraction(s.ctx, q.QuestionID, model.ReactionSuperLike))

	top, err = s.client.TopQuestions(s.ctx)
	require.NoError(t, err)
	assert.Empty(t, top)

	health, err := s.client.Health(s.ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
}

func TestFlowIntegrationSuite(t *testing.T) {
	suite.RunSuite(t, new(FlowIntegrationSuite))
}
