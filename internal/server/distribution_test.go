package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	basketdomain "github.com/salespool/leadrotor/internal/basket/domain"
	"github.com/salespool/leadrotor/internal/companyctx"
	"github.com/salespool/leadrotor/internal/config"
	distributiondomain "github.com/salespool/leadrotor/internal/distribution/domain"
	ledgerdomain "github.com/salespool/leadrotor/internal/ledger/domain"
	rotationdomain "github.com/salespool/leadrotor/internal/rotation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDistributionService struct {
	lastCompanyID int64
	lastRequest   distributiondomain.DistributeRequest
	response      distributiondomain.DistributeResponse
	err           error
}

func (f *fakeDistributionService) Distribute(ctx context.Context, req distributiondomain.DistributeRequest) (distributiondomain.DistributeResponse, error) {
	f.lastCompanyID, _ = companyctx.CompanyIDFromContext(ctx)
	f.lastRequest = req
	return f.response, f.err
}

func (f *fakeDistributionService) BulkDistribute(ctx context.Context, req distributiondomain.BulkDistributeRequest) (distributiondomain.BulkDistributeResponse, error) {
	return distributiondomain.BulkDistributeResponse{Distributed: req.Count}, f.err
}

type fakeRotationService struct {
	resetResponse rotationdomain.ManualResetResponse
	err           error
}

func (f *fakeRotationService) CheckRoundCompletion(ctx context.Context, tx *gorm.DB, companyID, customerID int64) (bool, error) {
	return false, nil
}

func (f *fakeRotationService) GetCandidates(ctx context.Context, req rotationdomain.CandidatesRequest) (rotationdomain.CandidatesResponse, error) {
	return rotationdomain.CandidatesResponse{}, f.err
}

func (f *fakeRotationService) ManualReset(ctx context.Context, req rotationdomain.ManualResetRequest) (rotationdomain.ManualResetResponse, error) {
	return f.resetResponse, f.err
}

func (f *fakeRotationService) GetResetSummary(ctx context.Context) ([]ledgerdomain.SummaryRow, error) {
	return nil, f.err
}

func (f *fakeRotationService) GetAssignHistory(ctx context.Context, customerID int64) ([]ledgerdomain.HistoryRow, error) {
	return nil, f.err
}

type fakeBasketService struct{}

func (f *fakeBasketService) Overview(ctx context.Context, req basketdomain.OverviewRequest) (basketdomain.OverviewResponse, error) {
	return basketdomain.OverviewResponse{}, nil
}

func (f *fakeBasketService) ResolveTarget(ctx context.Context, companyID int64, sourceBasketKey, targetBasketKey string) (*basketdomain.BasketConfig, error) {
	return nil, nil
}

func newTestServer(t *testing.T, dist distributiondomain.Service, rot rotationdomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine:          engine,
		cfg:             config.Config{},
		distributionSvc: dist,
		rotationSvc:     rot,
		basketSvc:       &fakeBasketService{},
	}
	s.registerAPIRoutes()
	return s
}

func TestDistributeEndpoint(t *testing.T) {
	fake := &fakeDistributionService{
		response: distributiondomain.DistributeResponse{
			SuccessIDs:   []int64{500},
			FailedIDs:    []int64{},
			AgentStats:   map[int64]int{10: 1},
			TotalSuccess: 1,
		},
	}
	s := newTestServer(t, fake, &fakeRotationService{})

	body := []byte(`{"assignments":[{"customer_id":500,"agent_id":10}],"triggered_by":"supervisor:7"}`)

	t.Run("requires company scope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/distribution/distribute", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("applies the batch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/distribution/distribute", bytes.NewReader(body))
		req.Header.Set(HeaderCompany, "1")
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(1), fake.lastCompanyID)
		require.Len(t, fake.lastRequest.Pairs, 1)
		assert.Equal(t, "supervisor:7", fake.lastRequest.TriggeredBy)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["ok"])
		assert.Equal(t, float64(1), resp["total_success"])
		assert.Contains(t, resp, "success_ids")
		assert.Contains(t, resp, "failed_ids")
		assert.Contains(t, resp, "agent_stats")
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/distribution/distribute", bytes.NewReader([]byte(`{"assignments":[]}`)))
		req.Header.Set(HeaderCompany, "1")
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/distribution/distribute", bytes.NewReader([]byte(`{`)))
		req.Header.Set(HeaderCompany, "1")
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestManualResetEndpoint(t *testing.T) {
	rot := &fakeRotationService{
		resetResponse: rotationdomain.ManualResetResponse{TotalReset: 3, LogDeleted: 6},
	}
	s := newTestServer(t, &fakeDistributionService{}, rot)

	req := httptest.NewRequest(http.MethodPost, "/v1/rotation/manual-reset",
		bytes.NewReader([]byte(`{"mode":"selected","customer_ids":[500,501,502]}`)))
	req.Header.Set(HeaderCompany, "1")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, float64(3), resp["total_reset"])
	assert.Equal(t, float64(6), resp["log_deleted"])
}

func TestRotationErrorsMapToBadRequest(t *testing.T) {
	rot := &fakeRotationService{err: rotationdomain.ErrInvalidMode}
	s := newTestServer(t, &fakeDistributionService{}, rot)

	req := httptest.NewRequest(http.MethodPost, "/v1/rotation/manual-reset",
		bytes.NewReader([]byte(`{"mode":"bogus"}`)))
	req.Header.Set(HeaderCompany, "1")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
}

func TestHistoryEndpointValidatesCustomerID(t *testing.T) {
	s := newTestServer(t, &fakeDistributionService{}, &fakeRotationService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/rotation/history?customer_id=abc", nil)
	req.Header.Set(HeaderCompany, "1")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
