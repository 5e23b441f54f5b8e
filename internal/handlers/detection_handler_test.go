package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"budget-engine/internal/database"
	"budget-engine/internal/models"
	"budget-engine/internal/stores"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type DetectionHandlerTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	db      *database.DB
	store   stores.DetectionStoreInterface
	handler *DetectionHandler
}

func TestDetectionHandlerSuite(t *testing.T) {
	suite.Run(t, new(DetectionHandlerTestSuite))
}

func (s *DetectionHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.echo.Validator = NewValidator()
	s.db = database.SetupTestDB(s.T())
	s.store = stores.NewDetectionStore(s.db.DB)
	s.handler = NewDetectionHandler(s.store, slog.Default())
}

func (s *DetectionHandlerTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *DetectionHandlerTestSuite) seedDuplicate(userID string, confirmed bool) *models.DuplicateSubscriptionRecord {
	record := &models.DuplicateSubscriptionRecord{
		UserID:          userID,
		Tx1Hash:         "hash-1",
		Tx2Hash:         "hash-2",
		Merchant:        "NETFLIX",
		SimilarityScore: 0.93,
	}
	if confirmed {
		record.Confirm()
	}
	s.Require().NoError(s.db.Create(record).Error)
	return record
}

func (s *DetectionHandlerTestSuite) getContext(path, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path+"?user_id="+userID, nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.Set(TraceIDContextKey, "test-trace-id")
	return c, rec
}

func (s *DetectionHandlerTestSuite) confirmContext(id string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detections/duplicates/"+id+"/confirm", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	c.Set(TraceIDContextKey, "test-trace-id")
	return c, rec
}

func (s *DetectionHandlerTestSuite) TestListDuplicates() {
	s.seedDuplicate("user-1", false)
	s.seedDuplicate("user-1", false)
	s.seedDuplicate("user-2", false)

	c, rec := s.getContext("/api/v1/detections/duplicates", "user-1")
	s.NoError(s.handler.ListDuplicates(c))

	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Duplicates []models.DuplicateSubscriptionRecord `json:"duplicates"`
		Count      int                                  `json:"count"`
	}
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(2, resp.Count)
	for _, d := range resp.Duplicates {
		s.Equal("user-1", d.UserID)
	}
}

func (s *DetectionHandlerTestSuite) TestListTransfers() {
	pair := models.TransferPairRecord{
		UserID:                   "user-1",
		SourceAccountID:          "acc-1",
		DestinationAccountID:     "acc-2",
		SourceTransactionID:      "tx-1",
		DestinationTransactionID: "tx-2",
	}
	s.Require().NoError(s.db.Create(&pair).Error)

	c, rec := s.getContext("/api/v1/detections/transfers", "user-1")
	s.NoError(s.handler.ListTransfers(c))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "acc-1")
	s.Contains(rec.Body.String(), `"count":1`)
}

func (s *DetectionHandlerTestSuite) TestConfirmDuplicate() {
	record := s.seedDuplicate("user-1", false)

	c, rec := s.confirmContext(record.ID.String())
	s.NoError(s.handler.ConfirmDuplicate(c))

	s.Equal(http.StatusOK, rec.Code)

	var confirmed models.DuplicateSubscriptionRecord
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &confirmed))
	s.True(confirmed.UserConfirmed)
	s.NotNil(confirmed.ConfirmedAt)
}

func (s *DetectionHandlerTestSuite) TestConfirmDuplicate_Twice() {
	record := s.seedDuplicate("user-1", true)

	c, rec := s.confirmContext(record.ID.String())
	s.NoError(s.handler.ConfirmDuplicate(c))

	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "DETECTION_002")
}

func (s *DetectionHandlerTestSuite) TestConfirmDuplicate_NotFound() {
	c, rec := s.confirmContext(uuid.NewString())
	s.NoError(s.handler.ConfirmDuplicate(c))

	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "DETECTION_001")
}

func (s *DetectionHandlerTestSuite) TestConfirmDuplicate_InvalidID() {
	c, _ := s.confirmContext("not-a-uuid")
	s.Error(s.handler.ConfirmDuplicate(c))
}
