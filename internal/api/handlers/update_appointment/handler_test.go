package update_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BECOF-Cons/becof-website-sub000/internal/api/middleware"
	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/appointments"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/appointments/models"
	cancelAppointment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/cancel_appointment"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppointmentResponse), args.Error(1)
}

func (m *mockService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateRequest) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppointmentResponse), args.Error(1)
}

type mockCanceler struct {
	mock.Mock
}

func (m *mockCanceler) Execute(ctx context.Context, req *cancelAppointment.Request) (*cancelAppointment.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cancelAppointment.Response), args.Error(1)
}

func serve(svc *mockService, canceler *mockCanceler, id, body, actor string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{id}", NewHandler(svc, canceler, logger.NewNop()).Handle).
		Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id, strings.NewReader(body))
	if actor != "" {
		req = req.WithContext(middleware.WithActor(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ConfirmAndNotes(t *testing.T) {
	svc, canceler := new(mockService), new(mockCanceler)
	id := uuid.New()

	svc.On("Update", mock.Anything, id, mock.MatchedBy(func(req *models.UpdateRequest) bool {
		return req.Actor == "sana" && *req.Status == "CONFIRMED" && *req.Notes == "virement reçu"
	})).Return(&models.AppointmentResponse{ID: id.String(), Status: "CONFIRMED"}, nil)

	rec := serve(svc, canceler, id.String(), `{"status":"CONFIRMED","notes":"virement reçu"}`, "sana")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CONFIRMED", resp.Status)
	canceler.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	svc.AssertExpectations(t)
}

func TestHandler_CancellationDelegates(t *testing.T) {
	id := uuid.New()

	t.Run("status only", func(t *testing.T) {
		svc, canceler := new(mockService), new(mockCanceler)
		canceler.On("Execute", mock.Anything, mock.MatchedBy(func(req *cancelAppointment.Request) bool {
			return req.AppointmentID == id && *req.Actor == "sana"
		})).Return(&cancelAppointment.Response{AppointmentID: id, Status: domain.AppointmentCancelled}, nil)
		svc.On("GetByID", mock.Anything, id).Return(&models.AppointmentResponse{ID: id.String(), Status: "CANCELLED"}, nil)

		rec := serve(svc, canceler, id.String(), `{"status":"cancelled"}`, "sana")

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		canceler.AssertExpectations(t)
	})

	t.Run("with notes", func(t *testing.T) {
		svc, canceler := new(mockService), new(mockCanceler)
		canceler.On("Execute", mock.Anything, mock.Anything).
			Return(&cancelAppointment.Response{AppointmentID: id, Status: domain.AppointmentCancelled}, nil)
		svc.On("Update", mock.Anything, id, mock.MatchedBy(func(req *models.UpdateRequest) bool {
			return req.Status == nil && *req.Notes == "client request"
		})).Return(&models.AppointmentResponse{ID: id.String(), Status: "CANCELLED"}, nil)

		rec := serve(svc, canceler, id.String(), `{"status":"CANCELLED","notes":"client request"}`, "sana")

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		svc, canceler := new(mockService), new(mockCanceler)
		canceler.On("Execute", mock.Anything, mock.Anything).Return(nil, cancelAppointment.ErrCannotCancel)

		rec := serve(svc, canceler, id.String(), `{"status":"CANCELLED"}`, "sana")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"illegal transition", appointments.ErrInvalidTransition, http.StatusConflict},
		{"invalid input", appointments.ErrInvalidInput, http.StatusBadRequest},
		{"internal", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, canceler := new(mockService), new(mockCanceler)
			svc.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(svc, canceler, uuid.NewString(), `{"status":"COMPLETED"}`, "sana")

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandler_RequiresActor(t *testing.T) {
	svc, canceler := new(mockService), new(mockCanceler)

	rec := serve(svc, canceler, uuid.NewString(), `{"status":"CONFIRMED"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
