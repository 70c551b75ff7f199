package healthdelivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/pkg/web"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name           string
		pingErr        error
		wantStatusCode int
		wantStatus     status
	}{
		{
			name:           "Up",
			wantStatusCode: http.StatusOK,
			wantStatus:     status{Status: "UP", Database: "UP"},
		},
		{
			name:           "DatabaseDown",
			pingErr:        errors.New("dial tcp: connection refused"),
			wantStatusCode: http.StatusServiceUnavailable,
			wantStatus:     status{Status: "DOWN", Database: "DOWN"},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			db := NewMockPinger(ctrl)
			db.EXPECT().PingContext(gomock.Any()).Times(1).Return(tc.pingErr)

			server := gin.New()
			server.GET("/health", NewHandler(db, time.Second).Get)

			req, err := http.NewRequest(http.MethodGet, "/health", nil)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			res := web.Response{Data: &status{}}
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
			require.Equal(t, tc.wantStatus, *res.Data.(*status))
		})
	}
}
