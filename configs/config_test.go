package config

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/card-services/internal/apperr"
)

func TestCreateUniqueInstance(t *testing.T) {
	id := CreateUniqueInstance("card")
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, CreateUniqueInstance("card"))
}

func TestCustomLoggerMiddlewareKeepsStatus(t *testing.T) {
	h := CustomLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://cards.example")

	h := CORS().Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/v1/commands", nil)
	req.Header.Set("Origin", "https://cards.example")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://cards.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestEnvError(t *testing.T) {
	type cfg struct {
		Port string `env:"SOME_PORT,required,notEmpty"`
	}

	_, err := env.ParseAsWithOptions[cfg](env.Options{Environment: map[string]string{}})
	require.Error(t, err)
	assert.EqualError(t, EnvError(err), "EnvVarEmptyError: Cannot find environment variable: SOME_PORT")

	_, err = env.ParseAsWithOptions[cfg](env.Options{Environment: map[string]string{"SOME_PORT": ""}})
	require.Error(t, err)
	assert.EqualError(t, EnvError(err), "EnvVarEmptyError: Cannot find environment variable: SOME_PORT")

	assert.Equal(t, apperr.EnvVarEmpty, apperr.KindOf(EnvError(errors.New("boom"))))
}
