package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"creditrisk/predictor/internal/inference"
	"creditrisk/predictor/internal/models"
	"creditrisk/predictor/internal/repositories"
	"creditrisk/predictor/internal/services"
)

type memoryRepository struct {
	predictions []models.Prediction
}

func (r *memoryRepository) Create(_ context.Context, p *models.Prediction) error {
	r.predictions = append([]models.Prediction{*p}, r.predictions...)
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Prediction, error) {
	for i := range r.predictions {
		if r.predictions[i].ID == id {
			return &r.predictions[i], nil
		}
	}
	return nil, repositories.ErrPredictionNotFound
}

func (r *memoryRepository) ListRecent(_ context.Context, limit int) ([]models.Prediction, error) {
	if limit > len(r.predictions) {
		limit = len(r.predictions)
	}
	return r.predictions[:limit], nil
}

func (r *memoryRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	kept := r.predictions[:0]
	for _, p := range r.predictions {
		if !p.CreatedAt.Before(cutoff) {
			kept = append(kept, p)
		}
	}
	deleted := int64(len(r.predictions) - len(kept))
	r.predictions = kept
	return deleted, nil
}

func newTestApp(t *testing.T, repo repositories.PredictionRepository) *fiber.App {
	t.Helper()

	assets, err := inference.LoadAssets(inference.AssetConfig{
		Dir:         "../../assets",
		ModelFile:   "extra_trees_credit_model.json",
		GoodClassID: inference.DefaultGoodClassID,
	})
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	svc := services.NewPredictorService(assets, repo, log)
	return NewApp(AppConfig{HistoryLimit: 20}, svc, log)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHandlePredict_Good(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/predict", models.DefaultApplicant())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "GOOD", body["verdict"])
	assert.EqualValues(t, 1, body["class_id"])
	assert.EqualValues(t, 1000, body["credit_amount"])
	assert.EqualValues(t, 12, body["duration"])

	good := body["probability_good"].(float64)
	bad := body["probability_bad"].(float64)
	assert.InDelta(t, 1.0, good+bad, 1e-12)

	encoded := body["encoded_input"].([]interface{})
	require.Len(t, encoded, 8)
	assert.Equal(t, "Age", encoded[0].(map[string]interface{})["column"])
}

func TestHandlePredict_Bad(t *testing.T) {
	app := newTestApp(t, nil)

	a := models.DefaultApplicant()
	a.CreditAmount = 50000
	a.Duration = 60

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/predict", a)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "BAD", body["verdict"])
}

func TestHandlePredict_UnknownCategory(t *testing.T) {
	app := newTestApp(t, nil)

	a := models.DefaultApplicant()
	a.Housing = "castle"

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/predict", a)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, services.ReasonUnknownCategory, body["reason"])
	assert.Nil(t, body["verdict"])
}

func TestHandlePredict_OutOfRange(t *testing.T) {
	app := newTestApp(t, nil)

	tests := map[string]func(a *models.Applicant){
		"too young":     func(a *models.Applicant) { a.Age = 17 },
		"too old":       func(a *models.Applicant) { a.Age = 81 },
		"job level":     func(a *models.Applicant) { a.Job = 4 },
		"zero credit":   func(a *models.Applicant) { a.CreditAmount = 0 },
		"zero duration": func(a *models.Applicant) { a.Duration = 0 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			a := models.DefaultApplicant()
			mutate(&a)

			resp, body := doJSON(t, app, http.MethodPost, "/api/v1/predict", a)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "invalid_input", body["reason"])
			assert.NotEmpty(t, body["details"])
		})
	}
}

func TestHandlePredict_InvalidPayload(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(`{"age": "thirty"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleModelInfo(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/model", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["probabilities"])
	assert.EqualValues(t, 1, body["good_class_id"])
	assert.Len(t, body["features"], 8)
}

func TestHistory_Disabled(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/predictions", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "history_disabled", body["reason"])
}

func TestHistory_RoundTrip(t *testing.T) {
	app := newTestApp(t, &memoryRepository{})

	_, created := doJSON(t, app, http.MethodPost, "/api/v1/predict", models.DefaultApplicant())
	id := created["id"].(string)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/predictions/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "GOOD", body["verdict"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/predictions?limit=5", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["count"])
}

func TestHistory_NotFoundAndBadID(t *testing.T) {
	app := newTestApp(t, &memoryRepository{})

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/predictions/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/predictions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/predictions?limit=1000", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, nil)

	doJSON(t, app, http.MethodPost, "/api/v1/predict", models.DefaultApplicant())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "credit_risk_predictions_total")
}

func postForm(t *testing.T, app *fiber.App, values url.Values) (int, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func formValues(a models.Applicant) url.Values {
	return url.Values{
		"age":              {"30"},
		"sex":              {a.Sex},
		"job":              {"1"},
		"housing":          {a.Housing},
		"saving_accounts":  {a.SavingAccounts},
		"checking_account": {a.CheckingAccount},
		"credit_amount":    {"12500"},
		"duration":         {"12"},
	}
}

func TestFormPage(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	page := string(raw)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, page, `name="saving_accounts"`)
	assert.Contains(t, page, `<option value="quite rich">quite rich</option>`)
	assert.NotContains(t, page, `id="verdict"`)
}

func TestFormSubmit_Result(t *testing.T) {
	app := newTestApp(t, nil)

	status, page := postForm(t, app, formValues(models.DefaultApplicant()))

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, `id="verdict"`)
	assert.Contains(t, page, "12,500")
	assert.Contains(t, page, `id="probability"`)
	assert.Contains(t, page, "<progress")
	assert.Contains(t, page, "<th>Checking account</th>")
}

func TestFormSubmit_UnknownCategoryShowsError(t *testing.T) {
	app := newTestApp(t, nil)

	values := formValues(models.DefaultApplicant())
	values.Set("sex", "robot")

	status, page := postForm(t, app, values)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, `id="error"`)
	assert.NotContains(t, page, `id="verdict"`)
	assert.Contains(t, page, `<form method="post" action="/">`)
}

func TestFormSubmit_OutOfRange(t *testing.T) {
	app := newTestApp(t, nil)

	values := formValues(models.DefaultApplicant())
	values.Set("age", "12")

	status, page := postForm(t, app, values)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, page, `id="error"`)
}

func TestFormSubmit_MissingFields(t *testing.T) {
	app := newTestApp(t, nil)

	status, page := postForm(t, app, url.Values{"housing": {"rent"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, page, `id="error"`)
	assert.NotContains(t, page, `id="verdict"`)

	values := formValues(models.DefaultApplicant())
	values.Del("sex")

	status, page = postForm(t, app, values)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, page, `id="error"`)
	assert.NotContains(t, page, `id="verdict"`)
}

func TestNewResultView_ClampsProgress(t *testing.T) {
	p := 1.2
	o := &services.PredictionOutcome{
		Applicant:  models.DefaultApplicant(),
		Prediction: inference.Prediction{Verdict: inference.VerdictGood, ProbabilityGood: &p},
	}

	v := newResultView(o)
	assert.True(t, v.Good)
	assert.Equal(t, 1.0, v.Progress)
	assert.Equal(t, "120.0%", v.ProbabilityGood)
	assert.Equal(t, "1,000", v.CreditAmount)
}
