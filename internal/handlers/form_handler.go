package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"creditrisk/predictor/internal/inference"
	"creditrisk/predictor/internal/models"
	"creditrisk/predictor/internal/services"
	"creditrisk/predictor/internal/validation"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var amountPrinter = message.NewPrinter(language.English)

type formOptions struct {
	Sex             []string
	Housing         []string
	SavingAccounts  []string
	CheckingAccount []string
}

var options = formOptions{
	Sex:             models.SexOptions,
	Housing:         models.HousingOptions,
	SavingAccounts:  models.SavingAccountsOptions,
	CheckingAccount: models.CheckingAccountOptions,
}

type resultView struct {
	Good            bool
	CreditAmount    string
	Duration        int
	HasProbability  bool
	ProbabilityGood string
	Progress        float64
	Encoded         []inference.NamedValue
}

type pageData struct {
	Form    models.Applicant
	Options formOptions
	Result  *resultView
	Error   string
}

type FormHandler struct {
	predictor services.PredictorService
	log       *zap.Logger
}

func NewFormHandler(predictor services.PredictorService, log *zap.Logger) *FormHandler {
	return &FormHandler{
		predictor: predictor,
		log:       log,
	}
}

// HandleForm handles GET /
func (h *FormHandler) HandleForm(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, pageData{Form: models.DefaultApplicant()})
}

// HandleSubmit handles POST / from the form page. Missing fields are not
// filled in. Failures are shown in the result card; the form keeps the
// submitted values.
func (h *FormHandler) HandleSubmit(c *fiber.Ctx) error {
	var form models.Applicant
	if err := c.BodyParser(&form); err != nil {
		return h.render(c, fiber.StatusBadRequest, pageData{
			Form:  form,
			Error: "the form could not be read",
		})
	}

	if err := form.Validate(); err != nil {
		return h.render(c, fiber.StatusBadRequest, pageData{Form: form, Error: describeError(err)})
	}

	outcome, err := h.predictor.Predict(c.UserContext(), form)
	if err != nil {
		code, _ := statusFor(err)
		return h.render(c, code, pageData{Form: form, Error: describeError(err)})
	}

	return h.render(c, fiber.StatusOK, pageData{Form: form, Result: newResultView(outcome)})
}

func (h *FormHandler) render(c *fiber.Ctx, status int, data pageData) error {
	data.Options = options

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.log.Error("failed to render page", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func newResultView(o *services.PredictionOutcome) *resultView {
	v := &resultView{
		Good:         o.Prediction.Verdict == inference.VerdictGood,
		CreditAmount: amountPrinter.Sprintf("%d", o.Applicant.CreditAmount),
		Duration:     o.Applicant.Duration,
		Encoded:      o.Row.Named(),
	}

	if o.Prediction.HasProbability() {
		p := *o.Prediction.ProbabilityGood
		v.HasProbability = true
		v.ProbabilityGood = fmt.Sprintf("%.1f%%", p*100)
		v.Progress = min(max(p, 0.0), 1.0)
	}

	return v
}

func describeError(err error) string {
	var verr *validation.Error
	if errors.As(err, &verr) && len(verr.Errors) > 0 {
		fe := verr.Errors[0]
		return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}

	var uce *inference.UnknownCategoryError
	if errors.As(err, &uce) {
		return fmt.Sprintf("%q is not a known value for %s", uce.Label, uce.Field)
	}

	return err.Error()
}
