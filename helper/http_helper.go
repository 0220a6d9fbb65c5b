package helper

import (
	"math"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"blog-api/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	CodeValidation       = "validation_error"
	CodeNotAuthenticated = "not_authenticated"
	CodePermissionDenied = "permission_denied"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeRateLimited      = "rate_limited"
	CodeServerError      = "server_error"

	msgServerError = "An internal server error occurred."
)

// HTTPHelper binds requests and writes every response body.
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     *zap.Logger
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success   bool                `json:"success"`
	ErrorCode string              `json:"error_code"`
	Detail    string              `json:"detail"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

func NewHTTPHelper(log *zap.Logger) *HTTPHelper {
	if log == nil {
		log = zap.NewNop()
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(validate, trans)
	_ = validate.RegisterTranslation("oneof", trans, func(ut ut.Translator) error {
		return ut.Add("oneof", "{0} must be one of [{1}]", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("oneof", fe.Field(), fe.Param())
		return t
	})

	return &HTTPHelper{Validate: validate, Translator: trans, Logger: log}
}

// GetStatusCode maps an application error to its HTTP status and error code.
func (u *HTTPHelper) GetStatusCode(err error) (int, string) {
	var (
		validation   models.ErrorValidation
		unauthorized models.ErrorUnauthorized
		forbidden    models.ErrorForbidden
		notFound     models.ErrorNotFound
		conflict     models.ErrorConflict
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, CodeValidation
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, CodeNotAuthenticated
	case errors.As(err, &forbidden):
		return http.StatusForbidden, CodePermissionDenied
	case errors.As(err, &notFound):
		return http.StatusNotFound, CodeNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeServerError
	}
}

// SendAppError writes err with the status its type implies. Unknown errors
// are logged and hidden behind a generic message.
func (u *HTTPHelper) SendAppError(c *gin.Context, err error) {
	status, code := u.GetStatusCode(err)
	body := ErrorResponse{ErrorCode: code, Detail: err.Error()}

	var validation models.ErrorValidation
	if errors.As(err, &validation) {
		body.Detail = validation.Message
		if len(validation.Fields) > 0 {
			body.Errors = validation.Fields
		}
	}

	if status == http.StatusInternalServerError {
		u.Logger.Error("request failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Uint("user_id", c.GetUint("user_id")),
		)
		body.Detail = msgServerError
	}

	c.AbortWithStatusJSON(status, body)
}

// SendError writes an error body with an explicit status.
func (u *HTTPHelper) SendError(c *gin.Context, status int, code, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{ErrorCode: code, Detail: detail})
}

func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, detail string) {
	u.SendError(c, http.StatusUnauthorized, CodeNotAuthenticated, detail)
}

func (u *HTTPHelper) SendNotFoundError(c *gin.Context, detail string) {
	u.SendError(c, http.StatusNotFound, CodeNotFound, detail)
}

func (u *HTTPHelper) SendServerError(c *gin.Context) {
	u.SendError(c, http.StatusInternalServerError, CodeServerError, msgServerError)
}

// SendValidationError writes translated validator messages keyed by json field name.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	u.SendAppError(c, u.translate(validationErrors))
}

func (u *HTTPHelper) translate(validationErrors validator.ValidationErrors) models.ErrorValidation {
	verr := models.NewValidationError("Invalid input.")
	for _, fe := range validationErrors {
		verr.Add(fieldKey(fe), fe.Translate(u.Translator))
	}
	return *verr
}

// fieldKey strips the struct name from the namespace, keeping nested paths
// such as tags[0].
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// BindJSON decodes the body into dst and runs struct validation. On failure
// the error response has already been written.
func (u *HTTPHelper) BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		u.SendAppError(c, models.ErrorValidation{Message: "JSON parse error - " + err.Error()})
		return false
	}
	return u.validate(c, dst)
}

// BindQuery is BindJSON for query strings.
func (u *HTTPHelper) BindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		u.SendAppError(c, models.ErrorValidation{Message: "Invalid query parameters - " + err.Error()})
		return false
	}
	return u.validate(c, dst)
}

func (u *HTTPHelper) validate(c *gin.Context, dst interface{}) bool {
	err := u.Validate.Struct(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		u.SendValidationError(c, verrs)
		return false
	}
	u.SendAppError(c, err)
	return false
}

// ParseID reads a positive numeric path parameter.
func (u *HTTPHelper) ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		u.SendNotFoundError(c, "Not found.")
		return 0, false
	}
	return uint(id), true
}

func (u *HTTPHelper) SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

func (u *HTTPHelper) SendNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// GetPagingUrl returns the current URL with page replaced, or nil when page
// is outside [1, totalPages].
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, totalPages int) *string {
	if page < 1 || page > totalPages {
		return nil
	}
	r := c.Request
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	query := url.Values{}
	for k, v := range r.URL.Query() {
		query[k] = v
	}
	query.Set("page", strconv.Itoa(page))
	link := scheme + "://" + r.Host + r.URL.Path + "?" + query.Encode()
	return &link
}

// GeneratePaging builds the list envelope. A page past the last one is a 404,
// except page 1 of an empty result.
func (u *HTTPHelper) GeneratePaging(c *gin.Context, params models.PageParams, totalRecord int64, results interface{}) (*models.Paginated, error) {
	params = params.Normalized()
	totalPages := int(math.Ceil(float64(totalRecord) / float64(params.PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}
	if params.Page > totalPages {
		return nil, models.ErrorNotFound{Message: "Invalid page."}
	}

	return &models.Paginated{
		Count:       totalRecord,
		TotalPages:  totalPages,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		Next:        u.GetPagingUrl(c, params.Page+1, totalPages),
		Previous:    u.GetPagingUrl(c, params.Page-1, totalPages),
		HasNext:     params.Page < totalPages,
		HasPrevious: params.Page > 1,
		Results:     results,
	}, nil
}

// SendPage writes a paginated list or the out-of-range error.
func (u *HTTPHelper) SendPage(c *gin.Context, params models.PageParams, totalRecord int64, results interface{}) {
	page, err := u.GeneratePaging(c, params, totalRecord, results)
	if err != nil {
		u.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
